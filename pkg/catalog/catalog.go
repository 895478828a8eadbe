package catalog

// Family identifies the wire-protocol dialect a backend speaks.
// It is a closed tag: the translator dispatches on it with a switch,
// and adding a dialect means adding a value here plus one translator branch.
type Family string

const (
	// FamilyStandard is the chat/completions dialect shared by OpenAI and
	// OpenAI-compatible servers (Groq, OpenRouter, Mistral, Ollama, ...).
	FamilyStandard Family = "standard"

	// FamilyMessages is the messages dialect that hoists the system prompt
	// into a top-level field and embeds images as base64 source blocks
	// (Anthropic).
	FamilyMessages Family = "messages"
)

// Tier classifies how a backend is paid for and hosted.
type Tier string

const (
	// TierPaid backends bill per token against a vendor account.
	TierPaid Tier = "paid"

	// TierFree backends offer a no-cost tier, usually rate limited.
	TierFree Tier = "free"

	// TierLocal backends run on the user's own machine (Ollama, LM Studio).
	TierLocal Tier = "local"
)

// Definition describes a single known backend. Definitions are immutable:
// they are built once at package init and only ever read afterwards.
type Definition struct {
	// ID is the stable identifier used in configuration, fallback chains,
	// and health reports (e.g. "openai", "anthropic", "ollama").
	ID string

	// DisplayName is the human-readable name for UI surfaces.
	DisplayName string

	// Endpoint is the API root URL. The translator appends the family's
	// completion path segment to it.
	Endpoint string

	// Family is the wire dialect this backend speaks.
	Family Family

	// Tier classifies hosting and billing.
	Tier Tier

	// DefaultModel is used when the instance does not select a model.
	DefaultModel string

	// Models lists the model identifiers this backend is known to serve.
	Models []string

	// RequiresKey reports whether a credential must be configured before
	// the backend can be called. Local backends do not require one.
	RequiresKey bool

	// SupportsVision reports whether the backend accepts image parts.
	SupportsVision bool

	// RateLimitHint is an optional human-readable note about the
	// backend's rate limits, for display only.
	RateLimitHint string

	// ExtraHeaders are additional headers the backend wants on every
	// request. They never override headers the translator computes.
	ExtraHeaders map[string]string
}

// builtin is the static catalog, ordered by descending capability within
// each tier. The order here is only a presentation default; callers supply
// their own preference order when building a fallback chain.
var builtin = []Definition{
	{
		ID:             "anthropic",
		DisplayName:    "Anthropic",
		Endpoint:       "https://api.anthropic.com/v1",
		Family:         FamilyMessages,
		Tier:           TierPaid,
		DefaultModel:   "claude-sonnet-4-20250514",
		Models:         []string{"claude-sonnet-4-20250514", "claude-opus-4-20250514", "claude-3-5-haiku-20241022"},
		RequiresKey:    true,
		SupportsVision: true,
	},
	{
		ID:             "openai",
		DisplayName:    "OpenAI",
		Endpoint:       "https://api.openai.com/v1",
		Family:         FamilyStandard,
		Tier:           TierPaid,
		DefaultModel:   "gpt-4o",
		Models:         []string{"gpt-4o", "gpt-4o-mini", "gpt-4.1", "gpt-4.1-mini"},
		RequiresKey:    true,
		SupportsVision: true,
	},
	{
		ID:            "mistral",
		DisplayName:   "Mistral",
		Endpoint:      "https://api.mistral.ai/v1",
		Family:        FamilyStandard,
		Tier:          TierPaid,
		DefaultModel:  "mistral-large-latest",
		Models:        []string{"mistral-large-latest", "mistral-small-latest"},
		RequiresKey:   true,
		RateLimitHint: "1 req/s on the free tier",
	},
	{
		ID:             "groq",
		DisplayName:    "Groq",
		Endpoint:       "https://api.groq.com/openai/v1",
		Family:         FamilyStandard,
		Tier:           TierFree,
		DefaultModel:   "llama-3.3-70b-versatile",
		Models:         []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant"},
		RequiresKey:    true,
		RateLimitHint:  "30 req/min on the free tier",
		SupportsVision: false,
	},
	{
		ID:             "openrouter",
		DisplayName:    "OpenRouter",
		Endpoint:       "https://openrouter.ai/api/v1",
		Family:         FamilyStandard,
		Tier:           TierFree,
		DefaultModel:   "meta-llama/llama-3.3-70b-instruct:free",
		Models:         []string{"meta-llama/llama-3.3-70b-instruct:free", "google/gemini-2.0-flash-exp:free"},
		RequiresKey:    true,
		RateLimitHint:  "20 req/min on free models",
		SupportsVision: true,
		ExtraHeaders: map[string]string{
			"HTTP-Referer": "https://sightline.dev",
			"X-Title":      "Sightline",
		},
	},
	{
		ID:             "ollama",
		DisplayName:    "Ollama",
		Endpoint:       "http://localhost:11434/v1",
		Family:         FamilyStandard,
		Tier:           TierLocal,
		DefaultModel:   "llama3.2",
		Models:         []string{"llama3.2", "llama3.2-vision", "qwen2.5"},
		RequiresKey:    false,
		SupportsVision: true,
	},
	{
		ID:           "lmstudio",
		DisplayName:  "LM Studio",
		Endpoint:     "http://localhost:1234/v1",
		Family:       FamilyStandard,
		Tier:         TierLocal,
		DefaultModel: "local-model",
		Models:       []string{"local-model"},
		RequiresKey:  false,
	},
}

// index maps definition IDs to their position in builtin.
var index = func() map[string]int {
	m := make(map[string]int, len(builtin))
	for i, def := range builtin {
		m[def.ID] = i
	}
	return m
}()

// Lookup returns the definition for the given identifier.
func Lookup(id string) (Definition, bool) {
	i, ok := index[id]
	if !ok {
		return Definition{}, false
	}
	return builtin[i], true
}

// All returns a copy of every known definition in catalog order.
// The copy keeps callers from mutating the shared table.
func All() []Definition {
	out := make([]Definition, len(builtin))
	copy(out, builtin)
	return out
}

// IDs returns the identifiers of every known definition in catalog order.
func IDs() []string {
	ids := make([]string, len(builtin))
	for i, def := range builtin {
		ids[i] = def.ID
	}
	return ids
}

// IsLocal reports whether the definition describes a self-hosted backend.
func (d Definition) IsLocal() bool {
	return d.Tier == TierLocal
}

// SupportsModel reports whether the definition lists the given model.
// An empty model list means the backend accepts any model name.
func (d Definition) SupportsModel(model string) bool {
	if len(d.Models) == 0 {
		return true
	}
	for _, m := range d.Models {
		if m == model {
			return true
		}
	}
	return false
}
