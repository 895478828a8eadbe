package providers

import (
	"strings"
	"time"
)

// Message role constants.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content part type constants.
const (
	PartText  = "text"
	PartImage = "image"
)

// DefaultImageMediaType is assumed for image parts that carry no explicit
// media type. Screenshots are encoded as PNG upstream, so PNG is the default.
const DefaultImageMediaType = "image/png"

// ContentPart is one element of a multi-part message body.
type ContentPart struct {
	// Type is PartText or PartImage.
	Type string `json:"type"`

	// Text is the text content for PartText parts.
	Text string `json:"text,omitempty"`

	// Data is the base64-encoded payload for PartImage parts.
	Data string `json:"data,omitempty"`

	// MediaType is the MIME type of an image part (e.g. "image/png").
	// Empty means DefaultImageMediaType.
	MediaType string `json:"media_type,omitempty"`
}

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image content part from base64 data.
func ImagePart(data, mediaType string) ContentPart {
	return ContentPart{Type: PartImage, Data: data, MediaType: mediaType}
}

// Message is a single conversation turn. Content holds the plain-text form;
// when Parts is non-empty it takes precedence and Content is ignored by the
// translators. A message is never mutated after construction.
type Message struct {
	// Role identifies the sender: system, user, or assistant.
	Role string `json:"role"`

	// Content is the plain text body for single-part messages.
	Content string `json:"content,omitempty"`

	// Parts is the ordered multi-part body. Nil means plain text.
	Parts []ContentPart `json:"parts,omitempty"`
}

// IsMultipart reports whether the message carries typed content parts.
func (m Message) IsMultipart() bool {
	return len(m.Parts) > 0
}

// PlainText returns a flat string view of the message body. For multipart
// messages the text parts are joined with newlines; a multipart message with
// no text parts yields an empty string.
func (m Message) PlainText() string {
	if !m.IsMultipart() {
		return m.Content
	}
	var texts []string
	for _, p := range m.Parts {
		if p.Type == PartText {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ChatOptions carries per-call tuning for an invocation.
type ChatOptions struct {
	// MaxTokens caps the generated output. Zero means "use the instance
	// override, or the translator default".
	MaxTokens int

	// Temperature controls sampling randomness. Zero is omitted from the
	// wire body so the backend default applies.
	Temperature float64

	// Timeout bounds the whole HTTP exchange. Zero means the client
	// default (30s for invocations, 10s for health probes).
	Timeout time.Duration
}

// TokenUsage is the shared token accounting shape.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseMessage is the assistant turn inside a response choice.
type ResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice is one completion alternative in a normalized response.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

// ChatResponse is the normalized response shape shared by all wire families.
type ChatResponse struct {
	ID      string      `json:"id"`
	Model   string      `json:"model"`
	Choices []Choice    `json:"choices"`
	Usage   *TokenUsage `json:"usage,omitempty"`
}

// Text returns the content of the first choice, or "" when there is none.
func (r *ChatResponse) Text() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// HealthStatus is the display classification produced by a health probe.
type HealthStatus string

const (
	// StatusHealthy means the probe call succeeded within the latency threshold.
	StatusHealthy HealthStatus = "healthy"

	// StatusDegraded means the backend answered but slowly, or rejected the
	// probe with a rate limit (the credential is presumed valid).
	StatusDegraded HealthStatus = "degraded"

	// StatusUnhealthy means the probe failed outright.
	StatusUnhealthy HealthStatus = "unhealthy"

	// StatusUnknown means the probe could not be attempted, typically
	// because no credential is configured.
	StatusUnknown HealthStatus = "unknown"
)

// ProviderHealth is the ephemeral result of a single health probe.
// It is recomputed on demand and never required to be persisted.
type ProviderHealth struct {
	// Provider is the definition identifier the probe targeted.
	Provider string `json:"provider"`

	// Status is the classified outcome.
	Status HealthStatus `json:"status"`

	// Latency is the measured round-trip time, zero when no call was made.
	Latency time.Duration `json:"latency,omitempty"`

	// LastChecked is when the probe completed.
	LastChecked time.Time `json:"last_checked"`

	// Error holds the failure message for degraded/unhealthy/unknown results.
	Error string `json:"error,omitempty"`
}
