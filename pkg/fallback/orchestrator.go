package fallback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/client"
	"sightline-hq/beacon/pkg/telemetry/metrics"
)

// ChainProvider is the sentinel identifier used when the chain itself is the
// failure: every instance was skipped or failed. It is distinct from every
// real provider identifier in the catalog.
const ChainProvider = "fallback_chain"

// Policy maps error kinds to retriability: true means "move on to the next
// instance", false means "stop the chain with this failure".
type Policy map[providers.ErrorKind]bool

// DefaultPolicy treats every kind in the taxonomy as retriable. That makes
// the stop-early branch unreachable today; the chain only ends on success or
// exhaustion. Callers who want a malformed request to fail fast can hand
// Execute a tighter policy.
func DefaultPolicy() Policy {
	return Policy{
		providers.KindRateLimit:       true,
		providers.KindAuth:            true,
		providers.KindNetwork:         true,
		providers.KindInvalidResponse: true,
		providers.KindUnknown:         true,
	}
}

// Retriable reports whether the chain should continue past an error of the
// given kind. Kinds absent from the policy are fatal.
func (p Policy) Retriable(kind providers.ErrorKind) bool {
	return p[kind]
}

// Outcome is the final result of one chain walk: the response or error from
// the decisive attempt, plus full provenance. len(Errors) <= len(Attempted)
// always, with equality exactly when the walk failed.
type Outcome struct {
	// Response is the normalized response, nil on failure.
	Response *providers.ChatResponse `json:"response,omitempty"`

	// Provider identifies the instance that produced Response, or the
	// instance (or sentinel) behind Err.
	Provider string `json:"provider"`

	// Err is the decisive failure, nil on success.
	Err *providers.ProviderError `json:"error,omitempty"`

	// Attempted lists every provider actually invoked, in order.
	Attempted []string `json:"attempted"`

	// Errors lists the classified failure of each failed attempt, in order.
	Errors []*providers.ProviderError `json:"errors,omitempty"`
}

// Succeeded reports whether the walk produced a response.
func (o *Outcome) Succeeded() bool {
	return o.Err == nil && o.Response != nil
}

// Summary renders the attempt history in one line for logs and error
// surfaces: "tried openai (rate_limit), anthropic (ok)".
func (o *Outcome) Summary() string {
	if len(o.Attempted) == 0 {
		return "no providers attempted"
	}
	parts := make([]string, 0, len(o.Attempted))
	for i, id := range o.Attempted {
		if i < len(o.Errors) {
			parts = append(parts, fmt.Sprintf("%s (%s)", id, o.Errors[i].Kind))
		} else {
			parts = append(parts, fmt.Sprintf("%s (ok)", id))
		}
	}
	return "tried " + strings.Join(parts, ", ")
}

// Recorder receives completed outcomes for diagnostics. Implementations must
// tolerate concurrent calls; recording failures are the recorder's problem,
// never the walk's.
type Recorder interface {
	RecordOutcome(ctx context.Context, outcome *Outcome)
}

// Orchestrator walks fallback chains. It holds no state between calls; the
// instance list is supplied per Execute so the settings layer stays the
// single owner of configuration.
type Orchestrator struct {
	client   *client.Client
	policy   Policy
	log      *slog.Logger
	metrics  *metrics.ProviderMetrics
	recorder Recorder
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithPolicy replaces the default all-retriable policy.
func WithPolicy(p Policy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithMetrics attaches provider metrics recording.
func WithMetrics(m *metrics.ProviderMetrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithRecorder attaches an outcome recorder (e.g. the attempt journal).
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// NewOrchestrator creates an orchestrator around the shared invocation client.
func NewOrchestrator(c *client.Client, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: c,
		policy: DefaultPolicy(),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Execute builds the chain from the configured instances and preferred
// primary, then walks it sequentially until an instance answers, a fatal
// error stops it, or the chain is exhausted. It always returns an Outcome,
// never an error: every failure mode is a data value.
func (o *Orchestrator) Execute(ctx context.Context, instances []providers.Instance, primary string, msgs []providers.Message, opts providers.ChatOptions) *Outcome {
	chain := BuildChain(instances, primary)
	outcome := o.walk(ctx, chain, msgs, opts)

	if o.recorder != nil {
		o.recorder.RecordOutcome(ctx, outcome)
	}
	return outcome
}

// walk tries each chain entry in order.
func (o *Orchestrator) walk(ctx context.Context, chain []providers.Instance, msgs []providers.Message, opts providers.ChatOptions) *Outcome {
	outcome := &Outcome{Attempted: make([]string, 0, len(chain))}

	for _, inst := range chain {
		// BuildChain already excludes disabled instances; kept as
		// defense in depth for hand-built chains.
		if !inst.Enabled {
			continue
		}

		id := inst.ID()
		outcome.Attempted = append(outcome.Attempted, id)

		start := time.Now()
		resp, err := o.client.Invoke(ctx, inst, msgs, opts)
		latency := time.Since(start)

		if o.metrics != nil {
			o.metrics.RecordRequest(id, inst.EffectiveModel())
			o.metrics.ObserveLatency(id, inst.EffectiveModel(), latency)
		}

		if err == nil {
			outcome.Response = resp
			outcome.Provider = id
			o.log.Info("fallback chain succeeded",
				"provider", id,
				"attempts", len(outcome.Attempted),
				"latency", latency,
			)
			return outcome
		}

		perr, ok := providers.AsProviderError(err)
		if !ok {
			// The client contract says this cannot happen; classify
			// rather than drop it if it ever does.
			perr = providers.WrapProviderError(id, providers.KindUnknown, err.Error(), err)
		}
		outcome.Errors = append(outcome.Errors, perr)
		if o.metrics != nil {
			o.metrics.RecordError(id, string(perr.Kind))
		}

		if !o.policy.Retriable(perr.Kind) {
			outcome.Provider = id
			outcome.Err = perr
			o.log.Warn("fallback chain stopped on fatal error",
				"provider", id,
				"kind", perr.Kind,
				"attempts", len(outcome.Attempted),
			)
			return outcome
		}

		o.log.Warn("provider failed, trying next in chain",
			"provider", id,
			"kind", perr.Kind,
			"error", perr.Message,
		)
	}

	outcome.Provider = ChainProvider
	outcome.Err = o.exhaustedError(outcome)
	o.log.Error("fallback chain exhausted",
		"attempts", len(outcome.Attempted),
		"summary", outcome.Summary(),
	)
	return outcome
}

// exhaustedError aggregates every attempt into a single failure under the
// chain sentinel.
func (o *Orchestrator) exhaustedError(outcome *Outcome) *providers.ProviderError {
	if len(outcome.Attempted) == 0 {
		return providers.NewProviderError(ChainProvider, providers.KindUnknown,
			"no enabled providers configured")
	}

	parts := make([]string, len(outcome.Errors))
	for i, perr := range outcome.Errors {
		parts[i] = fmt.Sprintf("%s: %s", perr.Provider, perr.Message)
	}
	return providers.NewProviderError(ChainProvider, providers.KindUnknown,
		fmt.Sprintf("all providers failed: %s", strings.Join(parts, "; ")))
}
