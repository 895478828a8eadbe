package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sightline-hq/beacon/pkg/providers"
	"sightline-hq/beacon/pkg/providers/client"
	"sightline-hq/beacon/pkg/telemetry/metrics"
)

const (
	// ProbeTimeout bounds the chat call a probe issues.
	ProbeTimeout = 10 * time.Second

	// ReachabilityTimeout bounds the models-endpoint check for local backends.
	ReachabilityTimeout = 5 * time.Second

	// DegradedThreshold is the latency above which a successful probe is
	// reported as degraded rather than healthy.
	DegradedThreshold = 5 * time.Second

	// probeMaxTokens keeps the probe's generation cost negligible.
	probeMaxTokens = 8
)

// probeMessages is the fixed minimal prompt every probe sends.
var probeMessages = []providers.Message{
	{Role: providers.RoleUser, Content: "ping"},
}

// CredentialStatus is the result of a credential validation call.
type CredentialStatus struct {
	// Provider is the definition identifier checked.
	Provider string `json:"provider"`

	// Valid reports whether the credential was accepted.
	Valid bool `json:"valid"`

	// Confirmed is false when the backend rate-limited the check: the
	// credential format was accepted but a completion never ran.
	Confirmed bool `json:"confirmed"`

	// Message explains invalid or unconfirmed results.
	Message string `json:"message,omitempty"`
}

// Prober runs health probes through the shared invocation client.
type Prober struct {
	client  *client.Client
	log     *slog.Logger
	metrics *metrics.ProviderMetrics

	// degradedThreshold is overridable for tests.
	degradedThreshold time.Duration
}

// Option customizes a Prober.
type Option func(*Prober)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Prober) { p.log = l }
}

// WithMetrics attaches health gauge recording.
func WithMetrics(m *metrics.ProviderMetrics) Option {
	return func(p *Prober) { p.metrics = m }
}

// WithDegradedThreshold overrides the healthy/degraded latency boundary.
func WithDegradedThreshold(d time.Duration) Option {
	return func(p *Prober) { p.degradedThreshold = d }
}

// NewProber creates a prober around the shared invocation client.
func NewProber(c *client.Client, opts ...Option) *Prober {
	p := &Prober{
		client:            c,
		log:               slog.Default(),
		degradedThreshold: DegradedThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe checks one instance and classifies the result. It never returns an
// error: every failure mode is folded into the health report.
func (p *Prober) Probe(ctx context.Context, inst providers.Instance) providers.ProviderHealth {
	report := p.probe(ctx, inst)
	if p.metrics != nil {
		p.metrics.SetHealth(report.Provider, healthGaugeValue(report.Status))
	}
	p.log.Debug("probe finished",
		"provider", report.Provider,
		"status", report.Status,
		"latency", report.Latency,
	)
	return report
}

func (p *Prober) probe(ctx context.Context, inst providers.Instance) providers.ProviderHealth {
	id := inst.ID()

	// Local backends: cheap reachability first, so a stopped server
	// reports unhealthy without burning the chat-call timeout.
	if inst.Definition.IsLocal() {
		if err := p.client.CheckReachable(ctx, inst, ReachabilityTimeout); err != nil {
			return providers.ProviderHealth{
				Provider:    id,
				Status:      providers.StatusUnhealthy,
				LastChecked: time.Now(),
				Error:       "endpoint unreachable",
			}
		}
	}

	if inst.MissingCredential() {
		return providers.ProviderHealth{
			Provider:    id,
			Status:      providers.StatusUnknown,
			LastChecked: time.Now(),
			Error:       "no API key configured",
		}
	}

	start := time.Now()
	_, err := p.client.Invoke(ctx, inst, probeMessages, providers.ChatOptions{
		MaxTokens: probeMaxTokens,
		Timeout:   ProbeTimeout,
	})
	latency := time.Since(start)

	report := providers.ProviderHealth{
		Provider:    id,
		Latency:     latency,
		LastChecked: time.Now(),
	}

	if err == nil {
		if latency > p.degradedThreshold {
			report.Status = providers.StatusDegraded
			report.Error = "responding slowly"
		} else {
			report.Status = providers.StatusHealthy
		}
		return report
	}

	if perr, ok := providers.AsProviderError(err); ok && perr.Kind == providers.KindRateLimit {
		// Throttled, but the credential evidently works.
		report.Status = providers.StatusDegraded
		report.Error = perr.Message
		return report
	}

	report.Status = providers.StatusUnhealthy
	if perr, ok := providers.AsProviderError(err); ok {
		report.Error = perr.Message
	} else {
		report.Error = err.Error()
	}
	return report
}

// ProbeAll probes every instance concurrently and returns one report per
// identifier. Probes are independent: one instance hanging or failing never
// affects another's result. Fan-out is bounded by the instance slice.
func (p *Prober) ProbeAll(ctx context.Context, instances []providers.Instance) map[string]providers.ProviderHealth {
	results := make(map[string]providers.ProviderHealth, len(instances))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, inst := range instances {
		wg.Add(1)
		go func(inst providers.Instance) {
			defer wg.Done()
			report := p.Probe(ctx, inst)
			mu.Lock()
			results[report.Provider] = report
			mu.Unlock()
		}(inst)
	}
	wg.Wait()
	return results
}

// ValidateCredential issues the probe call and classifies the result from
// the credential's point of view. An empty credential is invalid without any
// network traffic; a rate limit means the key was accepted but the check is
// unconfirmed.
func (p *Prober) ValidateCredential(ctx context.Context, inst providers.Instance) CredentialStatus {
	id := inst.ID()

	if !inst.HasCredential() {
		return CredentialStatus{
			Provider: id,
			Valid:    false,
			Message:  "no API key configured",
		}
	}

	_, err := p.client.Invoke(ctx, inst, probeMessages, providers.ChatOptions{
		MaxTokens: probeMaxTokens,
		Timeout:   ProbeTimeout,
	})
	if err == nil {
		return CredentialStatus{Provider: id, Valid: true, Confirmed: true}
	}

	perr, ok := providers.AsProviderError(err)
	if !ok {
		return CredentialStatus{Provider: id, Valid: false, Message: err.Error()}
	}

	switch perr.Kind {
	case providers.KindAuth:
		return CredentialStatus{Provider: id, Valid: false, Message: perr.Message}
	case providers.KindRateLimit:
		return CredentialStatus{
			Provider:  id,
			Valid:     true,
			Confirmed: false,
			Message:   "rate limited before the key could be fully verified",
		}
	default:
		return CredentialStatus{Provider: id, Valid: false, Message: perr.Message}
	}
}

// healthGaugeValue maps a status onto the prometheus gauge scale.
func healthGaugeValue(status providers.HealthStatus) float64 {
	switch status {
	case providers.StatusHealthy:
		return 1
	case providers.StatusDegraded:
		return 0.5
	default:
		return 0
	}
}
