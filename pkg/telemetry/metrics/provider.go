package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config names the metric namespace.
type Config struct {
	// Namespace prefixes every metric name. Empty means "sightline".
	Namespace string

	// Subsystem is the second name segment. Empty means "beacon".
	Subsystem string

	// LatencyBuckets overrides the latency histogram buckets. Nil uses
	// bounds tuned for chat-completion latencies (100ms to 60s).
	LatencyBuckets []float64
}

// ProviderMetrics tracks provider request volume, failures, latency, and
// probe-derived health.
//
// Metrics:
//   - {ns}_{sub}_provider_requests_total{provider, model}
//   - {ns}_{sub}_provider_errors_total{provider, kind}
//   - {ns}_{sub}_provider_latency_seconds{provider, model}
//   - {ns}_{sub}_provider_health{provider} (1 healthy, 0.5 degraded, 0 otherwise)
type ProviderMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	errors   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	health   *prometheus.GaugeVec
}

// NewProviderMetrics creates and registers provider metrics. A nil registry
// gets a fresh one, which Handler then serves.
func NewProviderMetrics(cfg Config, registry *prometheus.Registry) *ProviderMetrics {
	if cfg.Namespace == "" {
		cfg.Namespace = "sightline"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "beacon"
	}
	if cfg.LatencyBuckets == nil {
		cfg.LatencyBuckets = []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	pm := &ProviderMetrics{
		registry: registry,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_requests_total",
				Help:      "Total invocation attempts per provider",
			},
			[]string{"provider", "model"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_errors_total",
				Help:      "Classified invocation failures per provider",
			},
			[]string{"provider", "kind"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_latency_seconds",
				Help:      "Invocation round-trip latency per provider",
				Buckets:   cfg.LatencyBuckets,
			},
			[]string{"provider", "model"},
		),
		health: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "provider_health",
				Help:      "Probe-derived provider health (1 healthy, 0.5 degraded, 0 otherwise)",
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(pm.requests, pm.errors, pm.latency, pm.health)
	return pm
}

// RecordRequest counts one invocation attempt.
func (pm *ProviderMetrics) RecordRequest(provider, model string) {
	pm.requests.WithLabelValues(provider, model).Inc()
}

// RecordError counts one classified failure.
func (pm *ProviderMetrics) RecordError(provider, kind string) {
	pm.errors.WithLabelValues(provider, kind).Inc()
}

// ObserveLatency records one invocation's round-trip time.
func (pm *ProviderMetrics) ObserveLatency(provider, model string, d time.Duration) {
	pm.latency.WithLabelValues(provider, model).Observe(d.Seconds())
}

// SetHealth records a probe result. Healthy maps to 1, degraded to 0.5,
// unhealthy and unknown to 0.
func (pm *ProviderMetrics) SetHealth(provider string, value float64) {
	pm.health.WithLabelValues(provider).Set(value)
}

// Handler serves the registry in Prometheus exposition format.
func (pm *ProviderMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(pm.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
