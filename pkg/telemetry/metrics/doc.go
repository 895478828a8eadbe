// Package metrics exposes Prometheus instrumentation for the invocation core:
// per-provider request and error counters, call latency, and probe-derived
// health gauges.
//
// Metrics are registered against an injected *prometheus.Registry so tests
// and embedders control the metric namespace; passing nil uses a fresh
// registry. The Handler method serves the standard exposition format for the
// monitor command.
//
//	pm := metrics.NewProviderMetrics(metrics.Config{Namespace: "sightline"}, nil)
//	http.Handle("/metrics", pm.Handler())
package metrics
