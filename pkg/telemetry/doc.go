// Package telemetry groups beacon's observability concerns.
//
//   - logging: structured slog output with credential redaction
//   - metrics: Prometheus provider metrics
//
// Both are optional everywhere they appear: the orchestrator and prober work
// without them, so library consumers pay nothing for observability they do
// not wire.
package telemetry
