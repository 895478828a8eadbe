// Package health estimates provider status for display surfaces. Probes are
// best-effort and non-authoritative: they exist so a settings screen can show
// "healthy / degraded / unhealthy" before the user spends a real request, and
// they never sit on the invocation path.
//
// # Probe semantics
//
// A probe is a minimal one-message chat call with a small token budget and a
// 10-second deadline. Local backends get a cheaper 5-second reachability
// check against their models endpoint first, so a stopped Ollama reports
// unhealthy without waiting out a chat timeout. Instances missing a required
// credential report unknown without any network traffic.
//
// Classification: success under the 5-second latency threshold is healthy,
// success over it is degraded, a rate-limit failure is degraded (the
// credential evidently works, the backend is just throttling), and anything
// else is unhealthy.
//
// ProbeAll fans out across instances concurrently; probes are independent
// and one hanging backend must not delay the others. Fan-out is bounded by
// the configured instance list, never by external input.
//
// The Scheduler runs ProbeAll on a cron expression and caches the latest
// sweep so UIs read status without triggering network calls.
package health
