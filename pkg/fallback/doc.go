// Package fallback walks an ordered chain of provider instances until one of
// them answers, collecting full attempt provenance along the way.
//
// # Chain construction
//
// BuildChain orders the chain from the configured instance list: the
// preferred primary (when present and enabled) first, then every other
// enabled instance in its existing relative order. Disabled instances are
// excluded outright; the orchestrator keeps its own skip check as defense in
// depth.
//
// # Walk semantics
//
// The walk is strictly sequential. One provider's call completes, success or
// classified failure, before the next begins: fallback is ordered preference,
// not a race. On failure the orchestrator consults a per-kind retriability
// policy; with the default policy every kind in the taxonomy is retriable, so
// in practice the chain only stops early on success. That all-retriable
// default is a deliberate, documented policy (a malformed request arguably
// should not be replayed against every provider, but today it is), and the
// Policy map exists so a caller can tighten it.
//
// When every instance fails or is skipped, Execute synthesizes a failure
// under the sentinel identifier ChainProvider that aggregates every provider
// tried. The orchestrator never returns a raw error: every outcome is a data
// value with the complete attempted/error history, so a caller can render
// "tried X, Y, Z; Y hit a rate limit; Z's key was rejected".
package fallback
