// Package wire translates between the provider-agnostic message model and the
// wire dialects spoken by the backends: request bodies, auth headers, endpoint
// paths, and response normalization.
//
// # Dispatch
//
// The package dispatches on catalog.Family, a closed tag on the provider
// definition, rather than on a per-vendor type hierarchy. Each family is one
// branch in four functions (BuildBody, BuildHeaders, Endpoint,
// NormalizeResponse); adding a third dialect is one more case in each.
//
// Two families exist today:
//
//   - standard: POST {endpoint}/chat/completions with Bearer auth; the raw
//     response already matches the shared ChatResponse shape and passes
//     through unchanged.
//   - messages: POST {endpoint}/messages with an x-api-key header and a
//     required API-version header; the first system message is hoisted into a
//     top-level field, images ride as base64 source blocks, and the response
//     is reshaped into ChatResponse.
//
// Translators only read the messages they are given; they build fresh wire
// structures and never mutate their inputs.
package wire
