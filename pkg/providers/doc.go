// Package providers defines the provider-agnostic data model shared by every
// part of the invocation core: messages, normalized responses, configured
// provider instances, health reports, and the closed error taxonomy.
//
// # Data model
//
// A Message carries a role and either plain text or an ordered list of typed
// content parts (text, base64 image). Translators read messages and build wire
// structures; they never mutate a message in place.
//
// A ChatResponse is the normalized result shape every backend is mapped into,
// regardless of which wire dialect produced it:
//
//	{id, model, choices:[{index, message:{role, content}, finish_reason}], usage?}
//
// An Instance pairs a catalog.Definition with the runtime state the settings
// layer owns: credential, selected model, enabled flag, and a max-token
// override. The core treats instances as read-only snapshots.
//
// # Error taxonomy
//
// Every failure surfaced by the core is a *ProviderError carrying one of five
// closed kinds: rate_limit, auth_error, network_error, invalid_response, or
// unknown. Nothing else crosses the package boundary; transport errors and
// JSON parse failures are classified before they escape.
//
//	resp, err := cli.Invoke(ctx, inst, msgs, opts)
//	if err != nil {
//	    var perr *providers.ProviderError
//	    if errors.As(err, &perr) && perr.Kind == providers.KindRateLimit {
//	        wait(perr.RetryAfter)
//	    }
//	}
package providers
