package wire

import (
	"fmt"

	"sightline-hq/beacon/pkg/catalog"
	"sightline-hq/beacon/pkg/providers"
)

// DefaultMaxTokens is applied when neither the caller nor the instance caps
// the output. The messages family rejects requests without a cap, so the
// default is always written to the body for both families.
const DefaultMaxTokens = 4096

// MessagesAPIVersion is the API-version header value the messages family
// requires on every request.
const MessagesAPIVersion = "2023-06-01"

// BuildBody builds the JSON-marshalable request body for the instance's wire
// family.
func BuildBody(inst providers.Instance, msgs []providers.Message, opts providers.ChatOptions) (any, error) {
	switch inst.Definition.Family {
	case catalog.FamilyMessages:
		return buildMessagesBody(inst, msgs, opts), nil
	case catalog.FamilyStandard:
		return buildStandardBody(inst, msgs, opts), nil
	default:
		return nil, fmt.Errorf("unknown wire family %q for provider %q", inst.Definition.Family, inst.ID())
	}
}

// BuildHeaders returns the request headers for the instance: JSON content
// type, family-appropriate auth, and any extra headers declared on the
// definition. Definition headers are merged first so they never override the
// computed ones.
func BuildHeaders(inst providers.Instance) map[string]string {
	headers := make(map[string]string, len(inst.Definition.ExtraHeaders)+3)
	for k, v := range inst.Definition.ExtraHeaders {
		headers[k] = v
	}
	headers["Content-Type"] = "application/json"

	switch inst.Definition.Family {
	case catalog.FamilyMessages:
		headers["x-api-key"] = inst.APIKey
		headers["anthropic-version"] = MessagesAPIVersion
	default:
		if inst.APIKey != "" {
			headers["Authorization"] = "Bearer " + inst.APIKey
		}
	}
	return headers
}

// Endpoint returns the completion URL for the instance: the configured
// endpoint root plus the family's path segment.
func Endpoint(inst providers.Instance) string {
	switch inst.Definition.Family {
	case catalog.FamilyMessages:
		return inst.Definition.Endpoint + "/messages"
	default:
		return inst.Definition.Endpoint + "/chat/completions"
	}
}

// ModelsEndpoint returns the models-listing URL used for lightweight
// reachability checks against local backends.
func ModelsEndpoint(inst providers.Instance) string {
	return inst.Definition.Endpoint + "/models"
}

// NormalizeResponse converts a raw response body into the shared ChatResponse
// shape. The standard family already matches it and passes through.
func NormalizeResponse(inst providers.Instance, raw []byte) (*providers.ChatResponse, error) {
	switch inst.Definition.Family {
	case catalog.FamilyMessages:
		return normalizeMessagesResponse(raw)
	default:
		return normalizeStandardResponse(raw)
	}
}

// effectiveMaxTokens resolves the output cap: caller option, then instance
// override, then the translator default.
func effectiveMaxTokens(inst providers.Instance, opts providers.ChatOptions) int {
	if opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	if inst.MaxTokens > 0 {
		return inst.MaxTokens
	}
	return DefaultMaxTokens
}

// imageMediaType resolves an image part's media type, defaulting to PNG.
func imageMediaType(p providers.ContentPart) string {
	if p.MediaType != "" {
		return p.MediaType
	}
	return providers.DefaultImageMediaType
}
