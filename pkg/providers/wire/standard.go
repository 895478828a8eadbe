package wire

import (
	"encoding/json"
	"fmt"

	"sightline-hq/beacon/pkg/providers"
)

// Standard family wire types (the chat/completions dialect).

// StandardRequest is a chat/completions request body.
type StandardRequest struct {
	Model       string            `json:"model"`
	Messages    []StandardMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
}

// StandardMessage is one turn in a chat/completions request. Content is a
// string for plain messages or a []StandardPart for multipart ones.
type StandardMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// StandardPart is one element of a multipart content list.
type StandardPart struct {
	Type     string            `json:"type"`
	Text     string            `json:"text,omitempty"`
	ImageURL *StandardImageURL `json:"image_url,omitempty"`
}

// StandardImageURL wraps an image reference; images are embedded inline as
// base64 data URLs.
type StandardImageURL struct {
	URL string `json:"url"`
}

// buildStandardBody maps agnostic messages into the chat/completions shape.
// Every message maps directly; there is no special system handling.
func buildStandardBody(inst providers.Instance, msgs []providers.Message, opts providers.ChatOptions) *StandardRequest {
	req := &StandardRequest{
		Model:       inst.EffectiveModel(),
		Messages:    make([]StandardMessage, 0, len(msgs)),
		MaxTokens:   effectiveMaxTokens(inst, opts),
		Temperature: opts.Temperature,
	}

	for _, msg := range msgs {
		req.Messages = append(req.Messages, StandardMessage{
			Role:    msg.Role,
			Content: standardContent(msg),
		})
	}
	return req
}

// standardContent renders a message body: a plain string, or a part list for
// multipart messages.
func standardContent(msg providers.Message) any {
	if !msg.IsMultipart() {
		return msg.Content
	}

	parts := make([]StandardPart, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		switch p.Type {
		case providers.PartImage:
			parts = append(parts, StandardPart{
				Type: "image_url",
				ImageURL: &StandardImageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", imageMediaType(p), p.Data),
				},
			})
		default:
			parts = append(parts, StandardPart{Type: "text", Text: p.Text})
		}
	}
	return parts
}

// normalizeStandardResponse parses a chat/completions response. The raw body
// already matches the shared shape, so this is a straight decode.
func normalizeStandardResponse(raw []byte) (*providers.ChatResponse, error) {
	var resp providers.ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding chat/completions response: %w", err)
	}
	return &resp, nil
}
