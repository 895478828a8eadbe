package wire

import (
	"encoding/json"
	"fmt"

	"sightline-hq/beacon/pkg/providers"
)

// Messages family wire types (the dialect with a top-level system field).

// MessagesRequest is a messages-family request body.
type MessagesRequest struct {
	Model       string            `json:"model"`
	System      string            `json:"system,omitempty"`
	Messages    []MessagesMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature,omitempty"`
}

// MessagesMessage is one turn in a messages-family request. Content is a
// string for plain messages or a []MessagesBlock for multipart ones.
type MessagesMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// MessagesBlock is one typed content block.
type MessagesBlock struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *MessagesSource `json:"source,omitempty"`
}

// MessagesSource embeds an image as base64 data.
type MessagesSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// MessagesResponse is a messages-family response body.
type MessagesResponse struct {
	ID         string          `json:"id"`
	Model      string          `json:"model"`
	Content    []MessagesBlock `json:"content"`
	StopReason string          `json:"stop_reason"`
	Usage      *MessagesUsage  `json:"usage"`
}

// MessagesUsage is the messages-family token accounting shape.
type MessagesUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// buildMessagesBody maps agnostic messages into the messages-family shape.
// The first system-role message becomes the top-level system field; remaining
// system messages are dropped, and only non-system turns are translated.
func buildMessagesBody(inst providers.Instance, msgs []providers.Message, opts providers.ChatOptions) *MessagesRequest {
	req := &MessagesRequest{
		Model:       inst.EffectiveModel(),
		Messages:    make([]MessagesMessage, 0, len(msgs)),
		MaxTokens:   effectiveMaxTokens(inst, opts),
		Temperature: opts.Temperature,
	}

	for _, msg := range msgs {
		if msg.Role == providers.RoleSystem {
			if req.System == "" {
				req.System = msg.PlainText()
			}
			continue
		}
		req.Messages = append(req.Messages, MessagesMessage{
			Role:    msg.Role,
			Content: messagesContent(msg),
		})
	}
	return req
}

// messagesContent renders a message body as a string or a block list.
func messagesContent(msg providers.Message) any {
	if !msg.IsMultipart() {
		return msg.Content
	}

	blocks := make([]MessagesBlock, 0, len(msg.Parts))
	for _, p := range msg.Parts {
		switch p.Type {
		case providers.PartImage:
			blocks = append(blocks, MessagesBlock{
				Type: "image",
				Source: &MessagesSource{
					Type:      "base64",
					MediaType: imageMediaType(p),
					Data:      p.Data,
				},
			})
		default:
			blocks = append(blocks, MessagesBlock{Type: "text", Text: p.Text})
		}
	}
	return blocks
}

// normalizeMessagesResponse reshapes a messages-family response into the
// shared ChatResponse form: the first text block becomes the message content
// (a response with no text block yields an empty string, not an error), the
// stop reason carries over, and input/output tokens map to the shared usage
// counters.
func normalizeMessagesResponse(raw []byte) (*providers.ChatResponse, error) {
	var resp MessagesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decoding messages response: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content = block.Text
			break
		}
	}

	out := &providers.ChatResponse{
		ID:    resp.ID,
		Model: resp.Model,
		Choices: []providers.Choice{{
			Index: 0,
			Message: providers.ResponseMessage{
				Role:    providers.RoleAssistant,
				Content: content,
			},
			FinishReason: resp.StopReason,
		}},
	}
	if resp.Usage != nil {
		out.Usage = &providers.TokenUsage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}
	return out, nil
}
