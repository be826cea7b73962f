// Package claude wraps the Anthropic SDK as a horizon backend.
package claude

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/horizonview/horizon"
)

// DefaultModel is the Claude model used when none is specified.
const DefaultModel = "claude-sonnet-4-20250514"

const defaultMaxTokens = 1024

// Client wraps the Anthropic SDK to implement horizon.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Claude client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Claude client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Model returns the model used when a request does not override it.
func (c *Client) Model() string { return c.model }

// Chat sends a conversation and returns a complete completion.
func (c *Client) Chat(ctx context.Context, messages []horizon.Message, opts ...horizon.Option) (*horizon.Completion, error) {
	options := horizon.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, err
	}

	text := ""
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	return &horizon.Completion{
		Text:     text,
		Provider: horizon.ProviderAnthropic,
		Model:    model,
	}, nil
}

// convertMessages maps conversation messages to Anthropic params. System
// messages become system text blocks; the API has no system turn role.
func convertMessages(messages []horizon.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var msgs []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case horizon.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case horizon.RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return msgs, system
}

var _ horizon.ChatProvider = (*Client)(nil)
