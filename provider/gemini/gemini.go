// Package gemini wraps the Google GenAI SDK as a horizon backend.
package gemini

import (
	"context"

	"google.golang.org/genai"

	"github.com/horizonview/horizon"
)

// DefaultModel is the Gemini model used when none is specified.
const DefaultModel = "gemini-2.0-flash"

// Client wraps the Google GenAI SDK to implement horizon.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Gemini client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Gemini client.
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

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, err
	}

	text := ""
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
	}

	return &horizon.Completion{
		Text:     text,
		Provider: horizon.ProviderGemini,
		Model:    model,
	}, nil
}

// convertMessages maps conversation messages to GenAI contents. System
// messages are not a turn role in the GenAI API; their text is collected
// into the system instruction instead.
func convertMessages(messages []horizon.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	system := ""

	for _, msg := range messages {
		switch msg.Role {
		case horizon.RoleSystem:
			if system != "" {
				system += "\n"
			}
			system += msg.Content
			continue
		case horizon.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Content}},
			})
		}
	}

	return contents, system
}

var _ horizon.ChatProvider = (*Client)(nil)
