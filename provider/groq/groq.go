// Package groq wraps the Groq chat API, which is OpenAI-compatible and
// served through the OpenAI SDK with an overridden base URL.
package groq

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/horizonview/horizon"
)

// DefaultModel is the Groq model used when none is specified.
const DefaultModel = "llama-3.3-70b-versatile"

// BaseURL is the Groq OpenAI-compatible endpoint.
const BaseURL = "https://api.groq.com/openai/v1"

// Request defaults matching the dashboard's completion profile.
const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1024
)

// Client wraps the OpenAI SDK pointed at Groq to implement
// horizon.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a new Groq client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(BaseURL),
	)
	c := &Client{
		client: &client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientOption configures the Groq client.
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

	temperature := defaultTemperature
	if options.Temperature != nil {
		temperature = *options.Temperature
	}
	maxTokens := defaultMaxTokens
	if options.MaxTokens > 0 {
		maxTokens = options.MaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:       model,
		Messages:    convertMessages(messages),
		Temperature: openai.Float(temperature),
		MaxTokens:   openai.Int(int64(maxTokens)),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, err
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return &horizon.Completion{
		Text:     text,
		Provider: horizon.ProviderGroq,
		Model:    model,
	}, nil
}

func convertMessages(messages []horizon.Message) []openai.ChatCompletionMessageParamUnion {
	var result []openai.ChatCompletionMessageParamUnion
	for _, msg := range messages {
		switch msg.Role {
		case horizon.RoleSystem:
			result = append(result, openai.SystemMessage(msg.Content))
		case horizon.RoleAssistant:
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}
	return result
}

var _ horizon.ChatProvider = (*Client)(nil)
