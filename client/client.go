// Package client provides the multi-backend completion client with
// ordered failover, and the registry that owns the active instance.
package client

import (
	"context"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/provider/claude"
	"github.com/horizonview/horizon/provider/gemini"
	"github.com/horizonview/horizon/provider/groq"
)

// Config holds optional credentials, one per backend. An empty field
// means that backend is not initialized.
type Config struct {
	GeminiAPIKey    string
	GroqAPIKey      string
	AnthropicAPIKey string
}

// backend pairs a provider identifier with its initialized handle.
type backend struct {
	name horizon.Provider
	chat horizon.ChatProvider
}

// Client produces one text completion from a conversation, trying
// backends in a fixed priority order (gemini, groq, anthropic) and
// falling back transparently on failure.
//
// The backend set is fixed at construction. To change credentials,
// construct a new client (see Registry).
type Client struct {
	backends []backend
}

// New creates a client from the given credentials. A backend handle is
// initialized if and only if its credential is non-empty.
func New(cfg Config) *Client {
	c := &Client{}

	if cfg.GeminiAPIKey != "" {
		g, err := gemini.New(context.Background(), cfg.GeminiAPIKey)
		if err != nil {
			// Construction failures surface as call failures so that
			// failover still walks past the broken backend.
			c.backends = append(c.backends, backend{horizon.ProviderGemini, errBackend{err}})
		} else {
			c.backends = append(c.backends, backend{horizon.ProviderGemini, g})
		}
	}
	if cfg.GroqAPIKey != "" {
		c.backends = append(c.backends, backend{horizon.ProviderGroq, groq.New(cfg.GroqAPIKey)})
	}
	if cfg.AnthropicAPIKey != "" {
		c.backends = append(c.backends, backend{horizon.ProviderAnthropic, claude.New(cfg.AnthropicAPIKey)})
	}

	return c
}

// HasAnyProvider reports whether at least one backend is initialized.
func (c *Client) HasAnyProvider() bool {
	return len(c.backends) > 0
}

// AvailableProviders returns the initialized backend identifiers in
// failover priority order.
func (c *Client) AvailableProviders() []horizon.Provider {
	providers := make([]horizon.Provider, 0, len(c.backends))
	for _, b := range c.backends {
		providers = append(providers, b.name)
	}
	return providers
}

// GenerateCompletion attempts backends in priority order and returns the
// first successful completion. If no backend is initialized it fails with
// horizon.NoProviderConfiguredError; if every backend fails it fails with
// horizon.AllProvidersFailedError aggregating each attempt's error.
func (c *Client) GenerateCompletion(ctx context.Context, messages []horizon.Message) (*horizon.Completion, error) {
	if len(c.backends) == 0 {
		return nil, &horizon.NoProviderConfiguredError{}
	}

	var failures []*horizon.ProviderError
	for _, b := range c.backends {
		completion, err := b.chat.Chat(ctx, messages)
		if err != nil {
			failures = append(failures, &horizon.ProviderError{Provider: b.name, Err: err})
			continue
		}
		return completion, nil
	}

	return nil, &horizon.AllProvidersFailedError{Errors: failures}
}

// Prompt is a convenience wrapper for single-question requests. It builds
// a one- or two-message conversation (the system message is prepended
// only when systemPrompt is non-empty) and returns just the response text.
func (c *Client) Prompt(ctx context.Context, text, systemPrompt string) (string, error) {
	var messages []horizon.Message
	if systemPrompt != "" {
		messages = append(messages, horizon.Message{Role: horizon.RoleSystem, Content: systemPrompt})
	}
	messages = append(messages, horizon.Message{Role: horizon.RoleUser, Content: text})

	completion, err := c.GenerateCompletion(ctx, messages)
	if err != nil {
		return "", err
	}
	return completion.Text, nil
}

// errBackend is a backend handle whose construction failed; every call
// reports the construction error.
type errBackend struct {
	err error
}

func (e errBackend) Chat(context.Context, []horizon.Message, ...horizon.Option) (*horizon.Completion, error) {
	return nil, e.err
}
