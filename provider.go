package horizon

import "context"

// Provider identifies an AI backend.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported backends, in fixed failover priority order.
const (
	ProviderGemini    Provider = "gemini"
	ProviderGroq      Provider = "groq"
	ProviderAnthropic Provider = "anthropic"
)

// ChatProvider is implemented by each backend adapter. It produces one
// complete text response for a conversation.
type ChatProvider interface {
	// Chat sends a conversation and returns a complete completion.
	Chat(ctx context.Context, messages []Message, opts ...Option) (*Completion, error)
}
