// Package horizon provides the AI chat core of the Horizon OS dashboard:
// a multi-provider completion client with ordered failover, a persisted
// multi-session chat store, and a command-bar router that blends local
// focus-budget computation with AI-backed analysis.
//
// The root package defines the shared conversation types. Provider access
// goes through [github.com/horizonview/horizon/client], which tries the
// configured backends (Gemini, then Groq, then Claude) in a fixed priority
// order and falls back transparently on failure.
//
// # Basic Usage
//
// Generate one completion with failover:
//
//	c := client.New(client.Config{GeminiAPIKey: key})
//
//	messages := []horizon.Message{
//	    {Role: horizon.RoleUser, Content: "What should I focus on today?"},
//	}
//
//	result, err := c.GenerateCompletion(ctx, messages)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("[%s] %s\n", result.Provider, result.Text)
//
// # Higher-Level Pieces
//
//   - [github.com/horizonview/horizon/chatstore]: persisted chat sessions
//   - [github.com/horizonview/horizon/command]: command-bar intent routing
//   - [github.com/horizonview/horizon/controller]: chat turn orchestration
//   - [github.com/horizonview/horizon/settings]: credential storage
package horizon
