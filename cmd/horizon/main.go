// Package main provides the interactive HorizonView assistant. It
// keeps chat sessions and API keys on disk, classifies each input line
// before spending a chat turn on it, and fails over between AI
// backends.
//
// Usage:
//
//	go run ./cmd/horizon
//
// API keys can be preloaded from the environment (GEMINI_API_KEY,
// GROQ_API_KEY, ANTHROPIC_API_KEY, or a .env file) or entered at the
// "ai settings" prompt.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/chatstore"
	"github.com/horizonview/horizon/client"
	"github.com/horizonview/horizon/command"
	"github.com/horizonview/horizon/controller"
	"github.com/horizonview/horizon/focus"
	"github.com/horizonview/horizon/settings"
	"github.com/horizonview/horizon/store"
)

var reader = bufio.NewReader(os.Stdin)

// registryClient resolves the active client on every call so that key
// changes made mid-session take effect immediately.
type registryClient struct {
	registry *client.Registry
}

func (r *registryClient) HasAnyProvider() bool {
	return r.registry.Client(nil).HasAnyProvider()
}

func (r *registryClient) GenerateCompletion(ctx context.Context, messages []horizon.Message) (*horizon.Completion, error) {
	return r.registry.Client(nil).GenerateCompletion(ctx, messages)
}

func main() {
	godotenv.Load()
	ctx := context.Background()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	root := store.DefaultStorageRoot()
	adapter := store.NewFileAdapter(filepath.Join(root, "horizon.json"))

	registry := client.NewRegistry()
	keys := settings.New(adapter, registry)
	if err := keys.Load(ctx); err != nil {
		slog.Warn("could not load saved API keys", "error", err)
	}
	seedFromEnv(ctx, keys)

	sessions := chatstore.New(adapter)
	if err := sessions.Load(ctx); err != nil {
		slog.Warn("could not load saved sessions", "error", err)
	}

	missions := loadMissions(root)
	source := command.MissionSourceFunc(func() []focus.Mission { return missions })

	active := &registryClient{registry: registry}
	router := command.NewRouter(active, source)
	turns := controller.New(sessions, active,
		controller.WithMissionSource(source),
		controller.WithOpenSettings(func() { runSettings(ctx, keys) }),
	)

	fmt.Println("Horizon Assistant")
	printStatus(keys)
	fmt.Println(`Type a question, "ai settings" to configure keys, or "quit" to exit.`)
	fmt.Println()

	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if line == "new" {
			sessions.SetCurrentSessionID("")
			fmt.Println("Started a new chat.")
			continue
		}

		result := router.Dispatch(ctx, line)
		switch result.Kind {
		case command.KindSettings:
			runSettings(ctx, keys)
		case command.KindDataQuery:
			fmt.Println(result.Answer)
		case command.KindChat:
			runChatTurn(ctx, turns, sessions, line)
		}
		fmt.Println()
	}

	if err := sessions.Sync(ctx); err != nil {
		slog.Warn("could not save sessions", "error", err)
	}
}

func runChatTurn(ctx context.Context, turns *controller.Controller, sessions *chatstore.Store, line string) {
	if err := turns.Submit(ctx, line); err != nil {
		fmt.Println("!", err)
		return
	}
	messages := sessions.GetCurrentMessages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.Error != "" {
		fmt.Println("!", last.Error)
		return
	}
	fmt.Println(last.Content)
}

func runSettings(ctx context.Context, keys *settings.Store) {
	cfg := keys.Config()
	fmt.Println("AI Settings (enter to keep, \"-\" to remove)")

	gemini := promptKey("Gemini API key", cfg.GeminiAPIKey)
	groq := promptKey("Groq API key", cfg.GroqAPIKey)
	anthropic := promptKey("Anthropic API key", cfg.AnthropicAPIKey)

	if err := keys.SaveKeys(ctx, gemini, groq, anthropic); err != nil {
		fmt.Println("! could not save keys:", err)
		return
	}
	printStatus(keys)
}

func promptKey(label, current string) string {
	state := "not set"
	if current != "" {
		state = "set"
	}
	fmt.Printf("  %s [%s]: ", label, state)
	line, err := reader.ReadString('\n')
	if err != nil {
		return current
	}
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return current
	case "-":
		return ""
	default:
		return line
	}
}

func printStatus(keys *settings.Store) {
	status := keys.ProviderStatus()
	var configured []string
	for _, p := range []horizon.Provider{horizon.ProviderGemini, horizon.ProviderGroq, horizon.ProviderAnthropic} {
		if status[p] {
			configured = append(configured, p.String())
		}
	}
	if len(configured) == 0 {
		fmt.Println("No AI providers configured. Say \"ai settings\" to add keys.")
		return
	}
	fmt.Println("Providers:", strings.Join(configured, ", "))
}

// loadMissions reads an optional missions.json next to the chat
// storage. Missing or unreadable data means an empty dashboard, never
// a startup failure.
func loadMissions(root string) []focus.Mission {
	raw, err := os.ReadFile(filepath.Join(root, "missions.json"))
	if err != nil {
		return nil
	}
	var missions []focus.Mission
	if err := json.Unmarshal(raw, &missions); err != nil {
		slog.Warn("could not parse missions.json", "error", err)
		return nil
	}
	return missions
}

func seedFromEnv(ctx context.Context, keys *settings.Store) {
	cfg := keys.Config()
	changed := false
	if cfg.GeminiAPIKey == "" {
		if v := os.Getenv("GEMINI_API_KEY"); v != "" {
			cfg.GeminiAPIKey = v
			changed = true
		}
	}
	if cfg.GroqAPIKey == "" {
		if v := os.Getenv("GROQ_API_KEY"); v != "" {
			cfg.GroqAPIKey = v
			changed = true
		}
	}
	if cfg.AnthropicAPIKey == "" {
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.AnthropicAPIKey = v
			changed = true
		}
	}
	if !changed {
		return
	}
	if err := keys.SaveKeys(ctx, cfg.GeminiAPIKey, cfg.GroqAPIKey, cfg.AnthropicAPIKey); err != nil {
		slog.Warn("could not save environment keys", "error", err)
	}
}
