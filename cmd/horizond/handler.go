package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/client"
	"github.com/horizonview/horizon/focus"
	"github.com/horizonview/horizon/render"
)

// ChatRequest is the POST /api/chat body: the prior conversation plus
// an optional mission context block.
type ChatRequest struct {
	Messages []horizon.Message `json:"messages"`
	Context  *ChatContext      `json:"context,omitempty"`
}

// ChatContext carries the caller's already-loaded mission data.
type ChatContext struct {
	Missions []focus.Mission `json:"missions,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// completeFunc produces one completion for the handler; swapped out in
// tests.
type completeFunc func(ctx context.Context, cfg client.Config, messages []horizon.Message) (*horizon.Completion, error)

// ChatHandler serves POST /api/chat. Per-request keys arrive in the
// x-gemini-key, x-groq-key, and x-anthropic-key headers; the server's
// own keys fill any the request leaves empty.
type ChatHandler struct {
	config   *Config
	complete completeFunc
	renderer *render.Renderer
}

// NewChatHandler creates the handler backed by a real completion client.
func NewChatHandler(cfg *Config) *ChatHandler {
	return &ChatHandler{
		config: cfg,
		complete: func(ctx context.Context, clientCfg client.Config, messages []horizon.Message) (*horizon.Completion, error) {
			return client.New(clientCfg).GenerateCompletion(ctx, messages)
		},
		renderer: render.New(),
	}
}

// ServeHTTP answers a chat request with the completion text, or a JSON
// error payload with a non-2xx status when no backend is usable.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		slog.Warn("method not allowed", "method", r.Method, "path", r.URL.Path)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "messages is required")
		return
	}

	cfg := h.clientConfig(r)

	ctx := r.Context()
	if h.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.RequestTimeout)
		defer cancel()
	}

	completion, err := h.complete(ctx, cfg, buildMessages(&req))
	if err != nil {
		status := http.StatusBadGateway
		message := "All AI providers failed. Please try again."
		if horizon.IsNoProviderConfigured(err) {
			status = http.StatusBadRequest
			message = "No AI provider configured. Please add your API keys in AI Settings."
		}
		slog.Warn("completion failed", "error", err, "status", status)
		writeError(w, status, message)
		return
	}

	slog.Info("request completed",
		"provider", completion.Provider,
		"model", completion.Model,
		"message_count", len(req.Messages),
		"duration", time.Since(start),
	)

	body := completion.Text
	contentType := "text/plain; charset=utf-8"
	// Browser callers can ask for the sanitized HTML rendering instead
	// of raw markdown.
	if h.renderer != nil && strings.Contains(r.Header.Get("Accept"), "text/html") {
		body = h.renderer.HTML(completion.Text)
		contentType = "text/html; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Provider", completion.Provider.String())
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

// clientConfig merges request key headers over the server's own keys.
func (h *ChatHandler) clientConfig(r *http.Request) client.Config {
	cfg := client.Config{
		GeminiAPIKey:    h.config.GeminiKey,
		GroqAPIKey:      h.config.GroqKey,
		AnthropicAPIKey: h.config.AnthropicKey,
	}
	if v := r.Header.Get("x-gemini-key"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := r.Header.Get("x-groq-key"); v != "" {
		cfg.GroqAPIKey = v
	}
	if v := r.Header.Get("x-anthropic-key"); v != "" {
		cfg.AnthropicAPIKey = v
	}
	return cfg
}

// buildMessages prepends the system instruction, with the mission
// context rendered in when present, to the caller's conversation.
// System-role messages from the caller are dropped; the instruction is
// not client-controlled.
func buildMessages(req *ChatRequest) []horizon.Message {
	system := horizon.SystemPrompt
	if req.Context != nil {
		system += focus.ContextMessage(req.Context.Missions)
	}

	out := []horizon.Message{{Role: horizon.RoleSystem, Content: system}}
	for _, m := range req.Messages {
		if m.Role == horizon.RoleSystem {
			continue
		}
		out = append(out, m)
	}
	return out
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// corsMiddleware allows browser frontends on other origins to call the
// chat endpoint.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, x-gemini-key, x-groq-key, x-anthropic-key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
