// Package main provides the HorizonView assistant HTTP server. It
// relays chat conversations to whichever AI backend is configured,
// failing over between them, and renders mission context into the
// system instruction.
//
// Configuration is via environment variables:
//
//	HORIZON_PORT      - Server port (default: 8080)
//	HORIZON_LOG_LEVEL - debug, info, warn, error (default: info)
//	HORIZON_TIMEOUT   - Per-request completion timeout (default: 2m)
//	GEMINI_API_KEY    - Google Gemini API key
//	GROQ_API_KEY      - Groq API key
//	ANTHROPIC_API_KEY - Anthropic API key
//
// Requests may also carry per-user keys in the x-gemini-key,
// x-groq-key, and x-anthropic-key headers; those take precedence over
// the server's own keys.
//
// Usage:
//
//	go run ./cmd/horizond
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := LoadConfig()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	mux := http.NewServeMux()
	mux.Handle("/api/chat", corsMiddleware(NewChatHandler(cfg)))
	mux.HandleFunc("/health", healthHandler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("horizond starting", "port", cfg.Port)
	slog.Info("endpoint", "chat", "POST /api/chat", "health", "GET /health")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
