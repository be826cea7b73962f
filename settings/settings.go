// Package settings stores user-supplied backend credentials on the local
// device and keeps the provider registry in sync with them.
package settings

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/client"
	"github.com/horizonview/horizon/store"
)

// Storage keys, one per backend.
const (
	KeyGemini    = "horizonview_gemini_key"
	KeyGroq      = "horizonview_groq_key"
	KeyAnthropic = "horizonview_anthropic_key"
)

// Store is the durable credential store. All derived facts
// (ProviderStatus, HasAnyProvider) are recomputed from the in-memory
// config on every read; there is no cached status to go stale.
type Store struct {
	mu       sync.Mutex
	adapter  store.Adapter
	registry *client.Registry
	config   client.Config
}

// New creates a settings store over the given adapter. Saving or
// clearing keys resets and reconstructs the registry's client so call
// sites never keep stale backend handles.
func New(adapter store.Adapter, registry *client.Registry) *Store {
	if adapter == nil {
		adapter = store.NewMemoryAdapter()
	}
	return &Store{adapter: adapter, registry: registry}
}

// Load reads persisted credential values. Absent and empty-string values
// are both treated as "not configured". When at least one credential is
// present the registry is initialized with the loaded config.
func (s *Store) Load(ctx context.Context) error {
	gemini, err := s.readKey(ctx, KeyGemini)
	if err != nil {
		return err
	}
	groq, err := s.readKey(ctx, KeyGroq)
	if err != nil {
		return err
	}
	anthropic, err := s.readKey(ctx, KeyAnthropic)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.config = client.Config{
		GeminiAPIKey:    gemini,
		GroqAPIKey:      groq,
		AnthropicAPIKey: anthropic,
	}
	cfg := s.config
	s.mu.Unlock()

	if cfg != (client.Config{}) && s.registry != nil {
		s.registry.Client(&cfg)
	}
	return nil
}

// SaveKeys persists each non-empty value under its own key and removes
// the persisted entry for any empty value, then resets and reconstructs
// the registry's client with the new config.
func (s *Store) SaveKeys(ctx context.Context, geminiKey, groqKey, anthropicKey string) error {
	pairs := []struct {
		key   string
		value string
	}{
		{KeyGemini, geminiKey},
		{KeyGroq, groqKey},
		{KeyAnthropic, anthropicKey},
	}
	for _, p := range pairs {
		if p.value != "" {
			raw, err := json.Marshal(p.value)
			if err != nil {
				return err
			}
			if err := s.adapter.Set(ctx, p.key, raw); err != nil {
				return err
			}
		} else if err := s.adapter.Delete(ctx, p.key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.config = client.Config{
		GeminiAPIKey:    geminiKey,
		GroqAPIKey:      groqKey,
		AnthropicAPIKey: anthropicKey,
	}
	cfg := s.config
	s.mu.Unlock()

	if s.registry != nil {
		s.registry.Reset()
		s.registry.Client(&cfg)
	}
	return nil
}

// ClearKeys removes all persisted credential entries, resets the
// in-memory config, and resets the registry.
func (s *Store) ClearKeys(ctx context.Context) error {
	for _, key := range []string{KeyGemini, KeyGroq, KeyAnthropic} {
		if err := s.adapter.Delete(ctx, key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.config = client.Config{}
	s.mu.Unlock()

	if s.registry != nil {
		s.registry.Reset()
	}
	return nil
}

// Config returns the current in-memory configuration.
func (s *Store) Config() client.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// ProviderStatus reports which backends have a credential configured.
func (s *Store) ProviderStatus() map[horizon.Provider]bool {
	cfg := s.Config()
	return map[horizon.Provider]bool{
		horizon.ProviderGemini:    cfg.GeminiAPIKey != "",
		horizon.ProviderGroq:      cfg.GroqAPIKey != "",
		horizon.ProviderAnthropic: cfg.AnthropicAPIKey != "",
	}
}

// HasAnyProvider reports whether any backend credential is configured.
func (s *Store) HasAnyProvider() bool {
	for _, ok := range s.ProviderStatus() {
		if ok {
			return true
		}
	}
	return false
}

func (s *Store) readKey(ctx context.Context, key string) (string, error) {
	raw, ok, err := s.adapter.Get(ctx, key)
	if err != nil || !ok {
		return "", err
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		// A corrupt entry reads as not configured rather than failing
		// startup.
		return "", nil
	}
	return value, nil
}
