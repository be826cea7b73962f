// Package store provides persistence adapters for the settings and chat
// stores. Adapters are simple key-value backends; callers own the shape
// of the values they persist.
package store

import (
	"context"
	"encoding/json"
)

// Adapter defines the interface for persistence backends.
// Implementations must be thread-safe.
type Adapter interface {
	// Get retrieves a value by key. Returns nil, false, nil if not found.
	Get(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Set stores a value by key.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// Delete removes a key. No error if key doesn't exist.
	Delete(ctx context.Context, key string) error

	// Keys returns all keys.
	Keys(ctx context.Context) ([]string, error)

	// Clear removes all data.
	Clear(ctx context.Context) error
}
