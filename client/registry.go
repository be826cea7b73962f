package client

import "sync"

// Registry holds the process-wide active Client instance. Credentials can
// change at runtime, so call sites fetch the client through the registry
// rather than keeping their own handle to stale backends.
//
// The registry is an owned object passed by reference to consumers; it is
// safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	client *Client
}

// NewRegistry creates an empty registry. The first no-config Client call
// lazily constructs a client with no backends.
func NewRegistry() *Registry {
	return &Registry{}
}

// Client returns the active client. When cfg is non-nil a new client is
// always constructed and stored, even if cfg is value-equal to the
// previous configuration; replacement is governed by call identity, not
// value equality. When cfg is nil the stored client is returned, lazily
// constructing an empty (no-backend) client if none exists yet.
func (r *Registry) Client(cfg *Config) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cfg != nil {
		r.client = New(*cfg)
	}
	if r.client == nil {
		r.client = New(Config{})
	}
	return r.client
}

// Reset clears the stored instance unconditionally. The next no-config
// Client call produces a fresh empty client.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.client = nil
}
