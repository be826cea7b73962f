// Package controller orchestrates chat turns between user input, the
// session store, and the completion client.
package controller

import (
	"context"
	"strings"
	"sync"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/chatstore"
	"github.com/horizonview/horizon/command"
	"github.com/horizonview/horizon/focus"
)

// Fixed user-facing message errors. Callers match on these to decide
// whether a turn is retry-eligible.
const (
	ErrTextNoProvider     = "Please configure your AI keys to use Horizon Assistant."
	ErrTextGenerateFailed = "Failed to generate response. Please try again."
)

// CompletionClient is the completion surface the controller talks to.
type CompletionClient interface {
	HasAnyProvider() bool
	GenerateCompletion(ctx context.Context, messages []horizon.Message) (*horizon.Completion, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithMissionSource supplies mission data for the context block sent
// with each turn.
func WithMissionSource(source command.MissionSource) Option {
	return func(c *Controller) { c.source = source }
}

// WithOpenSettings registers the callback invoked when input is a
// settings command rather than a chat message.
func WithOpenSettings(fn func()) Option {
	return func(c *Controller) { c.openSettings = fn }
}

// Controller runs the submit flow. One turn may be in flight per
// session; turns in different sessions proceed independently.
type Controller struct {
	store        *chatstore.Store
	client       CompletionClient
	source       command.MissionSource
	openSettings func()

	mu       sync.Mutex
	inFlight map[string]bool
}

// New builds a controller over the session store and completion client.
// A nil client behaves as "no backend configured".
func New(store *chatstore.Store, client CompletionClient, opts ...Option) *Controller {
	c := &Controller{
		store:    store,
		client:   client,
		inFlight: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one chat turn against the current session, creating a
// session seeded with the input if none exists. Blank input and
// overlapping turns in the same session are rejected; completion
// failures never propagate as errors, they land on the assistant
// message instead.
func (c *Controller) Submit(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return horizon.ErrEmptyInput
	}

	if command.Classify(input) == command.KindSettings {
		if c.openSettings != nil {
			c.openSettings()
		}
		return nil
	}

	sessionID := c.store.CurrentSessionID()
	appendUser := true
	if sessionID == "" {
		// CreateSession seeds the first user message itself.
		sessionID = c.store.CreateSession(input)
		appendUser = false
	}
	return c.runTurn(ctx, sessionID, input, appendUser)
}

// Retry re-runs the turn that began with the given user message:
// everything after it in the session is deleted, then the submit flow
// runs again with the message's original content. Trailing assistant
// messages therefore never accumulate across retries.
func (c *Controller) Retry(ctx context.Context, sessionID, userMessageID string) error {
	messages := c.store.GetMessages(sessionID)
	idx := -1
	for i, m := range messages {
		if m.ID == userMessageID && m.Role == horizon.RoleUser {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	for _, m := range messages[idx+1:] {
		c.store.DeleteMessage(sessionID, m.ID)
	}
	return c.runTurn(ctx, sessionID, messages[idx].Content, false)
}

func (c *Controller) runTurn(ctx context.Context, sessionID, input string, appendUser bool) error {
	c.mu.Lock()
	if c.inFlight[sessionID] {
		c.mu.Unlock()
		return horizon.ErrTurnInFlight
	}
	c.inFlight[sessionID] = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.inFlight, sessionID)
		c.mu.Unlock()
		_ = c.store.FlushStreamingUpdates(ctx)
	}()

	if appendUser {
		c.store.AddMessage(sessionID, chatstore.NewMessage{
			Role:    horizon.RoleUser,
			Content: input,
		})
	}

	if c.client == nil || !c.client.HasAnyProvider() {
		c.store.AddMessage(sessionID, chatstore.NewMessage{
			Role:  horizon.RoleAssistant,
			Error: ErrTextNoProvider,
		})
		return nil
	}

	placeholder := c.store.AddMessage(sessionID, chatstore.NewMessage{
		Role:        horizon.RoleAssistant,
		IsStreaming: true,
	})
	if placeholder == nil {
		return nil
	}

	completion, err := c.client.GenerateCompletion(ctx, c.buildMessages(sessionID, placeholder.ID))
	if err != nil {
		c.store.MarkMessageError(sessionID, placeholder.ID, ErrTextGenerateFailed)
		return nil
	}

	streaming := false
	c.store.UpdateMessage(sessionID, placeholder.ID, chatstore.MessageUpdate{
		Content:     &completion.Text,
		IsStreaming: &streaming,
	})
	return nil
}

// buildMessages assembles the completion request: the fixed system
// instruction plus mission context, then the session's conversation in
// order, minus system-role messages and the placeholder itself.
func (c *Controller) buildMessages(sessionID, placeholderID string) []horizon.Message {
	var missions []focus.Mission
	if c.source != nil {
		missions = c.source.Missions()
	}

	out := []horizon.Message{{
		Role:    horizon.RoleSystem,
		Content: horizon.SystemPrompt + focus.ContextMessage(missions),
	}}
	for _, m := range c.store.GetMessages(sessionID) {
		if m.Role == horizon.RoleSystem || m.ID == placeholderID {
			continue
		}
		out = append(out, horizon.Message{Role: m.Role, Content: m.Content})
	}
	return out
}
