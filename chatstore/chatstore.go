// Package chatstore provides the persisted multi-session conversation
// log with streaming-update coalescing.
package chatstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/horizonview/horizon"
	"github.com/horizonview/horizon/store"
)

// StorageKey is the single adapter key holding the persisted chat state.
const StorageKey = "horizon-chat-storage"

// titlePrefixLen caps the session title derived from the first message.
const titlePrefixLen = 50

// ChatMessage is one message in a session. Mutated in place through the
// store's update operations; never deleted except by retry truncation or
// session deletion.
type ChatMessage struct {
	ID          string       `json:"id"`
	Role        horizon.Role `json:"role"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Error       string       `json:"error,omitempty"`
	IsStreaming bool         `json:"isStreaming,omitempty"`
}

// ChatSession is one conversation thread. Message order is conversation
// order; the only structural mutations are append and targeted delete.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewMessage carries the caller-supplied fields of a message about to be
// appended; the store assigns the ID and timestamp.
type NewMessage struct {
	Role        horizon.Role
	Content     string
	Error       string
	IsStreaming bool
}

// MessageUpdate is a shallow merge applied to an existing message. Nil
// fields are left untouched.
type MessageUpdate struct {
	Content     *string
	Error       *string
	IsStreaming *bool
}

type queueKey struct {
	SessionID string
	MessageID string
}

type queuedUpdate struct {
	Content   string
	Timestamp time.Time
}

// persistedState is the durable projection: the streaming queue is
// transient and never serialized.
type persistedState struct {
	Sessions         []*ChatSession `json:"sessions"`
	CurrentSessionID string         `json:"currentSessionId"`
}

// Store is the session store. All operations are synchronous and
// mutex-guarded; missing session or message IDs make mutations silent
// no-ops and reads return empty values, never errors.
type Store struct {
	mu        sync.Mutex
	adapter   store.Adapter
	sessions  []*ChatSession // most-recent-first
	currentID string
	queue     map[queueKey]queuedUpdate
}

// New creates a store over the given adapter. A nil adapter degrades to
// in-memory-only operation.
func New(adapter store.Adapter) *Store {
	if adapter == nil {
		adapter = store.NewMemoryAdapter()
	}
	return &Store{
		adapter: adapter,
		queue:   make(map[queueKey]queuedUpdate),
	}
}

// Load rehydrates sessions and the current session id from storage. The
// streaming queue is always rebuilt empty, even if a stale serialized
// queue is somehow present in the stored payload.
func (s *Store) Load(ctx context.Context) error {
	raw, ok, err := s.adapter.Get(ctx, StorageKey)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = make(map[queueKey]queuedUpdate)
	if !ok {
		return nil
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return err
	}
	s.sessions = state.Sessions
	s.currentID = state.CurrentSessionID
	if s.findSessionLocked(s.currentID) == nil {
		// A dangling current-session reference means no current session.
		s.currentID = ""
	}
	return nil
}

// Sync writes the durable projection (sessions and current session id)
// under the storage key.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	state := persistedState{
		Sessions:         s.sessions,
		CurrentSessionID: s.currentID,
	}
	raw, err := json.Marshal(state)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.adapter.Set(ctx, StorageKey, raw)
}

// CreateSession allocates a new session, optionally seeded with a single
// user message, prepends it to the session list, makes it current, and
// returns its id. The title defaults to a prefix of the initial message,
// or "New Chat".
func (s *Store) CreateSession(initialMessage string) string {
	now := time.Now()
	session := &ChatSession{
		ID:        horizon.GenerateSessionID(),
		Title:     sessionTitle(initialMessage),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if initialMessage != "" {
		session.Messages = append(session.Messages, ChatMessage{
			ID:        horizon.GenerateMessageID(),
			Role:      horizon.RoleUser,
			Content:   initialMessage,
			Timestamp: now,
		})
	}

	s.mu.Lock()
	s.sessions = append([]*ChatSession{session}, s.sessions...)
	s.currentID = session.ID
	s.mu.Unlock()

	s.persist()
	return session.ID
}

// DeleteSession removes the named session; clears the current session id
// if it pointed at the deleted session. No-op on a missing id.
func (s *Store) DeleteSession(id string) {
	s.mu.Lock()
	kept := s.sessions[:0]
	removed := false
	for _, session := range s.sessions {
		if session.ID == id {
			removed = true
			continue
		}
		kept = append(kept, session)
	}
	s.sessions = kept
	if s.currentID == id {
		s.currentID = ""
	}
	s.mu.Unlock()

	if removed {
		s.persist()
	}
}

// RenameSession sets the session title. No-op on a missing id.
func (s *Store) RenameSession(id, title string) {
	s.mu.Lock()
	session := s.findSessionLocked(id)
	if session != nil {
		session.Title = title
		session.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	if session != nil {
		s.persist()
	}
}

// ClearSession removes every message from the session. No-op on a
// missing id.
func (s *Store) ClearSession(id string) {
	s.mu.Lock()
	session := s.findSessionLocked(id)
	if session != nil {
		session.Messages = nil
		session.UpdatedAt = time.Now()
	}
	s.mu.Unlock()

	if session != nil {
		s.persist()
	}
}

// AddMessage appends a fully-timestamped, uniquely-identified message to
// the named session and returns a copy of it. Returns nil without
// mutating anything if the session does not exist.
func (s *Store) AddMessage(sessionID string, msg NewMessage) *ChatMessage {
	s.mu.Lock()
	session := s.findSessionLocked(sessionID)
	if session == nil {
		s.mu.Unlock()
		return nil
	}

	now := time.Now()
	message := ChatMessage{
		ID:          horizon.GenerateMessageID(),
		Role:        msg.Role,
		Content:     msg.Content,
		Timestamp:   now,
		Error:       msg.Error,
		IsStreaming: msg.IsStreaming,
	}
	session.Messages = append(session.Messages, message)
	session.UpdatedAt = now
	s.mu.Unlock()

	s.persist()
	return &message
}

// UpdateMessage shallow-merges updates into the matching message. No-op
// if the session or message is absent.
func (s *Store) UpdateMessage(sessionID, messageID string, updates MessageUpdate) {
	s.mu.Lock()
	applied := s.applyUpdateLocked(sessionID, messageID, updates)
	s.mu.Unlock()

	if applied {
		s.persist()
	}
}

// DeleteMessage removes the matching message. No-op if absent.
func (s *Store) DeleteMessage(sessionID, messageID string) {
	s.mu.Lock()
	session := s.findSessionLocked(sessionID)
	removed := false
	if session != nil {
		kept := session.Messages[:0]
		for _, m := range session.Messages {
			if m.ID == messageID {
				removed = true
				continue
			}
			kept = append(kept, m)
		}
		session.Messages = kept
		if removed {
			session.UpdatedAt = time.Now()
		}
	}
	s.mu.Unlock()

	if removed {
		s.persist()
	}
}

// MarkMessageError sets the message's error and forces streaming off.
func (s *Store) MarkMessageError(sessionID, messageID, errText string) {
	streaming := false
	s.UpdateMessage(sessionID, messageID, MessageUpdate{
		Error:       &errText,
		IsStreaming: &streaming,
	})
}

// SetMessageStreaming sets the message's streaming flag.
func (s *Store) SetMessageStreaming(sessionID, messageID string, streaming bool) {
	s.UpdateMessage(sessionID, messageID, MessageUpdate{IsStreaming: &streaming})
}

// StreamMessageUpdate records the content in the transient queue
// (last-write-wins per message) and immediately applies it to the
// message if it exists. The queue lets a caller batch persistence
// flushes; it never defers the visible content change.
func (s *Store) StreamMessageUpdate(sessionID, messageID, content string) {
	s.mu.Lock()
	s.queue[queueKey{sessionID, messageID}] = queuedUpdate{
		Content:   content,
		Timestamp: time.Now(),
	}
	s.applyUpdateLocked(sessionID, messageID, MessageUpdate{Content: &content})
	s.mu.Unlock()
}

// FlushStreamingUpdates clears the transient queue and performs one
// batched persistence write covering everything the queue buffered. The
// queue is empty afterward even if the write fails; content stays live
// in memory regardless.
func (s *Store) FlushStreamingUpdates(ctx context.Context) error {
	s.mu.Lock()
	dirty := len(s.queue) > 0
	s.queue = make(map[queueKey]queuedUpdate)
	s.mu.Unlock()

	if !dirty {
		return nil
	}
	return s.Sync(ctx)
}

// PendingStreamingUpdates returns the number of queued, unflushed
// streaming updates.
func (s *Store) PendingStreamingUpdates() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// GetMessages returns a copy of the session's messages, or an empty
// slice on a missing id.
func (s *Store) GetMessages(sessionID string) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.findSessionLocked(sessionID)
	if session == nil {
		return nil
	}
	out := make([]ChatMessage, len(session.Messages))
	copy(out, session.Messages)
	return out
}

// GetCurrentMessages returns the current session's messages, or an empty
// slice when there is no current session.
func (s *Store) GetCurrentMessages() []ChatMessage {
	return s.GetMessages(s.CurrentSessionID())
}

// GetCurrentSession returns a copy of the current session, or nil.
func (s *Store) GetCurrentSession() *ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := s.findSessionLocked(s.currentID)
	if session == nil {
		return nil
	}
	copied := *session
	copied.Messages = make([]ChatMessage, len(session.Messages))
	copy(copied.Messages, session.Messages)
	return &copied
}

// Sessions returns copies of all sessions, most recent first.
func (s *Store) Sessions() []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		copied := *session
		copied.Messages = make([]ChatMessage, len(session.Messages))
		copy(copied.Messages, session.Messages)
		out = append(out, copied)
	}
	return out
}

// CurrentSessionID returns the current session id, or "" when a stored
// reference no longer resolves to an existing session.
func (s *Store) CurrentSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findSessionLocked(s.currentID) == nil {
		return ""
	}
	return s.currentID
}

// SetCurrentSessionID switches the current session.
func (s *Store) SetCurrentSessionID(id string) {
	s.mu.Lock()
	s.currentID = id
	s.mu.Unlock()
	s.persist()
}

func (s *Store) findSessionLocked(id string) *ChatSession {
	if id == "" {
		return nil
	}
	for _, session := range s.sessions {
		if session.ID == id {
			return session
		}
	}
	return nil
}

func (s *Store) applyUpdateLocked(sessionID, messageID string, updates MessageUpdate) bool {
	session := s.findSessionLocked(sessionID)
	if session == nil {
		return false
	}
	for i := range session.Messages {
		if session.Messages[i].ID != messageID {
			continue
		}
		if updates.Content != nil {
			session.Messages[i].Content = *updates.Content
		}
		if updates.Error != nil {
			session.Messages[i].Error = *updates.Error
		}
		if updates.IsStreaming != nil {
			session.Messages[i].IsStreaming = *updates.IsStreaming
		}
		session.UpdatedAt = time.Now()
		return true
	}
	return false
}

// persist writes the durable projection best-effort. Storage being
// unavailable degrades the store to in-memory-only operation; reads and
// mutations keep working.
func (s *Store) persist() {
	_ = s.Sync(context.Background())
}

func sessionTitle(initialMessage string) string {
	if initialMessage == "" {
		return "New Chat"
	}
	runes := []rune(initialMessage)
	if len(runes) > titlePrefixLen {
		return string(runes[:titlePrefixLen])
	}
	return initialMessage
}
