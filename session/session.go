// Package session holds per-conversation state: an ordered message log with a
// pinned system message and a two-pass trimming policy that bounds retained
// exchanges and the approximate token total.
//
// A Session's individual operations are safe for concurrent use, but callers
// that interleave whole submit cycles on one session must serialize them
// externally — the package makes no ordering guarantee across overlapping
// cycles. Distinct sessions are fully independent.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/historian/core/protocol"
)

// Session is an ordered conversation log bounded by a Config. The system
// message, when present, always occupies index 0 and is only removed by Clear.
type Session struct {
	id     string
	limits Config

	mu       sync.RWMutex
	messages []protocol.Message
}

// New creates a Session with the given id and bounds. An empty id is replaced
// with a UUIDv7; non-positive bounds fall back to defaults.
func New(id string, cfg Config) *Session {
	if id == "" {
		id = uuid.Must(uuid.NewV7()).String()
	}

	limits := DefaultConfig()
	limits.Merge(&cfg)

	return &Session{id: id, limits: limits}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Limits returns the history bounds the session was created with.
func (s *Session) Limits() Config {
	return s.limits
}

// SetSystem pins a system message at index 0. The first write wins: if a
// system message is already present, SetSystem leaves it untouched and
// returns false.
func (s *Session) SetSystem(content string, tokens int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasSystemLocked() {
		return false
	}

	msg := protocol.NewMessage(protocol.RoleSystem, content, tokens)
	s.messages = append([]protocol.Message{msg}, s.messages...)
	return true
}

// System returns the pinned system message, if any.
func (s *Session) System() (protocol.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasSystemLocked() {
		return protocol.Message{}, false
	}
	return s.messages[0], true
}

// Append adds a user or assistant message to the end of the history. System
// messages are routed through the first-write-wins pinning path instead.
func (s *Session) Append(msg protocol.Message) {
	if msg.Role == protocol.RoleSystem {
		s.SetSystem(msg.Content, msg.Tokens)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
}

// Messages returns a defensive copy of the history.
func (s *Session) Messages() []protocol.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]protocol.Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Len returns the number of stored messages, including the system message.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Pairs returns the number of retained user+assistant pairs. An unpaired
// trailing user message does not count as a pair.
func (s *Session) Pairs() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.messages)
	if s.hasSystemLocked() {
		n--
	}
	return n / 2
}

// TokenTotal returns the summed token estimates over the whole history.
func (s *Session) TokenTotal() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return protocol.TokenSum(s.messages)
}

// Restore replaces the history wholesale. Used by store backends when loading
// a persisted session; msgs must already respect the system-at-index-0
// invariant.
func (s *Session) Restore(msgs []protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = make([]protocol.Message, len(msgs))
	copy(s.messages, msgs)
}

// Clear resets the history, including the system message.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

func (s *Session) hasSystemLocked() bool {
	return len(s.messages) > 0 && s.messages[0].Role == protocol.RoleSystem
}
