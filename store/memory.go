package store

import (
	"context"
	"sort"
	"sync"

	"github.com/tailored-agentic-units/historian/session"
)

type memoryStore struct {
	limits   session.Config
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

// NewMemoryStore creates a Store backed by an in-process map. Sessions live
// until Clear is called or the process exits.
func NewMemoryStore(limits session.Config) Store {
	return &memoryStore{
		limits:   limits,
		sessions: make(map[string]*session.Session),
	}
}

func (s *memoryStore) CreateOrGet(_ context.Context, id string) (*session.Session, bool, error) {
	if id == "" {
		return nil, false, ErrEmptySessionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, exists := s.sessions[id]; exists {
		return sess, false, nil
	}

	sess := session.New(id, s.limits)
	s.sessions[id] = sess
	return sess, true, nil
}

func (s *memoryStore) Get(_ context.Context, id string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[id]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *memoryStore) Save(_ context.Context, _ *session.Session) error {
	return nil
}

func (s *memoryStore) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *memoryStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
