// Package store maps session identifiers to live session state and optionally
// persists histories across process restarts. The manager owns mutation of
// the sessions a store hands out; stores own lookup, persistence, and
// removal.
package store

import (
	"context"

	"github.com/tailored-agentic-units/historian/session"
)

// Store is a registry of sessions keyed by opaque identifier. Implementations
// must be safe for concurrent use across distinct sessions; callers serialize
// work within one session.
type Store interface {
	// CreateOrGet returns the session for id, creating it on first use.
	// The boolean reports whether a new session was created. Idempotent:
	// repeated calls with the same id return the same underlying session.
	CreateOrGet(ctx context.Context, id string) (*session.Session, bool, error)

	// Get returns the session for id, or ErrSessionNotFound. Sessions are
	// never created implicitly by Get.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Save persists the session's current history. In-memory stores treat
	// this as a no-op.
	Save(ctx context.Context, sess *session.Session) error

	// Clear removes the session entirely, including its system message.
	// Idempotent: clearing an unknown id is not an error.
	Clear(ctx context.Context, id string) error

	// List returns the identifiers of all known sessions.
	List(ctx context.Context) ([]string, error)
}
