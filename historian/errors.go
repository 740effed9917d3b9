package historian

import (
	"errors"

	"github.com/tailored-agentic-units/historian/store"
)

// ErrEmptyInput is returned by Submit when the user text is empty or
// whitespace-only. The session history is left untouched.
var ErrEmptyInput = errors.New("user text is empty")

// Store sentinels re-exported so callers depend on this package alone.
var (
	ErrSessionNotFound = store.ErrSessionNotFound
	ErrEmptySessionID  = store.ErrEmptySessionID
)
