package observability

import (
	"fmt"
	"log/slog"
	"sync"
)

var (
	observers = map[string]Observer{
		"noop": NoOpObserver{},
		"slog": NewSlogObserver(slog.Default()),
	}
	mu sync.RWMutex
)

// Get returns a registered observer by name. Pre-registered names: "noop"
// and "slog" (the default logger).
func Get(name string) (Observer, error) {
	mu.RLock()
	defer mu.RUnlock()

	obs, exists := observers[name]
	if !exists {
		return nil, fmt.Errorf("unknown observer: %s", name)
	}
	return obs, nil
}

// Register adds or replaces a named observer.
func Register(name string, observer Observer) {
	mu.Lock()
	defer mu.Unlock()
	observers[name] = observer
}
