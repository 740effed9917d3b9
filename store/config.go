package store

import (
	"fmt"

	"github.com/tailored-agentic-units/historian/session"
)

// Driver names accepted by Config.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds store initialization parameters. Limits apply to every session
// the store creates.
type Config struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty" toml:"driver,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"` // SQLite database file; required for the sqlite driver.
}

// DefaultConfig returns the default store configuration (in-memory).
func DefaultConfig() Config {
	return Config{Driver: DriverMemory}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Driver != "" {
		c.Driver = source.Driver
	}
	if source.Path != "" {
		c.Path = source.Path
	}
}

// New creates a Store from configuration.
func New(cfg *Config, limits session.Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(limits), nil
	case DriverSQLite:
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires a path")
		}
		return NewSQLiteStore(cfg.Path, limits)
	default:
		return nil, fmt.Errorf("unknown store driver: %q", cfg.Driver)
	}
}
