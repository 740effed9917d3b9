package historian

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/historian/session"
	"github.com/tailored-agentic-units/historian/store"
	"github.com/tailored-agentic-units/historian/tokenizer"
)

// Config holds initialization parameters for the manager and its
// collaborators. Each section delegates to that subsystem's config-driven
// constructor. Observer names an entry in the observability registry; empty
// means the default slog observer.
type Config struct {
	Session   session.Config   `json:"session" yaml:"session" toml:"session"`
	Store     store.Config     `json:"store" yaml:"store" toml:"store"`
	Tokenizer tokenizer.Config `json:"tokenizer" yaml:"tokenizer" toml:"tokenizer"`
	Observer  string           `json:"observer,omitempty" yaml:"observer,omitempty" toml:"observer,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems: in-memory
// store, heuristic estimator, default history bounds.
func DefaultConfig() Config {
	return Config{
		Session:   session.DefaultConfig(),
		Store:     store.DefaultConfig(),
		Tokenizer: tokenizer.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Session.Merge(&source.Session)
	c.Store.Merge(&source.Store)
	c.Tokenizer.Merge(&source.Tokenizer)

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a config file, merges it with defaults, and returns the
// result. The format follows the file extension: .yaml/.yml and .toml are
// accepted alongside the default JSON.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	case ".toml":
		err = toml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
