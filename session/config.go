package session

const (
	defaultMaxExchanges = 20
	defaultMaxTokens    = 8192

	// budgetHeadroomPct sets the token threshold for the budget pass at a
	// fraction of MaxTokens, so eviction starts before the hard cap is hit.
	budgetHeadroomPct = 80
)

// Config bounds a session's retained history. MaxExchanges caps the number of
// user+assistant pairs; MaxTokens is a soft budget on the summed token
// estimates. Both must be positive; New replaces non-positive values with
// defaults.
type Config struct {
	MaxExchanges int `json:"max_exchanges,omitempty" yaml:"max_exchanges,omitempty" toml:"max_exchanges,omitempty"`
	MaxTokens    int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty" toml:"max_tokens,omitempty"`
}

// DefaultConfig returns the default history bounds.
func DefaultConfig() Config {
	return Config{
		MaxExchanges: defaultMaxExchanges,
		MaxTokens:    defaultMaxTokens,
	}
}

// Merge applies positive values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxExchanges > 0 {
		c.MaxExchanges = source.MaxExchanges
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
}

// budgetThreshold returns the token count at which the budget pass starts
// evicting.
func (c Config) budgetThreshold() int {
	return c.MaxTokens * budgetHeadroomPct / 100
}
