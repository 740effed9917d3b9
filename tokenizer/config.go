package tokenizer

const defaultBytesPerToken = 4

// Config holds estimator initialization parameters.
type Config struct {
	BytesPerToken int `json:"bytes_per_token,omitempty" yaml:"bytes_per_token,omitempty" toml:"bytes_per_token,omitempty"`
}

// DefaultConfig returns the default estimator configuration.
func DefaultConfig() Config {
	return Config{BytesPerToken: defaultBytesPerToken}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BytesPerToken > 0 {
		c.BytesPerToken = source.BytesPerToken
	}
}

// New creates an Estimator from configuration.
func New(cfg *Config) (Estimator, error) {
	return NewHeuristic(cfg.BytesPerToken), nil
}
