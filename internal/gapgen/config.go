package gapgen

import "time"

// Config controls the LLMGenerator.
type Config struct {
	MaxTokens   int
	Temperature float64

	// CacheTTL is how long a generated set is reused for an identical
	// target list. Zero disables caching.
	CacheTTL time.Duration

	// MaxTextLen bounds question text and explanation length in bytes.
	MaxTextLen int
}

// DefaultConfig returns recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		CacheTTL:    24 * time.Hour,
		MaxTextLen:  1000,
	}
}
