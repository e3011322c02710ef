package mentor

import "fmt"

// Config holds the mentor engine thresholds. It is read-only after
// construction and may be shared across concurrent requests.
type Config struct {
	// ChaptersThreshold is the number of completed chapters required to
	// unlock the mentor for a course.
	ChaptersThreshold int

	// WeakScoreThreshold is the exclusive score cutoff below which a
	// completed chapter counts as weak. Range: (0, 1).
	WeakScoreThreshold float64
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		ChaptersThreshold:  3,
		WeakScoreThreshold: 0.7,
	}
}

// Validate checks that the thresholds are in range.
func (c Config) Validate() error {
	if c.ChaptersThreshold < 0 {
		return fmt.Errorf("mentor chapters threshold must be >= 0, got %d", c.ChaptersThreshold)
	}
	if c.WeakScoreThreshold <= 0 || c.WeakScoreThreshold >= 1 {
		return fmt.Errorf("mentor weak score threshold must be in (0, 1), got %g", c.WeakScoreThreshold)
	}
	return nil
}
