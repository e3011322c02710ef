package mentor

import "testing"

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		completed, threshold int
		want                 bool
	}{
		{0, 3, false},
		{2, 3, false},
		{3, 3, true},
		{7, 3, true},
		{0, 0, true},
	}
	for _, tt := range tests {
		if got := IsAvailable(tt.completed, tt.threshold); got != tt.want {
			t.Errorf("IsAvailable(%d, %d) = %v, want %v", tt.completed, tt.threshold, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	bad := []Config{
		{ChaptersThreshold: -1, WeakScoreThreshold: 0.7},
		{ChaptersThreshold: 3, WeakScoreThreshold: 0},
		{ChaptersThreshold: 3, WeakScoreThreshold: 1},
		{ChaptersThreshold: 3, WeakScoreThreshold: 1.5},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("expected error for %+v", c)
		}
	}
}
