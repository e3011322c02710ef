package mentor

// IsAvailable reports whether the mentor is unlocked for a learner who has
// completed chaptersCompleted chapters.
func IsAvailable(chaptersCompleted, threshold int) bool {
	return chaptersCompleted >= threshold
}
