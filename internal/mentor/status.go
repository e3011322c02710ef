package mentor

// Status summarises mentor availability without building full weak areas.
// A nil stats value means the learner never attempted the course and yields
// the locked, all-zero status.
func Status(stats *CourseMentorStats, threshold int, weakScoreThreshold float64) MentorStatus {
	if stats == nil {
		return MentorStatus{ChaptersRequired: threshold}
	}

	weak := 0
	for _, p := range stats.ProgressByChapter {
		if IsWeak(p, weakScoreThreshold) {
			weak++
		}
	}

	return MentorStatus{
		MentorAvailable:   IsAvailable(stats.CompletedChapters, threshold),
		ChaptersCompleted: stats.CompletedChapters,
		ChaptersRequired:  threshold,
		AverageScore:      stats.AverageScore,
		WeakAreasCount:    weak,
		TotalWrongAnswers: stats.TotalWrongAnswers,
	}
}
