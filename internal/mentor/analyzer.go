package mentor

// Analyzer runs weak-area analysis with a fixed configuration. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Config returns the analyzer's thresholds.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// Status returns the mentor status for the given stats.
func (a *Analyzer) Status(stats *CourseMentorStats) MentorStatus {
	return Status(stats, a.cfg.ChaptersThreshold, a.cfg.WeakScoreThreshold)
}

// Analyze builds the full weak-area profile. Returns nil when stats is nil.
func (a *Analyzer) Analyze(courseSlug string, stats *CourseMentorStats) *MentorAnalysis {
	if stats == nil {
		return nil
	}

	weakAreas := ExtractWeakAreas(stats.ProgressByChapter, stats.Chapters, a.cfg.WeakScoreThreshold)
	if weakAreas == nil {
		weakAreas = []WeakArea{}
	}

	return &MentorAnalysis{
		CourseSlug:             courseSlug,
		CourseTopic:            stats.CourseTopic,
		Difficulty:             stats.Difficulty,
		TotalChaptersCompleted: stats.CompletedChapters,
		TotalChapters:          stats.TotalChapters,
		AverageScore:           stats.AverageScore,
		WeakAreas:              weakAreas,
		TotalWrongAnswers:      stats.TotalWrongAnswers,
		MentorAvailable:        IsAvailable(stats.CompletedChapters, a.cfg.ChaptersThreshold),
	}
}
