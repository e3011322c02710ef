package store

import (
	"context"
	"time"

	"github.com/abhisek/coursementor/internal/mentor"
)

// Course is a course definition as stored.
type Course struct {
	Slug       string                     `json:"slug"`
	Topic      string                     `json:"topic"`
	Difficulty string                     `json:"difficulty"`
	Chapters   []mentor.ChapterDefinition `json:"chapters"`
}

// ChapterProgress is one learner's result on one chapter. A nil Score is
// stored as absent and read back as mentor.DefaultScore.
type ChapterProgress struct {
	UserID         string                `json:"user_id"`
	CourseSlug     string                `json:"course_slug"`
	ChapterNumber  int                   `json:"chapter_number"`
	ChapterTitle   string                `json:"chapter_title"`
	Completed      bool                  `json:"completed"`
	Score          *float64              `json:"score"`
	TotalQuestions int                   `json:"total_questions"`
	CorrectAnswers int                   `json:"correct_answers"`
	Answers        []mentor.AnswerRecord `json:"answers"`
}

// CourseRepo stores course definitions.
type CourseRepo interface {
	// SaveCourse creates or replaces a course by slug.
	SaveCourse(ctx context.Context, c Course) error

	// GetCourse returns nil when the slug is unknown.
	GetCourse(ctx context.Context, slug string) (*Course, error)
}

// ProgressRepo stores chapter results and builds the mentor's views of them.
type ProgressRepo interface {
	// SaveChapterProgress upserts by (user, course, chapter).
	SaveChapterProgress(ctx context.Context, p ChapterProgress) error

	// CourseStatsForMentor aggregates a learner's progress on a course.
	// Returns nil when the course is unknown or the learner has no progress.
	CourseStatsForMentor(ctx context.Context, userID, courseSlug string) (*mentor.CourseMentorStats, error)

	// WrongAnswersForCourse returns every missed question on the course,
	// chapter ascending then answer order.
	WrongAnswersForCourse(ctx context.Context, userID, courseSlug string) ([]mentor.RawWrongAnswer, error)
}

// QueryOpts filters and paginates event queries.
type QueryOpts struct {
	Limit   int       // 0 = unlimited
	Purpose string    // exact match when set
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData is what the LLM logging decorator records per call.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLM call.
type LLMEvent struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMPurposeUsage aggregates calls by purpose label.
type LLMPurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates calls by model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo records and queries LLM request events.
type EventRepo interface {
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns nil when id does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMPurposeUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
