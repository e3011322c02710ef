package mentor

import (
	"time"

	"github.com/google/uuid"
)

// GapQuizInput carries everything needed to assemble a gap quiz.
type GapQuizInput struct {
	UserID     string
	CourseSlug string

	// WrongAnswers is every missed question on the course, in fetch order.
	// It is not filtered by weak-area score.
	WrongAnswers []RawWrongAnswer

	IncludeHints bool

	// Extra holds generated reinforcement questions, if any were requested.
	Extra []GapQuizQuestion

	// CacheHit reports whether Extra came from the generation cache.
	CacheHit bool
}

// BuildGapQuiz turns every wrong answer into a free retry and appends the
// extra questions. Counts are derived from the two slices.
func BuildGapQuiz(in GapQuizInput) *GapQuiz {
	wrong := make([]WrongAnswer, 0, len(in.WrongAnswers))
	for _, raw := range in.WrongAnswers {
		wrong = append(wrong, toWrongAnswer(raw, in.IncludeHints))
	}

	extra := make([]GapQuizQuestion, 0, len(in.Extra))
	extra = append(extra, in.Extra...)

	return &GapQuiz{
		ID:                  uuid.NewString(),
		CourseSlug:          in.CourseSlug,
		UserID:              in.UserID,
		WrongAnswers:        wrong,
		ExtraQuestions:      extra,
		TotalQuestions:      len(wrong) + len(extra),
		WrongAnswersCount:   len(wrong),
		ExtraQuestionsCount: len(extra),
		IncludeHints:        in.IncludeHints,
		CacheHit:            in.CacheHit && len(extra) > 0,
		CreatedAt:           time.Now().UTC(),
	}
}

func toWrongAnswer(raw RawWrongAnswer, includeHint bool) WrongAnswer {
	qt := raw.QuestionType
	if qt == "" {
		qt = QuestionTypeMCQ
	}

	wa := WrongAnswer{
		QuestionID:    raw.QuestionID,
		QuestionText:  raw.QuestionText,
		QuestionType:  qt,
		UserAnswer:    raw.UserAnswer,
		CorrectAnswer: raw.CorrectAnswer,
		Explanation:   raw.Explanation,
		ChapterNumber: raw.ChapterNumber,
		ChapterTitle:  raw.ChapterTitle,
	}
	if qt == QuestionTypeMCQ {
		wa.Options = raw.Options
	}
	if includeHint {
		h := Hint(raw.Explanation)
		wa.Hint = &h
	}
	return wa
}
