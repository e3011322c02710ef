// Package mentorsvc wires the mentor engine to its data store and
// generation collaborators.
package mentorsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/coursementor/internal/feedback"
	"github.com/abhisek/coursementor/internal/gapgen"
	"github.com/abhisek/coursementor/internal/logger"
	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/store"
)

var (
	// ErrNoData means the course is unknown or the learner has no progress on it.
	ErrNoData = errors.New("no progress data for course")

	// ErrMentorLocked means too few chapters are completed.
	ErrMentorLocked = errors.New("mentor is locked for this course")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid request")
)

const (
	DefaultExtraQuestions = 5
	MaxExtraQuestions     = 20
)

// GapQuizRequest asks for a gap quiz on one course.
type GapQuizRequest struct {
	CourseSlug          string `json:"course_slug" binding:"required"`
	IncludeHints        bool   `json:"include_hints"`
	GenerateExtra       bool   `json:"generate_extra"`
	ExtraQuestionsCount int    `json:"extra_questions_count"`
}

// Normalize applies defaults and checks bounds.
func (r *GapQuizRequest) Normalize() error {
	if r.CourseSlug == "" {
		return fmt.Errorf("%w: course_slug is required", ErrInvalidRequest)
	}
	if r.ExtraQuestionsCount == 0 {
		r.ExtraQuestionsCount = DefaultExtraQuestions
	}
	if r.ExtraQuestionsCount < 1 || r.ExtraQuestionsCount > MaxExtraQuestions {
		return fmt.Errorf("%w: extra_questions_count must be between 1 and %d, got %d",
			ErrInvalidRequest, MaxExtraQuestions, r.ExtraQuestionsCount)
	}
	return nil
}

// FeedbackResponse bundles the analysis, the mentor's prose and a gap quiz.
type FeedbackResponse struct {
	Analysis     *mentor.MentorAnalysis `json:"analysis"`
	FeedbackText string                 `json:"feedback_text"`
	Quiz         *mentor.GapQuiz        `json:"quiz"`
}

// FeedbackWriter produces prose feedback. *feedback.Writer satisfies it.
type FeedbackWriter interface {
	Write(ctx context.Context, analysis *mentor.MentorAnalysis) (string, error)
}

// Deps are the Service collaborators. Generator and Feedback may be nil, in
// which case extras are skipped and feedback falls back to a fixed summary.
type Deps struct {
	Courses   store.CourseRepo
	Progress  store.ProgressRepo
	Analyzer  *mentor.Analyzer
	Generator gapgen.Generator
	Feedback  FeedbackWriter
	Logger    *logger.Logger
}

// Service answers mentor queries for one learner at a time. It holds no
// per-request state.
type Service struct {
	courses   store.CourseRepo
	progress  store.ProgressRepo
	analyzer  *mentor.Analyzer
	generator gapgen.Generator
	feedback  FeedbackWriter
	log       *logger.Logger
}

func New(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = logger.NewNop()
	}
	analyzer := d.Analyzer
	if analyzer == nil {
		analyzer = mentor.NewAnalyzer(mentor.DefaultConfig())
	}
	return &Service{
		courses:   d.Courses,
		progress:  d.Progress,
		analyzer:  analyzer,
		generator: d.Generator,
		feedback:  d.Feedback,
		log:       log.With("service", "mentor"),
	}
}

// Status never fails for missing data; it reports a locked mentor instead.
func (s *Service) Status(ctx context.Context, userID, courseSlug string) (mentor.MentorStatus, error) {
	stats, err := s.progress.CourseStatsForMentor(ctx, userID, courseSlug)
	if err != nil {
		return mentor.MentorStatus{}, fmt.Errorf("load stats: %w", err)
	}
	return s.analyzer.Status(stats), nil
}

func (s *Service) Analyze(ctx context.Context, userID, courseSlug string) (*mentor.MentorAnalysis, error) {
	stats, err := s.progress.CourseStatsForMentor(ctx, userID, courseSlug)
	if err != nil {
		return nil, fmt.Errorf("load stats: %w", err)
	}
	if stats == nil {
		return nil, ErrNoData
	}
	return s.analyzer.Analyze(courseSlug, stats), nil
}

func (s *Service) GapQuiz(ctx context.Context, userID string, req GapQuizRequest) (*mentor.GapQuiz, error) {
	quiz, _, err := s.gapQuiz(ctx, userID, req)
	return quiz, err
}

func (s *Service) gapQuiz(ctx context.Context, userID string, req GapQuizRequest) (*mentor.GapQuiz, *mentor.MentorAnalysis, error) {
	if err := req.Normalize(); err != nil {
		return nil, nil, err
	}

	analysis, err := s.Analyze(ctx, userID, req.CourseSlug)
	if err != nil {
		return nil, nil, err
	}
	if !analysis.MentorAvailable {
		return nil, analysis, ErrMentorLocked
	}

	wrong, err := s.progress.WrongAnswersForCourse(ctx, userID, req.CourseSlug)
	if err != nil {
		return nil, analysis, fmt.Errorf("load wrong answers: %w", err)
	}

	in := mentor.GapQuizInput{
		UserID:       userID,
		CourseSlug:   req.CourseSlug,
		WrongAnswers: wrong,
		IncludeHints: req.IncludeHints,
	}
	if req.GenerateExtra {
		in.Extra, in.CacheHit = s.extras(ctx, analysis, req.ExtraQuestionsCount, req.IncludeHints)
	}

	quiz := mentor.BuildGapQuiz(in)
	s.log.Info("gap quiz built",
		"user_id", userID,
		"course", req.CourseSlug,
		"wrong_answers", quiz.WrongAnswersCount,
		"extras", quiz.ExtraQuestionsCount,
		"cache_hit", quiz.CacheHit,
	)
	return quiz, analysis, nil
}

// extras asks the generator for reinforcement questions. Failures degrade
// to a quiz of retries only.
func (s *Service) extras(ctx context.Context, analysis *mentor.MentorAnalysis, count int, includeHints bool) ([]mentor.GapQuizQuestion, bool) {
	if s.generator == nil || len(analysis.WeakAreas) == 0 {
		return nil, false
	}

	res, err := s.generator.Generate(ctx, gapgen.Request{
		CourseSlug:  analysis.CourseSlug,
		CourseTopic: analysis.CourseTopic,
		Difficulty:  analysis.Difficulty,
		WeakAreas:   analysis.WeakAreas,
		Count:       count,
	})
	if err != nil {
		s.log.Warn("extra question generation failed", "course", analysis.CourseSlug, "error", err)
		return nil, false
	}

	qs := res.Questions
	if !includeHints {
		qs = make([]mentor.GapQuizQuestion, len(res.Questions))
		for i, q := range res.Questions {
			q.Hint = nil
			qs[i] = q
		}
	}
	return qs, res.CacheHit
}

// Feedback returns the analysis, mentor prose and a gap quiz in one call.
func (s *Service) Feedback(ctx context.Context, userID string, req GapQuizRequest) (*FeedbackResponse, error) {
	quiz, analysis, err := s.gapQuiz(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	return &FeedbackResponse{
		Analysis:     analysis,
		FeedbackText: s.feedbackText(ctx, analysis),
		Quiz:         quiz,
	}, nil
}

func (s *Service) feedbackText(ctx context.Context, analysis *mentor.MentorAnalysis) string {
	if s.feedback == nil {
		return feedback.Fallback(analysis)
	}
	text, err := s.feedback.Write(ctx, analysis)
	if err != nil {
		s.log.Warn("feedback generation failed", "course", analysis.CourseSlug, "error", err)
		return feedback.Fallback(analysis)
	}
	return text
}

// SaveCourse creates or replaces a course definition.
func (s *Service) SaveCourse(ctx context.Context, c store.Course) error {
	if c.Slug == "" {
		return fmt.Errorf("%w: slug is required", ErrInvalidRequest)
	}
	for _, ch := range c.Chapters {
		if ch.Number < 1 {
			return fmt.Errorf("%w: chapter numbers start at 1, got %d", ErrInvalidRequest, ch.Number)
		}
	}
	return s.courses.SaveCourse(ctx, c)
}

// RecordProgress stores a learner's chapter result. The course must exist.
func (s *Service) RecordProgress(ctx context.Context, p store.ChapterProgress) error {
	if p.UserID == "" || p.CourseSlug == "" || p.ChapterNumber < 1 {
		return fmt.Errorf("%w: user, course and a positive chapter number are required", ErrInvalidRequest)
	}
	if p.Score != nil && (*p.Score < 0 || *p.Score > 1) {
		return fmt.Errorf("%w: score must be in [0, 1], got %g", ErrInvalidRequest, *p.Score)
	}
	if p.TotalQuestions < 0 || p.CorrectAnswers < 0 || p.CorrectAnswers > p.TotalQuestions {
		return fmt.Errorf("%w: correct answers must be in [0, %d], got %d", ErrInvalidRequest, p.TotalQuestions, p.CorrectAnswers)
	}
	for i, a := range p.Answers {
		if err := checkAnswer(a); err != nil {
			return fmt.Errorf("%w: answer %d: %v", ErrInvalidRequest, i, err)
		}
	}

	course, err := s.courses.GetCourse(ctx, p.CourseSlug)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return fmt.Errorf("course %q: %w", p.CourseSlug, ErrNoData)
	}
	return s.progress.SaveChapterProgress(ctx, p)
}

// checkAnswer rejects answer records whose correct answer does not match the
// question type. An empty type is read back as mcq.
func checkAnswer(a mentor.AnswerRecord) error {
	qt := a.QuestionType
	if qt == "" {
		qt = mentor.QuestionTypeMCQ
	}
	switch {
	case !qt.Valid():
		return fmt.Errorf("question_type %q is not mcq or true_false", a.QuestionType)
	case qt == mentor.QuestionTypeTrueFalse && !a.CorrectAnswer.IsBool:
		return errors.New("true_false questions need a boolean correct_answer")
	case qt == mentor.QuestionTypeMCQ && a.CorrectAnswer.IsBool:
		return errors.New("mcq questions need a string correct_answer")
	}
	return nil
}
