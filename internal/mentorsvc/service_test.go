package mentorsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursementor/internal/gapgen"
	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/store"
)

type fakeProgress struct {
	stats *mentor.CourseMentorStats
	wrong []mentor.RawWrongAnswer
	saved []store.ChapterProgress
	err   error
}

func (f *fakeProgress) SaveChapterProgress(_ context.Context, p store.ChapterProgress) error {
	f.saved = append(f.saved, p)
	return nil
}

func (f *fakeProgress) CourseStatsForMentor(context.Context, string, string) (*mentor.CourseMentorStats, error) {
	return f.stats, f.err
}

func (f *fakeProgress) WrongAnswersForCourse(context.Context, string, string) ([]mentor.RawWrongAnswer, error) {
	return f.wrong, nil
}

type fakeCourses struct {
	courses map[string]store.Course
}

func (f *fakeCourses) SaveCourse(_ context.Context, c store.Course) error {
	if f.courses == nil {
		f.courses = map[string]store.Course{}
	}
	f.courses[c.Slug] = c
	return nil
}

func (f *fakeCourses) GetCourse(_ context.Context, slug string) (*store.Course, error) {
	c, ok := f.courses[slug]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type fakeGenerator struct {
	result *gapgen.Result
	err    error
	reqs   []gapgen.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req gapgen.Request) (*gapgen.Result, error) {
	f.reqs = append(f.reqs, req)
	return f.result, f.err
}

type fakeWriter struct {
	text string
	err  error
}

func (f fakeWriter) Write(context.Context, *mentor.MentorAnalysis) (string, error) {
	return f.text, f.err
}

func unlockedStats() *mentor.CourseMentorStats {
	return &mentor.CourseMentorStats{
		CompletedChapters: 3,
		TotalChapters:     5,
		AverageScore:      0.63,
		CourseTopic:       "Project Management",
		Difficulty:        "beginner",
		TotalWrongAnswers: 2,
		Chapters: []mentor.ChapterDefinition{
			{Number: 1, Title: "Initiation", KeyConcepts: []string{"Project charter"}},
			{Number: 2, Title: "Planning", KeyConcepts: []string{"Risk identification"}},
			{Number: 3, Title: "Execution"},
		},
		ProgressByChapter: []mentor.ChapterProgressRecord{
			{ChapterNumber: 1, Completed: true, Score: 0.9},
			{ChapterNumber: 2, Completed: true, Score: 0.4, Answers: []mentor.AnswerRecord{
				{QuestionID: "q1", QuestionText: "Describe risk identification.", IsCorrect: false},
			}},
			{ChapterNumber: 3, Completed: true, Score: 0.6},
		},
	}
}

func wrongAnswers() []mentor.RawWrongAnswer {
	return []mentor.RawWrongAnswer{
		{QuestionID: "q1", QuestionText: "Describe risk identification.", Explanation: "Risks are listed early.", ChapterNumber: 2, ChapterTitle: "Planning"},
		{QuestionID: "q2", QuestionText: "Who runs execution?", ChapterNumber: 3, ChapterTitle: "Execution"},
	}
}

func hint(s string) *string { return &s }

func extraQuestions() []mentor.GapQuizQuestion {
	return []mentor.GapQuizQuestion{
		{ID: "gap_1", QuestionType: mentor.QuestionTypeTrueFalse, QuestionText: "Risks are found late.",
			CorrectAnswer: mentor.BoolAnswer(false), Hint: hint("When are risks listed?"), SourceChapter: 2, TargetConcept: "Risk identification"},
	}
}

func TestGapQuizRequest_Normalize(t *testing.T) {
	tests := []struct {
		name    string
		req     GapQuizRequest
		want    int
		wantErr bool
	}{
		{name: "default count", req: GapQuizRequest{CourseSlug: "pm"}, want: 5},
		{name: "explicit", req: GapQuizRequest{CourseSlug: "pm", ExtraQuestionsCount: 20}, want: 20},
		{name: "too many", req: GapQuizRequest{CourseSlug: "pm", ExtraQuestionsCount: 21}, wantErr: true},
		{name: "negative", req: GapQuizRequest{CourseSlug: "pm", ExtraQuestionsCount: -1}, wantErr: true},
		{name: "no slug", req: GapQuizRequest{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Normalize()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.req.ExtraQuestionsCount)
		})
	}
}

func TestStatus_NoData(t *testing.T) {
	svc := New(Deps{Progress: &fakeProgress{}})
	st, err := svc.Status(context.Background(), "u1", "pm")
	require.NoError(t, err)
	assert.False(t, st.MentorAvailable)
	assert.Equal(t, 3, st.ChaptersRequired)
}

func TestAnalyze(t *testing.T) {
	svc := New(Deps{Progress: &fakeProgress{}})
	_, err := svc.Analyze(context.Background(), "u1", "pm")
	assert.ErrorIs(t, err, ErrNoData)

	svc = New(Deps{Progress: &fakeProgress{stats: unlockedStats()}})
	a, err := svc.Analyze(context.Background(), "u1", "pm")
	require.NoError(t, err)
	require.Len(t, a.WeakAreas, 2)
	assert.Equal(t, 2, a.WeakAreas[0].ChapterNumber)
	assert.True(t, a.MentorAvailable)
}

func TestAnalyze_StoreError(t *testing.T) {
	svc := New(Deps{Progress: &fakeProgress{err: errors.New("db down")}})
	_, err := svc.Analyze(context.Background(), "u1", "pm")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestGapQuiz_Locked(t *testing.T) {
	stats := unlockedStats()
	stats.CompletedChapters = 2
	svc := New(Deps{Progress: &fakeProgress{stats: stats}})

	_, err := svc.GapQuiz(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm"})
	assert.ErrorIs(t, err, ErrMentorLocked)
}

func TestGapQuiz_RetriesOnly(t *testing.T) {
	gen := &fakeGenerator{}
	svc := New(Deps{Progress: &fakeProgress{stats: unlockedStats(), wrong: wrongAnswers()}, Generator: gen})

	quiz, err := svc.GapQuiz(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm", IncludeHints: true})
	require.NoError(t, err)
	assert.Equal(t, 2, quiz.WrongAnswersCount)
	assert.Equal(t, 0, quiz.ExtraQuestionsCount)
	assert.Empty(t, quiz.ExtraQuestions)
	assert.Empty(t, gen.reqs, "generator not called without generate_extra")
	require.NotNil(t, quiz.WrongAnswers[0].Hint)
	assert.Equal(t, "u1", quiz.UserID)
}

func TestGapQuiz_WithExtras(t *testing.T) {
	gen := &fakeGenerator{result: &gapgen.Result{Questions: extraQuestions(), CacheHit: true}}
	svc := New(Deps{Progress: &fakeProgress{stats: unlockedStats(), wrong: wrongAnswers()}, Generator: gen})

	quiz, err := svc.GapQuiz(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm", GenerateExtra: true, ExtraQuestionsCount: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, quiz.TotalQuestions)
	assert.True(t, quiz.CacheHit)
	assert.Nil(t, quiz.ExtraQuestions[0].Hint, "hints stripped when not requested")

	require.Len(t, gen.reqs, 1)
	assert.Equal(t, 3, gen.reqs[0].Count)
	assert.Equal(t, "Project Management", gen.reqs[0].CourseTopic)
	assert.Equal(t, 2, gen.reqs[0].WeakAreas[0].ChapterNumber)
}

func TestGapQuiz_GenerationFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("provider unavailable")}
	svc := New(Deps{Progress: &fakeProgress{stats: unlockedStats(), wrong: wrongAnswers()}, Generator: gen})

	quiz, err := svc.GapQuiz(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm", GenerateExtra: true})
	require.NoError(t, err)
	assert.Equal(t, 2, quiz.TotalQuestions)
	assert.False(t, quiz.CacheHit)
}

func TestGapQuiz_NoWeakAreasSkipsGenerator(t *testing.T) {
	stats := unlockedStats()
	for i := range stats.ProgressByChapter {
		stats.ProgressByChapter[i].Score = 0.95
	}
	gen := &fakeGenerator{}
	svc := New(Deps{Progress: &fakeProgress{stats: stats}, Generator: gen})

	quiz, err := svc.GapQuiz(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm", GenerateExtra: true})
	require.NoError(t, err)
	assert.Empty(t, gen.reqs)
	assert.Equal(t, 0, quiz.TotalQuestions)
}

func TestFeedback(t *testing.T) {
	progress := &fakeProgress{stats: unlockedStats(), wrong: wrongAnswers()}

	svc := New(Deps{Progress: progress, Feedback: fakeWriter{text: "Keep going."}})
	resp, err := svc.Feedback(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm"})
	require.NoError(t, err)
	assert.Equal(t, "Keep going.", resp.FeedbackText)
	assert.Equal(t, "pm", resp.Analysis.CourseSlug)
	assert.Equal(t, 2, resp.Quiz.WrongAnswersCount)

	svc = New(Deps{Progress: progress, Feedback: fakeWriter{err: errors.New("timeout")}})
	resp, err = svc.Feedback(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm"})
	require.NoError(t, err)
	assert.Contains(t, resp.FeedbackText, "Planning")

	svc = New(Deps{Progress: progress})
	resp, err = svc.Feedback(context.Background(), "u1", GapQuizRequest{CourseSlug: "pm"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.FeedbackText)
}

func TestRecordProgress(t *testing.T) {
	courses := &fakeCourses{}
	progress := &fakeProgress{}
	svc := New(Deps{Courses: courses, Progress: progress})
	ctx := context.Background()

	p := store.ChapterProgress{UserID: "u1", CourseSlug: "pm", ChapterNumber: 1, Completed: true}
	assert.ErrorIs(t, svc.RecordProgress(ctx, p), ErrNoData)

	require.NoError(t, svc.SaveCourse(ctx, store.Course{Slug: "pm", Topic: "PM"}))
	require.NoError(t, svc.RecordProgress(ctx, p))
	assert.Len(t, progress.saved, 1)

	bad := 1.5
	p.Score = &bad
	assert.ErrorIs(t, svc.RecordProgress(ctx, p), ErrInvalidRequest)

	p.Score = nil
	p.ChapterNumber = 0
	assert.ErrorIs(t, svc.RecordProgress(ctx, p), ErrInvalidRequest)
}

func TestRecordProgress_RejectsOutOfDomainValues(t *testing.T) {
	courses := &fakeCourses{}
	progress := &fakeProgress{}
	svc := New(Deps{Courses: courses, Progress: progress})
	ctx := context.Background()
	require.NoError(t, svc.SaveCourse(ctx, store.Course{Slug: "pm", Topic: "PM"}))

	base := store.ChapterProgress{UserID: "u1", CourseSlug: "pm", ChapterNumber: 1, Completed: true, TotalQuestions: 2}

	cases := map[string]func(p *store.ChapterProgress){
		"more correct than total": func(p *store.ChapterProgress) { p.CorrectAnswers = 5 },
		"negative correct":        func(p *store.ChapterProgress) { p.CorrectAnswers = -1 },
		"unknown question type": func(p *store.ChapterProgress) {
			p.Answers = []mentor.AnswerRecord{{QuestionID: "q1", QuestionType: "essay", CorrectAnswer: mentor.TextAnswer("x")}}
		},
		"true_false with text answer": func(p *store.ChapterProgress) {
			p.Answers = []mentor.AnswerRecord{{QuestionID: "q1", QuestionType: mentor.QuestionTypeTrueFalse, CorrectAnswer: mentor.TextAnswer("true")}}
		},
		"mcq with bool answer": func(p *store.ChapterProgress) {
			p.Answers = []mentor.AnswerRecord{{QuestionID: "q1", QuestionType: mentor.QuestionTypeMCQ, CorrectAnswer: mentor.BoolAnswer(true)}}
		},
		"untyped with bool answer": func(p *store.ChapterProgress) {
			p.Answers = []mentor.AnswerRecord{{QuestionID: "q1", CorrectAnswer: mentor.BoolAnswer(false)}}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := base
			mutate(&p)
			assert.ErrorIs(t, svc.RecordProgress(ctx, p), ErrInvalidRequest)
		})
	}
	assert.Empty(t, progress.saved)

	ok := base
	ok.CorrectAnswers = 2
	ok.Answers = []mentor.AnswerRecord{
		{QuestionID: "q1", QuestionType: mentor.QuestionTypeTrueFalse, CorrectAnswer: mentor.BoolAnswer(false)},
		{QuestionID: "q2", QuestionType: mentor.QuestionTypeMCQ, CorrectAnswer: mentor.TextAnswer("B")},
		{QuestionID: "q3", IsCorrect: true},
	}
	require.NoError(t, svc.RecordProgress(ctx, ok))
	assert.Len(t, progress.saved, 1)
}

func TestSaveCourse_Invalid(t *testing.T) {
	svc := New(Deps{Courses: &fakeCourses{}})
	assert.ErrorIs(t, svc.SaveCourse(context.Background(), store.Course{}), ErrInvalidRequest)
	assert.ErrorIs(t, svc.SaveCourse(context.Background(), store.Course{
		Slug: "pm", Chapters: []mentor.ChapterDefinition{{Number: 0}},
	}), ErrInvalidRequest)
}
