package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursementor/internal/config"
	"github.com/abhisek/coursementor/internal/gapgen"
	"github.com/abhisek/coursementor/internal/llm"
	"github.com/abhisek/coursementor/internal/logger"
	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/mentorsvc"
	"github.com/abhisek/coursementor/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	handler http.Handler
	mock    *llm.MockProvider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := llm.NewMockProvider()
	log := logger.NewNop()
	svc := mentorsvc.New(mentorsvc.Deps{
		Courses:   s.CourseRepo(),
		Progress:  s.ProgressRepo(),
		Analyzer:  mentor.NewAnalyzer(mentor.DefaultConfig()),
		Generator: gapgen.New(mock, gapgen.NewMemoryCache(), gapgen.DefaultConfig(), log),
		Logger:    log,
	})
	srv := New(config.Default().HTTP, svc, log)
	return &testEnv{handler: srv.Handler(), mock: mock}
}

func (e *testEnv) do(t *testing.T, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserIDHeader, user)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func seedCourse(t *testing.T, e *testEnv) {
	t.Helper()
	w := e.do(t, http.MethodPut, "/api/v1/courses/pm-101", "u1", map[string]any{
		"topic":      "Project Management",
		"difficulty": "beginner",
		"chapters": []map[string]any{
			{"number": 1, "title": "Initiation", "key_concepts": []string{"Project charter"}},
			{"number": 2, "title": "Planning", "key_concepts": []string{"Risk identification"}},
			{"number": 3, "title": "Execution", "key_concepts": []string{"Team management"}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func putProgress(t *testing.T, e *testEnv, chapter string, score float64, answers []map[string]any) {
	t.Helper()
	w := e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/"+chapter, "u1", map[string]any{
		"completed":       true,
		"score":           score,
		"total_questions": len(answers),
		"answers":         answers,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func seedUnlocked(t *testing.T, e *testEnv) {
	seedCourse(t, e)
	putProgress(t, e, "1", 0.9, nil)
	putProgress(t, e, "2", 0.4, []map[string]any{
		{"question_id": "q1", "question_text": "Explain risk identification.", "is_correct": false,
			"user_answer": "A", "question_type": "mcq", "options": []string{"A. a", "B. b", "C. c", "D. d"},
			"correct_answer": "B", "explanation": "Risks are identified during planning."},
	})
	putProgress(t, e, "3", 0.8, nil)
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestRequireUser(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/mentor/pm-101/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	env := decode[ErrorEnvelope](t, w)
	assert.Equal(t, "unauthorized", env.Error.Code)
}

func TestStatus_Locked(t *testing.T) {
	e := newTestEnv(t)
	seedCourse(t, e)
	putProgress(t, e, "1", 0.5, nil)

	w := e.do(t, http.MethodGet, "/api/v1/mentor/pm-101/status", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decode[mentor.MentorStatus](t, w)
	assert.False(t, st.MentorAvailable)
	assert.Equal(t, 1, st.ChaptersCompleted)
	assert.Equal(t, 3, st.ChaptersRequired)
	assert.Equal(t, 1, st.WeakAreasCount)

	w = e.do(t, http.MethodPost, "/api/v1/mentor/gap-quiz", "u1", map[string]any{"course_slug": "pm-101"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAnalysis(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/mentor/pm-101/analysis", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	seedUnlocked(t, e)
	w = e.do(t, http.MethodGet, "/api/v1/mentor/pm-101/analysis", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	a := decode[mentor.MentorAnalysis](t, w)
	assert.True(t, a.MentorAvailable)
	require.Len(t, a.WeakAreas, 1)
	assert.Equal(t, "Planning", a.WeakAreas[0].ChapterTitle)
	require.Len(t, a.WeakAreas[0].WeakConcepts, 1)
	assert.Equal(t, "Risk identification", a.WeakAreas[0].WeakConcepts[0].Concept)
}

func TestGapQuiz(t *testing.T) {
	e := newTestEnv(t)
	seedUnlocked(t, e)

	e.mock.AddResponse(llm.MockJSON(map[string]any{
		"questions": []map[string]any{{
			"question_type":  "true_false",
			"difficulty":     "easy",
			"question_text":  "Risks should be identified before execution starts.",
			"correct_answer": "true",
			"explanation":    "Planning is when risks are listed.",
			"hint":           "Think about the planning phase.",
			"source_chapter": 2,
			"target_concept": "Risk identification",
		}},
	}))

	w := e.do(t, http.MethodPost, "/api/v1/mentor/gap-quiz", "u1", map[string]any{
		"course_slug": "pm-101", "include_hints": true, "generate_extra": true, "extra_questions_count": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	quiz := decode[mentor.GapQuiz](t, w)
	assert.Equal(t, 1, quiz.WrongAnswersCount)
	assert.Equal(t, 1, quiz.ExtraQuestionsCount)
	assert.Equal(t, 2, quiz.TotalQuestions)
	require.NotNil(t, quiz.WrongAnswers[0].Hint)
	assert.Equal(t, mentor.BoolAnswer(true), quiz.ExtraQuestions[0].CorrectAnswer)
}

func TestGapQuiz_BadRequest(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/v1/mentor/gap-quiz", "u1", map[string]any{"include_hints": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/v1/mentor/gap-quiz", "u1", map[string]any{
		"course_slug": "pm-101", "extra_questions_count": 50,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFeedback_FallsBackWithoutProvider(t *testing.T) {
	e := newTestEnv(t)
	seedUnlocked(t, e)

	w := e.do(t, http.MethodPost, "/api/v1/mentor/feedback", "u1", map[string]any{"course_slug": "pm-101"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[mentorsvc.FeedbackResponse](t, w)
	assert.Contains(t, resp.FeedbackText, "Planning")
	assert.Equal(t, 1, resp.Quiz.WrongAnswersCount)
	assert.Equal(t, 0, e.mock.CallCount())
}

func TestPutProgress_Validation(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/1", "u1", map[string]any{"completed": true})
	assert.Equal(t, http.StatusNotFound, w.Code, "unknown course")

	seedCourse(t, e)
	w = e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/abc", "u1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/1", "u1", map[string]any{"score": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/1", "u1", map[string]any{
		"completed": true, "score": 0.4, "total_questions": 2, "correct_answers": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "correct answers above total")

	w = e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/1", "u1", map[string]any{
		"completed": true, "score": 0.4, "total_questions": 1,
		"answers": []map[string]any{{
			"question_id": "q1", "question_text": "Describe scope.", "is_correct": false,
			"question_type": "essay", "correct_answer": true,
		}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code, "unknown question type")
	env := decode[ErrorEnvelope](t, w)
	assert.Equal(t, "invalid_request", env.Error.Code)

	w = e.do(t, http.MethodPut, "/api/v1/courses/pm-101/progress/1", "u1", map[string]any{
		"completed": true, "score": 0.4, "total_questions": 1,
		"answers": []map[string]any{{
			"question_id": "q1", "question_text": "Scope is fixed.", "is_correct": false,
			"question_type": "true_false", "correct_answer": "false",
		}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "true_false with a string answer")

	w = e.do(t, http.MethodGet, "/api/v1/mentor/pm-101/status", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[mentor.MentorStatus](t, w)
	assert.Zero(t, status.ChaptersCompleted, "rejected records must not be stored")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	cfg := config.Default().HTTP
	cfg.Addr = "127.0.0.1:0"
	srv := New(cfg, mentorsvc.New(mentorsvc.Deps{}), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, srv.Run(ctx))
}
