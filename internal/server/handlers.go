package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/coursementor/internal/mentor"
	"github.com/abhisek/coursementor/internal/mentorsvc"
	"github.com/abhisek/coursementor/internal/store"
)

// MentorService is what the handlers need. *mentorsvc.Service satisfies it.
type MentorService interface {
	Status(ctx context.Context, userID, courseSlug string) (mentor.MentorStatus, error)
	Analyze(ctx context.Context, userID, courseSlug string) (*mentor.MentorAnalysis, error)
	GapQuiz(ctx context.Context, userID string, req mentorsvc.GapQuizRequest) (*mentor.GapQuiz, error)
	Feedback(ctx context.Context, userID string, req mentorsvc.GapQuizRequest) (*mentorsvc.FeedbackResponse, error)
	SaveCourse(ctx context.Context, c store.Course) error
	RecordProgress(ctx context.Context, p store.ChapterProgress) error
}

type MentorHandler struct {
	svc MentorService
}

func NewMentorHandler(svc MentorService) *MentorHandler {
	return &MentorHandler{svc: svc}
}

// GET /api/v1/mentor/:slug/status
func (h *MentorHandler) Status(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context(), userID(c), c.Param("slug"))
	if err != nil {
		respondServiceError(c, "mentor_status_failed", err)
		return
	}
	RespondOK(c, st)
}

// GET /api/v1/mentor/:slug/analysis
func (h *MentorHandler) Analysis(c *gin.Context) {
	a, err := h.svc.Analyze(c.Request.Context(), userID(c), c.Param("slug"))
	if err != nil {
		respondServiceError(c, "mentor_analysis_failed", err)
		return
	}
	RespondOK(c, a)
}

// POST /api/v1/mentor/gap-quiz
func (h *MentorHandler) GapQuiz(c *gin.Context) {
	var req mentorsvc.GapQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quiz, err := h.svc.GapQuiz(c.Request.Context(), userID(c), req)
	if err != nil {
		respondServiceError(c, "gap_quiz_failed", err)
		return
	}
	RespondOK(c, quiz)
}

// POST /api/v1/mentor/feedback
func (h *MentorHandler) Feedback(c *gin.Context) {
	var req mentorsvc.GapQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	resp, err := h.svc.Feedback(c.Request.Context(), userID(c), req)
	if err != nil {
		respondServiceError(c, "mentor_feedback_failed", err)
		return
	}
	RespondOK(c, resp)
}

type courseBody struct {
	Topic      string                     `json:"topic" binding:"required"`
	Difficulty string                     `json:"difficulty"`
	Chapters   []mentor.ChapterDefinition `json:"chapters" binding:"required"`
}

// PUT /api/v1/courses/:slug
func (h *MentorHandler) PutCourse(c *gin.Context) {
	var body courseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	course := store.Course{
		Slug:       c.Param("slug"),
		Topic:      body.Topic,
		Difficulty: body.Difficulty,
		Chapters:   body.Chapters,
	}
	if err := h.svc.SaveCourse(c.Request.Context(), course); err != nil {
		respondServiceError(c, "save_course_failed", err)
		return
	}
	RespondOK(c, course)
}

type progressBody struct {
	ChapterTitle   string                `json:"chapter_title"`
	Completed      bool                  `json:"completed"`
	Score          *float64              `json:"score" binding:"omitempty,min=0,max=1"`
	TotalQuestions int                   `json:"total_questions" binding:"min=0"`
	CorrectAnswers int                   `json:"correct_answers" binding:"min=0"`
	Answers        []mentor.AnswerRecord `json:"answers"`
}

// PUT /api/v1/courses/:slug/progress/:chapter
func (h *MentorHandler) PutProgress(c *gin.Context) {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 1 {
		RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("chapter must be a positive integer"))
		return
	}
	var body progressBody
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p := store.ChapterProgress{
		UserID:         userID(c),
		CourseSlug:     c.Param("slug"),
		ChapterNumber:  chapter,
		ChapterTitle:   body.ChapterTitle,
		Completed:      body.Completed,
		Score:          body.Score,
		TotalQuestions: body.TotalQuestions,
		CorrectAnswers: body.CorrectAnswers,
		Answers:        body.Answers,
	}
	if err := h.svc.RecordProgress(c.Request.Context(), p); err != nil {
		respondServiceError(c, "save_progress_failed", err)
		return
	}
	RespondOK(c, p)
}

func respondServiceError(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, mentorsvc.ErrNoData):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, mentorsvc.ErrMentorLocked):
		RespondError(c, http.StatusForbidden, "mentor_locked", err)
	case errors.Is(err, mentorsvc.ErrInvalidRequest):
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
