package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/coursementor/internal/logger"
)

func NewRouter(h *MentorHandler, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))

	r.GET("/healthcheck", HealthCheck)

	api := r.Group("/api/v1")
	api.Use(RequireUser())
	{
		api.GET("/mentor/:slug/status", h.Status)
		api.GET("/mentor/:slug/analysis", h.Analysis)
		api.POST("/mentor/gap-quiz", h.GapQuiz)
		api.POST("/mentor/feedback", h.Feedback)

		api.PUT("/courses/:slug", h.PutCourse)
		api.PUT("/courses/:slug/progress/:chapter", h.PutProgress)
	}
	return r
}
