package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/elevohq/interview-engine/internal/api/handlers"
	"github.com/elevohq/interview-engine/internal/api/middleware"
)

type Deps struct {
	Interview *handlers.InterviewHandler
	Resume    *handlers.ResumeHandler
	Health    *handlers.HealthHandler
	WS        *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health/ai", d.Health.AI)

	// caller identity comes from the upstream gateway
	api := r.Group("/")
	api.Use(middleware.Identity())

	api.POST("/resume/analyze", d.Resume.Analyze)
	api.GET("/resume/profile", d.Resume.Profile)

	api.POST("/session/start", d.Interview.Start)
	api.GET("/sessions", d.Interview.History)
	api.GET("/session/:session_id", d.Interview.Get)
	api.POST("/session/:session_id/turn", d.Interview.Turn)
	api.GET("/session/:session_id/review", d.Interview.Review)
	api.POST("/session/:session_id/hints", d.Interview.Hints)
	api.POST("/session/:session_id/practice", d.Interview.Practice)

	// WebSocket
	api.GET("/ws/session/:session_id", d.WS.SessionWS)
}
