package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/services"
	"github.com/elevohq/interview-engine/internal/utils"
)

type InterviewHandler struct {
	svc services.InterviewService
}

func NewInterviewHandler(svc services.InterviewService) *InterviewHandler {
	return &InterviewHandler{svc: svc}
}

type StartSessionRequest struct {
	Track      models.Track `json:"track" binding:"required"` // technical|hr
	TargetRole string       `json:"target_role"`
	KeySkills  []string     `json:"key_skills"`
	ResumeText string       `json:"resume_text"`
}

func (h *InterviewHandler) Start(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Start", "invalid request body", err))
		return
	}

	out, err := h.svc.Start(c.Request.Context(), userID, services.StartInput{
		Track:      req.Track,
		TargetRole: req.TargetRole,
		KeySkills:  req.KeySkills,
		ResumeText: req.ResumeText,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sess, turns, err := h.svc.Get(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": sess, "turns": turns})
}

func (h *InterviewHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessions, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

type TurnRequest struct {
	Answer      string `json:"answer"`
	RequestType string `json:"request_type"` // answer (default) | end
}

func (h *InterviewHandler) Turn(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Turn", "invalid request body", err))
		return
	}

	out, err := h.svc.Advance(c.Request.Context(), userID, c.Param("session_id"), services.TurnInput{
		Answer:      req.Answer,
		RequestType: req.RequestType,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Review(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.Review(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *InterviewHandler) Hints(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	out, err := h.svc.Hints(c.Request.Context(), userID, c.Param("session_id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hints": out.Items, "provider": out.Provider, "model": out.Model})
}

type PracticeRequest struct {
	Focus string `json:"focus"`
}

func (h *InterviewHandler) Practice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req PracticeRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "InterviewHandler.Practice", "invalid request body", err))
		return
	}

	out, err := h.svc.Practice(c.Request.Context(), userID, c.Param("session_id"), req.Focus)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": out.Items, "provider": out.Provider, "model": out.Model})
}
