package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/elevohq/interview-engine/internal/models"
	"github.com/elevohq/interview-engine/internal/services"
	"github.com/elevohq/interview-engine/internal/utils"
)

var resumeExts = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

func (h *ResumeHandler) Analyze(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Analyze", "missing multipart field 'file'", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mime, supported := resumeExts[ext]
	if !supported {
		writeError(c, utils.E(utils.CodeUnsupported, "ResumeHandler.Analyze", "only pdf, docx, and txt resumes are supported", nil))
		return
	}
	if fh.Size <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ResumeHandler.Analyze", "empty file", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, "ResumeHandler.Analyze", "failed to open upload", err))
		return
	}
	defer file.Close()

	track := models.Track(c.PostForm("track"))
	out, err := h.svc.Analyze(c.Request.Context(), userID, file, services.AnalyzeInput{
		FileName: fh.Filename,
		MimeType: mime,
		RoleHint: c.PostForm("role"),
		Skills:   c.PostForm("skills"),
		Track:    track,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *ResumeHandler) Profile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, resumeURL, err := h.svc.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile, "resume_url": resumeURL})
}
