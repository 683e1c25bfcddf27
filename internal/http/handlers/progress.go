package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecraft-backend/internal/http/response"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type ProgressHandler struct {
	log             *logger.Logger
	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

// POST /api/lessons/:lessonID/complete
func (h *ProgressHandler) MarkComplete(c *gin.Context) {
	lessonID, ok := pathUUID(c, "lessonID", "lesson")
	if !ok {
		return
	}
	response.RespondResult(c, h.progressService.MarkLessonComplete(c.Request.Context(), actorID(c), lessonID))
}

// GET /api/courses/:courseID/progress
func (h *ProgressHandler) Summary(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	sum, err := h.progressService.Summary(c.Request.Context(), actorID(c), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": sum})
}
