package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursecraft-backend/internal/http/response"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

// GET /api/courses/:courseID/structure
func (h *CourseHandler) Structure(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	out, err := h.courseService.Outline(c.Request.Context(), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": out})
}

// GET /api/courses/by-slug/:slug/outline
func (h *CourseHandler) Sidebar(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	out, err := h.courseService.Sidebar(c.Request.Context(), actorID(c), slug)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": out})
}

// GET /api/lessons/:lessonID
func (h *CourseHandler) LessonContent(c *gin.Context) {
	lessonID, ok := pathUUID(c, "lessonID", "lesson")
	if !ok {
		return
	}
	out, err := h.courseService.LessonContent(c.Request.Context(), actorID(c), lessonID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": out})
}
