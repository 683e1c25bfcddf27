package handlers

import (
	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/http/response"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"github.com/yungbote/coursecraft-backend/internal/services"
)

type StructureHandler struct {
	log     *logger.Logger
	service services.StructureService
}

func NewStructureHandler(log *logger.Logger, service services.StructureService) *StructureHandler {
	return &StructureHandler{
		log:     log.With("handler", "StructureHandler"),
		service: service,
	}
}

type reorderBody struct {
	Items []domainagg.PositionUpdate `json:"items"`
}

// POST /api/courses/:courseID/chapters
func (h *StructureHandler) CreateChapter(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	var body struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondResult(c, invalidResult("Invalid Data"))
		return
	}
	response.RespondResult(c, h.service.CreateChapter(c.Request.Context(), services.CreateChapterRequest{
		CourseID: courseID,
		Title:    body.Title,
	}))
}

// POST /api/chapters/:chapterID/lessons
func (h *StructureHandler) CreateLesson(c *gin.Context) {
	chapterID, ok := pathUUID(c, "chapterID", "chapter")
	if !ok {
		return
	}
	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondResult(c, invalidResult("Invalid Data"))
		return
	}
	req.ChapterID = chapterID
	response.RespondResult(c, h.service.CreateLesson(c.Request.Context(), req))
}

// DELETE /api/courses/:courseID/chapters/:chapterID
func (h *StructureHandler) DeleteChapter(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	chapterID, ok := pathUUID(c, "chapterID", "chapter")
	if !ok {
		return
	}
	response.RespondResult(c, h.service.DeleteChapter(c.Request.Context(), courseID, chapterID))
}

// DELETE /api/courses/:courseID/chapters/:chapterID/lessons/:lessonID
func (h *StructureHandler) DeleteLesson(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	chapterID, ok := pathUUID(c, "chapterID", "chapter")
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "lessonID", "lesson")
	if !ok {
		return
	}
	response.RespondResult(c, h.service.DeleteLesson(c.Request.Context(), courseID, chapterID, lessonID))
}

// PUT /api/courses/:courseID/chapters/order
func (h *StructureHandler) ReorderChapters(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	var body reorderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondResult(c, invalidResult("Invalid Data"))
		return
	}
	response.RespondResult(c, h.service.ReorderChapters(c.Request.Context(), courseID, body.Items))
}

// PUT /api/courses/:courseID/chapters/:chapterID/lessons/order
func (h *StructureHandler) ReorderLessons(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	chapterID, ok := pathUUID(c, "chapterID", "chapter")
	if !ok {
		return
	}
	var body reorderBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondResult(c, invalidResult("Invalid Data"))
		return
	}
	response.RespondResult(c, h.service.ReorderLessons(c.Request.Context(), courseID, chapterID, body.Items))
}

// DELETE /api/courses/:courseID
func (h *StructureHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	response.RespondResult(c, h.service.DeleteCourse(c.Request.Context(), courseID))
}

// PATCH /api/courses/:courseID
func (h *StructureHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseID", "course")
	if !ok {
		return
	}
	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondResult(c, invalidResult("Invalid Data"))
		return
	}
	req.CourseID = courseID
	response.RespondResult(c, h.service.UpdateCourse(c.Request.Context(), req))
}
