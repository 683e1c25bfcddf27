package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursecraft-backend/internal/domain"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

type CreateChapterRequest struct {
	CourseID uuid.UUID `json:"courseID"`
	Title    string    `json:"title" validate:"required,min=3,max=100"`
}

// CreateLessonRequest appends a lesson. Metadata is an optional JSON object
// stored with the lesson.
type CreateLessonRequest struct {
	CourseID     uuid.UUID      `json:"courseID"`
	ChapterID    uuid.UUID      `json:"chapterID"`
	Title        string         `json:"title" validate:"required,min=3,max=100"`
	Description  string         `json:"description" validate:"max=5000"`
	VideoKey     string         `json:"videoKey" validate:"max=512"`
	ThumbnailKey string         `json:"thumbnailKey" validate:"max=512"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
}

// UpdateCourseRequest replaces a course's title and description. Status and
// Metadata are optional and keep their stored values when omitted.
type UpdateCourseRequest struct {
	CourseID    uuid.UUID      `json:"courseID"`
	Title       string         `json:"title" validate:"required,min=3,max=100"`
	Description string         `json:"description" validate:"max=5000"`
	Status      string         `json:"status" validate:"omitempty,oneof=Draft Published Archived"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
}

// StructureService is the mutation surface for course structure. Every
// method reports its outcome as a Result and never returns a Go error.
type StructureService interface {
	CreateChapter(ctx context.Context, in CreateChapterRequest) Result
	CreateLesson(ctx context.Context, in CreateLessonRequest) Result
	DeleteChapter(ctx context.Context, courseID, chapterID uuid.UUID) Result
	DeleteLesson(ctx context.Context, courseID, chapterID, lessonID uuid.UUID) Result
	ReorderChapters(ctx context.Context, courseID uuid.UUID, items []domainagg.PositionUpdate) Result
	ReorderLessons(ctx context.Context, courseID, chapterID uuid.UUID, items []domainagg.PositionUpdate) Result
	DeleteCourse(ctx context.Context, courseID uuid.UUID) Result
	UpdateCourse(ctx context.Context, in UpdateCourseRequest) Result
}

type structureService struct {
	log       *logger.Logger
	agg       domainagg.StructureAggregate
	validate  Validator
	refresher Refresher
}

func NewStructureService(
	baseLog *logger.Logger,
	agg domainagg.StructureAggregate,
	validate Validator,
	refresher Refresher,
) StructureService {
	if validate == nil {
		validate = NewValidator()
	}
	if refresher == nil {
		refresher = noopRefresher{}
	}
	return &structureService{
		log:       baseLog.With("service", "StructureService", "aggregate", agg.Contract().Name),
		agg:       agg,
		validate:  validate,
		refresher: refresher,
	}
}

func (s *structureService) CreateChapter(ctx context.Context, in CreateChapterRequest) Result {
	in.Title = strings.TrimSpace(in.Title)
	if in.CourseID == uuid.Nil {
		return invalid("Course id is required")
	}
	if err := s.validate.Struct(in); err != nil {
		return invalid(describe(err))
	}
	ch, err := s.agg.CreateChapter(ctx, domainagg.CreateChapterInput{CourseID: in.CourseID, Title: in.Title})
	if err != nil {
		return s.fail("CreateChapter", err, "Failed to create chapter", "course_id", in.CourseID)
	}
	s.refresher.CourseStructureChanged(ctx, in.CourseID, domain.ScopeChapters)
	return success("Chapter created successfully", ch)
}

func (s *structureService) CreateLesson(ctx context.Context, in CreateLessonRequest) Result {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.CourseID == uuid.Nil {
		return invalid("Course id is required")
	}
	if in.ChapterID == uuid.Nil {
		return invalid("Chapter id is required")
	}
	if err := s.validate.Struct(in); err != nil {
		return invalid(describe(err))
	}
	meta, err := metadataObject(in.Metadata)
	if err != nil {
		return invalid(err.Error())
	}
	l, err := s.agg.CreateLesson(ctx, domainagg.CreateLessonInput{
		CourseID:     in.CourseID,
		ChapterID:    in.ChapterID,
		Title:        in.Title,
		Description:  in.Description,
		VideoKey:     in.VideoKey,
		ThumbnailKey: in.ThumbnailKey,
		Metadata:     meta,
	})
	if err != nil {
		return s.fail("CreateLesson", err, "Failed to create lesson", "chapter_id", in.ChapterID)
	}
	s.refresher.CourseStructureChanged(ctx, in.CourseID, domain.ScopeLessons)
	return success("Lesson created successfully", l)
}

func (s *structureService) DeleteChapter(ctx context.Context, courseID, chapterID uuid.UUID) Result {
	if courseID == uuid.Nil || chapterID == uuid.Nil {
		return invalid("Course and chapter ids are required")
	}
	err := s.agg.DeleteChapter(ctx, domainagg.DeleteChapterInput{CourseID: courseID, ChapterID: chapterID})
	if err != nil {
		return s.fail("DeleteChapter", err, "Failed to delete chapter", "chapter_id", chapterID)
	}
	s.refresher.CourseStructureChanged(ctx, courseID, domain.ScopeChapters)
	return success("Chapter deleted successfully", nil)
}

func (s *structureService) DeleteLesson(ctx context.Context, courseID, chapterID, lessonID uuid.UUID) Result {
	if courseID == uuid.Nil || chapterID == uuid.Nil || lessonID == uuid.Nil {
		return invalid("Course, chapter and lesson ids are required")
	}
	err := s.agg.DeleteLesson(ctx, domainagg.DeleteLessonInput{CourseID: courseID, ChapterID: chapterID, LessonID: lessonID})
	if err != nil {
		return s.fail("DeleteLesson", err, "Failed to delete lesson", "lesson_id", lessonID)
	}
	s.refresher.CourseStructureChanged(ctx, courseID, domain.ScopeLessons)
	return success("Lesson deleted successfully", nil)
}

func (s *structureService) ReorderChapters(ctx context.Context, courseID uuid.UUID, items []domainagg.PositionUpdate) Result {
	if courseID == uuid.Nil {
		return invalid("Course id is required")
	}
	err := s.agg.ReorderChapters(ctx, domainagg.ReorderInput{ParentID: courseID, Items: items})
	if err != nil {
		return s.fail("ReorderChapters", err, "Failed to reorder chapters", "course_id", courseID)
	}
	s.refresher.CourseStructureChanged(ctx, courseID, domain.ScopeChapters)
	return success("Chapters reordered successfully", nil)
}

func (s *structureService) ReorderLessons(ctx context.Context, courseID, chapterID uuid.UUID, items []domainagg.PositionUpdate) Result {
	if courseID == uuid.Nil || chapterID == uuid.Nil {
		return invalid("Course and chapter ids are required")
	}
	err := s.agg.ReorderLessons(ctx, domainagg.ReorderInput{ParentID: chapterID, CourseID: courseID, Items: items})
	if err != nil {
		return s.fail("ReorderLessons", err, "Failed to reorder lessons.", "chapter_id", chapterID)
	}
	s.refresher.CourseStructureChanged(ctx, courseID, domain.ScopeLessons)
	return success("Lessons reordered successfully", nil)
}

func (s *structureService) DeleteCourse(ctx context.Context, courseID uuid.UUID) Result {
	if courseID == uuid.Nil {
		return invalid("Course id is required")
	}
	if err := s.agg.DeleteCourse(ctx, courseID); err != nil {
		return s.fail("DeleteCourse", err, "Failed to delete course", "course_id", courseID)
	}
	s.refresher.CourseStructureChanged(ctx, courseID, domain.ScopeCourse)
	return success("Course deleted successfully", nil)
}

func (s *structureService) UpdateCourse(ctx context.Context, in UpdateCourseRequest) Result {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Status = strings.TrimSpace(in.Status)
	if in.CourseID == uuid.Nil {
		return invalid("Course id is required")
	}
	if err := s.validate.Struct(in); err != nil {
		return invalid(describe(err))
	}
	meta, err := metadataObject(in.Metadata)
	if err != nil {
		return invalid(err.Error())
	}
	course, err := s.agg.UpdateCourse(ctx, domainagg.UpdateCourseInput{
		CourseID:    in.CourseID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Metadata:    meta,
	})
	if err != nil {
		return s.fail("UpdateCourse", err, "Failed to update Course", "course_id", in.CourseID)
	}
	s.refresher.CourseStructureChanged(ctx, in.CourseID, domain.ScopeCourse)
	return success("Course updated successfully", course)
}

// metadataObject accepts an absent value or a JSON object. JSON null counts
// as absent.
func metadataObject(raw datatypes.JSON) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(trimmed) || trimmed[0] != '{' {
		return nil, errors.New("Metadata must be a JSON object")
	}
	return datatypes.JSON(trimmed), nil
}

func (s *structureService) fail(op string, err error, persistenceMessage string, kv ...any) Result {
	res := failure(err, persistenceMessage)
	fields := append([]any{"code", res.Code, "error", err}, kv...)
	switch res.Code {
	case domainagg.CodeValidation, domainagg.CodeNotFound:
		s.log.Debug(op+" rejected", fields...)
	default:
		s.log.Error(op+" failed", fields...)
	}
	return res
}
