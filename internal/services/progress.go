package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/data/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/data/repos"
	types "github.com/yungbote/coursecraft-backend/internal/domain"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/dbctx"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

type ProgressService interface {
	// MarkLessonComplete records the lesson as completed for userID. Marking
	// an already completed lesson succeeds again.
	MarkLessonComplete(ctx context.Context, userID, lessonID uuid.UUID) Result
	Summary(ctx context.Context, userID, courseID uuid.UUID) (*ProgressSummary, error)
}

type progressService struct {
	log      *logger.Logger
	repos    repos.Set
	notifier ProgressNotifier
}

func NewProgressService(baseLog *logger.Logger, rs repos.Set, notifier ProgressNotifier) ProgressService {
	if notifier == nil {
		notifier = noopRefresher{}
	}
	return &progressService{
		log:      baseLog.With("service", "ProgressService"),
		repos:    rs,
		notifier: notifier,
	}
}

func (s *progressService) MarkLessonComplete(ctx context.Context, userID, lessonID uuid.UUID) Result {
	const op = "progress.mark_complete"
	const failed = "Failed to mark lesson as complete"
	if lessonID == uuid.Nil {
		return invalid("Lesson id is required")
	}
	dbc := dbctx.Context{Ctx: ctx}

	lesson, err := s.repos.Lesson.GetByID(dbc, lessonID)
	if err != nil {
		return s.fail(op, aggregates.MapError(op, err), failed)
	}
	if lesson == nil {
		return failure(domainagg.NewError(domainagg.CodeNotFound, op, "Lesson not found", nil), failed)
	}
	chapter, err := s.repos.Chapter.GetByID(dbc, lesson.ChapterID)
	if err != nil {
		return s.fail(op, aggregates.MapError(op, err), failed)
	}
	if chapter == nil {
		return failure(domainagg.NewError(domainagg.CodeNotFound, op, "Lesson not found", nil), failed)
	}
	if _, err := activeCourse(dbc, s.repos, op, userID, func() (*types.Course, error) {
		return s.repos.Course.GetByID(dbc, chapter.CourseID)
	}); err != nil {
		return failure(err, failed)
	}

	if _, err := s.repos.LessonProgress.MarkCompleted(dbc, userID, lessonID); err != nil {
		return s.fail(op, aggregates.MapError(op, err), failed)
	}
	s.notifier.LessonProgressChanged(ctx, userID, chapter.CourseID, lessonID)
	return success("Progress updated", nil)
}

func (s *progressService) Summary(ctx context.Context, userID, courseID uuid.UUID) (*ProgressSummary, error) {
	const op = "progress.summary"
	dbc := dbctx.Context{Ctx: ctx}
	course, err := activeCourse(dbc, s.repos, op, userID, func() (*types.Course, error) {
		return s.repos.Course.GetByID(dbc, courseID)
	})
	if err != nil {
		return nil, err
	}
	ids, err := s.repos.Lesson.ListIDsByCourseID(dbc, course.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	done, err := s.repos.LessonProgress.CountCompleted(dbc, userID, ids)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	out := Summarize(len(ids), done)
	return &out, nil
}

func (s *progressService) fail(op string, err error, message string) Result {
	s.log.Error(op+" failed", "error", err)
	return failure(err, message)
}
