package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/data/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/data/repos"
	types "github.com/yungbote/coursecraft-backend/internal/domain"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/platform/dbctx"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

type CourseService interface {
	// Outline returns the editor view of a course.
	Outline(ctx context.Context, courseID uuid.UUID) (*CourseOutline, error)
	// Sidebar returns the learner view of a course, with completion flags for
	// userID. The user needs an active enrollment.
	Sidebar(ctx context.Context, userID uuid.UUID, slug string) (*CourseOutline, error)
	// LessonContent returns one lesson for userID, with its completion flag.
	// The user needs an active enrollment in the lesson's course.
	LessonContent(ctx context.Context, userID, lessonID uuid.UUID) (*LessonContent, error)
}

type courseService struct {
	log   *logger.Logger
	repos repos.Set
}

func NewCourseService(baseLog *logger.Logger, rs repos.Set) CourseService {
	return &courseService{
		log:   baseLog.With("service", "CourseService"),
		repos: rs,
	}
}

func (s *courseService) Outline(ctx context.Context, courseID uuid.UUID) (*CourseOutline, error) {
	const op = "course.outline"
	dbc := dbctx.Context{Ctx: ctx}
	course, err := s.repos.Course.GetByID(dbc, courseID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Course not found", nil)
	}
	chapters, lessons, err := loadTree(dbc, s.repos, course.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return assembleOutline(course, chapters, lessons, nil), nil
}

func (s *courseService) Sidebar(ctx context.Context, userID uuid.UUID, slug string) (*CourseOutline, error) {
	const op = "course.sidebar"
	dbc := dbctx.Context{Ctx: ctx}
	course, err := activeCourse(dbc, s.repos, op, userID, func() (*types.Course, error) {
		return s.repos.Course.GetBySlug(dbc, strings.TrimSpace(slug))
	})
	if err != nil {
		return nil, err
	}
	chapters, lessons, err := loadTree(dbc, s.repos, course.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	ids := make([]uuid.UUID, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	rows, err := s.repos.LessonProgress.ListByUserAndLessonIDs(dbc, userID, ids)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	completed := make(map[uuid.UUID]bool, len(rows))
	done := 0
	for _, p := range rows {
		if p.Completed {
			completed[p.LessonID] = true
			done++
		}
	}
	out := assembleOutline(course, chapters, lessons, completed)
	summary := Summarize(len(lessons), done)
	out.Progress = &summary
	return out, nil
}

func (s *courseService) LessonContent(ctx context.Context, userID, lessonID uuid.UUID) (*LessonContent, error) {
	const op = "course.lesson_content"
	dbc := dbctx.Context{Ctx: ctx}
	notFound := domainagg.NewError(domainagg.CodeNotFound, op, "Lesson not found", nil)

	lesson, err := s.repos.Lesson.GetByID(dbc, lessonID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if lesson == nil {
		return nil, notFound
	}
	chapter, err := s.repos.Chapter.GetByID(dbc, lesson.ChapterID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if chapter == nil {
		return nil, notFound
	}
	course, err := activeCourse(dbc, s.repos, op, userID, func() (*types.Course, error) {
		return s.repos.Course.GetByID(dbc, chapter.CourseID)
	})
	if err != nil {
		if domainagg.IsCode(err, domainagg.CodeNotFound) {
			return nil, notFound
		}
		return nil, err
	}

	rows, err := s.repos.LessonProgress.ListByUserAndLessonIDs(dbc, userID, []uuid.UUID{lesson.ID})
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	completed := len(rows) > 0 && rows[0].Completed
	return &LessonContent{
		LessonOutline: lessonOutline(lesson, completed),
		ChapterID:     chapter.ID,
		CourseID:      course.ID,
		CourseSlug:    course.Slug,
	}, nil
}

func loadTree(dbc dbctx.Context, rs repos.Set, courseID uuid.UUID) ([]*types.Chapter, []*types.Lesson, error) {
	chapters, err := rs.Chapter.ListByCourseID(dbc, courseID)
	if err != nil {
		return nil, nil, err
	}
	ids := make([]uuid.UUID, 0, len(chapters))
	for _, ch := range chapters {
		ids = append(ids, ch.ID)
	}
	lessons, err := rs.Lesson.ListByChapterIDs(dbc, ids)
	if err != nil {
		return nil, nil, err
	}
	return chapters, lessons, nil
}

// activeCourse loads a course and requires an active enrollment for userID.
// A missing course and a missing enrollment look the same to the caller.
func activeCourse(dbc dbctx.Context, rs repos.Set, op string, userID uuid.UUID, load func() (*types.Course, error)) (*types.Course, error) {
	if userID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeUnauthorized, op, "Authentication required", nil)
	}
	course, err := load()
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Course not found", nil)
	}
	enrollment, err := rs.Enrollment.GetByUserAndCourse(dbc, userID, course.ID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !enrollment.IsActive() {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "Course not found", nil)
	}
	return course, nil
}
