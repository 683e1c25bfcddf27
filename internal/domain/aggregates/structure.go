package aggregates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursecraft-backend/internal/domain"
)

var StructureAggregateContract = Contract{
	Name:   "Learning.StructureAggregate",
	Scopes: []domain.Scope{domain.ScopeChapters, domain.ScopeLessons},
	Notes:  "Sole writer of chapter/lesson positions; keeps every sibling scope at 1..N after commit.",
}

// StructureAggregate owns the course -> chapter -> lesson ordering invariant.
//
// Write method failures return *Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeRetryable, CodePersistence.
type StructureAggregate interface {
	Aggregate

	// CreateChapter appends a chapter at the end of the course.
	CreateChapter(ctx context.Context, in CreateChapterInput) (*domain.Chapter, error)
	// CreateLesson appends a lesson at the end of the chapter.
	CreateLesson(ctx context.Context, in CreateLessonInput) (*domain.Lesson, error)
	// DeleteChapter removes a chapter (and its lessons) and closes the gap.
	DeleteChapter(ctx context.Context, in DeleteChapterInput) error
	// DeleteLesson removes a lesson and closes the gap.
	DeleteLesson(ctx context.Context, in DeleteLessonInput) error
	// ReorderChapters rewrites every chapter position of a course to the given total order.
	ReorderChapters(ctx context.Context, in ReorderInput) error
	// ReorderLessons rewrites every lesson position of a chapter to the given total order.
	ReorderLessons(ctx context.Context, in ReorderInput) error
	// DeleteCourse removes a course with all of its chapters and lessons.
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
	// UpdateCourse rewrites a course's descriptive fields. Structure is untouched.
	UpdateCourse(ctx context.Context, in UpdateCourseInput) (*domain.Course, error)
}

type CreateChapterInput struct {
	CourseID uuid.UUID
	Title    string
}

// CreateLessonInput appends a lesson. When CourseID is set the chapter must
// belong to that course.
type CreateLessonInput struct {
	CourseID     uuid.UUID
	ChapterID    uuid.UUID
	Title        string
	Description  string
	VideoKey     string
	ThumbnailKey string
	Metadata     datatypes.JSON
}

// UpdateCourseInput replaces title and description. An empty Status and a
// nil Metadata keep the stored values.
type UpdateCourseInput struct {
	CourseID    uuid.UUID
	Title       string
	Description string
	Status      string
	Metadata    datatypes.JSON
}

type DeleteChapterInput struct {
	CourseID  uuid.UUID
	ChapterID uuid.UUID
}

type DeleteLessonInput struct {
	CourseID  uuid.UUID
	ChapterID uuid.UUID
	LessonID  uuid.UUID
}

// PositionUpdate is one entry of a full sibling ordering.
type PositionUpdate struct {
	ID       uuid.UUID `json:"id"`
	Position int       `json:"position"`
}

// ReorderInput carries the complete new order of one sibling scope. ParentID
// is the course for chapters and the chapter for lessons. CourseID is only
// read for lessons and, when set, must own the chapter.
type ReorderInput struct {
	ParentID uuid.UUID
	CourseID uuid.UUID
	Items    []PositionUpdate
}
