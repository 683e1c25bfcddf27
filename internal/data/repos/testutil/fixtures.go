package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/coursecraft-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Course {
	tb.Helper()
	id := uuid.New()
	now := time.Now().UTC()
	c := &types.Course{
		ID:        id,
		Title:     "course",
		Slug:      "course-" + id.String()[:8],
		Status:    types.CourseStatusPublished,
		Metadata:  datatypes.JSON([]byte("{}")),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Omit("Chapters").Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedChapter(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, position int) *types.Chapter {
	tb.Helper()
	now := time.Now().UTC()
	ch := &types.Chapter{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     fmt.Sprintf("chapter %d", position),
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Omit("Course", "Lessons").Create(ch).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return ch
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID, position int) *types.Lesson {
	tb.Helper()
	now := time.Now().UTC()
	l := &types.Lesson{
		ID:        uuid.New(),
		ChapterID: chapterID,
		Title:     fmt.Sprintf("lesson %d", position),
		Position:  position,
		Metadata:  datatypes.JSON([]byte("{}")),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Omit("Chapter").Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID, status string) *types.Enrollment {
	tb.Helper()
	now := time.Now().UTC()
	e := &types.Enrollment{
		ID:        uuid.New(),
		UserID:    userID,
		CourseID:  courseID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Omit("Course").Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

// ChapterPositions returns id -> position for every chapter of a course.
func ChapterPositions(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID) map[uuid.UUID]int {
	tb.Helper()
	var rows []*types.Chapter
	if err := tx.WithContext(ctx).Where("course_id = ?", courseID).Find(&rows).Error; err != nil {
		tb.Fatalf("load chapters: %v", err)
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Position
	}
	return out
}

// LessonPositions returns id -> position for every lesson of a chapter.
func LessonPositions(tb testing.TB, ctx context.Context, tx *gorm.DB, chapterID uuid.UUID) map[uuid.UUID]int {
	tb.Helper()
	var rows []*types.Lesson
	if err := tx.WithContext(ctx).Where("chapter_id = ?", chapterID).Find(&rows).Error; err != nil {
		tb.Fatalf("load lessons: %v", err)
	}
	out := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		out[r.ID] = r.Position
	}
	return out
}
