package services

import (
	"math"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/coursecraft-backend/internal/domain"
)

type LessonOutline struct {
	ID           uuid.UUID      `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Position     int            `json:"position"`
	VideoKey     string         `json:"videoKey,omitempty"`
	ThumbnailKey string         `json:"thumbnailKey,omitempty"`
	Metadata     datatypes.JSON `json:"metadata,omitempty"`
	Completed    bool           `json:"completed"`
}

type ChapterOutline struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Position int             `json:"position"`
	Lessons  []LessonOutline `json:"lessons"`
}

// CourseOutline is a course with its chapters and lessons in position order.
type CourseOutline struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status"`
	Metadata    datatypes.JSON   `json:"metadata,omitempty"`
	Chapters    []ChapterOutline `json:"chapters"`
	Progress    *ProgressSummary `json:"progress,omitempty"`
}

// LessonContent is a single lesson as a learner opens it.
type LessonContent struct {
	LessonOutline
	ChapterID  uuid.UUID `json:"chapterID"`
	CourseID   uuid.UUID `json:"courseID"`
	CourseSlug string    `json:"courseSlug"`
}

type ProgressSummary struct {
	TotalLessons       int `json:"totalLessons"`
	CompletedLessons   int `json:"completedLessons"`
	ProgressPercentage int `json:"progressPercentage"`
}

// Summarize rounds completed/total to a whole percentage; an empty course is 0%.
func Summarize(total, completed int) ProgressSummary {
	out := ProgressSummary{TotalLessons: total, CompletedLessons: completed}
	if total > 0 {
		out.ProgressPercentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return out
}

// assembleOutline nests lessons under their chapters. chapters and lessons
// must already be in position order.
func assembleOutline(course *types.Course, chapters []*types.Chapter, lessons []*types.Lesson, completed map[uuid.UUID]bool) *CourseOutline {
	out := &CourseOutline{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.Slug,
		Description: course.Description,
		Status:      course.Status,
		Metadata:    course.Metadata,
		Chapters:    make([]ChapterOutline, 0, len(chapters)),
	}
	byChapter := make(map[uuid.UUID][]LessonOutline, len(chapters))
	for _, l := range lessons {
		byChapter[l.ChapterID] = append(byChapter[l.ChapterID], lessonOutline(l, completed[l.ID]))
	}
	for _, ch := range chapters {
		ls := byChapter[ch.ID]
		if ls == nil {
			ls = []LessonOutline{}
		}
		out.Chapters = append(out.Chapters, ChapterOutline{
			ID:       ch.ID,
			Title:    ch.Title,
			Position: ch.Position,
			Lessons:  ls,
		})
	}
	return out
}

func lessonOutline(l *types.Lesson, completed bool) LessonOutline {
	return LessonOutline{
		ID:           l.ID,
		Title:        l.Title,
		Description:  l.Description,
		Position:     l.Position,
		VideoKey:     l.VideoKey,
		ThumbnailKey: l.ThumbnailKey,
		Metadata:     l.Metadata,
		Completed:    completed,
	}
}
