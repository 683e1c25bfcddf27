package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/coursecraft-backend/internal/data/repos/learning"
	"github.com/yungbote/coursecraft-backend/internal/domain"
	domainagg "github.com/yungbote/coursecraft-backend/internal/domain/aggregates"
	"github.com/yungbote/coursecraft-backend/internal/ordering"
	"github.com/yungbote/coursecraft-backend/internal/platform/dbctx"
)

const (
	opCreateChapter   = "structure.create_chapter"
	opCreateLesson    = "structure.create_lesson"
	opDeleteChapter   = "structure.delete_chapter"
	opDeleteLesson    = "structure.delete_lesson"
	opReorderChapters = "structure.reorder_chapters"
	opReorderLessons  = "structure.reorder_lessons"
	opDeleteCourse    = "structure.delete_course"
	opUpdateCourse    = "structure.update_course"
)

type StructureAggregateDeps struct {
	BaseDeps

	Courses     learning.CourseRepo
	Chapters    learning.ChapterRepo
	Lessons     learning.LessonRepo
	Enrollments learning.EnrollmentRepo
	Progress    learning.LessonProgressRepo
}

type structureAggregate struct {
	deps StructureAggregateDeps
}

func NewStructureAggregate(deps StructureAggregateDeps) domainagg.StructureAggregate {
	deps.BaseDeps = deps.BaseDeps.withDefaults()
	deps.Log = deps.Log.With("aggregate", "StructureAggregate")
	return &structureAggregate{deps: deps}
}

func (a *structureAggregate) Contract() domainagg.Contract {
	return domainagg.StructureAggregateContract
}

func (a *structureAggregate) CreateChapter(ctx context.Context, in domainagg.CreateChapterInput) (*domain.Chapter, error) {
	var out *domain.Chapter
	err := executeWrite(ctx, a.deps.BaseDeps, opCreateChapter, func(dbc dbctx.Context) error {
		title := strings.TrimSpace(in.Title)
		if in.CourseID == uuid.Nil {
			return ValidationError("course id is required")
		}
		if title == "" {
			return ValidationError("title is required")
		}
		ok, err := a.deps.Courses.LockByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if err := RequireFound(ok, "Course not found"); err != nil {
			return err
		}
		max, err := a.deps.Chapters.MaxPosition(dbc, in.CourseID)
		if err != nil {
			return err
		}
		out, err = a.deps.Chapters.Create(dbc, &domain.Chapter{
			CourseID: in.CourseID,
			Title:    title,
			Position: max + 1,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *structureAggregate) CreateLesson(ctx context.Context, in domainagg.CreateLessonInput) (*domain.Lesson, error) {
	var out *domain.Lesson
	err := executeWrite(ctx, a.deps.BaseDeps, opCreateLesson, func(dbc dbctx.Context) error {
		title := strings.TrimSpace(in.Title)
		if in.ChapterID == uuid.Nil {
			return ValidationError("chapter id is required")
		}
		if title == "" {
			return ValidationError("title is required")
		}
		if err := a.lockChapter(dbc, in.ChapterID, in.CourseID); err != nil {
			return err
		}
		max, err := a.deps.Lessons.MaxPosition(dbc, in.ChapterID)
		if err != nil {
			return err
		}
		out, err = a.deps.Lessons.Create(dbc, &domain.Lesson{
			ChapterID:    in.ChapterID,
			Title:        title,
			Description:  strings.TrimSpace(in.Description),
			VideoKey:     strings.TrimSpace(in.VideoKey),
			ThumbnailKey: strings.TrimSpace(in.ThumbnailKey),
			Metadata:     in.Metadata,
			Position:     max + 1,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (a *structureAggregate) DeleteChapter(ctx context.Context, in domainagg.DeleteChapterInput) error {
	return executeWrite(ctx, a.deps.BaseDeps, opDeleteChapter, func(dbc dbctx.Context) error {
		ok, err := a.deps.Courses.LockByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if err := RequireFound(ok, "Course not found"); err != nil {
			return err
		}
		current, err := a.deps.Chapters.Slots(dbc, in.CourseID)
		if err != nil {
			return err
		}
		rest, found := ordering.Without(current, in.ChapterID)
		if err := RequireFound(found, "Chapter not found in the course"); err != nil {
			return err
		}

		lessons, err := a.deps.Lessons.ListByChapterIDs(dbc, []uuid.UUID{in.ChapterID})
		if err != nil {
			return err
		}
		lessonIDs := make([]uuid.UUID, 0, len(lessons))
		for _, l := range lessons {
			lessonIDs = append(lessonIDs, l.ID)
		}
		if err := a.deps.Progress.FullDeleteByLessonIDs(dbc, lessonIDs); err != nil {
			return err
		}
		if err := a.deps.Lessons.FullDeleteByChapterIDs(dbc, []uuid.UUID{in.ChapterID}); err != nil {
			return err
		}
		if err := a.deps.Chapters.FullDeleteByIDs(dbc, []uuid.UUID{in.ChapterID}); err != nil {
			return err
		}

		target := ordering.Renumber(ordering.IDs(rest))
		if _, err := a.deps.Chapters.RewritePositions(dbc, in.CourseID, rest, target); err != nil {
			return err
		}
		return a.verifyChapters(dbc, in.CourseID)
	})
}

func (a *structureAggregate) DeleteLesson(ctx context.Context, in domainagg.DeleteLessonInput) error {
	return executeWrite(ctx, a.deps.BaseDeps, opDeleteLesson, func(dbc dbctx.Context) error {
		if err := a.lockChapter(dbc, in.ChapterID, in.CourseID); err != nil {
			return err
		}
		current, err := a.deps.Lessons.Slots(dbc, in.ChapterID)
		if err != nil {
			return err
		}
		rest, found := ordering.Without(current, in.LessonID)
		if err := RequireFound(found, "Lesson not found in the chapter"); err != nil {
			return err
		}

		if err := a.deps.Progress.FullDeleteByLessonIDs(dbc, []uuid.UUID{in.LessonID}); err != nil {
			return err
		}
		if err := a.deps.Lessons.FullDeleteByIDs(dbc, []uuid.UUID{in.LessonID}); err != nil {
			return err
		}

		target := ordering.Renumber(ordering.IDs(rest))
		if _, err := a.deps.Lessons.RewritePositions(dbc, in.ChapterID, rest, target); err != nil {
			return err
		}
		return a.verifyLessons(dbc, in.ChapterID)
	})
}

func (a *structureAggregate) ReorderChapters(ctx context.Context, in domainagg.ReorderInput) error {
	return executeWrite(ctx, a.deps.BaseDeps, opReorderChapters, func(dbc dbctx.Context) error {
		if len(in.Items) == 0 {
			return ValidationError("No chapters provided for reordering")
		}
		ok, err := a.deps.Courses.LockByID(dbc, in.ParentID)
		if err != nil {
			return err
		}
		if err := RequireFound(ok, "Course not found"); err != nil {
			return err
		}
		current, err := a.deps.Chapters.Slots(dbc, in.ParentID)
		if err != nil {
			return err
		}
		proposed, err := RequireFullOrder(current, in.Items, "No chapters provided for reordering")
		if err != nil {
			return err
		}
		if _, err := a.deps.Chapters.RewritePositions(dbc, in.ParentID, current, ordering.Renumber(proposed)); err != nil {
			return err
		}
		return a.verifyChapters(dbc, in.ParentID)
	})
}

func (a *structureAggregate) ReorderLessons(ctx context.Context, in domainagg.ReorderInput) error {
	return executeWrite(ctx, a.deps.BaseDeps, opReorderLessons, func(dbc dbctx.Context) error {
		if len(in.Items) == 0 {
			return ValidationError("No lessons provided for reordering.")
		}
		if err := a.lockChapter(dbc, in.ParentID, in.CourseID); err != nil {
			return err
		}
		current, err := a.deps.Lessons.Slots(dbc, in.ParentID)
		if err != nil {
			return err
		}
		proposed, err := RequireFullOrder(current, in.Items, "No lessons provided for reordering.")
		if err != nil {
			return err
		}
		if _, err := a.deps.Lessons.RewritePositions(dbc, in.ParentID, current, ordering.Renumber(proposed)); err != nil {
			return err
		}
		return a.verifyLessons(dbc, in.ParentID)
	})
}

func (a *structureAggregate) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	return executeWrite(ctx, a.deps.BaseDeps, opDeleteCourse, func(dbc dbctx.Context) error {
		ok, err := a.deps.Courses.LockByID(dbc, courseID)
		if err != nil {
			return err
		}
		if err := RequireFound(ok, "Course not found"); err != nil {
			return err
		}
		chapters, err := a.deps.Chapters.Slots(dbc, courseID)
		if err != nil {
			return err
		}
		lessonIDs, err := a.deps.Lessons.ListIDsByCourseID(dbc, courseID)
		if err != nil {
			return err
		}
		if err := a.deps.Progress.FullDeleteByLessonIDs(dbc, lessonIDs); err != nil {
			return err
		}
		if err := a.deps.Lessons.FullDeleteByChapterIDs(dbc, ordering.IDs(chapters)); err != nil {
			return err
		}
		if err := a.deps.Chapters.FullDeleteByCourseIDs(dbc, []uuid.UUID{courseID}); err != nil {
			return err
		}
		if err := a.deps.Enrollments.FullDeleteByCourseIDs(dbc, []uuid.UUID{courseID}); err != nil {
			return err
		}
		return a.deps.Courses.FullDeleteByIDs(dbc, []uuid.UUID{courseID})
	})
}

func (a *structureAggregate) UpdateCourse(ctx context.Context, in domainagg.UpdateCourseInput) (*domain.Course, error) {
	var out *domain.Course
	err := executeWrite(ctx, a.deps.BaseDeps, opUpdateCourse, func(dbc dbctx.Context) error {
		title := strings.TrimSpace(in.Title)
		if in.CourseID == uuid.Nil {
			return ValidationError("course id is required")
		}
		if title == "" {
			return ValidationError("title is required")
		}
		updates := map[string]interface{}{
			"title":       title,
			"description": strings.TrimSpace(in.Description),
		}
		switch in.Status {
		case "":
		case domain.CourseStatusDraft, domain.CourseStatusPublished, domain.CourseStatusArchived:
			updates["status"] = in.Status
		default:
			return ValidationError("unknown course status %q", in.Status)
		}
		if in.Metadata != nil {
			updates["metadata"] = in.Metadata
		}

		ok, err := a.deps.Courses.LockByID(dbc, in.CourseID)
		if err != nil {
			return err
		}
		if err := RequireFound(ok, "Course not found"); err != nil {
			return err
		}
		if _, err := a.deps.Courses.UpdateFields(dbc, in.CourseID, updates); err != nil {
			return err
		}
		out, err = a.deps.Courses.GetByID(dbc, in.CourseID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// lockChapter locks the chapter row and, when courseID is set, checks that
// the chapter belongs to that course.
func (a *structureAggregate) lockChapter(dbc dbctx.Context, chapterID, courseID uuid.UUID) error {
	ok, err := a.deps.Chapters.LockByID(dbc, chapterID)
	if err != nil {
		return err
	}
	if err := RequireFound(ok, "Chapter not found"); err != nil {
		return err
	}
	if courseID == uuid.Nil {
		return nil
	}
	ch, err := a.deps.Chapters.GetByID(dbc, chapterID)
	if err != nil {
		return err
	}
	return RequireFound(ch != nil && ch.CourseID == courseID, "Chapter not found in the course")
}

func (a *structureAggregate) verifyChapters(dbc dbctx.Context, courseID uuid.UUID) error {
	slots, err := a.deps.Chapters.Slots(dbc, courseID)
	if err != nil {
		return err
	}
	return RequireContiguous(slots, "chapter")
}

func (a *structureAggregate) verifyLessons(dbc dbctx.Context, chapterID uuid.UUID) error {
	slots, err := a.deps.Lessons.Slots(dbc, chapterID)
	if err != nil {
		return err
	}
	return RequireContiguous(slots, "lesson")
}
