package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursecraft-backend/internal/domain"
	"github.com/yungbote/coursecraft-backend/internal/ordering"
	"github.com/yungbote/coursecraft-backend/internal/platform/dbctx"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(dbc dbctx.Context, row *types.Lesson) (*types.Lesson, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error)
	// ListByChapterIDs returns lessons grouped by chapter, each group in
	// position order.
	ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Lesson, error)
	ListIDsByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]uuid.UUID, error)
	Slots(dbc dbctx.Context, chapterID uuid.UUID) ([]ordering.Slot, error)
	MaxPosition(dbc dbctx.Context, chapterID uuid.UUID) (int, error)
	RewritePositions(dbc dbctx.Context, chapterID uuid.UUID, current, target []ordering.Slot) (int, error)
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(dbc dbctx.Context, row *types.Lesson) (*types.Lesson, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := dbc.DB(r.db).Omit("Chapter").Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *lessonRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Lesson, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Lesson
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *lessonRepo) ListByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	if len(chapterIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("chapter_id IN ?", chapterIDs).
		Order("chapter_id, position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) ListIDsByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := dbc.DB(r.db).
		Model(&types.Lesson{}).
		Joins("JOIN chapter ON chapter.id = lesson.chapter_id").
		Where("chapter.course_id = ?", courseID).
		Pluck("lesson.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *lessonRepo) Slots(dbc dbctx.Context, chapterID uuid.UUID) ([]ordering.Slot, error) {
	return lessonScope.slots(dbc.DB(r.db), chapterID)
}

func (r *lessonRepo) MaxPosition(dbc dbctx.Context, chapterID uuid.UUID) (int, error) {
	return lessonScope.maxPosition(dbc.DB(r.db), chapterID)
}

func (r *lessonRepo) RewritePositions(dbc dbctx.Context, chapterID uuid.UUID, current, target []ordering.Slot) (int, error) {
	n, err := lessonScope.rewrite(dbc.DB(r.db), chapterID, current, target)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.log.Debug("lesson positions rewritten", "chapter_id", chapterID, "changed", n)
	}
	return n, nil
}

func (r *lessonRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) FullDeleteByChapterIDs(dbc dbctx.Context, chapterIDs []uuid.UUID) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("chapter_id IN ?", chapterIDs).Delete(&types.Lesson{}).Error
}
