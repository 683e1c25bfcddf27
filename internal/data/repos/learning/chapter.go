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

type ChapterRepo interface {
	Create(dbc dbctx.Context, row *types.Chapter) (*types.Chapter, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	// ListByCourseID returns the course's chapters in position order.
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Chapter, error)
	Slots(dbc dbctx.Context, courseID uuid.UUID) ([]ordering.Slot, error)
	MaxPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (bool, error)
	// RewritePositions moves the course's chapters from current to target
	// and returns how many rows changed.
	RewritePositions(dbc dbctx.Context, courseID uuid.UUID, current, target []ordering.Slot) (int, error)
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

func (r *chapterRepo) Create(dbc dbctx.Context, row *types.Chapter) (*types.Chapter, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now
	if err := dbc.DB(r.db).Omit("Course", "Lessons").Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Chapter
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *chapterRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Chapter, error) {
	var out []*types.Chapter
	if err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterRepo) Slots(dbc dbctx.Context, courseID uuid.UUID) ([]ordering.Slot, error) {
	return chapterScope.slots(dbc.DB(r.db), courseID)
}

func (r *chapterRepo) MaxPosition(dbc dbctx.Context, courseID uuid.UUID) (int, error) {
	return chapterScope.maxPosition(dbc.DB(r.db), courseID)
}

func (r *chapterRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	var ids []uuid.UUID
	err := forUpdate(dbc.DB(r.db)).
		Model(&types.Chapter{}).
		Where("id = ?", id).
		Pluck("id", &ids).Error
	if err != nil {
		return false, err
	}
	return len(ids) == 1, nil
}

func (r *chapterRepo) RewritePositions(dbc dbctx.Context, courseID uuid.UUID, current, target []ordering.Slot) (int, error) {
	n, err := chapterScope.rewrite(dbc.DB(r.db), courseID, current, target)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		r.log.Debug("chapter positions rewritten", "course_id", courseID, "changed", n)
	}
	return n, nil
}

func (r *chapterRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Chapter{}).Error
}

func (r *chapterRepo) FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("course_id IN ?", courseIDs).Delete(&types.Chapter{}).Error
}
