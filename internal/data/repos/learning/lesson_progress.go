package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursecraft-backend/internal/domain"
	"github.com/yungbote/coursecraft-backend/internal/platform/dbctx"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

type LessonProgressRepo interface {
	// MarkCompleted upserts a completed progress row for (user, lesson).
	MarkCompleted(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	ListByUserAndLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error)
	CountCompleted(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, error)
	FullDeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) MarkCompleted(dbc dbctx.Context, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	now := time.Now().UTC()
	row := &types.LessonProgress{
		ID:        uuid.New(),
		UserID:    userID,
		LessonID:  lessonID,
		Completed: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := dbc.DB(r.db).
		Omit("Lesson").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}
	var out []*types.LessonProgress
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return row, nil
	}
	return out[0], nil
}

func (r *lessonProgressRepo) ListByUserAndLessonIDs(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]*types.LessonProgress, error) {
	var out []*types.LessonProgress
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonProgressRepo) CountCompleted(dbc dbctx.Context, userID uuid.UUID, lessonIDs []uuid.UUID) (int, error) {
	if userID == uuid.Nil || len(lessonIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := dbc.DB(r.db).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ? AND completed = ?", userID, lessonIDs, true).
		Count(&n).Error
	return int(n), err
}

func (r *lessonProgressRepo) FullDeleteByLessonIDs(dbc dbctx.Context, lessonIDs []uuid.UUID) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("lesson_id IN ?", lessonIDs).Delete(&types.LessonProgress{}).Error
}
