package learning

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursecraft-backend/internal/ordering"
)

// siblingScope names the table and parent column of one ordered sibling set.
type siblingScope struct {
	table     string
	parentCol string
}

var (
	chapterScope = siblingScope{table: "chapter", parentCol: "course_id"}
	lessonScope  = siblingScope{table: "lesson", parentCol: "chapter_id"}
)

func (s siblingScope) slots(t *gorm.DB, parentID uuid.UUID) ([]ordering.Slot, error) {
	var out []ordering.Slot
	err := t.Table(s.table).
		Select("id, position").
		Where(s.parentCol+" = ?", parentID).
		Order("position ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s siblingScope) maxPosition(t *gorm.DB, parentID uuid.UUID) (int, error) {
	var max int
	err := t.Table(s.table).
		Select("COALESCE(MAX(position), 0)").
		Where(s.parentCol+" = ?", parentID).
		Scan(&max).Error
	return max, err
}

// rewrite moves rows from current to target positions without ever holding a
// duplicate (parent, position) pair. Phase one parks every changing row on its
// negated position in a single statement; phase two writes final values.
func (s siblingScope) rewrite(t *gorm.DB, parentID uuid.UUID, current, target []ordering.Slot) (int, error) {
	changed := ordering.Changed(current, target)
	if len(changed) == 0 {
		return 0, nil
	}
	ids := ordering.IDs(changed)
	now := time.Now().UTC()

	res := t.Table(s.table).
		Where(s.parentCol+" = ? AND id IN ?", parentID, ids).
		Updates(map[string]interface{}{
			"position":   gorm.Expr("0 - position"),
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if int(res.RowsAffected) != len(ids) {
		return 0, fmt.Errorf("%s rewrite: parked %d of %d rows: %w", s.table, res.RowsAffected, len(ids), gorm.ErrRecordNotFound)
	}

	for _, slot := range changed {
		res := t.Table(s.table).
			Where(s.parentCol+" = ? AND id = ?", parentID, slot.ID).
			Update("position", slot.Position)
		if res.Error != nil {
			return 0, res.Error
		}
		if res.RowsAffected != 1 {
			return 0, fmt.Errorf("%s rewrite: row %s vanished: %w", s.table, slot.ID, gorm.ErrRecordNotFound)
		}
	}
	return len(changed), nil
}

// forUpdate adds a row lock where the dialect supports one. SQLite holds a
// database-wide write lock for the transaction instead.
func forUpdate(t *gorm.DB) *gorm.DB {
	if t.Dialector != nil && t.Dialector.Name() == "postgres" {
		return t.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return t
}
