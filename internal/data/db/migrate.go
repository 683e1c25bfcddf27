package db

import (
	types "github.com/yungbote/coursecraft-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Structure
		&types.Course{},
		&types.Chapter{},
		&types.Lesson{},

		// Learner state
		&types.Enrollment{},
		&types.LessonProgress{},
	)
}
