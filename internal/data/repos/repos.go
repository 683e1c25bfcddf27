package repos

import (
	"github.com/yungbote/coursecraft-backend/internal/data/repos/learning"
	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CourseRepo = learning.CourseRepo
type ChapterRepo = learning.ChapterRepo
type LessonRepo = learning.LessonRepo
type EnrollmentRepo = learning.EnrollmentRepo
type LessonProgressRepo = learning.LessonProgressRepo

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}
func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return learning.NewChapterRepo(db, baseLog)
}
func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}
func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return learning.NewLessonProgressRepo(db, baseLog)
}

// Set is every repo the service layer needs, built over one *gorm.DB.
type Set struct {
	Course         CourseRepo
	Chapter        ChapterRepo
	Lesson         LessonRepo
	Enrollment     EnrollmentRepo
	LessonProgress LessonProgressRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Course:         NewCourseRepo(db, baseLog),
		Chapter:        NewChapterRepo(db, baseLog),
		Lesson:         NewLessonRepo(db, baseLog),
		Enrollment:     NewEnrollmentRepo(db, baseLog),
		LessonProgress: NewLessonProgressRepo(db, baseLog),
	}
}
