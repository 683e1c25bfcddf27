package domain

import (
	"time"

	"github.com/google/uuid"
)

type Chapter struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_course_position,priority:1" json:"course_id"`
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Position  int       `gorm:"column:position;not null;uniqueIndex:idx_chapter_course_position,priority:2" json:"position"`
	Lessons   []*Lesson `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"lessons,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }
