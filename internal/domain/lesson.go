package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Lesson struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID    uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_lesson_chapter_position,priority:1" json:"chapter_id"`
	Chapter      *Chapter       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChapterID;references:ID" json:"chapter,omitempty"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	Description  string         `gorm:"column:description;type:text" json:"description"`
	VideoKey     string         `gorm:"column:video_key" json:"video_key,omitempty"`
	ThumbnailKey string         `gorm:"column:thumbnail_key" json:"thumbnail_key,omitempty"`
	Position     int            `gorm:"column:position;not null;uniqueIndex:idx_lesson_chapter_position,priority:2" json:"position"`
	Metadata     datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
}

func (Lesson) TableName() string { return "lesson" }
