package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Course struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Status      string         `gorm:"column:status;not null" json:"status"`
	Metadata    datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	Chapters    []*Chapter     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"chapters,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Course) TableName() string { return "course" }
