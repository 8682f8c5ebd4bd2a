package model

import (
	"time"

	"gorm.io/gorm"
)

type PracticeSet struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null"` // "CELPIP Practice Test 1"
	Description string         `json:"description,omitempty"`
	IsPublished bool           `json:"is_published" gorm:"default:false"`
	Sections    []Section      `json:"sections,omitempty" gorm:"foreignKey:PracticeSetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
