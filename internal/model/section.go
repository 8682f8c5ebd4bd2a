package model

import (
	"time"

	"gorm.io/gorm"
)

// Section types. The type decides the shape of the parts beneath it:
// READING/WRITING parts carry questions directly, LISTENING/SPEAKING parts
// carry segments.
const (
	SectionReading   = "READING"
	SectionWriting   = "WRITING"
	SectionListening = "LISTENING"
	SectionSpeaking  = "SPEAKING"
)

type Section struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	PracticeSetID uint           `json:"practice_set_id" gorm:"not null;index"`
	Type          string         `json:"type" gorm:"not null"`
	Title         string         `json:"title" gorm:"not null"`
	OrderInSet    int            `json:"order_in_set" gorm:"not null"`
	Parts         []Part         `json:"parts,omitempty" gorm:"foreignKey:SectionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// UsesSegments reports whether parts of this section are segment-driven.
func (s *Section) UsesSegments() bool {
	return s.Type == SectionListening || s.Type == SectionSpeaking
}

// AutoGraded reports whether the section contributes to automatic scoring.
func (s *Section) AutoGraded() bool {
	return s.Type == SectionReading || s.Type == SectionListening
}
