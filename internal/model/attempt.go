package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is the immutable record created once when a candidate completes a
// practice set. It references the set by id and denormalizes the title so
// history survives set deletion.
type Attempt struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `json:"user_id" gorm:"not null;index"`
	PracticeSetID   uint           `json:"practice_set_id" gorm:"not null;index"`
	SetTitle        string         `json:"set_title" gorm:"not null"`
	SubmittedAt     time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	SectionScores   datatypes.JSON `json:"section_scores,omitempty" gorm:"type:jsonb"`
	BandScore       int            `json:"band_score" gorm:"not null;default:0"`
	WritingFeedback datatypes.JSON `json:"writing_feedback,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// SectionScoreMap decodes the stored section-id -> score map.
func (a *Attempt) SectionScoreMap() map[uint]float64 {
	scores := map[uint]float64{}
	if len(a.SectionScores) == 0 {
		return scores
	}
	if err := json.Unmarshal(a.SectionScores, &scores); err != nil {
		return map[uint]float64{}
	}
	return scores
}

// SetSectionScores encodes scores into the JSON column.
func (a *Attempt) SetSectionScores(scores map[uint]float64) error {
	raw, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	a.SectionScores = datatypes.JSON(raw)
	return nil
}
