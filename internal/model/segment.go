package model

import (
	"time"

	"gorm.io/gorm"
)

// Segment is one sub-unit within a Listening or Speaking part: a single audio
// clip or speaking prompt with its own prep/response timing.
type Segment struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	PartID          uint           `json:"part_id" gorm:"not null;index"`
	OrderInPart     int            `json:"order_in_part" gorm:"not null"`
	ContentText     string         `json:"content_text,omitempty" gorm:"type:text"`
	AudioURL        *string        `json:"audio_url,omitempty"`
	PrepTimeSeconds int            `json:"prep_time_seconds" gorm:"not null;default:0"`
	TimerSeconds    int            `json:"timer_seconds" gorm:"not null;default:0"`
	Questions       []Question     `json:"questions,omitempty" gorm:"foreignKey:SegmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasSequentialQuestions reports whether any question carries its own timer,
// which switches the segment to one-question-at-a-time delivery.
func (s *Segment) HasSequentialQuestions() bool {
	for _, q := range s.Questions {
		if q.TimerSeconds != nil && *q.TimerSeconds > 0 {
			return true
		}
	}
	return false
}
