package model

import (
	"time"

	"gorm.io/gorm"
)

type Part struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	SectionID      uint           `json:"section_id" gorm:"not null;index"`
	OrderInSection int            `json:"order_in_section" gorm:"not null"`
	Instructions   string         `json:"instructions,omitempty" gorm:"type:text"`
	ContentText    string         `json:"content_text,omitempty" gorm:"type:text"`
	ImageURL       *string        `json:"image_url,omitempty"`
	AudioURL       *string        `json:"audio_url,omitempty"`
	TimerSeconds   int            `json:"timer_seconds" gorm:"not null;default:0"`
	Questions      []Question     `json:"questions,omitempty" gorm:"foreignKey:PartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Segments       []Segment      `json:"segments,omitempty" gorm:"foreignKey:PartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// DirectQuestions returns the part's own questions, excluding those owned by
// a segment.
func (p *Part) DirectQuestions() []Question {
	var out []Question
	for _, q := range p.Questions {
		if q.SegmentID == nil {
			out = append(out, q)
		}
	}
	return out
}
