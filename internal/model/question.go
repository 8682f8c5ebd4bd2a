package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Question types.
//   - MCQ: multiple choice, Text is the question prompt.
//   - CLOZE: fill-in-the-blank, Text is the placeholder id referenced by a
//     [[id]] token inside a sibling PASSAGE block or the part content.
//   - PASSAGE: rich-text block, never graded.
const (
	QuestionMCQ     = "MCQ"
	QuestionCloze   = "CLOZE"
	QuestionPassage = "PASSAGE"
)

type Question struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	PartID        uint           `json:"part_id" gorm:"not null;index"`
	SegmentID     *uint          `json:"segment_id,omitempty" gorm:"index"`
	Type          string         `json:"type" gorm:"not null"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Options       datatypes.JSON `json:"options,omitempty" gorm:"type:jsonb"`
	CorrectAnswer *string        `json:"correct_answer,omitempty"` // nil means ungraded
	Weight        int            `json:"weight" gorm:"not null;default:1"`
	AudioURL      *string        `json:"audio_url,omitempty"`
	TimerSeconds  *int           `json:"timer_seconds,omitempty"`
	OrderIndex    int            `json:"order_index" gorm:"not null;default:0"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// OptionList decodes the JSON options column. A malformed or empty column
// yields nil.
func (q *Question) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(q.Options, &opts); err != nil {
		return nil
	}
	return opts
}

// SetOptions encodes opts into the JSON options column.
func (q *Question) SetOptions(opts []string) error {
	raw, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(raw)
	return nil
}

// Gradable reports whether the question enters auto-graded totals.
func (q *Question) Gradable() bool {
	return q.Type == QuestionMCQ || q.Type == QuestionCloze
}
