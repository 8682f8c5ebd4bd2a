package dto

import "time"

// --- authoring (admin) ---

type QuestionSaveDTO struct {
	ID            uint     `json:"id"`
	SegmentID     *uint    `json:"segment_id,omitempty"`
	Type          string   `json:"type" binding:"required,oneof=MCQ CLOZE PASSAGE"`
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	Weight        int      `json:"weight,omitempty"`
	AudioURL      *string  `json:"audio_url,omitempty"`
	TimerSeconds  *int     `json:"timer_seconds,omitempty"`
	OrderIndex    int      `json:"order_index"`
}

type SegmentSaveDTO struct {
	ID              uint              `json:"id"`
	OrderInPart     int               `json:"order_in_part"`
	ContentText     string            `json:"content_text,omitempty"`
	AudioURL        *string           `json:"audio_url,omitempty"`
	PrepTimeSeconds int               `json:"prep_time_seconds"`
	TimerSeconds    int               `json:"timer_seconds"`
	Questions       []QuestionSaveDTO `json:"questions,omitempty" binding:"omitempty,dive"`
}

type PartSaveDTO struct {
	ID             uint              `json:"id"`
	OrderInSection int               `json:"order_in_section"`
	Instructions   string            `json:"instructions,omitempty"`
	ContentText    string            `json:"content_text,omitempty"`
	ImageURL       *string           `json:"image_url,omitempty"`
	AudioURL       *string           `json:"audio_url,omitempty"`
	TimerSeconds   int               `json:"timer_seconds"`
	Questions      []QuestionSaveDTO `json:"questions,omitempty" binding:"omitempty,dive"`
	Segments       []SegmentSaveDTO  `json:"segments,omitempty" binding:"omitempty,dive"`
}

type SectionSaveDTO struct {
	ID         uint          `json:"id"`
	Type       string        `json:"type" binding:"required,oneof=READING WRITING LISTENING SPEAKING"`
	Title      string        `json:"title" binding:"required"`
	OrderInSet int           `json:"order_in_set"`
	Parts      []PartSaveDTO `json:"parts,omitempty" binding:"omitempty,dive"`
}

// PracticeSetSaveDTO is the admin upsert payload: id 0 creates, nonzero
// replaces the stored tree.
type PracticeSetSaveDTO struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description,omitempty"`
	IsPublished bool             `json:"is_published"`
	Sections    []SectionSaveDTO `json:"sections" binding:"required,min=1,dive"`
}

// PracticeSetSaveResponse carries the saved tree plus non-fatal
// content-integrity warnings (e.g. unmatched cloze placeholders).
type PracticeSetSaveResponse struct {
	Set      PracticeSetDTO `json:"set"`
	Warnings []string       `json:"warnings,omitempty"`
}

// --- read side ---

type QuestionDTO struct {
	ID            uint     `json:"id"`
	PartID        uint     `json:"part_id"`
	SegmentID     *uint    `json:"segment_id,omitempty"`
	Type          string   `json:"type"`
	Text          string   `json:"text"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	Weight        int      `json:"weight"`
	AudioURL      *string  `json:"audio_url,omitempty"`
	TimerSeconds  *int     `json:"timer_seconds,omitempty"`
	OrderIndex    int      `json:"order_index"`
}

type SegmentDTO struct {
	ID              uint          `json:"id"`
	OrderInPart     int           `json:"order_in_part"`
	ContentText     string        `json:"content_text,omitempty"`
	AudioURL        *string       `json:"audio_url,omitempty"`
	PrepTimeSeconds int           `json:"prep_time_seconds"`
	TimerSeconds    int           `json:"timer_seconds"`
	Questions       []QuestionDTO `json:"questions,omitempty"`
}

type PartDTO struct {
	ID             uint          `json:"id"`
	OrderInSection int           `json:"order_in_section"`
	Instructions   string        `json:"instructions,omitempty"`
	ContentText    string        `json:"content_text,omitempty"`
	ImageURL       *string       `json:"image_url,omitempty"`
	AudioURL       *string       `json:"audio_url,omitempty"`
	TimerSeconds   int           `json:"timer_seconds"`
	Questions      []QuestionDTO `json:"questions,omitempty"`
	Segments       []SegmentDTO  `json:"segments,omitempty"`
}

type SectionDTO struct {
	ID         uint      `json:"id"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	OrderInSet int       `json:"order_in_set"`
	Parts      []PartDTO `json:"parts,omitempty"`
}

type PracticeSetDTO struct {
	ID          uint         `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	IsPublished bool         `json:"is_published"`
	Sections    []SectionDTO `json:"sections,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PracticeSetSummaryDTO lists sets without their trees.
type PracticeSetSummaryDTO struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	IsPublished  bool      `json:"is_published"`
	SectionCount int       `json:"section_count"`
	CreatedAt    time.Time `json:"created_at"`
}
