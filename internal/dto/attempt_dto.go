package dto

import "time"

// AttemptSubmitDTO is a client-delivered test run: the flat answer map plus
// any writing inputs, submitted once at test completion.
type AttemptSubmitDTO struct {
	PracticeSetID uint            `json:"practice_set_id" binding:"required"`
	Answers       map[uint]string `json:"answers"`
	WritingInputs map[uint]string `json:"writing_inputs"`
}

type WritingPartFeedbackDTO struct {
	PartID          uint               `json:"part_id"`
	BandScore       float64            `json:"band_score"`
	Feedback        string             `json:"feedback,omitempty"`
	Corrections     []string           `json:"corrections,omitempty"`
	CriterionScores map[string]float64 `json:"criterion_scores,omitempty"`
	Unavailable     bool               `json:"unavailable,omitempty"`
}

type AttemptDTO struct {
	ID              uint                     `json:"id"`
	UserID          uint                     `json:"user_id"`
	PracticeSetID   uint                     `json:"practice_set_id"`
	SetTitle        string                   `json:"set_title"`
	SubmittedAt     time.Time                `json:"submitted_at"`
	SectionScores   map[uint]float64         `json:"section_scores"`
	BandScore       int                      `json:"band_score"`
	WritingFeedback []WritingPartFeedbackDTO `json:"writing_feedback,omitempty"`
}

type EvaluateWritingRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	Response string `json:"response" binding:"required"`
}

type EvaluateWritingResponse struct {
	BandScore       float64            `json:"band_score"`
	Feedback        string             `json:"feedback"`
	Corrections     []string           `json:"corrections,omitempty"`
	CriterionScores map[string]float64 `json:"criterion_scores,omitempty"`
}

type GenerateSpeechRequest struct {
	Script string `json:"script" binding:"required"`
}

type GenerateSpeechResponse struct {
	AudioData []byte `json:"audio_data"` // base64 in JSON
	MimeType  string `json:"mime_type"`
}
