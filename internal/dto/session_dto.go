package dto

import "github.com/riteshk28/CELPIP-Practice-sub000/internal/delivery"

// Session event types accepted by the dispatch endpoint.
const (
	EventStartSection   = "start_section"
	EventNext           = "next"
	EventAnswer         = "answer"
	EventWriteInput     = "write_input"
	EventReviewContinue = "review_continue"
	EventFinish         = "finish"
)

type SessionEventRequest struct {
	Type       string `json:"type" binding:"required,oneof=start_section next answer write_input review_continue finish"`
	QuestionID uint   `json:"question_id,omitempty"`
	Value      string `json:"value,omitempty"`
	PartID     uint   `json:"part_id,omitempty"`
	Text       string `json:"text,omitempty"`
}

// ReviewSummaryDTO is shown on the REVIEW screen of auto-graded sections.
type ReviewSummaryDTO struct {
	SectionScore  float64 `json:"section_score"`
	TotalCorrect  int     `json:"total_correct"`
	TotalPossible int     `json:"total_possible"`
}

type SessionSnapshotDTO struct {
	SessionID string             `json:"session_id"`
	SetID     uint               `json:"set_id"`
	SetTitle  string             `json:"set_title"`
	Snapshot  delivery.Snapshot  `json:"snapshot"`
	Review    *ReviewSummaryDTO  `json:"review,omitempty"`
	Analyzing bool               `json:"analyzing"`
	Attempt   *AttemptDTO        `json:"attempt,omitempty"`
}
