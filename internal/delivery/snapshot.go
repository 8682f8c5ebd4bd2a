package delivery

import "github.com/riteshk28/CELPIP-Practice-sub000/internal/model"

// QuestionView is the render-ready projection of a question on the current
// screen.
type QuestionView struct {
	ID       uint          `json:"id"`
	Type     string        `json:"type"`
	Text     string        `json:"text"`
	Options  []string      `json:"options,omitempty"`
	AudioURL *string       `json:"audio_url,omitempty"`
	Weight   int           `json:"weight"`
	Passage  []PassageSpan `json:"passage,omitempty"`
	Answer   string        `json:"answer,omitempty"` // candidate's current answer
}

// Snapshot is a pure projection of the engine state plus content-tree lookups
// for the current screen. The presentation side renders it and dispatches
// events back; it never writes state fields directly.
type Snapshot struct {
	View          ViewState     `json:"view"`
	Phase         Phase         `json:"phase"`
	SectionIndex  int           `json:"section_index"`
	PartIndex     int           `json:"part_index"`
	SegmentIndex  int           `json:"segment_index"`
	ListeningStep int           `json:"listening_step"`
	TimeLeft      int           `json:"time_left"`
	SectionID     uint          `json:"section_id,omitempty"`
	SectionType   string        `json:"section_type,omitempty"`
	SectionTitle  string        `json:"section_title,omitempty"`
	PartID        uint          `json:"part_id,omitempty"`
	Instructions  string        `json:"instructions,omitempty"`
	ContentText   string        `json:"content_text,omitempty"`
	ContentSpans  []PassageSpan `json:"content_spans,omitempty"`
	ImageURL      *string       `json:"image_url,omitempty"`
	SegmentID     uint          `json:"segment_id,omitempty"`
	SegmentText   string        `json:"segment_text,omitempty"`
	Questions     []QuestionView `json:"questions,omitempty"`
	WritingInput  string        `json:"writing_input,omitempty"`
	Completed     bool          `json:"completed"`
}

// Snapshot builds the projection for the current position.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		View:          e.st.View,
		Phase:         e.st.Phase,
		SectionIndex:  e.st.SectionIndex,
		PartIndex:     e.st.PartIndex,
		SegmentIndex:  e.st.SegmentIndex,
		ListeningStep: e.st.ListeningStep,
		TimeLeft:      e.st.TimeLeft,
		Completed:     e.completed,
	}
	if len(e.sections) == 0 || e.st.SectionIndex >= len(e.sections) {
		return snap
	}

	sec := e.section()
	snap.SectionID = sec.ID
	snap.SectionType = sec.Type
	snap.SectionTitle = sec.Title

	if e.st.View != ViewTest || e.st.PartIndex >= len(sec.Parts) {
		return snap
	}

	p := e.part()
	snap.PartID = p.ID
	snap.Instructions = p.Instructions
	snap.ContentText = p.ContentText
	snap.ImageURL = p.ImageURL
	snap.WritingInput = e.st.WritingInputs[p.ID]

	if sec.UsesSegments() && len(p.Segments) > 0 {
		seg := e.segment()
		snap.SegmentID = seg.ID
		snap.SegmentText = seg.ContentText
		snap.Questions = e.segmentQuestionViews(seg)
		return snap
	}

	direct := p.DirectQuestions()
	if ids := ReferencedPlaceholderIDs(p.ContentText); len(ids) > 0 {
		snap.ContentSpans = RenderPassage(p.ContentText, direct)
	}
	snap.Questions = e.questionViews(direct, direct)
	return snap
}

func (e *Engine) segmentQuestionViews(seg *model.Segment) []QuestionView {
	if !seg.HasSequentialQuestions() {
		return e.questionViews(seg.Questions, seg.Questions)
	}
	if e.st.ListeningStep == MainAudioStep || e.st.ListeningStep >= len(seg.Questions) {
		return nil
	}
	// One question at a time.
	return e.questionViews(seg.Questions[e.st.ListeningStep:e.st.ListeningStep+1], seg.Questions)
}

func (e *Engine) questionViews(visible []model.Question, siblings []model.Question) []QuestionView {
	views := make([]QuestionView, 0, len(visible))
	for i := range visible {
		q := &visible[i]
		v := QuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Text:     q.Text,
			Options:  q.OptionList(),
			AudioURL: q.AudioURL,
			Weight:   q.Weight,
			Answer:   e.st.Answers[q.ID],
		}
		if q.Type == model.QuestionPassage {
			v.Passage = RenderPassage(q.Text, siblings)
		}
		views = append(views, v)
	}
	return views
}
