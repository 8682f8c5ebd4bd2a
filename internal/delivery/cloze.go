package delivery

import (
	"regexp"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
)

// PassageSpan kinds. A passage renders as a flat list of spans: literal text,
// interactive cloze slots, and visibly-broken placeholders for tokens with no
// matching CLOZE question.
type SpanKind string

const (
	SpanText   SpanKind = "text"
	SpanCloze  SpanKind = "cloze"
	SpanBroken SpanKind = "broken"
)

type PassageSpan struct {
	Kind          SpanKind `json:"kind"`
	Text          string   `json:"text,omitempty"`
	QuestionID    uint     `json:"question_id,omitempty"`
	PlaceholderID string   `json:"placeholder_id,omitempty"`
}

var clozeTokenRe = regexp.MustCompile(`\[\[([^\[\]]+)\]\]`)

// RenderPassage splits text on [[id]] tokens, binding each token to the
// sibling CLOZE question whose Text equals the id. Tokens in left-to-right
// order; unmatched tokens become broken spans rather than failing.
func RenderPassage(text string, siblings []model.Question) []PassageSpan {
	clozeByID := make(map[string]uint, len(siblings))
	for _, q := range siblings {
		if q.Type == model.QuestionCloze {
			clozeByID[q.Text] = q.ID
		}
	}

	var spans []PassageSpan
	last := 0
	for _, m := range clozeTokenRe.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			spans = append(spans, PassageSpan{Kind: SpanText, Text: text[last:m[0]]})
		}
		id := text[m[2]:m[3]]
		if qid, ok := clozeByID[id]; ok {
			spans = append(spans, PassageSpan{Kind: SpanCloze, QuestionID: qid, PlaceholderID: id})
		} else {
			spans = append(spans, PassageSpan{Kind: SpanBroken, Text: text[m[0]:m[1]], PlaceholderID: id})
		}
		last = m[1]
	}
	if last < len(text) {
		spans = append(spans, PassageSpan{Kind: SpanText, Text: text[last:]})
	}
	return spans
}

// ReferencedPlaceholderIDs lists the ids of all [[id]] tokens inside text.
func ReferencedPlaceholderIDs(text string) []string {
	var ids []string
	for _, m := range clozeTokenRe.FindAllStringSubmatch(text, -1) {
		ids = append(ids, m[1])
	}
	return ids
}
