package delivery

import (
	"testing"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderPassage(t *testing.T) {
	siblings := []model.Question{
		{ID: 11, Type: model.QuestionCloze, Text: "1"},
		{ID: 12, Type: model.QuestionCloze, Text: "2"},
		{ID: 13, Type: model.QuestionMCQ, Text: "3"}, // MCQ never binds a token
	}

	spans := RenderPassage("She [[1]] to the store and [[2]] milk. Then [[3]] home.", siblings)

	assert.Equal(t, []PassageSpan{
		{Kind: SpanText, Text: "She "},
		{Kind: SpanCloze, QuestionID: 11, PlaceholderID: "1"},
		{Kind: SpanText, Text: " to the store and "},
		{Kind: SpanCloze, QuestionID: 12, PlaceholderID: "2"},
		{Kind: SpanText, Text: " milk. Then "},
		{Kind: SpanBroken, Text: "[[3]]", PlaceholderID: "3"},
		{Kind: SpanText, Text: " home."},
	}, spans)
}

func TestRenderPassage_NoTokens(t *testing.T) {
	spans := RenderPassage("plain paragraph", nil)
	assert.Equal(t, []PassageSpan{{Kind: SpanText, Text: "plain paragraph"}}, spans)
}

func TestRenderPassage_AdjacentAndEdgeTokens(t *testing.T) {
	siblings := []model.Question{
		{ID: 1, Type: model.QuestionCloze, Text: "a"},
		{ID: 2, Type: model.QuestionCloze, Text: "b"},
	}
	spans := RenderPassage("[[a]][[b]]", siblings)
	assert.Equal(t, []PassageSpan{
		{Kind: SpanCloze, QuestionID: 1, PlaceholderID: "a"},
		{Kind: SpanCloze, QuestionID: 2, PlaceholderID: "b"},
	}, spans)
}

func TestReferencedPlaceholderIDs(t *testing.T) {
	assert.Equal(t, []string{"1", "x2", "1"}, ReferencedPlaceholderIDs("[[1]] then [[x2]] then [[1]] again"))
	assert.Nil(t, ReferencedPlaceholderIDs("no tokens here"))
	assert.Nil(t, ReferencedPlaceholderIDs("malformed [[a]"))
}
