package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvaluation(t *testing.T) {
	raw := `Band: 8
Criteria: content=8; vocabulary=7.5; readability=9; task=8
Feedback:
Clear structure and a convincing tone throughout.
Vary sentence openings to improve flow.
Corrections:
- "more better" -> "better"
- "he go" -> "he goes"
`
	eval, err := parseEvaluation(raw)
	require.NoError(t, err)
	assert.Equal(t, 8.0, eval.BandScore)
	assert.Equal(t, 7.5, eval.CriterionScores["vocabulary"])
	assert.Contains(t, eval.Feedback, "Clear structure")
	assert.NotContains(t, eval.Feedback, "Corrections")
	require.Len(t, eval.Corrections, 2)
	assert.Equal(t, `"he go" -> "he goes"`, eval.Corrections[1])
}

func TestParseEvaluation_BandClamped(t *testing.T) {
	eval, err := parseEvaluation("Band: 15\nFeedback:\nfine")
	require.NoError(t, err)
	assert.Equal(t, 12.0, eval.BandScore)

	eval, err = parseEvaluation("Band: -3")
	require.NoError(t, err)
	assert.Equal(t, 0.0, eval.BandScore)
}

func TestParseEvaluation_Malformed(t *testing.T) {
	_, err := parseEvaluation("I cannot grade this.")
	assert.Error(t, err)

	_, err = parseEvaluation("Band: eight")
	assert.Error(t, err)
}

func TestParseEvaluation_MinimalReply(t *testing.T) {
	eval, err := parseEvaluation("Band: 6")
	require.NoError(t, err)
	assert.Equal(t, 6.0, eval.BandScore)
	assert.Empty(t, eval.Feedback)
	assert.Nil(t, eval.CriterionScores)
	assert.Nil(t, eval.Corrections)
}
