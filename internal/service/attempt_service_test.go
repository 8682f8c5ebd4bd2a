package service

import (
	"context"
	"errors"
	"testing"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSetRepo struct {
	set *model.PracticeSet
}

func (r *fakeSetRepo) Upsert(*model.PracticeSet) error { return nil }
func (r *fakeSetRepo) Delete(uint) error               { return nil }
func (r *fakeSetRepo) FindAllWithSectionCount(bool) ([]struct {
	model.PracticeSet
	SectionCount int
}, error) {
	return nil, nil
}

func (r *fakeSetRepo) FindByIDWithTree(id uint) (*model.PracticeSet, error) {
	if r.set == nil || r.set.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return r.set, nil
}

type fakeAttemptRepo struct {
	created []*model.Attempt
}

func (r *fakeAttemptRepo) Create(attempt *model.Attempt) error {
	attempt.ID = uint(len(r.created) + 1)
	r.created = append(r.created, attempt)
	return nil
}

func (r *fakeAttemptRepo) FindByID(id uint) (*model.Attempt, error) {
	for _, a := range r.created {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeAttemptRepo) FindAllByUser(userID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range r.created {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeEvaluator struct {
	eval  *WritingEvaluation
	err   error
	calls int
}

func (f *fakeEvaluator) EvaluateWriting(context.Context, string, string) (*WritingEvaluation, error) {
	f.calls++
	return f.eval, f.err
}

func writingPracticeSet() *model.PracticeSet {
	return &model.PracticeSet{
		ID:    1,
		Title: "Full Mock Test",
		Sections: []model.Section{
			{
				ID:   1,
				Type: model.SectionReading,
				Parts: []model.Part{{
					ID: 10,
					Questions: []model.Question{
						{ID: 101, Type: model.QuestionMCQ, CorrectAnswer: strPtr("A"), Weight: 1},
						{ID: 102, Type: model.QuestionMCQ, CorrectAnswer: strPtr("B"), Weight: 1},
					},
				}},
			},
			{
				ID:   2,
				Type: model.SectionWriting,
				Parts: []model.Part{
					{ID: 20, Instructions: "Write an email."},
					{ID: 21, Instructions: "Respond to the survey."},
				},
			},
		},
	}
}

func TestCompleteAttempt_GradesAndEvaluates(t *testing.T) {
	attemptRepo := &fakeAttemptRepo{}
	evaluator := &fakeEvaluator{eval: &WritingEvaluation{BandScore: 9, Feedback: "Solid."}}
	svc := NewAttemptService(&fakeSetRepo{}, attemptRepo, NewGradingService(), evaluator)

	set := writingPracticeSet()
	attempt, err := svc.CompleteAttempt(context.Background(), 7, set,
		map[uint]string{101: "A", 102: "C"},
		map[uint]string{20: "Dear team, ...", 21: "I prefer option two because ..."},
	)
	require.NoError(t, err)
	require.Len(t, attemptRepo.created, 1)

	assert.Equal(t, uint(7), attempt.UserID)
	assert.Equal(t, "Full Mock Test", attempt.SetTitle)
	// 1 of 2 reading points -> round(0.5 * 12) = 6.
	assert.Equal(t, 6, attempt.BandScore)

	scores := attempt.SectionScoreMap()
	assert.Equal(t, 1.0, scores[1])
	assert.Equal(t, 9.0, scores[2], "writing section averages part band scores")
	assert.Equal(t, 2, evaluator.calls)
}

func TestCompleteAttempt_EvaluatorOutageStillPersists(t *testing.T) {
	attemptRepo := &fakeAttemptRepo{}
	evaluator := &fakeEvaluator{err: errors.New("gemini unavailable")}
	svc := NewAttemptService(&fakeSetRepo{}, attemptRepo, NewGradingService(), evaluator)

	set := writingPracticeSet()
	attempt, err := svc.CompleteAttempt(context.Background(), 7, set,
		map[uint]string{101: "A", 102: "B"},
		map[uint]string{20: "Some response.", 21: "Another response."},
	)
	require.NoError(t, err, "an evaluation outage must not block submission")
	require.Len(t, attemptRepo.created, 1)

	scores := attempt.SectionScoreMap()
	assert.Equal(t, 0.0, scores[2], "failed evaluations contribute 0")

	out := attemptToDTO(attempt)
	require.Len(t, out.WritingFeedback, 2)
	for _, fb := range out.WritingFeedback {
		assert.True(t, fb.Unavailable)
		assert.Zero(t, fb.BandScore)
	}
}

func TestCompleteAttempt_EmptyWritingResponseSkipsEvaluator(t *testing.T) {
	attemptRepo := &fakeAttemptRepo{}
	evaluator := &fakeEvaluator{eval: &WritingEvaluation{BandScore: 10}}
	svc := NewAttemptService(&fakeSetRepo{}, attemptRepo, NewGradingService(), evaluator)

	set := writingPracticeSet()
	attempt, err := svc.CompleteAttempt(context.Background(), 7, set,
		nil,
		map[uint]string{20: "   ", 21: "Real answer."},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, evaluator.calls, "blank responses never reach the evaluator")

	// One part at 10, one at 0: the section averages to 5.
	assert.Equal(t, 5.0, attempt.SectionScoreMap()[2])

	out := attemptToDTO(attempt)
	require.Len(t, out.WritingFeedback, 2)
	assert.True(t, out.WritingFeedback[0].Unavailable)
	assert.Equal(t, "No response submitted.", out.WritingFeedback[0].Feedback)
	assert.False(t, out.WritingFeedback[1].Unavailable)
}

func TestSubmitAttempt_UnknownSet(t *testing.T) {
	svc := NewAttemptService(&fakeSetRepo{}, &fakeAttemptRepo{}, NewGradingService(), &fakeEvaluator{})

	_, err := svc.SubmitAttempt(context.Background(), 7, dto.AttemptSubmitDTO{PracticeSetID: 99})
	assert.Error(t, err)
}

func TestSubmitAttempt_RoundTrip(t *testing.T) {
	setRepo := &fakeSetRepo{set: writingPracticeSet()}
	attemptRepo := &fakeAttemptRepo{}
	evaluator := &fakeEvaluator{eval: &WritingEvaluation{BandScore: 8, Feedback: "Good flow."}}
	svc := NewAttemptService(setRepo, attemptRepo, NewGradingService(), evaluator)

	out, err := svc.SubmitAttempt(context.Background(), 7, dto.AttemptSubmitDTO{
		PracticeSetID: 1,
		Answers:       map[uint]string{101: "A", 102: "B"},
		WritingInputs: map[uint]string{20: "Dear team, ...", 21: "I prefer ..."},
	})
	require.NoError(t, err)
	assert.Equal(t, 12, out.BandScore)
	assert.Equal(t, 8.0, out.SectionScores[2])

	history, err := svc.GetUserAttempts(7)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Full Mock Test", history[0].SetTitle)
}
