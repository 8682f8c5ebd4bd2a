package delivery

import (
	"errors"
	"testing"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAudio struct {
	played  []string
	stops   int
	playing bool
}

func (f *fakeAudio) Play(url string) error {
	f.played = append(f.played, url)
	f.playing = true
	return nil
}

func (f *fakeAudio) Stop() {
	f.playing = false
	f.stops++
}

type fakeRecorder struct {
	starts    int
	stops     int
	recording bool
	startErr  error
}

func (f *fakeRecorder) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	f.recording = true
	return nil
}

func (f *fakeRecorder) Stop() {
	f.recording = false
	f.stops++
}

func ptr[T any](v T) *T { return &v }

func tick(e *Engine, n int) {
	for i := 0; i < n; i++ {
		e.Tick()
	}
}

func readingSection(id uint, partTimers ...int) model.Section {
	sec := model.Section{ID: id, Type: model.SectionReading, Title: "Reading"}
	for i, timer := range partTimers {
		sec.Parts = append(sec.Parts, model.Part{
			ID:             id*100 + uint(i),
			OrderInSection: i,
			TimerSeconds:   timer,
		})
	}
	return sec
}

func TestStartSection_EntersFirstPart(t *testing.T) {
	e := NewEngine([]model.Section{readingSection(1, 60, 30)})

	st := e.State()
	assert.Equal(t, ViewIntro, st.View)

	e.StartSection()
	st = e.State()
	assert.Equal(t, ViewTest, st.View)
	assert.Equal(t, PhaseWorking, st.Phase)
	assert.Equal(t, 0, st.PartIndex)
	assert.Equal(t, 60, st.TimeLeft)
}

func TestTick_CountsDownOneSecondAndAutoAdvances(t *testing.T) {
	e := NewEngine([]model.Section{readingSection(1, 3, 30)})

	// No countdown before the candidate leaves INTRO.
	tick(e, 5)
	assert.Equal(t, ViewIntro, e.State().View)

	e.StartSection()
	e.Tick()
	assert.Equal(t, 2, e.State().TimeLeft)
	e.Tick()
	assert.Equal(t, 1, e.State().TimeLeft)

	// The expiring tick advances to the next part exactly once.
	e.Tick()
	st := e.State()
	assert.Equal(t, 1, st.PartIndex)
	assert.Equal(t, 30, st.TimeLeft)
}

func TestNext_SharesTransitionWithTimerExpiry(t *testing.T) {
	e := NewEngine([]model.Section{readingSection(1, 60, 30)})
	e.StartSection()

	e.Next()
	st := e.State()
	assert.Equal(t, 1, st.PartIndex)
	assert.Equal(t, 30, st.TimeLeft)

	// Past the last part an auto-graded section lands on REVIEW.
	e.Next()
	assert.Equal(t, ViewReview, e.State().View)

	// REVIEW has no timer; ticks are inert there.
	tick(e, 10)
	assert.Equal(t, ViewReview, e.State().View)
}

func TestReviewContinue_AdvancesToNextSectionIntro(t *testing.T) {
	e := NewEngine([]model.Section{
		readingSection(1, 10),
		{ID: 2, Type: model.SectionWriting, OrderInSet: 1, Parts: []model.Part{{ID: 200, TimerSeconds: 5}}},
	})
	e.StartSection()
	e.Next()
	require.Equal(t, ViewReview, e.State().View)

	e.ReviewContinue()
	st := e.State()
	assert.Equal(t, ViewIntro, st.View)
	assert.Equal(t, 1, st.SectionIndex)
	assert.Equal(t, 0, st.PartIndex)
}

func TestWritingSection_SkipsReview(t *testing.T) {
	completions := 0
	e := NewEngine(
		[]model.Section{{ID: 1, Type: model.SectionWriting, Parts: []model.Part{{ID: 10, TimerSeconds: 5}}}},
		WithCompletionFunc(func(map[uint]string, map[uint]string) { completions++ }),
	)
	e.StartSection()
	e.WriteInput(10, "Dear Sir, ...")
	e.Next()

	assert.Equal(t, ViewComplete, e.State().View)
	assert.Equal(t, 1, completions)
}

func TestSpeaking_PrepThenRecordingThenStop(t *testing.T) {
	rec := &fakeRecorder{}
	e := NewEngine(
		[]model.Section{{
			ID:   1,
			Type: model.SectionSpeaking,
			Parts: []model.Part{{
				ID: 10,
				Segments: []model.Segment{
					{ID: 50, PrepTimeSeconds: 2, TimerSeconds: 3},
					{ID: 51, PrepTimeSeconds: 0, TimerSeconds: 4},
				},
			}},
		}},
		WithRecorder(rec),
	)
	e.StartSection()

	st := e.State()
	assert.Equal(t, PhasePrep, st.Phase)
	assert.Equal(t, 2, st.TimeLeft)
	assert.Equal(t, 0, rec.starts, "no capture during prep")

	// Prep expiry flips to RECORDING with the response timer.
	tick(e, 2)
	st = e.State()
	assert.Equal(t, PhaseRecording, st.Phase)
	assert.Equal(t, 3, st.TimeLeft)
	assert.Equal(t, 1, rec.starts)
	assert.True(t, rec.recording)

	// Response expiry stops capture and moves to the next segment, which has
	// no prep and starts recording immediately.
	tick(e, 3)
	st = e.State()
	assert.Equal(t, 1, st.SegmentIndex)
	assert.Equal(t, PhaseRecording, st.Phase)
	assert.Equal(t, 4, st.TimeLeft)
	assert.Equal(t, 2, rec.starts)

	// Speaking is not auto-graded: past the last segment the test completes
	// with no REVIEW screen.
	e.Next()
	assert.Equal(t, ViewComplete, e.State().View)
	assert.False(t, rec.recording)
}

func TestSpeaking_RecorderFailureDegrades(t *testing.T) {
	rec := &fakeRecorder{startErr: errors.New("no microphone")}
	e := NewEngine(
		[]model.Section{{
			ID:    1,
			Type:  model.SectionSpeaking,
			Parts: []model.Part{{ID: 10, Segments: []model.Segment{{ID: 50, TimerSeconds: 3}}}},
		}},
		WithRecorder(rec),
	)
	e.StartSection()

	// Capture failed but the phase and timer run anyway.
	st := e.State()
	assert.Equal(t, PhaseRecording, st.Phase)
	assert.Equal(t, 3, st.TimeLeft)
	assert.False(t, rec.recording)

	tick(e, 3)
	assert.Equal(t, ViewComplete, e.State().View)
}

func sequentialListeningSection() model.Section {
	return model.Section{
		ID:   1,
		Type: model.SectionListening,
		Parts: []model.Part{{
			ID: 10,
			Segments: []model.Segment{{
				ID:           50,
				AudioURL:     ptr("main.mp3"),
				TimerSeconds: 5,
				Questions: []model.Question{
					{ID: 501, Type: model.QuestionMCQ, TimerSeconds: ptr(15), AudioURL: ptr("q1.mp3"), OrderIndex: 0},
					{ID: 502, Type: model.QuestionMCQ, TimerSeconds: ptr(15), AudioURL: ptr("q2.mp3"), OrderIndex: 1},
				},
			}},
		}},
	}
}

func TestListening_SequentialQuestionStepping(t *testing.T) {
	audio := &fakeAudio{}
	e := NewEngine([]model.Section{sequentialListeningSection()}, WithAudioPlayer(audio))
	e.StartSection()

	// Main clip first: no question visible yet.
	st := e.State()
	assert.Equal(t, MainAudioStep, st.ListeningStep)
	assert.Equal(t, 5, st.TimeLeft)
	assert.Contains(t, audio.played, "main.mp3")
	assert.Nil(t, e.Snapshot().Questions)

	// Main window expiry puts up question 0 with its own timer and clip.
	tick(e, 5)
	st = e.State()
	assert.Equal(t, 0, st.ListeningStep)
	assert.Equal(t, 15, st.TimeLeft)
	assert.Contains(t, audio.played, "q1.mp3")

	snap := e.Snapshot()
	require.Len(t, snap.Questions, 1)
	assert.Equal(t, uint(501), snap.Questions[0].ID)

	e.Answer(501, "B")
	tick(e, 15)
	st = e.State()
	assert.Equal(t, 1, st.ListeningStep)
	assert.Equal(t, 15, st.TimeLeft)

	// Past the last question the auto-graded section reaches REVIEW, with the
	// recorded answer intact.
	tick(e, 15)
	st = e.State()
	assert.Equal(t, ViewReview, st.View)
	assert.Equal(t, "B", st.Answers[501])
}

func TestListening_PrepThenWorking(t *testing.T) {
	audio := &fakeAudio{}
	e := NewEngine([]model.Section{{
		ID:   1,
		Type: model.SectionListening,
		Parts: []model.Part{{
			ID: 10,
			Segments: []model.Segment{{
				ID:              50,
				AudioURL:        ptr("clip.mp3"),
				PrepTimeSeconds: 10,
				TimerSeconds:    30,
				Questions: []model.Question{
					{ID: 501, Type: model.QuestionMCQ},
				},
			}},
		}},
	}}, WithAudioPlayer(audio))
	e.StartSection()

	// Prep is silent: the clip must not start until the working phase.
	st := e.State()
	assert.Equal(t, PhasePrep, st.Phase)
	assert.Equal(t, 10, st.TimeLeft)
	assert.Empty(t, audio.played)

	tick(e, 10)
	st = e.State()
	assert.Equal(t, PhaseWorking, st.Phase)
	assert.Equal(t, 30, st.TimeLeft)
	assert.Equal(t, []string{"clip.mp3"}, audio.played)

	// Working expiry crosses the segment; the only one ends the section.
	tick(e, 30)
	assert.Equal(t, ViewReview, e.State().View)
}

func TestListening_SequentialWithoutMainAudioStartsAtFirstQuestion(t *testing.T) {
	sec := sequentialListeningSection()
	sec.Parts[0].Segments[0].AudioURL = nil
	e := NewEngine([]model.Section{sec})
	e.StartSection()

	st := e.State()
	assert.Equal(t, 0, st.ListeningStep)
	assert.Equal(t, 15, st.TimeLeft)
}

func TestListening_NonSequentialShowsAllQuestions(t *testing.T) {
	e := NewEngine([]model.Section{{
		ID:   1,
		Type: model.SectionListening,
		Parts: []model.Part{{
			ID: 10,
			Segments: []model.Segment{{
				ID:           50,
				AudioURL:     ptr("clip.mp3"),
				TimerSeconds: 20,
				Questions: []model.Question{
					{ID: 501, Type: model.QuestionMCQ},
					{ID: 502, Type: model.QuestionMCQ},
				},
			}},
		}},
	}})
	e.StartSection()

	snap := e.Snapshot()
	assert.Len(t, snap.Questions, 2)
	assert.Equal(t, 20, snap.TimeLeft)

	// One advance crosses the whole segment.
	e.Next()
	assert.Equal(t, ViewReview, e.State().View)
}

func TestExit_StopsMediaAndIgnoresFurtherEvents(t *testing.T) {
	audio := &fakeAudio{}
	rec := &fakeRecorder{}
	completions := 0
	e := NewEngine(
		[]model.Section{{
			ID:    1,
			Type:  model.SectionSpeaking,
			Parts: []model.Part{{ID: 10, Segments: []model.Segment{{ID: 50, TimerSeconds: 30}}}},
		}},
		WithAudioPlayer(audio),
		WithRecorder(rec),
		WithCompletionFunc(func(map[uint]string, map[uint]string) { completions++ }),
	)
	e.StartSection()
	require.True(t, rec.recording)

	e.Exit()
	assert.True(t, e.Exited())
	assert.False(t, rec.recording)
	assert.False(t, audio.playing)

	// Exited sessions accept nothing and never complete.
	before := e.State()
	e.Tick()
	e.Next()
	e.Answer(99, "A")
	e.StartSection()
	assert.Equal(t, before.TimeLeft, e.State().TimeLeft)
	assert.NotContains(t, e.State().Answers, uint(99))
	assert.Equal(t, 0, completions)
}

func TestComplete_FiresExactlyOnce(t *testing.T) {
	completions := 0
	var gotAnswers map[uint]string
	e := NewEngine(
		[]model.Section{readingSection(1, 2)},
		WithCompletionFunc(func(answers, _ map[uint]string) {
			completions++
			gotAnswers = answers
		}),
	)
	e.StartSection()
	e.Answer(7, "C")

	// The final expiry routes through REVIEW, then continuing completes.
	tick(e, 2)
	require.Equal(t, ViewReview, e.State().View)
	e.ReviewContinue()
	assert.Equal(t, ViewComplete, e.State().View)
	assert.True(t, e.Completed())
	assert.Equal(t, 1, completions)
	assert.Equal(t, "C", gotAnswers[7])

	// Nothing after completion can refire the callback.
	e.Next()
	e.Tick()
	e.ReviewContinue()
	e.StartSection()
	assert.Equal(t, 1, completions)

	// The callback got a copy, not engine-owned state.
	gotAnswers[7] = "mutated"
	assert.Equal(t, "C", e.State().Answers[7])
}

func TestAnswers_SurviveNavigation(t *testing.T) {
	e := NewEngine([]model.Section{readingSection(1, 10, 10)})
	e.StartSection()
	e.Answer(101, "A")
	e.Next()
	e.Answer(101, "D") // revisions allowed, removals are not a thing

	st := e.State()
	assert.Equal(t, "D", st.Answers[101])

	// State() hands out copies.
	st.Answers[101] = "tampered"
	assert.Equal(t, "D", e.State().Answers[101])
}

func TestNewEngine_NormalizesOrdering(t *testing.T) {
	e := NewEngine([]model.Section{
		{ID: 2, Type: model.SectionWriting, OrderInSet: 1, Parts: []model.Part{{ID: 20, TimerSeconds: 5}}},
		{ID: 1, Type: model.SectionReading, OrderInSet: 0, Parts: []model.Part{
			{ID: 11, OrderInSection: 1, TimerSeconds: 6},
			{ID: 10, OrderInSection: 0, TimerSeconds: 9},
		}},
	})
	e.StartSection()

	snap := e.Snapshot()
	assert.Equal(t, uint(1), snap.SectionID)
	assert.Equal(t, uint(10), snap.PartID)
	assert.Equal(t, 9, snap.TimeLeft)
}

func TestStartSection_EmptySetCompletesImmediately(t *testing.T) {
	completions := 0
	e := NewEngine(nil, WithCompletionFunc(func(map[uint]string, map[uint]string) { completions++ }))
	e.StartSection()
	assert.Equal(t, ViewComplete, e.State().View)
	assert.Equal(t, 1, completions)
}

func TestSnapshot_RendersClozePassageSpans(t *testing.T) {
	e := NewEngine([]model.Section{{
		ID:   1,
		Type: model.SectionReading,
		Parts: []model.Part{{
			ID:           10,
			ContentText:  "He [[1]] early.",
			TimerSeconds: 30,
			Questions: []model.Question{
				{ID: 101, Type: model.QuestionCloze, Text: "1", CorrectAnswer: ptr("left")},
			},
		}},
	}})
	e.StartSection()

	snap := e.Snapshot()
	require.Len(t, snap.ContentSpans, 3)
	assert.Equal(t, SpanCloze, snap.ContentSpans[1].Kind)
	assert.Equal(t, uint(101), snap.ContentSpans[1].QuestionID)
}
