package delivery

import (
	"sort"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/rs/zerolog/log"
)

// CompletionFunc receives the recorded answers and writing inputs exactly
// once, when the candidate walks past the last unit of the test.
type CompletionFunc func(answers map[uint]string, writingInputs map[uint]string)

// Engine walks a practice set screen-by-screen: section -> part -> segment,
// with PREP/WORKING/RECORDING phases and a tick-driven timer. It owns the
// single mutable State; callers drive it with events and read snapshots.
// The engine itself is not goroutine-safe; serialize events externally.
type Engine struct {
	sections   []model.Section
	st         State
	audio      AudioPlayer
	recorder   Recorder
	onComplete CompletionFunc
	completed  bool
	exited     bool
}

type Option func(*Engine)

func WithAudioPlayer(p AudioPlayer) Option     { return func(e *Engine) { e.audio = p } }
func WithRecorder(r Recorder) Option           { return func(e *Engine) { e.recorder = r } }
func WithCompletionFunc(f CompletionFunc) Option { return func(e *Engine) { e.onComplete = f } }

// NewEngine builds an engine over the given content tree. The section slice
// is copied, but normalization sorts the nested part/segment/question slices
// in place; the sort is stable and idempotent, so sharing a tree across
// engines is fine as long as construction is not concurrent.
func NewEngine(sections []model.Section, opts ...Option) *Engine {
	normalized := make([]model.Section, len(sections))
	copy(normalized, sections)
	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].OrderInSet < normalized[j].OrderInSet
	})
	for si := range normalized {
		parts := normalized[si].Parts
		sort.SliceStable(parts, func(i, j int) bool {
			return parts[i].OrderInSection < parts[j].OrderInSection
		})
		for pi := range parts {
			sort.SliceStable(parts[pi].Questions, func(i, j int) bool {
				return parts[pi].Questions[i].OrderIndex < parts[pi].Questions[j].OrderIndex
			})
			segs := parts[pi].Segments
			sort.SliceStable(segs, func(i, j int) bool {
				return segs[i].OrderInPart < segs[j].OrderInPart
			})
			for gi := range segs {
				sort.SliceStable(segs[gi].Questions, func(i, j int) bool {
					return segs[gi].Questions[i].OrderIndex < segs[gi].Questions[j].OrderIndex
				})
			}
		}
	}

	e := &Engine{
		sections: normalized,
		st:       newState(),
		audio:    NoopAudioPlayer{},
		recorder: NoopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns a copy of the current state; the answer maps are copied so
// callers can never mutate engine-owned state.
func (e *Engine) State() State {
	st := e.st
	st.Answers = copyMap(e.st.Answers)
	st.WritingInputs = copyMap(e.st.WritingInputs)
	return st
}

func (e *Engine) Completed() bool { return e.completed }
func (e *Engine) Exited() bool    { return e.exited }

func copyMap(m map[uint]string) map[uint]string {
	out := make(map[uint]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// --- events ---

// StartSection leaves the current section's INTRO screen and enters its first
// part.
func (e *Engine) StartSection() {
	if e.done() || e.st.View != ViewIntro {
		return
	}
	if len(e.sections) == 0 {
		e.complete()
		return
	}
	e.st.View = ViewTest
	e.enterPart(0)
}

// Tick advances the one-second timer. It only counts down while the candidate
// is on a live TEST screen; reaching zero triggers exactly one auto-advance.
func (e *Engine) Tick() {
	if e.done() || e.st.View != ViewTest {
		return
	}
	if e.st.TimeLeft > 0 {
		e.st.TimeLeft--
	}
	if e.st.TimeLeft <= 0 {
		e.advance()
	}
}

// Next is the candidate's manual advance; it shares the transition logic with
// timer expiry.
func (e *Engine) Next() {
	if e.done() || e.st.View != ViewTest {
		return
	}
	e.advance()
}

// Answer records a submitted answer value. Answers are only ever added to;
// navigation never removes them.
func (e *Engine) Answer(questionID uint, value string) {
	if e.done() {
		return
	}
	e.st.Answers[questionID] = value
}

// WriteInput records the candidate's writing response for a writing part.
func (e *Engine) WriteInput(partID uint, text string) {
	if e.done() {
		return
	}
	e.st.WritingInputs[partID] = text
}

// ReviewContinue leaves the auto-graded REVIEW screen for the next section's
// INTRO, or completes the test if none remain.
func (e *Engine) ReviewContinue() {
	if e.done() || e.st.View != ViewReview {
		return
	}
	e.nextSectionOrComplete()
}

// Exit aborts the test. Active audio and recording are stopped synchronously
// before control returns; no attempt is persisted for an exited session.
func (e *Engine) Exit() {
	if e.done() {
		return
	}
	e.stopMedia()
	e.exited = true
}

// --- transitions ---

func (e *Engine) done() bool { return e.completed || e.exited }

func (e *Engine) section() *model.Section { return &e.sections[e.st.SectionIndex] }

func (e *Engine) part() *model.Part { return &e.section().Parts[e.st.PartIndex] }

func (e *Engine) segment() *model.Segment {
	p := e.part()
	if e.st.SegmentIndex >= len(p.Segments) {
		return nil
	}
	return &p.Segments[e.st.SegmentIndex]
}

// advance is the single transition applied on timer expiry or manual Next.
func (e *Engine) advance() {
	sec := e.section()
	if len(sec.Parts) == 0 {
		e.endOfSection()
		return
	}

	switch sec.Type {
	case model.SectionReading, model.SectionWriting:
		e.advancePart()
	case model.SectionListening:
		e.advanceListening()
	case model.SectionSpeaking:
		e.advanceSpeaking()
	default:
		log.Warn().Str("section_type", sec.Type).Msg("Unknown section type, treating as direct-question section")
		e.advancePart()
	}
}

func (e *Engine) advancePart() {
	sec := e.section()
	if e.st.PartIndex+1 < len(sec.Parts) {
		e.enterPart(e.st.PartIndex + 1)
		return
	}
	e.endOfSection()
}

func (e *Engine) advanceListening() {
	seg := e.segment()
	if seg == nil {
		// Listening part authored without segments falls back to part-level
		// timing.
		e.advancePart()
		return
	}
	if e.st.Phase == PhasePrep {
		e.enterListeningWorking(seg)
		return
	}
	if seg.HasSequentialQuestions() {
		next := e.st.ListeningStep + 1
		if next < len(seg.Questions) {
			e.stepListeningQuestion(seg, next)
			return
		}
	}
	e.nextSegmentOrPart()
}

func (e *Engine) advanceSpeaking() {
	seg := e.segment()
	if seg == nil {
		e.advancePart()
		return
	}
	if e.st.Phase == PhasePrep {
		e.enterRecording(seg)
		return
	}
	e.recorder.Stop()
	e.nextSegmentOrPart()
}

// enterPart lands on a new part: previous media is stopped and the timer is
// re-initialized from the unit's configured duration.
func (e *Engine) enterPart(idx int) {
	e.stopMedia()
	if idx >= len(e.section().Parts) {
		e.endOfSection()
		return
	}
	e.st.PartIndex = idx
	e.st.SegmentIndex = 0
	e.st.ListeningStep = MainAudioStep

	sec := e.section()
	p := e.part()
	if sec.UsesSegments() && len(p.Segments) > 0 {
		e.enterSegment(0)
		return
	}

	e.st.Phase = PhaseWorking
	e.st.TimeLeft = p.TimerSeconds
	if p.AudioURL != nil {
		e.play(*p.AudioURL)
	}
}

func (e *Engine) enterSegment(idx int) {
	e.stopMedia()
	e.st.SegmentIndex = idx
	e.st.ListeningStep = MainAudioStep

	seg := e.segment()
	sec := e.section()

	if seg.PrepTimeSeconds > 0 {
		e.st.Phase = PhasePrep
		e.st.TimeLeft = seg.PrepTimeSeconds
		return
	}

	if sec.Type == model.SectionSpeaking {
		e.enterRecording(seg)
		return
	}
	e.enterListeningWorking(seg)
}

func (e *Engine) enterListeningWorking(seg *model.Segment) {
	e.st.Phase = PhaseWorking
	if seg.HasSequentialQuestions() && seg.AudioURL == nil {
		// No main clip to sit through; go straight to the first timed
		// question.
		e.stepListeningQuestion(seg, 0)
		return
	}
	e.st.ListeningStep = MainAudioStep
	e.st.TimeLeft = seg.TimerSeconds
	if seg.AudioURL != nil {
		e.play(*seg.AudioURL)
	}
}

func (e *Engine) stepListeningQuestion(seg *model.Segment, idx int) {
	e.audio.Stop()
	e.st.ListeningStep = idx
	q := seg.Questions[idx]
	if q.TimerSeconds != nil && *q.TimerSeconds > 0 {
		e.st.TimeLeft = *q.TimerSeconds
	} else {
		e.st.TimeLeft = seg.TimerSeconds
	}
	if q.AudioURL != nil {
		e.play(*q.AudioURL)
	}
}

func (e *Engine) enterRecording(seg *model.Segment) {
	e.st.Phase = PhaseRecording
	e.st.TimeLeft = seg.TimerSeconds
	if err := e.recorder.Start(); err != nil {
		// Degraded capture: the candidate keeps going, the response is lost.
		log.Warn().Err(err).Uint("segment_id", seg.ID).Msg("Recorder start failed, continuing without capture")
	}
}

func (e *Engine) nextSegmentOrPart() {
	p := e.part()
	if e.st.SegmentIndex+1 < len(p.Segments) {
		e.enterSegment(e.st.SegmentIndex + 1)
		return
	}
	e.advancePartFromSegments()
}

func (e *Engine) advancePartFromSegments() {
	sec := e.section()
	if e.st.PartIndex+1 < len(sec.Parts) {
		e.enterPart(e.st.PartIndex + 1)
		return
	}
	e.endOfSection()
}

// endOfSection routes past the last part: auto-graded sections get a REVIEW
// screen, Writing/Speaking go straight on.
func (e *Engine) endOfSection() {
	e.stopMedia()
	sec := e.section()
	if sec.AutoGraded() {
		e.st.View = ViewReview
		return
	}
	e.nextSectionOrComplete()
}

func (e *Engine) nextSectionOrComplete() {
	if e.st.SectionIndex+1 < len(e.sections) {
		e.st.SectionIndex++
		e.st.PartIndex = 0
		e.st.SegmentIndex = 0
		e.st.ListeningStep = MainAudioStep
		e.st.Phase = PhaseWorking
		e.st.TimeLeft = 0
		e.st.View = ViewIntro
		return
	}
	e.complete()
}

// complete fires the completion callback exactly once, whether reached by a
// timer expiry or a manual finish.
func (e *Engine) complete() {
	if e.done() {
		return
	}
	e.completed = true
	e.stopMedia()
	e.st.View = ViewComplete
	if e.onComplete != nil {
		e.onComplete(copyMap(e.st.Answers), copyMap(e.st.WritingInputs))
	}
}

func (e *Engine) stopMedia() {
	e.audio.Stop()
	e.recorder.Stop()
}

func (e *Engine) play(url string) {
	if err := e.audio.Play(url); err != nil {
		// Comprehension continues by time alone when audio cannot play.
		log.Warn().Err(err).Str("url", url).Msg("Audio playback failed, timer continues")
	}
}
