package delivery

// ViewState is the top-level screen the candidate is on.
type ViewState string

const (
	ViewIntro    ViewState = "INTRO"
	ViewTest     ViewState = "TEST"
	ViewReview   ViewState = "REVIEW"
	ViewComplete ViewState = "COMPLETE"
)

// Phase is the sub-state within a segment-bearing section. Reading/Writing
// parts are always effectively WORKING.
type Phase string

const (
	PhasePrep      Phase = "PREP"
	PhaseWorking   Phase = "WORKING"
	PhaseRecording Phase = "RECORDING"
)

// MainAudioStep is the listeningStep sentinel for "segment audio is playing,
// no individual question is up yet".
const MainAudioStep = -1

// State is the single mutable state object owned by the Engine. The
// presentation side only ever sees copies of it.
type State struct {
	SectionIndex  int
	PartIndex     int
	SegmentIndex  int
	View          ViewState
	Phase         Phase
	ListeningStep int
	TimeLeft      int
	Answers       map[uint]string
	WritingInputs map[uint]string
}

func newState() State {
	return State{
		View:          ViewIntro,
		Phase:         PhaseWorking,
		ListeningStep: MainAudioStep,
		Answers:       map[uint]string{},
		WritingInputs: map[uint]string{},
	}
}
