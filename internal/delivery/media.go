package delivery

// AudioPlayer plays the audio attached to a part, segment or question.
// Playback failures must not block phase progression; the engine logs them
// and lets the timer carry the unit.
type AudioPlayer interface {
	Play(url string) error
	Stop()
}

// Recorder captures the candidate's spoken response. A failed Start leaves
// the engine in a degraded no-op capture state rather than blocking the test.
type Recorder interface {
	Start() error
	Stop()
}

// NoopAudioPlayer is the headless playback used by server-driven sessions and
// tests.
type NoopAudioPlayer struct{}

func (NoopAudioPlayer) Play(string) error { return nil }
func (NoopAudioPlayer) Stop()             {}

// NoopRecorder is the headless capture used by server-driven sessions and
// tests.
type NoopRecorder struct{}

func (NoopRecorder) Start() error { return nil }
func (NoopRecorder) Stop()        {}
