package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/delivery"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/repository"
	"github.com/rs/zerolog/log"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionService hosts server-driven delivery sessions. One background
// ticker is the single logical timer: it ticks every live session once per
// second. A per-session mutex keeps transitions strictly sequential, so a
// navigation event is never processed while a timer-driven transition is
// still resolving.
type SessionService interface {
	Start(userID, setID uint) (*dto.SessionSnapshotDTO, error)
	Snapshot(sessionID string, userID uint) (*dto.SessionSnapshotDTO, error)
	Dispatch(sessionID string, userID uint, event dto.SessionEventRequest) (*dto.SessionSnapshotDTO, error)
	Exit(sessionID string, userID uint) error
	Close()
}

type deliverySession struct {
	id     string
	userID uint
	set    *model.PracticeSet

	mu        sync.Mutex
	engine    *delivery.Engine
	analyzing bool
	attempt   *model.Attempt
}

type sessionService struct {
	setRepo    repository.PracticeSetRepository
	attemptSvc AttemptService
	grading    GradingService

	mu       sync.RWMutex
	sessions map[string]*deliverySession
	stop     chan struct{}
	stopOnce sync.Once
}

func NewSessionService(
	setRepo repository.PracticeSetRepository,
	attemptSvc AttemptService,
	grading GradingService,
) SessionService {
	s := &sessionService{
		setRepo:    setRepo,
		attemptSvc: attemptSvc,
		grading:    grading,
		sessions:   map[string]*deliverySession{},
		stop:       make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *sessionService) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.tickAll()
		}
	}
}

func (s *sessionService) tickAll() {
	s.mu.RLock()
	live := make([]*deliverySession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		live = append(live, sess)
	}
	s.mu.RUnlock()

	for _, sess := range live {
		sess.mu.Lock()
		sess.engine.Tick()
		sess.mu.Unlock()
	}
}

func (s *sessionService) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *sessionService) Start(userID, setID uint) (*dto.SessionSnapshotDTO, error) {
	set, err := s.setRepo.FindByIDWithTree(setID)
	if err != nil {
		log.Error().Err(err).Uint("setID", setID).Msg("Start session: practice set not found")
		return nil, fmt.Errorf("practice set %d: %w", setID, ErrSetNotAvailable)
	}
	if !set.IsPublished {
		return nil, fmt.Errorf("practice set %d: %w", setID, ErrSetNotAvailable)
	}

	sess := &deliverySession{
		id:     uuid.NewString(),
		userID: userID,
		set:    set,
	}
	sess.engine = delivery.NewEngine(set.Sections,
		delivery.WithCompletionFunc(func(answers, writingInputs map[uint]string) {
			// Fires under the session lock during the final transition;
			// grading and persistence run off the tick path while the UI
			// shows the analyzing state.
			sess.analyzing = true
			go s.finalize(sess, answers, writingInputs)
		}),
	)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	log.Info().Str("sessionID", sess.id).Uint("userID", userID).Uint("setID", setID).Msg("Delivery session started")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.snapshotLocked(sess), nil
}

func (s *sessionService) finalize(sess *deliverySession, answers, writingInputs map[uint]string) {
	attempt, err := s.attemptSvc.CompleteAttempt(context.Background(), sess.userID, sess.set, answers, writingInputs)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.analyzing = false
	if err != nil {
		log.Error().Err(err).Str("sessionID", sess.id).Msg("Failed to finalize delivery session")
		return
	}
	sess.attempt = attempt
}

func (s *sessionService) get(sessionID string, userID uint) (*deliverySession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || sess.userID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *sessionService) Snapshot(sessionID string, userID uint) (*dto.SessionSnapshotDTO, error) {
	sess, err := s.get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	out := s.snapshotLocked(sess)
	sess.mu.Unlock()
	s.evictIfFinal(sess, out)
	return out, nil
}

// evictIfFinal drops a finished session once the caller has received the
// snapshot carrying its persisted attempt; the attempt record itself lives
// in the attempts store. Keeps the session table from growing without bound.
func (s *sessionService) evictIfFinal(sess *deliverySession, snap *dto.SessionSnapshotDTO) {
	if snap.Attempt == nil {
		return
	}
	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	log.Info().Str("sessionID", sess.id).Msg("Delivery session finished and evicted")
}

func (s *sessionService) Dispatch(sessionID string, userID uint, event dto.SessionEventRequest) (*dto.SessionSnapshotDTO, error) {
	sess, err := s.get(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	switch event.Type {
	case dto.EventStartSection:
		sess.engine.StartSection()
	case dto.EventNext, dto.EventFinish:
		sess.engine.Next()
	case dto.EventAnswer:
		sess.engine.Answer(event.QuestionID, event.Value)
	case dto.EventWriteInput:
		sess.engine.WriteInput(event.PartID, event.Text)
	case dto.EventReviewContinue:
		sess.engine.ReviewContinue()
	default:
		sess.mu.Unlock()
		return nil, fmt.Errorf("unknown session event type %q", event.Type)
	}
	out := s.snapshotLocked(sess)
	sess.mu.Unlock()
	s.evictIfFinal(sess, out)
	return out, nil
}

// Exit aborts the session: media is stopped synchronously and no partial
// attempt is persisted.
func (s *sessionService) Exit(sessionID string, userID uint) error {
	sess, err := s.get(sessionID, userID)
	if err != nil {
		return err
	}
	sess.mu.Lock()
	sess.engine.Exit()
	sess.mu.Unlock()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	log.Info().Str("sessionID", sessionID).Msg("Delivery session exited")
	return nil
}

func (s *sessionService) snapshotLocked(sess *deliverySession) *dto.SessionSnapshotDTO {
	snap := sess.engine.Snapshot()
	out := &dto.SessionSnapshotDTO{
		SessionID: sess.id,
		SetID:     sess.set.ID,
		SetTitle:  sess.set.Title,
		Snapshot:  snap,
		Analyzing: sess.analyzing,
	}
	if snap.View == delivery.ViewReview {
		report := s.grading.Score(sess.set.Sections, sess.engine.State().Answers)
		out.Review = &dto.ReviewSummaryDTO{
			SectionScore:  report.SectionScores[snap.SectionID],
			TotalCorrect:  report.TotalCorrect,
			TotalPossible: report.TotalPossible,
		}
	}
	if sess.attempt != nil {
		attemptDTO := attemptToDTO(sess.attempt)
		out.Attempt = &attemptDTO
	}
	return out
}
