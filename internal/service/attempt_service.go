package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type AttemptService interface {
	// CompleteAttempt runs the completion pipeline over an in-memory run:
	// auto-grading, writing evaluation, band derivation, persistence.
	CompleteAttempt(ctx context.Context, userID uint, set *model.PracticeSet, answers, writingInputs map[uint]string) (*model.Attempt, error)
	// SubmitAttempt is the client-delivered variant: the flat maps arrive
	// over HTTP at test completion.
	SubmitAttempt(ctx context.Context, userID uint, req dto.AttemptSubmitDTO) (*dto.AttemptDTO, error)
	GetUserAttempts(userID uint) ([]dto.AttemptDTO, error)
}

type attemptService struct {
	setRepo     repository.PracticeSetRepository
	attemptRepo repository.AttemptRepository
	grading     GradingService
	evaluator   WritingEvaluationService
}

func NewAttemptService(
	setRepo repository.PracticeSetRepository,
	attemptRepo repository.AttemptRepository,
	grading GradingService,
	evaluator WritingEvaluationService,
) AttemptService {
	return &attemptService{
		setRepo:     setRepo,
		attemptRepo: attemptRepo,
		grading:     grading,
		evaluator:   evaluator,
	}
}

func (s *attemptService) CompleteAttempt(ctx context.Context, userID uint, set *model.PracticeSet, answers, writingInputs map[uint]string) (*model.Attempt, error) {
	report := s.grading.Score(set.Sections, answers)
	sectionScores := report.SectionScores

	var feedback []dto.WritingPartFeedbackDTO
	for si := range set.Sections {
		sec := &set.Sections[si]
		switch sec.Type {
		case model.SectionWriting:
			score, partFeedback := s.evaluateWritingSection(ctx, sec, writingInputs)
			sectionScores[sec.ID] = score
			feedback = append(feedback, partFeedback...)
		case model.SectionSpeaking:
			// Spoken responses are not captured server-side; the section gets
			// a placeholder score.
			sectionScores[sec.ID] = 0
		}
	}

	attempt := model.Attempt{
		UserID:        userID,
		PracticeSetID: set.ID,
		SetTitle:      set.Title,
		SubmittedAt:   time.Now(),
		BandScore:     s.grading.BandScore(report.TotalCorrect, report.TotalPossible),
	}
	if err := attempt.SetSectionScores(sectionScores); err != nil {
		return nil, fmt.Errorf("failed to encode section scores: %w", err)
	}
	if len(feedback) > 0 {
		raw, err := json.Marshal(feedback)
		if err != nil {
			return nil, fmt.Errorf("failed to encode writing feedback: %w", err)
		}
		attempt.WritingFeedback = datatypes.JSON(raw)
	}

	if err := s.attemptRepo.Create(&attempt); err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("setID", set.ID).Msg("Failed to persist attempt")
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	return &attempt, nil
}

// evaluateWritingSection evaluates each writing part sequentially and
// averages the band scores across parts. An evaluation outage never blocks
// submission: the failed part contributes 0 and is flagged unavailable.
func (s *attemptService) evaluateWritingSection(ctx context.Context, sec *model.Section, writingInputs map[uint]string) (float64, []dto.WritingPartFeedbackDTO) {
	if len(sec.Parts) == 0 {
		return 0, nil
	}

	var total float64
	feedback := make([]dto.WritingPartFeedbackDTO, 0, len(sec.Parts))
	for pi := range sec.Parts {
		part := &sec.Parts[pi]
		partFeedback := dto.WritingPartFeedbackDTO{PartID: part.ID}

		response := writingInputs[part.ID]
		if strings.TrimSpace(response) == "" {
			partFeedback.Unavailable = true
			partFeedback.Feedback = "No response submitted."
			feedback = append(feedback, partFeedback)
			continue
		}

		prompt := part.Instructions
		if part.ContentText != "" {
			prompt = prompt + "\n\n" + part.ContentText
		}
		eval, err := s.evaluator.EvaluateWriting(ctx, prompt, response)
		if err != nil || eval == nil {
			log.Warn().Err(err).Uint("partID", part.ID).Msg("Writing evaluation unavailable, part scores 0")
			partFeedback.Unavailable = true
			feedback = append(feedback, partFeedback)
			continue
		}
		partFeedback.BandScore = eval.BandScore
		partFeedback.Feedback = eval.Feedback
		partFeedback.Corrections = eval.Corrections
		partFeedback.CriterionScores = eval.CriterionScores
		feedback = append(feedback, partFeedback)
		total += eval.BandScore
	}
	return total / float64(len(sec.Parts)), feedback
}

func (s *attemptService) SubmitAttempt(ctx context.Context, userID uint, req dto.AttemptSubmitDTO) (*dto.AttemptDTO, error) {
	set, err := s.setRepo.FindByIDWithTree(req.PracticeSetID)
	if err != nil {
		log.Error().Err(err).Uint("setID", req.PracticeSetID).Msg("SubmitAttempt: practice set not found")
		return nil, fmt.Errorf("practice set not found with ID %d: %w", req.PracticeSetID, err)
	}

	attempt, err := s.CompleteAttempt(ctx, userID, set, req.Answers, req.WritingInputs)
	if err != nil {
		return nil, err
	}
	out := attemptToDTO(attempt)
	return &out, nil
}

func (s *attemptService) GetUserAttempts(userID uint) ([]dto.AttemptDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to fetch attempts")
		return nil, fmt.Errorf("error fetching attempts for user %d: %w", userID, err)
	}
	dtos := make([]dto.AttemptDTO, 0, len(attempts))
	for i := range attempts {
		dtos = append(dtos, attemptToDTO(&attempts[i]))
	}
	return dtos, nil
}
