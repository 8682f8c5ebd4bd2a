package service

import (
	"errors"
	"fmt"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrSetNotAvailable means the set does not exist or is not published.
// Candidates get the same answer either way.
var ErrSetNotAvailable = errors.New("practice set not available")

// CatalogService is the candidate-facing view of practice sets: published
// sets only.
type CatalogService interface {
	GetPublishedSets() ([]dto.PracticeSetSummaryDTO, error)
	GetSetDetails(setID uint) (*dto.PracticeSetDTO, error)
}

type catalogService struct {
	setRepo repository.PracticeSetRepository
}

func NewCatalogService(setRepo repository.PracticeSetRepository) CatalogService {
	return &catalogService{setRepo: setRepo}
}

func (s *catalogService) GetPublishedSets() ([]dto.PracticeSetSummaryDTO, error) {
	rows, err := s.setRepo.FindAllWithSectionCount(true)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list published practice sets")
		return nil, fmt.Errorf("error fetching practice sets: %w", err)
	}
	summaries := make([]dto.PracticeSetSummaryDTO, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dto.PracticeSetSummaryDTO{
			ID:           row.PracticeSet.ID,
			Title:        row.PracticeSet.Title,
			Description:  row.PracticeSet.Description,
			IsPublished:  row.PracticeSet.IsPublished,
			SectionCount: row.SectionCount,
			CreatedAt:    row.PracticeSet.CreatedAt,
		})
	}
	return summaries, nil
}

func (s *catalogService) GetSetDetails(setID uint) (*dto.PracticeSetDTO, error) {
	set, err := s.setRepo.FindByIDWithTree(setID)
	if err != nil {
		log.Error().Err(err).Uint("setID", setID).Msg("Failed to get practice set details")
		return nil, fmt.Errorf("practice set %d: %w", setID, ErrSetNotAvailable)
	}
	if !set.IsPublished {
		return nil, fmt.Errorf("practice set %d: %w", setID, ErrSetNotAvailable)
	}
	out := setToDTO(set)
	return &out, nil
}
