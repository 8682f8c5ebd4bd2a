package service

import (
	"fmt"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/delivery"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/repository"
	"github.com/rs/zerolog/log"
)

type AdminSetService interface {
	SaveSet(req dto.PracticeSetSaveDTO) (*dto.PracticeSetSaveResponse, error)
	DeleteSet(id uint) error
	GetAllSets() ([]dto.PracticeSetSummaryDTO, error)
}

type adminSetService struct {
	setRepo repository.PracticeSetRepository
}

func NewAdminSetService(setRepo repository.PracticeSetRepository) AdminSetService {
	return &adminSetService{setRepo: setRepo}
}

// SaveSet validates and upserts a full practice-set tree. Structural
// violations are hard errors; cloze placeholder mismatches come back as
// warnings so authoring can proceed.
func (s *adminSetService) SaveSet(req dto.PracticeSetSaveDTO) (*dto.PracticeSetSaveResponse, error) {
	set, warnings, err := buildSetModel(req)
	if err != nil {
		return nil, err
	}

	if err := s.setRepo.Upsert(set); err != nil {
		log.Error().Err(err).Uint("setID", req.ID).Msg("Failed to save practice set")
		return nil, fmt.Errorf("database error saving practice set: %w", err)
	}

	saved, err := s.setRepo.FindByIDWithTree(set.ID)
	if err != nil {
		log.Error().Err(err).Uint("setID", set.ID).Msg("Failed to reload saved practice set")
		return &dto.PracticeSetSaveResponse{Set: setToDTO(set), Warnings: warnings}, nil
	}
	return &dto.PracticeSetSaveResponse{Set: setToDTO(saved), Warnings: warnings}, nil
}

func (s *adminSetService) DeleteSet(id uint) error {
	if err := s.setRepo.Delete(id); err != nil {
		log.Error().Err(err).Uint("setID", id).Msg("Failed to delete practice set")
		return fmt.Errorf("database error deleting practice set: %w", err)
	}
	return nil
}

func (s *adminSetService) GetAllSets() ([]dto.PracticeSetSummaryDTO, error) {
	rows, err := s.setRepo.FindAllWithSectionCount(false)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list practice sets")
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

// buildSetModel maps the authoring DTO onto models, enforcing the
// section-shape and answer-key invariants and collecting cloze warnings.
func buildSetModel(req dto.PracticeSetSaveDTO) (*model.PracticeSet, []string, error) {
	var warnings []string
	set := model.PracticeSet{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		IsPublished: req.IsPublished,
	}

	for _, secDTO := range req.Sections {
		sec := model.Section{
			Type:       secDTO.Type,
			Title:      secDTO.Title,
			OrderInSet: secDTO.OrderInSet,
		}
		usesSegments := sec.UsesSegments()

		for _, partDTO := range secDTO.Parts {
			if usesSegments && len(partDTO.Questions) > 0 {
				return nil, nil, fmt.Errorf("section %q is %s: parts must carry segments, not direct questions", secDTO.Title, secDTO.Type)
			}
			if !usesSegments && len(partDTO.Segments) > 0 {
				return nil, nil, fmt.Errorf("section %q is %s: parts must carry direct questions, not segments", secDTO.Title, secDTO.Type)
			}

			part := model.Part{
				OrderInSection: partDTO.OrderInSection,
				Instructions:   partDTO.Instructions,
				ContentText:    partDTO.ContentText,
				ImageURL:       partDTO.ImageURL,
				AudioURL:       partDTO.AudioURL,
				TimerSeconds:   partDTO.TimerSeconds,
			}

			directQs, err := buildQuestions(partDTO.Questions, secDTO.Title)
			if err != nil {
				return nil, nil, err
			}
			part.Questions = directQs
			warnings = append(warnings, clozeWarnings(partDTO.ContentText, passageTexts(partDTO.Questions), clozeIDs(partDTO.Questions), secDTO.Title)...)

			for _, segDTO := range partDTO.Segments {
				segQs, err := buildQuestions(segDTO.Questions, secDTO.Title)
				if err != nil {
					return nil, nil, err
				}
				warnings = append(warnings, clozeWarnings(segDTO.ContentText, passageTexts(segDTO.Questions), clozeIDs(segDTO.Questions), secDTO.Title)...)
				part.Segments = append(part.Segments, model.Segment{
					OrderInPart:     segDTO.OrderInPart,
					ContentText:     segDTO.ContentText,
					AudioURL:        segDTO.AudioURL,
					PrepTimeSeconds: segDTO.PrepTimeSeconds,
					TimerSeconds:    segDTO.TimerSeconds,
					Questions:       segQs,
				})
			}
			sec.Parts = append(sec.Parts, part)
		}
		set.Sections = append(set.Sections, sec)
	}
	return &set, warnings, nil
}

func buildQuestions(dtos []dto.QuestionSaveDTO, sectionTitle string) ([]model.Question, error) {
	var out []model.Question
	for _, qDTO := range dtos {
		q := model.Question{
			Type:          qDTO.Type,
			Text:          qDTO.Text,
			CorrectAnswer: qDTO.CorrectAnswer,
			Weight:        qDTO.Weight,
			AudioURL:      qDTO.AudioURL,
			TimerSeconds:  qDTO.TimerSeconds,
			OrderIndex:    qDTO.OrderIndex,
		}
		if q.Weight < 1 {
			q.Weight = 1
		}
		if err := q.SetOptions(qDTO.Options); err != nil {
			return nil, fmt.Errorf("invalid options for question %q: %w", qDTO.Text, err)
		}
		if qDTO.CorrectAnswer != nil {
			found := false
			for _, opt := range qDTO.Options {
				if opt == *qDTO.CorrectAnswer {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("section %q: correct answer %q for question %q is not one of its options", sectionTitle, *qDTO.CorrectAnswer, qDTO.Text)
			}
		}
		out = append(out, q)
	}
	return out, nil
}

func clozeIDs(qs []dto.QuestionSaveDTO) map[string]bool {
	ids := map[string]bool{}
	for _, q := range qs {
		if q.Type == model.QuestionCloze {
			ids[q.Text] = true
		}
	}
	return ids
}

func passageTexts(qs []dto.QuestionSaveDTO) []string {
	var texts []string
	for _, q := range qs {
		if q.Type == model.QuestionPassage {
			texts = append(texts, q.Text)
		}
	}
	return texts
}

// clozeWarnings cross-checks [[id]] tokens against CLOZE placeholder ids
// within one question scope (a part's direct list or one segment).
func clozeWarnings(contentText string, passages []string, cloze map[string]bool, sectionTitle string) []string {
	var warnings []string
	referenced := map[string]bool{}
	for _, id := range delivery.ReferencedPlaceholderIDs(contentText) {
		referenced[id] = true
	}
	for _, text := range passages {
		for _, id := range delivery.ReferencedPlaceholderIDs(text) {
			referenced[id] = true
		}
	}
	for id := range referenced {
		if !cloze[id] {
			warnings = append(warnings, fmt.Sprintf("section %q: placeholder [[%s]] has no matching CLOZE question and will render broken", sectionTitle, id))
		}
	}
	for id := range cloze {
		if !referenced[id] {
			warnings = append(warnings, fmt.Sprintf("section %q: CLOZE question %q is never referenced by a [[%s]] token", sectionTitle, id, id))
		}
	}
	return warnings
}
