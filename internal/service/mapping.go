package service

import (
	"encoding/json"

	"github.com/jinzhu/copier"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/dto"
	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
	"github.com/rs/zerolog/log"
)

// Model -> DTO mapping. copier handles the flat fields; JSON columns are
// decoded by hand.

func setToDTO(set *model.PracticeSet) dto.PracticeSetDTO {
	var out dto.PracticeSetDTO
	if err := copier.Copy(&out, set); err != nil {
		log.Error().Err(err).Uint("setID", set.ID).Msg("Failed to copy practice set to DTO")
	}
	out.Sections = make([]dto.SectionDTO, 0, len(set.Sections))
	for i := range set.Sections {
		out.Sections = append(out.Sections, sectionToDTO(&set.Sections[i]))
	}
	return out
}

func sectionToDTO(sec *model.Section) dto.SectionDTO {
	var out dto.SectionDTO
	copier.Copy(&out, sec)
	out.Parts = make([]dto.PartDTO, 0, len(sec.Parts))
	for i := range sec.Parts {
		out.Parts = append(out.Parts, partToDTO(&sec.Parts[i]))
	}
	return out
}

func partToDTO(part *model.Part) dto.PartDTO {
	var out dto.PartDTO
	copier.Copy(&out, part)
	out.Questions = questionsToDTO(part.DirectQuestions())
	out.Segments = make([]dto.SegmentDTO, 0, len(part.Segments))
	for i := range part.Segments {
		var segDTO dto.SegmentDTO
		copier.Copy(&segDTO, &part.Segments[i])
		segDTO.Questions = questionsToDTO(part.Segments[i].Questions)
		out.Segments = append(out.Segments, segDTO)
	}
	return out
}

func questionsToDTO(qs []model.Question) []dto.QuestionDTO {
	out := make([]dto.QuestionDTO, 0, len(qs))
	for i := range qs {
		var qDTO dto.QuestionDTO
		copier.Copy(&qDTO, &qs[i])
		qDTO.Options = qs[i].OptionList()
		out = append(out, qDTO)
	}
	return out
}

func attemptToDTO(attempt *model.Attempt) dto.AttemptDTO {
	var out dto.AttemptDTO
	copier.Copy(&out, attempt)
	out.SectionScores = attempt.SectionScoreMap()
	if len(attempt.WritingFeedback) > 0 {
		var feedback []dto.WritingPartFeedbackDTO
		if err := json.Unmarshal(attempt.WritingFeedback, &feedback); err != nil {
			log.Warn().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to decode writing feedback column")
		} else {
			out.WritingFeedback = feedback
		}
	}
	return out
}
