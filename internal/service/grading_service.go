package service

import (
	"math"

	"github.com/riteshk28/CELPIP-Practice-sub000/internal/model"
)

// MaxBandScore is the top of the derived 0-12 summary scale. The formula is
// a rough approximation of CELPIP band levels, kept verbatim for
// compatibility; it is not a certified scoring method.
const MaxBandScore = 12

// ScoreReport is the outcome of auto-grading a content tree against a flat
// answer map.
type ScoreReport struct {
	SectionScores map[uint]float64
	TotalCorrect  int
	TotalPossible int
}

type GradingService interface {
	Score(sections []model.Section, answers map[uint]string) ScoreReport
	BandScore(totalCorrect, totalPossible int) int
}

type gradingService struct{}

func NewGradingService() GradingService {
	return &gradingService{}
}

// Score walks every READING/LISTENING part's direct questions plus every
// segment's questions. MCQ and CLOZE enter the weighted totals; PASSAGE never
// does. Matching is exact string equality, no normalization; a missing answer
// is simply incorrect.
func (s *gradingService) Score(sections []model.Section, answers map[uint]string) ScoreReport {
	report := ScoreReport{SectionScores: map[uint]float64{}}

	for si := range sections {
		sec := &sections[si]
		if !sec.AutoGraded() {
			continue
		}
		report.SectionScores[sec.ID] = 0
		for pi := range sec.Parts {
			part := &sec.Parts[pi]
			for _, q := range part.DirectQuestions() {
				s.gradeQuestion(&q, sec.ID, answers, &report)
			}
			for gi := range part.Segments {
				for _, q := range part.Segments[gi].Questions {
					s.gradeQuestion(&q, sec.ID, answers, &report)
				}
			}
		}
	}
	return report
}

func (s *gradingService) gradeQuestion(q *model.Question, sectionID uint, answers map[uint]string, report *ScoreReport) {
	if !q.Gradable() {
		return
	}
	weight := q.Weight
	if weight < 1 {
		weight = 1
	}
	report.TotalPossible += weight
	if q.CorrectAnswer == nil {
		// No key authored: the question counts toward the total but can
		// never be correct.
		return
	}
	if submitted, ok := answers[q.ID]; ok && submitted == *q.CorrectAnswer {
		report.TotalCorrect += weight
		report.SectionScores[sectionID] += float64(weight)
	}
}

// BandScore maps the weighted ratio onto the 0-12 band scale:
// clamp(round(correct/possible*12), 0, 12). Zero possible yields band 0.
func (s *gradingService) BandScore(totalCorrect, totalPossible int) int {
	if totalPossible <= 0 {
		return 0
	}
	band := int(math.Round(float64(totalCorrect) / float64(totalPossible) * MaxBandScore))
	if band < 0 {
		return 0
	}
	if band > MaxBandScore {
		return MaxBandScore
	}
	return band
}
