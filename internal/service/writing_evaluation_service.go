package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/riteshk28/CELPIP-Practice-sub000/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// WritingEvaluation is the external AI grading result for one writing
// response. A nil evaluation means the service was unavailable and the part
// contributes 0 to its section score.
type WritingEvaluation struct {
	BandScore       float64
	Feedback        string
	Corrections     []string
	CriterionScores map[string]float64
}

type WritingEvaluationService interface {
	EvaluateWriting(ctx context.Context, prompt, response string) (*WritingEvaluation, error)
}

type geminiWritingService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewWritingEvaluationService(cfg *config.Config) (WritingEvaluationService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Writing evaluation will be unavailable.")
		return &geminiWritingService{cfg: cfg, client: nil}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiWritingService{client: model, cfg: cfg}, nil
}

func (s *geminiWritingService) EvaluateWriting(ctx context.Context, prompt, response string) (*WritingEvaluation, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	var b strings.Builder
	b.WriteString("You are an expert CELPIP Writing examiner with deep knowledge of the CELPIP band descriptors (0-12).\n")
	b.WriteString("Evaluate the candidate's response to the task below.\n\n")
	b.WriteString("Task Prompt:\n---\n")
	b.WriteString(prompt)
	b.WriteString("\n---\n\nCandidate's Response:\n---\n")
	b.WriteString(response)
	b.WriteString("\n---\n\n")
	b.WriteString(`Assess content/coherence, vocabulary, readability and task fulfillment.
Format your reply strictly as:
Band: [number from 0 to 12, e.g. 8]
Criteria: content=[0-12]; vocabulary=[0-12]; readability=[0-12]; task=[0-12]
Feedback:
[constructive feedback paragraphs]
Corrections:
- [one correction per line, "original -> improved"]
`)

	resp, err := s.client.GenerateContent(ctx, genai.Text(b.String()))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during writing evaluation")
		return nil, err
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates for writing evaluation")
		return nil, fmt.Errorf("gemini returned no content")
	}

	fullText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}
	if fullText == "" {
		return nil, fmt.Errorf("gemini returned no text content")
	}

	eval, err := parseEvaluation(fullText)
	if err != nil {
		log.Warn().Err(err).Str("raw_response", fullText).Msg("Failed to parse writing evaluation")
		return nil, err
	}
	return eval, nil
}

// parseEvaluation extracts the structured fields from the model's formatted
// reply.
func parseEvaluation(raw string) (*WritingEvaluation, error) {
	bandIdx := strings.Index(raw, "Band:")
	if bandIdx == -1 {
		return nil, fmt.Errorf("response does not contain 'Band:' prefix")
	}
	bandLine := lineAfter(raw, bandIdx+len("Band:"))
	fields := strings.Fields(bandLine)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no band value after 'Band:' prefix")
	}
	band, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("could not parse band value %q: %w", fields[0], err)
	}
	if band < 0 {
		band = 0
	}
	if band > MaxBandScore {
		band = MaxBandScore
	}

	eval := &WritingEvaluation{BandScore: band}

	if idx := strings.Index(raw, "Criteria:"); idx != -1 {
		eval.CriterionScores = parseCriteria(lineAfter(raw, idx+len("Criteria:")))
	}

	feedbackIdx := strings.Index(raw, "Feedback:")
	correctionsIdx := strings.Index(raw, "Corrections:")
	if feedbackIdx != -1 {
		end := len(raw)
		if correctionsIdx > feedbackIdx {
			end = correctionsIdx
		}
		eval.Feedback = strings.TrimSpace(raw[feedbackIdx+len("Feedback:") : end])
	}
	if correctionsIdx != -1 {
		for _, line := range strings.Split(raw[correctionsIdx+len("Corrections:"):], "\n") {
			line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
			if line != "" {
				eval.Corrections = append(eval.Corrections, line)
			}
		}
	}
	return eval, nil
}

func parseCriteria(line string) map[string]float64 {
	scores := map[string]float64{}
	for _, pair := range strings.Split(line, ";") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			continue
		}
		scores[strings.TrimSpace(kv[0])] = val
	}
	if len(scores) == 0 {
		return nil
	}
	return scores
}

func lineAfter(s string, start int) string {
	rest := s[start:]
	if nl := strings.Index(rest, "\n"); nl != -1 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}
