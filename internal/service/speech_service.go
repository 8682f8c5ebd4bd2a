package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/riteshk28/CELPIP-Practice-sub000/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// SpeechService turns an authored listening script into playable audio.
// Authoring-time only; delivery plays stored audio URLs.
type SpeechService interface {
	GenerateSpeech(ctx context.Context, script string) (audioData []byte, mimeType string, err error)
}

type geminiSpeechService struct {
	client *genai.GenerativeModel
}

func NewSpeechService(cfg *config.Config) (SpeechService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Speech generation will be unavailable.")
		return &geminiSpeechService{client: nil}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-2.5-flash-preview-tts")
	return &geminiSpeechService{client: model}, nil
}

func (s *geminiSpeechService) GenerateSpeech(ctx context.Context, script string) ([]byte, string, error) {
	if s.client == nil {
		return nil, "", fmt.Errorf("gemini client not initialized")
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(script))
	if err != nil {
		log.Error().Err(err).Msg("Gemini API error during speech generation")
		return nil, "", err
	}
	if len(resp.Candidates) == 0 {
		return nil, "", fmt.Errorf("gemini returned no candidates")
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
			return blob.Data, blob.MIMEType, nil
		}
	}
	return nil, "", fmt.Errorf("gemini returned no audio content")
}
