package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tcrowley/dictate-api/internal/config"
	"github.com/tcrowley/dictate-api/internal/transcription"
	"google.golang.org/genai"
)

// summaryInstruction is the fixed prompt prefix for the summarization stage.
const summaryInstruction = "Produce a 2-4 sentence summary of the following transcript:\n\n"

// summaryTemperature is fixed and distinct from the per-job transcription
// temperature.
const summaryTemperature float32 = 0.3

// Summarizer implements the transcription.Summarizer interface using
// Google's Gemini API to summarize transcripts.
type Summarizer struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

// NewSummarizer creates a Summarizer from the gemini configuration.
func NewSummarizer(ctx context.Context, cfg config.GeminiConfig, logger *slog.Logger) (*Summarizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", transcription.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: gemini model cannot be empty", transcription.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", transcription.ErrInvalidConfig, err)
	}

	return &Summarizer{
		client: client,
		model:  cfg.Model,
		logger: logger.With("component", "gemini_summarizer"),
	}, nil
}

// Summarize produces a short summary of the transcript text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", transcription.ErrEmptyText
	}

	s.logger.DebugContext(ctx, "calling summarization API",
		"model", s.model,
		"transcript_length", len(text))

	temperature := summaryTemperature
	resp, err := s.client.Models.GenerateContent(ctx, s.model,
		genai.Text(summaryInstruction+text),
		&genai.GenerateContentConfig{Temperature: &temperature},
	)
	if err != nil {
		return "", fmt.Errorf("%w: summarization API call failed: %v", transcription.ErrBackend, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", transcription.ErrBackend)
	}

	summary := resp.Text()
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary in response", transcription.ErrBackend)
	}

	return summary, nil
}

// Ensure Summarizer implements transcription.Summarizer
var _ transcription.Summarizer = (*Summarizer)(nil)
