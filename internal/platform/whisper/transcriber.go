package whisper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/tcrowley/dictate-api/internal/config"
	"github.com/tcrowley/dictate-api/internal/transcription"
)

// Transcriber calls the OpenAI audio transcription endpoint for one stored
// audio payload at a time.
type Transcriber struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

// NewTranscriber creates a Transcriber from the whisper configuration.
func NewTranscriber(cfg config.WhisperConfig, logger *slog.Logger) (*Transcriber, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: whisper API key cannot be empty", transcription.ErrInvalidConfig)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: whisper model cannot be empty", transcription.ErrInvalidConfig)
	}

	return &Transcriber{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
		logger: logger.With("component", "whisper_transcriber"),
	}, nil
}

// Transcribe converts the audio file at audioPath into text. The call
// blocks until the API responds; cancellation is observed through ctx.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath, language string, temperature float64) (*transcription.Transcript, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open audio payload: %v", transcription.ErrBackend, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			t.logger.Warn("failed to close audio payload", "path", audioPath, "error", closeErr)
		}
	}()

	t.logger.DebugContext(ctx, "calling transcription API",
		"model", t.model,
		"language", language,
		"temperature", temperature)

	params := openai.AudioTranscriptionNewParams{
		File:  f,
		Model: openai.AudioModel(t.model),
	}
	if language != "" {
		params.Language = openai.String(language)
	}
	if temperature > 0 {
		params.Temperature = openai.Float(temperature)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("%w: transcription API returned status %d: %v",
				transcription.ErrBackend, apiErr.StatusCode, err)
		}
		return nil, fmt.Errorf("%w: transcription API call failed: %v", transcription.ErrBackend, err)
	}

	return &transcription.Transcript{
		Text: resp.Text,
		// The JSON response format does not report audio duration or a
		// detected language; record the requested language.
		Duration: 0,
		Language: language,
	}, nil
}

// Ensure Transcriber implements transcription.Transcriber
var _ transcription.Transcriber = (*Transcriber)(nil)
