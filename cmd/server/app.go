package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tcrowley/dictate-api/internal/config"
	"github.com/tcrowley/dictate-api/internal/events"
	"github.com/tcrowley/dictate-api/internal/metrics"
	"github.com/tcrowley/dictate-api/internal/platform/gemini"
	"github.com/tcrowley/dictate-api/internal/platform/whisper"
	"github.com/tcrowley/dictate-api/internal/queue"
	"github.com/tcrowley/dictate-api/internal/storage"
)

// application holds the wired components shared across the server's
// lifetime. It is assembled once at startup by newApplication.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	store    *storage.AudioStore
	bus      *events.Bus
	queue    *queue.Queue
	registry *prometheus.Registry
}

// newApplication wires the payload store, the transcription and
// summarization backends, metrics, and the job queue.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	uploadDir := cfg.Queue.UploadDir
	if uploadDir == "" {
		uploadDir = filepath.Join(os.TempDir(), "dictate-uploads")
	}

	store, err := storage.NewAudioStore(uploadDir, cfg.Queue.SupportedFormats)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio store: %w", err)
	}

	transcriber, err := whisper.NewTranscriber(cfg.Whisper, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transcriber: %w", err)
	}

	summarizer, err := gemini.NewSummarizer(ctx, cfg.Gemini, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheusRecorder(registry)

	bus := events.NewBus(logger)

	queueCfg := queue.Config{
		MaxConcurrent:      cfg.Queue.MaxConcurrent,
		DefaultLanguage:    cfg.Queue.DefaultLanguage,
		DefaultTemperature: cfg.Queue.DefaultTemperature,
		EvictAfter:         cfg.Queue.EvictAfter,
	}

	jobQueue, err := queue.New(queueCfg, transcriber, summarizer, store, bus, recorder, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create job queue: %w", err)
	}

	return &application{
		config:   cfg,
		logger:   logger,
		store:    store,
		bus:      bus,
		queue:    jobQueue,
		registry: registry,
	}, nil
}

// Run starts the job queue and the HTTP server, blocking until shutdown.
func (app *application) Run(ctx context.Context) error {
	app.queue.Start()

	router := app.setupRouter()
	return app.startHTTPServer(ctx, router)
}

// cleanup stops background components. Called after the HTTP server has
// drained so no new jobs arrive during shutdown.
func (app *application) cleanup() {
	app.logger.Info("Stopping job queue...")
	app.queue.Stop()
}
