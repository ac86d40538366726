// Package main implements the entry point for the dictate-api server,
// which accepts audio uploads and runs them through a bounded-concurrency
// transcription and summarization pipeline.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/tcrowley/dictate-api/internal/config"
	"github.com/tcrowley/dictate-api/internal/platform/logger"
)

// main is the entry point for the dictate-api server.
// It loads configuration, sets up logging, wires the transcription queue
// and its backends, and starts the HTTP server.
func main() {
	// A .env file is optional; real deployments set environment variables.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	ctx := context.Background()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to wire application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
// Returns the loaded config, the root logger, and any initialization error.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"max_concurrent", cfg.Queue.MaxConcurrent,
		"default_language", cfg.Queue.DefaultLanguage)

	return cfg, appLogger, nil
}
