package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Queue   QueueConfig   `mapstructure:"queue" validate:"required"`
	Whisper WhisperConfig `mapstructure:"whisper" validate:"required"`
	Gemini  GeminiConfig  `mapstructure:"gemini" validate:"required"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// QueueConfig contains the job queue settings.
type QueueConfig struct {
	// MaxConcurrent bounds the number of simultaneously executing jobs.
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"required,gt=0"`

	// DefaultLanguage is applied to submissions that omit a language code.
	DefaultLanguage string `mapstructure:"default_language" validate:"required"`

	// DefaultTemperature is applied to submissions that omit a temperature.
	DefaultTemperature float64 `mapstructure:"default_temperature" validate:"gte=0,lte=1"`

	// SupportedFormats is the upload allow-list of audio file extensions.
	SupportedFormats []string `mapstructure:"supported_formats" validate:"required,min=1"`

	// EvictAfter removes terminal jobs from the in-memory index after this
	// duration. Zero disables eviction and keeps jobs for the process
	// lifetime.
	EvictAfter time.Duration `mapstructure:"evict_after"`

	// UploadDir is where audio payloads are stored between submission and
	// cleanup. Empty selects a directory under the OS temp dir.
	UploadDir string `mapstructure:"upload_dir"`
}

// WhisperConfig contains the speech-to-text backend settings.
type WhisperConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required"`
	Model  string `mapstructure:"model" validate:"required"`
}

// GeminiConfig contains the summarization backend settings.
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key" validate:"required"`
	Model  string `mapstructure:"model" validate:"required"`
}
