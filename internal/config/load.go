package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// configKeys lists every recognized key so environment variables bind even
// for keys that have no default and appear in no config file.
var configKeys = []string{
	"server.port",
	"server.log_level",
	"queue.max_concurrent",
	"queue.default_language",
	"queue.default_temperature",
	"queue.supported_formats",
	"queue.evict_after",
	"queue.upload_dir",
	"whisper.api_key",
	"whisper.model",
	"gemini.api_key",
	"gemini.model",
}

// Load reads configuration from environment variables (DICTATE_ prefix) and
// an optional config.yaml in the working directory. Environment variables
// take precedence. Returns a validated Config or an error.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("DICTATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment key %q: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("queue.max_concurrent", 3)
	v.SetDefault("queue.default_language", "en")
	v.SetDefault("queue.default_temperature", 0.0)
	v.SetDefault("queue.supported_formats", []string{"mp3", "wav", "m4a", "ogg", "flac", "webm"})
	v.SetDefault("queue.evict_after", 0)
	v.SetDefault("queue.upload_dir", "")
	v.SetDefault("whisper.model", "whisper-1")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
}
