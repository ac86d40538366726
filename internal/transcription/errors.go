package transcription

import "errors"

// Common errors returned by backend adapters
var (
	// ErrBackend is wrapped by all adapter failures so the executor can
	// classify transcription and summarization errors uniformly
	ErrBackend = errors.New("transcription backend error")

	// ErrEmptyText is returned when summarization is requested for empty text
	ErrEmptyText = errors.New("text to summarize cannot be empty")

	// ErrInvalidConfig is returned when an adapter configuration is invalid
	ErrInvalidConfig = errors.New("invalid backend configuration")
)
