package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tcrowley/dictate-api/internal/api/shared"
	"github.com/tcrowley/dictate-api/internal/domain"
	"github.com/tcrowley/dictate-api/internal/queue"
	"github.com/tcrowley/dictate-api/internal/storage"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, queue.ErrJobNotFound),
		errors.Is(err, storage.ErrPayloadNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, domain.ErrEmptyAudioPath),
		errors.Is(err, domain.ErrTemperatureOutOfRange),
		errors.Is(err, domain.ErrInvalidJobStatus):
		return http.StatusBadRequest

	// Unsupported media
	case errors.Is(err, storage.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType

	// Queue is shutting down
	case errors.Is(err, queue.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, queue.ErrJobNotFound):
		return "Job not found"

	case errors.Is(err, storage.ErrPayloadNotFound):
		return "Audio file not found"

	case errors.Is(err, domain.ErrEmptyAudioPath):
		return "Audio file is required"

	case errors.Is(err, domain.ErrTemperatureOutOfRange):
		return "Temperature must be between 0 and 1"

	case errors.Is(err, domain.ErrInvalidJobStatus):
		return "Invalid job status"

	case errors.Is(err, storage.ErrUnsupportedFormat):
		return "Unsupported audio format"

	case errors.Is(err, queue.ErrQueueClosed):
		return "Service is shutting down"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an internal error to a status code and safe message
// and writes the response. If fallbackMessage is non-empty it overrides the
// mapped message for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallbackMessage != "" && status == http.StatusInternalServerError {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError converts raw validator error strings into a
// user-friendly message without exposing internal struct names.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'SubmitJobRequest.Temperature' Error:Field validation for 'Temperature' failed on the 'lte' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gte":
		return "value too small"
	case "lte":
		return "value too large"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
