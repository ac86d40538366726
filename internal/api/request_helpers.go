package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// errMissingPathParam is returned when a required path parameter is absent.
var errMissingPathParam = errors.New("missing path parameter")

// errInvalidField builds a client-facing message for a malformed form field.
func errInvalidField(field string) error {
	return fmt.Errorf("invalid value for field %q", field)
}

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
//
// Returns:
//   - (uuid.UUID, nil): The parsed UUID if valid
//   - (uuid.Nil, error): A zero UUID and appropriate error if the parameter
//     is missing or malformed
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s", errMissingPathParam, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse %s: %w", paramName, err)
	}

	return id, nil
}
