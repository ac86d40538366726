package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type taggedRequest struct {
	Name string `validate:"required"`
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("uses struct tags", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, ValidateRequest(taggedRequest{}))
		assert.NoError(t, ValidateRequest(taggedRequest{Name: "ok"}))
	})

	t.Run("prefers a Validate method when present", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("custom validation failed")
		assert.ErrorIs(t, ValidateRequest(selfValidating{err: wantErr}), wantErr)
		assert.NoError(t, ValidateRequest(selfValidating{}))
	})
}
