package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsClassifyErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"bad request", NewBadRequestError("NIM is required."), ErrValidationFailed},
		{"unauthorized", NewUnauthorizedError("Invalid API key."), ErrUnauthorized},
		{"not found", NewResourceNotFoundError("Applicant not found."), ErrResourceNotFound},
		{"conflict", NewConflictError("NIM S1 already exists."), ErrConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.kind)

			wrapped := fmt.Errorf("service: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.kind)

			msg, ok := Message(wrapped)
			assert.True(t, ok)
			assert.Equal(t, tc.err.Error(), msg)
		})
	}
}

func TestMessage_PlainError(t *testing.T) {
	_, ok := Message(errors.New("boom"))
	assert.False(t, ok)
}

func TestCustomError_FallsBackToKind(t *testing.T) {
	err := NewCustomError(ErrConflict, "")
	assert.Equal(t, "conflict", err.Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}

func TestIs(t *testing.T) {
	err := NewConflictError("dup")
	assert.True(t, Is(err, ErrResourceNotFound, ErrConflict))
	assert.False(t, Is(err, ErrResourceNotFound, ErrUnauthorized))
	assert.True(t, Is(ErrAPIKeyDisabled, ErrUnauthorized))
}
