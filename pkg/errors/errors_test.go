package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("message without cause", func(t *testing.T) {
		err := NewNotFoundError("service not found")
		assert.Equal(t, "NOT_FOUND: service not found", err.Error())
		assert.Equal(t, ErrorTypeNotFound, err.Type)
	})

	t.Run("wraps cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewUnavailableError("failed to reach store", cause)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeConflict, TypeOf(NewConflictError("duplicate")))
	assert.Equal(t, ErrorTypeForbidden, TypeOf(NewForbiddenError("not yours")))
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("plain error")))
}

func TestIsType(t *testing.T) {
	err := NewValidationError("too short")
	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsType(err, ErrorTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeValidation))
}
