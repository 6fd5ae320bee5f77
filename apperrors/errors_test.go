package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("create comment: %w", Validation("line_number must be at least 1"))

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.False(t, IsInternal(err))
	assert.Equal(t, "line_number must be at least 1", Message(err))
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("submission")

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "submission not found", err.Error())
}

func TestInternalErrorsAreMasked(t *testing.T) {
	err := errors.New("dial tcp 10.0.0.3:3306: connection refused")

	assert.True(t, IsInternal(err))
	assert.Equal(t, "internal server error", Message(err))
	assert.False(t, IsInternal(nil))
}
