package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatchingSurvivesCopies(t *testing.T) {
	err := ErrTreeNotFound.WithDetail("tree_id", "abc")
	assert.ErrorIs(t, err, ErrTreeNotFound)
	assert.NotErrorIs(t, err, ErrInvalidOption)

	wrapped := fmt.Errorf("loading tree: %w", err)
	assert.ErrorIs(t, wrapped, ErrTreeNotFound)
}

func TestWithCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ErrTreeStorage.WithCause(cause)

	assert.ErrorIs(t, err, ErrTreeStorage)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection reset")

	// The sentinel itself is untouched.
	assert.Nil(t, ErrTreeStorage.Cause)
}

func TestWithDetailDoesNotMutateSentinel(t *testing.T) {
	first := ErrInvalidOption.WithDetail("option_id", "o1")
	second := ErrInvalidOption.WithDetail("option_id", "o2")

	assert.Equal(t, "o1", first.Details["option_id"])
	assert.Equal(t, "o2", second.Details["option_id"])
	assert.Empty(t, ErrInvalidOption.Details)
}

func TestStatusCodes(t *testing.T) {
	cases := map[ErrorType]int{
		ErrorTypeValidation:   400,
		ErrorTypeUnauthorized: 401,
		ErrorTypeNotFound:     404,
		ErrorTypeConflict:     409,
		ErrorTypeUpstream:     502,
		ErrorTypeStorage:      500,
		ErrorTypeInvalidState: 500,
	}
	for errorType, want := range cases {
		err := New(errorType, "CODE", "message")
		assert.Equal(t, want, err.StatusCode, string(errorType))
	}
}

func TestIsType(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrCompletionFailed.WithCause(errors.New("timeout")))

	assert.True(t, IsType(err, ErrorTypeUpstream))
	assert.False(t, IsType(err, ErrorTypeStorage))
	assert.Equal(t, ErrorTypeUpstream, TypeOf(err))
	assert.Equal(t, ErrorTypeInvalidState, TypeOf(errors.New("plain")))
}

func TestRetryableSentinels(t *testing.T) {
	require.True(t, ErrCompletionFailed.Retryable)
	require.True(t, ErrTreeStorage.Retryable)
	require.False(t, ErrTreeNotFound.Retryable)
}
