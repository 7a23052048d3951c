package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	err := NewError(ErrInvalidParameter, "negative dimension")
	assert.Equal(t, "[INVALID_PARAMETER] negative dimension", err.Error())

	cause := errors.New("boom")
	err = err.WithCause(cause)
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)
}

func TestError_Builders(t *testing.T) {
	err := NewError(ErrUpstreamTimeout, "llm timeout").
		WithHTTPStatus(504).
		WithRetryable(true)

	assert.Equal(t, 504, err.HTTPStatus)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, ErrUpstreamTimeout, GetErrorCode(err))
}

func TestGetErrorCode_PlainError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetErrorCode(errors.New("plain")))
	assert.False(t, IsRetryable(errors.New("plain")))
}
