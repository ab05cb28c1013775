package completion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_RetryableClassification(t *testing.T) {
	require.True(t, HTTPError(429, errors.New("too many requests")).IsRetryable())
	require.True(t, HTTPError(503, errors.New("unavailable")).IsRetryable())
	require.False(t, HTTPError(400, errors.New("bad request")).IsRetryable())
	require.False(t, JSONError(errors.New("bad json")).IsRetryable())
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := HTTPError(500, cause)
	require.ErrorIs(t, err, cause)
}
