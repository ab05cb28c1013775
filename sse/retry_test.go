package sse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRetryPolicy_GrowsExponentiallyUpToMax(t *testing.T) {
	p := RetryPolicy{Base: 100 * time.Millisecond, Max: time.Second, Jitter: 0}
	require.Equal(t, 100*time.Millisecond, p.Delay(0))
	require.Equal(t, 200*time.Millisecond, p.Delay(1))
	require.Equal(t, 400*time.Millisecond, p.Delay(2))
	require.Equal(t, time.Second, p.Delay(10))
}

func TestRetryPolicy_DefaultsWhenZero(t *testing.T) {
	var p RetryPolicy
	require.Greater(t, p.Delay(0), time.Duration(0))
}
