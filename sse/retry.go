package sse

import (
	"math"
	"math/rand"
	"time"
)

// RetryPolicy governs reconnection backoff after a transport error.
// Delay grows exponentially from Base, capped at Max, with up to
// Jitter fraction of random variance to avoid thundering-herd
// reconnects across many concurrent streams.
type RetryPolicy struct {
	Base   time.Duration
	Max    time.Duration
	Jitter float64
}

// DefaultRetryPolicy mirrors the reconnect cadence the teacher's MCP
// transport uses for its own SSE loop, generalised from a fixed 5s
// sleep into exponential backoff bounded at 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Base: 500 * time.Millisecond, Max: 30 * time.Second, Jitter: 0.2}
}

// Delay returns the backoff duration for the given zero-indexed attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if p.Base <= 0 {
		p = DefaultRetryPolicy()
	}
	d := float64(p.Base) * math.Pow(2, float64(attempt))
	if max := float64(p.Max); p.Max > 0 && d > max {
		d = max
	}
	if p.Jitter > 0 {
		d += d * p.Jitter * (rand.Float64()*2 - 1)
	}
	if d < 0 {
		d = 0
	}
	return time.Duration(d)
}
