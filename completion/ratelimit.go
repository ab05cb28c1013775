package completion

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedModel decorates a Model with a token-bucket limiter, so a
// single agent (or a fleet sharing one limiter) never exceeds a
// provider's requests-per-second quota regardless of how many callers
// invoke it concurrently.
type RateLimitedModel[R any] struct {
	inner   Model[R]
	limiter *rate.Limiter
}

// NewRateLimitedModel wraps inner with a limiter allowing rps requests
// per second and a burst of burst requests.
func NewRateLimitedModel[R any](inner Model[R], rps float64, burst int) *RateLimitedModel[R] {
	return &RateLimitedModel[R]{inner: inner, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Completion blocks until the limiter admits the call (or ctx is done),
// then delegates to the wrapped model.
func (m *RateLimitedModel[R]) Completion(ctx context.Context, req Request) (Response[R], error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return Response[R]{}, fmt.Errorf("completion: rate limiter wait: %w", err)
	}
	return m.inner.Completion(ctx, req)
}
