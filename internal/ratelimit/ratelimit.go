// Package ratelimit throttles outgoing RPC calls with golang.org/x/time/rate.
// It only delays callers; it never drops or retries a request.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/fd1az/pool-arbitrage/internal/apperror"
)

// Limiter is a token bucket shared by every contract call on one endpoint.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a limiter allowing requestsPerSecond with the given burst.
// requestsPerSecond <= 0 disables limiting.
func New(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Wait blocks until a token is available. A cancelled or expired context
// comes back as CodeRateLimitExceeded wrapping the context error.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return apperror.New(apperror.CodeRateLimitExceeded, apperror.WithCause(err))
	}
	return nil
}

// Allow reports whether a call may happen now without waiting.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Limit returns the configured rate.
func (l *Limiter) Limit() rate.Limit {
	return l.limiter.Limit()
}
