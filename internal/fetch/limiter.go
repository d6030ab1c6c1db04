package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum interval between outbound calls. One limiter is
// shared by every request the retrieval client makes.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter allowing requestsPerSecond calls with no burst.
// A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64) *Limiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Limiter{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether a call may proceed now, consuming the slot if so
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// Interval returns the enforced minimum spacing between calls
func (l *Limiter) Interval() time.Duration {
	if l.limiter.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(l.limiter.Limit()))
}
