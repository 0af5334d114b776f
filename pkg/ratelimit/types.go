package ratelimit

import (
	"context"
	"time"
)

// Result describes the state of a key after one hit.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long the caller should wait before retrying.
// It is zero for allowed results and never below one second otherwise.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	d := time.Until(r.ResetAt)
	if d < time.Second {
		return time.Second
	}
	return d
}

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Store keeps per-key counters that expire with their window.
// Implementations must make IncrementAndGet atomic across callers.
type Store interface {
	// IncrementAndGet adds incr to the counter for key, starting a new window
	// if none is active, and returns the new count and the time left.
	IncrementAndGet(ctx context.Context, key string, incr int, window time.Duration) (current int64, ttl time.Duration, err error)
}
