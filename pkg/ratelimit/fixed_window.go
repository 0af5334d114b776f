package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Config defines a fixed window: at most Max requests per Window per key.
type Config struct {
	Window time.Duration
	Max    int
}

// FixedWindow counts hits per key in windows that start at the first hit and
// reset once they expire.
type FixedWindow struct {
	store Store
	cfg   Config
	now   func() time.Time
}

// NewFixedWindow validates cfg and returns a limiter backed by store.
func NewFixedWindow(store Store, cfg Config) (*FixedWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if cfg.Max <= 0 {
		return nil, ErrInvalidLimit
	}
	if cfg.Window <= 0 {
		return nil, ErrInvalidInterval
	}
	return &FixedWindow{store: store, cfg: cfg, now: time.Now}, nil
}

// Allow records one hit for key.
func (l *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	count, ttl, err := l.store.IncrementAndGet(ctx, key, 1, l.cfg.Window)
	if err != nil {
		return nil, errors.Join(ErrStoreFailure, err)
	}
	if ttl <= 0 {
		ttl = l.cfg.Window
	}

	remaining := l.cfg.Max - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:   count <= int64(l.cfg.Max),
		Limit:     l.cfg.Max,
		Remaining: remaining,
		ResetAt:   l.now().Add(ttl),
	}, nil
}
