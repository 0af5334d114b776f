package ratelimit

import "errors"

var (
	ErrInvalidLimit    = errors.New("ratelimit: limit must be positive")
	ErrInvalidInterval = errors.New("ratelimit: window must be positive")
	ErrKeyRequired     = errors.New("ratelimit: key is required")
	ErrStoreRequired   = errors.New("ratelimit: store is required")
	ErrStoreFailure    = errors.New("ratelimit: store operation failed")
)
