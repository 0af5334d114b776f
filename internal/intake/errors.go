package intake

import "errors"

var (
	// Client errors, reported with 400.
	ErrSpamDetected = errors.New("intake: spam detected")
	ErrEmptyPayload = errors.New("intake: no data received")

	// Operator errors, reported as a degraded success.
	ErrMissingSenderConfig = errors.New("intake: email sender or recipient not configured")
	ErrMissingCredential   = errors.New("intake: email credential not configured")

	ErrInvalidConfig = errors.New("intake: invalid config")
	ErrRender        = errors.New("intake: render failed")
	ErrStoreFailed   = errors.New("intake: store failed")
	ErrInternal      = errors.New("intake: internal fault")
)
