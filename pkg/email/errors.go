package email

import "errors"

var (
	ErrFailedToSendEmail = errors.New("email: failed to send")
	ErrInvalidConfig     = errors.New("email: invalid config")
	ErrInvalidMessage    = errors.New("email: invalid message")
	ErrUnknownProvider   = errors.New("email: unknown provider")
	ErrUnknownService    = errors.New("email: unknown service")
)
