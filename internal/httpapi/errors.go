package httpapi

import "errors"

var (
	ErrMalformedBody = errors.New("httpapi: malformed request body")
	ErrTooManyFiles  = errors.New("httpapi: more than one document attached")
)
