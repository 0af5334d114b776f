package mongo

import "errors"

var (
	ErrEmptyConnectionURL     = errors.New("empty mongo connection URI")
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)
