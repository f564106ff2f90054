package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
	ErrLoadFailed             = errors.New("failed to load roles from mongo")
	ErrSaveFailed             = errors.New("failed to save role to mongo")
	ErrDeleteFailed           = errors.New("failed to delete role from mongo")
	ErrInvalidRole            = errors.New("role declaration has no id")
)
