package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
	ErrLoadFailed                   = errors.New("failed to load roles from redis")
	ErrSaveFailed                   = errors.New("failed to save role to redis")
	ErrDeleteFailed                 = errors.New("failed to delete role from redis")
	ErrInvalidRole                  = errors.New("role declaration has no id")
)
