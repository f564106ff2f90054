package pg

import "errors"

var (
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")
	ErrLoadFailed               = errors.New("failed to load roles")
	ErrSaveFailed               = errors.New("failed to save role")
	ErrDeleteFailed             = errors.New("failed to delete role")
	ErrInvalidRole              = errors.New("role declaration has no id")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
)
