package decisionlog

import "errors"

var (
	// ErrInvalidEvent indicates the event is missing required fields.
	ErrInvalidEvent = errors.New("decisionlog: invalid event")

	// ErrStoreClosed is returned when storing into a closed async store.
	ErrStoreClosed = errors.New("decisionlog: store is closed")

	// ErrStoreFailed indicates the backend rejected the write.
	ErrStoreFailed = errors.New("decisionlog: store failed")

	// ErrQueryFailed indicates the backend rejected the query.
	ErrQueryFailed = errors.New("decisionlog: query failed")
)
