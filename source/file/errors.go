package file

import "errors"

var (
	// ErrReadFailed indicates the policy document could not be read.
	ErrReadFailed = errors.New("failed to read policy document")

	// ErrParseFailed indicates the policy document could not be decoded.
	ErrParseFailed = errors.New("failed to parse policy document")

	// ErrUnsupportedFormat indicates the file extension names no known
	// policy format.
	ErrUnsupportedFormat = errors.New("unsupported policy document format")
)
