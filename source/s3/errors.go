package s3

import "errors"

var (
	ErrInvalidConfig      = errors.New("s3 source requires a bucket and an object key")
	ErrFailedToLoadConfig = errors.New("failed to load aws config")
	ErrObjectNotFound     = errors.New("policy object not found")
	ErrBucketNotFound     = errors.New("policy bucket not found")
	ErrLoadFailed         = errors.New("failed to load roles from s3")
)
