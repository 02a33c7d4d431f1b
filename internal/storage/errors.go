package storage

import "errors"

var (
	ErrInvalidConfig   = errors.New("storage: invalid configuration")
	ErrInvalidFilename = errors.New("storage: invalid filename")
	ErrNotFound        = errors.New("storage: file not found")
	ErrAccessDenied    = errors.New("storage: access denied")
	ErrWriteFailed     = errors.New("storage: write failed")
	ErrDeleteFailed    = errors.New("storage: delete failed")
)
