package services

import "errors"

// Error classes shared by every service. Specific errors wrap one of these so
// the request boundary can map them with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrStorageFailure     = errors.New("failed to store attachment")
	ErrPersistenceFailure = errors.New("failed to persist record")
)
