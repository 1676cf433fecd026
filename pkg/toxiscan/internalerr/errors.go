package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrDuplicate        = errors.New("duplicate entry")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrNoDocument       = errors.New("no document loaded")
)
