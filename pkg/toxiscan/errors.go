package toxiscan

import "github.com/cognicore/toxiscan/pkg/toxiscan/internalerr"

// Re-exported sentinel errors.
var (
	ErrNotFound         = internalerr.ErrNotFound
	ErrInvalidInput     = internalerr.ErrInvalidInput
	ErrDuplicate        = internalerr.ErrDuplicate
	ErrCapacityExceeded = internalerr.ErrCapacityExceeded
	ErrInvalidConfig    = internalerr.ErrInvalidConfig
	ErrNoDocument       = internalerr.ErrNoDocument
)
