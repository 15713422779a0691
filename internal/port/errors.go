package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrMissingFields   = errors.New("document missing required fields")
	ErrContentTooShort = errors.New("document content too short")
	ErrVectorMismatch  = errors.New("chunk and vector counts differ")
)

// ValidationError carries a user-facing message for rejected input. It is
// the only error category surfaced to callers; retrieval, generation and
// persistence failures degrade internally instead.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
