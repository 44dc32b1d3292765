package service

import (
	"errors"
	"fmt"
)

// Error kinds. Every service error wraps exactly one of these, so callers
// can classify failures with errors.Is without string matching.
var (
	// ErrValidation covers bad input: unknown IDs, invalid assessment
	// values, out-of-range configuration. Never retried automatically.
	ErrValidation = errors.New("validation error")

	// ErrState covers operations that are valid in themselves but illegal
	// in the current lifecycle state, such as reviewing against an ended
	// session. Never retried automatically.
	ErrState = errors.New("invalid state")
)

// Specific error values.
var (
	// ErrCardNotFound indicates the requested card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card not found", ErrValidation)

	// ErrSessionNotFound indicates the requested session does not exist.
	ErrSessionNotFound = fmt.Errorf("%w: session not found", ErrValidation)

	// ErrInvalidAssessment indicates an unknown assessment value.
	ErrInvalidAssessment = fmt.Errorf("%w: invalid assessment", ErrValidation)

	// ErrInvalidResponseTime indicates a negative response time.
	ErrInvalidResponseTime = fmt.Errorf("%w: response time cannot be negative", ErrValidation)

	// ErrSessionNotActive indicates a review or finalization attempt
	// against a session that has already ended or been abandoned.
	ErrSessionNotActive = fmt.Errorf("%w: session is not active", ErrState)

	// ErrActiveSessionExists indicates the user already has an active
	// session. Overlapping sessions would corrupt aggregate counters, so
	// starting a second one fails instead of replacing the first.
	ErrActiveSessionExists = fmt.Errorf("%w: user already has an active session", ErrState)

	// ErrCardSuspended indicates a review attempt against a suspended card.
	ErrCardSuspended = fmt.Errorf("%w: card is suspended", ErrState)

	// ErrCardNotSuspended indicates a resume attempt against a card that
	// is not suspended.
	ErrCardNotSuspended = fmt.Errorf("%w: card is not suspended", ErrState)
)

// ServiceError wraps errors from the service layer with additional context.
// This allows consumers to differentiate between different kinds of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_card", "review_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
