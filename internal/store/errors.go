package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all gateway implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	ErrNotFound = errors.New("entity not found")

	// ErrSnapshotNotFound indicates that no snapshot has ever been saved
	// under the requested namespace. Loading into a fresh store treats
	// this as an empty collection, not a failure.
	ErrSnapshotNotFound = fmt.Errorf("%w: snapshot", ErrNotFound)

	// ErrPersistence is the base error for I/O failures during save or
	// load. Mutating operations in the service layer log it and continue
	// on in-memory state; it never propagates to their callers.
	ErrPersistence = errors.New("persistence failure")
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
