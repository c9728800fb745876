package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration signals suggestion options that violate their contract.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidQuery signals a query expression the backend cannot execute.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrIndexNotFound signals a missing suggestion index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrIndexExists signals a duplicate suggestion index.
	ErrIndexExists = errors.New("index already exists")
	// ErrInvalidDocument signals a document that cannot be stored.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrBackend signals a failure inside the search backend.
	ErrBackend = errors.New("search backend error")
)

// BackendError wraps a failure reported by the search backend.
// errors.Is(err, ErrBackend) holds for every BackendError.
type BackendError struct {
	Message string
	Err     error
}

// NewBackendError creates a BackendError with an optional cause.
func NewBackendError(message string, cause error) *BackendError {
	return &BackendError{Message: message, Err: cause}
}

func (e *BackendError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("search backend: %s", e.Message)
	}
	return fmt.Sprintf("search backend: %s: %v", e.Message, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// Is reports ErrBackend as a match so callers need not know the concrete type.
func (e *BackendError) Is(target error) bool { return target == ErrBackend }
