package model

import "errors"

var (
	// ErrNotFound is returned when a requested user or document is absent.
	ErrNotFound = errors.New("not found")
	// ErrAuth is returned when a signed request cannot be authorized.
	// Malformed and mismatching signatures are deliberately indistinguishable.
	ErrAuth = errors.New("unauthorized")
	// ErrSerialization is returned when a document cannot be encoded or decoded.
	ErrSerialization = errors.New("serialization failed")
	// ErrStorage is returned on backend I/O failures.
	ErrStorage = errors.New("storage failure")
	// ErrInvalidKey is returned when a storage key is empty or path-hostile.
	ErrInvalidKey = errors.New("invalid storage key")
	// ErrInvalidArgument is returned when a request misses required fields.
	ErrInvalidArgument = errors.New("invalid argument")
)

// ServerError carries a short human-readable cause that is safe to show to
// callers, while keeping the underlying error for logs and errors.Is.
type ServerError struct {
	Message string
	Err     error
}

// NewServerError wraps err with a caller-facing message.
func NewServerError(message string, err error) *ServerError {
	return &ServerError{Message: message, Err: err}
}

func (e *ServerError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
