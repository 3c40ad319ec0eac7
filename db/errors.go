package db

import "errors"

var (
	// ErrStorageUnavailable is returned when no database connection or
	// transaction could be obtained. Nothing has been written.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrIdentityUnresolved means the upsert succeeded but returned no id.
	ErrIdentityUnresolved = errors.New("dispatch record id could not be resolved")

	ErrNotFound = errors.New("record not found")
)

// ValidationError carries a message that is safe to show to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) error {
	return &ValidationError{Message: message}
}
