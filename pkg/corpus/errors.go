package corpus

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDocument is returned when a statement references a document
	// that does not exist.
	ErrUnknownDocument = errors.New("unknown document")

	// ErrUnknownStatementType is returned when a statement references a
	// statement type that does not exist.
	ErrUnknownStatementType = errors.New("unknown statement type")

	// ErrSchemaMismatch is returned when a statement's values do not match
	// the variables declared by its statement type.
	ErrSchemaMismatch = errors.New("statement does not match its statement type")

	// ErrDuplicate is returned when an id or statement type label is already
	// taken.
	ErrDuplicate = errors.New("duplicate entry")

	// ErrInvalidStatementType is returned for a statement type with a missing
	// label, an empty or repeated variable name, or an unknown data type.
	ErrInvalidStatementType = errors.New("invalid statement type")
)

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // Storage backend type ("sqlite", "memory", ...)
	Operation string // Operation that failed ("store_statement", "snapshot", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// SchemaError describes why a statement does not conform to its statement
// type. It unwraps to ErrSchemaMismatch.
type SchemaError struct {
	StatementID     int
	StatementTypeID int
	Variable        string
	Reason          string
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("statement %d (type %d): variable %q: %s",
		e.StatementID, e.StatementTypeID, e.Variable, e.Reason)
}

// Unwrap returns ErrSchemaMismatch.
func (e *SchemaError) Unwrap() error {
	return ErrSchemaMismatch
}
