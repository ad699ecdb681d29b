package export

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoStatementSelected is returned by the event list export when the
	// filter leaves no statements.
	ErrNoStatementSelected = errors.New("no statement selected")

	// ErrPatternNotImplemented is returned for agreement patterns other than
	// congruence.
	ErrPatternNotImplemented = errors.New("agreement pattern not implemented")

	// ErrAggregationNotImplemented is returned for aggregation rules other
	// than the whole date range.
	ErrAggregationNotImplemented = errors.New("aggregation not implemented")

	// ErrFormatNotSupported is returned when an output format cannot encode
	// the requested network type.
	ErrFormatNotSupported = errors.New("output format not supported")
)

// FieldError represents a problem with one export setting field.
type FieldError struct {
	// Field is the setting key (e.g., "variable1").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigurationError lists every invalid field of an export setting. It is
// returned before any statement is filtered.
type ConfigurationError struct {
	Errors []FieldError

	// causes are matched by errors.Is, e.g. ErrPatternNotImplemented.
	causes []error
}

// Error returns a formatted string containing all field errors.
func (e *ConfigurationError) Error() string {
	if len(e.Errors) == 0 {
		return "invalid export setting"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("invalid export setting: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid export setting with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Unwrap returns the sentinel errors behind individual field errors.
func (e *ConfigurationError) Unwrap() []error {
	return e.causes
}

func (e *ConfigurationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ConfigurationError) addCause(field string, cause error, message string) {
	e.add(field, message)
	e.causes = append(e.causes, cause)
}

// ValidationError reports statements that cannot be exported together. It is
// returned before the output file is created.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// IOError wraps a failure to create or write an output file. A partially
// written file is left in place.
type IOError struct {
	Op    string // "mkdir", "create", "write", "close"
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, cause error) *IOError {
	return &IOError{
		Op:    op,
		Path:  path,
		Cause: cause,
	}
}
