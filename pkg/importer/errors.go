package importer

import (
	"errors"
	"fmt"
)

// ErrConditionsNotSatisfied marks a conditional policy set skipped because
// its conditions did not match the current settings.
var ErrConditionsNotSatisfied = errors.New("conditions not satisfied")

// ErrUnrecognizedType marks a document skipped because its $type names none
// of the known types.
var ErrUnrecognizedType = errors.New("unrecognized type")

// ImportOperationError wraps a failure returned by an import command.
type ImportOperationError struct {
	// FilePath is the document being imported
	FilePath string

	// Operation is "import_environment" or "import_policy_set"
	Operation string

	// Cause is the error returned by the command
	Cause error
}

// Error implements the error interface.
func (e *ImportOperationError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Operation, e.FilePath, e.Cause)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ImportOperationError) Unwrap() error {
	return e.Cause
}

// ScanError represents a failure to enumerate the document directory.
type ScanError struct {
	// Dir is the directory being scanned
	Dir string

	// Message describes the error
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to scan %q: %s: %v", e.Dir, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to scan %q: %s", e.Dir, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// ReadError represents a failure to read a document file.
type ReadError struct {
	// FilePath is the file that could not be read
	FilePath string

	// Message describes the error
	Message string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to read %q: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to read %q: %s", e.FilePath, e.Message)
}

// Unwrap implements the errors.Unwrap interface for error chain support.
func (e *ReadError) Unwrap() error {
	return e.Cause
}
