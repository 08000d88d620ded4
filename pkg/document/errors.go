package document

import "fmt"

// Reasons carried by MalformedDocumentError.
const (
	ReasonInvalidJSON = "invalid json"
	ReasonInvalidType = "invalid type"
)

// MalformedDocumentError reports text that does not parse, has no top-level
// fields, or lacks a non-empty $type discriminator.
type MalformedDocumentError struct {
	// FilePath is the path to the offending file
	FilePath string

	// Reason is ReasonInvalidJSON or ReasonInvalidType
	Reason string

	// Message adds detail to the reason
	Message string
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("malformed document %q: %s: %s", e.FilePath, e.Reason, e.Message)
	}
	return fmt.Sprintf("malformed document %q: %s", e.FilePath, e.Reason)
}

// ConditionsMissingError reports a conditional policy set without a Conditions field.
type ConditionsMissingError struct {
	FilePath string
}

// Error implements the error interface.
func (e *ConditionsMissingError) Error() string {
	return fmt.Sprintf("conditions not found in %q", e.FilePath)
}

// ConditionsUnparseableError reports a Conditions field that is not a
// setting-name to pattern mapping.
type ConditionsUnparseableError struct {
	// FilePath is the path to the offending file
	FilePath string

	// Message describes what could not be deserialized
	Message string
}

// Error implements the error interface.
func (e *ConditionsUnparseableError) Error() string {
	return fmt.Sprintf("conditions could not be parsed in %q: %s", e.FilePath, e.Message)
}
