package importer

import (
	"context"
	"time"

	"mercator-hq/condconfig/pkg/commerce"
	"mercator-hq/condconfig/pkg/condition"
	"mercator-hq/condconfig/pkg/document"
)

// Commands are the host operations that persist imported documents.
// Both receive the document text exactly as read from disk.
type Commands interface {
	// ImportEnvironment imports a commerce environment document.
	ImportEnvironment(ctx context.Context, raw string) (*commerce.Environment, error)

	// ImportPolicySet imports a policy set document. It is used for both
	// plain and conditional policy sets.
	ImportPolicySet(ctx context.Context, raw string) (*commerce.PolicySet, error)
}

// Recorder receives per-document and per-run measurements.
// *metrics.Collector implements it.
type Recorder interface {
	RecordDocument(kind string)
	RecordOutcome(kind, status string, duration time.Duration)
	RecordRun(state string, duration time.Duration)
}

// Status is the result of processing one file.
type Status int

const (
	// StatusImported means an import command was invoked and succeeded.
	StatusImported Status = iota

	// StatusSkipped means no import was attempted and nothing went wrong.
	StatusSkipped

	// StatusFailed means the document could not be imported.
	StatusFailed
)

// String returns the status name used in logs and metrics.
func (s Status) String() string {
	switch s {
	case StatusImported:
		return "imported"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Outcome reasons.
const (
	ReasonConditionsNotSatisfied = "conditions not satisfied"
	ReasonUnrecognizedType       = "unrecognized type"
	ReasonMalformed              = "malformed document"
	ReasonConditionsNotFound     = "conditions not found"
	ReasonConditionsUnparseable  = "conditions could not be parsed"
	ReasonInvalidPattern         = "invalid condition pattern"
	ReasonImportFailed           = "import failed"
	ReasonReadFailed             = "read failed"
)

// Outcome is the result of processing one file.
type Outcome struct {
	// Path is the file the outcome belongs to
	Path string

	// Kind is the classification of the document
	Kind document.Kind

	// Status is imported, skipped or failed
	Status Status

	// Reason explains a skip or failure (empty when imported)
	Reason string

	// Err is the underlying error of a failure, or the sentinel of a skip
	Err error

	// EntityID is the id returned by the import command
	EntityID string

	// Disposition tells the orchestrator how the batch should proceed
	Disposition document.Disposition

	// Duration is the time spent reading, classifying and dispatching the file
	Duration time.Duration
}

// Fatal reports whether the outcome stops the rest of the batch under the abort policy.
func (o Outcome) Fatal() bool {
	return o.Disposition == document.DispositionFailFatal
}

// RunState is the terminal state of a batch.
type RunState int

const (
	// RunCompleted means every enumerated file was processed.
	RunCompleted RunState = iota

	// RunAborted means a fatal outcome stopped the batch.
	RunAborted

	// RunCancelled means the context was cancelled between files.
	RunCancelled
)

// String returns the state name used in logs and metrics.
func (s RunState) String() string {
	switch s {
	case RunCompleted:
		return "completed"
	case RunAborted:
		return "aborted"
	case RunCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s RunState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RunResult summarizes one batch.
type RunResult struct {
	RunID      string
	State      RunState
	StartedAt  time.Time
	FinishedAt time.Time

	// Files are all enumerated files in processing order
	Files []string

	// Outcomes holds one entry per processed file, in order
	Outcomes []Outcome

	// Unprocessed lists files after an abort or cancellation; they have no outcome
	Unprocessed []string
}

// Duration returns the wall time of the batch.
func (r *RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Count returns the number of outcomes with the given status.
func (r *RunResult) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Preview is the dry-run view of one file.
type Preview struct {
	Path        string
	Kind        document.Kind
	TypeTag     string
	Disposition document.Disposition
	Conditions  document.ConditionSet

	// Evaluation is set for conditional policy sets with usable conditions
	Evaluation *condition.Evaluation

	// WouldImport reports whether a real run would invoke an import command
	WouldImport bool

	// Err is the read, classification or pattern error, if any
	Err error
}
