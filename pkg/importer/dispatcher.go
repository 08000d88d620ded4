package importer

import (
	"context"
	"errors"
	"fmt"

	"mercator-hq/condconfig/pkg/condition"
	"mercator-hq/condconfig/pkg/document"
	"mercator-hq/condconfig/pkg/telemetry/logging"
)

// Dispatcher routes a classified document to the matching import command.
// Failures of a command are contained in the returned Outcome.
type Dispatcher struct {
	commands  Commands
	evaluator *condition.Evaluator
	logger    *logging.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(commands Commands, evaluator *condition.Evaluator, logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		commands:  commands,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Dispatch handles one document. Each import command is invoked at most once.
func (d *Dispatcher) Dispatch(ctx context.Context, doc *document.Document) Outcome {
	out := Outcome{
		Path:        doc.Path,
		Kind:        doc.Kind,
		Disposition: doc.Disposition(),
	}

	switch doc.Kind {
	case document.KindMalformed:
		reason := document.ReasonInvalidJSON
		var malformedErr *document.MalformedDocumentError
		if errors.As(doc.Err, &malformedErr) {
			reason = malformedErr.Reason
		}
		d.logger.ErrorContext(ctx, reason, "file", doc.Path, "error", doc.Err)
		return failed(out, ReasonMalformed, doc.Err)

	case document.KindUnrecognized:
		d.logger.InfoContext(ctx, "unrecognized type", "file", doc.Path, "type", doc.TypeTag)
		return skipped(out, ReasonUnrecognizedType, ErrUnrecognizedType)

	case document.KindEnvironment:
		d.logger.InfoContext(ctx, "importing environment", "file", doc.Path)
		id, err := invoke(func() (string, error) {
			env, err := d.commands.ImportEnvironment(ctx, doc.Raw)
			if err != nil || env == nil {
				return "", err
			}
			return env.ID, nil
		})
		if err != nil {
			return d.importFailed(ctx, out, "import_environment", err)
		}
		d.logger.InfoContext(ctx, "environment imported", "file", doc.Path, "environment_id", id)
		return imported(out, id)

	case document.KindPolicySet:
		d.logger.InfoContext(ctx, "importing policy set", "file", doc.Path)
		id, err := d.importPolicySet(ctx, doc)
		if err != nil {
			return d.importFailed(ctx, out, "import_policy_set", err)
		}
		d.logger.InfoContext(ctx, "policy set imported", "file", doc.Path, "policy_set_id", id)
		return imported(out, id)

	case document.KindConditionalPolicySet:
		return d.dispatchConditional(ctx, doc, out)

	default:
		return failed(out, ReasonMalformed, fmt.Errorf("unknown document kind %d", int(doc.Kind)))
	}
}

func (d *Dispatcher) dispatchConditional(ctx context.Context, doc *document.Document, out Outcome) Outcome {
	d.logger.InfoContext(ctx, "importing conditional policy set", "file", doc.Path)

	if doc.Err != nil {
		var missingErr *document.ConditionsMissingError
		if errors.As(doc.Err, &missingErr) {
			d.logger.ErrorContext(ctx, "conditions were not found", "file", doc.Path)
			return failed(out, ReasonConditionsNotFound, doc.Err)
		}
		d.logger.ErrorContext(ctx, "conditions could not be deserialized", "file", doc.Path, "error", doc.Err)
		return failed(out, ReasonConditionsUnparseable, doc.Err)
	}

	eval, err := d.evaluator.Evaluate(doc.Conditions)
	if err != nil {
		d.logger.ErrorContext(ctx, "invalid condition pattern", "file", doc.Path, "error", err)
		out.Disposition = document.DispositionFailIsolated
		return failed(out, ReasonInvalidPattern, err)
	}

	if !eval.Satisfied {
		switch eval.Reason {
		case condition.ReasonSettingMissing:
			d.logger.WarnContext(ctx, "app setting not found",
				"file", doc.Path,
				"setting", eval.Failed.Setting,
			)
		case condition.ReasonPatternMismatch:
			d.logger.InfoContext(ctx, "condition did not match",
				"file", doc.Path,
				"setting", eval.Failed.Setting,
				"pattern", eval.Failed.Pattern,
			)
		}
		d.logger.InfoContext(ctx, "conditions did not match", "file", doc.Path)
		out.Disposition = document.DispositionSkip
		return skipped(out, ReasonConditionsNotSatisfied, ErrConditionsNotSatisfied)
	}

	id, err := d.importPolicySet(ctx, doc)
	if err != nil {
		return d.importFailed(ctx, out, "import_policy_set", err)
	}
	d.logger.InfoContext(ctx, "conditional policy set imported", "file", doc.Path, "policy_set_id", id)
	return imported(out, id)
}

func (d *Dispatcher) importPolicySet(ctx context.Context, doc *document.Document) (string, error) {
	return invoke(func() (string, error) {
		ps, err := d.commands.ImportPolicySet(ctx, doc.Raw)
		if err != nil || ps == nil {
			return "", err
		}
		return ps.ID, nil
	})
}

func (d *Dispatcher) importFailed(ctx context.Context, out Outcome, operation string, err error) Outcome {
	opErr := &ImportOperationError{FilePath: out.Path, Operation: operation, Cause: err}
	d.logger.ErrorContext(ctx, "import failed", "file", out.Path, "operation", operation, "error", err)
	out.Disposition = document.DispositionFailIsolated
	return failed(out, ReasonImportFailed, opErr)
}

// invoke runs an import command and reports a panic as an error.
func invoke(fn func() (string, error)) (id string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func imported(out Outcome, id string) Outcome {
	out.Status = StatusImported
	out.EntityID = id
	return out
}

func skipped(out Outcome, reason string, err error) Outcome {
	out.Status = StatusSkipped
	out.Reason = reason
	out.Err = err
	return out
}

func failed(out Outcome, reason string, err error) Outcome {
	out.Status = StatusFailed
	out.Reason = reason
	out.Err = err
	return out
}
