package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/condconfig/pkg/condition"
	"mercator-hq/condconfig/pkg/config"
	"mercator-hq/condconfig/pkg/document"
	"mercator-hq/condconfig/pkg/settings"
	"mercator-hq/condconfig/pkg/telemetry/logging"
	"mercator-hq/condconfig/pkg/telemetry/tracing"
)

// Importer runs bootstrap import batches over a document directory.
// Files are processed one at a time, in lexical order, each to completion
// before the next one is read.
type Importer struct {
	dir              string
	abortOnMalformed bool

	scanner    *Scanner
	classifier *document.Classifier
	evaluator  *condition.Evaluator
	dispatcher *Dispatcher
	logger     *logging.Logger
	recorder   Recorder
	tracer     *tracing.Tracer

	now   func() time.Time
	newID func() string
}

// NewImporter creates an importer for the documents under cfg.DocumentDir().
func NewImporter(
	cfg *config.BootstrapConfig,
	commands Commands,
	provider settings.Provider,
	logger *logging.Logger,
) (*Importer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if commands == nil {
		return nil, fmt.Errorf("commands cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("settings provider cannot be nil")
	}
	if logger == nil {
		var err error
		logger, err = logging.New(logging.Config{})
		if err != nil {
			return nil, err
		}
	}
	logger = logger.With("component", "bootstrap")

	evaluator := condition.NewEvaluator(provider)

	return &Importer{
		dir:              cfg.DocumentDir(),
		abortOnMalformed: cfg.OnMalformed != config.OnMalformedContinue,
		scanner: NewScanner(ScannerConfig{
			Extensions:   cfg.Extensions,
			SkipHidden:   cfg.SkipHidden,
			SkipSymlinks: cfg.SkipSymlinks,
			MaxFileSize:  cfg.MaxFileSize,
		}),
		classifier: document.NewClassifier(document.TypeNames{
			Environment:          cfg.TypeNames.Environment,
			PolicySet:            cfg.TypeNames.PolicySet,
			ConditionalPolicySet: cfg.TypeNames.ConditionalPolicySet,
		}),
		evaluator:  evaluator,
		dispatcher: NewDispatcher(commands, evaluator, logger),
		logger:     logger,
		tracer:     tracing.Noop(),
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

// SetRecorder installs a metrics recorder. A nil recorder disables recording.
func (imp *Importer) SetRecorder(r Recorder) {
	imp.recorder = r
}

// SetTracer installs a span tracer. A nil tracer disables tracing.
func (imp *Importer) SetTracer(t *tracing.Tracer) {
	if t == nil {
		t = tracing.Noop()
	}
	imp.tracer = t
}

// Dir returns the directory the importer reads from.
func (imp *Importer) Dir() string {
	return imp.dir
}

// Run imports every document once.
//
// A fatal outcome (malformed document or unreadable file) stops the batch
// when the abort policy is active; the remaining files are listed in
// RunResult.Unprocessed and produce no outcome. Every other failure is
// contained in its file's Outcome.
//
// Run returns an error only when the directory cannot be enumerated, or
// together with a RunCancelled result when ctx is cancelled between files.
func (imp *Importer) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{
		RunID:     imp.newID(),
		State:     RunCompleted,
		StartedAt: imp.now(),
	}
	ctx = logging.WithRunID(ctx, result.RunID)

	ctx, span := imp.tracer.Start(ctx, tracing.SpanImport, trace.WithAttributes(
		attribute.String(tracing.AttrRunID, result.RunID),
		attribute.String(tracing.AttrTrigger, logging.GetTrigger(ctx)),
		attribute.String(tracing.AttrDir, imp.dir),
	))
	defer span.End()

	imp.logger.InfoContext(ctx, "bootstrap import started", "dir", imp.dir)

	files, err := imp.scanner.Scan(imp.dir)
	if err != nil {
		imp.logger.ErrorContext(ctx, "failed to enumerate documents", "dir", imp.dir, "error", err)
		tracing.SetError(span, err)
		return nil, err
	}
	result.Files = files

	var runErr error
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			result.State = RunCancelled
			result.Unprocessed = files[i:]
			runErr = err
			break
		}

		outcome := imp.processFile(ctx, path)
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Fatal() && imp.abortOnMalformed {
			result.State = RunAborted
			result.Unprocessed = files[i+1:]
			imp.logger.ErrorContext(ctx, "bootstrap import aborted",
				"file", path,
				"unprocessed", len(result.Unprocessed),
			)
			break
		}
	}

	result.FinishedAt = imp.now()
	if imp.recorder != nil {
		imp.recorder.RecordRun(result.State.String(), result.Duration())
	}

	span.SetAttributes(tracing.RunAttributes(
		result.State.String(),
		len(files),
		result.Count(StatusImported),
		result.Count(StatusSkipped),
		result.Count(StatusFailed),
	)...)
	tracing.SetError(span, runErr)

	imp.logger.InfoContext(ctx, "bootstrap import finished",
		"state", result.State.String(),
		"files", len(files),
		"imported", result.Count(StatusImported),
		"skipped", result.Count(StatusSkipped),
		"failed", result.Count(StatusFailed),
		"duration", result.Duration(),
	)

	return result, runErr
}

// processFile reads, classifies and dispatches one file.
func (imp *Importer) processFile(ctx context.Context, path string) Outcome {
	start := imp.now()

	ctx, span := imp.tracer.Start(ctx, tracing.SpanDocument, trace.WithAttributes(
		attribute.String(tracing.AttrFile, path),
	))
	defer span.End()

	var outcome Outcome
	var typeTag string
	raw, err := imp.scanner.Read(path)
	if err != nil {
		imp.logger.ErrorContext(ctx, "failed to read document", "file", path, "error", err)
		outcome = failed(Outcome{
			Path:        path,
			Kind:        document.KindMalformed,
			Disposition: document.DispositionFailFatal,
		}, ReasonReadFailed, err)
	} else {
		doc := imp.classifier.Classify(path, raw)
		typeTag = doc.TypeTag
		imp.logger.Debug("document classified",
			"file", path,
			"kind", doc.Kind.String(),
			"type", doc.TypeTag,
			"run_id", logging.GetRunID(ctx),
		)
		if imp.recorder != nil {
			imp.recorder.RecordDocument(doc.Kind.String())
		}
		outcome = imp.dispatcher.Dispatch(ctx, doc)
	}

	outcome.Duration = imp.now().Sub(start)
	if imp.recorder != nil {
		imp.recorder.RecordOutcome(outcome.Kind.String(), outcome.Status.String(), outcome.Duration)
	}

	span.SetAttributes(tracing.DocumentAttributes(
		outcome.Kind.String(), typeTag, outcome.Status.String(), outcome.Reason, outcome.EntityID,
	)...)
	if outcome.Status == StatusFailed {
		tracing.SetError(span, outcome.Err)
	}
	return outcome
}

// Preview classifies every document and evaluates its conditions without
// importing anything. Unlike Run it never stops at a malformed document.
func (imp *Importer) Preview(ctx context.Context) ([]Preview, error) {
	files, err := imp.scanner.Scan(imp.dir)
	if err != nil {
		return nil, err
	}

	previews := make([]Preview, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return previews, err
		}

		raw, err := imp.scanner.Read(path)
		if err != nil {
			previews = append(previews, Preview{
				Path:        path,
				Kind:        document.KindMalformed,
				Disposition: document.DispositionFailFatal,
				Err:         err,
			})
			continue
		}

		doc := imp.classifier.Classify(path, raw)
		p := Preview{
			Path:        path,
			Kind:        doc.Kind,
			TypeTag:     doc.TypeTag,
			Disposition: doc.Disposition(),
			Conditions:  doc.Conditions,
			Err:         doc.Err,
		}

		switch {
		case p.Disposition != document.DispositionContinue:
		case doc.Kind == document.KindConditionalPolicySet:
			eval, err := imp.evaluator.Evaluate(doc.Conditions)
			p.Evaluation = &eval
			if err != nil {
				p.Err = err
				p.Disposition = document.DispositionFailIsolated
			} else if eval.Satisfied {
				p.WouldImport = true
			} else {
				p.Disposition = document.DispositionSkip
			}
		default:
			p.WouldImport = true
		}

		previews = append(previews, p)
	}

	return previews, nil
}
