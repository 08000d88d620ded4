package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanImport   = "bootstrap.import"
	SpanDocument = "bootstrap.document"
)

// Attribute keys use the "condconfig.*" namespace.
const (
	AttrRunID    = "condconfig.run_id"
	AttrTrigger  = "condconfig.trigger"
	AttrDir      = "condconfig.dir"
	AttrRunState = "condconfig.run.state"
	AttrFiles    = "condconfig.run.files"
	AttrImported = "condconfig.run.imported"
	AttrSkipped  = "condconfig.run.skipped"
	AttrFailed   = "condconfig.run.failed"

	AttrFile     = "condconfig.document.file"
	AttrKind     = "condconfig.document.kind"
	AttrType     = "condconfig.document.type"
	AttrStatus   = "condconfig.document.status"
	AttrReason   = "condconfig.document.reason"
	AttrEntityID = "condconfig.document.entity_id"
)

// RunAttributes describes a finished batch.
func RunAttributes(state string, files, imported, skipped, failed int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AttrRunState, state),
		attribute.Int(AttrFiles, files),
		attribute.Int(AttrImported, imported),
		attribute.Int(AttrSkipped, skipped),
		attribute.Int(AttrFailed, failed),
	}
}

// DocumentAttributes describes the outcome of one file. Empty values are omitted.
func DocumentAttributes(kind, typeTag, status, reason, entityID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(AttrKind, kind),
		attribute.String(AttrStatus, status),
	}
	if typeTag != "" {
		attrs = append(attrs, attribute.String(AttrType, typeTag))
	}
	if reason != "" {
		attrs = append(attrs, attribute.String(AttrReason, reason))
	}
	if entityID != "" {
		attrs = append(attrs, attribute.String(AttrEntityID, entityID))
	}
	return attrs
}

// SetError records err on span and marks it failed. A nil err marks the span OK.
func SetError(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
