package importer

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"mercator-hq/condconfig/pkg/config"
	"mercator-hq/condconfig/pkg/telemetry/logging"
	"mercator-hq/condconfig/pkg/telemetry/tracing"
)

func TestImporter_Run_Spans(t *testing.T) {
	root := writeDocs(t, map[string]string{
		"a.json": environmentDoc,
		"b.json": unrelatedTypeDoc,
		"c.json": emptyTypeDoc,
	})
	imp, _, _ := newTestImporter(t, testBootstrapConfig(root), nil)

	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(&config.TracingConfig{Sampler: tracing.SamplerAlways}, "test", exporter)
	if err != nil {
		t.Fatalf("NewWithExporter() error = %v", err)
	}
	defer tracer.Shutdown(context.Background())
	imp.SetTracer(tracer)

	ctx := logging.WithTrigger(context.Background(), "startup")
	result, err := imp.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if err := tracer.ForceFlush(context.Background()); err != nil {
		t.Fatalf("ForceFlush() error = %v", err)
	}

	spans := exporter.GetSpans()
	var run tracetest.SpanStub
	var documents []tracetest.SpanStub
	for _, s := range spans {
		switch s.Name {
		case tracing.SpanImport:
			run = s
		case tracing.SpanDocument:
			documents = append(documents, s)
		}
	}

	if run.Name == "" {
		t.Fatal("no import span exported")
	}
	if len(documents) != 3 {
		t.Fatalf("got %d document spans, want 3", len(documents))
	}

	wantRunAttrs := []attribute.KeyValue{
		attribute.String(tracing.AttrRunID, result.RunID),
		attribute.String(tracing.AttrTrigger, "startup"),
		attribute.String(tracing.AttrRunState, "aborted"),
		attribute.Int(tracing.AttrImported, 1),
		attribute.Int(tracing.AttrFailed, 1),
	}
	for _, want := range wantRunAttrs {
		if !spanHas(run, want) {
			t.Errorf("import span missing %v", want)
		}
	}

	for _, doc := range documents {
		if doc.Parent.SpanID() != run.SpanContext.SpanID() {
			t.Errorf("document span %v is not a child of the import span", doc.Attributes)
		}
		failed := spanHas(doc, attribute.String(tracing.AttrStatus, "failed"))
		if failed != (doc.Status.Code == codes.Error) {
			t.Errorf("document span status = %v, failed = %v", doc.Status.Code, failed)
		}
	}
}

func spanHas(span tracetest.SpanStub, want attribute.KeyValue) bool {
	for _, kv := range span.Attributes {
		if kv == want {
			return true
		}
	}
	return false
}
