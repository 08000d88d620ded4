// Package tracing exports OpenTelemetry spans for import batches.
//
// Every batch produces a "bootstrap.import" span carrying the run id, the
// trigger and the final counts. Each file processed by the batch is a
// "bootstrap.document" child span with its kind, status and skip or failure
// reason. Failed documents are marked with an error status.
//
// Spans are exported over OTLP gRPC:
//
//	telemetry:
//	  tracing:
//	    enabled: true
//	    endpoint: otel-collector:4317
//	    insecure: true
package tracing
