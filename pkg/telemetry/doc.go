// Package telemetry groups the observability packages of the importer.
//
//   - logging: structured logging on log/slog with run and trigger context
//   - metrics: Prometheus counters and histograms for documents and batches
//   - tracing: OpenTelemetry spans for batches and documents
//   - health: liveness and readiness endpoints for watch mode
package telemetry
