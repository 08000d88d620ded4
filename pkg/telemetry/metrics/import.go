package metrics

import (
	"time"

	"mercator-hq/condconfig/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ImportMetrics tracks metrics related to document imports.
//
// Metrics:
//   - condconfig_bootstrap_documents_total: Documents classified, by kind
//   - condconfig_bootstrap_outcomes_total: Per-file outcomes, by kind and status
//   - condconfig_bootstrap_import_duration_seconds: Per-file processing duration, by kind
//   - condconfig_bootstrap_runs_total: Batches, by terminal state
//   - condconfig_bootstrap_run_duration_seconds: Batch duration
type ImportMetrics struct {
	documentsTotal *prometheus.CounterVec
	outcomesTotal  *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	runsTotal      *prometheus.CounterVec
	runDuration    prometheus.Histogram
}

// NewImportMetrics creates and registers import metrics with the provided registry.
func NewImportMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ImportMetrics {
	im := &ImportMetrics{
		documentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "documents_total",
				Help:      "Total number of classified documents",
			},
			[]string{"kind"},
		),

		outcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "outcomes_total",
				Help:      "Total number of per-file import outcomes",
			},
			[]string{"kind", "status"},
		),

		importDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "import_duration_seconds",
				Help:      "Duration of processing a single document in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"kind"},
		),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of import batches by terminal state",
			},
			[]string{"state"},
		),

		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of an import batch in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		im.documentsTotal,
		im.outcomesTotal,
		im.importDuration,
		im.runsTotal,
		im.runDuration,
	)

	return im
}

// RecordDocument records a classified document.
func (im *ImportMetrics) RecordDocument(kind string) {
	im.documentsTotal.WithLabelValues(kind).Inc()
}

// RecordOutcome records a per-file outcome.
func (im *ImportMetrics) RecordOutcome(kind, status string, duration time.Duration) {
	im.outcomesTotal.WithLabelValues(kind, status).Inc()
	im.importDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRun records a finished batch.
func (im *ImportMetrics) RecordRun(state string, duration time.Duration) {
	im.runsTotal.WithLabelValues(state).Inc()
	im.runDuration.Observe(duration.Seconds())
}
