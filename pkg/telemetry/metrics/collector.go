package metrics

import (
	"time"

	"mercator-hq/condconfig/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns the Prometheus metrics of the bootstrap importer.
// It registers everything on its own registry so that several collectors
// (for example one per test) never collide.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Import metrics
	importMetrics *ImportMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "condconfig",
//		Subsystem: "bootstrap",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	return &Collector{
		config:        cfg,
		registry:      registry,
		importMetrics: NewImportMetrics(cfg, registry),
	}
}

// RecordDocument records a classified document.
func (c *Collector) RecordDocument(kind string) {
	if !c.config.Enabled {
		return
	}
	c.importMetrics.RecordDocument(kind)
}

// RecordOutcome records the outcome of one file and how long it took.
//
// Parameters:
//   - kind: Document kind ("environment", "policy_set", ...)
//   - status: Outcome status ("imported", "skipped", "failed")
//   - duration: Time spent classifying and dispatching the file
func (c *Collector) RecordOutcome(kind, status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.importMetrics.RecordOutcome(kind, status, duration)
}

// RecordRun records a finished batch.
//
// Parameters:
//   - state: Terminal state ("completed", "aborted", "cancelled")
//   - duration: Wall time of the whole batch
func (c *Collector) RecordRun(state string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.importMetrics.RecordRun(state, duration)
}

// Registry returns the Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
