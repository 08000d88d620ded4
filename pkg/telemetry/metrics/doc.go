// Package metrics provides Prometheus metrics for the bootstrap importer.
//
// One Collector is created per process. The importer reports every classified
// document, every per-file outcome and every finished batch through it. The
// metrics are either scraped over HTTP (Handler, used by the watch command) or
// written to a textfile after each run (WriteTextfile, used by one-shot imports).
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	imp := importer.New(opts, importer.WithRecorder(collector))
//
//	result, _ := imp.Run(ctx)
//	_ = collector.WriteTextfile("/var/lib/node_exporter/condconfig.prom")
package metrics
