// Package health serves liveness, readiness and version endpoints for the
// long-running watch mode.
//
// Readiness aggregates named checks. The watch command registers two:
// "last_import", backed by a RunTracker fed with every batch result, and
// "store", which reads the most recent run from the import store.
//
//	checker := health.New(5 * time.Second)
//	tracker := health.NewRunTracker()
//	checker.RegisterCheck("last_import", tracker.Check)
//	health.Register(mux, checker, Version, GitCommit, BuildDate)
package health
