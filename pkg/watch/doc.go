// Package watch re-runs the bootstrap import when documents change or on a
// cron schedule.
//
// FileWatcher (fsnotify) watches the document directory recursively and
// debounces bursts of writes into a single re-import. Scheduler (robfig/cron)
// runs the import at fixed times. Both call through a Runner, which makes
// sure batches never overlap.
//
//	runner := watch.NewRunner(func(ctx context.Context) error {
//	    _, err := imp.Run(ctx)
//	    return err
//	})
//	fw, _ := watch.NewFileWatcher(&watch.FileWatcherConfig{Path: imp.Dir()}, logger)
//	go fw.Watch(ctx, func(ctx context.Context) error {
//	    return runner.Run(ctx, watch.TriggerWatch)
//	})
package watch
