package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/condconfig/pkg/cli"
	"mercator-hq/condconfig/pkg/importer"
	"mercator-hq/condconfig/pkg/telemetry/health"
	"mercator-hq/condconfig/pkg/watch"
)

// shutdownTimeout bounds the metrics listener shutdown.
const shutdownTimeout = 5 * time.Second

var watchFlags bootstrapFlags

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Import, then re-import on changes",
	Long: `Import every document once, then keep running and re-import the whole
directory whenever a document changes (after the debounce interval) and on the
optional watch.schedule cron expression.

Batches never overlap. When telemetry.metrics.listen_address is set, that
listener serves metrics on telemetry.metrics.path together with /health, /ready
and /version. /ready answers 200 only after the last import completed.`,
	Example: `  # Watch the configured web root
  condconfig watch

  # Watch another web root
  condconfig watch --root /srv/commerce`,
	RunE: runWatchCmd,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.root, "root", "", "override the web root")
	watchCmd.Flags().StringVar(&watchFlags.onMalformed, "on-malformed", "", "batch policy for malformed documents (abort, continue)")
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, watchFlags)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := cli.SetupSignalHandler(commandContext(cmd))
	defer cancel()

	tracker := health.NewRunTracker()
	runner := watch.NewRunner(func(ctx context.Context) error {
		result, err := a.runImport(ctx)
		if result == nil {
			tracker.Observe("", time.Now(), err)
			return err
		}
		tracker.Observe(result.State.String(), result.FinishedAt, nil)
		if err != nil {
			return err
		}
		if result.State == importer.RunAborted {
			return fmt.Errorf("import aborted after %d of %d files", len(result.Outcomes), len(result.Files))
		}
		return nil
	})

	if err := runner.Run(ctx, watch.TriggerStartup); err != nil {
		a.logger.Error("initial import failed", "error", err)
	}

	errChan := make(chan error, 2)

	var srv *http.Server
	if addr := a.cfg.Telemetry.Metrics.ListenAddress; addr != "" {
		checker := health.New(0)
		checker.RegisterCheck("last_import", tracker.Check)
		checker.RegisterCheck("store", func(ctx context.Context) error {
			_, err := a.store.Runs(ctx, 1)
			return err
		})

		mux := http.NewServeMux()
		mux.Handle(a.cfg.Telemetry.Metrics.Path, a.collector.Handler())
		health.Register(mux, checker, Version, GitCommit, BuildDate)
		srv = &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			a.logger.Info("starting metrics and health listener", "address", addr, "path", a.cfg.Telemetry.Metrics.Path)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics listener: %w", err)
			}
		}()
	}

	if schedule := a.cfg.Watch.Schedule; schedule != "" {
		scheduler, err := watch.NewScheduler(schedule, a.logger)
		if err != nil {
			return cli.NewConfigError("watch.schedule", err.Error())
		}
		if err := scheduler.Start(ctx, func(ctx context.Context) error {
			return runner.Run(ctx, watch.TriggerSchedule)
		}); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer scheduler.Stop()
	}

	watcher, err := watch.NewFileWatcher(&watch.FileWatcherConfig{
		Path:             a.importer.Dir(),
		DebounceInterval: a.cfg.Watch.Debounce,
		Extensions:       a.cfg.Bootstrap.Extensions,
		SkipHidden:       a.cfg.Bootstrap.SkipHidden,
	}, a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	go func() {
		errChan <- watcher.Watch(ctx, func(ctx context.Context) error {
			return runner.Run(ctx, watch.TriggerWatch)
		})
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down")
	case err := <-errChan:
		if err != nil && ctx.Err() == nil {
			runErr = cli.NewCommandError("watch", err)
		}
	}
	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("metrics listener shutdown failed", "error", err)
		}
	}

	return runErr
}
