package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"mercator-hq/condconfig/pkg/cli"
	"mercator-hq/condconfig/pkg/config"
	"mercator-hq/condconfig/pkg/importer"
	"mercator-hq/condconfig/pkg/settings"
	"mercator-hq/condconfig/pkg/store"
	"mercator-hq/condconfig/pkg/telemetry/logging"
	"mercator-hq/condconfig/pkg/telemetry/metrics"
	"mercator-hq/condconfig/pkg/telemetry/tracing"
)

// defaultConfigFile may be absent; defaults and CONDCONFIG_* variables apply then.
const defaultConfigFile = "condconfig.yaml"

// bootstrapFlags are command-line overrides of the bootstrap section.
type bootstrapFlags struct {
	root        string
	onMalformed string
}

// app holds the components shared by the import, classify and watch commands.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	store     store.Store
	collector *metrics.Collector
	tracer    *tracing.Tracer
	importer  *importer.Importer
}

// loadConfig reads cfgFile with environment overrides. A missing default
// config file is not an error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err == nil {
		return cfg, nil
	}
	if cfgFile != defaultConfigFile || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = config.MinimalConfig()
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// newApp loads the configuration, applies flag overrides and wires the importer.
func newApp(cmd *cobra.Command, flags bootstrapFlags) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}

	if flags.root != "" {
		cfg.Bootstrap.Root = flags.root
	}
	if flags.onMalformed != "" {
		cfg.Bootstrap.OnMalformed = flags.onMalformed
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		AddSource: cfg.Telemetry.Logging.AddSource,
		Writer:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	st, err := store.New(&cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// Process environment first, then the app_settings section of the config file.
	provider := settings.Chain{
		settings.NewEnvProvider(),
		settings.FromSection(settings.AppSettingsSection, cfg.AppSettings),
	}

	imp, err := importer.NewImporter(&cfg.Bootstrap, st, provider, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	imp.SetTracer(tracer)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	imp.SetRecorder(collector)

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		collector: collector,
		tracer:    tracer,
		importer:  imp,
	}, nil
}

// runImport runs one batch, stores its summary and refreshes the metrics textfile.
func (a *app) runImport(ctx context.Context) (*importer.RunResult, error) {
	result, err := a.importer.Run(ctx)
	if result == nil {
		return nil, err
	}

	record := &store.RunRecord{
		ID:         result.RunID,
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		State:      result.State.String(),
		Files:      len(result.Files),
		Imported:   result.Count(importer.StatusImported),
		Skipped:    result.Count(importer.StatusSkipped),
		Failed:     result.Count(importer.StatusFailed),
	}
	// The run record is written even when ctx is already cancelled.
	if recErr := a.store.RecordRun(context.WithoutCancel(ctx), record); recErr != nil {
		a.logger.Error("failed to record import run", "run_id", result.RunID, "error", recErr)
	}

	if path := a.cfg.Telemetry.Metrics.Textfile; path != "" && a.cfg.Telemetry.Metrics.Enabled {
		if mErr := a.collector.WriteTextfile(path); mErr != nil {
			a.logger.Warn("failed to write metrics textfile", "error", mErr)
		}
	}

	return result, err
}

// Close flushes pending spans and releases the store.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Telemetry.Tracing.Timeout)
	defer cancel()
	if err := a.tracer.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to flush spans", "error", err)
	}
	return a.store.Close()
}
