package config

import "time"

// Default values for configuration fields.
const (
	// Bootstrap defaults
	DefaultRoot        = "."
	DefaultDataDir     = "data/environments"
	DefaultMaxFileSize = int64(10 * 1024 * 1024) // 10MB
	DefaultOnMalformed = OnMalformedAbort

	// Store defaults
	DefaultStoreBackend      = "sqlite"
	DefaultSQLitePath        = "data/condconfig.db"
	DefaultSQLiteDriver      = "sqlite"
	DefaultSQLiteBusyTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsNamespace = "condconfig"
	DefaultMetricsSubsystem = "bootstrap"
	DefaultMetricsPath      = "/metrics"
	DefaultTracingService   = "condconfig"
	DefaultTracingSampler   = "always"
	DefaultTracingRatio     = 1.0
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingTimeout   = 10 * time.Second

	// Watch defaults
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Batch policies for malformed documents.
const (
	OnMalformedAbort    = "abort"
	OnMalformedContinue = "continue"
)

// DefaultExtensions returns the default document extensions.
func DefaultExtensions() []string {
	return []string{".json"}
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Bootstrap defaults
	if cfg.Bootstrap.Root == "" {
		cfg.Bootstrap.Root = DefaultRoot
	}
	if cfg.Bootstrap.DataDir == "" {
		cfg.Bootstrap.DataDir = DefaultDataDir
	}
	if len(cfg.Bootstrap.Extensions) == 0 {
		cfg.Bootstrap.Extensions = DefaultExtensions()
	}
	if cfg.Bootstrap.MaxFileSize == 0 {
		cfg.Bootstrap.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Bootstrap.OnMalformed == "" {
		cfg.Bootstrap.OnMalformed = DefaultOnMalformed
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.Driver == "" {
		cfg.Store.SQLite.Driver = DefaultSQLiteDriver
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.Timeout == 0 {
		cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	if cfg.AppSettings == nil {
		cfg.AppSettings = map[string]any{}
	}
}

// MinimalConfig returns a configuration with all defaults applied.
// It is valid without any file and is mostly useful in tests.
func MinimalConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
