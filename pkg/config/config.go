package config

import "time"

// Config is the root configuration structure for the bootstrap importer.
// It contains the document source, runtime settings used by conditions,
// the import store, telemetry and re-import triggers.
type Config struct {
	// Bootstrap contains the document source and batch policy.
	Bootstrap BootstrapConfig `yaml:"bootstrap" envPrefix:"BOOTSTRAP_"`

	// AppSettings is the settings tree conditions are evaluated against.
	// Nested maps are flattened to hierarchical keys ("AppSettings:Shop:Region").
	AppSettings map[string]any `yaml:"app_settings"`

	// Store contains configuration for the import store backing the
	// environment and policy set import commands.
	Store StoreConfig `yaml:"store" envPrefix:"STORE_"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`

	// Watch contains configuration for re-importing on file changes or a schedule.
	Watch WatchConfig `yaml:"watch" envPrefix:"WATCH_"`
}

// BootstrapConfig controls which files are imported and how a batch reacts to failures.
type BootstrapConfig struct {
	// Root is the web root; documents are read from Root/DataDir.
	// Default: "."
	Root string `yaml:"root" env:"ROOT"`

	// DataDir is the directory under Root holding the documents.
	// Default: "data/environments"
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	// Extensions is the list of file extensions to import, compared case-insensitively.
	// Default: [".json"]
	Extensions []string `yaml:"extensions" env:"EXTENSIONS" envSeparator:","`

	// SkipHidden skips dot-files and dot-directories.
	// Default: false
	SkipHidden bool `yaml:"skip_hidden" env:"SKIP_HIDDEN"`

	// SkipSymlinks ignores symbolic links instead of following them.
	// Default: false
	SkipSymlinks bool `yaml:"skip_symlinks" env:"SKIP_SYMLINKS"`

	// MaxFileSize is the largest document accepted, in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size" env:"MAX_FILE_SIZE"`

	// OnMalformed selects the batch policy for malformed documents:
	// "abort" stops the remaining batch, "continue" moves on to the next file.
	// Default: "abort"
	OnMalformed string `yaml:"on_malformed" env:"ON_MALFORMED"`

	// TypeNames overrides the discriminator names matched against $type.
	TypeNames TypeNamesConfig `yaml:"type_names" envPrefix:"TYPE_"`
}

// TypeNamesConfig contains the fully-qualified discriminator names.
type TypeNamesConfig struct {
	// Environment is the commerce environment type name.
	// Default: "Sitecore.Commerce.Core.CommerceEnvironment"
	Environment string `yaml:"environment" env:"ENVIRONMENT"`

	// PolicySet is the policy set type name.
	// Default: "Sitecore.Commerce.Core.PolicySet"
	PolicySet string `yaml:"policy_set" env:"POLICY_SET"`

	// ConditionalPolicySet is the conditional policy set type name.
	// Default: "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet"
	ConditionalPolicySet string `yaml:"conditional_policy_set" env:"CONDITIONAL_POLICY_SET"`
}

// StoreConfig contains configuration for the import store.
type StoreConfig struct {
	// Backend selects the store implementation ("sqlite", "memory").
	// Default: "sqlite"
	Backend string `yaml:"backend" env:"BACKEND"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite" envPrefix:"SQLITE_"`
}

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/condconfig.db"
	Path string `yaml:"path" env:"PATH"`

	// Driver selects the database/sql driver: "sqlite" (pure Go, modernc.org/sqlite)
	// or "sqlite3" (cgo, github.com/mattn/go-sqlite3).
	// Default: "sqlite"
	Driver string `yaml:"driver" env:"DRIVER"`

	// WALMode enables Write-Ahead Logging.
	// Default: false
	WALMode bool `yaml:"wal_mode" env:"WAL_MODE"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOGGING_"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	// Default: "info"
	Level string `yaml:"level" env:"LEVEL"`

	// Format is the output format ("json", "text", "console").
	// Default: "json"
	Format string `yaml:"format" env:"FORMAT"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" env:"ADD_SOURCE"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Namespace is the metric name prefix.
	// Default: "condconfig"
	Namespace string `yaml:"namespace" env:"NAMESPACE"`

	// Subsystem is the metric subsystem name.
	// Default: "bootstrap"
	Subsystem string `yaml:"subsystem" env:"SUBSYSTEM"`

	// ListenAddress serves Path over HTTP in watch mode (empty = no listener).
	ListenAddress string `yaml:"listen_address" env:"LISTEN_ADDRESS"`

	// Path is the HTTP path for the metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" env:"PATH"`

	// Textfile, if set, receives the metrics in text exposition format after every run.
	Textfile string `yaml:"textfile" env:"TEXTFILE"`
}

// TracingConfig contains OpenTelemetry tracing configuration. Each batch is
// a "bootstrap.import" span with one "bootstrap.document" child per file.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// ServiceName is the service.name resource attribute.
	// Default: "condconfig"
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`

	// Sampler is the sampling strategy ("always", "never", "ratio").
	// Default: "always"
	Sampler string `yaml:"sampler" env:"SAMPLER"`

	// SampleRatio is the fraction of batches sampled when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure" env:"INSECURE"`

	// Timeout bounds each export.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// WatchConfig contains configuration for automatic re-imports.
type WatchConfig struct {
	// Debounce is the quiet period after a file change before re-importing.
	// Default: 500ms
	Debounce time.Duration `yaml:"debounce" env:"DEBOUNCE"`

	// Schedule is an optional standard cron expression for periodic re-imports.
	Schedule string `yaml:"schedule" env:"SCHEDULE"`
}
