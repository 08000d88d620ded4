package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "condconfig.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
bootstrap:
  root: /srv/wwwroot
  extensions: [".json", ".JSON"]
  on_malformed: continue
  type_names:
    policy_set: Acme.PolicySet

app_settings:
  Region: US
  Port: 8080
  Shop:
    Name: Storefront

store:
  backend: memory

telemetry:
  logging:
    level: debug
    format: text
  metrics:
    enabled: true
    textfile: /tmp/condconfig.prom

watch:
  debounce: 2s
  schedule: "*/5 * * * *"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Bootstrap.Root != "/srv/wwwroot" {
		t.Errorf("Root = %q, want /srv/wwwroot", cfg.Bootstrap.Root)
	}
	if got := cfg.DocumentDir(); got != filepath.Join("/srv/wwwroot", "data/environments") {
		t.Errorf("DocumentDir() = %q", got)
	}
	if cfg.Bootstrap.OnMalformed != OnMalformedContinue {
		t.Errorf("OnMalformed = %q, want continue", cfg.Bootstrap.OnMalformed)
	}
	if cfg.Bootstrap.TypeNames.PolicySet != "Acme.PolicySet" {
		t.Errorf("TypeNames.PolicySet = %q", cfg.Bootstrap.TypeNames.PolicySet)
	}
	if len(cfg.Bootstrap.Extensions) != 2 {
		t.Errorf("Extensions = %v", cfg.Bootstrap.Extensions)
	}
	if cfg.AppSettings["Region"] != "US" {
		t.Errorf("AppSettings[Region] = %v", cfg.AppSettings["Region"])
	}
	shop, ok := cfg.AppSettings["Shop"].(map[string]any)
	if !ok || shop["Name"] != "Storefront" {
		t.Errorf("AppSettings[Shop] = %#v", cfg.AppSettings["Shop"])
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Telemetry.Logging)
	}
	if !cfg.Telemetry.Metrics.Enabled || cfg.Telemetry.Metrics.Textfile != "/tmp/condconfig.prom" {
		t.Errorf("Metrics = %+v", cfg.Telemetry.Metrics)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Debounce = %v, want 2s", cfg.Watch.Debounce)
	}

	// Defaults still fill what the file left out
	if cfg.Bootstrap.MaxFileSize != DefaultMaxFileSize {
		t.Errorf("MaxFileSize = %d, want default", cfg.Bootstrap.MaxFileSize)
	}
	if cfg.Store.SQLite.Driver != DefaultSQLiteDriver {
		t.Errorf("SQLite.Driver = %q, want default", cfg.Store.SQLite.Driver)
	}
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.DocumentDir() != filepath.Join(".", "data/environments") {
		t.Errorf("DocumentDir() = %q", cfg.DocumentDir())
	}
	if cfg.Bootstrap.OnMalformed != OnMalformedAbort {
		t.Errorf("OnMalformed = %q, want abort", cfg.Bootstrap.OnMalformed)
	}
	if cfg.AppSettings == nil {
		t.Error("AppSettings should be non-nil after defaults")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "bootstrap: [unclosed"))
	if err == nil || !strings.Contains(err.Error(), "failed to parse") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
bootstrap:
  on_malformed: ignore
`))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
bootstrap:
  root: /from/file
store:
  backend: memory
`)

	t.Setenv("CONDCONFIG_BOOTSTRAP_ROOT", "/from/env")
	t.Setenv("CONDCONFIG_BOOTSTRAP_ON_MALFORMED", "continue")
	t.Setenv("CONDCONFIG_BOOTSTRAP_EXTENSIONS", ".json,.policy")
	t.Setenv("CONDCONFIG_STORE_SQLITE_PATH", "/var/lib/condconfig.db")
	t.Setenv("CONDCONFIG_TELEMETRY_LOGGING_LEVEL", "warn")
	t.Setenv("CONDCONFIG_WATCH_DEBOUNCE", "1s")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Bootstrap.Root != "/from/env" {
		t.Errorf("Root = %q, want env value", cfg.Bootstrap.Root)
	}
	if cfg.Bootstrap.OnMalformed != OnMalformedContinue {
		t.Errorf("OnMalformed = %q, want continue", cfg.Bootstrap.OnMalformed)
	}
	if len(cfg.Bootstrap.Extensions) != 2 || cfg.Bootstrap.Extensions[1] != ".policy" {
		t.Errorf("Extensions = %v", cfg.Bootstrap.Extensions)
	}
	if cfg.Store.SQLite.Path != "/var/lib/condconfig.db" {
		t.Errorf("SQLite.Path = %q", cfg.Store.SQLite.Path)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("unset override changed Store.Backend to %q", cfg.Store.Backend)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Telemetry.Logging.Level)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Watch.Debounce)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("CONDCONFIG_BOOTSTRAP_ON_MALFORMED", "sometimes")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation error after override")
	}
}

func TestDocumentDir_AbsoluteDataDir(t *testing.T) {
	cfg := MinimalConfig()
	cfg.Bootstrap.DataDir = "/opt/environments"

	if got := cfg.DocumentDir(); got != "/opt/environments" {
		t.Errorf("DocumentDir() = %q, want absolute data dir", got)
	}
}
