package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mercator-hq/condconfig/pkg/commerce"
	"mercator-hq/condconfig/pkg/config"
	"mercator-hq/condconfig/pkg/settings"
	"mercator-hq/condconfig/pkg/telemetry/logging"
)

const (
	environmentDoc      = `{"$type": "Sitecore.Commerce.Core.CommerceEnvironment, Sitecore.Commerce.Core", "Name": "HabitatAuthoring"}`
	policySetDoc        = `{"$type": "Sitecore.Commerce.Core.PolicySet, Sitecore.Commerce.Core", "Id": "Entity-PolicySet-GlobalPolicySet"}`
	usPolicySetDoc      = `{"$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet, Sitecore.Commerce.Plugin.ConditionalConfigs", "Id": "Entity-PolicySet-UsOnly", "Conditions": {"Region": "^US$"}}`
	noConditionsDoc     = `{"$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet", "Id": "Entity-PolicySet-Broken"}`
	badPatternDoc       = `{"$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet", "Conditions": {"Region": "(US"}}`
	emptyTypeDoc        = `{"$type": "", "Name": "Broken"}`
	unrelatedTypeDoc    = `{"$type": "Sitecore.Commerce.Plugin.Catalog.Catalog, Sitecore.Commerce.Plugin.Catalog"}`
	invalidJSONDoc      = `{"$type": "Sitecore.Commerce.Core.PolicySet"`
	failingEnvironment  = `{"$type": "Sitecore.Commerce.Core.CommerceEnvironment", "Name": "Fails"}`
	panickingPolicySet  = `{"$type": "Sitecore.Commerce.Core.PolicySet", "Name": "Panics"}`
	conditionalAllEmpty = `{"$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet", "Id": "Entity-PolicySet-Vacuous", "Conditions": {"": "^US$", "Region": ""}}`
)

// fakeCommands records every import call. Documents named "Fails" return an
// error and documents named "Panics" panic.
type fakeCommands struct {
	mu           sync.Mutex
	environments []string
	policySets   []string
}

func (f *fakeCommands) ImportEnvironment(ctx context.Context, raw string) (*commerce.Environment, error) {
	f.mu.Lock()
	f.environments = append(f.environments, raw)
	f.mu.Unlock()

	env, err := commerce.ParseEnvironment(raw)
	if err != nil {
		return nil, err
	}
	if env.Name == "Fails" {
		return nil, errors.New("environment store unavailable")
	}
	return env, nil
}

func (f *fakeCommands) ImportPolicySet(ctx context.Context, raw string) (*commerce.PolicySet, error) {
	f.mu.Lock()
	f.policySets = append(f.policySets, raw)
	f.mu.Unlock()

	ps, err := commerce.ParsePolicySet(raw)
	if err != nil {
		return nil, err
	}
	if ps.Name == "Panics" {
		panic("policy set command crashed")
	}
	return ps, nil
}

// fakeRecorder captures metric calls.
type fakeRecorder struct {
	documents []string
	outcomes  []string
	runs      []string
}

func (r *fakeRecorder) RecordDocument(kind string) { r.documents = append(r.documents, kind) }
func (r *fakeRecorder) RecordOutcome(kind, status string, _ time.Duration) {
	r.outcomes = append(r.outcomes, kind+"/"+status)
}
func (r *fakeRecorder) RecordRun(state string, _ time.Duration) { r.runs = append(r.runs, state) }

// writeDocs creates files under <root>/data/environments and returns root.
func writeDocs(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, config.DefaultDataDir)
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

func testBootstrapConfig(root string) *config.BootstrapConfig {
	return &config.BootstrapConfig{
		Root:        root,
		DataDir:     config.DefaultDataDir,
		Extensions:  config.DefaultExtensions(),
		MaxFileSize: config.DefaultMaxFileSize,
		OnMalformed: config.OnMalformedAbort,
	}
}

func testLogger(t *testing.T) (*logging.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	logger, err := logging.New(logging.Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger, &buf
}

func newTestImporter(t *testing.T, cfg *config.BootstrapConfig, appSettings map[string]string) (*Importer, *fakeCommands, *bytes.Buffer) {
	t.Helper()

	commands := &fakeCommands{}
	logger, buf := testLogger(t)
	imp, err := NewImporter(cfg, commands, settings.NewMapProvider(appSettings), logger)
	if err != nil {
		t.Fatalf("NewImporter() error = %v", err)
	}
	return imp, commands, buf
}
