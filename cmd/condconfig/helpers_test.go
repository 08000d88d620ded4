package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

const (
	environmentDoc   = `{"$type": "Sitecore.Commerce.Core.CommerceEnvironment, Sitecore.Commerce.Core", "Name": "HabitatAuthoring"}`
	policySetDoc     = `{"$type": "Sitecore.Commerce.Core.PolicySet, Sitecore.Commerce.Core", "Id": "Entity-PolicySet-GlobalPolicySet"}`
	usPolicySetDoc   = `{"$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet", "Id": "Entity-PolicySet-UsOnly", "Conditions": {"Region": "^US$"}}`
	euPolicySetDoc   = `{"$type": "Sitecore.Commerce.Plugin.ConditionalConfigs.Entities.ConditionalPolicySet", "Id": "Entity-PolicySet-EuOnly", "Conditions": {"Region": "^EU$"}}`
	unrelatedTypeDoc = `{"$type": "Sitecore.Commerce.Plugin.Catalog.Catalog, Sitecore.Commerce.Plugin.Catalog"}`
	malformedDoc     = `{}`
)

// testEnv is a web root with a config file pointing at it.
type testEnv struct {
	root       string
	configPath string
}

// newTestEnv writes documents under <root>/data/environments and a config
// file whose store section is storeYAML. extraYAML is appended verbatim.
func newTestEnv(t *testing.T, docs map[string]string, storeYAML, extraYAML string) *testEnv {
	t.Helper()

	root := t.TempDir()
	dir := filepath.Join(root, "data", "environments")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create document dir: %v", err)
	}
	for name, content := range docs {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create dir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}

	if storeYAML == "" {
		storeYAML = "store:\n  backend: memory\n"
	}
	configYAML := "bootstrap:\n  root: " + root + "\n" +
		storeYAML +
		"app_settings:\n  Region: US\n" +
		extraYAML

	configPath := filepath.Join(root, "condconfig.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &testEnv{root: root, configPath: configPath}
}

// useConfig points the global config flag at path for the duration of the test.
func useConfig(t *testing.T, path string) {
	t.Helper()
	origConfig, origVerbose := cfgFile, verbose
	cfgFile, verbose = path, false
	t.Cleanup(func() {
		cfgFile, verbose = origConfig, origVerbose
	})
}

// captureOutput redirects cmd's stdout and stderr into buffers.
func captureOutput(t *testing.T, cmd *cobra.Command) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetErr(nil)
	})
	return stdout, stderr
}

// decodeRows parses JSON table output into rows keyed by the "file" column.
func decodeRows(t *testing.T, out []byte) map[string]map[string]string {
	t.Helper()
	var rows []map[string]string
	if err := json.Unmarshal(out, &rows); err != nil {
		t.Fatalf("output is not a JSON table: %v\n%s", err, out)
	}
	byFile := make(map[string]map[string]string, len(rows))
	for _, row := range rows {
		byFile[row["file"]] = row
	}
	return byFile
}

// logMessages returns the msg field of every JSON log line.
func logMessages(t *testing.T, logs string) []string {
	t.Helper()
	var msgs []string
	for _, line := range strings.Split(strings.TrimSpace(logs), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v\n%s", err, line)
		}
		if msg, ok := entry["msg"].(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
