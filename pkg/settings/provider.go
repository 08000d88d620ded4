// Package settings provides read-only, hierarchical runtime settings lookups.
//
// Keys use ':' as the section separator, e.g. "AppSettings:Region". An empty
// value is equivalent to an absent one and means "not configured".
package settings

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Separator splits hierarchical key sections.
const Separator = ":"

// AppSettingsSection is the section condition names are resolved under.
const AppSettingsSection = "AppSettings"

// AppSettingKey returns the namespaced key for a condition setting name.
func AppSettingKey(name string) string {
	return AppSettingsSection + Separator + name
}

// Provider looks up setting values by hierarchical key.
type Provider interface {
	// Lookup returns the value stored under key and whether it is configured.
	// An empty value reports false.
	Lookup(key string) (string, bool)
}

// MapProvider serves settings from an in-memory map with case-insensitive keys.
type MapProvider struct {
	values map[string]string
}

// NewMapProvider creates a provider over values. Keys are matched case-insensitively.
func NewMapProvider(values map[string]string) *MapProvider {
	p := &MapProvider{values: make(map[string]string, len(values))}
	for k, v := range values {
		p.values[strings.ToLower(k)] = v
	}
	return p
}

// FromSection flattens a nested settings tree under section into hierarchical keys.
// Nested maps produce "section:a:b"; scalar leaves are formatted with %v.
func FromSection(section string, tree map[string]any) *MapProvider {
	flat := make(map[string]string)
	flatten(section, tree, flat)
	return NewMapProvider(flat)
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for k, v := range tree {
		key := prefix + Separator + k
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprintf("%v", val)
		}
	}
}

// Lookup implements Provider.
func (p *MapProvider) Lookup(key string) (string, bool) {
	v, ok := p.values[strings.ToLower(key)]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Keys returns all configured keys in lower case, sorted.
func (p *MapProvider) Keys() []string {
	keys := make([]string, 0, len(p.values))
	for k := range p.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvProvider resolves keys from environment variables, replacing ':' with "__".
// "AppSettings:Region" is looked up as AppSettings__Region, then APPSETTINGS__REGION.
type EnvProvider struct {
	lookupEnv func(string) (string, bool)
}

// NewEnvProvider creates a provider backed by the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{lookupEnv: os.LookupEnv}
}

// EnvVarName converts a hierarchical key into its environment variable name.
func EnvVarName(key string) string {
	return strings.ReplaceAll(key, Separator, "__")
}

// Lookup implements Provider.
func (p *EnvProvider) Lookup(key string) (string, bool) {
	name := EnvVarName(key)
	if v, ok := p.lookupEnv(name); ok && v != "" {
		return v, true
	}
	if v, ok := p.lookupEnv(strings.ToUpper(name)); ok && v != "" {
		return v, true
	}
	return "", false
}

// Chain consults providers in order and returns the first configured value.
type Chain []Provider

// Lookup implements Provider.
func (c Chain) Lookup(key string) (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v, ok := p.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}
