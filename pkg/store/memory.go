package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"mercator-hq/condconfig/pkg/commerce"
)

// MemoryStore keeps imported entities in memory. All data is lost when the
// process exits. It is safe for concurrent use.
type MemoryStore struct {
	mu           sync.RWMutex
	environments map[string]*commerce.Environment
	policySets   map[string]*commerce.PolicySet
	runs         []*RunRecord
	now          func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		environments: make(map[string]*commerce.Environment),
		policySets:   make(map[string]*commerce.PolicySet),
		now:          time.Now,
	}
}

// ImportEnvironment implements Store.
func (m *MemoryStore) ImportEnvironment(ctx context.Context, raw string) (*commerce.Environment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env, err := commerce.ParseEnvironment(raw)
	if err != nil {
		return nil, &StorageError{Backend: "memory", Operation: "import_environment", Cause: err}
	}
	env.ImportedAt = m.now()

	m.mu.Lock()
	m.environments[env.ID] = env
	m.mu.Unlock()

	copied := *env
	return &copied, nil
}

// ImportPolicySet implements Store.
func (m *MemoryStore) ImportPolicySet(ctx context.Context, raw string) (*commerce.PolicySet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ps, err := commerce.ParsePolicySet(raw)
	if err != nil {
		return nil, &StorageError{Backend: "memory", Operation: "import_policy_set", Cause: err}
	}
	ps.ImportedAt = m.now()

	m.mu.Lock()
	m.policySets[ps.ID] = ps
	m.mu.Unlock()

	copied := *ps
	return &copied, nil
}

// RecordRun implements Store.
func (m *MemoryStore) RecordRun(ctx context.Context, run *RunRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	copied := *run

	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.runs {
		if r.ID == run.ID {
			m.runs[i] = &copied
			return nil
		}
	}
	m.runs = append(m.runs, &copied)
	return nil
}

// Environments implements Store.
func (m *MemoryStore) Environments(ctx context.Context) ([]*commerce.Environment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*commerce.Environment, 0, len(m.environments))
	for _, env := range m.environments {
		copied := *env
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PolicySets implements Store.
func (m *MemoryStore) PolicySets(ctx context.Context) ([]*commerce.PolicySet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*commerce.PolicySet, 0, len(m.policySets))
	for _, ps := range m.policySets {
		copied := *ps
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Runs implements Store.
func (m *MemoryStore) Runs(ctx context.Context, limit int) ([]*RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*RunRecord, 0, len(m.runs))
	for i := len(m.runs) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		copied := *m.runs[i]
		out = append(out, &copied)
	}
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}
