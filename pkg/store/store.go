package store

import (
	"context"
	"fmt"
	"time"

	"mercator-hq/condconfig/pkg/commerce"
	"mercator-hq/condconfig/pkg/config"
)

// Store persists imported environments and policy sets.
// Both import operations are idempotent: importing the same document twice
// replaces the stored copy.
type Store interface {
	// ImportEnvironment stores an environment document and returns the entity.
	ImportEnvironment(ctx context.Context, raw string) (*commerce.Environment, error)

	// ImportPolicySet stores a policy set document and returns the entity.
	ImportPolicySet(ctx context.Context, raw string) (*commerce.PolicySet, error)

	// RecordRun stores the summary of one import batch.
	RecordRun(ctx context.Context, run *RunRecord) error

	// Environments returns all stored environments ordered by id.
	Environments(ctx context.Context) ([]*commerce.Environment, error)

	// PolicySets returns all stored policy sets ordered by id.
	PolicySets(ctx context.Context) ([]*commerce.PolicySet, error)

	// Runs returns the most recent runs, newest first. limit <= 0 returns all.
	Runs(ctx context.Context, limit int) ([]*RunRecord, error)

	// Close releases resources held by the store.
	Close() error
}

// RunRecord summarizes one import batch.
type RunRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	State      string
	Files      int
	Imported   int
	Skipped    int
	Failed     int
}

// StorageError represents an error from a store backend.
type StorageError struct {
	Backend   string // Backend type ("sqlite", "memory")
	Operation string // Operation that failed ("open", "import_environment", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// New creates the store selected by cfg.Backend.
func New(cfg *config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		return NewSQLiteStore(&cfg.SQLite)
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}
