package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // "sqlite3" driver (cgo)
	_ "modernc.org/sqlite"          // "sqlite" driver (pure Go)

	"mercator-hq/condconfig/pkg/commerce"
	"mercator-hq/condconfig/pkg/config"
)

// SQLiteStore implements Store on an SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	config *config.SQLiteConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewSQLiteStore opens (and creates if needed) the database at cfg.Path.
// cfg.Driver selects "sqlite" (modernc.org/sqlite) or "sqlite3" (mattn/go-sqlite3).
func NewSQLiteStore(cfg *config.SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, &StorageError{Backend: "sqlite", Operation: "open", Cause: fmt.Errorf("db path cannot be empty")}
	}
	driver := cfg.Driver
	if driver == "" {
		driver = config.DefaultSQLiteDriver
	}

	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, &StorageError{Backend: "sqlite", Operation: "create_dir", Cause: err}
			}
		}
	}

	db, err := sql.Open(driver, cfg.Path)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "open", Cause: err}
	}

	// SQLite only supports a single writer, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: cfg,
		logger: slog.Default().With("component", "store.sqlite"),
		now:    time.Now,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("SQLite store initialized",
		"path", cfg.Path,
		"driver", driver,
		"wal_mode", cfg.WALMode,
	)

	return s, nil
}

// initialize applies pragmas and creates the schema.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return &StorageError{Backend: "sqlite", Operation: "enable_wal", Cause: err}
		}
	}

	if s.config.BusyTimeout > 0 {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", s.config.BusyTimeout.Milliseconds())); err != nil {
			return &StorageError{Backend: "sqlite", Operation: "set_busy_timeout", Cause: err}
		}
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "create_schema", Cause: err}
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "insert_schema_version", Cause: err}
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return &StorageError{Backend: "sqlite", Operation: "get_schema_version", Cause: err}
	}
	if version != SchemaVersion {
		return &StorageError{Backend: "sqlite", Operation: "schema_version_mismatch",
			Cause: fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version)}
	}
	return nil
}

// ImportEnvironment implements Store.
func (s *SQLiteStore) ImportEnvironment(ctx context.Context, raw string) (*commerce.Environment, error) {
	env, err := commerce.ParseEnvironment(raw)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "import_environment", Cause: err}
	}
	env.ImportedAt = s.now().UTC()

	if _, err := s.db.ExecContext(ctx, upsertEnvironment,
		env.ID, env.Name, env.Raw, env.ImportedAt.UnixNano()); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "import_environment", Cause: err}
	}
	return env, nil
}

// ImportPolicySet implements Store.
func (s *SQLiteStore) ImportPolicySet(ctx context.Context, raw string) (*commerce.PolicySet, error) {
	ps, err := commerce.ParsePolicySet(raw)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "import_policy_set", Cause: err}
	}
	ps.ImportedAt = s.now().UTC()

	if _, err := s.db.ExecContext(ctx, upsertPolicySet,
		ps.ID, ps.Name, ps.PolicyCount, boolToInt(ps.Conditional), ps.Raw, ps.ImportedAt.UnixNano()); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "import_policy_set", Cause: err}
	}
	return ps, nil
}

// RecordRun implements Store.
func (s *SQLiteStore) RecordRun(ctx context.Context, run *RunRecord) error {
	_, err := s.db.ExecContext(ctx, upsertRun,
		run.ID,
		run.StartedAt.UnixNano(),
		run.FinishedAt.UnixNano(),
		run.State,
		run.Files,
		run.Imported,
		run.Skipped,
		run.Failed,
	)
	if err != nil {
		return &StorageError{Backend: "sqlite", Operation: "record_run", Cause: err}
	}
	return nil
}

// Environments implements Store.
func (s *SQLiteStore) Environments(ctx context.Context) ([]*commerce.Environment, error) {
	rows, err := s.db.QueryContext(ctx, selectEnvironments)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_environments", Cause: err}
	}
	defer rows.Close()

	var out []*commerce.Environment
	for rows.Next() {
		var (
			env        commerce.Environment
			importedAt int64
		)
		if err := rows.Scan(&env.ID, &env.Name, &env.Raw, &importedAt); err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan_environment", Cause: err}
		}
		env.ImportedAt = time.Unix(0, importedAt).UTC()
		out = append(out, &env)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_environments", Cause: err}
	}
	return out, nil
}

// PolicySets implements Store.
func (s *SQLiteStore) PolicySets(ctx context.Context) ([]*commerce.PolicySet, error) {
	rows, err := s.db.QueryContext(ctx, selectPolicySets)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_policy_sets", Cause: err}
	}
	defer rows.Close()

	var out []*commerce.PolicySet
	for rows.Next() {
		var (
			ps          commerce.PolicySet
			conditional int
			importedAt  int64
		)
		if err := rows.Scan(&ps.ID, &ps.Name, &ps.PolicyCount, &conditional, &ps.Raw, &importedAt); err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan_policy_set", Cause: err}
		}
		ps.Conditional = conditional != 0
		ps.ImportedAt = time.Unix(0, importedAt).UTC()
		out = append(out, &ps)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_policy_sets", Cause: err}
	}
	return out, nil
}

// Runs implements Store.
func (s *SQLiteStore) Runs(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := selectRuns
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_runs", Cause: err}
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		var (
			run               RunRecord
			started, finished int64
		)
		if err := rows.Scan(&run.ID, &started, &finished, &run.State,
			&run.Files, &run.Imported, &run.Skipped, &run.Failed); err != nil {
			return nil, &StorageError{Backend: "sqlite", Operation: "scan_run", Cause: err}
		}
		run.StartedAt = time.Unix(0, started).UTC()
		run.FinishedAt = time.Unix(0, finished).UTC()
		out = append(out, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Backend: "sqlite", Operation: "list_runs", Cause: err}
	}
	return out, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
