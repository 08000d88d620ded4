package store

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the tables used by SQLiteStore.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS environments (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	raw         TEXT NOT NULL,
	imported_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS policy_sets (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	policy_count INTEGER NOT NULL,
	conditional  INTEGER NOT NULL,
	raw          TEXT NOT NULL,
	imported_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS import_runs (
	id          TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	state       TEXT NOT NULL,
	files       INTEGER NOT NULL,
	imported    INTEGER NOT NULL,
	skipped     INTEGER NOT NULL,
	failed      INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_import_runs_started_at ON import_runs(started_at);
`

const (
	insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	getSchemaVersion    = `SELECT MAX(version) FROM schema_version`

	upsertEnvironment = `
INSERT INTO environments (id, name, raw, imported_at)
VALUES (?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	raw = excluded.raw,
	imported_at = excluded.imported_at`

	upsertPolicySet = `
INSERT INTO policy_sets (id, name, policy_count, conditional, raw, imported_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	name = excluded.name,
	policy_count = excluded.policy_count,
	conditional = excluded.conditional,
	raw = excluded.raw,
	imported_at = excluded.imported_at`

	upsertRun = `
INSERT INTO import_runs (id, started_at, finished_at, state, files, imported, skipped, failed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	finished_at = excluded.finished_at,
	state = excluded.state,
	files = excluded.files,
	imported = excluded.imported,
	skipped = excluded.skipped,
	failed = excluded.failed`

	selectEnvironments = `SELECT id, name, raw, imported_at FROM environments ORDER BY id`
	selectPolicySets   = `SELECT id, name, policy_count, conditional, raw, imported_at FROM policy_sets ORDER BY id`
	selectRuns         = `SELECT id, started_at, finished_at, state, files, imported, skipped, failed FROM import_runs ORDER BY started_at DESC, id`
)
