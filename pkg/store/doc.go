// Package store persists the entities created by the bootstrap import commands.
//
// # Backends
//
//   - SQLiteStore: durable storage in a single SQLite file. The "sqlite" driver
//     (modernc.org/sqlite, pure Go) is the default; "sqlite3"
//     (github.com/mattn/go-sqlite3) can be selected for cgo builds.
//   - MemoryStore: in-memory storage for tests and dry runs.
//
// Entities are keyed by id and written with an upsert, so re-running a
// bootstrap import over the same directory converges to the same state.
//
// # Basic Usage
//
//	s, err := store.New(&cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	env, err := s.ImportEnvironment(ctx, raw)
package store
