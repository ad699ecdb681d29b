// Package storage provides corpus.Storage backends.
//
// # Storage Backends
//
//   - SQLite: durable storage in a single database file
//   - Memory: in-memory maps for tests and dataset files
//   - Cached: wraps another backend and reuses its last Snapshot
//
// # SQLite Backend
//
// The SQLite backend works with two database/sql drivers, selected by
// SQLiteConfig.Driver:
//
//   - "sqlite": modernc.org/sqlite, pure Go, the default
//   - "sqlite3": github.com/mattn/go-sqlite3, requires cgo
//
// Statement types and their variables are stored as rows, as are coded
// values (one row per statement and variable). The schema is fixed no matter
// how many statement types a corpus declares. WAL mode, the busy timeout and
// the connection pool are configurable; the schema version is tracked in the
// schema_version table.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{
//	    Path:        "data/corpus.db",
//	    Driver:      storage.DriverModernc,
//	    WALMode:     true,
//	    BusyTimeout: 5 * time.Second,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	ds, err := storage.LoadDataset("corpus.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := storage.ImportDataset(ctx, store, ds, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	snap, err := store.Snapshot(ctx)
//
// # Caching
//
// Watched and scheduled exports take a snapshot on every run. NewCachedStorage
// keeps the last snapshot in a TTL cache (github.com/patrickmn/go-cache) and
// drops it whenever a record is written through the wrapper.
package storage
