package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"dna-hq/netexport/pkg/corpus"
)

const (
	// DriverModernc is the pure Go driver registered by modernc.org/sqlite.
	DriverModernc = "sqlite"
	// DriverMattn is the cgo driver registered by github.com/mattn/go-sqlite3.
	DriverMattn = "sqlite3"
)

const timeLayout = time.RFC3339Nano

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver selects the database/sql driver: "sqlite" (modernc.org/sqlite,
	// no cgo) or "sqlite3" (github.com/mattn/go-sqlite3).
	// Default: "sqlite"
	Driver string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/corpus.db",
		Driver:       DriverModernc,
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStorage implements corpus.Storage using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	mu     sync.Mutex
	logger *slog.Logger
}

// NewSQLiteStorage opens (or creates) the database at config.Path and
// initializes the schema.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverModernc
	}
	if config.Driver != DriverModernc && config.Driver != DriverMattn {
		return nil, corpus.NewStorageError("sqlite", "open",
			fmt.Errorf("unknown driver %q (valid: %s, %s)", config.Driver, DriverModernc, DriverMattn))
	}

	logger := slog.Default().With("component", "corpus.storage.sqlite")

	db, err := sql.Open(config.Driver, config.Path)
	if err != nil {
		return nil, corpus.NewStorageError("sqlite", "open", err)
	}

	// Every connection to ":memory:" is a separate database.
	if config.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(config.MaxOpenConns)
		db.SetMaxIdleConns(config.MaxIdleConns)
	}

	s := &SQLiteStorage{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite storage initialized",
		"path", config.Path,
		"driver", config.Driver,
		"wal_mode", config.WALMode,
		"max_open_conns", config.MaxOpenConns,
	)

	return s, nil
}

// initialize sets up pragmas and the database schema.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return corpus.NewStorageError("sqlite", "enable_wal", err)
		}
		s.logger.Debug("WAL mode enabled")
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return corpus.NewStorageError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return corpus.NewStorageError("sqlite", "create_schema", err)
	}
	s.logger.Debug("database schema created")

	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return corpus.NewStorageError("sqlite", "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return corpus.NewStorageError("sqlite", "get_schema_version", err)
	}
	if version != SchemaVersion {
		return corpus.NewStorageError("sqlite", "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}

	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// withTx runs fn in a transaction, committing on success.
func (s *SQLiteStorage) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return corpus.NewStorageError("sqlite", op, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		var storageErr *corpus.StorageError
		if errors.As(err, &storageErr) {
			return err
		}
		return corpus.NewStorageError("sqlite", op, err)
	}
	if err := tx.Commit(); err != nil {
		return corpus.NewStorageError("sqlite", op, err)
	}
	return nil
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// nullableID maps the zero id to NULL so SQLite assigns the next rowid.
func nullableID(id int) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

// StoreDocument persists a document.
func (s *SQLiteStorage) StoreDocument(ctx context.Context, doc *corpus.Document) error {
	return s.withTx(ctx, "store_document", func(tx *sql.Tx) error {
		if doc.ID != 0 {
			dup, err := exists(ctx, tx, `SELECT 1 FROM documents WHERE id = ?`, doc.ID)
			if err != nil {
				return err
			}
			if dup {
				return fmt.Errorf("%w: document id %d", corpus.ErrDuplicate, doc.ID)
			}
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO documents (id, title, author, source, section, type, text, date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			nullableID(doc.ID), doc.Title, doc.Author, doc.Source, doc.Section, doc.Type, doc.Text,
			doc.Date.Format(timeLayout),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		doc.ID = int(id)
		return nil
	})
}

// StoreStatementType persists a statement type and its variables.
func (s *SQLiteStorage) StoreStatementType(ctx context.Context, st *corpus.StatementType) error {
	if err := st.Validate(); err != nil {
		return corpus.NewStorageError("sqlite", "store_statement_type", err)
	}

	return s.withTx(ctx, "store_statement_type", func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx, `SELECT 1 FROM statement_types WHERE id = ? OR label = ?`, st.ID, st.Label)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: statement type id %d or label %q", corpus.ErrDuplicate, st.ID, st.Label)
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO statement_types (id, label, color) VALUES (?, ?, ?)`,
			nullableID(st.ID), st.Label, st.Color,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for pos, v := range st.Variables {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO variables (statement_type_id, position, name, data_type) VALUES (?, ?, ?, ?)`,
				id, pos, v.Name, string(v.Type),
			); err != nil {
				return err
			}
		}

		st.ID = int(id)
		return nil
	})
}

// StoreStatement persists a statement and its values.
func (s *SQLiteStorage) StoreStatement(ctx context.Context, stmt *corpus.Statement) error {
	return s.withTx(ctx, "store_statement", func(tx *sql.Tx) error {
		if stmt.ID != 0 {
			dup, err := exists(ctx, tx, `SELECT 1 FROM statements WHERE id = ?`, stmt.ID)
			if err != nil {
				return err
			}
			if dup {
				return fmt.Errorf("%w: statement id %d", corpus.ErrDuplicate, stmt.ID)
			}
		}

		found, err := exists(ctx, tx, `SELECT 1 FROM documents WHERE id = ?`, stmt.DocumentID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %d", corpus.ErrUnknownDocument, stmt.DocumentID)
		}

		st, err := loadStatementType(ctx, tx, stmt.StatementTypeID)
		if err != nil {
			return err
		}
		if err := stmt.CheckSchema(st); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO statements (id, statement_type_id, document_id, start, stop, date)
			VALUES (?, ?, ?, ?, ?, ?)`,
			nullableID(stmt.ID), stmt.StatementTypeID, stmt.DocumentID, stmt.Start, stmt.Stop,
			stmt.Date.Format(timeLayout),
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		for _, v := range st.Variables {
			val := stmt.Values[v.Name]
			var textVal, intVal interface{}
			if n, ok := val.Int(); ok {
				intVal = n
			} else {
				textVal = val.String()
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO statement_values (statement_id, variable, text_value, int_value) VALUES (?, ?, ?, ?)`,
				id, v.Name, textVal, intVal,
			); err != nil {
				return err
			}
		}

		stmt.ID = int(id)
		return nil
	})
}

func loadStatementType(ctx context.Context, tx *sql.Tx, id int) (*corpus.StatementType, error) {
	st := &corpus.StatementType{ID: id}
	err := tx.QueryRowContext(ctx, `SELECT label, color FROM statement_types WHERE id = ?`, id).
		Scan(&st.Label, &st.Color)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %d", corpus.ErrUnknownStatementType, id)
	}
	if err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT name, data_type FROM variables WHERE statement_type_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var v corpus.Variable
		var dt string
		if err := rows.Scan(&v.Name, &dt); err != nil {
			return nil, err
		}
		v.Type = corpus.DataType(dt)
		st.Variables = append(st.Variables, v)
	}
	return st, rows.Err()
}

// Snapshot reads the whole corpus inside one transaction.
func (s *SQLiteStorage) Snapshot(ctx context.Context) (*corpus.Snapshot, error) {
	var snap *corpus.Snapshot
	err := s.withTx(ctx, "snapshot", func(tx *sql.Tx) error {
		types, err := s.loadStatementTypes(ctx, tx)
		if err != nil {
			return err
		}
		documents, err := s.loadDocuments(ctx, tx)
		if err != nil {
			return err
		}
		statements, err := s.loadStatements(ctx, tx)
		if err != nil {
			return err
		}
		snap = corpus.NewSnapshot(statements, documents, types)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("snapshot loaded", "statements", snap.Len(), "documents", snap.DocumentCount())
	return snap, nil
}

func (s *SQLiteStorage) loadStatementTypes(ctx context.Context, tx *sql.Tx) ([]corpus.StatementType, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT t.id, t.label, t.color, v.name, v.data_type
		FROM statement_types t
		LEFT JOIN variables v ON v.statement_type_id = t.id
		ORDER BY t.id, v.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []corpus.StatementType
	for rows.Next() {
		var (
			id           int
			label, color string
			name, dt     sql.NullString
		)
		if err := rows.Scan(&id, &label, &color, &name, &dt); err != nil {
			return nil, err
		}
		if len(types) == 0 || types[len(types)-1].ID != id {
			types = append(types, corpus.StatementType{ID: id, Label: label, Color: color})
		}
		if name.Valid {
			last := &types[len(types)-1]
			last.Variables = append(last.Variables, corpus.Variable{Name: name.String, Type: corpus.DataType(dt.String)})
		}
	}
	return types, rows.Err()
}

func (s *SQLiteStorage) loadDocuments(ctx context.Context, tx *sql.Tx) ([]corpus.Document, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id, title, author, source, section, type, text, date FROM documents ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var documents []corpus.Document
	for rows.Next() {
		var doc corpus.Document
		var date string
		if err := rows.Scan(&doc.ID, &doc.Title, &doc.Author, &doc.Source, &doc.Section, &doc.Type, &doc.Text, &date); err != nil {
			return nil, err
		}
		if doc.Date, err = time.Parse(timeLayout, date); err != nil {
			return nil, fmt.Errorf("document %d: parse date: %w", doc.ID, err)
		}
		documents = append(documents, doc)
	}
	return documents, rows.Err()
}

func (s *SQLiteStorage) loadStatements(ctx context.Context, tx *sql.Tx) ([]corpus.Statement, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT s.id, s.statement_type_id, s.document_id, s.start, s.stop, s.date,
		       v.variable, v.text_value, v.int_value
		FROM statements s
		LEFT JOIN statement_values v ON v.statement_id = s.id
		ORDER BY s.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []corpus.Statement
	for rows.Next() {
		var (
			stmt     corpus.Statement
			date     string
			variable sql.NullString
			textVal  sql.NullString
			intVal   sql.NullInt64
		)
		if err := rows.Scan(&stmt.ID, &stmt.StatementTypeID, &stmt.DocumentID, &stmt.Start, &stmt.Stop, &date,
			&variable, &textVal, &intVal); err != nil {
			return nil, err
		}

		if len(statements) == 0 || statements[len(statements)-1].ID != stmt.ID {
			if stmt.Date, err = time.Parse(timeLayout, date); err != nil {
				return nil, fmt.Errorf("statement %d: parse date: %w", stmt.ID, err)
			}
			stmt.Values = make(map[string]corpus.Value)
			statements = append(statements, stmt)
		}
		if !variable.Valid {
			continue
		}

		last := &statements[len(statements)-1]
		if intVal.Valid {
			last.Values[variable.String] = corpus.IntValue(int(intVal.Int64))
		} else {
			last.Values[variable.String] = corpus.TextValue(textVal.String)
		}
	}
	return statements, rows.Err()
}

// Close releases resources held by the storage backend.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return corpus.NewStorageError("sqlite", "close", err)
	}

	s.logger.Info("SQLite storage closed")
	return nil
}
