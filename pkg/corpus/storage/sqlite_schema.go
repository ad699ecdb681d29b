package storage

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema contains the SQL statements to create the corpus database schema.
//
// Variable schemas are rows in the variables table and coded values are rows
// in statement_values, so adding a statement type never changes the table
// layout.
const Schema = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT '',
    section TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS statement_types (
    id INTEGER PRIMARY KEY,
    label TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS variables (
    statement_type_id INTEGER NOT NULL REFERENCES statement_types(id),
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    data_type TEXT NOT NULL,
    PRIMARY KEY (statement_type_id, name)
);

CREATE TABLE IF NOT EXISTS statements (
    id INTEGER PRIMARY KEY,
    statement_type_id INTEGER NOT NULL REFERENCES statement_types(id),
    document_id INTEGER NOT NULL REFERENCES documents(id),
    start INTEGER NOT NULL,
    stop INTEGER NOT NULL,
    date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS statement_values (
    statement_id INTEGER NOT NULL REFERENCES statements(id),
    variable TEXT NOT NULL,
    text_value TEXT,
    int_value INTEGER,
    PRIMARY KEY (statement_id, variable)
);

-- Schema version table
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_statements_type ON statements(statement_type_id);
CREATE INDEX IF NOT EXISTS idx_statements_document ON statements(document_id);
CREATE INDEX IF NOT EXISTS idx_variables_position ON variables(statement_type_id, position);
`

// InsertSchemaVersion inserts the schema version into the schema_version table.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion retrieves the current schema version from the database.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
