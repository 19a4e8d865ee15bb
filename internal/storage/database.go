package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
-- Committed selections, one row per pick
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    mode TEXT NOT NULL,
    value TEXT NOT NULL,
    picked_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_history_picked_at ON history(picked_at);
CREATE INDEX IF NOT EXISTS idx_history_mode ON history(mode);
`

// Database wraps a SQL database connection
type Database struct {
	db *sql.DB
}

// NewDatabase creates a new database connection and initializes the schema
func NewDatabase(path string) (*Database, error) {
	// Open database with WAL mode for better concurrent access
	db, err := sql.Open("sqlite", path+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// DB exposes the underlying connection to repositories
func (d *Database) DB() *sql.DB {
	return d.db
}
