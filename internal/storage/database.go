// Package storage persists mind map documents in a SQLite database and
// reads and writes them as text files.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"mindmark/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	content TEXT NOT NULL,
	created DATETIME NOT NULL,
	updated DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS revisions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id INTEGER NOT NULL,
	content TEXT NOT NULL,
	created DATETIME NOT NULL,
	FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_revisions_document ON revisions(document_id);
`

// Database wraps the SQLite connection pool.
type Database struct {
	db     *sql.DB
	path   string
	logger *log.Logger
}

// OpenDatabase opens (creating if needed) the SQLite file at path and
// prepares the schema.
func OpenDatabase(ctx context.Context, path string, logger *log.Logger) (*Database, error) {
	if logger == nil {
		logger = log.Discard()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{db: db, path: path, logger: logger}
	if err := d.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info(ctx, "Database opened", log.Fields{"path": path})
	return d, nil
}

func (d *Database) initSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Path returns the database file.
func (d *Database) Path() string {
	return d.path
}

// Begin starts a transaction.
func (d *Database) Begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		d.logger.Error(ctx, "Failed to begin transaction", log.Fields{"error": err})
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Exec runs a statement outside any transaction.
func (d *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.logger.Debug(ctx, "Executing statement", log.Fields{"query": query})
	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		d.logger.Error(ctx, "Statement failed", log.Fields{"query": query, "error": err})
		return nil, err
	}
	return result, nil
}

// Query runs a query outside any transaction.
func (d *Database) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	d.logger.Debug(ctx, "Executing query", log.Fields{"query": query})
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		d.logger.Error(ctx, "Query failed", log.Fields{"query": query, "error": err})
		return nil, err
	}
	return rows, nil
}

// QueryRow runs a query expected to return at most one row.
func (d *Database) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	d.logger.Debug(ctx, "Executing query", log.Fields{"query": query})
	return d.db.QueryRowContext(ctx, query, args...)
}

// Close closes the connection pool.
func (d *Database) Close() error {
	if err := d.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
