// Package sqlite implements the repository interfaces on an embedded SQLite
// database. A single *DB owns the connection pool for all three stores
// (entries, users, key-value) and is opened once per process.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so the
// binary builds without CGo and cross-compiles cleanly.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time, and every pooled connection to
	// ":memory:" would otherwise see its own empty database.
	conn.SetMaxOpenConns(1)

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL keeps readers unblocked during writes; the busy timeout covers the
	// occasional write contention between the HTTP surface and the CLI.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers defer this right after
// New succeeds.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema and applies in-place upgrades. Every step is
// idempotent, so migrate is safe to run on every open.
func (db *DB) migrate() error {
	// journal_entries: schema version 2. Version 1 lacked is_favorite; the
	// guarded ALTER TABLE below upgrades old databases without data loss.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS journal_entries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			content     TEXT NOT NULL,
			date        TEXT NOT NULL,
			is_favorite INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_journal_entries_date ON journal_entries(date);
	`)
	if err != nil {
		return fmt.Errorf("creating journal_entries table: %w", err)
	}

	if err := db.addColumnIfNotExists("journal_entries", "is_favorite",
		"INTEGER NOT NULL DEFAULT 0"); err != nil {
		return fmt.Errorf("adding is_favorite to journal_entries: %w", err)
	}

	// users: schema version 1. The UNIQUE constraint on email is the
	// storage-level backstop for the service's duplicate check.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			name       TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// kv_store holds the quote cache and app settings, partitioned by
	// namespace so the cache can be wiped without touching settings.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			namespace TEXT NOT NULL,
			key       TEXT NOT NULL,
			value     TEXT NOT NULL,
			PRIMARY KEY (namespace, key)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating kv_store table: %w", err)
	}

	return nil
}

// addColumnIfNotExists adds a column to a table only if it doesn't already
// exist, making ALTER TABLE migrations idempotent.
func (db *DB) addColumnIfNotExists(table, column, definition string) error {
	var count int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`,
		table, column,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking column %s.%s: %w", table, column, err)
	}
	if count > 0 {
		return nil
	}
	_, err = db.conn.Exec(fmt.Sprintf(
		`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition,
	))
	return err
}
