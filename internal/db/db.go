package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the schema version stamped into user_version.
const CurrentSchemaVersion = 1

// Init opens (creating if needed) the SQLite contact book at path and ensures
// the schema exists. The caller owns the returned handle and must Close it.
func Init(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Pragmas in the connection string apply to every connection
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One long-lived connection for the process
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	// Best-effort; the file exists once the schema is written
	_ = os.Chmod(path, 0600)

	return db, nil
}

// createSchema creates the contacts and contact_details tables when the
// database has not been stamped yet.
func createSchema(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}
	if version >= CurrentSchemaVersion {
		return nil
	}

	schema := `
	CREATE TABLE IF NOT EXISTS contacts (
	  id   INTEGER PRIMARY KEY AUTOINCREMENT,
	  name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS contact_details (
	  id         INTEGER PRIMARY KEY AUTOINCREMENT,
	  contact_id INTEGER NOT NULL REFERENCES contacts(id),
	  type       TEXT NOT NULL,
	  value      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contact_details_contact_id
	ON contact_details(contact_id);

	CREATE INDEX IF NOT EXISTS idx_contacts_name
	ON contacts(name);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema failed: %w", err)
	}
	return SetUserVersion(db, CurrentSchemaVersion)
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// WithTx runs fn inside a transaction. The transaction commits if fn returns
// nil and rolls back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
