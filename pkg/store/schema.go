package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}
	if err := createResultsTable(db); err != nil {
		return fmt.Errorf("creating results table: %w", err)
	}
	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		_, err = db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, SchemaVersion)
	}
	return err
}

func createResultsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS results (
			path             TEXT PRIMARY KEY,
			changed          INTEGER NOT NULL,
			injections       INTEGER NOT NULL,
			directives       INTEGER NOT NULL,
			bytes_in         INTEGER NOT NULL,
			bytes_out        INTEGER NOT NULL,
			diagnostics_json TEXT NOT NULL
		)
	`)
	return err
}
