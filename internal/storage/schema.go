package storage

import (
	"database/sql"
	"fmt"
)

// Schema version tracking
const currentSchemaVersion = 1

// initializeSchema creates all tables for a new database
func (db *DB) initializeSchema() error {
	return db.WithTx(func(tx *sql.Tx) error {
		if err := createSchemaVersionTable(tx); err != nil {
			return err
		}
		if err := createRunsTable(tx); err != nil {
			return err
		}
		if err := createFindingsTable(tx); err != nil {
			return err
		}
		if err := createBucketsTable(tx); err != nil {
			return err
		}
		if err := setSchemaVersion(tx, currentSchemaVersion); err != nil {
			return err
		}

		db.logger.Info("Database schema initialized", "version", currentSchemaVersion)
		return nil
	})
}

// runMigrations runs any pending schema migrations
func (db *DB) runMigrations() error {
	version, err := db.getSchemaVersion()
	if err != nil {
		return err
	}

	if version == currentSchemaVersion {
		db.logger.Debug("Database schema is up to date", "version", version)
		return nil
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	db.logger.Info("Running database migrations",
		"from_version", version,
		"to_version", currentSchemaVersion,
	)

	// Version 0 is a database file without our tables.
	if version == 0 {
		return db.initializeSchema()
	}
	return nil
}

// getSchemaVersion gets the current schema version
func (db *DB) getSchemaVersion() (int, error) {
	var tableName string
	err := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&tableName)

	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	var version int
	err = db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion sets the schema version
func setSchemaVersion(tx *sql.Tx, version int) error {
	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// createSchemaVersionTable creates the schema_version tracking table
func createSchemaVersionTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	return err
}

// createRunsTable creates the runs table, one row per analysis run with
// its code statistics.
func createRunsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			root TEXT NOT NULL,
			started_at TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			files INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			indexed_methods INTEGER NOT NULL,
			stats_json TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// createFindingsTable creates the findings table
func createFindingsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS findings (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('catch', 'call')),
			finding_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			file TEXT NOT NULL,
			line INTEGER NOT NULL,
			method TEXT,
			operations TEXT NOT NULL,
			log_level TEXT,
			call TEXT,
			guard TEXT,
			guard_line INTEGER,
			context_json TEXT NOT NULL,

			PRIMARY KEY (run_id, kind, finding_id),
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create findings table: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_findings_key ON findings(run_id, kind, key)",
		"CREATE INDEX IF NOT EXISTS idx_findings_file ON findings(file)",
	}
	for _, indexSQL := range indexes {
		if _, err := tx.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// createBucketsTable creates the buckets table holding the summary row of
// each grouping key.
func createBucketsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS buckets (
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('catch', 'call')),
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			findings INTEGER NOT NULL,
			logged INTEGER NOT NULL,
			thrown INTEGER NOT NULL,
			logged_and_thrown INTEGER NOT NULL,
			logged_not_thrown INTEGER NOT NULL,

			PRIMARY KEY (run_id, kind, key),
			FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create buckets table: %w", err)
	}
	return nil
}
