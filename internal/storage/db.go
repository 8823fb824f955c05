// Package storage exports analysis runs to a SQLite database so that runs
// over many projects, or over one project's history, can be compared with
// plain SQL.
package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB represents a database connection with transaction helpers
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
	dbPath string
}

// Open opens or creates the SQLite database at path. A new database gets
// the full schema; an existing one is migrated.
func Open(path string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbExists := fileExists(path)

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	db := &DB{conn: conn, logger: logger, dbPath: path}

	if !dbExists {
		logger.Info("Creating new database", "path", path)
		if err := db.initializeSchema(); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	} else {
		logger.Debug("Running database migrations", "path", path)
		if err := db.runMigrations(); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.dbPath
}

// WithTx executes fn within a transaction. The transaction is rolled back
// when fn returns an error and committed otherwise.
func (db *DB) WithTx(fn func(*sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.logger.Error("failed to rollback transaction",
				"error", err.Error(),
				"rollback_error", rbErr.Error(),
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// QueryRow executes a query that returns at most one row
func (db *DB) QueryRow(query string, args ...interface{}) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// Query executes a query that returns rows
func (db *DB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
