// Package store records conversion runs and their emitted samples in
// SQLite, as an optional sink alongside the CSV output.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for conversion runs.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time; keep a single connection
	// to avoid SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// RunWriter streams one conversion's rows into the store inside a single
// transaction. It implements the engine's RowWriter; Flush commits.
type RunWriter struct {
	ID      string
	store   *Store
	tx      *sql.Tx
	insert  *sql.Stmt
	columns []string
	seq     int64
	done    bool
}

// BeginRun registers a new run (UUIDv7 id) and returns a writer for its
// samples.
func (s *Store) BeginRun(source string, timescaleSec float64, columns []string) (*RunWriter, error) {
	id := uuid.Must(uuid.NewV7()).String()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin run: %w", err)
	}
	_, err = tx.Exec(
		"INSERT INTO runs (id, source, timescale_sec, columns) VALUES (?, ?, ?, ?)",
		id, source, timescaleSec, strings.Join(columns, ","),
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	insert, err := tx.Prepare(
		"INSERT INTO samples (run_id, seq, time_sec, signal, value) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	return &RunWriter{ID: id, store: s, tx: tx, insert: insert, columns: columns}, nil
}

// WriteHeader validates that the emitted columns match the registered run.
func (w *RunWriter) WriteHeader(columns []string) error {
	if len(columns) != len(w.columns) {
		return fmt.Errorf("column count mismatch: run has %d, writer got %d", len(w.columns), len(columns))
	}
	return nil
}

// WriteRow stores one emitted row, one samples record per column.
func (w *RunWriter) WriteRow(timeSec float64, values []string) error {
	w.seq++
	for i, v := range values {
		val := 0
		if v == "1" {
			val = 1
		}
		if _, err := w.insert.Exec(w.ID, w.seq, timeSec, w.columns[i], val); err != nil {
			return fmt.Errorf("failed to store sample: %w", err)
		}
	}
	return nil
}

// Flush commits the run's transaction. Safe to call once.
func (w *RunWriter) Flush() error {
	if w.done {
		return nil
	}
	w.done = true
	w.insert.Close()
	if err := w.tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// Abort rolls the run back. A no-op after Flush.
func (w *RunWriter) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	w.insert.Close()
	return w.tx.Rollback()
}

// SampleCount returns the number of stored samples for a run.
func (s *Store) SampleCount(runID string) (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM samples WHERE run_id = ?", runID).Scan(&n)
	return n, err
}
