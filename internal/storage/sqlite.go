// Package storage persists the last fetched invoice history in a local
// SQLite file. The cache serves offline listings and the known-good snapshot
// the UI rolls back to when an optimistic mutation fails.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nivke/invoiceflow/internal/model"
	"github.com/nivke/invoiceflow/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const metaFetchedAt = "fetched_at"

// SQLiteStore implements the SnapshotStore interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

var _ service.SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the snapshot database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath is required")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db, dbPath: dbPath}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS invoice_snapshot (
		id       TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		data     TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the cached history with the given invoices,
// preserving their order, and stamps the fetch time.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, invoices []model.Invoice) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM invoice_snapshot`); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO invoice_snapshot (id, position, data) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range invoices {
		data, err := json.Marshal(invoices[i])
		if err != nil {
			return fmt.Errorf("failed to encode invoice %s: %w", invoices[i].ID, err)
		}
		if _, err := stmt.ExecContext(ctx, invoices[i].ID, i, string(data)); err != nil {
			return fmt.Errorf("failed to insert invoice %s: %w", invoices[i].ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaFetchedAt, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to stamp snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached invoices in their original order, along
// with when they were fetched. An empty cache yields an empty slice and a
// zero time, not an error.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) ([]model.Invoice, time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM invoice_snapshot ORDER BY position`)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to query snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var invoices []model.Invoice
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		var inv model.Invoice
		if err := json.Unmarshal([]byte(data), &inv); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to decode snapshot row: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var fetchedAt time.Time
	var stamp string
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM snapshot_meta WHERE key = ?`, metaFetchedAt).Scan(&stamp)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// never saved; zero time
	case err != nil:
		return nil, time.Time{}, fmt.Errorf("failed to read snapshot stamp: %w", err)
	default:
		if t, parseErr := time.Parse(time.RFC3339, stamp); parseErr == nil {
			fetchedAt = t
		}
	}

	return invoices, fetchedAt, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
