// Package sqlite persists the template catalog to a single SQLite table
// using the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"protoreg/internal/persistence/core"
)

// DefaultPath is used when New receives an empty path.
const DefaultPath = "protoreg.db"

// Store keeps one row per template.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// New opens (creating if needed) the database at path and ensures the
// templates table exists.
func New(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS templates (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create templates table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Driver reports core.DriverSQLite.
func (s *Store) Driver() core.Driver { return core.DriverSQLite }

// Save replaces the table contents inside one transaction.
func (s *Store) Save(ctx context.Context, records []core.Record) (retErr error) {
	if err := core.Validate(records); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM templates`); err != nil {
		return fmt.Errorf("clear templates: %w", err)
	}
	for _, r := range records {
		payload := r.Payload
		if payload == nil {
			payload = []byte{}
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO templates(name,kind,payload) VALUES(?,?,?)`, r.Name, r.Kind, payload); err != nil {
			return fmt.Errorf("insert %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Load reads every row ordered by name.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, kind, payload FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("select templates: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []core.Record
	for rows.Next() {
		var r core.Record
		if err := rows.Scan(&r.Name, &r.Kind, &r.Payload); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
