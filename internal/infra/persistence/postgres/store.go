// Package postgres persists the template catalog to PostgreSQL through the
// pgx database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"protoreg/internal/persistence/core"
)

const (
	driverName = "pgx"
	// DefaultDSN is used when New receives an empty DSN.
	DefaultDSN = "postgres://localhost/protoreg?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store keeps one row per template in a JSONB column.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New connects to dsn, verifies the connection and ensures the templates
// table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(driverName, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS templates (
		name TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		payload JSONB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure templates table: %w", err)
	}
	return &Store{db: db}, nil
}

// Driver reports core.DriverPostgres.
func (s *Store) Driver() core.Driver { return core.DriverPostgres }

// Save replaces the table contents inside one transaction.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	if err := core.Validate(records); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM templates`); err != nil {
		return fmt.Errorf("clear templates: %w", err)
	}
	for _, r := range records {
		payload := r.Payload
		if len(payload) == 0 {
			payload = []byte("null")
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO templates(name,kind,payload) VALUES($1,$2,$3)`, r.Name, r.Kind, string(payload)); err != nil {
			return fmt.Errorf("insert %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
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
		var (
			r       core.Record
			payload []byte
		)
		if err := rows.Scan(&r.Name, &r.Kind, &payload); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		r.Payload = append([]byte(nil), payload...)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return out, nil
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sql.Open seam for tests and returns a restore
// function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
