// Package persistence selects the catalog storage backend. Callers depend on
// the Store interface re-exported here rather than on the infra packages.
package persistence

import (
	"context"
	"fmt"

	memorystore "protoreg/internal/infra/persistence/memory"
	postgresstore "protoreg/internal/infra/persistence/postgres"
	sqlitestore "protoreg/internal/infra/persistence/sqlite"
	"protoreg/internal/persistence/core"
)

type (
	// Driver identifies a persistence backend.
	Driver = core.Driver
	// Record is one persisted template.
	Record = core.Record
	// Store is implemented by every backend.
	Store = core.Store
)

const (
	DriverMemory   = core.DriverMemory
	DriverSQLite   = core.DriverSQLite
	DriverPostgres = core.DriverPostgres
)

// ErrInvalidRecord is returned when a record set fails validation.
var ErrInvalidRecord = core.ErrInvalidRecord

// Validate rejects empty names, empty kinds and duplicate names.
func Validate(records []Record) error { return core.Validate(records) }

// Config selects and configures a backend.
type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string
}

// Open returns the backend named by cfg.Driver. An empty driver selects the
// in-memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return memorystore.New(), nil
	case DriverSQLite:
		s, err := sqlitestore.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres:
		s, err := postgresstore.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown persistence driver %q", cfg.Driver)
	}
}
