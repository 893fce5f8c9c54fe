// Package memory keeps the template catalog in process memory.
package memory

import (
	"context"
	"sync"

	"protoreg/internal/persistence/core"
)

// Store holds the last saved record set.
type Store struct {
	mu      sync.RWMutex
	records []core.Record
}

// New returns an empty store.
func New() *Store { return &Store{} }

// Driver reports core.DriverMemory.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Save replaces the stored records with a copy of records.
func (s *Store) Save(ctx context.Context, records []core.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := core.Validate(records); err != nil {
		return err
	}
	cp := core.Clone(records)
	s.mu.Lock()
	s.records = cp
	s.mu.Unlock()
	return nil
}

// Load returns a copy of the stored records.
func (s *Store) Load(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Clone(s.records), nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
