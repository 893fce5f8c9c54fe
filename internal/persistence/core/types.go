// Package core defines the record format and store contract shared by the
// template catalog backends under internal/infra/persistence.
package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Driver identifies a catalog persistence backend.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Record is one persisted template. Payload is the JSON encoding of the
// template selected by Kind.
type Record struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	Payload []byte `json:"payload" yaml:"-"`
}

// Store persists the complete template set. Save replaces everything that
// was stored before; Load returns records ordered by name.
type Store interface {
	Save(ctx context.Context, records []Record) error
	Load(ctx context.Context) ([]Record, error)
	Driver() Driver
	Close() error
}

// ErrInvalidRecord is wrapped when a record set fails validation.
var ErrInvalidRecord = errors.New("persistence: invalid record")

// Validate rejects empty names, empty kinds and duplicate names.
func Validate(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.Name == "" {
			return fmt.Errorf("%w: record %d has no name", ErrInvalidRecord, i)
		}
		if r.Kind == "" {
			return fmt.Errorf("%w: record %s has no kind", ErrInvalidRecord, r.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return fmt.Errorf("%w: duplicate name %s", ErrInvalidRecord, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of records sorted by name.
func Clone(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		r.Payload = append([]byte(nil), r.Payload...)
		out[i] = r
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
