// Package catalog persists a document Library: it snapshots templates to a
// persistence.Store, moves bundles through a blob.Store and seeds libraries
// from YAML fixtures.
package catalog

import (
	"fmt"

	"protoreg/internal/persistence"
	"protoreg/pkg/document"
)

// Encode converts a template into a persistence record.
func Encode(name string, t document.Template) (persistence.Record, error) {
	payload, err := document.Marshal(t)
	if err != nil {
		return persistence.Record{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return persistence.Record{Name: name, Kind: string(t.Kind()), Payload: payload}, nil
}

// Decode rebuilds the template held by r.
func Decode(r persistence.Record, opts ...document.Option) (document.Template, error) {
	kind, err := document.ParseKind(r.Kind)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Name, err)
	}
	t, err := document.Unmarshal(kind, r.Payload, opts...)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.Name, err)
	}
	return t, nil
}

// Records encodes every template registered in lib, ordered by name.
func Records(lib *document.Library) ([]persistence.Record, error) {
	names := lib.TemplateNames()
	out := make([]persistence.Record, 0, len(names))
	for _, name := range names {
		t, err := lib.Template(name)
		if err != nil {
			// removed concurrently
			continue
		}
		rec, err := Encode(name, t)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Apply validates and decodes every record before registering any, so a bad
// record leaves lib untouched.
func Apply(lib *document.Library, records []persistence.Record, opts ...document.Option) (int, error) {
	if err := persistence.Validate(records); err != nil {
		return 0, err
	}
	decoded := make([]document.Template, len(records))
	for i, r := range records {
		t, err := Decode(r, opts...)
		if err != nil {
			return 0, err
		}
		decoded[i] = t
	}
	for i, r := range records {
		lib.RegisterTemplate(r.Name, decoded[i])
	}
	return len(records), nil
}
