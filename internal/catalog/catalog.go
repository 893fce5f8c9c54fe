package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"protoreg/internal/blob"
	"protoreg/internal/persistence"
	"protoreg/pkg/document"
	"protoreg/pkg/prototype"
)

// BundleVersion is the only bundle format Import accepts.
const BundleVersion = 1

// ErrBundleVersion is returned when Import meets an unsupported bundle.
var ErrBundleVersion = errors.New("catalog: unsupported bundle version")

// Bundle is the blob representation of an exported library.
type Bundle struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Templates  []BundleEntry `json:"templates"`
}

// BundleEntry is one template inside a Bundle.
type BundleEntry struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Template json.RawMessage `json:"template"`
}

// Options configures Open.
type Options struct {
	Persistence persistence.Config
	Blob        blob.Config
	Logger      prototype.Logger
	// Now stamps exported bundles; nil uses UTC wall time.
	Now func() time.Time
}

// Catalog binds a library to its storage backends.
type Catalog struct {
	lib    *document.Library
	store  persistence.Store
	blobs  blob.Store
	logger prototype.Logger
	now    func() time.Time
}

// Open connects the configured backends for lib.
func Open(ctx context.Context, lib *document.Library, opts Options) (*Catalog, error) {
	store, err := persistence.Open(ctx, opts.Persistence)
	if err != nil {
		return nil, fmt.Errorf("open catalog store: %w", err)
	}
	blobs, err := blob.Open(ctx, opts.Blob)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	return New(lib, store, blobs, opts.Logger, opts.Now), nil
}

// New assembles a catalog from existing backends. A nil logger discards
// output and a nil now uses UTC wall time.
func New(lib *document.Library, store persistence.Store, blobs blob.Store, logger prototype.Logger, now func() time.Time) *Catalog {
	if logger == nil {
		logger = nopLogger{}
	}
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Catalog{lib: lib, store: store, blobs: blobs, logger: logger, now: now}
}

// Library returns the managed library.
func (c *Catalog) Library() *document.Library { return c.lib }

// Store returns the persistence backend.
func (c *Catalog) Store() persistence.Store { return c.store }

// Blobs returns the blob backend.
func (c *Catalog) Blobs() blob.Store { return c.blobs }

// Close releases the persistence backend.
func (c *Catalog) Close() error { return c.store.Close() }

// Snapshot replaces the stored template set with the library's templates.
func (c *Catalog) Snapshot(ctx context.Context) (int, error) {
	records, err := Records(c.lib)
	if err != nil {
		return 0, err
	}
	if err := c.store.Save(ctx, records); err != nil {
		return 0, fmt.Errorf("save templates: %w", err)
	}
	c.logger.Info("catalog snapshot saved", "driver", string(c.store.Driver()), "templates", len(records))
	return len(records), nil
}

// Restore registers every stored template into the library, replacing
// templates with the same name.
func (c *Catalog) Restore(ctx context.Context) (int, error) {
	records, err := c.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load templates: %w", err)
	}
	n, err := Apply(c.lib, records)
	if err != nil {
		return 0, err
	}
	c.logger.Info("catalog restored", "driver", string(c.store.Driver()), "templates", n)
	return n, nil
}

// Export writes the library as a JSON bundle under key. Existing keys are
// never overwritten.
func (c *Catalog) Export(ctx context.Context, key string) (blob.Info, error) {
	records, err := Records(c.lib)
	if err != nil {
		return blob.Info{}, err
	}
	bundle := Bundle{Version: BundleVersion, ExportedAt: c.now(), Templates: make([]BundleEntry, len(records))}
	for i, r := range records {
		bundle.Templates[i] = BundleEntry{Name: r.Name, Kind: r.Kind, Template: r.Payload}
	}
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return blob.Info{}, fmt.Errorf("encode bundle: %w", err)
	}
	info, err := c.blobs.Put(ctx, key, bytes.NewReader(data), blob.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"templates": fmt.Sprint(len(records))},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("put bundle %s: %w", key, err)
	}
	c.logger.Info("catalog exported", "key", key, "driver", string(c.blobs.Driver()), "templates", len(records))
	return info, nil
}

// Import reads the bundle at key and registers its templates.
func (c *Catalog) Import(ctx context.Context, key string) (int, error) {
	_, rc, err := c.blobs.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("get bundle %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	bundle, err := ReadBundle(rc)
	if err != nil {
		return 0, fmt.Errorf("read bundle %s: %w", key, err)
	}
	records := make([]persistence.Record, len(bundle.Templates))
	for i, e := range bundle.Templates {
		records[i] = persistence.Record{Name: e.Name, Kind: e.Kind, Payload: e.Template}
	}
	n, err := Apply(c.lib, records)
	if err != nil {
		return 0, err
	}
	c.logger.Info("catalog imported", "key", key, "templates", n)
	return n, nil
}

// Bundles lists stored bundle keys under prefix.
func (c *Catalog) Bundles(ctx context.Context, prefix string) ([]blob.Info, error) {
	return c.blobs.List(ctx, prefix)
}

// ReadBundle decodes and validates a bundle.
func ReadBundle(r io.Reader) (Bundle, error) {
	var bundle Bundle
	dec := json.NewDecoder(r)
	if err := dec.Decode(&bundle); err != nil {
		return Bundle{}, err
	}
	if bundle.Version != BundleVersion {
		return Bundle{}, fmt.Errorf("%w: %d", ErrBundleVersion, bundle.Version)
	}
	return bundle, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
