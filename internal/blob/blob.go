// Package blob is the entry point for template bundle storage. It re-exports
// the core abstractions and selects a backend from configuration, so callers
// never import the infra implementations directly.
package blob

import (
	"context"
	"fmt"

	"protoreg/internal/blob/core"
	fsstore "protoreg/internal/infra/blob/fs"
	memorystore "protoreg/internal/infra/blob/memory"
	s3store "protoreg/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes a stored blob.
	Info = core.Info
	// Store is implemented by every backend.
	Store = core.Store
	// S3Config configures the S3 backend.
	S3Config = s3store.Config
)

const (
	DriverFilesystem = core.DriverFilesystem
	DriverS3         = core.DriverS3
	DriverMemory     = core.DriverMemory
)

var (
	ErrNotFound   = core.ErrNotFound
	ErrExists     = core.ErrExists
	ErrInvalidKey = core.ErrInvalidKey
)

// Config selects and configures a backend.
type Config struct {
	Driver Driver
	// Root is the directory for the filesystem driver.
	Root string
	S3   S3Config
}

// Open returns the backend named by cfg.Driver. An empty driver selects the
// in-memory store.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(cfg.Root)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown blob driver %q", cfg.Driver)
	}
}

// NewMemory returns an in-process store.
func NewMemory() Store { return memorystore.New() }

// NewFilesystem returns a store rooted at root.
func NewFilesystem(root string) (Store, error) {
	s, err := fsstore.New(root)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// NewS3 returns an S3-backed store.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) {
	s, err := s3store.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}
