// Package config loads protoreg settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"protoreg/internal/blob"
	"protoreg/internal/persistence"
)

// Config is the complete runtime configuration. CLI flags override values
// parsed from the environment.
type Config struct {
	LogLevel    string `env:"PROTOREG_LOG_LEVEL" envDefault:"info"`
	Verbose     bool   `env:"PROTOREG_VERBOSE"`
	MetricsAddr string `env:"PROTOREG_METRICS_ADDR" envDefault:":9464"`
	Fixtures    string `env:"PROTOREG_FIXTURES"`

	CatalogDriver string `env:"PROTOREG_CATALOG_DRIVER" envDefault:"memory"`
	SQLitePath    string `env:"PROTOREG_SQLITE_PATH" envDefault:"protoreg.db"`
	PostgresDSN   string `env:"PROTOREG_POSTGRES_DSN"`

	BlobDriver     string `env:"PROTOREG_BLOB_DRIVER" envDefault:"memory"`
	BlobRoot       string `env:"PROTOREG_BLOB_ROOT" envDefault:"./protoreg-blobs"`
	S3Bucket       string `env:"PROTOREG_BLOB_S3_BUCKET"`
	S3Region       string `env:"PROTOREG_BLOB_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"PROTOREG_BLOB_S3_ENDPOINT"`
	S3PathStyle    bool   `env:"PROTOREG_BLOB_S3_PATH_STYLE"`
	S3AccessKeyID  string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretKey    string `env:"AWS_SECRET_ACCESS_KEY"`
	S3SessionToken string `env:"AWS_SESSION_TOKEN"`
}

// ParseEnv fills target from the process environment.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Parse reads the process environment without validating it, so callers can
// apply overrides first.
func Parse() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseFrom reads an explicit environment map instead of the process
// environment. The result is not validated.
func ParseFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Load parses the process environment and validates the result.
func Load() (Config, error) {
	cfg, err := Parse()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFrom parses and validates an explicit environment map.
func LoadFrom(environ map[string]string) (Config, error) {
	cfg, err := ParseFrom(environ)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks driver names and the settings each driver requires.
func (c Config) Validate() error {
	switch persistence.Driver(c.CatalogDriver) {
	case persistence.DriverMemory, persistence.DriverSQLite:
	case persistence.DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("PROTOREG_POSTGRES_DSN required for postgres catalog driver")
		}
	default:
		return fmt.Errorf("unknown catalog driver %q", c.CatalogDriver)
	}
	switch blob.Driver(c.BlobDriver) {
	case blob.DriverMemory, blob.DriverFilesystem:
	case blob.DriverS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("PROTOREG_BLOB_S3_BUCKET required for s3 blob driver")
		}
	default:
		return fmt.Errorf("unknown blob driver %q", c.BlobDriver)
	}
	return nil
}

// Persistence returns the catalog store settings.
func (c Config) Persistence() persistence.Config {
	return persistence.Config{
		Driver:      persistence.Driver(c.CatalogDriver),
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
	}
}

// Blob returns the bundle store settings.
func (c Config) Blob() blob.Config {
	return blob.Config{
		Driver: blob.Driver(c.BlobDriver),
		Root:   c.BlobRoot,
		S3: blob.S3Config{
			Bucket:          c.S3Bucket,
			Region:          c.S3Region,
			Endpoint:        c.S3Endpoint,
			PathStyle:       c.S3PathStyle,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretKey,
			SessionToken:    c.S3SessionToken,
		},
	}
}
