package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"protoreg/internal/catalog"
	"protoreg/internal/config"
	"protoreg/internal/logging"
	"protoreg/internal/observability"
	"protoreg/pkg/document"
	"protoreg/pkg/prototype"
	"protoreg/plugins/starter"
)

// app carries the state shared by every subcommand. It is populated in the
// root PersistentPreRunE.
type app struct {
	loadConfig func() (config.Config, error)
	logPaths   []string

	cfg     config.Config
	zlog    *zap.Logger
	log     logging.Logger
	metrics *prometheus.Registry
	expvar  *observability.ExpvarRecorder
	record  prototype.MetricsRecorder

	verbose       bool
	logLevel      string
	catalogDriver string
	sqlitePath    string
	postgresDSN   string
	blobDriver    string
	blobRoot      string
	fixtures      string
}

// newRootCommand builds the command tree. A nil loader reads the process
// environment.
func newRootCommand(loader func() (config.Config, error)) *cobra.Command {
	if loader == nil {
		loader = config.Parse
	}
	return (&app{loadConfig: loader}).command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "protoreg",
		Short:         "Clone-based document templates backed by a prototype registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.zlog != nil {
				_ = a.zlog.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.StringVar(&a.catalogDriver, "catalog-driver", "", "template catalog driver (memory, sqlite, postgres)")
	flags.StringVar(&a.sqlitePath, "sqlite-path", "", "sqlite catalog database path")
	flags.StringVar(&a.postgresDSN, "postgres-dsn", "", "postgres catalog connection string")
	flags.StringVar(&a.blobDriver, "blob-driver", "", "bundle store driver (memory, fs, s3)")
	flags.StringVar(&a.blobRoot, "blob-root", "", "bundle directory for the fs driver")
	flags.StringVar(&a.fixtures, "fixtures", "", "YAML template fixtures seeded on startup")

	root.AddCommand(newDemoCommand(a), newTemplatesCommand(a), newServeMetricsCommand(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	zlog, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Verbose:     cfg.Verbose,
		Encoding:    "console",
		OutputPaths: a.logPaths,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.zlog = zlog
	a.log = logging.Adapt(zlog)

	a.metrics = prometheus.NewRegistry()
	prom, err := observability.NewPrometheusRecorder(a.metrics)
	if err != nil {
		return err
	}
	a.expvar = observability.NewExpvarRecorder("")
	a.record = observability.NewFanout(prom, a.expvar)
	a.log.Debug("configuration loaded",
		"catalog_driver", cfg.CatalogDriver,
		"blob_driver", cfg.BlobDriver,
		"fixtures", cfg.Fixtures,
	)
	return nil
}

// applyFlags overrides environment values with the flags the user set.
func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = a.verbose
	}
	overrides := []struct {
		name  string
		value string
		dst   *string
	}{
		{"log-level", a.logLevel, &cfg.LogLevel},
		{"catalog-driver", a.catalogDriver, &cfg.CatalogDriver},
		{"sqlite-path", a.sqlitePath, &cfg.SQLitePath},
		{"postgres-dsn", a.postgresDSN, &cfg.PostgresDSN},
		{"blob-driver", a.blobDriver, &cfg.BlobDriver},
		{"blob-root", a.blobRoot, &cfg.BlobRoot},
		{"fixtures", a.fixtures, &cfg.Fixtures},
	}
	for _, o := range overrides {
		if flags.Changed(o.name) {
			*o.dst = o.value
		}
	}
}

// newLibrary returns a library wired to the app's logger and metrics with
// the starter pack installed and the configured fixtures seeded.
func (a *app) newLibrary() (*document.Library, error) {
	lib := document.NewLibrary(
		document.WithLibraryLogger(a.log.Named("library")),
		document.WithRegistryOptions(prototype.WithMetrics(a.record)),
	)
	if _, err := lib.Install(starter.New()); err != nil {
		return nil, err
	}
	if a.cfg.Fixtures != "" {
		n, err := catalog.SeedFromYAML(lib, a.cfg.Fixtures)
		if err != nil {
			return nil, err
		}
		a.log.Info("fixtures seeded", "path", a.cfg.Fixtures, "templates", n)
	}
	return lib, nil
}

// openCatalog builds a library and restores the stored templates into it.
func (a *app) openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	lib, err := a.newLibrary()
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Open(ctx, lib, catalog.Options{
		Persistence: a.cfg.Persistence(),
		Blob:        a.cfg.Blob(),
		Logger:      a.log.Named("catalog"),
	})
	if err != nil {
		return nil, err
	}
	if _, err := cat.Restore(ctx); err != nil {
		_ = cat.Close()
		return nil, err
	}
	return cat, nil
}
