package main

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeMetricsCommand(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve-metrics",
		Short: "Run the demos and expose registry metrics over HTTP",
		Long: `Runs every demo once, discarding its output, so the registry metrics are
populated, then serves them until interrupted:

  /metrics     Prometheus exposition format
  /debug/vars  expvar JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.MetricsAddr
			}
			if err := a.warmUp(); err != nil {
				return err
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen %s: %w", addr, err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "serving metrics on http://%s/metrics\n", ln.Addr())
			return a.serveMetrics(ctx, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from PROTOREG_METRICS_ADDR)")
	return cmd
}

// warmUp runs the demos so the recorders have observations to report.
func (a *app) warmUp() error {
	for _, demo := range []func(io.Writer) error{a.demoDocuments, a.demoShapes, a.demoRegistry} {
		if err := demo(io.Discard); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())
	return mux
}

// serveMetrics serves on ln until ctx is cancelled or the server fails.
func (a *app) serveMetrics(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: a.metricsHandler(), ReadHeaderTimeout: 5 * time.Second}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("shutting down metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown metrics server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
