package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/schedule-conflicts/internal/adapters"
	"github.com/example/schedule-conflicts/internal/application"
	"github.com/example/schedule-conflicts/internal/config"
	httptransport "github.com/example/schedule-conflicts/internal/http"
	"github.com/example/schedule-conflicts/internal/metrics"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the conflict API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			handler, err := buildHandler(rt.cfg, store, rt.logger, prometheus.NewRegistry())
			if err != nil {
				return err
			}

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", rt.cfg.HTTPPort),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}
			return runServer(cmd.Context(), server, rt.cfg.ShutdownTimeout, rt.logger)
		},
	}
}

// buildHandler wires storage, the conflict service and the HTTP router.
// Metrics are registered on reg and exposed only when enabled.
func buildHandler(cfg config.Config, store *sqlite.Store, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	slots, err := cfg.Slots()
	if err != nil {
		return nil, fmt.Errorf("time slots: %w", err)
	}

	deps := adapters.ConflictDeps(store.Repositories)
	deps.TimeSlots = slots
	deps.Logger = logger

	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder, err := metrics.NewPromRecorder(reg)
		if err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		deps.Recorder = recorder
		gatherer = reg
	}

	service, err := application.NewConflictService(deps)
	if err != nil {
		return nil, err
	}

	return httptransport.NewRouter(httptransport.RouterConfig{
		Conflicts: httptransport.NewConflictHandler(service, logger),
		Health:    httptransport.NewHealthHandler(store, logger),
		Metrics:   gatherer,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.Recoverer(logger),
		},
	}), nil
}

// runServer serves until ctx is cancelled, then drains within timeout.
func runServer(ctx context.Context, server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("scheduler API listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		logger.Info("shutting down", "timeout", timeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	return g.Wait()
}
