package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/example/schedule-conflicts/internal/config"
	"github.com/example/schedule-conflicts/internal/logging"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite/migration"
)

type rootOptions struct {
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "scheduler",
		Short:        "Timetable conflict detection service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (yaml or json)")

	root.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newImportCommand(opts),
		newReportCommand(opts),
	)
	return root
}

// appEnv is what every subcommand needs: configuration and a logger.
type appEnv struct {
	cfg    config.Config
	logger *slog.Logger
}

func (o *rootOptions) load(cmd *cobra.Command) (appEnv, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return appEnv{}, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return appEnv{}, fmt.Errorf("build logger: %w", err)
	}
	return appEnv{cfg: cfg, logger: logger}, nil
}

// openStore opens the configured database and applies pending migrations.
func (rt appEnv) openStore(ctx context.Context) (*sqlite.Store, error) {
	store, err := sqlite.Open(migration.DefaultSQLiteConfig(rt.cfg.SQLitePath), rt.logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if _, err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return store, nil
}

func (rt appEnv) closeStore(store *sqlite.Store) {
	if err := store.Close(); err != nil {
		rt.logger.Error("failed to close storage", "error", err)
	}
}
