package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/schedule-conflicts/internal/persistence/sqlite"
	"github.com/example/schedule-conflicts/internal/persistence/sqlite/migration"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	var statusOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := sqlite.Open(migration.DefaultSQLiteConfig(rt.cfg.SQLitePath), rt.logger)
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer rt.closeStore(store)

			ctx := cmd.Context()
			applied := 0
			if !statusOnly {
				if applied, err = store.Migrate(ctx); err != nil {
					return fmt.Errorf("apply migrations: %w", err)
				}
			}

			status, err := store.MigrationStatus(ctx)
			if err != nil {
				return fmt.Errorf("read migration status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "applied %d migration(s)\n", applied)
			fmt.Fprintf(out, "schema version: %s\n", status.CurrentVersion)
			for _, pending := range status.Pending {
				fmt.Fprintf(out, "pending: %s %s\n", pending.Version, pending.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only report the migration status")
	return cmd
}
