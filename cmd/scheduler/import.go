package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/schedule-conflicts/internal/snapshot"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <snapshot-file>",
		Short: "Import a YAML or JSON timetable snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}

			snap, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}

			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			result, err := snapshot.NewImporter(store, snapshot.WithLogger(rt.logger)).Import(cmd.Context(), snap)
			if err != nil {
				return fmt.Errorf("import snapshot: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported version %s: %d classes, %d meetings, %d labels, %d time blocks\n",
				result.VersionID, result.Classes, result.Meetings, result.Labels, result.TimeBlocks)
			return nil
		},
	}
}
