package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/schedule-conflicts/internal/adapters"
	"github.com/example/schedule-conflicts/internal/application"
	"github.com/example/schedule-conflicts/internal/scheduler"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var (
		kinds  []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "report <version-id>",
		Short: "Print the ranked conflict clusters of a schedule version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("unknown format %q", format)
			}

			rt, err := opts.load(cmd)
			if err != nil {
				return err
			}

			store, err := rt.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.closeStore(store)

			deps := adapters.ConflictDeps(store.Repositories)
			deps.Logger = rt.logger
			service, err := application.NewConflictService(deps)
			if err != nil {
				return err
			}

			report, err := service.DetectConflicts(cmd.Context(), application.DetectParams{VersionID: args[0], Kinds: kinds})
			if err != nil {
				return err
			}

			if format == "json" {
				return writeReportJSON(cmd.OutOrStdout(), report)
			}
			return writeReportText(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringSliceVarP(&kinds, "kind", "k", nil, "resource kinds to analyse (faculty, room, section)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

func writeReportText(w io.Writer, report application.ConflictReport) error {
	summary := report.Summary
	fmt.Fprintf(w, "version %s (%s)\n", report.Version.ID, report.Version.Name)
	fmt.Fprintf(w, "analysed %d meetings, %d in conflict, %d dropped\n",
		summary.EntriesAnalysed, summary.EntriesInConflict, summary.Ingest.DroppedTotal())

	if len(report.Clusters) == 0 {
		fmt.Fprintln(w, "no conflicts")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tRESOURCE\tDAY\tWINDOW\tMEETINGS")
	for i, c := range report.Clusters {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s-%s\t%s\n",
			i+1,
			c.Kind,
			c.ResourceLabel,
			c.Day,
			scheduler.FormatMinute(c.WindowStart),
			scheduler.FormatMinute(c.WindowEnd),
			clusterMeetings(c),
		)
	}
	return tw.Flush()
}

// clusterMeetings renders members as "id(90m)" in cluster order.
func clusterMeetings(c scheduler.ConflictCluster) string {
	parts := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		parts[i] = fmt.Sprintf("%s(%dm)", e.MeetingID, e.Duration())
	}
	return strings.Join(parts, ",")
}

type reportCluster struct {
	Kind          string   `json:"kind"`
	ResourceID    string   `json:"resource_id"`
	ResourceLabel string   `json:"resource_label"`
	Day           string   `json:"day"`
	WindowStart   string   `json:"window_start"`
	WindowEnd     string   `json:"window_end"`
	MeetingIDs    []string `json:"meeting_ids"`
}

type reportDocument struct {
	VersionID         string          `json:"version_id"`
	EntriesAnalysed   int             `json:"entries_analysed"`
	EntriesInConflict int             `json:"entries_in_conflict"`
	Dropped           int             `json:"dropped"`
	Clusters          []reportCluster `json:"clusters"`
}

func writeReportJSON(w io.Writer, report application.ConflictReport) error {
	doc := reportDocument{
		VersionID:         report.Version.ID,
		EntriesAnalysed:   report.Summary.EntriesAnalysed,
		EntriesInConflict: report.Summary.EntriesInConflict,
		Dropped:           report.Summary.Ingest.DroppedTotal(),
		Clusters:          make([]reportCluster, 0, len(report.Clusters)),
	}
	for _, c := range report.Clusters {
		doc.Clusters = append(doc.Clusters, reportCluster{
			Kind:          string(c.Kind),
			ResourceID:    c.ResourceID,
			ResourceLabel: c.ResourceLabel,
			Day:           string(c.Day),
			WindowStart:   scheduler.FormatMinute(c.WindowStart),
			WindowEnd:     scheduler.FormatMinute(c.WindowEnd),
			MeetingIDs:    c.MeetingIDs(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
