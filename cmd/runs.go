package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/monitoring"
	"github.com/sells-group/finanalysis/internal/report"
	"github.com/sells-group/finanalysis/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect analysis run history",
	Long:  "Commands for listing, viewing, exporting and summarizing analysis runs.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List analysis runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		sector, _ := cmd.Flags().GetString("sector")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Sector: sector,
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		report.RenderRuns(os.Stdout, runs, report.Options{Color: isTerminal(os.Stdout)})
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a run and its executive summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		format, _ := cmd.Flags().GetString("format")
		return writeRun(os.Stdout, run, format)
	},
}

// -- runs export --

var runsExportCmd = &cobra.Command{
	Use:   "export <run-id> <file.xlsx>",
	Short: "Export a run to an XLSX workbook",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs export")
		}
		if err := exportRunFile(args[1], run); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", args[1])
		return nil
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate run statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		since, _ := cmd.Flags().GetDuration("since")
		collector := monitoring.NewCollector(st, time.Duration(cfg.Monitoring.StaleRunMins)*time.Minute)
		snap, err := collector.Collect(ctx, int(since.Hours()))
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatRunStats(os.Stdout, snap)
		return nil
	},
}

// formatRunStats renders a metrics snapshot as a two-column table.
func formatRunStats(w io.Writer, s *monitoring.MetricsSnapshot) {
	rows := []report.Metric{
		{Name: "total", Value: s.Total},
		{Name: "pending", Value: s.Pending},
		{Name: "running", Value: s.Running},
		{Name: "completed", Value: s.Completed},
		{Name: "failed", Value: s.Failed},
		{Name: "cancelled", Value: s.Cancelled},
		{Name: "stale", Value: s.Stale},
		{Name: "failure_rate", Value: s.FailRate},
		{Name: "avg_rating_score", Value: s.AvgRatingScore},
		{Name: "avg_analyses", Value: s.AvgAnalyses},
		{Name: "avg_duration_secs", Value: s.AvgDurationSecs},
	}
	for sector, n := range s.BySector {
		rows = append(rows, report.Metric{Name: "sector " + sector, Value: n})
	}
	report.RenderKeyValues(w, sortMetrics(rows, 11), report.Options{})
}

// sortMetrics orders rows after the first fixed entries by name.
func sortMetrics(rows []report.Metric, fixed int) []report.Metric {
	if fixed > len(rows) {
		return rows
	}
	tail := rows[fixed:]
	slices.SortFunc(tail, func(a, b report.Metric) int { return strings.Compare(a.Name, b.Name) })
	return rows
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (pending, running, completed, failed, cancelled)")
	runsListCmd.Flags().String("sector", "", "filter by company sector")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsShowCmd.Flags().String("format", "table", "output format (table, json)")

	runsStatsCmd.Flags().Duration("since", 24*time.Hour, "time window for stats (e.g. 24h, 72h, 168h)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}
