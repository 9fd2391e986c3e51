package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/finanalysis/internal/benchmark"
	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/report"
	"github.com/sells-group/finanalysis/internal/store"
)

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Manage industry benchmarks",
}

// -- benchmarks seed --

var benchmarksSeedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load benchmark values from a YAML seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := benchmark.Seed(ctx, st, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Upserted %d benchmark rows.\n", n)
		return nil
	},
}

// -- benchmarks list --

var benchmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored benchmark rows",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		sector, _ := cmd.Flags().GetString("sector")
		rows, err := st.ListBenchmarks(ctx, sector)
		if err != nil {
			return eris.Wrap(err, "benchmarks list")
		}
		if len(rows) == 0 {
			fmt.Fprintln(os.Stderr, "No benchmarks stored.")
			return nil
		}
		formatBenchmarkRows(os.Stdout, rows)
		return nil
	},
}

// -- benchmarks resolve --

var benchmarksResolveCmd = &cobra.Command{
	Use:   "resolve <sector>",
	Short: "Show the merged benchmarks an analysis would receive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		activity, _ := cmd.Flags().GetString("activity")
		level, _ := cmd.Flags().GetString("level")
		return resolveBenchmarks(ctx, os.Stdout, st, args[0], activity, model.ComparisonLevel(level))
	},
}

func resolveBenchmarks(ctx context.Context, w io.Writer, src benchmark.Source, sector, activity string, level model.ComparisonLevel) error {
	bm, err := benchmark.NewLayered(src, catalog.DefaultBenchmarks()).Benchmarks(ctx, sector, activity, level)
	if err != nil {
		return err
	}
	rows := make([]report.Metric, 0, len(bm))
	for _, k := range sortedKeys(bm) {
		rows = append(rows, report.Metric{Name: k, Value: bm[k]})
	}
	report.RenderKeyValues(w, rows, report.Options{})
	return nil
}

func formatBenchmarkRows(w io.Writer, rows []store.BenchmarkRow) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Sector", "Activity", "Region", "Metric", "Value", "Updated"})
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Sector, r.Activity, r.Region, r.Metric, r.Value, r.UpdatedAt.Format("2006-01-02")})
	}
	tw.Render()
}

func sortedKeys(bm model.Benchmarks) []string {
	keys := make([]string, 0, len(bm))
	for k := range bm {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func init() {
	benchmarksListCmd.Flags().String("sector", "", "only rows for this sector")
	benchmarksResolveCmd.Flags().String("activity", "", "company activity")
	benchmarksResolveCmd.Flags().String("level", "", "comparison level (default global)")

	benchmarksCmd.AddCommand(benchmarksSeedCmd)
	benchmarksCmd.AddCommand(benchmarksListCmd)
	benchmarksCmd.AddCommand(benchmarksResolveCmd)
	rootCmd.AddCommand(benchmarksCmd)
}
