package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/finanalysis/internal/ingest"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/report"
	"github.com/sells-group/finanalysis/internal/selector"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a company's financial statements",
	Long:  "Reads a JSON, YAML or XLSX document with a company profile and its statements, runs the selected tier of analyses and prints the executive summary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		doc, err := ingest.LoadFile(args[0])
		if err != nil {
			return err
		}
		if err := applyAnalyzeFlags(cmd, &doc.Company); err != nil {
			return err
		}

		if p, _ := cmd.Flags().GetInt("parallel"); p > 0 {
			cfg.Engine.Parallelism = p
		}

		env, err := initEngine(ctx, "analyze")
		if err != nil {
			return err
		}
		defer env.Close()

		applyDefaults(&doc.Company, env.defaults)

		run, err := env.Service.Submit(ctx, doc.Company, doc.Statements)
		if err != nil {
			return err
		}
		zap.L().Info("analysis submitted",
			zap.String("run_id", run.ID),
			zap.String("company", doc.Company.Name),
			zap.String("tier", string(doc.Company.AnalysisTier)),
		)

		final, runErr := env.Service.Execute(ctx, run, doc.Statements)
		if final == nil {
			return runErr
		}

		format, _ := cmd.Flags().GetString("format")
		if err := writeRun(os.Stdout, final, format); err != nil {
			return err
		}

		if path, _ := cmd.Flags().GetString("xlsx"); path != "" {
			if err := exportRunFile(path, final); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
		}

		return runErr
	},
}

// applyAnalyzeFlags overrides document fields from command-line flags.
func applyAnalyzeFlags(cmd *cobra.Command, c *model.Company) error {
	if s, _ := cmd.Flags().GetString("tier"); s != "" {
		tier, ok := selector.ParseTier(s)
		if !ok {
			return eris.Errorf("unknown tier %q", s)
		}
		c.AnalysisTier = tier
	}
	if s, _ := cmd.Flags().GetString("lang"); s != "" {
		c.Language = model.ParseLanguage(s)
	}
	if s, _ := cmd.Flags().GetString("sector"); s != "" {
		c.Sector = s
	}
	if s, _ := cmd.Flags().GetString("level"); s != "" {
		c.ComparisonLevel = model.ComparisonLevel(s)
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// writeRun prints a finished run as a table or as JSON.
func writeRun(w io.Writer, run *model.Run, format string) error {
	switch format {
	case "", "table":
		report.RenderRun(w, run, report.Options{Color: isTerminal(w)})
		if len(run.Results) > 0 {
			fmt.Fprintln(w)
			report.RenderResults(w, run.Results, run.Company.Lang(), report.Options{Color: isTerminal(w)})
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	default:
		return eris.Errorf("unknown output format %q (table, json)", format)
	}
}

func exportRunFile(path string, run *model.Run) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "create %s", path)
	}
	if err := report.WriteXLSX(f, run); err != nil {
		_ = f.Close()
		return err
	}
	return eris.Wrapf(f.Close(), "close %s", path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

func init() {
	analyzeCmd.Flags().String("tier", "", "analysis tier (basic, intermediate, advanced, comprehensive)")
	analyzeCmd.Flags().String("lang", "", "output language (ar, en)")
	analyzeCmd.Flags().String("sector", "", "override the company sector")
	analyzeCmd.Flags().String("level", "", "override the benchmark comparison level")
	analyzeCmd.Flags().String("format", "table", "output format (table, json)")
	analyzeCmd.Flags().String("xlsx", "", "also write the run to this XLSX file")
	analyzeCmd.Flags().Int("parallel", 0, "concurrent analyses (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
