package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/report"
	"github.com/sells-group/finanalysis/internal/selector"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the analysis types a tier runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, _ := cmd.Flags().GetString("tier")
		tier, ok := selector.ParseTier(s)
		if !ok && s != "" {
			return eris.Errorf("unknown tier %q", s)
		}
		langFlag, _ := cmd.Flags().GetString("lang")
		lang := model.ParseLanguage(langFlag)

		report.RenderCatalog(os.Stdout, catalogEntries(tier), lang, report.Options{Color: isTerminal(os.Stdout)})
		return nil
	},
}

func init() {
	catalogCmd.Flags().String("tier", "", "tier to list (default comprehensive)")
	catalogCmd.Flags().String("lang", "en", "display language (ar, en)")
	rootCmd.AddCommand(catalogCmd)
}
