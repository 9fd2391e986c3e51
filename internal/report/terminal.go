package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sells-group/finanalysis/internal/model"
)

// Options controls terminal rendering.
type Options struct {
	Color       bool
	MaxColWidth int
}

func (o Options) width() int {
	if o.MaxColWidth <= 0 {
		return 48
	}
	return o.MaxColWidth
}

func newTable(w io.Writer, o Options) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	if o.Color {
		tw.SetStyle(table.StyleColoredDark)
	}
	tw.Style().Options.SeparateRows = false
	return tw
}

var ratingColors = map[model.Rating]text.Colors{
	model.RatingExcellent:  {text.FgGreen, text.Bold},
	model.RatingVeryGood:   {text.FgGreen},
	model.RatingGood:       {text.FgCyan},
	model.RatingAcceptable: {text.FgYellow},
	model.RatingWeak:       {text.FgRed},
}

func (f Formatter) coloredRating(r model.Rating, color bool) string {
	label := f.Rating(r)
	if c, ok := ratingColors[r]; ok && color {
		return c.Sprint(label)
	}
	return label
}

// RenderSummary writes the executive summary: overview, key insights, the
// summary table and the recommendations.
func RenderSummary(w io.Writer, s *model.ExecutiveSummary, lang model.Language, o Options) {
	if s == nil {
		return
	}
	f := NewFormatter(lang)
	en := lang == model.LanguageEnglish

	title := s.Company.Name
	if s.Company.Sector != "" {
		title += " · " + s.Company.Sector
	}
	fmt.Fprintln(w, text.Bold.Sprint(title))
	fmt.Fprintf(w, "%s: %d   %s: %s\n",
		pick(en, "Analyses", "عدد التحليلات"), s.Overview.TotalAnalyses,
		pick(en, "Average rating", "متوسط التقييم"), f.Number(s.Overview.OverallRatings.Average),
	)

	dist := newTable(w, o)
	dist.AppendHeader(table.Row{pick(en, "Rating", "التقييم"), pick(en, "Count", "العدد")})
	for _, r := range []model.Rating{model.RatingExcellent, model.RatingVeryGood, model.RatingGood, model.RatingAcceptable, model.RatingWeak} {
		dist.AppendRow(table.Row{f.coloredRating(r, o.Color), s.Overview.OverallRatings.Distribution[r]})
	}
	dist.Render()

	if len(s.KeyInsights) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, text.Bold.Sprint(pick(en, "Key insights", "أبرز النتائج")))
		for _, in := range s.KeyInsights {
			fmt.Fprintln(w, " • "+in)
		}
	}

	fmt.Fprintln(w)
	tw := newTable(w, o)
	tw.AppendHeader(table.Row{"#",
		pick(en, "Analysis", "التحليل"),
		pick(en, "Result", "النتيجة"),
		pick(en, "Industry", "متوسط الصناعة"),
		pick(en, "Rating", "التقييم"),
		pick(en, "Recommendation", "التوصية"),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: o.width()},
		{Number: 3, WidthMax: o.width()},
		{Number: 6, WidthMax: o.width()},
	})
	for _, row := range s.SummaryTable {
		tw.AppendRow(table.Row{row.Number, row.AnalysisName, f.Value(row.Result), row.IndustryAverage, f.coloredRating(row.Rating, o.Color), row.Recommendation})
	}
	tw.Render()

	recs := []struct {
		label string
		items []string
	}{
		{pick(en, "Owners", "الملاك"), s.Recommendations.ForOwners},
		{pick(en, "Banks", "البنوك"), s.Recommendations.ForBanks},
		{pick(en, "Investors", "المستثمرون"), s.Recommendations.ForInvestors},
		{pick(en, "Valuators", "المقيمون"), s.Recommendations.ForValuators},
		{pick(en, "Others", "آخرون"), s.Recommendations.ForOthers},
	}
	for _, r := range recs {
		if len(r.items) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", text.Bold.Sprint(r.label))
		for _, it := range r.items {
			fmt.Fprintln(w, " • "+it)
		}
	}
}

// RenderResults writes one row per analysis result.
func RenderResults(w io.Writer, results []model.AnalysisResult, lang model.Language, o Options) {
	f := NewFormatter(lang)
	en := lang == model.LanguageEnglish
	tw := newTable(w, o)
	tw.AppendHeader(table.Row{
		pick(en, "Type", "النوع"),
		pick(en, "Category", "الفئة"),
		pick(en, "Result", "النتيجة"),
		pick(en, "Rating", "التقييم"),
		pick(en, "Interpretation", "التفسير"),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: o.width()},
		{Number: 5, WidthMax: o.width()},
	})
	for _, r := range results {
		tw.AppendRow(table.Row{r.Type, r.Category, f.Value(r.Result), f.coloredRating(r.Rating, o.Color), r.Interpretation})
	}
	tw.AppendFooter(table.Row{"", "", "", pick(en, "Total", "المجموع"), len(results)})
	tw.Render()
}

// RenderRuns writes a run listing.
func RenderRuns(w io.Writer, runs []model.Run, o Options) {
	tw := newTable(w, o)
	tw.AppendHeader(table.Row{"ID", "Company", "Sector", "Status", "Progress", "Results", "Created", "Error"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
		{Number: 8, WidthMax: o.width()},
	})
	for _, r := range runs {
		tw.AppendRow(table.Row{
			r.ID, r.Company.Name, r.Company.Sector, r.Status,
			fmt.Sprintf("%d%%", r.Progress), len(r.Results),
			humanize.Time(r.CreatedAt), r.Error,
		})
	}
	tw.Render()
}

// RenderRun writes the header block of one run followed by its summary.
func RenderRun(w io.Writer, r *model.Run, o Options) {
	lang := r.Company.Lang()
	fmt.Fprintf(w, "%s  %s  %d%%  %s\n", r.ID, r.Status, r.Progress, r.CurrentStep)
	if r.Error != "" {
		fmt.Fprintln(w, text.FgRed.Sprint(r.Error))
	}
	if r.ExecutiveSummary != nil {
		fmt.Fprintln(w)
		RenderSummary(w, r.ExecutiveSummary, lang, o)
	}
}

// CatalogEntry is one row of the catalog listing.
type CatalogEntry struct {
	Type        model.AnalysisType
	Category    model.Category
	Implemented bool
}

// RenderCatalog lists analysis types with their display names.
func RenderCatalog(w io.Writer, entries []CatalogEntry, lang model.Language, o Options) {
	tw := newTable(w, o)
	tw.AppendHeader(table.Row{"#", "Type", "Name", "Category", "Implemented"})
	done := 0
	for i, e := range entries {
		mark := ""
		if e.Implemented {
			mark = "✓"
			done++
		}
		tw.AppendRow(table.Row{i + 1, e.Type, e.Type.DisplayName(lang), e.Category, mark})
	}
	tw.AppendFooter(table.Row{"", "", "", "Implemented", fmt.Sprintf("%d/%d", done, len(entries))})
	tw.Render()
}

// Metric is one labelled figure for RenderKeyValues.
type Metric struct {
	Name  string
	Value any
}

// RenderKeyValues writes a two-column table.
func RenderKeyValues(w io.Writer, rows []Metric, o Options) {
	tw := newTable(w, o)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	for _, r := range rows {
		v := r.Value
		if f, ok := v.(float64); ok {
			v = humanize.FtoaWithDigits(f, 3)
		}
		tw.AppendRow(table.Row{strings.ReplaceAll(r.Name, "_", " "), v})
	}
	tw.Render()
}

func pick(en bool, enText, arText string) string {
	if en {
		return enText
	}
	return arText
}
