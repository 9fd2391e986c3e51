package report

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/finanalysis/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetSummary = "Summary"
	SheetResults = "Results"
	SheetRun     = "Run"
)

// WriteXLSX exports a run as a workbook with Run, Summary and Results
// sheets. Summary is omitted when the run has no executive summary.
func WriteXLSX(w io.Writer, r *model.Run) error {
	f := xlsx.NewFile()
	lang := r.Company.Lang()
	fm := NewFormatter(lang)

	meta, err := f.AddSheet(SheetRun)
	if err != nil {
		return eris.Wrap(err, "report: add run sheet")
	}
	for _, kv := range [][2]string{
		{"Run", r.ID},
		{"Company", r.Company.Name},
		{"Sector", r.Company.Sector},
		{"Activity", r.Company.Activity},
		{"Tier", string(r.Company.AnalysisTier)},
		{"Status", string(r.Status)},
		{"Error", r.Error},
		{"Created", r.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
	} {
		addStrings(meta, kv[0], kv[1])
	}

	if s := r.ExecutiveSummary; s != nil {
		sheet, err := f.AddSheet(SheetSummary)
		if err != nil {
			return eris.Wrap(err, "report: add summary sheet")
		}
		addStrings(sheet, "#", "Analysis", "Definition", "Measurement", "Result", "Interpretation", "Industry average", "Comparison", "Rating", "Recommendation")
		for _, row := range s.SummaryTable {
			x := sheet.AddRow()
			x.AddCell().SetInt(row.Number)
			for _, v := range []string{row.AnalysisName, row.Definition, row.Measurement} {
				x.AddCell().SetString(v)
			}
			setResult(x.AddCell(), row.Result, fm)
			for _, v := range []string{row.Interpretation, row.IndustryAverage, row.Comparison, fm.Rating(row.Rating), row.Recommendation} {
				x.AddCell().SetString(v)
			}
		}
	}

	res, err := f.AddSheet(SheetResults)
	if err != nil {
		return eris.Wrap(err, "report: add results sheet")
	}
	addStrings(res, "Type", "Name", "Category", "Result", "Industry average", "Rating", "Interpretation", "Recommendation")
	for _, ar := range r.Results {
		x := res.AddRow()
		name := ar.Name
		if lang == model.LanguageEnglish && ar.NameEn != "" {
			name = ar.NameEn
		}
		for _, v := range []string{string(ar.Type), name, string(ar.Category)} {
			x.AddCell().SetString(v)
		}
		setResult(x.AddCell(), ar.Result, fm)
		if ar.IndustryAverage != nil {
			x.AddCell().SetFloat(*ar.IndustryAverage)
		} else {
			x.AddCell().SetString("")
		}
		for _, v := range []string{fm.Rating(ar.Rating), ar.Interpretation, ar.Recommendation} {
			x.AddCell().SetString(v)
		}
	}

	return eris.Wrap(f.Write(w), "report: write workbook")
}

func addStrings(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// setResult keeps numeric results numeric so spreadsheets can compute on them.
func setResult(c *xlsx.Cell, v any, fm Formatter) {
	switch x := v.(type) {
	case float64:
		c.SetFloat(x)
	case int:
		c.SetInt(x)
	default:
		c.SetString(fm.Value(v))
	}
}
