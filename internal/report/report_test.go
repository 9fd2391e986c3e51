package report

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/finanalysis/internal/model"
)

func TestFormatter_English(t *testing.T) {
	f := NewFormatter(model.LanguageEnglish)
	assert.Equal(t, "1,234,567", f.Number(1234567))
	assert.Equal(t, "1,234.57", f.Number(1234.567))
	assert.Equal(t, "12.5%", f.Percent(0.125))
	assert.Equal(t, "N/A", f.Number(math.NaN()))
	assert.Equal(t, "N/A", f.Value(nil))
	assert.Equal(t, "Very good", f.Rating(model.RatingVeryGood))
	assert.Equal(t, "a=1, b=2.50", f.Value(map[string]float64{"b": 2.5, "a": 1}))
	assert.Equal(t, `{"x":[1,2]}`, f.Value(map[string]any{"x": []int{1, 2}}))
}

func TestFormatter_Arabic(t *testing.T) {
	f := NewFormatter(model.LanguageArabic)
	assert.Equal(t, "غير متوفر", f.NA())
	assert.Equal(t, "ممتاز", f.Rating(model.RatingExcellent))
	assert.NotEmpty(t, f.Number(2.5))
}

func TestTruncate(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'س'
	}
	out := []rune(truncate(string(long)))
	assert.Len(t, out, maxCellText)
	assert.Equal(t, '…', out[len(out)-1])
	assert.Equal(t, "short", truncate("short"))
}

func sampleRun() *model.Run {
	avg := 2.0
	return &model.Run{
		ID:        "run-1",
		Company:   model.Company{Name: "Gulf Cement", Sector: "industrial", Language: model.LanguageEnglish},
		Status:    model.RunStatusCompleted,
		Progress:  100,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Results: []model.AnalysisResult{
			{Type: model.CurrentRatio, Name: "النسبة الجارية", NameEn: "Current Ratio", Category: model.CurrentRatio.Category(), Result: 1.8, IndustryAverage: &avg, Rating: model.RatingVeryGood},
			{Type: model.HorizontalAnalysis, NameEn: "Horizontal Analysis", Result: map[string]any{"summary": "ok"}, Rating: model.RatingGood},
		},
		ExecutiveSummary: &model.ExecutiveSummary{
			Company:     model.SummaryCompany{Name: "Gulf Cement", Sector: "industrial"},
			Overview:    model.Overview{TotalAnalyses: 2, OverallRatings: model.OverallRatings{Average: 3.5, Distribution: map[model.Rating]int{model.RatingVeryGood: 1, model.RatingGood: 1}}},
			KeyInsights: []string{"Liquidity is strong"},
			Recommendations: model.Recommendations{
				ForBanks: []string{"Extend credit lines"},
			},
			SummaryTable: []model.SummaryRow{
				{Number: 1, AnalysisName: "Current Ratio", Result: 1.8, IndustryAverage: "2", Rating: model.RatingVeryGood, Recommendation: "Monitor liquidity"},
			},
		},
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := sampleRun()
	RenderSummary(&buf, r.ExecutiveSummary, model.LanguageEnglish, Options{})
	out := buf.String()

	assert.Contains(t, out, "Gulf Cement · industrial")
	assert.Contains(t, out, "Liquidity is strong")
	assert.Contains(t, out, "Current Ratio")
	assert.Contains(t, out, "Monitor liquidity")
	assert.Contains(t, out, "Extend credit lines")
	assert.NotContains(t, out, "Owners", "empty stakeholder lists are skipped")
}

func TestRenderSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, nil, model.LanguageArabic, Options{})
	assert.Empty(t, buf.String())
}

func TestRenderResultsAndRuns(t *testing.T) {
	r := sampleRun()

	var buf bytes.Buffer
	RenderResults(&buf, r.Results, model.LanguageEnglish, Options{Color: true})
	assert.Contains(t, buf.String(), string(model.CurrentRatio))

	buf.Reset()
	RenderRuns(&buf, []model.Run{*r}, Options{})
	assert.Contains(t, buf.String(), "run-1")
	assert.Contains(t, buf.String(), "100%")

	buf.Reset()
	RenderRun(&buf, &model.Run{ID: "run-2", Status: model.RunStatusFailed, Error: "benchmarks down"}, Options{})
	assert.Contains(t, buf.String(), "benchmarks down")
}

func TestRenderCatalogAndKeyValues(t *testing.T) {
	var buf bytes.Buffer
	RenderCatalog(&buf, []CatalogEntry{
		{Type: model.CurrentRatio, Category: model.CurrentRatio.Category(), Implemented: true},
		{Type: model.AnalysisType("mystery")},
	}, model.LanguageEnglish, Options{})
	assert.Contains(t, buf.String(), "Current Ratio")
	assert.Contains(t, buf.String(), "1/2")

	buf.Reset()
	RenderKeyValues(&buf, []Metric{{"fail_rate", 0.25}, {"total", 4}}, Options{})
	assert.Contains(t, buf.String(), "fail rate")
	assert.Contains(t, buf.String(), "0.25")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleRun()))

	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)

	require.Contains(t, f.Sheet, SheetRun)
	require.Contains(t, f.Sheet, SheetSummary)
	require.Contains(t, f.Sheet, SheetResults)

	results := f.Sheet[SheetResults]
	require.Len(t, results.Rows, 3)
	assert.Equal(t, "Current Ratio", results.Rows[1].Cells[1].String())
	v, err := results.Rows[1].Cells[3].Float()
	require.NoError(t, err)
	assert.InDelta(t, 1.8, v, 1e-9)
	assert.Equal(t, "Very good", results.Rows[1].Cells[5].String())

	summary := f.Sheet[SheetSummary]
	require.Len(t, summary.Rows, 2)
	assert.Equal(t, "Monitor liquidity", summary.Rows[1].Cells[9].String())
}

func TestWriteXLSX_NoSummary(t *testing.T) {
	r := sampleRun()
	r.ExecutiveSummary = nil

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, r))
	f, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	assert.NotContains(t, f.Sheet, SheetSummary)
}
