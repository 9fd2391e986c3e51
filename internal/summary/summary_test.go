package summary

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func agg() Aggregator { return Aggregator{Now: func() time.Time { return fixedNow }} }

func result(t model.AnalysisType, r model.Rating) model.AnalysisResult {
	return model.AnalysisResult{
		ID:       string(t),
		Type:     t,
		Name:     t.DisplayName(model.LanguageArabic),
		NameEn:   t.DisplayName(model.LanguageEnglish),
		Category: t.Category(),
		Rating:   r,
	}
}

func TestSummarize_CompanyEcho(t *testing.T) {
	c := model.Company{Name: "Acme", Sector: "retail", Activity: "grocery", AnalysisTier: model.TierBasic}
	s, err := agg().Summarize(nil, c)
	require.NoError(t, err)
	assert.Equal(t, "Acme", s.Company.Name)
	assert.Equal(t, "retail", s.Company.Sector)
	assert.Equal(t, "grocery", s.Company.Activity)
	assert.Equal(t, fixedNow, s.Company.AnalysisDate)
	assert.Equal(t, model.TierBasic, s.Company.AnalysisTier)
	assert.Zero(t, s.Overview.TotalAnalyses)
	assert.Zero(t, s.Overview.OverallRatings.Average)
	assert.Empty(t, s.SummaryTable)
}

func TestSummarize_RatingDistribution(t *testing.T) {
	results := []model.AnalysisResult{
		result(model.CurrentRatio, model.RatingExcellent),
		result(model.QuickRatio, model.RatingExcellent),
		result(model.CashRatio, model.RatingGood),
		result(model.VerticalAnalysis, model.RatingWeak),
	}
	s, err := agg().Summarize(results, model.Company{})
	require.NoError(t, err)

	ov := s.Overview
	assert.Equal(t, 4, ov.TotalAnalyses)
	assert.Equal(t, 3, ov.CategorizedResults[model.CategoryRatios])
	assert.Equal(t, 1, ov.CategorizedResults[model.CategoryStructural])
	assert.InDelta(t, (5+5+3+1)/4.0, ov.OverallRatings.Average, 1e-9)
	assert.Equal(t, 2, ov.OverallRatings.Distribution[model.RatingExcellent])
	assert.Equal(t, 0, ov.OverallRatings.Distribution[model.RatingVeryGood])
	assert.Equal(t, 1, ov.OverallRatings.Distribution[model.RatingWeak])
	assert.Len(t, ov.OverallRatings.Distribution, 5)
}

func TestSummarize_KeyInsights(t *testing.T) {
	results := []model.AnalysisResult{
		result(model.CurrentRatio, model.RatingExcellent),
		result(model.VerticalAnalysis, model.RatingWeak),
	}
	s, err := agg().Summarize(results, model.Company{})
	require.NoError(t, err)
	assert.Contains(t, s.KeyInsights, "أداء ممتاز في 1 مؤشر مالي")
	assert.Contains(t, s.KeyInsights, "يتطلب تحسين عاجل في 1 مؤشر")
	assert.Contains(t, s.KeyInsights, "أقوى أداء في فئة النسب المالية")
	assert.Contains(t, s.KeyInsights, "أضعف أداء في فئة التحليل الهيكلي")

	en, err := agg().Summarize(results, model.Company{Language: model.LanguageEnglish})
	require.NoError(t, err)
	assert.Contains(t, en.KeyInsights, "Excellent performance in 1 financial indicators")
	assert.Contains(t, en.KeyInsights, "Overall financial performance is good (average 3.00 of 5)")
}

func TestSummarize_SWOTAndRisksDeduplicated(t *testing.T) {
	a := result(model.CurrentRatio, model.RatingGood)
	a.SWOT = &model.SWOT{Strengths: []string{"s1", "s2"}, Threats: []string{"t1"}}
	a.Risks = []string{"r1", "r2"}
	b := result(model.QuickRatio, model.RatingGood)
	b.SWOT = &model.SWOT{Strengths: []string{"s2", "s3", "s1"}, Weaknesses: []string{"w1"}, Threats: []string{"t1"}}
	b.Risks = []string{"r2", "r3"}

	s, err := agg().Summarize([]model.AnalysisResult{a, b}, model.Company{})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2", "s3"}, s.SWOT.Strengths)
	assert.Equal(t, []string{"w1"}, s.SWOT.Weaknesses)
	assert.Empty(t, s.SWOT.Opportunities)
	assert.NotNil(t, s.SWOT.Opportunities)
	assert.Equal(t, []string{"t1"}, s.SWOT.Threats)
	assert.Equal(t, []string{"r1", "r2", "r3"}, s.Risks)
}

func TestSummarize_TableBoundedAndNumbered(t *testing.T) {
	types := model.AllAnalysisTypes()[:25]
	results := make([]model.AnalysisResult, len(types))
	for i, at := range types {
		results[i] = result(at, model.RatingGood)
	}
	avg := 1234.5
	results[0].IndustryAverage = &avg
	results[0].ComparisonWithIndustry = "above"

	s, err := agg().Summarize(results, model.Company{})
	require.NoError(t, err)
	require.Len(t, s.SummaryTable, MaxTableRows)
	for i, row := range s.SummaryTable {
		assert.Equal(t, i+1, row.Number)
		assert.Equal(t, results[i].Name, row.AnalysisName)
	}
	assert.Equal(t, "1,234.5", s.SummaryTable[0].IndustryAverage)
	assert.Equal(t, "above", s.SummaryTable[0].Comparison)
	assert.Equal(t, "غير متوفر", s.SummaryTable[1].IndustryAverage)
	assert.Equal(t, "غير متوفر", s.SummaryTable[1].Comparison)

	short, err := agg().Summarize(results[:3], model.Company{Language: model.LanguageEnglish})
	require.NoError(t, err)
	require.Len(t, short.SummaryTable, 3)
	assert.Equal(t, "Not available", short.SummaryTable[2].IndustryAverage)
	assert.Equal(t, results[2].NameEn, short.SummaryTable[2].AnalysisName)
}

func TestSummarize_RecommendationsAlwaysPresent(t *testing.T) {
	s, err := agg().Summarize(nil, model.Company{})
	require.NoError(t, err)
	rec := s.Recommendations
	assert.Len(t, rec.ForOwners, 3)
	assert.Len(t, rec.ForBanks, 3)
	assert.Len(t, rec.ForInvestors, 3)
	assert.Len(t, rec.ForValuators, 3)
	assert.Len(t, rec.ForOthers, 2)
	assert.Equal(t, "تحسين كفاءة رأس المال العامل", rec.ForOwners[0])
}

func TestSummarize_RatingDrivenRecommendations(t *testing.T) {
	results := []model.AnalysisResult{
		result(model.CurrentRatio, model.RatingWeak),
		result(model.DebtToEquity, model.RatingWeak),
		result(model.NetProfitMargin, model.RatingWeak),
		result(model.BankruptcyAnalysis, model.RatingWeak),
	}
	s, err := agg().Summarize(results, model.Company{Language: model.LanguageEnglish})
	require.NoError(t, err)
	rec := s.Recommendations
	assert.Contains(t, rec.ForBanks, recLiquidityCaution.en)
	assert.Contains(t, rec.ForBanks, recLeverageCaution.en)
	assert.Contains(t, rec.ForOwners, recProfitability.en)
	assert.Contains(t, rec.ForOwners, recDistressOwners.en)
	assert.Contains(t, rec.ForValuators, recDistress.en)
	assert.NotContains(t, rec.ForInvestors, recStrongReturns.en)

	strong := []model.AnalysisResult{
		result(model.NetProfitMargin, model.RatingExcellent),
		result(model.ReturnOnEquity, model.RatingVeryGood),
	}
	s, err = agg().Summarize(strong, model.Company{Language: model.LanguageEnglish})
	require.NoError(t, err)
	assert.Contains(t, s.Recommendations.ForInvestors, recStrongReturns.en)
	assert.Len(t, s.Recommendations.ForBanks, 3)
}

func TestSummarize_ManyRisksAddMonitoring(t *testing.T) {
	r := result(model.StressTesting, model.RatingAcceptable)
	for i := range 6 {
		r.Risks = append(r.Risks, fmt.Sprintf("risk %d", i))
	}
	s, err := agg().Summarize([]model.AnalysisResult{r}, model.Company{})
	require.NoError(t, err)
	assert.Contains(t, s.Recommendations.ForOthers, recManyRisks.ar)
}

func TestSummarize_InvalidRating(t *testing.T) {
	_, err := agg().Summarize([]model.AnalysisResult{result(model.CurrentRatio, "stellar")}, model.Company{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAggregation))
}

func TestSummarize_Deterministic(t *testing.T) {
	results := []model.AnalysisResult{
		result(model.CurrentRatio, model.RatingExcellent),
		result(model.DuPontAnalysis, model.RatingGood),
		result(model.ValueAtRisk, model.RatingAcceptable),
	}
	a, err := agg().Summarize(results, model.Company{})
	require.NoError(t, err)
	b, err := agg().Summarize(results, model.Company{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
