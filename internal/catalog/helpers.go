package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sells-group/finanalysis/internal/model"
)

// text is a message in both supported languages.
type text struct {
	ar string
	en string
}

func tr(ar, en string) text {
	return text{ar: ar, en: en}
}

func (t text) in(lang model.Language) string {
	if lang == model.LanguageEnglish && t.en != "" {
		return t.en
	}
	return t.ar
}

// about carries the descriptive fields shared by every result of a type.
type about struct {
	definition  text
	measures    text
	importance  text
	calculation text
}

func newResult(c model.Company, a about) *model.AnalysisResult {
	lang := c.Lang()
	return &model.AnalysisResult{
		Definition:     a.definition.in(lang),
		WhatItMeasures: a.measures.in(lang),
		Importance:     a.importance.in(lang),
		Calculation:    a.calculation.in(lang),
	}
}

var (
	msgNotAvailable = tr("غير متوفر", "Not available")
	msgNoBenchmark  = tr("لا يوجد معيار للمقارنة", "No benchmark available for comparison")
	msgDefaultRec   = tr("مراجعة وتحسين هذا المؤشر", "Review and improve this indicator")
	msgNeedYears    = tr("يتطلب هذا التحليل بيانات لسنتين على الأقل", "This analysis requires at least two years of data")
	msgOneYearOnly  = tr("لا يمكن إجراء هذا التحليل بسنة واحدة فقط", "This analysis cannot be performed with a single year")
	msgAddYears     = tr("يُنصح بتوفير بيانات مالية لسنوات متعددة لإجراء تحليل شامل", "Provide several years of financial data for a complete analysis")
)

// singleYear is the degraded result returned by multi-period analyses when
// only one statement is available.
func singleYear(c model.Company, a about) *model.AnalysisResult {
	lang := c.Lang()
	res := newResult(c, a)
	res.Calculation = tr("غير متاح - يتطلب بيانات متعددة السنوات", "Unavailable - requires multi-year data").in(lang)
	res.Result = msgNeedYears.in(lang)
	res.Interpretation = msgOneYearOnly.in(lang)
	res.Rating = model.RatingAcceptable
	res.Recommendation = msgAddYears.in(lang)
	return res
}

// finite maps NaN and infinities to zero so results stay JSON encodable.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// roundTo rounds half away from zero to the given number of places.
func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(finite(v)).Round(places).Float64()
	return f
}

func round2(v float64) float64 { return roundTo(v, 2) }

// div1 divides by b, treating a zero denominator as one.
func div1(a, b float64) float64 {
	if b == 0 {
		b = 1
	}
	return finite(a / b)
}

// safeDiv divides by b and returns zero for a zero denominator.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return finite(a / b)
}

// pctChange is the change from base to cur as a percentage of |base|.
func pctChange(base, cur float64) float64 {
	if base == 0 {
		return 0
	}
	return finite((cur - base) / math.Abs(base) * 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func ratingFromScore(score float64) model.Rating {
	return model.RatingFromScore(clamp(score, 0, 100))
}

// higherBetter rates v against descending thresholds for excellent, very
// good, good and acceptable.
func higherBetter(v float64, cuts [4]float64) model.Rating {
	for i, c := range cuts {
		if v >= c {
			return model.Ratings[i]
		}
	}
	return model.RatingWeak
}

// lowerBetter rates v against ascending ceilings for excellent, very good,
// good and acceptable.
func lowerBetter(v float64, cuts [4]float64) model.Rating {
	for i, c := range cuts {
		if v <= c {
			return model.Ratings[i]
		}
	}
	return model.RatingWeak
}

// above returns texts[i] for the first cut v reaches, else the last text.
func above(v float64, cuts []float64, texts ...text) text {
	for i, c := range cuts {
		if v >= c {
			return texts[i]
		}
	}
	return texts[len(texts)-1]
}

// below returns texts[i] for the first ceiling v stays under, else the last text.
func below(v float64, cuts []float64, texts ...text) text {
	for i, c := range cuts {
		if v <= c {
			return texts[i]
		}
	}
	return texts[len(texts)-1]
}

// benchmarkOf returns the benchmark for key, falling back to def. A zero
// value counts as absent. A nil return means no benchmark.
func benchmarkOf(bm model.Benchmarks, key string, def float64) *float64 {
	if v, ok := bm.Get(key); ok && v != 0 {
		return &v
	}
	if def != 0 {
		return &def
	}
	return nil
}

// comparison renders the gap between value and the industry average.
func comparison(value float64, bench *float64, lang model.Language) string {
	if bench == nil || *bench == 0 {
		return msgNoBenchmark.in(lang)
	}
	gap := math.Abs((value - *bench) / *bench * 100)
	if lang == model.LanguageEnglish {
		dir := "below"
		if value > *bench {
			dir = "above"
		}
		return fmt.Sprintf("%.1f%% %s the industry average", gap, dir)
	}
	dir := "أقل"
	if value > *bench {
		dir = "أعلى"
	}
	return fmt.Sprintf("%s من متوسط الصناعة بنسبة %.1f%%", dir, gap)
}

// joinList joins phrases with the separator of the given language.
func joinList(items []string, lang model.Language) string {
	if lang == model.LanguageEnglish {
		return strings.Join(items, "; ")
	}
	return strings.Join(items, "، ")
}

func years(stmts []model.FinancialStatement) []int {
	out := make([]int, len(stmts))
	for i, s := range stmts {
		out[i] = s.Year
	}
	return out
}

func series(stmts []model.FinancialStatement, f func(model.FinancialStatement) float64) []float64 {
	out := make([]float64, len(stmts))
	for i, s := range stmts {
		out[i] = f(s)
	}
	return out
}

func revenueOf(s model.FinancialStatement) float64   { return s.IncomeStatement.Revenue }
func netIncomeOf(s model.FinancialStatement) float64 { return s.IncomeStatement.NetIncome }
func opIncomeOf(s model.FinancialStatement) float64  { return s.IncomeStatement.OperatingIncome }
func assetsOf(s model.FinancialStatement) float64    { return s.BalanceSheet.TotalAssets }
func equityOf(s model.FinancialStatement) float64 {
	return s.BalanceSheet.ShareholdersEquity.TotalShareholdersEquity
}
func ocfOf(s model.FinancialStatement) float64 {
	return s.CashFlowStatement.OperatingActivities.NetCashFromOperating
}
func fcfOf(s model.FinancialStatement) float64 { return s.CashFlowStatement.FreeCashFlow() }

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// growthRates returns period-over-period percentage changes.
func growthRates(xs []float64) []float64 {
	if len(xs) < 2 {
		return nil
	}
	out := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		out[i-1] = pctChange(xs[i-1], xs[i])
	}
	return out
}

// cagr is the compound annual growth rate between the first and last value.
func cagr(xs []float64) float64 {
	if len(xs) < 2 || xs[0] <= 0 || xs[len(xs)-1] <= 0 {
		return 0
	}
	periods := float64(len(xs) - 1)
	return finite(math.Pow(xs[len(xs)-1]/xs[0], 1/periods) - 1)
}

// linreg fits y = a + b*x by ordinary least squares over x = 0..n-1 and
// returns the intercept, slope and coefficient of determination.
func linreg(ys []float64) (a, b, r2 float64) {
	n := float64(len(ys))
	if n < 2 {
		if n == 1 {
			return ys[0], 0, 0
		}
		return 0, 0, 0
	}
	var sx, sy, sxx, sxy float64
	for i, y := range ys {
		x := float64(i)
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	b = safeDiv(n*sxy-sx*sy, den)
	a = (sy - b*sx) / n
	my := sy / n
	var ssTot, ssRes float64
	for i, y := range ys {
		fit := a + b*float64(i)
		ssTot += (y - my) * (y - my)
		ssRes += (y - fit) * (y - fit)
	}
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}
	return finite(a), finite(b), finite(r2)
}

// correlation is the Pearson correlation of two equal-length series.
func correlation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	return safeDiv(cov, math.Sqrt(vx*vy))
}

// npv discounts flows[i] at rate for period i+1.
func npv(rate float64, flows []float64) float64 {
	var total float64
	for i, f := range flows {
		total += f / math.Pow(1+rate, float64(i+1))
	}
	return finite(total)
}

// irr finds the rate at which -initial plus the discounted flows is zero,
// using bisection over [-0.99, 10]. It reports false when no sign change
// exists in that range.
func irr(initial float64, flows []float64) (float64, bool) {
	f := func(r float64) float64 { return npv(r, flows) - initial }
	lo, hi := -0.99, 10.0
	flo, fhi := f(lo), f(hi)
	if flo*fhi > 0 {
		return 0, false
	}
	for range 200 {
		mid := (lo + hi) / 2
		fm := f(mid)
		if math.Abs(fm) < 1e-9 {
			return mid, true
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return (lo + hi) / 2, true
}

// swot builds a SWOT fragment, returning nil when every list is empty.
func swot(strengths, weaknesses, opportunities, threats []string) *model.SWOT {
	if len(strengths)+len(weaknesses)+len(opportunities)+len(threats) == 0 {
		return nil
	}
	return &model.SWOT{
		Strengths:     strengths,
		Weaknesses:    weaknesses,
		Opportunities: opportunities,
		Threats:       threats,
	}
}
