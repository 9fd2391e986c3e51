package catalog

import (
	"fmt"
	"math"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerStructural(r *Registry) {
	r.Register(model.VerticalAnalysis, vertical)
	r.Register(model.HorizontalAnalysis, horizontal)
	r.Register(model.MixedAnalysis, needsYears(2, mixedAbout, mixed))
	r.Register(model.TrendAnalysis, needsYears(2, trendAbout, trend))
	r.Register(model.BasicComparative, basicComparative)
	r.Register(model.ValueAddedAnalysis, valueAdded)
	r.Register(model.CommonSizeAnalysis, commonSize)
	r.Register(model.SimpleTimeSeries, needsYears(2, timeSeriesAbout, simpleTimeSeries))
	r.Register(model.RelativeChanges, needsYears(2, relativeAbout, relativeChanges))
	r.Register(model.GrowthRates, needsYears(2, growthAbout, growth))
	r.Register(model.BasicVariance, needsYears(2, varianceAbout, basicVariance))
	r.Register(model.SimpleDeviation, needsYears(2, deviationAbout, simpleDeviation))
	r.Register(model.DifferenceAnalysis, needsYears(2, differenceAbout, difference))
	r.Register(model.ExceptionalItems, exceptionalItems)
	r.Register(model.IndexNumbers, needsYears(2, indexAbout, indexNumbers))
}

// needsYears degrades to the single-year result when fewer than n
// statements are supplied.
func needsYears(n int, a about, fn Func) Func {
	return func(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
		if len(stmts) < n {
			return singleYear(c, a), nil
		}
		return fn(stmts, c, bm)
	}
}

// ShareItem is a line expressed as a percentage of a base figure.
type ShareItem struct {
	Key        string  `json:"key"`
	Account    string  `json:"account"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

func shareItems(items []lineItem, s model.FinancialStatement, base float64, lang model.Language) []ShareItem {
	out := make([]ShareItem, len(items))
	for i, it := range items {
		v := it.get(s)
		out[i] = ShareItem{Key: it.key, Account: it.label.in(lang), Value: v, Percentage: round2(safeDiv(v, base) * 100)}
	}
	return out
}

func shareOf(items []ShareItem, key string) float64 {
	for _, it := range items {
		if it.Key == key {
			return it.Percentage
		}
	}
	return 0
}

var verticalAbout = about{
	definition:  tr("تحليل يعرض كل بند كنسبة مئوية من إجمالي الأصول أو الإيرادات", "Expresses each line as a percentage of total assets or revenue"),
	measures:    tr("الأهمية النسبية لبنود القوائم المالية", "Relative weight of financial statement lines"),
	importance:  tr("يكشف هيكل الأصول والتمويل والتكاليف", "Reveals the structure of assets, funding and costs"),
	calculation: tr("البند ÷ إجمالي الأصول (أو الإيرادات) × 100", "Line / total assets (or revenue) x 100"),
}

func vertical(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	bs := shareItems(balanceSheetItems, s, s.BalanceSheet.TotalAssets, lang)
	is := shareItems(incomeItems, s, s.IncomeStatement.Revenue, lang)

	equityPct := shareOf(bs, "equity")
	netPct := shareOf(is, "netIncome")
	cogsPct := shareOf(is, "costOfGoodsSold")

	score := 50.0
	switch {
	case equityPct >= 50:
		score += 15
	case equityPct >= 30:
		score += 5
	default:
		score -= 10
	}
	switch {
	case netPct >= 10:
		score += 15
	case netPct >= 5:
		score += 5
	case netPct < 0:
		score -= 15
	}
	if cogsPct <= 60 {
		score += 10
	} else if cogsPct > 80 {
		score -= 10
	}
	if shareOf(bs, "currentAssets") >= 40 {
		score += 5
	}

	res := newResult(c, verticalAbout)
	res.Result = map[string]any{"year": s.Year, "balanceSheet": bs, "incomeStatement": is}
	res.Interpretation = fmt.Sprintf(tr("تمثل حقوق الملكية %.1f%% من إجمالي الأصول، ويمثل صافي الدخل %.1f%% من الإيرادات",
		"Equity is %.1f%% of total assets and net income is %.1f%% of revenue").in(lang), equityPct, netPct)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("مراقبة البنود ذات الوزن النسبي المرتفع وضبط هيكل التكاليف",
		"Monitor heavily weighted lines and keep the cost structure in check").in(lang)
	if cogsPct > 80 {
		res.SWOT = swot(nil, []string{tr("ارتفاع تكلفة المبيعات كنسبة من الإيرادات", "High cost of sales relative to revenue").in(lang)}, nil, nil)
	}
	res.Charts = []model.Chart{{Type: "pie", Title: tr("هيكل الأصول", "Asset structure").in(lang), Data: map[string]any{
		"currentAssets":    shareOf(bs, "currentAssets"),
		"nonCurrentAssets": shareOf(bs, "nonCurrentAssets"),
	}}}
	return res, nil
}

var mixedAbout = about{
	definition:  tr("تحليل يجمع بين التحليل الرأسي والأفقي لتتبع تغير الأوزان النسبية", "Combines vertical and horizontal analysis to track changing weights"),
	measures:    tr("تغير الأهمية النسبية للبنود بين فترتين", "Change in the relative weight of lines between periods"),
	importance:  tr("يوضح التحولات الهيكلية في المركز المالي", "Shows structural shifts in the financial position"),
	calculation: tr("نسبة البند في السنة الحالية - نسبته في سنة الأساس", "Current share of line - base share of line"),
}

func mixed(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	base, cur := stmts[0], model.Latest(stmts)
	baseBS := shareItems(balanceSheetItems, base, base.BalanceSheet.TotalAssets, lang)
	curBS := shareItems(balanceSheetItems, cur, cur.BalanceSheet.TotalAssets, lang)
	baseIS := shareItems(incomeItems, base, base.IncomeStatement.Revenue, lang)
	curIS := shareItems(incomeItems, cur, cur.IncomeStatement.Revenue, lang)

	type shift struct {
		Account      string  `json:"account"`
		BaseShare    float64 `json:"baseShare"`
		CurrentShare float64 `json:"currentShare"`
		Shift        float64 `json:"shift"`
		Growth       float64 `json:"growth"`
	}
	var shifts []shift
	for i, it := range balanceSheetItems {
		shifts = append(shifts, shift{
			Account:      curBS[i].Account,
			BaseShare:    baseBS[i].Percentage,
			CurrentShare: curBS[i].Percentage,
			Shift:        round2(curBS[i].Percentage - baseBS[i].Percentage),
			Growth:       round2(pctChange(it.get(base), it.get(cur))),
		})
	}

	equityShift := shareOf(curBS, "equity") - shareOf(baseBS, "equity")
	marginShift := shareOf(curIS, "netIncome") - shareOf(baseIS, "netIncome")
	score := 60.0
	if equityShift > 0 {
		score += 15
	} else if equityShift < -5 {
		score -= 15
	}
	if marginShift > 0 {
		score += 15
	} else if marginShift < -2 {
		score -= 15
	}

	res := newResult(c, mixedAbout)
	res.Result = map[string]any{"baseYear": base.Year, "currentYear": cur.Year, "balanceSheet": shifts,
		"netMarginShift": round2(marginShift), "equityShareShift": round2(equityShift)}
	res.Interpretation = fmt.Sprintf(tr("تغيرت حصة حقوق الملكية بمقدار %.1f نقطة وهامش صافي الربح بمقدار %.1f نقطة",
		"Equity share moved %.1f points and net margin moved %.1f points").in(lang), equityShift, marginShift)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("متابعة البنود التي تغير وزنها النسبي بشكل ملحوظ", "Follow up on lines whose weight changed markedly").in(lang)
	return res, nil
}

var trendAbout = about{
	definition:  tr("تحليل اتجاه البنود الرئيسية عبر السنوات باستخدام خط الاتجاه", "Fits a trend line to key lines across years"),
	measures:    tr("اتجاه وقوة التغير في البنود الرئيسية", "Direction and strength of change in key lines"),
	importance:  tr("يساعد على استشراف الأداء المستقبلي", "Helps anticipate future performance"),
	calculation: tr("انحدار خطي للقيمة على الزمن", "Linear regression of value on time"),
}

// TrendLine is a fitted linear trend for one line item.
type TrendLine struct {
	Key        string    `json:"key"`
	Account    string    `json:"account"`
	Values     []float64 `json:"values"`
	Slope      float64   `json:"slope"`
	SlopePct   float64   `json:"slopePct"`
	RSquared   float64   `json:"rSquared"`
	Direction  Trend     `json:"direction"`
	NextPeriod float64   `json:"nextPeriod"`
}

func trendLines(stmts []model.FinancialStatement, items []lineItem, lang model.Language) []TrendLine {
	out := make([]TrendLine, len(items))
	for i, it := range items {
		ys := series(stmts, it.get)
		a, b, r2 := linreg(ys)
		slopePct := safeDiv(b, math.Abs(mean(ys))) * 100
		out[i] = TrendLine{
			Key:        it.key,
			Account:    it.label.in(lang),
			Values:     ys,
			Slope:      round2(b),
			SlopePct:   round2(slopePct),
			RSquared:   roundTo(r2, 4),
			Direction:  trendOf(slopePct),
			NextPeriod: round2(a + b*float64(len(ys))),
		}
	}
	return out
}

func trend(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	lines := trendLines(stmts, keyItems, lang)
	rev := lines[0]

	res := newResult(c, trendAbout)
	res.Result = map[string]any{"years": years(stmts), "lines": lines}
	res.Interpretation = fmt.Sprintf(tr("اتجاه الإيرادات %s بمعدل %.1f%% سنوياً من المتوسط (R² = %.2f)",
		"Revenue trend is %s at %.1f%% of the mean per year (R² = %.2f)").in(lang), trendWord(rev.Direction, lang), rev.SlopePct, rev.RSquared)
	res.Rating = higherBetter(rev.SlopePct, [4]float64{10, 5, 2, 0})
	if rev.Direction == TrendDecrease {
		res.Risks = []string{tr("اتجاه تنازلي في الإيرادات", "Downward revenue trend").in(lang)}
		res.Recommendation = tr("معالجة أسباب تراجع الإيرادات", "Address the causes of declining revenue").in(lang)
	} else {
		res.Recommendation = tr("الحفاظ على الاتجاه الإيجابي ومراقبة استدامته", "Sustain the positive trend and monitor it").in(lang)
	}
	res.Charts = []model.Chart{{Type: "line", Data: map[string]any{"labels": years(stmts), "revenue": rev.Values}}}
	return res, nil
}

func trendWord(t Trend, lang model.Language) string {
	switch t {
	case TrendIncrease:
		return tr("تصاعدي", "upward").in(lang)
	case TrendDecrease:
		return tr("تنازلي", "downward").in(lang)
	default:
		return tr("مستقر", "stable").in(lang)
	}
}

var basicComparativeAbout = about{
	definition:  tr("مقارنة المؤشرات الرئيسية للشركة بمتوسطات الصناعة", "Compares headline indicators with industry averages"),
	measures:    tr("موقع الشركة مقارنة بالصناعة", "Position of the company relative to its industry"),
	importance:  tr("يحدد مجالات التفوق والتأخر عن المنافسين", "Identifies where the company leads or lags"),
	calculation: tr("(قيمة الشركة - متوسط الصناعة) ÷ متوسط الصناعة", "(Company value - industry average) / industry average"),
}

// BenchmarkGap compares one indicator with its industry average.
type BenchmarkGap struct {
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Benchmark float64 `json:"benchmark"`
	GapPct    float64 `json:"gapPct"`
	Favorable bool    `json:"favorable"`
}

type gapSpec struct {
	typ         model.AnalysisType
	lowerBetter bool
}

var headlineIndicators = []gapSpec{
	{model.CurrentRatio, false},
	{model.QuickRatio, false},
	{model.DebtToEquity, true},
	{model.GrossProfitMargin, false},
	{model.NetProfitMargin, false},
	{model.ReturnOnAssets, false},
	{model.ReturnOnEquity, false},
	{model.AssetTurnover, false},
}

func benchmarkGaps(s model.FinancialStatement, bm model.Benchmarks, specs []gapSpec, lang model.Language) []BenchmarkGap {
	var out []BenchmarkGap
	for _, g := range specs {
		def := ratioDefFor(g.typ)
		v := ratioValue(g.typ, s, bm)
		bench := benchmarkOf(bm, def.benchKey, def.bench)
		if bench == nil {
			continue
		}
		fav := v >= *bench
		if g.lowerBetter {
			fav = v <= *bench
		}
		out = append(out, BenchmarkGap{
			Indicator: g.typ.DisplayName(lang),
			Value:     roundTo(v, 4),
			Benchmark: *bench,
			GapPct:    round2(safeDiv(v-*bench, *bench) * 100),
			Favorable: fav,
		})
	}
	return out
}

func favorableShare(gaps []BenchmarkGap) float64 {
	if len(gaps) == 0 {
		return 0
	}
	n := 0
	for _, g := range gaps {
		if g.Favorable {
			n++
		}
	}
	return float64(n) / float64(len(gaps))
}

func basicComparative(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	gaps := benchmarkGaps(model.Latest(stmts), bm, headlineIndicators, lang)
	share := favorableShare(gaps)

	var strengths, weaknesses []string
	for _, g := range gaps {
		if g.Favorable {
			strengths = append(strengths, g.Indicator)
		} else {
			weaknesses = append(weaknesses, g.Indicator)
		}
	}

	res := newResult(c, basicComparativeAbout)
	res.Result = gaps
	res.Interpretation = fmt.Sprintf(tr("الشركة أفضل من متوسط الصناعة في %d من %d مؤشرات", "The company beats the industry average on %d of %d indicators").in(lang),
		len(strengths), len(gaps))
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = msgDefaultRec.in(lang)
	if len(weaknesses) > 0 {
		res.Recommendation = tr("التركيز على تحسين: ", "Focus on improving: ").in(lang) + joinList(weaknesses, lang)
	}
	res.SWOT = swot(strengths, weaknesses, nil, nil)
	return res, nil
}

var valueAddedAbout = about{
	definition:  tr("قياس القيمة المضافة التي تخلقها الشركة وتوزيعها على الأطراف المختلفة", "Measures the value the company creates and how it is distributed"),
	measures:    tr("القيمة المضافة ونسبتها إلى الإيرادات", "Value added and its share of revenue"),
	importance:  tr("يعكس مساهمة الشركة الاقتصادية الفعلية", "Reflects the company's real economic contribution"),
	calculation: tr("الدخل التشغيلي + الاستهلاك والإطفاء + المصروفات الإدارية", "Operating income + depreciation and amortization + SG&A"),
}

func valueAdded(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	is := s.IncomeStatement
	da := is.OperatingExpenses.Depreciation + is.OperatingExpenses.Amortization
	va := is.OperatingIncome + da + is.OperatingExpenses.SellingGeneralAdministrative
	ratio := safeDiv(va, is.Revenue)

	dist := map[string]float64{
		"employees":    round2(safeDiv(is.OperatingExpenses.SellingGeneralAdministrative, va) * 100),
		"lenders":      round2(safeDiv(is.OtherIncomeExpense.InterestExpense, va) * 100),
		"government":   round2(safeDiv(is.IncomeTaxExpense, va) * 100),
		"shareholders": round2(safeDiv(is.NetIncome, va) * 100),
		"reinvested":   round2(safeDiv(da, va) * 100),
	}

	res := newResult(c, valueAddedAbout)
	res.Result = map[string]any{"valueAdded": round2(va), "valueAddedToRevenue": roundTo(ratio, 4), "distribution": dist}
	res.Interpretation = fmt.Sprintf(tr("تبلغ القيمة المضافة %.1f%% من الإيرادات", "Value added is %.1f%% of revenue").in(lang), ratio*100)
	res.Rating = higherBetter(ratio, [4]float64{0.4, 0.3, 0.2, 0.1})
	res.Recommendation = tr("تعزيز الأنشطة ذات القيمة المضافة العالية", "Expand high value-added activities").in(lang)
	return res, nil
}

var commonSizeAbout = about{
	definition:  tr("قوائم مالية موحدة الحجم لكل السنوات المتاحة", "Common-size statements for every available year"),
	measures:    tr("هيكل القوائم المالية بمعزل عن الحجم", "Statement structure independent of size"),
	importance:  tr("يسهل المقارنة بين السنوات والشركات", "Eases comparison across years and companies"),
	calculation: tr("كل بند ÷ الأساس (إجمالي الأصول أو الإيرادات)", "Each line / base (total assets or revenue)"),
}

func commonSize(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type yearShares struct {
		Year            int         `json:"year"`
		BalanceSheet    []ShareItem `json:"balanceSheet"`
		IncomeStatement []ShareItem `json:"incomeStatement"`
	}
	out := make([]yearShares, len(stmts))
	for i, s := range stmts {
		out[i] = yearShares{
			Year:            s.Year,
			BalanceSheet:    shareItems(balanceSheetItems, s, s.BalanceSheet.TotalAssets, lang),
			IncomeStatement: shareItems(incomeItems, s, s.IncomeStatement.Revenue, lang),
		}
	}
	latest := out[len(out)-1]
	gross := shareOf(latest.IncomeStatement, "grossProfit")

	res := newResult(c, commonSizeAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("يمثل إجمالي الربح %.1f%% من الإيرادات في آخر سنة", "Gross profit is %.1f%% of revenue in the latest year").in(lang), gross)
	res.Rating = ratioRating(model.GrossProfitMargin, model.Latest(stmts), bm)
	res.Recommendation = tr("مقارنة الهيكل مع الشركات المماثلة في القطاع", "Compare the structure with sector peers").in(lang)
	return res, nil
}

var timeSeriesAbout = about{
	definition:  tr("عرض البنود الرئيسية كسلسلة زمنية مع المتوسط المتحرك", "Key lines as a time series with a moving average"),
	measures:    tr("تطور البنود الرئيسية عبر الزمن", "Evolution of key lines over time"),
	importance:  tr("يكشف التقلبات والأنماط الزمنية", "Reveals volatility and temporal patterns"),
	calculation: tr("متوسط متحرك لثلاث فترات", "Three-period moving average"),
}

func movingAverage(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	for i := range xs {
		lo := max(0, i-window+1)
		out[i] = round2(mean(xs[lo : i+1]))
	}
	return out
}

func simpleTimeSeries(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type ts struct {
		Account       string    `json:"account"`
		Values        []float64 `json:"values"`
		MovingAverage []float64 `json:"movingAverage"`
	}
	out := make([]ts, len(keyItems))
	for i, it := range keyItems {
		vals := series(stmts, it.get)
		out[i] = ts{Account: it.label.in(lang), Values: vals, MovingAverage: movingAverage(vals, 3)}
	}
	revCAGR := cagr(series(stmts, revenueOf))

	res := newResult(c, timeSeriesAbout)
	res.Result = map[string]any{"years": years(stmts), "series": out}
	res.Interpretation = fmt.Sprintf(tr("معدل النمو السنوي المركب للإيرادات %.1f%%", "Revenue compound annual growth is %.1f%%").in(lang), revCAGR*100)
	res.Rating = higherBetter(revCAGR, [4]float64{0.15, 0.1, 0.05, 0})
	res.Recommendation = tr("متابعة السلسلة الزمنية دورياً لاكتشاف التغيرات المبكرة", "Track the series regularly to catch early shifts").in(lang)
	return res, nil
}

var relativeAbout = about{
	definition:  tr("التغيرات النسبية السنوية في البنود الرئيسية", "Year-over-year relative changes in key lines"),
	measures:    tr("نسبة التغير من سنة لأخرى", "Percentage change from one year to the next"),
	importance:  tr("يبرز السنوات ذات التغير غير المعتاد", "Highlights years with unusual change"),
	calculation: tr("(قيمة السنة - قيمة السنة السابقة) ÷ |قيمة السنة السابقة| × 100", "(Year value - prior value) / |prior value| x 100"),
}

func relativeChanges(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	changes := map[string][]float64{}
	for _, it := range keyItems {
		rates := growthRates(series(stmts, it.get))
		for i := range rates {
			rates[i] = round2(rates[i])
		}
		changes[it.key] = rates
	}
	positive, total := 0, 0
	for _, key := range []string{"revenue", "netIncome"} {
		for _, v := range changes[key] {
			total++
			if v > 0 {
				positive++
			}
		}
	}
	share := safeDiv(float64(positive), float64(total))

	res := newResult(c, relativeAbout)
	res.Result = map[string]any{"years": years(stmts)[1:], "changes": changes}
	res.Interpretation = fmt.Sprintf(tr("%.0f%% من التغيرات السنوية في الإيرادات وصافي الدخل كانت إيجابية", "%.0f%% of yearly revenue and net income changes were positive").in(lang), share*100)
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("تحليل أسباب السنوات ذات التغير السلبي", "Investigate the years with negative change").in(lang)
	return res, nil
}

var growthAbout = about{
	definition:  tr("معدلات النمو السنوية المركبة والمتوسطة للبنود الرئيسية", "Compound and average growth rates of key lines"),
	measures:    tr("سرعة نمو الشركة", "How fast the company grows"),
	importance:  tr("مؤشر أساسي لتقييم الاستدامة والقيمة", "Core input to sustainability and valuation"),
	calculation: tr("(القيمة الأخيرة ÷ القيمة الأولى)^(1/عدد الفترات) - 1", "(Last / first)^(1/periods) - 1"),
}

func growth(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type g struct {
		Account       string  `json:"account"`
		CAGR          float64 `json:"cagr"`
		AverageGrowth float64 `json:"averageGrowth"`
	}
	out := make([]g, len(keyItems))
	for i, it := range keyItems {
		xs := series(stmts, it.get)
		out[i] = g{Account: it.label.in(lang), CAGR: roundTo(cagr(xs), 4), AverageGrowth: round2(mean(growthRates(xs)))}
	}
	rev := out[0].CAGR

	res := newResult(c, growthAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("نمت الإيرادات بمعدل سنوي مركب %.1f%%", "Revenue grew at a %.1f%% compound annual rate").in(lang), rev*100)
	res.Rating = higherBetter(rev, [4]float64{0.15, 0.1, 0.05, 0})
	if rev > 0.1 {
		res.SWOT = swot([]string{tr("نمو مرتفع ومستدام في الإيرادات", "High, sustained revenue growth").in(lang)}, nil, nil, nil)
	}
	res.Recommendation = tr("مواءمة خطط التوسع مع معدلات النمو المحققة", "Align expansion plans with realised growth").in(lang)
	return res, nil
}

var varianceAbout = about{
	definition:  tr("قياس تشتت البنود الرئيسية حول متوسطها", "Dispersion of key lines around their mean"),
	measures:    tr("استقرار الأداء المالي", "Stability of financial performance"),
	importance:  tr("التقلب المرتفع يرفع المخاطر", "High volatility raises risk"),
	calculation: tr("معامل الاختلاف = الانحراف المعياري ÷ المتوسط", "Coefficient of variation = standard deviation / mean"),
}

func basicVariance(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type v struct {
		Account string  `json:"account"`
		Mean    float64 `json:"mean"`
		StdDev  float64 `json:"stdDev"`
		CV      float64 `json:"cv"`
	}
	out := make([]v, len(keyItems))
	for i, it := range keyItems {
		xs := series(stmts, it.get)
		m, sd := mean(xs), stddev(xs)
		out[i] = v{Account: it.label.in(lang), Mean: round2(m), StdDev: round2(sd), CV: roundTo(safeDiv(sd, math.Abs(m)), 4)}
	}
	revCV := out[0].CV

	res := newResult(c, varianceAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("معامل اختلاف الإيرادات %.2f", "Revenue coefficient of variation is %.2f").in(lang), revCV)
	res.Rating = lowerBetter(revCV, [4]float64{0.05, 0.1, 0.2, 0.3})
	res.Recommendation = tr("تنويع مصادر الإيرادات لتقليل التقلب", "Diversify revenue sources to reduce volatility").in(lang)
	return res, nil
}

var deviationAbout = about{
	definition:  tr("انحراف آخر سنة عن المتوسط التاريخي", "Deviation of the latest year from the historical mean"),
	measures:    tr("مدى ابتعاد الأداء الحالي عن المعتاد", "How far current performance is from normal"),
	importance:  tr("يكشف القفزات أو التراجعات غير المعتادة", "Surfaces unusual jumps or drops"),
	calculation: tr("(القيمة الحالية - المتوسط) ÷ المتوسط", "(Current - mean) / mean"),
}

func simpleDeviation(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type d struct {
		Account      string  `json:"account"`
		Current      float64 `json:"current"`
		Mean         float64 `json:"mean"`
		DeviationPct float64 `json:"deviationPct"`
		ZScore       float64 `json:"zScore"`
	}
	out := make([]d, len(keyItems))
	for i, it := range keyItems {
		xs := series(stmts, it.get)
		m, sd := mean(xs), stddev(xs)
		cur := xs[len(xs)-1]
		out[i] = d{
			Account:      it.label.in(lang),
			Current:      cur,
			Mean:         round2(m),
			DeviationPct: round2(safeDiv(cur-m, math.Abs(m)) * 100),
			ZScore:       round2(safeDiv(cur-m, sd)),
		}
	}
	rev := out[0].DeviationPct

	res := newResult(c, deviationAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("تنحرف إيرادات آخر سنة بنسبة %.1f%% عن المتوسط", "Latest revenue deviates %.1f%% from the mean").in(lang), rev)
	res.Rating = ratingFromScore(60 + clamp(rev, -30, 30))
	res.Recommendation = tr("دراسة أسباب الانحرافات الكبيرة عن المتوسط", "Study the causes of large deviations").in(lang)
	return res, nil
}

var differenceAbout = about{
	definition:  tr("الفروق المطلقة بين آخر سنتين لجميع البنود", "Absolute differences between the last two years"),
	measures:    tr("حجم التغير في كل بند", "Size of change in each line"),
	importance:  tr("يوضح مصادر التغير في المركز المالي والأداء", "Shows where position and performance changed"),
	calculation: tr("قيمة السنة الحالية - قيمة السنة السابقة", "Current year value - prior year value"),
}

func difference(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	prev, cur := stmts[len(stmts)-2], model.Latest(stmts)
	all := append(append(changeItems(balanceSheetItems, prev, cur, lang), changeItems(incomeItems, prev, cur, lang)...),
		changeItems(cashFlowItems, prev, cur, lang)...)

	score := 50.0
	for _, key := range []string{"revenue", "netIncome", "equity", "operatingCashFlow"} {
		if it, ok := findChange(all, key); ok && it.AbsoluteChange > 0 {
			score += 10
		}
	}
	liab, _ := findChange(all, "totalLiabilities")
	assets, _ := findChange(all, "totalAssets")
	if liab.AbsoluteChange > assets.AbsoluteChange {
		score -= 10
	}

	res := newResult(c, differenceAbout)
	res.Result = map[string]any{"fromYear": prev.Year, "toYear": cur.Year, "items": all}
	rev, _ := findChange(all, "revenue")
	res.Interpretation = fmt.Sprintf(tr("تغيرت الإيرادات بمقدار %.0f بين %d و %d", "Revenue changed by %.0f between %d and %d").in(lang),
		rev.AbsoluteChange, prev.Year, cur.Year)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("التركيز على البنود ذات الفروق السلبية الكبيرة", "Focus on lines with large adverse differences").in(lang)
	return res, nil
}

var exceptionalAbout = about{
	definition:  tr("تحديد البنود غير العادية وغير المتكررة وأثرها على الأرباح", "Identifies unusual and non-recurring items and their effect on earnings"),
	measures:    tr("اعتماد الأرباح على بنود غير تشغيلية", "Reliance of earnings on non-operating items"),
	importance:  tr("يحسن تقدير جودة الأرباح", "Improves the assessment of earnings quality"),
	calculation: tr("(الإيرادات الأخرى + المصروفات الأخرى) ÷ |صافي الدخل|", "(Other income + other expense) / |net income|"),
}

func exceptionalItems(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	oie := s.IncomeStatement.OtherIncomeExpense
	nonOp := math.Abs(oie.OtherIncome) + math.Abs(oie.OtherExpense)
	share := safeDiv(nonOp, math.Abs(s.IncomeStatement.NetIncome))

	var unusual []ChangeItem
	if len(stmts) >= 2 {
		prev := stmts[len(stmts)-2]
		for _, items := range [][]lineItem{balanceSheetItems, incomeItems, cashFlowItems} {
			for _, it := range changeItems(items, prev, s, lang) {
				if math.Abs(it.PercentageChange) > 50 {
					unusual = append(unusual, it)
				}
			}
		}
	}

	res := newResult(c, exceptionalAbout)
	res.Result = map[string]any{"nonOperatingItems": nonOp, "shareOfNetIncome": roundTo(share, 4), "unusualChanges": unusual}
	res.Interpretation = fmt.Sprintf(tr("تمثل البنود غير التشغيلية %.1f%% من صافي الدخل، مع %d تغيرات غير عادية",
		"Non-operating items are %.1f%% of net income, with %d unusual changes").in(lang), share*100, len(unusual))
	res.Rating = lowerBetter(share, [4]float64{0.05, 0.1, 0.2, 0.35})
	res.Recommendation = tr("فصل البنود غير المتكررة عند تقييم الأداء", "Separate non-recurring items when judging performance").in(lang)
	if share > 0.35 {
		res.Risks = []string{tr("اعتماد كبير للأرباح على بنود غير تشغيلية", "Earnings lean heavily on non-operating items").in(lang)}
	}
	return res, nil
}

var indexAbout = about{
	definition:  tr("الأرقام القياسية للبنود الرئيسية بسنة أساس = 100", "Index numbers for key lines with base year = 100"),
	measures:    tr("النمو التراكمي منذ سنة الأساس", "Cumulative growth since the base year"),
	importance:  tr("يسهل مقارنة نمو البنود المختلفة", "Makes growth of different lines comparable"),
	calculation: tr("قيمة السنة ÷ قيمة سنة الأساس × 100", "Year value / base year value x 100"),
}

func indexNumbers(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	indices := map[string][]float64{}
	for _, it := range keyItems {
		xs := series(stmts, it.get)
		idx := make([]float64, len(xs))
		for i, x := range xs {
			idx[i] = round2(safeDiv(x, xs[0]) * 100)
		}
		indices[it.key] = idx
	}
	rev := indices["revenue"]
	last := rev[len(rev)-1]

	res := newResult(c, indexAbout)
	res.Result = map[string]any{"baseYear": stmts[0].Year, "years": years(stmts), "indices": indices}
	res.Interpretation = fmt.Sprintf(tr("مؤشر الإيرادات في آخر سنة %.1f (سنة الأساس = 100)", "Latest revenue index is %.1f (base = 100)").in(lang), last)
	res.Rating = higherBetter(last, [4]float64{130, 115, 105, 100})
	res.Recommendation = tr("مقارنة نمو التكاليف بنمو الإيرادات", "Compare cost growth with revenue growth").in(lang)
	return res, nil
}
