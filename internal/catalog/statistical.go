package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerStatistical(r *Registry) {
	r.Register(model.MultipleRegression, needsYears(2, regressionAbout, multipleRegression))
	r.Register(model.AdvancedTimeSeries, needsYears(2, advTimeSeriesAbout, advancedTimeSeries))
	r.Register(model.GARCHModels, needsYears(2, volatilityAbout, volatilityModel))
	r.Register(model.ExtremeValueTheory, needsYears(2, extremeAbout, extremeValues))
	r.Register(model.SurvivalAnalysis, survival)
	r.Register(model.MarkovModels, needsYears(2, markovAbout, markov))
	r.Register(model.ThresholdAnalysis, thresholds)
	r.Register(model.BootstrapAnalysis, needsYears(2, bootstrapAbout, bootstrap))
}

// ols solves the normal equations for y = Xb using Gaussian elimination
// with partial pivoting. Each row of x must already carry the intercept.
func ols(x [][]float64, y []float64) ([]float64, bool) {
	k := len(x[0])
	a := make([][]float64, k)
	for i := range a {
		a[i] = make([]float64, k+1)
		for j := range k {
			for r := range x {
				a[i][j] += x[r][i] * x[r][j]
			}
		}
		for r := range x {
			a[i][k] += x[r][i] * y[r]
		}
	}
	for col := range k {
		pivot := col
		for r := col + 1; r < k; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := range k {
			if r == col {
				continue
			}
			f := a[r][col] / a[col][col]
			for j := col; j <= k; j++ {
				a[r][j] -= f * a[col][j]
			}
		}
	}
	b := make([]float64, k)
	for i := range k {
		b[i] = finite(a[i][k] / a[i][i])
	}
	return b, true
}

func rSquared(x [][]float64, y, b []float64) float64 {
	my := mean(y)
	var ssTot, ssRes float64
	for r := range y {
		var fit float64
		for j := range b {
			fit += b[j] * x[r][j]
		}
		ssTot += (y[r] - my) * (y[r] - my)
		ssRes += (y[r] - fit) * (y[r] - fit)
	}
	if ssTot == 0 {
		return 0
	}
	return finite(1 - ssRes/ssTot)
}

var regressionAbout = about{
	definition:  tr("نمذجة صافي الدخل كدالة في الإيرادات والمصروفات التشغيلية", "Models net income as a function of revenue and operating expenses"),
	measures:    tr("أثر كل متغير على الربح وجودة التوفيق", "Each driver's effect on profit and goodness of fit"),
	importance:  tr("يحدد المحركات الفعلية للربحية", "Identifies the real drivers of profitability"),
	calculation: tr("صافي الدخل = b0 + b1 × الإيرادات + b2 × المصروفات التشغيلية", "Net income = b0 + b1 x revenue + b2 x operating expenses"),
}

func multipleRegression(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	y := series(stmts, netIncomeOf)
	// Two regressors need at least one residual degree of freedom.
	withOpex := len(stmts) >= 4
	x := make([][]float64, len(stmts))
	for i, s := range stmts {
		x[i] = []float64{1, revenueOf(s)}
		if withOpex {
			x[i] = append(x[i], s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses)
		}
	}
	b, ok := ols(x, y)
	if !ok {
		res := newResult(c, regressionAbout)
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = tr("لا يوجد تباين كافٍ في البيانات لتقدير النموذج", "The data does not vary enough to fit the model").in(lang)
		res.Rating = model.RatingAcceptable
		res.Recommendation = msgAddYears.in(lang)
		return res, nil
	}
	r2 := rSquared(x, y, b)
	coef := map[string]float64{"intercept": round2(b[0]), "revenue": roundTo(b[1], 4)}
	if withOpex {
		coef["operatingExpenses"] = roundTo(b[2], 4)
	}

	res := newResult(c, regressionAbout)
	res.Result = map[string]any{"coefficients": coef, "rSquared": roundTo(r2, 4), "observations": len(y)}
	res.Interpretation = fmt.Sprintf(tr("كل وحدة إيرادات إضافية تضيف %.2f إلى صافي الدخل، والنموذج يفسر %.0f%% من التباين",
		"Each extra unit of revenue adds %.2f to net income; the model explains %.0f%% of the variance").in(lang), b[1], r2*100)
	switch {
	case b[1] > 0.15:
		res.Rating = model.RatingExcellent
	case b[1] > 0.08:
		res.Rating = model.RatingVeryGood
	case b[1] > 0:
		res.Rating = model.RatingGood
	case b[1] > -0.05:
		res.Rating = model.RatingAcceptable
	default:
		res.Rating = model.RatingWeak
	}
	if !withOpex {
		res.Recommendation = msgAddYears.in(lang)
	} else {
		res.Recommendation = tr("التركيز على المحرك الأعلى أثراً في الربحية", "Focus on the driver with the largest effect on profit").in(lang)
	}
	return res, nil
}

// autocorrelation is the lag-1 autocorrelation of xs.
func autocorrelation(xs []float64) float64 {
	if len(xs) < 3 {
		return 0
	}
	return correlation(xs[:len(xs)-1], xs[1:])
}

var advTimeSeriesAbout = about{
	definition:  tr("تحليل اتجاه الإيرادات وتذبذبها واستمراريتها", "Analyses revenue trend, volatility and persistence"),
	measures:    tr("الاتجاه والتقلب والارتباط الذاتي", "Trend, volatility and autocorrelation"),
	importance:  tr("يميز النمو المستدام عن التقلبات العارضة", "Separates sustained growth from noise"),
	calculation: tr("انحدار خطي، انحراف معياري للنمو، ارتباط ذاتي بفجوة واحدة", "Linear trend, growth deviation, lag-1 autocorrelation"),
}

func advancedTimeSeries(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	rev := series(stmts, revenueOf)
	a, b, r2 := linreg(rev)
	rates := growthRates(rev)
	vol := stddev(rates)
	ac := autocorrelation(rates)
	next := a + b*float64(len(rev))
	slopePct := safeDiv(b, mean(rev)) * 100

	res := newResult(c, advTimeSeriesAbout)
	res.Result = map[string]any{
		"trendSlope":       round2(b),
		"trendPct":         round2(slopePct),
		"rSquared":         roundTo(r2, 4),
		"growthVolatility": round2(vol),
		"autocorrelation":  roundTo(ac, 4),
		"nextPeriod":       round2(next),
	}
	res.Interpretation = fmt.Sprintf(tr("الاتجاه العام %s بمعدل %.1f%% سنوياً وتذبذب النمو %.1f نقطة",
		"The trend is %s at %.1f%% a year with growth volatility of %.1f points").in(lang), trendWord(trendOf(slopePct), lang), slopePct, vol)
	score := 60 + clamp(slopePct*2, -40, 30) - clamp(vol, 0, 20)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("استخدام الاتجاه المقدر في إعداد الموازنات", "Use the fitted trend when preparing budgets").in(lang)
	res.Charts = []model.Chart{{Type: "line", Data: map[string]any{"years": years(stmts), "revenue": rev}}}
	return res, nil
}

var volatilityAbout = about{
	definition:  tr("تقدير تقلب نمو الأرباح بنموذج تباين مشروط مبسط", "Estimates earnings-growth volatility with a simple conditional variance model"),
	measures:    tr("التقلب الحالي والمستمر للأرباح", "Current and persistent earnings volatility"),
	importance:  tr("التقلب المرتفع يرفع تكلفة رأس المال", "High volatility raises the cost of capital"),
	calculation: tr("σ²(t) = λσ²(t-1) + (1-λ)r²(t-1) مع λ = 0.94", "σ²(t) = λσ²(t-1) + (1-λ)r²(t-1) with λ = 0.94"),
}

const ewmaLambda = 0.94

// ewmaVolatility returns the exponentially weighted volatility of returns
// expressed as fractions.
func ewmaVolatility(rets []float64) float64 {
	if len(rets) == 0 {
		return 0
	}
	v := rets[0] * rets[0]
	for _, r := range rets[1:] {
		v = ewmaLambda*v + (1-ewmaLambda)*r*r
	}
	return math.Sqrt(v)
}

func volatilityModel(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	rates := growthRates(series(stmts, netIncomeOf))
	for i := range rates {
		rates[i] /= 100
	}
	ewma := ewmaVolatility(rates)
	hist := stddev(rates)

	res := newResult(c, volatilityAbout)
	res.Result = map[string]any{"conditionalVolatility": roundTo(ewma, 4), "historicalVolatility": roundTo(hist, 4), "lambda": ewmaLambda}
	res.Interpretation = fmt.Sprintf(tr("التقلب المشروط لنمو الأرباح %.1f%%", "Conditional earnings-growth volatility is %.1f%%").in(lang), ewma*100)
	res.Rating = lowerBetter(ewma, [4]float64{0.1, 0.2, 0.35, 0.6})
	if ewma > hist && hist > 0 {
		res.Risks = []string{tr("التقلب الحالي أعلى من متوسطه التاريخي", "Current volatility is above its historical level").in(lang)}
	}
	res.Recommendation = tr("تنويع مصادر الدخل لتقليل تقلب الأرباح", "Diversify income to dampen earnings volatility").in(lang)
	return res, nil
}

var extremeAbout = about{
	definition:  tr("دراسة أسوأ التغيرات التاريخية في البنود الرئيسية", "Studies the worst historical moves in key lines"),
	measures:    tr("أقصى انخفاض سنوي لكل بند", "Largest annual decline per line"),
	importance:  tr("يكشف حجم الصدمات التي تعرضت لها الشركة", "Reveals the size of shocks the company has absorbed"),
	calculation: tr("أدنى معدل نمو سنوي لكل بند", "Minimum annual growth rate per line"),
}

func extremeValues(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type extreme struct {
		Account string  `json:"account"`
		Worst   float64 `json:"worstChangePct"`
		Best    float64 `json:"bestChangePct"`
		Year    int     `json:"worstYear"`
	}
	out := make([]extreme, 0, len(keyItems))
	worstAll := math.Inf(1)
	for _, it := range keyItems {
		rates := growthRates(series(stmts, it.get))
		e := extreme{Account: it.label.in(lang), Worst: math.Inf(1), Best: math.Inf(-1)}
		for i, r := range rates {
			if r < e.Worst {
				e.Worst, e.Year = r, stmts[i+1].Year
			}
			e.Best = math.Max(e.Best, r)
		}
		e.Worst, e.Best = round2(finite(e.Worst)), round2(finite(e.Best))
		worstAll = math.Min(worstAll, e.Worst)
		out = append(out, e)
	}

	res := newResult(c, extremeAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("أسوأ تغير سنوي مسجل %.1f%%", "The worst recorded annual change is %.1f%%").in(lang), worstAll)
	res.Rating = higherBetter(worstAll, [4]float64{0, -10, -25, -50})
	res.Recommendation = tr("الاحتفاظ باحتياطيات تغطي صدمات مماثلة", "Hold reserves that cover shocks of this size").in(lang)
	return res, nil
}

var survivalAbout = about{
	definition:  tr("تقدير احتمال استمرار الشركة خلال السنوات القادمة", "Estimates the probability the company keeps operating"),
	measures:    tr("احتمال البقاء لخمس سنوات", "Five-year survival probability"),
	importance:  tr("يقيس الاستمرارية على المدى المتوسط", "Measures medium-term going-concern strength"),
	calculation: tr("معدل خطر مشتق من مؤشر ألتمان Z", "Hazard rate derived from the Altman Z-score"),
}

// hazardFromZ maps an Altman Z-score to an annual default hazard.
func hazardFromZ(z float64) float64 {
	return clamp(1/(1+math.Exp(1.5*(z-1.8))), 0.002, 0.6)
}

func survival(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	z := altmanZ(model.Latest(stmts), bm)
	h := hazardFromZ(z)
	curve := make([]float64, projectionYears)
	for t := range curve {
		curve[t] = roundTo(math.Pow(1-h, float64(t+1)), 4)
	}
	p5 := curve[len(curve)-1]

	res := newResult(c, survivalAbout)
	res.Result = map[string]any{"zScore": round2(z), "annualHazard": roundTo(h, 4), "survivalCurve": curve}
	res.Interpretation = fmt.Sprintf(tr("احتمال الاستمرار لخمس سنوات %.1f%%", "Five-year survival probability is %.1f%%").in(lang), p5*100)
	res.Rating = higherBetter(p5, [4]float64{0.95, 0.85, 0.7, 0.5})
	res.Recommendation = tr("تعزيز رأس المال العامل والربحية لخفض معدل الخطر", "Strengthen working capital and profitability to lower the hazard").in(lang)
	return res, nil
}

var markovAbout = about{
	definition:  tr("نمذجة الانتقال بين حالات النمو والتراجع", "Models transitions between growth and decline states"),
	measures:    tr("احتمالات الانتقال والتوزيع طويل الأجل", "Transition probabilities and the long-run mix"),
	importance:  tr("يقدر احتمال استمرار النمو", "Estimates how likely growth is to persist"),
	calculation: tr("عد الانتقالات بين السنوات مع تمهيد لابلاس", "Count year-to-year transitions with Laplace smoothing"),
}

func markov(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	rates := growthRates(series(stmts, revenueOf))
	// counts[from][to], 0 = growth, 1 = decline, with Laplace smoothing.
	counts := [2][2]float64{{1, 1}, {1, 1}}
	state := func(r float64) int {
		if r >= 0 {
			return 0
		}
		return 1
	}
	for i := 1; i < len(rates); i++ {
		counts[state(rates[i-1])][state(rates[i])]++
	}
	var p [2][2]float64
	for i := range p {
		row := counts[i][0] + counts[i][1]
		p[i][0], p[i][1] = counts[i][0]/row, counts[i][1]/row
	}
	// Stationary share of growth years for a two-state chain.
	stationary := safeDiv(p[1][0], p[0][1]+p[1][0])
	current := state(rates[len(rates)-1])
	nextGrowth := p[current][0]

	res := newResult(c, markovAbout)
	res.Result = map[string]any{
		"transitions": map[string]map[string]float64{
			"growth":  {"growth": roundTo(p[0][0], 4), "decline": roundTo(p[0][1], 4)},
			"decline": {"growth": roundTo(p[1][0], 4), "decline": roundTo(p[1][1], 4)},
		},
		"probabilityNextGrowth": roundTo(nextGrowth, 4),
		"longRunGrowthShare":    roundTo(stationary, 4),
	}
	res.Interpretation = fmt.Sprintf(tr("احتمال تحقيق نمو في السنة القادمة %.0f%%", "Probability of growth next year is %.0f%%").in(lang), nextGrowth*100)
	res.Rating = higherBetter(nextGrowth, [4]float64{0.75, 0.6, 0.45, 0.3})
	res.Recommendation = tr("دعم العوامل التي تحافظ على حالة النمو", "Reinforce the factors that sustain growth").in(lang)
	return res, nil
}

// threshold is a critical level for one indicator.
type threshold struct {
	typ   model.AnalysisType
	level float64
	below bool
}

var criticalThresholds = []threshold{
	{model.CurrentRatio, 1, true},
	{model.QuickRatio, 0.5, true},
	{model.DebtToEquity, 3, false},
	{model.InterestCoverage, 1.5, true},
	{model.NetProfitMargin, 0, true},
	{model.ReturnOnEquity, 0, true},
}

// Breach reports an indicator on the wrong side of its critical level.
type Breach struct {
	Indicator string  `json:"indicator"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Breached  bool    `json:"breached"`
}

var thresholdAbout = about{
	definition:  tr("مقارنة المؤشرات الرئيسية بمستوياتها الحرجة", "Checks key indicators against critical levels"),
	measures:    tr("عدد المؤشرات التي تجاوزت حدودها", "Number of indicators past their limits"),
	importance:  tr("تجاوز العتبات يسبق الأزمات غالباً", "Breaches often precede distress"),
	calculation: tr("مقارنة كل مؤشر بعتبته الحرجة", "Compare each indicator to its critical level"),
}

func thresholds(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	out := make([]Breach, len(criticalThresholds))
	var breached []string
	for i, t := range criticalThresholds {
		v := ratioValue(t.typ, s, bm)
		hit := (t.below && v < t.level) || (!t.below && v > t.level)
		out[i] = Breach{Indicator: string(t.typ), Value: round2(v), Threshold: t.level, Breached: hit}
		if hit {
			breached = append(breached, string(t.typ))
		}
	}
	sort.Strings(breached)

	res := newResult(c, thresholdAbout)
	res.Result = out
	if len(breached) == 0 {
		res.Interpretation = tr("جميع المؤشرات ضمن الحدود الآمنة", "All indicators are within safe limits").in(lang)
	} else {
		res.Interpretation = fmt.Sprintf(tr("مؤشرات تجاوزت العتبة: %s", "Indicators past their threshold: %s").in(lang), joinList(breached, lang))
		res.Risks = []string{res.Interpretation}
	}
	res.Rating = ratingFromScore(100 - float64(len(breached))*20)
	res.Recommendation = tr("معالجة المؤشرات المتجاوزة بشكل عاجل", "Address breached indicators urgently").in(lang)
	return res, nil
}

const bootstrapSamples = 2000

var bootstrapAbout = about{
	definition:  tr("تقدير فترة ثقة لمتوسط النمو بإعادة المعاينة", "Estimates a confidence interval for mean growth by resampling"),
	measures:    tr("حدود الثقة 90% لمتوسط نمو الإيرادات", "90% bounds on mean revenue growth"),
	importance:  tr("يعطي تقديراً واقعياً لعدم اليقين مع عينات صغيرة", "Gives realistic uncertainty for small samples"),
	calculation: tr("سحب عينات مع الإرجاع وحساب المتوسط لكل عينة", "Resample with replacement and average each sample"),
}

func bootstrap(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	rates := growthRates(series(stmts, revenueOf))
	rng := rngFor(c, model.BootstrapAnalysis)
	means := make([]float64, bootstrapSamples)
	for i := range means {
		var sum float64
		for range rates {
			sum += rates[rng.IntN(len(rates))]
		}
		means[i] = sum / float64(len(rates))
	}
	sort.Float64s(means)
	lo, hi := percentile(means, 0.05), percentile(means, 0.95)

	res := newResult(c, bootstrapAbout)
	res.Result = map[string]any{"meanGrowthPct": round2(mean(rates)), "ciLowPct": round2(lo), "ciHighPct": round2(hi), "samples": bootstrapSamples}
	res.Interpretation = fmt.Sprintf(tr("متوسط النمو يقع بين %.1f%% و%.1f%% بثقة 90%%", "Mean growth lies between %.1f%% and %.1f%% with 90%% confidence").in(lang), lo, hi)
	switch {
	case lo > 10:
		res.Rating = model.RatingExcellent
	case lo > 0:
		res.Rating = model.RatingVeryGood
	case hi > 0:
		res.Rating = model.RatingGood
	case hi > -10:
		res.Rating = model.RatingAcceptable
	default:
		res.Rating = model.RatingWeak
	}
	if len(rates) < 3 {
		res.Recommendation = msgAddYears.in(lang)
	} else {
		res.Recommendation = tr("التخطيط على أساس الحد الأدنى لفترة الثقة", "Plan around the lower bound of the interval").in(lang)
	}
	return res, nil
}
