package catalog

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerModeling(r *Registry) {
	r.Register(model.AdvancedScenarioAnalysis, scenarioAnalysis)
	r.Register(model.MonteCarloSimulation, monteCarlo)
	r.Register(model.ComplexFinancialModeling, threeStatementModel)
	r.Register(model.MultiVariableSensitivity, multiSensitivity)
	r.Register(model.DecisionTreeAnalysis, decisionTree)
	r.Register(model.RealOptionsAnalysis, realOptions)
	r.Register(model.FinancialForecasting, forecasting)
	r.Register(model.WhatIfAnalysis, whatIf)
	r.Register(model.StochasticSimulation, stochastic)
}

const simulationRuns = 1000

// rngFor seeds a generator from the company and analysis so repeated runs
// over the same input produce the same distribution.
func rngFor(c model.Company, t model.AnalysisType) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(c.Name))
	h.Write([]byte(c.Sector))
	h.Write([]byte(t))
	seed := h.Sum64()
	return rand.New(rand.NewPCG(seed, seed>>1|1))
}

// growthStats returns the mean and sample deviation of revenue growth as
// fractions, falling back to industry defaults for short histories.
func growthStats(stmts []model.FinancialStatement) (mu, sigma float64) {
	rates := growthRates(series(stmts, revenueOf))
	if len(rates) < 2 {
		if len(rates) == 1 {
			return rates[0] / 100, 0.1
		}
		return industryGrowth, 0.1
	}
	for i := range rates {
		rates[i] /= 100
	}
	return mean(rates), math.Max(stddev(rates), 0.02)
}

func marginStats(stmts []model.FinancialStatement) (mu, sigma float64) {
	margins := make([]float64, len(stmts))
	for i, s := range stmts {
		margins[i] = safeDiv(netIncomeOf(s), revenueOf(s))
	}
	return mean(margins), math.Max(stddev(margins), 0.01)
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Round(p * float64(len(sorted)-1)))
	return sorted[idx]
}

// Distribution summarises simulated outcomes.
type Distribution struct {
	Mean float64 `json:"mean"`
	P5   float64 `json:"p5"`
	P25  float64 `json:"p25"`
	P50  float64 `json:"p50"`
	P75  float64 `json:"p75"`
	P95  float64 `json:"p95"`
}

func distributionOf(xs []float64) Distribution {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	return Distribution{
		Mean: round2(mean(sorted)),
		P5:   round2(percentile(sorted, 0.05)),
		P25:  round2(percentile(sorted, 0.25)),
		P50:  round2(percentile(sorted, 0.5)),
		P75:  round2(percentile(sorted, 0.75)),
		P95:  round2(percentile(sorted, 0.95)),
	}
}

type scenario struct {
	Name        string    `json:"name"`
	Probability float64   `json:"probability"`
	Growth      float64   `json:"growth"`
	Margin      float64   `json:"margin"`
	NetIncome   []float64 `json:"netIncome"`
}

var scenarioAbout = about{
	definition:  tr("بناء سيناريوهات متفائلة وأساسية ومتشائمة لثلاث سنوات", "Builds optimistic, base and pessimistic three-year scenarios"),
	measures:    tr("نطاق النتائج المحتملة والقيمة المتوقعة", "Range of outcomes and the expected value"),
	importance:  tr("يهيئ الإدارة لمختلف الظروف", "Prepares management for different conditions"),
	calculation: tr("القيمة المتوقعة = Σ الاحتمال × نتيجة السيناريو", "Expected value = Σ probability x scenario outcome"),
}

func scenarioAnalysis(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	g, _ := growthStats(stmts)
	m := safeDiv(netIncomeOf(s), revenueOf(s))
	defs := []struct {
		name   text
		p      float64
		dg, dm float64
	}{
		{tr("متفائل", "Optimistic"), 0.25, 0.05, 0.02},
		{tr("أساسي", "Base"), 0.5, 0, 0},
		{tr("متشائم", "Pessimistic"), 0.25, -0.05, -0.02},
	}
	scenarios := make([]scenario, len(defs))
	var expected float64
	for i, d := range defs {
		rev := projections(revenueOf(s), g+d.dg, 3)
		ni := make([]float64, len(rev))
		for j, r := range rev {
			ni[j] = round2(r * (m + d.dm))
		}
		scenarios[i] = scenario{d.name.in(lang), d.p, roundTo(g+d.dg, 4), roundTo(m+d.dm, 4), ni}
		expected += d.p * ni[len(ni)-1]
	}
	worst := scenarios[2].NetIncome[2]

	res := newResult(c, scenarioAbout)
	res.Result = map[string]any{"scenarios": scenarios, "expectedNetIncome": round2(expected)}
	res.Interpretation = fmt.Sprintf(tr("صافي الدخل المتوقع بعد ثلاث سنوات %.0f، وفي السيناريو المتشائم %.0f", "Expected net income in three years is %.0f, %.0f in the pessimistic case").in(lang), expected, worst)
	switch {
	case worst > netIncomeOf(s):
		res.Rating = model.RatingExcellent
	case worst > 0:
		res.Rating = model.RatingVeryGood
	case expected > 0:
		res.Rating = model.RatingAcceptable
	default:
		res.Rating = model.RatingWeak
	}
	if worst <= 0 {
		res.Risks = []string{tr("خسائر محتملة في السيناريو المتشائم", "Losses are possible in the pessimistic case").in(lang)}
	}
	res.Recommendation = tr("إعداد خطط طوارئ للسيناريو المتشائم", "Prepare contingency plans for the pessimistic case").in(lang)
	return res, nil
}

var monteCarloAbout = about{
	definition:  tr("محاكاة آلاف المسارات المحتملة لصافي الدخل في السنة القادمة", "Simulates thousands of possible paths for next year's net income"),
	measures:    tr("توزيع النتائج واحتمال الخسارة", "Outcome distribution and probability of loss"),
	importance:  tr("يقيس عدم اليقين بشكل كمي", "Quantifies uncertainty"),
	calculation: tr("نمو الإيرادات والهامش من توزيعات طبيعية مقدرة من التاريخ", "Revenue growth and margin drawn from normals fitted to history"),
}

func monteCarlo(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	rng := rngFor(c, model.MonteCarloSimulation)
	gMu, gSigma := growthStats(stmts)
	mMu, mSigma := marginStats(stmts)

	outcomes := make([]float64, simulationRuns)
	losses := 0
	for i := range outcomes {
		rev := revenueOf(s) * (1 + gMu + gSigma*rng.NormFloat64())
		ni := rev * (mMu + mSigma*rng.NormFloat64())
		outcomes[i] = ni
		if ni < 0 {
			losses++
		}
	}
	pLoss := float64(losses) / simulationRuns
	dist := distributionOf(outcomes)

	res := newResult(c, monteCarloAbout)
	res.Result = map[string]any{"runs": simulationRuns, "netIncome": dist, "probabilityOfLoss": roundTo(pLoss, 4),
		"assumptions": map[string]float64{"growthMean": roundTo(gMu, 4), "growthStdDev": roundTo(gSigma, 4), "marginMean": roundTo(mMu, 4), "marginStdDev": roundTo(mSigma, 4)}}
	res.Interpretation = fmt.Sprintf(tr("احتمال تحقيق خسارة %.1f%% والوسيط المتوقع لصافي الدخل %.0f", "Probability of a loss is %.1f%% with a median net income of %.0f").in(lang), pLoss*100, dist.P50)
	res.Rating = lowerBetter(pLoss, [4]float64{0.05, 0.1, 0.2, 0.35})
	res.Recommendation = tr("تقليل تقلب الهوامش عبر التحوط وتنويع الإيرادات", "Reduce margin volatility through hedging and diversification").in(lang)
	res.Charts = []model.Chart{{Type: "histogram", Title: tr("توزيع صافي الدخل", "Net income distribution").in(lang), Data: map[string]any{"percentiles": dist}}}
	return res, nil
}

var threeStatementAbout = about{
	definition:  tr("نموذج مالي متكامل يربط قائمة الدخل بالميزانية لثلاث سنوات", "Integrated three-year model linking income statement and balance sheet"),
	measures:    tr("الأرباح والأصول والتمويل المتوقع", "Projected earnings, assets and funding"),
	importance:  tr("يكشف احتياجات التمويل المستقبلية", "Reveals future funding needs"),
	calculation: tr("الأصول تنمو مع الإيرادات، حقوق الملكية تزيد بالأرباح المحتجزة، والدين هو البند الموازن", "Assets scale with revenue, equity grows by retained earnings, debt balances"),
}

func threeStatementModel(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	g, _ := growthStats(stmts)
	margin := safeDiv(netIncomeOf(s), revenueOf(s))
	assetIntensity := safeDiv(assetsOf(s), revenueOf(s))
	payout := clamp(safeDiv(math.Abs(s.CashFlowStatement.FinancingActivities.DividendsPaid), netIncomeOf(s)), 0, 1)
	debt := s.BalanceSheet.TotalDebt()
	otherLiab := s.BalanceSheet.TotalLiabilities - debt

	type year struct {
		Year      int     `json:"year"`
		Revenue   float64 `json:"revenue"`
		NetIncome float64 `json:"netIncome"`
		Assets    float64 `json:"totalAssets"`
		Equity    float64 `json:"equity"`
		Debt      float64 `json:"debt"`
		ROE       float64 `json:"roe"`
	}
	rev, equity := revenueOf(s), equityOf(s)
	var out []year
	for i := 1; i <= 3; i++ {
		rev *= 1 + g
		ni := rev * margin
		assets := rev * assetIntensity
		equity += ni * (1 - payout)
		other := otherLiab * (1 + g)
		d := math.Max(0, assets-equity-other)
		out = append(out, year{s.Year + i, round2(rev), round2(ni), round2(assets), round2(equity), round2(d), roundTo(safeDiv(ni, equity), 4)})
	}
	last := out[len(out)-1]
	funding := last.Debt - debt

	res := newResult(c, threeStatementAbout)
	res.Result = map[string]any{"projection": out, "additionalFunding": round2(funding)}
	if funding > 0 {
		res.Interpretation = fmt.Sprintf(tr("يتطلب النمو المتوقع تمويلاً إضافياً بقيمة %.0f", "Projected growth needs %.0f of additional funding").in(lang), funding)
	} else {
		res.Interpretation = tr("يمكن تمويل النمو المتوقع ذاتياً", "Projected growth can be self-funded").in(lang)
	}
	res.Rating = higherBetter(last.ROE, [4]float64{0.2, 0.15, 0.1, 0.05})
	res.Recommendation = tr("مواءمة خطة التمويل مع احتياجات النمو المتوقعة", "Align the funding plan with projected needs").in(lang)
	return res, nil
}

var multiSensitivityAbout = about{
	definition:  tr("أثر التغير المتزامن في الإيرادات والتكاليف على صافي الدخل", "Net income effect of joint revenue and cost changes"),
	measures:    tr("مصفوفة صافي الدخل تحت تركيبات مختلفة", "Net income matrix under combined changes"),
	importance:  tr("يكشف التركيبات التي تؤدي إلى خسارة", "Shows which combinations lead to losses"),
	calculation: tr("إعادة حساب صافي الدخل لكل تركيبة من التغيرات", "Recompute net income for each combination"),
}

func multiSensitivity(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	steps := []float64{-0.1, -0.05, 0, 0.05, 0.1}
	matrix := make([][]float64, len(steps))
	positive := 0
	for i, dr := range steps {
		matrix[i] = make([]float64, len(steps))
		for j, dc := range steps {
			ni := shockNetIncome(v.s, dr, dc, dc, 0, v.taxRate)
			matrix[i][j] = round2(ni)
			if ni > 0 {
				positive++
			}
		}
	}
	share := float64(positive) / float64(len(steps)*len(steps))

	res := newResult(c, multiSensitivityAbout)
	res.Result = map[string]any{"revenueChanges": steps, "costChanges": steps, "netIncome": matrix}
	res.Interpretation = fmt.Sprintf(tr("تبقى الشركة رابحة في %.0f%% من التركيبات", "The company stays profitable in %.0f%% of combinations").in(lang), share*100)
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("مراقبة التركيبات التي تؤدي إلى خسارة", "Watch the combinations that lead to losses").in(lang)
	res.Charts = []model.Chart{{Type: "heatmap", Data: map[string]any{"x": steps, "y": steps, "values": matrix}}}
	return res, nil
}

var decisionTreeAbout = about{
	definition:  tr("مقارنة قرار التوسع بقرار الاستمرار باستخدام القيمة النقدية المتوقعة", "Compares expanding against maintaining by expected monetary value"),
	measures:    tr("القيمة المتوقعة لكل فرع قرار", "Expected value of each decision branch"),
	importance:  tr("يدعم القرارات في ظل عدم اليقين", "Supports decisions under uncertainty"),
	calculation: tr("القيمة المتوقعة = Σ الاحتمال × صافي القيمة الحالية - الاستثمار", "EMV = Σ probability x NPV - investment"),
}

func decisionTree(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	investment := assetsOf(v.s) * 0.2
	base := npv(v.wacc, projections(v.fcf, v.growth, projectionYears))
	success := npv(v.wacc, projections(v.fcf*1.2, v.growth+0.05, projectionYears))
	failure := npv(v.wacc, projections(v.fcf, v.growth-0.02, projectionYears))
	expand := 0.6*success + 0.4*failure - investment
	gain := safeDiv(expand-base, math.Abs(base))

	decision := tr("الاستمرار بالوضع الحالي", "Maintain the current course")
	if expand > base {
		decision = tr("التوسع", "Expand")
	}

	res := newResult(c, decisionTreeAbout)
	res.Result = map[string]any{
		"maintain":   round2(base),
		"expand":     round2(expand),
		"investment": round2(investment),
		"branches": []map[string]any{
			{"outcome": "success", "probability": 0.6, "npv": round2(success)},
			{"outcome": "failure", "probability": 0.4, "npv": round2(failure)},
		},
		"decision": decision.in(lang),
	}
	res.Interpretation = fmt.Sprintf(tr("القرار الأفضل: %s (القيمة المتوقعة للتوسع %.0f مقابل %.0f)", "Best decision: %s (expansion EMV %.0f against %.0f)").in(lang), decision.in(lang), expand, base)
	res.Rating = ratingFromScore(60 + clamp(gain*100, -40, 40))
	res.Recommendation = tr("إعادة تقدير الاحتمالات مع توفر معلومات جديدة", "Re-estimate probabilities as new information arrives").in(lang)
	return res, nil
}

// normCDF is the standard normal cumulative distribution.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// blackScholesCall prices a European call.
func blackScholesCall(spot, strike, rate, sigma, years float64) float64 {
	if spot <= 0 || strike <= 0 || sigma <= 0 || years <= 0 {
		return math.Max(0, spot-strike)
	}
	d1 := (math.Log(spot/strike) + (rate+sigma*sigma/2)*years) / (sigma * math.Sqrt(years))
	d2 := d1 - sigma*math.Sqrt(years)
	return finite(spot*normCDF(d1) - strike*math.Exp(-rate*years)*normCDF(d2))
}

var realOptionsAbout = about{
	definition:  tr("تقييم خيار التوسع المستقبلي كخيار شراء", "Values a future expansion as a call option"),
	measures:    tr("قيمة المرونة الإدارية", "Value of managerial flexibility"),
	importance:  tr("يلتقط قيمة لا تظهر في التدفقات المخصومة", "Captures value a plain DCF misses"),
	calculation: tr("نموذج بلاك-شولز: الأصل = 30% من قيمة المنشأة، السعر = 20% من الأصول، المدة 3 سنوات", "Black-Scholes: underlying = 30% of EV, strike = 20% of assets, 3 years"),
}

func realOptions(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	_, sigma := growthStats(stmts)
	sigma = math.Max(sigma, bm.GetOr("volatility", 0.3))
	ev := v.dcf(v.wacc, v.growth).EnterpriseValue
	spot := math.Max(0, ev*0.3)
	strike := assetsOf(v.s) * 0.2
	rate := bm.GetOr("riskFreeRate", riskFreeRate)
	value := blackScholesCall(spot, strike, rate, sigma, 3)
	ratio := safeDiv(value, strike)

	res := newResult(c, realOptionsAbout)
	res.Result = map[string]any{"optionValue": round2(value), "underlying": round2(spot), "strike": round2(strike), "volatility": roundTo(sigma, 4), "years": 3}
	res.Interpretation = fmt.Sprintf(tr("قيمة خيار التوسع %.0f أي %.1f%% من الاستثمار المطلوب", "The expansion option is worth %.0f, %.1f%% of the required investment").in(lang), value, ratio*100)
	res.Rating = higherBetter(ratio, [4]float64{0.5, 0.3, 0.15, 0.05})
	res.Recommendation = tr("الحفاظ على خيارات التوسع مفتوحة حتى تتضح الظروف", "Keep expansion options open until conditions clarify").in(lang)
	return res, nil
}

var forecastingAbout = about{
	definition:  tr("التنبؤ بالبنود الرئيسية لثلاث سنوات قادمة", "Forecasts key lines three years ahead"),
	measures:    tr("القيم المتوقعة ودرجة الثقة فيها", "Expected values and confidence in them"),
	importance:  tr("أساس التخطيط والموازنات", "Foundation of planning and budgeting"),
	calculation: tr("انحدار خطي على التاريخ، أو نمو الصناعة عند توفر سنة واحدة", "Linear regression on history, or industry growth with one year"),
}

func forecasting(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	type fc struct {
		Account  string    `json:"account"`
		Forecast []float64 `json:"forecast"`
		RSquared float64   `json:"rSquared"`
		Method   string    `json:"method"`
	}
	out := make([]fc, len(keyItems))
	for i, it := range keyItems {
		ys := series(stmts, it.get)
		f := fc{Account: it.label.in(lang)}
		if len(ys) >= 2 {
			a, b, r2 := linreg(ys)
			for k := range 3 {
				f.Forecast = append(f.Forecast, round2(a+b*float64(len(ys)+k)))
			}
			f.RSquared, f.Method = roundTo(r2, 4), "linear"
		} else {
			for _, p := range projections(ys[0], industryGrowth, 3) {
				f.Forecast = append(f.Forecast, round2(p))
			}
			f.Method = "industryGrowth"
		}
		out[i] = f
	}
	rev := out[0]
	cur := revenueOf(model.Latest(stmts))
	growth := safeDiv(rev.Forecast[2]-cur, math.Abs(cur))

	res := newResult(c, forecastingAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("يتوقع أن تبلغ الإيرادات %.0f بعد ثلاث سنوات", "Revenue is forecast to reach %.0f in three years").in(lang), rev.Forecast[2])
	res.Rating = higherBetter(growth, [4]float64{0.3, 0.15, 0.05, 0})
	if rev.Method == "linear" && rev.RSquared < 0.5 {
		res.Risks = []string{tr("دقة التنبؤ منخفضة بسبب تذبذب التاريخ", "Forecast accuracy is low due to a volatile history").in(lang)}
	}
	res.Recommendation = tr("تحديث التنبؤات عند صدور نتائج جديدة", "Update forecasts when new results are published").in(lang)
	return res, nil
}

var whatIfAbout = about{
	definition:  tr("تقدير أثر قرارات إدارية محددة على الأرباح", "Estimates the profit effect of specific management moves"),
	measures:    tr("التغير في صافي الدخل لكل قرار", "Change in net income per move"),
	importance:  tr("يساعد في اختيار أفضل الإجراءات", "Helps pick the best actions"),
	calculation: tr("إعادة حساب صافي الدخل بعد تطبيق كل افتراض", "Recompute net income under each assumption"),
}

func whatIf(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	s := v.s
	split := splitCosts(stmts)
	varRate := split.VariableRate
	debt := s.BalanceSheet.TotalDebt()
	type move struct {
		Move      string  `json:"move"`
		NetIncome float64 `json:"netIncome"`
		Change    float64 `json:"changePct"`
	}
	ni := netIncomeOf(s)
	mk := func(name text, dEBT float64) move {
		n := ni + dEBT*(1-v.taxRate)
		return move{name.in(lang), round2(n), round2(pctChange(ni, n))}
	}
	rev := revenueOf(s)
	moves := []move{
		mk(tr("رفع الأسعار 5%", "Raise prices 5%"), rev*0.05),
		mk(tr("زيادة الحجم 10%", "Grow volume 10%"), rev*0.1*(1-varRate)),
		mk(tr("خفض المصروفات التشغيلية 5%", "Cut operating expenses 5%"), s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses*0.05),
		mk(tr("إعادة تمويل الدين بفائدة أقل بنقطة", "Refinance debt 1pt cheaper"), debt*0.01),
	}
	best := moves[0]
	for _, m := range moves[1:] {
		if m.Change > best.Change {
			best = m
		}
	}

	res := newResult(c, whatIfAbout)
	res.Result = moves
	res.Interpretation = fmt.Sprintf(tr("الإجراء الأكثر أثراً: %s (+%.1f%% في صافي الدخل)", "Most effective move: %s (+%.1f%% net income)").in(lang), best.Move, best.Change)
	res.Rating = ratioRating(model.NetProfitMargin, s, bm)
	res.Recommendation = fmt.Sprintf(tr("دراسة تنفيذ: %s", "Evaluate implementing: %s").in(lang), best.Move)
	return res, nil
}

var stochasticAbout = about{
	definition:  tr("محاكاة مسارات الإيرادات لخمس سنوات بحركة براونية هندسية", "Simulates five-year revenue paths with geometric Brownian motion"),
	measures:    tr("نطاق الإيرادات المستقبلية واحتمال التراجع", "Range of future revenue and probability of decline"),
	importance:  tr("يقيس مخاطر المسار وليس النقطة فقط", "Measures path risk, not just a point estimate"),
	calculation: tr("R(t+1) = R(t) × exp((μ - σ²/2) + σZ)", "R(t+1) = R(t) x exp((μ - σ²/2) + σZ)"),
}

func stochastic(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	rng := rngFor(c, model.StochasticSimulation)
	mu, sigma := growthStats(stmts)
	start := revenueOf(model.Latest(stmts))
	finals := make([]float64, simulationRuns)
	declines := 0
	for i := range finals {
		r := start
		for range projectionYears {
			r *= math.Exp(mu - sigma*sigma/2 + sigma*rng.NormFloat64())
		}
		finals[i] = r
		if r < start {
			declines++
		}
	}
	pDecline := float64(declines) / simulationRuns
	dist := distributionOf(finals)

	res := newResult(c, stochasticAbout)
	res.Result = map[string]any{"runs": simulationRuns, "years": projectionYears, "finalRevenue": dist, "probabilityOfDecline": roundTo(pDecline, 4)}
	res.Interpretation = fmt.Sprintf(tr("احتمال انخفاض الإيرادات بعد خمس سنوات %.1f%%، والنطاق (5%%-95%%) من %.0f إلى %.0f",
		"Probability revenue is lower in five years is %.1f%%; the 5-95%% range is %.0f to %.0f").in(lang), pDecline*100, dist.P5, dist.P95)
	res.Rating = lowerBetter(pDecline, [4]float64{0.1, 0.2, 0.3, 0.45})
	res.Recommendation = tr("بناء خطط تتحمل الطرف الأدنى من التوزيع", "Plan to withstand the low end of the distribution").in(lang)
	return res, nil
}
