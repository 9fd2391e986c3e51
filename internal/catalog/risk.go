package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerRisk(r *Registry) {
	r.Register(model.CAPM, capm)
	r.Register(model.ValueAtRisk, valueAtRisk)
	r.Register(model.ExpectedShortfall, expectedShortfall)
	r.Register(model.StressTesting, stressTesting)
	r.Register(model.CatastrophicScenarios, catastrophic)
	r.Register(model.OperationalRisk, operationalRisk)
	r.Register(model.CreditRisk, creditRisk)
	r.Register(model.LiquidityRisk, liquidityRisk)
	r.Register(model.CreditRiskModels, distanceToDefault)
	r.Register(model.ConcentrationDiversification, concentration)
	r.Register(model.DrawdownAnalysis, needsYears(2, drawdownAbout, drawdown))
	r.Register(model.BankruptcyAnalysis, bankruptcy)
	r.Register(model.ForensicFinancialAnalysis, forensic)
}

// altmanZ is the original public-company Z-score. Market value of equity
// falls back to book equity when no price is known.
func altmanZ(s model.FinancialStatement, bm model.Benchmarks) float64 {
	ta := assetsOf(s)
	tl := s.BalanceSheet.TotalLiabilities
	mve := sharePrice(s, bm) * sharesOf(s)
	if mve <= 0 {
		mve = equityOf(s)
	}
	return finite(1.2*safeDiv(s.BalanceSheet.WorkingCapital(), ta) +
		1.4*safeDiv(s.BalanceSheet.ShareholdersEquity.RetainedEarnings, ta) +
		3.3*safeDiv(opIncomeOf(s)+s.IncomeStatement.OtherIncomeExpense.InterestExpense, ta) +
		0.6*safeDiv(mve, tl) +
		1.0*safeDiv(revenueOf(s), ta))
}

func altmanZone(z float64) text {
	switch {
	case z > 2.99:
		return tr("منطقة آمنة", "Safe zone")
	case z > 1.81:
		return tr("منطقة رمادية", "Grey zone")
	default:
		return tr("منطقة خطر", "Distress zone")
	}
}

// lossDistribution simulates next-year net income and returns the sorted
// outcomes together with the current level.
func lossDistribution(stmts []model.FinancialStatement, c model.Company, t model.AnalysisType) ([]float64, float64) {
	s := model.Latest(stmts)
	rng := rngFor(c, t)
	gMu, gSigma := growthStats(stmts)
	mMu, mSigma := marginStats(stmts)
	out := make([]float64, simulationRuns)
	for i := range out {
		out[i] = revenueOf(s) * (1 + gMu + gSigma*rng.NormFloat64()) * (mMu + mSigma*rng.NormFloat64())
	}
	sort.Float64s(out)
	return out, netIncomeOf(s)
}

var capmAbout = about{
	definition:  tr("العائد المطلوب على حقوق الملكية وفق نموذج تسعير الأصول الرأسمالية", "Required return on equity under CAPM"),
	measures:    tr("تكلفة حقوق الملكية مقارنة بالعائد المحقق", "Cost of equity against the realised return"),
	importance:  tr("يحدد ما إذا كانت الشركة تخلق قيمة للمساهمين", "Shows whether the company creates shareholder value"),
	calculation: tr("العائد المطلوب = العائد الخالي من المخاطر + بيتا × علاوة السوق", "Required return = risk-free + beta x market premium"),
}

func capm(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	roe := safeDiv(netIncomeOf(v.s), equityOf(v.s))
	spread := roe - v.costOfEquity

	res := newResult(c, capmAbout)
	res.Result = map[string]any{
		"riskFreeRate":      bm.GetOr("riskFreeRate", riskFreeRate),
		"beta":              bm.GetOr("beta", 1),
		"marketRiskPremium": bm.GetOr("marketRiskPremium", marketRiskPremium),
		"requiredReturn":    roundTo(v.costOfEquity, 4),
		"actualROE":         roundTo(roe, 4),
		"spread":            roundTo(spread, 4),
	}
	res.Interpretation = fmt.Sprintf(tr("العائد المطلوب %.1f%% والعائد المحقق على حقوق الملكية %.1f%%", "Required return is %.1f%% against an ROE of %.1f%%").in(lang), v.costOfEquity*100, roe*100)
	res.Rating = higherBetter(spread, [4]float64{0.08, 0.03, 0, -0.05})
	if spread < 0 {
		res.Risks = []string{tr("العائد المحقق أقل من تكلفة حقوق الملكية", "ROE is below the cost of equity").in(lang)}
	}
	res.Recommendation = tr("رفع العائد على حقوق الملكية فوق تكلفتها", "Lift ROE above the cost of equity").in(lang)
	return res, nil
}

var varAbout = about{
	definition:  tr("أقصى انخفاض متوقع في صافي الدخل عند مستوى ثقة محدد", "Largest expected fall in net income at a given confidence"),
	measures:    tr("الخسارة المحتملة عند 95% و99%", "Potential shortfall at 95% and 99%"),
	importance:  tr("مقياس معياري لحجم المخاطر", "A standard measure of risk size"),
	calculation: tr("المئين الأدنى لتوزيع صافي الدخل المحاكى مطروحاً من المستوى الحالي", "Current net income minus the low percentile of simulated outcomes"),
}

func valueAtRisk(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	dist, cur := lossDistribution(stmts, c, model.ValueAtRisk)
	var95 := math.Max(0, cur-percentile(dist, 0.05))
	var99 := math.Max(0, cur-percentile(dist, 0.01))
	rel := safeDiv(var95, math.Abs(cur))

	res := newResult(c, varAbout)
	res.Result = map[string]any{"var95": round2(var95), "var99": round2(var99), "var95Pct": round2(rel * 100), "runs": simulationRuns}
	res.Interpretation = fmt.Sprintf(tr("بثقة 95%% لن ينخفض صافي الدخل بأكثر من %.0f (%.1f%%)", "With 95%% confidence net income will not fall by more than %.0f (%.1f%%)").in(lang), var95, rel*100)
	res.Rating = lowerBetter(rel, [4]float64{0.15, 0.3, 0.5, 0.8})
	res.Recommendation = tr("الاحتفاظ بسيولة تغطي القيمة المعرضة للخطر", "Hold liquidity that covers the value at risk").in(lang)
	return res, nil
}

var esAbout = about{
	definition:  tr("متوسط الخسارة في أسوأ 5% من الحالات", "Average shortfall across the worst 5% of outcomes"),
	measures:    tr("شدة الخسائر الطرفية", "Severity of tail losses"),
	importance:  tr("يكمل القيمة المعرضة للخطر بقياس عمق الذيل", "Complements VaR by measuring tail depth"),
	calculation: tr("متوسط الانخفاض عن المستوى الحالي في أسوأ 5% من المحاكاة", "Mean fall from the current level over the worst 5% of runs"),
}

func expectedShortfall(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	dist, cur := lossDistribution(stmts, c, model.ExpectedShortfall)
	tail := dist[:max(1, len(dist)/20)]
	es := math.Max(0, cur-mean(tail))
	rel := safeDiv(es, math.Abs(cur))

	res := newResult(c, esAbout)
	res.Result = map[string]any{"expectedShortfall95": round2(es), "pct": round2(rel * 100), "tailMean": round2(mean(tail))}
	res.Interpretation = fmt.Sprintf(tr("في أسوأ 5%% من الحالات ينخفض صافي الدخل بمتوسط %.0f", "In the worst 5%% of cases net income falls by %.0f on average").in(lang), es)
	res.Rating = lowerBetter(rel, [4]float64{0.25, 0.45, 0.7, 1})
	if mean(tail) < 0 {
		res.Risks = []string{tr("الخسائر الطرفية تتجاوز الأرباح الحالية", "Tail losses exceed current profits").in(lang)}
	}
	res.Recommendation = tr("بناء احتياطيات لمواجهة الأحداث الطرفية", "Build reserves for tail events").in(lang)
	return res, nil
}

// StressCase is one adverse scenario applied to the latest statement.
type StressCase struct {
	Name         string  `json:"name"`
	NetIncome    float64 `json:"netIncome"`
	Equity       float64 `json:"equity"`
	CurrentRatio float64 `json:"currentRatio"`
	Survives     bool    `json:"survives"`
}

type stressSpec struct {
	name                   text
	dRev, dCogs, dInterest float64
	// dInterest scales interest expense; cashHaircut removes a share of
	// current assets.
	cashHaircut float64
}

func stressCases(s model.FinancialStatement, specs []stressSpec, tax float64, lang model.Language) []StressCase {
	out := make([]StressCase, len(specs))
	for i, sp := range specs {
		ni := shockNetIncome(s, sp.dRev, sp.dCogs, 0, s.IncomeStatement.OtherIncomeExpense.InterestExpense*sp.dInterest, tax)
		eq := equityOf(s) - netIncomeOf(s) + ni
		ca := s.BalanceSheet.CurrentAssets.TotalCurrentAssets*(1-sp.cashHaircut) + math.Min(0, ni)
		cr := safeDiv(ca, s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities)
		out[i] = StressCase{sp.name.in(lang), round2(ni), round2(eq), round2(cr), eq > 0 && cr >= 1}
	}
	return out
}

func survivalShare(cases []StressCase) float64 {
	n := 0
	for _, c := range cases {
		if c.Survives {
			n++
		}
	}
	return float64(n) / float64(len(cases))
}

var stressAbout = about{
	definition:  tr("اختبار قدرة الشركة على تحمل ظروف سلبية حادة", "Tests resilience to severe adverse conditions"),
	measures:    tr("الأرباح وحقوق الملكية والسيولة بعد الصدمة", "Profit, equity and liquidity after each shock"),
	importance:  tr("يكشف نقاط الضعف قبل وقوع الأزمات", "Exposes weaknesses before a crisis hits"),
	calculation: tr("تطبيق صدمات على الإيرادات والتكاليف والفائدة", "Apply shocks to revenue, costs and interest"),
}

func stressTesting(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	cases := stressCases(v.s, []stressSpec{
		{name: tr("ركود معتدل", "Mild recession"), dRev: -0.1},
		{name: tr("ركود حاد", "Severe recession"), dRev: -0.25, dCogs: -0.15},
		{name: tr("صدمة تكاليف", "Cost shock"), dCogs: 0.15},
		{name: tr("ارتفاع الفائدة", "Rate shock"), dInterest: 0.5},
		{name: tr("أزمة سيولة", "Liquidity squeeze"), dRev: -0.1, cashHaircut: 0.3},
	}, v.taxRate, lang)
	share := survivalShare(cases)

	res := newResult(c, stressAbout)
	res.Result = cases
	res.Interpretation = fmt.Sprintf(tr("تجتاز الشركة %.0f%% من اختبارات الضغط", "The company passes %.0f%% of stress tests").in(lang), share*100)
	res.Rating = ratingFromScore(share * 100)
	for _, sc := range cases {
		if !sc.Survives {
			res.Risks = append(res.Risks, fmt.Sprintf(tr("ضعف أمام سيناريو: %s", "Vulnerable to: %s").in(lang), sc.Name))
		}
	}
	res.Recommendation = tr("إعداد خطط استجابة للسيناريوهات التي لم تجتزها الشركة", "Prepare responses for the failed scenarios").in(lang)
	return res, nil
}

var catastrophicAbout = about{
	definition:  tr("تقييم أثر أحداث نادرة وشديدة على بقاء الشركة", "Assesses how rare severe events affect survival"),
	measures:    tr("القدرة على البقاء بعد صدمات قصوى", "Ability to survive extreme shocks"),
	importance:  tr("يحمي من المخاطر ذات الاحتمال المنخفض والأثر الكبير", "Guards against low-probability high-impact risks"),
	calculation: tr("صدمات متزامنة على الإيرادات والتكاليف والتمويل", "Simultaneous shocks to revenue, costs and funding"),
}

func catastrophic(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	cases := stressCases(v.s, []stressSpec{
		{name: tr("انهيار الطلب", "Demand collapse"), dRev: -0.5, dCogs: -0.3},
		{name: tr("أزمة مالية شاملة", "Systemic financial crisis"), dRev: -0.35, dInterest: 1, cashHaircut: 0.5},
		{name: tr("توقف الإمدادات", "Supply shutdown"), dRev: -0.4, dCogs: 0.1},
	}, v.taxRate, lang)
	share := survivalShare(cases)
	months := safeDiv(liquidCash(v.s), math.Max(1, (v.s.IncomeStatement.CostOfGoodsSold+v.s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses)/12))

	res := newResult(c, catastrophicAbout)
	res.Result = map[string]any{"scenarios": cases, "cashRunwayMonths": round2(months)}
	res.Interpretation = fmt.Sprintf(tr("تكفي السيولة الحالية لتغطية %.1f شهر من التكاليف دون إيرادات", "Current cash covers %.1f months of costs with no revenue").in(lang), months)
	res.Rating = ratingFromScore(share*60 + clamp(months, 0, 12)/12*40)
	res.Recommendation = tr("وضع خطة استمرارية أعمال وتأمين ضد الكوارث", "Maintain a continuity plan and catastrophe cover").in(lang)
	return res, nil
}

func liquidCash(s model.FinancialStatement) float64 {
	return s.BalanceSheet.CurrentAssets.Cash + s.BalanceSheet.CurrentAssets.MarketableSecurities
}

var operationalRiskAbout = about{
	definition:  tr("تقدير المخاطر الناتجة عن هيكل التشغيل", "Estimates risk arising from the operating structure"),
	measures:    tr("الرافعة التشغيلية وتقلب الهامش التشغيلي", "Operating leverage and operating-margin volatility"),
	importance:  tr("الرافعة العالية تضخم أثر تراجع المبيعات", "High leverage amplifies sales declines"),
	calculation: tr("درجة الرافعة = هامش المساهمة ÷ الربح التشغيلي", "DOL = contribution / operating income"),
}

func operationalRisk(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	split := splitCosts(stmts)
	op := opIncomeOf(model.Latest(stmts))
	dol := safeDiv(split.contribution(), op)
	margins := make([]float64, len(stmts))
	for i, s := range stmts {
		margins[i] = safeDiv(opIncomeOf(s), revenueOf(s))
	}
	vol := stddev(margins)

	res := newResult(c, operationalRiskAbout)
	res.Result = map[string]any{"operatingLeverage": round2(dol), "operatingMarginVolatility": roundTo(vol, 4), "fixedCostShare": roundTo(safeDiv(split.FixedCost, split.FixedCost+split.VariableCost), 4)}
	res.Interpretation = fmt.Sprintf(tr("درجة الرافعة التشغيلية %.2f", "Degree of operating leverage is %.2f").in(lang), dol)
	if op <= 0 {
		res.Rating = model.RatingWeak
	} else {
		res.Rating = lowerBetter(dol+vol*10, [4]float64{1.5, 2.5, 4, 6})
	}
	res.Recommendation = tr("تحويل جزء من التكاليف الثابتة إلى متغيرة", "Convert part of the fixed cost base to variable").in(lang)
	return res, nil
}

var creditRiskAbout = about{
	definition:  tr("تقييم قدرة الشركة على الوفاء بالتزاماتها", "Assesses capacity to meet obligations"),
	measures:    tr("التغطية والرافعة وصافي الدين", "Coverage, leverage and net debt"),
	importance:  tr("يحدد تكلفة الاقتراض وإمكانية الحصول عليه", "Drives borrowing cost and access"),
	calculation: tr("درجة مركبة من تغطية الفوائد والدين إلى EBITDA والدين إلى حقوق الملكية", "Composite of interest cover, debt/EBITDA and debt/equity"),
}

// creditGrade maps a 0-100 score to a letter grade.
func creditGrade(score float64) string {
	grades := []struct {
		min   float64
		grade string
	}{{85, "AA"}, {75, "A"}, {65, "BBB"}, {55, "BB"}, {45, "B"}, {30, "CCC"}}
	for _, g := range grades {
		if score >= g.min {
			return g.grade
		}
	}
	return "D"
}

func creditRisk(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	cover := ratioValue(model.InterestCoverage, v.s, bm)
	netDebt := v.debt - v.cash
	debtEbitda := safeDiv(netDebt, v.ebitda)
	de := ratioValue(model.DebtToEquity, v.s, bm)
	dims := []dimension{
		{tr("تغطية الفوائد", "Interest cover").in(lang), relScore(cover, 3, false)},
		{tr("صافي الدين إلى EBITDA", "Net debt to EBITDA").in(lang), relScore(math.Max(debtEbitda, 0.01), 2.5, true)},
		{tr("الدين إلى حقوق الملكية", "Debt to equity").in(lang), relScore(math.Max(de, 0.01), 1, true)},
	}
	score := meanScore(dims)
	if v.ebitda <= 0 {
		score = math.Min(score, 30)
	}

	res := newResult(c, creditRiskAbout)
	res.Result = map[string]any{"dimensions": dims, "score": round2(score), "grade": creditGrade(score), "netDebt": round2(netDebt), "netDebtToEbitda": round2(debtEbitda)}
	res.Interpretation = fmt.Sprintf(tr("التصنيف الائتماني التقديري %s", "Implied credit grade is %s").in(lang), creditGrade(score))
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("خفض صافي الدين وتحسين تغطية الفوائد", "Reduce net debt and improve interest cover").in(lang)
	return res, nil
}

var liquidityRiskAbout = about{
	definition:  tr("قياس القدرة على مواجهة الالتزامات قصيرة الأجل تحت الضغط", "Measures ability to meet short-term obligations under pressure"),
	measures:    tr("فترة الدفاع ونسبة النقد والتمويل قصير الأجل", "Defensive interval, cash ratio and short-term funding"),
	importance:  tr("نقص السيولة قد يؤدي إلى التعثر رغم الربحية", "Illiquidity can cause default despite profits"),
	calculation: tr("فترة الدفاع = الأصول السريعة ÷ المصروفات النقدية اليومية", "Defensive interval = quick assets / daily cash expenses"),
}

func liquidityRisk(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	ca := s.BalanceSheet.CurrentAssets
	quick := ca.Cash + ca.MarketableSecurities + ca.AccountsReceivable
	daily := (s.IncomeStatement.CostOfGoodsSold + s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses -
		s.IncomeStatement.OperatingExpenses.Depreciation - s.IncomeStatement.OperatingExpenses.Amortization) / 365
	interval := safeDiv(quick, daily)
	cl := s.BalanceSheet.CurrentLiabilities
	stFunding := safeDiv(cl.ShortTermDebt+cl.CurrentPortionLongTermDebt, s.BalanceSheet.TotalDebt())

	res := newResult(c, liquidityRiskAbout)
	res.Result = map[string]any{
		"defensiveIntervalDays": round2(interval),
		"cashRatio":             round2(ratioValue(model.CashRatio, s, bm)),
		"currentRatio":          round2(ratioValue(model.CurrentRatio, s, bm)),
		"shortTermDebtShare":    roundTo(stFunding, 4),
	}
	res.Interpretation = fmt.Sprintf(tr("تكفي الأصول السريعة لتغطية %.0f يوماً من المصروفات", "Quick assets cover %.0f days of expenses").in(lang), interval)
	res.Rating = higherBetter(interval, [4]float64{180, 90, 60, 30})
	if stFunding > 0.5 {
		res.Risks = []string{tr("اعتماد مرتفع على التمويل قصير الأجل", "Heavy reliance on short-term funding").in(lang)}
	}
	res.Recommendation = tr("إطالة آجال الدين والاحتفاظ باحتياطي نقدي", "Term out debt and hold a cash buffer").in(lang)
	return res, nil
}

var mertonAbout = about{
	definition:  tr("نموذج ميرتون الهيكلي لاحتمال التعثر", "Merton structural model of default probability"),
	measures:    tr("المسافة إلى التعثر واحتمال التعثر خلال سنة", "Distance to default and one-year default probability"),
	importance:  tr("يربط قيمة الأصول وتقلبها بخطر التعثر", "Links asset value and volatility to default risk"),
	calculation: tr("DD = (ln(A/D) + (r - σ²/2)T) ÷ σ√T، PD = N(-DD)", "DD = (ln(A/D) + (r - σ²/2)T) / σ√T, PD = N(-DD)"),
}

func distanceToDefault(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	assets := assetsOf(s)
	// Default point: current liabilities plus half the long-term debt.
	point := s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities + 0.5*s.BalanceSheet.NonCurrentLiabilities.LongTermDebt
	_, sigma := growthStats(stmts)
	sigma = math.Max(sigma, bm.GetOr("assetVolatility", 0.25))
	rate := bm.GetOr("riskFreeRate", riskFreeRate)
	var dd, pd float64
	if assets > 0 && point > 0 {
		dd = finite((math.Log(assets/point) + (rate-sigma*sigma/2)) / sigma)
		pd = normCDF(-dd)
	} else {
		dd, pd = 10, 0
	}

	res := newResult(c, mertonAbout)
	res.Result = map[string]any{"distanceToDefault": round2(dd), "probabilityOfDefault": roundTo(pd, 6), "defaultPoint": round2(point), "assetVolatility": roundTo(sigma, 4)}
	res.Interpretation = fmt.Sprintf(tr("المسافة إلى التعثر %.2f انحراف معياري واحتمال التعثر %.2f%%", "Distance to default is %.2f standard deviations, default probability %.2f%%").in(lang), dd, pd*100)
	res.Rating = lowerBetter(pd, [4]float64{0.001, 0.01, 0.05, 0.15})
	res.Recommendation = tr("تقليل الالتزامات قصيرة الأجل لزيادة المسافة إلى التعثر", "Cut short-term liabilities to widen the distance to default").in(lang)
	return res, nil
}

var concentrationAbout = about{
	definition:  tr("قياس تركز الأصول ومصادر الدخل", "Measures concentration of assets and income sources"),
	measures:    tr("مؤشر هيرفندال-هيرشمان لتكوين الأصول", "Herfindahl-Hirschman index of the asset mix"),
	importance:  tr("التركز العالي يزيد الحساسية لصدمة واحدة", "High concentration raises sensitivity to one shock"),
	calculation: tr("HHI = Σ (حصة كل بند)²", "HHI = Σ (share of each line)²"),
}

func concentration(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	shares := shareItems(balanceSheetItems, s, assetsOf(s), lang)
	var hhi float64
	top := ShareItem{}
	for _, it := range shares {
		if it.Key == "totalAssets" || it.Percentage <= 0 {
			continue
		}
		p := it.Percentage / 100
		hhi += p * p
		if it.Percentage > top.Percentage {
			top = it
		}
	}

	res := newResult(c, concentrationAbout)
	res.Result = map[string]any{"hhi": roundTo(hhi, 4), "largest": top, "shares": shares}
	res.Interpretation = fmt.Sprintf(tr("أكبر بند هو %s بنسبة %.1f%% ومؤشر التركز %.2f", "The largest line is %s at %.1f%%; concentration index %.2f").in(lang), top.Account, top.Percentage, hhi)
	res.Rating = lowerBetter(hhi, [4]float64{0.2, 0.3, 0.45, 0.6})
	res.Recommendation = tr("تنويع مكونات الأصول ومصادر الدخل", "Diversify the asset base and income sources").in(lang)
	return res, nil
}

var drawdownAbout = about{
	definition:  tr("أكبر تراجع من قمة إلى قاع في الإيرادات والأرباح", "Largest peak-to-trough fall in revenue and profit"),
	measures:    tr("عمق التراجع ومدته", "Depth and duration of drawdowns"),
	importance:  tr("يظهر أسوأ تجربة مرت بها الشركة", "Shows the worst stretch the company went through"),
	calculation: tr("(القاع - القمة السابقة) ÷ القمة السابقة", "(trough - prior peak) / prior peak"),
}

// maxDrawdown returns the deepest peak-to-trough decline in percent and its
// length in periods.
func maxDrawdown(xs []float64) (float64, int) {
	var worst float64
	var length, peakIdx int
	peak := xs[0]
	for i, x := range xs {
		if x > peak {
			peak, peakIdx = x, i
			continue
		}
		if peak > 0 {
			if dd := (x - peak) / peak * 100; dd < worst {
				worst, length = dd, i-peakIdx
			}
		}
	}
	return finite(worst), length
}

func drawdown(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	revDD, revLen := maxDrawdown(series(stmts, revenueOf))
	niDD, niLen := maxDrawdown(series(stmts, netIncomeOf))

	res := newResult(c, drawdownAbout)
	res.Result = map[string]any{
		"revenue":   map[string]any{"maxDrawdownPct": round2(revDD), "periods": revLen},
		"netIncome": map[string]any{"maxDrawdownPct": round2(niDD), "periods": niLen},
	}
	res.Interpretation = fmt.Sprintf(tr("أكبر تراجع في الإيرادات %.1f%% وفي صافي الدخل %.1f%%", "Largest revenue drawdown %.1f%%, net income drawdown %.1f%%").in(lang), revDD, niDD)
	res.Rating = higherBetter(math.Min(revDD, niDD/2), [4]float64{-1, -10, -20, -35})
	res.Recommendation = tr("دراسة أسباب فترات التراجع لتجنب تكرارها", "Study the causes of past drawdowns").in(lang)
	return res, nil
}

var bankruptcyAbout = about{
	definition:  tr("تقييم خطر الإفلاس باستخدام نموذج ألتمان Z", "Assesses bankruptcy risk with the Altman Z-score"),
	measures:    tr("المنطقة المالية للشركة ومكونات الدرجة", "The company's zone and score components"),
	importance:  tr("نموذج مجرب للتنبؤ بالتعثر قبل وقوعه", "A proven early predictor of failure"),
	calculation: tr("Z = 1.2X1 + 1.4X2 + 3.3X3 + 0.6X4 + 1.0X5", "Z = 1.2X1 + 1.4X2 + 3.3X3 + 0.6X4 + 1.0X5"),
}

func bankruptcy(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	z := altmanZ(s, bm)
	history := make([]float64, len(stmts))
	for i, st := range stmts {
		history[i] = round2(altmanZ(st, bm))
	}

	res := newResult(c, bankruptcyAbout)
	res.Result = map[string]any{"zScore": round2(z), "zone": altmanZone(z).in(lang), "history": history}
	res.Interpretation = fmt.Sprintf(tr("درجة ألتمان %.2f (%s)", "Altman Z is %.2f (%s)").in(lang), z, altmanZone(z).in(lang))
	res.Rating = higherBetter(z, [4]float64{3.5, 2.99, 2.2, 1.81})
	if z <= 1.81 {
		res.Risks = []string{tr("الشركة في منطقة الخطر وفق نموذج ألتمان", "The company is in the Altman distress zone").in(lang)}
		res.Recommendation = tr("إعداد خطة إعادة هيكلة مالية عاجلة", "Prepare an urgent financial restructuring plan").in(lang)
	} else {
		res.Recommendation = tr("متابعة درجة ألتمان دورياً", "Track the Altman score periodically").in(lang)
	}
	res.Charts = []model.Chart{{Type: "line", Data: map[string]any{"years": years(stmts), "zScore": history}}}
	return res, nil
}

// Flag is one forensic or detection signal.
type Flag struct {
	Signal    string  `json:"signal"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
	Raised    bool    `json:"raised"`
}

var forensicAbout = about{
	definition:  tr("فحص القوائم بحثاً عن مؤشرات التلاعب المحاسبي", "Screens statements for signs of earnings manipulation"),
	measures:    tr("جودة الاستحقاقات وتوافق الأرباح مع النقد", "Accrual quality and earnings-cash consistency"),
	importance:  tr("يحمي من الاعتماد على أرباح غير حقيقية", "Guards against relying on unreal earnings"),
	calculation: tr("نسبة الاستحقاقات، الأرباح إلى التدفق النقدي، نمو الذمم مقابل المبيعات", "Accrual ratio, earnings to cash flow, receivables against sales growth"),
}

func forensicFlags(stmts []model.FinancialStatement, lang model.Language) []Flag {
	s := model.Latest(stmts)
	accruals := safeDiv(netIncomeOf(s)-ocfOf(s), assetsOf(s))
	cashGap := 0.0
	if netIncomeOf(s) > 0 {
		cashGap = safeDiv(ocfOf(s), netIncomeOf(s))
	}
	flags := []Flag{
		{tr("نسبة الاستحقاقات", "Accrual ratio").in(lang), roundTo(accruals, 4), 0.1, accruals > 0.1},
		{tr("التدفق النقدي إلى الأرباح", "Cash flow to earnings").in(lang), round2(cashGap), 0.8, netIncomeOf(s) > 0 && cashGap < 0.8},
	}
	if len(stmts) >= 2 {
		p := stmts[len(stmts)-2]
		dsri := safeDiv(safeDiv(s.BalanceSheet.CurrentAssets.AccountsReceivable, revenueOf(s)),
			safeDiv(p.BalanceSheet.CurrentAssets.AccountsReceivable, revenueOf(p)))
		gmi := safeDiv(safeDiv(p.IncomeStatement.GrossProfit, revenueOf(p)), safeDiv(s.IncomeStatement.GrossProfit, revenueOf(s)))
		flags = append(flags,
			Flag{tr("مؤشر أيام الذمم", "Days sales in receivables index").in(lang), round2(dsri), 1.465, dsri > 1.465},
			Flag{tr("مؤشر هامش الربح الإجمالي", "Gross margin index").in(lang), round2(gmi), 1.193, gmi > 1.193},
		)
	}
	return flags
}

func raisedCount(flags []Flag) int {
	n := 0
	for _, f := range flags {
		if f.Raised {
			n++
		}
	}
	return n
}

func forensic(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	flags := forensicFlags(stmts, lang)
	n := raisedCount(flags)

	res := newResult(c, forensicAbout)
	res.Result = flags
	res.Interpretation = fmt.Sprintf(tr("تم رصد %d من %d مؤشرات تحذيرية", "%d of %d warning signals raised").in(lang), n, len(flags))
	res.Rating = ratingFromScore(100 - safeDiv(float64(n), float64(len(flags)))*100)
	for _, f := range flags {
		if f.Raised {
			res.Risks = append(res.Risks, f.Signal)
		}
	}
	res.Recommendation = tr("مراجعة السياسات المحاسبية للبنود المرصودة", "Review accounting policies behind the raised signals").in(lang)
	return res, nil
}
