package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerDetection(r *Registry) {
	r.Register(model.AIFraudDetection, fraudDetection)
	r.Register(model.BankruptcyPrediction, bankruptcyPrediction)
	r.Register(model.CrisisPrediction, crisisPrediction)
	r.Register(model.RealTimeAnomalyDetection, needsYears(3, anomalyAbout, anomalies))
	r.Register(model.MarketVolatilityPrediction, needsYears(2, volForecastAbout, volatilityForecast))
	r.Register(model.EarlyWarningModels, earlyWarning)
	r.Register(model.ExplainableAI, explainable)
	r.Register(model.FinancialClustering, clustering)
}

func logistic(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

var fraudAbout = about{
	definition:  tr("نموذج تقييم آلي لاحتمال وجود تلاعب في القوائم المالية", "Automated scoring of the likelihood of statement manipulation"),
	measures:    tr("درجة خطر الاحتيال المبنية على إشارات متعددة", "Fraud risk score built from several signals"),
	importance:  tr("يوجه جهود المراجعة إلى المناطق الأعلى خطراً", "Directs audit effort to the riskiest areas"),
	calculation: tr("دمج إشارات الاستحقاقات والذمم والهوامش في درجة لوجستية", "Logistic combination of accrual, receivable and margin signals"),
}

func fraudDetection(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	flags := forensicFlags(stmts, lang)
	n := raisedCount(flags)
	// Each raised signal adds one unit of log-odds over a low base rate.
	p := logistic(-3 + 1.2*float64(n))

	res := newResult(c, fraudAbout)
	res.Result = map[string]any{"probability": roundTo(p, 4), "signals": flags}
	res.Interpretation = fmt.Sprintf(tr("احتمال وجود تلاعب %.1f%%", "Estimated manipulation probability is %.1f%%").in(lang), p*100)
	res.Rating = lowerBetter(p, [4]float64{0.06, 0.15, 0.3, 0.5})
	for _, f := range flags {
		if f.Raised {
			res.Risks = append(res.Risks, f.Signal)
		}
	}
	res.Recommendation = tr("إجراء مراجعة تفصيلية للبنود التي أطلقت إشارات", "Run a detailed review of the flagged lines").in(lang)
	return res, nil
}

// zmijewski is the probit distress score; positive values point to distress.
func zmijewski(s model.FinancialStatement) float64 {
	roa := safeDiv(netIncomeOf(s), assetsOf(s))
	lev := safeDiv(s.BalanceSheet.TotalLiabilities, assetsOf(s))
	liq := safeDiv(s.BalanceSheet.CurrentAssets.TotalCurrentAssets, s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities)
	return finite(-4.336 - 4.513*roa + 5.679*lev + 0.004*liq)
}

var bankruptcyPredictionAbout = about{
	definition:  tr("التنبؤ باحتمال الإفلاس بدمج نموذجي ألتمان وزميجيفسكي", "Predicts bankruptcy by combining the Altman and Zmijewski models"),
	measures:    tr("احتمال التعثر خلال سنتين", "Probability of failure within two years"),
	importance:  tr("الإنذار المبكر يتيح وقتاً للمعالجة", "Early warning leaves time to act"),
	calculation: tr("متوسط احتمالي النموذجين", "Average of the two model probabilities"),
}

func bankruptcyPrediction(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	z := altmanZ(s, bm)
	pz := hazardFromZ(z)
	x := zmijewski(s)
	px := normCDF(x)
	p := (pz + px) / 2

	res := newResult(c, bankruptcyPredictionAbout)
	res.Result = map[string]any{
		"altman":      map[string]any{"zScore": round2(z), "zone": altmanZone(z).in(lang), "probability": roundTo(pz, 4)},
		"zmijewski":   map[string]any{"score": round2(x), "probability": roundTo(px, 4)},
		"probability": roundTo(p, 4),
	}
	res.Interpretation = fmt.Sprintf(tr("الاحتمال المركب للتعثر %.1f%%", "Combined failure probability is %.1f%%").in(lang), p*100)
	res.Rating = lowerBetter(p, [4]float64{0.05, 0.15, 0.3, 0.5})
	if p > 0.3 {
		res.Risks = []string{tr("احتمال تعثر مرتفع", "High probability of failure").in(lang)}
	}
	res.Recommendation = tr("خفض الرافعة وتحسين العائد على الأصول", "Reduce leverage and improve return on assets").in(lang)
	return res, nil
}

// Signal is one early-warning indicator and whether it fired.
type Signal struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Fired  bool    `json:"fired"`
	Weight float64 `json:"weight"`
}

func warningSignals(stmts []model.FinancialStatement, bm model.Benchmarks, lang model.Language) []Signal {
	s := model.Latest(stmts)
	cr := ratioValue(model.CurrentRatio, s, bm)
	cover := ratioValue(model.InterestCoverage, s, bm)
	de := ratioValue(model.DebtToEquity, s, bm)
	margin := ratioValue(model.NetProfitMargin, s, bm)
	ocf := ocfOf(s)
	signals := []Signal{
		{tr("نسبة التداول أقل من 1", "Current ratio below 1").in(lang), round2(cr), cr < 1, 0.2},
		{tr("تغطية الفوائد أقل من 1.5", "Interest cover below 1.5").in(lang), round2(cover), s.IncomeStatement.OtherIncomeExpense.InterestExpense > 0 && cover < 1.5, 0.2},
		{tr("الدين إلى حقوق الملكية أعلى من 2", "Debt to equity above 2").in(lang), round2(de), de > 2 || equityOf(s) <= 0, 0.15},
		{tr("هامش صافي سالب", "Negative net margin").in(lang), roundTo(margin, 4), margin < 0, 0.15},
		{tr("تدفق نقدي تشغيلي سالب", "Negative operating cash flow").in(lang), round2(ocf), ocf < 0, 0.15},
	}
	if len(stmts) >= 2 {
		g := pctChange(revenueOf(stmts[len(stmts)-2]), revenueOf(s))
		signals = append(signals, Signal{tr("تراجع الإيرادات أكثر من 10%", "Revenue down more than 10%").in(lang), round2(g), g < -10, 0.15})
	}
	return signals
}

func firedWeight(signals []Signal) (fired []string, weight, total float64) {
	for _, sg := range signals {
		total += sg.Weight
		if sg.Fired {
			fired = append(fired, sg.Name)
			weight += sg.Weight
		}
	}
	return fired, weight, total
}

var earlyWarningAbout = about{
	definition:  tr("رصد المؤشرات التي تسبق عادة التعثر المالي", "Tracks indicators that usually precede financial distress"),
	measures:    tr("عدد الإشارات المفعلة ووزنها", "Number and weight of fired signals"),
	importance:  tr("يمنح الإدارة وقتاً للتدخل", "Gives management time to intervene"),
	calculation: tr("مجموع أوزان الإشارات المفعلة ÷ مجموع الأوزان", "Sum of fired weights / total weight"),
}

func earlyWarning(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	signals := warningSignals(stmts, bm, lang)
	fired, w, total := firedWeight(signals)
	level := safeDiv(w, total)

	res := newResult(c, earlyWarningAbout)
	res.Result = map[string]any{"signals": signals, "warningLevel": roundTo(level, 4)}
	if len(fired) == 0 {
		res.Interpretation = tr("لا توجد إشارات إنذار مبكر", "No early-warning signals fired").in(lang)
	} else {
		res.Interpretation = fmt.Sprintf(tr("إشارات مفعلة: %s", "Fired signals: %s").in(lang), joinList(fired, lang))
		res.Risks = fired
	}
	res.Rating = ratingFromScore(100 - level*100)
	res.Recommendation = tr("وضع خطة معالجة لكل إشارة مفعلة", "Set a remediation plan for each fired signal").in(lang)
	return res, nil
}

var crisisAbout = about{
	definition:  tr("تقدير احتمال دخول الشركة في أزمة مالية خلال السنة القادمة", "Estimates the chance of a financial crisis next year"),
	measures:    tr("احتمال الأزمة المبني على إشارات الإنذار والتقلب", "Crisis probability from warning signals and volatility"),
	importance:  tr("يساعد على الاستعداد المسبق", "Supports advance preparation"),
	calculation: tr("دالة لوجستية في مستوى الإنذار وتقلب الأرباح", "Logistic function of warning level and earnings volatility"),
}

func crisisPrediction(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	_, w, total := firedWeight(warningSignals(stmts, bm, lang))
	level := safeDiv(w, total)
	_, mSigma := marginStats(stmts)
	p := logistic(-3.5 + 6*level + 10*mSigma)

	res := newResult(c, crisisAbout)
	res.Result = map[string]any{"probability": roundTo(p, 4), "warningLevel": roundTo(level, 4), "marginVolatility": roundTo(mSigma, 4)}
	res.Interpretation = fmt.Sprintf(tr("احتمال الأزمة خلال سنة %.1f%%", "One-year crisis probability is %.1f%%").in(lang), p*100)
	res.Rating = lowerBetter(p, [4]float64{0.05, 0.15, 0.3, 0.5})
	res.Recommendation = tr("تعزيز الاحتياطيات ومراجعة خطط الطوارئ", "Build reserves and review contingency plans").in(lang)
	return res, nil
}

// Anomaly is a line whose latest value is far from its own history.
type Anomaly struct {
	Account string  `json:"account"`
	Value   float64 `json:"value"`
	Mean    float64 `json:"mean"`
	ZScore  float64 `json:"zScore"`
}

var anomalyAbout = about{
	definition:  tr("كشف القيم الشاذة في أحدث فترة مقارنة بتاريخ الشركة", "Detects outliers in the latest period against the company's history"),
	measures:    tr("الانحراف المعياري لكل بند عن متوسطه", "Each line's deviation from its own mean"),
	importance:  tr("الشذوذ قد يشير إلى أخطاء أو أحداث جوهرية", "Outliers can signal errors or material events"),
	calculation: tr("z = (القيمة الحالية - متوسط السنوات السابقة) ÷ انحرافها المعياري", "z = (latest - prior mean) / prior standard deviation"),
}

const anomalyZ = 2.0

func anomalies(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	items := append(append(append([]lineItem{}, balanceSheetItems...), incomeItems...), cashFlowItems...)
	var found []Anomaly
	for _, it := range items {
		xs := series(stmts, it.get)
		prior, last := xs[:len(xs)-1], xs[len(xs)-1]
		sd := stddev(prior)
		if sd == 0 {
			continue
		}
		z := (last - mean(prior)) / sd
		if math.Abs(z) >= anomalyZ {
			found = append(found, Anomaly{it.label.in(lang), round2(last), round2(mean(prior)), round2(z)})
		}
	}
	sort.Slice(found, func(i, j int) bool { return math.Abs(found[i].ZScore) > math.Abs(found[j].ZScore) })

	res := newResult(c, anomalyAbout)
	res.Result = map[string]any{"anomalies": found, "threshold": anomalyZ, "checked": len(items)}
	if len(found) == 0 {
		res.Interpretation = tr("لم يتم رصد قيم شاذة", "No anomalies detected").in(lang)
	} else {
		res.Interpretation = fmt.Sprintf(tr("تم رصد %d بند بقيم شاذة أبرزها %s", "%d lines look anomalous, led by %s").in(lang), len(found), found[0].Account)
		for _, a := range found {
			res.Risks = append(res.Risks, a.Account)
		}
	}
	res.Rating = ratingFromScore(100 - float64(len(found))*15)
	res.Recommendation = tr("التحقق من أسباب القيم الشاذة", "Verify the causes of the anomalies").in(lang)
	return res, nil
}

var volForecastAbout = about{
	definition:  tr("التنبؤ بتقلب الأرباح للفترة القادمة", "Forecasts next-period earnings volatility"),
	measures:    tr("التقلب المتوقع ونطاق الأرباح المحتمل", "Expected volatility and the likely earnings band"),
	importance:  tr("يساعد المستثمرين على تسعير المخاطر", "Helps investors price risk"),
	calculation: tr("متوسط متحرك أسي لمربعات نمو الأرباح", "Exponentially weighted average of squared earnings growth"),
}

func volatilityForecast(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	rates := growthRates(series(stmts, netIncomeOf))
	for i := range rates {
		rates[i] /= 100
	}
	sigma := ewmaVolatility(rates)
	ni := netIncomeOf(model.Latest(stmts))
	band := [2]float64{round2(ni * (1 - 1.96*sigma)), round2(ni * (1 + 1.96*sigma))}
	if ni < 0 {
		band[0], band[1] = band[1], band[0]
	}

	res := newResult(c, volForecastAbout)
	res.Result = map[string]any{"forecastVolatility": roundTo(sigma, 4), "netIncomeBand95": band}
	res.Interpretation = fmt.Sprintf(tr("التقلب المتوقع %.1f%% ونطاق صافي الدخل بين %.0f و%.0f", "Expected volatility %.1f%%; net income between %.0f and %.0f").in(lang), sigma*100, band[0], band[1])
	res.Rating = lowerBetter(sigma, [4]float64{0.1, 0.2, 0.35, 0.6})
	res.Recommendation = tr("الإفصاح الاستباقي لتقليل المفاجآت للسوق", "Guide the market early to limit surprises").in(lang)
	return res, nil
}

// Contribution is one indicator's signed pull on the overall score.
type Contribution struct {
	Indicator string  `json:"indicator"`
	Score     float64 `json:"score"`
	Impact    float64 `json:"impact"`
}

var explainableAbout = about{
	definition:  tr("تفسير العوامل التي تقود التقييم العام للشركة", "Explains which factors drive the overall assessment"),
	measures:    tr("مساهمة كل مؤشر في الدرجة النهائية", "Each indicator's contribution to the final score"),
	importance:  tr("يجعل التقييم شفافاً وقابلاً للمراجعة", "Makes the assessment transparent and auditable"),
	calculation: tr("الأثر = درجة المؤشر - الدرجة المحايدة (60)، مقسوماً على عدد المؤشرات", "Impact = indicator score - neutral 60, divided by the indicator count"),
}

func explainable(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	out := make([]Contribution, len(headlineIndicators))
	var total float64
	for i, g := range headlineIndicators {
		def := ratioDefFor(g.typ)
		score := relScore(ratioValue(g.typ, s, bm), bm.GetOr(def.benchKey, def.bench), g.lowerBetter)
		impact := (score - 60) / float64(len(headlineIndicators))
		total += score
		out[i] = Contribution{string(g.typ), round2(score), round2(impact)}
	}
	sort.Slice(out, func(i, j int) bool { return math.Abs(out[i].Impact) > math.Abs(out[j].Impact) })
	overall := total / float64(len(out))

	var pos, neg []string
	for _, ct := range out {
		if ct.Impact > 0 {
			pos = append(pos, ct.Indicator)
		} else if ct.Impact < 0 {
			neg = append(neg, ct.Indicator)
		}
	}

	res := newResult(c, explainableAbout)
	res.Result = map[string]any{"overallScore": round2(overall), "contributions": out}
	res.Interpretation = fmt.Sprintf(tr("الدرجة العامة %.0f ويقودها أساساً %s", "Overall score %.0f, driven mostly by %s").in(lang), overall, out[0].Indicator)
	res.Rating = ratingFromScore(overall)
	res.SWOT = swot(pos, neg, nil, nil)
	res.Recommendation = tr("التركيز على المؤشرات ذات الأثر السلبي الأكبر", "Focus on the indicators with the largest negative impact").in(lang)
	return res, nil
}

// profile is a cluster centroid over margin, leverage, liquidity and growth.
type profile struct {
	name     text
	centroid [4]float64
	rating   model.Rating
}

var clusterProfiles = []profile{
	{tr("نمو مربح", "Profitable grower"), [4]float64{0.15, 0.3, 2, 0.15}, model.RatingExcellent},
	{tr("ناضج مستقر", "Stable mature"), [4]float64{0.08, 0.45, 1.5, 0.03}, model.RatingVeryGood},
	{tr("مرفوع مالياً", "Leveraged"), [4]float64{0.04, 0.7, 1.1, 0.02}, model.RatingAcceptable},
	{tr("متعثر", "Distressed"), [4]float64{-0.05, 0.85, 0.8, -0.1}, model.RatingWeak},
}

var clusteringAbout = about{
	definition:  tr("تصنيف الشركة ضمن مجموعة ذات خصائص مالية متشابهة", "Places the company in a group with similar financial traits"),
	measures:    tr("أقرب مجموعة مالية والمسافة إليها", "Nearest financial group and the distance to it"),
	importance:  tr("يساعد على فهم موقع الشركة بين نظيراتها", "Shows where the company sits among peers"),
	calculation: tr("أقرب مركز بالمسافة الإقليدية على المؤشرات الموحدة", "Nearest centroid by Euclidean distance on scaled indicators"),
}

func clustering(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	g, _ := growthStats(stmts)
	point := [4]float64{
		safeDiv(netIncomeOf(s), revenueOf(s)),
		safeDiv(s.BalanceSheet.TotalLiabilities, assetsOf(s)),
		safeDiv(s.BalanceSheet.CurrentAssets.TotalCurrentAssets, s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities),
		g,
	}
	// Per-feature scale so the current ratio does not dominate.
	scale := [4]float64{0.1, 0.25, 1, 0.1}
	best, bestDist := clusterProfiles[0], math.Inf(1)
	distances := make(map[string]float64, len(clusterProfiles))
	for _, p := range clusterProfiles {
		var d float64
		for i := range point {
			diff := (point[i] - p.centroid[i]) / scale[i]
			d += diff * diff
		}
		d = math.Sqrt(d)
		distances[p.name.in(lang)] = round2(d)
		if d < bestDist {
			best, bestDist = p, d
		}
	}

	res := newResult(c, clusteringAbout)
	res.Result = map[string]any{
		"cluster":   best.name.in(lang),
		"distance":  round2(bestDist),
		"distances": distances,
		"features":  map[string]float64{"netMargin": roundTo(point[0], 4), "debtRatio": roundTo(point[1], 4), "currentRatio": round2(point[2]), "growth": roundTo(point[3], 4)},
	}
	res.Interpretation = fmt.Sprintf(tr("تنتمي الشركة إلى مجموعة: %s", "The company belongs to the group: %s").in(lang), best.name.in(lang))
	res.Rating = best.rating
	res.Recommendation = tr("مقارنة الأداء بأفضل الشركات في المجموعة نفسها", "Compare against the leaders of the same group").in(lang)
	return res, nil
}
