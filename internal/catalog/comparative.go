package catalog

import (
	"fmt"
	"strings"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerComparative(r *Registry) {
	r.Register(model.IndustryComparative, industryComparative)
	r.Register(model.PeerComparative, peerComparative)
	r.Register(model.HistoricalComparative, needsYears(2, historicalAbout, historicalComparative))
	r.Register(model.Benchmarking, benchmarking)
	r.Register(model.GapAnalysis, gapAnalysis)
	r.Register(model.CompetitivePosition, competitivePosition)
	r.Register(model.MarketShare, marketShare)
	r.Register(model.CompetitiveCapability, competitiveCapability)
	r.Register(model.FinancialStrengthWeakness, strengthWeakness)
	r.Register(model.RelativePerformance, relativePerformance)
}

// lowerIsBetter lists the ratios where a smaller value is favourable.
var lowerIsBetter = map[model.AnalysisType]bool{
	model.DaysReceivable:      true,
	model.OperatingCycle:      true,
	model.CashConversionCycle: true,
	model.DebtToAssets:        true,
	model.DebtToEquity:        true,
}

func allIndicators() []gapSpec {
	out := make([]gapSpec, len(ratioDefs))
	for i, d := range ratioDefs {
		out[i] = gapSpec{typ: d.typ, lowerBetter: lowerIsBetter[d.typ]}
	}
	return out
}

// industryGrowth is the assumed sector revenue growth when no benchmark is supplied.
const industryGrowth = 0.05

var industryAbout = about{
	definition:  tr("مقارنة شاملة لجميع النسب المالية مع متوسطات الصناعة", "Compares every financial ratio with industry averages"),
	measures:    tr("نسبة المؤشرات التي تتفوق فيها الشركة على الصناعة", "Share of indicators where the company beats its industry"),
	importance:  tr("يضع أداء الشركة في سياقه القطاعي", "Puts performance in its sector context"),
	calculation: tr("عدد المؤشرات المتفوقة ÷ عدد المؤشرات المقارنة", "Favourable indicators / compared indicators"),
}

func industryComparative(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	gaps := benchmarkGaps(model.Latest(stmts), bm, allIndicators(), lang)
	share := favorableShare(gaps)

	res := newResult(c, industryAbout)
	res.Result = map[string]any{"region": c.Region(), "indicators": gaps, "favorableShare": roundTo(share, 4)}
	res.Interpretation = fmt.Sprintf(tr("تتفوق الشركة على متوسط الصناعة في %.0f%% من المؤشرات", "The company beats the industry average on %.0f%% of indicators").in(lang), share*100)
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("معالجة المؤشرات التي تقل عن متوسط الصناعة أولاً", "Address indicators below the industry average first").in(lang)
	return res, nil
}

var peerAbout = about{
	definition:  tr("مقارنة الشركة مع مجموعة الشركات المنافسة", "Compares the company with its peer group"),
	measures:    tr("موقع الشركة بين منافسيها المباشرين", "Standing among direct competitors"),
	importance:  tr("يوضح الميزة التنافسية الفعلية", "Shows actual competitive advantage"),
	calculation: tr("قيمة المؤشر مقابل متوسط المنافسين", "Indicator value against the peer average"),
}

// peerPrefix marks peer-group benchmarks, e.g. "peer.netProfitMargin".
const peerPrefix = "peer."

func peerComparative(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	peers := model.Benchmarks{}
	for k, v := range bm {
		if after, ok := strings.CutPrefix(k, peerPrefix); ok {
			peers[after] = v
		}
	}
	source := "peers"
	if len(peers) == 0 {
		peers = bm
		source = "industry"
	}
	gaps := benchmarkGaps(model.Latest(stmts), peers, headlineIndicators, lang)
	share := favorableShare(gaps)

	res := newResult(c, peerAbout)
	res.Result = map[string]any{"source": source, "indicators": gaps}
	res.Interpretation = fmt.Sprintf(tr("تتفوق الشركة على المنافسين في %.0f%% من المؤشرات الرئيسية", "The company outperforms peers on %.0f%% of headline indicators").in(lang), share*100)
	if source == "industry" {
		res.Interpretation += " " + tr("(لا تتوفر بيانات المنافسين، تمت المقارنة بمتوسط الصناعة)", "(no peer data; compared with the industry average)").in(lang)
	}
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("دراسة ممارسات المنافسين المتفوقين", "Study the practices of leading peers").in(lang)
	return res, nil
}

var historicalAbout = about{
	definition:  tr("مقارنة أداء آخر سنة بمتوسط أداء الشركة التاريخي", "Compares the latest year with the company's own history"),
	measures:    tr("تحسن أو تراجع الشركة مقارنة بنفسها", "Whether the company is improving on itself"),
	importance:  tr("يعزل أثر الإدارة عن ظروف القطاع", "Separates management effect from sector conditions"),
	calculation: tr("قيمة آخر سنة مقابل متوسط السنوات السابقة", "Latest value against the prior-year average"),
}

func historicalComparative(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	latest := model.Latest(stmts)
	prior := stmts[:len(stmts)-1]
	var gaps []BenchmarkGap
	for _, g := range headlineIndicators {
		hist := make([]float64, len(prior))
		for i, s := range prior {
			hist[i] = ratioValue(g.typ, s, bm)
		}
		avg := mean(hist)
		v := ratioValue(g.typ, latest, bm)
		fav := v >= avg
		if g.lowerBetter {
			fav = v <= avg
		}
		gaps = append(gaps, BenchmarkGap{
			Indicator: g.typ.DisplayName(lang),
			Value:     roundTo(v, 4),
			Benchmark: roundTo(avg, 4),
			GapPct:    round2(pctChange(avg, v)),
			Favorable: fav,
		})
	}
	share := favorableShare(gaps)

	res := newResult(c, historicalAbout)
	res.Result = gaps
	res.Interpretation = fmt.Sprintf(tr("تحسن %.0f%% من المؤشرات مقارنة بالمتوسط التاريخي", "%.0f%% of indicators improved on the historical average").in(lang), share*100)
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("تحليل أسباب تراجع المؤشرات عن مستوياتها التاريخية", "Analyse why indicators slipped below their history").in(lang)
	return res, nil
}

var benchmarkingAbout = about{
	definition:  tr("تقييم جميع النسب المالية وفق معايير الأداء المرجعية", "Scores every ratio against reference performance bands"),
	measures:    tr("متوسط درجة الأداء عبر المؤشرات", "Average performance score across indicators"),
	importance:  tr("يعطي صورة موحدة لمستوى الأداء", "Gives one consolidated view of performance"),
	calculation: tr("متوسط درجات تقييم النسب المالية", "Mean of ratio rating scores"),
}

func benchmarking(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	type row struct {
		Indicator string       `json:"indicator"`
		Value     float64      `json:"value"`
		Rating    model.Rating `json:"rating"`
	}
	rows := make([]row, len(ratioDefs))
	var total float64
	for i, d := range ratioDefs {
		v := finite(d.value(s, bm))
		r := d.rate(v)
		rows[i] = row{Indicator: d.typ.DisplayName(lang), Value: roundTo(v, 4), Rating: r}
		total += float64(r.Score())
	}
	avg := total / float64(len(rows))

	res := newResult(c, benchmarkingAbout)
	res.Result = map[string]any{"indicators": rows, "averageScore": round2(avg)}
	res.Interpretation = fmt.Sprintf(tr("متوسط درجة الأداء %.1f من 100", "Average performance score is %.1f out of 100").in(lang), avg)
	res.Rating = ratingFromScore(avg)
	res.Recommendation = tr("رفع المؤشرات ذات التقييم الضعيف إلى مستوى المعيار", "Lift weakly rated indicators to the reference level").in(lang)
	return res, nil
}

var gapAbout = about{
	definition:  tr("تحديد الفجوة بين الأداء الحالي والمستهدف", "Quantifies the gap between current and target performance"),
	measures:    tr("التغير المطلوب للوصول إلى متوسط الصناعة", "Change needed to reach the industry average"),
	importance:  tr("يحول المقارنة إلى أهداف قابلة للتنفيذ", "Turns comparison into actionable targets"),
	calculation: tr("الفجوة = المستهدف - القيمة الحالية", "Gap = target - current value"),
}

func gapAnalysis(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	gaps := benchmarkGaps(model.Latest(stmts), bm, headlineIndicators, lang)
	type target struct {
		Indicator      string  `json:"indicator"`
		Current        float64 `json:"current"`
		Target         float64 `json:"target"`
		RequiredChange float64 `json:"requiredChange"`
	}
	var targets []target
	var names []string
	for _, g := range gaps {
		if g.Favorable {
			continue
		}
		targets = append(targets, target{g.Indicator, g.Value, g.Benchmark, roundTo(g.Benchmark-g.Value, 4)})
		names = append(names, g.Indicator)
	}

	res := newResult(c, gapAbout)
	res.Result = map[string]any{"gaps": targets, "closed": len(gaps) - len(targets), "open": len(targets)}
	res.Interpretation = fmt.Sprintf(tr("توجد فجوات في %d من %d مؤشرات", "Gaps exist on %d of %d indicators").in(lang), len(targets), len(gaps))
	res.Rating = ratingFromScore(favorableShare(gaps) * 100)
	if len(names) > 0 {
		res.Recommendation = tr("وضع خطة لسد الفجوات في: ", "Build a plan to close gaps in: ").in(lang) + joinList(names, lang)
	} else {
		res.Recommendation = keepLevelRec.in(lang)
	}
	return res, nil
}

// dimension is one scored axis of a composite assessment.
type dimension struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// relScore maps value/bench onto 0..100 with parity at 60.
func relScore(v, bench float64, lowerBetter bool) float64 {
	if bench == 0 {
		return 60
	}
	rel := v / bench
	if lowerBetter {
		rel = safeDiv(bench, v)
		if v <= 0 {
			rel = 2
		}
	}
	return clamp(60*rel, 0, 100)
}

func meanScore(dims []dimension) float64 {
	xs := make([]float64, len(dims))
	for i, d := range dims {
		xs[i] = d.Score
	}
	return mean(xs)
}

func revenueGrowth(stmts []model.FinancialStatement) float64 {
	if len(stmts) < 2 {
		return 0
	}
	return cagr(series(stmts, revenueOf))
}

var positionAbout = about{
	definition:  tr("تقييم مركب لموقع الشركة التنافسي", "Composite assessment of competitive standing"),
	measures:    tr("الربحية والنمو والكفاءة والمتانة المالية مقارنة بالصناعة", "Profitability, growth, efficiency and financial strength against the industry"),
	importance:  tr("يحدد ما إذا كانت الشركة رائدة أو متابعة", "Tells whether the company leads or follows"),
	calculation: tr("متوسط درجات الأبعاد الأربعة", "Mean of four dimension scores"),
}

func competitivePosition(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	dims := []dimension{
		{tr("الربحية", "Profitability").in(lang), relScore(ratioValue(model.NetProfitMargin, s, bm), bm.GetOr("netProfitMargin", 0.1), false)},
		{tr("النمو", "Growth").in(lang), relScore(revenueGrowth(stmts), bm.GetOr("revenueGrowth", industryGrowth), false)},
		{tr("الكفاءة", "Efficiency").in(lang), relScore(ratioValue(model.AssetTurnover, s, bm), bm.GetOr("totalAssetTurnover", 1), false)},
		{tr("المتانة المالية", "Financial strength").in(lang), relScore(ratioValue(model.DebtToEquity, s, bm), bm.GetOr("debtToEquity", 1), true)},
	}
	score := meanScore(dims)
	position := above(score, []float64{80, 65, 50},
		tr("رائد في السوق", "Market leader"),
		tr("منافس قوي", "Strong challenger"),
		tr("متابع", "Follower"),
		tr("مركز ضعيف", "Weak position"),
	).in(lang)

	res := newResult(c, positionAbout)
	res.Result = map[string]any{"dimensions": dims, "score": round2(score), "position": position}
	res.Interpretation = fmt.Sprintf(tr("المركز التنافسي: %s بدرجة %.0f", "Competitive position: %s, score %.0f").in(lang), position, score)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("تعزيز البعد الأضعف لتحسين المركز التنافسي", "Strengthen the weakest dimension to improve standing").in(lang)
	return res, nil
}

var marketShareAbout = about{
	definition:  tr("حصة الشركة من إجمالي حجم السوق", "Company revenue as a share of the total market"),
	measures:    tr("حجم الشركة النسبي في سوقها", "Relative size in its market"),
	importance:  tr("الحصة الأكبر تمنح قوة تسعيرية", "Larger share brings pricing power"),
	calculation: tr("إيرادات الشركة ÷ حجم السوق", "Company revenue / market size"),
}

func marketShare(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	size, ok := bm.Get("marketSize")
	res := newResult(c, marketShareAbout)
	if !ok || size <= 0 {
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = tr("لا يتوفر حجم السوق لحساب الحصة السوقية", "Market size is unavailable so share cannot be computed").in(lang)
		res.Rating = model.RatingAcceptable
		res.Recommendation = tr("توفير بيانات حجم السوق", "Provide market size data").in(lang)
		return res, nil
	}
	share := safeDiv(revenueOf(s), size)
	out := map[string]any{"marketShare": roundTo(share, 4), "marketSize": size}
	if g, ok := bm.Get("marketGrowth"); ok && len(stmts) >= 2 {
		out["relativeGrowth"] = roundTo(revenueGrowth(stmts)-g, 4)
	}
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("تستحوذ الشركة على %.2f%% من السوق", "The company holds %.2f%% of the market").in(lang), share*100)
	res.Rating = higherBetter(share, [4]float64{0.2, 0.1, 0.05, 0.01})
	res.Recommendation = tr("توسيع الحصة عبر منتجات وأسواق جديدة", "Grow share through new products and markets").in(lang)
	return res, nil
}

var capabilityAbout = about{
	definition:  tr("تقييم قدرة الشركة على المنافسة المستدامة", "Assesses capacity to compete sustainably"),
	measures:    tr("ميزة التكلفة والابتكار والقدرة المالية والنمو", "Cost advantage, innovation, financial capacity and growth"),
	importance:  tr("يقيس استدامة الميزة التنافسية", "Measures how durable the advantage is"),
	calculation: tr("متوسط درجات عناصر القدرة التنافسية", "Mean of capability component scores"),
}

func competitiveCapability(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	rd := safeDiv(s.IncomeStatement.OperatingExpenses.ResearchDevelopment, revenueOf(s))
	cashShare := safeDiv(s.BalanceSheet.CurrentAssets.Cash, assetsOf(s))
	dims := []dimension{
		{tr("ميزة التكلفة", "Cost advantage").in(lang), relScore(ratioValue(model.GrossProfitMargin, s, bm), bm.GetOr("grossProfitMargin", 0.3), false)},
		{tr("الابتكار", "Innovation").in(lang), relScore(rd, bm.GetOr("rdIntensity", 0.03), false)},
		{tr("القدرة المالية", "Financial capacity").in(lang), relScore(cashShare, bm.GetOr("cashToAssets", 0.1), false)},
		{tr("النمو", "Growth").in(lang), relScore(revenueGrowth(stmts), bm.GetOr("revenueGrowth", industryGrowth), false)},
	}
	score := meanScore(dims)

	res := newResult(c, capabilityAbout)
	res.Result = map[string]any{"dimensions": dims, "score": round2(score)}
	res.Interpretation = fmt.Sprintf(tr("درجة القدرة التنافسية %.0f من 100", "Competitive capability scores %.0f out of 100").in(lang), score)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("الاستثمار في الابتكار وكفاءة التكلفة", "Invest in innovation and cost efficiency").in(lang)
	return res, nil
}

var strengthWeaknessAbout = about{
	definition:  tr("تصنيف المؤشرات المالية إلى نقاط قوة ونقاط ضعف", "Sorts financial indicators into strengths and weaknesses"),
	measures:    tr("توازن نقاط القوة والضعف", "Balance of strengths and weaknesses"),
	importance:  tr("يوجه أولويات الإدارة", "Guides management priorities"),
	calculation: tr("تقييم كل نسبة مالية وفق حدودها المرجعية", "Rate each ratio against its reference bands"),
}

func strengthWeakness(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	var strengths, weaknesses []string
	for _, d := range ratioDefs {
		switch d.rate(finite(d.value(s, bm))) {
		case model.RatingExcellent, model.RatingVeryGood:
			strengths = append(strengths, d.typ.DisplayName(lang))
		case model.RatingWeak:
			weaknesses = append(weaknesses, d.typ.DisplayName(lang))
		}
	}
	score := safeDiv(float64(len(strengths)), float64(len(strengths)+len(weaknesses))) * 100
	if len(strengths)+len(weaknesses) == 0 {
		score = 60
	}

	res := newResult(c, strengthWeaknessAbout)
	res.Result = map[string]any{"strengths": strengths, "weaknesses": weaknesses}
	res.Interpretation = fmt.Sprintf(tr("%d نقاط قوة مقابل %d نقاط ضعف", "%d strengths against %d weaknesses").in(lang), len(strengths), len(weaknesses))
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("البناء على نقاط القوة ومعالجة نقاط الضعف", "Build on strengths and remedy weaknesses").in(lang)
	res.SWOT = swot(strengths, weaknesses, nil, nil)
	return res, nil
}

var relativePerfAbout = about{
	definition:  tr("أداء الشركة منسوباً إلى أداء الصناعة", "Company performance expressed relative to its industry"),
	measures:    tr("مؤشر الأداء النسبي للنمو والعائد والهامش", "Relative index for growth, return and margin"),
	importance:  tr("يبين ما إذا كانت الشركة تتفوق على قطاعها", "Shows whether the company outpaces its sector"),
	calculation: tr("قيمة الشركة ÷ قيمة الصناعة", "Company value / industry value"),
}

func relativePerformance(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	dims := []dimension{
		{tr("العائد على حقوق الملكية", "Return on equity").in(lang), relScore(ratioValue(model.ReturnOnEquity, s, bm), bm.GetOr("returnOnEquity", 0.15), false)},
		{tr("هامش صافي الربح", "Net margin").in(lang), relScore(ratioValue(model.NetProfitMargin, s, bm), bm.GetOr("netProfitMargin", 0.1), false)},
	}
	if len(stmts) >= 2 {
		dims = append(dims, dimension{tr("نمو الإيرادات", "Revenue growth").in(lang), relScore(revenueGrowth(stmts), bm.GetOr("revenueGrowth", industryGrowth), false)})
	}
	score := meanScore(dims)

	res := newResult(c, relativePerfAbout)
	res.Result = map[string]any{"dimensions": dims, "relativeIndex": round2(score / 60)}
	res.Interpretation = fmt.Sprintf(tr("مؤشر الأداء النسبي %.2f (1 = مساوٍ للصناعة)", "Relative performance index is %.2f (1 = industry parity)").in(lang), score/60)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("تحديد محركات التفوق أو التأخر عن القطاع", "Identify what drives out- or under-performance").in(lang)
	return res, nil
}
