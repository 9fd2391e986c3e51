package catalog

import (
	"fmt"
	"math"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerPerformance(r *Registry) {
	r.Register(model.DuPontAnalysis, duPont)
	r.Register(model.ProductivityAnalysis, productivity)
	r.Register(model.OperationalEfficiency, operationalEfficiency)
	r.Register(model.ValueChainAnalysis, valueChain)
	r.Register(model.ActivityBasedCosting, activityBasedCosting)
	r.Register(model.BalancedScorecard, balancedScorecard)
	r.Register(model.KeyPerformanceIndicators, keyIndicators)
	r.Register(model.CriticalSuccessFactors, successFactors)
	r.Register(model.AdvancedVarianceAnalysis, needsYears(2, advancedVarianceAbout, advancedVariance))
	r.Register(model.DeviationAnalysis, needsYears(2, ratioDeviationAbout, ratioDeviation))
	r.Register(model.FlexibilityAnalysis, flexibility)
	r.Register(model.SensitivityAnalysis, sensitivity)
}

// DuPont is the five-factor decomposition of return on equity.
type DuPont struct {
	Year             int     `json:"year"`
	TaxBurden        float64 `json:"taxBurden"`
	InterestBurden   float64 `json:"interestBurden"`
	OperatingMargin  float64 `json:"operatingMargin"`
	NetMargin        float64 `json:"netMargin"`
	AssetTurnover    float64 `json:"assetTurnover"`
	EquityMultiplier float64 `json:"equityMultiplier"`
	ROE              float64 `json:"roe"`
}

func duPontOf(s model.FinancialStatement) DuPont {
	is := s.IncomeStatement
	return DuPont{
		Year:             s.Year,
		TaxBurden:        roundTo(safeDiv(is.NetIncome, is.IncomeBeforeTax), 4),
		InterestBurden:   roundTo(safeDiv(is.IncomeBeforeTax, is.OperatingIncome), 4),
		OperatingMargin:  roundTo(safeDiv(is.OperatingIncome, is.Revenue), 4),
		NetMargin:        roundTo(safeDiv(is.NetIncome, is.Revenue), 4),
		AssetTurnover:    roundTo(safeDiv(is.Revenue, assetsOf(s)), 4),
		EquityMultiplier: roundTo(safeDiv(assetsOf(s), equityOf(s)), 4),
		ROE:              roundTo(safeDiv(is.NetIncome, equityOf(s)), 4),
	}
}

var duPontAbout = about{
	definition:  tr("تفكيك العائد على حقوق الملكية إلى مكوناته", "Decomposes return on equity into its drivers"),
	measures:    tr("مساهمة الربحية والكفاءة والرافعة المالية في العائد", "Contribution of margin, efficiency and leverage to returns"),
	importance:  tr("يحدد مصدر العائد وجودته", "Identifies where returns come from and their quality"),
	calculation: tr("هامش الربح × دوران الأصول × مضاعف حقوق الملكية", "Net margin x asset turnover x equity multiplier"),
}

func duPont(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	history := make([]DuPont, len(stmts))
	for i, s := range stmts {
		history[i] = duPontOf(s)
	}
	d := history[len(history)-1]

	driver := tr("هامش الربح", "profit margin")
	switch {
	case d.EquityMultiplier > 3:
		driver = tr("الرافعة المالية", "financial leverage")
	case d.AssetTurnover > 1.5:
		driver = tr("كفاءة استخدام الأصول", "asset efficiency")
	}

	bench := benchmarkOf(bm, "returnOnEquity", 0.15)
	res := newResult(c, duPontAbout)
	res.Result = map[string]any{"latest": d, "history": history}
	res.Interpretation = fmt.Sprintf(tr("العائد على حقوق الملكية %.1f%% ويعتمد أساساً على %s", "ROE is %.1f%%, driven mainly by %s").in(lang), d.ROE*100, driver.in(lang))
	res.IndustryAverage = bench
	res.ComparisonWithIndustry = comparison(d.ROE, bench, lang)
	res.Rating = higherBetter(d.ROE, [4]float64{0.2, 0.15, 0.1, 0.05})
	if d.EquityMultiplier > 3 {
		res.Risks = []string{tr("العائد مدفوع بالرافعة المالية المرتفعة", "Returns rely on high leverage").in(lang)}
	}
	res.Recommendation = tr("تحسين الهامش والدوران بدلاً من الاعتماد على الرافعة", "Improve margin and turnover rather than leverage").in(lang)
	res.Charts = []model.Chart{{Type: "bar", Title: tr("مكونات ديبونت", "DuPont components").in(lang), Data: map[string]any{
		"netMargin": d.NetMargin, "assetTurnover": d.AssetTurnover, "equityMultiplier": d.EquityMultiplier,
	}}}
	return res, nil
}

var productivityAbout = about{
	definition:  tr("قياس المخرجات المحققة لكل وحدة من الموارد", "Output achieved per unit of resources"),
	measures:    tr("إنتاجية الأصول والمصروفات ورأس المال", "Productivity of assets, expenses and capital"),
	importance:  tr("الإنتاجية الأعلى تعني ربحية أعلى بنفس الموارد", "Higher productivity earns more from the same resources"),
	calculation: tr("الإيرادات ÷ المورد المستخدم", "Revenue / resource employed"),
}

func productivity(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	opex := s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses
	perOpex := safeDiv(revenueOf(s), opex)
	out := map[string]any{
		"revenuePerOpex":       roundTo(perOpex, 4),
		"revenuePerAsset":      roundTo(safeDiv(revenueOf(s), assetsOf(s)), 4),
		"grossProfitPerSGA":    roundTo(safeDiv(s.IncomeStatement.GrossProfit, s.IncomeStatement.OperatingExpenses.SellingGeneralAdministrative), 4),
		"revenuePerFixedAsset": roundTo(safeDiv(revenueOf(s), s.BalanceSheet.NonCurrentAssets.NetPPE), 4),
	}
	if len(stmts) >= 2 {
		prev := stmts[len(stmts)-2]
		out["productivityGrowth"] = round2(pctChange(safeDiv(revenueOf(prev), prev.IncomeStatement.OperatingExpenses.TotalOperatingExpenses), perOpex))
	}

	res := newResult(c, productivityAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("كل وحدة من المصروفات التشغيلية تولد %.2f من الإيرادات", "Each unit of operating expense generates %.2f of revenue").in(lang), perOpex)
	res.Rating = higherBetter(perOpex, [4]float64{8, 6, 4, 2})
	res.Recommendation = tr("أتمتة العمليات وتحسين استغلال الأصول", "Automate processes and use assets more fully").in(lang)
	return res, nil
}

// averageRating scores a set of ratios by the mean of their rating scores.
func averageRating(types []model.AnalysisType, s model.FinancialStatement, bm model.Benchmarks) (float64, map[string]model.Rating) {
	ratings := make(map[string]model.Rating, len(types))
	var total float64
	for _, t := range types {
		r := ratioRating(t, s, bm)
		ratings[string(t)] = r
		total += float64(r.Score())
	}
	return total / float64(len(types)), ratings
}

var efficiencyAbout = about{
	definition:  tr("تقييم كفاءة العمليات التشغيلية", "Assesses how efficiently operations run"),
	measures:    tr("الهوامش ودوران الأصول والدورة النقدية", "Margins, asset turnover and the cash cycle"),
	importance:  tr("الكفاءة التشغيلية مصدر مستدام للميزة التنافسية", "Operating efficiency is a lasting source of advantage"),
	calculation: tr("متوسط تقييم مؤشرات الكفاءة", "Mean rating of efficiency indicators"),
}

var efficiencyIndicators = []model.AnalysisType{
	model.OperatingProfitMargin,
	model.AssetTurnover,
	model.InventoryTurnover,
	model.ReceivablesTurnover,
	model.CashConversionCycle,
}

func operationalEfficiency(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	score, ratings := averageRating(efficiencyIndicators, s, bm)
	opexRatio := safeDiv(s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses, revenueOf(s))

	res := newResult(c, efficiencyAbout)
	res.Result = map[string]any{"score": round2(score), "ratings": ratings, "opexRatio": roundTo(opexRatio, 4)}
	res.Interpretation = fmt.Sprintf(tr("درجة الكفاءة التشغيلية %.0f من 100 ونسبة المصروفات التشغيلية %.1f%%",
		"Operating efficiency scores %.0f out of 100 with opex at %.1f%% of revenue").in(lang), score, opexRatio*100)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("مراجعة العمليات ذات الكفاءة المنخفضة وإعادة هندستها", "Review and re-engineer low-efficiency processes").in(lang)
	return res, nil
}

var valueChainAbout = about{
	definition:  tr("تتبع القيمة المحتفظ بها في كل مرحلة من الإيرادات إلى صافي الربح", "Tracks value retained at each step from revenue to net income"),
	measures:    tr("استهلاك كل مرحلة من القيمة", "How much value each stage consumes"),
	importance:  tr("يكشف المراحل الأكثر استهلاكاً للقيمة", "Reveals the most value-consuming stages"),
	calculation: tr("القيمة المتبقية بعد كل مرحلة ÷ الإيرادات", "Value remaining after each stage / revenue"),
}

func valueChain(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	is := s.IncomeStatement
	rev := is.Revenue
	type stage struct {
		Stage    string  `json:"stage"`
		Cost     float64 `json:"cost"`
		Retained float64 `json:"retainedPct"`
	}
	remaining := rev
	var stages []stage
	add := func(name text, cost float64) {
		remaining -= cost
		stages = append(stages, stage{name.in(lang), cost, round2(safeDiv(remaining, rev) * 100)})
	}
	add(tr("الإنتاج", "Production"), is.CostOfGoodsSold)
	add(tr("البيع والإدارة", "Selling and administration"), is.OperatingExpenses.SellingGeneralAdministrative)
	add(tr("البحث والتطوير", "Research and development"), is.OperatingExpenses.ResearchDevelopment)
	add(tr("الاستهلاك والإطفاء", "Depreciation and amortisation"), is.OperatingExpenses.Depreciation+is.OperatingExpenses.Amortization)
	add(tr("التمويل", "Financing"), is.OtherIncomeExpense.InterestExpense)
	add(tr("الضرائب", "Taxes"), is.IncomeTaxExpense)

	largest := stages[0]
	for _, st := range stages[1:] {
		if st.Cost > largest.Cost {
			largest = st
		}
	}

	res := newResult(c, valueChainAbout)
	res.Result = stages
	res.Interpretation = fmt.Sprintf(tr("المرحلة الأكثر استهلاكاً للقيمة: %s", "Most value-consuming stage: %s").in(lang), largest.Stage)
	res.Rating = ratioRating(model.NetProfitMargin, s, bm)
	res.Recommendation = fmt.Sprintf(tr("البحث عن وفورات في مرحلة %s", "Look for savings in %s").in(lang), largest.Stage)
	res.Charts = []model.Chart{{Type: "waterfall", Data: map[string]any{"stages": stages}}}
	return res, nil
}

var abcAbout = about{
	definition:  tr("توزيع التكاليف على الأنشطة الرئيسية وقياس تكلفة كل نشاط لكل وحدة إيراد", "Assigns costs to activities and measures each per unit of revenue"),
	measures:    tr("تكلفة الأنشطة ومحركاتها", "Activity costs and drivers"),
	importance:  tr("يوجه الإدارة لترشيد الأنشطة الأعلى تكلفة", "Points management at the costliest activities"),
	calculation: tr("تكلفة النشاط ÷ محرك التكلفة", "Activity cost / cost driver"),
}

func activityBasedCosting(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	is := s.IncomeStatement
	type activity struct {
		Activity   string  `json:"activity"`
		Cost       float64 `json:"cost"`
		Driver     string  `json:"driver"`
		DriverRate float64 `json:"driverRate"`
		Share      float64 `json:"sharePct"`
	}
	type raw struct {
		name, driver text
		cost, base   float64
	}
	raws := []raw{
		{tr("الإنتاج", "Production"), tr("الإيرادات", "revenue"), is.CostOfGoodsSold, is.Revenue},
		{tr("البيع والإدارة", "Selling and administration"), tr("الإيرادات", "revenue"), is.OperatingExpenses.SellingGeneralAdministrative, is.Revenue},
		{tr("البحث والتطوير", "Research and development"), tr("إجمالي الربح", "gross profit"), is.OperatingExpenses.ResearchDevelopment, is.GrossProfit},
		{tr("صيانة الأصول", "Asset upkeep"), tr("الأصول الثابتة", "fixed assets"), is.OperatingExpenses.Depreciation + is.OperatingExpenses.Amortization, s.BalanceSheet.NonCurrentAssets.NetPPE},
		{tr("التمويل", "Financing"), tr("الديون", "debt"), is.OtherIncomeExpense.InterestExpense, s.BalanceSheet.TotalDebt()},
	}
	var total float64
	for _, r := range raws {
		total += r.cost
	}
	out := make([]activity, len(raws))
	for i, r := range raws {
		out[i] = activity{r.name.in(lang), r.cost, r.driver.in(lang), roundTo(safeDiv(r.cost, r.base), 4), round2(safeDiv(r.cost, total) * 100)}
	}
	costRatio := safeDiv(total, is.Revenue)

	res := newResult(c, abcAbout)
	res.Result = map[string]any{"activities": out, "totalCost": total, "costToRevenue": roundTo(costRatio, 4)}
	res.Interpretation = fmt.Sprintf(tr("تستهلك الأنشطة %.1f%% من الإيرادات", "Activities consume %.1f%% of revenue").in(lang), costRatio*100)
	res.Rating = lowerBetter(costRatio, [4]float64{0.75, 0.85, 0.9, 0.95})
	res.Recommendation = tr("إعادة تسعير المنتجات بناءً على تكلفة الأنشطة الفعلية", "Reprice products using actual activity costs").in(lang)
	return res, nil
}

var scorecardAbout = about{
	definition:  tr("بطاقة الأداء المتوازن بأبعادها الأربعة", "Balanced scorecard across its four perspectives"),
	measures:    tr("الأداء المالي والعملاء والعمليات والتعلم والنمو", "Financial, customer, process and learning perspectives"),
	importance:  tr("يربط الأداء المالي بمحركاته غير المالية", "Links financial results to their non-financial drivers"),
	calculation: tr("متوسط درجات الأبعاد الأربعة", "Mean of the four perspective scores"),
}

func balancedScorecard(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	rd := safeDiv(s.IncomeStatement.OperatingExpenses.ResearchDevelopment, revenueOf(s))
	dims := []dimension{
		{tr("المالي", "Financial").in(lang), float64(ratioRating(model.ReturnOnEquity, s, bm).Score())},
		{tr("العملاء", "Customer").in(lang), relScore(revenueGrowth(stmts), bm.GetOr("revenueGrowth", industryGrowth), false)},
		{tr("العمليات الداخلية", "Internal process").in(lang), float64(ratioRating(model.OperatingProfitMargin, s, bm).Score())},
		{tr("التعلم والنمو", "Learning and growth").in(lang), relScore(rd, bm.GetOr("rdIntensity", 0.03), false)},
	}
	score := meanScore(dims)

	res := newResult(c, scorecardAbout)
	res.Result = map[string]any{"perspectives": dims, "score": round2(score)}
	res.Interpretation = fmt.Sprintf(tr("الدرجة الإجمالية لبطاقة الأداء %.0f من 100", "Overall scorecard score is %.0f out of 100").in(lang), score)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("وضع مبادرات محددة للبعد الأضعف", "Set concrete initiatives for the weakest perspective").in(lang)
	return res, nil
}

// KPI is one key indicator against its target.
type KPI struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Target float64 `json:"target"`
	Met    bool    `json:"met"`
}

var kpiAbout = about{
	definition:  tr("لوحة مؤشرات الأداء الرئيسية مقابل المستهدفات", "Key performance indicator dashboard against targets"),
	measures:    tr("نسبة المؤشرات التي حققت المستهدف", "Share of indicators on target"),
	importance:  tr("يتابع التقدم نحو الأهداف الاستراتيجية", "Tracks progress towards strategic goals"),
	calculation: tr("مقارنة كل مؤشر بمستهدفه", "Compare each indicator with its target"),
}

func keyIndicators(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	gaps := benchmarkGaps(model.Latest(stmts), bm, headlineIndicators, lang)
	kpis := make([]KPI, len(gaps))
	for i, g := range gaps {
		kpis[i] = KPI{g.Indicator, g.Value, g.Benchmark, g.Favorable}
	}
	if len(stmts) >= 2 {
		g := revenueGrowth(stmts)
		target := bm.GetOr("revenueGrowth", industryGrowth)
		kpis = append(kpis, KPI{tr("نمو الإيرادات", "Revenue growth").in(lang), roundTo(g, 4), target, g >= target})
	}
	met := 0
	for _, k := range kpis {
		if k.Met {
			met++
		}
	}
	share := safeDiv(float64(met), float64(len(kpis)))

	res := newResult(c, kpiAbout)
	res.Result = kpis
	res.Interpretation = fmt.Sprintf(tr("تحقق %d من %d مؤشرات مستهدفاتها", "%d of %d indicators are on target").in(lang), met, len(kpis))
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("وضع خطط عمل للمؤشرات غير المحققة", "Draw up action plans for indicators off target").in(lang)
	return res, nil
}

var csfAbout = about{
	definition:  tr("تقييم عوامل النجاح الحرجة للأداء المالي", "Assesses the critical success factors of financial performance"),
	measures:    tr("السيولة والربحية والملاءة والكفاءة والنمو", "Liquidity, profitability, solvency, efficiency and growth"),
	importance:  tr("ضعف أي عامل يهدد استمرارية النجاح", "Weakness in any factor threatens continued success"),
	calculation: tr("عامل محقق إذا كان تقييمه جيد أو أفضل", "A factor is met when rated good or better"),
}

func successFactors(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	type factor struct {
		Factor string       `json:"factor"`
		Rating model.Rating `json:"rating"`
		Met    bool         `json:"met"`
	}
	growthRating := model.RatingAcceptable
	if len(stmts) >= 2 {
		growthRating = higherBetter(revenueGrowth(stmts), [4]float64{0.15, 0.1, 0.05, 0})
	}
	raw := []struct {
		name text
		r    model.Rating
	}{
		{tr("السيولة", "Liquidity"), ratioRating(model.CurrentRatio, s, bm)},
		{tr("الربحية", "Profitability"), ratioRating(model.NetProfitMargin, s, bm)},
		{tr("الملاءة", "Solvency"), ratioRating(model.DebtToEquity, s, bm)},
		{tr("الكفاءة", "Efficiency"), ratioRating(model.AssetTurnover, s, bm)},
		{tr("النمو", "Growth"), growthRating},
	}
	factors := make([]factor, len(raw))
	var missing []string
	met := 0
	for i, f := range raw {
		ok := f.r.Score() >= model.RatingGood.Score()
		factors[i] = factor{f.name.in(lang), f.r, ok}
		if ok {
			met++
		} else {
			missing = append(missing, f.name.in(lang))
		}
	}

	res := newResult(c, csfAbout)
	res.Result = factors
	res.Interpretation = fmt.Sprintf(tr("تحقق %d من 5 عوامل نجاح حرجة", "%d of 5 critical success factors are met").in(lang), met)
	res.Rating = ratingFromScore(float64(met) / 5 * 100)
	if len(missing) > 0 {
		res.Recommendation = tr("تعزيز العوامل: ", "Strengthen: ").in(lang) + joinList(missing, lang)
	} else {
		res.Recommendation = keepLevelRec.in(lang)
	}
	return res, nil
}

var advancedVarianceAbout = about{
	definition:  tr("تحليل انحرافات الأداء الفعلي عن الموازنة المرنة", "Analyses actual results against a flexible budget"),
	measures:    tr("انحرافات الحجم والإنفاق في التكاليف والأرباح", "Volume and spending variances in costs and profit"),
	importance:  tr("يفصل أثر تغير النشاط عن أثر كفاءة الإنفاق", "Separates activity effects from spending efficiency"),
	calculation: tr("الموازنة = السنة السابقة × (1 + النمو المستهدف)؛ الموازنة المرنة = نسب التكلفة السابقة × الإيرادات الفعلية", "Budget = prior year x (1 + target growth); flexible budget = prior cost ratios x actual revenue"),
}

// Variance is an actual figure against its budget. Favourable means the
// difference helps profit.
type Variance struct {
	Item       string  `json:"item"`
	Budget     float64 `json:"budget"`
	Actual     float64 `json:"actual"`
	Variance   float64 `json:"variance"`
	Favourable bool    `json:"favourable"`
}

func advancedVariance(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	prev, cur := stmts[len(stmts)-2], model.Latest(stmts)
	g := bm.GetOr("revenueGrowth", industryGrowth)

	budgetRev := revenueOf(prev) * (1 + g)
	costRatio := safeDiv(totalCost(prev), revenueOf(prev))
	budgetCost := budgetRev * costRatio
	flexCost := revenueOf(cur) * costRatio
	actualCost := totalCost(cur)

	variances := []Variance{
		{tr("الإيرادات", "Revenue").in(lang), round2(budgetRev), revenueOf(cur), round2(revenueOf(cur) - budgetRev), revenueOf(cur) >= budgetRev},
		{tr("التكاليف", "Costs").in(lang), round2(budgetCost), actualCost, round2(actualCost - budgetCost), actualCost <= budgetCost},
		{tr("الربح التشغيلي", "Operating profit").in(lang), round2(budgetRev - budgetCost), opIncomeOf(cur), round2(opIncomeOf(cur) - (budgetRev - budgetCost)), opIncomeOf(cur) >= budgetRev-budgetCost},
	}
	volume := flexCost - budgetCost
	spending := actualCost - flexCost

	fav := 0
	for _, v := range variances {
		if v.Favourable {
			fav++
		}
	}
	score := float64(fav) / float64(len(variances)) * 100
	if spending > 0 {
		score -= 10
	}

	res := newResult(c, advancedVarianceAbout)
	res.Result = map[string]any{"variances": variances, "costVolumeVariance": round2(volume), "costSpendingVariance": round2(spending)}
	res.Interpretation = fmt.Sprintf(tr("انحراف الإنفاق %.0f وانحراف الحجم %.0f في التكاليف", "Cost spending variance is %.0f and volume variance %.0f").in(lang), spending, volume)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("التحقيق في انحرافات الإنفاق غير المواتية", "Investigate unfavourable spending variances").in(lang)
	return res, nil
}

var ratioDeviationAbout = about{
	definition:  tr("انحراف النسب المالية الرئيسية عن متوسطها التاريخي بوحدات الانحراف المعياري", "Deviation of headline ratios from their history in standard deviations"),
	measures:    tr("الانحرافات الجوهرية في المؤشرات", "Material deviations in indicators"),
	importance:  tr("يرصد التغيرات التي تستدعي التحقيق", "Flags changes that need investigation"),
	calculation: tr("(القيمة الحالية - المتوسط) ÷ الانحراف المعياري", "(Current - mean) / standard deviation"),
}

func ratioDeviation(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	latest := model.Latest(stmts)
	type dev struct {
		Indicator   string  `json:"indicator"`
		Current     float64 `json:"current"`
		Mean        float64 `json:"mean"`
		ZScore      float64 `json:"zScore"`
		Significant bool    `json:"significant"`
	}
	var devs []dev
	var flagged []string
	for _, g := range headlineIndicators {
		xs := make([]float64, len(stmts))
		for i, s := range stmts {
			xs[i] = ratioValue(g.typ, s, bm)
		}
		cur := ratioValue(g.typ, latest, bm)
		z := safeDiv(cur-mean(xs), stddev(xs))
		sig := math.Abs(z) > 1.5
		devs = append(devs, dev{g.typ.DisplayName(lang), roundTo(cur, 4), roundTo(mean(xs), 4), round2(z), sig})
		if sig {
			flagged = append(flagged, g.typ.DisplayName(lang))
		}
	}

	res := newResult(c, ratioDeviationAbout)
	res.Result = devs
	res.Interpretation = fmt.Sprintf(tr("%d مؤشرات تنحرف جوهرياً عن متوسطها", "%d indicators deviate materially from their mean").in(lang), len(flagged))
	res.Rating = lowerBetter(float64(len(flagged)), [4]float64{0, 1, 2, 3})
	if len(flagged) > 0 {
		res.Recommendation = tr("التحقيق في انحرافات: ", "Investigate deviations in: ").in(lang) + joinList(flagged, lang)
	} else {
		res.Recommendation = keepLevelRec.in(lang)
	}
	return res, nil
}

var flexibilityAbout = about{
	definition:  tr("قدرة الشركة على الاستجابة للفرص والصدمات مالياً", "Ability to respond financially to opportunities and shocks"),
	measures:    tr("النقد والطاقة الاقتراضية والتدفق الحر وتغطية الفوائد", "Cash, borrowing capacity, free cash flow and interest cover"),
	importance:  tr("المرونة المالية تحمي من الأزمات", "Financial flexibility protects against crises"),
	calculation: tr("متوسط درجات مكونات المرونة", "Mean of flexibility component scores"),
}

// targetDebtToEquity caps borrowing capacity in the flexibility analysis.
const targetDebtToEquity = 1.0

func flexibility(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	debt := s.BalanceSheet.TotalDebt()
	capacity := math.Max(0, equityOf(s)*targetDebtToEquity-debt)
	dims := []dimension{
		{tr("النقد", "Cash").in(lang), relScore(safeDiv(s.BalanceSheet.CurrentAssets.Cash, assetsOf(s)), bm.GetOr("cashToAssets", 0.1), false)},
		{tr("الطاقة الاقتراضية", "Borrowing capacity").in(lang), clamp(safeDiv(capacity, assetsOf(s))*200, 0, 100)},
		{tr("التدفق الحر إلى الدين", "FCF to debt").in(lang), relScore(div1(fcfOf(s), debt), 0.2, false)},
		{tr("تغطية الفوائد", "Interest cover").in(lang), float64(ratioRating(model.InterestCoverage, s, bm).Score())},
	}
	score := meanScore(dims)

	res := newResult(c, flexibilityAbout)
	res.Result = map[string]any{"components": dims, "unusedDebtCapacity": round2(capacity), "score": round2(score)}
	res.Interpretation = fmt.Sprintf(tr("درجة المرونة المالية %.0f مع طاقة اقتراضية غير مستغلة %.0f", "Financial flexibility scores %.0f with %.0f unused debt capacity").in(lang), score, capacity)
	res.Rating = ratingFromScore(score)
	res.Recommendation = tr("الحفاظ على احتياطي نقدي وخطوط ائتمان غير مستخدمة", "Keep cash reserves and undrawn credit lines").in(lang)
	return res, nil
}

var sensitivityAbout = about{
	definition:  tr("أثر تغير المتغيرات الرئيسية على صافي الدخل", "Effect of key driver changes on net income"),
	measures:    tr("مرونة الربح تجاه الإيرادات والتكاليف والفائدة", "Profit elasticity to revenue, costs and interest"),
	importance:  tr("يحدد المتغيرات الأكثر خطورة", "Identifies the riskiest drivers"),
	calculation: tr("التغير في صافي الدخل عند تغير كل متغير بنسبة 10%", "Change in net income when each driver moves 10%"),
}

// Shock is the net income effect of moving one driver.
type Shock struct {
	Driver     string  `json:"driver"`
	Change     float64 `json:"change"`
	NetIncome  float64 `json:"netIncome"`
	ImpactPct  float64 `json:"impactPct"`
	Elasticity float64 `json:"elasticity"`
}

// shockNetIncome recomputes net income after the given deltas, taxing the
// change at the effective rate.
func shockNetIncome(s model.FinancialStatement, dRevenue, dCogs, dOpex, dInterest, tax float64) float64 {
	is := s.IncomeStatement
	dEBT := is.Revenue*dRevenue - is.CostOfGoodsSold*dCogs - is.OperatingExpenses.TotalOperatingExpenses*dOpex - dInterest
	return is.NetIncome + dEBT*(1-tax)
}

func sensitivityShocks(s model.FinancialStatement, tax float64, lang model.Language) []Shock {
	ni := netIncomeOf(s)
	debt := s.BalanceSheet.TotalDebt()
	mk := func(name text, change float64, shocked float64) Shock {
		impact := pctChange(ni, shocked)
		return Shock{name.in(lang), change, round2(shocked), round2(impact), round2(safeDiv(impact, change*100))}
	}
	return []Shock{
		mk(tr("الإيرادات -10%", "Revenue -10%"), -0.1, shockNetIncome(s, -0.1, 0, 0, 0, tax)),
		mk(tr("تكلفة المبيعات +10%", "Cost of sales +10%"), 0.1, shockNetIncome(s, 0, 0.1, 0, 0, tax)),
		mk(tr("المصروفات التشغيلية +10%", "Operating expenses +10%"), 0.1, shockNetIncome(s, 0, 0, 0.1, 0, tax)),
		mk(tr("سعر الفائدة +1 نقطة", "Interest rate +1pt"), 0.01, shockNetIncome(s, 0, 0, 0, debt*0.01, tax)),
	}
}

func sensitivity(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	shocks := sensitivityShocks(v.s, v.taxRate, lang)
	worst := shocks[0]
	for _, sh := range shocks[1:] {
		if math.Abs(sh.ImpactPct) > math.Abs(worst.ImpactPct) {
			worst = sh
		}
	}
	revElasticity := math.Abs(shocks[0].Elasticity)

	res := newResult(c, sensitivityAbout)
	res.Result = shocks
	res.Interpretation = fmt.Sprintf(tr("أكثر المتغيرات تأثيراً: %s بأثر %.1f%% على صافي الدخل", "Most sensitive driver: %s, moving net income %.1f%%").in(lang), worst.Driver, worst.ImpactPct)
	res.Rating = lowerBetter(revElasticity, [4]float64{2, 4, 6, 10})
	if netIncomeOf(v.s) <= 0 {
		res.Rating = model.RatingWeak
	}
	res.Recommendation = tr("التحوط من المتغيرات الأكثر تأثيراً على الربح", "Hedge the drivers with the largest profit impact").in(lang)
	return res, nil
}
