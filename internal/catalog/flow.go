package catalog

import (
	"fmt"
	"math"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerFlow(r *Registry) {
	r.Register(model.BasicCashFlow, basicCashFlow)
	r.Register(model.WorkingCapitalAnalysis, workingCapital)
	r.Register(model.CashCycle, cashCycle)
	r.Register(model.BreakEvenAnalysis, breakEven)
	r.Register(model.MarginOfSafety, marginOfSafety)
	r.Register(model.CostStructure, costStructure)
	r.Register(model.FixedVariableCosts, fixedVariable)
	r.Register(model.OperatingLeverage, operatingLeverage)
	r.Register(model.ContributionMargin, contributionMargin)
	r.Register(model.FreeCashFlow, freeCashFlow)
}

// costSplit separates the latest period's costs into fixed and variable
// parts. With two or more periods the variable rate is the least-squares
// slope of total cost on revenue; otherwise cost of sales is treated as
// variable and operating expenses as fixed.
type costSplit struct {
	Revenue      float64 `json:"revenue"`
	VariableCost float64 `json:"variableCost"`
	FixedCost    float64 `json:"fixedCost"`
	VariableRate float64 `json:"variableRate"`
	Method       string  `json:"method"`
}

func totalCost(s model.FinancialStatement) float64 {
	return s.IncomeStatement.CostOfGoodsSold + s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses
}

func splitCosts(stmts []model.FinancialStatement) costSplit {
	s := model.Latest(stmts)
	rev := revenueOf(s)
	if len(stmts) >= 2 {
		revs, costs := series(stmts, revenueOf), series(stmts, totalCost)
		mr, mc := mean(revs), mean(costs)
		var cov, vr float64
		for i := range revs {
			cov += (revs[i] - mr) * (costs[i] - mc)
			vr += (revs[i] - mr) * (revs[i] - mr)
		}
		rate := safeDiv(cov, vr)
		if rate > 0 && rate < 1 {
			variable := rate * rev
			return costSplit{Revenue: rev, VariableCost: variable, FixedCost: math.Max(0, totalCost(s)-variable), VariableRate: rate, Method: "regression"}
		}
	}
	variable := s.IncomeStatement.CostOfGoodsSold
	return costSplit{
		Revenue:      rev,
		VariableCost: variable,
		FixedCost:    s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses,
		VariableRate: safeDiv(variable, rev),
		Method:       "classification",
	}
}

func (c costSplit) contribution() float64      { return c.Revenue - c.VariableCost }
func (c costSplit) contributionRatio() float64 { return safeDiv(c.contribution(), c.Revenue) }

// breakEvenRevenue is zero when the contribution ratio is not positive.
func (c costSplit) breakEvenRevenue() float64 {
	cr := c.contributionRatio()
	if cr <= 0 {
		return 0
	}
	return c.FixedCost / cr
}

func (c costSplit) marginOfSafety() float64 {
	be := c.breakEvenRevenue()
	if be == 0 {
		return 0
	}
	return safeDiv(c.Revenue-be, c.Revenue)
}

var basicCashFlowAbout = about{
	definition:  tr("تحليل مصادر واستخدامات النقد من الأنشطة التشغيلية والاستثمارية والتمويلية", "Analyses cash sources and uses across operating, investing and financing activities"),
	measures:    tr("قدرة الشركة على توليد النقد وجودة أرباحها", "Cash generation and earnings quality"),
	importance:  tr("النقد هو أساس قدرة الشركة على الوفاء بالتزاماتها", "Cash underpins the ability to meet obligations"),
	calculation: tr("جودة الأرباح = التدفق النقدي التشغيلي ÷ صافي الدخل", "Earnings quality = operating cash flow / net income"),
}

func basicCashFlow(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	cf := s.CashFlowStatement
	ocf := ocfOf(s)
	quality := safeDiv(ocf, netIncomeOf(s))
	ocfToSales := safeDiv(ocf, revenueOf(s))

	var interp string
	switch {
	case quality > 1.2:
		interp = tr("جودة أرباح ممتازة مع تدفقات نقدية قوية من العمليات.", "Excellent earnings quality with strong operating cash flows.").in(lang)
	case quality > 0.8:
		interp = tr("جودة أرباح جيدة مع تدفقات نقدية صحية.", "Good earnings quality with healthy cash flows.").in(lang)
	default:
		interp = tr("جودة أرباح ضعيفة قد تشير إلى مشاكل في التحصيل أو إدارة رأس المال العامل.",
			"Weak earnings quality may point to collection or working capital issues.").in(lang)
	}
	if ocfToSales > 0.15 {
		interp += " " + tr("كفاءة عالية في تحويل المبيعات إلى نقد.", "Sales convert to cash efficiently.").in(lang)
	}

	var recs []string
	if quality < 1 {
		recs = append(recs,
			tr("تحسين عمليات التحصيل وإدارة الذمم المدينة", "Improve collection and receivables management").in(lang),
			tr("مراجعة سياسات الائتمان", "Review credit policies").in(lang))
	}
	if ocfToSales < 0.1 {
		recs = append(recs,
			tr("تحسين كفاءة رأس المال العامل", "Improve working capital efficiency").in(lang),
			tr("تقليل فترة التحصيل", "Shorten the collection period").in(lang))
	}
	if len(recs) == 0 {
		recs = append(recs, keepLevelRec.in(lang))
	}

	res := newResult(c, basicCashFlowAbout)
	res.Result = map[string]any{
		"operatingCashFlow": ocf,
		"investingCashFlow": cf.InvestingActivities.NetCashFromInvesting,
		"financingCashFlow": cf.FinancingActivities.NetCashFromFinancing,
		"netChangeInCash":   cf.NetChangeInCash,
		"freeCashFlow":      cf.FreeCashFlow(),
		"qualityOfEarnings": roundTo(quality, 4),
		"ocfToSales":        roundTo(ocfToSales, 4),
	}
	res.Interpretation = interp
	res.Rating = higherBetter(quality, [4]float64{1.2, 1.0, 0.8, 0.5})
	res.Recommendation = joinList(recs, lang)
	if ocf < 0 {
		res.Risks = []string{tr("تدفق نقدي تشغيلي سالب", "Negative operating cash flow").in(lang)}
	}
	res.Charts = []model.Chart{{Type: "bar", Title: tr("التدفقات النقدية حسب النشاط", "Cash flow by activity").in(lang), Data: map[string]any{
		"operating": ocf,
		"investing": cf.InvestingActivities.NetCashFromInvesting,
		"financing": cf.FinancingActivities.NetCashFromFinancing,
	}}}
	return res, nil
}

var workingCapitalAbout = about{
	definition:  tr("تحليل رأس المال العامل وتطوره", "Analyses working capital and how it evolves"),
	measures:    tr("الفائض من الأصول المتداولة على الخصوم المتداولة", "Excess of current assets over current liabilities"),
	importance:  tr("يعكس قدرة الشركة على تمويل عملياتها اليومية", "Reflects the ability to fund day-to-day operations"),
	calculation: tr("الأصول المتداولة - الخصوم المتداولة", "Current assets - current liabilities"),
}

func workingCapital(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	wc := s.BalanceSheet.WorkingCapital()
	toRevenue := safeDiv(wc, revenueOf(s))
	out := map[string]any{
		"workingCapital":   wc,
		"toTotalAssets":    roundTo(safeDiv(wc, assetsOf(s)), 4),
		"toRevenue":        roundTo(toRevenue, 4),
		"daysOfWorkingCap": round2(toRevenue * 365),
	}
	if len(stmts) >= 2 {
		prev := stmts[len(stmts)-2].BalanceSheet.WorkingCapital()
		out["change"] = wc - prev
		out["changePct"] = round2(pctChange(prev, wc))
	}

	res := newResult(c, workingCapitalAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("يبلغ رأس المال العامل %.0f أي %.1f%% من الإيرادات", "Working capital is %.0f, %.1f%% of revenue").in(lang), wc, toRevenue*100)
	res.Rating = higherBetter(toRevenue, [4]float64{0.25, 0.15, 0.1, 0})
	if wc < 0 {
		res.Risks = []string{tr("رأس مال عامل سالب", "Negative working capital").in(lang)}
		res.Recommendation = tr("إعادة هيكلة الالتزامات قصيرة الأجل", "Restructure short-term obligations").in(lang)
	} else {
		res.Recommendation = tr("تحسين دوران المخزون والذمم لتحرير النقد", "Speed up inventory and receivables to release cash").in(lang)
	}
	return res, nil
}

var cashCycleAbout = about{
	definition:  tr("تحليل عناصر الدورة النقدية من المخزون إلى التحصيل والسداد", "Breaks down the cash cycle from inventory to collection and payment"),
	measures:    tr("عدد الأيام بين دفع النقد للموردين وتحصيله من العملاء", "Days between paying suppliers and collecting from customers"),
	importance:  tr("الدورة الأقصر تعني حاجة أقل للتمويل", "A shorter cycle needs less financing"),
	calculation: tr("أيام المخزون + أيام التحصيل - أيام السداد", "Days inventory + days receivable - days payable"),
}

func cashCycle(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	dio, dso, dpo := daysInventory(s), daysReceivable(s), daysPayable(s)
	ccc := dio + dso - dpo

	res := newResult(c, cashCycleAbout)
	res.Result = map[string]any{
		"daysInventory":       round2(dio),
		"daysReceivable":      round2(dso),
		"daysPayable":         round2(dpo),
		"cashConversionCycle": round2(ccc),
	}
	res.Interpretation = fmt.Sprintf(tr("تستغرق الدورة النقدية %.0f يوماً", "The cash cycle takes %.0f days").in(lang), ccc)
	res.Rating = lowerBetter(ccc, [4]float64{30, 60, 90, 120})
	res.Recommendation = tr("تقليل أيام المخزون والتحصيل والتفاوض على شروط سداد أفضل", "Cut inventory and collection days and negotiate longer payment terms").in(lang)
	res.Charts = []model.Chart{{Type: "bar", Data: map[string]any{"dio": round2(dio), "dso": round2(dso), "dpo": round2(dpo)}}}
	return res, nil
}

var breakEvenAbout = about{
	definition:  tr("تحديد مستوى الإيرادات الذي تتساوى عنده التكاليف الكلية مع الإيرادات", "Finds the revenue at which total costs equal revenue"),
	measures:    tr("الحد الأدنى من المبيعات لتجنب الخسارة", "Minimum sales needed to avoid a loss"),
	importance:  tr("أداة أساسية للتخطيط والتسعير", "Core tool for planning and pricing"),
	calculation: tr("التكاليف الثابتة ÷ نسبة هامش المساهمة", "Fixed costs / contribution margin ratio"),
}

func breakEven(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	split := splitCosts(stmts)
	be := split.breakEvenRevenue()
	mos := split.marginOfSafety()

	res := newResult(c, breakEvenAbout)
	res.Result = map[string]any{
		"breakEvenRevenue":  round2(be),
		"currentRevenue":    split.Revenue,
		"contributionRatio": roundTo(split.contributionRatio(), 4),
		"costs":             split,
	}
	if be == 0 {
		res.Interpretation = tr("لا يمكن تحديد نقطة التعادل لأن هامش المساهمة غير موجب", "Break-even is undefined because the contribution margin is not positive").in(lang)
		res.Rating = model.RatingWeak
	} else {
		res.Interpretation = fmt.Sprintf(tr("إيرادات التعادل %.0f مقابل إيرادات فعلية %.0f", "Break-even revenue is %.0f against actual revenue of %.0f").in(lang), be, split.Revenue)
		res.Rating = higherBetter(mos, [4]float64{0.3, 0.2, 0.1, 0})
	}
	res.Recommendation = tr("خفض التكاليف الثابتة أو رفع هامش المساهمة لخفض نقطة التعادل", "Lower fixed costs or raise the contribution margin to bring break-even down").in(lang)
	return res, nil
}

var marginOfSafetyAbout = about{
	definition:  tr("المسافة بين الإيرادات الفعلية وإيرادات التعادل", "Gap between actual and break-even revenue"),
	measures:    tr("مقدار انخفاض المبيعات الممكن قبل تحقيق خسارة", "How far sales can fall before a loss"),
	importance:  tr("مؤشر على هامش الحماية من تقلبات الطلب", "Indicates protection against demand swings"),
	calculation: tr("(الإيرادات الفعلية - إيرادات التعادل) ÷ الإيرادات الفعلية", "(Actual revenue - break-even revenue) / actual revenue"),
}

func marginOfSafety(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	split := splitCosts(stmts)
	mos := split.marginOfSafety()

	res := newResult(c, marginOfSafetyAbout)
	res.Result = roundTo(mos, 4)
	res.Interpretation = above(mos, []float64{0.3, 0.1, 0},
		tr("هامش أمان مرتفع يوفر حماية جيدة", "High margin of safety offers good protection"),
		tr("هامش أمان معتدل", "Moderate margin of safety"),
		tr("هامش أمان منخفض يتطلب الحذر", "Thin margin of safety calls for caution"),
		tr("الإيرادات أقل من نقطة التعادل", "Revenue is below break-even"),
	).in(lang)
	res.Rating = higherBetter(mos, [4]float64{0.3, 0.2, 0.1, 0})
	res.Recommendation = tr("تنويع قاعدة العملاء وزيادة المبيعات لتوسيع هامش الأمان", "Broaden the customer base and grow sales to widen the margin").in(lang)
	if mos < 0.1 {
		res.Risks = []string{tr("هامش أمان منخفض", "Low margin of safety").in(lang)}
	}
	return res, nil
}

var costStructureAbout = about{
	definition:  tr("تحليل مكونات التكاليف كنسبة من الإيرادات", "Breaks costs down as a share of revenue"),
	measures:    tr("توزيع التكاليف وكفاءة الإنفاق", "Cost mix and spending efficiency"),
	importance:  tr("يحدد مجالات خفض التكاليف", "Points to areas for cost reduction"),
	calculation: tr("كل بند تكلفة ÷ الإيرادات", "Each cost line / revenue"),
}

func costStructure(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	is := s.IncomeStatement
	rev := is.Revenue
	pct := func(v float64) float64 { return round2(safeDiv(v, rev) * 100) }
	opRatio := safeDiv(totalCost(s), rev)

	res := newResult(c, costStructureAbout)
	res.Result = map[string]any{
		"costOfGoodsSold":              pct(is.CostOfGoodsSold),
		"sellingGeneralAdministrative": pct(is.OperatingExpenses.SellingGeneralAdministrative),
		"researchDevelopment":          pct(is.OperatingExpenses.ResearchDevelopment),
		"depreciationAmortization":     pct(is.OperatingExpenses.Depreciation + is.OperatingExpenses.Amortization),
		"interest":                     pct(is.OtherIncomeExpense.InterestExpense),
		"tax":                          pct(is.IncomeTaxExpense),
		"operatingCostRatio":           roundTo(opRatio, 4),
	}
	res.Interpretation = fmt.Sprintf(tr("تستهلك التكاليف التشغيلية %.1f%% من الإيرادات", "Operating costs absorb %.1f%% of revenue").in(lang), opRatio*100)
	res.Rating = lowerBetter(opRatio, [4]float64{0.75, 0.85, 0.9, 0.95})
	res.Recommendation = tr("استهداف بنود التكلفة الأعلى نسبة بخطط ترشيد", "Target the largest cost lines with efficiency plans").in(lang)
	return res, nil
}

var fixedVariableAbout = about{
	definition:  tr("فصل التكاليف إلى ثابتة ومتغيرة", "Separates costs into fixed and variable parts"),
	measures:    tr("حساسية التكاليف لحجم النشاط", "Cost sensitivity to activity volume"),
	importance:  tr("يدعم قرارات التسعير والتوسع", "Supports pricing and expansion decisions"),
	calculation: tr("معدل التكلفة المتغيرة = ميل انحدار التكاليف على الإيرادات", "Variable rate = slope of total cost regressed on revenue"),
}

func fixedVariable(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	split := splitCosts(stmts)
	fixedShare := safeDiv(split.FixedCost, split.FixedCost+split.VariableCost)

	res := newResult(c, fixedVariableAbout)
	res.Result = map[string]any{"costs": split, "fixedShare": roundTo(fixedShare, 4)}
	res.Interpretation = fmt.Sprintf(tr("تمثل التكاليف الثابتة %.1f%% من إجمالي التكاليف", "Fixed costs are %.1f%% of total costs").in(lang), fixedShare*100)
	res.Rating = lowerBetter(fixedShare, [4]float64{0.3, 0.4, 0.5, 0.6})
	res.Recommendation = tr("تحويل بعض التكاليف الثابتة إلى متغيرة لزيادة المرونة", "Convert some fixed costs to variable ones for flexibility").in(lang)
	return res, nil
}

var operatingLeverageAbout = about{
	definition:  tr("درجة تأثر الربح التشغيلي بتغير المبيعات", "How strongly operating profit responds to sales changes"),
	measures:    tr("درجة الرافعة التشغيلية", "Degree of operating leverage"),
	importance:  tr("الرافعة المرتفعة تضخم الأرباح والخسائر", "High leverage amplifies both gains and losses"),
	calculation: tr("هامش المساهمة ÷ الدخل التشغيلي", "Contribution margin / operating income"),
}

func operatingLeverage(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	split := splitCosts(stmts)
	op := opIncomeOf(s)
	dol := safeDiv(split.contribution(), op)
	out := map[string]any{"degreeOfOperatingLeverage": roundTo(dol, 4)}
	if len(stmts) >= 2 {
		prev := stmts[len(stmts)-2]
		out["observedLeverage"] = roundTo(safeDiv(pctChange(opIncomeOf(prev), op), pctChange(revenueOf(prev), revenueOf(s))), 4)
	}

	res := newResult(c, operatingLeverageAbout)
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("كل تغير بنسبة 1%% في المبيعات يغير الربح التشغيلي بنحو %.2f%%", "A 1%% change in sales moves operating profit by about %.2f%%").in(lang), dol)
	if op <= 0 {
		res.Rating = model.RatingWeak
		res.Risks = []string{tr("دخل تشغيلي غير موجب", "Non-positive operating income").in(lang)}
	} else {
		res.Rating = lowerBetter(dol, [4]float64{1.5, 2, 3, 4})
	}
	res.Recommendation = tr("موازنة الرافعة التشغيلية مع استقرار الطلب", "Balance operating leverage against demand stability").in(lang)
	return res, nil
}

var contributionAbout = about{
	definition:  tr("ما يتبقى من الإيرادات بعد التكاليف المتغيرة لتغطية التكاليف الثابتة", "Revenue left after variable costs to cover fixed costs"),
	measures:    tr("ربحية كل وحدة مبيعات", "Profitability of each unit of sales"),
	importance:  tr("أساس تحليل التعادل والتسعير", "Basis for break-even and pricing analysis"),
	calculation: tr("(الإيرادات - التكاليف المتغيرة) ÷ الإيرادات", "(Revenue - variable costs) / revenue"),
}

func contributionMargin(stmts []model.FinancialStatement, c model.Company, _ model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	split := splitCosts(stmts)
	cr := split.contributionRatio()

	res := newResult(c, contributionAbout)
	res.Result = map[string]any{"contribution": round2(split.contribution()), "ratio": roundTo(cr, 4)}
	res.Interpretation = fmt.Sprintf(tr("نسبة هامش المساهمة %.1f%%", "Contribution margin ratio is %.1f%%").in(lang), cr*100)
	res.Rating = higherBetter(cr, [4]float64{0.5, 0.4, 0.3, 0.2})
	res.Recommendation = tr("التركيز على المنتجات ذات هامش المساهمة الأعلى", "Focus on products with the highest contribution").in(lang)
	return res, nil
}

var freeCashFlowAbout = about{
	definition:  tr("النقد المتاح بعد النفقات الرأسمالية", "Cash left after capital expenditure"),
	measures:    tr("قدرة الشركة على التوزيع والسداد والنمو الذاتي", "Capacity to pay out, repay debt and self-fund growth"),
	importance:  tr("أساس التقييم بالتدفقات المخصومة", "Foundation of discounted cash flow valuation"),
	calculation: tr("التدفق النقدي التشغيلي - النفقات الرأسمالية", "Operating cash flow - capital expenditure"),
}

func freeCashFlow(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	fcf := fcfOf(s)
	margin := safeDiv(fcf, revenueOf(s))
	marketCap := sharePrice(s, bm) * sharesOf(s)
	yield := safeDiv(fcf, marketCap)

	res := newResult(c, freeCashFlowAbout)
	res.Result = map[string]any{
		"freeCashFlow":   fcf,
		"fcfMargin":      roundTo(margin, 4),
		"fcfYield":       roundTo(yield, 4),
		"fcfToNetIncome": roundTo(safeDiv(fcf, netIncomeOf(s)), 4),
		"history":        series(stmts, fcfOf),
	}
	res.Interpretation = fmt.Sprintf(tr("التدفق النقدي الحر %.0f بهامش %.1f%% من الإيرادات", "Free cash flow is %.0f, a %.1f%% margin on revenue").in(lang), fcf, margin*100)
	res.Rating = higherBetter(margin, [4]float64{0.15, 0.1, 0.05, 0})
	if yield > 0.05 {
		res.Opportunities = []string{tr("عائد تدفق نقدي حر جذاب", "Attractive free cash flow yield").in(lang)}
	}
	if fcf < 0 {
		res.Risks = []string{tr("تدفق نقدي حر سالب", "Negative free cash flow").in(lang)}
		res.Recommendation = tr("ترشيد النفقات الرأسمالية وتحسين التدفق التشغيلي", "Rationalise capex and lift operating cash flow").in(lang)
	} else {
		res.Recommendation = tr("توظيف التدفق النقدي الحر في النمو أو التوزيعات", "Deploy free cash flow into growth or distributions").in(lang)
	}
	return res, nil
}
