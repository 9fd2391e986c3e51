package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/sells-group/finanalysis/internal/model"
)

func registerValuation(r *Registry) {
	r.Register(model.TimeValueOfMoney, timeValue)
	r.Register(model.NetPresentValue, netPresentValue)
	r.Register(model.InternalRateOfReturn, internalRate)
	r.Register(model.PaybackPeriod, payback)
	r.Register(model.DiscountedCashFlow, discountedCashFlow)
	r.Register(model.ReturnOnInvestment, returnOnInvestment)
	r.Register(model.EconomicValueAdded, economicValueAdded)
	r.Register(model.MarketValueAdded, marketValueAdded)
	r.Register(model.GordonGrowthModel, gordonGrowth)
	r.Register(model.DividendDiscountModel, dividendDiscount)
	r.Register(model.FairValueAnalysis, fairValue)
	r.Register(model.CostBenefitAnalysis, costBenefit)
	r.Register(model.FinancialFeasibility, feasibility)
	r.Register(model.ProjectInvestmentAnalysis, projectInvestment)
	r.Register(model.InvestmentAlternatives, investmentAlternatives)
	r.Register(model.CompanyValuation, companyValuation)
}

const (
	riskFreeRate       = 0.03
	marketRiskPremium  = 0.08
	terminalGrowth     = 0.02
	projectionYears    = 5
	defaultCostOfDebt  = 0.05
	defaultEVToEBITDA  = 8
	maxProjectedGrowth = 0.2
)

// valuation gathers the shared inputs of the valuation family from the
// latest statement, the history and the benchmarks.
type valuation struct {
	s                 model.FinancialStatement
	price             float64
	shares            float64
	marketCap         float64
	debt              float64
	cash              float64
	taxRate           float64
	costOfEquity      float64
	costOfDebt        float64
	wacc              float64
	growth            float64
	fcf               float64
	investedCap       float64
	nopat             float64
	ebitda            float64
	dividendsPS       float64
	sustainableGrowth float64
}

func newValuation(stmts []model.FinancialStatement, bm model.Benchmarks) valuation {
	s := model.Latest(stmts)
	v := valuation{s: s, price: sharePrice(s, bm), shares: sharesOf(s)}
	v.marketCap = v.price * v.shares
	v.debt = s.BalanceSheet.TotalDebt()
	v.cash = s.BalanceSheet.CurrentAssets.Cash

	v.taxRate = assumedTaxRate
	if t, ok := bm.Get("taxRate"); ok {
		v.taxRate = t
	} else if ebt := s.IncomeStatement.IncomeBeforeTax; ebt > 0 && s.IncomeStatement.IncomeTaxExpense > 0 {
		v.taxRate = clamp(s.IncomeStatement.IncomeTaxExpense/ebt, 0, 0.5)
	}

	v.costOfEquity = bm.GetOr("riskFreeRate", riskFreeRate) + bm.GetOr("beta", 1)*bm.GetOr("marketRiskPremium", marketRiskPremium)
	v.costOfDebt = defaultCostOfDebt
	if v.debt > 0 && s.IncomeStatement.OtherIncomeExpense.InterestExpense > 0 {
		v.costOfDebt = s.IncomeStatement.OtherIncomeExpense.InterestExpense / v.debt
	}
	total := math.Max(v.marketCap, 0) + v.debt
	if total > 0 {
		v.wacc = math.Max(v.marketCap, 0)/total*v.costOfEquity + v.debt/total*v.costOfDebt*(1-v.taxRate)
	} else {
		v.wacc = v.costOfEquity
	}
	if w, ok := bm.Get("wacc"); ok && w > 0 {
		v.wacc = w
	}
	// The Gordon denominator needs wacc above terminal growth.
	v.wacc = math.Max(v.wacc, terminalGrowth+0.02)

	v.growth = industryGrowth
	if g, ok := bm.Get("growthRate"); ok {
		v.growth = g
	} else if len(stmts) >= 2 {
		v.growth = clamp(cagr(series(stmts, revenueOf)), -0.1, maxProjectedGrowth)
	}

	v.fcf = fcfOf(s)
	v.investedCap = equityOf(s) + v.debt - v.cash
	v.nopat = opIncomeOf(s) * (1 - v.taxRate)
	v.ebitda = opIncomeOf(s) + s.IncomeStatement.OperatingExpenses.Depreciation + s.IncomeStatement.OperatingExpenses.Amortization
	v.dividendsPS = math.Abs(s.CashFlowStatement.FinancingActivities.DividendsPaid) / v.shares

	roe := safeDiv(netIncomeOf(s), equityOf(s))
	payout := clamp(safeDiv(math.Abs(s.CashFlowStatement.FinancingActivities.DividendsPaid), netIncomeOf(s)), 0, 1)
	v.sustainableGrowth = clamp(roe*(1-payout), 0, math.Min(maxProjectedGrowth, v.costOfEquity-0.01))
	return v
}

// projections grows base for n years at g.
func projections(base, g float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base * math.Pow(1+g, float64(i+1))
	}
	return out
}

type dcfResult struct {
	Projections     []float64 `json:"projections"`
	PresentValues   []float64 `json:"presentValues"`
	TerminalValue   float64   `json:"terminalValue"`
	PVTerminalValue float64   `json:"pvTerminalValue"`
	EnterpriseValue float64   `json:"enterpriseValue"`
	EquityValue     float64   `json:"equityValue"`
	PerShare        float64   `json:"perShare"`
	WACC            float64   `json:"wacc"`
	Growth          float64   `json:"growth"`
}

func (v valuation) dcf(wacc, growth float64) dcfResult {
	flows := projections(v.fcf, growth, projectionYears)
	pvs := make([]float64, len(flows))
	var sum float64
	for i, f := range flows {
		pvs[i] = round2(f / math.Pow(1+wacc, float64(i+1)))
		sum += f / math.Pow(1+wacc, float64(i+1))
	}
	tv := flows[len(flows)-1] * (1 + terminalGrowth) / (wacc - terminalGrowth)
	pvtv := tv / math.Pow(1+wacc, projectionYears)
	ev := sum + pvtv
	eq := ev - v.debt + v.cash
	for i := range flows {
		flows[i] = round2(flows[i])
	}
	return dcfResult{
		Projections:     flows,
		PresentValues:   pvs,
		TerminalValue:   round2(tv),
		PVTerminalValue: round2(pvtv),
		EnterpriseValue: round2(ev),
		EquityValue:     round2(eq),
		PerShare:        roundTo(eq/v.shares, 4),
		WACC:            roundTo(wacc, 4),
		Growth:          roundTo(growth, 4),
	}
}

func (v valuation) upside(fair float64) float64 {
	return safeDiv(fair-v.price, v.price)
}

func rateUpside(u float64) model.Rating {
	return higherBetter(u, [4]float64{0.3, 0.15, 0, -0.15})
}

func upsideText(u float64, lang model.Language) string {
	if u >= 0 {
		return fmt.Sprintf(tr("القيمة العادلة أعلى من السعر الحالي بنسبة %.1f%%", "Fair value is %.1f%% above the current price").in(lang), u*100)
	}
	return fmt.Sprintf(tr("القيمة العادلة أقل من السعر الحالي بنسبة %.1f%%", "Fair value is %.1f%% below the current price").in(lang), -u*100)
}

func (v valuation) gordonValue() (float64, bool) {
	if v.dividendsPS <= 0 {
		return 0, false
	}
	g := v.sustainableGrowth
	return v.dividendsPS * (1 + g) / (v.costOfEquity - g), true
}

var timeValueAbout = about{
	definition:  tr("تطبيق مبدأ القيمة الزمنية للنقود على التدفقات النقدية للشركة", "Applies the time value of money to the company's cash flows"),
	measures:    tr("القيمة الحالية والمستقبلية للتدفقات النقدية", "Present and future value of cash flows"),
	importance:  tr("أساس جميع قرارات الاستثمار والتمويل", "Underpins every investment and financing decision"),
	calculation: tr("القيمة الحالية = التدفق ÷ (1 + معدل الخصم)^ن", "PV = flow / (1 + discount rate)^n"),
}

func timeValue(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	flows := projections(v.fcf, v.growth, projectionYears)
	pv := npv(v.wacc, flows)
	fv := v.fcf * math.Pow(1+v.wacc, projectionYears)
	roic := safeDiv(v.nopat, v.investedCap)

	res := newResult(c, timeValueAbout)
	res.Result = map[string]any{
		"discountRate":       roundTo(v.wacc, 4),
		"presentValue5y":     round2(pv),
		"futureValueOfFCF":   round2(fv),
		"discountFactor5y":   roundTo(1/math.Pow(1+v.wacc, projectionYears), 4),
		"roicToDiscountRate": roundTo(safeDiv(roic, v.wacc), 4),
	}
	res.Interpretation = fmt.Sprintf(tr("القيمة الحالية للتدفقات الحرة المتوقعة لخمس سنوات %.0f بمعدل خصم %.1f%%",
		"Present value of five projected free cash flows is %.0f at a %.1f%% discount rate").in(lang), pv, v.wacc*100)
	res.Rating = higherBetter(roic-v.wacc, [4]float64{0.08, 0.04, 0.01, 0})
	res.Recommendation = tr("توجيه الاستثمارات نحو المشاريع التي يتجاوز عائدها تكلفة رأس المال", "Direct capital to projects returning more than its cost").in(lang)
	return res, nil
}

var npvAbout = about{
	definition:  tr("صافي القيمة الحالية للتدفقات المستقبلية مطروحاً منه رأس المال المستثمر", "Present value of future flows less invested capital"),
	measures:    tr("القيمة التي يخلقها رأس المال المستثمر", "Value created over invested capital"),
	importance:  tr("القيمة الموجبة تعني خلق ثروة للمساهمين", "A positive value means shareholder wealth is created"),
	calculation: tr("Σ التدفق ÷ (1+WACC)^ن + القيمة النهائية المخصومة - رأس المال المستثمر", "Σ flow/(1+WACC)^n + discounted terminal value - invested capital"),
}

func netPresentValue(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	d := v.dcf(v.wacc, v.growth)
	value := d.EnterpriseValue - v.investedCap
	pi := safeDiv(d.EnterpriseValue, v.investedCap)

	res := newResult(c, npvAbout)
	res.Result = map[string]any{"npv": round2(value), "profitabilityIndex": roundTo(pi, 4), "investedCapital": round2(v.investedCap), "dcf": d}
	res.Interpretation = fmt.Sprintf(tr("صافي القيمة الحالية %.0f ومؤشر الربحية %.2f", "Net present value is %.0f with a profitability index of %.2f").in(lang), value, pi)
	res.Rating = higherBetter(pi, [4]float64{2, 1.5, 1.1, 1})
	if value < 0 {
		res.Risks = []string{tr("صافي قيمة حالية سالب", "Negative net present value").in(lang)}
	}
	res.Recommendation = tr("تحسين التدفقات النقدية الحرة أو خفض تكلفة رأس المال", "Raise free cash flow or lower the cost of capital").in(lang)
	return res, nil
}

var irrAbout = about{
	definition:  tr("معدل الخصم الذي يجعل صافي القيمة الحالية صفراً", "Discount rate at which net present value is zero"),
	measures:    tr("العائد الضمني على رأس المال المستثمر", "Implied return on invested capital"),
	importance:  tr("يقارن مباشرة بتكلفة رأس المال", "Compares directly with the cost of capital"),
	calculation: tr("حل المعادلة: Σ التدفق ÷ (1+IRR)^ن = الاستثمار", "Solve Σ flow/(1+IRR)^n = investment"),
}

// horizonFlows appends the terminal value to the last projected flow.
func (v valuation) horizonFlows() []float64 {
	flows := projections(v.fcf, v.growth, projectionYears)
	last := flows[len(flows)-1]
	flows[len(flows)-1] += last * (1 + terminalGrowth) / (v.wacc - terminalGrowth)
	return flows
}

func internalRate(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	rate, ok := irr(v.investedCap, v.horizonFlows())

	res := newResult(c, irrAbout)
	if !ok || v.investedCap <= 0 {
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = tr("لا يمكن حساب معدل العائد الداخلي لهذه التدفقات", "IRR cannot be computed for these flows").in(lang)
		res.Rating = model.RatingWeak
		res.Recommendation = tr("تحسين التدفقات النقدية الحرة قبل تقييم العائد", "Improve free cash flow before assessing returns").in(lang)
		return res, nil
	}
	spread := rate - v.wacc
	res.Result = map[string]any{"irr": roundTo(rate, 4), "wacc": roundTo(v.wacc, 4), "spread": roundTo(spread, 4)}
	res.Interpretation = fmt.Sprintf(tr("معدل العائد الداخلي %.1f%% مقابل تكلفة رأس مال %.1f%%", "IRR is %.1f%% against a %.1f%% cost of capital").in(lang), rate*100, v.wacc*100)
	res.Rating = higherBetter(spread, [4]float64{0.1, 0.05, 0.02, 0})
	res.Recommendation = tr("قبول الاستثمارات التي يتجاوز عائدها الداخلي تكلفة رأس المال", "Accept investments whose IRR exceeds the cost of capital").in(lang)
	return res, nil
}

var paybackAbout = about{
	definition:  tr("المدة اللازمة لاسترداد رأس المال المستثمر من التدفقات الحرة", "Time to recover invested capital from free cash flow"),
	measures:    tr("سرعة استرداد الاستثمار", "Speed of capital recovery"),
	importance:  tr("فترة أقصر تعني مخاطر أقل", "A shorter period means lower risk"),
	calculation: tr("عدد السنوات حتى يغطي التدفق التراكمي الاستثمار", "Years until cumulative flow covers the investment"),
}

// paybackYears returns the fractional years for flows to recover
// investment, and false when they never do.
func paybackYears(investment float64, flows []float64) (float64, bool) {
	if investment <= 0 {
		return 0, true
	}
	var cum float64
	for i, f := range flows {
		if f > 0 && cum+f >= investment {
			return float64(i) + (investment-cum)/f, true
		}
		cum += f
	}
	return 0, false
}

func payback(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	flows := projections(v.fcf, v.growth, 30)
	years, ok := paybackYears(v.investedCap, flows)
	discounted := make([]float64, len(flows))
	for i, f := range flows {
		discounted[i] = f / math.Pow(1+v.wacc, float64(i+1))
	}
	dYears, dOK := paybackYears(v.investedCap, discounted)

	res := newResult(c, paybackAbout)
	if !ok {
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = tr("لا يسترد الاستثمار خلال 30 سنة بالتدفقات الحالية", "Capital is not recovered within 30 years at current flows").in(lang)
		res.Rating = model.RatingWeak
		res.Recommendation = tr("رفع التدفقات النقدية الحرة", "Raise free cash flow").in(lang)
		return res, nil
	}
	out := map[string]any{"paybackYears": round2(years)}
	if dOK {
		out["discountedPaybackYears"] = round2(dYears)
	}
	res.Result = out
	res.Interpretation = fmt.Sprintf(tr("يسترد رأس المال المستثمر خلال %.1f سنة", "Invested capital is recovered in %.1f years").in(lang), years)
	res.Rating = lowerBetter(years, [4]float64{3, 5, 7, 10})
	res.Recommendation = tr("تسريع التدفقات النقدية لتقصير فترة الاسترداد", "Accelerate cash generation to shorten payback").in(lang)
	return res, nil
}

var dcfAbout = about{
	definition:  tr("تقييم الشركة بخصم التدفقات النقدية الحرة المتوقعة", "Values the company by discounting projected free cash flow"),
	measures:    tr("القيمة الجوهرية للسهم", "Intrinsic value per share"),
	importance:  tr("الطريقة الأكثر استخداماً في التقييم الأساسي", "The most used fundamental valuation method"),
	calculation: tr("قيمة المنشأة = Σ التدفقات المخصومة + القيمة النهائية المخصومة؛ قيمة الملكية = قيمة المنشأة - الدين + النقد", "EV = Σ discounted flows + discounted terminal value; equity = EV - debt + cash"),
}

func discountedCashFlow(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	d := v.dcf(v.wacc, v.growth)
	u := v.upside(d.PerShare)

	// wacc by growth grid of per-share values
	type cell struct {
		WACC     float64 `json:"wacc"`
		Growth   float64 `json:"growth"`
		PerShare float64 `json:"perShare"`
	}
	var grid []cell
	for _, dw := range []float64{-0.01, 0, 0.01} {
		for _, dg := range []float64{-0.01, 0, 0.01} {
			w := math.Max(v.wacc+dw, terminalGrowth+0.01)
			grid = append(grid, cell{roundTo(w, 4), roundTo(v.growth+dg, 4), v.dcf(w, v.growth+dg).PerShare})
		}
	}

	res := newResult(c, dcfAbout)
	res.Result = map[string]any{"valuation": d, "currentPrice": roundTo(v.price, 4), "upside": roundTo(u, 4), "sensitivity": grid}
	res.Interpretation = fmt.Sprintf(tr("القيمة الجوهرية للسهم %.2f. ", "Intrinsic value per share is %.2f. ").in(lang), d.PerShare) + upsideText(u, lang)
	res.Rating = rateUpside(u)
	if v.fcf <= 0 {
		res.Rating = model.RatingWeak
		res.Risks = []string{tr("تدفق نقدي حر غير موجب يضعف التقييم", "Non-positive free cash flow undermines the valuation").in(lang)}
	}
	res.Recommendation = tr("مراجعة افتراضات النمو وتكلفة رأس المال دورياً", "Revisit growth and cost of capital assumptions regularly").in(lang)
	res.Charts = []model.Chart{{Type: "bar", Title: tr("التدفقات المتوقعة", "Projected flows").in(lang), Data: map[string]any{"projections": d.Projections, "presentValues": d.PresentValues}}}
	return res, nil
}

var roiAbout = about{
	definition:  tr("العائد المحقق على رأس المال المستثمر", "Return earned on invested capital"),
	measures:    tr("كفاءة استخدام الأموال المستثمرة", "Efficiency of invested funds"),
	importance:  tr("يقارن جدوى الاستثمار بالبدائل", "Compares investment merit with alternatives"),
	calculation: tr("صافي الدخل ÷ (حقوق الملكية + الديون)", "Net income / (equity + debt)"),
}

func returnOnInvestment(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	s := model.Latest(stmts)
	inv := equityOf(s) + s.BalanceSheet.TotalDebt()
	roi := safeDiv(netIncomeOf(s), inv)
	bench := benchmarkOf(bm, "roi", 0.1)

	res := newResult(c, roiAbout)
	res.Result = roundTo(roi, 4)
	res.Interpretation = fmt.Sprintf(tr("العائد على الاستثمار %.1f%%", "Return on investment is %.1f%%").in(lang), roi*100)
	res.IndustryAverage = bench
	res.ComparisonWithIndustry = comparison(roi, bench, lang)
	res.Rating = higherBetter(roi, [4]float64{0.2, 0.15, 0.1, 0.05})
	res.Recommendation = tr("إعادة توجيه رأس المال إلى الأنشطة الأعلى عائداً", "Redeploy capital to the highest-return activities").in(lang)
	return res, nil
}

var evaAbout = about{
	definition:  tr("الربح التشغيلي بعد الضريبة مطروحاً منه تكلفة رأس المال المستثمر", "After-tax operating profit less a charge for invested capital"),
	measures:    tr("الربح الاقتصادي الحقيقي", "True economic profit"),
	importance:  tr("يكشف ما إذا كانت الشركة تخلق قيمة فعلية", "Reveals whether the company truly creates value"),
	calculation: tr("NOPAT - (WACC × رأس المال المستثمر)", "NOPAT - (WACC x invested capital)"),
}

func economicValueAdded(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	eva := v.nopat - v.wacc*v.investedCap
	ratio := safeDiv(eva, v.investedCap)
	out := map[string]any{"eva": round2(eva), "nopat": round2(v.nopat), "capitalCharge": round2(v.wacc * v.investedCap), "evaToCapital": roundTo(ratio, 4)}
	if len(stmts) >= 2 {
		hist := make([]float64, len(stmts))
		for i := range stmts {
			hv := newValuation(stmts[:i+1], bm)
			hist[i] = round2(hv.nopat - hv.wacc*hv.investedCap)
		}
		out["history"] = hist
	}

	res := newResult(c, evaAbout)
	res.Result = out
	if eva >= 0 {
		res.Interpretation = fmt.Sprintf(tr("تخلق الشركة قيمة اقتصادية مضافة قدرها %.0f", "The company creates economic value of %.0f").in(lang), eva)
	} else {
		res.Interpretation = fmt.Sprintf(tr("تدمر الشركة قيمة اقتصادية قدرها %.0f", "The company destroys economic value of %.0f").in(lang), -eva)
		res.Risks = []string{tr("العائد أقل من تكلفة رأس المال", "Returns below the cost of capital").in(lang)}
	}
	res.Rating = higherBetter(ratio, [4]float64{0.05, 0.02, 0, -0.02})
	res.Recommendation = tr("رفع العائد على رأس المال فوق تكلفته أو تقليص رأس المال غير المنتج", "Lift returns above the cost of capital or shed unproductive capital").in(lang)
	return res, nil
}

var mvaAbout = about{
	definition:  tr("الفرق بين القيمة السوقية للشركة والقيمة الدفترية لحقوق الملكية", "Difference between market value and book equity"),
	measures:    tr("القيمة التي خلقتها الإدارة في نظر السوق", "Value created in the market's view"),
	importance:  tr("يعكس ثقة المستثمرين", "Reflects investor confidence"),
	calculation: tr("القيمة السوقية - القيمة الدفترية لحقوق الملكية", "Market capitalisation - book equity"),
}

func marketValueAdded(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	book := equityOf(v.s)
	mva := v.marketCap - book
	ratio := safeDiv(mva, book)

	res := newResult(c, mvaAbout)
	res.Result = map[string]any{"mva": round2(mva), "marketCap": round2(v.marketCap), "bookEquity": book, "mvaToBook": roundTo(ratio, 4)}
	res.Interpretation = fmt.Sprintf(tr("القيمة السوقية المضافة %.0f أي %.1f ضعف حقوق الملكية", "Market value added is %.0f, %.1fx book equity").in(lang), mva, ratio)
	res.Rating = higherBetter(ratio, [4]float64{2, 1, 0.5, 0})
	res.Recommendation = tr("تعزيز التواصل مع المستثمرين وتحقيق نمو مستدام", "Strengthen investor communication and deliver steady growth").in(lang)
	return res, nil
}

var gordonAbout = about{
	definition:  tr("تقييم السهم على أساس توزيعات تنمو بمعدل ثابت", "Values the share on dividends growing at a constant rate"),
	measures:    tr("القيمة الجوهرية للسهم من التوزيعات", "Intrinsic value from dividends"),
	importance:  tr("مناسب للشركات ذات التوزيعات المستقرة", "Suits companies with stable dividends"),
	calculation: tr("التوزيع × (1 + g) ÷ (تكلفة الملكية - g)", "Dividend x (1 + g) / (cost of equity - g)"),
}

var msgNoDividends = tr("لا توزع الشركة أرباحاً، لذا لا ينطبق نموذج التوزيعات", "The company pays no dividends, so dividend models do not apply")

func gordonGrowth(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	res := newResult(c, gordonAbout)
	value, ok := v.gordonValue()
	if !ok {
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = msgNoDividends.in(lang)
		res.Rating = model.RatingAcceptable
		res.Recommendation = tr("استخدام نماذج التدفقات النقدية للتقييم", "Use cash flow models for valuation").in(lang)
		return res, nil
	}
	u := v.upside(value)
	res.Result = map[string]any{"value": roundTo(value, 4), "dividendPerShare": roundTo(v.dividendsPS, 4), "growth": roundTo(v.sustainableGrowth, 4), "costOfEquity": roundTo(v.costOfEquity, 4)}
	res.Interpretation = fmt.Sprintf(tr("قيمة السهم وفق نموذج جوردون %.2f. ", "Gordon model value per share is %.2f. ").in(lang), value) + upsideText(u, lang)
	res.Rating = rateUpside(u)
	res.Recommendation = tr("الحفاظ على سياسة توزيعات مستقرة", "Keep a steady dividend policy").in(lang)
	return res, nil
}

var ddmAbout = about{
	definition:  tr("نموذج خصم التوزيعات على مرحلتين: نمو مرتفع ثم نمو دائم", "Two-stage dividend discount: high growth then perpetual growth"),
	measures:    tr("القيمة الحالية للتوزيعات المستقبلية", "Present value of future dividends"),
	importance:  tr("يراعي تغير معدلات النمو عبر الزمن", "Allows growth to change over time"),
	calculation: tr("Σ التوزيعات المخصومة لخمس سنوات + القيمة النهائية المخصومة", "Σ five discounted dividends + discounted terminal value"),
}

func dividendDiscount(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	res := newResult(c, ddmAbout)
	if v.dividendsPS <= 0 {
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = msgNoDividends.in(lang)
		res.Rating = model.RatingAcceptable
		res.Recommendation = tr("استخدام نماذج التدفقات النقدية للتقييم", "Use cash flow models for valuation").in(lang)
		return res, nil
	}
	ke := v.costOfEquity
	divs := projections(v.dividendsPS, v.sustainableGrowth, projectionYears)
	pv := npv(ke, divs)
	tv := divs[len(divs)-1] * (1 + terminalGrowth) / (ke - terminalGrowth)
	value := pv + tv/math.Pow(1+ke, projectionYears)
	u := v.upside(value)

	res.Result = map[string]any{"value": roundTo(value, 4), "stage1Growth": roundTo(v.sustainableGrowth, 4), "terminalGrowth": terminalGrowth, "dividends": divs}
	res.Interpretation = fmt.Sprintf(tr("قيمة السهم وفق نموذج خصم التوزيعات %.2f. ", "Dividend discount value per share is %.2f. ").in(lang), value) + upsideText(u, lang)
	res.Rating = rateUpside(u)
	res.Recommendation = tr("مواءمة التوزيعات مع قدرة الشركة على النمو", "Align dividends with the capacity to grow").in(lang)
	return res, nil
}

// fairValues returns the per-share estimates of each method that applies.
func (v valuation) fairValues(bm model.Benchmarks) map[string]float64 {
	out := map[string]float64{}
	if v.fcf > 0 {
		out["dcf"] = v.dcf(v.wacc, v.growth).PerShare
	}
	if g, ok := v.gordonValue(); ok {
		out["gordon"] = roundTo(g, 4)
	}
	if eps := epsOf(v.s); eps > 0 {
		out["earningsMultiple"] = roundTo(eps*bm.GetOr("priceEarningsRatio", assumedPE), 4)
	}
	if bvps := bookValuePerShare(v.s); bvps > 0 {
		out["bookMultiple"] = roundTo(bvps*bm.GetOr("priceToBook", 2), 4)
	}
	if v.ebitda > 0 {
		ev := v.ebitda * bm.GetOr("evToEbitda", defaultEVToEBITDA)
		out["ebitdaMultiple"] = roundTo((ev-v.debt+v.cash)/v.shares, 4)
	}
	return out
}

func meanOf(m map[string]float64) float64 {
	xs := make([]float64, 0, len(m))
	for _, x := range m {
		xs = append(xs, x)
	}
	return mean(xs)
}

var fairValueAbout = about{
	definition:  tr("تقدير القيمة العادلة للسهم بعدة طرق تقييم", "Estimates fair value per share with several methods"),
	measures:    tr("الفرق بين القيمة العادلة وسعر السوق", "Gap between fair value and market price"),
	importance:  tr("يحد من تحيز أي طريقة منفردة", "Limits the bias of any single method"),
	calculation: tr("متوسط تقديرات التدفقات المخصومة والمضاعفات ونموذج جوردون", "Mean of DCF, multiple and Gordon estimates"),
}

func fairValue(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	values := v.fairValues(bm)
	res := newResult(c, fairValueAbout)
	if len(values) == 0 {
		res.Result = msgNotAvailable.in(lang)
		res.Interpretation = tr("لا تتوفر طريقة تقييم قابلة للتطبيق", "No valuation method applies").in(lang)
		res.Rating = model.RatingWeak
		res.Recommendation = msgDefaultRec.in(lang)
		return res, nil
	}
	fair := meanOf(values)
	u := v.upside(fair)
	res.Result = map[string]any{"methods": values, "fairValue": roundTo(fair, 4), "currentPrice": roundTo(v.price, 4), "upside": roundTo(u, 4)}
	res.Interpretation = fmt.Sprintf(tr("القيمة العادلة المتوسطة %.2f. ", "Average fair value is %.2f. ").in(lang), fair) + upsideText(u, lang)
	res.Rating = rateUpside(u)
	if u > 0.15 {
		res.Opportunities = []string{tr("السهم مقوم بأقل من قيمته العادلة", "Shares trade below fair value").in(lang)}
	}
	res.Recommendation = tr("مقارنة القيمة العادلة بالسعر قبل قرارات الاستثمار", "Weigh fair value against price before investing").in(lang)
	return res, nil
}

var costBenefitAbout = about{
	definition:  tr("مقارنة القيمة الحالية للمنافع التشغيلية بالقيمة الحالية للإنفاق الرأسمالي", "Compares discounted operating benefits with discounted capital spending"),
	measures:    tr("نسبة المنافع إلى التكاليف", "Benefit-cost ratio"),
	importance:  tr("يحدد ما إذا كان الإنفاق الاستثماري مجدياً", "Tells whether capital spending pays off"),
	calculation: tr("القيمة الحالية للتدفق التشغيلي ÷ القيمة الحالية للنفقات الرأسمالية", "PV of operating cash flow / PV of capex"),
}

func costBenefit(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	capex := math.Abs(v.s.CashFlowStatement.InvestingActivities.CapitalExpenditures)
	benefits := npv(v.wacc, projections(ocfOf(v.s), v.growth, projectionYears))
	costs := npv(v.wacc, projections(capex, v.growth, projectionYears))
	res := newResult(c, costBenefitAbout)
	if costs == 0 {
		res.Result = map[string]any{"pvBenefits": round2(benefits), "pvCosts": 0}
		res.Interpretation = tr("لا توجد نفقات رأسمالية لمقارنتها بالمنافع", "No capital spending to weigh against benefits").in(lang)
		res.Rating = model.RatingAcceptable
		res.Recommendation = tr("تقييم فرص الاستثمار للحفاظ على القدرة الإنتاجية", "Assess investment needs to sustain capacity").in(lang)
		return res, nil
	}
	bcr := benefits / costs
	res.Result = map[string]any{"pvBenefits": round2(benefits), "pvCosts": round2(costs), "benefitCostRatio": roundTo(bcr, 4), "netBenefit": round2(benefits - costs)}
	res.Interpretation = fmt.Sprintf(tr("نسبة المنافع إلى التكاليف %.2f", "Benefit-cost ratio is %.2f").in(lang), bcr)
	res.Rating = higherBetter(bcr, [4]float64{3, 2, 1.5, 1})
	res.Recommendation = tr("إعطاء الأولوية للاستثمارات ذات نسبة المنافع الأعلى", "Prioritise investments with the highest benefit ratio").in(lang)
	return res, nil
}

// feasibilityCheck is one pass/fail test of an investment appraisal.
type feasibilityCheck struct {
	Criterion string  `json:"criterion"`
	Value     float64 `json:"value"`
	Passed    bool    `json:"passed"`
}

func (v valuation) appraisal(lang model.Language) []feasibilityCheck {
	d := v.dcf(v.wacc, v.growth)
	value := d.EnterpriseValue - v.investedCap
	rate, ok := irr(v.investedCap, v.horizonFlows())
	years, pbOK := paybackYears(v.investedCap, projections(v.fcf, v.growth, 30))
	return []feasibilityCheck{
		{tr("صافي القيمة الحالية موجب", "Positive NPV").in(lang), round2(value), value > 0},
		{tr("معدل العائد الداخلي أعلى من تكلفة رأس المال", "IRR above cost of capital").in(lang), roundTo(rate, 4), ok && rate > v.wacc},
		{tr("مؤشر الربحية أكبر من 1", "Profitability index above 1").in(lang), roundTo(safeDiv(d.EnterpriseValue, v.investedCap), 4), d.EnterpriseValue > v.investedCap},
		{tr("فترة الاسترداد أقل من 7 سنوات", "Payback under 7 years").in(lang), round2(years), pbOK && years < 7},
	}
}

func passShare(checks []feasibilityCheck) float64 {
	n := 0
	for _, ch := range checks {
		if ch.Passed {
			n++
		}
	}
	return float64(n) / float64(len(checks))
}

var feasibilityAbout = about{
	definition:  tr("تقييم الجدوى المالية وفق معايير الاستثمار الرئيسية", "Tests financial feasibility against the main investment criteria"),
	measures:    tr("عدد معايير الجدوى المستوفاة", "Number of feasibility criteria met"),
	importance:  tr("يدعم قرار الاستمرار أو التوسع", "Supports the decision to continue or expand"),
	calculation: tr("صافي القيمة الحالية، العائد الداخلي، مؤشر الربحية، فترة الاسترداد", "NPV, IRR, profitability index and payback"),
}

func feasibility(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	checks := v.appraisal(lang)
	share := passShare(checks)

	res := newResult(c, feasibilityAbout)
	res.Result = checks
	res.Interpretation = fmt.Sprintf(tr("تستوفي الشركة %.0f%% من معايير الجدوى", "The company meets %.0f%% of feasibility criteria").in(lang), share*100)
	res.Rating = ratingFromScore(share * 100)
	res.Recommendation = tr("معالجة المعايير غير المستوفاة قبل التوسع", "Resolve unmet criteria before expanding").in(lang)
	return res, nil
}

var projectAbout = about{
	definition:  tr("تقييم استثماري متكامل لرأس المال المستثمر في الشركة", "Integrated appraisal of capital invested in the company"),
	measures:    tr("العائد والمخاطر والاسترداد", "Return, risk and recovery"),
	importance:  tr("يجمع مؤشرات التقييم في صورة واحدة", "Brings appraisal metrics into one view"),
	calculation: tr("مؤشرات التقييم مع تحليل سيناريوهات معدل الخصم", "Appraisal metrics with discount-rate scenarios"),
}

func projectInvestment(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	checks := v.appraisal(lang)
	scenarios := map[string]float64{}
	for name, dw := range map[string]float64{"optimistic": -0.01, "base": 0, "pessimistic": 0.01} {
		w := math.Max(v.wacc+dw, terminalGrowth+0.01)
		scenarios[name] = round2(v.dcf(w, v.growth).EnterpriseValue - v.investedCap)
	}
	share := passShare(checks)

	res := newResult(c, projectAbout)
	res.Result = map[string]any{"criteria": checks, "npvScenarios": scenarios}
	res.Interpretation = fmt.Sprintf(tr("صافي القيمة الحالية يتراوح بين %.0f و %.0f حسب معدل الخصم", "NPV ranges from %.0f to %.0f across discount scenarios").in(lang),
		scenarios["pessimistic"], scenarios["optimistic"])
	res.Rating = ratingFromScore(share * 100)
	if scenarios["pessimistic"] < 0 && scenarios["optimistic"] > 0 {
		res.Risks = []string{tr("حساسية عالية للتقييم تجاه تكلفة رأس المال", "Valuation is highly sensitive to the cost of capital").in(lang)}
	}
	res.Recommendation = tr("اعتماد السيناريو المتحفظ في قرارات الاستثمار", "Use the conservative scenario for investment decisions").in(lang)
	return res, nil
}

var alternativesAbout = about{
	definition:  tr("مقارنة بدائل استخدام النقد المتاح", "Compares alternative uses of available cash"),
	measures:    tr("العائد المتوقع لكل بديل", "Expected return of each alternative"),
	importance:  tr("يوجه تخصيص رأس المال للاستخدام الأفضل", "Steers capital to its best use"),
	calculation: tr("ترتيب البدائل حسب العائد بعد الضريبة", "Rank alternatives by after-tax return"),
}

func investmentAlternatives(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	type alt struct {
		Name   string  `json:"name"`
		Return float64 `json:"return"`
	}
	roic := safeDiv(v.nopat, v.investedCap)
	alts := []alt{
		{tr("إعادة الاستثمار في النشاط", "Reinvest in the business").in(lang), roundTo(roic, 4)},
		{tr("سداد الديون", "Repay debt").in(lang), roundTo(v.costOfDebt*(1-v.taxRate), 4)},
		{tr("إعادة شراء الأسهم", "Buy back shares").in(lang), roundTo(safeDiv(epsOf(v.s), v.price), 4)},
		{tr("الاحتفاظ بالنقد", "Hold cash").in(lang), bm.GetOr("riskFreeRate", riskFreeRate)},
	}
	sort.SliceStable(alts, func(i, j int) bool { return alts[i].Return > alts[j].Return })

	res := newResult(c, alternativesAbout)
	res.Result = alts
	res.Interpretation = fmt.Sprintf(tr("البديل الأفضل: %s بعائد %.1f%%", "Best alternative: %s at %.1f%%").in(lang), alts[0].Name, alts[0].Return*100)
	res.Rating = higherBetter(roic-v.wacc, [4]float64{0.08, 0.04, 0.01, 0})
	res.Recommendation = fmt.Sprintf(tr("توجيه النقد الفائض نحو: %s", "Direct surplus cash to: %s").in(lang), alts[0].Name)
	return res, nil
}

var companyValuationAbout = about{
	definition:  tr("تقييم شامل لقيمة المنشأة وحقوق الملكية", "Comprehensive valuation of the enterprise and its equity"),
	measures:    tr("قيمة المنشأة وفق التدفقات المخصومة ومضاعف الربح التشغيلي", "Enterprise value by DCF and EBITDA multiple"),
	importance:  tr("أساس قرارات الاستحواذ والاستثمار", "Basis for acquisition and investment decisions"),
	calculation: tr("متوسط قيمة المنشأة بالتدفقات المخصومة وبمضاعف EBITDA", "Mean of DCF and EV/EBITDA enterprise values"),
}

func companyValuation(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	v := newValuation(stmts, bm)
	d := v.dcf(v.wacc, v.growth)
	multiple := v.ebitda * bm.GetOr("evToEbitda", defaultEVToEBITDA)
	methods := map[string]float64{"multiple": round2(multiple)}
	if v.fcf > 0 {
		methods["dcf"] = d.EnterpriseValue
	}
	ev := meanOf(methods)
	equity := ev - v.debt + v.cash
	perShare := equity / v.shares
	u := v.upside(perShare)
	currentEV := v.marketCap + v.debt - v.cash

	res := newResult(c, companyValuationAbout)
	res.Result = map[string]any{
		"enterpriseValue":   round2(ev),
		"equityValue":       round2(equity),
		"perShare":          roundTo(perShare, 4),
		"methods":           methods,
		"currentEVtoEBITDA": roundTo(safeDiv(currentEV, v.ebitda), 4),
	}
	res.Interpretation = fmt.Sprintf(tr("القيمة التقديرية للمنشأة %.0f. ", "Estimated enterprise value is %.0f. ").in(lang), ev) + upsideText(u, lang)
	res.Rating = rateUpside(u)
	res.Recommendation = tr("تحديث التقييم عند تغير الافتراضات الرئيسية", "Refresh the valuation when key assumptions change").in(lang)
	return res, nil
}
