package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/sells-group/finanalysis/internal/model"
)

var horizontalAbout = about{
	definition: tr("تحليل يقارن البيانات المالية عبر فترات زمنية مختلفة لتحديد الاتجاهات والتغيرات",
		"Compares financial data across periods to identify trends and changes"),
	measures: tr("معدلات النمو والتغير في البنود المالية عبر الزمن", "Growth and change rates of financial items over time"),
	importance: tr("يساعد في فهم اتجاهات النمو وتحديد المجالات التي تحتاج إلى تحسين",
		"Helps understand growth trends and spot areas needing improvement"),
	calculation: tr("(القيمة الحالية - القيمة الأساسية) ÷ القيمة الأساسية × 100", "(Current value - base value) / |base value| x 100"),
}

// HorizontalResult is the payload of the horizontal analysis.
type HorizontalResult struct {
	BaseYear        int               `json:"baseYear"`
	CurrentYear     int               `json:"currentYear"`
	BalanceSheet    []ChangeItem      `json:"balanceSheet"`
	IncomeStatement []ChangeItem      `json:"incomeStatement"`
	CashFlow        []ChangeItem      `json:"cashFlow"`
	Summary         HorizontalSummary `json:"summary"`
}

// HorizontalSummary condenses the headline growth figures.
type HorizontalSummary struct {
	RevenueGrowth      float64 `json:"revenueGrowth"`
	NetIncomeGrowth    float64 `json:"netIncomeGrowth"`
	AssetGrowth        float64 `json:"assetGrowth"`
	EquityGrowth       float64 `json:"equityGrowth"`
	ProfitabilityTrend string  `json:"profitabilityTrend"`
}

func horizontal(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	if len(stmts) < 2 {
		res := singleYear(c, horizontalAbout)
		lang := c.Lang()
		res.Result = tr("يتطلب التحليل الأفقي بيانات لسنتين على الأقل", "Horizontal analysis requires at least two years of data").in(lang)
		res.Interpretation = tr("لا يمكن إجراء التحليل الأفقي بسنة واحدة فقط", "Horizontal analysis cannot be performed with a single year").in(lang)
		return res, nil
	}
	lang := c.Lang()
	base, cur := stmts[0], model.Latest(stmts)

	out := HorizontalResult{
		BaseYear:        base.Year,
		CurrentYear:     cur.Year,
		BalanceSheet:    changeItems(balanceSheetItems, base, cur, lang),
		IncomeStatement: changeItems(incomeItems, base, cur, lang),
		CashFlow:        changeItems(cashFlowItems, base, cur, lang),
	}

	revenue, _ := findChange(out.IncomeStatement, "revenue")
	netIncome, _ := findChange(out.IncomeStatement, "netIncome")
	opex, _ := findChange(out.IncomeStatement, "operatingExpenses")
	assets, _ := findChange(out.BalanceSheet, "totalAssets")
	equity, _ := findChange(out.BalanceSheet, "equity")
	cash, _ := findChange(out.BalanceSheet, "cash")
	debt, _ := findChange(out.BalanceSheet, "longTermDebt")
	inventory, _ := findChange(out.BalanceSheet, "inventory")
	receivables, _ := findChange(out.BalanceSheet, "accountsReceivable")
	opCF, _ := findChange(out.CashFlow, "operatingCashFlow")

	out.Summary = HorizontalSummary{
		RevenueGrowth:      revenue.PercentageChange,
		NetIncomeGrowth:    netIncome.PercentageChange,
		AssetGrowth:        assets.PercentageChange,
		EquityGrowth:       equity.PercentageChange,
		ProfitabilityTrend: "declining",
	}
	if netIncome.PercentageChange > revenue.PercentageChange {
		out.Summary.ProfitabilityTrend = "improving"
	}

	var risks, opportunities, strengths, weaknesses []string
	if revenue.PercentageChange < 0 {
		risks = append(risks, tr("انخفاض في الإيرادات يشير إلى تحديات في السوق", "Falling revenue points to market challenges").in(lang))
	}
	if netIncome.PercentageChange < -10 {
		risks = append(risks, tr("تراجع حاد في الربحية", "Sharp decline in profitability").in(lang))
	}
	if debt.PercentageChange > 50 {
		risks = append(risks, tr("ارتفاع كبير في مستوى المديونية", "Significant rise in indebtedness").in(lang))
	}
	if cash.PercentageChange > 20 {
		opportunities = append(opportunities, tr("تحسن في الوضع النقدي يتيح فرص استثمارية", "Improved cash position opens investment opportunities").in(lang))
	}
	if revenue.PercentageChange > 10 {
		strengths = append(strengths, tr("نمو قوي في الإيرادات", "Strong revenue growth").in(lang))
	}
	if opCF.PercentageChange > 15 {
		strengths = append(strengths, tr("تحسن في التدفقات النقدية التشغيلية", "Improved operating cash flow").in(lang))
	}
	if inventory.PercentageChange > 50 {
		weaknesses = append(weaknesses, tr("تراكم في المخزون قد يشير إلى بطء المبيعات", "Inventory build-up may signal slowing sales").in(lang))
	}

	score := 50.0
	switch {
	case revenue.PercentageChange > 15:
		score += 15
	case revenue.PercentageChange > 10:
		score += 10
	case revenue.PercentageChange > 5:
		score += 5
	case revenue.PercentageChange < -10:
		score -= 10
	}
	if netIncome.PercentageChange > revenue.PercentageChange {
		score += 10
	}
	if netIncome.PercentageChange > 20 {
		score += 10
	} else if netIncome.PercentageChange < -20 {
		score -= 10
	}
	if opCF.PercentageChange > 0 {
		score += 10
	}
	if revenue.PercentageChange > assets.PercentageChange {
		score += 5
	}

	var recs []string
	if revenue.PercentageChange < 5 {
		recs = append(recs, tr("تطوير استراتيجيات نمو جديدة لزيادة الإيرادات", "Develop new growth strategies to lift revenue").in(lang))
	}
	if opex.PercentageChange > revenue.PercentageChange {
		recs = append(recs, tr("مراجعة وضبط المصروفات التشغيلية", "Review and control operating expenses").in(lang))
	}
	if inventory.PercentageChange > 30 {
		recs = append(recs, tr("تحسين إدارة المخزون وتسريع دورانه", "Improve inventory management and speed up turnover").in(lang))
	}
	if receivables.PercentageChange > revenue.PercentageChange+10 {
		recs = append(recs, tr("تحسين سياسات التحصيل", "Improve collection policies").in(lang))
	}
	if len(recs) == 0 {
		recs = append(recs, tr("الحفاظ على اتجاهات النمو الحالية", "Sustain the current growth trends").in(lang))
	}

	res := newResult(c, horizontalAbout)
	res.Result = out
	res.Interpretation = horizontalInterpretation(revenue, netIncome, assets, lang)
	res.Rating = ratingFromScore(score)
	res.Recommendation = joinList(recs, lang)
	res.IndustryAverage = benchmarkOf(bm, "horizontalGrowthRates", 0)
	if res.IndustryAverage != nil {
		res.ComparisonWithIndustry = comparison(revenue.PercentageChange, res.IndustryAverage, lang)
	}
	res.DetailedAnalysis = horizontalDetail(out, lang)
	res.Risks = risks
	res.Opportunities = opportunities
	res.SWOT = swot(strengths, weaknesses, opportunities, nil)
	res.Charts = []model.Chart{
		{Type: "line", Title: tr("تطور الإيرادات والأرباح", "Revenue and earnings").in(lang), Data: map[string]any{
			"labels":    years(stmts),
			"revenue":   series(stmts, revenueOf),
			"netIncome": series(stmts, netIncomeOf),
		}},
		{Type: "bar", Title: tr("نمو الأصول عبر السنوات", "Asset growth by year").in(lang), Data: map[string]any{
			"labels":      years(stmts),
			"totalAssets": series(stmts, assetsOf),
		}},
	}
	return res, nil
}

func horizontalInterpretation(revenue, netIncome, assets ChangeItem, lang model.Language) string {
	word := func(it ChangeItem, up, down text) string {
		if it.Trend == TrendIncrease {
			return up.in(lang)
		}
		return down.in(lang)
	}
	format := tr("الإيرادات %s بنسبة %.1f%%، بينما صافي الدخل %s بنسبة %.1f%%. إجمالي الأصول %s بنسبة %.1f%%.",
		"Revenue %s by %.1f%%, while net income %s by %.1f%%. Total assets %s by %.1f%%.")
	return fmt.Sprintf(format.in(lang),
		word(revenue, tr("نمت", "grew"), tr("انخفضت", "fell")), math.Abs(revenue.PercentageChange),
		word(netIncome, tr("ارتفع", "rose"), tr("انخفض", "fell")), math.Abs(netIncome.PercentageChange),
		word(assets, tr("زاد", "increased"), tr("انخفض", "decreased")), math.Abs(assets.PercentageChange))
}

func horizontalDetail(h HorizontalResult, lang model.Language) string {
	var b strings.Builder
	section := func(title text, items []ChangeItem, all bool) {
		b.WriteString("### " + title.in(lang) + "\n")
		for _, it := range items {
			if !all && math.Abs(it.PercentageChange) <= 5 {
				continue
			}
			dir := tr("انخفض", "decreased")
			if it.AbsoluteChange > 0 {
				dir = tr("ارتفع", "increased")
			}
			fmt.Fprintf(&b, "- %s: %s %.1f%%\n", it.Account, dir.in(lang), math.Abs(it.PercentageChange))
		}
		b.WriteString("\n")
	}
	section(tr("تحليل قائمة الدخل", "Income statement"), h.IncomeStatement, false)
	section(tr("تحليل المركز المالي", "Financial position"), h.BalanceSheet, false)
	section(tr("تحليل التدفقات النقدية", "Cash flows"), h.CashFlow, true)
	return strings.TrimSpace(b.String())
}
