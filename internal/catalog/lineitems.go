package catalog

import "github.com/sells-group/finanalysis/internal/model"

// lineItem is a named statement line used by the structural analyses.
type lineItem struct {
	key   string
	label text
	get   func(model.FinancialStatement) float64
}

var balanceSheetItems = []lineItem{
	{"totalAssets", tr("إجمالي الأصول", "Total assets"), assetsOf},
	{"currentAssets", tr("الأصول المتداولة", "Current assets"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.CurrentAssets.TotalCurrentAssets
	}},
	{"cash", tr("النقد", "Cash"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.CurrentAssets.Cash
	}},
	{"accountsReceivable", tr("الذمم المدينة", "Accounts receivable"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.CurrentAssets.AccountsReceivable
	}},
	{"inventory", tr("المخزون", "Inventory"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.CurrentAssets.Inventory
	}},
	{"nonCurrentAssets", tr("الأصول الثابتة", "Non-current assets"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.NonCurrentAssets.TotalNonCurrentAssets
	}},
	{"totalLiabilities", tr("إجمالي الخصوم", "Total liabilities"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.TotalLiabilities
	}},
	{"currentLiabilities", tr("الخصوم المتداولة", "Current liabilities"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities
	}},
	{"longTermDebt", tr("الديون طويلة الأجل", "Long-term debt"), func(s model.FinancialStatement) float64 {
		return s.BalanceSheet.NonCurrentLiabilities.LongTermDebt
	}},
	{"equity", tr("حقوق الملكية", "Shareholders' equity"), equityOf},
}

var incomeItems = []lineItem{
	{"revenue", tr("الإيرادات", "Revenue"), revenueOf},
	{"costOfGoodsSold", tr("تكلفة المبيعات", "Cost of sales"), func(s model.FinancialStatement) float64 {
		return s.IncomeStatement.CostOfGoodsSold
	}},
	{"grossProfit", tr("إجمالي الربح", "Gross profit"), func(s model.FinancialStatement) float64 {
		return s.IncomeStatement.GrossProfit
	}},
	{"operatingExpenses", tr("المصروفات التشغيلية", "Operating expenses"), func(s model.FinancialStatement) float64 {
		return s.IncomeStatement.OperatingExpenses.TotalOperatingExpenses
	}},
	{"operatingIncome", tr("الدخل التشغيلي", "Operating income"), opIncomeOf},
	{"netIncome", tr("صافي الدخل", "Net income"), netIncomeOf},
}

var cashFlowItems = []lineItem{
	{"operatingCashFlow", tr("التدفق النقدي التشغيلي", "Operating cash flow"), ocfOf},
	{"investingCashFlow", tr("التدفق النقدي الاستثماري", "Investing cash flow"), func(s model.FinancialStatement) float64 {
		return s.CashFlowStatement.InvestingActivities.NetCashFromInvesting
	}},
	{"financingCashFlow", tr("التدفق النقدي التمويلي", "Financing cash flow"), func(s model.FinancialStatement) float64 {
		return s.CashFlowStatement.FinancingActivities.NetCashFromFinancing
	}},
	{"netChangeInCash", tr("صافي التغير في النقد", "Net change in cash"), func(s model.FinancialStatement) float64 {
		return s.CashFlowStatement.NetChangeInCash
	}},
}

// keyItems is the short list used by the time-series style analyses.
var keyItems = []lineItem{
	incomeItems[0],
	incomeItems[5],
	balanceSheetItems[0],
	balanceSheetItems[9],
	cashFlowItems[0],
}

// Trend labels a change as increase, decrease or stable (under 5%).
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendDecrease Trend = "decrease"
	TrendStable   Trend = "stable"
)

func trendOf(pct float64) Trend {
	switch {
	case pct > -5 && pct < 5:
		return TrendStable
	case pct > 0:
		return TrendIncrease
	default:
		return TrendDecrease
	}
}

// ChangeItem is one account compared between a base and a current period.
type ChangeItem struct {
	Key              string  `json:"key"`
	Account          string  `json:"account"`
	BaseYear         float64 `json:"baseYear"`
	CurrentYear      float64 `json:"currentYear"`
	AbsoluteChange   float64 `json:"absoluteChange"`
	PercentageChange float64 `json:"percentageChange"`
	Trend            Trend   `json:"trend"`
}

func changeItems(items []lineItem, base, cur model.FinancialStatement, lang model.Language) []ChangeItem {
	out := make([]ChangeItem, len(items))
	for i, it := range items {
		b, c := it.get(base), it.get(cur)
		pct := pctChange(b, c)
		out[i] = ChangeItem{
			Key:              it.key,
			Account:          it.label.in(lang),
			BaseYear:         b,
			CurrentYear:      c,
			AbsoluteChange:   c - b,
			PercentageChange: roundTo(pct, 4),
			Trend:            trendOf(pct),
		}
	}
	return out
}

func findChange(items []ChangeItem, key string) (ChangeItem, bool) {
	for _, it := range items {
		if it.Key == key {
			return it, true
		}
	}
	return ChangeItem{}, false
}
