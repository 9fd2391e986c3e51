package catalog

import (
	"math"

	"github.com/sells-group/finanalysis/internal/model"
)

// defaultShares is assumed when a statement does not report shares
// outstanding.
const defaultShares = 1_000_000

// assumedPE prices the share when no market price benchmark is available.
const assumedPE = 15

// ratioDef describes one of the thirty financial ratios. The value is
// computed on the latest statement.
type ratioDef struct {
	typ       model.AnalysisType
	benchKey  string
	bench     float64
	formula   text
	value     func(s model.FinancialStatement, bm model.Benchmarks) float64
	rate      func(v float64) model.Rating
	interpret func(v float64) text
	recs      map[model.Rating]text
}

func hb(a, b, c, d float64) func(float64) model.Rating {
	return func(v float64) model.Rating { return higherBetter(v, [4]float64{a, b, c, d}) }
}

func lb(a, b, c, d float64) func(float64) model.Rating {
	return func(v float64) model.Rating { return lowerBetter(v, [4]float64{a, b, c, d}) }
}

func interpAbove(cuts []float64, texts ...text) func(float64) text {
	return func(v float64) text { return above(v, cuts, texts...) }
}

func interpBelow(cuts []float64, texts ...text) func(float64) text {
	return func(v float64) text { return below(v, cuts, texts...) }
}

func sharesOf(s model.FinancialStatement) float64 {
	if s.IncomeStatement.SharesOutstanding > 0 {
		return s.IncomeStatement.SharesOutstanding
	}
	return defaultShares
}

func epsOf(s model.FinancialStatement) float64 {
	if s.IncomeStatement.EarningsPerShare != 0 {
		return s.IncomeStatement.EarningsPerShare
	}
	return s.IncomeStatement.NetIncome / sharesOf(s)
}

// sharePrice uses the sharePrice benchmark when supplied, otherwise prices
// the share at a fixed earnings multiple.
func sharePrice(s model.FinancialStatement, bm model.Benchmarks) float64 {
	if p, ok := bm.Get("sharePrice"); ok && p > 0 {
		return p
	}
	return epsOf(s) * assumedPE
}

func bookValuePerShare(s model.FinancialStatement) float64 {
	return equityOf(s) / sharesOf(s)
}

func daysInventory(s model.FinancialStatement) float64 {
	return safeDiv(365, inventoryTurnover(s))
}

func inventoryTurnover(s model.FinancialStatement) float64 {
	return div1(s.IncomeStatement.CostOfGoodsSold, s.BalanceSheet.CurrentAssets.Inventory)
}

func receivablesTurnover(s model.FinancialStatement) float64 {
	return div1(s.IncomeStatement.Revenue, s.BalanceSheet.CurrentAssets.AccountsReceivable)
}

func payablesTurnover(s model.FinancialStatement) float64 {
	return div1(s.IncomeStatement.CostOfGoodsSold, s.BalanceSheet.CurrentLiabilities.AccountsPayable)
}

func daysReceivable(s model.FinancialStatement) float64 {
	return safeDiv(365, receivablesTurnover(s))
}

func daysPayable(s model.FinancialStatement) float64 {
	return safeDiv(365, payablesTurnover(s))
}

func operatingCycle(s model.FinancialStatement) float64 {
	return daysInventory(s) + daysReceivable(s)
}

var currentRatioRecs = map[model.Rating]text{
	model.RatingExcellent:  tr("الحفاظ على مستوى السيولة الحالي", "Maintain the current liquidity level"),
	model.RatingVeryGood:   tr("مراقبة السيولة بشكل دوري", "Monitor liquidity periodically"),
	model.RatingGood:       tr("النظر في تحسين إدارة رأس المال العامل", "Consider improving working capital management"),
	model.RatingAcceptable: tr("زيادة الأصول المتداولة أو تقليل الخصوم المتداولة", "Increase current assets or reduce current liabilities"),
	model.RatingWeak:       tr("اتخاذ إجراءات عاجلة لتحسين السيولة", "Take urgent action to improve liquidity"),
}

var ratioDefs = []ratioDef{
	// Liquidity
	{
		typ: model.CurrentRatio, benchKey: "currentRatio", bench: 2.0,
		formula: tr("الأصول المتداولة ÷ الخصوم المتداولة", "Current assets / current liabilities"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(s.BalanceSheet.CurrentAssets.TotalCurrentAssets, s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities)
		},
		rate: hb(2, 1.5, 1.2, 1),
		interpret: interpAbove([]float64{2, 1.5, 1},
			tr("سيولة ممتازة، الشركة قادرة على تغطية التزاماتها قصيرة الأجل بسهولة", "Excellent liquidity, short-term obligations are easily covered"),
			tr("سيولة جيدة، الشركة في وضع مالي مستقر", "Good liquidity, the company is financially stable"),
			tr("سيولة مقبولة، لكن قد تحتاج لتحسين", "Acceptable liquidity that may need improvement"),
			tr("سيولة ضعيفة، قد تواجه الشركة صعوبات في سداد التزاماتها", "Weak liquidity, the company may struggle to meet its obligations"),
		),
		recs: currentRatioRecs,
	},
	{
		typ: model.QuickRatio, benchKey: "quickRatio", bench: 1.0,
		formula: tr("(الأصول المتداولة - المخزون) ÷ الخصوم المتداولة", "(Current assets - inventory) / current liabilities"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			ca := s.BalanceSheet.CurrentAssets
			return div1(ca.TotalCurrentAssets-ca.Inventory, s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities)
		},
		rate: hb(1, 0.8, 0.6, 0.4),
		interpret: interpAbove([]float64{1, 0.8, 0.5},
			tr("قدرة ممتازة على سداد الالتزامات دون الاعتماد على المخزون", "Excellent ability to pay obligations without relying on inventory"),
			tr("قدرة جيدة على السداد السريع", "Good quick payment capacity"),
			tr("قدرة مقبولة لكن تحتاج مراقبة", "Acceptable capacity that needs monitoring"),
			tr("قدرة ضعيفة على السداد السريع، مخاطر سيولة محتملة", "Weak quick payment capacity, possible liquidity risk"),
		),
	},
	{
		typ: model.CashRatio, benchKey: "cashRatio", bench: 0.2,
		formula: tr("النقد ÷ الخصوم المتداولة", "Cash / current liabilities"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(s.BalanceSheet.CurrentAssets.Cash, s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities)
		},
		rate: hb(0.5, 0.3, 0.2, 0.1),
		interpret: interpAbove([]float64{0.5, 0.2, 0.1},
			tr("وضع نقدي قوي جداً", "Very strong cash position"),
			tr("وضع نقدي جيد", "Good cash position"),
			tr("وضع نقدي مقبول", "Acceptable cash position"),
			tr("نقص في السيولة النقدية المباشرة", "Shortage of immediate cash"),
		),
	},
	{
		typ: model.OperatingCashFlowRatio, benchKey: "operatingCashFlowRatio", bench: 0.5,
		formula: tr("التدفق النقدي التشغيلي ÷ الخصوم المتداولة", "Operating cash flow / current liabilities"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(ocfOf(s), s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities)
		},
		rate: hb(1, 0.7, 0.5, 0.2),
		interpret: interpAbove([]float64{1, 0.5, 0.2},
			tr("تدفقات نقدية تشغيلية قوية تغطي الالتزامات", "Strong operating cash flow covering obligations"),
			tr("تدفقات نقدية جيدة", "Good cash flow"),
			tr("تدفقات نقدية مقبولة", "Acceptable cash flow"),
			tr("تدفقات نقدية ضعيفة قد تؤثر على السيولة", "Weak cash flow that may affect liquidity"),
		),
	},
	{
		typ: model.WorkingCapitalRatio, benchKey: "workingCapitalRatio", bench: 0.2,
		formula: tr("رأس المال العامل ÷ إجمالي الأصول", "Working capital / total assets"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.BalanceSheet.WorkingCapital(), s.BalanceSheet.TotalAssets)
		},
		rate: hb(0.3, 0.2, 0.15, 0.1),
		interpret: interpAbove([]float64{0.3, 0.2, 0.1},
			tr("رأس مال عامل قوي", "Strong working capital"),
			tr("رأس مال عامل جيد", "Good working capital"),
			tr("رأس مال عامل مقبول", "Acceptable working capital"),
			tr("نقص في رأس المال العامل", "Working capital shortfall"),
		),
	},

	// Activity
	{
		typ: model.InventoryTurnover, benchKey: "inventoryTurnover", bench: 6,
		formula: tr("تكلفة البضاعة المباعة ÷ المخزون", "Cost of goods sold / inventory"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return inventoryTurnover(s) },
		rate:    hb(12, 8, 6, 4),
		interpret: interpAbove([]float64{12, 6, 4},
			tr("إدارة ممتازة للمخزون، دوران سريع جداً", "Excellent inventory management with very fast turnover"),
			tr("إدارة جيدة للمخزون", "Good inventory management"),
			tr("إدارة مقبولة للمخزون", "Acceptable inventory management"),
			tr("بطء في دوران المخزون قد يؤدي لتكاليف إضافية", "Slow inventory turnover may add carrying costs"),
		),
	},
	{
		typ: model.ReceivablesTurnover, benchKey: "receivablesTurnover", bench: 10,
		formula: tr("الإيرادات ÷ الذمم المدينة", "Revenue / accounts receivable"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return receivablesTurnover(s) },
		rate:    hb(12, 10, 8, 6),
		interpret: interpAbove([]float64{12, 8, 6},
			tr("تحصيل ممتاز للذمم المدينة", "Excellent receivables collection"),
			tr("تحصيل جيد للذمم", "Good receivables collection"),
			tr("تحصيل مقبول", "Acceptable collection"),
			tr("بطء في التحصيل قد يؤثر على السيولة", "Slow collection may affect liquidity"),
		),
	},
	{
		typ: model.DaysReceivable, benchKey: "daysReceivable", bench: 36,
		formula: tr("365 ÷ معدل دوران الذمم المدينة", "365 / receivables turnover"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return daysReceivable(s) },
		rate:    lb(30, 40, 50, 60),
		interpret: interpBelow([]float64{30, 45, 60},
			tr("فترة تحصيل ممتازة", "Excellent collection period"),
			tr("فترة تحصيل جيدة", "Good collection period"),
			tr("فترة تحصيل مقبولة", "Acceptable collection period"),
			tr("فترة تحصيل طويلة تحتاج لتحسين", "Long collection period that needs improvement"),
		),
	},
	{
		typ: model.PayablesTurnover, benchKey: "payablesTurnover", bench: 12,
		formula: tr("تكلفة البضاعة المباعة ÷ الذمم الدائنة", "Cost of goods sold / accounts payable"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return payablesTurnover(s) },
		rate: func(v float64) model.Rating {
			switch {
			case v >= 8 && v <= 12:
				return model.RatingExcellent
			case v >= 6 && v <= 15:
				return model.RatingVeryGood
			case v >= 4:
				return model.RatingGood
			case v >= 3:
				return model.RatingAcceptable
			default:
				return model.RatingWeak
			}
		},
		interpret: interpAbove([]float64{12, 6, 4},
			tr("سرعة في سداد الموردين", "Suppliers are paid quickly"),
			tr("معدل سداد جيد", "Good payment rate"),
			tr("معدل سداد مقبول", "Acceptable payment rate"),
			tr("بطء في السداد قد يؤثر على العلاقات مع الموردين", "Slow payment may strain supplier relationships"),
		),
	},
	{
		typ: model.DaysPayable, benchKey: "daysPayable", bench: 30,
		formula: tr("365 ÷ معدل دوران الذمم الدائنة", "365 / payables turnover"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return daysPayable(s) },
		rate: func(v float64) model.Rating {
			switch {
			case v >= 30 && v <= 45:
				return model.RatingExcellent
			case v >= 20 && v <= 60:
				return model.RatingVeryGood
			case v <= 90:
				return model.RatingGood
			case v <= 120:
				return model.RatingAcceptable
			default:
				return model.RatingWeak
			}
		},
		interpret: interpBelow([]float64{30, 45, 60},
			tr("سداد سريع للموردين", "Suppliers are paid promptly"),
			tr("فترة سداد معقولة", "Reasonable payment period"),
			tr("استفادة جيدة من الائتمان التجاري", "Good use of trade credit"),
			tr("فترة سداد طويلة قد تضر بسمعة الشركة", "Long payment period may hurt the company's reputation"),
		),
	},
	{
		typ: model.AssetTurnover, benchKey: "totalAssetTurnover", bench: 1,
		formula: tr("الإيرادات ÷ إجمالي الأصول", "Revenue / total assets"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.IncomeStatement.Revenue, s.BalanceSheet.TotalAssets)
		},
		rate: hb(2, 1.5, 1, 0.5),
		interpret: interpAbove([]float64{2, 1, 0.5},
			tr("كفاءة عالية في استخدام الأصول", "High efficiency in using assets"),
			tr("كفاءة جيدة", "Good efficiency"),
			tr("كفاءة مقبولة", "Acceptable efficiency"),
			tr("ضعف في استغلال الأصول لتوليد الإيرادات", "Assets are underused in generating revenue"),
		),
	},
	{
		typ: model.FixedAssetTurnover, benchKey: "fixedAssetTurnover", bench: 2,
		formula: tr("الإيرادات ÷ صافي الأصول الثابتة", "Revenue / net fixed assets"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(s.IncomeStatement.Revenue, s.BalanceSheet.NonCurrentAssets.NetPPE)
		},
		rate: hb(3, 2, 1.5, 1),
		interpret: interpAbove([]float64{3, 2, 1},
			tr("استخدام فعال جداً للأصول الثابتة", "Very effective use of fixed assets"),
			tr("استخدام جيد للأصول الثابتة", "Good use of fixed assets"),
			tr("استخدام مقبول", "Acceptable use"),
			tr("ضعف في استغلال الأصول الثابتة", "Fixed assets are underused"),
		),
	},
	{
		typ: model.OperatingCycle, benchKey: "operatingCycle", bench: 90,
		formula: tr("فترة المخزون + فترة التحصيل", "Days inventory + days receivable"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return operatingCycle(s) },
		rate:    lb(60, 80, 100, 120),
		interpret: interpBelow([]float64{60, 90, 120},
			tr("دورة تشغيل قصيرة وفعالة", "Short, effective operating cycle"),
			tr("دورة تشغيل جيدة", "Good operating cycle"),
			tr("دورة تشغيل مقبولة", "Acceptable operating cycle"),
			tr("دورة تشغيل طويلة تحتاج لتحسين", "Long operating cycle that needs improvement"),
		),
	},
	{
		typ: model.CashConversionCycle, benchKey: "cashConversionCycle", bench: 60,
		formula: tr("دورة التشغيل - فترة السداد", "Operating cycle - days payable"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return operatingCycle(s) - daysPayable(s)
		},
		rate: lb(30, 50, 70, 90),
		interpret: interpBelow([]float64{30, 60, 90},
			tr("دورة تحويل نقدي ممتازة", "Excellent cash conversion cycle"),
			tr("دورة تحويل نقدي جيدة", "Good cash conversion cycle"),
			tr("دورة تحويل نقدي مقبولة", "Acceptable cash conversion cycle"),
			tr("دورة تحويل نقدي طويلة تؤثر على السيولة", "Long cash conversion cycle weighing on liquidity"),
		),
	},

	// Leverage
	{
		typ: model.DebtToAssets, benchKey: "debtToAssets", bench: 0.5,
		formula: tr("إجمالي الخصوم ÷ إجمالي الأصول", "Total liabilities / total assets"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.BalanceSheet.TotalLiabilities, s.BalanceSheet.TotalAssets)
		},
		rate: lb(0.3, 0.4, 0.5, 0.6),
		interpret: interpBelow([]float64{0.3, 0.5, 0.7},
			tr("مستوى دين منخفض وآمن", "Low, safe debt level"),
			tr("مستوى دين معتدل", "Moderate debt level"),
			tr("مستوى دين مرتفع نسبياً", "Relatively high debt level"),
			tr("مستوى دين مرتفع جداً يشكل مخاطر", "Very high debt level posing risk"),
		),
	},
	{
		typ: model.DebtToEquity, benchKey: "debtToEquity", bench: 1,
		formula: tr("إجمالي الخصوم ÷ حقوق الملكية", "Total liabilities / shareholders' equity"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(s.BalanceSheet.TotalLiabilities, equityOf(s))
		},
		rate: lb(0.5, 0.8, 1, 1.5),
		interpret: interpBelow([]float64{0.5, 1, 2},
			tr("هيكل رأسمال محافظ", "Conservative capital structure"),
			tr("توازن جيد بين الدين وحقوق الملكية", "Good balance between debt and equity"),
			tr("اعتماد متوسط على الدين", "Moderate reliance on debt"),
			tr("اعتماد كبير على الدين", "Heavy reliance on debt"),
		),
	},
	{
		typ: model.InterestCoverage, benchKey: "interestCoverage", bench: 3,
		formula: tr("الدخل التشغيلي ÷ مصروفات الفوائد", "Operating income / interest expense"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(s.IncomeStatement.OperatingIncome, s.IncomeStatement.OtherIncomeExpense.InterestExpense)
		},
		rate: hb(5, 3, 2, 1.5),
		interpret: interpAbove([]float64{5, 3, 1.5},
			tr("قدرة ممتازة على سداد الفوائد", "Excellent ability to pay interest"),
			tr("قدرة جيدة على سداد الفوائد", "Good ability to pay interest"),
			tr("قدرة مقبولة", "Acceptable capacity"),
			tr("صعوبة في تغطية الفوائد", "Difficulty covering interest"),
		),
	},
	{
		typ: model.DebtServiceCoverage, benchKey: "debtServiceCoverage", bench: 1.25,
		formula: tr("الدخل التشغيلي ÷ خدمة الدين", "Operating income / debt service"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			interest := s.IncomeStatement.OtherIncomeExpense.InterestExpense
			if interest == 0 {
				interest = 1
			}
			service := interest + s.BalanceSheet.CurrentLiabilities.CurrentPortionLongTermDebt
			return div1(s.IncomeStatement.OperatingIncome, service)
		},
		rate: hb(2, 1.5, 1.25, 1),
		interpret: interpAbove([]float64{2, 1.25, 1},
			tr("قدرة قوية على خدمة الدين", "Strong debt service capacity"),
			tr("قدرة كافية لخدمة الدين", "Sufficient debt service capacity"),
			tr("قدرة محدودة", "Limited capacity"),
			tr("صعوبة في خدمة الدين", "Difficulty servicing debt"),
		),
	},
	{
		typ: model.EquityRatio, benchKey: "equityRatio", bench: 0.5,
		formula: tr("حقوق الملكية ÷ إجمالي الأصول", "Shareholders' equity / total assets"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(equityOf(s), s.BalanceSheet.TotalAssets)
		},
		rate: hb(0.7, 0.6, 0.5, 0.3),
		interpret: interpAbove([]float64{0.7, 0.5, 0.3},
			tr("قاعدة رأسمالية قوية جداً", "Very strong capital base"),
			tr("قاعدة رأسمالية جيدة", "Good capital base"),
			tr("قاعدة رأسمالية مقبولة", "Acceptable capital base"),
			tr("قاعدة رأسمالية ضعيفة", "Weak capital base"),
		),
	},

	// Profitability
	{
		typ: model.GrossProfitMargin, benchKey: "grossProfitMargin", bench: 0.3,
		formula: tr("إجمالي الربح ÷ الإيرادات", "Gross profit / revenue"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.IncomeStatement.GrossProfit, s.IncomeStatement.Revenue)
		},
		rate: hb(0.4, 0.3, 0.25, 0.2),
		interpret: interpAbove([]float64{0.4, 0.3, 0.2},
			tr("هامش ربح إجمالي ممتاز", "Excellent gross margin"),
			tr("هامش ربح إجمالي جيد", "Good gross margin"),
			tr("هامش ربح إجمالي مقبول", "Acceptable gross margin"),
			tr("هامش ربح إجمالي ضعيف", "Weak gross margin"),
		),
	},
	{
		typ: model.OperatingProfitMargin, benchKey: "operatingProfitMargin", bench: 0.15,
		formula: tr("الدخل التشغيلي ÷ الإيرادات", "Operating income / revenue"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.IncomeStatement.OperatingIncome, s.IncomeStatement.Revenue)
		},
		rate: hb(0.2, 0.15, 0.1, 0.05),
		interpret: interpAbove([]float64{0.2, 0.15, 0.1},
			tr("كفاءة تشغيلية ممتازة", "Excellent operating efficiency"),
			tr("كفاءة تشغيلية جيدة", "Good operating efficiency"),
			tr("كفاءة تشغيلية مقبولة", "Acceptable operating efficiency"),
			tr("ضعف في الكفاءة التشغيلية", "Weak operating efficiency"),
		),
	},
	{
		typ: model.NetProfitMargin, benchKey: "netProfitMargin", bench: 0.1,
		formula: tr("صافي الدخل ÷ الإيرادات", "Net income / revenue"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.IncomeStatement.NetIncome, s.IncomeStatement.Revenue)
		},
		rate: hb(0.15, 0.1, 0.07, 0.05),
		interpret: interpAbove([]float64{0.15, 0.1, 0.05},
			tr("ربحية صافية ممتازة", "Excellent net profitability"),
			tr("ربحية صافية جيدة", "Good net profitability"),
			tr("ربحية صافية مقبولة", "Acceptable net profitability"),
			tr("ربحية صافية ضعيفة", "Weak net profitability"),
		),
	},
	{
		typ: model.ReturnOnAssets, benchKey: "returnOnAssets", bench: 0.05,
		formula: tr("صافي الدخل ÷ إجمالي الأصول", "Net income / total assets"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return safeDiv(s.IncomeStatement.NetIncome, s.BalanceSheet.TotalAssets)
		},
		rate: hb(0.1, 0.07, 0.05, 0.02),
		interpret: interpAbove([]float64{0.1, 0.05, 0.02},
			tr("عائد ممتاز على الأصول", "Excellent return on assets"),
			tr("عائد جيد على الأصول", "Good return on assets"),
			tr("عائد مقبول", "Acceptable return"),
			tr("عائد ضعيف على الأصول", "Weak return on assets"),
		),
	},
	{
		typ: model.ReturnOnEquity, benchKey: "returnOnEquity", bench: 0.15,
		formula: tr("صافي الدخل ÷ حقوق الملكية", "Net income / shareholders' equity"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			return div1(s.IncomeStatement.NetIncome, equityOf(s))
		},
		rate: hb(0.2, 0.15, 0.12, 0.1),
		interpret: interpAbove([]float64{0.2, 0.15, 0.1},
			tr("عائد ممتاز للمساهمين", "Excellent return to shareholders"),
			tr("عائد جيد للمساهمين", "Good return to shareholders"),
			tr("عائد مقبول", "Acceptable return"),
			tr("عائد ضعيف للمساهمين", "Weak return to shareholders"),
		),
	},
	{
		typ: model.ReturnOnInvestedCapital, benchKey: "roic", bench: 0.12,
		formula: tr("الدخل التشغيلي بعد الضريبة ÷ رأس المال المستثمر", "After-tax operating income / invested capital"),
		value: func(s model.FinancialStatement, _ model.Benchmarks) float64 {
			invested := equityOf(s) + s.BalanceSheet.NonCurrentLiabilities.LongTermDebt
			return safeDiv(s.IncomeStatement.OperatingIncome*(1-assumedTaxRate), invested)
		},
		rate: hb(0.15, 0.12, 0.1, 0.08),
		interpret: interpAbove([]float64{0.15, 0.12, 0.08},
			tr("عائد ممتاز على رأس المال المستثمر", "Excellent return on invested capital"),
			tr("عائد جيد يفوق تكلفة رأس المال", "Good return above the cost of capital"),
			tr("عائد مقبول", "Acceptable return"),
			tr("عائد ضعيف قد لا يغطي تكلفة رأس المال", "Weak return that may not cover the cost of capital"),
		),
	},

	// Market
	{
		typ: model.PriceEarningsRatio, benchKey: "priceEarningsRatio", bench: 15,
		formula: tr("سعر السهم ÷ ربحية السهم", "Share price / earnings per share"),
		value: func(s model.FinancialStatement, bm model.Benchmarks) float64 {
			return safeDiv(sharePrice(s, bm), epsOf(s))
		},
		rate: func(v float64) model.Rating {
			if v <= 0 {
				return model.RatingWeak
			}
			return lowerBetter(v, [4]float64{15, 20, 25, 30})
		},
		interpret: interpBelow([]float64{10, 20, 30},
			tr("السهم مقيم بأقل من قيمته", "The share is undervalued"),
			tr("تقييم معقول للسهم", "Reasonable share valuation"),
			tr("تقييم مرتفع نسبياً", "Relatively high valuation"),
			tr("تقييم مرتفع جداً", "Very high valuation"),
		),
	},
	{
		typ: model.PriceToBookRatio, benchKey: "priceToBook", bench: 2,
		formula: tr("سعر السهم ÷ القيمة الدفترية للسهم", "Share price / book value per share"),
		value: func(s model.FinancialStatement, bm model.Benchmarks) float64 {
			return safeDiv(sharePrice(s, bm), bookValuePerShare(s))
		},
		rate: func(v float64) model.Rating {
			if v <= 0 {
				return model.RatingWeak
			}
			return lowerBetter(v, [4]float64{1.5, 2, 2.5, 3})
		},
		interpret: interpBelow([]float64{1, 2, 3},
			tr("السهم يتداول أقل من القيمة الدفترية", "The share trades below book value"),
			tr("تقييم معقول", "Reasonable valuation"),
			tr("تقييم مرتفع", "High valuation"),
			tr("تقييم مرتفع جداً", "Very high valuation"),
		),
	},
	{
		typ: model.DividendYield, benchKey: "dividendYield", bench: 0.03,
		formula: tr("التوزيعات للسهم ÷ سعر السهم", "Dividends per share / share price"),
		value: func(s model.FinancialStatement, bm model.Benchmarks) float64 {
			dps := math.Abs(s.CashFlowStatement.FinancingActivities.DividendsPaid) / sharesOf(s)
			return safeDiv(dps, sharePrice(s, bm))
		},
		rate: hb(0.05, 0.04, 0.03, 0.02),
		interpret: interpAbove([]float64{0.05, 0.03, 0.01},
			tr("عائد توزيعات مرتفع", "High dividend yield"),
			tr("عائد توزيعات جيد", "Good dividend yield"),
			tr("عائد توزيعات منخفض", "Low dividend yield"),
			tr("لا توجد توزيعات أو توزيعات ضئيلة", "No or negligible dividends"),
		),
	},
	{
		typ: model.EarningsPerShare, benchKey: "earningsPerShare", bench: 2,
		formula: tr("صافي الدخل ÷ عدد الأسهم", "Net income / shares outstanding"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return finite(epsOf(s)) },
		rate:    hb(5, 3, 2, 1),
		interpret: interpAbove([]float64{5, 2, 0},
			tr("ربحية قوية للسهم", "Strong earnings per share"),
			tr("ربحية جيدة للسهم", "Good earnings per share"),
			tr("ربحية موجبة", "Positive earnings"),
			tr("خسارة للسهم", "Loss per share"),
		),
	},
	{
		typ: model.BookValuePerShare, benchKey: "bookValuePerShare", bench: 10,
		formula: tr("حقوق الملكية ÷ عدد الأسهم", "Shareholders' equity / shares outstanding"),
		value:   func(s model.FinancialStatement, _ model.Benchmarks) float64 { return finite(bookValuePerShare(s)) },
		rate:    hb(20, 15, 10, 5),
		interpret: interpAbove([]float64{20, 10, 5},
			tr("قيمة دفترية قوية", "Strong book value"),
			tr("قيمة دفترية جيدة", "Good book value"),
			tr("قيمة دفترية مقبولة", "Acceptable book value"),
			tr("قيمة دفترية منخفضة", "Low book value"),
		),
	},
}

// assumedTaxRate converts operating income to an after-tax figure.
const assumedTaxRate = 0.2

func registerRatios(r *Registry) {
	for _, d := range ratioDefs {
		r.Register(d.typ, d.analyze)
	}
}

func (d ratioDef) analyze(stmts []model.FinancialStatement, c model.Company, bm model.Benchmarks) (*model.AnalysisResult, error) {
	lang := c.Lang()
	latest := model.Latest(stmts)
	name := d.typ.DisplayName(lang)

	res := newResult(c, about{
		definition:  tr("نسبة مالية تقيس "+d.typ.DisplayName(model.LanguageArabic), "Financial ratio measuring "+d.typ.DisplayName(model.LanguageEnglish)),
		importance:  tr("مؤشر مهم لقياس "+d.typ.DisplayName(model.LanguageArabic), "Key indicator of "+d.typ.DisplayName(model.LanguageEnglish)),
		calculation: d.formula,
	})
	res.WhatItMeasures = name

	v := finite(d.value(latest, bm))
	bench := benchmarkOf(bm, d.benchKey, d.bench)
	rating := d.rate(v)

	res.Result = roundTo(v, 4)
	res.Interpretation = d.interpret(v).in(lang)
	res.IndustryAverage = bench
	res.ComparisonWithIndustry = comparison(v, bench, lang)
	res.Rating = rating
	res.Recommendation = d.recommend(rating).in(lang)

	gaugeMax := v * 2
	if bench != nil {
		gaugeMax = *bench * 2
	}
	gauge := map[string]any{"value": roundTo(v, 4), "min": 0, "max": roundTo(gaugeMax, 4)}
	if bench != nil {
		gauge["target"] = *bench
	}
	res.Charts = []model.Chart{{Type: "gauge", Title: name, Data: gauge}}
	res.DetailedAnalysis = map[string]any{"year": latest.Year}

	switch rating {
	case model.RatingExcellent:
		res.SWOT = swot([]string{name + ": " + res.Interpretation}, nil, nil, nil)
	case model.RatingWeak:
		res.SWOT = swot(nil, []string{name + ": " + res.Interpretation}, nil, nil)
		res.Risks = []string{res.Interpretation}
	}
	return res, nil
}

var keepLevelRec = tr("الحفاظ على المستوى الحالي لهذا المؤشر", "Maintain the current level of this indicator")

func (d ratioDef) recommend(r model.Rating) text {
	if t, ok := d.recs[r]; ok {
		return t
	}
	if r == model.RatingExcellent || r == model.RatingVeryGood {
		return keepLevelRec
	}
	return msgDefaultRec
}

func ratioDefFor(t model.AnalysisType) ratioDef {
	for _, d := range ratioDefs {
		if d.typ == t {
			return d
		}
	}
	return ratioDef{typ: t, value: func(model.FinancialStatement, model.Benchmarks) float64 { return 0 }, rate: func(float64) model.Rating { return model.RatingAcceptable }}
}

// ratioValue exposes a ratio computation to other families.
func ratioValue(t model.AnalysisType, s model.FinancialStatement, bm model.Benchmarks) float64 {
	return finite(ratioDefFor(t).value(s, bm))
}

// ratioRating rates a ratio computed on s.
func ratioRating(t model.AnalysisType, s model.FinancialStatement, bm model.Benchmarks) model.Rating {
	return ratioDefFor(t).rate(ratioValue(t, s, bm))
}
