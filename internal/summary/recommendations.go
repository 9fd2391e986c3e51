package summary

import "github.com/sells-group/finanalysis/internal/model"

type phrase struct{ ar, en string }

func (p phrase) in(lang model.Language) string {
	if lang == model.LanguageEnglish {
		return p.en
	}
	return p.ar
}

var (
	ownerTemplate = []phrase{
		{"تحسين كفاءة رأس المال العامل", "Improve working capital efficiency"},
		{"زيادة هوامش الربحية", "Increase profit margins"},
		{"تنويع مصادر الإيرادات", "Diversify revenue sources"},
	}
	bankTemplate = []phrase{
		{"الشركة تتمتع بسيولة جيدة", "The company has good liquidity"},
		{"قدرة مقبولة على خدمة الديون", "Acceptable debt service capacity"},
		{"يُنصح بمراجعة شروط التمويل", "Review the financing terms"},
	}
	investorTemplate = []phrase{
		{"نمو مستقر في الإيرادات", "Stable revenue growth"},
		{"عوائد جيدة على الاستثمار", "Good returns on investment"},
		{"مخاطر متوسطة", "Moderate risk"},
	}
	valuatorTemplate = []phrase{
		{"القيمة العادلة تتماشى مع السوق", "Fair value is in line with the market"},
		{"إمكانيات نمو واعدة", "Promising growth potential"},
		{"تقييم الأصول يحتاج مراجعة", "Asset valuation needs review"},
	}
	otherTemplate = []phrase{
		{"الأداء العام مرضي", "Overall performance is satisfactory"},
		{"يُنصح بمتابعة المؤشرات ربع السنوية", "Track the indicators quarterly"},
	}
)

// Indicator groups that drive rating-based additions.
var (
	liquidityTypes     = []model.AnalysisType{model.CurrentRatio, model.QuickRatio, model.CashRatio, model.LiquidityRisk}
	leverageTypes      = []model.AnalysisType{model.DebtToEquity, model.DebtToAssets, model.InterestCoverage, model.DebtServiceCoverage, model.CreditRisk}
	profitabilityTypes = []model.AnalysisType{model.GrossProfitMargin, model.OperatingProfitMargin, model.NetProfitMargin, model.ReturnOnAssets, model.ReturnOnEquity}
	distressTypes      = []model.AnalysisType{model.BankruptcyAnalysis, model.BankruptcyPrediction, model.EarlyWarningModels, model.StressTesting}
)

var (
	recLiquidityCaution = phrase{"يُنصح بالحذر في منح تمويل قصير الأجل بسبب ضعف السيولة", "Exercise caution with short-term credit given weak liquidity"}
	recLeverageCaution  = phrase{"مستوى المديونية مرتفع ويستدعي ضمانات إضافية", "Leverage is high and warrants additional collateral"}
	recProfitability    = phrase{"مراجعة هيكل التكاليف والتسعير لرفع الربحية", "Review the cost structure and pricing to lift profitability"}
	recStrongReturns    = phrase{"مؤشرات الربحية القوية تدعم فرص الاستثمار", "Strong profitability supports the investment case"}
	recDistress         = phrase{"مراعاة علاوة مخاطر أعلى بسبب مؤشرات التعثر", "Apply a higher risk premium given distress signals"}
	recDistressOwners   = phrase{"إعداد خطة معالجة مالية عاجلة", "Prepare an urgent financial recovery plan"}
	recValuationStrong  = phrase{"نتائج التقييم تشير إلى قيمة أعلى من السعر الحالي", "Valuation results point to value above the current price"}
	recManyRisks        = phrase{"متابعة المخاطر المرصودة بشكل دوري", "Monitor the identified risks regularly"}
)

func phrases(lang model.Language, ps []phrase) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.in(lang)
	}
	return out
}

// groupRatings indexes results by type.
func groupRatings(results []model.AnalysisResult) map[model.AnalysisType]model.Rating {
	out := make(map[model.AnalysisType]model.Rating, len(results))
	for _, r := range results {
		out[r.Type] = r.Rating
	}
	return out
}

// anyAtMost reports whether any present type is rated at or below floor.
func anyAtMost(ratings map[model.AnalysisType]model.Rating, types []model.AnalysisType, floor model.Rating) bool {
	for _, t := range types {
		if r, ok := ratings[t]; ok && r.Score() <= floor.Score() {
			return true
		}
	}
	return false
}

// meanAtLeast reports whether the present types average at least score.
func meanAtLeast(ratings map[model.AnalysisType]model.Rating, types []model.AnalysisType, score float64) bool {
	var sum, n int
	for _, t := range types {
		if r, ok := ratings[t]; ok {
			sum += r.Score()
			n++
		}
	}
	return n > 0 && float64(sum)/float64(n) >= score
}

func categoryMeanAtLeast(results []model.AnalysisResult, c model.Category, score float64) bool {
	var sum, n int
	for _, r := range results {
		if r.Category == c {
			sum += r.Rating.Score()
			n++
		}
	}
	return n > 0 && float64(sum)/float64(n) >= score
}

func recommend(results []model.AnalysisResult, risks []string, lang model.Language) model.Recommendations {
	rec := model.Recommendations{
		ForOwners:    phrases(lang, ownerTemplate),
		ForBanks:     phrases(lang, bankTemplate),
		ForInvestors: phrases(lang, investorTemplate),
		ForValuators: phrases(lang, valuatorTemplate),
		ForOthers:    phrases(lang, otherTemplate),
	}
	ratings := groupRatings(results)

	if anyAtMost(ratings, liquidityTypes, model.RatingWeak) {
		rec.ForBanks = append(rec.ForBanks, recLiquidityCaution.in(lang))
	}
	if anyAtMost(ratings, leverageTypes, model.RatingWeak) {
		rec.ForBanks = append(rec.ForBanks, recLeverageCaution.in(lang))
	}
	if anyAtMost(ratings, profitabilityTypes, model.RatingWeak) {
		rec.ForOwners = append(rec.ForOwners, recProfitability.in(lang))
	}
	if meanAtLeast(ratings, profitabilityTypes, 4) {
		rec.ForInvestors = append(rec.ForInvestors, recStrongReturns.in(lang))
	}
	if anyAtMost(ratings, distressTypes, model.RatingWeak) {
		rec.ForOwners = append(rec.ForOwners, recDistressOwners.in(lang))
		rec.ForValuators = append(rec.ForValuators, recDistress.in(lang))
	}
	if categoryMeanAtLeast(results, model.CategoryValuation, 4) {
		rec.ForValuators = append(rec.ForValuators, recValuationStrong.in(lang))
	}
	if len(risks) > 5 {
		rec.ForOthers = append(rec.ForOthers, recManyRisks.in(lang))
	}
	return rec
}

var categoryNames = map[model.Category]phrase{
	model.CategoryStructural:  {"التحليل الهيكلي", "structural analysis"},
	model.CategoryRatios:      {"النسب المالية", "financial ratios"},
	model.CategoryFlow:        {"التدفقات والتكاليف", "flows and costs"},
	model.CategoryComparative: {"التحليل المقارن", "comparative analysis"},
	model.CategoryValuation:   {"التقييم", "valuation"},
	model.CategoryPerformance: {"الأداء والكفاءة", "performance and efficiency"},
	model.CategoryModeling:    {"النمذجة والمحاكاة", "modeling and simulation"},
	model.CategoryStatistical: {"التحليل الإحصائي", "statistical analysis"},
	model.CategoryPortfolio:   {"المحافظ والمخاطر", "portfolio and risk"},
	model.CategoryDetection:   {"الكشف والتنبؤ", "detection and prediction"},
}

func categoryName(c model.Category, lang model.Language) string {
	if p, ok := categoryNames[c]; ok {
		return p.in(lang)
	}
	return string(c)
}
