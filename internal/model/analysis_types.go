package model

// AnalysisType identifies one financial computation.
type AnalysisType string

const (
	// Structural
	VerticalAnalysis   AnalysisType = "vertical"
	HorizontalAnalysis AnalysisType = "horizontal"
	MixedAnalysis      AnalysisType = "mixed"
	TrendAnalysis      AnalysisType = "trend"
	BasicComparative   AnalysisType = "basicComparative"
	ValueAddedAnalysis AnalysisType = "valueAdded"
	CommonSizeAnalysis AnalysisType = "commonSize"
	SimpleTimeSeries   AnalysisType = "simpleTimeSeries"
	RelativeChanges    AnalysisType = "relativeChanges"
	GrowthRates        AnalysisType = "growthRates"
	BasicVariance      AnalysisType = "basicVariance"
	SimpleDeviation    AnalysisType = "simpleDeviation"
	DifferenceAnalysis AnalysisType = "difference"
	ExceptionalItems   AnalysisType = "exceptionalItems"
	IndexNumbers       AnalysisType = "indexNumbers"

	// Financial ratios
	CurrentRatio            AnalysisType = "currentRatio"
	QuickRatio              AnalysisType = "quickRatio"
	CashRatio               AnalysisType = "cashRatio"
	OperatingCashFlowRatio  AnalysisType = "operatingCashFlowRatio"
	WorkingCapitalRatio     AnalysisType = "workingCapitalRatio"
	InventoryTurnover       AnalysisType = "inventoryTurnover"
	ReceivablesTurnover     AnalysisType = "receivablesTurnover"
	DaysReceivable          AnalysisType = "daysReceivable"
	PayablesTurnover        AnalysisType = "payablesTurnover"
	DaysPayable             AnalysisType = "daysPayable"
	AssetTurnover           AnalysisType = "assetTurnover"
	FixedAssetTurnover      AnalysisType = "fixedAssetTurnover"
	OperatingCycle          AnalysisType = "operatingCycle"
	CashConversionCycle     AnalysisType = "cashConversionCycle"
	DebtToAssets            AnalysisType = "debtToAssets"
	DebtToEquity            AnalysisType = "debtToEquity"
	InterestCoverage        AnalysisType = "interestCoverage"
	DebtServiceCoverage     AnalysisType = "debtServiceCoverage"
	EquityRatio             AnalysisType = "equityRatio"
	GrossProfitMargin       AnalysisType = "grossProfitMargin"
	OperatingProfitMargin   AnalysisType = "operatingProfitMargin"
	NetProfitMargin         AnalysisType = "netProfitMargin"
	ReturnOnAssets          AnalysisType = "returnOnAssets"
	ReturnOnEquity          AnalysisType = "returnOnEquity"
	ReturnOnInvestedCapital AnalysisType = "returnOnInvestedCapital"
	PriceEarningsRatio      AnalysisType = "priceEarningsRatio"
	PriceToBookRatio        AnalysisType = "priceToBookRatio"
	DividendYield           AnalysisType = "dividendYield"
	EarningsPerShare        AnalysisType = "earningsPerShare"
	BookValuePerShare       AnalysisType = "bookValuePerShare"

	// Flow and movement
	BasicCashFlow          AnalysisType = "basicCashFlow"
	WorkingCapitalAnalysis AnalysisType = "workingCapitalAnalysis"
	CashCycle              AnalysisType = "cashCycle"
	BreakEvenAnalysis      AnalysisType = "breakEven"
	MarginOfSafety         AnalysisType = "marginOfSafety"
	CostStructure          AnalysisType = "costStructure"
	FixedVariableCosts     AnalysisType = "fixedVariableCosts"
	OperatingLeverage      AnalysisType = "operatingLeverage"
	ContributionMargin     AnalysisType = "contributionMargin"
	FreeCashFlow           AnalysisType = "freeCashFlow"

	// Comparative
	IndustryComparative       AnalysisType = "industryComparative"
	PeerComparative           AnalysisType = "peerComparative"
	HistoricalComparative     AnalysisType = "historicalComparative"
	Benchmarking              AnalysisType = "benchmarking"
	GapAnalysis               AnalysisType = "gapAnalysis"
	CompetitivePosition       AnalysisType = "competitivePosition"
	MarketShare               AnalysisType = "marketShare"
	CompetitiveCapability     AnalysisType = "competitiveCapability"
	FinancialStrengthWeakness AnalysisType = "financialStrengthWeakness"
	RelativePerformance       AnalysisType = "relativePerformance"

	// Valuation and investment
	TimeValueOfMoney          AnalysisType = "timeValueOfMoney"
	NetPresentValue           AnalysisType = "netPresentValue"
	InternalRateOfReturn      AnalysisType = "internalRateOfReturn"
	PaybackPeriod             AnalysisType = "paybackPeriod"
	DiscountedCashFlow        AnalysisType = "discountedCashFlow"
	ReturnOnInvestment        AnalysisType = "returnOnInvestment"
	EconomicValueAdded        AnalysisType = "economicValueAdded"
	MarketValueAdded          AnalysisType = "marketValueAdded"
	GordonGrowthModel         AnalysisType = "gordonGrowthModel"
	DividendDiscountModel     AnalysisType = "dividendDiscountModel"
	FairValueAnalysis         AnalysisType = "fairValueAnalysis"
	CostBenefitAnalysis       AnalysisType = "costBenefitAnalysis"
	FinancialFeasibility      AnalysisType = "financialFeasibility"
	ProjectInvestmentAnalysis AnalysisType = "projectInvestmentAnalysis"
	InvestmentAlternatives    AnalysisType = "investmentAlternatives"
	CompanyValuation          AnalysisType = "companyValuation"

	// Performance and efficiency
	DuPontAnalysis           AnalysisType = "duPontAnalysis"
	ProductivityAnalysis     AnalysisType = "productivityAnalysis"
	OperationalEfficiency    AnalysisType = "operationalEfficiency"
	ValueChainAnalysis       AnalysisType = "valueChainAnalysis"
	ActivityBasedCosting     AnalysisType = "activityBasedCosting"
	BalancedScorecard        AnalysisType = "balancedScorecard"
	KeyPerformanceIndicators AnalysisType = "keyPerformanceIndicators"
	CriticalSuccessFactors   AnalysisType = "criticalSuccessFactors"
	AdvancedVarianceAnalysis AnalysisType = "advancedVarianceAnalysis"
	DeviationAnalysis        AnalysisType = "deviationAnalysis"
	FlexibilityAnalysis      AnalysisType = "flexibilityAnalysis"
	SensitivityAnalysis      AnalysisType = "sensitivityAnalysis"

	// Modeling and simulation
	AdvancedScenarioAnalysis AnalysisType = "advancedScenarioAnalysis"
	MonteCarloSimulation     AnalysisType = "monteCarloSimulation"
	ComplexFinancialModeling AnalysisType = "complexFinancialModeling"
	MultiVariableSensitivity AnalysisType = "multiVariableSensitivity"
	DecisionTreeAnalysis     AnalysisType = "decisionTreeAnalysis"
	RealOptionsAnalysis      AnalysisType = "realOptionsAnalysis"
	FinancialForecasting     AnalysisType = "financialForecasting"
	WhatIfAnalysis           AnalysisType = "whatIfAnalysis"
	StochasticSimulation     AnalysisType = "stochasticSimulation"
	OptimizationModels       AnalysisType = "optimizationModels"
	LinearProgramming        AnalysisType = "linearProgramming"
	DynamicProgramming       AnalysisType = "dynamicProgramming"
	OptimalAllocation        AnalysisType = "optimalAllocation"
	GameTheoryAnalysis       AnalysisType = "gameTheoryAnalysis"
	NetworkAnalysis          AnalysisType = "networkAnalysis"

	// Statistical and quantitative
	MultipleRegression         AnalysisType = "multipleRegression"
	AdvancedTimeSeries         AnalysisType = "advancedTimeSeries"
	ARIMAModels                AnalysisType = "arimaModels"
	GARCHModels                AnalysisType = "garchModels"
	PrincipalComponentAnalysis AnalysisType = "principalComponentAnalysis"
	FactorAnalysis             AnalysisType = "factorAnalysis"
	ANOVA                      AnalysisType = "anova"
	Cointegration              AnalysisType = "cointegration"
	VARModels                  AnalysisType = "varModels"
	VECMModels                 AnalysisType = "vecmModels"
	CopulaAnalysis             AnalysisType = "copulaAnalysis"
	ExtremeValueTheory         AnalysisType = "extremeValueTheory"
	SurvivalAnalysis           AnalysisType = "survivalAnalysis"
	MarkovModels               AnalysisType = "markovModels"
	ThresholdAnalysis          AnalysisType = "thresholdAnalysis"
	RegimeSwitching            AnalysisType = "regimeSwitching"
	ChaosTheory                AnalysisType = "chaosTheory"
	FractalAnalysis            AnalysisType = "fractalAnalysis"
	BootstrapAnalysis          AnalysisType = "bootstrapAnalysis"
	WaveletAnalysis            AnalysisType = "waveletAnalysis"

	// Portfolio and risk
	ModernPortfolioTheory        AnalysisType = "modernPortfolioTheory"
	CAPM                         AnalysisType = "capm"
	ArbitragePricingTheory       AnalysisType = "arbitragePricingTheory"
	FamaFrenchModel              AnalysisType = "famaFrenchModel"
	BetaAnalysis                 AnalysisType = "betaAnalysis"
	AlphaAnalysis                AnalysisType = "alphaAnalysis"
	ValueAtRisk                  AnalysisType = "valueAtRisk"
	ExpectedShortfall            AnalysisType = "expectedShortfall"
	StressTesting                AnalysisType = "stressTesting"
	CatastrophicScenarios        AnalysisType = "catastrophicScenarios"
	OperationalRisk              AnalysisType = "operationalRisk"
	MarketRisk                   AnalysisType = "marketRisk"
	CreditRisk                   AnalysisType = "creditRisk"
	LiquidityRisk                AnalysisType = "liquidityRisk"
	CyberRisk                    AnalysisType = "cyberRisk"
	GeopoliticalRisk             AnalysisType = "geopoliticalRisk"
	EnvironmentalRisk            AnalysisType = "environmentalRisk"
	GovernanceAnalysis           AnalysisType = "governanceAnalysis"
	SocialResponsibility         AnalysisType = "socialResponsibility"
	LegalAssessment              AnalysisType = "legalAssessment"
	CreditRiskModels             AnalysisType = "creditRiskModels"
	ConcentrationDiversification AnalysisType = "concentrationDiversification"
	DynamicCorrelation           AnalysisType = "dynamicCorrelation"
	RiskParity                   AnalysisType = "riskParity"
	DrawdownAnalysis             AnalysisType = "drawdownAnalysis"
	ICAAP                        AnalysisType = "icaap"
	BaselIII                     AnalysisType = "baselIII"
	Backtesting                  AnalysisType = "backtesting"
	MergersAcquisitions          AnalysisType = "mergersAcquisitions"
	LeveragedBuyouts             AnalysisType = "leveragedBuyouts"
	IPOAnalysis                  AnalysisType = "ipoAnalysis"
	SpinOffAnalysis              AnalysisType = "spinOffAnalysis"
	RestructuringAnalysis        AnalysisType = "restructuringAnalysis"
	BankruptcyAnalysis           AnalysisType = "bankruptcyAnalysis"
	ForensicFinancialAnalysis    AnalysisType = "forensicFinancialAnalysis"

	// Intelligent detection and prediction
	AIFraudDetection            AnalysisType = "aiFraudDetection"
	MoneyLaunderingDetection    AnalysisType = "moneyLaunderingDetection"
	MarketManipulationDetection AnalysisType = "marketManipulationDetection"
	BankruptcyPrediction        AnalysisType = "bankruptcyPrediction"
	CrisisPrediction            AnalysisType = "crisisPrediction"
	RealTimeAnomalyDetection    AnalysisType = "realTimeAnomalyDetection"
	MarketVolatilityPrediction  AnalysisType = "marketVolatilityPrediction"
	EarlyWarningModels          AnalysisType = "earlyWarningModels"
	IntelligentBehaviorAnalysis AnalysisType = "intelligentBehaviorAnalysis"
	ExplainableAI               AnalysisType = "explainableAI"
	NeuralNetworkForecasting    AnalysisType = "neuralNetworkForecasting"
	LSTMTimeSeries              AnalysisType = "lstmTimeSeries"
	RandomForestCredit          AnalysisType = "randomForestCredit"
	GradientBoostingPrediction  AnalysisType = "gradientBoostingPrediction"
	FinancialClustering         AnalysisType = "financialClustering"
	AutoencodersAnomaly         AnalysisType = "autoencodersAnomaly"
	SentimentAnalysisAI         AnalysisType = "sentimentAnalysisAI"
	BlockchainAnalytics         AnalysisType = "blockchainAnalytics"
)

type typeInfo struct {
	typ      AnalysisType
	category Category
	name     string
	nameEn   string
}

// typeTable is the catalog in declaration order.
var typeTable = []typeInfo{
	{VerticalAnalysis, CategoryStructural, "التحليل الرأسي", "Vertical Analysis"},
	{HorizontalAnalysis, CategoryStructural, "التحليل الأفقي", "Horizontal Analysis"},
	{MixedAnalysis, CategoryStructural, "التحليل المختلط", "Mixed Analysis"},
	{TrendAnalysis, CategoryStructural, "تحليل الاتجاه", "Trend Analysis"},
	{BasicComparative, CategoryStructural, "التحليل المقارن الأساسي", "Basic Comparative Analysis"},
	{ValueAddedAnalysis, CategoryStructural, "تحليل القيمة المضافة", "Value Added Analysis"},
	{CommonSizeAnalysis, CategoryStructural, "تحليل القوائم ذات الحجم الموحد", "Common Size Analysis"},
	{SimpleTimeSeries, CategoryStructural, "تحليل السلاسل الزمنية البسيط", "Simple Time Series"},
	{RelativeChanges, CategoryStructural, "تحليل التغيرات النسبية", "Relative Changes"},
	{GrowthRates, CategoryStructural, "تحليل معدلات النمو", "Growth Rates"},
	{BasicVariance, CategoryStructural, "تحليل الانحرافات الأساسي", "Basic Variance Analysis"},
	{SimpleDeviation, CategoryStructural, "تحليل الانحراف البسيط", "Simple Deviation Analysis"},
	{DifferenceAnalysis, CategoryStructural, "تحليل الفروقات", "Difference Analysis"},
	{ExceptionalItems, CategoryStructural, "تحليل البنود الاستثنائية", "Exceptional Items"},
	{IndexNumbers, CategoryStructural, "تحليل الأرقام القياسية", "Index Numbers"},
	{CurrentRatio, CategoryRatios, "النسبة الجارية", "Current Ratio"},
	{QuickRatio, CategoryRatios, "النسبة السريعة", "Quick Ratio"},
	{CashRatio, CategoryRatios, "نسبة النقد", "Cash Ratio"},
	{OperatingCashFlowRatio, CategoryRatios, "نسبة التدفق النقدي التشغيلي", "Operating Cash Flow Ratio"},
	{WorkingCapitalRatio, CategoryRatios, "نسبة رأس المال العامل", "Working Capital Ratio"},
	{InventoryTurnover, CategoryRatios, "معدل دوران المخزون", "Inventory Turnover"},
	{ReceivablesTurnover, CategoryRatios, "معدل دوران الذمم المدينة", "Receivables Turnover"},
	{DaysReceivable, CategoryRatios, "فترة تحصيل الذمم المدينة", "Days Receivable"},
	{PayablesTurnover, CategoryRatios, "معدل دوران الذمم الدائنة", "Payables Turnover"},
	{DaysPayable, CategoryRatios, "فترة سداد الذمم الدائنة", "Days Payable"},
	{AssetTurnover, CategoryRatios, "معدل دوران إجمالي الأصول", "Total Asset Turnover"},
	{FixedAssetTurnover, CategoryRatios, "معدل دوران الأصول الثابتة", "Fixed Asset Turnover"},
	{OperatingCycle, CategoryRatios, "دورة التشغيل", "Operating Cycle"},
	{CashConversionCycle, CategoryRatios, "دورة التحويل النقدي", "Cash Conversion Cycle"},
	{DebtToAssets, CategoryRatios, "نسبة الدين إلى الأصول", "Debt to Assets"},
	{DebtToEquity, CategoryRatios, "نسبة الدين إلى حقوق الملكية", "Debt to Equity"},
	{InterestCoverage, CategoryRatios, "نسبة تغطية الفوائد", "Interest Coverage"},
	{DebtServiceCoverage, CategoryRatios, "نسبة تغطية خدمة الدين", "Debt Service Coverage"},
	{EquityRatio, CategoryRatios, "نسبة حقوق الملكية", "Equity Ratio"},
	{GrossProfitMargin, CategoryRatios, "هامش الربح الإجمالي", "Gross Profit Margin"},
	{OperatingProfitMargin, CategoryRatios, "هامش الربح التشغيلي", "Operating Profit Margin"},
	{NetProfitMargin, CategoryRatios, "هامش صافي الربح", "Net Profit Margin"},
	{ReturnOnAssets, CategoryRatios, "العائد على الأصول", "Return on Assets"},
	{ReturnOnEquity, CategoryRatios, "العائد على حقوق الملكية", "Return on Equity"},
	{ReturnOnInvestedCapital, CategoryRatios, "العائد على رأس المال المستثمر", "Return on Invested Capital"},
	{PriceEarningsRatio, CategoryRatios, "نسبة السعر إلى الأرباح", "Price to Earnings Ratio"},
	{PriceToBookRatio, CategoryRatios, "نسبة السعر إلى القيمة الدفترية", "Price to Book Ratio"},
	{DividendYield, CategoryRatios, "عائد التوزيعات", "Dividend Yield"},
	{EarningsPerShare, CategoryRatios, "ربحية السهم", "Earnings Per Share"},
	{BookValuePerShare, CategoryRatios, "القيمة الدفترية للسهم", "Book Value Per Share"},
	{BasicCashFlow, CategoryFlow, "تحليل التدفقات النقدية الأساسي", "Basic Cash Flow Analysis"},
	{WorkingCapitalAnalysis, CategoryFlow, "تحليل رأس المال العامل", "Working Capital Analysis"},
	{CashCycle, CategoryFlow, "تحليل الدورة النقدية", "Cash Cycle Analysis"},
	{BreakEvenAnalysis, CategoryFlow, "تحليل نقطة التعادل", "Break-even Analysis"},
	{MarginOfSafety, CategoryFlow, "تحليل هامش الأمان", "Margin of Safety"},
	{CostStructure, CategoryFlow, "تحليل هيكل التكاليف", "Cost Structure Analysis"},
	{FixedVariableCosts, CategoryFlow, "تحليل التكاليف الثابتة والمتغيرة", "Fixed and Variable Costs"},
	{OperatingLeverage, CategoryFlow, "تحليل الرافعة التشغيلية", "Operating Leverage"},
	{ContributionMargin, CategoryFlow, "تحليل هامش المساهمة", "Contribution Margin"},
	{FreeCashFlow, CategoryFlow, "تحليل التدفق النقدي الحر", "Free Cash Flow"},
	{IndustryComparative, CategoryComparative, "التحليل المقارن الصناعي", "Industry Comparative Analysis"},
	{PeerComparative, CategoryComparative, "المقارنة مع المنافسين", "Peer Comparative Analysis"},
	{HistoricalComparative, CategoryComparative, "المقارنة التاريخية", "Historical Comparative Analysis"},
	{Benchmarking, CategoryComparative, "المقارنة المرجعية", "Benchmarking"},
	{GapAnalysis, CategoryComparative, "تحليل الفجوات", "Gap Analysis"},
	{CompetitivePosition, CategoryComparative, "تحليل المركز التنافسي", "Competitive Position"},
	{MarketShare, CategoryComparative, "تحليل الحصة السوقية", "Market Share Analysis"},
	{CompetitiveCapability, CategoryComparative, "تحليل القدرة التنافسية", "Competitive Capability"},
	{FinancialStrengthWeakness, CategoryComparative, "تحليل نقاط القوة والضعف المالية", "Financial Strength and Weakness"},
	{RelativePerformance, CategoryComparative, "تحليل الأداء النسبي", "Relative Performance"},
	{TimeValueOfMoney, CategoryValuation, "القيمة الزمنية للنقود", "Time Value of Money"},
	{NetPresentValue, CategoryValuation, "صافي القيمة الحالية", "Net Present Value"},
	{InternalRateOfReturn, CategoryValuation, "معدل العائد الداخلي", "Internal Rate of Return"},
	{PaybackPeriod, CategoryValuation, "فترة الاسترداد", "Payback Period"},
	{DiscountedCashFlow, CategoryValuation, "التدفقات النقدية المخصومة", "Discounted Cash Flow"},
	{ReturnOnInvestment, CategoryValuation, "العائد على الاستثمار", "Return on Investment"},
	{EconomicValueAdded, CategoryValuation, "القيمة الاقتصادية المضافة", "Economic Value Added"},
	{MarketValueAdded, CategoryValuation, "القيمة السوقية المضافة", "Market Value Added"},
	{GordonGrowthModel, CategoryValuation, "نموذج جوردن للنمو", "Gordon Growth Model"},
	{DividendDiscountModel, CategoryValuation, "نموذج خصم التوزيعات", "Dividend Discount Model"},
	{FairValueAnalysis, CategoryValuation, "تحليل القيمة العادلة", "Fair Value Analysis"},
	{CostBenefitAnalysis, CategoryValuation, "تحليل التكلفة والعائد", "Cost Benefit Analysis"},
	{FinancialFeasibility, CategoryValuation, "دراسة الجدوى المالية", "Financial Feasibility"},
	{ProjectInvestmentAnalysis, CategoryValuation, "تحليل الاستثمار في المشاريع", "Project Investment Analysis"},
	{InvestmentAlternatives, CategoryValuation, "تحليل البدائل الاستثمارية", "Investment Alternatives"},
	{CompanyValuation, CategoryValuation, "تقييم الشركة", "Company Valuation"},
	{DuPontAnalysis, CategoryPerformance, "تحليل دوبونت", "DuPont Analysis"},
	{ProductivityAnalysis, CategoryPerformance, "تحليل الإنتاجية", "Productivity Analysis"},
	{OperationalEfficiency, CategoryPerformance, "تحليل الكفاءة التشغيلية", "Operational Efficiency"},
	{ValueChainAnalysis, CategoryPerformance, "تحليل سلسلة القيمة", "Value Chain Analysis"},
	{ActivityBasedCosting, CategoryPerformance, "التكلفة على أساس النشاط", "Activity Based Costing"},
	{BalancedScorecard, CategoryPerformance, "بطاقة الأداء المتوازن", "Balanced Scorecard"},
	{KeyPerformanceIndicators, CategoryPerformance, "مؤشرات الأداء الرئيسية", "Key Performance Indicators"},
	{CriticalSuccessFactors, CategoryPerformance, "عوامل النجاح الحرجة", "Critical Success Factors"},
	{AdvancedVarianceAnalysis, CategoryPerformance, "تحليل الانحرافات المتقدم", "Advanced Variance Analysis"},
	{DeviationAnalysis, CategoryPerformance, "تحليل الانحراف", "Deviation Analysis"},
	{FlexibilityAnalysis, CategoryPerformance, "تحليل المرونة", "Flexibility Analysis"},
	{SensitivityAnalysis, CategoryPerformance, "تحليل الحساسية", "Sensitivity Analysis"},
	{AdvancedScenarioAnalysis, CategoryModeling, "تحليل السيناريوهات المتقدم", "Advanced Scenario Analysis"},
	{MonteCarloSimulation, CategoryModeling, "محاكاة مونت كارلو", "Monte Carlo Simulation"},
	{ComplexFinancialModeling, CategoryModeling, "النمذجة المالية المعقدة", "Complex Financial Modeling"},
	{MultiVariableSensitivity, CategoryModeling, "تحليل الحساسية متعدد المتغيرات", "Multi-variable Sensitivity"},
	{DecisionTreeAnalysis, CategoryModeling, "تحليل شجرة القرارات", "Decision Tree Analysis"},
	{RealOptionsAnalysis, CategoryModeling, "تحليل الخيارات الحقيقية", "Real Options Analysis"},
	{FinancialForecasting, CategoryModeling, "التنبؤ المالي", "Financial Forecasting"},
	{WhatIfAnalysis, CategoryModeling, "تحليل ماذا لو", "What-if Analysis"},
	{StochasticSimulation, CategoryModeling, "المحاكاة العشوائية", "Stochastic Simulation"},
	{OptimizationModels, CategoryModeling, "نماذج التحسين", "Optimization Models"},
	{LinearProgramming, CategoryModeling, "البرمجة الخطية", "Linear Programming"},
	{DynamicProgramming, CategoryModeling, "البرمجة الديناميكية", "Dynamic Programming"},
	{OptimalAllocation, CategoryModeling, "التخصيص الأمثل", "Optimal Allocation"},
	{GameTheoryAnalysis, CategoryModeling, "تحليل نظرية الألعاب", "Game Theory Analysis"},
	{NetworkAnalysis, CategoryModeling, "تحليل الشبكات", "Network Analysis"},
	{MultipleRegression, CategoryStatistical, "الانحدار المتعدد", "Multiple Regression"},
	{AdvancedTimeSeries, CategoryStatistical, "السلاسل الزمنية المتقدمة", "Advanced Time Series"},
	{ARIMAModels, CategoryStatistical, "نماذج أريما", "ARIMA Models"},
	{GARCHModels, CategoryStatistical, "نماذج جارش", "GARCH Models"},
	{PrincipalComponentAnalysis, CategoryStatistical, "تحليل المكونات الرئيسية", "Principal Component Analysis"},
	{FactorAnalysis, CategoryStatistical, "التحليل العاملي", "Factor Analysis"},
	{ANOVA, CategoryStatistical, "تحليل التباين", "ANOVA"},
	{Cointegration, CategoryStatistical, "التكامل المشترك", "Cointegration"},
	{VARModels, CategoryStatistical, "نماذج متجه الانحدار الذاتي", "VAR Models"},
	{VECMModels, CategoryStatistical, "نماذج تصحيح الخطأ المتجهي", "VECM Models"},
	{CopulaAnalysis, CategoryStatistical, "تحليل الكوبولا", "Copula Analysis"},
	{ExtremeValueTheory, CategoryStatistical, "نظرية القيم المتطرفة", "Extreme Value Theory"},
	{SurvivalAnalysis, CategoryStatistical, "تحليل البقاء", "Survival Analysis"},
	{MarkovModels, CategoryStatistical, "نماذج ماركوف", "Markov Models"},
	{ThresholdAnalysis, CategoryStatistical, "تحليل العتبات", "Threshold Analysis"},
	{RegimeSwitching, CategoryStatistical, "نماذج تبديل الأنظمة", "Regime Switching"},
	{ChaosTheory, CategoryStatistical, "نظرية الفوضى", "Chaos Theory"},
	{FractalAnalysis, CategoryStatistical, "التحليل الكسوري", "Fractal Analysis"},
	{BootstrapAnalysis, CategoryStatistical, "تحليل البوتستراب", "Bootstrap Analysis"},
	{WaveletAnalysis, CategoryStatistical, "تحليل المويجات", "Wavelet Analysis"},
	{ModernPortfolioTheory, CategoryPortfolio, "نظرية المحفظة الحديثة", "Modern Portfolio Theory"},
	{CAPM, CategoryPortfolio, "نموذج تسعير الأصول الرأسمالية", "CAPM"},
	{ArbitragePricingTheory, CategoryPortfolio, "نظرية تسعير المراجحة", "Arbitrage Pricing Theory"},
	{FamaFrenchModel, CategoryPortfolio, "نموذج فاما فرنش", "Fama-French Model"},
	{BetaAnalysis, CategoryPortfolio, "تحليل بيتا", "Beta Analysis"},
	{AlphaAnalysis, CategoryPortfolio, "تحليل ألفا", "Alpha Analysis"},
	{ValueAtRisk, CategoryPortfolio, "القيمة المعرضة للخطر", "Value at Risk"},
	{ExpectedShortfall, CategoryPortfolio, "العجز المتوقع", "Expected Shortfall"},
	{StressTesting, CategoryPortfolio, "اختبارات الضغط", "Stress Testing"},
	{CatastrophicScenarios, CategoryPortfolio, "السيناريوهات الكارثية", "Catastrophic Scenarios"},
	{OperationalRisk, CategoryPortfolio, "المخاطر التشغيلية", "Operational Risk"},
	{MarketRisk, CategoryPortfolio, "مخاطر السوق", "Market Risk"},
	{CreditRisk, CategoryPortfolio, "مخاطر الائتمان", "Credit Risk"},
	{LiquidityRisk, CategoryPortfolio, "مخاطر السيولة", "Liquidity Risk"},
	{CyberRisk, CategoryPortfolio, "المخاطر السيبرانية", "Cyber Risk"},
	{GeopoliticalRisk, CategoryPortfolio, "المخاطر الجيوسياسية", "Geopolitical Risk"},
	{EnvironmentalRisk, CategoryPortfolio, "المخاطر البيئية", "Environmental Risk"},
	{GovernanceAnalysis, CategoryPortfolio, "تحليل الحوكمة", "Governance Analysis"},
	{SocialResponsibility, CategoryPortfolio, "المسؤولية الاجتماعية", "Social Responsibility"},
	{LegalAssessment, CategoryPortfolio, "التقييم القانوني", "Legal Assessment"},
	{CreditRiskModels, CategoryPortfolio, "نماذج مخاطر الائتمان", "Credit Risk Models"},
	{ConcentrationDiversification, CategoryPortfolio, "التركز والتنويع", "Concentration and Diversification"},
	{DynamicCorrelation, CategoryPortfolio, "الارتباط الديناميكي", "Dynamic Correlation"},
	{RiskParity, CategoryPortfolio, "تعادل المخاطر", "Risk Parity"},
	{DrawdownAnalysis, CategoryPortfolio, "تحليل التراجع", "Drawdown Analysis"},
	{ICAAP, CategoryPortfolio, "عملية تقييم كفاية رأس المال الداخلي", "ICAAP"},
	{BaselIII, CategoryPortfolio, "متطلبات بازل 3", "Basel III"},
	{Backtesting, CategoryPortfolio, "الاختبار الرجعي", "Backtesting"},
	{MergersAcquisitions, CategoryPortfolio, "تحليل الاندماج والاستحواذ", "Mergers and Acquisitions"},
	{LeveragedBuyouts, CategoryPortfolio, "الاستحواذ بالرافعة المالية", "Leveraged Buyouts"},
	{IPOAnalysis, CategoryPortfolio, "تحليل الطرح العام الأولي", "IPO Analysis"},
	{SpinOffAnalysis, CategoryPortfolio, "تحليل الانفصال", "Spin-off Analysis"},
	{RestructuringAnalysis, CategoryPortfolio, "تحليل إعادة الهيكلة", "Restructuring Analysis"},
	{BankruptcyAnalysis, CategoryPortfolio, "تحليل الإفلاس", "Bankruptcy Analysis"},
	{ForensicFinancialAnalysis, CategoryPortfolio, "التحليل المالي الجنائي", "Forensic Financial Analysis"},
	{AIFraudDetection, CategoryDetection, "كشف الاحتيال الذكي", "AI Fraud Detection"},
	{MoneyLaunderingDetection, CategoryDetection, "كشف غسل الأموال", "Money Laundering Detection"},
	{MarketManipulationDetection, CategoryDetection, "كشف التلاعب بالسوق", "Market Manipulation Detection"},
	{BankruptcyPrediction, CategoryDetection, "التنبؤ بالإفلاس", "Bankruptcy Prediction"},
	{CrisisPrediction, CategoryDetection, "التنبؤ بالأزمات", "Crisis Prediction"},
	{RealTimeAnomalyDetection, CategoryDetection, "كشف الشذوذ اللحظي", "Real-time Anomaly Detection"},
	{MarketVolatilityPrediction, CategoryDetection, "التنبؤ بتقلبات السوق", "Market Volatility Prediction"},
	{EarlyWarningModels, CategoryDetection, "نماذج الإنذار المبكر", "Early Warning Models"},
	{IntelligentBehaviorAnalysis, CategoryDetection, "التحليل السلوكي الذكي", "Intelligent Behavior Analysis"},
	{ExplainableAI, CategoryDetection, "الذكاء الاصطناعي القابل للتفسير", "Explainable AI"},
	{NeuralNetworkForecasting, CategoryDetection, "التنبؤ بالشبكات العصبية", "Neural Network Forecasting"},
	{LSTMTimeSeries, CategoryDetection, "السلاسل الزمنية بنماذج LSTM", "LSTM Time Series"},
	{RandomForestCredit, CategoryDetection, "الغابات العشوائية للائتمان", "Random Forest Credit"},
	{GradientBoostingPrediction, CategoryDetection, "التنبؤ بالتعزيز التدرجي", "Gradient Boosting Prediction"},
	{FinancialClustering, CategoryDetection, "التجميع المالي", "Financial Clustering"},
	{AutoencodersAnomaly, CategoryDetection, "كشف الشذوذ بالمشفرات التلقائية", "Autoencoders Anomaly Detection"},
	{SentimentAnalysisAI, CategoryDetection, "تحليل المشاعر الذكي", "AI Sentiment Analysis"},
	{BlockchainAnalytics, CategoryDetection, "تحليلات البلوك تشين", "Blockchain Analytics"},
}
