// Package selector maps an analysis tier to the ordered list of analysis
// types to execute. Tier lists are curated static data; they are not derived
// from one another.
package selector

import (
	"strings"

	"github.com/sells-group/finanalysis/internal/model"
)

var basic = []model.AnalysisType{
	// Structural (15)
	model.VerticalAnalysis,
	model.HorizontalAnalysis,
	model.MixedAnalysis,
	model.TrendAnalysis,
	model.BasicComparative,
	model.ValueAddedAnalysis,
	model.CommonSizeAnalysis,
	model.SimpleTimeSeries,
	model.RelativeChanges,
	model.GrowthRates,
	model.BasicVariance,
	model.SimpleDeviation,
	model.DifferenceAnalysis,
	model.ExceptionalItems,
	model.IndexNumbers,

	// Ratios (30)
	model.CurrentRatio,
	model.QuickRatio,
	model.CashRatio,
	model.OperatingCashFlowRatio,
	model.WorkingCapitalRatio,
	model.InventoryTurnover,
	model.ReceivablesTurnover,
	model.DaysReceivable,
	model.PayablesTurnover,
	model.DaysPayable,
	model.AssetTurnover,
	model.FixedAssetTurnover,
	model.OperatingCycle,
	model.CashConversionCycle,
	model.DebtToAssets,
	model.DebtToEquity,
	model.InterestCoverage,
	model.DebtServiceCoverage,
	model.EquityRatio,
	model.GrossProfitMargin,
	model.OperatingProfitMargin,
	model.NetProfitMargin,
	model.ReturnOnAssets,
	model.ReturnOnEquity,
	model.ReturnOnInvestedCapital,
	model.PriceEarningsRatio,
	model.PriceToBookRatio,
	model.DividendYield,
	model.EarningsPerShare,
	model.BookValuePerShare,

	// Flow (10)
	model.BasicCashFlow,
	model.WorkingCapitalAnalysis,
	model.CashCycle,
	model.BreakEvenAnalysis,
	model.MarginOfSafety,
	model.CostStructure,
	model.FixedVariableCosts,
	model.OperatingLeverage,
	model.ContributionMargin,
	model.FreeCashFlow,
}

var intermediate = []model.AnalysisType{
	// Comparative (10)
	model.IndustryComparative,
	model.PeerComparative,
	model.HistoricalComparative,
	model.Benchmarking,
	model.GapAnalysis,
	model.CompetitivePosition,
	model.MarketShare,
	model.CompetitiveCapability,
	model.FinancialStrengthWeakness,
	model.RelativePerformance,

	// Valuation (16)
	model.TimeValueOfMoney,
	model.NetPresentValue,
	model.InternalRateOfReturn,
	model.PaybackPeriod,
	model.DiscountedCashFlow,
	model.ReturnOnInvestment,
	model.EconomicValueAdded,
	model.MarketValueAdded,
	model.GordonGrowthModel,
	model.DividendDiscountModel,
	model.FairValueAnalysis,
	model.CostBenefitAnalysis,
	model.FinancialFeasibility,
	model.ProjectInvestmentAnalysis,
	model.InvestmentAlternatives,
	model.CompanyValuation,

	// Performance (12)
	model.DuPontAnalysis,
	model.ProductivityAnalysis,
	model.OperationalEfficiency,
	model.ValueChainAnalysis,
	model.ActivityBasedCosting,
	model.BalancedScorecard,
	model.KeyPerformanceIndicators,
	model.CriticalSuccessFactors,
	model.AdvancedVarianceAnalysis,
	model.DeviationAnalysis,
	model.FlexibilityAnalysis,
	model.SensitivityAnalysis,
}

var advanced = []model.AnalysisType{
	// Modeling (15)
	model.AdvancedScenarioAnalysis,
	model.MonteCarloSimulation,
	model.ComplexFinancialModeling,
	model.MultiVariableSensitivity,
	model.DecisionTreeAnalysis,
	model.RealOptionsAnalysis,
	model.FinancialForecasting,
	model.WhatIfAnalysis,
	model.StochasticSimulation,
	model.OptimizationModels,
	model.LinearProgramming,
	model.DynamicProgramming,
	model.OptimalAllocation,
	model.GameTheoryAnalysis,
	model.NetworkAnalysis,

	// Statistical (20)
	model.MultipleRegression,
	model.AdvancedTimeSeries,
	model.ARIMAModels,
	model.GARCHModels,
	model.PrincipalComponentAnalysis,
	model.FactorAnalysis,
	model.ANOVA,
	model.Cointegration,
	model.VARModels,
	model.VECMModels,
	model.CopulaAnalysis,
	model.ExtremeValueTheory,
	model.SurvivalAnalysis,
	model.MarkovModels,
	model.ThresholdAnalysis,
	model.RegimeSwitching,
	model.ChaosTheory,
	model.FractalAnalysis,
	model.BootstrapAnalysis,
	model.WaveletAnalysis,

	// Portfolio and risk (35)
	model.ModernPortfolioTheory,
	model.CAPM,
	model.ArbitragePricingTheory,
	model.FamaFrenchModel,
	model.BetaAnalysis,
	model.AlphaAnalysis,
	model.ValueAtRisk,
	model.ExpectedShortfall,
	model.StressTesting,
	model.CatastrophicScenarios,
	model.OperationalRisk,
	model.MarketRisk,
	model.CreditRisk,
	model.LiquidityRisk,
	model.CyberRisk,
	model.GeopoliticalRisk,
	model.EnvironmentalRisk,
	model.GovernanceAnalysis,
	model.SocialResponsibility,
	model.LegalAssessment,
	model.CreditRiskModels,
	model.ConcentrationDiversification,
	model.DynamicCorrelation,
	model.RiskParity,
	model.DrawdownAnalysis,
	model.ICAAP,
	model.BaselIII,
	model.Backtesting,
	model.MergersAcquisitions,
	model.LeveragedBuyouts,
	model.IPOAnalysis,
	model.SpinOffAnalysis,
	model.RestructuringAnalysis,
	model.BankruptcyAnalysis,
	model.ForensicFinancialAnalysis,

	// Detection and prediction (18)
	model.AIFraudDetection,
	model.MoneyLaunderingDetection,
	model.MarketManipulationDetection,
	model.BankruptcyPrediction,
	model.CrisisPrediction,
	model.RealTimeAnomalyDetection,
	model.MarketVolatilityPrediction,
	model.EarlyWarningModels,
	model.IntelligentBehaviorAnalysis,
	model.ExplainableAI,
	model.NeuralNetworkForecasting,
	model.LSTMTimeSeries,
	model.RandomForestCredit,
	model.GradientBoostingPrediction,
	model.FinancialClustering,
	model.AutoencodersAnomaly,
	model.SentimentAnalysisAI,
	model.BlockchainAnalytics,
}

// Select returns the ordered analysis types for tier. Unknown tiers fall back
// to comprehensive. The returned slice is owned by the caller.
func Select(tier model.Tier) []model.AnalysisType {
	switch tier {
	case model.TierBasic:
		return clone(basic)
	case model.TierIntermediate:
		return clone(intermediate)
	case model.TierAdvanced:
		return clone(advanced)
	default:
		return model.AllAnalysisTypes()
	}
}

// Tiers lists the known tiers.
func Tiers() []model.Tier {
	return []model.Tier{model.TierBasic, model.TierIntermediate, model.TierAdvanced, model.TierComprehensive}
}

// ParseTier normalises user input. It reports false for unrecognised values,
// which Select treats as comprehensive.
func ParseTier(s string) (model.Tier, bool) {
	t := model.Tier(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tiers() {
		if t == known {
			return t, true
		}
	}
	return model.TierComprehensive, false
}

func clone(in []model.AnalysisType) []model.AnalysisType {
	out := make([]model.AnalysisType, len(in))
	copy(out, in)
	return out
}
