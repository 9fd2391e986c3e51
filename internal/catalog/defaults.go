package catalog

import "github.com/sells-group/finanalysis/internal/model"

// DefaultBenchmarks returns the reference values the analyses fall back to
// when no industry figure is available. Providers layer sector data on top.
func DefaultBenchmarks() model.Benchmarks {
	bm := model.Benchmarks{
		"riskFreeRate":       riskFreeRate,
		"marketRiskPremium":  marketRiskPremium,
		"beta":               1,
		"revenueGrowth":      industryGrowth,
		"volatility":         0.3,
		"assetVolatility":    0.25,
		"priceEarningsRatio": assumedPE,
		"priceToBook":        2,
		"evToEbitda":         defaultEVToEBITDA,
		"grossProfitMargin":  0.3,
		"rdIntensity":        0.03,
		"cashToAssets":       0.1,
		"totalAssetTurnover": 1,
	}
	for _, d := range ratioDefs {
		if d.benchKey == "" {
			continue
		}
		if _, ok := bm[d.benchKey]; !ok {
			bm[d.benchKey] = d.bench
		}
	}
	return bm
}
