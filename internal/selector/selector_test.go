package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
)

func TestSelect_TierSizes(t *testing.T) {
	tests := []struct {
		tier model.Tier
		want int
	}{
		{model.TierBasic, 55},
		{model.TierIntermediate, 38},
		{model.TierAdvanced, 88},
		{model.TierComprehensive, 181},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			assert.Len(t, Select(tt.tier), tt.want)
		})
	}
}

func TestSelect_NonEmptyAndDuplicateFree(t *testing.T) {
	for _, tier := range append(Tiers(), model.Tier("bogus")) {
		got := Select(tier)
		require.NotEmpty(t, got, "tier %s", tier)

		seen := map[model.AnalysisType]bool{}
		for _, at := range got {
			assert.False(t, seen[at], "tier %s repeats %s", tier, at)
			assert.True(t, at.Known(), "tier %s has unknown type %s", tier, at)
			seen[at] = true
		}
	}
}

func TestSelect_ComprehensiveIsDeclarationOrder(t *testing.T) {
	assert.Equal(t, model.AllAnalysisTypes(), Select(model.TierComprehensive))
}

func TestSelect_UnknownFallsBackToComprehensive(t *testing.T) {
	assert.Equal(t, Select(model.TierComprehensive), Select("premium"))
	assert.Equal(t, Select(model.TierComprehensive), Select(""))
}

func TestSelect_BasicOrdering(t *testing.T) {
	got := Select(model.TierBasic)
	assert.Equal(t, model.VerticalAnalysis, got[0])
	assert.Equal(t, model.HorizontalAnalysis, got[1])
	assert.Equal(t, model.CurrentRatio, got[15])
	assert.Equal(t, model.FreeCashFlow, got[54])
}

func TestSelect_CallerOwnsSlice(t *testing.T) {
	first := Select(model.TierBasic)
	first[0] = model.BlockchainAnalytics
	assert.Equal(t, model.VerticalAnalysis, Select(model.TierBasic)[0])
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" Basic ")
	assert.True(t, ok)
	assert.Equal(t, model.TierBasic, tier)

	tier, ok = ParseTier("gold")
	assert.False(t, ok)
	assert.Equal(t, model.TierComprehensive, tier)
}
