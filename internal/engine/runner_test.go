package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/selector"
)

var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func acme(tier model.Tier) model.Company {
	return model.Company{Name: "Acme", Sector: "retail", Activity: "grocery", AnalysisTier: tier}
}

func statement(year int, revenue float64) model.FinancialStatement {
	var s model.FinancialStatement
	s.Year = year
	s.IncomeStatement.Revenue = revenue
	s.IncomeStatement.CostOfGoodsSold = revenue * 0.6
	s.IncomeStatement.GrossProfit = revenue * 0.4
	s.IncomeStatement.OperatingIncome = revenue * 0.25
	s.IncomeStatement.NetIncome = revenue * 0.2
	s.IncomeStatement.SharesOutstanding = 1000
	s.BalanceSheet.CurrentAssets.Cash = revenue * 0.2
	s.BalanceSheet.CurrentAssets.TotalCurrentAssets = revenue * 0.45
	s.BalanceSheet.TotalAssets = revenue
	s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities = revenue * 0.225
	s.BalanceSheet.TotalLiabilities = revenue * 0.4
	s.BalanceSheet.ShareholdersEquity.TotalShareholdersEquity = revenue * 0.6
	s.BalanceSheet.TotalLiabilitiesAndEquity = revenue
	s.CashFlowStatement.OperatingActivities.NetCashFromOperating = revenue * 0.24
	return s
}

func okBenchmarks() *mockBenchmarks {
	bp := &mockBenchmarks{}
	bp.On("Benchmarks", mock.Anything, "retail", "grocery", model.ComparisonGlobal).Return(model.Benchmarks{}, nil)
	return bp
}

func only(types ...model.AnalysisType) Option {
	return WithSelector(func(model.Tier) []model.AnalysisType { return types })
}

func good(t model.AnalysisType) catalog.Func {
	return func([]model.FinancialStatement, model.Company, model.Benchmarks) (*model.AnalysisResult, error) {
		return &model.AnalysisResult{ID: string(t), Type: t, Name: string(t), Category: t.Category(), Rating: model.RatingGood}, nil
	}
}

func failing(msg string) catalog.Func {
	return func([]model.FinancialStatement, model.Company, model.Benchmarks) (*model.AnalysisResult, error) {
		return nil, errors.New(msg)
	}
}

func TestRunner_ScenarioA_SingleYearBasicTier(t *testing.T) {
	st := newMemStore()
	bp := okBenchmarks()
	r := NewRunner(catalog.Default(), bp, st, WithClock(clock))

	rep, err := r.Analyze(context.Background(), "run-a", []model.FinancialStatement{statement(2024, 1000)}, acme(model.TierBasic))
	require.NoError(t, err)

	assert.Len(t, rep.Outcomes, len(selector.Select(model.TierBasic)))
	assert.Len(t, rep.Results, 55)
	for _, res := range rep.Results {
		if res.Type == model.HorizontalAnalysis || res.Type == model.TrendAnalysis {
			assert.Equal(t, model.RatingAcceptable, res.Rating, res.Type)
		}
	}

	run, err := st.GetRun(context.Background(), "run-a")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, 100, run.Progress)
	require.NotNil(t, run.ExecutiveSummary)
	assert.Equal(t, 55, run.ExecutiveSummary.Overview.TotalAnalyses)
	assert.Equal(t, testNow, run.ExecutiveSummary.Company.AnalysisDate)
	require.NotNil(t, run.CompletedAt)
	assert.Equal(t, testNow, *run.CompletedAt)
	bp.AssertExpectations(t)
}

func TestRunner_ScenarioB_CurrentRatio(t *testing.T) {
	s := statement(2024, 1000)
	s.BalanceSheet.CurrentAssets.TotalCurrentAssets = 200
	s.BalanceSheet.CurrentLiabilities.TotalCurrentLiabilities = 100

	r := NewRunner(catalog.Default(), okBenchmarks(), nil, only(model.CurrentRatio))
	results, err := r.Run(context.Background(), "run-b", []model.FinancialStatement{s}, acme(model.TierBasic))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, model.CurrentRatio, results[0].Type)
	assert.Equal(t, model.RatingExcellent, results[0].Rating)
	assert.Contains(t, results[0].Interpretation, "سيولة ممتازة")
}

func TestRunner_ScenarioC_HorizontalGrowth(t *testing.T) {
	stmts := []model.FinancialStatement{statement(2023, 120), statement(2022, 100)}
	r := NewRunner(catalog.Default(), okBenchmarks(), nil, only(model.HorizontalAnalysis))

	results, err := r.Run(context.Background(), "run-c", stmts, acme(model.TierBasic))
	require.NoError(t, err)
	require.Len(t, results, 1)

	out, ok := results[0].Result.(catalog.HorizontalResult)
	require.True(t, ok)
	assert.Equal(t, 2022, out.BaseYear)
	var found bool
	for _, item := range out.IncomeStatement {
		if item.Key == "revenue" {
			found = true
			assert.InDelta(t, 20.0, item.PercentageChange, 1e-9)
			assert.Equal(t, catalog.TrendIncrease, item.Trend)
		}
	}
	assert.True(t, found)
	assert.Equal(t, 1000.0, stmts[1].IncomeStatement.SharesOutstanding, "input left untouched")
	assert.Equal(t, 2023, stmts[0].Year, "input order left untouched")
}

func TestRunner_ScenarioD_AllFail(t *testing.T) {
	st := newMemStore()
	cat := funcCatalog{
		model.CurrentRatio: failing("boom"),
		model.QuickRatio:   failing("bang"),
	}
	r := NewRunner(cat, okBenchmarks(), st, only(model.CurrentRatio, model.QuickRatio, model.CashRatio))

	results, err := r.Run(context.Background(), "run-d", []model.FinancialStatement{statement(2024, 100)}, acme(""))
	require.Error(t, err)
	assert.Empty(t, results)
	assert.True(t, errors.Is(err, ErrAllAnalysesFailed))
	assert.True(t, errors.Is(err, ErrAnalysisExecution))
	assert.True(t, errors.Is(err, ErrAnalysisNotImplemented))

	run, _ := st.GetRun(context.Background(), "run-d")
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, "all analyses failed")
	assert.Empty(t, run.Results)
	assert.Nil(t, run.ExecutiveSummary)
}

func TestRunner_OneFailureLeavesOthers(t *testing.T) {
	for _, par := range []int{1, 4} {
		st := newMemStore()
		cat := funcCatalog{
			model.CurrentRatio: good(model.CurrentRatio),
			model.QuickRatio:   failing("bad"),
			model.CashRatio:    good(model.CashRatio),
			model.DebtToEquity: func([]model.FinancialStatement, model.Company, model.Benchmarks) (*model.AnalysisResult, error) {
				panic("kaboom")
			},
		}
		r := NewRunner(cat, okBenchmarks(), st, WithParallelism(par),
			only(model.CurrentRatio, model.QuickRatio, model.CashRatio, model.DebtToEquity))

		rep, err := r.Analyze(context.Background(), "run-1", []model.FinancialStatement{statement(2024, 100)}, acme(""))
		require.NoError(t, err, "parallelism %d", par)
		require.Len(t, rep.Outcomes, 4)
		require.Len(t, rep.Results, 2)
		assert.Equal(t, model.CurrentRatio, rep.Results[0].Type)
		assert.Equal(t, model.CashRatio, rep.Results[1].Type)
		assert.True(t, errors.Is(rep.Outcomes[1].Err, ErrAnalysisExecution))
		assert.True(t, errors.Is(rep.Outcomes[3].Err, ErrAnalysisExecution))
		assert.Contains(t, rep.Outcomes[3].Err.Error(), "panic")

		run, _ := st.GetRun(context.Background(), "run-1")
		assert.Equal(t, model.RunStatusCompleted, run.Status)
		assert.Len(t, run.Results, 2)
	}
}

func TestRunner_ProgressMonotonicEndsAt100(t *testing.T) {
	types := selector.Select(model.TierIntermediate)
	cat := funcCatalog{}
	for _, at := range types {
		cat[at] = good(at)
	}
	for _, par := range []int{1, 8} {
		st := newMemStore()
		r := NewRunner(cat, okBenchmarks(), st, WithParallelism(par))
		_, err := r.Run(context.Background(), "run-p", []model.FinancialStatement{statement(2024, 100)}, acme(model.TierIntermediate))
		require.NoError(t, err)

		progress := st.progressValues()
		require.NotEmpty(t, progress)
		assert.Equal(t, 10, progress[0])
		for i := 1; i < len(progress); i++ {
			assert.GreaterOrEqual(t, progress[i], progress[i-1], "parallelism %d step %d", par, i)
		}
		assert.Equal(t, 100, progress[len(progress)-1])
		// One benchmark step, one per analysis, the summary step and the final write.
		assert.Len(t, progress, len(types)+3)
	}
}

func TestRunner_ProgressSteps(t *testing.T) {
	st := newMemStore()
	cat := funcCatalog{model.CurrentRatio: good(model.CurrentRatio), model.QuickRatio: good(model.QuickRatio)}
	r := NewRunner(cat, okBenchmarks(), st, only(model.CurrentRatio, model.QuickRatio))
	_, err := r.Run(context.Background(), "run-s", []model.FinancialStatement{statement(2024, 100)}, acme(""))
	require.NoError(t, err)

	steps := st.steps()
	require.GreaterOrEqual(t, len(steps), 3)
	assert.Equal(t, "جاري جلب معايير الصناعة...", steps[0])
	assert.Equal(t, "جاري تنفيذ "+model.CurrentRatio.DisplayName(model.LanguageArabic)+"...", steps[1])
	assert.Equal(t, []int{10, 55, 100, 100, 100}, st.progressValues())

	en := newMemStore()
	c := acme("")
	c.Language = model.LanguageEnglish
	r = NewRunner(cat, okBenchmarks(), en, only(model.CurrentRatio))
	_, err = r.Run(context.Background(), "run-e", []model.FinancialStatement{statement(2024, 100)}, c)
	require.NoError(t, err)
	assert.Equal(t, "Fetching industry benchmarks...", en.steps()[0])
	assert.True(t, strings.HasPrefix(en.steps()[1], "Running "))
}

func TestRunner_BenchmarkFailure(t *testing.T) {
	st := newMemStore()
	bp := &mockBenchmarks{}
	bp.On("Benchmarks", mock.Anything, "retail", "grocery", model.ComparisonGCC).Return(nil, errors.New("db down"))

	c := acme(model.TierBasic)
	c.ComparisonLevel = model.ComparisonGCC
	r := NewRunner(catalog.Default(), bp, st)
	results, err := r.Run(context.Background(), "run-bf", []model.FinancialStatement{statement(2024, 100)}, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBenchmarkFetch))
	assert.Empty(t, results)

	run, _ := st.GetRun(context.Background(), "run-bf")
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Empty(t, run.Results)
	assert.Contains(t, run.Error, "db down")
	bp.AssertExpectations(t)
}

func TestRunner_AggregationFailure(t *testing.T) {
	st := newMemStore()
	cat := funcCatalog{
		model.CurrentRatio: func([]model.FinancialStatement, model.Company, model.Benchmarks) (*model.AnalysisResult, error) {
			return &model.AnalysisResult{Type: model.CurrentRatio, Rating: "stellar"}, nil
		},
	}
	r := NewRunner(cat, okBenchmarks(), st, only(model.CurrentRatio))
	_, err := r.Run(context.Background(), "run-agg", []model.FinancialStatement{statement(2024, 100)}, acme(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAggregation))

	run, _ := st.GetRun(context.Background(), "run-agg")
	assert.Equal(t, model.RunStatusFailed, run.Status)
}

func TestRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	st := newMemStore()
	calls := 0
	cat := funcCatalog{
		model.CurrentRatio: func(s []model.FinancialStatement, c model.Company, b model.Benchmarks) (*model.AnalysisResult, error) {
			calls++
			cancel()
			return good(model.CurrentRatio)(s, c, b)
		},
		model.QuickRatio: func(s []model.FinancialStatement, c model.Company, b model.Benchmarks) (*model.AnalysisResult, error) {
			calls++
			return good(model.QuickRatio)(s, c, b)
		},
	}
	r := NewRunner(cat, okBenchmarks(), st, only(model.CurrentRatio, model.QuickRatio))
	_, err := r.Run(ctx, "run-x", []model.FinancialStatement{statement(2024, 100)}, acme(""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCancelled))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)

	run, _ := st.GetRun(context.Background(), "run-x")
	assert.Equal(t, model.RunStatusCancelled, run.Status)
}

func TestRunner_ProgressWriteFailureIgnored(t *testing.T) {
	rep := &mockReporter{}
	rep.On("UpdateRun", mock.Anything, "run-w", mock.MatchedBy(func(p model.RunPatch) bool {
		return p.Status == nil || !p.Status.Terminal()
	})).Return(errors.New("store busy"))
	rep.On("UpdateRun", mock.Anything, "run-w", mock.MatchedBy(func(p model.RunPatch) bool {
		return p.Status != nil && *p.Status == model.RunStatusCompleted
	})).Return(nil).Once()

	r := NewRunner(funcCatalog{model.CurrentRatio: good(model.CurrentRatio)}, okBenchmarks(), rep, only(model.CurrentRatio))
	results, err := r.Run(context.Background(), "run-w", []model.FinancialStatement{statement(2024, 100)}, acme(""))
	require.NoError(t, err)
	assert.Len(t, results, 1)
	rep.AssertExpectations(t)
}

func TestRunner_FinalWriteFailure(t *testing.T) {
	st := newMemStore()
	st.failOn = func(p model.RunPatch) error {
		if p.Status != nil && *p.Status == model.RunStatusCompleted {
			return errors.New("disk full")
		}
		return nil
	}
	r := NewRunner(funcCatalog{model.CurrentRatio: good(model.CurrentRatio)}, okBenchmarks(), st, only(model.CurrentRatio))
	_, err := r.Run(context.Background(), "run-f", []model.FinancialStatement{statement(2024, 100)}, acme(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	run, err := st.GetRun(context.Background(), "run-f")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.Contains(t, run.Error, "write final state")
	assert.NotNil(t, run.CompletedAt)
}

func TestRunner_ThrottledProgress(t *testing.T) {
	types := selector.Select(model.TierIntermediate)
	cat := funcCatalog{}
	for _, typ := range types {
		cat[typ] = good(typ)
	}
	st := newMemStore()
	r := NewRunner(cat, okBenchmarks(), NewThrottledReporter(st, time.Hour))

	results, err := r.Run(context.Background(), "run-t", []model.FinancialStatement{statement(2024, 100)}, acme(model.TierIntermediate))
	require.NoError(t, err)
	require.Len(t, results, len(types))

	assert.Less(t, len(st.patches), len(types))
	assert.Less(t, len(st.progressValues()), len(types))

	run, err := st.GetRun(context.Background(), "run-t")
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, 100, run.Progress)
	assert.NotNil(t, run.ExecutiveSummary)
}

func TestSuccessesAndFailures(t *testing.T) {
	res := &model.AnalysisResult{Type: model.CurrentRatio}
	boom := errors.New("boom")
	outcomes := []Outcome{
		{Type: model.CurrentRatio, Result: res},
		{Type: model.QuickRatio, Err: boom},
	}
	assert.Equal(t, []model.AnalysisResult{*res}, Successes(outcomes))
	assert.Equal(t, []error{boom}, Failures(outcomes))
	assert.Empty(t, Successes(nil))
	assert.NotNil(t, Successes(nil))
}

func TestStepProgress(t *testing.T) {
	assert.Equal(t, 100, stepProgress(0, 0))
	assert.Equal(t, 10+45, stepProgress(1, 2))
	assert.Equal(t, 100, stepProgress(3, 3))
	assert.Equal(t, 12, stepProgress(1, 55))
}
