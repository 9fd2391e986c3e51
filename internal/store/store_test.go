package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func acme() model.Company {
	return model.Company{
		Name:            "Acme Trading",
		Sector:          "retail",
		Activity:        "grocery",
		ComparisonLevel: model.ComparisonGCC,
		AnalysisTier:    model.TierBasic,
		Language:        model.LanguageEnglish,
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGetRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, acme())
		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, model.RunStatusPending, run.Status)

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, acme(), got.Company)
		assert.Equal(t, model.RunStatusPending, got.Status)
		assert.Zero(t, got.Progress)
		assert.Empty(t, got.Results)
		assert.Nil(t, got.ExecutiveSummary)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("GetRunNotFound", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetRun(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("UpdateRunNotFound", func(t *testing.T) {
		s := newStore(t)
		err := s.UpdateRun(context.Background(), "missing", model.ProgressPatch(10, "x"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("ProgressIsMonotonic", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		run, err := s.CreateRun(ctx, acme())
		require.NoError(t, err)

		require.NoError(t, s.UpdateRun(ctx, run.ID, model.StatusPatch(model.RunStatusRunning)))
		require.NoError(t, s.UpdateRun(ctx, run.ID, model.ProgressPatch(40, "step b")))
		require.NoError(t, s.UpdateRun(ctx, run.ID, model.ProgressPatch(20, "late step a")))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, got.Progress)
		assert.Equal(t, "late step a", got.CurrentStep)
		assert.Equal(t, model.RunStatusRunning, got.Status)
	})

	t.Run("CompleteRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		run, err := s.CreateRun(ctx, acme())
		require.NoError(t, err)

		done := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
		avg := 1.5
		status := model.RunStatusCompleted
		progress := 100
		patch := model.RunPatch{
			Status:   &status,
			Progress: &progress,
			Results: []model.AnalysisResult{{
				ID: "currentRatio", Type: model.CurrentRatio, Category: model.CategoryRatios,
				Result: 2.0, IndustryAverage: &avg, Rating: model.RatingExcellent,
			}},
			ExecutiveSummary: &model.ExecutiveSummary{
				KeyInsights: []string{"Excellent performance in 1 financial indicators"},
				Overview:    model.Overview{TotalAnalyses: 1},
			},
			CompletedAt: &done,
		}
		require.NoError(t, s.UpdateRun(ctx, run.ID, patch))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusCompleted, got.Status)
		assert.Equal(t, 100, got.Progress)
		require.Len(t, got.Results, 1)
		assert.Equal(t, model.CurrentRatio, got.Results[0].Type)
		assert.Equal(t, 2.0, got.Results[0].Result)
		require.NotNil(t, got.Results[0].IndustryAverage)
		assert.Equal(t, 1.5, *got.Results[0].IndustryAverage)
		require.NotNil(t, got.ExecutiveSummary)
		assert.Equal(t, 1, got.ExecutiveSummary.Overview.TotalAnalyses)
		require.NotNil(t, got.CompletedAt)
		assert.True(t, done.Equal(*got.CompletedAt))

		// Terminal status is sticky.
		require.NoError(t, s.UpdateRun(ctx, run.ID, model.StatusPatch(model.RunStatusFailed)))
		got, err = s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusCompleted, got.Status)
	})

	t.Run("FailRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		run, err := s.CreateRun(ctx, acme())
		require.NoError(t, err)

		msg := "engine: benchmark fetch failed"
		status := model.RunStatusFailed
		require.NoError(t, s.UpdateRun(ctx, run.ID, model.RunPatch{Status: &status, Error: &msg}))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusFailed, got.Status)
		assert.Equal(t, msg, got.Error)
		assert.Empty(t, got.Results)
	})

	t.Run("ListRunsFilters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		r1, err := s.CreateRun(ctx, acme())
		require.NoError(t, err)
		other := acme()
		other.Sector = "manufacturing"
		_, err = s.CreateRun(ctx, other)
		require.NoError(t, err)
		require.NoError(t, s.UpdateRun(ctx, r1.ID, model.StatusPatch(model.RunStatusRunning)))

		all, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)

		running, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusRunning})
		require.NoError(t, err)
		require.Len(t, running, 1)
		assert.Equal(t, r1.ID, running[0].ID)

		mfg, err := s.ListRuns(ctx, RunFilter{Sector: "manufacturing"})
		require.NoError(t, err)
		assert.Len(t, mfg, 1)

		limited, err := s.ListRuns(ctx, RunFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, limited, 1)

		future, err := s.ListRuns(ctx, RunFilter{Since: time.Now().Add(time.Hour)})
		require.NoError(t, err)
		assert.Empty(t, future)
	})

	t.Run("Benchmarks", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		bm, err := s.GetBenchmarks(ctx, "retail", "", model.ComparisonGlobal)
		require.NoError(t, err)
		assert.Nil(t, bm)

		n, err := s.UpsertBenchmarks(ctx, []BenchmarkRow{
			{Sector: "retail", Metric: "currentRatio", Value: 1.5},
			{Sector: "retail", Region: model.ComparisonGCC, Metric: "currentRatio", Value: 1.7},
			{Sector: "retail", Metric: "quickRatio", Value: 0.9},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		_, err = s.UpsertBenchmarks(ctx, []BenchmarkRow{{Sector: "retail", Metric: "currentRatio", Value: 1.6}})
		require.NoError(t, err)

		bm, err = s.GetBenchmarks(ctx, "retail", "", model.ComparisonGlobal)
		require.NoError(t, err)
		assert.Equal(t, model.Benchmarks{"currentRatio": 1.6, "quickRatio": 0.9}, bm)

		gcc, err := s.GetBenchmarks(ctx, "retail", "", model.ComparisonGCC)
		require.NoError(t, err)
		assert.Equal(t, model.Benchmarks{"currentRatio": 1.7}, gcc)

		rows, err := s.ListBenchmarks(ctx, "retail")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
		assert.Equal(t, model.ComparisonGCC, rows[0].Region)

		none, err := s.ListBenchmarks(ctx, "energy")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}
