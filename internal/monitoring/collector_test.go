package monitoring

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/store"
)

// fakeRuns filters like the real stores do for Since.
type fakeRuns struct {
	runs []model.Run
	err  error
}

func (f *fakeRuns) ListRuns(_ context.Context, filter store.RunFilter) ([]model.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Run
	for _, r := range f.runs {
		if !filter.Since.IsZero() && r.CreatedAt.Before(filter.Since) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestCollector(runs RunLister, stale time.Duration) *Collector {
	c := NewCollector(runs, stale)
	c.now = func() time.Time { return testNow }
	return c
}

func completedRun(id, sector string, results int, avg float64, took time.Duration) model.Run {
	created := testNow.Add(-time.Hour)
	done := created.Add(took)
	return model.Run{
		ID:          id,
		Company:     model.Company{Sector: sector},
		Status:      model.RunStatusCompleted,
		Progress:    100,
		Results:     make([]model.AnalysisResult, results),
		CreatedAt:   created,
		LastUpdated: done,
		CompletedAt: &done,
		ExecutiveSummary: &model.ExecutiveSummary{Overview: model.Overview{
			TotalAnalyses:  results,
			OverallRatings: model.OverallRatings{Average: avg},
		}},
	}
}

func TestCollector_Empty(t *testing.T) {
	snap, err := newTestCollector(&fakeRuns{}, 0).Collect(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Total)
	assert.Zero(t, snap.FailRate)
	assert.Zero(t, snap.AvgProgress)
	assert.Equal(t, 24, snap.LookbackHours)
	assert.Equal(t, testNow, snap.CollectedAt)
}

func TestCollector_Metrics(t *testing.T) {
	runs := &fakeRuns{runs: []model.Run{
		completedRun("1", "industrial", 4, 4, 10*time.Second),
		completedRun("2", "retail", 2, 3, 30*time.Second),
		{ID: "3", Company: model.Company{Sector: "retail"}, Status: model.RunStatusFailed, Progress: 10, CreatedAt: testNow.Add(-2 * time.Hour), LastUpdated: testNow.Add(-2 * time.Hour)},
		{ID: "4", Company: model.Company{Sector: "energy"}, Status: model.RunStatusRunning, Progress: 40, CreatedAt: testNow.Add(-3 * time.Hour), LastUpdated: testNow.Add(-2 * time.Hour)},
		{ID: "5", Company: model.Company{Sector: "energy"}, Status: model.RunStatusPending, CreatedAt: testNow.Add(-time.Minute), LastUpdated: testNow.Add(-time.Minute)},
		{ID: "6", Status: model.RunStatusCancelled, Progress: 50, CreatedAt: testNow.Add(-5 * time.Hour), LastUpdated: testNow.Add(-5 * time.Hour)},
		{ID: "old", Status: model.RunStatusFailed, CreatedAt: testNow.Add(-72 * time.Hour)},
	}}

	snap, err := newTestCollector(runs, 30*time.Minute).Collect(context.Background(), 24)
	require.NoError(t, err)

	assert.Equal(t, 6, snap.Total)
	assert.Equal(t, 2, snap.Completed)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 1, snap.Running)
	assert.Equal(t, 1, snap.Pending)
	assert.Equal(t, 1, snap.Cancelled)
	assert.Equal(t, 3, snap.Finished())
	assert.InDelta(t, 1.0/3.0, snap.FailRate, 1e-9)
	assert.InDelta(t, 300.0/6.0, snap.AvgProgress, 1e-9)
	assert.InDelta(t, 3.0, snap.AvgAnalyses, 1e-9)
	assert.InDelta(t, 3.5, snap.AvgRatingScore, 1e-9)
	assert.InDelta(t, 20.0, snap.AvgDurationSecs, 1e-9)
	assert.Equal(t, 1, snap.Stale, "only the running run is past the stale window")
	assert.Equal(t, 2, snap.BySector["retail"])
	assert.Equal(t, 2, snap.BySector["energy"])
}

func TestCollector_CompletedWithoutAnalysesNotScored(t *testing.T) {
	r := completedRun("1", "x", 0, 0, time.Second)
	snap, err := newTestCollector(&fakeRuns{runs: []model.Run{r}}, 0).Collect(context.Background(), 24)
	require.NoError(t, err)
	assert.Zero(t, snap.AvgRatingScore)
}

func TestCollector_ListError(t *testing.T) {
	_, err := newTestCollector(&fakeRuns{err: errors.New("db down")}, 0).Collect(context.Background(), 24)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitoring: list runs")
}
