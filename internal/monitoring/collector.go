// Package monitoring summarises recent analysis runs and raises alerts when
// they look unhealthy.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/store"
)

// MetricsSnapshot holds a point-in-time view of run health.
type MetricsSnapshot struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Running   int `json:"running"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Cancelled int `json:"cancelled"`

	// FailRate is failed / (completed + failed).
	FailRate        float64 `json:"fail_rate"`
	AvgProgress     float64 `json:"avg_progress"`
	AvgRatingScore  float64 `json:"avg_rating_score"`
	AvgAnalyses     float64 `json:"avg_analyses_per_run"`
	AvgDurationSecs float64 `json:"avg_duration_secs"`

	// Stale counts active runs with no update within the stale window.
	Stale int `json:"stale"`

	BySector map[string]int `json:"by_sector"`

	LookbackHours int       `json:"lookback_hours"`
	CollectedAt   time.Time `json:"collected_at"`
}

// Finished returns the number of completed plus failed runs.
func (s *MetricsSnapshot) Finished() int {
	return s.Completed + s.Failed
}

// RunLister is the part of store.Store the collector needs.
type RunLister interface {
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error)
}

// Collector gathers metrics from the run store.
type Collector struct {
	runs       RunLister
	staleAfter time.Duration
	now        func() time.Time
}

// NewCollector creates a metrics collector. Active runs untouched for
// staleAfter are counted as stale; zero disables the check.
func NewCollector(runs RunLister, staleAfter time.Duration) *Collector {
	return &Collector{runs: runs, staleAfter: staleAfter, now: time.Now}
}

// Collect gathers a snapshot over the given lookback window.
func (c *Collector) Collect(ctx context.Context, lookbackHours int) (*MetricsSnapshot, error) {
	now := c.now().UTC()
	snap := &MetricsSnapshot{
		BySector:      map[string]int{},
		LookbackHours: lookbackHours,
		CollectedAt:   now,
	}

	runs, err := c.runs.ListRuns(ctx, store.RunFilter{
		Since: now.Add(-time.Duration(lookbackHours) * time.Hour),
		Limit: 10000,
	})
	if err != nil {
		return nil, eris.Wrap(err, "monitoring: list runs")
	}

	var progress, score, analyses, duration float64
	var scored, completed int
	for _, r := range runs {
		snap.Total++
		snap.BySector[r.Company.Sector]++
		progress += float64(r.Progress)

		switch r.Status {
		case model.RunStatusPending:
			snap.Pending++
		case model.RunStatusRunning:
			snap.Running++
		case model.RunStatusCompleted:
			snap.Completed++
		case model.RunStatusFailed:
			snap.Failed++
		case model.RunStatusCancelled:
			snap.Cancelled++
		}

		if !r.Status.Terminal() && c.staleAfter > 0 && now.Sub(r.LastUpdated) > c.staleAfter {
			snap.Stale++
		}

		if r.Status != model.RunStatusCompleted {
			continue
		}
		completed++
		analyses += float64(len(r.Results))
		if r.CompletedAt != nil {
			duration += r.CompletedAt.Sub(r.CreatedAt).Seconds()
		}
		if r.ExecutiveSummary != nil && r.ExecutiveSummary.Overview.TotalAnalyses > 0 {
			score += r.ExecutiveSummary.Overview.OverallRatings.Average
			scored++
		}
	}

	if snap.Total > 0 {
		snap.AvgProgress = progress / float64(snap.Total)
	}
	if f := snap.Finished(); f > 0 {
		snap.FailRate = float64(snap.Failed) / float64(f)
	}
	if completed > 0 {
		snap.AvgAnalyses = analyses / float64(completed)
		snap.AvgDurationSecs = duration / float64(completed)
	}
	if scored > 0 {
		snap.AvgRatingScore = score / float64(scored)
	}
	return snap, nil
}
