package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sells-group/finanalysis/internal/model"
)

// Reporter persists partial updates to a run record. The runner treats
// progress writes as best effort and waits for the terminal write.
type Reporter interface {
	UpdateRun(ctx context.Context, runID string, patch model.RunPatch) error
}

// NopReporter discards every update.
type NopReporter struct{}

// UpdateRun implements Reporter.
func (NopReporter) UpdateRun(context.Context, string, model.RunPatch) error { return nil }

// LogReporter writes updates to the global zap logger at debug level.
type LogReporter struct{}

// UpdateRun implements Reporter.
func (LogReporter) UpdateRun(_ context.Context, runID string, p model.RunPatch) error {
	fields := []zap.Field{zap.String("run_id", runID)}
	if p.Progress != nil {
		fields = append(fields, zap.Int("progress", *p.Progress))
	}
	if p.CurrentStep != nil {
		fields = append(fields, zap.String("step", *p.CurrentStep))
	}
	if p.Status != nil {
		fields = append(fields, zap.String("status", string(*p.Status)))
	}
	if p.Error != nil {
		fields = append(fields, zap.String("error", *p.Error))
	}
	zap.L().Debug("engine: run update", fields...)
	return nil
}

// MultiReporter fans each update out to every sink. All sinks are called
// even when one fails; the errors are combined.
type MultiReporter []Reporter

// UpdateRun implements Reporter.
func (m MultiReporter) UpdateRun(ctx context.Context, runID string, p model.RunPatch) error {
	var err error
	for _, r := range m {
		err = multierr.Append(err, r.UpdateRun(ctx, runID, p))
	}
	return err
}

// ThrottledReporter drops progress updates that arrive within Interval of
// the last forwarded update for the same run, whatever their step text. The
// first update of a run is forwarded, as is any update carrying a status,
// results, a summary, an error or a completion time.
type ThrottledReporter struct {
	next     Reporter
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	runs map[string]time.Time // last forwarded update per run
}

// NewThrottledReporter wraps next. A non-positive interval forwards
// everything.
func NewThrottledReporter(next Reporter, interval time.Duration) *ThrottledReporter {
	return &ThrottledReporter{
		next:     next,
		interval: interval,
		now:      time.Now,
		runs:     make(map[string]time.Time),
	}
}

// UpdateRun implements Reporter.
func (t *ThrottledReporter) UpdateRun(ctx context.Context, runID string, p model.RunPatch) error {
	if !t.admit(runID, p) {
		return nil
	}
	return t.next.UpdateRun(ctx, runID, p)
}

func (t *ThrottledReporter) admit(runID string, p model.RunPatch) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if p.Status != nil && p.Status.Terminal() {
		delete(t.runs, runID)
		return true
	}

	last, seen := t.runs[runID]
	forward := !seen || t.interval <= 0 ||
		p.Status != nil || p.Results != nil || p.ExecutiveSummary != nil ||
		p.Error != nil || p.CompletedAt != nil ||
		now.Sub(last) >= t.interval
	if !forward {
		return false
	}
	t.runs[runID] = now
	return true
}
