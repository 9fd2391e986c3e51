package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/config"
	"github.com/sells-group/finanalysis/internal/model"
)

func TestChecker_Check(t *testing.T) {
	cfg := config.MonitoringConfig{FailureRateThreshold: 0.2, LookbackWindowHours: 24, StaleRunMins: 30}
	var runs []model.Run
	for i := range 5 {
		status := model.RunStatusFailed
		if i == 0 {
			status = model.RunStatusCompleted
		}
		runs = append(runs, model.Run{Status: status, CreatedAt: testNow.Add(-time.Hour)})
	}

	c := NewChecker(newTestCollector(&fakeRuns{runs: runs}, 30*time.Minute), NewAlerter(cfg), cfg)
	alerts := c.Check(context.Background())
	require.Len(t, alerts, 1)
	assert.Equal(t, AlertFailureRate, alerts[0].Type)
}

func TestChecker_CheckCollectError(t *testing.T) {
	cfg := config.MonitoringConfig{}
	c := NewChecker(newTestCollector(&fakeRuns{err: assert.AnError}, 0), NewAlerter(cfg), cfg)
	assert.Nil(t, c.Check(context.Background()))
}

func TestChecker_RunStopsOnCancel(t *testing.T) {
	cfg := config.MonitoringConfig{CheckIntervalSecs: 1, LookbackWindowHours: 24}
	checker := NewChecker(NewCollector(&fakeRuns{}, 0), NewAlerter(cfg), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		checker.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("checker did not stop after cancel")
	}
}
