package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
)

func TestThrottledReporter_DropsFastProgress(t *testing.T) {
	st := newMemStore()
	tr := NewThrottledReporter(st, time.Second)
	now := testNow
	tr.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, tr.UpdateRun(ctx, "r", model.ProgressPatch(10, "a")))
	require.NoError(t, tr.UpdateRun(ctx, "r", model.ProgressPatch(20, "a")))
	require.NoError(t, tr.UpdateRun(ctx, "r", model.ProgressPatch(30, "b")))
	now = now.Add(500 * time.Millisecond)
	require.NoError(t, tr.UpdateRun(ctx, "r", model.ProgressPatch(40, "b")))
	now = now.Add(time.Second)
	require.NoError(t, tr.UpdateRun(ctx, "r", model.ProgressPatch(50, "b")))
	require.NoError(t, tr.UpdateRun(ctx, "r", model.StatusPatch(model.RunStatusCompleted)))

	assert.Equal(t, []int{10, 50}, st.progressValues())
	assert.Len(t, st.patches, 3)
	assert.Empty(t, tr.runs, "terminal write clears state")
}

func TestThrottledReporter_StatusAlwaysForwarded(t *testing.T) {
	st := newMemStore()
	tr := NewThrottledReporter(st, time.Hour)
	tr.now = clock
	ctx := context.Background()

	require.NoError(t, tr.UpdateRun(ctx, "r", model.StatusPatch(model.RunStatusRunning)))
	require.NoError(t, tr.UpdateRun(ctx, "r", model.ProgressPatch(20, "a")))
	msg := "boom"
	require.NoError(t, tr.UpdateRun(ctx, "r", model.RunPatch{Error: &msg}))
	require.NoError(t, tr.UpdateRun(ctx, "r", model.StatusPatch(model.RunStatusFailed)))

	require.Len(t, st.patches, 3)
	assert.Nil(t, st.patches[1].Progress)
	assert.Equal(t, "boom", *st.patches[1].Error)
}

func TestThrottledReporter_ZeroIntervalForwardsAll(t *testing.T) {
	st := newMemStore()
	tr := NewThrottledReporter(st, 0)
	for i := 1; i <= 5; i++ {
		require.NoError(t, tr.UpdateRun(context.Background(), "r", model.ProgressPatch(i*10, "same")))
	}
	assert.Len(t, st.patches, 5)
}

func TestThrottledReporter_RunsIndependent(t *testing.T) {
	st := newMemStore()
	tr := NewThrottledReporter(st, time.Hour)
	tr.now = clock
	require.NoError(t, tr.UpdateRun(context.Background(), "a", model.ProgressPatch(10, "x")))
	require.NoError(t, tr.UpdateRun(context.Background(), "b", model.ProgressPatch(10, "x")))
	assert.Len(t, st.patches, 2)
}

func TestMultiReporter_CallsAllAndCombinesErrors(t *testing.T) {
	a, b := newMemStore(), newMemStore()
	bad := &mockReporter{}
	bad.On("UpdateRun", context.Background(), "r", model.StatusPatch(model.RunStatusRunning)).Return(errors.New("sink down"))

	m := MultiReporter{a, bad, b, LogReporter{}, NopReporter{}}
	err := m.UpdateRun(context.Background(), "r", model.StatusPatch(model.RunStatusRunning))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sink down")
	assert.Len(t, a.patches, 1)
	assert.Len(t, b.patches, 1)
	bad.AssertExpectations(t)

	assert.NoError(t, MultiReporter{a, b}.UpdateRun(context.Background(), "r", model.ProgressPatch(5, "s")))
}
