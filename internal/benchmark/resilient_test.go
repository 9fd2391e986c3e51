package benchmark

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/resilience"
)

func quickPolicy() resilience.Policy {
	return resilience.Policy{Retry: resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}}
}

func TestResilient_RetriesTransient(t *testing.T) {
	next := new(mockProvider)
	next.On("Benchmarks", mock.Anything, "energy", "", model.ComparisonGlobal).
		Return(nil, resilience.Transient(errors.New("busy"))).Once()
	next.On("Benchmarks", mock.Anything, "energy", "", model.ComparisonGlobal).
		Return(model.Benchmarks{"beta": 1.2}, nil).Once()

	r := NewResilient(next, quickPolicy(), 0)
	bm, err := r.Benchmarks(context.Background(), "energy", "", model.ComparisonGlobal)
	require.NoError(t, err)
	assert.Equal(t, 1.2, bm["beta"])
	next.AssertNumberOfCalls(t, "Benchmarks", 2)
}

func TestResilient_PermanentErrorNotCached(t *testing.T) {
	next := new(mockProvider)
	boom := errors.New("no such table")
	next.On("Benchmarks", mock.Anything, "energy", "", model.ComparisonGlobal).Return(nil, boom).Once()
	next.On("Benchmarks", mock.Anything, "energy", "", model.ComparisonGlobal).Return(model.Benchmarks{"beta": 1}, nil).Once()

	r := NewResilient(next, quickPolicy(), time.Minute)
	_, err := r.Benchmarks(context.Background(), "energy", "", model.ComparisonGlobal)
	require.ErrorIs(t, err, boom)

	bm, err := r.Benchmarks(context.Background(), "energy", "", model.ComparisonGlobal)
	require.NoError(t, err)
	assert.Equal(t, 1.0, bm["beta"])
	next.AssertNumberOfCalls(t, "Benchmarks", 2)
}

func TestResilient_CacheTTL(t *testing.T) {
	next := new(mockProvider)
	next.On("Benchmarks", mock.Anything, "banks", "", model.ComparisonGCC).Return(model.Benchmarks{"roa": 0.01}, nil)

	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewResilient(next, quickPolicy(), time.Minute)
	r.now = func() time.Time { return clock }

	for range 3 {
		_, err := r.Benchmarks(context.Background(), "banks", "", model.ComparisonGCC)
		require.NoError(t, err)
	}
	next.AssertNumberOfCalls(t, "Benchmarks", 1)

	clock = clock.Add(2 * time.Minute)
	_, err := r.Benchmarks(context.Background(), "banks", "", model.ComparisonGCC)
	require.NoError(t, err)
	next.AssertNumberOfCalls(t, "Benchmarks", 2)

	r.Invalidate()
	_, err = r.Benchmarks(context.Background(), "banks", "", model.ComparisonGCC)
	require.NoError(t, err)
	next.AssertNumberOfCalls(t, "Benchmarks", 3)
}

func TestResilient_CopiesOut(t *testing.T) {
	r := NewResilient(Static{"beta": 1}, quickPolicy(), time.Minute)
	a, err := r.Benchmarks(context.Background(), "x", "", "")
	require.NoError(t, err)
	a["beta"] = 42

	b, err := r.Benchmarks(context.Background(), "x", "", "")
	require.NoError(t, err)
	assert.Equal(t, 1.0, b["beta"])
}

func TestResilient_BreakerOpens(t *testing.T) {
	next := new(mockProvider)
	next.On("Benchmarks", mock.Anything, "telecom", "", model.ComparisonGlobal).
		Return(nil, resilience.Transient(errors.New("down")))

	policy := resilience.NewPolicy("", resilience.RetryConfig{MaxAttempts: 1}, 2, time.Hour, 0, 0)
	r := NewResilient(next, policy, 0)

	for range 2 {
		_, err := r.Benchmarks(context.Background(), "telecom", "", model.ComparisonGlobal)
		require.Error(t, err)
	}
	_, err := r.Benchmarks(context.Background(), "telecom", "", model.ComparisonGlobal)
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	next.AssertNumberOfCalls(t, "Benchmarks", 2)
}

type slowProvider struct {
	mu    sync.Mutex
	calls int
	gate  chan struct{}
}

func (p *slowProvider) Benchmarks(context.Context, string, string, model.ComparisonLevel) (model.Benchmarks, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	<-p.gate
	return model.Benchmarks{"beta": 1}, nil
}

func TestResilient_CoalescesConcurrentLookups(t *testing.T) {
	p := &slowProvider{gate: make(chan struct{})}
	r := NewResilient(p, quickPolicy(), 0)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bm, err := r.Benchmarks(context.Background(), "x", "", "")
			assert.NoError(t, err)
			assert.Equal(t, 1.0, bm["beta"])
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(p.gate)
	wg.Wait()

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Less(t, p.calls, 10)
}

// gatedProvider blocks until gate closes or its ctx ends.
type gatedProvider struct {
	gate chan struct{}
}

func (p *gatedProvider) Benchmarks(ctx context.Context, _, _ string, _ model.ComparisonLevel) (model.Benchmarks, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.gate:
		return model.Benchmarks{"beta": 1.2}, nil
	}
}

func TestResilient_CallerCancelDoesNotFailWaiters(t *testing.T) {
	p := &gatedProvider{gate: make(chan struct{})}
	r := NewResilient(p, resilience.Policy{Retry: resilience.RetryConfig{MaxAttempts: 1}}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := r.Benchmarks(ctx, "steel", "", model.ComparisonGlobal)
		firstErr <- err
	}()
	time.Sleep(10 * time.Millisecond)

	type result struct {
		bm  model.Benchmarks
		err error
	}
	second := make(chan result, 1)
	go func() {
		bm, err := r.Benchmarks(context.Background(), "steel", "", model.ComparisonGlobal)
		second <- result{bm, err}
	}()
	time.Sleep(10 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(p.gate)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, 1.2, res.bm["beta"])
}
