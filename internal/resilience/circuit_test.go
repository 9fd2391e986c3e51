package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(context.Context) error { return errBoom }
func pass(context.Context) error { return nil }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(threshold int, cooldown time.Duration) (*Breaker, *fakeClock) {
	clk := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	b := NewBreaker(BreakerConfig{Threshold: threshold, Cooldown: cooldown})
	b.now = clk.now
	return b, clk
}

func TestBreaker_ClosedPassesThrough(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	require.NoError(t, b.Execute(context.Background(), pass))
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_OpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	for range 3 {
		assert.ErrorIs(t, b.Execute(context.Background(), fail), errBoom)
	}
	assert.Equal(t, Open, b.State())

	called := false
	err := b.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreaker_SuccessResetsCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	_ = b.Execute(context.Background(), fail)
	_ = b.Execute(context.Background(), fail)
	assert.Equal(t, 2, b.Failures())

	require.NoError(t, b.Execute(context.Background(), pass))
	assert.Equal(t, 0, b.Failures())
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenProbeCloses(t *testing.T) {
	b, clk := newTestBreaker(1, time.Minute)
	_ = b.Execute(context.Background(), fail)
	require.Equal(t, Open, b.State())

	clk.advance(time.Minute)
	assert.Equal(t, HalfOpen, b.State())

	require.NoError(t, b.Execute(context.Background(), pass))
	assert.Equal(t, Closed, b.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	b, clk := newTestBreaker(2, time.Minute)
	_ = b.Execute(context.Background(), fail)
	_ = b.Execute(context.Background(), fail)

	clk.advance(2 * time.Minute)
	_ = b.Execute(context.Background(), fail)
	assert.Equal(t, Open, b.State())

	clk.advance(30 * time.Second)
	assert.ErrorIs(t, b.Execute(context.Background(), pass), ErrCircuitOpen)
}

func TestBreaker_CountsFilter(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1, Counts: IsTransient})
	_ = b.Execute(context.Background(), fail)
	assert.Equal(t, Closed, b.State())

	_ = b.Execute(context.Background(), func(context.Context) error { return Transient(errBoom) })
	assert.Equal(t, Open, b.State())
}

func TestBreaker_OnChangeAndReset(t *testing.T) {
	var seen []string
	b := NewBreaker(BreakerConfig{
		Threshold: 1,
		OnChange:  func(from, to State) { seen = append(seen, from.String()+"->"+to.String()) },
	})
	_ = b.Execute(context.Background(), fail)
	b.Reset()
	b.Reset()
	assert.Equal(t, []string{"closed->open", "open->closed"}, seen)
}

func TestExecuteVal(t *testing.T) {
	b := NewBreaker(DefaultBreakerConfig())
	v, err := ExecuteVal(context.Background(), b, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestBreaker_Concurrent(t *testing.T) {
	b := NewBreaker(BreakerConfig{Threshold: 1000})
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_ = b.Execute(context.Background(), fail)
			} else {
				_ = b.Execute(context.Background(), pass)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, Closed, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "half-open", HalfOpen.String())
	assert.Equal(t, "unknown", State(9).String())
}
