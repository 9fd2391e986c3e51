package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestCall_NoStages(t *testing.T) {
	v, err := Call(context.Background(), Policy{}, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCall_RetriesThroughBreaker(t *testing.T) {
	p := NewPolicy("", fastRetry(3), 10, time.Minute, 0, 0)
	calls := 0
	v, err := Call(context.Background(), p, func(context.Context) (string, error) {
		calls++
		if calls < 2 {
			return "", Transient(errors.New("busy"))
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, p.Breaker.Failures())
}

func TestCall_OpenBreakerNotRetried(t *testing.T) {
	p := NewPolicy("", fastRetry(5), 1, time.Hour, 0, 0)
	calls := 0
	fn := func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("down"))
	}

	_, err := Call(context.Background(), p, fn)
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, Open, p.Breaker.State())

	_, err = Call(context.Background(), p, fn)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, 1, calls)
}

func TestCall_PermanentErrorsDoNotTrip(t *testing.T) {
	p := NewPolicy("", fastRetry(3), 1, time.Hour, 0, 0)
	_, err := Call(context.Background(), p, func(context.Context) (int, error) {
		return 0, errors.New("bad sector")
	})
	require.Error(t, err)
	assert.Equal(t, Closed, p.Breaker.State())
}

func TestCall_LimiterHonoursContext(t *testing.T) {
	p := Policy{Limiter: rate.NewLimiter(rate.Every(time.Hour), 1)}
	_, err := Call(context.Background(), p, func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = Call(ctx, p, func(context.Context) (int, error) { return 1, nil })
	require.Error(t, err)
}

func TestNewPolicy_Stages(t *testing.T) {
	p := NewPolicy("benchmarks", DefaultRetryConfig(), 0, 0, 0, 0)
	assert.Nil(t, p.Breaker)
	assert.Nil(t, p.Limiter)
	assert.NotNil(t, p.Retry.OnRetry)

	p = NewPolicy("benchmarks", DefaultRetryConfig(), 3, time.Second, 5, 0)
	require.NotNil(t, p.Limiter)
	assert.Equal(t, 1, p.Limiter.Burst())
	assert.NotNil(t, p.Breaker)
}
