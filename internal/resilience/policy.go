package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// Policy combines a rate limit, a circuit breaker and retries. Every attempt
// waits for the limiter and passes through the breaker. Attempts rejected by
// an open breaker are not retried. Zero fields disable their stage.
type Policy struct {
	Name    string
	Retry   RetryConfig
	Breaker *Breaker
	Limiter *rate.Limiter
}

// NewPolicy builds a Policy from plain settings. rps <= 0 disables the
// limiter and threshold <= 0 disables the breaker.
func NewPolicy(name string, retry RetryConfig, threshold int, cooldown time.Duration, rps float64, burst int) Policy {
	p := Policy{Name: name, Retry: retry}
	if threshold > 0 {
		p.Breaker = NewBreaker(BreakerConfig{
			Threshold: threshold,
			Cooldown:  cooldown,
			Counts:    IsTransient,
		})
	}
	if rps > 0 {
		if burst <= 0 {
			burst = 1
		}
		p.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
	if p.Retry.OnRetry == nil && name != "" {
		p.Retry.OnRetry = LogRetries(name)
	}
	return p
}

// Call runs fn under p.
func Call[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	retry := p.Retry
	base := retry.normalized().Retryable
	retry.Retryable = func(err error) bool {
		return !errors.Is(err, ErrCircuitOpen) && base(err)
	}

	return DoVal(ctx, retry, func(ctx context.Context) (T, error) {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				var zero T
				return zero, eris.Wrap(err, "resilience: rate limit wait")
			}
		}
		if p.Breaker == nil {
			return fn(ctx)
		}
		return ExecuteVal(ctx, p.Breaker, fn)
	})
}
