package benchmark

import (
	"context"
	"maps"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/resilience"
)

// Resilient wraps a Provider with a resilience policy, request coalescing
// and an optional TTL cache. Errors are never cached.
type Resilient struct {
	next   Provider
	policy resilience.Policy
	ttl    time.Duration
	now    func() time.Time

	group singleflight.Group
	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	bm      model.Benchmarks
	expires time.Time
}

// NewResilient creates a Resilient provider. ttl <= 0 disables caching.
func NewResilient(next Provider, policy resilience.Policy, ttl time.Duration) *Resilient {
	return &Resilient{
		next:   next,
		policy: policy,
		ttl:    ttl,
		now:    time.Now,
		cache:  make(map[string]cached),
	}
}

func cacheKey(sector, activity string, level model.ComparisonLevel) string {
	return sector + "\x00" + activity + "\x00" + string(level)
}

// Benchmarks implements Provider. Callers get their own copy of the map.
func (r *Resilient) Benchmarks(ctx context.Context, sector, activity string, level model.ComparisonLevel) (model.Benchmarks, error) {
	key := cacheKey(sector, activity, level)
	if bm, ok := r.lookup(key); ok {
		return maps.Clone(bm), nil
	}

	// The shared lookup outlives any single caller; each caller stops
	// waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := r.group.DoChan(key, func() (any, error) {
		bm, err := resilience.Call(shared, r.policy, func(ctx context.Context) (model.Benchmarks, error) {
			return r.next.Benchmarks(ctx, sector, activity, level)
		})
		if err == nil {
			r.store(key, bm)
		}
		return bm, err
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			zap.L().Debug("benchmark: shared in-flight lookup", zap.String("sector", sector))
		}
		return maps.Clone(res.Val.(model.Benchmarks)), nil
	}
}

// Invalidate drops every cached entry, e.g. after a seed.
func (r *Resilient) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

func (r *Resilient) lookup(key string) (model.Benchmarks, bool) {
	if r.ttl <= 0 {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cache[key]
	if !ok || !r.now().Before(c.expires) {
		delete(r.cache, key)
		return nil, false
	}
	return c.bm, true
}

func (r *Resilient) store(key string, bm model.Benchmarks) {
	if r.ttl <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[key] = cached{bm: bm, expires: r.now().Add(r.ttl)}
}
