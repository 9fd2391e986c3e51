package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/finanalysis/internal/benchmark"
	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/config"
	"github.com/sells-group/finanalysis/internal/engine"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/resilience"
	"github.com/sells-group/finanalysis/internal/selector"
	"github.com/sells-group/finanalysis/internal/store"
)

// engineEnv holds the store, benchmark provider, runner and service needed
// by the analyze and serve commands.
type engineEnv struct {
	Store      store.Store
	Benchmarks *benchmark.Resilient
	Runner     *engine.Runner
	Service    *engine.Service
	defaults   config.EngineConfig
}

// Close waits for background runs and releases the store.
func (e *engineEnv) Close() {
	if e.Service != nil {
		e.Service.Wait()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEngine opens the store, seeds benchmarks when a seed file is
// configured, and builds the runner. Callers should defer env.Close().
func initEngine(ctx context.Context, mode string) (*engineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := openStore(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Benchmarks.SeedFile != "" {
		if _, err := benchmark.Seed(ctx, st, cfg.Benchmarks.SeedFile); err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	return newEngineEnv(st, cfg), nil
}

// newEngineEnv wires the benchmark chain and runner over st.
func newEngineEnv(st store.Store, c *config.Config) *engineEnv {
	policy := resilience.NewPolicy("benchmarks",
		benchmarkRetry(c.Benchmarks.Retry),
		c.Benchmarks.Circuit.FailureThreshold,
		time.Duration(c.Benchmarks.Circuit.ResetTimeoutSecs)*time.Second,
		c.Benchmarks.RatePerSec,
		max(1, int(c.Benchmarks.RatePerSec)),
	)
	bp := benchmark.NewResilient(
		benchmark.NewLayered(st, catalog.DefaultBenchmarks()),
		policy,
		c.Benchmarks.CacheTTL(),
	)

	reporter := engine.NewThrottledReporter(
		engine.MultiReporter{st, engine.LogReporter{}},
		c.Engine.ProgressInterval(),
	)
	runner := engine.NewRunner(catalog.Default(), bp, reporter,
		engine.WithParallelism(c.Engine.Parallelism),
	)

	zap.L().Debug("engine initialized",
		zap.Int("parallelism", c.Engine.Parallelism),
		zap.Duration("benchmark_ttl", c.Benchmarks.CacheTTL()),
	)

	return &engineEnv{
		Store:      st,
		Benchmarks: bp,
		Runner:     runner,
		Service:    engine.NewService(st, runner),
		defaults:   c.Engine,
	}
}

func benchmarkRetry(rc config.RetryConfig) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    rc.MaxAttempts,
		InitialBackoff: time.Duration(rc.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:     time.Duration(rc.MaxBackoffMs) * time.Millisecond,
		Multiplier:     rc.Multiplier,
		Jitter:         rc.Jitter,
	}
}

// applyDefaults fills the tier and language from configuration when the
// input leaves them empty.
func applyDefaults(c *model.Company, ec config.EngineConfig) {
	if c.AnalysisTier == "" {
		tier, _ := selector.ParseTier(ec.DefaultTier)
		c.AnalysisTier = tier
	}
	if c.Language == "" && ec.DefaultLanguage != "" {
		c.Language = model.ParseLanguage(ec.DefaultLanguage)
	}
}
