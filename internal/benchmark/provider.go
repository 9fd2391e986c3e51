// Package benchmark supplies industry reference values to the analysis
// runner. Values are layered from built-in defaults, sector-wide rows and
// activity rows, first for the global region and then for the company's
// comparison level.
package benchmark

import (
	"context"
	"maps"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/model"
)

// Provider returns the benchmarks for a sector, activity and comparison level.
type Provider interface {
	Benchmarks(ctx context.Context, sector, activity string, level model.ComparisonLevel) (model.Benchmarks, error)
}

// Source reads one exact (sector, activity, region) slice of benchmark rows.
// store.SQLiteStore and store.PostgresStore implement it.
type Source interface {
	GetBenchmarks(ctx context.Context, sector, activity string, region model.ComparisonLevel) (model.Benchmarks, error)
}

// Static serves the same values for every request.
type Static model.Benchmarks

// Benchmarks returns a copy of s, or nil when s is empty.
func (s Static) Benchmarks(context.Context, string, string, model.ComparisonLevel) (model.Benchmarks, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return maps.Clone(model.Benchmarks(s)), nil
}

// Defaults returns a Static provider with the catalog's reference values.
func Defaults() Static {
	return Static(catalog.DefaultBenchmarks())
}

// Layered merges stored rows over a set of defaults.
type Layered struct {
	src      Source
	defaults model.Benchmarks
}

// NewLayered creates a Layered provider. A nil defaults map disables the
// built-in fallback, so a sector with no rows yields nil.
func NewLayered(src Source, defaults model.Benchmarks) *Layered {
	return &Layered{src: src, defaults: defaults}
}

type layer struct {
	activity string
	region   model.ComparisonLevel
}

// layers lists the lookups from least to most specific.
func layers(activity string, level model.ComparisonLevel) []layer {
	regions := []model.ComparisonLevel{model.ComparisonGlobal}
	if level != "" && level != model.ComparisonGlobal {
		regions = append(regions, level)
	}
	var out []layer
	for _, r := range regions {
		out = append(out, layer{"", r})
		if activity != "" {
			out = append(out, layer{activity, r})
		}
	}
	return out
}

// Benchmarks implements Provider. Later layers override earlier ones metric
// by metric. The result is nil when nothing was found.
func (l *Layered) Benchmarks(ctx context.Context, sector, activity string, level model.ComparisonLevel) (model.Benchmarks, error) {
	var out model.Benchmarks
	if len(l.defaults) > 0 {
		out = maps.Clone(l.defaults)
	}
	for _, ly := range layers(activity, level) {
		bm, err := l.src.GetBenchmarks(ctx, sector, ly.activity, ly.region)
		if err != nil {
			return nil, eris.Wrapf(err, "benchmark: load %s/%s/%s", sector, ly.activity, ly.region)
		}
		if len(bm) == 0 {
			continue
		}
		if out == nil {
			out = model.Benchmarks{}
		}
		maps.Copy(out, bm)
	}
	return out, nil
}
