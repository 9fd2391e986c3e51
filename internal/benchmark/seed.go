package benchmark

import (
	"context"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/store"
)

// SeedFile is the YAML layout of a benchmark seed:
//
//	benchmarks:
//	  - sector: industrial
//	    activity: cement
//	    region: gcc
//	    metrics:
//	      currentRatio: 1.6
//	      netProfitMargin: 0.12
type SeedFile struct {
	Benchmarks []SeedEntry `yaml:"benchmarks"`
}

// SeedEntry groups the metrics of one (sector, activity, region).
type SeedEntry struct {
	Sector   string                `yaml:"sector"`
	Activity string                `yaml:"activity"`
	Region   model.ComparisonLevel `yaml:"region"`
	Metrics  map[string]float64    `yaml:"metrics"`
}

// Rows flattens the file into store rows sorted by key. A missing region
// means global.
func (f SeedFile) Rows(now time.Time) ([]store.BenchmarkRow, error) {
	var rows []store.BenchmarkRow
	for i, e := range f.Benchmarks {
		sector := strings.TrimSpace(e.Sector)
		if sector == "" {
			return nil, eris.Errorf("benchmark: seed entry %d has no sector", i)
		}
		region := e.Region
		if region == "" {
			region = model.ComparisonGlobal
		}
		for metric, v := range e.Metrics {
			rows = append(rows, store.BenchmarkRow{
				Sector:    sector,
				Activity:  strings.TrimSpace(e.Activity),
				Region:    region,
				Metric:    metric,
				Value:     v,
				UpdatedAt: now,
			})
		}
	}
	slices.SortFunc(rows, func(a, b store.BenchmarkRow) int {
		return strings.Compare(rowKey(a), rowKey(b))
	})
	return rows, nil
}

func rowKey(r store.BenchmarkRow) string {
	return r.Sector + "\x00" + r.Activity + "\x00" + string(r.Region) + "\x00" + r.Metric
}

// ParseSeed decodes a seed document.
func ParseSeed(data []byte) (SeedFile, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return SeedFile{}, eris.Wrap(err, "benchmark: parse seed")
	}
	return f, nil
}

// LoadSeedFile reads and flattens a YAML seed file.
func LoadSeedFile(path string) ([]store.BenchmarkRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "benchmark: read seed %s", path)
	}
	f, err := ParseSeed(data)
	if err != nil {
		return nil, err
	}
	return f.Rows(time.Now().UTC())
}

// Upserter writes benchmark rows.
type Upserter interface {
	UpsertBenchmarks(ctx context.Context, rows []store.BenchmarkRow) (int64, error)
}

// Seed loads path into dst and returns the number of rows written.
func Seed(ctx context.Context, dst Upserter, path string) (int64, error) {
	rows, err := LoadSeedFile(path)
	if err != nil {
		return 0, err
	}
	n, err := dst.UpsertBenchmarks(ctx, rows)
	if err != nil {
		return 0, eris.Wrap(err, "benchmark: seed")
	}
	zap.L().Info("benchmark: seeded", zap.String("path", path), zap.Int64("rows", n))
	return n, nil
}
