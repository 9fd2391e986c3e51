// Package store persists analysis runs and industry benchmarks in SQLite or
// PostgreSQL.
package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/model"
)

// ErrNotFound is returned when a run id is unknown.
var ErrNotFound = eris.New("store: not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Sector string          `json:"sector,omitempty"`
	Since  time.Time       `json:"since,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// BenchmarkRow is one industry reference value. Activity may be empty for
// sector-wide values.
type BenchmarkRow struct {
	Sector    string                `json:"sector" yaml:"sector"`
	Activity  string                `json:"activity,omitempty" yaml:"activity"`
	Region    model.ComparisonLevel `json:"region" yaml:"region"`
	Metric    string                `json:"metric" yaml:"metric"`
	Value     float64               `json:"value" yaml:"value"`
	UpdatedAt time.Time             `json:"updatedAt" yaml:"-"`
}

// Store defines the persistence interface for analysis runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, company model.Company) (*model.Run, error)
	UpdateRun(ctx context.Context, runID string, patch model.RunPatch) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Benchmarks
	GetBenchmarks(ctx context.Context, sector, activity string, region model.ComparisonLevel) (model.Benchmarks, error)
	UpsertBenchmarks(ctx context.Context, rows []BenchmarkRow) (int64, error)
	ListBenchmarks(ctx context.Context, sector string) ([]BenchmarkRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

func newRun(id string, company model.Company, now time.Time) *model.Run {
	return &model.Run{
		ID:          id,
		Company:     company,
		Status:      model.RunStatusPending,
		Results:     []model.AnalysisResult{},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

func defaultLimit(n int) int {
	if n <= 0 {
		return 100
	}
	return n
}
