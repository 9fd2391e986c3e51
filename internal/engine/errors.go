package engine

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/summary"
)

// Sentinel errors returned by the runner. Match them with errors.Is.
var (
	// ErrInvalidInput is returned by Service.Submit when the company or its
	// statements fail validation. Nothing is stored.
	ErrInvalidInput = eris.New("engine: invalid input")

	// ErrBenchmarkFetch means industry benchmarks could not be loaded. Fatal.
	ErrBenchmarkFetch = eris.New("engine: benchmark fetch failed")

	// ErrAnalysisNotImplemented marks a selected type with no catalog entry.
	// The type is skipped.
	ErrAnalysisNotImplemented = eris.New("engine: analysis not implemented")

	// ErrAnalysisExecution marks an analysis that returned an error or
	// panicked. The type is skipped.
	ErrAnalysisExecution = eris.New("engine: analysis execution failed")

	// ErrAggregation is returned when the executive summary cannot be built.
	ErrAggregation = summary.ErrAggregation

	// ErrAllAnalysesFailed is returned when not a single analysis succeeded.
	// The combined error also carries each per-analysis failure.
	ErrAllAnalysesFailed = eris.New("engine: all analyses failed")

	// ErrCancelled is returned when the context ends mid-run. The combined
	// error also matches the context error.
	ErrCancelled = eris.New("engine: run cancelled")
)
