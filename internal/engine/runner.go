// Package engine runs a selection of analyses for one company, tolerating
// individual failures, reporting progress on the run record and producing
// the executive summary.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/selector"
	"github.com/sells-group/finanalysis/internal/summary"
)

// Catalog resolves an analysis type to its implementation.
type Catalog interface {
	Lookup(t model.AnalysisType) (catalog.Func, bool)
}

// BenchmarkProvider supplies industry reference values. A nil map with a
// nil error means nothing was found.
type BenchmarkProvider interface {
	Benchmarks(ctx context.Context, sector, activity string, level model.ComparisonLevel) (model.Benchmarks, error)
}

// Report is everything a finished run produced.
type Report struct {
	Outcomes []Outcome
	Results  []model.AnalysisResult
	Summary  *model.ExecutiveSummary
}

// Runner executes analyses. It holds no per-run state and is safe for
// concurrent use.
type Runner struct {
	catalog     Catalog
	benchmarks  BenchmarkProvider
	reporter    Reporter
	aggregator  summary.Aggregator
	selectFn    func(model.Tier) []model.AnalysisType
	parallelism int
	now         func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithParallelism runs up to n analyses at once. Values below 2 keep the
// sequential default.
func WithParallelism(n int) Option {
	return func(r *Runner) { r.parallelism = n }
}

// WithSelector overrides the tier selection.
func WithSelector(fn func(model.Tier) []model.AnalysisType) Option {
	return func(r *Runner) { r.selectFn = fn }
}

// WithClock sets the clock used for completion times and the summary date.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
		r.aggregator.Now = now
	}
}

// NewRunner creates a Runner. A nil reporter discards progress.
func NewRunner(cat Catalog, bp BenchmarkProvider, rep Reporter, opts ...Option) *Runner {
	if rep == nil {
		rep = NopReporter{}
	}
	r := &Runner{
		catalog:     cat,
		benchmarks:  bp,
		reporter:    rep,
		selectFn:    selector.Select,
		parallelism: 1,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the analyses selected by company.AnalysisTier and returns
// the successful results in selection order.
func (r *Runner) Run(ctx context.Context, runID string, stmts []model.FinancialStatement, company model.Company) ([]model.AnalysisResult, error) {
	rep, err := r.Analyze(ctx, runID, stmts, company)
	if err != nil {
		return nil, err
	}
	return rep.Results, nil
}

// Analyze is Run but returns the full report, including failed outcomes
// and the executive summary.
func (r *Runner) Analyze(ctx context.Context, runID string, stmts []model.FinancialStatement, company model.Company) (*Report, error) {
	log := zap.L().With(zap.String("run_id", runID), zap.String("company", company.Name))
	lang := company.Lang()
	start := r.now()

	stmts = slices.Clone(stmts)
	model.SortStatements(stmts)

	r.progress(ctx, log, runID, model.RunPatch{Status: ptr(model.RunStatusRunning)})

	bm, err := r.benchmarks.Benchmarks(ctx, company.Sector, company.Activity, company.Region())
	if err != nil {
		if ctx.Err() != nil {
			return nil, r.cancel(ctx, log, runID)
		}
		return nil, r.fail(ctx, log, runID, eris.Wrapf(ErrBenchmarkFetch, "sector %q: %v", company.Sector, err))
	}
	r.progress(ctx, log, runID, model.ProgressPatch(10, stepFetching.in(lang)))

	types := r.selectFn(company.AnalysisTier)
	log.Info("engine: starting analyses",
		zap.String("tier", string(company.AnalysisTier)),
		zap.Int("analyses", len(types)),
		zap.Int("parallelism", r.parallelism),
		zap.Int("benchmarks", len(bm)),
	)

	var outcomes []Outcome
	if r.parallelism > 1 {
		outcomes = r.runParallel(ctx, log, runID, types, stmts, company, bm)
	} else {
		outcomes = r.runSequential(ctx, log, runID, types, stmts, company, bm)
	}
	if ctx.Err() != nil {
		return nil, r.cancel(ctx, log, runID)
	}

	results := Successes(outcomes)
	if len(results) == 0 {
		err := eris.Wrapf(ErrAllAnalysesFailed, "%d analyses attempted", len(outcomes))
		return nil, r.fail(ctx, log, runID, multierr.Combine(append([]error{err}, Failures(outcomes)...)...))
	}

	r.progress(ctx, log, runID, model.ProgressPatch(100, stepSummarizing.in(lang)))
	sum, err := r.aggregator.Summarize(results, company)
	if err != nil {
		return nil, r.fail(ctx, log, runID, err)
	}

	done := r.now()
	final := model.RunPatch{
		Progress:         ptr(100),
		CurrentStep:      ptr(stepDone.in(lang)),
		Status:           ptr(model.RunStatusCompleted),
		Results:          results,
		ExecutiveSummary: sum,
		CompletedAt:      &done,
	}
	if err := r.reporter.UpdateRun(ctx, runID, final); err != nil {
		return nil, r.fail(ctx, log, runID, eris.Wrap(err, "engine: write final state"))
	}

	log.Info("engine: run complete",
		zap.Int("succeeded", len(results)),
		zap.Int("failed", len(outcomes)-len(results)),
		zap.Duration("elapsed", done.Sub(start)),
	)
	return &Report{Outcomes: outcomes, Results: results, Summary: sum}, nil
}

func (r *Runner) runSequential(ctx context.Context, log *zap.Logger, runID string, types []model.AnalysisType, stmts []model.FinancialStatement, company model.Company, bm model.Benchmarks) []Outcome {
	outcomes := make([]Outcome, 0, len(types))
	for i, t := range types {
		if ctx.Err() != nil {
			break
		}
		r.progress(ctx, log, runID, model.ProgressPatch(stepProgress(i+1, len(types)), running(t, company.Lang())))
		o := r.invoke(t, slices.Clone(stmts), company, bm)
		logOutcome(log, o)
		outcomes = append(outcomes, o)
	}
	return outcomes
}

// runParallel stores outcomes by index so the order matches the selection.
// Progress is emitted from the calling goroutine only, once per completed
// analysis.
func (r *Runner) runParallel(ctx context.Context, log *zap.Logger, runID string, types []model.AnalysisType, stmts []model.FinancialStatement, company model.Company, bm model.Benchmarks) []Outcome {
	outcomes := make([]Outcome, len(types))
	started := make([]bool, len(types))
	done := make(chan int)

	var g errgroup.Group
	g.SetLimit(r.parallelism)
	go func() {
		for i, t := range types {
			if ctx.Err() != nil {
				break
			}
			started[i] = true
			g.Go(func() error {
				outcomes[i] = r.invoke(t, slices.Clone(stmts), company, bm)
				done <- i
				return nil
			})
		}
		_ = g.Wait()
		close(done)
	}()

	completed := 0
	for i := range done {
		completed++
		logOutcome(log, outcomes[i])
		r.progress(ctx, log, runID, model.ProgressPatch(stepProgress(completed, len(types)), running(types[i], company.Lang())))
	}

	out := make([]Outcome, 0, len(types))
	for i, o := range outcomes {
		if started[i] {
			out = append(out, o)
		}
	}
	return out
}

// invoke calls one catalog entry, converting errors and panics into a
// failed outcome.
func (r *Runner) invoke(t model.AnalysisType, stmts []model.FinancialStatement, company model.Company, bm model.Benchmarks) (out Outcome) {
	out.Type = t
	fn, ok := r.catalog.Lookup(t)
	if !ok {
		out.Err = eris.Wrapf(ErrAnalysisNotImplemented, "%s", t)
		return out
	}
	defer func() {
		if p := recover(); p != nil {
			out.Result = nil
			out.Err = eris.Wrapf(ErrAnalysisExecution, "%s: panic: %v", t, p)
		}
	}()
	res, err := fn(stmts, company, bm)
	switch {
	case err != nil:
		out.Err = eris.Wrapf(ErrAnalysisExecution, "%s: %v", t, err)
	case res == nil:
		out.Err = eris.Wrapf(ErrAnalysisExecution, "%s: no result", t)
	default:
		out.Result = res
	}
	return out
}

func logOutcome(log *zap.Logger, o Outcome) {
	switch {
	case o.OK():
	case errors.Is(o.Err, ErrAnalysisNotImplemented):
		log.Debug("engine: analysis not implemented", zap.String("analysis", string(o.Type)))
	default:
		log.Warn("engine: analysis failed", zap.String("analysis", string(o.Type)), zap.Error(o.Err))
	}
}

// progress writes a best-effort update. Failures are logged and ignored.
func (r *Runner) progress(ctx context.Context, log *zap.Logger, runID string, patch model.RunPatch) {
	if err := r.reporter.UpdateRun(ctx, runID, patch); err != nil {
		log.Warn("engine: failed to report progress", zap.Error(err))
	}
}

// fail persists the failed status and returns err.
func (r *Runner) fail(ctx context.Context, log *zap.Logger, runID string, err error) error {
	log.Error("engine: run failed", zap.Error(err))
	msg := err.Error()
	now := r.now()
	patch := model.RunPatch{Status: ptr(model.RunStatusFailed), Error: &msg, CompletedAt: &now}
	if werr := r.reporter.UpdateRun(context.WithoutCancel(ctx), runID, patch); werr != nil {
		log.Error("engine: failed to write failed status", zap.Error(werr))
	}
	return err
}

func (r *Runner) cancel(ctx context.Context, log *zap.Logger, runID string) error {
	log.Warn("engine: run cancelled", zap.Error(ctx.Err()))
	now := r.now()
	msg := ctx.Err().Error()
	patch := model.RunPatch{Status: ptr(model.RunStatusCancelled), Error: &msg, CompletedAt: &now}
	if werr := r.reporter.UpdateRun(context.WithoutCancel(ctx), runID, patch); werr != nil {
		log.Error("engine: failed to write cancelled status", zap.Error(werr))
	}
	return multierr.Combine(ErrCancelled, ctx.Err())
}

// stepProgress maps the i-th of n analyses onto 10..100.
func stepProgress(i, n int) int {
	if n == 0 {
		return 100
	}
	return int(math.Round(float64(i)/float64(n)*90)) + 10
}

type step struct{ ar, en string }

func (s step) in(lang model.Language) string {
	if lang == model.LanguageEnglish {
		return s.en
	}
	return s.ar
}

var (
	stepFetching    = step{"جاري جلب معايير الصناعة...", "Fetching industry benchmarks..."}
	stepSummarizing = step{"جاري إعداد الملخص التنفيذي...", "Preparing the executive summary..."}
	stepDone        = step{"اكتمل التحليل", "Analysis complete"}
)

func running(t model.AnalysisType, lang model.Language) string {
	if lang == model.LanguageEnglish {
		return fmt.Sprintf("Running %s...", t.DisplayName(lang))
	}
	return fmt.Sprintf("جاري تنفيذ %s...", t.DisplayName(lang))
}

func ptr[T any](v T) *T { return &v }
