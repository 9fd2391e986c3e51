package engine

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/sells-group/finanalysis/internal/model"
)

// RunStore creates and reads run records and accepts updates.
type RunStore interface {
	Reporter
	CreateRun(ctx context.Context, company model.Company) (*model.Run, error)
	GetRun(ctx context.Context, id string) (*model.Run, error)
}

// Service couples a Runner with a RunStore: Submit creates the pending
// record, Execute or Go runs it.
type Service struct {
	store  RunStore
	runner *Runner
	wg     sync.WaitGroup
}

// NewService creates a Service. The runner should report to the same store,
// usually through NewThrottledReporter.
func NewService(st RunStore, runner *Runner) *Service {
	return &Service{store: st, runner: runner}
}

// Submit validates the input and creates a pending run record.
func (s *Service) Submit(ctx context.Context, company model.Company, stmts []model.FinancialStatement) (*model.Run, error) {
	if err := company.Validate(); err != nil {
		return nil, multierr.Combine(ErrInvalidInput, err)
	}
	if err := model.ValidateStatements(stmts); err != nil {
		return nil, multierr.Combine(ErrInvalidInput, err)
	}
	run, err := s.store.CreateRun(ctx, company)
	if err != nil {
		return nil, eris.Wrap(err, "engine: create run")
	}
	return run, nil
}

// Execute runs a submitted record to completion and returns the stored
// final state. On failure the stored record is returned alongside the
// error when it can be read.
func (s *Service) Execute(ctx context.Context, run *model.Run, stmts []model.FinancialStatement) (*model.Run, error) {
	_, runErr := s.runner.Run(ctx, run.ID, stmts, run.Company)

	final, err := s.store.GetRun(context.WithoutCancel(ctx), run.ID)
	if err != nil {
		if runErr != nil {
			return nil, runErr
		}
		return nil, eris.Wrap(err, "engine: reload run")
	}
	return final, runErr
}

// Go executes the run in the background, detached from ctx cancellation.
// Wait blocks until every background run has finished.
func (s *Service) Go(ctx context.Context, run *model.Run, stmts []model.FinancialStatement) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if _, err := s.Execute(context.WithoutCancel(ctx), run, stmts); err != nil {
			zap.L().Warn("engine: background run ended with error",
				zap.String("run_id", run.ID),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until background runs started with Go have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}
