package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/model"
)

// --- Benchmark provider mock ---

type mockBenchmarks struct {
	mock.Mock
}

func (m *mockBenchmarks) Benchmarks(ctx context.Context, sector, activity string, level model.ComparisonLevel) (model.Benchmarks, error) {
	args := m.Called(ctx, sector, activity, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Benchmarks), args.Error(1)
}

// --- Reporter mock ---

type mockReporter struct {
	mock.Mock
}

func (m *mockReporter) UpdateRun(ctx context.Context, runID string, patch model.RunPatch) error {
	args := m.Called(ctx, runID, patch)
	return args.Error(0)
}

// --- Catalog without normalisation ---

type funcCatalog map[model.AnalysisType]catalog.Func

func (c funcCatalog) Lookup(t model.AnalysisType) (catalog.Func, bool) {
	fn, ok := c[t]
	return fn, ok
}

// --- In-memory run store ---

// memStore applies patches like the real stores and keeps the history.
type memStore struct {
	mu      sync.Mutex
	runs    map[string]*model.Run
	patches []model.RunPatch
	failOn  func(model.RunPatch) error
	seq     int
}

func newMemStore() *memStore {
	return &memStore{runs: make(map[string]*model.Run)}
}

func (s *memStore) CreateRun(_ context.Context, company model.Company) (*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &model.Run{
		ID:          fmt.Sprintf("run-%03d", s.seq),
		Company:     company,
		Status:      model.RunStatusPending,
		CreatedAt:   now,
		LastUpdated: now,
	}
	s.runs[r.ID] = r
	cp := *r
	return &cp, nil
}

func (s *memStore) GetRun(_ context.Context, id string) (*model.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (s *memStore) UpdateRun(_ context.Context, id string, p model.RunPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches = append(s.patches, p)
	if s.failOn != nil {
		if err := s.failOn(p); err != nil {
			return err
		}
	}
	r, ok := s.runs[id]
	if !ok {
		r = &model.Run{ID: id, Status: model.RunStatusPending}
		s.runs[id] = r
	}
	p.Apply(r, time.Now())
	return nil
}

// progressValues returns every progress value reported, in order.
func (s *memStore) progressValues() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []int
	for _, p := range s.patches {
		if p.Progress != nil {
			out = append(out, *p.Progress)
		}
	}
	return out
}

func (s *memStore) steps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, p := range s.patches {
		if p.CurrentStep != nil {
			out = append(out, *p.CurrentStep)
		}
	}
	return out
}
