package benchmark

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/finanalysis/internal/model"
)

type mockSource struct {
	mock.Mock
}

func (m *mockSource) GetBenchmarks(ctx context.Context, sector, activity string, region model.ComparisonLevel) (model.Benchmarks, error) {
	args := m.Called(ctx, sector, activity, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Benchmarks), args.Error(1)
}

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Benchmarks(ctx context.Context, sector, activity string, level model.ComparisonLevel) (model.Benchmarks, error) {
	args := m.Called(ctx, sector, activity, level)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Benchmarks), args.Error(1)
}
