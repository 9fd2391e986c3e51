package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs \(id, company, sector, status, created_at, updated_at\)`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "retail", "pending", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), acme())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusPending, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, company, status, progress, current_step, results, summary, error, created_at, updated_at, completed_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "get run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM runs WHERE id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := s.UpdateRun(context.Background(), "missing", model.ProgressPatch(10, "x"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRun_BeginError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	err := s.UpdateRun(context.Background(), "r1", model.StatusPatch(model.RunStatusRunning))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin update run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_BuildsFilters(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM runs WHERE true AND status = \$1 AND sector = \$2 ORDER BY created_at DESC LIMIT \$3 OFFSET \$4`).
		WithArgs("failed", "retail", 5, 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company", "status", "progress", "current_step", "results", "summary", "error", "created_at", "updated_at", "completed_at",
		}))

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusFailed, Sector: "retail", Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_QueryError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM runs WHERE true ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(100).
		WillReturnError(errors.New("connection reset"))

	_, err := s.ListRuns(context.Background(), RunFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list runs")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBenchmarks(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT metric, value FROM industry_benchmarks WHERE sector = \$1 AND activity = \$2 AND region = \$3`).
		WithArgs("retail", "grocery", "gcc").
		WillReturnRows(pgxmock.NewRows([]string{"metric", "value"}).
			AddRow("currentRatio", 1.7).
			AddRow("netProfitMargin", 4.5))

	bm, err := s.GetBenchmarks(context.Background(), "retail", "grocery", model.ComparisonGCC)
	require.NoError(t, err)
	assert.Equal(t, model.Benchmarks{"currentRatio": 1.7, "netProfitMargin": 4.5}, bm)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetBenchmarks_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM industry_benchmarks`).
		WithArgs("energy", "", "global").
		WillReturnRows(pgxmock.NewRows([]string{"metric", "value"}))

	bm, err := s.GetBenchmarks(context.Background(), "energy", "", model.ComparisonGlobal)
	require.NoError(t, err)
	assert.Nil(t, bm)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertBenchmarks(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	cols := []string{"sector", "activity", "region", "metric", "value", "updated_at"}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_industry_benchmarks"}, cols).WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "industry_benchmarks"`).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := s.UpsertBenchmarks(context.Background(), []BenchmarkRow{
		{Sector: "retail", Metric: "currentRatio", Value: 1.5},
		{Sector: "retail", Region: model.ComparisonGCC, Metric: "currentRatio", Value: 1.7},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS runs`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
