package db

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var benchCfg = UpsertConfig{
	Table:        "industry_benchmarks",
	Columns:      []string{"sector", "activity", "region", "metric", "value"},
	ConflictKeys: []string{"sector", "activity", "region", "metric"},
}

func TestBulkUpsert_EmptyRows(t *testing.T) {
	n, err := BulkUpsert(context.Background(), nil, benchCfg, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBulkUpsert_NoColumns(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "industry_benchmarks",
		ConflictKeys: []string{"metric"},
	}, [][]any{{"retail", "currentRatio"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no columns specified")
}

func TestBulkUpsert_NoConflictKeys(t *testing.T) {
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:   "industry_benchmarks",
		Columns: []string{"metric", "value"},
	}, [][]any{{"currentRatio", 1.5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no conflict keys specified")
}

func TestBulkUpsert_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := [][]any{
		{"retail", "", "global", "currentRatio", 1.5},
		{"retail", "", "gcc", "currentRatio", 1.7},
	}
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE "_tmp_upsert_industry_benchmarks"`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_industry_benchmarks"}, benchCfg.Columns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO "industry_benchmarks" .* ON CONFLICT \("sector", "activity", "region", "metric"\) DO UPDATE SET "value" = EXCLUDED."value"`).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, benchCfg, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_CopyError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_industry_benchmarks"}, benchCfg.Columns).
		WillReturnError(fmt.Errorf("permission denied"))
	mock.ExpectRollback()

	_, err = BulkUpsert(context.Background(), mock, benchCfg, [][]any{{"retail", "", "global", "currentRatio", 1.5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY into temp table for industry_benchmarks")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpsert_ConfigErrors(t *testing.T) {
	rows := [][]any{{"retail", "currentRatio", 1.5}}
	_, err := BulkUpsert(context.Background(), nil, UpsertConfig{
		Table:        "industry_benchmarks",
		Columns:      []string{"sector", "metric", "value"},
		ConflictKeys: []string{"region"},
	}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `conflict key "region" is not a column`)

	_, err = BulkUpsert(context.Background(), nil, benchCfg, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0 has 3 values, want 5")
}

func TestBulkUpsert_DuplicateKeysLastWins(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_industry_benchmarks"}, benchCfg.Columns).
		WillReturnResult(2)
	mock.ExpectExec(`INSERT INTO`).WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := BulkUpsert(context.Background(), mock, benchCfg, [][]any{
		{"retail", "", "global", "currentRatio", 1.5},
		{"retail", "", "global", "quickRatio", 1.0},
		{"retail", "", "global", "currentRatio", 1.8},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertPlan(t *testing.T) {
	p, err := benchCfg.plan()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, p.keyIdx)
	assert.Contains(t, p.mergeSQL, `DO UPDATE SET "value" = EXCLUDED."value"`)

	rows, err := p.dedupe([][]any{
		{"retail", "", "global", "currentRatio", 1.5},
		{"retail", "", "gcc", "currentRatio", 1.7},
		{"retail", "", "global", "currentRatio", 1.8},
	}, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1.8, rows[0][4])
	assert.Equal(t, "gcc", rows[1][2])

	keysOnly, err := UpsertConfig{
		Table:        "analytics.sectors",
		Columns:      []string{"sector"},
		ConflictKeys: []string{"sector"},
	}.plan()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(keysOnly.mergeSQL, `ON CONFLICT ("sector") DO NOTHING`))
	assert.Contains(t, keysOnly.createSQL, `LIKE "analytics"."sectors"`)
}

func TestSanitizeTable(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"industry_benchmarks", `"industry_benchmarks"`},
		{"analytics.industry_benchmarks", `"analytics"."industry_benchmarks"`},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeTable(tt.input))
		})
	}
}

func TestQuoteAndJoin(t *testing.T) {
	assert.Equal(t, `"sector", "metric", "value"`, quoteAndJoin([]string{"sector", "metric", "value"}))
}
