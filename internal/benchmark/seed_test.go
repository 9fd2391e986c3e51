package benchmark

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/store"
)

const seedYAML = `
benchmarks:
  - sector: industrial
    metrics:
      currentRatio: 1.8
      quickRatio: 1.1
  - sector: industrial
    activity: cement
    region: gcc
    metrics:
      netProfitMargin: 0.14
`

func TestParseSeed_Rows(t *testing.T) {
	f, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows, err := f.Rows(now)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, store.BenchmarkRow{Sector: "industrial", Region: model.ComparisonGlobal, Metric: "currentRatio", Value: 1.8, UpdatedAt: now}, rows[0])
	assert.Equal(t, "quickRatio", rows[1].Metric)
	assert.Equal(t, "cement", rows[2].Activity)
	assert.Equal(t, model.ComparisonGCC, rows[2].Region)
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := ParseSeed([]byte("benchmarks: [unterminated"))
	require.Error(t, err)

	f, err := ParseSeed([]byte("benchmarks:\n  - metrics: {beta: 1}\n"))
	require.NoError(t, err)
	_, err = f.Rows(time.Now())
	assert.ErrorContains(t, err, "no sector")
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := LoadSeedFile(filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err)
}

type recordingUpserter struct {
	rows []store.BenchmarkRow
	err  error
}

func (u *recordingUpserter) UpsertBenchmarks(_ context.Context, rows []store.BenchmarkRow) (int64, error) {
	u.rows = rows
	return int64(len(rows)), u.err
}

func TestSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	u := &recordingUpserter{}
	n, err := Seed(context.Background(), u, path)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Len(t, u.rows, 3)

	u.err = errors.New("read-only")
	_, err = Seed(context.Background(), u, path)
	assert.ErrorIs(t, err, u.err)
}
