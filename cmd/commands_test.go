package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/ingest"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/monitoring"
	"github.com/sells-group/finanalysis/internal/store"
)

func TestAnalyzeFlow_ExecuteAndExport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	doc, err := ingest.Decode([]byte(docJSON), ingest.FormatJSON)
	require.NoError(t, err)
	applyDefaults(&doc.Company, env.defaults)

	run, err := env.Service.Submit(ctx, doc.Company, doc.Statements)
	require.NoError(t, err)
	final, err := env.Service.Execute(ctx, run, doc.Statements)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, final.Status)

	var table bytes.Buffer
	require.NoError(t, writeRun(&table, final, "table"))
	assert.Contains(t, table.String(), final.ID)

	var js bytes.Buffer
	require.NoError(t, writeRun(&js, final, "json"))
	var decoded model.Run
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, final.ID, decoded.ID)

	assert.Error(t, writeRun(&js, final, "csv"))

	path := filepath.Join(t.TempDir(), "run.xlsx")
	require.NoError(t, exportRunFile(path, final))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestFormatRunStats(t *testing.T) {
	snap := &monitoring.MetricsSnapshot{
		Total: 4, Completed: 3, Failed: 1, FailRate: 0.25,
		BySector: map[string]int{"retail": 1, "energy": 3},
	}

	var buf bytes.Buffer
	formatRunStats(&buf, snap)

	out := buf.String()
	assert.Contains(t, out, "failure rate")
	assert.Contains(t, out, "sector energy")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("sector energy")), bytes.Index(buf.Bytes(), []byte("sector retail")))
}

func TestResolveBenchmarks(t *testing.T) {
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "bm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	_, err = st.UpsertBenchmarks(ctx, []store.BenchmarkRow{
		{Sector: "retail", Region: model.ComparisonGlobal, Metric: "currentRatio", Value: 1.7},
		{Sector: "retail", Region: model.ComparisonGCC, Metric: "currentRatio", Value: 1.9},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, resolveBenchmarks(ctx, &buf, st, "retail", "", model.ComparisonGCC))
	assert.Contains(t, buf.String(), "currentRatio")
	assert.Contains(t, buf.String(), "1.9")
	assert.Contains(t, buf.String(), "riskFreeRate")
}

func TestFormatBenchmarkRows(t *testing.T) {
	var buf bytes.Buffer
	formatBenchmarkRows(&buf, []store.BenchmarkRow{{
		Sector: "retail", Region: model.ComparisonGCC, Metric: "grossProfitMargin", Value: 0.32,
		UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}})
	assert.Contains(t, buf.String(), "grossProfitMargin")
	assert.Contains(t, buf.String(), "2026-03-01")
}

func TestCatalogEntries(t *testing.T) {
	basic := catalogEntries(model.TierBasic)
	all := catalogEntries(model.TierComprehensive)
	require.NotEmpty(t, basic)
	assert.Greater(t, len(all), len(basic))
	for _, e := range basic {
		assert.Equal(t, e.Type.Category(), e.Category)
	}
}

func TestIntParam(t *testing.T) {
	n, err := intParam("")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = intParam("25")
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	_, err = intParam("-3")
	assert.Error(t, err)
	_, err = intParam("ten")
	assert.Error(t, err)
}
