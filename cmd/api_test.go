package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/time/rate"

	"github.com/sells-group/finanalysis/internal/config"
	"github.com/sells-group/finanalysis/internal/engine"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/monitoring"
	"github.com/sells-group/finanalysis/internal/store"
)

const docJSON = `{
  "company": {"name": "Gulf Cement", "sector": "industrial", "comparisonLevel": "gcc", "language": "en"},
  "statements": [
    {"year": 2023,
     "balanceSheet": {"currentAssets": {"cash": 120, "totalCurrentAssets": 400}, "totalAssets": 1000,
                      "currentLiabilities": {"totalCurrentLiabilities": 250}, "totalLiabilities": 500,
                      "shareholdersEquity": {"totalShareholdersEquity": 500}},
     "incomeStatement": {"revenue": 800, "costOfGoodsSold": 500, "grossProfit": 300, "operatingIncome": 120, "netIncome": 70}},
    {"year": 2024,
     "balanceSheet": {"currentAssets": {"cash": 150, "totalCurrentAssets": 460}, "totalAssets": 1200,
                      "currentLiabilities": {"totalCurrentLiabilities": 260}, "totalLiabilities": 560,
                      "shareholdersEquity": {"totalShareholdersEquity": 640}},
     "incomeStatement": {"revenue": 900, "costOfGoodsSold": 540, "grossProfit": 360, "operatingIncome": 150, "netIncome": 90}}
  ]
}`

func testConfig() *config.Config {
	return &config.Config{
		Engine: config.EngineConfig{
			Parallelism:     1,
			DefaultTier:     string(model.TierBasic),
			DefaultLanguage: string(model.LanguageEnglish),
		},
		Benchmarks: config.BenchmarksConfig{
			CacheTTLSecs: 60,
			Retry:        config.RetryConfig{MaxAttempts: 1},
		},
	}
}

func newTestEnv(t *testing.T) *engineEnv {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))

	env := newEngineEnv(st, testConfig())
	t.Cleanup(env.Close)
	return env
}

func newTestRouter(t *testing.T, lim *rate.Limiter) (http.Handler, *engineEnv) {
	t.Helper()
	env := newTestEnv(t)
	return buildRouter(apiDeps{
		Service:       env.Service,
		Runs:          env.Store,
		Collector:     monitoring.NewCollector(env.Store, time.Hour),
		Limiter:       lim,
		Defaults:      env.defaults,
		LookbackHours: 24,
	}), env
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestBuildRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rr := do(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestSubmitAnalysis_RunsToCompletion(t *testing.T) {
	h, env := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/analyses?tier=basic", []byte(docJSON), "application/json")
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())

	var accepted map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))
	id := accepted["id"]
	require.NotEmpty(t, id)
	assert.Equal(t, "pending", accepted["status"])
	assert.Equal(t, "/runs/"+id, rr.Header().Get("Location"))

	env.Service.Wait()

	rr = do(t, h, http.MethodGet, "/runs/"+id, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var run model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &run))
	assert.Equal(t, model.RunStatusCompleted, run.Status)
	assert.Equal(t, 100, run.Progress)
	assert.Equal(t, model.TierBasic, run.Company.AnalysisTier)
	assert.NotEmpty(t, run.Results)
	require.NotNil(t, run.ExecutiveSummary)
	assert.NotNil(t, run.CompletedAt)
}

func TestSubmitAnalysis_YAMLBody(t *testing.T) {
	h, env := newTestRouter(t, nil)

	body := `
company:
  name: Retail Co
  sector: retail
statements:
  - year: 2024
    balanceSheet:
      totalAssets: 500
    incomeStatement:
      revenue: 700
      netIncome: 35
`
	rr := do(t, h, http.MethodPost, "/analyses", []byte(body), "application/yaml")
	require.Equal(t, http.StatusAccepted, rr.Code, rr.Body.String())
	env.Service.Wait()
}

func TestSubmitAnalysis_BadRequests(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed json", "/analyses", `{"company":`},
		{"no statements", "/analyses", `{"company": {"name": "x", "sector": "y"}, "statements": []}`},
		{"unknown tier", "/analyses?tier=gold", docJSON},
		{"unknown format", "/analyses?format=csv", docJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, tt.path, []byte(tt.body), "application/json")
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

// stubService returns a fixed Submit error.
type stubService struct {
	err error
}

func (s stubService) Submit(context.Context, model.Company, []model.FinancialStatement) (*model.Run, error) {
	return nil, s.err
}

func (stubService) Go(context.Context, *model.Run, []model.FinancialStatement) {}

func TestSubmitAnalysis_SubmitErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", errors.Join(engine.ErrInvalidInput, errors.New("statement year 2024 repeated")), http.StatusBadRequest},
		{"store", errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := buildRouter(apiDeps{Service: stubService{err: tt.err}, Defaults: testConfig().Engine})
			rr := do(t, h, http.MethodPost, "/analyses", []byte(docJSON), "application/json")
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestSubmitAnalysis_RateLimited(t *testing.T) {
	h, env := newTestRouter(t, rate.NewLimiter(rate.Every(time.Hour), 1))

	rr := do(t, h, http.MethodPost, "/analyses", []byte(docJSON), "application/json")
	assert.Equal(t, http.StatusAccepted, rr.Code)

	rr = do(t, h, http.MethodPost, "/analyses", []byte(docJSON), "application/json")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	// Reads are not limited.
	rr = do(t, h, http.MethodGet, "/runs", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	env.Service.Wait()
}

func TestGetRun_NotFound(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rr := do(t, h, http.MethodGet, "/runs/does-not-exist", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, h, http.MethodGet, "/runs/does-not-exist/export.xlsx", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestListRuns(t *testing.T) {
	h, env := newTestRouter(t, nil)

	rr := do(t, h, http.MethodGet, "/runs", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, "[]", rr.Body.String())

	for range 2 {
		require.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/analyses", []byte(docJSON), "").Code)
	}
	env.Service.Wait()

	rr = do(t, h, http.MethodGet, "/runs?status=completed&sector=industrial&limit=10", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var runs []model.Run
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	assert.Len(t, runs, 2)

	rr = do(t, h, http.MethodGet, "/runs?sector=retail", nil, "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &runs))
	assert.Empty(t, runs)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/runs?limit=-1", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/runs?since=yesterday", nil, "").Code)
}

func TestExportRun(t *testing.T) {
	h, env := newTestRouter(t, nil)

	rr := do(t, h, http.MethodPost, "/analyses", []byte(docJSON), "")
	require.Equal(t, http.StatusAccepted, rr.Code)
	var accepted map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &accepted))
	env.Service.Wait()

	rr = do(t, h, http.MethodGet, "/runs/"+accepted["id"]+"/export.xlsx", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, xlsxMIME, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), accepted["id"]+".xlsx")

	f, err := xlsx.OpenBinary(rr.Body.Bytes())
	require.NoError(t, err)
	assert.Contains(t, f.Sheet, "Results")
}

func TestMetrics(t *testing.T) {
	h, env := newTestRouter(t, nil)

	require.Equal(t, http.StatusAccepted, do(t, h, http.MethodPost, "/analyses", []byte(docJSON), "").Code)
	env.Service.Wait()

	rr := do(t, h, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var snap monitoring.MetricsSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, 1, snap.Total)
	assert.Equal(t, 1, snap.Completed)
	assert.Equal(t, 1, snap.BySector["industrial"])
}

func TestMetrics_Disabled(t *testing.T) {
	h := buildRouter(apiDeps{})
	rr := do(t, h, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCatalogEndpoint(t *testing.T) {
	h := buildRouter(apiDeps{})

	rr := do(t, h, http.MethodGet, "/catalog?tier=basic&lang=en", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var items []catalogItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	require.NotEmpty(t, items)
	assert.Equal(t, model.VerticalAnalysis, items[0].Type)
	assert.NotEmpty(t, items[0].Name)
	assert.True(t, items[0].Implemented)

	rr = do(t, h, http.MethodGet, "/catalog", nil, "")
	var all []catalogItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &all))
	assert.Greater(t, len(all), len(items))
}

func TestCORS_Preflight(t *testing.T) {
	h := buildRouter(apiDeps{Origins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/analyses", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestFormat(t *testing.T) {
	tests := []struct {
		query, contentType string
		want               string
	}{
		{"", "", "json"},
		{"", "application/json; charset=utf-8", "json"},
		{"", "application/x-yaml", "yaml"},
		{"", "text/yaml", "yaml"},
		{"", xlsxMIME, "xlsx"},
		{"?format=YAML", "application/json", "yaml"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/analyses"+tt.query, strings.NewReader(""))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}
		assert.Equal(t, tt.want, string(requestFormat(req)), "%s %s", tt.query, tt.contentType)
	}
}
