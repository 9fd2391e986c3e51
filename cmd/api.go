package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/config"
	"github.com/sells-group/finanalysis/internal/engine"
	"github.com/sells-group/finanalysis/internal/ingest"
	"github.com/sells-group/finanalysis/internal/model"
	"github.com/sells-group/finanalysis/internal/monitoring"
	"github.com/sells-group/finanalysis/internal/report"
	"github.com/sells-group/finanalysis/internal/selector"
	"github.com/sells-group/finanalysis/internal/store"
)

const (
	maxBodyBytes = 10 << 20
	xlsxMIME     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// analysisService submits and starts runs.
type analysisService interface {
	Submit(ctx context.Context, company model.Company, stmts []model.FinancialStatement) (*model.Run, error)
	Go(ctx context.Context, run *model.Run, stmts []model.FinancialStatement)
}

// runReader reads persisted runs.
type runReader interface {
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter store.RunFilter) ([]model.Run, error)
}

// apiDeps holds what the HTTP handlers need. A nil Limiter disables rate
// limiting and a nil Collector disables /metrics.
type apiDeps struct {
	Service       analysisService
	Runs          runReader
	Collector     *monitoring.Collector
	Limiter       *rate.Limiter
	Origins       []string
	Defaults      config.EngineConfig
	LookbackHours int
}

// buildRouter creates the HTTP API.
func buildRouter(d apiDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := d.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Location"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.With(rateLimit(d.Limiter)).Post("/analyses", d.handleSubmit)
	r.Get("/runs", d.handleListRuns)
	r.Get("/runs/{id}", d.handleGetRun)
	r.Get("/runs/{id}/export.xlsx", d.handleExport)
	r.Get("/metrics", d.handleMetrics)
	r.Get("/catalog", handleCatalog)

	return r
}

func (d apiDeps) handleSubmit(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	doc, err := ingest.Decode(data, requestFormat(r))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	if s := q.Get("tier"); s != "" {
		tier, ok := selector.ParseTier(s)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown tier "+strconv.Quote(s))
			return
		}
		doc.Company.AnalysisTier = tier
	}
	if s := q.Get("lang"); s != "" {
		doc.Company.Language = model.ParseLanguage(s)
	}
	applyDefaults(&doc.Company, d.Defaults)

	run, err := d.Service.Submit(r.Context(), doc.Company, doc.Statements)
	if errors.Is(err, engine.ErrInvalidInput) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		zap.L().Error("api: submit failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not create run")
		return
	}
	d.Service.Go(r.Context(), run, doc.Statements)

	w.Header().Set("Location", "/runs/"+run.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"id":     run.ID,
		"status": string(run.Status),
	})
}

// requestFormat picks the ingest format from the format query parameter or
// the Content-Type header. JSON is the default.
func requestFormat(r *http.Request) ingest.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return ingest.Format(strings.ToLower(f))
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return ingest.FormatYAML
	case xlsxMIME:
		return ingest.FormatXLSX
	default:
		return ingest.FormatJSON
	}
}

func (d apiDeps) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.RunFilter{
		Status: model.RunStatus(q.Get("status")),
		Sector: q.Get("sector"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	if s := q.Get("since"); s != "" {
		since, err := time.ParseDuration(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since")
			return
		}
		filter.Since = time.Now().Add(-since)
	}

	runs, err := d.Runs.ListRuns(r.Context(), filter)
	if err != nil {
		zap.L().Error("api: list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list runs")
		return
	}
	if runs == nil {
		runs = []model.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (d apiDeps) loadRun(w http.ResponseWriter, r *http.Request) (*model.Run, bool) {
	id := chi.URLParam(r, "id")
	run, err := d.Runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return nil, false
	}
	if err != nil {
		zap.L().Error("api: get run", zap.String("run_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load run")
		return nil, false
	}
	return run, true
}

func (d apiDeps) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if run, ok := d.loadRun(w, r); ok {
		writeJSON(w, http.StatusOK, run)
	}
}

func (d apiDeps) handleExport(w http.ResponseWriter, r *http.Request) {
	run, ok := d.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+run.ID+`.xlsx"`)
	if err := report.WriteXLSX(w, run); err != nil {
		zap.L().Error("api: export run", zap.String("run_id", run.ID), zap.Error(err))
	}
}

func (d apiDeps) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if d.Collector == nil {
		writeError(w, http.StatusNotFound, "metrics disabled")
		return
	}
	snap, err := d.Collector.Collect(r.Context(), d.LookbackHours)
	if err != nil {
		zap.L().Error("api: collect metrics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not collect metrics")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

type catalogItem struct {
	Type        model.AnalysisType `json:"type"`
	Name        string             `json:"name"`
	Category    model.Category     `json:"category"`
	Implemented bool               `json:"implemented"`
}

func handleCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tier, _ := selector.ParseTier(q.Get("tier"))
	lang := model.ParseLanguage(q.Get("lang"))

	entries := catalogEntries(tier)
	items := make([]catalogItem, len(entries))
	for i, e := range entries {
		items[i] = catalogItem{
			Type:        e.Type,
			Name:        e.Type.DisplayName(lang),
			Category:    e.Category,
			Implemented: e.Implemented,
		}
	}
	writeJSON(w, http.StatusOK, items)
}

// rateLimit rejects requests with 429 once lim is exhausted.
func rateLimit(lim *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if lim == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !lim.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Debug("api: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid integer")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// catalogEntries lists the analysis types of tier with their catalog status.
func catalogEntries(tier model.Tier) []report.CatalogEntry {
	reg := catalog.Default()
	types := selector.Select(tier)
	out := make([]report.CatalogEntry, len(types))
	for i, t := range types {
		_, ok := reg.Lookup(t)
		out[i] = report.CatalogEntry{Type: t, Category: t.Category(), Implemented: ok}
	}
	return out
}
