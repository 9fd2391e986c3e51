package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/finanalysis/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	company      TEXT NOT NULL,
	sector       TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'pending',
	progress     INTEGER NOT NULL DEFAULT 0,
	current_step TEXT NOT NULL DEFAULT '',
	results      TEXT NOT NULL DEFAULT '[]',
	summary      TEXT,
	error        TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	completed_at DATETIME
);

CREATE TABLE IF NOT EXISTS industry_benchmarks (
	sector     TEXT NOT NULL,
	activity   TEXT NOT NULL DEFAULT '',
	region     TEXT NOT NULL DEFAULT 'global',
	metric     TEXT NOT NULL,
	value      REAL NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (sector, activity, region, metric)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_sector ON runs(sector);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

const sqliteRunColumns = `id, company, status, progress, current_step, results, summary, error, created_at, updated_at, completed_at`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, company model.Company) (*model.Run, error) {
	run := newRun(uuid.New().String(), company, time.Now().UTC())

	companyJSON, err := json.Marshal(company)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal company")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, company, sector, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, string(companyJSON), company.Sector, string(run.Status), run.CreatedAt, run.LastUpdated,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}
	return run, nil
}

// UpdateRun applies patch to the stored record inside a transaction so
// progress stays monotonic and terminal states stick.
func (s *SQLiteStore) UpdateRun(ctx context.Context, runID string, patch model.RunPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin update run")
	}
	defer tx.Rollback() //nolint:errcheck

	run, err := scanRun(tx.QueryRowContext(ctx, `SELECT `+sqliteRunColumns+` FROM runs WHERE id = ?`, runID))
	if err != nil {
		return err
	}
	patch.Apply(run, time.Now().UTC())

	resultsJSON, summaryJSON, err := marshalOutputs(run)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE runs SET status = ?, progress = ?, current_step = ?, results = ?, summary = ?, error = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		string(run.Status), run.Progress, run.CurrentStep, string(resultsJSON), textOrNull(summaryJSON), run.Error,
		run.LastUpdated, run.CompletedAt, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run %s", runID)
	}
	if err := checkRowsAffected(res, "run", runID); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit update run")
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + sqliteRunColumns + ` FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.Sector != "" {
		query += ` AND sector = ?`
		args = append(args, filter.Sector)
	}
	if !filter.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, filter.Since.UTC())
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, defaultLimit(filter.Limit))

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) GetBenchmarks(ctx context.Context, sector, activity string, region model.ComparisonLevel) (model.Benchmarks, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT metric, value FROM industry_benchmarks WHERE sector = ? AND activity = ? AND region = ?`,
		sector, activity, string(region),
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get benchmarks")
	}
	defer rows.Close() //nolint:errcheck

	var bm model.Benchmarks
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan benchmark")
		}
		if bm == nil {
			bm = model.Benchmarks{}
		}
		bm[metric] = value
	}
	return bm, eris.Wrap(rows.Err(), "sqlite: get benchmarks iterate")
}

func (s *SQLiteStore) UpsertBenchmarks(ctx context.Context, rows []BenchmarkRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin upsert benchmarks")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO industry_benchmarks (sector, activity, region, metric, value, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (sector, activity, region, metric) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare upsert benchmarks")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	var n int64
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, r.Sector, r.Activity, string(regionOrGlobal(r.Region)), r.Metric, r.Value, now)
		if err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert benchmark %s/%s", r.Sector, r.Metric)
		}
		affected, _ := res.RowsAffected()
		n += affected
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit upsert benchmarks")
	}
	return n, nil
}

func (s *SQLiteStore) ListBenchmarks(ctx context.Context, sector string) ([]BenchmarkRow, error) {
	query := `SELECT sector, activity, region, metric, value, updated_at FROM industry_benchmarks`
	var args []any
	if sector != "" {
		query += ` WHERE sector = ?`
		args = append(args, sector)
	}
	query += ` ORDER BY sector, activity, region, metric`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list benchmarks")
	}
	defer rows.Close() //nolint:errcheck

	var out []BenchmarkRow
	for rows.Next() {
		var r BenchmarkRow
		if err := rows.Scan(&r.Sector, &r.Activity, &r.Region, &r.Metric, &r.Value, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan benchmark")
		}
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list benchmarks iterate")
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.Run, error) {
	var r model.Run
	var companyJSON, resultsJSON string
	var summaryJSON sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(&r.ID, &companyJSON, &r.Status, &r.Progress, &r.CurrentStep, &resultsJSON,
		&summaryJSON, &r.Error, &r.CreatedAt, &r.LastUpdated, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.Wrap(ErrNotFound, "sqlite: run")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(companyJSON), &r.Company); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal company")
	}
	if err := unmarshalOutputs(&r, []byte(resultsJSON), nullBytes(summaryJSON)); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
	}
	return &r, nil
}

func nullBytes(s sql.NullString) []byte {
	if !s.Valid {
		return nil
	}
	return []byte(s.String)
}

// marshalOutputs encodes results and the summary. The summary is nil when
// the run has none.
func marshalOutputs(r *model.Run) (results, summary []byte, err error) {
	if r.Results == nil {
		r.Results = []model.AnalysisResult{}
	}
	results, err = json.Marshal(r.Results)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal results")
	}
	if r.ExecutiveSummary != nil {
		summary, err = json.Marshal(r.ExecutiveSummary)
		if err != nil {
			return nil, nil, eris.Wrap(err, "store: marshal summary")
		}
	}
	return results, summary, nil
}

func textOrNull(b []byte) any {
	if b == nil {
		return nil
	}
	return string(b)
}

func unmarshalOutputs(r *model.Run, results, summary []byte) error {
	r.Results = []model.AnalysisResult{}
	if len(results) > 0 {
		if err := json.Unmarshal(results, &r.Results); err != nil {
			return eris.Wrap(err, "store: unmarshal results")
		}
	}
	if len(summary) > 0 {
		r.ExecutiveSummary = &model.ExecutiveSummary{}
		if err := json.Unmarshal(summary, r.ExecutiveSummary); err != nil {
			return eris.Wrap(err, "store: unmarshal summary")
		}
	}
	return nil
}

func regionOrGlobal(r model.ComparisonLevel) model.ComparisonLevel {
	if r == "" {
		return model.ComparisonGlobal
	}
	return r
}
