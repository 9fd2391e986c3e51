package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/finanalysis/internal/db"
	"github.com/sells-group/finanalysis/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const pgRunColumns = `id, company, status, progress, current_step, results, summary, error, created_at, updated_at, completed_at`

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run":         `INSERT INTO runs (id, company, sector, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"get_run":            `SELECT ` + pgRunColumns + ` FROM runs WHERE id = $1`,
	"get_run_for_update": `SELECT ` + pgRunColumns + ` FROM runs WHERE id = $1 FOR UPDATE`,
	"update_run":         `UPDATE runs SET status = $1, progress = $2, current_step = $3, results = $4, summary = $5, error = $6, updated_at = $7, completed_at = $8 WHERE id = $9`,
	"get_benchmarks":     `SELECT metric, value FROM industry_benchmarks WHERE sector = $1 AND activity = $2 AND region = $3`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company      JSONB NOT NULL,
	sector       TEXT NOT NULL DEFAULT '',
	status       TEXT NOT NULL DEFAULT 'pending',
	progress     INTEGER NOT NULL DEFAULT 0,
	current_step TEXT NOT NULL DEFAULT '',
	results      JSONB NOT NULL DEFAULT '[]',
	summary      JSONB,
	error        TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_sector ON runs(sector);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at DESC);

CREATE TABLE IF NOT EXISTS industry_benchmarks (
	sector     TEXT NOT NULL,
	activity   TEXT NOT NULL DEFAULT '',
	region     TEXT NOT NULL DEFAULT 'global',
	metric     TEXT NOT NULL,
	value      DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sector, activity, region, metric)
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, company model.Company) (*model.Run, error) {
	run := newRun(uuid.New().String(), company, time.Now().UTC())

	companyJSON, err := json.Marshal(company)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal company")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, company, sector, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		run.ID, companyJSON, company.Sector, string(run.Status), run.CreatedAt, run.LastUpdated,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}
	return run, nil
}

// UpdateRun locks the row, applies patch and writes it back.
func (s *PostgresStore) UpdateRun(ctx context.Context, runID string, patch model.RunPatch) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin update run")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	run, err := scanPgRun(tx.QueryRow(ctx, `SELECT `+pgRunColumns+` FROM runs WHERE id = $1 FOR UPDATE`, runID))
	if err != nil {
		return eris.Wrapf(err, "postgres: update run %s", runID)
	}
	patch.Apply(run, time.Now().UTC())

	resultsJSON, summaryJSON, err := marshalOutputs(run)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE runs SET status = $1, progress = $2, current_step = $3, results = $4, summary = $5, error = $6, updated_at = $7, completed_at = $8 WHERE id = $9`,
		string(run.Status), run.Progress, run.CurrentStep, resultsJSON, summaryJSON, run.Error,
		run.LastUpdated, run.CompletedAt, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "run %s", runID)
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit update run")
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	run, err := scanPgRun(s.pool.QueryRow(ctx,
		`SELECT `+pgRunColumns+` FROM runs WHERE id = $1`,
		runID,
	))
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT ` + pgRunColumns + ` FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.Sector != "" {
		query += fmt.Sprintf(` AND sector = $%d`, argIdx)
		args = append(args, filter.Sector)
		argIdx++
	}
	if !filter.Since.IsZero() {
		query += fmt.Sprintf(` AND created_at >= $%d`, argIdx)
		args = append(args, filter.Since.UTC())
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, argIdx)
	args = append(args, defaultLimit(filter.Limit))
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanPgRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list runs")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) GetBenchmarks(ctx context.Context, sector, activity string, region model.ComparisonLevel) (model.Benchmarks, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT metric, value FROM industry_benchmarks WHERE sector = $1 AND activity = $2 AND region = $3`,
		sector, activity, string(region),
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get benchmarks")
	}
	defer rows.Close()

	var bm model.Benchmarks
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, eris.Wrap(err, "postgres: scan benchmark")
		}
		if bm == nil {
			bm = model.Benchmarks{}
		}
		bm[metric] = value
	}
	return bm, eris.Wrap(rows.Err(), "postgres: get benchmarks iterate")
}

// UpsertBenchmarks bulk-loads rows through db.BulkUpsert.
func (s *PostgresStore) UpsertBenchmarks(ctx context.Context, rows []BenchmarkRow) (int64, error) {
	now := time.Now().UTC()
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r.Sector, r.Activity, string(regionOrGlobal(r.Region)), r.Metric, r.Value, now}
	}
	n, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "industry_benchmarks",
		Columns:      []string{"sector", "activity", "region", "metric", "value", "updated_at"},
		ConflictKeys: []string{"sector", "activity", "region", "metric"},
	}, data)
	return n, eris.Wrap(err, "postgres: upsert benchmarks")
}

func (s *PostgresStore) ListBenchmarks(ctx context.Context, sector string) ([]BenchmarkRow, error) {
	query := `SELECT sector, activity, region, metric, value, updated_at FROM industry_benchmarks`
	var args []any
	if sector != "" {
		query += ` WHERE sector = $1`
		args = append(args, sector)
	}
	query += ` ORDER BY sector, activity, region, metric`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list benchmarks")
	}
	defer rows.Close()

	var out []BenchmarkRow
	for rows.Next() {
		var r BenchmarkRow
		var region string
		if err := rows.Scan(&r.Sector, &r.Activity, &region, &r.Metric, &r.Value, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan benchmark")
		}
		r.Region = model.ComparisonLevel(region)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list benchmarks iterate")
}

func scanPgRun(row pgx.Row) (*model.Run, error) {
	var r model.Run
	var status string
	var companyJSON, resultsJSON, summaryJSON []byte

	err := row.Scan(&r.ID, &companyJSON, &status, &r.Progress, &r.CurrentStep, &resultsJSON,
		&summaryJSON, &r.Error, &r.CreatedAt, &r.LastUpdated, &r.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan run")
	}
	r.Status = model.RunStatus(status)

	if err := json.Unmarshal(companyJSON, &r.Company); err != nil {
		return nil, eris.Wrap(err, "unmarshal company")
	}
	if err := unmarshalOutputs(&r, resultsJSON, summaryJSON); err != nil {
		return nil, err
	}
	return &r, nil
}
