package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// UpsertConfig describes a merge into a table with a unique key.
type UpsertConfig struct {
	Table        string   // target table, optionally schema-qualified
	Columns      []string // column order of every row
	ConflictKeys []string // unique key columns, a subset of Columns
	UpdateCols   []string // nil updates every non-key column
}

// upsertPlan is a validated UpsertConfig with its statements rendered.
type upsertPlan struct {
	keyIdx    []int
	tempTable string
	createSQL string
	mergeSQL  string
}

func (cfg UpsertConfig) plan() (*upsertPlan, error) {
	if len(cfg.Columns) == 0 {
		return nil, eris.New("db: upsert: no columns specified")
	}
	if len(cfg.ConflictKeys) == 0 {
		return nil, eris.New("db: upsert: no conflict keys specified")
	}

	pos := make(map[string]int, len(cfg.Columns))
	for i, c := range cfg.Columns {
		pos[c] = i
	}
	p := &upsertPlan{keyIdx: make([]int, len(cfg.ConflictKeys))}
	isKey := make(map[string]bool, len(cfg.ConflictKeys))
	for i, k := range cfg.ConflictKeys {
		idx, ok := pos[k]
		if !ok {
			return nil, eris.Errorf("db: upsert: conflict key %q is not a column", k)
		}
		p.keyIdx[i] = idx
		isKey[k] = true
	}

	update := cfg.UpdateCols
	if update == nil {
		for _, c := range cfg.Columns {
			if !isKey[c] {
				update = append(update, c)
			}
		}
	}
	action := "DO NOTHING"
	if len(update) > 0 {
		set := make([]string, len(update))
		for i, c := range update {
			col := pgx.Identifier{c}.Sanitize()
			set[i] = col + " = EXCLUDED." + col
		}
		action = "DO UPDATE SET " + strings.Join(set, ", ")
	}

	p.tempTable = "_tmp_upsert_" + strings.ReplaceAll(cfg.Table, ".", "_")
	temp := pgx.Identifier{p.tempTable}.Sanitize()
	cols := quoteAndJoin(cfg.Columns)
	p.createSQL = fmt.Sprintf("CREATE TEMP TABLE %s (LIKE %s INCLUDING DEFAULTS) ON COMMIT DROP",
		temp, sanitizeTable(cfg.Table))
	p.mergeSQL = fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s ON CONFLICT (%s) %s",
		sanitizeTable(cfg.Table), cols, cols, temp, quoteAndJoin(cfg.ConflictKeys), action)
	return p, nil
}

// dedupe keeps the last row for each conflict key, in first-seen order.
// INSERT ... ON CONFLICT rejects a statement that touches the same key twice.
func (p *upsertPlan) dedupe(rows [][]any, width int) ([][]any, error) {
	seen := make(map[string]int, len(rows))
	out := make([][]any, 0, len(rows))
	var key strings.Builder
	for n, row := range rows {
		if len(row) != width {
			return nil, eris.Errorf("db: upsert: row %d has %d values, want %d", n, len(row), width)
		}
		key.Reset()
		for _, i := range p.keyIdx {
			fmt.Fprintf(&key, "%v\x00", row[i])
		}
		if at, ok := seen[key.String()]; ok {
			out[at] = row
			continue
		}
		seen[key.String()] = len(out)
		out = append(out, row)
	}
	return out, nil
}

// BulkUpsert copies rows into a transaction-scoped temp table and merges
// them into the target with INSERT ... ON CONFLICT. Rows repeating a key are
// collapsed to the last one. It returns the number of rows merged.
func BulkUpsert(ctx context.Context, pool Pool, cfg UpsertConfig, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	p, err := cfg.plan()
	if err != nil {
		return 0, err
	}
	rows, err = p.dedupe(rows, len(cfg.Columns))
	if err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "db: upsert: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, p.createSQL); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: create temp table for %s", cfg.Table)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{p.tempTable}, cfg.Columns, pgx.CopyFromRows(rows)); err != nil {
		return 0, eris.Wrapf(err, "db: upsert: COPY into temp table for %s", cfg.Table)
	}
	tag, err := tx.Exec(ctx, p.mergeSQL)
	if err != nil {
		return 0, eris.Wrapf(err, "db: upsert: merge into %s", cfg.Table)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "db: upsert: commit tx")
	}
	return tag.RowsAffected(), nil
}

func sanitizeTable(table string) string {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return pgx.Identifier{schema, name}.Sanitize()
	}
	return pgx.Identifier{table}.Sanitize()
}

func quoteAndJoin(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = pgx.Identifier{c}.Sanitize()
	}
	return strings.Join(quoted, ", ")
}
