package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/finanalysis/internal/catalog"
	"github.com/sells-group/finanalysis/internal/model"
)

func TestService_SubmitAndExecute(t *testing.T) {
	st := newMemStore()
	r := NewRunner(catalog.Default(), okBenchmarks(), st, only(model.CurrentRatio, model.QuickRatio))
	svc := NewService(st, r)
	ctx := context.Background()

	stmts := []model.FinancialStatement{statement(2024, 100)}
	run, err := svc.Submit(ctx, acme(model.TierBasic), stmts)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusPending, run.Status)

	final, err := svc.Execute(ctx, run, stmts)
	require.NoError(t, err)
	assert.Equal(t, run.ID, final.ID)
	assert.Equal(t, model.RunStatusCompleted, final.Status)
	assert.Len(t, final.Results, 2)
	assert.NotNil(t, final.ExecutiveSummary)
}

func TestService_SubmitValidates(t *testing.T) {
	svc := NewService(newMemStore(), NewRunner(catalog.Default(), okBenchmarks(), nil))
	ctx := context.Background()

	_, err := svc.Submit(ctx, model.Company{Sector: "retail"}, []model.FinancialStatement{statement(2024, 100)})
	assert.ErrorIs(t, err, ErrInvalidInput, "name is required")

	_, err = svc.Submit(ctx, acme(""), nil)
	assert.ErrorIs(t, err, ErrInvalidInput, "statements are required")

	_, err = svc.Submit(ctx, acme(""), []model.FinancialStatement{statement(2024, 100), statement(2024, 120)})
	assert.ErrorIs(t, err, ErrInvalidInput, "duplicate years")
}

func TestService_ExecuteFailureReturnsRecord(t *testing.T) {
	st := newMemStore()
	r := NewRunner(funcCatalog{model.CurrentRatio: failing("boom")}, okBenchmarks(), st, only(model.CurrentRatio))
	svc := NewService(st, r)
	ctx := context.Background()

	stmts := []model.FinancialStatement{statement(2024, 100)}
	run, err := svc.Submit(ctx, acme(""), stmts)
	require.NoError(t, err)

	final, err := svc.Execute(ctx, run, stmts)
	require.Error(t, err)
	require.NotNil(t, final)
	assert.Equal(t, model.RunStatusFailed, final.Status)
}

func TestService_GoAndWait(t *testing.T) {
	st := newMemStore()
	r := NewRunner(funcCatalog{model.CurrentRatio: good(model.CurrentRatio)}, okBenchmarks(), st, only(model.CurrentRatio))
	svc := NewService(st, r)

	ctx, cancel := context.WithCancel(context.Background())
	stmts := []model.FinancialStatement{statement(2024, 100)}
	run, err := svc.Submit(ctx, acme(""), stmts)
	require.NoError(t, err)

	svc.Go(ctx, run, stmts)
	cancel()
	svc.Wait()

	final, err := st.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, final.Status, "background runs ignore request cancellation")
}
