package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caudal-io/caudal/internal/config"
	"github.com/caudal-io/caudal/internal/engine"
	"github.com/caudal-io/caudal/internal/model"
	"github.com/caudal-io/caudal/internal/service"
	"github.com/caudal-io/caudal/internal/testutil"
)

var testClock = func() time.Time {
	return time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T, store service.Storage) *engine.Engine {
	t.Helper()

	eng, err := engine.New(store, config.DefaultEngine(), engine.WithClock(testClock))
	require.NoError(t, err)
	return eng
}

func seedHistory(t *testing.T, store service.Storage, companyID string) {
	t.Helper()
	ctx := context.Background()

	// Two months of weekly income and a recurring day-5 expense.
	var movements []model.Movement
	for week := 0; week < 8; week++ {
		date := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week)
		movements = append(movements, testutil.MovementOn(companyID, date, model.KindIncome, 3000))
	}
	movements = append(movements,
		testutil.MovementOn(companyID, time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC), model.KindExpense, 10000),
		testutil.MovementOn(companyID, time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC), model.KindExpense, 10100),
		testutil.MovementOn(companyID, time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC), model.KindExpense, 9900),
	)
	require.NoError(t, store.SaveMovements(ctx, movements))
}

func TestRunProjection_PersistsFullBundle(t *testing.T) {
	store := testutil.SetupTestDB(t)
	companyID := testutil.SeedCompany(t, store, decimal.NewFromInt(100000), nil)
	seedHistory(t, store, companyID)
	eng := newTestEngine(t, store)
	ctx := context.Background()

	bundle, err := eng.RunProjection(ctx, companyID, 0)
	require.NoError(t, err)

	require.Len(t, bundle.Realistic, engine.DefaultHorizonDays)
	require.Len(t, bundle.Optimistic, engine.DefaultHorizonDays)
	require.Len(t, bundle.Pesimistic, engine.DefaultHorizonDays)

	assert.Equal(t, "100000.00", bundle.CurrentCash.StringFixed(2))
	assert.Equal(t, engine.AlgorithmVersion, bundle.Metadata.AlgorithmVersion)
	assert.Positive(t, bundle.Metadata.HistoryDays)
	assert.Equal(t, 1, bundle.Metadata.PatternsDetected, "the day-5 expense should cluster")

	for i, point := range bundle.Realistic {
		assert.Equal(t, i+1, point.DayIndex)
		assert.Equal(t, testClock().AddDate(0, 0, i+1).Format("2006-01-02"), point.Date.Format("2006-01-02"))
	}

	from := testClock()
	to := from.AddDate(0, 0, 90)
	for _, scenario := range []model.Scenario{model.ScenarioOptimistic, model.ScenarioRealistic, model.ScenarioPesimistic} {
		stored, err := store.GetProjections(ctx, companyID, scenario, from, to)
		require.NoError(t, err)
		assert.Len(t, stored, engine.DefaultHorizonDays, "scenario %s", scenario)
	}
}

func TestRunProjection_RerunIsIdempotent(t *testing.T) {
	store := testutil.SetupTestDB(t)
	companyID := testutil.SeedCompany(t, store, decimal.NewFromInt(100000), nil)
	seedHistory(t, store, companyID)
	eng := newTestEngine(t, store)
	ctx := context.Background()

	first, err := eng.RunProjection(ctx, companyID, 30)
	require.NoError(t, err)
	second, err := eng.RunProjection(ctx, companyID, 30)
	require.NoError(t, err)

	require.Len(t, second.Realistic, len(first.Realistic))
	for i := range first.Realistic {
		a, b := first.Realistic[i], second.Realistic[i]
		assert.True(t, a.Cash.Equal(b.Cash), "day %d: %s vs %s", a.DayIndex, a.Cash, b.Cash)
		assert.Equal(t, a.Confidence, b.Confidence)
	}

	// Replace semantics: the second run leaves exactly one generation stored.
	stored, err := store.GetProjections(ctx, companyID, model.ScenarioRealistic, testClock(), testClock().AddDate(0, 0, 90))
	require.NoError(t, err)
	assert.Len(t, stored, 30)
}

func TestRunProjection_HorizonIsCapped(t *testing.T) {
	store := testutil.SetupTestDB(t)
	companyID := testutil.SeedCompany(t, store, decimal.NewFromInt(100000), nil)
	eng := newTestEngine(t, store)

	bundle, err := eng.RunProjection(context.Background(), companyID, 500)
	require.NoError(t, err)
	assert.Len(t, bundle.Realistic, config.DefaultEngine().HorizonCapDays)
}

func TestSummary(t *testing.T) {
	store := testutil.SetupTestDB(t)
	companyID := testutil.SeedCompany(t, store, decimal.NewFromInt(100000), nil)
	eng := newTestEngine(t, store)
	ctx := context.Background()

	summary, err := eng.Summary(ctx, companyID)
	require.NoError(t, err)
	assert.Nil(t, summary, "no projection stored yet")

	// Income-only history makes the projected trajectory rise.
	var movements []model.Movement
	for week := 0; week < 8; week++ {
		date := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*week)
		movements = append(movements, testutil.MovementOn(companyID, date, model.KindIncome, 3000))
	}
	require.NoError(t, store.SaveMovements(ctx, movements))

	_, err = eng.RunProjection(ctx, companyID, 30)
	require.NoError(t, err)

	summary, err = eng.Summary(ctx, companyID)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, model.TrendRising, summary.Trend)
	assert.Equal(t, "100000.00", summary.CurrentCash.StringFixed(2))
	assert.True(t, summary.ProjectedCash.GreaterThan(summary.CurrentCash))
	assert.Greater(t, summary.Confidence, 0.0)
}

func TestRunAlertEvaluation_UsesCompanyThresholdOverride(t *testing.T) {
	store := testutil.SetupTestDB(t)
	eng := newTestEngine(t, store)
	ctx := context.Background()

	// 40000 sits below the stock 50000 threshold but above the override.
	defaulted := testutil.SeedCompany(t, store, decimal.NewFromInt(40000), nil)
	overridden := testutil.SeedCompany(t, store, decimal.NewFromInt(40000),
		map[string]any{"low_cash_threshold": 30000.0})

	created, err := eng.RunAlertEvaluation(ctx, defaulted)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, model.RuleCashLow, created[0].RuleType)
	assert.Equal(t, model.SeverityWarning, created[0].Severity)

	created, err = eng.RunAlertEvaluation(ctx, overridden)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	store := testutil.SetupTestDB(t)

	cfg := config.DefaultEngine()
	cfg.LookbackDays = 0

	_, err := engine.New(store, cfg)
	require.Error(t, err)
}
