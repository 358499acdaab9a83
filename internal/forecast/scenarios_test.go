package forecast

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caudal-io/caudal/internal/model"
)

func TestScenarioGenerator_Bands(t *testing.T) {
	generator := NewScenarioGenerator(1.15, 0.85)

	realistic := []model.ProjectionPoint{{
		Date:       time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
		DayIndex:   1,
		Scenario:   model.ScenarioRealistic,
		Cash:       decimal.NewFromInt(1000),
		Income:     decimal.NewFromInt(200),
		Expense:    decimal.NewFromInt(150),
		Confidence: 0.985,
	}}

	bundle := generator.Generate(realistic)

	require.Len(t, bundle.Optimistic, 1)
	require.Len(t, bundle.Pesimistic, 1)

	assert.Equal(t, "1150.00", bundle.Optimistic[0].Cash.StringFixed(2))
	assert.Equal(t, "850.00", bundle.Pesimistic[0].Cash.StringFixed(2))

	// Everything but the scenario tag and projected cash is copied as is;
	// the realistic slice is the unmodified input.
	assert.Equal(t, model.ScenarioOptimistic, bundle.Optimistic[0].Scenario)
	assert.Equal(t, model.ScenarioPesimistic, bundle.Pesimistic[0].Scenario)
	assert.True(t, bundle.Optimistic[0].Income.Equal(realistic[0].Income))
	assert.True(t, bundle.Pesimistic[0].Expense.Equal(realistic[0].Expense))
	assert.InDelta(t, 0.985, bundle.Optimistic[0].Confidence, 1e-9)
	assert.Equal(t, realistic, bundle.Realistic)
}

func TestScenarioGenerator_BandDoesNotWidenWithHorizon(t *testing.T) {
	// The multipliers are uniform across the horizon: the band ratio at day
	// 90 is the same as at day 1. Preserved as specified, not a bug.
	generator := NewScenarioGenerator(1.15, 0.85)

	realistic := []model.ProjectionPoint{
		{DayIndex: 1, Cash: decimal.NewFromInt(1000), Scenario: model.ScenarioRealistic},
		{DayIndex: 90, Cash: decimal.NewFromInt(1000), Scenario: model.ScenarioRealistic},
	}

	bundle := generator.Generate(realistic)
	assert.True(t, bundle.Optimistic[0].Cash.Equal(bundle.Optimistic[1].Cash))
	assert.True(t, bundle.Pesimistic[0].Cash.Equal(bundle.Pesimistic[1].Cash))
}

func TestScenarioGenerator_RoundsToCents(t *testing.T) {
	generator := NewScenarioGenerator(1.15, 0.85)

	realistic := []model.ProjectionPoint{{
		DayIndex: 1,
		Cash:     decimal.RequireFromString("1000.33"),
		Scenario: model.ScenarioRealistic,
	}}

	bundle := generator.Generate(realistic)
	// 1000.33 * 1.15 = 1150.3795, 1000.33 * 0.85 = 850.2805.
	assert.Equal(t, "1150.38", bundle.Optimistic[0].Cash.StringFixed(2))
	assert.Equal(t, "850.28", bundle.Pesimistic[0].Cash.StringFixed(2))
}
