package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Scenario identifies one of the three projected cash trajectories.
// The string values are the persisted wire values of the projection store;
// "pesimistic" keeps compatibility with historical data.
type Scenario string

// Scenarios.
const (
	ScenarioOptimistic Scenario = "optimistic"
	ScenarioRealistic  Scenario = "realistic"
	ScenarioPesimistic Scenario = "pesimistic"
)

// ProjectionPoint is one projected day of a cash trajectory.
type ProjectionPoint struct {
	Date       time.Time
	Scenario   Scenario
	Cash       decimal.Decimal
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Confidence float64
	DayIndex   int
}

// ProjectionMetadata describes how a projection batch was produced.
type ProjectionMetadata struct {
	GeneratedAt      time.Time
	AlgorithmVersion string
	HistoryDays      int
	PatternsDetected int
}

// ScenarioBundle is the full output of one projection run: the three
// scenario trajectories plus run metadata.
type ScenarioBundle struct {
	Metadata    ProjectionMetadata
	CurrentCash decimal.Decimal
	Optimistic  []ProjectionPoint
	Realistic   []ProjectionPoint
	Pesimistic  []ProjectionPoint
}

// Points returns the points for the given scenario, or nil if unknown.
func (b *ScenarioBundle) Points(scenario Scenario) []ProjectionPoint {
	switch scenario {
	case ScenarioOptimistic:
		return b.Optimistic
	case ScenarioRealistic:
		return b.Realistic
	case ScenarioPesimistic:
		return b.Pesimistic
	}
	return nil
}

// Trend describes the direction of a projected cash trajectory.
type Trend string

// Trends.
const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
)

// OutlookSummary condenses the stored 30-day realistic projection for
// dashboard consumption.
type OutlookSummary struct {
	CurrentCash   decimal.Decimal
	ProjectedCash decimal.Decimal
	Trend         Trend
	Confidence    float64
}
