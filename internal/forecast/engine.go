package forecast

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/model"
)

// Config holds the projection parameters. Values come from the application
// configuration so companies can override them without code changes.
type Config struct {
	Seasonal        SeasonalTable
	ConfidenceDecay float64
	ConfidenceFloor float64
}

// Projector simulates the realistic day-by-day cash trajectory from the
// aggregated history and detected recurring payments.
type Projector struct {
	cfg Config
}

// NewProjector creates a projector with the given parameters.
func NewProjector(cfg Config) *Projector {
	return &Projector{cfg: cfg}
}

// Project simulates horizonDays of cash flow starting the day after today.
// Each day combines the seasonal-adjusted daily averages with any recurring
// payment detected for that day of the month. Confidence decays linearly
// with the horizon and floors at the configured minimum.
//
// The output is a contiguous, ordered sequence of exactly horizonDays
// points; the starting cash itself is never emitted. The projector places no
// upper bound on the horizon; callers cap it.
func (p *Projector) Project(today time.Time, currentCash decimal.Decimal, agg AggregationResult, patterns map[int]DayPattern, horizonDays int) []model.ProjectionPoint {
	points := make([]model.ProjectionPoint, 0, horizonDays)
	cash := currentCash

	for day := 1; day <= horizonDays; day++ {
		date := today.AddDate(0, 0, day)

		seasonal := decimal.NewFromFloat(p.cfg.Seasonal.FactorFor(date))
		pattern := patterns[date.Day()]

		income := agg.DailyAvgIncome.Mul(seasonal).Add(pattern.Income)
		expense := agg.DailyAvgExpense.Mul(seasonal).Add(pattern.Expense)

		cash = cash.Add(income).Sub(expense).Round(2)

		confidence := math.Max(p.cfg.ConfidenceFloor, 1-p.cfg.ConfidenceDecay*float64(day))

		points = append(points, model.ProjectionPoint{
			Date:       date,
			DayIndex:   day,
			Scenario:   model.ScenarioRealistic,
			Cash:       cash,
			Income:     income.Round(2),
			Expense:    expense.Round(2),
			Confidence: confidence,
		})
	}

	return points
}
