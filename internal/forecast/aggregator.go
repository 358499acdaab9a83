// Package forecast implements the cash-flow projection engine: history
// aggregation, recurring-payment detection, seasonal adjustment, day-by-day
// simulation, and scenario band derivation. All components are pure
// computations over in-memory history; persistence lives elsewhere.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
)

// DaySamples holds the historical amounts observed on one day of the month,
// split by movement kind.
type DaySamples struct {
	Income  []decimal.Decimal
	Expense []decimal.Decimal
}

// AggregationResult is the reduced view of a movement history that the
// projection engine consumes.
type AggregationResult struct {
	// SamplesByDay groups amounts by day of month (1..31).
	SamplesByDay map[int]*DaySamples

	DailyAvgIncome  decimal.Decimal
	DailyAvgExpense decimal.Decimal

	// HistoryDays counts the distinct calendar days that had at least one
	// movement. It is the denominator of the daily averages.
	HistoryDays int
}

// Aggregate reduces a movement history into per-day-of-month samples and
// overall daily averages. Movements older than lookbackDays before asOf are
// ignored. The averages divide by the count of distinct days with movements,
// not by the lookback window, so sparse histories are not diluted; with no
// movements the denominator defaults to 1 and both averages are zero.
func Aggregate(movements []model.Movement, asOf time.Time, lookbackDays int) (AggregationResult, error) {
	cutoff := asOf.AddDate(0, 0, -lookbackDays)

	result := AggregationResult{
		SamplesByDay: make(map[int]*DaySamples),
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	seenDays := make(map[string]struct{})

	for i := range movements {
		mov := &movements[i]
		if mov.Amount.IsNegative() {
			return AggregationResult{}, common.DataErrorf("movement %s has negative amount %s", mov.ID, mov.Amount)
		}
		if mov.OccurredOn.Before(cutoff) || mov.OccurredOn.After(asOf) {
			continue
		}

		seenDays[mov.OccurredOn.Format("2006-01-02")] = struct{}{}

		day := mov.OccurredOn.Day()
		samples := result.SamplesByDay[day]
		if samples == nil {
			samples = &DaySamples{}
			result.SamplesByDay[day] = samples
		}

		switch mov.Kind {
		case model.KindIncome:
			samples.Income = append(samples.Income, mov.Amount)
			totalIncome = totalIncome.Add(mov.Amount)
		case model.KindExpense:
			samples.Expense = append(samples.Expense, mov.Amount)
			totalExpense = totalExpense.Add(mov.Amount)
		default:
			return AggregationResult{}, common.DataErrorf("movement %s has unknown kind %q", mov.ID, mov.Kind)
		}
	}

	result.HistoryDays = len(seenDays)

	days := int64(result.HistoryDays)
	if days == 0 {
		days = 1
	}
	denominator := decimal.NewFromInt(days)
	result.DailyAvgIncome = totalIncome.Div(denominator)
	result.DailyAvgExpense = totalExpense.Div(denominator)

	return result, nil
}
