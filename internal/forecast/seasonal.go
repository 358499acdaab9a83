package forecast

import "time"

// SeasonalTable maps a month index (0 = January) to a multiplicative
// business-activity factor applied to the baseline daily averages.
type SeasonalTable [12]float64

// Factor returns the multiplier for the given month index. Out-of-range
// indexes fall back to a neutral 1.0.
func (t SeasonalTable) Factor(month int) float64 {
	if month < 0 || month > 11 {
		return 1.0
	}
	return t[month]
}

// FactorFor returns the multiplier for a calendar date's month.
func (t SeasonalTable) FactorFor(date time.Time) float64 {
	return t.Factor(int(date.Month()) - 1)
}
