package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/common"
)

// Engine holds the tunable parameters of the projection and alert engines.
// Defaults come from DefaultEngine; per-company overrides are applied from
// the stored company configuration, never by editing code.
type Engine struct {
	// Projection parameters.
	LookbackDays    int
	HorizonCapDays  int
	ConfidenceDecay float64
	ConfidenceFloor float64
	SeasonalFactors [12]float64

	// Scenario band multipliers applied to the realistic trajectory.
	OptimisticBand float64
	PesimisticBand float64

	// Alert parameters.
	LowCashThreshold   decimal.Decimal
	UnusualSpendFactor float64
	InactivityDays     int
	DueDateLeadDays    int
	DedupWindow        time.Duration
}

// DefaultEngine returns the stock engine parameters.
//
// The seasonal table reflects southern-hemisphere business activity: January
// (index 0) is the summer-holiday trough and December the pre-holiday peak.
func DefaultEngine() Engine {
	return Engine{
		LookbackDays:    90,
		HorizonCapDays:  90,
		ConfidenceDecay: 0.015,
		ConfidenceFloor: 0.5,
		SeasonalFactors: [12]float64{
			0.7,  // January
			0.85, // February
			1.0,  // March
			1.0,  // April
			1.0,  // May
			0.95, // June
			0.9,  // July
			0.95, // August
			1.0,  // September
			1.05, // October
			1.1,  // November
			1.3,  // December
		},
		OptimisticBand:     1.15,
		PesimisticBand:     0.85,
		LowCashThreshold:   decimal.NewFromInt(50000),
		UnusualSpendFactor: 1.5,
		InactivityDays:     7,
		DueDateLeadDays:    3,
		DedupWindow:        24 * time.Hour,
	}
}

// Validate checks the parameters for values the engines cannot work with.
func (e Engine) Validate() error {
	if e.LookbackDays <= 0 {
		return common.ConfigErrorf("lookback days must be positive, got %d", e.LookbackDays)
	}
	if e.HorizonCapDays <= 0 {
		return common.ConfigErrorf("horizon cap must be positive, got %d", e.HorizonCapDays)
	}
	if e.ConfidenceFloor < 0 || e.ConfidenceFloor > 1 {
		return common.ConfigErrorf("confidence floor must be in [0,1], got %v", e.ConfidenceFloor)
	}
	if e.ConfidenceDecay < 0 {
		return common.ConfigErrorf("confidence decay must be non-negative, got %v", e.ConfidenceDecay)
	}
	if e.LowCashThreshold.IsNegative() {
		return common.ConfigErrorf("low cash threshold must be non-negative, got %s", e.LowCashThreshold)
	}
	if e.DedupWindow <= 0 {
		return common.ConfigErrorf("dedup window must be positive, got %v", e.DedupWindow)
	}
	return nil
}
