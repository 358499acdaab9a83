// Package alerts implements the alert rule engine: a registry of independent
// rule evaluators run over a company snapshot, with a deduplication window
// applied before any candidate is persisted.
package alerts

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/model"
)

// RuleConfig holds the resolved thresholds the built-in rules evaluate
// against. Defaults come from the application configuration; the low-cash
// threshold may be overridden per company.
type RuleConfig struct {
	LowCashThreshold   decimal.Decimal
	UnusualSpendFactor decimal.Decimal
	InactivityDays     int
	DueDateLeadDays    int
}

// Snapshot bundles everything the rules need to evaluate one company at one
// point in time. Building it is the caller's job; rules never perform I/O.
type Snapshot struct {
	Today         time.Time
	LastMovement  *time.Time
	CompanyID     string
	Movements     []model.Movement
	CategorySpend []model.CategorySpend
	Balance       decimal.Decimal
	Rules         RuleConfig
}

// DaysSinceLastMovement returns the full days elapsed since the most recent
// movement, and false when the company has no movement history at all.
func (s *Snapshot) DaysSinceLastMovement() (int, bool) {
	if s.LastMovement == nil {
		return 0, false
	}
	return int(s.Today.Sub(*s.LastMovement).Hours() / 24), true
}
