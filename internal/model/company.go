package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Company is a tenant of the engine. Config holds per-company overrides for
// engine thresholds (for example "low_cash_threshold").
type Company struct {
	CreatedAt time.Time
	Config    map[string]any
	ID        string
	Name      string
}

// LowCashThreshold returns the company's configured low-cash threshold, or
// ok=false when the company has no override.
func (c *Company) LowCashThreshold() (decimal.Decimal, bool) {
	raw, ok := c.Config["low_cash_threshold"]
	if !ok {
		return decimal.Zero, false
	}
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// Account is a connected bank account whose balance contributes to the
// company's cash position while its status is "connected".
type Account struct {
	CreatedAt time.Time
	ID        string
	CompanyID string
	Name      string
	Status    string
	Balance   decimal.Decimal
}

// Account statuses.
const (
	AccountConnected    = "connected"
	AccountDisconnected = "disconnected"
)

// CategorySpend compares a category's current-month expense total against
// its trailing three-month average. Used by the unusual-spend rule.
type CategorySpend struct {
	CategoryID   string
	CategoryName string
	CurrentMonth decimal.Decimal
	TrailingAvg  decimal.Decimal
}
