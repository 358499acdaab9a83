// Package model defines the core domain types shared across the application.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind distinguishes money coming in from money going out.
type MovementKind string

// Movement kinds.
const (
	KindIncome  MovementKind = "income"
	KindExpense MovementKind = "expense"
)

// ClassificationOrigin records how a movement received its category.
type ClassificationOrigin string

// Classification origins.
const (
	OriginPending ClassificationOrigin = "pending"
	OriginAI      ClassificationOrigin = "ai"
	OriginManual  ClassificationOrigin = "manual"
)

// Movement is a single financial movement on a company account.
// Amounts are always non-negative; Kind carries the direction.
type Movement struct {
	OccurredOn time.Time
	ID         string
	AccountID  string
	CompanyID  string
	CategoryID string // empty when unclassified
	Origin     ClassificationOrigin
	Kind       MovementKind
	Amount     decimal.Decimal
}

// IsIncome reports whether the movement adds to the company's cash.
func (m *Movement) IsIncome() bool {
	return m.Kind == KindIncome
}
