// Package service defines the interfaces between the engines and their
// external collaborators (history, persistence, configuration).
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/model"
)

// AlertFilter narrows alert listings.
type AlertFilter struct {
	UnreadOnly bool
	Limit      int
}

// HistoryProvider supplies the movement and balance history the engines
// consume. Implemented by the persistence layer or an external sync service.
type HistoryProvider interface {
	GetMovements(ctx context.Context, companyID string, since time.Time) ([]model.Movement, error)
	GetConnectedBalance(ctx context.Context, companyID string) (decimal.Decimal, error)
	GetLastMovementDate(ctx context.Context, companyID string) (*time.Time, error)
	GetCategorySpend(ctx context.Context, companyID string, now time.Time) ([]model.CategorySpend, error)
}

// ProjectionStore persists projection batches with replace semantics: a new
// generation for a company atomically supersedes the previous one.
type ProjectionStore interface {
	ReplaceProjections(ctx context.Context, companyID string, bundle *model.ScenarioBundle) error
	GetProjections(ctx context.Context, companyID string, scenario model.Scenario, from, to time.Time) ([]model.ProjectionPoint, error)
}

// AlertStore persists alerts and answers the deduplication-window check.
type AlertStore interface {
	CreateAlert(ctx context.Context, companyID string, candidate model.CandidateAlert) (*model.Alert, error)
	HasRecentAlert(ctx context.Context, companyID, ruleType string, window time.Duration) (bool, error)
	ListAlerts(ctx context.Context, companyID string, filter AlertFilter) ([]model.Alert, error)
	MarkAlertRead(ctx context.Context, alertID, companyID string) error
	DismissAlert(ctx context.Context, alertID, companyID string) error
	CountUnreadAlerts(ctx context.Context, companyID string) (*model.UnreadCounts, error)
}

// CompanyProvider supplies tenant records and per-company configuration.
type CompanyProvider interface {
	GetCompany(ctx context.Context, companyID string) (*model.Company, error)
	ListCompanies(ctx context.Context) ([]model.Company, error)
}

// Storage is the full persistence contract the orchestration layer wires in.
type Storage interface {
	HistoryProvider
	ProjectionStore
	AlertStore
	CompanyProvider

	SaveMovements(ctx context.Context, movements []model.Movement) error
	CreateCompany(ctx context.Context, company *model.Company) error
	CreateAccount(ctx context.Context, account *model.Account) error
	CreateCategory(ctx context.Context, id, name string) error

	Migrate(ctx context.Context) error
	Close() error
}
