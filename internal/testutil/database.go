// Package testutil provides shared helpers for tests that need a real
// storage layer.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/model"
	"github.com/caudal-io/caudal/internal/service"
	"github.com/caudal-io/caudal/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store and registers its
// cleanup with the test.
func SetupTestDB(t *testing.T) service.Storage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SeedCompany inserts a company with the given config and one connected
// account holding the given balance, returning the company ID.
func SeedCompany(t *testing.T, store service.Storage, balance decimal.Decimal, config map[string]any) string {
	t.Helper()
	ctx := context.Background()

	companyID := uuid.NewString()
	if err := store.CreateCompany(ctx, &model.Company{
		ID:     companyID,
		Name:   "Test Company",
		Config: config,
	}); err != nil {
		t.Fatalf("failed to seed company: %v", err)
	}

	if err := store.CreateAccount(ctx, &model.Account{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      "Main account",
		Balance:   balance,
		Status:    model.AccountConnected,
	}); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}

	return companyID
}

// MovementOn builds a movement for the given company on the given date.
func MovementOn(companyID string, date time.Time, kind model.MovementKind, amount float64) model.Movement {
	return model.Movement{
		ID:         uuid.NewString(),
		AccountID:  "acct-1",
		CompanyID:  companyID,
		Amount:     decimal.NewFromFloat(amount),
		Kind:       kind,
		OccurredOn: date,
		Origin:     model.OriginManual,
	}
}
