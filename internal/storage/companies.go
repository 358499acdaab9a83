package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
)

// CreateCompany inserts a new company record.
func (s *SQLiteStorage) CreateCompany(ctx context.Context, company *model.Company) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("%w: company", ErrNilParameter)
	}
	if err := validateString(company.ID, "company.ID"); err != nil {
		return err
	}

	configJSON, err := json.Marshal(company.Config)
	if err != nil {
		return fmt.Errorf("failed to marshal company config: %w", err)
	}

	createdAt := company.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, config, created_at) VALUES (?, ?, ?, ?)`,
		company.ID, company.Name, string(configJSON), createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert company: %w", err)
	}
	return nil
}

// GetCompany returns a company by ID, including its configuration map.
func (s *SQLiteStorage) GetCompany(ctx context.Context, companyID string) (*model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	var company model.Company
	var configJSON sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, config, created_at FROM companies WHERE id = ?`,
		companyID).Scan(&company.ID, &company.Name, &configJSON, &company.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %s: %w", companyID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query company: %w", err)
	}

	if configJSON.Valid && configJSON.String != "" {
		if err := json.Unmarshal([]byte(configJSON.String), &company.Config); err != nil {
			return nil, common.DataErrorf("company %s has malformed config: %v", companyID, err)
		}
	}
	if company.Config == nil {
		company.Config = make(map[string]any)
	}

	return &company, nil
}

// ListCompanies returns all companies ordered by creation time.
func (s *SQLiteStorage) ListCompanies(ctx context.Context) ([]model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, config, created_at FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query companies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var companies []model.Company
	for rows.Next() {
		var company model.Company
		var configJSON sql.NullString
		if err := rows.Scan(&company.ID, &company.Name, &configJSON, &company.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		if configJSON.Valid && configJSON.String != "" {
			if err := json.Unmarshal([]byte(configJSON.String), &company.Config); err != nil {
				return nil, common.DataErrorf("company %s has malformed config: %v", company.ID, err)
			}
		}
		if company.Config == nil {
			company.Config = make(map[string]any)
		}
		companies = append(companies, company)
	}
	return companies, rows.Err()
}

// CreateAccount inserts a new connected account.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateString(account.ID, "account.ID"); err != nil {
		return err
	}
	if err := validateString(account.CompanyID, "account.CompanyID"); err != nil {
		return err
	}

	status := account.Status
	if status == "" {
		status = model.AccountConnected
	}
	createdAt := account.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id, company_id, name, balance, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.CompanyID, account.Name, account.Balance.String(), status, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// GetConnectedBalance sums the balances of the company's connected accounts.
// Balances are stored as decimal strings and summed exactly.
func (s *SQLiteStorage) GetConnectedBalance(ctx context.Context, companyID string) (decimal.Decimal, error) {
	if err := validateContext(ctx); err != nil {
		return decimal.Zero, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return decimal.Zero, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT balance FROM accounts WHERE company_id = ? AND status = ?`,
		companyID, model.AccountConnected)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to query balances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Zero, fmt.Errorf("failed to scan balance: %w", err)
		}
		balance, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, common.DataErrorf("malformed account balance %q: %v", raw, err)
		}
		total = total.Add(balance)
	}
	return total, rows.Err()
}
