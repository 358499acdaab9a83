package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
)

// SaveMovements inserts a batch of movements in a single transaction.
func (s *SQLiteStorage) SaveMovements(ctx context.Context, movements []model.Movement) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(movements) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO movements (id, account_id, company_id, amount, kind, occurred_on, category_id, origin)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for i := range movements {
			mov := &movements[i]
			if mov.ID == "" {
				return fmt.Errorf("%w: movement ID at index %d", ErrEmptyString, i)
			}
			if mov.Amount.IsNegative() {
				return common.DataErrorf("movement %s has negative amount %s", mov.ID, mov.Amount)
			}

			var categoryID any
			if mov.CategoryID != "" {
				categoryID = mov.CategoryID
			}
			origin := mov.Origin
			if origin == "" {
				origin = model.OriginPending
			}

			_, err := stmt.ExecContext(ctx,
				mov.ID, mov.AccountID, mov.CompanyID, mov.Amount.String(),
				string(mov.Kind), mov.OccurredOn.Format("2006-01-02"), categoryID, string(origin))
			if err != nil {
				return fmt.Errorf("failed to insert movement %s: %w", mov.ID, err)
			}
		}
		return nil
	})
}

// GetMovements returns the company's movements on or after since, ordered by
// occurrence date.
func (s *SQLiteStorage) GetMovements(ctx context.Context, companyID string, since time.Time) ([]model.Movement, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, account_id, company_id, amount, kind, occurred_on, category_id, origin
		 FROM movements
		 WHERE company_id = ? AND occurred_on >= ?
		 ORDER BY occurred_on`,
		companyID, since.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query movements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var movements []model.Movement
	for rows.Next() {
		mov, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		movements = append(movements, *mov)
	}
	return movements, rows.Err()
}

func scanMovement(rows *sql.Rows) (*model.Movement, error) {
	var mov model.Movement
	var amount, kind, origin string
	var categoryID sql.NullString

	// occurred_on is declared DATE, so the driver hands back a time.Time.
	if err := rows.Scan(&mov.ID, &mov.AccountID, &mov.CompanyID, &amount, &kind,
		&mov.OccurredOn, &categoryID, &origin); err != nil {
		return nil, fmt.Errorf("failed to scan movement: %w", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, common.DataErrorf("movement %s has malformed amount %q: %v", mov.ID, amount, err)
	}
	mov.Amount = parsed
	mov.Kind = model.MovementKind(kind)
	mov.Origin = model.ClassificationOrigin(origin)
	if categoryID.Valid {
		mov.CategoryID = categoryID.String
	}
	return &mov, nil
}

// GetLastMovementDate returns the occurrence date of the company's most
// recent movement, or nil when the company has no movements.
func (s *SQLiteStorage) GetLastMovementDate(ctx context.Context, companyID string) (*time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(occurred_on) FROM movements WHERE company_id = ?`,
		companyID).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("failed to query last movement: %w", err)
	}
	if !raw.Valid {
		return nil, nil
	}

	date, err := time.Parse("2006-01-02", raw.String)
	if err != nil {
		return nil, common.DataErrorf("malformed last movement date %q", raw.String)
	}
	return &date, nil
}

// GetCategorySpend compares each category's current-month expense total
// against its average monthly spend over the three months before the current
// one. Sums are computed in Go so decimal precision is preserved.
func (s *SQLiteStorage) GetCategorySpend(ctx context.Context, companyID string, now time.Time) ([]model.CategorySpend, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	trailingStart := monthStart.AddDate(0, -3, 0)

	rows, err := s.db.QueryContext(ctx,
		`SELECT m.category_id, c.name, m.amount, m.occurred_on
		 FROM movements m
		 JOIN categories c ON c.id = m.category_id
		 WHERE m.company_id = ? AND m.kind = 'expense'
		   AND m.category_id IS NOT NULL
		   AND m.occurred_on >= ? AND m.occurred_on <= ?`,
		companyID, trailingStart.Format("2006-01-02"), now.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query category spend: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type bucket struct {
		name     string
		current  decimal.Decimal
		trailing decimal.Decimal
	}
	buckets := make(map[string]*bucket)

	for rows.Next() {
		var categoryID, name, amount string
		var date time.Time
		if err := rows.Scan(&categoryID, &name, &amount, &date); err != nil {
			return nil, fmt.Errorf("failed to scan category spend: %w", err)
		}

		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, common.DataErrorf("malformed amount %q in category %s: %v", amount, categoryID, err)
		}

		b := buckets[categoryID]
		if b == nil {
			b = &bucket{name: name, current: decimal.Zero, trailing: decimal.Zero}
			buckets[categoryID] = b
		}
		if date.Before(monthStart) {
			b.trailing = b.trailing.Add(value)
		} else {
			b.current = b.current.Add(value)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	three := decimal.NewFromInt(3)
	spends := make([]model.CategorySpend, 0, len(buckets))
	for categoryID, b := range buckets {
		spends = append(spends, model.CategorySpend{
			CategoryID:   categoryID,
			CategoryName: b.name,
			CurrentMonth: b.current,
			TrailingAvg:  b.trailing.Div(three),
		})
	}
	sort.Slice(spends, func(i, j int) bool {
		return spends[i].CategoryID < spends[j].CategoryID
	})
	return spends, nil
}

// CreateCategory inserts a category used to classify movements.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, id, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}
