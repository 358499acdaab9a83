package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
)

// ReplaceProjections atomically replaces the company's stored projection
// batch with the given bundle. Deleting and inserting inside one transaction
// guarantees a reader never observes a mix of two generations.
func (s *SQLiteStorage) ReplaceProjections(ctx context.Context, companyID string, bundle *model.ScenarioBundle) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return err
	}
	if bundle == nil {
		return fmt.Errorf("%w: bundle", ErrNilParameter)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM projections WHERE company_id = ?`, companyID); err != nil {
			return fmt.Errorf("failed to delete previous projections: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO projections
			 (company_id, date, day_index, cash, income, expense, confidence, scenario, algorithm_version, generated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, scenario := range []model.Scenario{model.ScenarioOptimistic, model.ScenarioRealistic, model.ScenarioPesimistic} {
			for _, point := range bundle.Points(scenario) {
				_, err := stmt.ExecContext(ctx,
					companyID,
					point.Date.Format("2006-01-02"),
					point.DayIndex,
					point.Cash.String(),
					point.Income.String(),
					point.Expense.String(),
					point.Confidence,
					string(scenario),
					bundle.Metadata.AlgorithmVersion,
					bundle.Metadata.GeneratedAt)
				if err != nil {
					return fmt.Errorf("failed to insert projection point: %w", err)
				}
			}
		}
		return nil
	})
}

// GetProjections reads the stored points for one scenario within a date
// range, ordered by date.
func (s *SQLiteStorage) GetProjections(ctx context.Context, companyID string, scenario model.Scenario, from, to time.Time) ([]model.ProjectionPoint, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT date, day_index, cash, income, expense, confidence, scenario
		 FROM projections
		 WHERE company_id = ? AND scenario = ? AND date >= ? AND date <= ?
		 ORDER BY date`,
		companyID, string(scenario), from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query projections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []model.ProjectionPoint
	for rows.Next() {
		var point model.ProjectionPoint
		var cash, income, expense, scen string

		// date is declared DATE, so the driver hands back a time.Time.
		if err := rows.Scan(&point.Date, &point.DayIndex, &cash, &income, &expense, &point.Confidence, &scen); err != nil {
			return nil, fmt.Errorf("failed to scan projection point: %w", err)
		}
		point.Scenario = model.Scenario(scen)

		var err error
		if point.Cash, err = decimal.NewFromString(cash); err != nil {
			return nil, common.DataErrorf("malformed projected cash %q: %v", cash, err)
		}
		if point.Income, err = decimal.NewFromString(income); err != nil {
			return nil, common.DataErrorf("malformed projected income %q: %v", income, err)
		}
		if point.Expense, err = decimal.NewFromString(expense); err != nil {
			return nil, common.DataErrorf("malformed projected expense %q: %v", expense, err)
		}

		points = append(points, point)
	}
	return points, rows.Err()
}
