package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caudal-io/caudal/internal/common"
	"github.com/caudal-io/caudal/internal/model"
	"github.com/caudal-io/caudal/internal/service"
)

// CreateAlert persists a candidate alert and returns the stored record.
func (s *SQLiteStorage) CreateAlert(ctx context.Context, companyID string, candidate model.CandidateAlert) (*model.Alert, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}
	if err := validateString(candidate.RuleType, "candidate.RuleType"); err != nil {
		return nil, err
	}

	dataJSON, err := json.Marshal(candidate.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal alert data: %w", err)
	}

	alert := model.Alert{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		RuleType:  candidate.RuleType,
		Severity:  candidate.Severity,
		Title:     candidate.Title,
		Message:   candidate.Message,
		Data:      candidate.Data,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO alerts (id, company_id, rule_type, severity, title, message, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		alert.ID, alert.CompanyID, alert.RuleType, string(alert.Severity),
		alert.Title, alert.Message, string(dataJSON), alert.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert alert: %w", err)
	}

	return &alert, nil
}

// HasRecentAlert reports whether an alert of the given rule type was created
// for the company within the window, regardless of payload.
func (s *SQLiteStorage) HasRecentAlert(ctx context.Context, companyID, ruleType string, window time.Duration) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return false, err
	}
	if err := validateString(ruleType, "ruleType"); err != nil {
		return false, err
	}

	cutoff := time.Now().UTC().Add(-window)

	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM alerts
		 WHERE company_id = ? AND rule_type = ? AND created_at > ?
		 LIMIT 1`,
		companyID, ruleType, cutoff).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query recent alerts: %w", err)
	}
	return true, nil
}

// ListAlerts returns the company's non-dismissed alerts, newest first.
func (s *SQLiteStorage) ListAlerts(ctx context.Context, companyID string, filter service.AlertFilter) ([]model.Alert, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, company_id, rule_type, severity, title, message, data, created_at, read, read_at, dismissed
		 FROM alerts
		 WHERE company_id = ? AND dismissed = 0`
	if filter.UnreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var alerts []model.Alert
	for rows.Next() {
		var alert model.Alert
		var severity string
		var dataJSON sql.NullString
		var readAt sql.NullTime

		if err := rows.Scan(&alert.ID, &alert.CompanyID, &alert.RuleType, &severity,
			&alert.Title, &alert.Message, &dataJSON, &alert.CreatedAt,
			&alert.Read, &readAt, &alert.Dismissed); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		alert.Severity = model.Severity(severity)
		if readAt.Valid {
			alert.ReadAt = &readAt.Time
		}
		if dataJSON.Valid && dataJSON.String != "" {
			if err := json.Unmarshal([]byte(dataJSON.String), &alert.Data); err != nil {
				return nil, common.DataErrorf("alert %s has malformed data: %v", alert.ID, err)
			}
		}
		alerts = append(alerts, alert)
	}
	return alerts, rows.Err()
}

// MarkAlertRead flags the alert as read and records when.
func (s *SQLiteStorage) MarkAlertRead(ctx context.Context, alertID, companyID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(alertID, "alertID"); err != nil {
		return err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET read = 1, read_at = ? WHERE id = ? AND company_id = ?`,
		time.Now().UTC(), alertID, companyID)
	if err != nil {
		return fmt.Errorf("failed to mark alert read: %w", err)
	}
	return requireRowAffected(result, alertID)
}

// DismissAlert hides the alert from future listings.
func (s *SQLiteStorage) DismissAlert(ctx context.Context, alertID, companyID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(alertID, "alertID"); err != nil {
		return err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE alerts SET dismissed = 1 WHERE id = ? AND company_id = ?`,
		alertID, companyID)
	if err != nil {
		return fmt.Errorf("failed to dismiss alert: %w", err)
	}
	return requireRowAffected(result, alertID)
}

// CountUnreadAlerts buckets the company's unread, non-dismissed alerts by
// severity.
func (s *SQLiteStorage) CountUnreadAlerts(ctx context.Context, companyID string) (*model.UnreadCounts, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(companyID, "companyID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT severity, COUNT(*)
		 FROM alerts
		 WHERE company_id = ? AND read = 0 AND dismissed = 0
		 GROUP BY severity`,
		companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to count alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := &model.UnreadCounts{}
	for rows.Next() {
		var severity string
		var count int
		if err := rows.Scan(&severity, &count); err != nil {
			return nil, fmt.Errorf("failed to scan alert count: %w", err)
		}
		switch model.Severity(severity) {
		case model.SeverityCritical:
			counts.Critical = count
		case model.SeverityWarning:
			counts.Warning = count
		case model.SeverityInfo:
			counts.Info = count
		}
		counts.Total += count
	}
	return counts, rows.Err()
}

func requireRowAffected(result sql.Result, alertID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %s: %w", alertID, common.ErrNotFound)
	}
	return nil
}
