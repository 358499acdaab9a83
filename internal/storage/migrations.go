package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS companies (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					config TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					company_id TEXT NOT NULL,
					name TEXT NOT NULL,
					balance TEXT NOT NULL DEFAULT '0',
					status TEXT NOT NULL DEFAULT 'connected',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (company_id) REFERENCES companies(id)
				)`,
				`CREATE INDEX idx_accounts_company ON accounts(company_id)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS movements (
					id TEXT PRIMARY KEY,
					account_id TEXT NOT NULL,
					company_id TEXT NOT NULL,
					amount TEXT NOT NULL,
					kind TEXT NOT NULL CHECK (kind IN ('income', 'expense')),
					occurred_on DATE NOT NULL,
					category_id TEXT,
					origin TEXT NOT NULL DEFAULT 'pending',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (company_id) REFERENCES companies(id),
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_movements_company_date ON movements(company_id, occurred_on)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Projection batches",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS projections (
					company_id TEXT NOT NULL,
					date DATE NOT NULL,
					day_index INTEGER NOT NULL,
					cash TEXT NOT NULL,
					income TEXT NOT NULL,
					expense TEXT NOT NULL,
					confidence REAL NOT NULL,
					scenario TEXT NOT NULL,
					algorithm_version TEXT NOT NULL,
					generated_at DATETIME NOT NULL,
					UNIQUE (company_id, scenario, date),
					FOREIGN KEY (company_id) REFERENCES companies(id)
				)`,
				`CREATE INDEX idx_projections_company_scenario ON projections(company_id, scenario, date)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Alerts",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS alerts (
					id TEXT PRIMARY KEY,
					company_id TEXT NOT NULL,
					rule_type TEXT NOT NULL,
					severity TEXT NOT NULL,
					title TEXT NOT NULL,
					message TEXT NOT NULL,
					data TEXT,
					created_at DATETIME NOT NULL,
					read INTEGER NOT NULL DEFAULT 0,
					read_at DATETIME,
					dismissed INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (company_id) REFERENCES companies(id)
				)`,
				`CREATE INDEX idx_alerts_company_rule_created ON alerts(company_id, rule_type, created_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		err := s.withTx(ctx, func(tx *sql.Tx) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %d (%s): %w", migration.Version, migration.Description, err)
			}
			if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); err != nil {
				return fmt.Errorf("failed to set schema version: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
