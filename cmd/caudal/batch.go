package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/caudal-io/caudal/internal/common"
)

// batchCmd runs projection and alert evaluation for every company. One
// company's data or config failure is logged and skipped; the batch keeps
// going.
func batchCmd() *cobra.Command {
	var horizonDays int
	var skipAlerts bool

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run projections and alert evaluation for all companies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, eng, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			companies, err := store.ListCompanies(ctx)
			if err != nil {
				return err
			}
			if len(companies) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No companies to process.")
				return nil
			}

			bar := progressbar.NewOptions(len(companies),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetDescription("Processing companies..."))

			failures := 0
			for _, company := range companies {
				if err := ctx.Err(); err != nil {
					return err
				}

				if _, err := eng.RunProjection(ctx, company.ID, horizonDays); err != nil {
					failures++
					logCompanyFailure(company.ID, "projection", err)
				}

				if !skipAlerts {
					if _, err := eng.RunAlertEvaluation(ctx, company.ID); err != nil {
						failures++
						logCompanyFailure(company.ID, "alert evaluation", err)
					}
				}

				_ = bar.Add(1)
			}
			_ = bar.Finish()
			fmt.Fprintln(cmd.ErrOrStderr())

			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d companies (%d failures).\n",
				len(companies), failures)
			return nil
		},
	}

	cmd.Flags().IntVar(&horizonDays, "horizon", 30, "projection horizon in days (capped at 90)")
	cmd.Flags().BoolVar(&skipAlerts, "skip-alerts", false, "only regenerate projections")
	return cmd
}

func logCompanyFailure(companyID, stage string, err error) {
	switch {
	case errors.Is(err, common.ErrData):
		slog.Error("Skipping company: bad data", "company_id", companyID, "stage", stage, "error", err)
	case errors.Is(err, common.ErrConfig):
		slog.Error("Skipping company: bad configuration", "company_id", companyID, "stage", stage, "error", err)
	default:
		slog.Error("Company run failed", "company_id", companyID, "stage", stage, "error", err)
	}
}
