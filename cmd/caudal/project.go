package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caudal-io/caudal/internal/cli"
)

func projectCmd() *cobra.Command {
	var horizonDays int

	cmd := &cobra.Command{
		Use:   "project <company-id>",
		Short: "Regenerate a company's cash-flow projection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, eng, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			bundle, err := eng.RunProjection(ctx, args[0], horizonDays)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBundle(bundle))
			return nil
		},
	}

	cmd.Flags().IntVar(&horizonDays, "horizon", 30, "projection horizon in days (capped at 90)")
	return cmd
}
