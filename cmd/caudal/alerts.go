package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/caudal-io/caudal/internal/cli"
	"github.com/caudal-io/caudal/internal/service"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Evaluate and manage a company's alerts",
	}

	cmd.AddCommand(alertsEvaluateCmd())
	cmd.AddCommand(alertsListCmd())
	cmd.AddCommand(alertsReadCmd())
	cmd.AddCommand(alertsDismissCmd())
	return cmd
}

func alertsEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <company-id>",
		Short: "Run all alert rules for a company",
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

			created, err := eng.RunAlertEvaluation(ctx, args[0])
			if err != nil {
				return err
			}

			if len(created) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No new alerts.")
				return nil
			}
			for i := range created {
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAlert(&created[i]))
			}
			return nil
		},
	}
}

func alertsListCmd() *cobra.Command {
	var unreadOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "list <company-id>",
		Short: "List a company's alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			alerts, err := store.ListAlerts(cmd.Context(), args[0], service.AlertFilter{
				UnreadOnly: unreadOnly,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			if len(alerts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No alerts.")
				return nil
			}
			for i := range alerts {
				fmt.Fprintln(cmd.OutOrStdout(), cli.RenderAlert(&alerts[i]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only show unread alerts")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of alerts to show")
	return cmd
}

func alertsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <company-id> <alert-id>",
		Short: "Mark an alert as read",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return store.MarkAlertRead(cmd.Context(), args[1], args[0])
		},
	}
}

func alertsDismissCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dismiss <company-id> <alert-id>",
		Short: "Dismiss an alert",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return store.DismissAlert(cmd.Context(), args[1], args[0])
		},
	}
}
