package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show and change your subscription plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := apiClient.Subscription().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get subscription: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(sub)
			}
			fmt.Fprintf(out, "Plan:    %s\n", sub.Plan)
			fmt.Fprintf(out, "Status:  %s\n", sub.Status)
			if sub.BillingCycle != "" {
				fmt.Fprintf(out, "Billing: %s\n", sub.BillingCycle)
			}
			if sub.StartDate != nil {
				fmt.Fprintf(out, "Since:   %s\n", sub.StartDate.Local().Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.AddCommand(newPlansCmd())
	cmd.AddCommand(newPlanUpgradeCmd())
	cmd.AddCommand(newPlanCancelCmd())

	return cmd
}

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List available plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := apiClient.Subscription().Plans(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(plans)
			}

			table := NewTable("PLAN", "MONTHLY", "YEARLY", "SCANS/DAY", "HISTORY", "EXPORT")
			for _, p := range plans {
				scans := fmt.Sprintf("%d", p.Features.DailyScans)
				if p.Features.Unlimited {
					scans = "unlimited"
				}
				export := "no"
				if p.Features.Export {
					export = "yes"
				}
				table.AddRow(
					p.Name,
					fmt.Sprintf("%.2f %s", p.MonthlyPrice, p.Currency),
					fmt.Sprintf("%.2f %s", p.YearlyPrice, p.Currency),
					scans,
					p.Features.History,
					export,
				)
			}
			table.Render()
			return nil
		},
	}
}

func newPlanUpgradeCmd() *cobra.Command {
	var cycle string

	cmd := &cobra.Command{
		Use:       "upgrade <premium|pro>",
		Short:     "Change to a paid plan",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"premium", "pro"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sub, err := apiClient.Subscription().Upgrade(context.Background(), args[0], cycle)
			if err != nil {
				return fmt.Errorf("upgrade failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(sub)
			}
			fmt.Fprintf(out, "You are now on the %s plan (%s billing)\n", sub.Plan, sub.BillingCycle)
			return nil
		},
	}

	cmd.Flags().StringVar(&cycle, "cycle", "monthly", "billing cycle: monthly, yearly")

	return cmd
}

func newPlanCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Return to the free plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := apiClient.Subscription().Cancel(context.Background()); err != nil {
				return fmt.Errorf("cancel failed: %w", err)
			}
			fmt.Fprintln(out, "Subscription cancelled. You are on the free plan.")
			return nil
		},
	}
}

func newQuotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show today's scan usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := apiClient.Subscription().Quota(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get quota: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(q)
			}
			fmt.Fprintf(out, "%s (%s plan, %s)\n", formatQuota(*q), q.Plan, q.Date)
			return nil
		},
	}
}
