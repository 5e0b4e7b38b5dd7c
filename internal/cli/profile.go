package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your health conditions and goals",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileSetCmd())
	cmd.AddCommand(newProfileOptionsCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your health profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := apiClient.Profile().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(p)
			}
			fmt.Fprintf(out, "Conditions: %s\n", joinOrNone(p.Conditions))
			fmt.Fprintf(out, "Goals:      %s\n", joinOrNone(p.Goals))
			return nil
		},
	}
}

func newProfileSetCmd() *cobra.Command {
	var conditions, goals []string
	var clear bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace your conditions and/or goals",
		Example: `  nutriscan profile set --condition diabetes --condition hipertension
  nutriscan profile set --goal reducir_azucar
  nutriscan profile set --clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req client.UpdateProfileRequest
			switch {
			case clear:
				req.Conditions = []string{}
				req.Goals = []string{}
			default:
				if cmd.Flags().Changed("condition") {
					req.Conditions = conditions
				}
				if cmd.Flags().Changed("goal") {
					req.Goals = goals
				}
				if req.Conditions == nil && req.Goals == nil {
					return fmt.Errorf("nothing to update: pass --condition, --goal or --clear")
				}
			}

			p, err := apiClient.Profile().Update(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(p)
			}
			fmt.Fprintln(out, "Profile updated")
			fmt.Fprintf(out, "Conditions: %s\n", joinOrNone(p.Conditions))
			fmt.Fprintf(out, "Goals:      %s\n", joinOrNone(p.Goals))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&conditions, "condition", nil, "health condition (repeatable)")
	cmd.Flags().StringSliceVar(&goals, "goal", nil, "goal (repeatable)")
	cmd.Flags().BoolVar(&clear, "clear", false, "remove all conditions and goals")

	return cmd
}

func newProfileOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the recognized conditions and goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := apiClient.Profile().Options(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get options: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(opts)
			}
			fmt.Fprintln(out, "Conditions:")
			for _, c := range opts.Conditions {
				fmt.Fprintf(out, "  %s\n", c)
			}
			fmt.Fprintln(out, "Goals:")
			for _, g := range opts.Goals {
				fmt.Fprintf(out, "  %s\n", g)
			}
			return nil
		},
	}
}

func joinOrNone(tags []string) string {
	if len(tags) == 0 {
		return "(none)"
	}
	return strings.Join(tags, ", ")
}
