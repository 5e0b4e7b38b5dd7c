package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and your session summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Status works signed out; use the session when there is one
			if token := viper.GetString("auth.token"); token != "" {
				apiClient.SetToken(token)
			}
			signedIn := viper.GetString("auth.token") != ""

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				if ready, err := apiClient.Ready(ctx); err == nil {
					summary["server"] = ready.Status
				} else {
					summary["server"] = "unavailable"
				}
				if signedIn {
					if sub, err := apiClient.Subscription().Get(ctx); err == nil {
						summary["plan"] = sub.Plan
					}
					if q, err := apiClient.Subscription().Quota(ctx); err == nil {
						summary["quota"] = q
					}
				}
				return printOutput(summary)
			}

			fmt.Fprintln(out, "NutriScan Status")
			fmt.Fprintln(out, strings.Repeat("=", 40))

			// Server
			ready, err := apiClient.Ready(ctx)
			if err != nil {
				fmt.Fprintf(out, "  Server:   unavailable (%v)\n", err)
			} else {
				fmt.Fprintf(out, "  Server:   %s (store %s)\n", ready.Status, ready.Store)
			}

			if !signedIn {
				fmt.Fprintln(out, "  Session:  not signed in")
				return nil
			}

			user, err := apiClient.GetCurrentUser(ctx)
			if err != nil {
				fmt.Fprintf(out, "  Session:  (error: %v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "  Session:  %s\n", displayName(*user))

			// Plan
			sub, err := apiClient.Subscription().Get(ctx)
			if err != nil {
				fmt.Fprintf(out, "  Plan:     (error: %v)\n", err)
			} else {
				fmt.Fprintf(out, "  Plan:     %s\n", sub.Plan)
			}

			// Quota
			q, err := apiClient.Subscription().Quota(ctx)
			if err != nil {
				fmt.Fprintf(out, "  Scans:    (error: %v)\n", err)
			} else {
				fmt.Fprintf(out, "  Scans:    %s\n", formatQuota(*q))
			}

			return nil
		},
	}
}
