package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and export your scan history (premium and pro)",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryClearCmd())
	cmd.AddCommand(newHistoryExportCmd())
	cmd.AddCommand(newHistoryPublishCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent scans",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.History().List(context.Background(), &client.ListOptions{
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return fmt.Errorf("failed to list history: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}

			if len(result.Data) == 0 {
				if result.Plan == "free" {
					fmt.Fprintln(out, "History is available on premium and pro plans.")
				} else {
					fmt.Fprintln(out, "No scans yet.")
				}
				return nil
			}

			table := NewTable("ID", "SCANNED", "PRODUCT", "SCORE", "LEVEL")
			for _, e := range result.Data {
				table.AddRow(
					truncate(e.ID, 12),
					e.ScannedAt.Local().Format("2006-01-02 15:04"),
					truncate(e.Product.Name, 30),
					fmt.Sprintf("%d", e.Analysis.Score),
					formatLevel(e.Analysis.Level),
				)
			}
			table.Render()
			fmt.Fprintf(out, "\nPage %d of %d (%d scans, %s plan)\n", result.Page, result.TotalPages, result.TotalItems, result.Plan)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 20, "entries per page")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := apiClient.History().Get(context.Background(), args[0])
			if err != nil {
				if client.IsPlanRequired(err) {
					return fmt.Errorf("history requires a premium or pro plan")
				}
				return fmt.Errorf("failed to get scan: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(e)
			}
			fmt.Fprintf(out, "Scanned at %s\n\n", e.ScannedAt.Local().Format("2006-01-02 15:04"))
			printAnalysis(&client.ScanResult{EntryID: e.ID, Product: e.Product, Analysis: e.Analysis})
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete your whole scan history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				answer := promptInput("Delete all recorded scans? [y/N]: ")
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					fmt.Fprintln(out, "Cancelled")
					return nil
				}
			}
			if err := apiClient.History().Clear(context.Background()); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(out, "History cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")

	return cmd
}

func newHistoryExportCmd() *cobra.Command {
	var format, file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download your history as CSV or JSON (pro)",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := apiClient.History().Export(context.Background(), format)
			if err != nil {
				if client.IsPlanRequired(err) {
					return fmt.Errorf("export requires the pro plan")
				}
				return fmt.Errorf("export failed: %w", err)
			}

			if file == "" || file == "-" {
				_, err = out.Write(data)
				return err
			}
			if err := os.WriteFile(file, data, 0600); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			fmt.Fprintf(out, "Exported history to %s\n", file)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv, json")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to a file instead of stdout")

	return cmd
}

func newHistoryPublishCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Store an export in the configured bucket (pro)",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := apiClient.History().Publish(context.Background(), format)
			if err != nil {
				return fmt.Errorf("publish failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(res)
			}
			fmt.Fprintf(out, "Export stored at %s\n", res.Location)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv, json")

	return cmd
}
