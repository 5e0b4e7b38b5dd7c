package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pratik-mahalle/nutriscan/internal/capture"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/validator"
	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

func newScanCmd() *cobra.Command {
	var fromStdin bool
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "scan [barcode]",
		Short: "Scan a barcode and show its health assessment",
		Long: `Scan looks up a barcode and scores it against your health profile.
Without an argument, or with --stdin, the barcode is read from standard
input, which is how keyboard-wedge scanners deliver codes. Each scan counts
against your daily quota.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var code string
			if len(args) == 1 && !fromStdin {
				code = args[0]
			} else {
				var err error
				code, err = captureBarcode(ctx, wait)
				if err != nil {
					return err
				}
			}
			if !validator.IsBarcode(code) {
				return fmt.Errorf("%q is not a valid barcode", code)
			}

			result, err := apiClient.Scans().Scan(ctx, code)
			if err != nil {
				if client.IsQuotaExceeded(err) {
					return fmt.Errorf("daily scan limit reached. Upgrade with 'nutriscan plan upgrade premium'")
				}
				return fmt.Errorf("scan failed: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(result)
			}
			printAnalysis(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the barcode from standard input")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "how long to wait for a barcode on standard input")

	return cmd
}

func newProductCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <barcode>",
		Short: "Show product data without analyzing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := apiClient.Scans().Product(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get product: %w", err)
			}

			if getOutputFormat() != "table" {
				return printOutput(p)
			}

			fmt.Fprintf(out, "Barcode:     %s\n", p.Barcode)
			fmt.Fprintf(out, "Name:        %s\n", p.Name)
			fmt.Fprintf(out, "Brand:       %s\n", p.Brand)
			if p.NutriScore != "" {
				fmt.Fprintf(out, "Nutri-Score: %s\n", p.NutriScore)
			}
			fmt.Fprintf(out, "Source:      %s\n", p.Source)
			fmt.Fprintln(out)

			n := p.Nutrition
			table := NewTable("PER 100G", "VALUE")
			table.AddRow("Energy", fmt.Sprintf("%.0f kcal", n.Calories))
			table.AddRow("Protein", fmt.Sprintf("%.1f g", n.Protein))
			table.AddRow("Carbohydrates", fmt.Sprintf("%.1f g", n.Carbs))
			table.AddRow("Sugar", fmt.Sprintf("%.1f g", n.Sugar))
			table.AddRow("Fat", fmt.Sprintf("%.1f g", n.Fat))
			table.AddRow("Fiber", fmt.Sprintf("%.1f g", n.Fiber))
			table.AddRow("Sodium", fmt.Sprintf("%.0f mg", n.Sodium))
			table.Render()
			return nil
		},
	}
}

// captureBarcode runs one capture session over stdin
func captureBarcode(ctx context.Context, wait time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	log := logger.New(logger.Config{Level: "error", Format: "console", OutputPath: "stderr"})
	mgr := capture.NewManager(capture.NewReaderDecoder(os.Stdin), log)
	defer mgr.Stop()

	fmt.Fprintln(os.Stderr, "Waiting for a barcode...")
	code, err := mgr.Scan(ctx)
	if err != nil {
		return "", fmt.Errorf("no barcode read: %w", err)
	}
	return code, nil
}
