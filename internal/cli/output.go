package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pratik-mahalle/nutriscan/pkg/client"
)

// out is where commands print. Tests replace it.
var out io.Writer = os.Stdout

// Table renders data as a formatted table.
type Table struct {
	headers []string
	rows    [][]string
	writer  io.Writer
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		writer:  out,
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.rows = append(t.rows, cols)
}

// Render writes the table.
func (t *Table) Render() {
	w := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintln(w, strings.Join(t.headers, "\t"))

	// Separator
	sep := make([]string, len(t.headers))
	for i, h := range t.headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))

	// Rows
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}

// printOutput prints data in the requested format.
func printOutput(data interface{}) error {
	format := getOutputFormat()
	switch format {
	case "yaml":
		return printYAML(data)
	default:
		return printJSON(data)
	}
}

func printJSON(data interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printYAML(data interface{}) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(data)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// formatLevel returns a health level with a visual indicator.
func formatLevel(level string) string {
	switch strings.ToLower(level) {
	case "good":
		return "[+] GOOD"
	case "moderate":
		return "[~] MODERATE"
	case "poor":
		return "[-] POOR"
	default:
		return level
	}
}

// formatQuota renders remaining scans, "unlimited" for pro.
func formatQuota(q client.Quota) string {
	if q.Unlimited {
		return fmt.Sprintf("%d used today, unlimited", q.Used)
	}
	return fmt.Sprintf("%d of %d scans left today", q.Remaining, q.Limit)
}

// printAnalysis writes the human-readable report of a scan or analysis.
func printAnalysis(r *client.ScanResult) {
	p := r.Product
	fmt.Fprintf(out, "%s", p.Name)
	if p.Brand != "" {
		fmt.Fprintf(out, " (%s)", p.Brand)
	}
	if p.Barcode != "" {
		fmt.Fprintf(out, "  #%s", p.Barcode)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, strings.Repeat("=", 40))
	fmt.Fprintf(out, "  Score:  %d/100  %s\n", r.Analysis.Score, formatLevel(r.Analysis.Level))
	if r.Analysis.Summary != "" {
		fmt.Fprintf(out, "  %s\n", r.Analysis.Summary)
	}

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(out, "\n%s:\n", title)
		for _, l := range lines {
			fmt.Fprintf(out, "  - %s\n", l)
		}
	}
	section("Warnings", r.Analysis.Warnings)
	section("Recommendations", r.Analysis.Recommendations)
	section("Alternatives", r.Analysis.Alternatives)

	if len(r.Analysis.Breakdown) > 0 {
		fmt.Fprintln(out)
		table := NewTable("NUTRIENT", "PER 100G", "RATING")
		for _, b := range r.Analysis.Breakdown {
			table.AddRow(b.Nutrient, fmt.Sprintf("%.1f %s", b.Value, b.Unit), b.Rating)
		}
		table.Render()
	}

	if r.Insight != "" {
		fmt.Fprintf(out, "\nInsight: %s\n", r.Insight)
	}
	section("Unlock more", r.Analysis.UpgradeHints)

	if r.Quota.Date != "" {
		fmt.Fprintf(out, "\n%s\n", formatQuota(r.Quota))
	}
}
