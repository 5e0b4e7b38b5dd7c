package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/history"
)

// Format of a rendered export
type Format string

// Formats
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts json or csv, defaulting to json
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

var csvHeader = []string{
	"id", "scanned_at", "barcode", "name", "brand",
	"score", "level", "calories", "sugar", "sodium_mg", "fat", "fiber", "protein",
	"warnings", "recommendations",
}

// Render encodes history entries in the given format
func Render(entries []history.Entry, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return renderCSV(entries)
	case FormatJSON:
		if entries == nil {
			entries = []history.Entry{}
		}
		return json.MarshalIndent(entries, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported export format: %s", f)
	}
}

func renderCSV(entries []history.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range entries {
		n := e.Product.Nutrition
		row := []string{
			e.ID,
			e.ScannedAt.UTC().Format(time.RFC3339),
			e.Product.Barcode,
			e.Product.Name,
			e.Product.Brand,
			strconv.Itoa(e.Analysis.Score),
			string(e.Analysis.Level),
			num(n.Calories), num(n.Sugar), num(n.Sodium), num(n.Fat), num(n.Fiber), num(n.Protein),
			strings.Join(e.Analysis.Warnings, "; "),
			strings.Join(e.Analysis.Recommendations, "; "),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
