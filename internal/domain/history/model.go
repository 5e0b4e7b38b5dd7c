package history

import (
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

// DefaultCap is the number of entries kept per user
const DefaultCap = 100

// DefaultPremiumVisible is how many recent entries a premium user sees
const DefaultPremiumVisible = 5

// Entry is one recorded scan. Entries are stored newest first.
type Entry struct {
	ID        string          `json:"id"`
	ScannedAt time.Time       `json:"scanned_at"`
	Product   product.Product `json:"product"`
	Analysis  analysis.Result `json:"analysis"`
}
