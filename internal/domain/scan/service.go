package scan

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

// Service defines the interface for the scan flow
type Service interface {
	// Scan runs the full flow for a barcode: quota, lookup, scoring,
	// recording and plan gating.
	Scan(ctx context.Context, userID, barcode string) (*Outcome, error)

	// Analyze scores a caller-supplied product without touching quota or
	// history.
	Analyze(ctx context.Context, userID string, p product.Product) (*Outcome, error)
}
