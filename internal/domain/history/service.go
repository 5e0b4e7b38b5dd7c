package history

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/analysis"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

// Service defines the interface for the history recorder
type Service interface {
	// Record appends a scan, evicting the oldest entry beyond the cap
	Record(ctx context.Context, userID string, p product.Product, a analysis.Result) (Entry, error)

	// All returns every stored entry, unfiltered
	All(ctx context.Context, userID string) ([]Entry, error)

	// Lookup returns one entry by id
	Lookup(ctx context.Context, userID, id string) (*Entry, error)

	// Count returns the number of stored entries
	Count(ctx context.Context, userID string) (int, error)

	// Clear removes every entry
	Clear(ctx context.Context, userID string) error
}
