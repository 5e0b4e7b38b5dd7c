package product

import "context"

// Lookup resolves a barcode to a product. Implementations return
// ErrNotFound when the barcode is unknown or the source is unreachable.
type Lookup interface {
	Lookup(ctx context.Context, barcode string) (*Product, error)
}
