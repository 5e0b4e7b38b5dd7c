package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/metrics"
)

// Source is a named lookup in a chain
type Source struct {
	Name   string
	Lookup product.Lookup
}

// Chain tries each source in order and returns the first hit. Every
// failure, including timeouts and outages, ends as product.ErrNotFound.
type Chain struct {
	sources []Source
	timeout time.Duration
	logger  *logger.Logger
}

// NewChain creates a chain with a per-source timeout
func NewChain(timeout time.Duration, log *logger.Logger, sources ...Source) *Chain {
	return &Chain{sources: sources, timeout: timeout, logger: log}
}

// NewDefault builds the static-then-remote chain
func NewDefault(remote product.Lookup, timeout time.Duration, log *logger.Logger) *Chain {
	sources := []Source{{Name: product.SourceStatic, Lookup: NewStatic()}}
	if remote != nil {
		sources = append(sources, Source{Name: product.SourceOpenFoodFacts, Lookup: remote})
	}
	return NewChain(timeout, log, sources...)
}

// Lookup resolves a barcode
func (c *Chain) Lookup(ctx context.Context, barcode string) (*product.Product, error) {
	for _, src := range c.sources {
		start := time.Now()
		p, err := c.try(ctx, src, barcode)
		switch {
		case err == nil:
			metrics.RecordLookup(src.Name, "hit", time.Since(start))
			return p, nil
		case errors.Is(err, product.ErrNotFound):
			metrics.RecordLookup(src.Name, "miss", time.Since(start))
		default:
			metrics.RecordLookup(src.Name, "error", time.Since(start))
			c.logger.WithFields(map[string]interface{}{
				"source":  src.Name,
				"barcode": barcode,
			}).WarnWithErr(err, "Product lookup failed")
		}
		if ctx.Err() != nil {
			break
		}
	}
	return nil, product.ErrNotFound
}

func (c *Chain) try(ctx context.Context, src Source, barcode string) (*product.Product, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return src.Lookup.Lookup(ctx, barcode)
}
