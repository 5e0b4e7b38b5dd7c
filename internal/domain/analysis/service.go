package analysis

import (
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
)

// Engine scores a product against a health profile. Implementations must
// be pure: the same inputs always produce the same Result.
type Engine interface {
	Analyze(p *product.Product, conditions, goals []string, plan subscription.Plan) Result
}
