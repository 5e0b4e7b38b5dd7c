// Package lookup resolves barcodes to products, first from a small
// built-in table and then from Open Food Facts.
package lookup

import (
	"context"

	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

var staticProducts = map[string]product.Product{
	"7501000673209": {
		Barcode:  "7501000673209",
		Name:     "Galletas con salvado y miel",
		Brand:    "Tosh",
		ImageURL: "https://via.placeholder.com/200x200?text=Tosh+Galletas",
		Nutrition: product.Nutrition{
			Calories: 450, Protein: 8.5, Carbs: 65, Fat: 16,
			Fiber: 4.2, Sugar: 18, Sodium: 380,
		},
		Ingredients: []string{"Harina de trigo", "Azúcar", "Aceite vegetal", "Salvado de trigo", "Miel", "Sal"},
		Allergens:   []string{"Gluten", "Puede contener trazas de soya"},
	},
	"7501000673216": {
		Barcode:  "7501000673216",
		Name:     "Galletas Marías",
		Brand:    "Gamesa",
		ImageURL: "https://via.placeholder.com/200x200?text=Gamesa+Marias",
		Nutrition: product.Nutrition{
			Calories: 420, Protein: 7, Carbs: 70, Fat: 12,
			Fiber: 2, Sugar: 15, Sodium: 320,
		},
		Ingredients: []string{"Harina de trigo", "Azúcar", "Aceite vegetal", "Sal"},
		Allergens:   []string{"Gluten"},
	},
	"7501000673223": {
		Barcode:  "7501000673223",
		Name:     "Coca Cola Original",
		Brand:    "Coca Cola",
		ImageURL: "https://via.placeholder.com/200x200?text=Coca+Cola",
		Nutrition: product.Nutrition{
			Calories: 140, Protein: 0, Carbs: 39, Fat: 0,
			Fiber: 0, Sugar: 39, Sodium: 45,
		},
		Ingredients: []string{"Agua carbonatada", "Azúcar", "Concentrado de cola", "Ácido fosfórico"},
		Allergens:   []string{},
	},
}

// Static serves the built-in product table
type Static struct{}

// NewStatic creates the built-in table lookup
func NewStatic() *Static { return &Static{} }

// Lookup returns a copy of the built-in product
func (Static) Lookup(_ context.Context, barcode string) (*product.Product, error) {
	p, ok := staticProducts[barcode]
	if !ok {
		return nil, product.ErrNotFound
	}
	p.Source = product.SourceStatic
	p.Ingredients = append([]string{}, p.Ingredients...)
	p.Allergens = append([]string{}, p.Allergens...)
	return &p, nil
}

// StaticBarcodes lists the barcodes of the built-in table, for demos
func StaticBarcodes() []string {
	return []string{"7501000673209", "7501000673216", "7501000673223"}
}
