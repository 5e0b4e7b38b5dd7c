package product

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when no source knows a barcode
var ErrNotFound = errors.New("product not found")

// Nutrition holds per-100 g values. Sodium is in milligrams, salt in grams,
// energy in kcal and everything else in grams. Missing values are 0.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
	Sodium   float64 `json:"sodium"`
	Salt     float64 `json:"salt,omitempty"`
}

// Product is a food item resolved from a barcode
type Product struct {
	Barcode     string    `json:"barcode"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	ImageURL    string    `json:"image_url,omitempty"`
	Nutrition   Nutrition `json:"nutrition"`
	Ingredients []string  `json:"ingredients"`
	Allergens   []string  `json:"allergens"`
	NutriScore  string    `json:"nutriscore_grade,omitempty"`
	Source      string    `json:"source"`
}

// Sources
const (
	SourceStatic        = "static"
	SourceOpenFoodFacts = "openfoodfacts"
	SourceManual        = "manual"
)

// Fallback display values for products with missing metadata
const (
	UnnamedProduct = "Unnamed product"
	UnknownBrand   = "Unknown brand"
)

// HighSodium reports sodium over 300 mg, or salt over 1.5 g when sodium
// is not reported.
func (n Nutrition) HighSodium() bool {
	return n.Sodium > 300 || n.Salt > 1.5
}

// AllergenMentions reports whether any allergen contains one of the terms,
// case-insensitively. Open Food Facts tags such as "en:gluten" match.
// Ingredients are not searched: labels like "gluten-free oats" mention the
// term without containing it.
func (p *Product) AllergenMentions(terms ...string) bool {
	for _, item := range p.Allergens {
		lower := strings.ToLower(item)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				return true
			}
		}
	}
	return false
}
