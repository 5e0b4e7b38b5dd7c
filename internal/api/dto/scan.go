package dto

import (
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
)

// ScanRequest scans a barcode
type ScanRequest struct {
	Barcode string `json:"barcode" validate:"required,barcode"`
}

// NutritionDTO carries per-100 g values. Sodium is in milligrams.
type NutritionDTO struct {
	Calories float64 `json:"calories" validate:"gte=0"`
	Protein  float64 `json:"protein" validate:"gte=0"`
	Carbs    float64 `json:"carbs" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
	Fiber    float64 `json:"fiber" validate:"gte=0"`
	Sugar    float64 `json:"sugar" validate:"gte=0"`
	Sodium   float64 `json:"sodium" validate:"gte=0"`
	Salt     float64 `json:"salt,omitempty" validate:"gte=0"`
}

// AnalyzeRequest scores a product the caller describes
type AnalyzeRequest struct {
	Barcode     string       `json:"barcode,omitempty" validate:"omitempty,barcode"`
	Name        string       `json:"name" validate:"required,max=200"`
	Brand       string       `json:"brand,omitempty"`
	Nutrition   NutritionDTO `json:"nutrition" validate:"required"`
	Ingredients []string     `json:"ingredients,omitempty"`
	Allergens   []string     `json:"allergens,omitempty"`
}

// ToProduct converts the request
func (r AnalyzeRequest) ToProduct() product.Product {
	return product.Product{
		Barcode: r.Barcode,
		Name:    r.Name,
		Brand:   r.Brand,
		Nutrition: product.Nutrition{
			Calories: r.Nutrition.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
			Fiber:    r.Nutrition.Fiber,
			Sugar:    r.Nutrition.Sugar,
			Sodium:   r.Nutrition.Sodium,
			Salt:     r.Nutrition.Salt,
		},
		Ingredients: r.Ingredients,
		Allergens:   r.Allergens,
		Source:      product.SourceManual,
	}
}
