package lookup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/sony/gobreaker/v2"

	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

const kjPerKcal = 4.184

// sodium = salt / 2.5
const saltToSodium = 2.5

var errUpstream = errors.New("open food facts: upstream error")

// offResponse is the subset of /api/v0/product/{barcode}.json we read
type offResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ProductName     string                 `json:"product_name"`
	ProductNameEn   string                 `json:"product_name_en"`
	GenericName     string                 `json:"generic_name"`
	Brands          string                 `json:"brands"`
	ImageURL        string                 `json:"image_url"`
	IngredientsText string                 `json:"ingredients_text"`
	AllergensTags   []string               `json:"allergens_tags"`
	NutriScoreGrade string                 `json:"nutriscore_grade"`
	Nutriments      map[string]interface{} `json:"nutriments"`
}

func (p *offProduct) name() string {
	for _, n := range []string{p.ProductName, p.ProductNameEn, p.GenericName} {
		if strings.TrimSpace(n) != "" {
			return strings.TrimSpace(n)
		}
	}
	return product.UnnamedProduct
}

// OpenFoodFacts looks products up in the public Open Food Facts database.
// Calls go through a circuit breaker so an outage fails fast.
type OpenFoodFacts struct {
	baseURL   string
	userAgent string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker[*product.Product]
	logger    *logger.Logger
}

// NewOpenFoodFacts creates an Open Food Facts client
func NewOpenFoodFacts(cfg config.LookupConfig, log *logger.Logger) *OpenFoodFacts {
	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	o := &OpenFoodFacts{
		baseURL:   strings.TrimRight(cfg.OpenFoodFactsURL, "/"),
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    log,
	}
	o.breaker = gobreaker.NewCircuitBreaker[*product.Product](gobreaker.Settings{
		Name:        "openfoodfacts",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A barcode the database does not know is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, product.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	return o
}

// Lookup fetches a product. Unknown barcodes yield product.ErrNotFound;
// transport and decoding failures are returned as other errors.
func (o *OpenFoodFacts) Lookup(ctx context.Context, barcode string) (*product.Product, error) {
	return o.breaker.Execute(func() (*product.Product, error) {
		return o.fetch(ctx, barcode)
	})
}

func (o *OpenFoodFacts) fetch(ctx context.Context, barcode string) (*product.Product, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", o.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if o.userAgent != "" {
		req.Header.Set("User-Agent", o.userAgent)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, product.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", errUpstream, resp.StatusCode)
	}

	var body offResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", errUpstream, err)
	}
	if body.Status != 1 {
		return nil, product.ErrNotFound
	}

	p := mapProduct(barcode, &body.Product)
	return &p, nil
}

func mapProduct(barcode string, op *offProduct) product.Product {
	brand := strings.TrimSpace(op.Brands)
	if brand == "" {
		brand = product.UnknownBrand
	}

	p := product.Product{
		Barcode:     barcode,
		Name:        op.name(),
		Brand:       brand,
		ImageURL:    op.ImageURL,
		Nutrition:   mapNutrition(op.Nutriments),
		Ingredients: splitIngredients(op.IngredientsText),
		Allergens:   append([]string{}, op.AllergensTags...),
		NutriScore:  strings.ToLower(strings.TrimSpace(op.NutriScoreGrade)),
		Source:      product.SourceOpenFoodFacts,
	}
	return p
}

// mapNutrition converts Open Food Facts nutriments to our units: sodium
// arrives in grams and is stored in milligrams.
func mapNutrition(m map[string]interface{}) product.Nutrition {
	n := product.Nutrition{
		Protein: number(m, "proteins_100g"),
		Carbs:   number(m, "carbohydrates_100g"),
		Fat:     number(m, "fat_100g"),
		Fiber:   number(m, "fiber_100g"),
		Sugar:   number(m, "sugars_100g"),
		Salt:    number(m, "salt_100g"),
	}

	if v, ok := extractFloat(m, "energy-kcal_100g"); ok {
		n.Calories = v
	} else if v, ok := extractFloat(m, "energy-kj_100g"); ok {
		n.Calories = v / kjPerKcal
	} else if v, ok := extractFloat(m, "energy_100g"); ok {
		// energy_100g is reported in kJ
		n.Calories = v / kjPerKcal
	}

	if v, ok := extractFloat(m, "sodium_100g"); ok {
		n.Sodium = v * 1000
	} else if n.Salt > 0 {
		n.Sodium = n.Salt / saltToSodium * 1000
	}

	n.Calories = round2(n.Calories)
	n.Sodium = round2(n.Sodium)
	return n
}

func number(m map[string]interface{}, key string) float64 {
	v, _ := extractFloat(m, key)
	return v
}

// extractFloat coerces a nutriment value, which may be a number or a
// numeric string, to a non-negative float.
func extractFloat(m map[string]interface{}, key string) (float64, bool) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return 0, false
	}
	var f float64
	switch x := raw.(type) {
	case float64:
		f = x
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(x, ",", ".")), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

func splitIngredients(text string) []string {
	out := []string{}
	for _, part := range strings.Split(text, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
