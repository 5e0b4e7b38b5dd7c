package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/nutriscan/internal/config"
	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/pkg/logger"
)

func newOFF(t *testing.T, handler http.HandlerFunc) (*OpenFoodFacts, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	off := NewOpenFoodFacts(config.LookupConfig{
		OpenFoodFactsURL: srv.URL,
		Timeout:          2 * time.Second,
		UserAgent:        "nutriscan-test",
		BreakerFailures:  2,
		BreakerTimeout:   time.Minute,
	}, logger.Nop())
	return off, srv
}

func TestStatic_Lookup(t *testing.T) {
	s := NewStatic()

	p, err := s.Lookup(context.Background(), "7501000673216")
	require.NoError(t, err)
	assert.Equal(t, "Galletas Marías", p.Name)
	assert.Equal(t, product.SourceStatic, p.Source)
	assert.Equal(t, 320.0, p.Nutrition.Sodium)

	p.Allergens[0] = "mutated"
	again, err := s.Lookup(context.Background(), "7501000673216")
	require.NoError(t, err)
	assert.Equal(t, "Gluten", again.Allergens[0], "lookups must return copies")

	_, err = s.Lookup(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestOpenFoodFacts_MapsProduct(t *testing.T) {
	off, _ := newOFF(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v0/product/3017620422003.json", r.URL.Path)
		assert.Equal(t, "nutriscan-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": 1,
			"product": {
				"product_name": "Nutella",
				"brands": "Ferrero",
				"image_url": "https://images.example/nutella.jpg",
				"ingredients_text": "Sugar, palm oil , hazelnuts 13%, skimmed milk powder",
				"allergens_tags": ["en:milk", "en:nuts"],
				"nutriscore_grade": "E",
				"nutriments": {
					"energy-kcal_100g": 539,
					"proteins_100g": "6.3",
					"carbohydrates_100g": 57.5,
					"fat_100g": 30.9,
					"sugars_100g": 56.3,
					"sodium_100g": 0.0428
				}
			}
		}`))
	})

	p, err := off.Lookup(context.Background(), "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, "Nutella", p.Name)
	assert.Equal(t, "Ferrero", p.Brand)
	assert.Equal(t, "e", p.NutriScore)
	assert.Equal(t, product.SourceOpenFoodFacts, p.Source)
	assert.Equal(t, []string{"Sugar", "palm oil", "hazelnuts 13%", "skimmed milk powder"}, p.Ingredients)
	assert.Equal(t, []string{"en:milk", "en:nuts"}, p.Allergens)
	assert.Equal(t, 539.0, p.Nutrition.Calories)
	assert.Equal(t, 6.3, p.Nutrition.Protein, "string nutriments are parsed")
	assert.InDelta(t, 42.8, p.Nutrition.Sodium, 0.001, "sodium is converted to mg")
}

func TestMapNutrition_Fallbacks(t *testing.T) {
	tests := []struct {
		name       string
		nutriments map[string]interface{}
		wantKcal   float64
		wantSodium float64
	}{
		{
			name:       "kJ only",
			nutriments: map[string]interface{}{"energy-kj_100g": 418.4},
			wantKcal:   100,
		},
		{
			name:       "salt only",
			nutriments: map[string]interface{}{"salt_100g": 1.25},
			wantSodium: 500,
		},
		{
			name:       "garbage values",
			nutriments: map[string]interface{}{"energy-kcal_100g": "n/a", "sodium_100g": -1.0},
		},
		{
			name: "missing everything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mapNutrition(tt.nutriments)
			assert.InDelta(t, tt.wantKcal, n.Calories, 0.01)
			assert.InDelta(t, tt.wantSodium, n.Sodium, 0.01)
		})
	}
}

func TestOpenFoodFacts_UnknownBarcode(t *testing.T) {
	off, _ := newOFF(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	})

	_, err := off.Lookup(context.Background(), "12345678")
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestOpenFoodFacts_BreakerOpensOnOutage(t *testing.T) {
	var calls int32
	off, _ := newOFF(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 4; i++ {
		_, err := off.Lookup(context.Background(), "12345678")
		require.Error(t, err)
		assert.False(t, errors.Is(err, product.ErrNotFound))
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "breaker should stop calling after two failures")
}

func TestChain_StaticFirstThenRemote(t *testing.T) {
	var calls int32
	off, _ := newOFF(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"status": 1, "product": {"nutriments": {}}}`))
	})
	chain := NewDefault(off, time.Second, logger.Nop())

	p, err := chain.Lookup(context.Background(), "7501000673223")
	require.NoError(t, err)
	assert.Equal(t, product.SourceStatic, p.Source)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))

	p, err = chain.Lookup(context.Background(), "99999999")
	require.NoError(t, err)
	assert.Equal(t, product.UnnamedProduct, p.Name)
	assert.Equal(t, product.UnknownBrand, p.Brand)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChain_RemoteFailureIsNotFound(t *testing.T) {
	off, _ := newOFF(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	chain := NewDefault(off, 20*time.Millisecond, logger.Nop())

	_, err := chain.Lookup(context.Background(), "99999999")
	assert.ErrorIs(t, err, product.ErrNotFound)
}
