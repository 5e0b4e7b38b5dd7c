package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pratik-mahalle/nutriscan/internal/domain/product"
	"github.com/pratik-mahalle/nutriscan/internal/storage/kv"
)

// MockLookup is a product.Lookup backed by a map that counts its calls
type MockLookup struct {
	mu       sync.Mutex
	Products map[string]product.Product
	Err      error
	calls    int
}

func NewMockLookup(products ...product.Product) *MockLookup {
	m := &MockLookup{Products: make(map[string]product.Product)}
	for _, p := range products {
		m.Products[p.Barcode] = p
	}
	return m
}

func (m *MockLookup) Lookup(ctx context.Context, barcode string) (*product.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.Products[barcode]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

// Calls returns how many lookups were made
func (m *MockLookup) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// ErrStoreDown is returned by FailingStore
var ErrStoreDown = errors.New("store unavailable")

// FailingStore is a kv.Store whose writes fail. Reads delegate to Store.
type FailingStore struct {
	kv.Store
	FailReads bool
}

func (f *FailingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.FailReads {
		return nil, ErrStoreDown
	}
	return f.Store.Get(ctx, key)
}

func (f *FailingStore) Set(context.Context, string, []byte) error { return ErrStoreDown }

func (f *FailingStore) Remove(context.Context, string) error { return ErrStoreDown }

// Clock is a settable time source
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Products used across tests
var (
	SugaryProduct = product.Product{
		Barcode:     "7501000673209",
		Name:        "Chocolate Cookies",
		Brand:       "Acme",
		Nutrition:   product.Nutrition{Calories: 480, Protein: 5, Carbs: 65, Fat: 22, Fiber: 2, Sugar: 30, Sodium: 250},
		Ingredients: []string{"wheat flour", "sugar", "cocoa"},
		Allergens:   []string{"gluten", "milk"},
		Source:      product.SourceStatic,
	}
	HealthyProduct = product.Product{
		Barcode:     "4006381333931",
		Name:        "Plain Oats",
		Brand:       "Fields",
		Nutrition:   product.Nutrition{Calories: 370, Protein: 13, Carbs: 60, Fat: 7, Fiber: 10, Sugar: 1, Sodium: 5},
		Ingredients: []string{"oats"},
		Allergens:   []string{},
		Source:      product.SourceOpenFoodFacts,
	}
)
