package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"productgen/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// Products are kept in insertion order.
type MockProductRepository struct {
	products []models.Product
	skus     map[string]struct{}
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		skus:   make(map[string]struct{}),
		nextID: 1,
	}
}

// GetAll returns all products.
func (r *MockProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, len(r.products))
	copy(productList, r.products)
	return productList, nil
}

// Search returns products containing term in any searchable field.
func (r *MockProductRepository) Search(_ context.Context, term string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(term)
	matches := make([]models.Product, 0)
	for _, p := range r.products {
		for _, field := range []string{p.Name, p.Description, p.Category, p.Brand, p.SKU} {
			if strings.Contains(strings.ToLower(field), needle) {
				matches = append(matches, p)
				break
			}
		}
	}
	return matches, nil
}

// ListSKUs returns every stored sku.
func (r *MockProductRepository) ListSKUs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skus := make([]string, 0, len(r.skus))
	for _, p := range r.products {
		skus = append(skus, p.SKU)
	}
	return skus, nil
}

// CreateBatch adds products, rejecting the whole batch on a duplicate sku.
func (r *MockProductRepository) CreateBatch(_ context.Context, products []models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	batch := make(map[string]struct{}, len(products))
	for _, p := range products {
		if _, ok := r.skus[p.SKU]; ok {
			return fmt.Errorf("product with sku %s already exists", p.SKU)
		}
		if _, ok := batch[p.SKU]; ok {
			return fmt.Errorf("duplicate sku %s in batch", p.SKU)
		}
		batch[p.SKU] = struct{}{}
	}

	for i := range products {
		products[i].ID = r.nextID
		r.nextID++
		r.products = append(r.products, products[i])
		r.skus[products[i].SKU] = struct{}{}
	}
	return nil
}

// Reset removes every product.
func (r *MockProductRepository) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = nil
	r.skus = make(map[string]struct{})
	r.nextID = 1
	return nil
}
