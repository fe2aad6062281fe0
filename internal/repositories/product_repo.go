package repositories

import (
	"context"

	"productgen/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	// Search returns every product where term appears, ignoring case, in the
	// name, description, category, brand or sku.
	Search(ctx context.Context, term string) ([]models.Product, error)
	ListSKUs(ctx context.Context) ([]string, error)
	// CreateBatch persists all products atomically.
	CreateBatch(ctx context.Context, products []models.Product) error
	Reset(ctx context.Context) error
}
