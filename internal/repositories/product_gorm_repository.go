package repositories

import (
	"context"
	"fmt"
	"strings"

	"productgen/internal/models"

	"gorm.io/gorm"
)

const defaultBatchSize = 100

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Both sides are folded by the database so its LOWER rules apply to column and term alike.
const searchClause = `LOWER(name) LIKE LOWER(?) ESCAPE '\' OR LOWER(description) LIKE LOWER(?) ESCAPE '\' OR ` +
	`LOWER(category) LIKE LOWER(?) ESCAPE '\' OR LOWER(brand) LIKE LOWER(?) ESCAPE '\' OR ` +
	`LOWER(sku) LIKE LOWER(?) ESCAPE '\'`

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db        *gorm.DB
	batchSize int
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
// A non-positive batchSize falls back to 100 rows per INSERT statement.
func NewGORMProductRepository(db *gorm.DB, batchSize int) *GORMProductRepository {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &GORMProductRepository{
		db:        db,
		batchSize: batchSize,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// Search retrieves the products matching term in any searchable column.
func (r *GORMProductRepository) Search(ctx context.Context, term string) ([]models.Product, error) {
	pattern := "%" + likeEscaper.Replace(term) + "%"

	products := make([]models.Product, 0)
	err := r.db.WithContext(ctx).
		Where(searchClause, pattern, pattern, pattern, pattern, pattern).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", term, err)
	}
	return products, nil
}

// ListSKUs returns the sku of every stored product.
func (r *GORMProductRepository) ListSKUs(ctx context.Context) ([]string, error) {
	var skus []string
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Pluck("sku", &skus).Error; err != nil {
		return nil, fmt.Errorf("failed to list skus: %w", err)
	}
	return skus, nil
}

// CreateBatch inserts products in chunks inside one transaction.
func (r *GORMProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&products, r.batchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create %d products: %w", len(products), err)
	}
	return nil
}

// Reset deletes every product.
func (r *GORMProductRepository) Reset(ctx context.Context) error {
	err := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.Product{}).Error
	if err != nil {
		return fmt.Errorf("failed to reset products: %w", err)
	}
	return nil
}
