package services

import (
	"context"
	"strings"

	"productgen/internal/metrics"
	"productgen/internal/models"
	"productgen/internal/repositories"
)

// ProductService handles the read paths over stored products.
type ProductService struct {
	repo    repositories.ProductRepository
	metrics *metrics.Metrics
}

// NewProductService creates a new ProductService. m may be nil.
func NewProductService(repo repositories.ProductRepository, m *metrics.Metrics) *ProductService {
	return &ProductService{
		repo:    repo,
		metrics: m,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// SearchProducts returns the products matching query in any searchable field.
// A blank query yields an empty result without hitting the repository.
func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	term := strings.TrimSpace(query)
	if term == "" {
		return []models.Product{}, nil
	}

	products, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSearch(len(products))
	return products, nil
}
