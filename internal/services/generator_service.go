package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"productgen/internal/metrics"
	"productgen/internal/models"
	"productgen/internal/repositories"
	"productgen/pkg/rabbitmq"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultGenerateCount is used when a request does not name a count.
	DefaultGenerateCount = 100

	minPrice             = 10.0
	maxPrice             = 500.0
	maxStock             = 1000
	maxDescriptionLength = 200
	descriptionWords     = 40

	// maxPrealloc bounds the capacity reserved up front for a batch.
	maxPrealloc = 10000
)

// EventPublisher announces finished generation batches.
type EventPublisher interface {
	PublishProductsGenerated(event rabbitmq.ProductsGeneratedEvent) error
}

// GenerateOptions controls a generation batch. A negative Count yields an
// empty batch. A zero Seed means the batch is not reproducible.
type GenerateOptions struct {
	Count int
	Seed  int64
}

// GenerateResult describes a stored generation batch.
type GenerateResult struct {
	BatchID string
	Count   int
	Seed    int64
}

// GeneratorService creates synthetic products and stores them in bulk.
type GeneratorService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	metrics   *metrics.Metrics
	validate  *validator.Validate
	log       *zap.Logger
}

// NewGeneratorService creates a new GeneratorService. publisher, m and log may be nil.
func NewGeneratorService(repo repositories.ProductRepository, publisher EventPublisher, m *metrics.Metrics, log *zap.Logger) *GeneratorService {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeneratorService{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		validate:  validator.New(),
		log:       log,
	}
}

// Generate builds opts.Count products with skus unique against the store and
// each other, then persists them in a single batch.
func (s *GeneratorService) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	count := max(opts.Count, 0)
	start := time.Now()

	existing, err := s.repo.ListSKUs(ctx)
	if err != nil {
		return nil, err
	}
	hint := preallocHint(count)
	seen := make(map[string]struct{}, len(existing)+hint)
	for _, sku := range existing {
		seen[sku] = struct{}{}
	}

	faker := gofakeit.New(uint64(opts.Seed))
	products := make([]models.Product, 0, hint)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sku := newSKU(faker)
		for _, dup := seen[sku]; dup; _, dup = seen[sku] {
			sku = newSKU(faker)
		}
		seen[sku] = struct{}{}

		product := fakeProduct(faker, sku)
		if err := s.validate.Struct(product); err != nil {
			return nil, fmt.Errorf("generated product %s is invalid: %w", sku, err)
		}
		products = append(products, product)
	}

	if err := s.repo.CreateBatch(ctx, products); err != nil {
		return nil, err
	}

	result := &GenerateResult{
		BatchID: uuid.New().String(),
		Count:   len(products),
		Seed:    opts.Seed,
	}
	s.metrics.ObserveGenerate(result.Count, time.Since(start))
	s.log.Info("generated products",
		zap.String("batch_id", result.BatchID),
		zap.Int("count", result.Count),
		zap.Int64("seed", result.Seed),
		zap.Duration("duration", time.Since(start)),
	)
	s.publish(result)
	return result, nil
}

func (s *GeneratorService) publish(result *GenerateResult) {
	if s.publisher == nil {
		return
	}
	event := rabbitmq.ProductsGeneratedEvent{
		BatchID:     result.BatchID,
		Count:       result.Count,
		Seed:        result.Seed,
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishProductsGenerated(event); err != nil {
		s.log.Warn("failed to publish products generated event",
			zap.String("batch_id", result.BatchID), zap.Error(err))
	}
}

// fakeProduct draws every non-sku field from faker. The draw order is fixed so
// a seeded faker always yields the same product.
func fakeProduct(faker *gofakeit.Faker, sku string) models.Product {
	return models.Product{
		Name:          truncate(faker.ProductName(), 100),
		Description:   truncate(faker.Sentence(descriptionWords), maxDescriptionLength),
		Category:      truncate(faker.ProductCategory(), 50),
		Brand:         truncate(faker.Company(), 50),
		Price:         math.Round(faker.Float64Range(minPrice, maxPrice)*100) / 100,
		StockQuantity: faker.IntRange(0, maxStock),
		SKU:           sku,
	}
}

func preallocHint(count int) int {
	return min(max(count, 0), maxPrealloc)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
