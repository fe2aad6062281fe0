package handlers

import (
	"fmt"

	"productgen/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// GenerateRequest is the optional body of POST /products/generate.
type GenerateRequest struct {
	Count *int   `json:"count"`
	Seed  *int64 `json:"seed"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	products  *services.ProductService
	generator *services.GeneratorService
	log       *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *services.ProductService, generator *services.GeneratorService, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{
		products:  products,
		generator: generator,
		log:       log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Post("/generate", h.HandleGenerate)
	productRoutes.Get("/search", h.HandleSearch)
	productRoutes.Get("/", h.HandleGetProducts)
}

// HandleGenerate generates and stores synthetic products. An unreadable body
// is treated as an empty one; a negative count stores nothing.
func (h *ProductHandler) HandleGenerate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		h.log.Debug("generate body ignored", zap.Error(err))
		req = GenerateRequest{}
	}

	opts := services.GenerateOptions{Count: services.DefaultGenerateCount}
	if req.Count != nil {
		opts.Count = *req.Count
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}

	result, err := h.generator.Generate(c.UserContext(), opts)
	if err != nil {
		h.log.Error("generate products failed", zap.Int("count", opts.Count), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate products",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": fmt.Sprintf("Successfully generated and stored %d products.", result.Count),
	})
}

// HandleGetProducts returns every stored product.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.products.GetAllProducts(c.UserContext())
	if err != nil {
		h.log.Error("list products failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleSearch returns the products matching the q query parameter.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	products, err := h.products.SearchProducts(c.UserContext(), query)
	if err != nil {
		h.log.Error("search products failed", zap.String("q", query), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search products",
		})
	}
	return c.JSON(products)
}
