package server

import (
	"time"

	"productgen/internal/handlers"
	"productgen/internal/metrics"
	"productgen/internal/middleware"
	"productgen/internal/repositories"
	"productgen/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps are the collaborators NewApp wires into the HTTP layer.
type Deps struct {
	Repo      repositories.ProductRepository
	Publisher services.EventPublisher
	Log       *zap.Logger
	// Registry enables /metrics when set.
	Registry    *prometheus.Registry
	CORSOrigins string
}

// NewApp builds the Fiber application serving the product API.
func NewApp(deps Deps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	var m *metrics.Metrics
	if deps.Registry != nil {
		m = metrics.New(deps.Registry)
	}

	productService := services.NewProductService(deps.Repo, m)
	generatorService := services.NewGeneratorService(deps.Repo, deps.Publisher, m, log)
	productHandler := handlers.NewProductHandler(productService, generatorService, log)

	app := fiber.New(fiber.Config{
		AppName:               "productgen",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics(m))

	origins := deps.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{AllowOrigins: origins}))

	productHandler.RegisterRoutes(app)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if deps.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	return app
}
