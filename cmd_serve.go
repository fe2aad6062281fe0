package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"productgen/internal/config"
	"productgen/internal/database"
	"productgen/internal/repositories"
	"productgen/internal/server"
	"productgen/internal/services"
	"productgen/pkg/rabbitmq"
)

var serveMemory bool

// productgen serve
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		var repo repositories.ProductRepository
		if serveMemory {
			log.Info("using in-memory product store")
			repo = repositories.NewMockProductRepository()
		} else {
			db, err := bootDB(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)
			repo = repositories.NewGORMProductRepository(db, cfg.GenerateBatchSize)
		}

		deps := server.Deps{
			Repo:        repo,
			Log:         log,
			CORSOrigins: cfg.CORSOrigins,
		}
		if mq := connectRabbitMQ(cfg, log); mq != nil {
			defer mq.Close()
			deps.Publisher = mq
		}
		if cfg.MetricsEnabled {
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			deps.Registry = reg
		}

		app := server.NewApp(deps)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			log.Info("starting server", zap.String("addr", cfg.AppPort))
			errCh <- app.Listen(cfg.AppPort)
		}()

		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Error("error during fiber shutdown", zap.Error(err))
		}
		log.Info("server gracefully stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMemory, "memory", false, "keep products in memory instead of the database")
}

// connectRabbitMQ returns nil when event publishing is disabled or the broker
// is unreachable; generation works without it.
func connectRabbitMQ(cfg config.Config, log *zap.Logger) *rabbitmq.Client {
	if cfg.RabbitMQURL == "" {
		return nil
	}
	mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
	if err != nil {
		log.Warn("rabbitmq unavailable, generation events disabled", zap.Error(err))
		return nil
	}
	return mq
}

var _ services.EventPublisher = (*rabbitmq.Client)(nil)
