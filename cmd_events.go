package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"productgen/pkg/rabbitmq"
)

// productgen events
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Log products_generated events from RabbitMQ",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		if cfg.RabbitMQURL == "" {
			return errors.New("RABBITMQ_URL is not set")
		}
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
		if err != nil {
			return err
		}
		defer mq.Close()

		log.Info("waiting for products_generated events")
		return mq.ConsumeProductsGenerated(func(e rabbitmq.ProductsGeneratedEvent) error {
			log.Info("products generated",
				zap.String("batch_id", e.BatchID),
				zap.Int("count", e.Count),
				zap.Int64("seed", e.Seed),
				zap.Time("generated_at", e.GeneratedAt),
			)
			return nil
		})
	},
}
