package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"productgen/internal/database"
	"productgen/internal/repositories"
	"productgen/internal/services"
)

var (
	generateCount int
	generateSeed  int64
)

// productgen migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the product table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := bootDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		fmt.Fprintln(cmd.OutOrStdout(), "Initialized the database.")
		return nil
	},
}

// productgen generate --count N --seed S
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic products straight into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := boot()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := bootDB(cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		repo := repositories.NewGORMProductRepository(db, cfg.GenerateBatchSize)
		var publisher services.EventPublisher
		if mq := connectRabbitMQ(cfg, log); mq != nil {
			defer mq.Close()
			publisher = mq
		}
		gen := services.NewGeneratorService(repo, publisher, nil, log)

		result, err := gen.Generate(cmd.Context(), services.GenerateOptions{
			Count: generateCount,
			Seed:  generateSeed,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully generated and stored %d products.\n", result.Count)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", services.DefaultGenerateCount, "number of products to generate")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "seed for reproducible output (0 = random)")
}
