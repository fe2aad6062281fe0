package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"productgen/internal/config"
	"productgen/internal/database"
	"productgen/pkg/logger"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "productgen",
	Short:         "Product catalog backend with synthetic data generation",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(eventsCmd)
}

// boot loads the configuration and builds the logger shared by every command.
func boot() (config.Config, *zap.Logger, error) {
	cfg := config.Load(viper.New())
	log, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// bootDB opens the configured database and makes sure the product table exists.
func bootDB(cfg config.Config) (*gorm.DB, error) {
	db, err := database.Open(database.Config{
		Driver: cfg.DBDriver,
		DSN:    cfg.DatabaseDSN,
		LogSQL: cfg.LogSQL,
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		database.Close(db)
		return nil, err
	}
	return db, nil
}
