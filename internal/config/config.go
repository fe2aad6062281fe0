package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config is the runtime configuration, read from the environment.
type Config struct {
	AppEnv            string
	AppPort           string
	DBDriver          string
	DatabaseDSN       string
	LogSQL            bool
	LogLevel          string
	RabbitMQURL       string
	MetricsEnabled    bool
	CORSOrigins       string
	GenerateBatchSize int
}

// SetDefaults registers the default value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "instance/data.db")
	v.SetDefault("LOG_SQL", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("GENERATE_BATCH_SIZE", 100)
}

// Load reads the configuration from environment variables on top of the defaults.
func Load(v *viper.Viper) Config {
	SetDefaults(v)
	v.AutomaticEnv()

	return Config{
		AppEnv:            v.GetString("APP_ENV"),
		AppPort:           v.GetString("APP_PORT"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:       v.GetString("DATABASE_DSN"),
		LogSQL:            v.GetBool("LOG_SQL"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		RabbitMQURL:       v.GetString("RABBITMQ_URL"),
		MetricsEnabled:    v.GetBool("METRICS_ENABLED"),
		CORSOrigins:       v.GetString("CORS_ORIGINS"),
		GenerateBatchSize: v.GetInt("GENERATE_BATCH_SIZE"),
	}
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
