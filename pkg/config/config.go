package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported document store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds the application configuration, read from the environment.
type Config struct {
	AppPort             string
	AppEnv              string
	LogLevel            string
	StoreDriver         string
	DatabaseDSN         string
	MongoURI            string
	MongoDatabase       string
	RabbitMQURL         string
	ReminderQueue       string
	ExpiryCheckInterval time.Duration
	SaveTimeout         time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_DRIVER", DriverMemory)
	v.SetDefault("DATABASE_DSN", "foodhive.db")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "foodhive")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REMINDER_QUEUE", "expiry_reminders")
	v.SetDefault("EXPIRY_CHECK_INTERVAL", "1h")
	v.SetDefault("SAVE_TIMEOUT", "10s")
}

// Load reads the configuration from v, falling back to defaults, and validates it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv() // Load environment variables

	cfg := &Config{
		AppPort:             v.GetString("APP_PORT"),
		AppEnv:              v.GetString("APP_ENV"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		StoreDriver:         strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseDSN:         v.GetString("DATABASE_DSN"),
		MongoURI:            v.GetString("MONGO_URI"),
		MongoDatabase:       v.GetString("MONGO_DATABASE"),
		RabbitMQURL:         v.GetString("RABBITMQ_URL"),
		ReminderQueue:       v.GetString("REMINDER_QUEUE"),
		ExpiryCheckInterval: v.GetDuration("EXPIRY_CHECK_INTERVAL"),
		SaveTimeout:         v.GetDuration("SAVE_TIMEOUT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_DSN is required for the %s driver", c.StoreDriver)
		}
	case DriverMongo:
		if c.MongoURI == "" || c.MongoDatabase == "" {
			return fmt.Errorf("MONGO_URI and MONGO_DATABASE are required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.AppPort == "" {
		return fmt.Errorf("APP_PORT is required")
	}
	if c.ExpiryCheckInterval <= 0 {
		return fmt.Errorf("EXPIRY_CHECK_INTERVAL must be positive, got %s", c.ExpiryCheckInterval)
	}
	if c.SaveTimeout <= 0 {
		return fmt.Errorf("SAVE_TIMEOUT must be positive, got %s", c.SaveTimeout)
	}
	if c.RabbitMQURL != "" && c.ReminderQueue == "" {
		return fmt.Errorf("REMINDER_QUEUE is required when RABBITMQ_URL is set")
	}
	return nil
}
