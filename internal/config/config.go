package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port     string
	Env      string
	LogLevel string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds the Redis connection used for resolution locks.
// An empty Addr selects the in-process locker.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from the environment, after loading an optional
// .env file from the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "host.docker.internal")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "househunt")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "househunt")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOCK_TTL", "10s")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("METRICS_ENABLED", true)

	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetString("PORT"),
			Env:      v.GetString("ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockTTL:  v.GetDuration("LOCK_TTL"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Backend settings are only checked for the selected driver.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_DRIVER is mongo")
		}
		if c.Mongo.Database == "" {
			return fmt.Errorf("MONGO_DATABASE is required when STORE_DRIVER is mongo")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s; got %q",
			DriverPostgres, DriverMongo, DriverMemory, c.Store.Driver)
	}

	if c.Redis.Addr != "" && c.Redis.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

func (d DatabaseConfig) validate() error {
	if d.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if d.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if d.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if d.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if d.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if d.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if d.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if d.PoolMin > d.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
