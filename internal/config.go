package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	BaseURL  string
	Store    StoreConfig
	Services ServiceConfig
}

// StoreConfig selects the persistent key-value backend used for the
// session and cart containers.
type StoreConfig struct {
	Provider      string // "memory", "bolt" or "redis"
	BoltPath      string
	RedisAddr     string
	RedisPassword string
}

// ServiceConfig holds the base URLs of the backend microservices and the
// per-request timeout applied to every gateway call.
type ServiceConfig struct {
	UsersURL     string
	CatalogURL   string
	PurchasesURL string
	ReviewsURL   string
	Timeout      time.Duration
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		BaseURL:  getEnv("BASE_URL", "http://localhost:3000"),
		Store: StoreConfig{
			Provider:      getEnv("STORE_PROVIDER", "bolt"),
			BoltPath:      getEnv("STORE_BOLT_PATH", "./data/storefront.db"),
			RedisAddr:     getEnv("STORE_REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("STORE_REDIS_PASSWORD", ""),
		},
		Services: ServiceConfig{
			UsersURL:     getEnv("API_USUARIOS_URL", "http://localhost:8081/usuarios"),
			CatalogURL:   getEnv("API_PRODUCTOS_URL", "http://localhost:8082/productos"),
			PurchasesURL: getEnv("API_COMPRAS_URL", "http://localhost:8083/compras"),
			ReviewsURL:   getEnv("API_REVIEWS_URL", "http://localhost:8084"),
			Timeout:      getEnvDuration("API_TIMEOUT", 15*time.Second),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.Services.Timeout <= 0 {
		return nil, fmt.Errorf("API_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.ParseUint(value, 10, 16)
	if err != nil {
		slog.Default().Warn("Invalid integer value, using default",
			slog.String("key", key), slog.String("value", value))
		return defaultValue
	}
	return uint16(parsed)
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		slog.Default().Warn("Invalid duration value, using default",
			slog.String("key", key), slog.String("value", value))
		return defaultValue
	}
	return parsed
}
