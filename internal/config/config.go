package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"inventory/internal/pagination"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// AuditMaxConns sizes the separate pool the change log writes through.
	AuditMaxConns int

	// JWTSecret verifies bearer tokens issued by the login service.
	JWTSecret string

	// ServiceAPIKey authenticates the power-control collaborator.
	ServiceAPIKey string

	DefaultPageSize int

	// View preferences
	PreferenceStore string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
}

// devJWTSecret is only acceptable outside production.
const devJWTSecret = "fallback-secret-key-for-dev-only"

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBDriver:   getEnv("DB_DRIVER", "postgres"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "inventory"),
		DBPassword: getEnv("DB_PASSWORD", "inventory"),
		DBName:     getEnv("DB_NAME", "inventory"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "inventory.db"),

		AuditMaxConns: getEnvInt("AUDIT_DB_MAX_CONNS", 4),

		JWTSecret:     getEnv("JWT_SECRET", devJWTSecret),
		ServiceAPIKey: getEnv("SERVICE_API_KEY", ""),

		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 20),

		PreferenceStore: getEnv("PREFERENCE_STORE", "db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// validate rejects settings the server cannot start with.
func (c *Config) validate() error {
	switch c.PreferenceStore {
	case "db", "redis":
	default:
		return fmt.Errorf("PREFERENCE_STORE must be db or redis, got %q", c.PreferenceStore)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > pagination.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be between 1 and %d, got %d", pagination.MaxPageSize, c.DefaultPageSize)
	}
	if c.Env == "production" && c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}
