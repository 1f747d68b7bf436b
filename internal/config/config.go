package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the service reads from the environment at startup.
type Config struct {
	Environment string
	HTTPAddr    string

	DatabaseURL string

	JWTSecretKey      string
	AccessTokenExpiry time.Duration

	FrontendOrigins []string

	KafkaBrokers []string
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Load reads the full service configuration from the process environment.
// DATABASE_URL wins when set; otherwise the URL is assembled from the
// individual DB_* variables with development defaults. In production a
// missing DATABASE_URL or JWT_SECRET_KEY is a startup error.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:  getEnv("ENVIRONMENT", EnvDevelopment),
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "dev-secret-change-me"),
	}

	if cfg.DatabaseURL == "" {
		if cfg.Environment == EnvProduction {
			return nil, fmt.Errorf("DATABASE_URL must be set in production")
		}
		cfg.DatabaseURL = buildDatabaseURL()
	}

	if cfg.Environment == EnvProduction && os.Getenv("JWT_SECRET_KEY") == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY must be set in production")
	}

	minutes, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "60"))
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %q", os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES"))
	}
	cfg.AccessTokenExpiry = time.Duration(minutes) * time.Minute

	if origins := os.Getenv("FRONTEND_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				cfg.FrontendOrigins = append(cfg.FrontendOrigins, trimmed)
			}
		}
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	return cfg, nil
}

// buildDatabaseURL assembles a connection string from the individual DB_*
// variables, matching the local docker-compose defaults.
func buildDatabaseURL() string {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := getEnv("DB_PASSWORD", "postgres")
	dbname := getEnv("DB_NAME", "crm_dev")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
