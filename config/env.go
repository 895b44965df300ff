package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	LocalStoreRedis    = "redis"
	LocalStorePostgres = "postgres"
	LocalStoreMemory   = "memory"
)

type Config struct {
	AppEnv   string
	Port     string
	LogLevel string

	PayloadAPIURL string
	StoreID       string
	StorageURL    string
	StoreName     string
	HTTPTimeout   time.Duration

	JWTSecret string
	OriginURL string

	LocalStore      string
	RedisURL        string
	RedisAddr       string
	RedisPassword   string
	DatabaseURL     string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSSLMode       string
	MigrationsDir   string
	CatalogCacheTTL time.Duration
}

// LoadConfig reads .env when present and falls back to the process
// environment. It never fails: a missing STORE_ID is only reported.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		Port:     getEnv("APP_PORT", getEnv("PORT", "8082")),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		PayloadAPIURL: strings.TrimSuffix(getEnv("PAYLOAD_API_URL", "http://localhost:3000"), "/"),
		StoreID:       getEnv("STORE_ID", ""),
		StorageURL:    strings.TrimSuffix(getEnv("STORAGE_URL", ""), "/"),
		StoreName:     getEnv("STORE_NAME", "Storefront"),
		HTTPTimeout:   getDuration("HTTP_TIMEOUT", 15*time.Second),

		JWTSecret: getEnv("JWT_SECRET", ""),
		OriginURL: getEnv("ORIGIN_URL", ""),

		LocalStore:      strings.ToLower(getEnv("LOCAL_STORE", LocalStoreRedis)),
		RedisURL:        getEnv("REDIS_URL", ""),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		DBHost:          getEnv("DB_HOST", "localhost"),
		DBPort:          getEnv("DB_PORT", "5432"),
		DBUser:          getEnv("DB_USER", "postgres"),
		DBPassword:      getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "storefront"),
		DBSSLMode:       getEnv("DB_SSLMODE", "disable"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "database/migration"),
		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
	}

	return cfg
}

// Missing lists the required settings that are empty.
func (c *Config) Missing() []string {
	var missing []string
	if c.StoreID == "" {
		missing = append(missing, "STORE_ID")
	}
	if c.PayloadAPIURL == "" {
		missing = append(missing, "PAYLOAD_API_URL")
	}
	return missing
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
