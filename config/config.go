package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DBUrl         string
	JWTSecret     string
	AllowedOrigin string
	// DB Config
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Snapshot cache
	SnapshotCacheTTL time.Duration
	// Quote engine
	DefaultCubicDivisor float64
	MaxQuoteItems       int
	// Rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
}

func LoadConfig() *Config {
	// A specific config file can be requested via env var; otherwise fall
	// back to .env for local dev. Missing .env is fine in docker/prod
	// where system env vars are the source of truth.
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DBUrl:         getEnv("DB_DSN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 50),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 10),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Snapshot lives until a merchant edit invalidates it; the TTL is
		// a backstop against a missed invalidation signal.
		SnapshotCacheTTL: getDurationEnv("SNAPSHOT_CACHE_TTL", 30*time.Minute),

		// 4000 is the common courier cm^3-per-kg divisor; services can
		// override it per configuration row.
		DefaultCubicDivisor: getFloatEnv("DEFAULT_CUBIC_DIVISOR", 4000),
		MaxQuoteItems:       getIntEnv("MAX_QUOTE_ITEMS", 200),

		RateLimitPerSecond: getFloatEnv("RATE_LIMIT_PER_SECOND", 50),
		RateLimitBurst:     getIntEnv("RATE_LIMIT_BURST", 100),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.DBUrl == "" {
		log.Fatal("CRITICAL: DB_DSN environment variable is required")
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if c.DefaultCubicDivisor <= 0 {
		log.Fatal("CRITICAL: DEFAULT_CUBIC_DIVISOR must be positive")
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getFloatEnv(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		log.Printf("Invalid float for %s, using fallback", key)
	}
	return fallback
}
