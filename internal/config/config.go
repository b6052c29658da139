package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	Domain        string
	LogLevel      string
	PagesDir      string
	AssetsDir     string
	AdminSecret   string
	TokensFile    string
	Timezone      string
	DatasetTTL    time.Duration
	StatusPeriod  time.Duration
	HorizonDays   int
	APIRateLimit  int
	APIRateWindow time.Duration
	AuthRateLimit int

	SquareAppID        string
	SquareAppSecret    string
	SquareAccessToken  string
	SquareRefreshToken string
	SquareMerchantID   string
	SquareBaseURL      string
	SquareVersion      string

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("ENV", "development"),
		Domain:        getEnv("DOMAIN", "http://localhost:3000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PagesDir:      getEnv("PAGES_DIR", "./pages"),
		AssetsDir:     getEnv("ASSETS_DIR", "."),
		AdminSecret:   getEnv("ADMIN_JWT_SECRET", ""),
		TokensFile:    getEnv("TOKENS_FILE", "tokens.json"),
		Timezone:      getEnv("STUDIO_TIMEZONE", "America/Vancouver"),
		DatasetTTL:    getEnvAsDuration("CALENDAR_CACHE_TTL", 5*time.Minute),
		StatusPeriod:  getEnvAsDuration("STATUS_POLL_PERIOD", time.Minute),
		HorizonDays:   getEnvAsInt("CALENDAR_HORIZON_DAYS", 30),
		APIRateLimit:  getEnvAsInt("API_RATE_LIMIT", 100),
		APIRateWindow: getEnvAsDuration("API_RATE_WINDOW", 15*time.Minute),
		AuthRateLimit: getEnvAsInt("AUTH_RATE_LIMIT", 5),

		SquareAppID:        getEnv("SQUARE_APPLICATION_ID", ""),
		SquareAppSecret:    getEnv("SQUARE_APPLICATION_SECRET", ""),
		SquareAccessToken:  getEnv("SQUARE_ACCESS_TOKEN", ""),
		SquareRefreshToken: getEnv("SQUARE_REFRESH_TOKEN", ""),
		SquareMerchantID:   getEnv("MERCHANT_ID", ""),
		SquareBaseURL:      getEnv("SQUARE_BASE_URL", "https://connect.squareup.com"),
		SquareVersion:      getEnv("SQUARE_VERSION", "2025-07-16"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
