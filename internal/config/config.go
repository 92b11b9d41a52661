package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all app configuration
type Config struct {
	// Server
	AppEnv      string
	Port        string
	CORSOrigins []string

	// Order store: "postgres" or "memory"
	OrderStore string
	DB         DBConfig

	// Redis rate limiting; disabled when RedisURL is empty
	RedisURL          string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Kafka order mirror; disabled when no brokers are set
	KafkaBrokers []string
	KafkaTopic   string

	// Analytics
	TopProductsLimit  int
	RecentOrdersLimit int
	DebounceInterval  time.Duration
	RefreshInterval   time.Duration
	WSSendBuffer      int

	// Recommendation thresholds
	RecTopSharePct   float64
	RecSurgePct      float64
	RecLowStockUnits int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the postgres connection URL.
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + c.Port + "/" + c.Name + "?sslmode=" + c.SSLMode
}

// Load reads configs/.env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		slog.Info("no configs/.env file loaded, using environment", "error", err)
	}

	return &Config{
		AppEnv:      getEnv("APP_ENV", "local"),
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"}, ","),

		OrderStore: getEnv("ORDER_STORE", "postgres"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		RedisURL:          getEnv("REDIS_URL", ""),
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 120),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),

		KafkaBrokers: getEnvAsSlice("KAFKA_BROKERS", nil, ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "orders"),

		TopProductsLimit:  getEnvAsInt("TOP_PRODUCTS_LIMIT", 5),
		RecentOrdersLimit: getEnvAsInt("RECENT_ORDERS_LIMIT", 10),
		DebounceInterval:  getEnvAsDuration("DEBOUNCE_INTERVAL", 250*time.Millisecond),
		RefreshInterval:   getEnvAsDuration("REFRESH_INTERVAL", 5*time.Second),
		WSSendBuffer:      getEnvAsInt("WS_SEND_BUFFER", 256),

		RecTopSharePct:   getEnvAsFloat("REC_TOP_SHARE_PCT", 30),
		RecSurgePct:      getEnvAsFloat("REC_SURGE_PCT", 50),
		RecLowStockUnits: getEnvAsInt("REC_LOW_STOCK_UNITS", 50),
	}
}

// Helper functions for parsing environment variables
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsFloat(key string, defaultVal float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsSlice(key string, defaultVal []string, sep string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(valStr, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
