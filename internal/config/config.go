package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	DBConn   string
	LogLevel string
	Store    string

	JWTSecret string
	JWTTTL    time.Duration

	RequestTimeout    time.Duration
	StatementTimeout  time.Duration
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	Currency          string

	ForecastURL             string
	ForecastHealthURL       string
	ForecastTimeout         time.Duration
	ForecastCacheTTL        time.Duration
	ForecastMinTransactions int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	ReminderCron      string
	ReminderLeadDays  int
	WorkerConcurrency int
}

// NewConfig loads configuration from an optional .env file and environment variables
func NewConfig() (*Config, error) {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DBConn:   getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=finance sslmode=disable"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		Store:    getEnv("STORE", "postgres"),

		JWTSecret: getEnv("JWT_SECRET", "secret"),
		JWTTTL:    getEnvAsDuration("JWT_TTL", 24*time.Hour),

		RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 15*time.Second),
		StatementTimeout:  getEnvAsDuration("DB_STATEMENT_TIMEOUT", 5*time.Second),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		Currency:          getEnv("CURRENCY", "IDR"),

		ForecastURL:             getEnv("FORECAST_URL", "http://127.0.0.1:5001/analyze-forecast"),
		ForecastHealthURL:       getEnv("FORECAST_HEALTH_URL", "http://127.0.0.1:5001/health"),
		ForecastTimeout:         getEnvAsDuration("FORECAST_TIMEOUT", 10*time.Second),
		ForecastCacheTTL:        getEnvAsDuration("FORECAST_CACHE_TTL", 60*time.Second),
		ForecastMinTransactions: getEnvAsInt("FORECAST_MIN_TRANSACTIONS", 7),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "no-reply@finance.local"),

		ReminderCron:      getEnv("REMINDER_CRON", "0 8 * * *"),
		ReminderLeadDays:  getEnvAsInt("REMINDER_LEAD_DAYS", 1),
		WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 5),
	}

	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return nil, fmt.Errorf("STORE must be postgres or memory, got %q", cfg.Store)
	}
	if cfg.Store == "postgres" && cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ForecastTimeout <= 0 {
		return nil, fmt.Errorf("FORECAST_TIMEOUT must be positive")
	}
	if cfg.ReminderLeadDays < 0 {
		return nil, fmt.Errorf("REMINDER_LEAD_DAYS must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
