package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the picks generator.
// Every field has a default, so a bare invocation needs no environment at all.
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	Env string // development, staging, production

	// Output
	OutputDir    string // base directory holding data/ and public/data/
	StrategyFile string // optional YAML override of universe and passes

	// Market data
	Fetch  FetchConfig
	Finviz FinvizConfig

	// Redis (shared fetch quota)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsTextfile string

	// Scheduler
	ScheduleCron       string
	ScheduleRetries    int
	ScheduleRetryDelay time.Duration
}

// FetchConfig controls the market data fan-out
type FetchConfig struct {
	Concurrency int
	RatePerSec  float64
	HistoryDays int
	Timeout     time.Duration
}

// FinvizConfig holds the fundamentals scraper settings
type FinvizConfig struct {
	Enabled bool
	BaseURL string
	Retries int // retries on 429/5xx, 0 = off
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		OutputDir:    getEnv("OUTPUT_DIR", cwd),
		StrategyFile: getEnv("STRATEGY_FILE", ""),

		Fetch: FetchConfig{
			Concurrency: getEnvAsInt("FETCH_CONCURRENCY", 8),
			RatePerSec:  getEnvAsFloat("FETCH_RATE_PER_SEC", 5),
			HistoryDays: getEnvAsInt("FETCH_HISTORY_DAYS", 90),
			Timeout:     getEnvAsDuration("FETCH_TIMEOUT", "20s"),
		},

		Finviz: FinvizConfig{
			Enabled: getEnvAsBool("FINVIZ_ENABLED", false),
			BaseURL: getEnv("FINVIZ_BASE_URL", "https://finviz.com"),
			Retries: getEnvAsInt("FINVIZ_RETRIES", 0),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),

		ScheduleCron:       getEnv("SCHEDULE_CRON", "0 30 6 * * 1-5"),
		ScheduleRetries:    getEnvAsInt("SCHEDULE_RETRIES", 0),
		ScheduleRetryDelay: getEnvAsDuration("SCHEDULE_RETRY_DELAY", "5m"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}

	if c.Fetch.Concurrency <= 0 {
		return fmt.Errorf("FETCH_CONCURRENCY must be positive, got %d", c.Fetch.Concurrency)
	}

	if c.Fetch.RatePerSec <= 0 {
		return fmt.Errorf("FETCH_RATE_PER_SEC must be positive, got %v", c.Fetch.RatePerSec)
	}

	if c.Fetch.HistoryDays < 30 {
		return fmt.Errorf("FETCH_HISTORY_DAYS must be at least 30, got %d", c.Fetch.HistoryDays)
	}

	if c.Finviz.Retries < 0 {
		return fmt.Errorf("FINVIZ_RETRIES must not be negative, got %d", c.Finviz.Retries)
	}

	if c.ScheduleRetries < 0 {
		return fmt.Errorf("SCHEDULE_RETRIES must not be negative, got %d", c.ScheduleRetries)
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
