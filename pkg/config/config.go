package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the screener
// ⭐ SSOT: every environment variable is read here
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Market data
	Yahoo YahooConfig

	// Screening engine
	Screener ScreenerConfig

	// Scheduled scans
	Schedule ScheduleConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL     string
	Enabled bool

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// YahooConfig holds the chart API settings
type YahooConfig struct {
	BaseURL        string
	RequestsPerSec float64
	Burst          int
	Timeout        time.Duration
	MaxRetries     int
}

// ScreenerConfig holds orchestrator settings
type ScreenerConfig struct {
	Workers        int
	FetchTimeout   time.Duration
	OutputDir      string
	RegimeTTL      time.Duration
	StrategyConfig string // optional YAML overrides
	Universe       []string
	UniverseFile   string
}

// ScheduleConfig holds cron specs (seconds field included)
type ScheduleConfig struct {
	Enabled       bool
	IntradaySpec  string
	DailySpec     string
	DailyKeys     []string
	IntradayKeys  []string
	RegimeRefresh string
}

// Load reads configuration from environment variables
// ⭐ SSOT: only this function calls os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Enabled:         getEnvAsBool("DB_ENABLED", false),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Yahoo: YahooConfig{
			BaseURL:        getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestsPerSec: getEnvAsFloat("YAHOO_RPS", 8),
			Burst:          getEnvAsInt("YAHOO_BURST", 4),
			Timeout:        getEnvAsDuration("YAHOO_TIMEOUT", "15s"),
			MaxRetries:     getEnvAsInt("YAHOO_MAX_RETRIES", 2),
		},

		Screener: ScreenerConfig{
			Workers:        getEnvAsInt("SCREENER_WORKERS", 10),
			FetchTimeout:   getEnvAsDuration("SCREENER_FETCH_TIMEOUT", "20s"),
			OutputDir:      getEnv("SCREENER_OUTPUT_DIR", "screener_output"),
			RegimeTTL:      getEnvAsDuration("REGIME_TTL", "24h"),
			StrategyConfig: getEnv("STRATEGY_CONFIG", ""),
			Universe:       getEnvAsList("SCREENER_UNIVERSE", nil),
			UniverseFile:   getEnv("SCREENER_UNIVERSE_FILE", ""),
		},

		Schedule: ScheduleConfig{
			Enabled:       getEnvAsBool("SCHEDULE_ENABLED", true),
			IntradaySpec:  getEnv("SCHEDULE_INTRADAY", "0 15 9 * * 1-5"),
			DailySpec:     getEnv("SCHEDULE_DAILY", "0 30 16 * * 1-5"),
			IntradayKeys:  getEnvAsList("SCHEDULE_INTRADAY_KEYS", []string{"intraday_momentum"}),
			DailyKeys:     getEnvAsList("SCHEDULE_DAILY_KEYS", []string{"idx_swing", "vwap_pro", "bsjp", "ultimate", "smart_money"}),
			RegimeRefresh: getEnv("SCHEDULE_REGIME", "0 0 8 * * 1-5"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.Enabled && c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required when DB_ENABLED=true")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Screener.Workers < 1 {
		return fmt.Errorf("SCREENER_WORKERS must be >= 1")
	}

	if c.Screener.FetchTimeout <= 0 {
		return fmt.Errorf("SCREENER_FETCH_TIMEOUT must be positive")
	}

	if c.Yahoo.RequestsPerSec <= 0 {
		return fmt.Errorf("YAHOO_RPS must be positive")
	}

	return nil
}

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

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
