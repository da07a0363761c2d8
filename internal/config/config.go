package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server         ServerConfig
	Logger         LoggerConfig
	Database       DatabaseConfig
	Store          StoreConfig
	Paytm          PaytmConfig
	Security       SecurityConfig
	CORS           CORSConfig
	Idempotency    IdempotencyConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	Reconciliation ReconciliationConfig
	App            AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// StoreConfig selects the transaction store implementation
type StoreConfig struct {
	Backend string // postgres, memory
}

// PaytmConfig holds the merchant credentials and gateway endpoints
type PaytmConfig struct {
	MerchantID     string
	MerchantKey    string
	Website        string
	ChannelID      string
	IndustryTypeID string
	CallbackURL    string
	TransactionURL string
	StatusURL      string
	Currency       string
	StatusTimeout  time.Duration
}

// SecurityConfig holds the callback authenticity policy
type SecurityConfig struct {
	AuthenticityPolicy string // strict, permissive
}

// CORSConfig holds cross-origin settings for browser clients
type CORSConfig struct {
	AllowedOrigins   []string
	AllowCredentials bool
}

// IdempotencyConfig selects where Idempotency-Key responses are cached
type IdempotencyConfig struct {
	Backend string // postgres, redis, none
	TTL     time.Duration
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds the status event publisher settings
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// ReconciliationConfig controls the stale PENDING order sweep
type ReconciliationConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
	BatchSize  int
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string
}

// IsProduction reports whether internal error details must be hidden from clients.
func (a AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// Load loads configuration from the environment, after applying a .env file if one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "payments"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "postgres"),
		},
		Paytm: PaytmConfig{
			MerchantID:     getEnv("PAYTM_MID", ""),
			MerchantKey:    getEnv("PAYTM_MERCHANT_KEY", ""),
			Website:        getEnv("PAYTM_WEBSITE", "DEFAULT"),
			ChannelID:      getEnv("PAYTM_CHANNEL_ID", "WEB"),
			IndustryTypeID: getEnv("PAYTM_INDUSTRY_TYPE_ID", "Retail109"),
			CallbackURL:    getEnv("PAYTM_CALLBACK_URL", ""),
			TransactionURL: getEnv("PAYTM_URL", "https://securegw-stage.paytm.in/order/process"),
			StatusURL:      getEnv("PAYTM_STATUS_URL", "https://securegw-stage.paytm.in/order/status"),
			Currency:       getEnv("PAYTM_CURRENCY", "INR"),
			StatusTimeout:  getEnvAsDuration("PAYTM_STATUS_TIMEOUT", "5s"),
		},
		Security: SecurityConfig{
			AuthenticityPolicy: getEnv("PAYTM_AUTHENTICITY_POLICY", "strict"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
		},
		Idempotency: IdempotencyConfig{
			Backend: getEnv("IDEMPOTENCY_BACKEND", "postgres"),
			TTL:     getEnvAsDuration("IDEMPOTENCY_TTL", "24h"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: getEnvAsList("KAFKA_BROKERS", nil),
			Topic:   getEnv("KAFKA_TOPIC", "paytm.transactions"),
		},
		Reconciliation: ReconciliationConfig{
			Interval:   getEnvAsDuration("RECONCILE_INTERVAL", "0s"),
			StaleAfter: getEnvAsDuration("RECONCILE_STALE_AFTER", "15m"),
			BatchSize:  getEnvAsInt("RECONCILE_BATCH_SIZE", 50),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	switch c.Store.Backend {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database host cannot be empty")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name cannot be empty")
		}
	case "memory":
	default:
		return fmt.Errorf("invalid store backend: %s (must be postgres or memory)", c.Store.Backend)
	}

	switch c.Idempotency.Backend {
	case "postgres":
		if c.Store.Backend != "postgres" {
			return fmt.Errorf("postgres idempotency backend requires the postgres store backend")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address cannot be empty for the redis idempotency backend")
		}
	case "none":
	default:
		return fmt.Errorf("invalid idempotency backend: %s (must be postgres, redis, or none)", c.Idempotency.Backend)
	}

	if c.Security.AuthenticityPolicy != "strict" && c.Security.AuthenticityPolicy != "permissive" {
		return fmt.Errorf("invalid authenticity policy: %s (must be strict or permissive)", c.Security.AuthenticityPolicy)
	}

	if c.App.IsProduction() {
		if c.Paytm.MerchantKey == "" {
			return fmt.Errorf("merchant key is required in production")
		}
		if c.Paytm.MerchantID == "" {
			return fmt.Errorf("merchant id is required in production")
		}
	}

	if c.Paytm.Currency == "" {
		return fmt.Errorf("currency cannot be empty")
	}
	if c.Paytm.StatusTimeout <= 0 {
		return fmt.Errorf("status inquiry timeout must be positive, got %s", c.Paytm.StatusTimeout)
	}

	if c.Reconciliation.Interval < 0 {
		return fmt.Errorf("reconcile interval cannot be negative")
	}
	if c.Reconciliation.BatchSize <= 0 {
		return fmt.Errorf("reconcile batch size must be positive, got %d", c.Reconciliation.BatchSize)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		return fmt.Errorf("invalid log format: %s (must be json or text)", c.Logger.Format)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
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

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}
