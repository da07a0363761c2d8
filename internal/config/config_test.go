package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Port: "5000"},
		Database: DatabaseConfig{Host: "localhost", DBName: "payments"},
		Store:    StoreConfig{Backend: "postgres"},
		Paytm: PaytmConfig{
			Currency:      "INR",
			StatusTimeout: 5 * time.Second,
		},
		Security:       SecurityConfig{AuthenticityPolicy: "strict"},
		Idempotency:    IdempotencyConfig{Backend: "postgres"},
		Reconciliation: ReconciliationConfig{BatchSize: 50},
		App:            AppConfig{Environment: "development"},
		Logger:         LoggerConfig{Level: "info", Format: "json"},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PAYTM_MID", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("PAYTM_AUTHENTICITY_POLICY", "")
	t.Setenv("IDEMPOTENCY_BACKEND", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Backend)
	assert.Equal(t, "INR", cfg.Paytm.Currency)
	assert.Equal(t, "WEB", cfg.Paytm.ChannelID)
	assert.Equal(t, "strict", cfg.Security.AuthenticityPolicy)
	assert.Equal(t, 5*time.Second, cfg.Paytm.StatusTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PAYTM_MID", "Merchant0001")
	t.Setenv("PAYTM_STATUS_TIMEOUT", "2s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("IDEMPOTENCY_BACKEND", "none")
	t.Setenv("PAYTM_AUTHENTICITY_POLICY", "permissive")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Merchant0001", cfg.Paytm.MerchantID)
	assert.Equal(t, 2*time.Second, cfg.Paytm.StatusTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, "permissive", cfg.Security.AuthenticityPolicy)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(c *Config)
		name    string
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
		{name: "unknown store", mutate: func(c *Config) { c.Store.Backend = "mongo" }, wantErr: true},
		{
			name: "memory store with postgres idempotency",
			mutate: func(c *Config) {
				c.Store.Backend = "memory"
			},
			wantErr: true,
		},
		{
			name: "memory store without idempotency",
			mutate: func(c *Config) {
				c.Store.Backend = "memory"
				c.Idempotency.Backend = "none"
			},
		},
		{name: "unknown policy", mutate: func(c *Config) { c.Security.AuthenticityPolicy = "lenient" }, wantErr: true},
		{name: "production without key", mutate: func(c *Config) { c.App.Environment = "production" }, wantErr: true},
		{
			name: "production with credentials",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Paytm.MerchantID = "m"
				c.Paytm.MerchantKey = "k"
			},
		},
		{name: "zero timeout", mutate: func(c *Config) { c.Paytm.StatusTimeout = 0 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "trace" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Logger.Format = "xml" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "payments", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=payments sslmode=disable", cfg.DSN())
}

func TestLoggerConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := LoggerConfig{Level: "warn", Format: "json"}
	logger := cfg.newLogger(&buf)

	logger.Info("dropped")
	logger.Warn("kept", "order_id", "ORD1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "paytm-mediator", entry["service"])
	assert.Equal(t, "ORD1", entry["order_id"])
}

func TestLoggerConfig_RedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	cfg := LoggerConfig{Level: "debug", Format: "json"}
	logger := cfg.newLogger(&buf)

	logger.Debug("signed request", "order_id", "ORD1", "CHECKSUMHASH", "abc123", "merchant_key", "kbzk1DSbJiV_O3p5")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ORD1", entry["order_id"])
	assert.Equal(t, "[REDACTED]", entry["CHECKSUMHASH"])
	assert.Equal(t, "[REDACTED]", entry["merchant_key"])
	assert.NotContains(t, buf.String(), "kbzk1DSbJiV_O3p5")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("unknown"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}
