package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable LoadConfig reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDRESS", "PORT", "OPS_ADDRESS", "ENVIRONMENT", "APP_NAME", "START_MESSAGE",
		"AWS_REGION", "DYNAMODB_ENDPOINT", "TABLE_NAME", "DYNAMODB_TABLE", "EVENT_BUS_NAME", "ENABLE_EVENTS",
		"METRICS_NAMESPACE", "STORE_DRIVER", "BADGER_PATH", "IS_LAMBDA", "AWS_LAMBDA_FUNCTION_NAME", "LOG_LEVEL",
		"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"BREAKER_ENABLED", "BREAKER_MAX_REQUESTS", "BREAKER_INTERVAL", "BREAKER_TIMEOUT",
		"BREAKER_FAILURE_THRESHOLD", "BREAKER_MIN_REQUESTS",
		"ENABLE_METRICS", "ENABLE_TRACING", "ENABLE_CORS", "CORS_ORIGINS", "TRUST_PROXY_HEADERS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, StoreDynamoDB, cfg.StoreDriver)
	assert.True(t, cfg.Breaker.Enabled)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "The magic is on port 8080", cfg.StartupMessage())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3000")
	t.Setenv("STORE_DRIVER", "Badger")
	t.Setenv("TABLE_NAME", "todos-dev")
	t.Setenv("START_MESSAGE", "ready")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("BREAKER_TIMEOUT", "5s")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ServerAddress)
	assert.Equal(t, StoreBadger, cfg.StoreDriver)
	assert.Equal(t, "todos-dev", cfg.DynamoDBTable)
	assert.Equal(t, "ready", cfg.StartupMessage())
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, 5*time.Second, cfg.Breaker.Timeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestLoadConfig_ServerAddressWinsOverPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:7000")
	t.Setenv("PORT", "3000")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.ServerAddress)
}

func TestLoadConfig_FileOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
store_driver: badger
log_level: debug
breaker:
  enabled: false
  interval: 10s
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, StoreBadger, cfg.StoreDriver)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over the file")
	assert.False(t, cfg.Breaker.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Breaker.Interval)
	assert.Equal(t, 5, cfg.Breaker.MinRequests, "unset file keys keep their defaults")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestLoadConfig_NegativePort(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "-1")

	_, err := LoadConfig()

	assert.Error(t, err)
}

func TestNormalizePort(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"8080", ":8080", false},
		{" 0 ", ":0", false},
		{"/tmp/todo.sock", "/tmp/todo.sock", false},
		{"localhost:9000", "localhost:9000", false},
		{"-3", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizePort(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, true},
		{"dynamodb without table", func(c *Config) { c.DynamoDBTable = "" }, true},
		{"events without bus", func(c *Config) { c.EnableEvents = true; c.EventBusName = "" }, true},
		{"negative rate", func(c *Config) { c.RateLimitRPS = -1 }, true},
		{"threshold above one", func(c *Config) { c.Breaker.FailureThreshold = 1.5 }, true},
		{"production without secret", func(c *Config) { c.Environment = "production" }, true},
		{"production badger in memory", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s3cret"
			c.StoreDriver = StoreBadger
		}, true},
		{"production ok", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = "s3cret"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
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
