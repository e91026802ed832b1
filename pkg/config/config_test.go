package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lawlink/pkg/config"

	"github.com/stretchr/testify/assert"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoad_UsesDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := config.Load("non-existent-config.yaml")
	assert.NoError(t, err)
	assert.Equal(t, ":8081", cfg.Signal.Address)
	assert.Equal(t, 30*time.Second, cfg.Signal.PingInterval)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_LoadsFromYAMLAndAppliesEnvOverrides(t *testing.T) {
	path := writeTempConfig(t, `
signal:
  address: ":9001"
  ping_interval: 5s
  pong_timeout: 10s
  read_timeout: 20s
  write_timeout: 5s
  shutdown_timeout: 10s

logging:
  level: "debug"
  format: "console"

auth:
  jwt_secret: "from-file"
  token_ttl: 1h
`)

	os.Setenv("LAWLINK_SIGNAL_ADDRESS", ":9999")
	os.Setenv("LAWLINK_JWT_SECRET", "from-env")
	defer os.Unsetenv("LAWLINK_SIGNAL_ADDRESS")
	defer os.Unsetenv("LAWLINK_JWT_SECRET")

	cfg, err := config.Load(path)
	assert.NoError(t, err)

	// File values
	assert.Equal(t, 5*time.Second, cfg.Signal.PingInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)

	// Env wins over file
	assert.Equal(t, ":9999", cfg.Signal.Address)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)

	// Untouched sections keep their defaults
	assert.Equal(t, int64(64*1024), cfg.RateLimiting.WebSocket.MaxMessageSizeBytes)
}

func TestLoad_RejectsInvalidConfig(t *testing.T) {
	path := writeTempConfig(t, `
signal:
  address: ""
`)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, config.DefaultConfig().Validate())
	})

	t.Run("rejects zero ping interval", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Signal.PingInterval = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rejects empty jwt secret", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Auth.JWTSecret = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("redis settings only checked when enabled", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Redis.Address = ""
		assert.NoError(t, cfg.Validate())

		cfg.Redis.Enabled = true
		assert.Error(t, cfg.Validate())
	})

	t.Run("rate limits only checked when enabled", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.RateLimiting.HTTP.RequestsPerSecond = 0
		assert.NoError(t, cfg.Validate())

		cfg.RateLimiting.Enabled = true
		assert.Error(t, cfg.Validate())
	})
}
