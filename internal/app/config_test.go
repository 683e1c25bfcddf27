package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/coursecraft-backend/internal/platform/logger"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		configFileEnv, "PORT", "DB_DRIVER", "SQLITE_PATH", "MUTATION_TIMEOUT", "METRICS_ENABLED",
		"CORS_ALLOWED_ORIGINS", "REDIS_ADDR", "REDIS_CHANNEL", "JWT_SECRET_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, 15*time.Second, cfg.MutationTimeout)
	assert.Equal(t, "sse", cfg.Redis.Channel)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
mutation_timeout: 5s
metrics_enabled: false
cors_allowed_origins: ["https://admin.example.com"]
database:
  driver: sqlite
  sqlite_path: /tmp/cc.db
redis:
  addr: redis:6379
  channel: course-events
`), 0o600))
	clearEnv(t)
	t.Setenv(configFileEnv, path)
	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port, "env wins over file")
	assert.Equal(t, 5*time.Second, cfg.MutationTimeout)
	assert.False(t, cfg.MetricsEnabled)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/cc.db", cfg.DB.SQLitePath)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "course-events", cfg.Redis.Channel)
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "oracle")
	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(configFileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}
