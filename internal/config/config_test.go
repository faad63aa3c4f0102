package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "REPORT_SQL_PATH", "SEED", "REDIS_URL", "CACHE_TTL", "SERVER_PORT", "LOG_LEVEL", "DB_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "app.db", filepath.Base(cfg.DatabaseURL))
	assert.Equal(t, int64(21), cfg.Seed)
	assert.Empty(t, cfg.ReportSQLPath)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 1800, cfg.CacheTTL)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "warn", cfg.DBLogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://audit@localhost:5432/audit")
	t.Setenv("SEED", "7")
	t.Setenv("CACHE_TTL", "not-a-number")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg := Load()

	assert.Equal(t, "postgres://audit@localhost:5432/audit", cfg.DatabaseURL)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 1800, cfg.CacheTTL, "unparsable ints fall back to the default")
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}
