package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "rail")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "railgo")
}

func TestNew_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30, cfg.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.Audit.PruneEnabled)
	assert.Equal(t, "03:00", cfg.Audit.PruneRunAt)
	assert.Equal(t, 90*24*time.Hour, cfg.Audit.Retention)
}

func TestNew_MissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "railgo")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestNew_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 7*24*time.Hour, cfg.Audit.Retention)
}

func TestNew_InvalidPort(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := New()
	assert.Error(t, err)
}
