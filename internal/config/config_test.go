package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_TIMEZONE", "APP_PORT", "AUTH_JWT_SECRET", "POSTGRES_DSN", "RATE_LIMIT_RPS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "Asia/Seoul", cfg.App.Timezone)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginLockout())
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.Postgres.RunMigrations)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).In(loc)
	_, offset := at.Zone()
	assert.Equal(t, 9*60*60, offset)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Zero(t, cfg.App.RequestTimeout())
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 20, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus_Mons")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "UTC")
		t.Setenv("REDIS_DB", "zero")
		_, err := Load()
		assert.Error(t, err)
	})
}
