package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/config"
)

func TestLoginThrottle_DisabledWithoutRedis(t *testing.T) {
	throttle := NewLoginThrottle(nil, 3, time.Minute)
	ctx := context.Background()

	require.NoError(t, throttle.RecordFailure(ctx, "alice"))
	locked, err := throttle.Locked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, locked)
	assert.NoError(t, throttle.Reset(ctx, "alice"))
}

// Requires a live server: TEST_REDIS_ADDR=127.0.0.1:6379 go test ./internal/persistence/...
func TestLoginThrottle_Redis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r := NewRedis(ctx, config.RedisConfig{Addr: addr}, zap.NewNop())
	t.Cleanup(r.Close)
	require.NoError(t, r.Ping(ctx))

	subject := "throttle-" + uuid.NewString()
	throttle := NewLoginThrottle(r, 2, time.Minute)
	t.Cleanup(func() { _ = throttle.Reset(ctx, subject) })

	require.NoError(t, throttle.RecordFailure(ctx, subject))
	locked, err := throttle.Locked(ctx, subject)
	require.NoError(t, err)
	assert.False(t, locked)

	require.NoError(t, throttle.RecordFailure(ctx, subject))
	locked, err = throttle.Locked(ctx, subject)
	require.NoError(t, err)
	assert.True(t, locked)

	ttl, err := r.Client.TTL(ctx, loginFailurePrefix+subject).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, throttle.Reset(ctx, subject))
	locked, err = throttle.Locked(ctx, subject)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_orders.sql", "0001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(dir+"/"+name, []byte("SELECT 1;"), 0o644))
	}
	require.NoError(t, os.Mkdir(dir+"/archive.sql", 0o755))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_orders.sql"}, files)

	_, err = migrationFiles(dir + "/missing")
	assert.Error(t, err)
}

func TestRedisPingWithoutClient(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
}
