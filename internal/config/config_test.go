package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, 5*time.Second, cfg.PersistenceTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, map[string]bool{"GET": true}, cfg.Cache.Methods)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PAYMENT_PUBLIC_KEY", "pk_test_1")
	t.Setenv("PAYMENT_SECRET_KEY", "sk_test_1")
	t.Setenv("DATASTORE_URL", "sqlite://:memory:")
	t.Setenv("DATASTORE_KEY", "pw")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "1m")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "pk_test_1", cfg.PaymentPublicKey)
	assert.Equal(t, "pw", cfg.DatastoreKey)
	assert.Equal(t, 3*time.Second, cfg.PaymentTimeout)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Cache.Methods)
	assert.Equal(t, 4, cfg.RateLimit.Capacity)
	assert.Equal(t, 1, cfg.RateLimit.RefillTokens)
	assert.Equal(t, time.Minute, cfg.RateLimit.RefillInterval)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.TTL)
	assert.Equal(t, "cache:6380", cfg.Redis.Address())
}

func TestLoad_BadValue(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestValidate_ReportsEveryMissingKey(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	cfg.AdminEmail = "ops@raveworks.example"

	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissing)
	for _, key := range []string{"PAYMENT_PUBLIC_KEY", "PAYMENT_SECRET_KEY", "DATASTORE_URL", "JWT_SECRET", "ADMIN_PASSWORD_HASH"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	client := NewRedisClient(RedisConfig{Addr: addr})
	require.NotNil(t, client)
	_ = client.Close()

	mr.Close()
	assert.Nil(t, NewRedisClient(RedisConfig{Addr: addr}))
}
