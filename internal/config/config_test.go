package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, "cart.json", cfg.File)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.OrderedWrites)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CART_BACKEND", " Redis ")
	t.Setenv("CART_REDIS_ADDR", "cache:6380")
	t.Setenv("CART_REDIS_DB", "2")
	t.Setenv("CART_ORDERED_WRITES", "true")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.True(t, cfg.OrderedWrites)
}

func TestBadValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("CART_BACKEND", "floppy")
		_, err := Parse()
		assert.ErrorContains(t, err, "unknown backend")
	})
	t.Run("db", func(t *testing.T) {
		t.Setenv("CART_REDIS_DB", "x")
		_, err := Parse()
		assert.ErrorContains(t, err, "parse env")
	})
}
