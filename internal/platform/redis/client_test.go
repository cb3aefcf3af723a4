package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nyaya/internal/platform/config"
)

func TestOptions(t *testing.T) {
	t.Run("overrides only what is set", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:         "redis://cache.internal:6380/2",
			PoolSize:    32,
			DialTimeout: 3 * time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 32, opts.PoolSize)
		assert.Equal(t, 3*time.Second, opts.DialTimeout)
		assert.Zero(t, opts.MinIdleConns)
		assert.Equal(t, "nyaya", opts.ClientName)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://not-redis"})
		assert.Error(t, err)
	})
}

func TestNewWithoutURLDisablesCache(t *testing.T) {
	c, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, c)
}
