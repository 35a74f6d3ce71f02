package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

		value, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("v"), value)
	})

	t.Run("miss", func(t *testing.T) {
		c := NewMemoryCache()

		_, found, err := c.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), -time.Second))

		_, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		c := NewMemoryCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		require.NoError(t, c.Delete(ctx, "k"))

		_, found, _ := c.Get(ctx, "k")
		assert.False(t, found)

		assert.NoError(t, c.Delete(ctx, "k"))
	})
}
