package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCacheExpiresEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "recipes:oats", []byte("hit"), time.Minute))
	require.NoError(t, c.Set(ctx, "forever", []byte("x"), 0))

	value, ok, err := c.Get(ctx, "recipes:oats")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("hit"), value)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "recipes:oats")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, _ = c.Get(ctx, "forever")
	require.True(t, ok)
}

func TestMemoryCacheInvalidateAndCopy(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	original := []byte("abc")
	require.NoError(t, c.Set(ctx, "k", original, time.Hour))
	original[0] = 'z'

	value, ok, _ := c.Get(ctx, "k")
	require.True(t, ok)
	require.Equal(t, []byte("abc"), value, "stored value is isolated from caller mutation")

	require.NoError(t, c.Invalidate(ctx, "k"))
	_, ok, _ = c.Get(ctx, "k")
	require.False(t, ok)
}
