package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	filename := filepath.Join(t.TempDir(), "cache.json")

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewFileCache(filename)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), time.Hour))
	require.NoError(t, c.Set(ctx, "a", []byte("3"), time.Minute))

	value, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("3"), value)

	now = now.Add(2 * time.Minute)
	_, ok, err = c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	removed, err := c.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, removed)

	data, err := LoadEntries(filename)
	require.NoError(t, err)
	require.Len(t, data.Entries, 1)
	assert.Equal(t, "b", data.Entries[0].Key)
}

func TestLoadEntriesEmptyFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(filename, nil, 0644))

	data, err := LoadEntries(filename)
	require.NoError(t, err)
	assert.Empty(t, data.Entries)
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	c := NewRedisCache(client)

	require.NoError(t, c.Set(ctx, "test", []byte("value"), time.Minute))
	value, ok, err := c.Get(ctx, "test")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), value)

	_, ok, err = c.Get(ctx, "never-set")
	require.NoError(t, err)
	assert.False(t, ok)
}
