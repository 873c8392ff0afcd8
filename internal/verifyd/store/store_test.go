package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formfill/internal/verifyd/store"
)

func TestSaveAndFind(t *testing.T) {
	cache := store.NewMemoryCache(5 * time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "person:12345678901", map[string]string{"firstname": "John"}))

	data, err := cache.Find(ctx, "person:12345678901")
	require.NoError(t, err)
	assert.Equal(t, "John", data["firstname"])
}

func TestFindMissingKey(t *testing.T) {
	cache := store.NewMemoryCache(5 * time.Minute)

	_, err := cache.Find(context.Background(), "person:00000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntriesExpireAfterTTL(t *testing.T) {
	now := time.Now()
	cache := store.NewMemoryCache(5*time.Minute, store.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "k", map[string]string{"a": "1"}))

	now = now.Add(4 * time.Minute)
	_, err := cache.Find(ctx, "k")
	assert.NoError(t, err, "entry is still fresh")

	now = now.Add(2 * time.Minute)
	_, err = cache.Find(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound, "entry past TTL behaves as absent")
}

func TestReturnedMapIsACopy(t *testing.T) {
	cache := store.NewMemoryCache(5 * time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Save(ctx, "k", map[string]string{"a": "1"}))

	first, err := cache.Find(ctx, "k")
	require.NoError(t, err)
	first["a"] = "mutated"

	second, err := cache.Find(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", second["a"])
}
