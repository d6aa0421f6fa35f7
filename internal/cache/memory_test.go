package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticker-kit/risk-api/internal/common"
)

func newTestMemoryStore(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore(common.NewSilentLogger())
	t.Cleanup(func() { store.Close() })
	return store
}

func TestMemoryStoreSetGet(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", 0))

	value, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v1", value)
}

func TestMemoryStoreMiss(t *testing.T) {
	store := newTestMemoryStore(t)

	_, ok, err := store.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "old", 0))
	require.NoError(t, store.Set(ctx, "k1", "new", 0))

	value, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", 0))
	require.NoError(t, store.Delete(ctx, "k1"))

	_, ok, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is not an error.
	require.NoError(t, store.Delete(ctx, "k1"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", "v", 10*time.Millisecond))
	require.NoError(t, store.Set(ctx, "long", "v", time.Hour))

	time.Sleep(25 * time.Millisecond)

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok, "expired entry must read as a miss")

	_, ok, err = store.Get(ctx, "long")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreConcurrent(t *testing.T) {
	store := newTestMemoryStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i)
			_ = store.Set(ctx, key, "v", time.Minute)
			_, _, _ = store.Get(ctx, key)
			if i%2 == 0 {
				_ = store.Delete(ctx, key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 25, store.Len())
}
