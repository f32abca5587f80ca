package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingredient-safety/internal/infrastructure/config"
)

func newTestStore(t *testing.T, maxSize int, ttl time.Duration) (*MemoryStore, *time.Time) {
	t.Helper()
	m := NewMemoryStore(config.CacheConfig{MaxSize: maxSize, TTL: ttl})
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	t.Cleanup(func() { _ = m.Close() })
	return m, &clock
}

func TestMemoryStore_SetGet(t *testing.T) {
	m, _ := newTestStore(t, 10, time.Hour)
	ctx := context.Background()

	_, ok := m.Get(ctx, "ewg:water")
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "ewg:water", `{"score":"1"}`))
	val, ok := m.Get(ctx, "ewg:water")
	assert.True(t, ok)
	assert.Equal(t, `{"score":"1"}`, val)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestMemoryStore_Expiry(t *testing.T) {
	m, clock := newTestStore(t, 10, time.Minute)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v"))
	*clock = clock.Add(2 * time.Minute)

	_, ok := m.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, int64(1), m.Stats()["evictions"])
}

func TestMemoryStore_EvictsLeastUsed(t *testing.T) {
	m, clock := newTestStore(t, 2, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	*clock = clock.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, _ = m.Get(ctx, "a")

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, okA := m.Get(ctx, "a")
	_, okB := m.Get(ctx, "b")
	_, okC := m.Get(ctx, "c")
	assert.True(t, okA)
	assert.False(t, okB)
	assert.True(t, okC)
}

func TestMemoryStore_OverwriteDoesNotEvict(t *testing.T) {
	m, _ := newTestStore(t, 1, time.Hour)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "a", "2"))

	val, ok := m.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "2", val)
	assert.Equal(t, int64(0), m.Stats()["evictions"])
}

func TestNew_Disabled(t *testing.T) {
	store, err := New(&config.Config{Cache: config.CacheConfig{Enabled: false}})
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestNew_Memory(t *testing.T) {
	store, err := New(&config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 5, TTL: time.Minute, CleanupInterval: time.Minute}})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
