package lru_test

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/spreadsent/pkg/alg/lru"
)

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	cache := lru.New[string, []string](10)

	got, found := cache.Get("fake news")
	assert.False(t, found)
	assert.Nil(t, got)

	cache.Put("fake news", []string{"fake", "news"})

	got, found = cache.Get("fake news")
	require.True(t, found)
	assert.Equal(t, []string{"fake", "news"}, got)
	assert.Equal(t, 1, cache.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	cache := lru.New[int, string](3)

	cache.Put(1, "a")
	cache.Put(2, "b")
	cache.Put(3, "c")

	_, found := cache.Get(1)
	require.True(t, found)

	cache.Put(4, "d")

	_, found = cache.Get(2)
	assert.False(t, found, "2 was least recently used")

	for _, key := range []int{1, 3, 4} {
		_, found = cache.Get(key)
		assert.True(t, found, "key %d", key)
	}

	assert.Equal(t, 3, cache.Len())
}

func TestCache_UpdateExisting(t *testing.T) {
	t.Parallel()

	cache := lru.New[int, string](2)

	cache.Put(1, "a")
	cache.Put(2, "b")
	cache.Put(1, "z")
	cache.Put(3, "c")

	got, found := cache.Get(1)
	require.True(t, found)
	assert.Equal(t, "z", got)

	_, found = cache.Get(2)
	assert.False(t, found)
}

func TestCache_Stats(t *testing.T) {
	t.Parallel()

	cache := lru.New[int, int](5)

	assert.Zero(t, cache.Stats().HitRate())

	cache.Put(1, 1)
	cache.Get(1)
	cache.Get(1)
	cache.Get(1)
	cache.Get(2)

	stats := cache.Stats()
	assert.Equal(t, lru.Stats{Hits: 3, Misses: 1, Entries: 1, MaxEntries: 5}, stats)
	assert.InDelta(t, 0.75, stats.HitRate(), 1e-9)
}

func TestCache_NonPositiveSizePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { lru.New[int, int](0) })
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	cache := lru.New[string, int](64)

	var wg sync.WaitGroup

	for g := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range 200 {
				key := strconv.Itoa((g * i) % 100)
				cache.Put(key, i)
				cache.Get(key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, cache.Len(), 64)
}
