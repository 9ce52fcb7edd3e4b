package mathsnap

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultCache(t *testing.T) {
	cache := NewResultCache(DefaultResultCacheConfig())

	assert.NotNil(t, cache)
	assert.Equal(t, 5*time.Minute, cache.config.TTL)
	assert.Equal(t, 1000, cache.config.MaxEntries)
	assert.Equal(t, 1<<20, cache.config.MaxResultSize)
}

func TestNewResultCache_ZeroConfig(t *testing.T) {
	cache := NewResultCache(ResultCacheConfig{})

	assert.Equal(t, DefaultCacheTTL, cache.config.TTL)
	assert.Equal(t, DefaultCacheMaxEntries, cache.config.MaxEntries)
}

func TestResultCache_GetSet(t *testing.T) {
	cache := NewResultCache(DefaultResultCacheConfig())

	_, found := cache.Get("k1")
	assert.False(t, found)

	cache.Set("k1", "<math/>")
	html, found := cache.Get("k1")
	assert.True(t, found)
	assert.Equal(t, "<math/>", html)

	stats := cache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.EntryCount)
	assert.InDelta(t, 0.5, cache.HitRate(), 0.001)
}

func TestResultCache_Expiration(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config := DefaultResultCacheConfig()
	config.TTL = time.Minute
	cache := NewResultCache(config)
	cache.now = func() time.Time { return now }

	cache.Set("k", "v")
	_, found := cache.Get("k")
	assert.True(t, found)

	now = now.Add(2 * time.Minute)
	_, found = cache.Get("k")
	assert.False(t, found)
	assert.Equal(t, 0, cache.Stats().EntryCount)
}

func TestResultCache_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	config := DefaultResultCacheConfig()
	config.TTL = time.Minute
	cache := NewResultCache(config)
	cache.now = func() time.Time { return now }

	cache.Set("old1", "a")
	cache.Set("old2", "b")
	now = now.Add(30 * time.Second)
	cache.Set("fresh", "c")
	now = now.Add(45 * time.Second)

	assert.Equal(t, 2, cache.Cleanup())
	_, found := cache.Get("fresh")
	assert.True(t, found)
}

func TestResultCache_LRUEviction(t *testing.T) {
	config := DefaultResultCacheConfig()
	config.MaxEntries = 2
	cache := NewResultCache(config)

	cache.Set("a", "1")
	cache.Set("b", "2")
	_, _ = cache.Get("a") // a is now most recently used
	cache.Set("c", "3")

	_, foundA := cache.Get("a")
	_, foundB := cache.Get("b")
	_, foundC := cache.Get("c")
	assert.True(t, foundA)
	assert.False(t, foundB)
	assert.True(t, foundC)
	assert.Equal(t, int64(1), cache.Stats().Evictions)
}

func TestResultCache_MaxResultSize(t *testing.T) {
	config := DefaultResultCacheConfig()
	config.MaxResultSize = 4
	cache := NewResultCache(config)

	cache.Set("big", "12345")
	_, found := cache.Get("big")
	assert.False(t, found)
}

func TestResultCache_InvalidateClear(t *testing.T) {
	cache := NewResultCache(DefaultResultCacheConfig())
	cache.Set("a", "1")
	cache.Set("b", "2")

	cache.Invalidate("a")
	_, found := cache.Get("a")
	assert.False(t, found)

	cache.Clear()
	_, found = cache.Get("b")
	assert.False(t, found)
	assert.Zero(t, cache.Stats().TotalSize)
}

func TestRequestKey(t *testing.T) {
	base := RenderRequest{Source: "x^2"}

	assert.Equal(t, RequestKey(base), RequestKey(RenderRequest{Source: "x^2", OnError: func(error) {}}))
	assert.NotEqual(t, RequestKey(base), RequestKey(RenderRequest{Source: "x^3"}))
	assert.NotEqual(t, RequestKey(base), RequestKey(RenderRequest{Source: "x^2", DisplayMode: true}))
	assert.NotEqual(t, RequestKey(base), RequestKey(RenderRequest{Source: "x^2", Options: &EngineOptions{Trust: Ptr(true)}}))
	assert.Len(t, RequestKey(base), 32)
}

func TestCachedRenderer(t *testing.T) {
	var calls atomic.Int32
	ts := TypesetterFunc(func(source string, opts TypesetOptions) (string, error) {
		calls.Add(1)
		return echoTypesetter()(source, opts)
	})
	cr := NewCachedRenderer(newTestRenderer(t, ts), DefaultResultCacheConfig())

	t.Run("caches successes", func(t *testing.T) {
		first := cr.Render(RenderRequest{Source: "a+b"})
		second := cr.Render(RenderRequest{Source: "a+b"})

		require.True(t, first.OK())
		assert.Equal(t, first, second)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("never caches failures", func(t *testing.T) {
		calls.Store(0)
		var onError int
		req := RenderRequest{Source: `\bad`, OnError: func(error) { onError++ }}

		cr.Render(req)
		cr.Render(req)

		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, 2, onError)
	})

	t.Run("invalidate", func(t *testing.T) {
		cr.InvalidateCache()
		assert.Zero(t, cr.CacheStats().EntryCount)
		assert.NotNil(t, cr.Renderer())
		assert.True(t, cr.IsValid("z"))
	})
}
