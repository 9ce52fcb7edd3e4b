package mathsnap

import (
	"container/list"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// ResultCache caches rendered HTML keyed by request content. Entries expire
// after TTL and the least recently used entry is evicted at capacity.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
	config  ResultCacheConfig
	stats   ResultCacheStats
	now     func() time.Time
}

// resultCacheEntry holds a cached result with metadata.
type resultCacheEntry struct {
	Key       string
	HTML      string
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int
}

// ResultCacheConfig configures the result cache behavior.
type ResultCacheConfig struct {
	// TTL is how long results are cached. Default: 5 minutes.
	TTL time.Duration `yaml:"ttl"`

	// MaxEntries is the maximum number of cached results. Default: 1000.
	MaxEntries int `yaml:"max_entries"`

	// MaxResultSize is the maximum size of a result to cache (bytes). Default: 1MB.
	MaxResultSize int `yaml:"max_result_size"`
}

// ResultCacheStats tracks cache performance metrics.
type ResultCacheStats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// DefaultResultCacheConfig returns sensible defaults for result caching.
func DefaultResultCacheConfig() ResultCacheConfig {
	return ResultCacheConfig{
		TTL:           DefaultCacheTTL,
		MaxEntries:    DefaultCacheMaxEntries,
		MaxResultSize: DefaultCacheMaxResultSize,
	}
}

// NewResultCache creates a new result cache.
func NewResultCache(config ResultCacheConfig) *ResultCache {
	if config.TTL <= 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries <= 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if config.MaxResultSize <= 0 {
		config.MaxResultSize = DefaultCacheMaxResultSize
	}

	return &ResultCache{
		entries: make(map[string]*list.Element),
		lru:     list.New(),
		config:  config,
		now:     time.Now,
	}
}

// Get retrieves cached HTML if available and not expired.
func (c *ResultCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[key]
	if !exists {
		c.stats.Misses++
		return "", false
	}

	entry := elem.Value.(*resultCacheEntry)
	if c.now().After(entry.ExpiresAt) {
		c.removeElement(elem)
		c.stats.Misses++
		return "", false
	}

	entry.HitCount++
	c.stats.Hits++
	c.lru.MoveToFront(elem)
	return entry.HTML, true
}

// Set stores HTML in the cache.
func (c *ResultCache) Set(key string, html string) {
	// Don't cache results that exceed max size
	if len(html) > c.config.MaxResultSize {
		return
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		c.removeElement(elem)
	}

	for c.lru.Len() >= c.config.MaxEntries {
		c.removeElement(c.lru.Back())
		c.stats.Evictions++
	}

	entry := &resultCacheEntry{
		Key:       key,
		HTML:      html,
		CreatedAt: now,
		ExpiresAt: now.Add(c.config.TTL),
	}
	c.entries[key] = c.lru.PushFront(entry)
	c.stats.TotalSize += int64(len(html))
	c.stats.EntryCount = len(c.entries)
}

// Invalidate removes a specific cache entry.
func (c *ResultCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		c.removeElement(elem)
	}
}

// Clear removes all entries from the cache.
func (c *ResultCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.lru.Init()
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
}

// Stats returns current cache statistics.
func (c *ResultCache) Stats() ResultCacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// HitRate returns the cache hit rate (0.0 to 1.0).
func (c *ResultCache) HitRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.stats.Hits + c.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(c.stats.Hits) / float64(total)
}

// Cleanup removes expired entries. Call periodically for long-running applications.
func (c *ResultCache) Cleanup() int {
	now := c.now()
	removed := 0

	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*resultCacheEntry).ExpiresAt) {
			c.removeElement(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

// removeElement drops elem from the list and index. Caller holds c.mu.
func (c *ResultCache) removeElement(elem *list.Element) {
	entry := c.lru.Remove(elem).(*resultCacheEntry)
	delete(c.entries, entry.Key)
	c.stats.TotalSize -= int64(len(entry.HTML))
	c.stats.EntryCount = len(c.entries)
}

// requestKeyMaterial is the hashed view of a request. OnError is not part
// of the rendered output and is left out.
type requestKeyMaterial struct {
	Source      string         `json:"s"`
	DisplayMode bool           `json:"d"`
	Options     *EngineOptions `json:"o,omitempty"`
}

// RequestKey returns a stable key for the rendered output of req.
func RequestKey(req RenderRequest) string {
	material, err := json.Marshal(requestKeyMaterial{
		Source:      req.Source,
		DisplayMode: req.DisplayMode,
		Options:     req.Options,
	})
	if err != nil {
		// EngineOptions only holds plain values; fall back to the raw fields.
		material = []byte(req.Source + "\x00" + strconv.FormatBool(req.DisplayMode))
	}

	hasher := blake3.New()
	_, _ = hasher.Write(material)
	return hex.EncodeToString(hasher.Sum(nil)[:16])
}

// CachedRenderer wraps a Renderer with result caching. Only successful
// renders are cached so OnError still fires on every failing call.
type CachedRenderer struct {
	renderer *Renderer
	cache    *ResultCache
}

// NewCachedRenderer creates a renderer wrapper with result caching.
func NewCachedRenderer(r *Renderer, config ResultCacheConfig) *CachedRenderer {
	return &CachedRenderer{
		renderer: r,
		cache:    NewResultCache(config),
	}
}

// Render renders req, serving repeated successful renders from the cache.
func (cr *CachedRenderer) Render(req RenderRequest) RenderResult {
	key := RequestKey(req)
	if html, ok := cr.cache.Get(key); ok {
		return RenderResult{HTML: html}
	}

	result := cr.renderer.Render(req)
	if !result.Error.HasError {
		cr.cache.Set(key, result.HTML)
	}
	return result
}

// IsValid delegates to the underlying renderer.
func (cr *CachedRenderer) IsValid(source string) bool {
	return cr.renderer.IsValid(source)
}

// InvalidateCache clears the result cache.
func (cr *CachedRenderer) InvalidateCache() {
	cr.cache.Clear()
}

// CacheStats returns the result cache statistics.
func (cr *CachedRenderer) CacheStats() ResultCacheStats {
	return cr.cache.Stats()
}

// CacheHitRate returns the cache hit rate.
func (cr *CachedRenderer) CacheHitRate() float64 {
	return cr.cache.HitRate()
}

// Renderer returns the underlying renderer for direct access.
func (cr *CachedRenderer) Renderer() *Renderer {
	return cr.renderer
}
