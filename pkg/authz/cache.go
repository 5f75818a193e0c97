package authz

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fieldport/authzkit/pkg/membership"
)

// DefaultCacheTTL bounds how stale a cached resolution may be when a
// mutation bypasses the invalidating write path.
const DefaultCacheTTL = 5 * time.Minute

// DefaultCacheSize caps the in-memory cache before LRU eviction kicks in.
const DefaultCacheSize = 10000

// Cache stores resolutions keyed by (principal, tenant). Implementations
// must be safe for concurrent use; two racing misses writing the same
// freshly-resolved value is benign (last writer wins with the same value).
type Cache interface {
	// Get returns the cached resolution if present and fresh.
	Get(ctx context.Context, key Key) (Resolution, bool)

	// Set stores a resolution under the cache's TTL.
	Set(ctx context.Context, key Key, res Resolution)

	// Delete drops a single entry. Called synchronously from membership
	// mutation hooks.
	Delete(ctx context.Context, key Key)

	// Clear drops every entry. Operational escape hatch for mutations
	// that bypassed the invalidating write path.
	Clear(ctx context.Context)

	// Close releases background resources.
	Close() error
}

// memoryCache is the default single-process cache. Freshness is enforced
// lazily on read: an expired entry is a miss and is evicted in place, so
// correctness never depends on the background sweep. The sweep only
// reclaims memory for keys that are never read again.
type memoryCache struct {
	mu      sync.Mutex
	entries map[Key]cacheEntry
	lru     []Key
	maxSize int
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	done    chan struct{}
	closed  bool
}

type cacheEntry struct {
	res      Resolution
	storedAt time.Time
}

// CacheOption configures the in-memory cache.
type CacheOption func(*memoryCache)

// WithCacheTTL overrides the default 5 minute TTL.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *memoryCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheSize overrides the default entry cap.
func WithCacheSize(size int) CacheOption {
	return func(c *memoryCache) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithCacheClock overrides the cache's time source for tests.
func WithCacheClock(now func() time.Time) CacheOption {
	return func(c *memoryCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewMemoryCache creates the cache and starts its best-effort sweep
// goroutine. Callers own the lifecycle: construct explicitly, inject where
// needed, Close on teardown. There is deliberately no package-level
// instance - tests get isolated caches.
func NewMemoryCache(opts ...CacheOption) Cache {
	c := &memoryCache{
		entries: make(map[Key]cacheEntry),
		maxSize: DefaultCacheSize,
		ttl:     DefaultCacheTTL,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweep()

	return c
}

// Get implements Cache with lazy expiry.
func (c *memoryCache) Get(ctx context.Context, key Key) (Resolution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return Resolution{}, false
	}
	if c.now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, key)
		c.removeLRU(key)
		return Resolution{}, false
	}

	c.touchLRU(key)
	return entry.res, true
}

// Set implements Cache.
func (c *memoryCache) Set(ctx context.Context, key Key, res Resolution) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			c.lru = c.lru[1:]
			delete(c.entries, evict)
		}
	}

	c.entries[key] = cacheEntry{res: res, storedAt: c.now()}
	c.touchLRU(key)
}

// Delete implements Cache.
func (c *memoryCache) Delete(ctx context.Context, key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	c.removeLRU(key)
}

// Clear implements Cache.
func (c *memoryCache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[Key]cacheEntry)
	c.lru = c.lru[:0]
}

// Close stops the sweep goroutine.
func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

// sweep periodically evicts expired entries. Purely a memory reclaim;
// Get's lazy expiry is what guarantees freshness.
func (c *memoryCache) sweep() {
	defer close(c.done)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.evictExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) >= c.ttl {
			delete(c.entries, key)
			c.removeLRU(key)
		}
	}
}

func (c *memoryCache) touchLRU(key Key) {
	c.removeLRU(key)
	c.lru = append(c.lru, key)
}

func (c *memoryCache) removeLRU(key Key) {
	for i, k := range c.lru {
		if k == key {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

// noopCache disables caching: every Get is a miss.
type noopCache struct{}

// NewNoopCache returns a cache that never stores anything, forcing every
// resolution through the store. Useful in tests and for deployments that
// cannot tolerate any staleness.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Get(ctx context.Context, key Key) (Resolution, bool) { return Resolution{}, false }
func (noopCache) Set(ctx context.Context, key Key, res Resolution)    {}
func (noopCache) Delete(ctx context.Context, key Key)                 {}
func (noopCache) Clear(ctx context.Context)                           {}
func (noopCache) Close() error                                        { return nil }

// NewInvalidationHook adapts a Cache into the membership store's mutation
// hook. A membership mutation drops both the explicit pair entry and the
// principal's selection-keyed entry (which may have resolved to the same
// tenant); a selection change (zero tenant) drops only the latter.
func NewInvalidationHook(cache Cache) membership.InvalidationHook {
	return func(ctx context.Context, principalID, tenantID uuid.UUID) {
		if tenantID != uuid.Nil {
			cache.Delete(ctx, Key{PrincipalID: principalID, TenantID: tenantID})
		}
		cache.Delete(ctx, Key{PrincipalID: principalID})
	}
}
