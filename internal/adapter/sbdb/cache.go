package sbdb

import (
	"context"
	"sync"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
	"github.com/tanya221998/NASA-CEOS/internal/observability"
)

// CachedProvider wraps a MOIDProvider with an in-memory LRU cache keyed by
// designation. Objects appear on multiple rows when they approach more than
// once in a window; the cache keeps SBDB traffic at one lookup per object.
type CachedProvider struct {
	inner   domain.MOIDProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a MOID provider.
func NewCachedProvider(inner domain.MOIDProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) LookupMOID(ctx context.Context, designation string) (*float64, error) {
	if moid, ok := c.cache.get(designation); ok {
		c.metrics.MOIDCache.WithLabelValues("hit").Inc()
		return moid, nil
	}
	c.metrics.MOIDCache.WithLabelValues("miss").Inc()

	moid, err := c.inner.LookupMOID(ctx, designation)
	if err != nil {
		return nil, err
	}
	// A successful nil result is cached too: "no published MOID" is a
	// property of the object, not a transient condition.
	c.cache.put(designation, moid)
	return moid, nil
}

// lruCache is a small thread-safe LRU for MOID values.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value *float64
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
