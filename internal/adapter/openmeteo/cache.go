package openmeteo

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/matsuesunset/sunset-service/internal/domain"
	"github.com/matsuesunset/sunset-service/internal/observability"
)

// CachedSource wraps an HourlySource with an in-memory LRU cache whose
// entries expire after ttl.
type CachedSource struct {
	inner   domain.HourlySource
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedSource creates a cache decorator around an hourly source.
func NewCachedSource(inner domain.HourlySource, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedSource {
	return &CachedSource{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl, clock),
		metrics: metrics,
	}
}

// Hourly returns the cached series for date, fetching on a miss. Errors and
// empty series are not cached so the next request retries upstream.
func (c *CachedSource) Hourly(ctx context.Context, date time.Time) (domain.HourlySeries, error) {
	key := date.Format(time.DateOnly)
	if series, ok := c.cache.get(key); ok {
		c.metrics.ForecastCache.WithLabelValues("hit").Inc()
		return series, nil
	}
	c.metrics.ForecastCache.WithLabelValues("miss").Inc()

	series, err := c.inner.Hourly(ctx, date)
	if err != nil {
		return series, err
	}
	if len(series.Times) > 0 {
		c.cache.put(key, series)
	}
	return series, nil
}

// lruCache is a thread-safe LRU cache of hourly series with per-entry expiry.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     domain.HourlySeries
	expiresAt time.Time
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.HourlySeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.HourlySeries{}, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return domain.HourlySeries{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.HourlySeries) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
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
