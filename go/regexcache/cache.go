package regexcache

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultCapacity is the number of compiled patterns kept by a cache unless configured otherwise.
const DefaultCapacity = 64

// Cache is a bounded, least-recently-used cache of compiled regular expressions keyed by their exact pattern text.
// It is safe for concurrent use.
type Cache struct {
	name string

	// Protects lru, which is not safe for concurrent use by itself.
	mutex sync.Mutex
	lru   *lru.Cache

	hits          prometheus.Counter
	misses        prometheus.Counter
	evictions     prometheus.Counter
	compileErrors prometheus.Counter
}

// New returns a cache holding at most capacity compiled patterns.
// A non-positive capacity falls back to DefaultCapacity.
func New(name string, capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := getMetrics()
	c := &Cache{
		name:          name,
		lru:           lru.New(capacity),
		hits:          m.hitsTotal.WithLabelValues(name),
		misses:        m.missesTotal.WithLabelValues(name),
		evictions:     m.evictionsTotal.WithLabelValues(name),
		compileErrors: m.compileErrorsTotal.WithLabelValues(name),
	}
	c.lru.OnEvicted = func(lru.Key, any) { c.evictions.Inc() }
	return c
}

// Name returns the name this cache reports its metrics under.
func (c *Cache) Name() string { return c.name }

// Len returns the number of compiled patterns currently held.
func (c *Cache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.lru.Len()
}

// Get returns the compiled form of pattern, compiling and inserting it on a miss.
func (c *Cache) Get(pattern string) (*regexp.Regexp, error) {
	c.mutex.Lock()
	if value, ok := c.lru.Get(pattern); ok {
		c.mutex.Unlock()
		c.hits.Inc()
		return value.(*regexp.Regexp), nil
	}
	c.mutex.Unlock()
	c.misses.Inc()

	// Compile outside the lock, a concurrent miss on the same key compiles twice but both results are equivalent.
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		c.compileErrors.Inc()
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	if value, ok := c.lru.Get(pattern); ok {
		return value.(*regexp.Regexp), nil
	}
	c.lru.Add(pattern, compiled)
	return compiled, nil
}

// MustGet is like Get but panics if the pattern does not compile.
func (c *Cache) MustGet(pattern string) *regexp.Regexp {
	compiled, err := c.Get(pattern)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Clear drops every compiled pattern.
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.lru.Clear()
}
