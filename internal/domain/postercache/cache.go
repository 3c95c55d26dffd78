// Package postercache defines the interface for caching resolved poster URLs.
//
// Poster URLs for a fixed catalog are stable for the life of the process, so
// a bounded in-memory cache keeps repeat queries from re-hitting TMDB.
package postercache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/reelrank/reelrank/pkg/metrics"
)

// Cache stores movie id -> poster URL mappings.
type Cache interface {
	// Get returns the cached poster URL for id, if present.
	Get(ctx context.Context, id int64) (string, bool)

	// Put records the poster URL for id, evicting an older entry when the
	// cache is bounded and full.
	Put(ctx context.Context, id int64, url string)

	Size() int64
}

// node represents a single entry in the eviction list.
type node struct {
	id   int64
	url  string
	next *node
}

// reset clears the node state for reuse.
func (n *node) reset() {
	n.id = 0
	n.url = ""
	n.next = nil
}

// inMemoryCache implements Cache using a map plus a linked list with LIFO
// eviction for bounded mode. Unbounded mode (maxSize <= 0) uses the map only.
type inMemoryCache struct {
	mu       sync.RWMutex
	entries  map[int64]*node
	head     *node // most recently added
	maxSize  int   // 0 or negative = unbounded
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryCache creates a new in-memory poster cache with configuration options.
func NewInMemoryCache(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 10000, // default max size
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	c.entries = make(map[int64]*node)

	if c.maxSize > 0 {
		c.nodePool = sync.Pool{
			New: func() interface{} {
				return &node{}
			},
		}
	}

	return c
}

// Get returns the cached poster URL for id, if present.
func (c *inMemoryCache) Get(ctx context.Context, id int64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.entries[id]
	if !ok {
		metrics.RecordPosterCacheMiss()
		return "", false
	}
	metrics.RecordPosterCacheHit()
	return n.url, true
}

// Put records the poster URL for id.
func (c *inMemoryCache) Put(ctx context.Context, id int64, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[id]; ok {
		// Refresh in place; the id keeps its position in the eviction list.
		existing.url = url
		return
	}

	if c.maxSize > 0 {
		if len(c.entries) >= c.maxSize {
			c.evictLIFO()
		}

		n := c.nodePool.Get().(*node)
		n.id = id
		n.url = url
		n.next = c.head

		c.head = n
		c.entries[id] = n
	} else {
		c.entries[id] = &node{id: id, url: url}
	}
	c.size.Add(1)
	metrics.UpdatePosterCacheSize(c.size.Load())
}

// evictLIFO removes the least recently added entry (tail of list).
// Must be called with c.mu.Lock() held.
func (c *inMemoryCache) evictLIFO() {
	if len(c.entries) == 0 || c.head == nil {
		return
	}

	current := c.head
	if current.next == nil {
		delete(c.entries, current.id)
		current.reset()
		c.nodePool.Put(current)
		c.head = nil
		c.size.Add(-1)
		return
	}

	// Walk to the second-to-last node.
	var prev *node
	for current.next != nil {
		prev = current
		current = current.next
	}

	if prev != nil {
		prev.next = nil
		delete(c.entries, current.id)
		current.reset()
		c.nodePool.Put(current)
		c.size.Add(-1)
	}
}

// Size returns the current number of entries in the cache.
func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
