package api

import (
	"sync"

	"github.com/medmatch/medmatch/internal/matching"
)

// RunCache is a thread-safe LRU cache for recently ranked or loaded runs.
type RunCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]*matching.Run
	order   []string // oldest first
}

// NewRunCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 128.
func NewRunCache(maxSize int) *RunCache {
	if maxSize <= 0 {
		maxSize = 128
	}
	return &RunCache{
		maxSize: maxSize,
		entries: make(map[string]*matching.Run),
	}
}

// Get retrieves a run from the cache, or nil if not found.
func (c *RunCache) Get(id string) *matching.Run {
	c.mu.Lock()
	defer c.mu.Unlock()

	run, ok := c.entries[id]
	if !ok {
		return nil
	}

	// Move to end (most recently used)
	c.moveToEnd(id)
	return run
}

// Put adds a run to the cache, evicting the oldest if full.
func (c *RunCache) Put(id string, run *matching.Run) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; ok {
		c.entries[id] = run
		c.moveToEnd(id)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[id] = run
	c.order = append(c.order, id)
}

// Len returns the number of cached runs.
func (c *RunCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *RunCache) moveToEnd(id string) {
	for i, k := range c.order {
		if k == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, id)
			return
		}
	}
}
