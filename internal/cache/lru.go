package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache is a bounded least-recently-used cache for pipeline results,
// keyed by frame fingerprint.
//
// Get promotes the entry to most-recently-used; Set evicts the
// least-recently-accessed entry when the cache is at capacity. Eviction
// order is access order, not insertion order. The cache is safe for
// concurrent use, though the detection loop only ever has one writer.
//
// The cached value must never hold the only reference to a frame buffer:
// callers that cache geometry or verdicts re-derive any pixel data from the
// current frame on a hit.
type ResultCache[V any] struct {
	entries *lru.Cache[string, V]
}

// NewResultCache creates a ResultCache holding at most capacity entries.
// Capacity must be positive.
func NewResultCache[V any](capacity int) (*ResultCache[V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	entries, err := lru.New[string, V](capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &ResultCache[V]{entries: entries}, nil
}

// Get returns the value for key and marks it most-recently-used.
func (c *ResultCache[V]) Get(key string) (V, bool) {
	return c.entries.Get(key)
}

// Set stores a value under key, evicting the least-recently-used entry if
// the cache is full.
func (c *ResultCache[V]) Set(key string, value V) {
	c.entries.Add(key, value)
}

// Len returns the number of cached entries.
func (c *ResultCache[V]) Len() int {
	return c.entries.Len()
}

// Purge drops every entry.
func (c *ResultCache[V]) Purge() {
	c.entries.Purge()
}
