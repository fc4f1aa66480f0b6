package ingestion

import "sync"

// Cache memoizes parse results keyed by (path, content fingerprint).
// A lookup with a different fingerprint than the stored one misses, so
// repeated interactions within a session skip re-parsing while an edited
// file is picked up on the next refresh. All data inside a hit is shared
// read-only; entries are only ever replaced whole.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
}

type cacheEntry[T any] struct {
	fingerprint string
	value       T
}

// NewCache creates an empty cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{entries: make(map[string]cacheEntry[T])}
}

// Get returns the memoized value for path if its fingerprint still matches.
func (c *Cache[T]) Get(path, fingerprint string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[path]
	if !ok || e.fingerprint != fingerprint {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Put stores a parse result for path under the given fingerprint,
// replacing any previous entry.
func (c *Cache[T]) Put(path, fingerprint string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = cacheEntry[T]{fingerprint: fingerprint, value: value}
}

// Invalidate drops the entry for path, if any.
func (c *Cache[T]) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}
