// Package cache provides a bounded in-memory cache for computed visibility
// responses. The engine is deterministic — identical inputs produce
// bit-identical intervals — so a request digest is a sound cache key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/M-AKIMOTOO/uptimeplot/internal/metrics"
)

// entry wraps a cached payload with its insertion time for eviction.
type entry struct {
	payload  []byte
	storedAt time.Time
}

// ResultCache is a bounded map from request digest to a marshaled response.
// Safe for concurrent use. A max size of 0 disables caching entirely.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	max     int

	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a ResultCache holding at most max entries.
func New(max int) *ResultCache {
	return &ResultCache{
		entries: make(map[string]*entry),
		max:     max,
	}
}

// Digest returns the cache key for a canonical request representation.
func Digest(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for the digest, if present.
func (c *ResultCache) Get(digest string) ([]byte, bool) {
	if c.max <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[digest]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		metrics.RecordCacheMiss()
		return nil, false
	}
	c.hits.Add(1)
	metrics.RecordCacheHit()
	return e.payload, true
}

// Put stores a payload under the digest, evicting the oldest entry when the
// cache is full. The payload must not be mutated by the caller afterwards.
func (c *ResultCache) Put(digest string, payload []byte) {
	if c.max <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[digest]; !ok && len(c.entries) >= c.max {
		c.evictOldestLocked()
	}
	c.entries[digest] = &entry{payload: payload, storedAt: time.Now()}
}

// evictOldestLocked removes the entry with the earliest insertion time.
// Called with c.mu held. The cache is small (config default 128), so a
// linear scan beats maintaining an ordering structure.
func (c *ResultCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Stats reports hit/miss counters and the current entry count.
func (c *ResultCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	size = len(c.entries)
	c.mu.RUnlock()
	return c.hits.Load(), c.misses.Load(), size
}
