package cache

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ResponseCache memoizes successful GET payloads keyed by a caller-supplied
// string. Reads and writes hit the in-memory store; the optional mirror is
// consulted on memory misses and written through on sets. Mirror failures
// are logged and swallowed: losing durability must never fail a request.
type ResponseCache struct {
	mem        *Memory
	mirror     Mirror
	defaultTTL time.Duration
}

type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

type Options struct {
	// Mirror is optional; nil disables durability.
	Mirror Mirror
	// DefaultTTL applies when Set is called with ttl <= 0.
	DefaultTTL time.Duration
}

func New(opts Options) *ResponseCache {
	ttl := opts.DefaultTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ResponseCache{
		mem:        NewMemory(),
		mirror:     opts.Mirror,
		defaultTTL: ttl,
	}
}

// Get returns the cached payload for key, consulting the mirror on a
// memory miss and re-seeding memory with the remaining window on a hit.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	if v, ok := c.mem.Get(key); ok {
		return v, true
	}
	if c.mirror == nil {
		return nil, false
	}

	v, expiresAt, err := c.mirror.Get(key)
	if err != nil {
		if err != ErrNotFound && err != ErrExpired {
			logrus.Debugf("[CACHE] mirror read failed for %s: %v", key, err)
		}
		return nil, false
	}
	if remaining := time.Until(expiresAt); remaining > 0 {
		c.mem.Set(key, v, remaining)
		return v, true
	}
	return nil, false
}

// Set stores value for key with the given ttl (defaultTTL when ttl <= 0).
func (c *ResponseCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	c.mem.Set(key, value, ttl)
	if c.mirror != nil {
		if err := c.mirror.Put(key, value, ttl); err != nil {
			logrus.Debugf("[CACHE] mirror write failed for %s: %v", key, err)
		}
	}
}

// Invalidate removes one entry. Idempotent.
func (c *ResponseCache) Invalidate(key string) {
	c.mem.Delete(key)
	if c.mirror != nil {
		if err := c.mirror.Delete(key); err != nil {
			logrus.Debugf("[CACHE] mirror delete failed for %s: %v", key, err)
		}
	}
}

// InvalidatePrefix removes every entry whose key starts with prefix.
func (c *ResponseCache) InvalidatePrefix(prefix string) {
	c.mem.DeletePrefix(prefix)
	if c.mirror != nil {
		if err := c.mirror.DeletePrefix(prefix); err != nil {
			logrus.Debugf("[CACHE] mirror prefix delete failed for %s: %v", prefix, err)
		}
	}
}

// Flush drops the whole in-memory store (mirror entries age out on their
// own TTLs).
func (c *ResponseCache) Flush() {
	c.mem.Flush()
}

func (c *ResponseCache) Stats() Stats {
	hits, misses := c.mem.counters()
	return Stats{Entries: c.mem.Len(), Hits: hits, Misses: misses}
}

// Close releases the mirror, if any.
func (c *ResponseCache) Close() error {
	if c.mirror != nil {
		return c.mirror.Close()
	}
	return nil
}
