package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is the in-process response store: a mutex-guarded map with lazy
// expiry on read. Values are opaque byte payloads (decoded JSON bodies).
type Memory struct {
	mu    sync.RWMutex
	store map[string]entry

	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemory() *Memory {
	return &Memory{store: make(map[string]entry)}
}

// Get returns the value only while it is fresh. An expired entry is purged
// and reported as a miss.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.store[key]
	m.mu.RUnlock()

	if !ok {
		m.misses.Add(1)
		return nil, false
	}

	if !time.Now().Before(e.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry in the meantime.
		if cur, still := m.store[key]; still && !time.Now().Before(cur.expiresAt) {
			delete(m.store, key)
		}
		m.mu.Unlock()
		m.misses.Add(1)
		return nil, false
	}

	m.hits.Add(1)
	out := make([]byte, len(e.data))
	copy(out, e.data)
	return out, true
}

// Set stores value until now+ttl, overwriting any existing entry.
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	data := make([]byte, len(value))
	copy(data, value)

	m.mu.Lock()
	m.store[key] = entry{data: data, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

// Delete removes one key. Deleting a missing key is a no-op.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.store, key)
	m.mu.Unlock()
}

// DeletePrefix removes every entry whose key starts with prefix and returns
// how many were dropped.
func (m *Memory) DeletePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k := range m.store {
		if strings.HasPrefix(k, prefix) {
			delete(m.store, k)
			removed++
		}
	}
	return removed
}

// Flush drops everything.
func (m *Memory) Flush() {
	m.mu.Lock()
	m.store = make(map[string]entry)
	m.mu.Unlock()
}

// Len counts live (non-expired) entries.
func (m *Memory) Len() int {
	now := time.Now()
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, e := range m.store {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

func (m *Memory) counters() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
