package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySetGetRoundTrip(t *testing.T) {
	m := NewMemory()
	m.Set("connections.list", []byte(`[{"id":"c1"}]`), time.Minute)

	got, ok := m.Get("connections.list")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"c1"}]`, string(got))

	// Callers get a copy, not the stored slice.
	got[0] = 'X'
	again, ok := m.Get("connections.list")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"c1"}]`, string(again))
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	m.Set("k", []byte("v"), 30*time.Millisecond)

	_, ok := m.Get("k")
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len(), "expired entry is purged lazily on read")
}

func TestMemoryNonPositiveTTLSkipsStore(t *testing.T) {
	m := NewMemory()
	m.Set("k", []byte("v"), -time.Second)
	_, ok := m.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryDeletePrefix(t *testing.T) {
	m := NewMemory()
	m.Set("profiling.table.users", []byte("a"), time.Minute)
	m.Set("profiling.table.orders", []byte("b"), time.Minute)
	m.Set("schema.tables", []byte("c"), time.Minute)

	removed := m.DeletePrefix("profiling.")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, m.Len())

	_, ok := m.Get("schema.tables")
	assert.True(t, ok)
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	m := NewMemory()
	m.Set("k", []byte("v"), time.Minute)
	m.Delete("k")
	m.Delete("k")
	_, ok := m.Get("k")
	assert.False(t, ok)
}
