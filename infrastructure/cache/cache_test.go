package cache

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCacheDefaultTTL(t *testing.T) {
	c := New(Options{DefaultTTL: 40 * time.Millisecond})
	c.Set("k", []byte("v"), 0)

	_, ok := c.Get("k")
	assert.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestResponseCacheInvalidate(t *testing.T) {
	c := New(Options{DefaultTTL: time.Minute})
	c.Set("connections.get.c1", []byte("{}"), 0)

	c.Invalidate("connections.get.c1")
	_, ok := c.Get("connections.get.c1")
	assert.False(t, ok)

	// Invalidating a missing key is a no-op.
	c.Invalidate("connections.get.c1")
	c.Invalidate("never.existed")
}

func TestResponseCacheStats(t *testing.T) {
	c := New(Options{DefaultTTL: time.Minute})
	c.Set("a", []byte("1"), 0)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	assert.Equal(t, 1, s.Entries)
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
}

func TestResponseCacheBoltMirrorSurvivesMemoryLoss(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")
	mirror, err := OpenBolt(path)
	require.NoError(t, err)

	c := New(Options{Mirror: mirror, DefaultTTL: time.Minute})
	c.Set("schema.tables", []byte(`[{"name":"users"}]`), time.Minute)

	// Simulate a fresh process: new memory tier, same mirror.
	c2 := New(Options{Mirror: mirror, DefaultTTL: time.Minute})
	got, ok := c2.Get("schema.tables")
	require.True(t, ok, "mirror should re-seed memory")
	assert.JSONEq(t, `[{"name":"users"}]`, string(got))

	require.NoError(t, c2.Close())
}

func TestResponseCacheMirrorExpiry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")
	mirror, err := OpenBolt(path)
	require.NoError(t, err)
	defer mirror.Close()

	require.NoError(t, mirror.Put("k", []byte("v"), 30*time.Millisecond))

	time.Sleep(1100 * time.Millisecond)

	_, _, err = mirror.Get("k")
	assert.True(t, errors.Is(err, ErrExpired) || errors.Is(err, ErrNotFound))
}

func TestResponseCacheInvalidatePrefixReachesMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")
	mirror, err := OpenBolt(path)
	require.NoError(t, err)

	c := New(Options{Mirror: mirror, DefaultTTL: time.Minute})
	c.Set("anomaly.list.c1", []byte("[]"), time.Minute)
	c.Set("anomaly.list.c2", []byte("[]"), time.Minute)

	c.InvalidatePrefix("anomaly.")

	_, _, err = mirror.Get("anomaly.list.c1")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, c.Close())
}

type failingMirror struct{}

func (failingMirror) Get(string) ([]byte, time.Time, error) { return nil, time.Time{}, errBroken }
func (failingMirror) Put(string, []byte, time.Duration) error { return errBroken }
func (failingMirror) Delete(string) error { return errBroken }
func (failingMirror) DeletePrefix(string) error { return errBroken }
func (failingMirror) Close() error { return nil }

var errBroken = errors.New("mirror unavailable")

func TestResponseCacheMirrorFailuresAreSwallowed(t *testing.T) {
	c := New(Options{Mirror: failingMirror{}, DefaultTTL: time.Minute})

	c.Set("k", []byte("v"), 0)
	got, ok := c.Get("k")
	require.True(t, ok, "memory tier keeps working when the mirror is down")
	assert.Equal(t, "v", string(got))

	c.Invalidate("k")
	c.InvalidatePrefix("k")
}
