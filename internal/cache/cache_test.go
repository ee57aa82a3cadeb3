package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestMemoryCache() (*MemoryCache, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewMemoryCache(0)
	c.now = clock.now
	return c, clock
}

func TestMemoryCache_SetGet(t *testing.T) {
	c, _ := newTestMemoryCache()

	c.Set("k", []byte("v"), time.Minute)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryCache_ExpiresAtFreshnessWindow(t *testing.T) {
	c, clock := newTestMemoryCache()
	c.Set("k", []byte("v"), 5*time.Minute)

	clock.advance(5*time.Minute - time.Second)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should be served inside its window")

	clock.advance(time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry must not be served once its window has elapsed")
}

func TestMemoryCache_NonPositiveTTLIsNotStored(t *testing.T) {
	c, _ := newTestMemoryCache()
	c.Set("k", []byte("v"), 0)
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, int64(0), c.Stats().Sets)
}

func TestMemoryCache_DeleteAndClear(t *testing.T) {
	c, _ := newTestMemoryCache()
	c.Set("a", []byte("1"), time.Minute)
	c.Set("b", []byte("2"), time.Minute)

	c.Delete("a")
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Clear()
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().CurrentSize)
}

func TestMemoryCache_DeleteExpired(t *testing.T) {
	c, clock := newTestMemoryCache()
	c.Set("short", []byte("1"), time.Second)
	c.Set("long", []byte("2"), time.Hour)

	clock.advance(time.Minute)
	assert.Equal(t, 1, c.DeleteExpired())
	assert.Equal(t, int64(1), c.Stats().Evictions)
	assert.Equal(t, 1, c.Stats().CurrentSize)
}

func TestMemoryCache_JanitorStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := NewMemoryCache(time.Millisecond)
	c.Set("k", []byte("v"), time.Nanosecond)

	assert.Eventually(t, func() bool {
		return c.Stats().CurrentSize == 0
	}, time.Second, 5*time.Millisecond)

	c.Stop()
	c.Stop()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "feed:KR:date:30", Key("feed", "KR", "date", "30"))
}
