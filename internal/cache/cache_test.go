package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)}
}

func TestEvictsOldestInsertedFirst(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](Config{MaxSize: 2, TTL: time.Minute}, WithClock(clock.Now))

	c.Put("A", 1)
	clock.Advance(time.Millisecond)
	c.Put("B", 2)
	clock.Advance(time.Millisecond)
	c.Put("C", 3)

	_, ok := c.Get("A")
	assert.False(t, ok)

	value, ok := c.Get("B")
	assert.True(t, ok)
	assert.Equal(t, 2, value)

	value, ok = c.Get("C")
	assert.True(t, ok)
	assert.Equal(t, 3, value)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Hits)
	assert.Equal(t, 1, stats.Misses)
	assert.Equal(t, 1, stats.Evictions)
	assert.Equal(t, 2, stats.Size)
}

func TestEvictionDoesNotDependOnReads(t *testing.T) {
	c := New[string, int](Config{MaxSize: 2})

	c.Put("A", 1)
	c.Put("B", 2)
	// 读取不会改变淘汰顺序
	_, _ = c.Get("A")
	c.Put("C", 3)

	_, ok := c.Get("A")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestRePutRefreshesInsertionOrder(t *testing.T) {
	c := New[string, int](Config{MaxSize: 2})

	c.Put("A", 1)
	c.Put("B", 2)
	c.Put("A", 10)
	c.Put("C", 3)

	_, ok := c.Get("B")
	assert.False(t, ok)

	value, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, 10, value)
}

func TestExpiresLazilyOnRead(t *testing.T) {
	clock := newFakeClock()
	c := New[string, int](Config{MaxSize: 10, TTL: 500 * time.Millisecond}, WithClock(clock.Now))

	c.Put("A", 1)
	clock.Advance(500 * time.Millisecond)
	_, ok := c.Get("A")
	assert.True(t, ok, "刚好等于 TTL 时仍然有效")

	// 过期的条目在读取前仍然占用空间
	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, c.Len())

	_, ok = c.Get("A")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 1, c.Stats().Evictions)
}

func TestEvictAndResetStats(t *testing.T) {
	c := New[string, int](Config{})

	c.Put("A", 1)
	c.Put("B", 2)
	c.Evict("A")
	c.Evict("missing")

	_, ok := c.Get("A")
	assert.False(t, ok)

	c.ResetStats()
	assert.Equal(t, Stats{Size: 1}, c.Stats())
	assert.Equal(t, "HITS: 0 MISS: 0 EVICT: 0 SIZE: 1", c.Stats().String())
}

func TestMemoize(t *testing.T) {
	c := New[string, int](Config{MaxSize: 10})
	calls := 0
	failing := true

	fn := Memoize(c, func(n int) string { return string(rune('a' + n)) }, func(n int) (int, error) {
		calls++
		if n < 0 && failing {
			return 0, errors.New("negative")
		}
		return n * n, nil
	})

	value, err := fn(3)
	require.NoError(t, err)
	assert.Equal(t, 9, value)

	value, err = fn(3)
	require.NoError(t, err)
	assert.Equal(t, 9, value)
	assert.Equal(t, 1, calls)

	_, err = fn(-1)
	assert.Error(t, err)
	_, err = fn(-1)
	assert.Error(t, err)
	assert.Equal(t, 3, calls, "错误结果不应被缓存")
}
