package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

type Config struct {
	MaxSize int           // <= 0 表示不限制
	TTL     time.Duration // <= 0 表示永不过期
}

func (c Config) String() string {
	return fmt.Sprintf("maxSize: %d ttl: %s", c.MaxSize, c.TTL)
}

// Stats 仅用于观测，不影响缓存行为
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
	Size      int
}

func (s Stats) String() string {
	return fmt.Sprintf("HITS: %d MISS: %d EVICT: %d SIZE: %d", s.Hits, s.Misses, s.Evictions, s.Size)
}

type entry[K comparable, V any] struct {
	value    V
	inserted time.Time
	elem     *list.Element
}

// Cache 是带 TTL 和容量上限的缓存。
// 过期只在读取时检查；超出容量时按插入顺序从最早的开始淘汰。
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	config  Config
	now     func() time.Time
	entries map[K]*entry[K, V]
	order   *list.List // 按插入顺序保存 key，最早的在前
	stats   Stats
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock 替换缓存使用的时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func New[K comparable, V any](config Config, opts ...Option) *Cache[K, V] {
	o := &options{now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	return &Cache[K, V]{
		config:  config,
		now:     o.now,
		entries: make(map[K]*entry[K, V]),
		order:   list.New(),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if ok && c.config.TTL > 0 && c.now().Sub(e.inserted) > c.config.TTL {
		c.evict(key)
		ok = false
	}

	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.stats.Hits++
	return e.value, true
}

// Put 写入一个值，重复写入同一个 key 会刷新它的插入时间
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, exists := c.entries[key]; exists {
		c.order.Remove(e.elem)
	}

	c.entries[key] = &entry[K, V]{
		value:    value,
		inserted: c.now(),
		elem:     c.order.PushBack(key),
	}

	if c.config.MaxSize > 0 {
		for len(c.entries) > c.config.MaxSize {
			oldest := c.order.Front()
			c.evict(oldest.Value.(K))
		}
	}

	c.stats.Size = len(c.entries)
}

func (c *Cache[K, V]) Evict(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.evict(key)
	}
}

func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache[K, V]) Config() Config {
	return c.config
}

func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetStats 清零计数器，Size 保持为当前的实际大小
func (c *Cache[K, V]) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = Stats{Size: len(c.entries)}
}

// 调用方需要持有锁
func (c *Cache[K, V]) evict(key K) {
	e := c.entries[key]
	c.order.Remove(e.elem)
	delete(c.entries, key)
	c.stats.Evictions++
	c.stats.Size = len(c.entries)
}
