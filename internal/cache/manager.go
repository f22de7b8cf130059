package cache

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

type observable interface {
	Config() Config
	Stats() Stats
	ResetStats()
}

// Manager 按名字持有进程内共享的缓存，首次使用时创建
type Manager struct {
	mu       sync.Mutex
	defaults Config
	opts     []Option
	caches   map[string]observable
}

func NewManager(defaults Config, opts ...Option) *Manager {
	return &Manager{
		defaults: defaults,
		opts:     opts,
		caches:   make(map[string]observable),
	}
}

// Named 返回名为 name 的缓存。同名缓存必须始终使用相同的值类型
func Named[V any](m *Manager, name string) *Cache[string, V] {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, exists := m.caches[name]; exists {
		c, ok := existing.(*Cache[string, V])
		if !ok {
			panic(fmt.Sprintf("缓存 %s 已以其他类型创建", name))
		}
		return c
	}

	c := New[string, V](m.defaults, m.opts...)
	m.caches[name] = c
	return c
}

func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.caches))
	for name := range m.caches {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Report 输出每个缓存的统计信息并清零计数器
func (m *Manager) Report(logger *slog.Logger) {
	for _, name := range m.Names() {
		m.mu.Lock()
		c := m.caches[name]
		m.mu.Unlock()

		stats := c.Stats()
		logger.Info("缓存统计",
			"cache", name,
			"hits", stats.Hits,
			"miss", stats.Misses,
			"evict", stats.Evictions,
			"size", stats.Size,
			"config", c.Config().String(),
		)
		c.ResetStats()
	}
}
