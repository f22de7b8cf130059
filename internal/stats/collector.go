package stats

import (
	"cmp"
	"log/slog"
	"slices"
	"sync"
	"time"
)

const (
	windowSize        = 200
	longCallThreshold = 5 * time.Millisecond
)

type entry struct {
	count     int
	longCalls int
	durations []time.Duration
}

func (e *entry) add(d time.Duration) {
	e.count++
	if d > longCallThreshold {
		e.longCalls++
	}
	if len(e.durations) >= windowSize {
		e.durations = e.durations[1:]
	}
	e.durations = append(e.durations, d)
}

func (e *entry) avg() time.Duration {
	if len(e.durations) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range e.durations {
		total += d
	}
	return total / time.Duration(len(e.durations))
}

// Summary 是某个调用名的统计快照
type Summary struct {
	Name      string
	Count     int
	LongCalls int
	Avg       time.Duration
	Weight    time.Duration // Count * Avg
}

// Collector 记录每个调用名的耗时，只保留最近的 windowSize 次
type Collector struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewCollector() *Collector {
	return &Collector{entries: make(map[string]*entry)}
}

func (c *Collector) Add(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[name]
	if !exists {
		e = &entry{}
		c.entries[name] = e
	}
	e.add(d)
}

// Summaries 按权重从高到低返回
func (c *Collector) Summaries() []Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summaries := make([]Summary, 0, len(c.entries))
	for name, e := range c.entries {
		avg := e.avg()
		summaries = append(summaries, Summary{
			Name:      name,
			Count:     e.count,
			LongCalls: e.longCalls,
			Avg:       avg,
			Weight:    avg * time.Duration(e.count),
		})
	}
	slices.SortFunc(summaries, func(a, b Summary) int {
		return cmp.Or(cmp.Compare(b.Weight, a.Weight), cmp.Compare(a.Name, b.Name))
	})
	return summaries
}

func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Report 输出所有统计并清空
func (c *Collector) Report(logger *slog.Logger) {
	summaries := c.Summaries()
	if len(summaries) == 0 {
		return
	}

	for _, s := range summaries {
		logger.Info("调用耗时统计",
			"name", s.Name,
			"count", s.Count,
			"long", s.LongCalls,
			"avg", s.Avg,
			"weight", s.Weight,
		)
	}
	c.Reset()
}
