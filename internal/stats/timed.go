package stats

import (
	"log/slog"
	"time"
)

// Timed 记录 fn 每次成功调用的耗时，失败的调用只记录日志
func Timed[A any, V any](c *Collector, logger *slog.Logger, name string, fn func(A) (V, error)) func(A) (V, error) {
	return func(arg A) (V, error) {
		start := time.Now()
		value, err := fn(arg)
		duration := time.Since(start)

		if err != nil {
			logger.Error("调用失败", "name", name, "duration", duration, "error", err)
			return value, err
		}

		c.Add(name, duration)
		return value, nil
	}
}
