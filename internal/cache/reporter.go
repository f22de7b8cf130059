package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Reportable 是可以被定期汇报的统计来源
type Reportable interface {
	Report(logger *slog.Logger)
}

// Reporter 定期输出统计信息，只读取和清零计数器，不会阻塞调用方
type Reporter struct {
	interval time.Duration
	logger   *slog.Logger
	sources  []Reportable

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewReporter(interval time.Duration, logger *slog.Logger, sources ...Reportable) *Reporter {
	return &Reporter{
		interval: interval,
		logger:   logger,
		sources:  sources,
	}
}

// Run 阻塞直到 ctx 被取消
func (r *Reporter) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ReportOnce()
		}
	}
}

func (r *Reporter) ReportOnce() {
	for _, source := range r.sources {
		source.Report(r.logger)
	}
}

// Start 在后台运行 Run，需要配合 Stop 使用
func (r *Reporter) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		r.Run(ctx)
	}()
}

// Stop 停止后台任务并等待其退出
func (r *Reporter) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
