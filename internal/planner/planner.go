package planner

import (
	"context"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/events"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/solver"
)

type Solver interface {
	SolveAsync(ctx context.Context, m *scheduler.Model) *solver.Future[[]scheduler.Assignment]
}

// Outcome 是一次优化的结果
type Outcome struct {
	Ledger      *domain.Ledger
	Changed     int
	Variables   int
	Constraints int
	Duration    time.Duration
}

type Planner struct {
	builder   *scheduler.Builder
	applier   *scheduler.Applier
	solver    Solver
	publisher events.Publisher
	logger    *slog.Logger
}

func New(builder *scheduler.Builder, applier *scheduler.Applier, s Solver, publisher events.Publisher, logger *slog.Logger) *Planner {
	return &Planner{
		builder:   builder,
		applier:   applier,
		solver:    s,
		publisher: publisher,
		logger:    logger,
	}
}

// OptimizeAsync 从排班表的快照构建模型并异步求解，结果通过校验后写回 l。
// 在 Future 完成之前调用方不能读写 l
func (p *Planner) OptimizeAsync(ctx context.Context, l *domain.Ledger) (*solver.Future[*Outcome], error) {
	start := time.Now()

	m, err := p.builder.Build(l.Clone())
	if err != nil {
		return nil, err
	}

	pending := p.solver.SolveAsync(ctx, m)
	ctx = context.WithoutCancel(ctx)

	return solver.Async(func() (*Outcome, error) {
		assignments, err := pending.Wait(ctx)
		if err != nil {
			p.failed(ctx, l, err)
			return nil, err
		}

		changed, err := p.applier.Apply(l, assignments)
		if err != nil {
			p.failed(ctx, l, err)
			return nil, err
		}

		outcome := &Outcome{
			Ledger:      l,
			Changed:     changed,
			Variables:   len(m.Variables()),
			Constraints: len(m.Constraints()),
			Duration:    time.Since(start),
		}
		p.completed(ctx, l, outcome)
		return outcome, nil
	}), nil
}

// Optimize 等待 OptimizeAsync 的结果
func (p *Planner) Optimize(ctx context.Context, l *domain.Ledger) (*Outcome, error) {
	future, err := p.OptimizeAsync(ctx, l)
	if err != nil {
		return nil, err
	}
	return future.Wait(context.WithoutCancel(ctx))
}

func (p *Planner) completed(ctx context.Context, l *domain.Ledger, outcome *Outcome) {
	p.logger.Info("优化完成",
		"ledger", l.ID(),
		"changed", outcome.Changed,
		"duration", outcome.Duration.String(),
	)

	p.publish(ctx, domain.EventMessage{
		Type: domain.EventOptimizationCompleted,
		Data: domain.OptimizationCompletedData{
			LedgerID:    l.ID(),
			Date:        l.Date.Format(time.DateOnly),
			Changed:     outcome.Changed,
			Variables:   outcome.Variables,
			Constraints: outcome.Constraints,
			Duration:    outcome.Duration.String(),
		},
	})
}

func (p *Planner) failed(ctx context.Context, l *domain.Ledger, err error) {
	p.logger.Error("优化失败", "ledger", l.ID(), "error", err)

	p.publish(ctx, domain.EventMessage{
		Type: domain.EventOptimizationFailed,
		Data: domain.OptimizationFailedData{
			LedgerID: l.ID(),
			Date:     l.Date.Format(time.DateOnly),
			Error:    err.Error(),
		},
	})
}

// 事件发送失败不影响优化结果
func (p *Planner) publish(ctx context.Context, msg domain.EventMessage) {
	if err := p.publisher.Publish(ctx, msg); err != nil {
		p.logger.Error("无法发送事件", "type", msg.Type, "error", err)
	}
}
