package planner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/solver"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var cal = calendar.New(time.UTC)

func march(d int) time.Time {
	return cal.Date(2024, time.March, d)
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSolver 为每个变量返回 picks 中的值，缺省为 0
type fakeSolver struct {
	picks   map[string]float64
	err     error
	release chan struct{}
	model   *scheduler.Model
}

func (s *fakeSolver) SolveAsync(ctx context.Context, m *scheduler.Model) *solver.Future[[]scheduler.Assignment] {
	s.model = m
	return solver.Async(func() ([]scheduler.Assignment, error) {
		if s.release != nil {
			<-s.release
		}
		if s.err != nil {
			return nil, s.err
		}
		assignments := []scheduler.Assignment{}
		for _, name := range m.VariableNames() {
			assignments = append(assignments, scheduler.Assignment{Name: name, Value: s.picks[name]})
		}
		return assignments, nil
	})
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []domain.EventMessage
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, msg domain.EventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
	return p.err
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := []string{}
	for _, msg := range p.messages {
		types = append(types, msg.Type)
	}
	return types
}

func newPlanner(s Solver, publisher *fakePublisher) *Planner {
	shifts := workshift.NewService(cal, domain.NewActionRegistry())
	return New(
		scheduler.NewBuilder(shifts, scheduler.WithLogger(slogDiscard())),
		scheduler.NewApplier(shifts, slogDiscard()),
		s,
		publisher,
		slogDiscard(),
	)
}

func newLedger() *domain.Ledger {
	l := domain.NewLedger(march(1))
	l.AvailableCars = domain.AvailableCars{Total: 1}
	l.AddEmployee(&domain.Employee{ID: 1, Name: "陈静", TotWeekShifts: 5, MaxWeekMornings: 3, MaxWeekAfternoons: 3})
	return l
}

func TestOptimizeAppliesSolution(t *testing.T) {
	l := newLedger()
	l.SetShift(1, march(4), "F")

	s := &fakeSolver{picks: map[string]float64{
		"1_2024-03-04_MONDAY_AWAY":     1,
		"1_2024-03-05_TUESDAY_MORNING": 1,
		"1_2024-03-06_WEDNESDAY_IDLE":  1,
	}}
	publisher := &fakePublisher{}

	outcome, err := newPlanner(s, publisher).Optimize(context.Background(), l)
	require.NoError(t, err)

	assert.Same(t, l, outcome.Ledger)
	assert.Equal(t, 1, outcome.Changed)
	assert.Equal(t, len(s.model.Variables()), outcome.Variables)
	assert.Equal(t, "M", l.Shift(1, march(5), "---"))
	assert.Equal(t, "F", l.Shift(1, march(4), "---"))
	assert.Equal(t, []string{domain.EventOptimizationCompleted}, publisher.types())
}

func TestOptimizeAsyncBuildsFromSnapshot(t *testing.T) {
	l := newLedger()
	s := &fakeSolver{release: make(chan struct{}), picks: map[string]float64{}}

	future, err := newPlanner(s, &fakePublisher{}).OptimizeAsync(context.Background(), l)
	require.NoError(t, err)

	v, ok := s.model.Variable("1_2024-03-04_MONDAY_MORNING")
	require.True(t, ok)
	assert.Equal(t, 1, v.Max)

	select {
	case <-future.Done():
		t.Fatal("优化不应在求解完成前结束")
	default:
	}

	close(s.release)
	outcome, err := future.Wait(context.Background())
	require.NoError(t, err)
	assert.Zero(t, outcome.Changed)
}

func TestOptimizePropagatesSolverFailure(t *testing.T) {
	l := newLedger()
	l.SetShift(1, march(4), "M")
	revision := l.Revision()
	publisher := &fakePublisher{}

	_, err := newPlanner(&fakeSolver{err: solver.ErrUnavailable}, publisher).Optimize(context.Background(), l)
	assert.True(t, errors.Is(err, solver.ErrUnavailable))
	assert.Equal(t, revision, l.Revision())
	assert.Equal(t, []string{domain.EventOptimizationFailed}, publisher.types())
}

func TestOptimizeRejectsContractViolation(t *testing.T) {
	l := newLedger()
	s := &fakeSolver{picks: map[string]float64{
		"1_2024-03-05_TUESDAY_MORNING":   1,
		"1_2024-03-05_TUESDAY_AFTERNOON": 1,
	}}

	_, err := newPlanner(s, &fakePublisher{}).Optimize(context.Background(), l)
	assert.True(t, errors.Is(err, domain.ErrSolverContract))
	assert.Empty(t, l.Shifts())
}

func TestOptimizeBuildErrorIsImmediate(t *testing.T) {
	l := newLedger()
	l.SetShift(1, march(4), "???")
	s := &fakeSolver{}

	_, err := newPlanner(s, &fakePublisher{}).OptimizeAsync(context.Background(), l)
	assert.True(t, errors.Is(err, domain.ErrUnknownLabel))
	assert.Nil(t, s.model)
}

func TestOptimizeIgnoresPublishFailure(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("队列不可用")}

	outcome, err := newPlanner(&fakeSolver{}, publisher).Optimize(context.Background(), newLedger())
	require.NoError(t, err)
	assert.Zero(t, outcome.Changed)
}
