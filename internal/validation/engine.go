package validation

import (
	"log/slog"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/stats"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

// Engine 按固定顺序组合校验规则，不构建模型
type Engine struct {
	shifts    *workshift.Service
	logger    *slog.Logger
	collector *stats.Collector

	weeklyRules   []Rule
	employeeRules []Rule
	scopeRules    []Rule
}

type Option func(*Engine)

// WithTiming 记录每条规则的耗时
func WithTiming(collector *stats.Collector) Option {
	return func(e *Engine) {
		e.collector = collector
	}
}

func NewEngine(shifts *workshift.Service, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		shifts: shifts,
		logger: logger,
	}

	e.weeklyRules = []Rule{
		TotalShiftsPerWeek{shifts: shifts},
		MaxShiftByTypePerWeek{shifts: shifts},
	}
	e.employeeRules = append(slices.Clone(e.weeklyRules),
		MaxCarsPerShift{shifts: shifts, action: domain.ActionMorning},
		MaxCarsPerShift{shifts: shifts, action: domain.ActionAfternoon},
	)
	e.scopeRules = []Rule{
		MinShifts{shifts: shifts},
	}

	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) check(t Target, rules []Rule) ([]string, error) {
	violations := []string{}
	for _, rule := range rules {
		errorsOf := rule.Errors
		if e.collector != nil {
			errorsOf = stats.Timed(e.collector, e.logger, "validation."+rule.Name(), errorsOf)
		}

		messages, err := errorsOf(t)
		if err != nil {
			return nil, err
		}
		violations = append(violations, messages...)
	}

	e.logger.Debug("校验完成",
		"date", e.shifts.Calendar().Format(t.Date),
		"employee", t.EmployeeID,
		"scope", t.Scope.Kind,
		"scope_id", t.Scope.ID,
		"violations", violations,
	)
	return violations, nil
}

// EmployeeErrors 校验员工在 date 所在周的配额以及当天的车辆数
func (e *Engine) EmployeeErrors(l *domain.Ledger, employeeID int64, date time.Time) ([]string, error) {
	return e.check(Target{Ledger: l, Date: date, EmployeeID: employeeID}, e.employeeRules)
}

func (e *Engine) GroupErrors(l *domain.Ledger, groupID int64, date time.Time) ([]string, error) {
	scope, err := workshift.GroupScope(l, groupID)
	if err != nil {
		return nil, err
	}
	return e.check(Target{Ledger: l, Date: date, Scope: scope}, e.scopeRules)
}

func (e *Engine) SubgroupErrors(l *domain.Ledger, subgroupID int64, date time.Time) ([]string, error) {
	scope, err := workshift.SubgroupScope(l, subgroupID)
	if err != nil {
		return nil, err
	}
	return e.check(Target{Ledger: l, Date: date, Scope: scope}, e.scopeRules)
}

func (e *Engine) CarsErrors(l *domain.Ledger, date time.Time, action domain.Action) ([]string, error) {
	return e.check(Target{Ledger: l, Date: date}, []Rule{MaxCarsPerShift{shifts: e.shifts, action: action}})
}
