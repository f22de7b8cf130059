package scheduler

import (
	"log/slog"
	"slices"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

// 当前动作固定了四个变量的取值范围：IDLE 可以被改为早班、午班或保持空闲，
// 其他动作保持不变
var variableBounds = map[domain.Action]map[domain.Action][2]int{
	domain.ActionIdle: {
		domain.ActionMorning:   {0, 1},
		domain.ActionAfternoon: {0, 1},
		domain.ActionAway:      {0, 0},
		domain.ActionIdle:      {0, 1},
	},
	domain.ActionMorning: {
		domain.ActionMorning:   {1, 1},
		domain.ActionAfternoon: {0, 0},
		domain.ActionAway:      {0, 0},
		domain.ActionIdle:      {0, 0},
	},
	domain.ActionAfternoon: {
		domain.ActionMorning:   {0, 0},
		domain.ActionAfternoon: {1, 1},
		domain.ActionAway:      {0, 0},
		domain.ActionIdle:      {0, 0},
	},
	domain.ActionAway: {
		domain.ActionMorning:   {0, 0},
		domain.ActionAfternoon: {0, 0},
		domain.ActionAway:      {1, 1},
		domain.ActionIdle:      {0, 0},
	},
}

type Builder struct {
	shifts          *workshift.Service
	objectiveWeight float64
	logger          *slog.Logger
}

type BuilderOption func(*Builder)

// WithObjectiveWeight 设置目标函数中每一项的权重，正数表示尽量多排班
func WithObjectiveWeight(weight float64) BuilderOption {
	return func(b *Builder) {
		b.objectiveWeight = weight
	}
}

func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

func NewBuilder(shifts *workshift.Service, opts ...BuilderOption) *Builder {
	b := &Builder{
		shifts:          shifts,
		objectiveWeight: 1,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// build 保存一次构建过程中的中间状态
type build struct {
	*Builder
	ledger    *domain.Ledger
	model     *Model
	dates     []time.Time
	employees []int64
}

// Build 从排班表的当前状态生成线性模型，不修改排班表
func (b *Builder) Build(l *domain.Ledger) (*Model, error) {
	employees, err := l.SortedEmployeeIDs()
	if err != nil {
		return nil, err
	}

	s := &build{
		Builder:   b,
		ledger:    l,
		model:     NewModel(),
		dates:     b.shifts.VisibleRange(l.Date),
		employees: employees,
	}

	steps := []func() error{
		s.addDailyVariables,
		s.addWeeklyConstraints,
		s.addGroupConstraints,
		s.addSubgroupConstraints,
		s.addCarsConstraints,
		s.addObjective,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	cal := b.shifts.Calendar()
	b.logger.Info("模型构建完成",
		"date", cal.Format(l.Date),
		"employees", len(employees),
		"dates", len(s.dates),
		"variables", len(s.model.Variables()),
		"constraints", len(s.model.Constraints()),
	)
	for _, c := range s.model.Constraints() {
		b.logger.Debug(c.String())
	}

	return s.model, nil
}

func (s *build) addDailyVariables() error {
	cal := s.shifts.Calendar()

	for _, date := range s.dates {
		for _, employeeID := range s.employees {
			current, err := s.shifts.Action(s.ledger, employeeID, date)
			if err != nil {
				return err
			}

			daily, err := s.model.AddConstraint(oneActionPerDayName(cal, employeeID, date), 0, 1)
			if err != nil {
				return err
			}

			for _, action := range domain.Actions() {
				bounds := variableBounds[current][action]
				name := VariableName(cal, employeeID, date, action)
				if _, err := s.model.AddVariable(name, bounds[0], bounds[1]); err != nil {
					return err
				}
				if err := daily.AddCoefficient(name, 1); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (s *build) addWeeklyConstraints() error {
	cal := s.shifts.Calendar()

	for _, week := range cal.Weeks(s.dates) {
		weekStart := week[0]

		for _, employeeID := range s.employees {
			total, err := s.shifts.ExpectedTotalShifts(s.ledger, employeeID, weekStart)
			if err != nil {
				return err
			}
			mornings, err := s.shifts.ExpectedMornings(s.ledger, employeeID, weekStart)
			if err != nil {
				return err
			}
			afternoons, err := s.shifts.ExpectedAfternoons(s.ledger, employeeID)
			if err != nil {
				return err
			}

			weekly := []struct {
				name    string
				max     int
				actions []domain.Action
			}{
				{weeklyTotalName(cal, employeeID, weekStart), total, domain.WorkingActions()},
				{weeklyMorningsName(cal, employeeID, weekStart), mornings, []domain.Action{domain.ActionMorning}},
				{weeklyAfternoonsName(cal, employeeID, weekStart), afternoons, []domain.Action{domain.ActionAfternoon}},
			}

			for _, w := range weekly {
				c, err := s.model.AddConstraint(w.name, 0, max(w.max, 0))
				if err != nil {
					return err
				}
				for _, date := range week {
					for _, action := range w.actions {
						if err := c.AddCoefficient(VariableName(cal, employeeID, date, action), 1); err != nil {
							return err
						}
					}
				}
			}
		}
	}

	return nil
}

func (s *build) addGroupConstraints() error {
	ids := sortedIDs(s.ledger.Groups)

	scopes := make([]workshift.Scope, 0, len(ids))
	for _, id := range ids {
		scope, err := workshift.GroupScope(s.ledger, id)
		if err != nil {
			return err
		}
		scopes = append(scopes, scope)
	}
	return s.addHeadcountConstraints(scopes)
}

func (s *build) addSubgroupConstraints() error {
	ids := sortedIDs(s.ledger.Subgroups)

	scopes := make([]workshift.Scope, 0, len(ids))
	for _, id := range ids {
		scope, err := workshift.SubgroupScope(s.ledger, id)
		if err != nil {
			return err
		}
		scopes = append(scopes, scope)
	}
	return s.addHeadcountConstraints(scopes)
}

// addHeadcountConstraints 对每个范围、每天、每个工作动作要求人数不少于配置的最小值
func (s *build) addHeadcountConstraints(scopes []workshift.Scope) error {
	cal := s.shifts.Calendar()

	members := make([][]int64, len(scopes))
	for i, scope := range scopes {
		m, err := s.shifts.MembersOf(s.ledger, scope.Member)
		if err != nil {
			return err
		}
		members[i] = m
	}

	for _, date := range s.dates {
		for i, scope := range scopes {
			for _, action := range domain.WorkingActions() {
				minimum := scope.Constraints.MinOrZero(date.Weekday(), action)
				// 没有上限，用成员数表示
				c, err := s.model.AddConstraint(
					headcountName(cal, scope.Kind, scope.ID, date, action),
					minimum,
					max(len(members[i]), minimum),
				)
				if err != nil {
					return err
				}
				for _, employeeID := range members[i] {
					if err := c.AddCoefficient(VariableName(cal, employeeID, date, action), 1); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func (s *build) addCarsConstraints() error {
	cal := s.shifts.Calendar()

	for _, date := range s.dates {
		for _, action := range domain.WorkingActions() {
			c, err := s.model.AddConstraint(carsName(cal, date, action), 0, s.ledger.AvailableCars.Total)
			if err != nil {
				return err
			}
			for _, employeeID := range s.employees {
				if err := c.AddCoefficient(VariableName(cal, employeeID, date, action), 1); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func (s *build) addObjective() error {
	cal := s.shifts.Calendar()

	for _, date := range s.dates {
		for _, employeeID := range s.employees {
			for _, action := range domain.WorkingActions() {
				if err := s.model.AddObjective(VariableName(cal, employeeID, date, action), s.objectiveWeight); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
