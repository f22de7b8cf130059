package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

// Assignment 是求解器返回的一个变量取值
type Assignment struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type change struct {
	employeeID int64
	date       time.Time
	action     domain.Action
}

// Applier 把求解结果写回排班表
type Applier struct {
	shifts *workshift.Service
	logger *slog.Logger
}

func NewApplier(shifts *workshift.Service, logger *slog.Logger) *Applier {
	return &Applier{
		shifts: shifts,
		logger: logger,
	}
}

// Apply 先完整校验求解结果，全部通过后才写入排班表，返回被修改的班次数
func (a *Applier) Apply(l *domain.Ledger, assignments []Assignment) (int, error) {
	values := make(map[string]float64, len(assignments))
	for _, assignment := range assignments {
		if _, exists := values[assignment.Name]; exists {
			return 0, fmt.Errorf("%w: 变量 %s 重复出现", domain.ErrSolverContract, assignment.Name)
		}
		values[assignment.Name] = assignment.Value
	}

	employees, err := l.SortedEmployeeIDs()
	if err != nil {
		return 0, err
	}

	cal := a.shifts.Calendar()
	changes := []change{}

	for _, date := range a.shifts.VisibleRange(l.Date) {
		for _, employeeID := range employees {
			current, err := a.shifts.Action(l, employeeID, date)
			if err != nil {
				return 0, err
			}

			selected := domain.ActionIdle
			ones := 0

			for _, action := range domain.Actions() {
				name := VariableName(cal, employeeID, date, action)
				value, ok := values[name]
				if !ok {
					a.logger.Warn("求解结果中缺少变量，按 0 处理", "variable", name)
				}

				switch value {
				case 0:
				case 1:
					ones++
					selected = action
				default:
					return 0, fmt.Errorf("%w: 变量 %s 的取值 %g 不是 0 或 1", domain.ErrSolverContract, name, value)
				}

				// 取值必须落在构建模型时给出的范围内，已固定的动作不能被改写
				bounds := variableBounds[current][action]
				if value < float64(bounds[0]) || value > float64(bounds[1]) {
					return 0, fmt.Errorf("%w: 变量 %s 的取值 %g 超出范围 [%d, %d]",
						domain.ErrSolverContract, name, value, bounds[0], bounds[1])
				}
			}

			if ones > 1 {
				return 0, fmt.Errorf("%w: 员工 %d 在 %s 被分配了 %d 个动作",
					domain.ErrSolverContract, employeeID, cal.Format(date), ones)
			}

			if current != selected {
				changes = append(changes, change{employeeID: employeeID, date: date, action: selected})
			}
		}
	}

	registry := a.shifts.Registry()
	for _, c := range changes {
		l.SetShift(c.employeeID, c.date, registry.LabelFor(c.action))
	}

	a.logger.Info("求解结果已写入排班表", "date", cal.Format(l.Date), "changed", len(changes))

	return len(changes), nil
}
