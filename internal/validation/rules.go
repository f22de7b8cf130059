package validation

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

// Target 是一次校验的对象，规则只读取自己需要的字段
type Target struct {
	Ledger     *domain.Ledger
	Date       time.Time
	EmployeeID int64
	Scope      workshift.Scope
}

// Rule 返回违规描述，空列表表示符合规则。
// 违规不是错误，只有查找失败等情况才返回 error
type Rule interface {
	Name() string
	Errors(t Target) ([]string, error)
}

func actionName(action domain.Action) string {
	switch action {
	case domain.ActionMorning:
		return "早班"
	case domain.ActionAfternoon:
		return "午班"
	case domain.ActionAway:
		return "外出"
	default:
		return "空闲"
	}
}

// TotalShiftsPerWeek 要求一周内的班次数（早班、午班、外出）恰好等于调整后的配额
type TotalShiftsPerWeek struct {
	shifts *workshift.Service
}

func (r TotalShiftsPerWeek) Name() string {
	return "TotalShiftsPerWeek"
}

func (r TotalShiftsPerWeek) Errors(t Target) ([]string, error) {
	e, err := t.Ledger.Employee(t.EmployeeID)
	if err != nil {
		return nil, err
	}

	week := r.shifts.Calendar().Week(t.Date)
	actual, err := r.shifts.CountAssigned(t.Ledger, t.EmployeeID, week)
	if err != nil {
		return nil, err
	}
	expected, err := r.shifts.ExpectedTotalShifts(t.Ledger, t.EmployeeID, t.Date)
	if err != nil {
		return nil, err
	}

	if actual != expected {
		return []string{fmt.Sprintf("%s 本周应工作 %d 个班次，实际 %d 个", e.Name, expected, actual)}, nil
	}
	return []string{}, nil
}

// MaxShiftByTypePerWeek 限制一周内的早班数和午班数
type MaxShiftByTypePerWeek struct {
	shifts *workshift.Service
}

func (r MaxShiftByTypePerWeek) Name() string {
	return "MaxShiftByTypePerWeek"
}

func (r MaxShiftByTypePerWeek) Errors(t Target) ([]string, error) {
	e, err := t.Ledger.Employee(t.EmployeeID)
	if err != nil {
		return nil, err
	}

	week := r.shifts.Calendar().Week(t.Date)
	employees := []int64{t.EmployeeID}

	expectedMornings, err := r.shifts.ExpectedMornings(t.Ledger, t.EmployeeID, t.Date)
	if err != nil {
		return nil, err
	}
	actualMornings, err := r.shifts.Count(t.Ledger, employees, week, domain.ActionMorning)
	if err != nil {
		return nil, err
	}

	expectedAfternoons, err := r.shifts.ExpectedAfternoons(t.Ledger, t.EmployeeID)
	if err != nil {
		return nil, err
	}
	actualAfternoons, err := r.shifts.Count(t.Ledger, employees, week, domain.ActionAfternoon)
	if err != nil {
		return nil, err
	}

	violations := []string{}
	if actualMornings > expectedMornings {
		violations = append(violations, fmt.Sprintf("%s 本周最多 %d 个早班，实际 %d 个", e.Name, expectedMornings, actualMornings))
	}
	if actualAfternoons > expectedAfternoons {
		violations = append(violations, fmt.Sprintf("%s 本周最多 %d 个午班，实际 %d 个", e.Name, expectedAfternoons, actualAfternoons))
	}
	return violations, nil
}

// MaxCarsPerShift 限制某天某个动作使用的车辆数，统计所有员工
type MaxCarsPerShift struct {
	shifts *workshift.Service
	action domain.Action
}

func (r MaxCarsPerShift) Name() string {
	return "MaxCarsPerShift"
}

func (r MaxCarsPerShift) Errors(t Target) ([]string, error) {
	employees, err := t.Ledger.SortedEmployeeIDs()
	if err != nil {
		return nil, err
	}

	actual, err := r.shifts.Count(t.Ledger, employees, []time.Time{t.Date}, r.action)
	if err != nil {
		return nil, err
	}

	expected := t.Ledger.AvailableCars.Total
	if actual > expected {
		return []string{fmt.Sprintf("%s可用车辆 %d 辆，已分配 %d 辆", actionName(r.action), expected, actual)}, nil
	}
	return []string{}, nil
}

// MinShifts 要求范围内的成员每天的早班和午班人数不少于配置的最小值
type MinShifts struct {
	shifts *workshift.Service
}

func (r MinShifts) Name() string {
	return "MinShifts"
}

func (r MinShifts) Errors(t Target) ([]string, error) {
	members, err := r.shifts.MembersOf(t.Ledger, t.Scope.Member)
	if err != nil {
		return nil, err
	}

	kind := "组"
	if t.Scope.Kind == workshift.ScopeSubgroup {
		kind = "子组"
	}

	violations := []string{}
	for _, action := range domain.WorkingActions() {
		expected := t.Scope.Constraints.MinOrZero(t.Date.Weekday(), action)
		actual, err := r.shifts.Count(t.Ledger, members, []time.Time{t.Date}, action)
		if err != nil {
			return nil, err
		}
		if actual < expected {
			violations = append(violations, fmt.Sprintf("%s %s 的%s至少需要 %d 人，实际 %d 人",
				kind, t.Scope.Name, actionName(action), expected, actual))
		}
	}
	return violations, nil
}
