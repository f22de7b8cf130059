package validation

import (
	"slices"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

const (
	KindEmployee = "EMPLOYEE"
	KindGroup    = workshift.ScopeGroup
	KindSubgroup = workshift.ScopeSubgroup
	KindCars     = "CARS"
)

// Violation 是报告中一个对象在某天的全部违规
type Violation struct {
	Date     string        `json:"date"`
	Kind     string        `json:"kind"`
	ID       int64         `json:"id,omitempty"`
	Action   domain.Action `json:"action,omitempty"`
	Messages []string      `json:"messages"`
}

type Report struct {
	Date       string      `json:"date"`
	Violations []Violation `json:"violations"`
}

func (r *Report) Valid() bool {
	return len(r.Violations) == 0
}

func (r *Report) add(v Violation) {
	if len(v.Messages) > 0 {
		r.Violations = append(r.Violations, v)
	}
}

// Report 校验整个可见范围：员工配额按周检查一次，组、子组和车辆按天检查
func (e *Engine) Report(l *domain.Ledger) (*Report, error) {
	cal := e.shifts.Calendar()
	dates := e.shifts.VisibleRange(l.Date)

	report := &Report{
		Date:       cal.Format(l.Date),
		Violations: []Violation{},
	}

	employees, err := l.SortedEmployeeIDs()
	if err != nil {
		return nil, err
	}

	for _, week := range cal.Weeks(dates) {
		for _, employeeID := range employees {
			messages, err := e.check(Target{Ledger: l, Date: week[0], EmployeeID: employeeID}, e.weeklyRules)
			if err != nil {
				return nil, err
			}
			report.add(Violation{Date: cal.Format(week[0]), Kind: KindEmployee, ID: employeeID, Messages: messages})
		}
	}

	groups := sortedIDs(l.Groups)
	subgroups := sortedIDs(l.Subgroups)

	for _, date := range dates {
		for _, id := range groups {
			messages, err := e.GroupErrors(l, id, date)
			if err != nil {
				return nil, err
			}
			report.add(Violation{Date: cal.Format(date), Kind: KindGroup, ID: id, Messages: messages})
		}

		for _, id := range subgroups {
			messages, err := e.SubgroupErrors(l, id, date)
			if err != nil {
				return nil, err
			}
			report.add(Violation{Date: cal.Format(date), Kind: KindSubgroup, ID: id, Messages: messages})
		}

		for _, action := range domain.WorkingActions() {
			messages, err := e.CarsErrors(l, date, action)
			if err != nil {
				return nil, err
			}
			report.add(Violation{Date: cal.Format(date), Kind: KindCars, Action: action, Messages: messages})
		}
	}

	e.logger.Info("排班表校验完成", "date", report.Date, "violations", len(report.Violations))

	return report, nil
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
