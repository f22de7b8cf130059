package domain

import (
	"fmt"
	"slices"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
)

// 以下结构体是排班表的传输格式

type WeekConstraintDocument struct {
	DayOfWeek string `json:"dayOfWeek" yaml:"dayOfWeek" validate:"required"`
	Action    string `json:"action" yaml:"action" validate:"required,oneof=MORNING AFTERNOON AWAY IDLE"`
	Value     int    `json:"value" yaml:"value" validate:"min=0"`
}

type EmployeeDocument struct {
	ID                int64  `json:"id" yaml:"id" validate:"required"`
	Name              string `json:"name" yaml:"name" validate:"required"`
	SubgroupID        *int64 `json:"subgroupId" yaml:"subgroupId"`
	TotWeekShifts     int    `json:"totWeekShifts" yaml:"totWeekShifts" validate:"min=0"`
	MaxWeekMornings   int    `json:"maxWeekMornings" yaml:"maxWeekMornings" validate:"min=0"`
	MaxWeekAfternoons int    `json:"maxWeekAfternoons" yaml:"maxWeekAfternoons" validate:"min=0"`
}

type GroupDocument struct {
	ID          int64                    `json:"id" yaml:"id" validate:"required"`
	Name        string                   `json:"name" yaml:"name" validate:"required"`
	Constraints []WeekConstraintDocument `json:"constraints" yaml:"constraints" validate:"dive"`
}

type SubgroupDocument struct {
	ID          int64                    `json:"id" yaml:"id" validate:"required"`
	Name        string                   `json:"name" yaml:"name" validate:"required"`
	GroupID     int64                    `json:"groupId" yaml:"groupId" validate:"required"`
	Constraints []WeekConstraintDocument `json:"constraints" yaml:"constraints" validate:"dive"`
}

type ShiftDocument struct {
	EmployeeID int64  `json:"employeeId" yaml:"employeeId" validate:"required"`
	Date       string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Value      string `json:"value" yaml:"value"`
}

type LedgerDocument struct {
	Date          string             `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Employees     []EmployeeDocument `json:"employees" yaml:"employees" validate:"dive"`
	Groups        []GroupDocument    `json:"groups" yaml:"groups" validate:"dive"`
	Subgroups     []SubgroupDocument `json:"subgroups" yaml:"subgroups" validate:"dive"`
	AvailableCars int                `json:"availableCars" yaml:"availableCars" validate:"min=0"`
	Shifts        []ShiftDocument    `json:"shifts" yaml:"shifts" validate:"dive"`
}

// ToDocument 将排班表转换为传输格式，列表按 ID 升序，排班项保持首次写入顺序
func (l *Ledger) ToDocument(cal *calendar.Calendar) *LedgerDocument {
	doc := &LedgerDocument{
		Date:          cal.Format(l.Date),
		Employees:     make([]EmployeeDocument, 0, len(l.Employees)),
		Groups:        make([]GroupDocument, 0, len(l.Groups)),
		Subgroups:     make([]SubgroupDocument, 0, len(l.Subgroups)),
		AvailableCars: l.AvailableCars.Total,
		Shifts:        make([]ShiftDocument, 0, len(l.shifts)),
	}

	for _, id := range sortedKeys(l.Employees) {
		e := l.Employees[id].Clone()
		doc.Employees = append(doc.Employees, EmployeeDocument{
			ID:                e.ID,
			Name:              e.Name,
			SubgroupID:        e.SubgroupID,
			TotWeekShifts:     e.TotWeekShifts,
			MaxWeekMornings:   e.MaxWeekMornings,
			MaxWeekAfternoons: e.MaxWeekAfternoons,
		})
	}
	for _, id := range sortedKeys(l.Groups) {
		g := l.Groups[id]
		doc.Groups = append(doc.Groups, GroupDocument{
			ID:          g.ID,
			Name:        g.Name,
			Constraints: constraintDocuments(g.Constraints),
		})
	}
	for _, id := range sortedKeys(l.Subgroups) {
		s := l.Subgroups[id]
		doc.Subgroups = append(doc.Subgroups, SubgroupDocument{
			ID:          s.ID,
			Name:        s.Name,
			GroupID:     s.GroupID,
			Constraints: constraintDocuments(s.Constraints),
		})
	}
	for _, s := range l.shifts {
		doc.Shifts = append(doc.Shifts, ShiftDocument{
			EmployeeID: s.EmployeeID,
			Date:       cal.Format(s.Date),
			Value:      s.Value,
		})
	}

	return doc
}

// ToLedger 将传输格式还原为排班表
func (doc *LedgerDocument) ToLedger(cal *calendar.Calendar) (*Ledger, error) {
	date, err := cal.Parse(doc.Date)
	if err != nil {
		return nil, err
	}

	l := NewLedger(date)
	l.AvailableCars.Total = doc.AvailableCars

	for _, e := range doc.Employees {
		var subgroupID *int64
		if e.SubgroupID != nil {
			id := *e.SubgroupID
			subgroupID = &id
		}
		l.AddEmployee(&Employee{
			ID:                e.ID,
			Name:              e.Name,
			SubgroupID:        subgroupID,
			TotWeekShifts:     e.TotWeekShifts,
			MaxWeekMornings:   e.MaxWeekMornings,
			MaxWeekAfternoons: e.MaxWeekAfternoons,
		})
	}
	for _, g := range doc.Groups {
		constraints, err := weekConstraints(g.Constraints)
		if err != nil {
			return nil, fmt.Errorf("组 %d: %w", g.ID, err)
		}
		l.AddGroup(&Group{ID: g.ID, Name: g.Name, Constraints: constraints})
	}
	for _, s := range doc.Subgroups {
		if s.GroupID == 0 {
			return nil, fmt.Errorf("%w: 子组 %d 缺少父组", ErrConfiguration, s.ID)
		}
		constraints, err := weekConstraints(s.Constraints)
		if err != nil {
			return nil, fmt.Errorf("子组 %d: %w", s.ID, err)
		}
		l.AddSubgroup(&Subgroup{ID: s.ID, Name: s.Name, GroupID: s.GroupID, Constraints: constraints})
	}
	for _, s := range doc.Shifts {
		date, err := cal.Parse(s.Date)
		if err != nil {
			return nil, err
		}
		l.SetShift(s.EmployeeID, date, s.Value)
	}

	return l, nil
}

func constraintDocuments(constraints WeekConstraints) []WeekConstraintDocument {
	docs := make([]WeekConstraintDocument, 0, len(constraints))
	for _, c := range constraints {
		docs = append(docs, WeekConstraintDocument{
			DayOfWeek: calendar.DayName(c.DayOfWeek),
			Action:    string(c.Action),
			Value:     c.Value,
		})
	}
	return docs
}

func weekConstraints(docs []WeekConstraintDocument) (WeekConstraints, error) {
	constraints := make(WeekConstraints, 0, len(docs))
	for _, doc := range docs {
		day, err := calendar.ParseDayName(doc.DayOfWeek)
		if err != nil {
			return nil, err
		}
		action, err := ParseAction(doc.Action)
		if err != nil {
			return nil, err
		}
		constraints = append(constraints, WeekConstraint{DayOfWeek: day, Action: action, Value: doc.Value})
	}
	if err := constraints.Check(); err != nil {
		return nil, err
	}
	return constraints, nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
