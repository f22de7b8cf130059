package domain

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
)

// Ledger 是排班表的内存聚合：员工、组、子组、车辆以及所有排班项。
// shifts 和 index 必须始终保持一致，因此只能通过 SetShift / DeleteShifts 修改。
type Ledger struct {
	Date          time.Time
	Employees     map[int64]*Employee
	Groups        map[int64]*Group
	Subgroups     map[int64]*Subgroup
	AvailableCars AvailableCars

	id       string
	revision uint64
	shifts   []Shift
	index    map[int64]map[string]int // employeeID -> yyyy-MM-dd -> shifts 中的下标
}

func NewLedger(date time.Time) *Ledger {
	return &Ledger{
		Date:      date,
		Employees: make(map[int64]*Employee),
		Groups:    make(map[int64]*Group),
		Subgroups: make(map[int64]*Subgroup),
		id:        uuid.NewString(),
		shifts:    []Shift{},
		index:     make(map[int64]map[string]int),
	}
}

// ID 唯一标识这个内存实例，克隆会得到新的 ID
func (l *Ledger) ID() string {
	return l.id
}

// Revision 在每次修改排班项后递增，用于区分缓存的计数结果
func (l *Ledger) Revision() uint64 {
	return l.revision
}

func (l *Ledger) AddEmployee(e *Employee) {
	l.Employees[e.ID] = e
}

func (l *Ledger) AddGroup(g *Group) {
	l.Groups[g.ID] = g
}

func (l *Ledger) AddSubgroup(s *Subgroup) {
	l.Subgroups[s.ID] = s
}

func (l *Ledger) Employee(id int64) (*Employee, error) {
	e, ok := l.Employees[id]
	if !ok {
		return nil, fmt.Errorf("%w: 员工 %d 不存在", ErrLookup, id)
	}
	return e, nil
}

func (l *Ledger) Group(id int64) (*Group, error) {
	g, ok := l.Groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: 组 %d 不存在", ErrLookup, id)
	}
	return g, nil
}

func (l *Ledger) Subgroup(id int64) (*Subgroup, error) {
	s, ok := l.Subgroups[id]
	if !ok {
		return nil, fmt.Errorf("%w: 子组 %d 不存在", ErrLookup, id)
	}
	return s, nil
}

// SubgroupOf 返回员工所在的子组，员工不属于任何子组时返回 nil
func (l *Ledger) SubgroupOf(employeeID int64) (*Subgroup, error) {
	e, err := l.Employee(employeeID)
	if err != nil {
		return nil, err
	}
	if e.SubgroupID == nil {
		return nil, nil
	}
	return l.Subgroup(*e.SubgroupID)
}

// GroupOf 返回员工所在子组的父组，员工不属于任何子组时返回 nil
func (l *Ledger) GroupOf(employeeID int64) (*Group, error) {
	s, err := l.SubgroupOf(employeeID)
	if err != nil || s == nil {
		return nil, err
	}
	return l.ParentOf(s)
}

func (l *Ledger) ParentOf(s *Subgroup) (*Group, error) {
	g, ok := l.Groups[s.GroupID]
	if !ok {
		return nil, fmt.Errorf("%w: 子组 %d 缺少父组 %d", ErrConfiguration, s.ID, s.GroupID)
	}
	return g, nil
}

// SortedEmployeeIDs 返回稳定的员工顺序：没有子组的员工在前，
// 其余按 (父组 ID, 子组 ID, 员工 ID) 升序
func (l *Ledger) SortedEmployeeIDs() ([]int64, error) {
	type sortKey struct {
		hasSubgroup bool
		groupID     int64
		subgroupID  int64
		employeeID  int64
	}

	keys := make([]sortKey, 0, len(l.Employees))
	for _, e := range l.Employees {
		key := sortKey{employeeID: e.ID}
		if e.SubgroupID != nil {
			s, err := l.Subgroup(*e.SubgroupID)
			if err != nil {
				return nil, err
			}
			g, err := l.ParentOf(s)
			if err != nil {
				return nil, err
			}
			key.hasSubgroup = true
			key.groupID = g.ID
			key.subgroupID = s.ID
		}
		keys = append(keys, key)
	}

	slices.SortFunc(keys, func(a, b sortKey) int {
		if a.hasSubgroup != b.hasSubgroup {
			if !a.hasSubgroup {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.groupID, b.groupID),
			cmp.Compare(a.subgroupID, b.subgroupID),
			cmp.Compare(a.employeeID, b.employeeID),
		)
	})

	ids := make([]int64, len(keys))
	for i, key := range keys {
		ids[i] = key.employeeID
	}
	return ids, nil
}

// SetShift 写入某员工某天的标签，已存在时原地替换
func (l *Ledger) SetShift(employeeID int64, date time.Time, value string) {
	key := date.Format(calendar.Layout)
	shift := Shift{EmployeeID: employeeID, Date: date, Value: value}

	dates, exists := l.index[employeeID]
	if !exists {
		dates = make(map[string]int)
		l.index[employeeID] = dates
	}

	if pos, ok := dates[key]; ok {
		l.shifts[pos] = shift
	} else {
		dates[key] = len(l.shifts)
		l.shifts = append(l.shifts, shift)
	}
	l.revision++
}

// Shift 返回某员工某天的标签，没有排班时返回 defaultValue
func (l *Ledger) Shift(employeeID int64, date time.Time, defaultValue string) string {
	pos, ok := l.index[employeeID][date.Format(calendar.Layout)]
	if !ok || l.shifts[pos].Value == "" {
		return defaultValue
	}
	return l.shifts[pos].Value
}

// Shifts 返回排班项的副本，顺序为每一项首次写入的顺序
func (l *Ledger) Shifts() []Shift {
	return slices.Clone(l.shifts)
}

func (l *Ledger) DeleteShifts() {
	l.shifts = []Shift{}
	l.index = make(map[int64]map[string]int)
	l.revision++
}

// Clone 深拷贝整个排班表，用于在发送给求解器前与用户的编辑隔离
func (l *Ledger) Clone() *Ledger {
	clone := NewLedger(l.Date)
	clone.AvailableCars = l.AvailableCars

	for id, e := range l.Employees {
		clone.Employees[id] = e.Clone()
	}
	for id, g := range l.Groups {
		clone.Groups[id] = g.Clone()
	}
	for id, s := range l.Subgroups {
		clone.Subgroups[id] = s.Clone()
	}
	clone.revision = l.revision
	clone.shifts = slices.Clone(l.shifts)
	for employeeID, dates := range l.index {
		clone.index[employeeID] = maps.Clone(dates)
	}
	return clone
}
