package domain

type Employee struct {
	ID                int64
	Name              string
	SubgroupID        *int64 // 为 nil 表示不属于任何子组
	TotWeekShifts     int
	MaxWeekMornings   int
	MaxWeekAfternoons int
}

func (e *Employee) Clone() *Employee {
	clone := *e
	if e.SubgroupID != nil {
		subgroupID := *e.SubgroupID
		clone.SubgroupID = &subgroupID
	}
	return &clone
}

type Group struct {
	ID          int64
	Name        string
	Constraints WeekConstraints
}

func (g *Group) Clone() *Group {
	return &Group{
		ID:          g.ID,
		Name:        g.Name,
		Constraints: g.Constraints.Clone(),
	}
}

// Subgroup 必须属于一个已存在的 Group
type Subgroup struct {
	ID          int64
	Name        string
	GroupID     int64
	Constraints WeekConstraints
}

func (s *Subgroup) Clone() *Subgroup {
	return &Subgroup{
		ID:          s.ID,
		Name:        s.Name,
		GroupID:     s.GroupID,
		Constraints: s.Constraints.Clone(),
	}
}

// AvailableCars 是每天都相同的共享车辆数
type AvailableCars struct {
	Total int
}
