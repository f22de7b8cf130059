package workshift

import (
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

const (
	ScopeGroup    = "GROUP"
	ScopeSubgroup = "SUBGROUP"
)

// Scope 是一个配置了每日最少人数的范围（组或子组）。
// Member 决定员工是否属于这个范围，模型构建和校验都只依赖这个函数。
type Scope struct {
	Kind        string
	ID          int64
	Name        string
	Constraints domain.WeekConstraints
	Member      func(employeeID int64) (bool, error)
}

func GroupScope(l *domain.Ledger, groupID int64) (Scope, error) {
	g, err := l.Group(groupID)
	if err != nil {
		return Scope{}, err
	}

	return Scope{
		Kind:        ScopeGroup,
		ID:          g.ID,
		Name:        g.Name,
		Constraints: g.Constraints,
		Member: func(employeeID int64) (bool, error) {
			group, err := l.GroupOf(employeeID)
			if err != nil {
				return false, err
			}
			return group != nil && group.ID == g.ID, nil
		},
	}, nil
}

func SubgroupScope(l *domain.Ledger, subgroupID int64) (Scope, error) {
	s, err := l.Subgroup(subgroupID)
	if err != nil {
		return Scope{}, err
	}
	if _, err := l.ParentOf(s); err != nil {
		return Scope{}, err
	}

	return Scope{
		Kind:        ScopeSubgroup,
		ID:          s.ID,
		Name:        s.Name,
		Constraints: s.Constraints,
		Member: func(employeeID int64) (bool, error) {
			subgroup, err := l.SubgroupOf(employeeID)
			if err != nil {
				return false, err
			}
			return subgroup != nil && subgroup.ID == s.ID, nil
		},
	}, nil
}
