package utils

import (
	"fmt"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

// ValidateLedgerDocument 检查传输格式中是否有重复的 ID 和重复的排班项
func ValidateLedgerDocument(doc *domain.LedgerDocument) error {
	employees := make(map[int64]bool)
	for _, e := range doc.Employees {
		if employees[e.ID] {
			return fmt.Errorf("%w: 员工 %d 重复", domain.ErrConfiguration, e.ID)
		}
		employees[e.ID] = true
	}

	groups := make(map[int64]bool)
	for _, g := range doc.Groups {
		if groups[g.ID] {
			return fmt.Errorf("%w: 组 %d 重复", domain.ErrConfiguration, g.ID)
		}
		groups[g.ID] = true
	}

	subgroups := make(map[int64]bool)
	for _, s := range doc.Subgroups {
		if subgroups[s.ID] {
			return fmt.Errorf("%w: 子组 %d 重复", domain.ErrConfiguration, s.ID)
		}
		subgroups[s.ID] = true
	}

	type shiftKey struct {
		employeeID int64
		date       string
	}
	shifts := make(map[shiftKey]bool)
	for _, s := range doc.Shifts {
		key := shiftKey{employeeID: s.EmployeeID, date: s.Date}
		if shifts[key] {
			return fmt.Errorf("%w: 员工 %d 在 %s 的排班重复", domain.ErrConfiguration, s.EmployeeID, s.Date)
		}
		shifts[key] = true
	}

	return nil
}

// ValidateLedger 检查排班表中的引用是否都存在，以及所有标签是否可以识别
func ValidateLedger(l *domain.Ledger, registry *domain.ActionRegistry) error {
	// 员工引用的子组和子组的父组
	if _, err := l.SortedEmployeeIDs(); err != nil {
		return err
	}

	for _, s := range l.Subgroups {
		if _, err := l.ParentOf(s); err != nil {
			return err
		}
	}

	for _, s := range l.Shifts() {
		if _, err := l.Employee(s.EmployeeID); err != nil {
			return fmt.Errorf("排班项引用了不存在的员工: %w", err)
		}
		if s.Value == "" {
			continue
		}
		if _, err := registry.Action(s.Value); err != nil {
			return fmt.Errorf("员工 %d 在 %s: %w", s.EmployeeID, s.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}
