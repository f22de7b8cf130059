package domain

import "time"

// Shift 是排班表中的一项：某员工某天的标签
type Shift struct {
	EmployeeID int64
	Date       time.Time
	Value      string
}
