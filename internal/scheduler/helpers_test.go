package scheduler

import (
	"io"
	"log/slog"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/workshift"
)

var cal = calendar.New(time.UTC)

func march(d int) time.Time {
	return cal.Date(2024, time.March, d)
}

func ptr(v int64) *int64 {
	return &v
}

func slogDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService() *workshift.Service {
	return workshift.NewService(cal, domain.NewActionRegistry())
}

// newLedger 创建 2024 年 3 月的排班表，可见范围为 2024-02-26 到 2024-03-31
func newLedger() *domain.Ledger {
	l := domain.NewLedger(march(1))
	l.AvailableCars = domain.AvailableCars{Total: 2}
	l.AddGroup(&domain.Group{
		ID:   10,
		Name: "外勤组",
		Constraints: domain.WeekConstraints{
			{DayOfWeek: time.Monday, Action: domain.ActionMorning, Value: 2},
		},
	})
	l.AddSubgroup(&domain.Subgroup{ID: 20, Name: "外勤一队", GroupID: 10})
	l.AddEmployee(&domain.Employee{ID: 1, Name: "陈静", TotWeekShifts: 5, MaxWeekMornings: 3, MaxWeekAfternoons: 3})
	l.AddEmployee(&domain.Employee{ID: 2, Name: "李强", SubgroupID: ptr(20), TotWeekShifts: 5, MaxWeekMornings: 3, MaxWeekAfternoons: 3})
	l.AddEmployee(&domain.Employee{ID: 3, Name: "王芳", SubgroupID: ptr(20), TotWeekShifts: 4, MaxWeekMornings: 2, MaxWeekAfternoons: 2})
	return l
}
