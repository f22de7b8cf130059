package scheduler

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

// 变量和约束的命名，例如 12_2024-03-04_MONDAY_MORNING

func dayKey(cal *calendar.Calendar, date time.Time) string {
	return cal.Format(date) + "_" + calendar.DayName(date.Weekday())
}

func VariableName(cal *calendar.Calendar, employeeID int64, date time.Time, action domain.Action) string {
	return fmt.Sprintf("%d_%s_%s", employeeID, dayKey(cal, date), action)
}

func oneActionPerDayName(cal *calendar.Calendar, employeeID int64, date time.Time) string {
	return fmt.Sprintf("%d_%s_one_activity_per_day", employeeID, dayKey(cal, date))
}

func weeklyTotalName(cal *calendar.Calendar, employeeID int64, weekStart time.Time) string {
	return fmt.Sprintf("%d_%s_tot_activities_per_week", employeeID, dayKey(cal, weekStart))
}

func weeklyMorningsName(cal *calendar.Calendar, employeeID int64, weekStart time.Time) string {
	return fmt.Sprintf("%d_%s_morning_activities_per_week", employeeID, dayKey(cal, weekStart))
}

func weeklyAfternoonsName(cal *calendar.Calendar, employeeID int64, weekStart time.Time) string {
	return fmt.Sprintf("%d_%s_afternoon_activities_per_week", employeeID, dayKey(cal, weekStart))
}

func headcountName(cal *calendar.Calendar, kind string, id int64, date time.Time, action domain.Action) string {
	return fmt.Sprintf("%s_%d_%s_%s", kind, id, dayKey(cal, date), action)
}

func carsName(cal *calendar.Calendar, date time.Time, action domain.Action) string {
	return fmt.Sprintf("cars_%s_%s", dayKey(cal, date), action)
}
