package domain

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
)

// WeekConstraint 表示某个星期几某个动作的最少人数
type WeekConstraint struct {
	DayOfWeek time.Weekday
	Action    Action
	Value     int
}

type WeekConstraints []WeekConstraint

// Min 返回唯一匹配的最少人数，没有配置时第二个返回值为 false
func (wc WeekConstraints) Min(day time.Weekday, action Action) (int, bool) {
	for _, c := range wc {
		if c.DayOfWeek == day && c.Action == action {
			return c.Value, true
		}
	}
	return 0, false
}

// MinOrZero 是模型和校验统一使用的取值方式：没有配置即为 0
func (wc WeekConstraints) MinOrZero(day time.Weekday, action Action) int {
	value, _ := wc.Min(day, action)
	return value
}

// Check 确保每个 (星期几, 动作) 最多只有一条配置
func (wc WeekConstraints) Check() error {
	seen := make(map[string]bool)
	for _, c := range wc {
		key := calendar.DayName(c.DayOfWeek) + "_" + string(c.Action)
		if seen[key] {
			return fmt.Errorf("%w: %s 的 %s 存在重复的最少人数配置", ErrConfiguration, calendar.DayName(c.DayOfWeek), c.Action)
		}
		seen[key] = true
	}
	return nil
}

func (wc WeekConstraints) Clone() WeekConstraints {
	if wc == nil {
		return nil
	}
	clone := make(WeekConstraints, len(wc))
	copy(clone, wc)
	return clone
}
