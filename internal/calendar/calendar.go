package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Layout 是日期在传输格式和变量名中的统一格式
const Layout = "2006-01-02"

var dayNames = map[time.Weekday]string{
	time.Monday:    "MONDAY",
	time.Tuesday:   "TUESDAY",
	time.Wednesday: "WEDNESDAY",
	time.Thursday:  "THURSDAY",
	time.Friday:    "FRIDAY",
	time.Saturday:  "SATURDAY",
	time.Sunday:    "SUNDAY",
}

// DaysOfWeek 按周一到周日的顺序返回
func DaysOfWeek() []time.Weekday {
	return []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}
}

func DayName(day time.Weekday) string {
	return dayNames[day]
}

func ParseDayName(name string) (time.Weekday, error) {
	for day, dayName := range dayNames {
		if dayName == strings.ToUpper(name) {
			return day, nil
		}
	}
	return 0, fmt.Errorf("无法识别的星期 %q", name)
}

func IsWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// Calendar 中所有的日期都是所在时区的零点，周从周一开始到周日结束
type Calendar struct {
	loc *time.Location
}

func New(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{loc: loc}
}

func (c *Calendar) Location() *time.Location {
	return c.loc
}

func (c *Calendar) Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, c.loc)
}

// Truncate 将任意时间归一到当天零点
func (c *Calendar) Truncate(t time.Time) time.Time {
	t = t.In(c.loc)
	return c.Date(t.Year(), t.Month(), t.Day())
}

func (c *Calendar) Format(date time.Time) string {
	return date.In(c.loc).Format(Layout)
}

// Parse 支持 yyyy-MM-dd 和 yyyy-MM 两种格式，后者取当月第一天
func (c *Calendar) Parse(text string) (time.Time, error) {
	if date, err := time.ParseInLocation(Layout, text, c.loc); err == nil {
		return date, nil
	}
	date, err := time.ParseInLocation("2006-01", text, c.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q 不是合法的日期", text)
	}
	return date, nil
}

func (c *Calendar) AddDays(date time.Time, days int) time.Time {
	date = date.In(c.loc)
	return c.Date(date.Year(), date.Month(), date.Day()+days)
}

func (c *Calendar) StartOfWeek(date time.Time) time.Time {
	date = c.Truncate(date)
	offset := (int(date.Weekday()) + 6) % 7 // 周一为 0
	return c.AddDays(date, -offset)
}

func (c *Calendar) EndOfWeek(date time.Time) time.Time {
	return c.AddDays(c.StartOfWeek(date), 6)
}

func (c *Calendar) StartOfMonth(date time.Time) time.Time {
	date = date.In(c.loc)
	return c.Date(date.Year(), date.Month(), 1)
}

func (c *Calendar) EndOfMonth(date time.Time) time.Time {
	date = date.In(c.loc)
	return c.Date(date.Year(), date.Month()+1, 0)
}

// Range 返回 [from, to] 之间的每一天，from 晚于 to 时返回空
func (c *Calendar) Range(from, to time.Time) []time.Time {
	from, to = c.Truncate(from), c.Truncate(to)

	dates := []time.Time{}
	for date := from; !date.After(to); date = c.AddDays(date, 1) {
		dates = append(dates, date)
	}
	return dates
}

// Week 返回 date 所在的整周
func (c *Calendar) Week(date time.Time) []time.Time {
	return c.Range(c.StartOfWeek(date), c.EndOfWeek(date))
}

// Weeks 将日期按所在周去重分组，保持首次出现的顺序
func (c *Calendar) Weeks(dates []time.Time) [][]time.Time {
	weeks := [][]time.Time{}
	seen := make(map[string]bool)

	for _, date := range dates {
		key := c.Format(c.StartOfWeek(date))
		if seen[key] {
			continue
		}
		seen[key] = true
		weeks = append(weeks, c.Week(date))
	}
	return weeks
}

// VisibleRange 返回 date 所在月份，并向两端补齐到整周
func (c *Calendar) VisibleRange(date time.Time) []time.Time {
	return c.Range(c.StartOfWeek(c.StartOfMonth(date)), c.EndOfWeek(c.EndOfMonth(date)))
}
