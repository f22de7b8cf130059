package workshift

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/cache"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/stats"
)

// CountQuery 描述一次计数：一组员工在一组日期中某个动作出现的次数
type CountQuery struct {
	Ledger    *domain.Ledger
	Employees []int64
	Dates     []time.Time
	Action    domain.Action
}

type CountFunc func(CountQuery) (int, error)

// Service 提供排班表上的动作查询、计数和每周配额计算，模型构建和校验共用
type Service struct {
	cal      *calendar.Calendar
	registry *domain.ActionRegistry
	count    CountFunc
}

type Option func(*Service)

// WithCache 为计数函数加上缓存
func WithCache(c *cache.Cache[string, int]) Option {
	return func(s *Service) {
		s.count = cache.Memoize(c, s.countKey, s.count)
	}
}

// WithTiming 记录计数函数的耗时
func WithTiming(collector *stats.Collector, logger *slog.Logger) Option {
	return func(s *Service) {
		s.count = stats.Timed(collector, logger, "workshift.Count", s.count)
	}
}

// NewService 按 opts 的顺序从内向外包装计数函数
func NewService(cal *calendar.Calendar, registry *domain.ActionRegistry, opts ...Option) *Service {
	s := &Service{
		cal:      cal,
		registry: registry,
	}
	s.count = s.countActions
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Calendar() *calendar.Calendar {
	return s.cal
}

func (s *Service) Registry() *domain.ActionRegistry {
	return s.registry
}

// VisibleRange 返回 date 所在月份补齐到整周后的日期
func (s *Service) VisibleRange(date time.Time) []time.Time {
	return s.cal.VisibleRange(date)
}

// Action 返回员工某天的动作，没有排班时为 IDLE
func (s *Service) Action(l *domain.Ledger, employeeID int64, date time.Time) (domain.Action, error) {
	if _, err := l.Employee(employeeID); err != nil {
		return "", err
	}
	label := l.Shift(employeeID, date, s.registry.DefaultLabel())
	action, err := s.registry.Action(label)
	if err != nil {
		return "", fmt.Errorf("员工 %d 在 %s: %w", employeeID, s.cal.Format(date), err)
	}
	return action, nil
}

func (s *Service) Count(l *domain.Ledger, employees []int64, dates []time.Time, action domain.Action) (int, error) {
	return s.count(CountQuery{Ledger: l, Employees: employees, Dates: dates, Action: action})
}

func (s *Service) countActions(q CountQuery) (int, error) {
	total := 0
	for _, employeeID := range q.Employees {
		for _, date := range q.Dates {
			action, err := s.Action(q.Ledger, employeeID, date)
			if err != nil {
				return 0, err
			}
			if action == q.Action {
				total++
			}
		}
	}
	return total, nil
}

// 排班表的每次修改都会改变 revision，因此旧的计数不会被再次命中
func (s *Service) countKey(q CountQuery) string {
	var b strings.Builder
	b.WriteString(q.Ledger.ID())
	b.WriteByte('#')
	b.WriteString(strconv.FormatUint(q.Ledger.Revision(), 10))
	b.WriteByte('|')
	for _, id := range q.Employees {
		b.WriteString(strconv.FormatInt(id, 10))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, date := range q.Dates {
		b.WriteString(s.cal.Format(date))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(string(q.Action))
	return b.String()
}

// CountAssigned 统计非 IDLE 的天数
func (s *Service) CountAssigned(l *domain.Ledger, employeeID int64, dates []time.Time) (int, error) {
	total := 0
	for _, action := range []domain.Action{domain.ActionMorning, domain.ActionAfternoon, domain.ActionAway} {
		n, err := s.Count(l, []int64{employeeID}, dates, action)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// WeekendAdjustment 处理跨周末的排班：本周结束的周末有排班则 +1，
// 本周之前紧邻的周末有排班则 -1
func (s *Service) WeekendAdjustment(l *domain.Ledger, employeeID int64, date time.Time) (int, error) {
	start := s.cal.StartOfWeek(date)
	ending := []time.Time{s.cal.AddDays(start, 5), s.cal.AddDays(start, 6)}
	previous := []time.Time{s.cal.AddDays(start, -2), s.cal.AddDays(start, -1)}

	adjustment := 0

	n, err := s.CountAssigned(l, employeeID, ending)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		adjustment++
	}

	n, err = s.CountAssigned(l, employeeID, previous)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		adjustment--
	}

	return adjustment, nil
}

// ExpectedTotalShifts 返回员工在 date 所在周应上的班次数
func (s *Service) ExpectedTotalShifts(l *domain.Ledger, employeeID int64, date time.Time) (int, error) {
	e, err := l.Employee(employeeID)
	if err != nil {
		return 0, err
	}
	adjustment, err := s.WeekendAdjustment(l, employeeID, date)
	if err != nil {
		return 0, err
	}
	return e.TotWeekShifts + adjustment, nil
}

// ExpectedMornings 返回员工在 date 所在周最多的早班数
func (s *Service) ExpectedMornings(l *domain.Ledger, employeeID int64, date time.Time) (int, error) {
	e, err := l.Employee(employeeID)
	if err != nil {
		return 0, err
	}
	adjustment, err := s.WeekendAdjustment(l, employeeID, date)
	if err != nil {
		return 0, err
	}
	return e.MaxWeekMornings + adjustment, nil
}

// ExpectedAfternoons 返回员工每周最多的午班数，不做周末调整
func (s *Service) ExpectedAfternoons(l *domain.Ledger, employeeID int64) (int, error) {
	e, err := l.Employee(employeeID)
	if err != nil {
		return 0, err
	}
	return e.MaxWeekAfternoons, nil
}

// MembersOf 返回满足 member 的员工，顺序与 SortedEmployeeIDs 一致
func (s *Service) MembersOf(l *domain.Ledger, member func(employeeID int64) (bool, error)) ([]int64, error) {
	ids, err := l.SortedEmployeeIDs()
	if err != nil {
		return nil, err
	}

	members := []int64{}
	for _, id := range ids {
		ok, err := member(id)
		if err != nil {
			return nil, err
		}
		if ok {
			members = append(members, id)
		}
	}
	return members, nil
}
