package utils

import (
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/calendar"
	"github.com/sysu-ecnc-dev/shift-planner/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// 使用 Fisher-Yates 洗牌算法来生成一个随机子集
func GenerateRandomSubset[T any](arr []T) []T {
	arrCopy := append([]T{}, arr...) // 复制数组，避免修改原数组

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

// GenerateRandomWeekConstraints 为随机的几天设置早班和午班的最少人数
func GenerateRandomWeekConstraints(maxValue int) domain.WeekConstraints {
	constraints := domain.WeekConstraints{}
	for _, day := range GenerateRandomSubset(calendar.DaysOfWeek()) {
		for _, action := range domain.WorkingActions() {
			constraints = append(constraints, domain.WeekConstraint{
				DayOfWeek: day,
				Action:    action,
				Value:     rand.Intn(maxValue + 1),
			})
		}
	}
	return constraints
}

type RandomLedgerOptions struct {
	Groups            int
	SubgroupsPerGroup int
	Employees         int
	AvailableCars     int
	// ShiftRatio 是已经排班的员工天数占比
	ShiftRatio float64
}

// GenerateRandomLedger 生成一个随机的排班表，员工 ID 从 1 开始，组 ID 从 10 开始，子组 ID 从 100 开始
func GenerateRandomLedger(cal *calendar.Calendar, date time.Time, registry *domain.ActionRegistry, opts RandomLedgerOptions) *domain.Ledger {
	l := domain.NewLedger(cal.Truncate(date))
	l.AvailableCars = domain.AvailableCars{Total: opts.AvailableCars}

	subgroupIDs := []int64{}
	for i := 0; i < opts.Groups; i++ {
		groupID := int64(10 + i)
		l.AddGroup(&domain.Group{
			ID:          groupID,
			Name:        "组" + string(rune('A'+i)),
			Constraints: GenerateRandomWeekConstraints(2),
		})

		for j := 0; j < opts.SubgroupsPerGroup; j++ {
			subgroupID := int64(100 + i*opts.SubgroupsPerGroup + j)
			l.AddSubgroup(&domain.Subgroup{
				ID:          subgroupID,
				Name:        "子组" + string(rune('A'+i)) + string(rune('1'+j)),
				GroupID:     groupID,
				Constraints: GenerateRandomWeekConstraints(1),
			})
			subgroupIDs = append(subgroupIDs, subgroupID)
		}
	}

	for i := 0; i < opts.Employees; i++ {
		e := &domain.Employee{
			ID:                int64(i + 1),
			Name:              GenerateRandomChineseName(),
			TotWeekShifts:     rand.Intn(3) + 3,
			MaxWeekMornings:   rand.Intn(3) + 1,
			MaxWeekAfternoons: rand.Intn(3) + 1,
		}
		// 大约四分之一的员工不属于任何子组
		if len(subgroupIDs) > 0 && rand.Intn(4) > 0 {
			subgroupID := subgroupIDs[rand.Intn(len(subgroupIDs))]
			e.SubgroupID = &subgroupID
		}
		l.AddEmployee(e)
	}

	labels := registry.AllLabels()
	for _, day := range cal.VisibleRange(l.Date) {
		for i := 0; i < opts.Employees; i++ {
			if rand.Float64() < opts.ShiftRatio {
				l.SetShift(int64(i+1), day, labels[rand.Intn(len(labels))])
			}
		}
	}

	return l
}
