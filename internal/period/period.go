// Package period 生成用于筛选班次的工资周期
package period

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
)

const (
	cycleStartDay = 27
	cycleEndDay   = 26

	// 首个周期固定为 1 月 26 日至 2 月 26 日，这是机构工资周期的特殊约定，不能由 27 日规则推导
	firstPeriodStartDay = 26
)

// Generate 从 startYear 开始生成 count 个工资周期，结果只取决于输入参数
func Generate(count int, startYear int) []domain.WorkingPeriod {
	periods := make([]domain.WorkingPeriod, 0, max(count, 0))

	month := time.February // 周期以结束月份计
	year := startYear

	for i := 0; i < count; i++ {
		end := time.Date(year, month, cycleEndDay, 0, 0, 0, 0, time.UTC)

		startDay := cycleStartDay
		if i == 0 {
			startDay = firstPeriodStartDay
		}
		// month - 1 为 0 时 time.Date 会自动回退到上一年的 12 月
		start := time.Date(year, month-1, startDay, 0, 0, 0, 0, time.UTC)

		periods = append(periods, newPeriod(start, end))

		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return periods
}

func newPeriod(start, end time.Time) domain.WorkingPeriod {
	startDate := start.Format(timeutil.DateLayout)
	endDate := end.Format(timeutil.DateLayout)

	return domain.WorkingPeriod{
		ID:        fmt.Sprintf("period_%s_%s", startDate, endDate),
		Label:     fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2")),
		StartDate: startDate,
		EndDate:   endDate,
	}
}

// Contains 判断 YYYY-MM-DD 格式的日期是否落在周期内（首尾均包含）
func Contains(p domain.WorkingPeriod, date string) bool {
	return date >= p.StartDate && date <= p.EndDate
}

func Find(periods []domain.WorkingPeriod, id string) (domain.WorkingPeriod, bool) {
	for _, p := range periods {
		if p.ID == id {
			return p, true
		}
	}
	return domain.WorkingPeriod{}, false
}

// ParseID 从周期 id 还原周期，用于查询不在默认列表中的历史周期
func ParseID(id string) (domain.WorkingPeriod, bool) {
	rest, ok := strings.CutPrefix(id, "period_")
	if !ok {
		return domain.WorkingPeriod{}, false
	}
	startDate, endDate, ok := strings.Cut(rest, "_")
	if !ok {
		return domain.WorkingPeriod{}, false
	}

	start, err := time.Parse(timeutil.DateLayout, startDate)
	if err != nil {
		return domain.WorkingPeriod{}, false
	}
	end, err := time.Parse(timeutil.DateLayout, endDate)
	if err != nil || end.Before(start) {
		return domain.WorkingPeriod{}, false
	}

	return newPeriod(start, end), true
}

// ForDate 返回第一个包含该日期的周期
func ForDate(periods []domain.WorkingPeriod, date string) (domain.WorkingPeriod, bool) {
	for _, p := range periods {
		if Contains(p, date) {
			return p, true
		}
	}
	return domain.WorkingPeriod{}, false
}

// Filter 返回落在周期内的班次，保持原有顺序
func Filter(p domain.WorkingPeriod, shifts []*domain.Shift) []*domain.Shift {
	res := make([]*domain.Shift, 0, len(shifts))
	for _, s := range shifts {
		if Contains(p, s.Date) {
			res = append(res, s)
		}
	}
	return res
}
