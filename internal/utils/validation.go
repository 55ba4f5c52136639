package utils

import (
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
)

// NormalizeEntry 把手动录入或用户修改过的班次规范化，工时总是重新计算
func NormalizeEntry(entry domain.ShiftEntry) (domain.ShiftEntry, error) {
	date, ok := timeutil.ParseDate(entry.Date)
	if !ok {
		return domain.ShiftEntry{}, fmt.Errorf("日期 %q 格式错误", entry.Date)
	}
	arrival, ok := timeutil.ParseTime(entry.ArrivalTime)
	if !ok {
		return domain.ShiftEntry{}, fmt.Errorf("到达时间 %q 格式错误", entry.ArrivalTime)
	}
	departure, ok := timeutil.ParseTime(entry.DepartureTime)
	if !ok {
		return domain.ShiftEntry{}, fmt.Errorf("离开时间 %q 格式错误", entry.DepartureTime)
	}

	return domain.ShiftEntry{
		Date:          date,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		HoursWorked:   timeutil.Duration(arrival, departure),
		Description:   strings.TrimSpace(entry.Description),
	}, nil
}

// NormalizeEntries 逐项规范化，遇到第一项错误即返回，错误信息中的序号从 1 开始
func NormalizeEntries(entries []domain.ShiftEntry) ([]domain.ShiftEntry, error) {
	normalized := make([]domain.ShiftEntry, 0, len(entries))
	for i, entry := range entries {
		n, err := NormalizeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("第 %d 项: %w", i+1, err)
		}
		normalized = append(normalized, n)
	}
	return normalized, nil
}

// ValidateOwnEntries 检查同一成员提交的班次之间是否互相重叠
func ValidateOwnEntries(entries []domain.ShiftEntry) error {
	for i := 0; i < len(entries); i++ {
		iStart, _ := timeutil.ToMinutes(entries[i].ArrivalTime)
		iEnd, _ := timeutil.ToMinutes(entries[i].DepartureTime)

		for j := i + 1; j < len(entries); j++ {
			if entries[i].Date != entries[j].Date {
				continue
			}
			jStart, _ := timeutil.ToMinutes(entries[j].ArrivalTime)
			jEnd, _ := timeutil.ToMinutes(entries[j].DepartureTime)

			if iStart < jEnd && iEnd > jStart {
				return fmt.Errorf("第 %d 项和第 %d 项的时间重叠", i+1, j+1)
			}
		}
	}
	return nil
}
