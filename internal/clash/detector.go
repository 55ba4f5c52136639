// Package clash 检测不同成员在同一天的班次时间重叠
package clash

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
)

// interval 是参与比较的班次，时间已转换为当天零点起的分钟数
type interval struct {
	shift      *domain.Shift
	index      int // 在所属成员班次中的序号
	start, end int
}

func (a interval) overlaps(b interval) bool {
	// 半开区间，首尾相接不算重叠
	return a.start < b.end && a.end > b.start
}

type messageFunc func(subject, counterpart *domain.Shift, dateLabel string) string

// partition 按成员首次出现的顺序分组，时间无法解析的班次直接排除
func partition(shifts []*domain.Shift) ([]int64, map[int64][]interval) {
	owners := make([]int64, 0)
	byOwner := make(map[int64][]interval)

	for _, s := range shifts {
		if s == nil {
			continue
		}
		start, ok := timeutil.ToMinutes(s.ArrivalTime)
		if !ok {
			continue
		}
		end, ok := timeutil.ToMinutes(s.DepartureTime)
		if !ok {
			continue
		}

		if _, exists := byOwner[s.OwnerID]; !exists {
			owners = append(owners, s.OwnerID)
		}
		byOwner[s.OwnerID] = append(byOwner[s.OwnerID], interval{
			shift: s,
			index: len(byOwner[s.OwnerID]),
			start: start,
			end:   end,
		})
	}

	return owners, byOwner
}

// detect 只比较 i < j 的成员对，因此每对重叠的班次只会产生一条记录
func detect(shifts []*domain.Shift, namespace string, message messageFunc) []domain.Clash {
	owners, byOwner := partition(shifts)
	clashes := make([]domain.Clash, 0)

	for i := 0; i < len(owners); i++ {
		for j := i + 1; j < len(owners); j++ {
			for _, a := range byOwner[owners[i]] {
				for _, b := range byOwner[owners[j]] {
					if a.shift.Date != b.shift.Date || !a.overlaps(b) {
						continue
					}
					clashes = append(clashes, newCriticalClash(namespace, a, b, message))
				}
			}
		}
	}

	return clashes
}

func newCriticalClash(namespace string, a, b interval, message messageFunc) domain.Clash {
	dateLabel := timeutil.FormatDateLabel(a.shift.Date)
	subjectTime := timeutil.FormatTimeRange(a.shift.ArrivalTime, a.shift.DepartureTime)
	counterpartTime := timeutil.FormatTimeRange(b.shift.ArrivalTime, b.shift.DepartureTime)

	key := fmt.Sprintf("%s|%d:%d:%d|%d:%d:%d|%s",
		namespace,
		a.shift.OwnerID, a.index, a.shift.ID,
		b.shift.OwnerID, b.index, b.shift.ID,
		a.shift.Date,
	)

	return domain.Clash{
		ID:                     uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String(),
		SubjectEntryID:         a.shift.ID,
		CounterpartEntryID:     b.shift.ID,
		CounterpartDisplayName: b.shift.OwnerDisplayName,
		CounterpartTimeRange:   counterpartTime,
		Message:                message(a.shift, b.shift, dateLabel),
		Severity:               domain.SeverityCritical,
		Details: &domain.ClashDetails{
			Subject: domain.ClashParty{
				Name:        a.shift.OwnerDisplayName,
				Time:        subjectTime,
				Description: a.shift.Description,
			},
			Counterpart: domain.ClashParty{
				Name:        b.shift.OwnerDisplayName,
				Time:        counterpartTime,
				Description: b.shift.Description,
			},
			Date: dateLabel,
		},
	}
}

// Compare 找出团队快照中所有跨成员、同一天、时间重叠的班次对
func Compare(shifts []*domain.Shift) []domain.Clash {
	return detect(shifts, "team", func(subject, counterpart *domain.Shift, dateLabel string) string {
		return fmt.Sprintf("On %s: %s (%s) overlaps with %s (%s)",
			dateLabel,
			subject.OwnerDisplayName, timeutil.FormatTimeRange(subject.ArrivalTime, subject.DepartureTime),
			counterpart.OwnerDisplayName, timeutil.FormatTimeRange(counterpart.ArrivalTime, counterpart.DepartureTime),
		)
	})
}

// CompareBatch 把每个文件视为一名员工，比较批量上传的所有文件
func CompareBatch(results []*domain.BatchResult) []domain.Clash {
	shifts := make([]*domain.Shift, 0)
	for i, res := range results {
		if res == nil {
			continue
		}
		for _, entry := range res.Entries {
			shifts = append(shifts, &domain.Shift{
				OwnerID:          int64(i),
				OwnerDisplayName: res.Worker.DisplayName,
				Date:             entry.Date,
				ArrivalTime:      entry.ArrivalTime,
				DepartureTime:    entry.DepartureTime,
				HoursWorked:      entry.HoursWorked,
				Description:      "File: " + res.FileName,
			})
		}
	}

	return detect(shifts, "batch", func(subject, counterpart *domain.Shift, dateLabel string) string {
		return fmt.Sprintf("Overlap on %s: %s vs %s", dateLabel, subject.OwnerDisplayName, counterpart.OwnerDisplayName)
	})
}

// CheckEntry 用于录入时的实时校验：只检查一个候选班次与其他成员已提交的班次，结果为 warning
func CheckEntry(candidate *domain.Shift, existing []*domain.Shift) []domain.Clash {
	clashes := make([]domain.Clash, 0)
	if candidate == nil {
		return clashes
	}

	_, subject := partition([]*domain.Shift{candidate})
	if len(subject[candidate.OwnerID]) == 0 {
		return clashes
	}
	a := subject[candidate.OwnerID][0]

	owners, others := partition(existing)
	for _, ownerID := range owners {
		if ownerID == candidate.OwnerID {
			continue
		}
		for _, b := range others[ownerID] {
			if candidate.ID != 0 && b.shift.ID == candidate.ID {
				continue
			}
			if b.shift.Date != candidate.Date || !a.overlaps(b) {
				continue
			}

			timeRange := timeutil.FormatTimeRange(b.shift.ArrivalTime, b.shift.DepartureTime)
			key := fmt.Sprintf("check|%d|%s|%s-%s|%d:%d", candidate.ID, candidate.Date, candidate.ArrivalTime, candidate.DepartureTime, b.shift.OwnerID, b.shift.ID)
			clashes = append(clashes, domain.Clash{
				ID:                     uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String(),
				SubjectEntryID:         candidate.ID,
				CounterpartEntryID:     b.shift.ID,
				CounterpartDisplayName: b.shift.OwnerDisplayName,
				CounterpartTimeRange:   timeRange,
				Message:                fmt.Sprintf("Overlaps with %s (%s)", b.shift.OwnerDisplayName, timeRange),
				Severity:               domain.SeverityWarning,
			})
		}
	}

	return clashes
}
