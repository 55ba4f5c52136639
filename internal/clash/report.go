package clash

import (
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/period"
)

// Snapshot 是某个团队在某个工资周期内的班次快照，报告完全由它计算得出
type Snapshot struct {
	TeamID  int64
	Version int64
	Period  domain.WorkingPeriod
	Shifts  []*domain.Shift
}

// Submitters 按首次出现的顺序列出提交过班次的成员
func Submitters(shifts []*domain.Shift) []domain.Submitter {
	submitters := make([]domain.Submitter, 0)
	index := make(map[int64]int)

	for _, s := range shifts {
		if s == nil {
			continue
		}
		i, exists := index[s.OwnerID]
		if !exists {
			i = len(submitters)
			index[s.OwnerID] = i
			submitters = append(submitters, domain.Submitter{
				UserID:   s.OwnerID,
				FullName: s.OwnerDisplayName,
			})
		}
		submitters[i].ShiftCount++
	}

	return submitters
}

// Report 生成比较报告。快照中只有不到两名成员提交时不进行比较
func Report(snap Snapshot) *domain.ComparisonReport {
	shifts := period.Filter(snap.Period, snap.Shifts)
	submitters := Submitters(shifts)

	report := &domain.ComparisonReport{
		Period:     snap.Period,
		Version:    snap.Version,
		Submitters: submitters,
		Ready:      len(submitters) >= 2,
		Clashes:    []domain.Clash{},
	}
	if report.Ready {
		report.Clashes = Compare(shifts)
	}

	return report
}
