package extractor

import (
	"regexp"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
)

// 日期与时间两类记号，日期在前以免 YYYY-M-D 被拆开
var fieldTokenPattern = regexp.MustCompile(
	`(?i)(\b\d{1,2}/\d{1,2}/\d{4}\b|\b\d{4}-\d{1,2}-\d{1,2}\b)|(\b\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M\b)?)`,
)

// ExtractEntries 在文本中按出现顺序查找 [日期] … [时间] … [时间] 组合。
// 字段之间允许出现任意文本（例如 OUT/IN 之类的标签），但一个组合不会跨越下一个日期。
// 三个字段必须都能规范化，否则整个组合被丢弃
func ExtractEntries(text string) []domain.ShiftEntry {
	entries := make([]domain.ShiftEntry, 0)

	var (
		date  string
		times []string
		open  bool
	)

	for _, m := range fieldTokenPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[2] >= 0 {
			date = text[m[2]:m[3]]
			times = times[:0]
			open = true
			continue
		}
		if !open {
			continue
		}

		times = append(times, text[m[4]:m[5]])
		if len(times) < 2 {
			continue
		}

		if entry, ok := normalizeMatch(date, times[0], times[1]); ok {
			entries = append(entries, entry)
		}
		open = false
		times = times[:0]
	}

	return entries
}

func normalizeMatch(rawDate, rawArrival, rawDeparture string) (domain.ShiftEntry, bool) {
	date, ok := timeutil.ParseDate(rawDate)
	if !ok {
		return domain.ShiftEntry{}, false
	}
	arrival, ok := timeutil.ParseTime(rawArrival)
	if !ok {
		return domain.ShiftEntry{}, false
	}
	departure, ok := timeutil.ParseTime(rawDeparture)
	if !ok {
		return domain.ShiftEntry{}, false
	}

	return domain.ShiftEntry{
		Date:          date,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		HoursWorked:   timeutil.Duration(arrival, departure),
	}, true
}
