// Package timeutil 负责把各种格式的日期、时间文本规范化为 YYYY-MM-DD 与 24 小时制 HH:MM。
package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"

	minutesPerDay = 24 * 60
)

var (
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	isoDatePattern   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	timePattern      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?\s*(AM|PM)?$`)
)

// ParseDate 支持 M/D/YYYY 与 YYYY-M-D 两种格式。
//
// 斜杠格式只检查月份 <= 12 且日期 <= 31，不做真实日历校验（2/30/2024 同样会被接受），
// 因此 02/03/2024 总是被解读为 2 月 3 日。横杠格式不做任何范围检查。
func ParseDate(text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}

	if m := slashDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month <= 12 && day <= 31 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
		}
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s-%02d-%02d", m[1], month, day), true
	}

	return "", false
}

// ParseTime 支持 H:MM 以及 H:MM AM/PM（大小写不敏感），输出 24 小时制 HH:MM
func ParseTime(text string) (string, bool) {
	text = strings.ToUpper(strings.TrimSpace(text))
	if text == "" {
		return "", false
	}

	m := timePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute < 0 || minute > 59 {
		return "", false
	}

	switch m[3] {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}

	if hour < 0 || hour > 23 {
		return "", false
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ToMinutes 把 HH:MM 转换为当天零点起的分钟数
func ToMinutes(clock string) (int, bool) {
	h, m, found := strings.Cut(clock, ":")
	if !found {
		return 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// Duration 计算工作时长（小时，保留两位小数）。离开时间早于到达时间时视为跨夜班次
func Duration(arrival, departure string) float64 {
	start, ok := ToMinutes(arrival)
	if !ok {
		return 0
	}
	end, ok := ToMinutes(departure)
	if !ok {
		return 0
	}

	diff := end - start
	if diff < 0 {
		diff += minutesPerDay
	}

	return Round2(float64(diff) / 60)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatRegularTime 把 24 小时制转换为 12 小时制，例如 13:05 -> 1:05 PM
func FormatRegularTime(clock string) string {
	minutes, ok := ToMinutes(clock)
	if !ok {
		return ""
	}

	hour, minute := minutes/60, minutes%60
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minute, suffix)
}

func FormatTimeRange(arrival, departure string) string {
	return FormatRegularTime(arrival) + " - " + FormatRegularTime(departure)
}

// FormatDateLabel 把 YYYY-MM-DD 转换为 Jan 2, 2006 这样的展示格式，无法解析时原样返回
func FormatDateLabel(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
