package extractor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/timeutil"
)

var (
	DateAliases      = []string{"DATE"}
	ArrivalAliases   = []string{"ARRIVAL TIME", "ARRIVAL"}
	DepartureAliases = []string{"DEPARTURE TIME", "DEPARTURE"}
	HoursAliases     = []string{"HOURS WORKED", "HOURS"}
)

// Record 是表格中按表头取值的一行
type Record struct {
	Header []string
	Values []string
}

// ResolveColumn 按别名顺序查找列，列名去除首尾空白后大小写不敏感匹配。
// 值为空的列视为不存在，继续尝试下一个别名
func ResolveColumn(aliases []string, rec Record) (string, bool) {
	for _, alias := range aliases {
		for i, name := range rec.Header {
			if !strings.EqualFold(strings.TrimSpace(name), alias) {
				continue
			}
			if i >= len(rec.Values) {
				continue
			}
			if v := strings.TrimSpace(rec.Values[i]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// ParseTabular 解析带表头的 CSV，缺少必要字段或字段无法规范化的行会被直接跳过
func ParseTabular(r io.Reader) ([]domain.ShiftEntry, error) {
	decoded, err := decodeText(r)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.ShiftEntry{}, nil
		}
		return nil, fmt.Errorf("%w: 无法读取表头: %v", ErrUnreadableDocument, err)
	}

	entries := make([]domain.ShiftEntry, 0)
	for {
		values, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
		}

		entry, ok := entryFromRecord(Record{Header: header, Values: values})
		if ok {
			entries = append(entries, entry)
		}
	}

	return entries, nil
}

func entryFromRecord(rec Record) (domain.ShiftEntry, bool) {
	rawDate, ok := ResolveColumn(DateAliases, rec)
	if !ok {
		return domain.ShiftEntry{}, false
	}
	rawArrival, ok := ResolveColumn(ArrivalAliases, rec)
	if !ok {
		return domain.ShiftEntry{}, false
	}
	rawDeparture, ok := ResolveColumn(DepartureAliases, rec)
	if !ok {
		return domain.ShiftEntry{}, false
	}

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

	hours := timeutil.Duration(arrival, departure)
	if rawHours, ok := ResolveColumn(HoursAliases, rec); ok {
		if v, err := strconv.ParseFloat(rawHours, 64); err == nil && v >= 0 && !math.IsInf(v, 0) {
			hours = timeutil.Round2(v)
		}
	}

	return domain.ShiftEntry{
		Date:          date,
		ArrivalTime:   arrival,
		DepartureTime: departure,
		HoursWorked:   hours,
	}, true
}
