package extractor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

const sampleCSV = `Date, Arrival Time ,DEPARTURE TIME,Hours Worked
02/01/2024,9:00 AM,5:00 PM,8
02/02/2024,,5:00 PM,
2024-02-03,22:00,06:00,
02/04/2024,9:00,17:30,abc

13/02/2024,9:00,17:00,
`

func TestParseTabularSkipsIncompleteRows(t *testing.T) {
	entries, err := ParseTabular(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	require.Equal(t, []domain.ShiftEntry{
		{Date: "2024-02-01", ArrivalTime: "09:00", DepartureTime: "17:00", HoursWorked: 8},
		{Date: "2024-02-03", ArrivalTime: "22:00", DepartureTime: "06:00", HoursWorked: 8},
		{Date: "2024-02-04", ArrivalTime: "09:00", DepartureTime: "17:30", HoursWorked: 8.5},
	}, entries)
}

func TestParseTabularShortAliases(t *testing.T) {
	csv := "date,arrival,departure,hours\n3/5/2024,8:15 am,12:45 pm,\n"
	entries, err := ParseTabular(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2024-03-05", entries[0].Date)
	assert.Equal(t, "08:15", entries[0].ArrivalTime)
	assert.Equal(t, "12:45", entries[0].DepartureTime)
	assert.Equal(t, 4.5, entries[0].HoursWorked)
}

func TestParseTabularHeaderOnlyAndEmpty(t *testing.T) {
	entries, err := ParseTabular(strings.NewReader("DATE,ARRIVAL TIME,DEPARTURE TIME\n"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	entries, err = ParseTabular(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestParseTabularDecodesUTF16WithBOM(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(sampleCSV)
	require.NoError(t, err)

	entries, err := ParseTabular(strings.NewReader(encoded))
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestParseTabularStripsUTF8BOM(t *testing.T) {
	entries, err := ParseTabular(strings.NewReader("\ufeffDATE,ARRIVAL,DEPARTURE\n2/1/2024,9:00,10:00\n"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1.0, entries[0].HoursWorked)
}

func TestParseTabularRejectsUndecodableBytes(t *testing.T) {
	_, err := ParseTabular(strings.NewReader("DATE,ARRIVAL,DEPARTURE\n\x80\x81,9:00,10:00\n"))
	require.ErrorIs(t, err, ErrUnreadableDocument)
}

func TestResolveColumn(t *testing.T) {
	rec := Record{
		Header: []string{" arrival time ", "Arrival", "DATE"},
		Values: []string{"  ", "9:00", "2/1/2024"},
	}

	// 第一个别名的值为空时退回下一个别名
	v, ok := ResolveColumn(ArrivalAliases, rec)
	require.True(t, ok)
	assert.Equal(t, "9:00", v)

	_, ok = ResolveColumn(DepartureAliases, rec)
	assert.False(t, ok)

	// 值比表头短
	_, ok = ResolveColumn(DateAliases, Record{Header: rec.Header, Values: rec.Values[:1]})
	assert.False(t, ok)
}

func TestParseTabularHoursColumn(t *testing.T) {
	csv := "DATE,ARRIVAL,DEPARTURE,HOURS\n" +
		"2/1/2024,9:00,17:00,Inf\n" +
		"2/2/2024,9:00,17:00,+Infinity\n" +
		"2/3/2024,9:00,17:00,NaN\n" +
		"2/4/2024,9:00,17:00,8.3333\n" +
		"2/5/2024,9:00,17:00,-1\n"

	entries, err := ParseTabular(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, entries, 5)

	// 非有限值和负数退回按时间计算的工时
	for _, i := range []int{0, 1, 2, 4} {
		assert.Equal(t, 8.0, entries[i].HoursWorked, entries[i].Date)
	}
	assert.Equal(t, 8.33, entries[3].HoursWorked)

	_, err = json.Marshal(entries)
	assert.NoError(t, err)
}

func TestParseTabularKeepsReplacementCharacter(t *testing.T) {
	entries, err := ParseTabular(strings.NewReader("DATE,ARRIVAL,DEPARTURE,NOTE\n2/1/2024,9:00,10:00,\ufffd\n"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestParseTabularRejectsTruncatedUTF16(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder().String(sampleCSV)
	require.NoError(t, err)

	_, err = ParseTabular(strings.NewReader(encoded[:len(encoded)-1]))
	require.ErrorIs(t, err, ErrUnreadableDocument)
}
