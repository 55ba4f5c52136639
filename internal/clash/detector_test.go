package clash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

func shift(id, owner int64, name, date, arrival, departure string) *domain.Shift {
	return &domain.Shift{
		ID:               id,
		OwnerID:          owner,
		OwnerDisplayName: name,
		TeamID:           1,
		Date:             date,
		ArrivalTime:      arrival,
		DepartureTime:    departure,
	}
}

func TestCompareProducesOneClashPerPair(t *testing.T) {
	shifts := []*domain.Shift{
		shift(1, 1, "Sarah", "2024-02-01", "09:00", "17:00"),
		shift(2, 2, "Mike", "2024-02-01", "16:00", "18:00"),
	}

	clashes := Compare(shifts)
	require.Len(t, clashes, 1)

	c := clashes[0]
	assert.Equal(t, int64(1), c.SubjectEntryID)
	assert.Equal(t, "Mike", c.CounterpartDisplayName)
	assert.Equal(t, "4:00 PM - 6:00 PM", c.CounterpartTimeRange)
	assert.Equal(t, domain.SeverityCritical, c.Severity)
	assert.Equal(t, "On Feb 1, 2024: Sarah (9:00 AM - 5:00 PM) overlaps with Mike (4:00 PM - 6:00 PM)", c.Message)
	require.NotNil(t, c.Details)
	assert.Equal(t, "Sarah", c.Details.Subject.Name)
	assert.Equal(t, "Feb 1, 2024", c.Details.Date)

	// 输入顺序颠倒时依然只有一条
	reversed := Compare([]*domain.Shift{shifts[1], shifts[0]})
	require.Len(t, reversed, 1)
	assert.Equal(t, int64(2), reversed[0].SubjectEntryID)
}

func TestCompareTouchingIsNotOverlap(t *testing.T) {
	clashes := Compare([]*domain.Shift{
		shift(1, 1, "A", "2024-02-01", "09:00", "12:00"),
		shift(2, 2, "B", "2024-02-01", "12:00", "15:00"),
	})
	assert.Empty(t, clashes)
}

func TestCompareIgnoresSameOwnerAndOtherDates(t *testing.T) {
	clashes := Compare([]*domain.Shift{
		shift(1, 1, "A", "2024-02-01", "09:00", "17:00"),
		shift(2, 1, "A", "2024-02-01", "10:00", "11:00"),
		shift(3, 2, "B", "2024-02-02", "10:00", "11:00"),
	})
	assert.Empty(t, clashes)
}

func TestCompareSkipsMalformedShifts(t *testing.T) {
	clashes := Compare([]*domain.Shift{
		nil,
		shift(1, 1, "A", "2024-02-01", "9am", "17:00"),
		shift(2, 2, "B", "2024-02-01", "10:00", "25:00"),
		shift(3, 3, "C", "2024-02-01", "10:00", "11:00"),
	})
	assert.Empty(t, clashes)
}

func TestCompareManyOwners(t *testing.T) {
	shifts := []*domain.Shift{
		shift(1, 1, "A", "2024-02-01", "09:00", "17:00"),
		shift(2, 2, "B", "2024-02-01", "10:00", "11:00"),
		shift(3, 3, "C", "2024-02-01", "10:30", "12:00"),
		shift(4, 2, "B", "2024-02-01", "16:30", "18:00"),
	}

	clashes := Compare(shifts)
	// A-B 两条、A-C 一条、B-C 一条
	require.Len(t, clashes, 4)

	ids := make(map[string]bool)
	for _, c := range clashes {
		assert.False(t, ids[c.ID], "duplicate clash id")
		ids[c.ID] = true
	}

	// 结果是确定的
	assert.Equal(t, clashes, Compare(shifts))
}

func TestCompareBatch(t *testing.T) {
	results := []*domain.BatchResult{
		{
			FileName: "jane.pdf",
			Worker:   domain.WorkerMetadata{DisplayName: "Jane", Position: "Tutor"},
			Entries: []domain.ShiftEntry{
				{Date: "2025-11-27", ArrivalTime: "09:00", DepartureTime: "17:00"},
			},
		},
		{
			FileName: "john.pdf",
			Worker:   domain.DefaultWorkerMetadata(),
			Entries: []domain.ShiftEntry{
				{Date: "2025-11-27", ArrivalTime: "08:00", DepartureTime: "09:30"},
				{Date: "2025-11-28", ArrivalTime: "08:00", DepartureTime: "09:30"},
			},
		},
	}

	clashes := CompareBatch(results)
	require.Len(t, clashes, 1)
	assert.Equal(t, "Overlap on Nov 27, 2025: Jane vs Unknown worker", clashes[0].Message)
	assert.Equal(t, "File: jane.pdf", clashes[0].Details.Subject.Description)
	assert.Equal(t, "File: john.pdf", clashes[0].Details.Counterpart.Description)
	assert.Equal(t, domain.SeverityCritical, clashes[0].Severity)
}

func TestCheckEntry(t *testing.T) {
	existing := []*domain.Shift{
		shift(10, 1, "Me", "2024-02-01", "08:00", "10:00"),
		shift(11, 2, "Sarah Jenkins", "2024-02-01", "09:00", "17:00"),
		shift(12, 3, "Mike Ross", "2024-02-02", "10:00", "15:00"),
	}
	candidate := shift(0, 1, "Me", "2024-02-01", "08:55", "17:05")

	warnings := CheckEntry(candidate, existing)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.SeverityWarning, warnings[0].Severity)
	assert.Equal(t, "Overlaps with Sarah Jenkins (9:00 AM - 5:00 PM)", warnings[0].Message)
	assert.Nil(t, warnings[0].Details)

	assert.Empty(t, CheckEntry(shift(0, 1, "Me", "2024-02-01", "bad", "17:00"), existing))
	assert.Empty(t, CheckEntry(nil, existing))
}
