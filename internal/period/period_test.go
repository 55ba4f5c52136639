package period

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sysu-ecnc-dev/timesheet-clash/backend/internal/domain"
)

func TestGenerateFirstThree(t *testing.T) {
	periods := Generate(3, 2026)
	require.Len(t, periods, 3)

	assert.Equal(t, "2026-01-26", periods[0].StartDate)
	assert.Equal(t, "2026-02-26", periods[0].EndDate)
	assert.Equal(t, "period_2026-01-26_2026-02-26", periods[0].ID)
	assert.Equal(t, "Jan 26 – Feb 26", periods[0].Label)

	assert.Equal(t, "2026-02-27", periods[1].StartDate)
	assert.Equal(t, "2026-03-26", periods[1].EndDate)
	assert.Equal(t, "Feb 27 – Mar 26", periods[1].Label)

	assert.Equal(t, "2026-03-27", periods[2].StartDate)
	assert.Equal(t, "2026-04-26", periods[2].EndDate)

	for i := 1; i < len(periods); i++ {
		assert.Less(t, periods[i-1].EndDate, periods[i].StartDate)
		assert.Less(t, periods[i-1].ID, periods[i].ID)
	}
}

func TestGenerateRollsYear(t *testing.T) {
	periods := Generate(13, 2026)
	require.Len(t, periods, 13)

	// 第 11 个周期结束于 12 月，第 12 个跨年
	assert.Equal(t, "2026-11-27", periods[10].StartDate)
	assert.Equal(t, "2026-12-26", periods[10].EndDate)
	assert.Equal(t, "2026-12-27", periods[11].StartDate)
	assert.Equal(t, "2027-01-26", periods[11].EndDate)

	// 只有第一个周期从 26 日开始
	assert.Equal(t, "2027-01-27", periods[12].StartDate)
	assert.Equal(t, "2027-02-26", periods[12].EndDate)
}

func TestGenerateIsDeterministic(t *testing.T) {
	assert.Equal(t, Generate(12, 2030), Generate(12, 2030))
	assert.Empty(t, Generate(0, 2026))
	assert.Empty(t, Generate(-1, 2026))
}

func TestLookupHelpers(t *testing.T) {
	periods := Generate(3, 2026)

	p, ok := Find(periods, "period_2026-02-27_2026-03-26")
	require.True(t, ok)
	assert.Equal(t, periods[1], p)

	_, ok = Find(periods, "period_missing")
	assert.False(t, ok)

	p, ok = ForDate(periods, "2026-02-26")
	require.True(t, ok)
	assert.Equal(t, periods[0], p)

	_, ok = ForDate(periods, "2025-12-31")
	assert.False(t, ok)

	shifts := []*domain.Shift{
		{ID: 1, Date: "2026-01-25"},
		{ID: 2, Date: "2026-01-26"},
		{ID: 3, Date: "2026-02-26"},
		{ID: 4, Date: "2026-02-27"},
	}
	filtered := Filter(periods[0], shifts)
	require.Len(t, filtered, 2)
	assert.Equal(t, int64(2), filtered[0].ID)
	assert.Equal(t, int64(3), filtered[1].ID)
}

func TestParseID(t *testing.T) {
	for _, want := range Generate(14, 2024) {
		got, ok := ParseID(want.ID)
		require.True(t, ok, want.ID)
		assert.Equal(t, want, got)
	}

	for _, id := range []string{"", "period_", "period_2024-01-26", "foo_2024-01-26_2024-02-26", "period_2024-02-26_2024-01-26", "period_2024-13-01_2024-14-01"} {
		_, ok := ParseID(id)
		assert.False(t, ok, id)
	}
}
