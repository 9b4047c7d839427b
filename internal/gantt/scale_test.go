package gantt

import (
	"errors"
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = domain.NewDate(2025, 1, 1)

func TestSelectScale_Boundaries(t *testing.T) {
	cases := []struct {
		days int
		want domain.Scale
	}{
		{1, domain.ScaleDay},
		{30, domain.ScaleDay},
		{31, domain.ScaleWeek},
		{180, domain.ScaleWeek},
		{181, domain.ScaleMonth},
		{730, domain.ScaleMonth},
	}
	for _, tc := range cases {
		end := jan1.AddDate(0, 0, tc.days-1)
		got, err := SelectScale(jan1, end)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "days=%d", tc.days)
	}
}

func TestSelectScale_MonotoneAsRangeWidens(t *testing.T) {
	rank := map[domain.Scale]int{domain.ScaleDay: 0, domain.ScaleWeek: 1, domain.ScaleMonth: 2}
	prev := -1
	for days := 1; days <= 400; days++ {
		got, err := SelectScale(jan1, jan1.AddDate(0, 0, days-1))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[got], prev, "days=%d", days)
		prev = rank[got]
	}
}

func TestSelectScale_OriginalFixtures(t *testing.T) {
	got, err := SelectScale(jan1, domain.NewDate(2025, 1, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.ScaleDay, got)

	got, err = SelectScale(jan1, domain.NewDate(2025, 3, 15))
	require.NoError(t, err)
	assert.Equal(t, domain.ScaleWeek, got)

	got, err = SelectScale(jan1, domain.NewDate(2025, 8, 1))
	require.NoError(t, err)
	assert.Equal(t, domain.ScaleMonth, got)
}

func TestSelectScale_EndBeforeStart(t *testing.T) {
	_, err := SelectScale(jan1, jan1.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRange))
}

func TestRangeInfo(t *testing.T) {
	info, err := RangeInfo(jan1, jan1.AddDate(0, 0, 29))
	require.NoError(t, err)
	assert.Equal(t, 30, info.TotalDays)
	assert.InDelta(t, 4.3, info.TotalWeeks, 0.001)
	assert.InDelta(t, 1.0, info.TotalMonths, 0.001)
}

func TestDaysPerColumn(t *testing.T) {
	assert.Equal(t, 1, DaysPerColumn(domain.ScaleDay))
	assert.Equal(t, 7, DaysPerColumn(domain.ScaleWeek))
	assert.Equal(t, 30, DaysPerColumn(domain.ScaleMonth))
}
