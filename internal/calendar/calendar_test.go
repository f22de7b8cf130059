package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndFormat(t *testing.T) {
	cal := New(time.UTC)

	date, err := cal.Parse("2024-03-07")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", cal.Format(date))

	month, err := cal.Parse("2024-03")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", cal.Format(month))

	_, err = cal.Parse("07/03/2024")
	assert.Error(t, err)
}

func TestWeekBoundaries(t *testing.T) {
	cal := New(time.UTC)

	// 2024-03-07 是周四
	date := cal.Date(2024, time.March, 7)
	assert.Equal(t, "2024-03-04", cal.Format(cal.StartOfWeek(date)))
	assert.Equal(t, "2024-03-10", cal.Format(cal.EndOfWeek(date)))

	sunday := cal.Date(2024, time.March, 10)
	assert.Equal(t, "2024-03-04", cal.Format(cal.StartOfWeek(sunday)))

	week := cal.Week(date)
	require.Len(t, week, 7)
	assert.Equal(t, time.Monday, week[0].Weekday())
	assert.Equal(t, time.Sunday, week[6].Weekday())
}

func TestVisibleRange(t *testing.T) {
	cal := New(time.UTC)

	// 2024 年 3 月从周五开始，到周日结束
	dates := cal.VisibleRange(cal.Date(2024, time.March, 15))
	assert.Equal(t, "2024-02-26", cal.Format(dates[0]))
	assert.Equal(t, "2024-03-31", cal.Format(dates[len(dates)-1]))
	assert.Len(t, dates, 35)
	assert.Len(t, cal.Weeks(dates), 5)
}

func TestDayNames(t *testing.T) {
	for _, day := range DaysOfWeek() {
		parsed, err := ParseDayName(DayName(day))
		require.NoError(t, err)
		assert.Equal(t, day, parsed)
	}

	_, err := ParseDayName("FUNDAY")
	assert.Error(t, err)

	assert.True(t, IsWeekend(time.Saturday))
	assert.True(t, IsWeekend(time.Sunday))
	assert.False(t, IsWeekend(time.Friday))
}
