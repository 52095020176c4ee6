package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// DATE TESTS
// =============================================================================

func TestDate_TruncatesToDay(t *testing.T) {
	// GIVEN: A timestamp in the middle of a day
	ts := time.Date(2026, time.March, 15, 17, 42, 9, 0, time.UTC)

	// WHEN: Converting it to a Date
	d := calendar.DateOf(ts)

	// THEN: The clock portion is gone
	assert.Equal(t, "2026-03-15", d.String())
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), d.Time())
}

func TestDate_Ordering(t *testing.T) {
	a := calendar.NewDate(2026, time.January, 10)
	b := calendar.NewDate(2026, time.January, 11)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.True(t, a.BeforeOrEqual(a))
	assert.True(t, a.Equal(calendar.NewDate(2026, time.January, 10)))
	assert.False(t, a.Equal(b))
}

func TestParseDate(t *testing.T) {
	d, err := calendar.ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, 28, d.Day())

	_, err = calendar.ParseDate("28/02/2026")
	assert.Error(t, err)
}

func TestDate_AddDays_MonthBoundary(t *testing.T) {
	d := calendar.NewDate(2026, time.January, 31)
	assert.Equal(t, "2026-02-01", d.AddDays(1).String())
	assert.Equal(t, "2026-01-30", d.AddDays(-1).String())
}

// =============================================================================
// PERIOD TESTS
// =============================================================================

func TestMonthOf_Bounds(t *testing.T) {
	// GIVEN: February of a leap year
	p := calendar.MonthOf(2024, time.February)

	// THEN: The period spans the 1st through the 29th inclusive
	assert.Equal(t, "2024-02-01", p.Start.String())
	assert.Equal(t, "2024-02-29", p.End.String())
	assert.Len(t, p.Days(), 29)
}

func TestPeriod_Contains(t *testing.T) {
	p := calendar.MonthOf(2026, time.June)

	assert.True(t, p.Contains(calendar.NewDate(2026, time.June, 1)))
	assert.True(t, p.Contains(calendar.NewDate(2026, time.June, 30)))
	assert.False(t, p.Contains(calendar.NewDate(2026, time.May, 31)))
	assert.False(t, p.Contains(calendar.NewDate(2026, time.July, 1)))
}

func TestWorkingDays_ExcludesRestDay(t *testing.T) {
	// GIVEN: June 2026 has 30 days and four Fridays (5, 12, 19, 26)
	p := calendar.MonthOf(2026, time.June)

	// WHEN: Counting working days with Friday as rest day
	days := p.WorkingDays(time.Friday)

	// THEN: The four Fridays are excluded
	assert.Equal(t, 26, days)
}

func TestWorkingDays_DifferentRestDays(t *testing.T) {
	// January 2026 has 31 days; Thursdays and Fridays occur five times,
	// Sundays four times.
	p := calendar.MonthOf(2026, time.January)

	assert.Equal(t, 26, p.WorkingDays(time.Thursday))
	assert.Equal(t, 26, p.WorkingDays(time.Friday))
	assert.Equal(t, 27, p.WorkingDays(time.Sunday))
}
