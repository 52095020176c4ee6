/*
Package calendar provides day-granularity dates and month-period math.

PURPOSE:
  Attendance is keyed by calendar day and payroll is computed over calendar
  months, so both packages need the same answers to "which day is this?" and
  "how many working days does this month have?". This package is the single
  source of those answers.

KEY CONCEPTS:
  - Date:   A calendar day (no time-of-day component, always UTC)
  - Period: An inclusive [Start, End] date range
  - Working day: A day in a period whose weekday is not the configured
    weekly rest day

DESIGN PRINCIPLES:
  1. Day granularity: Date normalizes away hours/minutes so two timestamps
     on the same day always compare equal as dates.
  2. Inclusive ranges: Period bounds are [Start, End], matching how months
     are described ("Nov 1 to Nov 30").

SEE ALSO:
  - attendance: uses Date as the record key
  - payroll: uses MonthOf and Period.WorkingDays for rate math
*/
package calendar

import "time"

// =============================================================================
// DATE - Calendar day, no time-of-day
// =============================================================================

type Date struct {
	t time.Time
}

// NewDate constructs a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }
func (d Date) Time() time.Time       { return d.t }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// =============================================================================
// PERIOD - Inclusive date range
// =============================================================================

type Period struct {
	Start Date
	End   Date
}

// MonthOf returns the period covering a whole calendar month.
func MonthOf(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	end := Date{t: start.t.AddDate(0, 1, -1)}
	return Period{Start: start, End: end}
}

// Contains reports whether the date falls inside [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns every day in the period in order.
func (p Period) Days() []Date {
	var days []Date
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// WorkingDays counts the days in the period whose weekday differs from the
// weekly rest day.
func (p Period) WorkingDays(restDay time.Weekday) int {
	count := 0
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		if d.Weekday() != restDay {
			count++
		}
	}
	return count
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
