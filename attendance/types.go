/*
Package attendance implements the check-in/check-out lifecycle for employee
attendance records.

PURPOSE:
  One record exists per (employee, calendar date). The record moves through
  an explicit state machine: created at check-in, classified at check-out by
  the 8-hour rule, optionally disputed when marked absent, and finally
  resolved by an administrator. Payroll reads the resulting records; it never
  mutates them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: The per-day attendance row
  - Status: Tagged enumeration of lifecycle states
  - transitions: The allowed state-transition table, enforced at every
    mutation site

THE 8-HOUR RULE:
  workHours >= 8.0 at check-out means a full day: status PRESENT, hours
  above 8 become overtime. Below 8.0 the day is SHORT_WORK and does NOT
  count as present for basic-pay proration. This is the load-bearing
  business policy of the whole system.

SEE ALSO:
  - machine.go: State machine operations (check-in, check-out, disputes)
  - store.go: Persistence interface
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// STATUS - Lifecycle states with an explicit transition table
// =============================================================================

type Status string

const (
	// StatusNone is the implicit state before any record exists for a day.
	StatusNone Status = ""

	// StatusCheckedIn means the employee punched in and the day is open.
	// Present is set optimistically; check-out decides the final state.
	StatusCheckedIn Status = "CHECKED_IN"

	// StatusPresent means check-out measured >= 8 hours of work.
	StatusPresent Status = "PRESENT"

	// StatusShortWork means check-out measured < 8 hours. The record exists
	// but does not count as present for payroll.
	StatusShortWork Status = "SHORT_WORK"

	// StatusPresentManual means an administrator marked the day present,
	// either directly or by accepting a dispute.
	StatusPresentManual Status = "PRESENT_MANUAL"

	// StatusAbsent means the day is marked absent.
	StatusAbsent Status = "ABSENT"

	// StatusDisputeOpen means the employee contested an ABSENT mark and an
	// administrator has not yet ruled on it.
	StatusDisputeOpen Status = "DISPUTE_OPEN"
)

// transitions is the allowed state machine. Any mutation whose (from, to)
// pair is absent here is rejected with an InvalidTransitionError.
var transitions = map[Status][]Status{
	StatusNone:          {StatusCheckedIn, StatusPresentManual, StatusAbsent},
	StatusCheckedIn:     {StatusPresent, StatusShortWork, StatusPresentManual, StatusAbsent},
	StatusPresent:       {StatusPresent, StatusAbsent},
	StatusShortWork:     {StatusPresentManual, StatusAbsent},
	StatusPresentManual: {StatusPresentManual, StatusAbsent},
	StatusAbsent:        {StatusDisputeOpen, StatusPresentManual, StatusAbsent},
	StatusDisputeOpen:   {StatusPresentManual, StatusAbsent},
}

// CanTransition reports whether from -> to is a legal state change.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CountsAsPresent reports whether a status marks the day present for payroll.
func (s Status) CountsAsPresent() bool {
	return s == StatusCheckedIn || s == StatusPresent || s == StatusPresentManual
}

// =============================================================================
// RECORD - One attendance row per (employee, date)
// =============================================================================

type Record struct {
	ID         string
	EmployeeID string
	Date       calendar.Date

	// CheckInTime/CheckOutTime are nil until the corresponding punch happens.
	// Manually marked days never have punch times.
	CheckInTime  *time.Time
	CheckOutTime *time.Time

	// WorkHours and OvertimeHours are derived at check-out (or forced by
	// dispute acceptance / manual mark), rounded half-up to 2 decimals.
	WorkHours     decimal.Decimal
	OvertimeHours decimal.Decimal

	// Present is the payroll-facing flag. SHORT_WORK days are not present.
	Present bool

	Status Status

	// DisputeReason holds the employee's explanation, annotated by the
	// admin decision on resolution.
	DisputeReason string
}

// transitionTo validates and applies a status change.
func (r *Record) transitionTo(to Status) error {
	if !CanTransition(r.Status, to) {
		return &InvalidTransitionError{From: r.Status, To: to}
	}
	r.Status = to
	return nil
}

// Open reports whether the day has a check-in but no check-out yet.
func (r *Record) Open() bool {
	return r.CheckInTime != nil && r.CheckOutTime == nil
}
