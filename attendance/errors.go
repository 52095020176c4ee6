/*
errors.go - Error taxonomy for attendance operations

ERROR CATEGORIES:
  1. User errors - recoverable precondition failures reported to the caller
     (check-out with no open session, disputing a non-absent day)
  2. Not-found - a referenced record does not exist; never conflated with
     a validation error
  3. Invariant violations - illegal state transitions; indicate a caller
     bug, not user input

USAGE:
  if errors.Is(err, attendance.ErrNoActiveSession) { ... }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoActiveSession is returned by check-out when today has no open
	// check-in. The caller forgot to check in first; nothing is mutated.
	ErrNoActiveSession = errors.New("no active check-in session for today")

	// ErrDayComplete is returned when punching after both check-in and
	// check-out are already recorded for the day.
	ErrDayComplete = errors.New("workday already completed")

	// ErrRecordNotFound is returned when a record id or (employee, date)
	// key has no row.
	ErrRecordNotFound = errors.New("attendance record not found")

	// ErrDisputeNotAllowed is returned when disputing a day whose status
	// is not ABSENT.
	ErrDisputeNotAllowed = errors.New("only absent days can be disputed")

	// ErrDisputeNotOpen is returned when resolving a record that has no
	// open dispute.
	ErrDisputeNotOpen = errors.New("record has no open dispute")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// InvalidTransitionError reports an attempted illegal state change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "NO_RECORD"
	}
	return fmt.Sprintf("invalid attendance transition: %s -> %s", from, e.To)
}

// IsUserError reports whether the error is a recoverable precondition
// failure caused by caller input rather than a system fault.
func IsUserError(err error) bool {
	return errors.Is(err, ErrNoActiveSession) ||
		errors.Is(err, ErrDayComplete) ||
		errors.Is(err, ErrDisputeNotAllowed) ||
		errors.Is(err, ErrDisputeNotOpen)
}

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}
