/*
Package payroll implements the monthly salary generation engine.

PURPOSE:
  For a (month, year) the engine reads every employee, their attendance
  records and charge sheets for the period, and produces one immutable
  PayrollRecord snapshot per active employee. Generation is idempotent:
  re-running a period replaces the previous snapshots wholesale.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: Frozen monthly salary snapshot, keyed by an unguessable uuid
  - Run:    Bookkeeping row for one generation invocation

SNAPSHOT SEMANTICS:
  Record copies the employee's name, designation and image at generation
  time. Later edits to the employee never alter an issued payslip; the
  only way to change a record is to regenerate the whole period.

SEE ALSO:
  - engine.go: The generation algorithm
  - store.go: Persistence interfaces
*/
package payroll

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORD - Immutable monthly salary snapshot
// =============================================================================

type Record struct {
	// ID is a random uuid. The identifier space is the access-control
	// boundary for payslip reads, so it must be unguessable.
	ID string

	EmployeeID string

	// Snapshotted employee attributes, frozen at generation time.
	EmployeeName string
	Designation  string
	ImageURL     string

	Month int
	Year  int

	// PayableBasic is dailyRate x presentDays, not the contractual basic.
	PayableBasic decimal.Decimal

	// OvertimePay is overtime hours x (hourly rate x 1.5).
	OvertimePay decimal.Decimal

	// Deductions is tax + penalties + fixed deduction.
	Deductions decimal.Decimal

	NetPay decimal.Decimal

	GeneratedAt time.Time
}

// =============================================================================
// RUN - One generation invocation
// =============================================================================

type RunStatus string

const (
	RunCompleted RunStatus = "COMPLETED"
	RunPartial   RunStatus = "PARTIAL"
	RunFailed    RunStatus = "FAILED"
)

type Run struct {
	ID    string
	Month int
	Year  int

	Status RunStatus

	// Processed counts employees with a written snapshot; Skipped counts
	// suspended employees; Failed counts isolated per-employee errors.
	Processed int
	Skipped   int
	Failed    int

	Error string

	StartedAt   time.Time
	CompletedAt time.Time
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when no payroll record has the given id.
	ErrNotFound = errors.New("payroll record not found")

	// ErrInvalidPeriod is returned for a month outside 1-12.
	ErrInvalidPeriod = errors.New("invalid payroll period")

	// ErrNoWorkingDays aborts a generation run whose period contains no
	// working days. Configuration error, fatal to the run only.
	ErrNoWorkingDays = errors.New("no working days in period")
)

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
