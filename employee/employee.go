// Package employee defines the employee directory consumed by the core.
// The payroll engine reads it; lifecycle management (hiring, profile edits,
// authentication) belongs to external collaborators.
package employee

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE - Directory entry
// =============================================================================

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

type Employee struct {
	ID          string
	Name        string
	Designation string
	ImageURL    string

	// BasicSalary is the monthly base salary. Never negative.
	BasicSalary decimal.Decimal

	// OvertimeRatePerHour is stored per employee but the engine derives the
	// overtime rate dynamically (hourly x 1.5); the field is retained for
	// directory compatibility.
	OvertimeRatePerHour decimal.Decimal

	// Deductions is a fixed monthly deduction (transport, lunch, etc).
	Deductions decimal.Decimal

	Status Status
}

// Suspended reports whether payroll should skip this employee entirely.
func (e Employee) Suspended() bool { return e.Status == StatusSuspended }

// =============================================================================
// DIRECTORY - Read-mostly store interface
// =============================================================================

// ErrNotFound is returned when an employee id has no directory entry.
var ErrNotFound = errors.New("employee not found")

type Directory interface {
	// Get returns the employee or ErrNotFound.
	Get(ctx context.Context, id string) (Employee, error)

	// List returns all employees, suspended included. Callers filter.
	List(ctx context.Context) ([]Employee, error)

	// Save inserts or updates a directory entry.
	Save(ctx context.Context, e Employee) error
}
