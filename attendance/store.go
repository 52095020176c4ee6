/*
store.go - Persistence interface for attendance records

PURPOSE:
  Defines the interface between the state machine and the database.

KEY INVARIANT:
  At most one record per (employee, date). Implementations back this with a
  unique index; the Machine additionally serializes read-modify-write per
  key so concurrent punches cannot race past the check.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - store/memory: in-memory for testing
*/
package attendance

import (
	"context"

	"github.com/warp/payroll-engine/calendar"
)

type Store interface {
	// Get returns the record for (employee, date) or ErrRecordNotFound.
	Get(ctx context.Context, employeeID string, date calendar.Date) (Record, error)

	// GetByID returns the record with the given id or ErrRecordNotFound.
	GetByID(ctx context.Context, id string) (Record, error)

	// Save inserts or updates a record keyed by (employee, date).
	Save(ctx context.Context, r Record) error

	// ListByDate returns all records for a calendar day.
	ListByDate(ctx context.Context, date calendar.Date) ([]Record, error)

	// ListForPeriod returns one employee's records inside [Start, End],
	// ordered by date.
	ListForPeriod(ctx context.Context, employeeID string, p calendar.Period) ([]Record, error)

	// ListByStatus returns all records in a given state (dispute queue).
	ListByStatus(ctx context.Context, status Status) ([]Record, error)
}
