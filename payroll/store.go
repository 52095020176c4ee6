/*
store.go - Persistence interfaces for payroll snapshots and runs

REPLACEMENT CONTRACT:
  Replace is an atomic upsert keyed by (employee, month, year): at no point
  does the period have zero or two live records for an employee. A crash
  mid-generation can therefore never leave stale and fresh snapshots
  coexisting.
*/
package payroll

import "context"

type Store interface {
	// Replace atomically supersedes any record for (employee, month, year)
	// with rec.
	Replace(ctx context.Context, rec Record) error

	// GetByID returns the record or ErrNotFound. Lookup by the unguessable
	// id is the payslip read path.
	GetByID(ctx context.Context, id string) (Record, error)

	// ListByPeriod returns all records for (month, year).
	ListByPeriod(ctx context.Context, month, year int) ([]Record, error)

	// ListAll returns every record, newest period first.
	ListAll(ctx context.Context) ([]Record, error)
}

// RunStore records generation invocations for audit and scheduling.
type RunStore interface {
	SaveRun(ctx context.Context, run Run) error

	ListRuns(ctx context.Context) ([]Run, error)

	// HasCompletedRun reports whether (month, year) already has a
	// COMPLETED run. The scheduler uses this to fire once per period.
	HasCompletedRun(ctx context.Context, month, year int) (bool, error)
}
