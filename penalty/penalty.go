/*
Package penalty manages charge sheets: fines issued against employees that
payroll deducts from a future salary run.

LIFECYCLE:
  PENDING -> DEDUCTED, exactly once, at the moment a payroll run consumes
  the sheet. DEDUCTED sheets are immutable and excluded from every later
  run. Sheets are deletable only while PENDING.
*/
package penalty

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
)

// =============================================================================
// CHARGE SHEET
// =============================================================================

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusDeducted Status = "DEDUCTED"
)

type ChargeSheet struct {
	ID         string
	EmployeeID string
	Reason     string
	Amount     decimal.Decimal
	IssueDate  calendar.Date
	Status     Status
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrNotFound is returned when a charge sheet id has no row.
	ErrNotFound = errors.New("charge sheet not found")

	// ErrAlreadyDeducted is returned when deleting or mutating a sheet a
	// payroll run has already consumed.
	ErrAlreadyDeducted = errors.New("charge sheet already deducted")

	// ErrInvalidAmount is returned for negative penalty amounts.
	ErrInvalidAmount = errors.New("penalty amount cannot be negative")
)

// =============================================================================
// STORE
// =============================================================================

type Store interface {
	// Get returns the sheet or ErrNotFound.
	Get(ctx context.Context, id string) (ChargeSheet, error)

	// Save inserts or updates a sheet.
	Save(ctx context.Context, cs ChargeSheet) error

	// Delete removes a sheet by id.
	Delete(ctx context.Context, id string) error

	// ListByEmployee returns all sheets for one employee, newest first.
	ListByEmployee(ctx context.Context, employeeID string) ([]ChargeSheet, error)

	// ListForPeriod returns one employee's sheets with issue date inside
	// [Start, End], any status.
	ListForPeriod(ctx context.Context, employeeID string, p calendar.Period) ([]ChargeSheet, error)

	// ListAll returns every sheet, newest first.
	ListAll(ctx context.Context) ([]ChargeSheet, error)
}

// =============================================================================
// BOOK - Issue/delete operations over the store
// =============================================================================

// Book wraps the store with the lifecycle rules.
type Book struct {
	store Store
	clock func() time.Time
}

func NewBook(store Store) *Book {
	return NewBookWithClock(store, time.Now)
}

func NewBookWithClock(store Store, clock func() time.Time) *Book {
	return &Book{store: store, clock: clock}
}

// Issue creates a PENDING charge sheet dated today.
func (b *Book) Issue(ctx context.Context, employeeID, reason string, amount decimal.Decimal) (ChargeSheet, error) {
	if amount.IsNegative() {
		return ChargeSheet{}, ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return ChargeSheet{}, errors.New("penalty reason is required")
	}

	cs := ChargeSheet{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Reason:     reason,
		Amount:     amount,
		IssueDate:  calendar.DateOf(b.clock().UTC()),
		Status:     StatusPending,
	}
	if err := b.store.Save(ctx, cs); err != nil {
		return ChargeSheet{}, fmt.Errorf("save charge sheet: %w", err)
	}
	return cs, nil
}

// Delete removes a sheet, allowed only while PENDING. A DEDUCTED sheet is
// part of an issued payroll snapshot and must stay.
func (b *Book) Delete(ctx context.Context, id string) error {
	cs, err := b.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if cs.Status == StatusDeducted {
		return ErrAlreadyDeducted
	}
	return b.store.Delete(ctx, id)
}
