/*
machine.go - Attendance state machine operations

PURPOSE:
  All mutations of attendance records go through the Machine. It owns the
  lifecycle rules (when a punch creates vs. closes a day, the 8-hour rule,
  dispute gating) and the per-key serialization that keeps concurrent
  punches from creating duplicate rows.

OPERATIONS:
  CheckIn:        Create today's record; falls through to check-out when a
                  record already exists (a second punch means "I'm leaving")
  CheckOut:       Close today's open session and classify by the 8-hour rule
  ManualMark:     Admin path; set present/absent directly for any date
  SubmitDispute:  Employee contests an ABSENT day
  ResolveDispute: Admin accepts or rejects; terminal for that day

CONCURRENCY:
  The read-then-write sequence for one (employee, date) is a critical
  section. A keyed mutex serializes it; different employees (or different
  days) never contend. The store's unique index is the backstop.

SEE ALSO:
  - types.go: Record, Status, transition table
  - store.go: Persistence interface
*/
package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// MACHINE
// =============================================================================

type Machine struct {
	store Store
	clock func() time.Time
	locks keyedMutex
}

// NewMachine creates a state machine over the given store.
func NewMachine(store Store) *Machine {
	return NewMachineWithClock(store, time.Now)
}

// NewMachineWithClock allows tests to control the current time.
func NewMachineWithClock(store Store, clock func() time.Time) *Machine {
	return &Machine{store: store, clock: clock}
}

// =============================================================================
// SELF-SERVICE PUNCHES
// =============================================================================

// CheckIn opens today's attendance for the employee. If a record already
// exists the punch is treated as a check-out attempt instead: an open
// session is closed, a completed day yields ErrDayComplete.
func (m *Machine) CheckIn(ctx context.Context, employeeID string) (Record, error) {
	now := m.clock().UTC()
	today := calendar.DateOf(now)

	unlock := m.locks.lock(lockKey(employeeID, today))
	defer unlock()

	existing, err := m.store.Get(ctx, employeeID, today)
	switch {
	case errors.Is(err, ErrRecordNotFound):
		// First punch of the day: open the session. Present is optimistic;
		// check-out decides the final classification.
		rec := Record{
			ID:          uuid.NewString(),
			EmployeeID:  employeeID,
			Date:        today,
			CheckInTime: &now,
			Present:     true,
		}
		if err := rec.transitionTo(StatusCheckedIn); err != nil {
			return Record{}, err
		}
		if err := m.store.Save(ctx, rec); err != nil {
			return Record{}, fmt.Errorf("save check-in: %w", err)
		}
		return rec, nil

	case err != nil:
		return Record{}, err

	default:
		return m.checkOutLocked(ctx, existing, now)
	}
}

// CheckOut closes today's open session. Fails with ErrNoActiveSession when
// there is nothing to close; no record is created or mutated in that case.
func (m *Machine) CheckOut(ctx context.Context, employeeID string) (Record, error) {
	now := m.clock().UTC()
	today := calendar.DateOf(now)

	unlock := m.locks.lock(lockKey(employeeID, today))
	defer unlock()

	existing, err := m.store.Get(ctx, employeeID, today)
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, ErrNoActiveSession
	}
	if err != nil {
		return Record{}, err
	}
	return m.checkOutLocked(ctx, existing, now)
}

// checkOutLocked applies the 8-hour rule. Caller holds the key lock.
func (m *Machine) checkOutLocked(ctx context.Context, rec Record, now time.Time) (Record, error) {
	if rec.CheckInTime == nil {
		return Record{}, ErrNoActiveSession
	}
	if rec.CheckOutTime != nil {
		return Record{}, ErrDayComplete
	}

	minutes := int64(now.Sub(*rec.CheckInTime).Minutes())
	workHours := money.HoursBetweenMinutes(minutes)

	rec.CheckOutTime = &now
	rec.WorkHours = workHours

	if workHours.GreaterThanOrEqual(money.StandardWorkHours) {
		// Full day: everything above the 8-hour standard is overtime.
		rec.Present = true
		rec.OvertimeHours = money.Round2(workHours.Sub(money.StandardWorkHours))
		if err := rec.transitionTo(StatusPresent); err != nil {
			return Record{}, err
		}
	} else {
		// Short day: the record stays but does not count as present.
		rec.Present = false
		rec.OvertimeHours = decimal.Zero
		if err := rec.transitionTo(StatusShortWork); err != nil {
			return Record{}, err
		}
	}

	if err := m.store.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save check-out: %w", err)
	}
	return rec, nil
}

// =============================================================================
// ADMINISTRATIVE MARKING
// =============================================================================

// ManualMark sets a day present or absent without punches, creating the
// record when missing. Used for days the self-service flow never touched.
func (m *Machine) ManualMark(ctx context.Context, employeeID string, date calendar.Date, present bool, overtimeHours decimal.Decimal) (Record, error) {
	unlock := m.locks.lock(lockKey(employeeID, date))
	defer unlock()

	rec, err := m.store.Get(ctx, employeeID, date)
	if errors.Is(err, ErrRecordNotFound) {
		rec = Record{
			ID:         uuid.NewString(),
			EmployeeID: employeeID,
			Date:       date,
		}
	} else if err != nil {
		return Record{}, err
	}

	rec.Present = present
	rec.OvertimeHours = money.Round2(overtimeHours)

	target := StatusAbsent
	if present {
		// A checked-out full day keeps its measured PRESENT status; every
		// other present mark is explicitly manual.
		if rec.Status == StatusPresent {
			target = StatusPresent
		} else {
			target = StatusPresentManual
		}
	}
	if err := rec.transitionTo(target); err != nil {
		return Record{}, err
	}

	if err := m.store.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save manual mark: %w", err)
	}
	return rec, nil
}

// =============================================================================
// DISPUTES
// =============================================================================

// SubmitDispute lets an employee contest today's ABSENT mark.
func (m *Machine) SubmitDispute(ctx context.Context, employeeID, reason string) (Record, error) {
	today := calendar.DateOf(m.clock().UTC())

	unlock := m.locks.lock(lockKey(employeeID, today))
	defer unlock()

	rec, err := m.store.Get(ctx, employeeID, today)
	if errors.Is(err, ErrRecordNotFound) {
		return Record{}, ErrDisputeNotAllowed
	}
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusAbsent {
		return Record{}, ErrDisputeNotAllowed
	}

	rec.DisputeReason = reason
	if err := rec.transitionTo(StatusDisputeOpen); err != nil {
		return Record{}, err
	}
	if err := m.store.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save dispute: %w", err)
	}
	return rec, nil
}

// ResolveDispute applies the admin decision to an open dispute. Accepting
// marks the day present with a standard 8-hour credit; rejecting returns it
// to ABSENT. Both outcomes are terminal for the day.
func (m *Machine) ResolveDispute(ctx context.Context, recordID string, accept bool) (Record, error) {
	rec, err := m.store.GetByID(ctx, recordID)
	if err != nil {
		return Record{}, err
	}

	unlock := m.locks.lock(lockKey(rec.EmployeeID, rec.Date))
	defer unlock()

	// Re-read under the lock; the dispute may have been resolved already.
	rec, err = m.store.GetByID(ctx, recordID)
	if err != nil {
		return Record{}, err
	}
	if rec.Status != StatusDisputeOpen {
		return Record{}, ErrDisputeNotOpen
	}

	if accept {
		rec.Present = true
		rec.WorkHours = money.StandardWorkHours
		rec.DisputeReason += " [ACCEPTED BY ADMIN]"
		if err := rec.transitionTo(StatusPresentManual); err != nil {
			return Record{}, err
		}
	} else {
		rec.Present = false
		rec.DisputeReason += " [REJECTED BY ADMIN]"
		if err := rec.transitionTo(StatusAbsent); err != nil {
			return Record{}, err
		}
	}

	if err := m.store.Save(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("save dispute resolution: %w", err)
	}
	return rec, nil
}

// OpenDisputes returns the admin review queue.
func (m *Machine) OpenDisputes(ctx context.Context) ([]Record, error) {
	return m.store.ListByStatus(ctx, StatusDisputeOpen)
}

// =============================================================================
// KEYED MUTEX - Per-(employee, date) critical sections
// =============================================================================

type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func lockKey(employeeID string, date calendar.Date) string {
	return employeeID + "@" + date.String()
}

// lock acquires the mutex for key and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
