/*
engine.go - Monthly payroll generation

ALGORITHM (per period):
  1. Working days = days in month excluding the weekly rest day. Zero
     working days aborts the run.
  2. Per employee: skip SUSPENDED; tally present days and overtime from
     attendance; sum the period's charge sheets; derive rates, tax and
     net pay; atomically replace the period snapshot; flip consumed
     PENDING sheets to DEDUCTED.
  3. One employee's failure never aborts the batch: it is logged, counted,
     and the loop continues. No partial snapshot is ever written.

RATE MATH (all rounded half-up to 2dp at each step):
  dailyRate    = basicSalary / workingDays
  hourlyRate   = dailyRate / 8
  payableBasic = round2(dailyRate x presentDays)
  overtimePay  = round2(overtimeHours x hourlyRate x 1.5)
  tax          = round2(payableBasic x 5%)
  netPay       = round2(payableBasic + overtimePay - deductions)

REST-DAY OVERTIME:
  A present record on the rest day never counts toward presentDays, but
  its overtime hours are summed like any other day's. Work performed on
  the rest day is therefore paid entirely as overtime.
*/
package payroll

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/penalty"
)

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	directory  employee.Directory
	attendance attendance.Store
	penalties  penalty.Store
	records    Store
	runs       RunStore

	// restDay is the weekly holiday excluded from working days.
	restDay time.Weekday
	clock   func() time.Time
}

// NewEngine wires the generation engine. runs may be nil when run
// bookkeeping is not wanted (tests).
func NewEngine(dir employee.Directory, att attendance.Store, pen penalty.Store, rec Store, runs RunStore, restDay time.Weekday) *Engine {
	return &Engine{
		directory:  dir,
		attendance: att,
		penalties:  pen,
		records:    rec,
		runs:       runs,
		restDay:    restDay,
		clock:      time.Now,
	}
}

// WithClock overrides the generation timestamp source. Returns the engine
// for chaining in test setup.
func (e *Engine) WithClock(clock func() time.Time) *Engine {
	e.clock = clock
	return e
}

// Generate produces the salary snapshots for (month, year). Idempotent:
// every invocation fully replaces the period's records. Per-employee
// failures are isolated; only period-level problems return an error.
func (e *Engine) Generate(ctx context.Context, month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}

	period := calendar.MonthOf(year, time.Month(month))
	workingDays := period.WorkingDays(e.restDay)
	if workingDays == 0 {
		log.Printf("[Payroll] ERROR: no working days in %s, aborting generation", period)
		return e.finishRun(ctx, Run{Month: month, Year: year, Status: RunFailed, Error: ErrNoWorkingDays.Error()}, ErrNoWorkingDays)
	}

	employees, err := e.directory.List(ctx)
	if err != nil {
		return e.finishRun(ctx, Run{Month: month, Year: year, Status: RunFailed, Error: err.Error()},
			fmt.Errorf("list employees: %w", err))
	}

	run := Run{Month: month, Year: year, StartedAt: e.clock().UTC()}

	for _, emp := range employees {
		if emp.Suspended() {
			run.Skipped++
			continue
		}

		if err := e.generateFor(ctx, emp, period, workingDays, month, year); err != nil {
			// Failure isolation: log and keep going. The employee's prior
			// snapshot, if any, stays untouched.
			log.Printf("[Payroll] employee %s (%s): %v", emp.ID, emp.Name, err)
			run.Failed++
			continue
		}
		run.Processed++
	}

	run.Status = RunCompleted
	if run.Failed > 0 {
		run.Status = RunPartial
		run.Error = fmt.Sprintf("%d employee(s) failed", run.Failed)
	}

	log.Printf("[Payroll] %d/%d generated for %04d-%02d (%d suspended, %d failed)",
		run.Processed, len(employees), year, month, run.Skipped, run.Failed)
	return e.finishRun(ctx, run, nil)
}

// generateFor computes and writes one employee's snapshot. Nothing is
// persisted unless the whole computation succeeds.
func (e *Engine) generateFor(ctx context.Context, emp employee.Employee, period calendar.Period, workingDays, month, year int) error {
	atts, err := e.attendance.ListForPeriod(ctx, emp.ID, period)
	if err != nil {
		return fmt.Errorf("load attendance: %w", err)
	}
	presentDays, overtimeHours := Tally(atts, e.restDay)

	charges, err := e.penalties.ListForPeriod(ctx, emp.ID, period)
	if err != nil {
		return fmt.Errorf("load charge sheets: %w", err)
	}
	penaltyTotal := decimal.Zero
	var consumed []penalty.ChargeSheet
	for _, cs := range charges {
		penaltyTotal = penaltyTotal.Add(cs.Amount)
		if cs.Status == penalty.StatusPending {
			consumed = append(consumed, cs)
		}
	}

	stmt := ComputeStatement(emp.BasicSalary, emp.Deductions, workingDays, presentDays, overtimeHours, penaltyTotal)

	rec := Record{
		ID:           uuid.NewString(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Designation:  emp.Designation,
		ImageURL:     emp.ImageURL,
		Month:        month,
		Year:         year,
		PayableBasic: stmt.PayableBasic,
		OvertimePay:  stmt.OvertimePay,
		Deductions:   stmt.Deductions,
		NetPay:       stmt.NetPay,
		GeneratedAt:  e.clock().UTC(),
	}

	if err := e.records.Replace(ctx, rec); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	// Flip consumed sheets only after the snapshot is committed, so a
	// failed employee never loses pending penalties.
	for _, cs := range consumed {
		cs.Status = penalty.StatusDeducted
		if err := e.penalties.Save(ctx, cs); err != nil {
			return fmt.Errorf("mark charge sheet %s deducted: %w", cs.ID, err)
		}
	}
	return nil
}

func (e *Engine) finishRun(ctx context.Context, run Run, result error) error {
	if e.runs == nil {
		return result
	}
	run.ID = uuid.NewString()
	if run.StartedAt.IsZero() {
		run.StartedAt = e.clock().UTC()
	}
	run.CompletedAt = e.clock().UTC()
	if err := e.runs.SaveRun(ctx, run); err != nil {
		log.Printf("[Payroll] failed to record run for %04d-%02d: %v", run.Year, run.Month, err)
	}
	return result
}

// =============================================================================
// STATEMENT - Pure pay computation for one employee-period
// =============================================================================

// Statement is the computed pay breakdown before it is stamped into a
// Record snapshot.
type Statement struct {
	PayableBasic decimal.Decimal
	OvertimePay  decimal.Decimal
	Tax          decimal.Decimal
	Deductions   decimal.Decimal
	NetPay       decimal.Decimal
}

// ComputeStatement applies the rate math. Rates are derived unrounded;
// each published figure is rounded half-up to 2dp as it is produced, and
// NetPay is computed from the published (rounded) figures so the payslip
// always adds up.
func ComputeStatement(basicSalary, fixedDeduction decimal.Decimal, workingDays, presentDays int, overtimeHours, penaltyTotal decimal.Decimal) Statement {
	dailyRate := basicSalary.Div(decimal.NewFromInt(int64(workingDays)))
	hourlyRate := dailyRate.Div(money.StandardWorkHours)

	payableBasic := money.Round2(dailyRate.Mul(decimal.NewFromInt(int64(presentDays))))

	overtimeRate := hourlyRate.Mul(money.OvertimeMultiplier)
	overtimePay := money.Round2(overtimeHours.Mul(overtimeRate))

	tax := money.Round2(payableBasic.Mul(money.TaxRate))
	deductions := money.Round2(tax.Add(penaltyTotal).Add(fixedDeduction))
	netPay := money.Round2(payableBasic.Add(overtimePay).Sub(deductions))

	return Statement{
		PayableBasic: payableBasic,
		OvertimePay:  overtimePay,
		Tax:          tax,
		Deductions:   deductions,
		NetPay:       netPay,
	}
}

// =============================================================================
// TALLY - Presence and overtime aggregation
// =============================================================================

// Tally counts present days (rest day excluded) and sums overtime hours
// (rest day included) over a period's attendance records.
func Tally(records []attendance.Record, restDay time.Weekday) (presentDays int, overtimeHours decimal.Decimal) {
	overtimeHours = decimal.Zero
	for _, r := range records {
		if r.Present && r.Date.Weekday() != restDay {
			presentDays++
		}
		overtimeHours = overtimeHours.Add(r.OvertimeHours)
	}
	return presentDays, overtimeHours
}
