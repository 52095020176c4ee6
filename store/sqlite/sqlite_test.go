package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// ATTENDANCE TESTS
// =============================================================================

func TestAttendance_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	checkIn := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	rec := attendance.Record{
		ID:            "att-1",
		EmployeeID:    "emp-1",
		Date:          calendar.NewDate(2026, time.March, 2),
		CheckInTime:   &checkIn,
		WorkHours:     decimal.Zero,
		OvertimeHours: decimal.Zero,
		Present:       true,
		Status:        attendance.StatusCheckedIn,
	}
	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Get(ctx, "emp-1", rec.Date)
	require.NoError(t, err)
	assert.Equal(t, "att-1", got.ID)
	assert.Equal(t, attendance.StatusCheckedIn, got.Status)
	require.NotNil(t, got.CheckInTime)
	assert.True(t, got.CheckInTime.Equal(checkIn))
	assert.Nil(t, got.CheckOutTime)

	byID, err := store.GetByID(ctx, "att-1")
	require.NoError(t, err)
	assert.Equal(t, got, byID)
}

func TestAttendance_GetMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "emp-1", calendar.NewDate(2026, time.March, 2))
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	_, err = store.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestAttendance_SaveUpsertsOnEmployeeDate(t *testing.T) {
	// GIVEN: A saved record for (emp-1, 2026-03-02)
	// WHEN: Saving again for the same key with updated fields
	// THEN: One row, updated in place

	store := newTestStore(t)
	ctx := context.Background()
	day := calendar.NewDate(2026, time.March, 2)

	rec := attendance.Record{
		ID: "att-1", EmployeeID: "emp-1", Date: day,
		WorkHours: decimal.Zero, OvertimeHours: decimal.Zero,
		Status: attendance.StatusCheckedIn, Present: true,
	}
	require.NoError(t, store.Save(ctx, rec))

	rec.WorkHours = decimal.RequireFromString("8.5")
	rec.OvertimeHours = decimal.RequireFromString("0.5")
	rec.Status = attendance.StatusPresent
	require.NoError(t, store.Save(ctx, rec))

	recs, err := store.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "8.5", recs[0].WorkHours.String())
	assert.Equal(t, attendance.StatusPresent, recs[0].Status)
}

func TestAttendance_ListForPeriod(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, day := range []calendar.Date{
		calendar.NewDate(2026, time.February, 28),
		calendar.NewDate(2026, time.March, 1),
		calendar.NewDate(2026, time.March, 31),
		calendar.NewDate(2026, time.April, 1),
	} {
		require.NoError(t, store.Save(ctx, attendance.Record{
			ID: "att-" + day.String(), EmployeeID: "emp-1", Date: day,
			WorkHours: decimal.Zero, OvertimeHours: decimal.Zero,
			Status: attendance.StatusPresentManual, Present: true,
		}))
	}
	// Another employee inside the period must not leak in.
	require.NoError(t, store.Save(ctx, attendance.Record{
		ID: "att-other", EmployeeID: "emp-2", Date: calendar.NewDate(2026, time.March, 10),
		WorkHours: decimal.Zero, OvertimeHours: decimal.Zero,
		Status: attendance.StatusPresentManual, Present: true,
	}))

	recs, err := store.ListForPeriod(ctx, "emp-1", calendar.MonthOf(2026, time.March))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2026-03-01", recs[0].Date.String())
	assert.Equal(t, "2026-03-31", recs[1].Date.String())
}

func TestAttendance_ListByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, attendance.Record{
		ID: "att-1", EmployeeID: "emp-1", Date: calendar.NewDate(2026, time.March, 2),
		WorkHours: decimal.Zero, OvertimeHours: decimal.Zero,
		Status: attendance.StatusDisputeOpen, DisputeReason: "badge reader down",
	}))
	require.NoError(t, store.Save(ctx, attendance.Record{
		ID: "att-2", EmployeeID: "emp-2", Date: calendar.NewDate(2026, time.March, 2),
		WorkHours: decimal.Zero, OvertimeHours: decimal.Zero,
		Status: attendance.StatusAbsent,
	}))

	open, err := store.ListByStatus(ctx, attendance.StatusDisputeOpen)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "att-1", open[0].ID)
	assert.Equal(t, "badge reader down", open[0].DisputeReason)
}

// =============================================================================
// EMPLOYEE TESTS
// =============================================================================

func TestEmployees_SaveGetList(t *testing.T) {
	store := newTestStore(t)
	dir := sqlite.Directory{Store: store}
	ctx := context.Background()

	emp := employee.Employee{
		ID:                  "emp-1",
		Name:                "Aisha Rahman",
		Designation:         "Engineer",
		ImageURL:            "https://example.com/a.png",
		BasicSalary:         decimal.NewFromInt(60000),
		OvertimeRatePerHour: decimal.Zero,
		Deductions:          decimal.NewFromInt(500),
		Status:              employee.StatusActive,
	}
	require.NoError(t, dir.Save(ctx, emp))

	got, err := dir.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Aisha Rahman", got.Name)
	assert.Equal(t, "60000", got.BasicSalary.String())
	assert.Equal(t, "500", got.Deductions.String())

	// Upsert: suspend and verify.
	emp.Status = employee.StatusSuspended
	require.NoError(t, dir.Save(ctx, emp))
	got, err = dir.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, got.Suspended())

	list, err := dir.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEmployees_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := sqlite.Directory{Store: store}.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, employee.ErrNotFound)
}

// =============================================================================
// CHARGE SHEET TESTS
// =============================================================================

func TestChargeSheets_Lifecycle(t *testing.T) {
	store := newTestStore(t)
	pen := sqlite.Penalties{Store: store}
	ctx := context.Background()

	cs := penalty.ChargeSheet{
		ID:         "cs-1",
		EmployeeID: "emp-1",
		Reason:     "equipment damage",
		Amount:     decimal.RequireFromString("250.50"),
		IssueDate:  calendar.NewDate(2026, time.March, 10),
		Status:     penalty.StatusPending,
	}
	require.NoError(t, pen.Save(ctx, cs))

	got, err := pen.Get(ctx, "cs-1")
	require.NoError(t, err)
	assert.Equal(t, "250.5", got.Amount.String())
	assert.Equal(t, penalty.StatusPending, got.Status)

	got.Status = penalty.StatusDeducted
	require.NoError(t, pen.Save(ctx, got))
	got, err = pen.Get(ctx, "cs-1")
	require.NoError(t, err)
	assert.Equal(t, penalty.StatusDeducted, got.Status)

	require.NoError(t, pen.Delete(ctx, "cs-1"))
	_, err = pen.Get(ctx, "cs-1")
	assert.ErrorIs(t, err, penalty.ErrNotFound)

	assert.ErrorIs(t, pen.Delete(ctx, "cs-1"), penalty.ErrNotFound)
}

func TestChargeSheets_ListForPeriod(t *testing.T) {
	store := newTestStore(t)
	pen := sqlite.Penalties{Store: store}
	ctx := context.Background()

	for i, day := range []calendar.Date{
		calendar.NewDate(2026, time.February, 28),
		calendar.NewDate(2026, time.March, 1),
		calendar.NewDate(2026, time.March, 31),
	} {
		require.NoError(t, pen.Save(ctx, penalty.ChargeSheet{
			ID:         string(rune('a' + i)),
			EmployeeID: "emp-1",
			Reason:     "damage",
			Amount:     decimal.NewFromInt(100),
			IssueDate:  day,
			Status:     penalty.StatusPending,
		}))
	}

	sheets, err := pen.ListForPeriod(ctx, "emp-1", calendar.MonthOf(2026, time.March))
	require.NoError(t, err)
	assert.Len(t, sheets, 2)
}

// =============================================================================
// PAYROLL TESTS
// =============================================================================

func testPayrollRecord(id, employeeID string, month, year int) payroll.Record {
	return payroll.Record{
		ID:           id,
		EmployeeID:   employeeID,
		EmployeeName: "Employee " + employeeID,
		Designation:  "Engineer",
		Month:        month,
		Year:         year,
		PayableBasic: decimal.RequireFromString("50000"),
		OvertimePay:  decimal.RequireFromString("1875"),
		Deductions:   decimal.RequireFromString("2500"),
		NetPay:       decimal.RequireFromString("49375"),
		GeneratedAt:  time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC),
	}
}

func TestPayroll_ReplaceIsAtomicUpsert(t *testing.T) {
	// GIVEN: A snapshot for (emp-1, Feb 2026)
	// WHEN: Replacing it with a regenerated one under a new id
	// THEN: Exactly one row for the key, the new one; the old id is gone

	store := newTestStore(t)
	pay := sqlite.Payrolls{Store: store}
	ctx := context.Background()

	require.NoError(t, pay.Replace(ctx, testPayrollRecord("pr-1", "emp-1", 2, 2026)))

	regen := testPayrollRecord("pr-2", "emp-1", 2, 2026)
	regen.NetPay = decimal.RequireFromString("48000")
	require.NoError(t, pay.Replace(ctx, regen))

	recs, err := pay.ListByPeriod(ctx, 2, 2026)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "pr-2", recs[0].ID)
	assert.Equal(t, "48000", recs[0].NetPay.String())

	_, err = pay.GetByID(ctx, "pr-1")
	assert.ErrorIs(t, err, payroll.ErrNotFound)
}

func TestPayroll_GetByID(t *testing.T) {
	store := newTestStore(t)
	pay := sqlite.Payrolls{Store: store}
	ctx := context.Background()

	require.NoError(t, pay.Replace(ctx, testPayrollRecord("pr-1", "emp-1", 2, 2026)))

	rec, err := pay.GetByID(ctx, "pr-1")
	require.NoError(t, err)
	assert.Equal(t, "49375", rec.NetPay.String())
	assert.Equal(t, "Employee emp-1", rec.EmployeeName)

	_, err = pay.GetByID(ctx, "guess")
	assert.True(t, payroll.IsNotFound(err))
}

func TestPayroll_ListByPeriodAndAll(t *testing.T) {
	store := newTestStore(t)
	pay := sqlite.Payrolls{Store: store}
	ctx := context.Background()

	require.NoError(t, pay.Replace(ctx, testPayrollRecord("pr-1", "emp-1", 2, 2026)))
	require.NoError(t, pay.Replace(ctx, testPayrollRecord("pr-2", "emp-2", 2, 2026)))
	require.NoError(t, pay.Replace(ctx, testPayrollRecord("pr-3", "emp-1", 3, 2026)))

	feb, err := pay.ListByPeriod(ctx, 2, 2026)
	require.NoError(t, err)
	assert.Len(t, feb, 2)

	all, err := pay.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest period first.
	assert.Equal(t, 3, all[0].Month)
}

func TestPayrollRuns_SaveListAndCompletion(t *testing.T) {
	store := newTestStore(t)
	pay := sqlite.Payrolls{Store: store}
	ctx := context.Background()

	started := time.Date(2026, time.March, 1, 6, 0, 0, 0, time.UTC)
	require.NoError(t, pay.SaveRun(ctx, payroll.Run{
		ID: "run-1", Month: 2, Year: 2026, Status: payroll.RunCompleted,
		Processed: 3, StartedAt: started, CompletedAt: started.Add(time.Second),
	}))
	require.NoError(t, pay.SaveRun(ctx, payroll.Run{
		ID: "run-2", Month: 3, Year: 2026, Status: payroll.RunFailed,
		Error: "no working days", StartedAt: started.Add(time.Hour), CompletedAt: started.Add(time.Hour),
	}))

	runs, err := pay.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "no working days", runs[0].Error)

	done, err := pay.HasCompletedRun(ctx, 2, 2026)
	require.NoError(t, err)
	assert.True(t, done)

	done, err = pay.HasCompletedRun(ctx, 3, 2026)
	require.NoError(t, err)
	assert.False(t, done)
}
