/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

INTERFACES IMPLEMENTED:
  attendance.Store   (on *Store)
  employee.Directory (via Directory adapter)
  penalty.Store      (via Penalties adapter)
  payroll.Store      (via Payrolls adapter)
  payroll.RunStore   (via Payrolls adapter)

The adapters exist because the per-domain interfaces reuse short method
names (Get, Save, List) with different signatures; each adapter embeds
*Store and exposes one domain's contract.

KEY TABLES AND INVARIANTS:
  attendance:       one row per (employee_id, date), enforced by a unique
                    index. The state machine serializes writers per key;
                    the index is the backstop.
  charge_sheets:    penalty lifecycle rows.
  payroll_records:  one live row per (employee_id, month, year), enforced
                    by a unique index. Replacement is a single upsert, so
                    there is never a window with zero or two live rows.
  payroll_runs:     generation bookkeeping.

DECIMALS:
  Monetary and hour values are stored as decimal strings, never as REAL,
  so what the engine computed is exactly what is read back.

WAL MODE:
  The database is opened with WAL for better read concurrency. A
  sync.RWMutex additionally serializes access; with a server database the
  engine-level concurrency control would replace it.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  defer store.Close()
  machine := attendance.NewMachine(store)
  engine := payroll.NewEngine(sqlite.Directory{store}, store,
      sqlite.Penalties{store}, sqlite.Payrolls{store}, sqlite.Payrolls{store}, time.Friday)
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
)

// Store wraps the SQLite handle. Use the Directory, Penalties and Payrolls
// adapters for the non-attendance interfaces.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Attendance: one row per (employee, calendar date)
	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		check_in_time TEXT,
		check_out_time TEXT,
		work_hours TEXT NOT NULL DEFAULT '0',
		overtime_hours TEXT NOT NULL DEFAULT '0',
		present BOOLEAN NOT NULL DEFAULT FALSE,
		status TEXT NOT NULL,
		dispute_reason TEXT,
		updated_at TEXT NOT NULL
	);

	-- CRITICAL: the one-record-per-day invariant
	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance(employee_id, date);
	CREATE INDEX IF NOT EXISTS idx_attendance_date
		ON attendance(date);
	CREATE INDEX IF NOT EXISTS idx_attendance_status
		ON attendance(status);

	-- Employee directory
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		basic_salary TEXT NOT NULL DEFAULT '0',
		overtime_rate TEXT NOT NULL DEFAULT '0',
		deductions TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		updated_at TEXT NOT NULL
	);

	-- Charge sheets (penalties)
	CREATE TABLE IF NOT EXISTS charge_sheets (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		amount TEXT NOT NULL,
		issue_date TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_charge_sheets_employee
		ON charge_sheets(employee_id);
	CREATE INDEX IF NOT EXISTS idx_charge_sheets_issue_date
		ON charge_sheets(employee_id, issue_date);

	-- Payroll snapshots
	CREATE TABLE IF NOT EXISTS payroll_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		designation TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		payable_basic TEXT NOT NULL,
		overtime_pay TEXT NOT NULL,
		deductions TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		generated_at TEXT NOT NULL
	);

	-- CRITICAL: one live snapshot per (employee, period); replacement is
	-- a single upsert against this index
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payroll_employee_period
		ON payroll_records(employee_id, month, year);
	CREATE INDEX IF NOT EXISTS idx_payroll_period
		ON payroll_records(year, month);

	-- Generation runs
	CREATE TABLE IF NOT EXISTS payroll_runs (
		id TEXT PRIMARY KEY,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		status TEXT NOT NULL,
		processed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		error TEXT,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_runs_period
		ON payroll_runs(year, month);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset drops all rows. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"attendance", "employees", "charge_sheets", "payroll_records", "payroll_runs"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// ATTENDANCE STORE (attendance.Store interface)
// =============================================================================

const attendanceColumns = `id, employee_id, date, check_in_time, check_out_time,
	work_hours, overtime_hours, present, status, dispute_reason`

func (s *Store) Get(ctx context.Context, employeeID string, date calendar.Date) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = ? AND date = ?`,
		employeeID, date.String())
	return scanAttendance(row)
}

func (s *Store) GetByID(ctx context.Context, id string) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE id = ?`, id)
	return scanAttendance(row)
}

func (s *Store) Save(ctx context.Context, r attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO attendance
		(id, employee_id, date, check_in_time, check_out_time, work_hours,
		 overtime_hours, present, status, dispute_reason, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			check_in_time = excluded.check_in_time,
			check_out_time = excluded.check_out_time,
			work_hours = excluded.work_hours,
			overtime_hours = excluded.overtime_hours,
			present = excluded.present,
			status = excluded.status,
			dispute_reason = excluded.dispute_reason,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID,
		r.EmployeeID,
		r.Date.String(),
		nullTime(r.CheckInTime),
		nullTime(r.CheckOutTime),
		r.WorkHours.String(),
		r.OvertimeHours.String(),
		r.Present,
		string(r.Status),
		nullString(r.DisputeReason),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance record: %w", err)
	}
	return nil
}

func (s *Store) ListByDate(ctx context.Context, date calendar.Date) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE date = ? ORDER BY employee_id ASC`,
		date.String())
}

func (s *Store) ListForPeriod(ctx context.Context, employeeID string, p calendar.Period) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance
		 WHERE employee_id = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		employeeID, p.Start.String(), p.End.String())
}

func (s *Store) ListByStatus(ctx context.Context, status attendance.Status) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAttendance(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE status = ? ORDER BY date ASC, employee_id ASC`,
		string(status))
}

func (s *Store) queryAttendance(ctx context.Context, query string, args ...any) ([]attendance.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendance(row rowScanner) (attendance.Record, error) {
	var (
		rec           attendance.Record
		date          string
		checkIn       sql.NullString
		checkOut      sql.NullString
		workHours     string
		overtimeHours string
		status        string
		reason        sql.NullString
	)

	err := row.Scan(&rec.ID, &rec.EmployeeID, &date, &checkIn, &checkOut,
		&workHours, &overtimeHours, &rec.Present, &status, &reason)
	if err == sql.ErrNoRows {
		return rec, attendance.ErrRecordNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan attendance record: %w", err)
	}

	rec.Date, err = calendar.ParseDate(date)
	if err != nil {
		return rec, fmt.Errorf("malformed attendance date %q: %w", date, err)
	}
	rec.CheckInTime = parseNullTime(checkIn)
	rec.CheckOutTime = parseNullTime(checkOut)
	rec.WorkHours = money.MustParse(workHours)
	rec.OvertimeHours = money.MustParse(overtimeHours)
	rec.Status = attendance.Status(status)
	rec.DisputeReason = reason.String
	return rec, nil
}

// =============================================================================
// EMPLOYEE DIRECTORY (employee.Directory via Directory adapter)
// =============================================================================

// Directory adapts the store to the employee.Directory interface.
type Directory struct{ *Store }

func (d Directory) Get(ctx context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	row := d.db.QueryRowContext(ctx,
		`SELECT id, name, designation, image_url, basic_salary, overtime_rate, deductions, status
		 FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

func (d Directory) List(ctx context.Context) ([]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.QueryContext(ctx,
		`SELECT id, name, designation, image_url, basic_salary, overtime_rate, deductions, status
		 FROM employees ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (d Directory) Save(ctx context.Context, e employee.Employee) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	query := `
		INSERT INTO employees
		(id, name, designation, image_url, basic_salary, overtime_rate, deductions, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			designation = excluded.designation,
			image_url = excluded.image_url,
			basic_salary = excluded.basic_salary,
			overtime_rate = excluded.overtime_rate,
			deductions = excluded.deductions,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := d.db.ExecContext(ctx, query,
		e.ID, e.Name, e.Designation, e.ImageURL,
		e.BasicSalary.String(), e.OvertimeRatePerHour.String(), e.Deductions.String(),
		string(e.Status), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func scanEmployee(row rowScanner) (employee.Employee, error) {
	var (
		e            employee.Employee
		basicSalary  string
		overtimeRate string
		deductions   string
		status       string
	)

	err := row.Scan(&e.ID, &e.Name, &e.Designation, &e.ImageURL,
		&basicSalary, &overtimeRate, &deductions, &status)
	if err == sql.ErrNoRows {
		return e, employee.ErrNotFound
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan employee: %w", err)
	}

	e.BasicSalary = money.MustParse(basicSalary)
	e.OvertimeRatePerHour = money.MustParse(overtimeRate)
	e.Deductions = money.MustParse(deductions)
	e.Status = employee.Status(status)
	return e, nil
}

// =============================================================================
// PENALTY STORE (penalty.Store via Penalties adapter)
// =============================================================================

// Penalties adapts the store to the penalty.Store interface.
type Penalties struct{ *Store }

const chargeSheetColumns = `id, employee_id, reason, amount, issue_date, status`

func (p Penalties) Get(ctx context.Context, id string) (penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	row := p.db.QueryRowContext(ctx,
		`SELECT `+chargeSheetColumns+` FROM charge_sheets WHERE id = ?`, id)
	return scanChargeSheet(row)
}

func (p Penalties) Save(ctx context.Context, cs penalty.ChargeSheet) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	query := `
		INSERT INTO charge_sheets
		(id, employee_id, reason, amount, issue_date, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			reason = excluded.reason,
			amount = excluded.amount,
			issue_date = excluded.issue_date,
			status = excluded.status,
			updated_at = excluded.updated_at
	`

	_, err := p.db.ExecContext(ctx, query,
		cs.ID, cs.EmployeeID, cs.Reason, cs.Amount.String(),
		cs.IssueDate.String(), string(cs.Status),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save charge sheet: %w", err)
	}
	return nil
}

func (p Penalties) Delete(ctx context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	res, err := p.db.ExecContext(ctx, `DELETE FROM charge_sheets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete charge sheet: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return penalty.ErrNotFound
	}
	return nil
}

func (p Penalties) ListByEmployee(ctx context.Context, employeeID string) ([]penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.queryChargeSheets(ctx,
		`SELECT `+chargeSheetColumns+` FROM charge_sheets
		 WHERE employee_id = ? ORDER BY issue_date DESC, id ASC`, employeeID)
}

func (p Penalties) ListForPeriod(ctx context.Context, employeeID string, period calendar.Period) ([]penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.queryChargeSheets(ctx,
		`SELECT `+chargeSheetColumns+` FROM charge_sheets
		 WHERE employee_id = ? AND issue_date >= ? AND issue_date <= ?
		 ORDER BY issue_date ASC`,
		employeeID, period.Start.String(), period.End.String())
}

func (p Penalties) ListAll(ctx context.Context) ([]penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.queryChargeSheets(ctx,
		`SELECT `+chargeSheetColumns+` FROM charge_sheets ORDER BY issue_date DESC, id ASC`)
}

func (p Penalties) queryChargeSheets(ctx context.Context, query string, args ...any) ([]penalty.ChargeSheet, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query charge sheets: %w", err)
	}
	defer rows.Close()

	var sheets []penalty.ChargeSheet
	for rows.Next() {
		cs, err := scanChargeSheet(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, cs)
	}
	return sheets, rows.Err()
}

func scanChargeSheet(row rowScanner) (penalty.ChargeSheet, error) {
	var (
		cs        penalty.ChargeSheet
		amount    string
		issueDate string
		status    string
	)

	err := row.Scan(&cs.ID, &cs.EmployeeID, &cs.Reason, &amount, &issueDate, &status)
	if err == sql.ErrNoRows {
		return cs, penalty.ErrNotFound
	}
	if err != nil {
		return cs, fmt.Errorf("failed to scan charge sheet: %w", err)
	}

	cs.Amount = money.MustParse(amount)
	cs.IssueDate, err = calendar.ParseDate(issueDate)
	if err != nil {
		return cs, fmt.Errorf("malformed issue date %q: %w", issueDate, err)
	}
	cs.Status = penalty.Status(status)
	return cs, nil
}

// =============================================================================
// PAYROLL STORE (payroll.Store + payroll.RunStore via Payrolls adapter)
// =============================================================================

// Payrolls adapts the store to the payroll.Store and RunStore interfaces.
type Payrolls struct{ *Store }

const payrollColumns = `id, employee_id, employee_name, designation, image_url,
	month, year, payable_basic, overtime_pay, deductions, net_pay, generated_at`

// Replace is the atomic upsert on (employee_id, month, year). The previous
// snapshot for the key, if any, is superseded in the same statement.
func (p Payrolls) Replace(ctx context.Context, rec payroll.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	query := `
		INSERT INTO payroll_records
		(id, employee_id, employee_name, designation, image_url, month, year,
		 payable_basic, overtime_pay, deductions, net_pay, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, month, year) DO UPDATE SET
			id = excluded.id,
			employee_name = excluded.employee_name,
			designation = excluded.designation,
			image_url = excluded.image_url,
			payable_basic = excluded.payable_basic,
			overtime_pay = excluded.overtime_pay,
			deductions = excluded.deductions,
			net_pay = excluded.net_pay,
			generated_at = excluded.generated_at
	`

	_, err := p.db.ExecContext(ctx, query,
		rec.ID, rec.EmployeeID, rec.EmployeeName, rec.Designation, rec.ImageURL,
		rec.Month, rec.Year,
		rec.PayableBasic.String(), rec.OvertimePay.String(),
		rec.Deductions.String(), rec.NetPay.String(),
		rec.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to replace payroll record: %w", err)
	}
	return nil
}

func (p Payrolls) GetByID(ctx context.Context, id string) (payroll.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	row := p.db.QueryRowContext(ctx,
		`SELECT `+payrollColumns+` FROM payroll_records WHERE id = ?`, id)
	return scanPayroll(row)
}

func (p Payrolls) ListByPeriod(ctx context.Context, month, year int) ([]payroll.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.queryPayrolls(ctx,
		`SELECT `+payrollColumns+` FROM payroll_records
		 WHERE month = ? AND year = ? ORDER BY employee_name ASC`, month, year)
}

func (p Payrolls) ListAll(ctx context.Context) ([]payroll.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.queryPayrolls(ctx,
		`SELECT `+payrollColumns+` FROM payroll_records
		 ORDER BY year DESC, month DESC, employee_name ASC`)
}

func (p Payrolls) queryPayrolls(ctx context.Context, query string, args ...any) ([]payroll.Record, error) {
	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.Record
	for rows.Next() {
		rec, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanPayroll(row rowScanner) (payroll.Record, error) {
	var (
		rec          payroll.Record
		payableBasic string
		overtimePay  string
		deductions   string
		netPay       string
		generatedAt  string
	)

	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Designation,
		&rec.ImageURL, &rec.Month, &rec.Year,
		&payableBasic, &overtimePay, &deductions, &netPay, &generatedAt)
	if err == sql.ErrNoRows {
		return rec, payroll.ErrNotFound
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan payroll record: %w", err)
	}

	rec.PayableBasic = money.MustParse(payableBasic)
	rec.OvertimePay = money.MustParse(overtimePay)
	rec.Deductions = money.MustParse(deductions)
	rec.NetPay = money.MustParse(netPay)
	rec.GeneratedAt, _ = time.Parse(time.RFC3339, generatedAt)
	return rec, nil
}

func (p Payrolls) SaveRun(ctx context.Context, run payroll.Run) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	query := `
		INSERT INTO payroll_runs
		(id, month, year, status, processed, skipped, failed, error, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := p.db.ExecContext(ctx, query,
		run.ID, run.Month, run.Year, string(run.Status),
		run.Processed, run.Skipped, run.Failed, nullString(run.Error),
		run.StartedAt.UTC().Format(time.RFC3339),
		run.CompletedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save payroll run: %w", err)
	}
	return nil
}

func (p Payrolls) ListRuns(ctx context.Context) ([]payroll.Run, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rows, err := p.db.QueryContext(ctx,
		`SELECT id, month, year, status, processed, skipped, failed, error, started_at, completed_at
		 FROM payroll_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.Run
	for rows.Next() {
		var (
			run         payroll.Run
			status      string
			errText     sql.NullString
			startedAt   string
			completedAt string
		)
		if err := rows.Scan(&run.ID, &run.Month, &run.Year, &status,
			&run.Processed, &run.Skipped, &run.Failed, &errText,
			&startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		run.Status = payroll.RunStatus(status)
		run.Error = errText.String
		run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		run.CompletedAt, _ = time.Parse(time.RFC3339, completedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (p Payrolls) HasCompletedRun(ctx context.Context, month, year int) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var count int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM payroll_runs WHERE month = ? AND year = ? AND status = ?`,
		month, year, string(payroll.RunCompleted)).Scan(&count)
	return count > 0, err
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// Compile-time interface checks.
var (
	_ attendance.Store   = (*Store)(nil)
	_ employee.Directory = Directory{}
	_ penalty.Store      = Penalties{}
	_ payroll.Store      = Payrolls{}
	_ payroll.RunStore   = Payrolls{}
)
