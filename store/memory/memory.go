// Package memory provides in-memory implementations of every store
// interface, for tests and local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
)

// Store implements attendance.Store, employee.Directory, penalty.Store,
// payroll.Store and payroll.RunStore in memory.
type Store struct {
	mu sync.RWMutex

	attendance map[string]attendance.Record // by record id
	attByKey   map[attKey]string            // (employee, date) -> record id

	employees map[string]employee.Employee

	penalties map[string]penalty.ChargeSheet

	payrolls     map[string]payroll.Record // by record id
	payrollByKey map[payKey]string         // (employee, month, year) -> record id

	runs []payroll.Run
}

type attKey struct {
	EmployeeID string
	Date       string
}

type payKey struct {
	EmployeeID string
	Month      int
	Year       int
}

func New() *Store {
	return &Store{
		attendance:   make(map[string]attendance.Record),
		attByKey:     make(map[attKey]string),
		employees:    make(map[string]employee.Employee),
		penalties:    make(map[string]penalty.ChargeSheet),
		payrolls:     make(map[string]payroll.Record),
		payrollByKey: make(map[payKey]string),
	}
}

// =============================================================================
// ATTENDANCE STORE (attendance.Store interface)
// =============================================================================

func (s *Store) Get(_ context.Context, employeeID string, date calendar.Date) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.attByKey[attKey{EmployeeID: employeeID, Date: date.String()}]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return s.attendance[id], nil
}

func (s *Store) GetByID(_ context.Context, id string) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.attendance[id]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}
	return rec, nil
}

func (s *Store) Save(_ context.Context, r attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attendance[r.ID] = r
	s.attByKey[attKey{EmployeeID: r.EmployeeID, Date: r.Date.String()}] = r.ID
	return nil
}

func (s *Store) ListByDate(_ context.Context, date calendar.Date) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Record
	for _, r := range s.attendance {
		if r.Date.Equal(date) {
			out = append(out, r)
		}
	}
	sortAttendance(out)
	return out, nil
}

func (s *Store) ListForPeriod(_ context.Context, employeeID string, p calendar.Period) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Record
	for _, r := range s.attendance {
		if r.EmployeeID == employeeID && p.Contains(r.Date) {
			out = append(out, r)
		}
	}
	sortAttendance(out)
	return out, nil
}

func (s *Store) ListByStatus(_ context.Context, status attendance.Status) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []attendance.Record
	for _, r := range s.attendance {
		if r.Status == status {
			out = append(out, r)
		}
	}
	sortAttendance(out)
	return out, nil
}

func sortAttendance(recs []attendance.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].EmployeeID < recs[j].EmployeeID
	})
}

// =============================================================================
// EMPLOYEE DIRECTORY (employee.Directory interface)
// =============================================================================

func (s *Store) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrNotFound
	}
	return e, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]employee.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]employee.Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SaveEmployee(_ context.Context, e employee.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees[e.ID] = e
	return nil
}

// Directory adapts the store to the employee.Directory interface.
type Directory struct{ *Store }

func (d Directory) Get(ctx context.Context, id string) (employee.Employee, error) {
	return d.GetEmployee(ctx, id)
}
func (d Directory) List(ctx context.Context) ([]employee.Employee, error) {
	return d.ListEmployees(ctx)
}
func (d Directory) Save(ctx context.Context, e employee.Employee) error {
	return d.SaveEmployee(ctx, e)
}

// =============================================================================
// PENALTY STORE (penalty.Store interface)
// =============================================================================

// Penalties adapts the store to the penalty.Store interface.
type Penalties struct{ *Store }

func (p Penalties) Get(_ context.Context, id string) (penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cs, ok := p.penalties[id]
	if !ok {
		return penalty.ChargeSheet{}, penalty.ErrNotFound
	}
	return cs, nil
}

func (p Penalties) Save(_ context.Context, cs penalty.ChargeSheet) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.penalties[cs.ID] = cs
	return nil
}

func (p Penalties) Delete(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.penalties[id]; !ok {
		return penalty.ErrNotFound
	}
	delete(p.penalties, id)
	return nil
}

func (p Penalties) ListByEmployee(_ context.Context, employeeID string) ([]penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []penalty.ChargeSheet
	for _, cs := range p.penalties {
		if cs.EmployeeID == employeeID {
			out = append(out, cs)
		}
	}
	sortSheets(out)
	return out, nil
}

func (p Penalties) ListForPeriod(_ context.Context, employeeID string, period calendar.Period) ([]penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []penalty.ChargeSheet
	for _, cs := range p.penalties {
		if cs.EmployeeID == employeeID && period.Contains(cs.IssueDate) {
			out = append(out, cs)
		}
	}
	sortSheets(out)
	return out, nil
}

func (p Penalties) ListAll(_ context.Context) ([]penalty.ChargeSheet, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]penalty.ChargeSheet, 0, len(p.penalties))
	for _, cs := range p.penalties {
		out = append(out, cs)
	}
	sortSheets(out)
	return out, nil
}

func sortSheets(sheets []penalty.ChargeSheet) {
	sort.Slice(sheets, func(i, j int) bool {
		if !sheets[i].IssueDate.Equal(sheets[j].IssueDate) {
			return sheets[i].IssueDate.After(sheets[j].IssueDate)
		}
		return sheets[i].ID < sheets[j].ID
	})
}

// =============================================================================
// PAYROLL STORE (payroll.Store + payroll.RunStore interfaces)
// =============================================================================

// Payrolls adapts the store to the payroll.Store and RunStore interfaces.
type Payrolls struct{ *Store }

func (p Payrolls) Replace(_ context.Context, rec payroll.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := payKey{EmployeeID: rec.EmployeeID, Month: rec.Month, Year: rec.Year}
	if oldID, ok := p.payrollByKey[k]; ok {
		delete(p.payrolls, oldID)
	}
	p.payrolls[rec.ID] = rec
	p.payrollByKey[k] = rec.ID
	return nil
}

func (p Payrolls) GetByID(_ context.Context, id string) (payroll.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, ok := p.payrolls[id]
	if !ok {
		return payroll.Record{}, payroll.ErrNotFound
	}
	return rec, nil
}

func (p Payrolls) ListByPeriod(_ context.Context, month, year int) ([]payroll.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []payroll.Record
	for _, rec := range p.payrolls {
		if rec.Month == month && rec.Year == year {
			out = append(out, rec)
		}
	}
	sortPayrolls(out)
	return out, nil
}

func (p Payrolls) ListAll(_ context.Context) ([]payroll.Record, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]payroll.Record, 0, len(p.payrolls))
	for _, rec := range p.payrolls {
		out = append(out, rec)
	}
	sortPayrolls(out)
	return out, nil
}

func sortPayrolls(recs []payroll.Record) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Year != recs[j].Year {
			return recs[i].Year > recs[j].Year
		}
		if recs[i].Month != recs[j].Month {
			return recs[i].Month > recs[j].Month
		}
		return recs[i].EmployeeID < recs[j].EmployeeID
	})
}

func (p Payrolls) SaveRun(_ context.Context, run payroll.Run) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runs = append(p.runs, run)
	return nil
}

func (p Payrolls) ListRuns(_ context.Context) ([]payroll.Run, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]payroll.Run, len(p.runs))
	copy(out, p.runs)
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

func (p Payrolls) HasCompletedRun(_ context.Context, month, year int) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, r := range p.runs {
		if r.Month == month && r.Year == year && r.Status == payroll.RunCompleted {
			return true, nil
		}
	}
	return false, nil
}

// Compile-time interface checks.
var (
	_ attendance.Store   = (*Store)(nil)
	_ employee.Directory = Directory{}
	_ penalty.Store      = Penalties{}
	_ payroll.Store      = Payrolls{}
	_ payroll.RunStore   = Payrolls{}
)
