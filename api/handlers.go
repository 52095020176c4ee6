/*
handlers.go - HTTP API handlers for attendance and payroll

PURPOSE:
  Exposes the attendance state machine, penalty book and payroll engine
  via REST. Handles HTTP request/response and JSON; all business rules
  live in the domain packages.

ENDPOINTS:
  Attendance:
    POST /api/attendance/check-in          Punch in (falls through to out)
    POST /api/attendance/check-out         Punch out
    GET  /api/attendance/daily?date=       Daily roll call
    POST /api/attendance/mark              Admin manual mark
    GET  /api/attendance/disputes          Open dispute queue
    POST /api/attendance/disputes          Submit a dispute
    POST /api/attendance/disputes/{id}/resolve  Accept/reject

  Employees:
    GET/POST /api/employees, GET /api/employees/{id}

  Penalties:
    GET/POST /api/penalties, DELETE /api/penalties/{id}

  Payroll:
    POST /api/payroll/generate             Run the engine for a period
    GET  /api/payroll/records?month=&year= Period (or all) snapshots
    GET  /api/payroll/records/{id}         Payslip by unguessable id
    GET  /api/payroll/runs                 Generation history

ERROR HANDLING:
  - 400: user/validation errors (no active session, dispute gating)
  - 404: not found (payslip id, employee id)
  - 500: everything else
  Authentication/authorization is an external collaborator's concern;
  handlers take explicit employee ids and carry no session state.
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/calendar"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     *sqlite.Store
	Machine   *attendance.Machine
	Engine    *payroll.Engine
	Penalties *penalty.Book
}

// NewHandler creates a handler over the store with the domain components
// pre-wired.
func NewHandler(store *sqlite.Store, machine *attendance.Machine, engine *payroll.Engine, book *penalty.Book) *Handler {
	return &Handler{
		Store:     store,
		Machine:   machine,
		Engine:    engine,
		Penalties: book,
	}
}

func (h *Handler) directory() sqlite.Directory { return sqlite.Directory{Store: h.Store} }
func (h *Handler) penalties() sqlite.Penalties { return sqlite.Penalties{Store: h.Store} }
func (h *Handler) payrolls() sqlite.Payrolls   { return sqlite.Payrolls{Store: h.Store} }

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// CheckIn punches an employee in; a second punch on the same day closes
// the session instead.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", err)
		return
	}

	rec, err := h.Machine.CheckIn(r.Context(), req.EmployeeID)
	if err != nil {
		writeAttendanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// CheckOut closes today's open session.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", err)
		return
	}

	rec, err := h.Machine.CheckOut(r.Context(), req.EmployeeID)
	if err != nil {
		writeAttendanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// ManualMark is the admin path for days without punches.
func (h *Handler) ManualMark(w http.ResponseWriter, r *http.Request) {
	var req ManualMarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", err)
		return
	}

	date, err := calendar.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)", err)
		return
	}

	rec, err := h.Machine.ManualMark(r.Context(), req.EmployeeID, date, req.Present, money.FromFloat(req.OvertimeHours))
	if err != nil {
		writeAttendanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// DailyReport returns the roll call for a date (default today). Employees
// with no record are implicitly absent.
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	date := calendar.Today()
	if s := r.URL.Query().Get("date"); s != "" {
		var err error
		if date, err = calendar.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}

	employees, err := h.directory().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}
	records, err := h.Store.ListByDate(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list attendance", err)
		return
	}

	byEmployee := make(map[string]attendance.Record, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = rec
	}

	report := DailyReportDTO{
		Date:       date.String(),
		TotalCount: len(employees),
		Entries:    make([]DailyReportEntryDTO, 0, len(employees)),
	}
	for _, emp := range employees {
		entry := DailyReportEntryDTO{Employee: toEmployeeDTO(emp), Status: "Absent"}
		if rec, ok := byEmployee[emp.ID]; ok {
			ot, _ := rec.OvertimeHours.Float64()
			entry.OvertimeHours = ot
			if rec.Present {
				entry.Status = "Present"
			}
		}
		if entry.Status == "Present" {
			report.PresentCount++
		} else {
			report.AbsentCount++
		}
		report.Entries = append(report.Entries, entry)
	}

	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// DISPUTE HANDLERS
// =============================================================================

// SubmitDispute lets an employee contest today's ABSENT mark.
func (h *Handler) SubmitDispute(w http.ResponseWriter, r *http.Request) {
	var req SubmitDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" || req.Reason == "" {
		writeError(w, http.StatusBadRequest, "employee_id and reason are required", err)
		return
	}

	rec, err := h.Machine.SubmitDispute(r.Context(), req.EmployeeID, req.Reason)
	if err != nil {
		writeAttendanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// ListDisputes returns the open dispute queue.
func (h *Handler) ListDisputes(w http.ResponseWriter, r *http.Request) {
	records, err := h.Machine.OpenDisputes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list disputes", err)
		return
	}

	dtos := make([]AttendanceRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResolveDispute applies the admin decision to an open dispute.
func (h *Handler) ResolveDispute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ResolveDisputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	rec, err := h.Machine.ResolveDispute(r.Context(), id, req.Accept)
	if err != nil {
		writeAttendanceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.directory().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.directory().Get(r.Context(), id)
	if err == employee.ErrNotFound {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}
	if req.BasicSalary < 0 || req.OvertimeRatePerHour < 0 || req.Deductions < 0 {
		writeError(w, http.StatusBadRequest, "salary, rate and deductions cannot be negative", nil)
		return
	}

	status := employee.Status(req.Status)
	if status == "" {
		status = employee.StatusActive
	}
	if status != employee.StatusActive && status != employee.StatusSuspended {
		writeError(w, http.StatusBadRequest, "status must be ACTIVE or SUSPENDED", nil)
		return
	}

	emp := employee.Employee{
		ID:                  req.ID,
		Name:                req.Name,
		Designation:         req.Designation,
		ImageURL:            req.ImageURL,
		BasicSalary:         money.FromFloat(req.BasicSalary),
		OvertimeRatePerHour: money.FromFloat(req.OvertimeRatePerHour),
		Deductions:          money.FromFloat(req.Deductions),
		Status:              status,
	}
	if err := h.directory().Save(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// PENALTY HANDLERS
// =============================================================================

func (h *Handler) ListPenalties(w http.ResponseWriter, r *http.Request) {
	var (
		sheets []penalty.ChargeSheet
		err    error
	)
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		sheets, err = h.penalties().ListByEmployee(r.Context(), employeeID)
	} else {
		sheets, err = h.penalties().ListAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list penalties", err)
		return
	}

	dtos := make([]ChargeSheetDTO, len(sheets))
	for i, cs := range sheets {
		dtos[i] = toChargeSheetDTO(cs)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) IssuePenalty(w http.ResponseWriter, r *http.Request) {
	var req IssuePenaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", err)
		return
	}

	// The employee must exist; a typo'd id would otherwise create an
	// unchargeable fine.
	if _, err := h.directory().Get(r.Context(), req.EmployeeID); err == employee.ErrNotFound {
		writeError(w, http.StatusNotFound, "employee not found", nil)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get employee", err)
		return
	}

	cs, err := h.Penalties.Issue(r.Context(), req.EmployeeID, req.Reason, money.FromFloat(req.Amount))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to issue penalty", err)
		return
	}
	writeJSON(w, http.StatusCreated, toChargeSheetDTO(cs))
}

func (h *Handler) DeletePenalty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Penalties.Delete(r.Context(), id)
	switch err {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case penalty.ErrNotFound:
		writeError(w, http.StatusNotFound, "charge sheet not found", nil)
	case penalty.ErrAlreadyDeducted:
		writeError(w, http.StatusConflict, "charge sheet already deducted by a payroll run", nil)
	default:
		writeError(w, http.StatusInternalServerError, "failed to delete penalty", err)
	}
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GeneratePayroll runs the engine for a period. Per-employee failures are
// logged by the engine, not surfaced here; only period-level problems fail
// the request.
func (h *Handler) GeneratePayroll(w http.ResponseWriter, r *http.Request) {
	var req GeneratePayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.Engine.Generate(r.Context(), req.Month, req.Year); err != nil {
		writeError(w, http.StatusBadRequest, "payroll generation failed", err)
		return
	}

	records, err := h.payrolls().ListByPeriod(r.Context(), req.Month, req.Year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list generated records", err)
		return
	}
	dtos := make([]PayrollRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toPayrollDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListPayrollRecords returns a period's snapshots, or all of them.
func (h *Handler) ListPayrollRecords(w http.ResponseWriter, r *http.Request) {
	var (
		records []payroll.Record
		err     error
	)

	monthStr := r.URL.Query().Get("month")
	yearStr := r.URL.Query().Get("year")
	if monthStr != "" && yearStr != "" {
		month, merr := strconv.Atoi(monthStr)
		year, yerr := strconv.Atoi(yearStr)
		if merr != nil || yerr != nil {
			writeError(w, http.StatusBadRequest, "month and year must be integers", nil)
			return
		}
		records, err = h.payrolls().ListByPeriod(r.Context(), month, year)
	} else {
		records, err = h.payrolls().ListAll(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payroll records", err)
		return
	}

	dtos := make([]PayrollRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toPayrollDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayslip returns one snapshot by its unguessable id. The sparse id
// space is the data-layer access boundary; 404 reveals nothing.
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.payrolls().GetByID(r.Context(), id)
	if payroll.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "no salary slip found for this id", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get payroll record", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(rec))
}

// ListPayrollRuns returns the generation history, newest first.
func (h *Handler) ListPayrollRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.payrolls().ListRuns(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payroll runs", err)
		return
	}

	dtos := make([]PayrollRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeAttendanceError maps state machine errors onto HTTP statuses per
// the taxonomy: user errors 400, missing records 404, the rest 500.
func writeAttendanceError(w http.ResponseWriter, err error) {
	switch {
	case attendance.IsUserError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "attendance record not found", nil)
	default:
		writeError(w, http.StatusInternalServerError, "attendance operation failed", err)
	}
}
