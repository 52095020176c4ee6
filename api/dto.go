/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the internal domain
  model (decimal amounts, typed dates) from the wire contract (floats,
  YYYY-MM-DD strings).

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/employee"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Designation         string  `json:"designation"`
	ImageURL            string  `json:"image_url,omitempty"`
	BasicSalary         float64 `json:"basic_salary"`
	OvertimeRatePerHour float64 `json:"overtime_rate_per_hour"`
	Deductions          float64 `json:"deductions"`
	Status              string  `json:"status"`
}

type SaveEmployeeRequest struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Designation         string  `json:"designation"`
	ImageURL            string  `json:"image_url"`
	BasicSalary         float64 `json:"basic_salary"`
	OvertimeRatePerHour float64 `json:"overtime_rate_per_hour"`
	Deductions          float64 `json:"deductions"`
	Status              string  `json:"status"`
}

func toEmployeeDTO(e employee.Employee) EmployeeDTO {
	basic, _ := e.BasicSalary.Float64()
	otRate, _ := e.OvertimeRatePerHour.Float64()
	ded, _ := e.Deductions.Float64()
	return EmployeeDTO{
		ID:                  e.ID,
		Name:                e.Name,
		Designation:         e.Designation,
		ImageURL:            e.ImageURL,
		BasicSalary:         basic,
		OvertimeRatePerHour: otRate,
		Deductions:          ded,
		Status:              string(e.Status),
	}
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceRecordDTO struct {
	ID            string  `json:"id"`
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	CheckInTime   *string `json:"check_in_time,omitempty"`
	CheckOutTime  *string `json:"check_out_time,omitempty"`
	WorkHours     float64 `json:"work_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	Present       bool    `json:"present"`
	Status        string  `json:"status"`
	DisputeReason string  `json:"dispute_reason,omitempty"`
}

func toAttendanceDTO(r attendance.Record) AttendanceRecordDTO {
	wh, _ := r.WorkHours.Float64()
	ot, _ := r.OvertimeHours.Float64()
	return AttendanceRecordDTO{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		Date:          r.Date.String(),
		CheckInTime:   formatTime(r.CheckInTime),
		CheckOutTime:  formatTime(r.CheckOutTime),
		WorkHours:     wh,
		OvertimeHours: ot,
		Present:       r.Present,
		Status:        string(r.Status),
		DisputeReason: r.DisputeReason,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

type PunchRequest struct {
	EmployeeID string `json:"employee_id"`
}

type ManualMarkRequest struct {
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	Present       bool    `json:"present"`
	OvertimeHours float64 `json:"overtime_hours"`
}

type SubmitDisputeRequest struct {
	EmployeeID string `json:"employee_id"`
	Reason     string `json:"reason"`
}

type ResolveDisputeRequest struct {
	Accept bool `json:"accept"`
}

// DailyReportDTO is the per-date attendance roll call. Employees without a
// record for the day are reported absent.
type DailyReportDTO struct {
	Date         string                  `json:"date"`
	PresentCount int                     `json:"present_count"`
	AbsentCount  int                     `json:"absent_count"`
	TotalCount   int                     `json:"total_count"`
	Entries      []DailyReportEntryDTO   `json:"entries"`
}

type DailyReportEntryDTO struct {
	Employee      EmployeeDTO `json:"employee"`
	Status        string      `json:"status"` // "Present" or "Absent"
	OvertimeHours float64     `json:"overtime_hours"`
}

// =============================================================================
// PENALTIES
// =============================================================================

type ChargeSheetDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Reason     string  `json:"reason"`
	Amount     float64 `json:"amount"`
	IssueDate  string  `json:"issue_date"`
	Status     string  `json:"status"`
}

func toChargeSheetDTO(cs penalty.ChargeSheet) ChargeSheetDTO {
	amount, _ := cs.Amount.Float64()
	return ChargeSheetDTO{
		ID:         cs.ID,
		EmployeeID: cs.EmployeeID,
		Reason:     cs.Reason,
		Amount:     amount,
		IssueDate:  cs.IssueDate.String(),
		Status:     string(cs.Status),
	}
}

type IssuePenaltyRequest struct {
	EmployeeID string  `json:"employee_id"`
	Reason     string  `json:"reason"`
	Amount     float64 `json:"amount"`
}

// =============================================================================
// PAYROLL
// =============================================================================

type PayrollRecordDTO struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Designation  string  `json:"designation"`
	ImageURL     string  `json:"image_url,omitempty"`
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	PayableBasic float64 `json:"payable_basic"`
	OvertimePay  float64 `json:"overtime_pay"`
	Deductions   float64 `json:"deductions"`
	NetPay       float64 `json:"net_pay"`
	GeneratedAt  string  `json:"generated_at"`
}

func toPayrollDTO(r payroll.Record) PayrollRecordDTO {
	basic, _ := r.PayableBasic.Float64()
	ot, _ := r.OvertimePay.Float64()
	ded, _ := r.Deductions.Float64()
	net, _ := r.NetPay.Float64()
	return PayrollRecordDTO{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Designation:  r.Designation,
		ImageURL:     r.ImageURL,
		Month:        r.Month,
		Year:         r.Year,
		PayableBasic: basic,
		OvertimePay:  ot,
		Deductions:   ded,
		NetPay:       net,
		GeneratedAt:  r.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

type GeneratePayrollRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

type PayrollRunDTO struct {
	ID          string `json:"id"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	Status      string `json:"status"`
	Processed   int    `json:"processed"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
	Error       string `json:"error,omitempty"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
}

func toRunDTO(r payroll.Run) PayrollRunDTO {
	return PayrollRunDTO{
		ID:          r.ID,
		Month:       r.Month,
		Year:        r.Year,
		Status:      string(r.Status),
		Processed:   r.Processed,
		Skipped:     r.Skipped,
		Failed:      r.Failed,
		Error:       r.Error,
		StartedAt:   r.StartedAt.UTC().Format(time.RFC3339),
		CompletedAt: r.CompletedAt.UTC().Format(time.RFC3339),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
