/*
handlers_test.go - HTTP-level tests over the full router

Tests drive the real chi router against an in-memory SQLite store, so
routing, JSON codecs and the error-to-status mapping are all exercised.
*/
package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/attendance"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/penalty"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testServer struct {
	router  http.Handler
	store   *sqlite.Store
	clockMu sync.Mutex
	now     time.Time
}

func (ts *testServer) Now() time.Time {
	ts.clockMu.Lock()
	defer ts.clockMu.Unlock()
	return ts.now
}

func (ts *testServer) SetNow(t time.Time) {
	ts.clockMu.Lock()
	defer ts.clockMu.Unlock()
	ts.now = t
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ts := &testServer{
		store: store,
		now:   time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
	}

	machine := attendance.NewMachineWithClock(store, ts.Now)
	book := penalty.NewBookWithClock(sqlite.Penalties{Store: store}, ts.Now)
	engine := payroll.NewEngine(
		sqlite.Directory{Store: store},
		store,
		sqlite.Penalties{Store: store},
		sqlite.Payrolls{Store: store},
		sqlite.Payrolls{Store: store},
		time.Friday,
	).WithClock(ts.Now)

	handler := api.NewHandler(store, machine, engine, book)
	ts.router = api.NewRouter(handler)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

func (ts *testServer) addEmployee(t *testing.T, id, name string, basic float64) {
	t.Helper()
	rr := ts.do(t, http.MethodPost, "/api/employees", map[string]any{
		"id": id, "name": name, "designation": "Engineer", "basic_salary": basic,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

// =============================================================================
// EMPLOYEE ENDPOINT TESTS
// =============================================================================

func TestEmployees_SaveAndGet(t *testing.T) {
	ts := newTestServer(t)

	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	rr := ts.do(t, http.MethodGet, "/api/employees/emp-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	emp := decode[map[string]any](t, rr)
	assert.Equal(t, "Aisha Rahman", emp["name"])
	assert.Equal(t, float64(60000), emp["basic_salary"])
	assert.Equal(t, "ACTIVE", emp["status"])
}

func TestEmployees_GetUnknown(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/api/employees/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEmployees_SaveValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/employees", map[string]any{"id": "", "name": ""})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/employees", map[string]any{
		"id": "emp-1", "name": "A", "basic_salary": -1,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPost, "/api/employees", map[string]any{
		"id": "emp-1", "name": "A", "status": "ON_LEAVE",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// =============================================================================
// ATTENDANCE ENDPOINT TESTS
// =============================================================================

func TestAttendance_PunchFlow(t *testing.T) {
	// GIVEN: A check-in at 09:00
	// WHEN: Checking out at 17:30
	// THEN: PRESENT with 0.5h overtime, visible in the daily report

	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	rr := ts.do(t, http.MethodPost, "/api/attendance/check-in", map[string]any{"employee_id": "emp-1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rec := decode[map[string]any](t, rr)
	assert.Equal(t, "CHECKED_IN", rec["status"])

	ts.SetNow(time.Date(2026, time.March, 2, 17, 30, 0, 0, time.UTC))
	rr = ts.do(t, http.MethodPost, "/api/attendance/check-out", map[string]any{"employee_id": "emp-1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rec = decode[map[string]any](t, rr)
	assert.Equal(t, "PRESENT", rec["status"])
	assert.Equal(t, 8.5, rec["work_hours"])
	assert.Equal(t, 0.5, rec["overtime_hours"])

	rr = ts.do(t, http.MethodGet, "/api/attendance/daily?date=2026-03-02", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[map[string]any](t, rr)
	assert.Equal(t, float64(1), report["present_count"])
	assert.Equal(t, float64(0), report["absent_count"])
}

func TestAttendance_CheckOutWithoutCheckIn(t *testing.T) {
	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	rr := ts.do(t, http.MethodPost, "/api/attendance/check-out", map[string]any{"employee_id": "emp-1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	resp := decode[map[string]any](t, rr)
	assert.Contains(t, resp["error"], "no active check-in session")
}

func TestAttendance_DailyReportImplicitAbsent(t *testing.T) {
	// An employee with no record for the date shows up as Absent.
	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)
	ts.addEmployee(t, "emp-2", "Karim Hossain", 45000)

	rr := ts.do(t, http.MethodPost, "/api/attendance/check-in", map[string]any{"employee_id": "emp-1"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, http.MethodGet, "/api/attendance/daily?date=2026-03-02", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	report := decode[map[string]any](t, rr)
	assert.Equal(t, float64(2), report["total_count"])
	assert.Equal(t, float64(1), report["present_count"])
	assert.Equal(t, float64(1), report["absent_count"])
}

func TestAttendance_ManualMarkAndDisputeFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	// Admin marks today absent.
	rr := ts.do(t, http.MethodPost, "/api/attendance/mark", map[string]any{
		"employee_id": "emp-1", "date": "2026-03-02", "present": false,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Employee disputes.
	rr = ts.do(t, http.MethodPost, "/api/attendance/disputes", map[string]any{
		"employee_id": "emp-1", "reason": "badge reader was down",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rec := decode[map[string]any](t, rr)
	assert.Equal(t, "DISPUTE_OPEN", rec["status"])
	recordID := rec["id"].(string)

	// The queue shows it.
	rr = ts.do(t, http.MethodGet, "/api/attendance/disputes", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	queue := decode[[]map[string]any](t, rr)
	require.Len(t, queue, 1)

	// Admin accepts.
	rr = ts.do(t, http.MethodPost, "/api/attendance/disputes/"+recordID+"/resolve", map[string]any{"accept": true})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rec = decode[map[string]any](t, rr)
	assert.Equal(t, "PRESENT_MANUAL", rec["status"])
	assert.Equal(t, true, rec["present"])

	// Resolving again is a user error.
	rr = ts.do(t, http.MethodPost, "/api/attendance/disputes/"+recordID+"/resolve", map[string]any{"accept": false})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAttendance_DisputeWithoutAbsence(t *testing.T) {
	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	rr := ts.do(t, http.MethodPost, "/api/attendance/disputes", map[string]any{
		"employee_id": "emp-1", "reason": "I was here",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

// =============================================================================
// PENALTY ENDPOINT TESTS
// =============================================================================

func TestPenalties_IssueListDelete(t *testing.T) {
	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	rr := ts.do(t, http.MethodPost, "/api/penalties", map[string]any{
		"employee_id": "emp-1", "reason": "equipment damage", "amount": 250.5,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	cs := decode[map[string]any](t, rr)
	assert.Equal(t, "PENDING", cs["status"])
	assert.Equal(t, "2026-03-02", cs["issue_date"])

	rr = ts.do(t, http.MethodGet, "/api/penalties?employee_id=emp-1", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	list := decode[[]map[string]any](t, rr)
	require.Len(t, list, 1)

	rr = ts.do(t, http.MethodDelete, "/api/penalties/"+cs["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestPenalties_UnknownEmployee(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/penalties", map[string]any{
		"employee_id": "ghost", "reason": "damage", "amount": 100,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPenalties_DeleteDeductedConflicts(t *testing.T) {
	// GIVEN: A February penalty consumed by the February payroll run
	// WHEN: Deleting it
	// THEN: 409 Conflict

	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	ts.SetNow(time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC))
	rr := ts.do(t, http.MethodPost, "/api/penalties", map[string]any{
		"employee_id": "emp-1", "reason": "damage", "amount": 300,
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	cs := decode[map[string]any](t, rr)

	rr = ts.do(t, http.MethodPost, "/api/payroll/generate", map[string]any{"month": 2, "year": 2026})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.do(t, http.MethodDelete, "/api/penalties/"+cs["id"].(string), nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

// =============================================================================
// PAYROLL ENDPOINT TESTS
// =============================================================================

func TestPayroll_GenerateAndFetch(t *testing.T) {
	ts := newTestServer(t)
	ts.addEmployee(t, "emp-1", "Aisha Rahman", 60000)

	// Mark 20 February days present through the admin endpoint.
	marked := 0
	for day := 1; day <= 28 && marked < 20; day++ {
		date := time.Date(2026, time.February, day, 0, 0, 0, 0, time.UTC)
		if date.Weekday() == time.Friday {
			continue
		}
		rr := ts.do(t, http.MethodPost, "/api/attendance/mark", map[string]any{
			"employee_id": "emp-1",
			"date":        date.Format("2006-01-02"),
			"present":     true,
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		marked++
	}

	rr := ts.do(t, http.MethodPost, "/api/payroll/generate", map[string]any{"month": 2, "year": 2026})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	generated := decode[[]map[string]any](t, rr)
	require.Len(t, generated, 1)

	// February 2026 with Friday rest: 24 working days, daily rate 2500.
	assert.Equal(t, float64(50000), generated[0]["payable_basic"])
	assert.Equal(t, float64(2500), generated[0]["deductions"])
	assert.Equal(t, float64(47500), generated[0]["net_pay"])

	// The payslip is reachable by its id.
	id := generated[0]["id"].(string)
	rr = ts.do(t, http.MethodGet, "/api/payroll/records/"+id, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	slip := decode[map[string]any](t, rr)
	assert.Equal(t, "Aisha Rahman", slip["employee_name"])

	// Period listing finds it too.
	rr = ts.do(t, http.MethodGet, "/api/payroll/records?month=2&year=2026", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]map[string]any](t, rr), 1)

	// The run is on record.
	rr = ts.do(t, http.MethodGet, "/api/payroll/runs", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	runs := decode[[]map[string]any](t, rr)
	require.Len(t, runs, 1)
	assert.Equal(t, "COMPLETED", runs[0]["status"])
}

func TestPayroll_PayslipUnknownID(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/api/payroll/records/not-a-real-id", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPayroll_GenerateInvalidMonth(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/payroll/generate", map[string]any{"month": 13, "year": 2026})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPayroll_RecordsBadQuery(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/api/payroll/records?month=feb&year=2026", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
