package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/device"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/payroll"
)

// journeyApp boots the full stack against TEST_DATABASE_URL.
func journeyApp(t *testing.T) *App {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := testConfig()
	cfg.DatabaseURL = dsn
	cfg.RunMigrations = true
	cfg.AllowPrivilegedSignup = true
	cfg.OverdueSweepSchedule = "off"

	app, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	return app
}

type journeyClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c journeyClient) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env))
		if len(env.Data) > 0 {
			require.NoError(c.t, json.Unmarshal(env.Data, out))
		}
	}
	return rec.Code
}

func register(t *testing.T, router http.Handler, role auth.Role) (journeyClient, auth.Session) {
	t.Helper()
	anon := journeyClient{t: t, router: router}
	var session auth.Session
	status := anon.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name":     "Journey " + string(role),
		"email":    uuid.NewString()[:8] + "@journey.example.com",
		"password": "secret1",
		"role":     string(role),
		"gender":   "other",
		"phone":    "+15550001111",
	}, &session)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, session.Token)
	return journeyClient{t: t, router: router, token: session.Token}, session
}

func TestJourneyDeviceLeavePayroll(t *testing.T) {
	app := journeyApp(t)
	hr, _ := register(t, app.Router, auth.RoleHR)
	emp, empSession := register(t, app.Router, auth.RoleEmployee)
	employeeID := empSession.User.EmployeeID
	require.NotEmpty(t, employeeID)

	var d device.Device
	require.Equal(t, http.StatusCreated, hr.do(http.MethodPost, "/api/devices", map[string]any{
		"deviceName": "ThinkPad", "deviceType": "laptop", "serialNo": uuid.NewString(),
	}, &d))
	require.Equal(t, device.StatusAvailable, d.Status)

	require.Equal(t, http.StatusForbidden, emp.do(http.MethodPost, "/api/devices/"+d.ID+"/assign", map[string]string{"employeeId": employeeID}, nil))
	require.Equal(t, http.StatusOK, hr.do(http.MethodPost, "/api/devices/"+d.ID+"/assign", map[string]string{"employeeId": employeeID, "location": "HQ"}, &d))
	require.Equal(t, device.StatusActive, d.Status)
	require.Equal(t, http.StatusConflict, hr.do(http.MethodPost, "/api/devices/"+d.ID+"/assign", map[string]string{"employeeId": employeeID}, nil))

	var mine []device.Device
	require.Equal(t, http.StatusOK, emp.do(http.MethodGet, "/api/devices", nil, &mine))
	require.Len(t, mine, 1)

	require.Equal(t, http.StatusOK, hr.do(http.MethodPost, "/api/devices/"+d.ID+"/return", map[string]string{"condition": "good"}, &d))
	require.Equal(t, device.StatusAvailable, d.Status)
	require.Empty(t, d.AssignedTo)
	require.Len(t, d.History, 2)

	start := time.Now().AddDate(0, 0, 7).Format(time.DateOnly)
	end := time.Now().AddDate(0, 0, 9).Format(time.DateOnly)
	var req leave.LeaveRequest
	require.Equal(t, http.StatusCreated, emp.do(http.MethodPost, "/api/leaves", map[string]string{
		"type": "vacation", "startDate": start, "endDate": end, "reason": "trip",
	}, &req))
	require.Equal(t, 3, req.Duration)
	require.Equal(t, http.StatusForbidden, emp.do(http.MethodPatch, "/api/leaves/"+req.ID+"/status", map[string]string{"status": "approved"}, nil))
	require.Equal(t, http.StatusOK, hr.do(http.MethodPatch, "/api/leaves/"+req.ID+"/status", map[string]string{"status": "approved"}, &req))
	require.Equal(t, leave.StatusApproved, req.Status)
	require.Equal(t, http.StatusConflict, hr.do(http.MethodPatch, "/api/leaves/"+req.ID+"/status", map[string]string{"status": "rejected"}, nil))

	var p payroll.Payroll
	require.Equal(t, http.StatusCreated, hr.do(http.MethodPost, "/api/payroll", map[string]any{
		"employee": employeeID, "baseSalary": "5000", "bonus": 500, "deductions": "200", "payDate": end,
	}, &p))
	require.InDelta(t, 5300, p.NetSalary, 0.001)
	require.Equal(t, http.StatusOK, hr.do(http.MethodPatch, "/api/payroll/"+p.ID+"/status", map[string]string{"status": "paid"}, &p))
	require.Equal(t, payroll.StatusPaid, p.Status)

	var slips []payroll.Payroll
	require.Equal(t, http.StatusOK, emp.do(http.MethodGet, "/api/payroll", nil, &slips))
	require.Len(t, slips, 1)

	rec := httptest.NewRecorder()
	slipReq := httptest.NewRequest(http.MethodGet, "/api/payroll/"+p.ID+"/payslip", nil)
	slipReq.Header.Set("Authorization", "Bearer "+emp.token)
	app.Router.ServeHTTP(rec, slipReq)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
}

func TestJourneyLoginRoleMismatch(t *testing.T) {
	app := journeyApp(t)
	anon := journeyClient{t: t, router: app.Router}
	email := uuid.NewString()[:8] + "@journey.example.com"
	require.Equal(t, http.StatusCreated, anon.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Role Check", "email": email, "password": "secret1", "role": "employee", "gender": "female", "phone": "5550001111",
	}, nil))

	require.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret1", "role": "hr"}, nil))
	require.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "wrong1", "role": "employee"}, nil))
	var session auth.Session
	require.Equal(t, http.StatusOK, anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": "secret1", "role": "employee"}, &session))
	require.NotNil(t, session.User.LastLogin)
}
