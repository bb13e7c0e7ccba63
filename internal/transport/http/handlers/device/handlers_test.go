package devicehandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/device"
)

type memStore struct {
	items map[string]device.Device
	seq   int
}

func (m *memStore) List(_ context.Context, f device.Filter) ([]device.Device, error) {
	out := []device.Device{}
	for _, d := range m.items {
		if f.AssignedTo != "" && d.AssignedTo != f.AssignedTo {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (device.Device, error) {
	d, ok := m.items[id]
	if !ok {
		return device.Device{}, apperr.NotFound("device")
	}
	return d, nil
}

func (m *memStore) Create(_ context.Context, d device.Device) (device.Device, error) {
	m.seq++
	d.ID = "d" + strconv.Itoa(m.seq)
	m.items[d.ID] = d
	return d, nil
}

func (m *memStore) Update(_ context.Context, d device.Device) (device.Device, error) {
	m.items[d.ID] = d
	return d, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memStore) Assign(_ context.Context, id, employeeID, location string, entry device.HistoryEntry) (bool, error) {
	d := m.items[id]
	if d.Status != device.StatusAvailable {
		return false, nil
	}
	d.Status, d.AssignedTo, d.Location = device.StatusActive, employeeID, location
	d.History = append(d.History, entry)
	m.items[id] = d
	return true, nil
}

func (m *memStore) Release(_ context.Context, id string, status device.Status, condition string, entry device.HistoryEntry) (bool, error) {
	d := m.items[id]
	if d.AssignedTo == "" {
		return false, nil
	}
	d.Status, d.AssignedTo, d.Condition = status, "", condition
	d.History = append(d.History, entry)
	m.items[id] = d
	return true, nil
}

type employees map[string]bool

func (e employees) Exists(_ context.Context, id string) (bool, error) {
	return e[id], nil
}

var (
	hr    = auth.Actor{UserID: "u-hr", EmployeeID: "e-hr", Role: auth.RoleHR}
	staff = auth.Actor{UserID: "u-1", EmployeeID: "E1", Role: auth.RoleEmployee}
)

func newRouter() http.Handler {
	svc := device.NewService(&memStore{items: map[string]device.Device{}}, employees{"E1": true})
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func call(t *testing.T, h http.Handler, actor auth.Actor, method, path, body string) (int, device.Device) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req = req.WithContext(auth.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env struct {
		Data device.Device `json:"data"`
	}
	if rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env.Data
}

func TestAssignAndReturnOverHTTP(t *testing.T) {
	h := newRouter()

	code, d := call(t, h, hr, http.MethodPost, "/devices", `{"deviceName":"Dell XPS","deviceType":"laptop","serial":"SN-1"}`)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, "Dell XPS", d.Name)
	require.Equal(t, "SN-1", d.SerialNumber)

	code, _ = call(t, h, hr, http.MethodPost, "/devices/"+d.ID+"/assign", `{"employeeId":"nobody"}`)
	require.Equal(t, http.StatusBadRequest, code)

	code, d = call(t, h, hr, http.MethodPost, "/devices/"+d.ID+"/assign", `{"employeeId":"E1","location":"Desk 4"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, device.StatusActive, d.Status)

	code, _ = call(t, h, hr, http.MethodPost, "/devices/"+d.ID+"/assign", `{"employeeId":"E1"}`)
	require.Equal(t, http.StatusConflict, code)

	code, _ = call(t, h, hr, http.MethodDelete, "/devices/"+d.ID, "")
	require.Equal(t, http.StatusConflict, code)

	code, d = call(t, h, hr, http.MethodPost, "/devices/"+d.ID+"/return", `{"condition":"fair","notes":"scratched lid"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, device.StatusAvailable, d.Status)
	require.Equal(t, "fair", d.Condition)
	require.Len(t, d.History, 2)

	code, _ = call(t, h, hr, http.MethodPost, "/devices/"+d.ID+"/return", `{}`)
	require.Equal(t, http.StatusConflict, code)
}

func TestEmployeeCannotManageDevices(t *testing.T) {
	h := newRouter()
	code, d := call(t, h, hr, http.MethodPost, "/devices", `{"name":"iPad","type":"tablet"}`)
	require.Equal(t, http.StatusCreated, code)

	code, _ = call(t, h, staff, http.MethodPost, "/devices", `{"name":"Rogue"}`)
	require.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, h, staff, http.MethodPost, "/devices/"+d.ID+"/assign", `{"employeeId":"E1"}`)
	require.Equal(t, http.StatusForbidden, code)
	code, _ = call(t, h, staff, http.MethodPatch, "/devices/"+d.ID, `{"location":"home"}`)
	require.Equal(t, http.StatusForbidden, code)
}

func TestPutAndPatchBothPatch(t *testing.T) {
	h := newRouter()
	_, d := call(t, h, hr, http.MethodPost, "/devices", `{"name":"Monitor","type":"monitor","location":"HQ"}`)

	code, d := call(t, h, hr, http.MethodPut, "/devices/"+d.ID, `{"location":"Annex"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "Monitor", d.Name)
	require.Equal(t, "Annex", d.Location)

	code, d = call(t, h, hr, http.MethodPatch, "/devices/"+d.ID, `{"deviceModel":"U2723QE"}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "U2723QE", d.Model)
	require.Equal(t, "Annex", d.Location)

	code, _ = call(t, h, hr, http.MethodPatch, "/devices/"+d.ID, `{"status":"active"}`)
	require.Equal(t, http.StatusBadRequest, code)
}
