package device

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
)

type memStore struct {
	items map[string]Device
	seq   int
}

func newMemStore() *memStore {
	return &memStore{items: map[string]Device{}}
}

func (m *memStore) List(_ context.Context, f Filter) ([]Device, error) {
	out := []Device{}
	for _, d := range m.items {
		if f.AssignedTo != "" && d.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Status != "" && string(d.Status) != f.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (Device, error) {
	d, ok := m.items[id]
	if !ok {
		return Device{}, apperr.NotFound("device")
	}
	return d, nil
}

func (m *memStore) Create(_ context.Context, d Device) (Device, error) {
	m.seq++
	d.ID = fmt.Sprintf("d%d", m.seq)
	m.items[d.ID] = d
	return d, nil
}

func (m *memStore) Update(_ context.Context, d Device) (Device, error) {
	m.items[d.ID] = d
	return d, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memStore) Assign(_ context.Context, id, employeeID, location string, entry HistoryEntry) (bool, error) {
	d := m.items[id]
	if d.Status != StatusAvailable || d.AssignedTo != "" {
		return false, nil
	}
	d.Status, d.AssignedTo, d.Location = StatusActive, employeeID, location
	d.History = append(append([]HistoryEntry{}, d.History...), entry)
	m.items[id] = d
	return true, nil
}

func (m *memStore) Release(_ context.Context, id string, status Status, condition string, entry HistoryEntry) (bool, error) {
	d := m.items[id]
	if d.AssignedTo == "" {
		return false, nil
	}
	d.Status, d.AssignedTo, d.Condition = status, "", condition
	d.History = append(append([]HistoryEntry{}, d.History...), entry)
	m.items[id] = d
	return true, nil
}

type knownEmployees map[string]bool

func (k knownEmployees) Exists(_ context.Context, id string) (bool, error) {
	return k[id], nil
}

var (
	hr       = auth.Actor{UserID: "u-hr", EmployeeID: "e-hr", Role: auth.RoleHR}
	employee = auth.Actor{UserID: "u-emp", EmployeeID: "E1", Role: auth.RoleEmployee}
)

func newService() (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, knownEmployees{"E1": true, "E2": true})
	svc.Now = func() time.Time { return time.Date(2024, 6, 3, 8, 30, 0, 0, time.UTC) }
	return svc, store
}

func input(t *testing.T, raw string) Input {
	t.Helper()
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

func seedDevice(t *testing.T, svc *Service) Device {
	t.Helper()
	d, err := svc.Create(context.Background(), hr, input(t, `{"deviceName":"MacBook Pro","deviceType":"Laptop","serialNo":"C02XYZ","deviceModel":"M3"}`))
	require.NoError(t, err)
	return d
}

func TestCreateNormalizesLegacyNames(t *testing.T) {
	svc, _ := newService()
	d := seedDevice(t, svc)
	require.Equal(t, "MacBook Pro", d.Name)
	require.Equal(t, "laptop", d.Type)
	require.Equal(t, "C02XYZ", d.SerialNumber)
	require.Equal(t, "M3", d.Model)
	require.Equal(t, StatusAvailable, d.Status)
	require.Equal(t, "good", d.Condition)
	require.Empty(t, d.History)
}

func TestAssignThenConflict(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	d := seedDevice(t, svc)

	assigned, err := svc.Assign(ctx, hr, d.ID, AssignInput{EmployeeID: "E1", Location: "HQ", Notes: "onboarding"})
	require.NoError(t, err)
	require.Equal(t, StatusActive, assigned.Status)
	require.Equal(t, "E1", assigned.AssignedTo)
	require.Equal(t, "HQ", assigned.Location)
	require.Len(t, assigned.History, 1)
	require.Equal(t, ActionAssigned, assigned.History[0].Action)
	require.Equal(t, "onboarding", assigned.History[0].Notes)

	_, err = svc.Assign(ctx, hr, d.ID, AssignInput{EmployeeID: "E2"})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindConflict, appErr.Kind)
	require.Equal(t, "device_unavailable", appErr.Code)
}

func TestAssignValidatesEmployee(t *testing.T) {
	svc, _ := newService()
	d := seedDevice(t, svc)

	_, err := svc.Assign(context.Background(), hr, d.ID, AssignInput{EmployeeID: "ghost"})
	require.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Assign(context.Background(), hr, d.ID, AssignInput{})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	assigned, err := svc.Assign(context.Background(), hr, d.ID, AssignInput{LegacyEmployee: "E2"})
	require.NoError(t, err)
	require.Equal(t, "E2", assigned.AssignedTo)
}

func TestReturn(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	d := seedDevice(t, svc)

	_, err := svc.Return(ctx, hr, d.ID, ReturnInput{})
	appErr, _ := apperr.As(err)
	require.Equal(t, "device_not_assigned", appErr.Code)

	_, err = svc.Assign(ctx, hr, d.ID, AssignInput{EmployeeID: "E1"})
	require.NoError(t, err)

	returned, err := svc.Return(ctx, hr, d.ID, ReturnInput{Condition: "fair", Notes: "scratched lid"})
	require.NoError(t, err)
	require.Equal(t, StatusAvailable, returned.Status)
	require.Empty(t, returned.AssignedTo)
	require.Equal(t, "fair", returned.Condition)
	require.Len(t, returned.History, 2)
	require.Equal(t, HistoryEntry{Employee: "E1", Action: ActionReturned, Date: svc.Now().UTC(), Notes: "scratched lid"}, returned.History[1])

	_, err = svc.Assign(ctx, hr, d.ID, AssignInput{EmployeeID: "E2"})
	require.NoError(t, err)
	retired, err := svc.Return(ctx, hr, d.ID, ReturnInput{Status: "returned"})
	require.NoError(t, err)
	require.Equal(t, StatusReturned, retired.Status)

	_, err = svc.Return(ctx, hr, d.ID, ReturnInput{Status: "active"})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateCannotTouchAssignment(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	d := seedDevice(t, svc)

	_, err := svc.Update(ctx, hr, d.ID, input(t, `{"status":"active"}`))
	require.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Update(ctx, hr, d.ID, input(t, `{"assignedTo":"E1"}`))
	require.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Assign(ctx, hr, d.ID, AssignInput{EmployeeID: "E1"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, hr, d.ID, input(t, `{"status":"maintenance"}`))
	require.True(t, apperr.Is(err, apperr.KindConflict))

	updated, err := svc.Update(ctx, hr, d.ID, input(t, `{"location":"Remote","condition":"excellent"}`))
	require.NoError(t, err)
	require.Equal(t, "Remote", updated.Location)
	require.Equal(t, StatusActive, updated.Status)

	require.True(t, apperr.Is(svc.Delete(ctx, hr, d.ID), apperr.KindConflict))
}

func TestEmployeeSeesOnlyAssignedDevices(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	mine := seedDevice(t, svc)
	other := seedDevice(t, svc)
	_, err := svc.Assign(ctx, hr, mine.ID, AssignInput{EmployeeID: "E1"})
	require.NoError(t, err)

	list, err := svc.List(ctx, employee, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, mine.ID, list[0].ID)

	_, err = svc.Get(ctx, employee, other.ID)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.Create(ctx, employee, input(t, `{"name":"Phone"}`))
	require.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.Assign(ctx, employee, other.ID, AssignInput{EmployeeID: "E1"})
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}
