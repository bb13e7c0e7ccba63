package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
)

type memStore struct {
	items map[string]Employee
	seq   int
}

func newMemStore() *memStore {
	return &memStore{items: map[string]Employee{}}
}

func (m *memStore) List(_ context.Context, f Filter) ([]Employee, error) {
	out := []Employee{}
	for _, e := range m.items {
		if f.Status != "" && string(e.Status) != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (Employee, error) {
	e, ok := m.items[id]
	if !ok {
		return Employee{}, apperr.NotFound("employee")
	}
	return e, nil
}

func (m *memStore) Create(_ context.Context, e Employee) (Employee, error) {
	m.seq++
	e.ID = fmt.Sprintf("e%d", m.seq)
	m.items[e.ID] = e
	return e, nil
}

func (m *memStore) Update(_ context.Context, e Employee) (Employee, error) {
	m.items[e.ID] = e
	return e, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memStore) SetStatus(_ context.Context, id string, status Status) error {
	e, ok := m.items[id]
	if !ok {
		return apperr.NotFound("employee")
	}
	e.Status = status
	m.items[id] = e
	return nil
}

func input(t *testing.T, raw string) Input {
	t.Helper()
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

var hr = auth.Actor{UserID: "u-hr", Role: auth.RoleHR}

func seed(t *testing.T, svc *Service, name, email string) Employee {
	t.Helper()
	e, err := svc.Create(context.Background(), hr, input(t, fmt.Sprintf(`{"name":%q,"email":%q,"salary":"4200","joinDate":"2023-01-09"}`, name, email)))
	require.NoError(t, err)
	return e
}

func TestCreateEmployeeDefaults(t *testing.T) {
	svc := NewService(newMemStore())
	e := seed(t, svc, "Grace Hopper", "Grace@Example.com")
	require.Equal(t, StatusActive, e.Status)
	require.Equal(t, "grace@example.com", e.Email)
	require.Equal(t, 4200.0, e.Salary)
	require.NotNil(t, e.JoinDate)
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc := NewService(newMemStore())
	_, err := svc.Create(context.Background(), hr, input(t, `{"name":"X","email":"bad","status":"retired"}`))
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	require.Len(t, appErr.Fields, 3)
}

func TestEmployeeSeesOnlyOwnProfile(t *testing.T) {
	svc := NewService(newMemStore())
	own := seed(t, svc, "Ada", "ada@example.com")
	other := seed(t, svc, "Alan", "alan@example.com")
	me := auth.Actor{UserID: "u1", EmployeeID: own.ID, Role: auth.RoleEmployee}

	list, err := svc.List(context.Background(), me, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, own.ID, list[0].ID)

	_, err = svc.Get(context.Background(), me, other.ID)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	manager := auth.Actor{UserID: "u2", Role: auth.RoleManager}
	list, err = svc.List(context.Background(), manager, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestSelfServiceUpdateIgnoresProtectedFields(t *testing.T) {
	svc := NewService(newMemStore())
	own := seed(t, svc, "Ada", "ada@example.com")
	me := auth.Actor{UserID: "u1", EmployeeID: own.ID, Role: auth.RoleEmployee}

	updated, err := svc.Update(context.Background(), me, own.ID, input(t, `{"phone":"+15550001111","salary":999999,"status":"inactive"}`))
	require.NoError(t, err)
	require.Equal(t, "+15550001111", updated.Phone)
	require.Equal(t, 4200.0, updated.Salary)
	require.Equal(t, StatusActive, updated.Status)

	other := seed(t, svc, "Alan", "alan@example.com")
	_, err = svc.Update(context.Background(), me, other.ID, input(t, `{"phone":"+15550001111"}`))
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestManagerCannotEditOthers(t *testing.T) {
	svc := NewService(newMemStore())
	other := seed(t, svc, "Alan", "alan@example.com")
	manager := auth.Actor{UserID: "u2", EmployeeID: "e-mgr", Role: auth.RoleManager}
	_, err := svc.Update(context.Background(), manager, other.ID, input(t, `{"position":"CTO"}`))
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(svc.Delete(context.Background(), manager, other.ID)))
}

func TestExists(t *testing.T) {
	svc := NewService(newMemStore())
	e := seed(t, svc, "Ada", "ada@example.com")
	ok, err := svc.Exists(context.Background(), e.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.Exists(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestExportRequiresReportPermission(t *testing.T) {
	svc := NewService(newMemStore())
	seed(t, svc, "Ada", "ada@example.com")

	_, err := svc.Export(context.Background(), auth.Actor{UserID: "u2", Role: auth.RoleManager}, Filter{})
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	buf, err := svc.Export(context.Background(), hr, Filter{})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())
}
