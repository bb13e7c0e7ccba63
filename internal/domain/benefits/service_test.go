package benefits

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
	items map[string]Benefit
	seq   int
}

func (m *memStore) List(_ context.Context, f Filter) ([]Benefit, error) {
	out := []Benefit{}
	for _, b := range m.items {
		if f.EmployeeID != "" && b.EmployeeID != f.EmployeeID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (Benefit, error) {
	b, ok := m.items[id]
	if !ok {
		return Benefit{}, apperr.NotFound("benefit")
	}
	return b, nil
}

func (m *memStore) Create(_ context.Context, b Benefit) (Benefit, error) {
	m.seq++
	b.ID = fmt.Sprintf("b%d", m.seq)
	m.items[b.ID] = b
	return b, nil
}

func (m *memStore) Update(_ context.Context, b Benefit) (Benefit, error) {
	m.items[b.ID] = b
	return b, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

var (
	hr       = auth.Actor{UserID: "u-hr", EmployeeID: "e-hr", Role: auth.RoleHR}
	employee = auth.Actor{UserID: "u-emp", EmployeeID: "e-emp", Role: auth.RoleEmployee}
)

func input(t *testing.T, raw string) Input {
	t.Helper()
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

func TestCreateBenefit(t *testing.T) {
	svc := NewService(&memStore{items: map[string]Benefit{}})

	b, err := svc.Create(context.Background(), hr, input(t,
		`{"employee":"e-emp","planType":"dental","provider":"Delta","cost":"45.50","effectiveDate":"2024-01-01","dependents":[{"name":"Sam","relationship":"child"}]}`))
	require.NoError(t, err)
	require.Equal(t, "Dental", b.PlanType)
	require.Equal(t, 45.5, b.Cost)
	require.Equal(t, []Dependent{{Name: "Sam", Relationship: "child"}}, b.Dependents)
}

func TestBenefitValidation(t *testing.T) {
	svc := NewService(&memStore{items: map[string]Benefit{}})

	_, err := svc.Create(context.Background(), hr, input(t,
		`{"employeeId":"e-emp","planType":"Vision","cost":-1,"effectiveDate":"2024-06-01","endDate":"2024-01-01"}`))
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, f := range appErr.Fields {
		fields[f.Field] = true
	}
	require.True(t, fields["planType"])
	require.True(t, fields["cost"])
	require.True(t, fields["endDate"])
}

func TestEmployeeReadsOwnBenefitsOnly(t *testing.T) {
	store := &memStore{items: map[string]Benefit{}}
	svc := NewService(store)
	ctx := context.Background()

	own, err := svc.Create(ctx, hr, input(t, `{"employeeId":"e-emp","planType":"Health","effectiveDate":"2024-01-01"}`))
	require.NoError(t, err)
	other, err := svc.Create(ctx, hr, input(t, `{"employeeId":"e-other","planType":"HSA","effectiveDate":"2024-01-01"}`))
	require.NoError(t, err)

	list, err := svc.List(ctx, employee, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, own.ID, list[0].ID)

	_, err = svc.Get(ctx, employee, other.ID)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
	_, err = svc.Update(ctx, employee, own.ID, input(t, `{"cost":1}`))
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}
