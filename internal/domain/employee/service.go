package employee

import (
	"bytes"
	"context"
	"strings"
	"time"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/validate"
	"hrms/internal/platform/export"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// List returns every matching employee for managers and above, and only the
// caller's own profile for plain employees.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]Employee, error) {
	if actor.Can(auth.PermEmployeesReadAll) {
		return s.Store.List(ctx, filter)
	}
	if actor.EmployeeID == "" {
		return []Employee{}, nil
	}
	own, err := s.Store.Get(ctx, actor.EmployeeID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return []Employee{}, nil
		}
		return nil, err
	}
	return []Employee{own}, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Employee, error) {
	if !actor.Can(auth.PermEmployeesReadAll) && !actor.Owns(id) {
		return Employee{}, apperr.Forbidden("employees may only view their own profile")
	}
	return s.Store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (Employee, error) {
	if err := actor.Require(auth.PermEmployeesManage); err != nil {
		return Employee{}, err
	}
	e := Employee{Status: StatusActive}
	if err := apply(&e, in); err != nil {
		return Employee{}, err
	}
	return s.Store.Create(ctx, e)
}

// Update applies a partial patch. Employees editing their own profile may
// only change name, phone and address; other fields in the payload are ignored.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (Employee, error) {
	switch {
	case actor.Can(auth.PermEmployeesManage):
	case actor.Owns(id):
		in = in.SelfService()
	default:
		return Employee{}, apperr.Forbidden("employees may only edit their own profile")
	}
	e, err := s.Store.Get(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if err := apply(&e, in); err != nil {
		return Employee{}, err
	}
	return s.Store.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermEmployeesManage); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// Exists reports whether id names an employee.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}
	_, err := s.Store.Get(ctx, id)
	if err == nil {
		return true, nil
	}
	if apperr.Is(err, apperr.KindNotFound) {
		return false, nil
	}
	return false, err
}

func (s *Service) SetStatus(ctx context.Context, id string, status Status) error {
	return s.Store.SetStatus(ctx, id, status)
}

var exportHeaders = []string{"Name", "Email", "Phone", "Department", "Position", "Salary", "Join date", "Status"}

// Export writes the filtered directory as an xlsx workbook.
func (s *Service) Export(ctx context.Context, actor auth.Actor, filter Filter) (*bytes.Buffer, error) {
	if err := actor.Require(auth.PermReportsExport); err != nil {
		return nil, err
	}
	items, err := s.Store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, e := range items {
		joined := ""
		if e.JoinDate != nil {
			joined = e.JoinDate.Format(time.DateOnly)
		}
		rows = append(rows, []any{e.Name, e.Email, e.Phone, e.DepartmentName, e.Position, e.Salary, joined, string(e.Status)})
	}
	buf, err := export.XLSX(export.Sheet{Name: "Employees", Headers: exportHeaders, Rows: rows})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return buf, nil
}

func apply(e *Employee, in Input) error {
	v := validate.New()
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		e.Email = auth.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		e.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Gender != nil {
		e.Gender = strings.ToLower(strings.TrimSpace(*in.Gender))
	}
	if in.Address != nil {
		e.Address = strings.TrimSpace(*in.Address)
	}
	if in.DepartmentID != nil {
		e.DepartmentID = strings.TrimSpace(*in.DepartmentID)
	} else if in.Department != nil {
		e.DepartmentID = strings.TrimSpace(*in.Department)
	}
	if in.Position != nil {
		e.Position = strings.TrimSpace(*in.Position)
	}
	if in.Salary != nil {
		e.Salary = coerce.Value(in.Salary)
	}
	if in.JoinDate != nil {
		e.JoinDate = v.OptionalDate("joinDate", *in.JoinDate)
	}
	if in.Status != nil {
		e.Status = Status(strings.ToLower(strings.TrimSpace(*in.Status)))
		v.Enum("status", string(e.Status), Statuses)
	}

	if v.Required("name", e.Name) {
		v.MinLen("name", e.Name, 2)
	}
	if v.Required("email", e.Email) {
		v.Email("email", e.Email)
	}
	v.Phone("phone", e.Phone)
	v.Enum("gender", e.Gender, auth.Genders)
	v.NonNegative("salary", e.Salary)
	if e.Status == "" {
		v.Add("status", "is required")
	}
	return v.Err()
}
