package employee

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/platform/pgutil"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const employeeSelect = `
    SELECT e.id, e.name, e.email, e.phone, e.gender, e.address,
      COALESCE(e.department_id::text, ''), COALESCE(d.name, ''),
      e.position, e.salary, e.join_date, e.status, e.created_at, e.updated_at
    FROM employees e
    LEFT JOIN departments d ON d.id = e.department_id
  `

// Departments may be referenced by id or by name.
const (
	departmentRef       = "(SELECT id FROM departments WHERE id::text = $6 OR lower(name) = lower($6) LIMIT 1)"
	departmentRefUpdate = "(SELECT id FROM departments WHERE id::text = $7 OR lower(name) = lower($7) LIMIT 1)"
)

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	var status string
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.Gender, &e.Address,
		&e.DepartmentID, &e.DepartmentName, &e.Position, &e.Salary, &e.JoinDate, &status, &e.CreatedAt, &e.UpdatedAt)
	e.Status = Status(status)
	return e, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, employeeSelect+`
    WHERE ($1 = '' OR e.department_id::text = $1 OR lower(d.name) = lower($1))
      AND ($2 = '' OR e.status = $2)
      AND ($3 = '' OR e.name ILIKE '%' || $3 || '%' OR e.email ILIKE '%' || $3 || '%' OR e.position ILIKE '%' || $3 || '%')
    ORDER BY e.name
    LIMIT $4 OFFSET $5
  `, filter.DepartmentID, filter.Status, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list employees", "employee")
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan employee", "employee")
		}
		out = append(out, e)
	}
	return out, pgutil.Classify(rows.Err(), "list employees", "employee")
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, employeeSelect+"WHERE e.id = $1", id))
	return e, pgutil.Classify(err, "get employee", "employee")
}

func (s *Store) Create(ctx context.Context, e Employee) (Employee, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, phone, gender, address, department_id, position, salary, join_date, status)
    VALUES ($1,$2,$3,$4,$5,`+departmentRef+`,$7,$8,$9,$10)
    RETURNING id
  `, e.Name, e.Email, e.Phone, e.Gender, e.Address, e.DepartmentID, e.Position, e.Salary, e.JoinDate, string(e.Status)).Scan(&id); err != nil {
		return Employee{}, pgutil.Classify(err, "insert employee", "employee")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, e Employee) (Employee, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $2, email = $3, phone = $4, gender = $5, address = $6, department_id = `+departmentRefUpdate+`,
      position = $8, salary = $9, join_date = $10, status = $11, updated_at = now()
    WHERE id = $1
  `, e.ID, e.Name, e.Email, e.Phone, e.Gender, e.Address, e.DepartmentID, e.Position, e.Salary, e.JoinDate, string(e.Status))
	if err != nil {
		return Employee{}, pgutil.Classify(err, "update employee", "employee")
	}
	if tag.RowsAffected() == 0 {
		return Employee{}, pgutil.Classify(pgx.ErrNoRows, "update employee", "employee")
	}
	return s.Get(ctx, e.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete employee", "employee")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete employee", "employee")
	}
	return nil
}

func (s *Store) SetStatus(ctx context.Context, id string, status Status) error {
	tag, err := s.DB.Exec(ctx, "UPDATE employees SET status = $2, updated_at = now() WHERE id = $1", id, string(status))
	if err != nil {
		return pgutil.Classify(err, "set employee status", "employee")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "set employee status", "employee")
	}
	return nil
}
