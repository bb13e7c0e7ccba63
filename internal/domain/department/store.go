package department

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

const departmentSelect = `
    SELECT d.id, d.name, d.description, d.head, d.location, d.budget,
      (SELECT COUNT(1) FROM employees e WHERE e.department_id = d.id),
      d.created_at, d.updated_at
    FROM departments d
  `

func scanDepartment(row pgx.Row) (Department, error) {
	var d Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Head, &d.Location, &d.Budget, &d.EmployeeCount, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Department, error) {
	rows, err := s.DB.Query(ctx, departmentSelect+`
    WHERE ($1 = '' OR d.name ILIKE '%' || $1 || '%')
    ORDER BY d.name
    LIMIT $2 OFFSET $3
  `, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list departments", "department")
	}
	defer rows.Close()

	out := []Department{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan department", "department")
		}
		out = append(out, d)
	}
	return out, pgutil.Classify(rows.Err(), "list departments", "department")
}

func (s *Store) Summaries(ctx context.Context) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM departments ORDER BY name")
	if err != nil {
		return nil, pgutil.Classify(err, "list department names", "department")
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var item Summary
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, pgutil.Classify(err, "scan department", "department")
		}
		out = append(out, item)
	}
	return out, pgutil.Classify(rows.Err(), "list department names", "department")
}

func (s *Store) Get(ctx context.Context, id string) (Department, error) {
	d, err := scanDepartment(s.DB.QueryRow(ctx, departmentSelect+"WHERE d.id = $1", id))
	return d, pgutil.Classify(err, "get department", "department")
}

func (s *Store) Create(ctx context.Context, d Department) (Department, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO departments (name, description, head, location, budget)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, d.Name, d.Description, d.Head, d.Location, d.Budget).Scan(&id); err != nil {
		return Department{}, pgutil.Classify(err, "insert department", "department")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, d Department) (Department, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE departments
    SET name = $2, description = $3, head = $4, location = $5, budget = $6, updated_at = now()
    WHERE id = $1
  `, d.ID, d.Name, d.Description, d.Head, d.Location, d.Budget)
	if err != nil {
		return Department{}, pgutil.Classify(err, "update department", "department")
	}
	if tag.RowsAffected() == 0 {
		return Department{}, pgutil.Classify(pgx.ErrNoRows, "update department", "department")
	}
	return s.Get(ctx, d.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM departments WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete department", "department")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete department", "department")
	}
	return nil
}
