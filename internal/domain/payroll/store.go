package payroll

import (
	"context"
	"time"

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

const payrollSelect = `
    SELECT p.id, p.employee_id, COALESCE(e.name, ''), p.base_salary, p.bonus, p.deductions, p.net_salary,
      p.pay_date, p.status, p.notes, COALESCE(p.processed_by::text, ''), p.processed_at, p.payslip_key,
      p.created_at, p.updated_at
    FROM payroll p
    LEFT JOIN employees e ON e.id = p.employee_id
  `

func scanPayroll(row pgx.Row) (Payroll, error) {
	var p Payroll
	var status string
	err := row.Scan(&p.ID, &p.EmployeeID, &p.EmployeeName, &p.BaseSalary, &p.Bonus, &p.Deductions, &p.NetSalary,
		&p.PayDate, &status, &p.Notes, &p.ProcessedBy, &p.ProcessedAt, &p.PayslipKey, &p.CreatedAt, &p.UpdatedAt)
	p.Status = Status(status)
	return p, err
}

func (s *Store) collect(rows pgx.Rows, err error, op string) ([]Payroll, error) {
	if err != nil {
		return nil, pgutil.Classify(err, op, "payroll")
	}
	defer rows.Close()

	out := []Payroll{}
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan payroll", "payroll")
		}
		out = append(out, p)
	}
	return out, pgutil.Classify(rows.Err(), op, "payroll")
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, payrollSelect+`
    WHERE ($1 = '' OR p.status = $1)
      AND ($2 = '' OR p.employee_id::text = $2)
    ORDER BY p.pay_date DESC, p.created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.Status, filter.EmployeeID, filter.Limit, filter.Offset)
	return s.collect(rows, err, "list payroll")
}

func (s *Store) ListDue(ctx context.Context, asOf time.Time) ([]Payroll, error) {
	rows, err := s.DB.Query(ctx, payrollSelect+`
    WHERE p.status = 'pending' AND p.pay_date < $1
    ORDER BY p.pay_date
  `, asOf)
	return s.collect(rows, err, "list due payroll")
}

func (s *Store) Get(ctx context.Context, id string) (Payroll, error) {
	p, err := scanPayroll(s.DB.QueryRow(ctx, payrollSelect+"WHERE p.id = $1", id))
	return p, pgutil.Classify(err, "get payroll", "payroll")
}

func (s *Store) Create(ctx context.Context, p Payroll) (Payroll, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll (employee_id, base_salary, bonus, deductions, net_salary, pay_date, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING id
  `, p.EmployeeID, p.BaseSalary, p.Bonus, p.Deductions, p.NetSalary, p.PayDate, string(p.Status), p.Notes).Scan(&id); err != nil {
		return Payroll{}, pgutil.Classify(err, "insert payroll", "payroll")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, p Payroll) (Payroll, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll
    SET employee_id = $2, base_salary = $3, bonus = $4, deductions = $5, net_salary = $6,
      pay_date = $7, notes = $8, updated_at = now()
    WHERE id = $1
  `, p.ID, p.EmployeeID, p.BaseSalary, p.Bonus, p.Deductions, p.NetSalary, p.PayDate, p.Notes)
	if err != nil {
		return Payroll{}, pgutil.Classify(err, "update payroll", "payroll")
	}
	if tag.RowsAffected() == 0 {
		return Payroll{}, pgutil.Classify(pgx.ErrNoRows, "update payroll", "payroll")
	}
	return s.Get(ctx, p.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM payroll WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete payroll", "payroll")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete payroll", "payroll")
	}
	return nil
}

func (s *Store) Transition(ctx context.Context, id string, from, to Status, stamp Stamp) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE payroll
    SET status = $3, processed_by = $4, processed_at = $5, updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, string(from), string(to), pgutil.NullIfEmpty(stamp.By), stamp.At)
	if err != nil {
		return false, pgutil.Classify(err, "transition payroll", "payroll")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetPayslipKey(ctx context.Context, id, key string) error {
	_, err := s.DB.Exec(ctx, "UPDATE payroll SET payslip_key = $2 WHERE id = $1", id, key)
	return pgutil.Classify(err, "save payslip key", "payroll")
}
