package benefits

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"hrms/internal/platform/pgutil"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const benefitSelect = `
    SELECT b.id, b.employee_id, COALESCE(e.name, ''), b.plan_type, b.provider, b.coverage, b.cost,
      b.dependents, b.effective_date, b.end_date, b.created_at, b.updated_at
    FROM benefits b
    LEFT JOIN employees e ON e.id = b.employee_id
  `

func scanBenefit(row pgx.Row) (Benefit, error) {
	var b Benefit
	err := row.Scan(&b.ID, &b.EmployeeID, &b.EmployeeName, &b.PlanType, &b.Provider, &b.Coverage, &b.Cost,
		&b.Dependents, &b.EffectiveDate, &b.EndDate, &b.CreatedAt, &b.UpdatedAt)
	if b.Dependents == nil {
		b.Dependents = []Dependent{}
	}
	return b, err
}

func encodeDependents(deps []Dependent) (string, error) {
	if deps == nil {
		deps = []Dependent{}
	}
	data, err := json.Marshal(deps)
	if err != nil {
		return "", errors.Wrap(err, "encode dependents")
	}
	return string(data), nil
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Benefit, error) {
	rows, err := s.DB.Query(ctx, benefitSelect+`
    WHERE ($1 = '' OR b.employee_id::text = $1)
      AND ($2 = '' OR b.plan_type = $2)
    ORDER BY b.effective_date DESC
    LIMIT $3 OFFSET $4
  `, filter.EmployeeID, filter.PlanType, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list benefits", "benefit")
	}
	defer rows.Close()

	out := []Benefit{}
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan benefit", "benefit")
		}
		out = append(out, b)
	}
	return out, pgutil.Classify(rows.Err(), "list benefits", "benefit")
}

func (s *Store) Get(ctx context.Context, id string) (Benefit, error) {
	b, err := scanBenefit(s.DB.QueryRow(ctx, benefitSelect+"WHERE b.id = $1", id))
	return b, pgutil.Classify(err, "get benefit", "benefit")
}

func (s *Store) Create(ctx context.Context, b Benefit) (Benefit, error) {
	deps, err := encodeDependents(b.Dependents)
	if err != nil {
		return Benefit{}, err
	}
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO benefits (employee_id, plan_type, provider, coverage, cost, dependents, effective_date, end_date)
    VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
    RETURNING id
  `, b.EmployeeID, b.PlanType, b.Provider, b.Coverage, b.Cost, deps, b.EffectiveDate, b.EndDate).Scan(&id); err != nil {
		return Benefit{}, pgutil.Classify(err, "insert benefit", "benefit")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, b Benefit) (Benefit, error) {
	deps, err := encodeDependents(b.Dependents)
	if err != nil {
		return Benefit{}, err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE benefits
    SET employee_id = $2, plan_type = $3, provider = $4, coverage = $5, cost = $6, dependents = $7::jsonb,
      effective_date = $8, end_date = $9, updated_at = now()
    WHERE id = $1
  `, b.ID, b.EmployeeID, b.PlanType, b.Provider, b.Coverage, b.Cost, deps, b.EffectiveDate, b.EndDate)
	if err != nil {
		return Benefit{}, pgutil.Classify(err, "update benefit", "benefit")
	}
	if tag.RowsAffected() == 0 {
		return Benefit{}, pgutil.Classify(pgx.ErrNoRows, "update benefit", "benefit")
	}
	return s.Get(ctx, b.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM benefits WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete benefit", "benefit")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete benefit", "benefit")
	}
	return nil
}
