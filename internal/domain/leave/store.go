package leave

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

const requestSelect = `
    SELECT r.id, r.employee_id, COALESCE(e.name, ''), r.leave_type, r.start_date, r.end_date, r.duration,
      r.reason, r.status, COALESCE(r.reviewed_by::text, ''), r.review_date, r.review_note, r.created_at, r.updated_at
    FROM leave_requests r
    LEFT JOIN employees e ON e.id = r.employee_id
  `

func scanRequest(row pgx.Row) (LeaveRequest, error) {
	var r LeaveRequest
	var status string
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Duration,
		&r.Reason, &status, &r.ReviewedBy, &r.ReviewDate, &r.ReviewNote, &r.CreatedAt, &r.UpdatedAt)
	r.Status = Status(status)
	return r, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]LeaveRequest, error) {
	rows, err := s.DB.Query(ctx, requestSelect+`
    WHERE ($1 = '' OR r.status = $1)
      AND ($2 = '' OR r.employee_id::text = $2)
    ORDER BY r.created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.Status, filter.EmployeeID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list leave requests", "leave request")
	}
	defer rows.Close()

	out := []LeaveRequest{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan leave request", "leave request")
		}
		out = append(out, r)
	}
	return out, pgutil.Classify(rows.Err(), "list leave requests", "leave request")
}

func (s *Store) Get(ctx context.Context, id string) (LeaveRequest, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, requestSelect+"WHERE r.id = $1", id))
	return r, pgutil.Classify(err, "get leave request", "leave request")
}

func (s *Store) Create(ctx context.Context, r LeaveRequest) (LeaveRequest, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, leave_type, start_date, end_date, duration, reason, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, r.EmployeeID, r.LeaveType, r.StartDate, r.EndDate, r.Duration, r.Reason, string(r.Status)).Scan(&id); err != nil {
		return LeaveRequest{}, pgutil.Classify(err, "insert leave request", "leave request")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, r LeaveRequest) (LeaveRequest, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET leave_type = $2, start_date = $3, end_date = $4, duration = $5, reason = $6, updated_at = now()
    WHERE id = $1
  `, r.ID, r.LeaveType, r.StartDate, r.EndDate, r.Duration, r.Reason)
	if err != nil {
		return LeaveRequest{}, pgutil.Classify(err, "update leave request", "leave request")
	}
	if tag.RowsAffected() == 0 {
		return LeaveRequest{}, pgutil.Classify(pgx.ErrNoRows, "update leave request", "leave request")
	}
	return s.Get(ctx, r.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM leave_requests WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete leave request", "leave request")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete leave request", "leave request")
	}
	return nil
}

func (s *Store) Transition(ctx context.Context, id string, from, to Status, review Review) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $3, reviewed_by = $4, review_date = $5, review_note = $6, updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, string(from), string(to), pgutil.NullIfEmpty(review.By), review.At, review.Note)
	if err != nil {
		return false, pgutil.Classify(err, "transition leave request", "leave request")
	}
	return tag.RowsAffected() == 1, nil
}
