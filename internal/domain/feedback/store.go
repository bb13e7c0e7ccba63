package feedback

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

const feedbackSelect = `
    SELECT f.id, f.from_id, COALESCE(fe.name, ''), COALESCE(f.to_id::text, ''), COALESCE(te.name, ''),
      f.category, f.subject, f.message, f.rating, f.is_anonymous, f.status, f.response, f.responded_at,
      f.created_at, f.updated_at
    FROM feedback f
    LEFT JOIN employees fe ON fe.id = f.from_id
    LEFT JOIN employees te ON te.id = f.to_id
  `

func scanFeedback(row pgx.Row) (Feedback, error) {
	var f Feedback
	var status string
	err := row.Scan(&f.ID, &f.FromID, &f.FromName, &f.ToID, &f.ToName, &f.Category, &f.Subject, &f.Message,
		&f.Rating, &f.IsAnonymous, &status, &f.Response, &f.RespondedAt, &f.CreatedAt, &f.UpdatedAt)
	f.Status = Status(status)
	return f, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Feedback, error) {
	rows, err := s.DB.Query(ctx, feedbackSelect+`
    WHERE ($1 = '' OR f.status = $1)
      AND ($2 = '' OR f.category = $2)
      AND ($3 = '' OR f.from_id::text = $3 OR f.to_id::text = $3)
    ORDER BY f.created_at DESC
    LIMIT $4 OFFSET $5
  `, filter.Status, filter.Category, filter.Participant, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list feedback", "feedback")
	}
	defer rows.Close()

	out := []Feedback{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan feedback", "feedback")
		}
		out = append(out, f)
	}
	return out, pgutil.Classify(rows.Err(), "list feedback", "feedback")
}

func (s *Store) Get(ctx context.Context, id string) (Feedback, error) {
	f, err := scanFeedback(s.DB.QueryRow(ctx, feedbackSelect+"WHERE f.id = $1", id))
	return f, pgutil.Classify(err, "get feedback", "feedback")
}

func (s *Store) Create(ctx context.Context, f Feedback) (Feedback, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO feedback (from_id, to_id, category, subject, message, rating, is_anonymous, status)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
  `, f.FromID, pgutil.NullIfEmpty(f.ToID), f.Category, f.Subject, f.Message, f.Rating, f.IsAnonymous,
		string(f.Status)).Scan(&id); err != nil {
		return Feedback{}, pgutil.Classify(err, "insert feedback", "feedback")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, f Feedback) (Feedback, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE feedback
    SET to_id = $2, category = $3, subject = $4, message = $5, rating = $6, is_anonymous = $7, updated_at = now()
    WHERE id = $1
  `, f.ID, pgutil.NullIfEmpty(f.ToID), f.Category, f.Subject, f.Message, f.Rating, f.IsAnonymous)
	if err != nil {
		return Feedback{}, pgutil.Classify(err, "update feedback", "feedback")
	}
	if tag.RowsAffected() == 0 {
		return Feedback{}, pgutil.Classify(pgx.ErrNoRows, "update feedback", "feedback")
	}
	return s.Get(ctx, f.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM feedback WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete feedback", "feedback")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete feedback", "feedback")
	}
	return nil
}

func (s *Store) Respond(ctx context.Context, id string, from, to Status, response string, at time.Time) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE feedback
    SET status = $3, response = $4,
      responded_at = CASE WHEN $4 <> response THEN $5 ELSE responded_at END,
      updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, string(from), string(to), response, at)
	if err != nil {
		return false, pgutil.Classify(err, "respond to feedback", "feedback")
	}
	return tag.RowsAffected() == 1, nil
}
