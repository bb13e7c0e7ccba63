package recruitment

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

const jobSelect = `
    SELECT j.id, j.title, COALESCE(j.department_id::text, ''), COALESCE(d.name, ''), j.location, j.job_type,
      j.salary_range, j.description, j.requirements, j.status, j.posted_date, j.created_at, j.updated_at
    FROM jobs j
    LEFT JOIN departments d ON d.id = j.department_id
  `

// jobDepartmentRef resolves $2 as a department id or name.
const jobDepartmentRef = "(SELECT id FROM departments WHERE id::text = $2 OR lower(name) = lower($2) LIMIT 1)"

func scanJob(row pgx.Row) (Job, error) {
	var j Job
	var status string
	err := row.Scan(&j.ID, &j.Title, &j.DepartmentID, &j.DepartmentName, &j.Location, &j.JobType,
		&j.SalaryRange, &j.Description, &j.Requirements, &status, &j.PostedDate, &j.CreatedAt, &j.UpdatedAt)
	j.Status = JobStatus(status)
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	return j, err
}

func (s *Store) ListJobs(ctx context.Context, filter JobFilter) ([]Job, error) {
	rows, err := s.DB.Query(ctx, jobSelect+`
    WHERE ($1 = '' OR j.status = $1)
      AND ($2 = '' OR j.department_id::text = $2 OR lower(d.name) = lower($2))
    ORDER BY j.posted_date DESC, j.created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.Status, filter.DepartmentID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list jobs", "job")
	}
	defer rows.Close()

	out := []Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan job", "job")
		}
		out = append(out, j)
	}
	return out, pgutil.Classify(rows.Err(), "list jobs", "job")
}

func (s *Store) GetJob(ctx context.Context, id string) (Job, error) {
	j, err := scanJob(s.DB.QueryRow(ctx, jobSelect+"WHERE j.id = $1", id))
	return j, pgutil.Classify(err, "get job", "job")
}

func (s *Store) CreateJob(ctx context.Context, j Job) (Job, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO jobs (title, department_id, location, job_type, salary_range, description, requirements, status, posted_date)
    VALUES ($1, `+jobDepartmentRef+`, $3, $4, $5, $6, $7, $8, $9)
    RETURNING id
  `, j.Title, j.DepartmentID, j.Location, j.JobType, j.SalaryRange, j.Description, j.Requirements,
		string(j.Status), j.PostedDate).Scan(&id); err != nil {
		return Job{}, pgutil.Classify(err, "insert job", "job")
	}
	return s.GetJob(ctx, id)
}

func (s *Store) UpdateJob(ctx context.Context, j Job) (Job, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE jobs
    SET title = $1, department_id = `+jobDepartmentRef+`, location = $3, job_type = $4, salary_range = $5,
      description = $6, requirements = $7, status = $8, posted_date = $9, updated_at = now()
    WHERE id = $10
  `, j.Title, j.DepartmentID, j.Location, j.JobType, j.SalaryRange, j.Description, j.Requirements,
		string(j.Status), j.PostedDate, j.ID)
	if err != nil {
		return Job{}, pgutil.Classify(err, "update job", "job")
	}
	if tag.RowsAffected() == 0 {
		return Job{}, pgutil.Classify(pgx.ErrNoRows, "update job", "job")
	}
	return s.GetJob(ctx, j.ID)
}

func (s *Store) DeleteJob(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM jobs WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete job", "job")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete job", "job")
	}
	return nil
}

const applicantSelect = `
    SELECT a.id, a.name, a.email, a.phone, a.position, COALESCE(a.job_id::text, ''), COALESCE(j.title, ''),
      a.experience, a.skills, a.resume_url, a.rating, a.status, a.applied_date,
      COALESCE(a.reviewed_by::text, ''), a.reviewed_at, a.history, a.created_at, a.updated_at
    FROM applicants a
    LEFT JOIN jobs j ON j.id = a.job_id
  `

func scanApplicant(row pgx.Row) (Applicant, error) {
	var a Applicant
	var status string
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position, &a.JobID, &a.JobTitle,
		&a.Experience, &a.Skills, &a.ResumeURL, &a.Rating, &status, &a.AppliedDate,
		&a.ReviewedBy, &a.ReviewedAt, &a.History, &a.CreatedAt, &a.UpdatedAt)
	a.Status = ApplicantStatus(status)
	if a.Skills == nil {
		a.Skills = []string{}
	}
	if a.History == nil {
		a.History = []HistoryEntry{}
	}
	return a, err
}

func (s *Store) ListApplicants(ctx context.Context, filter ApplicantFilter) ([]Applicant, error) {
	rows, err := s.DB.Query(ctx, applicantSelect+`
    WHERE ($1 = '' OR a.status = $1)
      AND ($2 = '' OR a.job_id::text = $2)
    ORDER BY a.applied_date DESC, a.created_at DESC
    LIMIT $3 OFFSET $4
  `, filter.Status, filter.JobID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list applicants", "applicant")
	}
	defer rows.Close()

	out := []Applicant{}
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan applicant", "applicant")
		}
		out = append(out, a)
	}
	return out, pgutil.Classify(rows.Err(), "list applicants", "applicant")
}

func (s *Store) GetApplicant(ctx context.Context, id string) (Applicant, error) {
	a, err := scanApplicant(s.DB.QueryRow(ctx, applicantSelect+"WHERE a.id = $1", id))
	return a, pgutil.Classify(err, "get applicant", "applicant")
}

func (s *Store) CreateApplicant(ctx context.Context, a Applicant) (Applicant, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO applicants (name, email, phone, position, job_id, experience, skills, resume_url, rating, status, applied_date)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    RETURNING id
  `, a.Name, a.Email, a.Phone, a.Position, pgutil.NullIfEmpty(a.JobID), a.Experience, a.Skills, a.ResumeURL,
		a.Rating, string(a.Status), a.AppliedDate).Scan(&id); err != nil {
		return Applicant{}, pgutil.Classify(err, "insert applicant", "applicant")
	}
	return s.GetApplicant(ctx, id)
}

func (s *Store) UpdateApplicant(ctx context.Context, a Applicant) (Applicant, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE applicants
    SET name = $2, email = $3, phone = $4, position = $5, job_id = $6, experience = $7, skills = $8,
      resume_url = $9, rating = $10, applied_date = $11, updated_at = now()
    WHERE id = $1
  `, a.ID, a.Name, a.Email, a.Phone, a.Position, pgutil.NullIfEmpty(a.JobID), a.Experience, a.Skills,
		a.ResumeURL, a.Rating, a.AppliedDate)
	if err != nil {
		return Applicant{}, pgutil.Classify(err, "update applicant", "applicant")
	}
	if tag.RowsAffected() == 0 {
		return Applicant{}, pgutil.Classify(pgx.ErrNoRows, "update applicant", "applicant")
	}
	return s.GetApplicant(ctx, a.ID)
}

func (s *Store) DeleteApplicant(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM applicants WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete applicant", "applicant")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete applicant", "applicant")
	}
	return nil
}

func (s *Store) TransitionApplicant(ctx context.Context, id string, from, to ApplicantStatus, review Review) (bool, error) {
	entry, err := json.Marshal([]HistoryEntry{review.Entry})
	if err != nil {
		return false, errors.Wrap(err, "encode applicant history")
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE applicants
    SET status = $3, reviewed_by = $4, reviewed_at = $5, history = history || $6::jsonb, updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, string(from), string(to), pgutil.NullIfEmpty(review.By), review.At, string(entry))
	if err != nil {
		return false, pgutil.Classify(err, "transition applicant", "applicant")
	}
	return tag.RowsAffected() == 1, nil
}
