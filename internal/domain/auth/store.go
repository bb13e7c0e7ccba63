package auth

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

const credentialsSelect = `
    SELECT u.id, COALESCE(e.name, ''), u.email, u.role, COALESCE(u.employee_id::text, ''), u.last_login, u.created_at, u.password_hash
    FROM users u
    LEFT JOIN employees e ON e.id = u.employee_id
  `

func scanCredentials(row pgx.Row) (Credentials, error) {
	var out Credentials
	var role string
	err := row.Scan(&out.ID, &out.Name, &out.Email, &role, &out.EmployeeID, &out.LastLogin, &out.CreatedAt, &out.PasswordHash)
	out.Role = Role(role)
	return out, err
}

func (s *Store) FindCredentialsByEmail(ctx context.Context, email string) (Credentials, error) {
	out, err := scanCredentials(s.DB.QueryRow(ctx, credentialsSelect+"WHERE u.email = $1", email))
	return out, pgutil.Classify(err, "find user by email", "user")
}

func (s *Store) FindCredentialsByID(ctx context.Context, userID string) (Credentials, error) {
	out, err := scanCredentials(s.DB.QueryRow(ctx, credentialsSelect+"WHERE u.id = $1", userID))
	return out, pgutil.Classify(err, "find user", "user")
}

func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	var taken bool
	err := s.DB.QueryRow(ctx, `
    SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)
        OR EXISTS (SELECT 1 FROM employees WHERE email = $1)
  `, email).Scan(&taken)
	return taken, pgutil.Classify(err, "check email", "user")
}

// CreateAccount inserts the employee profile and the login that points at it
// in one transaction.
func (s *Store) CreateAccount(ctx context.Context, account NewAccount) (User, error) {
	user := User{Name: account.Name, Email: account.Email, Role: account.Role}
	err := pgutil.InTx(ctx, s.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
    INSERT INTO employees (name, email, phone, gender, position, department_id, join_date, status)
    VALUES ($1,$2,$3,$4,$5,
      (SELECT id FROM departments WHERE id::text = $6 OR lower(name) = lower($6) LIMIT 1),
      CURRENT_DATE, 'active')
    RETURNING id
  `, account.Name, account.Email, account.Phone, account.Gender, account.Position, account.Department).Scan(&user.EmployeeID); err != nil {
			return pgutil.Classify(err, "insert employee", "employee")
		}
		if err := tx.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id)
    VALUES ($1,$2,$3,$4)
    RETURNING id, created_at
  `, account.Email, account.PasswordHash, string(account.Role), user.EmployeeID).Scan(&user.ID, &user.CreatedAt); err != nil {
			return pgutil.Classify(err, "insert user", "user")
		}
		return nil
	})
	return user, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = $2 WHERE id = $1", userID, at)
	return pgutil.Classify(err, "update last login", "user")
}

func (s *Store) UpdatePassword(ctx context.Context, userID, hash string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1", userID, hash)
	if err != nil {
		return pgutil.Classify(err, "update password", "user")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "update password", "user")
	}
	return nil
}
