package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/platform/pgutil"
)

// Seed ensures the bootstrap admin account exists. It is a no-op when no
// admin credentials are configured.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := auth.NormalizeEmail(cfg.SeedAdminEmail)
	if email == "" || strings.TrimSpace(cfg.SeedAdminPassword) == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return errors.Wrap(err, "lookup seed admin")
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	err = pgutil.InTx(ctx, pool, func(tx pgx.Tx) error {
		var employeeID string
		if err := tx.QueryRow(ctx, `
    INSERT INTO employees (name, email, position, status)
    VALUES ($1,$2,$3,'active')
    ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
    RETURNING id
  `, "Administrator", email, "Administrator").Scan(&employeeID); err != nil {
			return errors.Wrap(err, "insert seed employee")
		}
		_, err := tx.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id)
    VALUES ($1,$2,$3,$4)
  `, email, hash, string(auth.RoleAdmin), employeeID)
		return errors.Wrap(err, "insert seed admin")
	})
	if err != nil {
		return err
	}
	log.WithField("email", email).Info("seed admin created")
	return nil
}
