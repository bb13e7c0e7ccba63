package auth

import (
	"context"
	"time"
)

type StoreAPI interface {
	FindCredentialsByEmail(ctx context.Context, email string) (Credentials, error)
	FindCredentialsByID(ctx context.Context, userID string) (Credentials, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	CreateAccount(ctx context.Context, account NewAccount) (User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	UpdatePassword(ctx context.Context, userID, hash string) error
}
