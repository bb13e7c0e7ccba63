package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		DatabaseURL:        "postgres://localhost/hrms",
		JWTSecret:          "test-secret",
		TokenTTL:           time.Hour,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 60,
		Environment:        "development",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = " "
	require.Error(t, cfg.Validate())
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = " "
	require.Error(t, cfg.Validate())

	cfg.Environment = "production"
	require.Error(t, cfg.Validate())

	cfg.JWTSecret = "s3cret"
	require.NoError(t, cfg.Validate())

	cfg.EphemeralJWTSecret = true
	require.Error(t, cfg.Validate())
}

func TestLoadGeneratesSecretOutsideProduction(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/hrms")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")

	first := Load()
	require.True(t, first.EphemeralJWTSecret)
	require.Len(t, first.JWTSecret, 64)
	require.NoError(t, first.Validate())
	require.NotEqual(t, first.JWTSecret, Load().JWTSecret)

	t.Setenv("APP_ENV", "production")
	prod := Load()
	require.False(t, prod.EphemeralJWTSecret)
	require.Empty(t, prod.JWTSecret)
	require.Error(t, prod.Validate())

	t.Setenv("JWT_SECRET", "configured")
	require.False(t, Load().EphemeralJWTSecret)
}

func TestValidateEmailNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.EmailEnabled = true
	require.Error(t, cfg.Validate())

	cfg.SMTPHost = "smtp.example.com"
	require.NoError(t, cfg.Validate())
}

func TestValidateLimits(t *testing.T) {
	cfg := validConfig()
	cfg.MaxBodyBytes = 10
	require.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.RateLimitPerMinute = 0
	require.Error(t, cfg.Validate())
}

func TestSweepSchedule(t *testing.T) {
	cfg := validConfig()
	require.Equal(t, "@daily", cfg.SweepSchedule())
	cfg.OverdueSweepSchedule = "off"
	require.Equal(t, "", cfg.SweepSchedule())
	cfg.OverdueSweepSchedule = "0 2 * * *"
	require.Equal(t, "0 2 * * *", cfg.SweepSchedule())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db/hrms")
	t.Setenv("EMAIL", "hr@example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://hr.example.com")

	cfg := Load()
	require.Equal(t, "postgres://db/hrms", cfg.DatabaseURL)
	require.Equal(t, "hr@example.com", cfg.EmailFrom)
	require.Equal(t, "hr@example.com", cfg.ContactRecipient)
	require.Equal(t, 2525, cfg.SMTPPort)
	require.Equal(t, 2*time.Hour, cfg.TokenTTL)
	require.Equal(t, []string{"http://localhost:5173", "https://hr.example.com"}, cfg.CORSOrigins)
}
