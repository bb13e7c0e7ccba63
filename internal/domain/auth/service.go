package auth

import (
	"context"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/validate"
)

var Genders = []string{"male", "female", "other"}

const (
	minPasswordLength = 6
	// bcrypt refuses longer input.
	maxPasswordBytes = 72
)

type Service struct {
	Store                 StoreAPI
	Secret                string
	TTL                   time.Duration
	AllowPrivilegedSignup bool
	Now                   func() time.Time
}

func NewService(store StoreAPI, secret string, ttl time.Duration, allowPrivilegedSignup bool) *Service {
	return &Service{
		Store:                 store,
		Secret:                secret,
		TTL:                   ttl,
		AllowPrivilegedSignup: allowPrivilegedSignup,
		Now:                   time.Now,
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	v := validate.New()
	if v.Required("name", in.Name) {
		v.MinLen("name", in.Name, 2)
	}
	if v.Required("email", in.Email) {
		v.Email("email", in.Email)
	}
	if v.Required("password", in.Password) {
		v.MinLen("password", in.Password, minPasswordLength)
		passwordFits(v, "password", in.Password)
	}
	role, roleOK := ParseRole(in.Role)
	if v.Required("role", in.Role) && !roleOK {
		v.Add("role", "must be one of "+strings.Join(RoleNames(), ", "))
	}
	if v.Required("gender", in.Gender) {
		v.Enum("gender", in.Gender, Genders)
	}
	if v.Required("phone", in.Phone) {
		v.Phone("phone", in.Phone)
	}
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	if role.Privileged() && !s.AllowPrivilegedSignup {
		return Session{}, apperr.Forbidden("role " + string(role) + " cannot be self-assigned")
	}

	email := NormalizeEmail(in.Email)
	taken, err := s.Store.EmailTaken(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, apperr.Conflict("email_taken", "Email is already registered")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}

	user, err := s.Store.CreateAccount(ctx, NewAccount{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Gender:       strings.ToLower(strings.TrimSpace(in.Gender)),
		Phone:        strings.TrimSpace(in.Phone),
		Department:   strings.TrimSpace(in.Department),
		Position:     strings.TrimSpace(in.Position),
	})
	if err != nil {
		return Session{}, err
	}
	log.WithField("userId", user.ID).WithField("role", user.Role).Info("user registered")
	return s.session(user)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	v := validate.New()
	v.Required("email", in.Email)
	v.Required("password", in.Password)
	v.Required("role", in.Role)
	if err := v.Err(); err != nil {
		return Session{}, err
	}

	creds, err := s.Store.FindCredentialsByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return Session{}, apperr.InvalidCredentials()
		}
		return Session{}, err
	}
	if err := CheckPassword(creds.PasswordHash, in.Password); err != nil {
		return Session{}, apperr.InvalidCredentials()
	}
	if requested, ok := ParseRole(in.Role); !ok || requested != creds.Role {
		return Session{}, apperr.RoleMismatch()
	}

	now := s.Now().UTC()
	if err := s.Store.UpdateLastLogin(ctx, creds.ID, now); err != nil {
		return Session{}, err
	}
	user := creds.User
	user.LastLogin = &now
	return s.session(user)
}

func (s *Service) Me(ctx context.Context, actor Actor) (User, error) {
	creds, err := s.Store.FindCredentialsByID(ctx, actor.UserID)
	if err != nil {
		return User{}, err
	}
	return creds.User, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor Actor, in ChangePasswordInput) error {
	v := validate.New()
	v.Required("currentPassword", in.CurrentPassword)
	if v.Required("newPassword", in.NewPassword) {
		v.MinLen("newPassword", in.NewPassword, minPasswordLength)
		passwordFits(v, "newPassword", in.NewPassword)
	}
	if err := v.Err(); err != nil {
		return err
	}

	creds, err := s.Store.FindCredentialsByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := CheckPassword(creds.PasswordHash, in.CurrentPassword); err != nil {
		return apperr.InvalidCredentials()
	}
	hash, err := HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	return s.Store.UpdatePassword(ctx, actor.UserID, hash)
}

// Authenticate turns a bearer token into an actor.
func passwordFits(v *validate.Validator, field, password string) {
	if len(password) > maxPasswordBytes {
		v.Add(field, "must be at most "+strconv.Itoa(maxPasswordBytes)+" bytes")
	}
}

func (s *Service) Authenticate(token string) (Actor, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return Actor{}, apperr.Unauthenticated("invalid or expired token")
	}
	return claims.Actor(), nil
}

func (s *Service) session(user User) (Session, error) {
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, EmployeeID: user.EmployeeID, Role: user.Role}, s.TTL)
	if err != nil {
		return Session{}, apperr.Internal(err)
	}
	return Session{User: user, Token: token}, nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
