package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
)

type fakeStore struct {
	users map[string]Credentials
	seq   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]Credentials{}}
}

func (f *fakeStore) FindCredentialsByEmail(_ context.Context, email string) (Credentials, error) {
	for _, c := range f.users {
		if c.Email == email {
			return c, nil
		}
	}
	return Credentials{}, apperr.NotFound("user")
}

func (f *fakeStore) FindCredentialsByID(_ context.Context, id string) (Credentials, error) {
	c, ok := f.users[id]
	if !ok {
		return Credentials{}, apperr.NotFound("user")
	}
	return c, nil
}

func (f *fakeStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := f.FindCredentialsByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeStore) CreateAccount(_ context.Context, a NewAccount) (User, error) {
	f.seq++
	u := User{ID: "u" + string(rune('0'+f.seq)), Name: a.Name, Email: a.Email, Role: a.Role, EmployeeID: "e" + string(rune('0'+f.seq)), CreatedAt: time.Now()}
	f.users[u.ID] = Credentials{User: u, PasswordHash: a.PasswordHash}
	return u, nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	c := f.users[id]
	c.LastLogin = &at
	f.users[id] = c
	return nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id, hash string) error {
	c := f.users[id]
	c.PasswordHash = hash
	f.users[id] = c
	return nil
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "Ada@Example.com",
		Password: "secret1",
		Role:     "employee",
		Gender:   "female",
		Phone:    "+15551234567",
	}
}

func TestRegisterIssuesTokenForEmployee(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour, false)
	session, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", session.User.Email)
	require.Equal(t, RoleEmployee, session.User.Role)
	require.NotEmpty(t, session.User.EmployeeID)

	actor, err := svc.Authenticate(session.Token)
	require.NoError(t, err)
	require.Equal(t, session.User.ID, actor.UserID)
	require.Equal(t, session.User.EmployeeID, actor.EmployeeID)
}

func TestRegisterReportsFieldErrors(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour, false)
	_, err := svc.Register(context.Background(), RegisterInput{
		Name:     "A",
		Email:    "nope",
		Password: "123",
		Role:     "boss",
		Gender:   "robot",
		Phone:    "12",
	})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindValidation, appErr.Kind)

	fields := map[string]bool{}
	for _, issue := range appErr.Fields {
		fields[issue.Field] = true
	}
	for _, f := range []string{"name", "email", "password", "role", "gender", "phone"} {
		require.True(t, fields[f], "expected issue for %s", f)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour, false)
	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	require.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestRegisterPrivilegedRoleNeedsOptIn(t *testing.T) {
	in := validRegistration()
	in.Role = "hr"

	_, err := NewService(newFakeStore(), "s", time.Hour, false).Register(context.Background(), in)
	require.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	session, err := NewService(newFakeStore(), "s", time.Hour, true).Register(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, RoleHR, session.User.Role)
}

func TestLoginOutcomes(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "test-secret", time.Hour, false)
	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong-pass", Role: "employee"})
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "secret1", Role: "employee"})
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))

	_, err = svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret1", Role: "hr"})
	require.Equal(t, apperr.KindRoleMismatch, apperr.KindOf(err))
	require.Nil(t, store.users[registered.User.ID].LastLogin)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret1", Role: "auditor"})
	require.Equal(t, apperr.KindRoleMismatch, apperr.KindOf(err))

	session, err := svc.Login(context.Background(), LoginInput{Email: " ADA@example.com ", Password: "secret1", Role: "employee"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.NotNil(t, store.users[registered.User.ID].LastLogin)
}

func TestChangePassword(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour, false)
	session, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	actor := Actor{UserID: session.User.ID, Role: RoleEmployee}

	err = svc.ChangePassword(context.Background(), actor, ChangePasswordInput{CurrentPassword: "bad", NewPassword: "newsecret"})
	require.Equal(t, apperr.KindInvalidCredentials, apperr.KindOf(err))

	require.NoError(t, svc.ChangePassword(context.Background(), actor, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: "newsecret"}))
	_, err = svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "newsecret", Role: "employee"})
	require.NoError(t, err)
}

func TestLoginRequiresRole(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "test-secret", time.Hour, false)
	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret1", Role: "  "})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	require.Equal(t, "role", appErr.Fields[0].Field)
	require.Nil(t, store.users[registered.User.ID].LastLogin)
}

func TestPasswordsLongerThanBcryptAllowsAreInvalid(t *testing.T) {
	long := strings.Repeat("p", 73)

	in := validRegistration()
	in.Password = long
	_, err := NewService(newFakeStore(), "test-secret", time.Hour, false).Register(context.Background(), in)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	require.Equal(t, "password", appErr.Fields[0].Field)

	in.Password = strings.Repeat("p", 72)
	_, err = NewService(newFakeStore(), "test-secret", time.Hour, false).Register(context.Background(), in)
	require.NoError(t, err)

	svc := NewService(newFakeStore(), "test-secret", time.Hour, false)
	session, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	actor := Actor{UserID: session.User.ID, Role: RoleEmployee}
	err = svc.ChangePassword(context.Background(), actor, ChangePasswordInput{CurrentPassword: "secret1", NewPassword: long})
	appErr, ok = apperr.As(err)
	require.True(t, ok)
	require.Equal(t, apperr.KindValidation, appErr.Kind)
	require.Equal(t, "newPassword", appErr.Fields[0].Field)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := NewService(newFakeStore(), "test-secret", time.Hour, false)
	_, err := svc.Authenticate("not-a-token")
	require.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
