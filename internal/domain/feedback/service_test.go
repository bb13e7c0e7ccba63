package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
)

type memStore struct {
	items map[string]Feedback
	seq   int
}

func newMemStore() *memStore {
	return &memStore{items: map[string]Feedback{}}
}

func (m *memStore) List(_ context.Context, f Filter) ([]Feedback, error) {
	out := []Feedback{}
	for _, item := range m.items {
		if f.Participant != "" && item.FromID != f.Participant && item.ToID != f.Participant {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (Feedback, error) {
	f, ok := m.items[id]
	if !ok {
		return Feedback{}, apperr.NotFound("feedback")
	}
	return f, nil
}

func (m *memStore) Create(_ context.Context, f Feedback) (Feedback, error) {
	m.seq++
	f.ID = fmt.Sprintf("f%d", m.seq)
	f.FromName = "Name of " + f.FromID
	m.items[f.ID] = f
	return f, nil
}

func (m *memStore) Update(_ context.Context, f Feedback) (Feedback, error) {
	m.items[f.ID] = f
	return f, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func (m *memStore) Respond(_ context.Context, id string, from, to Status, response string, at time.Time) (bool, error) {
	f := m.items[id]
	if f.Status != from {
		return false, nil
	}
	if response != f.Response {
		f.RespondedAt = &at
	}
	f.Status, f.Response = to, response
	m.items[id] = f
	return true, nil
}

var (
	hr        = auth.Actor{UserID: "u-hr", EmployeeID: "e-hr", Role: auth.RoleHR}
	author    = auth.Actor{UserID: "u-a", EmployeeID: "e-a", Role: auth.RoleEmployee}
	recipient = auth.Actor{UserID: "u-m", EmployeeID: "e-m", Role: auth.RoleManager}
	bystander = auth.Actor{UserID: "u-b", EmployeeID: "e-b", Role: auth.RoleEmployee}
)

func input(t *testing.T, raw string) Input {
	t.Helper()
	var in Input
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	return in
}

func newService() *Service {
	svc := NewService(newMemStore())
	svc.Now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAnonymousAuthorIsRedacted(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	f, err := svc.Create(ctx, author, input(t, `{"to":"e-m","message":"More 1:1s please","rating":"4","isAnonymous":true}`))
	require.NoError(t, err)
	require.Equal(t, "e-a", f.FromID)
	require.Equal(t, 4.0, f.Rating)

	seen, err := svc.Get(ctx, recipient, f.ID)
	require.NoError(t, err)
	require.Empty(t, seen.FromID)
	require.Empty(t, seen.FromName)

	seen, err = svc.Get(ctx, hr, f.ID)
	require.NoError(t, err)
	require.Equal(t, "e-a", seen.FromID)

	list, err := svc.List(ctx, recipient, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].FromID)

	_, err = svc.Get(ctx, bystander, f.ID)
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestRecipientResponds(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	f, err := svc.Create(ctx, author, input(t, `{"toId":"e-m","message":"Thanks for the help"}`))
	require.NoError(t, err)

	_, err = svc.Respond(ctx, bystander, f.ID, RespondInput{Response: "hi"})
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	replied, err := svc.Respond(ctx, recipient, f.ID, RespondInput{Response: "Any time"})
	require.NoError(t, err)
	require.Equal(t, StatusReviewed, replied.Status)
	require.Equal(t, "Any time", replied.Response)
	require.NotNil(t, replied.RespondedAt)

	archived, err := svc.Update(ctx, recipient, f.ID, input(t, `{"status":"archived"}`))
	require.NoError(t, err)
	require.Equal(t, StatusArchived, archived.Status)
	require.Equal(t, "Any time", archived.Response)

	_, err = svc.Respond(ctx, recipient, f.ID, RespondInput{Status: "pending"})
	require.True(t, apperr.Is(err, apperr.KindInvalidTransition))
}

func TestAuthorEditsOnlyWhilePending(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	f, err := svc.Create(ctx, author, input(t, `{"toId":"e-m","message":"Draft"}`))
	require.NoError(t, err)

	_, err = svc.Update(ctx, recipient, f.ID, input(t, `{"message":"edited by someone else"}`))
	require.True(t, apperr.Is(err, apperr.KindForbidden))

	edited, err := svc.Update(ctx, author, f.ID, input(t, `{"message":"Final"}`))
	require.NoError(t, err)
	require.Equal(t, "Final", edited.Message)

	_, err = svc.Respond(ctx, recipient, f.ID, RespondInput{Status: "reviewed"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, author, f.ID, input(t, `{"message":"Too late"}`))
	require.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestCreateValidation(t *testing.T) {
	svc := newService()
	_, err := svc.Create(context.Background(), author, input(t, `{"toId":"e-a","rating":7,"category":"gossip"}`))
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Len(t, appErr.Fields, 4)

	_, err = svc.Create(context.Background(), auth.Actor{UserID: "u-x", Role: auth.RoleAdmin}, input(t, `{"message":"hi"}`))
	require.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestRatingIsUnratedOrOneToFive(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, author, input(t, `{"message":"half a star","rating":0.5}`))
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	require.Equal(t, "rating", appErr.Fields[0].Field)

	unrated, err := svc.Create(ctx, author, input(t, `{"message":"no score"}`))
	require.NoError(t, err)
	require.Equal(t, 0.0, unrated.Rating)

	for _, raw := range []string{`1`, `3.5`, `5`} {
		_, err := svc.Create(ctx, author, input(t, `{"message":"scored","rating":`+raw+`}`))
		require.NoError(t, err, raw)
	}
}

func TestDeleteByAuthorOrManager(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	f, err := svc.Create(ctx, author, input(t, `{"message":"one"}`))
	require.NoError(t, err)
	require.True(t, apperr.Is(svc.Delete(ctx, bystander, f.ID), apperr.KindForbidden))
	require.NoError(t, svc.Delete(ctx, author, f.ID))
}
