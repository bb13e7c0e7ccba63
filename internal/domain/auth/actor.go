package auth

import (
	"context"

	"hrms/internal/domain/apperr"
)

// Actor is the authenticated caller resolved from a bearer token.
type Actor struct {
	UserID     string `json:"userId"`
	EmployeeID string `json:"employeeId,omitempty"`
	Role       Role   `json:"role"`
}

// SystemActor runs scheduled work. It has admin rights and no user id, so
// audit columns it stamps stay empty.
var SystemActor = Actor{Role: RoleAdmin}

func (a Actor) Can(permission string) bool {
	return Can(a.Role, permission)
}

func (a Actor) Elevated() bool {
	return a.Role.Elevated()
}

// Owns reports whether employeeID is the actor's own employee profile.
func (a Actor) Owns(employeeID string) bool {
	return a.EmployeeID != "" && a.EmployeeID == employeeID
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	return actor, ok
}

// Require returns a Forbidden error when the actor lacks permission.
func (a Actor) Require(permission string) error {
	if a.Can(permission) {
		return nil
	}
	return apperr.Forbidden("insufficient permissions")
}
