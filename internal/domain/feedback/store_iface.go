package feedback

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Feedback, error)
	Get(ctx context.Context, id string) (Feedback, error)
	Create(ctx context.Context, f Feedback) (Feedback, error)
	Update(ctx context.Context, f Feedback) (Feedback, error)
	Delete(ctx context.Context, id string) error
	// Respond records a reviewer decision only while the status is still from.
	Respond(ctx context.Context, id string, from, to Status, response string, at time.Time) (bool, error)
}
