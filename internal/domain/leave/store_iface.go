package leave

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]LeaveRequest, error)
	Get(ctx context.Context, id string) (LeaveRequest, error)
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	Update(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error
	// Transition moves id from one status to another only if it is still in
	// from. It reports false when the row was already changed by someone else.
	Transition(ctx context.Context, id string, from, to Status, review Review) (bool, error)
}
