package department

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Department, error)
	Summaries(ctx context.Context) ([]Summary, error)
	Get(ctx context.Context, id string) (Department, error)
	Create(ctx context.Context, d Department) (Department, error)
	Update(ctx context.Context, d Department) (Department, error)
	Delete(ctx context.Context, id string) error
}
