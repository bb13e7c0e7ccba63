package benefits

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Benefit, error)
	Get(ctx context.Context, id string) (Benefit, error)
	Create(ctx context.Context, b Benefit) (Benefit, error)
	Update(ctx context.Context, b Benefit) (Benefit, error)
	Delete(ctx context.Context, id string) error
}
