package payroll

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Payroll, error)
	Get(ctx context.Context, id string) (Payroll, error)
	Create(ctx context.Context, p Payroll) (Payroll, error)
	Update(ctx context.Context, p Payroll) (Payroll, error)
	Delete(ctx context.Context, id string) error
	Transition(ctx context.Context, id string, from, to Status, stamp Stamp) (bool, error)
	// ListDue returns pending records whose pay date is before asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]Payroll, error)
	SetPayslipKey(ctx context.Context, id, key string) error
}

// Archiver stores rendered payslips.
type Archiver interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}
