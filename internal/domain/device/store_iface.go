package device

import "context"

type StoreAPI interface {
	List(ctx context.Context, filter Filter) ([]Device, error)
	Get(ctx context.Context, id string) (Device, error)
	Create(ctx context.Context, d Device) (Device, error)
	Update(ctx context.Context, d Device) (Device, error)
	Delete(ctx context.Context, id string) error
	// Assign succeeds only while the device is still available.
	Assign(ctx context.Context, id, employeeID, location string, entry HistoryEntry) (bool, error)
	// Release succeeds only while the device is still assigned.
	Release(ctx context.Context, id string, status Status, condition string, entry HistoryEntry) (bool, error)
}

// EmployeeChecker confirms an assignee exists.
type EmployeeChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}
