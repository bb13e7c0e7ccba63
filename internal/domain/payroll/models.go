package payroll

import (
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/workflow"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

var Workflow = workflow.Machine[Status]{
	Initial: StatusPending,
	Transitions: map[Status][]Status{
		StatusPending: {StatusPaid, StatusOverdue},
		StatusOverdue: {StatusPaid},
	},
	Terminal: []Status{StatusPaid},
	Actors:   []auth.Role{auth.RoleHR, auth.RoleAdmin},
}

type Payroll struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	BaseSalary   float64    `json:"baseSalary"`
	Bonus        float64    `json:"bonus"`
	Deductions   float64    `json:"deductions"`
	NetSalary    float64    `json:"netSalary"`
	PayDate      time.Time  `json:"payDate"`
	Status       Status     `json:"status"`
	Notes        string     `json:"notes,omitempty"`
	ProcessedBy  string     `json:"processedBy,omitempty"`
	ProcessedAt  *time.Time `json:"processedAt,omitempty"`
	PayslipKey   string     `json:"payslipKey,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Input is the canonical payroll payload. netSalary is never accepted; it is
// always derived.
type Input struct {
	EmployeeID     *string        `json:"employeeId"`
	LegacyEmployee *string        `json:"employee"`
	BaseSalary     *coerce.Number `json:"baseSalary"`
	Bonus          *coerce.Number `json:"bonus"`
	Deductions     *coerce.Number `json:"deductions"`
	PayDate        *string        `json:"payDate"`
	Status         *string        `json:"status"`
	Notes          *string        `json:"notes"`
}

type StatusInput struct {
	Status string `json:"status"`
}

// Stamp records who moved a payroll record and when.
type Stamp struct {
	By string
	At time.Time
}

type Filter struct {
	Status     string
	EmployeeID string
	Limit      int
	Offset     int
}
