package benefits

import (
	"time"

	"hrms/internal/domain/coerce"
)

var PlanTypes = []string{"Health", "Dental", "HSA", "Retirement"}

type Dependent struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship,omitempty"`
}

type Benefit struct {
	ID            string      `json:"id"`
	EmployeeID    string      `json:"employeeId"`
	EmployeeName  string      `json:"employeeName,omitempty"`
	PlanType      string      `json:"planType"`
	Provider      string      `json:"provider"`
	Coverage      string      `json:"coverage"`
	Cost          float64     `json:"cost"`
	Dependents    []Dependent `json:"dependents"`
	EffectiveDate time.Time   `json:"effectiveDate"`
	EndDate       *time.Time  `json:"endDate,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

type Input struct {
	EmployeeID    *string        `json:"employeeId"`
	PlanType      *string        `json:"planType"`
	Provider      *string        `json:"provider"`
	Coverage      *string        `json:"coverage"`
	Cost          *coerce.Number `json:"cost"`
	Dependents    *[]Dependent   `json:"dependents"`
	EffectiveDate *string        `json:"effectiveDate"`
	EndDate       *string        `json:"endDate"`

	LegacyEmployee *string `json:"employee"`
}

type Filter struct {
	EmployeeID string
	PlanType   string
	Limit      int
	Offset     int
}
