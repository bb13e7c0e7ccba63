package employee

import (
	"time"

	"hrms/internal/domain/coerce"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusOnLeave  Status = "on_leave"
	StatusInactive Status = "inactive"
)

var Statuses = []string{string(StatusActive), string(StatusOnLeave), string(StatusInactive)}

type Employee struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	Gender         string     `json:"gender"`
	Address        string     `json:"address"`
	DepartmentID   string     `json:"departmentId,omitempty"`
	DepartmentName string     `json:"departmentName,omitempty"`
	Position       string     `json:"position"`
	Salary         float64    `json:"salary"`
	JoinDate       *time.Time `json:"joinDate,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Input is the canonical employee payload. Department is accepted as a
// legacy alias of departmentId.
type Input struct {
	Name         *string        `json:"name"`
	Email        *string        `json:"email"`
	Phone        *string        `json:"phone"`
	Gender       *string        `json:"gender"`
	Address      *string        `json:"address"`
	DepartmentID *string        `json:"departmentId"`
	Department   *string        `json:"department"`
	Position     *string        `json:"position"`
	Salary       *coerce.Number `json:"salary"`
	JoinDate     *string        `json:"joinDate"`
	Status       *string        `json:"status"`
}

// SelfService strips everything an employee may not change on their own profile.
func (in Input) SelfService() Input {
	return Input{Name: in.Name, Phone: in.Phone, Address: in.Address}
}

type Filter struct {
	DepartmentID string
	Status       string
	Query        string
	Limit        int
	Offset       int
}
