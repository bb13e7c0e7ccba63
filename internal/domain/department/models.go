package department

import (
	"time"

	"hrms/internal/domain/coerce"
)

type Department struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Head          string    `json:"head"`
	Location      string    `json:"location"`
	Budget        float64   `json:"budget"`
	EmployeeCount int       `json:"employeeCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Summary is the public projection used by registration forms.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Input is used for create and partial update; nil fields are left untouched.
type Input struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Head        *string        `json:"head"`
	Location    *string        `json:"location"`
	Budget      *coerce.Number `json:"budget"`
}

type Filter struct {
	Query  string
	Limit  int
	Offset int
}
