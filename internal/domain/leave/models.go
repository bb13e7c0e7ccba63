package leave

import (
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/workflow"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var Workflow = workflow.Machine[Status]{
	Initial: StatusPending,
	Transitions: map[Status][]Status{
		StatusPending: {StatusApproved, StatusRejected},
	},
	Terminal: []Status{StatusApproved, StatusRejected},
	Actors:   []auth.Role{auth.RoleHR, auth.RoleAdmin, auth.RoleManager},
}

type LeaveRequest struct {
	ID           string     `json:"id"`
	EmployeeID   string     `json:"employeeId"`
	EmployeeName string     `json:"employeeName,omitempty"`
	LeaveType    string     `json:"leaveType"`
	StartDate    time.Time  `json:"startDate"`
	EndDate      time.Time  `json:"endDate"`
	Duration     int        `json:"duration"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	ReviewedBy   string     `json:"reviewedBy,omitempty"`
	ReviewDate   *time.Time `json:"reviewDate,omitempty"`
	ReviewNote   string     `json:"reviewNote,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Input is the canonical leave payload; employee and type are legacy aliases.
type Input struct {
	EmployeeID      *string `json:"employeeId"`
	LegacyEmployee  *string `json:"employee"`
	LeaveType       *string `json:"leaveType"`
	LegacyLeaveType *string `json:"type"`
	StartDate       *string `json:"startDate"`
	EndDate         *string `json:"endDate"`
	Reason          *string `json:"reason"`
	Status          *string `json:"status"`
	ReviewNote      *string `json:"reviewNote"`
}

type StatusInput struct {
	Status     string `json:"status"`
	ReviewNote string `json:"reviewNote"`
}

// Review is the audit stamp written with a status change.
type Review struct {
	By   string
	At   time.Time
	Note string
}

type Filter struct {
	Status     string
	EmployeeID string
	Limit      int
	Offset     int
}
