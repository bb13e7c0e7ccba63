package feedback

import (
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/workflow"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
	StatusArchived Status = "archived"
)

// Workflow admits every role; who may act on a given record is decided by
// the service.
var Workflow = workflow.Machine[Status]{
	Initial: StatusPending,
	Transitions: map[Status][]Status{
		StatusPending:  {StatusReviewed, StatusArchived},
		StatusReviewed: {StatusArchived},
	},
	Terminal: []Status{StatusArchived},
	Actors:   auth.Roles,
}

var Categories = []string{"general", "performance", "management", "workplace", "suggestion", "other"}

type Feedback struct {
	ID          string     `json:"id"`
	FromID      string     `json:"fromId,omitempty"`
	FromName    string     `json:"fromName,omitempty"`
	ToID        string     `json:"toId,omitempty"`
	ToName      string     `json:"toName,omitempty"`
	Category    string     `json:"category"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Rating      float64    `json:"rating"`
	IsAnonymous bool       `json:"isAnonymous"`
	Status      Status     `json:"status"`
	Response    string     `json:"response,omitempty"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Input carries author-editable fields plus the reviewer fields status and
// response, which are routed to Respond.
type Input struct {
	ToID        *string        `json:"toId"`
	Category    *string        `json:"category"`
	Subject     *string        `json:"subject"`
	Message     *string        `json:"message"`
	Rating      *coerce.Number `json:"rating"`
	IsAnonymous *bool          `json:"isAnonymous"`
	Status      *string        `json:"status"`
	Response    *string        `json:"response"`

	LegacyTo *string `json:"to"`
}

func (in Input) authorFields() bool {
	return in.ToID != nil || in.LegacyTo != nil || in.Category != nil || in.Subject != nil ||
		in.Message != nil || in.Rating != nil || in.IsAnonymous != nil
}

type RespondInput struct {
	Status   string `json:"status"`
	Response string `json:"response"`
}

type Filter struct {
	Status      string
	Category    string
	Participant string
	Limit       int
	Offset      int
}
