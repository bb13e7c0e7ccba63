package recruitment

import (
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/workflow"
)

type JobStatus string

const (
	JobActive JobStatus = "active"
	JobClosed JobStatus = "closed"
	JobDraft  JobStatus = "draft"
)

var JobStatuses = []string{string(JobActive), string(JobClosed), string(JobDraft)}

type Job struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	DepartmentID   string    `json:"departmentId,omitempty"`
	DepartmentName string    `json:"departmentName,omitempty"`
	Location       string    `json:"location"`
	JobType        string    `json:"jobType"`
	SalaryRange    string    `json:"salaryRange"`
	Description    string    `json:"description"`
	Requirements   []string  `json:"requirements"`
	Status         JobStatus `json:"status"`
	PostedDate     time.Time `json:"postedDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// JobInput is the canonical job payload. The legacy field names sent by older
// clients are folded into it by Normalize.
type JobInput struct {
	Title        *string            `json:"title"`
	DepartmentID *string            `json:"departmentId"`
	Location     *string            `json:"location"`
	JobType      *string            `json:"jobType"`
	SalaryRange  *string            `json:"salaryRange"`
	Description  *string            `json:"description"`
	Requirements *coerce.StringList `json:"requirements"`
	Status       *string            `json:"status"`
	PostedDate   *string            `json:"postedDate"`

	LegacyTitle          *string `json:"jobTitle"`
	LegacyDepartment     *string `json:"department"`
	LegacyType           *string `json:"type"`
	LegacyEmploymentType *string `json:"employmentType"`
	LegacySalary         *string `json:"salary"`
}

// Normalize maps legacy names onto the canonical fields. Canonical fields win
// when both are present.
func (in JobInput) Normalize() JobInput {
	out := in
	out.Title = first(in.Title, in.LegacyTitle)
	out.DepartmentID = first(in.DepartmentID, in.LegacyDepartment)
	out.JobType = first(in.JobType, in.LegacyType, in.LegacyEmploymentType)
	out.SalaryRange = first(in.SalaryRange, in.LegacySalary)
	out.LegacyTitle, out.LegacyDepartment, out.LegacyType, out.LegacyEmploymentType, out.LegacySalary = nil, nil, nil, nil, nil
	return out
}

type JobFilter struct {
	Status       string
	DepartmentID string
	Limit        int
	Offset       int
}

type ApplicantStatus string

const (
	ApplicantApplied     ApplicantStatus = "applied"
	ApplicantUnderReview ApplicantStatus = "under_review"
	ApplicantShortlisted ApplicantStatus = "shortlisted"
	ApplicantRejected    ApplicantStatus = "rejected"
	ApplicantHired       ApplicantStatus = "hired"
)

var ApplicantWorkflow = workflow.Machine[ApplicantStatus]{
	Initial: ApplicantApplied,
	Transitions: map[ApplicantStatus][]ApplicantStatus{
		ApplicantApplied:     {ApplicantUnderReview, ApplicantShortlisted, ApplicantRejected},
		ApplicantUnderReview: {ApplicantShortlisted, ApplicantRejected},
		ApplicantShortlisted: {ApplicantHired, ApplicantRejected},
	},
	Terminal: []ApplicantStatus{ApplicantRejected, ApplicantHired},
	Actors:   []auth.Role{auth.RoleHR, auth.RoleAdmin},
}

// HistoryEntry records one applied status change.
type HistoryEntry struct {
	From  ApplicantStatus `json:"from"`
	To    ApplicantStatus `json:"to"`
	Actor string          `json:"actor"`
	Date  time.Time       `json:"date"`
}

type Applicant struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Position    string          `json:"position"`
	JobID       string          `json:"jobId,omitempty"`
	JobTitle    string          `json:"jobTitle,omitempty"`
	Experience  string          `json:"experience"`
	Skills      []string        `json:"skills"`
	ResumeURL   string          `json:"resumeUrl,omitempty"`
	Rating      float64         `json:"rating"`
	Status      ApplicantStatus `json:"status"`
	AppliedDate time.Time       `json:"appliedDate"`
	ReviewedBy  string          `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	History     []HistoryEntry  `json:"history"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type ApplicantInput struct {
	Name        *string            `json:"name"`
	Email       *string            `json:"email"`
	Phone       *string            `json:"phone"`
	Position    *string            `json:"position"`
	JobID       *string            `json:"jobId"`
	Experience  *string            `json:"experience"`
	Skills      *coerce.StringList `json:"skills"`
	ResumeURL   *string            `json:"resumeUrl"`
	Rating      *coerce.Number     `json:"rating"`
	Status      *string            `json:"status"`
	AppliedDate *string            `json:"appliedDate"`

	LegacyJob *string `json:"job"`
}

type StatusInput struct {
	Status string `json:"status"`
}

type Review struct {
	By    string
	At    time.Time
	Entry HistoryEntry
}

type ApplicantFilter struct {
	Status string
	JobID  string
	Limit  int
	Offset int
}

func first(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
