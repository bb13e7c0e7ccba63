package recruitment

import (
	"bytes"
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/validate"
	"hrms/internal/platform/export"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

// ListJobs returns active postings to everyone, including anonymous callers.
// Recruiters see every posting and may filter by status.
func (s *Service) ListJobs(ctx context.Context, actor auth.Actor, filter JobFilter) ([]Job, error) {
	if !actor.Can(auth.PermJobsManage) {
		filter.Status = string(JobActive)
	}
	return s.Store.ListJobs(ctx, filter)
}

func (s *Service) GetJob(ctx context.Context, actor auth.Actor, id string) (Job, error) {
	j, err := s.Store.GetJob(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if j.Status != JobActive && !actor.Can(auth.PermJobsManage) {
		return Job{}, apperr.NotFound("job")
	}
	return j, nil
}

func (s *Service) CreateJob(ctx context.Context, actor auth.Actor, in JobInput) (Job, error) {
	if err := actor.Require(auth.PermJobsManage); err != nil {
		return Job{}, err
	}
	j := Job{Status: JobActive, PostedDate: validate.DateOnly(s.Now().UTC())}
	if err := applyJob(&j, in.Normalize()); err != nil {
		return Job{}, err
	}
	return s.Store.CreateJob(ctx, j)
}

func (s *Service) UpdateJob(ctx context.Context, actor auth.Actor, id string, in JobInput) (Job, error) {
	if err := actor.Require(auth.PermJobsManage); err != nil {
		return Job{}, err
	}
	j, err := s.Store.GetJob(ctx, id)
	if err != nil {
		return Job{}, err
	}
	if err := applyJob(&j, in.Normalize()); err != nil {
		return Job{}, err
	}
	return s.Store.UpdateJob(ctx, j)
}

func (s *Service) DeleteJob(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermJobsManage); err != nil {
		return err
	}
	return s.Store.DeleteJob(ctx, id)
}

func (s *Service) ListApplicants(ctx context.Context, actor auth.Actor, filter ApplicantFilter) ([]Applicant, error) {
	if err := actor.Require(auth.PermApplicantsRead); err != nil {
		return nil, err
	}
	return s.Store.ListApplicants(ctx, filter)
}

func (s *Service) GetApplicant(ctx context.Context, actor auth.Actor, id string) (Applicant, error) {
	if err := actor.Require(auth.PermApplicantsRead); err != nil {
		return Applicant{}, err
	}
	return s.Store.GetApplicant(ctx, id)
}

// CreateApplicant always starts in applied. A different status in the payload
// is applied afterwards through the workflow.
func (s *Service) CreateApplicant(ctx context.Context, actor auth.Actor, in ApplicantInput) (Applicant, error) {
	if err := actor.Require(auth.PermApplicantsManage); err != nil {
		return Applicant{}, err
	}
	a := Applicant{Status: ApplicantApplied, AppliedDate: validate.DateOnly(s.Now().UTC()), History: []HistoryEntry{}}
	if err := applyApplicant(&a, in); err != nil {
		return Applicant{}, err
	}
	if in.Status != nil {
		if _, ok := ApplicantWorkflow.Parse(*in.Status); !ok {
			return Applicant{}, apperr.Validation("unknown status", apperr.FieldIssue{Field: "status", Reason: "is not a valid applicant status"})
		}
	}
	created, err := s.Store.CreateApplicant(ctx, a)
	if err != nil {
		return Applicant{}, err
	}
	if in.Status != nil {
		return s.TransitionApplicant(ctx, actor, created.ID, StatusInput{Status: *in.Status})
	}
	return created, nil
}

func (s *Service) UpdateApplicant(ctx context.Context, actor auth.Actor, id string, in ApplicantInput) (Applicant, error) {
	if err := actor.Require(auth.PermApplicantsManage); err != nil {
		return Applicant{}, err
	}
	a, err := s.Store.GetApplicant(ctx, id)
	if err != nil {
		return Applicant{}, err
	}
	status := in.Status
	in.Status = nil
	if in != (ApplicantInput{}) {
		if err := applyApplicant(&a, in); err != nil {
			return Applicant{}, err
		}
		if a, err = s.Store.UpdateApplicant(ctx, a); err != nil {
			return Applicant{}, err
		}
	}
	if status != nil {
		return s.TransitionApplicant(ctx, actor, id, StatusInput{Status: *status})
	}
	return a, nil
}

func (s *Service) DeleteApplicant(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermApplicantsManage); err != nil {
		return err
	}
	return s.Store.DeleteApplicant(ctx, id)
}

// TransitionApplicant moves an applicant through the hiring pipeline. Each
// applied change appends exactly one history entry.
func (s *Service) TransitionApplicant(ctx context.Context, actor auth.Actor, id string, in StatusInput) (Applicant, error) {
	a, err := s.Store.GetApplicant(ctx, id)
	if err != nil {
		return Applicant{}, err
	}
	next, _ := ApplicantWorkflow.Parse(in.Status)
	changed, err := ApplicantWorkflow.Decide(a.Status, next, actor.Role)
	if err != nil || !changed {
		return a, err
	}

	now := s.Now().UTC()
	review := Review{
		By:    actor.UserID,
		At:    now,
		Entry: HistoryEntry{From: a.Status, To: next, Actor: actor.UserID, Date: now},
	}
	moved, err := s.Store.TransitionApplicant(ctx, id, a.Status, next, review)
	if err != nil {
		return Applicant{}, err
	}
	current, err := s.Store.GetApplicant(ctx, id)
	if err != nil {
		return Applicant{}, err
	}
	if !moved {
		if current.Status == next {
			return current, nil
		}
		return Applicant{}, apperr.InvalidTransition(string(current.Status), string(next))
	}
	log.WithField("applicantId", id).WithField("status", next).Info("applicant status changed")
	return current, nil
}

var applicantHeaders = []string{"Name", "Email", "Phone", "Position", "Job", "Experience", "Skills", "Rating", "Status", "Applied"}

func (s *Service) ExportApplicants(ctx context.Context, actor auth.Actor, filter ApplicantFilter) (*bytes.Buffer, error) {
	if err := actor.Require(auth.PermReportsExport); err != nil {
		return nil, err
	}
	items, err := s.Store.ListApplicants(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, a := range items {
		rows = append(rows, []any{a.Name, a.Email, a.Phone, a.Position, a.JobTitle, a.Experience,
			strings.Join(a.Skills, ", "), a.Rating, string(a.Status), a.AppliedDate.Format(validate.DateLayout)})
	}
	buf, err := export.XLSX(export.Sheet{Name: "Applicants", Headers: applicantHeaders, Rows: rows})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return buf, nil
}

func applyJob(j *Job, in JobInput) error {
	v := validate.New()
	if in.Title != nil {
		j.Title = strings.TrimSpace(*in.Title)
	}
	if in.DepartmentID != nil {
		j.DepartmentID = strings.TrimSpace(*in.DepartmentID)
	}
	if in.Location != nil {
		j.Location = strings.TrimSpace(*in.Location)
	}
	if in.JobType != nil {
		j.JobType = strings.TrimSpace(*in.JobType)
	}
	if in.SalaryRange != nil {
		j.SalaryRange = strings.TrimSpace(*in.SalaryRange)
	}
	if in.Description != nil {
		j.Description = strings.TrimSpace(*in.Description)
	}
	if in.Requirements != nil {
		j.Requirements = []string(*in.Requirements)
	}
	if j.Requirements == nil {
		j.Requirements = []string{}
	}
	if in.Status != nil {
		j.Status = JobStatus(strings.ToLower(strings.TrimSpace(*in.Status)))
		v.Enum("status", string(j.Status), JobStatuses)
	}
	if in.PostedDate != nil {
		if posted, ok := v.Date("postedDate", *in.PostedDate); ok {
			j.PostedDate = posted
		}
	}

	if v.Required("title", j.Title) {
		v.MaxLen("title", j.Title, 200)
	}
	return v.Err()
}

func applyApplicant(a *Applicant, in ApplicantInput) error {
	v := validate.New()
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		a.Email = auth.NormalizeEmail(*in.Email)
	}
	if in.Phone != nil {
		a.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Position != nil {
		a.Position = strings.TrimSpace(*in.Position)
	}
	if in.JobID != nil {
		a.JobID = strings.TrimSpace(*in.JobID)
	} else if in.LegacyJob != nil {
		a.JobID = strings.TrimSpace(*in.LegacyJob)
	}
	if in.Experience != nil {
		a.Experience = strings.TrimSpace(*in.Experience)
	}
	if in.Skills != nil {
		a.Skills = []string(*in.Skills)
	}
	if a.Skills == nil {
		a.Skills = []string{}
	}
	if in.ResumeURL != nil {
		a.ResumeURL = strings.TrimSpace(*in.ResumeURL)
	}
	if in.Rating != nil {
		a.Rating = coerce.Value(in.Rating)
	}
	if in.AppliedDate != nil {
		if applied, ok := v.Date("appliedDate", *in.AppliedDate); ok {
			a.AppliedDate = applied
		}
	}

	v.Required("name", a.Name)
	if v.Required("email", a.Email) {
		v.Email("email", a.Email)
	}
	v.Phone("phone", a.Phone)
	v.Range("rating", a.Rating, 0, 5)
	return v.Err()
}
