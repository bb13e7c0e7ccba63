package recruitment

import "context"

type StoreAPI interface {
	ListJobs(ctx context.Context, filter JobFilter) ([]Job, error)
	GetJob(ctx context.Context, id string) (Job, error)
	CreateJob(ctx context.Context, j Job) (Job, error)
	UpdateJob(ctx context.Context, j Job) (Job, error)
	DeleteJob(ctx context.Context, id string) error

	ListApplicants(ctx context.Context, filter ApplicantFilter) ([]Applicant, error)
	GetApplicant(ctx context.Context, id string) (Applicant, error)
	CreateApplicant(ctx context.Context, a Applicant) (Applicant, error)
	UpdateApplicant(ctx context.Context, a Applicant) (Applicant, error)
	DeleteApplicant(ctx context.Context, id string) error
	// TransitionApplicant moves from -> to only if the stored status is still
	// from, appending review.Entry to the history.
	TransitionApplicant(ctx context.Context, id string, from, to ApplicantStatus, review Review) (bool, error)
}
