package leave

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/validate"
)

// EmployeeStatusSetter flips an employee to on_leave when an approved window
// covers today.
type EmployeeStatusSetter interface {
	SetStatus(ctx context.Context, id string, status employee.Status) error
}

type Service struct {
	Store     StoreAPI
	Employees EmployeeStatusSetter
	Now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeStatusSetter) *Service {
	return &Service{Store: store, Employees: employees, Now: time.Now}
}

func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]LeaveRequest, error) {
	if !actor.Can(auth.PermLeaveReview) {
		if actor.EmployeeID == "" {
			return []LeaveRequest{}, nil
		}
		filter.EmployeeID = actor.EmployeeID
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (LeaveRequest, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !actor.Can(auth.PermLeaveReview) && !actor.Owns(req.EmployeeID) {
		return LeaveRequest{}, apperr.Forbidden("employees may only view their own leave requests")
	}
	return req, nil
}

// Create files a pending request. Only HR and admins may file on behalf of
// another employee.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (LeaveRequest, error) {
	req := LeaveRequest{EmployeeID: actor.EmployeeID, Status: StatusPending}
	target := pick(in.EmployeeID, in.LegacyEmployee)
	if target != nil && strings.TrimSpace(*target) != "" && !actor.Owns(strings.TrimSpace(*target)) {
		if !actor.Elevated() {
			return LeaveRequest{}, apperr.Forbidden("leave can only be requested for yourself")
		}
		req.EmployeeID = strings.TrimSpace(*target)
	}
	if err := apply(&req, in); err != nil {
		return LeaveRequest{}, err
	}
	return s.Store.Create(ctx, req)
}

// Update edits the request fields. Owners may edit only while the request is
// pending. A status in the payload is routed through Transition.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (LeaveRequest, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if in.Status != nil && !Workflow.Allowed(actor.Role) {
		return LeaveRequest{}, apperr.Forbidden("role " + string(actor.Role) + " cannot change this status")
	}

	if hasFieldChanges(in) {
		if err := s.checkEditable(actor, req); err != nil {
			return LeaveRequest{}, err
		}
		if err := apply(&req, in); err != nil {
			return LeaveRequest{}, err
		}
		if req, err = s.Store.Update(ctx, req); err != nil {
			return LeaveRequest{}, err
		}
	} else if in.Status == nil {
		if err := s.checkEditable(actor, req); err != nil {
			return LeaveRequest{}, err
		}
	}

	if in.Status != nil {
		note := ""
		if in.ReviewNote != nil {
			note = *in.ReviewNote
		}
		return s.Transition(ctx, actor, id, StatusInput{Status: *in.Status, ReviewNote: note})
	}
	return req, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkEditable(actor, req); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

// Transition approves or rejects a request. Repeating the current status is a
// no-op that leaves the review stamp untouched.
func (s *Service) Transition(ctx context.Context, actor auth.Actor, id string, in StatusInput) (LeaveRequest, error) {
	req, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}
	next, _ := Workflow.Parse(in.Status)
	if !Workflow.Allowed(actor.Role) {
		return LeaveRequest{}, apperr.Forbidden("role " + string(actor.Role) + " cannot review leave requests")
	}
	if actor.Owns(req.EmployeeID) && !actor.Elevated() {
		return LeaveRequest{}, apperr.Forbidden("managers cannot review their own leave")
	}
	changed, err := Workflow.Decide(req.Status, next, actor.Role)
	if err != nil || !changed {
		return req, err
	}

	review := Review{By: actor.UserID, At: s.Now().UTC(), Note: strings.TrimSpace(in.ReviewNote)}
	moved, err := s.Store.Transition(ctx, id, req.Status, next, review)
	if err != nil {
		return LeaveRequest{}, err
	}
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if !moved {
		if current.Status == next {
			return current, nil
		}
		return LeaveRequest{}, apperr.InvalidTransition(string(current.Status), string(next))
	}

	log.WithField("leaveId", id).WithField("status", next).WithField("reviewer", actor.UserID).Info("leave request reviewed")
	if next == StatusApproved && current.Covers(s.Now()) && s.Employees != nil {
		if err := s.Employees.SetStatus(ctx, current.EmployeeID, employee.StatusOnLeave); err != nil {
			log.WithError(err).WithField("employeeId", current.EmployeeID).Warn("mark employee on leave failed")
		}
	}
	return current, nil
}

func (s *Service) checkEditable(actor auth.Actor, req LeaveRequest) error {
	if actor.Elevated() {
		return nil
	}
	if !actor.Owns(req.EmployeeID) {
		return apperr.Forbidden("employees may only change their own leave requests")
	}
	if req.Status != StatusPending {
		return apperr.Conflict("leave_not_pending", "only pending leave requests can be changed")
	}
	return nil
}

func hasFieldChanges(in Input) bool {
	return in.LeaveType != nil || in.LegacyLeaveType != nil || in.StartDate != nil || in.EndDate != nil || in.Reason != nil
}

func pick(primary, legacy *string) *string {
	if primary != nil {
		return primary
	}
	return legacy
}

func apply(req *LeaveRequest, in Input) error {
	v := validate.New()
	if lt := pick(in.LeaveType, in.LegacyLeaveType); lt != nil {
		req.LeaveType = strings.TrimSpace(*lt)
	}
	if in.StartDate != nil {
		if parsed, ok := v.Date("startDate", *in.StartDate); ok {
			req.StartDate = parsed
		}
	}
	if in.EndDate != nil {
		if parsed, ok := v.Date("endDate", *in.EndDate); ok {
			req.EndDate = parsed
		}
	}
	if in.Reason != nil {
		req.Reason = strings.TrimSpace(*in.Reason)
	}

	v.Required("employeeId", req.EmployeeID)
	if v.Required("leaveType", req.LeaveType) {
		v.MaxLen("leaveType", req.LeaveType, 60)
	}
	if req.StartDate.IsZero() && in.StartDate == nil {
		v.Add("startDate", "is required")
	}
	if req.EndDate.IsZero() && in.EndDate == nil {
		v.Add("endDate", "is required")
	}
	v.DateOrder("startDate", req.StartDate, "endDate", req.EndDate)
	if err := v.Err(); err != nil {
		return err
	}

	days, err := CalculateDays(req.StartDate, req.EndDate)
	if err != nil {
		return apperr.Validation(err.Error())
	}
	req.Duration = days
	return nil
}
