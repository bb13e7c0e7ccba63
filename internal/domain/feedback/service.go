package feedback

import (
	"context"
	"strings"
	"time"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/validate"
)

type Service struct {
	Store StoreAPI
	Now   func() time.Time
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store, Now: time.Now}
}

// List returns everything to feedback managers and only sent or received
// feedback to everyone else.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]Feedback, error) {
	if !actor.Can(auth.PermFeedbackManage) {
		if actor.EmployeeID == "" {
			return []Feedback{}, nil
		}
		filter.Participant = actor.EmployeeID
	}
	items, err := s.Store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = redact(actor, items[i])
	}
	return items, nil
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Feedback, error) {
	f, err := s.Store.Get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	if !canRead(actor, f) {
		return Feedback{}, apperr.Forbidden("feedback is not addressed to you")
	}
	return redact(actor, f), nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (Feedback, error) {
	if actor.EmployeeID == "" {
		return Feedback{}, apperr.Forbidden("an employee profile is required to send feedback")
	}
	f := Feedback{FromID: actor.EmployeeID, Category: "general", Status: StatusPending}
	if err := apply(&f, in); err != nil {
		return Feedback{}, err
	}
	created, err := s.Store.Create(ctx, f)
	if err != nil {
		return Feedback{}, err
	}
	return redact(actor, created), nil
}

// Update lets the author edit a pending message. Status and response in the
// same payload are handled as a review by Respond.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (Feedback, error) {
	f, err := s.Store.Get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	if in.authorFields() {
		if !actor.Owns(f.FromID) && !actor.Can(auth.PermFeedbackManage) {
			return Feedback{}, apperr.Forbidden("only the author may edit feedback")
		}
		if f.Status != StatusPending && !actor.Can(auth.PermFeedbackManage) {
			return Feedback{}, apperr.Conflict("feedback_not_pending", "feedback can only be edited while pending")
		}
		if err := apply(&f, in); err != nil {
			return Feedback{}, err
		}
		if f, err = s.Store.Update(ctx, f); err != nil {
			return Feedback{}, err
		}
	}
	if in.Status != nil || in.Response != nil {
		var r RespondInput
		if in.Status != nil {
			r.Status = *in.Status
		}
		if in.Response != nil {
			r.Response = *in.Response
		}
		return s.Respond(ctx, actor, id, r)
	}
	return redact(actor, f), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	f, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.Owns(f.FromID) && !actor.Can(auth.PermFeedbackManage) {
		return apperr.Forbidden("only the author may delete feedback")
	}
	return s.Store.Delete(ctx, id)
}

// Respond records the recipient's reply and moves the status forward. A
// response without a status marks pending feedback as reviewed.
func (s *Service) Respond(ctx context.Context, actor auth.Actor, id string, in RespondInput) (Feedback, error) {
	f, err := s.Store.Get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	if !actor.Owns(f.ToID) && !actor.Can(auth.PermFeedbackManage) {
		return Feedback{}, apperr.Forbidden("only the recipient may respond to feedback")
	}
	response := strings.TrimSpace(in.Response)
	next := f.Status
	if strings.TrimSpace(in.Status) != "" {
		next, _ = Workflow.Parse(in.Status)
	} else if response != "" && f.Status == StatusPending {
		next = StatusReviewed
	}
	if _, err := Workflow.Decide(f.Status, next, actor.Role); err != nil {
		return Feedback{}, err
	}
	if next == f.Status && response == "" {
		return redact(actor, f), nil
	}
	if response == "" {
		response = f.Response
	}

	ok, err := s.Store.Respond(ctx, id, f.Status, next, response, s.Now().UTC())
	if err != nil {
		return Feedback{}, err
	}
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return Feedback{}, err
	}
	if !ok && current.Status != next {
		return Feedback{}, apperr.InvalidTransition(string(current.Status), string(next))
	}
	return redact(actor, current), nil
}

func canRead(actor auth.Actor, f Feedback) bool {
	return actor.Can(auth.PermFeedbackManage) || actor.Owns(f.FromID) || actor.Owns(f.ToID)
}

// redact hides the author of anonymous feedback from everyone but the author
// and feedback managers.
func redact(actor auth.Actor, f Feedback) Feedback {
	if f.IsAnonymous && !actor.Can(auth.PermFeedbackManage) && !actor.Owns(f.FromID) {
		f.FromID, f.FromName = "", ""
	}
	return f
}

func apply(f *Feedback, in Input) error {
	v := validate.New()
	if in.ToID != nil {
		f.ToID = strings.TrimSpace(*in.ToID)
	} else if in.LegacyTo != nil {
		f.ToID = strings.TrimSpace(*in.LegacyTo)
	}
	if in.Category != nil {
		f.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.Subject != nil {
		f.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.Message != nil {
		f.Message = strings.TrimSpace(*in.Message)
	}
	if in.Rating != nil {
		f.Rating = coerce.Value(in.Rating)
	}
	if in.IsAnonymous != nil {
		f.IsAnonymous = *in.IsAnonymous
	}

	v.Required("message", f.Message)
	v.MaxLen("subject", f.Subject, 200)
	v.Enum("category", f.Category, Categories)
	v.Range("rating", f.Rating, 0, 5)
	// Zero means unrated; any given rating is on the 1 to 5 scale.
	if f.Rating > 0 && f.Rating < 1 {
		v.Add("rating", "must be between 1 and 5, or 0 when unrated")
	}
	if f.ToID != "" && f.ToID == f.FromID {
		v.Add("toId", "cannot be yourself")
	}
	return v.Err()
}
