package department

import (
	"context"
	"strings"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/coerce"
	"hrms/internal/domain/validate"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]Department, error) {
	return s.Store.List(ctx, filter)
}

// PublicList backs the unauthenticated department picker.
func (s *Service) PublicList(ctx context.Context) ([]Summary, error) {
	return s.Store.Summaries(ctx)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Department, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (Department, error) {
	if err := actor.Require(auth.PermOrgManage); err != nil {
		return Department{}, err
	}
	var d Department
	apply(&d, in)
	if err := check(d); err != nil {
		return Department{}, err
	}
	return s.Store.Create(ctx, d)
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (Department, error) {
	if err := actor.Require(auth.PermOrgManage); err != nil {
		return Department{}, err
	}
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Department{}, err
	}
	apply(&d, in)
	if err := check(d); err != nil {
		return Department{}, err
	}
	return s.Store.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermOrgManage); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func apply(d *Department, in Input) {
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}
	if in.Head != nil {
		d.Head = strings.TrimSpace(*in.Head)
	}
	if in.Location != nil {
		d.Location = strings.TrimSpace(*in.Location)
	}
	if in.Budget != nil {
		d.Budget = coerce.Value(in.Budget)
	}
}

func check(d Department) error {
	v := validate.New()
	if v.Required("name", d.Name) {
		v.MaxLen("name", d.Name, 120)
	}
	v.NonNegative("budget", d.Budget)
	return v.Err()
}
