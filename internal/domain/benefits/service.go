package benefits

import (
	"context"
	"strconv"
	"strings"

	"hrms/internal/domain/apperr"
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

func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]Benefit, error) {
	if !actor.Can(auth.PermBenefitsManage) {
		if actor.EmployeeID == "" {
			return []Benefit{}, nil
		}
		filter.EmployeeID = actor.EmployeeID
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Benefit, error) {
	b, err := s.Store.Get(ctx, id)
	if err != nil {
		return Benefit{}, err
	}
	if !actor.Can(auth.PermBenefitsManage) && !actor.Owns(b.EmployeeID) {
		return Benefit{}, apperr.Forbidden("employees may only view their own benefits")
	}
	return b, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (Benefit, error) {
	if err := actor.Require(auth.PermBenefitsManage); err != nil {
		return Benefit{}, err
	}
	b := Benefit{Dependents: []Dependent{}}
	if err := apply(&b, in); err != nil {
		return Benefit{}, err
	}
	return s.Store.Create(ctx, b)
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (Benefit, error) {
	if err := actor.Require(auth.PermBenefitsManage); err != nil {
		return Benefit{}, err
	}
	b, err := s.Store.Get(ctx, id)
	if err != nil {
		return Benefit{}, err
	}
	if err := apply(&b, in); err != nil {
		return Benefit{}, err
	}
	return s.Store.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermBenefitsManage); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func apply(b *Benefit, in Input) error {
	v := validate.New()
	if in.EmployeeID != nil {
		b.EmployeeID = strings.TrimSpace(*in.EmployeeID)
	} else if in.LegacyEmployee != nil {
		b.EmployeeID = strings.TrimSpace(*in.LegacyEmployee)
	}
	if in.PlanType != nil {
		b.PlanType = canonicalPlan(*in.PlanType)
	}
	if in.Provider != nil {
		b.Provider = strings.TrimSpace(*in.Provider)
	}
	if in.Coverage != nil {
		b.Coverage = strings.TrimSpace(*in.Coverage)
	}
	if in.Cost != nil {
		b.Cost = coerce.Value(in.Cost)
	}
	if in.Dependents != nil {
		b.Dependents = make([]Dependent, 0, len(*in.Dependents))
		for i, d := range *in.Dependents {
			d.Name = strings.TrimSpace(d.Name)
			d.Relationship = strings.TrimSpace(d.Relationship)
			if d.Name == "" {
				v.Add("dependents["+strconv.Itoa(i)+"].name", "is required")
				continue
			}
			b.Dependents = append(b.Dependents, d)
		}
	}
	if in.EffectiveDate != nil {
		if effective, ok := v.Date("effectiveDate", *in.EffectiveDate); ok {
			b.EffectiveDate = effective
		}
	} else if b.EffectiveDate.IsZero() {
		v.Add("effectiveDate", "is required")
	}
	if in.EndDate != nil {
		b.EndDate = v.OptionalDate("endDate", *in.EndDate)
	}

	v.Required("employeeId", b.EmployeeID)
	if v.Required("planType", b.PlanType) {
		v.Enum("planType", b.PlanType, PlanTypes)
	}
	v.NonNegative("cost", b.Cost)
	if b.EndDate != nil {
		v.DateOrder("effectiveDate", b.EffectiveDate, "endDate", *b.EndDate)
	}
	return v.Err()
}

// canonicalPlan maps any casing of a known plan type onto its stored spelling.
func canonicalPlan(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, p := range PlanTypes {
		if strings.EqualFold(p, raw) {
			return p
		}
	}
	return raw
}
