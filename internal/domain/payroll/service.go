package payroll

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
	Store   StoreAPI
	Archive Archiver
	Now     func() time.Time
}

func NewService(store StoreAPI, archive Archiver) *Service {
	return &Service{Store: store, Archive: archive, Now: time.Now}
}

func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]Payroll, error) {
	if !actor.Can(auth.PermPayrollManage) {
		if actor.EmployeeID == "" {
			return []Payroll{}, nil
		}
		filter.EmployeeID = actor.EmployeeID
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Payroll, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	if !actor.Can(auth.PermPayrollManage) && !actor.Owns(p.EmployeeID) {
		return Payroll{}, apperr.Forbidden("employees may only view their own payroll")
	}
	return p, nil
}

// Create stores a pending record. A non-pending status in the payload is
// applied afterwards through the workflow.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (Payroll, error) {
	if err := actor.Require(auth.PermPayrollManage); err != nil {
		return Payroll{}, err
	}
	p := Payroll{Status: StatusPending}
	if err := apply(&p, in); err != nil {
		return Payroll{}, err
	}
	if in.Status != nil {
		if _, ok := Workflow.Parse(*in.Status); !ok {
			return Payroll{}, apperr.Validation("unknown status", apperr.FieldIssue{Field: "status", Reason: "must be one of pending, paid, overdue"})
		}
	}
	created, err := s.Store.Create(ctx, p)
	if err != nil {
		return Payroll{}, err
	}
	if in.Status != nil {
		return s.Transition(ctx, actor, created.ID, StatusInput{Status: *in.Status})
	}
	return created, nil
}

// Update applies a partial patch and recomputes the net salary. Status is
// routed through Transition.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (Payroll, error) {
	if err := actor.Require(auth.PermPayrollManage); err != nil {
		return Payroll{}, err
	}
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	if hasFieldChanges(in) {
		if err := apply(&p, in); err != nil {
			return Payroll{}, err
		}
		if p, err = s.Store.Update(ctx, p); err != nil {
			return Payroll{}, err
		}
	}
	if in.Status != nil {
		return s.Transition(ctx, actor, id, StatusInput{Status: *in.Status})
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermPayrollManage); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func (s *Service) Transition(ctx context.Context, actor auth.Actor, id string, in StatusInput) (Payroll, error) {
	p, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	next, _ := Workflow.Parse(in.Status)
	changed, err := Workflow.Decide(p.Status, next, actor.Role)
	if err != nil || !changed {
		return p, err
	}

	moved, err := s.Store.Transition(ctx, id, p.Status, next, Stamp{By: actor.UserID, At: s.Now().UTC()})
	if err != nil {
		return Payroll{}, err
	}
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return Payroll{}, err
	}
	if !moved {
		if current.Status == next {
			return current, nil
		}
		return Payroll{}, apperr.InvalidTransition(string(current.Status), string(next))
	}

	log.WithField("payrollId", id).WithField("status", next).Info("payroll status changed")
	if next == StatusPaid {
		current = s.archivePayslip(ctx, current)
	}
	return current, nil
}

// MarkOverdue moves pending records whose pay date has passed to overdue and
// returns how many changed.
func (s *Service) MarkOverdue(ctx context.Context) (int, error) {
	today := validate.DateOnly(s.Now().UTC())
	due, err := s.Store.ListDue(ctx, today)
	if err != nil {
		return 0, err
	}
	moved := 0
	for _, p := range due {
		updated, err := s.Transition(ctx, auth.SystemActor, p.ID, StatusInput{Status: string(StatusOverdue)})
		if err != nil {
			if apperr.Is(err, apperr.KindInvalidTransition) {
				continue
			}
			return moved, err
		}
		if updated.Status == StatusOverdue {
			moved++
		}
	}
	return moved, nil
}

// Payslip renders the PDF for a record the actor may read.
func (s *Service) Payslip(ctx context.Context, actor auth.Actor, id string) (Payroll, []byte, error) {
	p, err := s.Get(ctx, actor, id)
	if err != nil {
		return Payroll{}, nil, err
	}
	data, err := RenderPayslip(p)
	if err != nil {
		return Payroll{}, nil, apperr.Internal(err)
	}
	return p, data, nil
}

var exportHeaders = []string{"Employee", "Employee ID", "Pay date", "Base salary", "Bonus", "Deductions", "Net salary", "Status", "Processed at"}

func (s *Service) Export(ctx context.Context, actor auth.Actor, filter Filter) (*bytes.Buffer, error) {
	if err := actor.Require(auth.PermReportsExport); err != nil {
		return nil, err
	}
	items, err := s.Store.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rows := make([][]any, 0, len(items))
	for _, p := range items {
		processed := ""
		if p.ProcessedAt != nil {
			processed = p.ProcessedAt.Format(time.RFC3339)
		}
		rows = append(rows, []any{p.EmployeeName, p.EmployeeID, p.PayDate.Format(validate.DateLayout), p.BaseSalary, p.Bonus, p.Deductions, p.NetSalary, string(p.Status), processed})
	}
	buf, err := export.XLSX(export.Sheet{Name: "Payroll", Headers: exportHeaders, Rows: rows})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return buf, nil
}

func (s *Service) archivePayslip(ctx context.Context, p Payroll) Payroll {
	if s.Archive == nil {
		return p
	}
	logger := log.WithField("payrollId", p.ID)
	data, err := RenderPayslip(p)
	if err != nil {
		logger.WithError(err).Error("render payslip failed")
		return p
	}
	key := PayslipKey(p)
	if err := s.Archive.Put(ctx, key, data, "application/pdf"); err != nil {
		logger.WithError(err).Error("archive payslip failed")
		return p
	}
	if err := s.Store.SetPayslipKey(ctx, p.ID, key); err != nil {
		logger.WithError(err).Error("save payslip key failed")
		return p
	}
	p.PayslipKey = key
	return p
}

func hasFieldChanges(in Input) bool {
	return in.EmployeeID != nil || in.LegacyEmployee != nil || in.BaseSalary != nil || in.Bonus != nil ||
		in.Deductions != nil || in.PayDate != nil || in.Notes != nil
}

func apply(p *Payroll, in Input) error {
	v := validate.New()
	if in.EmployeeID != nil {
		p.EmployeeID = strings.TrimSpace(*in.EmployeeID)
	} else if in.LegacyEmployee != nil {
		p.EmployeeID = strings.TrimSpace(*in.LegacyEmployee)
	}
	if in.BaseSalary != nil {
		p.BaseSalary = coerce.Value(in.BaseSalary)
	}
	if in.Bonus != nil {
		p.Bonus = coerce.Value(in.Bonus)
	}
	if in.Deductions != nil {
		p.Deductions = coerce.Value(in.Deductions)
	}
	if in.PayDate != nil {
		if parsed, ok := v.Date("payDate", *in.PayDate); ok {
			p.PayDate = parsed
		}
	} else if p.PayDate.IsZero() {
		v.Add("payDate", "is required")
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}

	v.Required("employeeId", p.EmployeeID)
	v.NonNegative("baseSalary", p.BaseSalary)
	v.NonNegative("bonus", p.Bonus)
	v.NonNegative("deductions", p.Deductions)
	if err := v.Err(); err != nil {
		return err
	}
	p.Recalculate()
	return nil
}
