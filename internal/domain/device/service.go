package device

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"hrms/internal/domain/apperr"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/validate"
)

type Service struct {
	Store     StoreAPI
	Employees EmployeeChecker
	Now       func() time.Time
}

func NewService(store StoreAPI, employees EmployeeChecker) *Service {
	return &Service{Store: store, Employees: employees, Now: time.Now}
}

// List returns the full inventory to device managers and only the devices
// assigned to the caller otherwise.
func (s *Service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]Device, error) {
	if !actor.Can(auth.PermDevicesManage) {
		if actor.EmployeeID == "" {
			return []Device{}, nil
		}
		filter.AssignedTo = actor.EmployeeID
	}
	return s.Store.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id string) (Device, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Device{}, err
	}
	if !actor.Can(auth.PermDevicesManage) && !actor.Owns(d.AssignedTo) {
		return Device{}, apperr.Forbidden("device is not assigned to you")
	}
	return d, nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, in Input) (Device, error) {
	if err := actor.Require(auth.PermDevicesManage); err != nil {
		return Device{}, err
	}
	in = in.Normalize()
	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) != "" {
		return Device{}, apperr.Validation("use the assign action to hand out a device",
			apperr.FieldIssue{Field: "assignedTo", Reason: "cannot be set directly"})
	}
	d := Device{Status: StatusAvailable, Condition: "good", History: []HistoryEntry{}}
	if err := apply(&d, in); err != nil {
		return Device{}, err
	}
	return s.Store.Create(ctx, d)
}

// Update edits inventory fields. Assignment state only changes through Assign
// and Return.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (Device, error) {
	if err := actor.Require(auth.PermDevicesManage); err != nil {
		return Device{}, err
	}
	in = in.Normalize()
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Device{}, err
	}
	if in.AssignedTo != nil && strings.TrimSpace(*in.AssignedTo) != d.AssignedTo {
		return Device{}, apperr.Validation("use the assign and return actions to change the assignee",
			apperr.FieldIssue{Field: "assignedTo", Reason: "cannot be changed directly"})
	}
	if in.Status != nil && d.AssignedTo != "" && Status(strings.ToLower(strings.TrimSpace(*in.Status))) != d.Status {
		return Device{}, apperr.Conflict("device_assigned", "return the device before changing its status")
	}
	if err := apply(&d, in); err != nil {
		return Device{}, err
	}
	return s.Store.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id string) error {
	if err := actor.Require(auth.PermDevicesManage); err != nil {
		return err
	}
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if d.AssignedTo != "" {
		return apperr.Conflict("device_assigned", "return the device before deleting it")
	}
	return s.Store.Delete(ctx, id)
}

func (s *Service) Assign(ctx context.Context, actor auth.Actor, id string, in AssignInput) (Device, error) {
	if err := actor.Require(auth.PermDevicesManage); err != nil {
		return Device{}, err
	}
	employeeID := strings.TrimSpace(in.EmployeeID)
	if employeeID == "" {
		employeeID = strings.TrimSpace(in.LegacyEmployee)
	}
	v := validate.New()
	if v.Required("employeeId", employeeID) {
		ok, err := s.Employees.Exists(ctx, employeeID)
		if err != nil {
			return Device{}, err
		}
		if !ok {
			v.Add("employeeId", "does not match an employee")
		}
	}
	if err := v.Err(); err != nil {
		return Device{}, err
	}

	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Device{}, err
	}
	if d.Status != StatusAvailable {
		return Device{}, apperr.Conflict("device_unavailable", "device is "+string(d.Status)+" and cannot be assigned")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = d.Location
	}
	entry := HistoryEntry{Employee: employeeID, Action: ActionAssigned, Date: s.Now().UTC(), Notes: strings.TrimSpace(in.Notes)}
	ok, err := s.Store.Assign(ctx, id, employeeID, location, entry)
	if err != nil {
		return Device{}, err
	}
	if !ok {
		return Device{}, apperr.Conflict("device_unavailable", "device was assigned by another request")
	}
	log.WithField("deviceId", id).WithField("employeeId", employeeID).Info("device assigned")
	return s.Store.Get(ctx, id)
}

// Return releases an assigned device. The resulting status is available
// unless the caller asks for returned.
func (s *Service) Return(ctx context.Context, actor auth.Actor, id string, in ReturnInput) (Device, error) {
	if err := actor.Require(auth.PermDevicesManage); err != nil {
		return Device{}, err
	}
	v := validate.New()
	status := StatusAvailable
	if raw := strings.ToLower(strings.TrimSpace(in.Status)); raw != "" {
		status = Status(raw)
		if status != StatusAvailable && status != StatusReturned {
			v.Add("status", "must be available or returned")
		}
	}
	condition := strings.ToLower(strings.TrimSpace(in.Condition))
	v.Enum("condition", condition, Conditions)
	if err := v.Err(); err != nil {
		return Device{}, err
	}

	d, err := s.Store.Get(ctx, id)
	if err != nil {
		return Device{}, err
	}
	if d.AssignedTo == "" {
		return Device{}, apperr.Conflict("device_not_assigned", "device is not currently assigned")
	}
	if condition == "" {
		condition = d.Condition
	}
	entry := HistoryEntry{Employee: d.AssignedTo, Action: ActionReturned, Date: s.Now().UTC(), Notes: strings.TrimSpace(in.Notes)}
	ok, err := s.Store.Release(ctx, id, status, condition, entry)
	if err != nil {
		return Device{}, err
	}
	if !ok {
		return Device{}, apperr.Conflict("device_not_assigned", "device was returned by another request")
	}
	log.WithField("deviceId", id).WithField("status", status).Info("device returned")
	return s.Store.Get(ctx, id)
}

func apply(d *Device, in Input) error {
	v := validate.New()
	if in.Name != nil {
		d.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		d.Type = strings.ToLower(strings.TrimSpace(*in.Type))
	}
	if in.Model != nil {
		d.Model = strings.TrimSpace(*in.Model)
	}
	if in.SerialNumber != nil {
		d.SerialNumber = strings.TrimSpace(*in.SerialNumber)
	}
	if in.Condition != nil {
		d.Condition = strings.ToLower(strings.TrimSpace(*in.Condition))
	}
	if in.Location != nil {
		d.Location = strings.TrimSpace(*in.Location)
	}
	if in.PurchaseDate != nil {
		d.PurchaseDate = v.OptionalDate("purchaseDate", *in.PurchaseDate)
	}
	if in.Status != nil {
		next := Status(strings.ToLower(strings.TrimSpace(*in.Status)))
		switch {
		case next == "" || next == d.Status:
		case next == StatusActive:
			v.Add("status", "is set by the assign action")
		default:
			v.Enum("status", string(next), Statuses)
			d.Status = next
		}
	}

	v.Required("name", d.Name)
	v.Enum("type", d.Type, Types)
	v.Enum("condition", d.Condition, Conditions)
	return v.Err()
}
