package device

import "time"

type Status string

const (
	StatusAvailable   Status = "available"
	StatusActive      Status = "active"
	StatusMaintenance Status = "maintenance"
	StatusReturned    Status = "returned"
)

var (
	Statuses   = []string{string(StatusAvailable), string(StatusActive), string(StatusMaintenance), string(StatusReturned)}
	Types      = []string{"laptop", "tablet", "phone", "monitor", "accessory"}
	Conditions = []string{"excellent", "good", "fair", "poor"}
)

const (
	ActionAssigned = "assigned"
	ActionReturned = "returned"
)

type HistoryEntry struct {
	Employee string    `json:"employee"`
	Action   string    `json:"action"`
	Date     time.Time `json:"date"`
	Notes    string    `json:"notes,omitempty"`
}

type Device struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Type         string         `json:"type"`
	Model        string         `json:"model"`
	SerialNumber string         `json:"serialNumber"`
	Condition    string         `json:"condition"`
	Status       Status         `json:"status"`
	AssignedTo   string         `json:"assignedTo,omitempty"`
	AssignedName string         `json:"assignedName,omitempty"`
	Location     string         `json:"location"`
	PurchaseDate *time.Time     `json:"purchaseDate,omitempty"`
	History      []HistoryEntry `json:"history"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Input is the canonical inventory payload. Older clients send the same
// fields under several names; Normalize folds them in once.
type Input struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Model        *string `json:"model"`
	SerialNumber *string `json:"serialNumber"`
	Condition    *string `json:"condition"`
	Status       *string `json:"status"`
	AssignedTo   *string `json:"assignedTo"`
	Location     *string `json:"location"`
	PurchaseDate *string `json:"purchaseDate"`

	LegacyName     *string `json:"deviceName"`
	LegacyType     *string `json:"deviceType"`
	LegacyModel    *string `json:"deviceModel"`
	LegacySerial   *string `json:"serial"`
	LegacySerialNo *string `json:"serialNo"`
}

func (in Input) Normalize() Input {
	out := in
	out.Name = first(in.Name, in.LegacyName)
	out.Type = first(in.Type, in.LegacyType)
	out.Model = first(in.Model, in.LegacyModel)
	out.SerialNumber = first(in.SerialNumber, in.LegacySerial, in.LegacySerialNo)
	out.LegacyName, out.LegacyType, out.LegacyModel, out.LegacySerial, out.LegacySerialNo = nil, nil, nil, nil, nil
	return out
}

type AssignInput struct {
	EmployeeID     string `json:"employeeId"`
	LegacyEmployee string `json:"employee"`
	Location       string `json:"location"`
	Notes          string `json:"notes"`
}

type ReturnInput struct {
	Notes     string `json:"notes"`
	Condition string `json:"condition"`
	Status    string `json:"status"`
}

type Filter struct {
	Status     string
	Type       string
	AssignedTo string
	Limit      int
	Offset     int
}

func first(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
