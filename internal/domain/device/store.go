package device

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"hrms/internal/platform/pgutil"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const deviceSelect = `
    SELECT d.id, d.name, d.type, d.model, COALESCE(d.serial_number, ''), d.condition, d.status,
      COALESCE(d.assigned_to::text, ''), COALESCE(e.name, ''), d.location, d.purchase_date, d.history,
      d.created_at, d.updated_at
    FROM devices d
    LEFT JOIN employees e ON e.id = d.assigned_to
  `

func scanDevice(row pgx.Row) (Device, error) {
	var d Device
	var status string
	err := row.Scan(&d.ID, &d.Name, &d.Type, &d.Model, &d.SerialNumber, &d.Condition, &status,
		&d.AssignedTo, &d.AssignedName, &d.Location, &d.PurchaseDate, &d.History, &d.CreatedAt, &d.UpdatedAt)
	d.Status = Status(status)
	if d.History == nil {
		d.History = []HistoryEntry{}
	}
	return d, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Device, error) {
	rows, err := s.DB.Query(ctx, deviceSelect+`
    WHERE ($1 = '' OR d.status = $1)
      AND ($2 = '' OR d.type = $2)
      AND ($3 = '' OR d.assigned_to::text = $3)
    ORDER BY d.name
    LIMIT $4 OFFSET $5
  `, filter.Status, filter.Type, filter.AssignedTo, filter.Limit, filter.Offset)
	if err != nil {
		return nil, pgutil.Classify(err, "list devices", "device")
	}
	defer rows.Close()

	out := []Device{}
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, pgutil.Classify(err, "scan device", "device")
		}
		out = append(out, d)
	}
	return out, pgutil.Classify(rows.Err(), "list devices", "device")
}

func (s *Store) Get(ctx context.Context, id string) (Device, error) {
	d, err := scanDevice(s.DB.QueryRow(ctx, deviceSelect+"WHERE d.id = $1", id))
	return d, pgutil.Classify(err, "get device", "device")
}

func (s *Store) Create(ctx context.Context, d Device) (Device, error) {
	var id string
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO devices (name, type, model, serial_number, condition, status, location, purchase_date)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING id
  `, d.Name, d.Type, d.Model, pgutil.NullIfEmpty(d.SerialNumber), d.Condition, string(d.Status),
		d.Location, d.PurchaseDate).Scan(&id); err != nil {
		return Device{}, pgutil.Classify(err, "insert device", "device")
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, d Device) (Device, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE devices
    SET name = $2, type = $3, model = $4, serial_number = $5, condition = $6, status = $7,
      location = $8, purchase_date = $9, updated_at = now()
    WHERE id = $1
  `, d.ID, d.Name, d.Type, d.Model, pgutil.NullIfEmpty(d.SerialNumber), d.Condition, string(d.Status),
		d.Location, d.PurchaseDate)
	if err != nil {
		return Device{}, pgutil.Classify(err, "update device", "device")
	}
	if tag.RowsAffected() == 0 {
		return Device{}, pgutil.Classify(pgx.ErrNoRows, "update device", "device")
	}
	return s.Get(ctx, d.ID)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM devices WHERE id = $1", id)
	if err != nil {
		return pgutil.Classify(err, "delete device", "device")
	}
	if tag.RowsAffected() == 0 {
		return pgutil.Classify(pgx.ErrNoRows, "delete device", "device")
	}
	return nil
}

func (s *Store) Assign(ctx context.Context, id, employeeID, location string, entry HistoryEntry) (bool, error) {
	history, err := encodeEntry(entry)
	if err != nil {
		return false, err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE devices
    SET status = 'active', assigned_to = $2, location = $3, history = history || $4::jsonb, updated_at = now()
    WHERE id = $1 AND status = 'available' AND assigned_to IS NULL
  `, id, employeeID, location, history)
	if err != nil {
		return false, pgutil.Classify(err, "assign device", "device")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Release(ctx context.Context, id string, status Status, condition string, entry HistoryEntry) (bool, error) {
	history, err := encodeEntry(entry)
	if err != nil {
		return false, err
	}
	tag, err := s.DB.Exec(ctx, `
    UPDATE devices
    SET status = $2, assigned_to = NULL, condition = $3, history = history || $4::jsonb, updated_at = now()
    WHERE id = $1 AND assigned_to IS NOT NULL
  `, id, string(status), condition, history)
	if err != nil {
		return false, pgutil.Classify(err, "return device", "device")
	}
	return tag.RowsAffected() == 1, nil
}

func encodeEntry(entry HistoryEntry) (string, error) {
	data, err := json.Marshal([]HistoryEntry{entry})
	if err != nil {
		return "", errors.Wrap(err, "encode device history")
	}
	return string(data), nil
}
