package leave

import (
	"errors"
	"time"

	"hrms/internal/domain/validate"
)

// CalculateDays returns the inclusive calendar-day count between start and end.
func CalculateDays(start, end time.Time) (int, error) {
	start, end = validate.DateOnly(start), validate.DateOnly(end)
	if end.Before(start) {
		return 0, errors.New("end date before start date")
	}
	return int(end.Sub(start).Hours()/24) + 1, nil
}

// Covers reports whether day falls inside the request window.
func (r LeaveRequest) Covers(day time.Time) bool {
	day = validate.DateOnly(day)
	return !day.Before(validate.DateOnly(r.StartDate)) && !day.After(validate.DateOnly(r.EndDate))
}
