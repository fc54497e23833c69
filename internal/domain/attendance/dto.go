package attendance

import (
	"time"

	"github.com/vetanhq/payroll-backend-go/internal/pkg/validator"
)

type ReprocessRequest struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

func (r *ReprocessRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidDate(r.StartDate) {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a date in YYYY-MM-DD form"})
	}
	if !validator.IsValidDate(r.EndDate) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a date in YYYY-MM-DD form"})
	}
	if validator.IsValidDate(r.StartDate) && validator.IsValidDate(r.EndDate) && r.EndDate < r.StartDate {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SyncRequest struct {
	DeviceUserID string `json:"device_user_id"`
	PunchTime    string `json:"punch_time"` // RFC 3339, organization-local wall time
}

func (r *SyncRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DeviceUserID) {
		errs = append(errs, validator.ValidationError{Field: "device_user_id", Message: "is required"})
	}
	if _, err := time.Parse(time.RFC3339, r.PunchTime); err != nil {
		errs = append(errs, validator.ValidationError{Field: "punch_time", Message: "must be an RFC 3339 timestamp"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayResponse struct {
	EmployeeID     string   `json:"employee_id"`
	Date           string   `json:"date"`
	FirstIn        *string  `json:"first_in,omitempty"`
	LastOut        *string  `json:"last_out,omitempty"`
	WorkingHours   float64  `json:"working_hours"`
	TotalPunches   int      `json:"total_punches"`
	LateArrival    int      `json:"late_arrival"`
	EarlyDeparture int      `json:"early_departure"`
	Status         string   `json:"status"`
	Punches        []string `json:"punches,omitempty"`
}

type ReprocessStatsResponse struct {
	Processed int `json:"processed"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Errors    int `json:"errors"`
}
