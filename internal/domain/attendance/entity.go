package attendance

import (
	"time"
)

// Status is the derived state of an employee's work day. The aggregator only
// ever writes present, half_day and shift_incomplete; the remaining values are
// written by upstream roster tools and consumed during payroll day counting.
type Status string

const (
	StatusPresent         Status = "present"
	StatusHalfDay         Status = "half_day"
	StatusShiftIncomplete Status = "shift_incomplete"
	StatusAbsent          Status = "absent"
	StatusWeeklyOff       Status = "weekly_off"
	StatusHoliday         Status = "holiday"
	StatusLeavePaid       Status = "leave_paid"
)

// Day is one employee's attendance for one logical work date.
// Unique per (employee, date, tenant); only ever upserted, never duplicated.
type Day struct {
	ID             string
	TenantID       string
	EmployeeID     string
	Date           time.Time // day marker, UTC midnight, no time component
	FirstIn        *time.Time
	LastOut        *time.Time
	WorkingHours   float64 // hours, 2-decimal precision
	TotalPunches   int
	LateArrival    int // minutes
	EarlyDeparture int // minutes
	Status         Status
	Logs           string // JSON array of punch timestamps, chronological
	ShiftStart     *time.Time
	ShiftEnd       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
