package leave

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Entry is an approved-or-pending leave span. The core only ever reads
// approved entries overlapping a payroll month; leave management is external.
type Entry struct {
	ID         string
	TenantID   string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	Status     Status
	IsPaid     bool
	CreatedAt  time.Time
}
