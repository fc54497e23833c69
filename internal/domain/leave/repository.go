package leave

import (
	"context"
	"time"
)

// Repository reads approved leave for payroll day counting.
type Repository interface {
	// ListApprovedOverlapping returns approved entries whose span intersects
	// [from, to] for the employee.
	ListApprovedOverlapping(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Entry, error)
}
