package attendance

import (
	"context"
	"time"
)

// Repository defines data access methods for attendance days.
// All methods include tenantID to prevent cross-tenant data access.
type Repository interface {
	// Upsert inserts or replaces the day keyed by (employee_id, date, tenant_id).
	// It returns whether a new row was created.
	Upsert(ctx context.Context, day Day) (created bool, err error)

	// GetByEmployeeAndDate retrieves one attendance day, ErrDayNotFound if absent.
	GetByEmployeeAndDate(ctx context.Context, tenantID, employeeID string, date time.Time) (Day, error)

	// ListByEmployeeRange retrieves the employee's days with date in [from, to],
	// ordered by date.
	ListByEmployeeRange(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Day, error)
}
