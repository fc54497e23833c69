package employee

import (
	"context"
)

// Repository defines the read-side access this core needs on employee data.
// All methods include tenantID to prevent cross-tenant data access.
type Repository interface {
	// GetByID retrieves one employee, ErrEmployeeNotFound if absent.
	GetByID(ctx context.Context, tenantID, id string) (Employee, error)

	// FindByIdentifier resolves a device identifier to an employee. Every
	// candidate is matched against device_user_id, employee_code and
	// source_employee_id. ErrEmployeeNotFound when nothing matches.
	FindByIdentifier(ctx context.Context, tenantID string, candidates []string) (Employee, error)

	// ListActive returns active employees, optionally narrowed to ids.
	ListActive(ctx context.Context, tenantID string, ids []string) ([]Employee, error)

	// GetLocation and GetBranch back professional-tax state resolution.
	GetLocation(ctx context.Context, tenantID, id string) (Location, error)
	GetBranch(ctx context.Context, tenantID, id string) (Branch, error)
}
