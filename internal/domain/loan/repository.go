package loan

import (
	"context"
	"time"
)

// Repository reads loan state for payroll deduction computation. Balances are
// never written through this interface.
type Repository interface {
	// ListActiveByEmployee returns ACTIVE loans with start_date on or before
	// onOrBefore.
	ListActiveByEmployee(ctx context.Context, tenantID, employeeID string, onOrBefore time.Time) ([]Loan, error)
}
