package payroll

import "context"

// Repository defines data access for payroll records and their child rows.
// All methods include tenantID to prevent cross-tenant data access.
type Repository interface {
	// Upsert inserts or replaces the record keyed by
	// (employee_id, month, year, tenant_id) and returns the stored row.
	Upsert(ctx context.Context, p Payroll) (Payroll, error)

	// GetByEmployeePeriod retrieves one record, ErrPayrollNotFound if absent.
	GetByEmployeePeriod(ctx context.Context, tenantID, employeeID string, month, year int) (Payroll, error)

	// ListByPeriod returns every record for the period.
	ListByPeriod(ctx context.Context, tenantID string, month, year int) ([]Payroll, error)

	// ReplaceLoanDeductions deletes all loan-deduction rows linked to the
	// payroll and recreates them from rows. Runs inside the caller's
	// transaction when one is carried in ctx.
	ReplaceLoanDeductions(ctx context.Context, payrollID string, rows []LoanDeductionRow) error

	// GetEmployeeComponents returns the employee's component assignments,
	// joined with code and type.
	GetEmployeeComponents(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]EmployeeSalaryComponent, error)

	// GetTDSDeclaration retrieves the employee's declaration,
	// ErrTDSDeclarationNotFound if none was filed.
	GetTDSDeclaration(ctx context.Context, tenantID, employeeID string) (TDSDeclaration, error)
}
