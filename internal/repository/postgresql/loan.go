package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/vetanhq/payroll-backend-go/internal/domain/loan"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
)

type loanRepository struct {
	db *database.DB
}

// ListActiveByEmployee implements loan.Repository.
func (r *loanRepository) ListActiveByEmployee(ctx context.Context, tenantID, employeeID string, onOrBefore time.Time) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id, principal, monthly_deduction, balance_amount,
			   start_date, status, created_at, updated_at
		FROM loans
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND status = 'ACTIVE'
		  AND start_date <= $3
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeID, onOrBefore)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.TenantID, &l.EmployeeID, &l.Principal, &l.MonthlyDeduction, &l.BalanceAmount,
			&l.StartDate, &l.Status, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate loans: %w", err)
	}

	return loans, nil
}

func NewLoanRepository(db *database.DB) loan.Repository {
	return &loanRepository{db: db}
}
