package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/vetanhq/payroll-backend-go/internal/domain/leave"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

// ListApprovedOverlapping implements leave.Repository.
func (r *leaveRepository) ListApprovedOverlapping(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]leave.Entry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id, start_date, end_date, status, is_paid, created_at
		FROM leave_entries
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND status = 'approved'
		  AND start_date <= $4
		  AND end_date >= $3
		ORDER BY start_date ASC
	`

	rows, err := q.Query(ctx, query, tenantID, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave: %w", err)
	}
	defer rows.Close()

	var entries []leave.Entry
	for rows.Next() {
		var e leave.Entry
		err := rows.Scan(&e.ID, &e.TenantID, &e.EmployeeID, &e.StartDate, &e.EndDate, &e.Status, &e.IsPaid, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave entries: %w", err)
	}

	return entries, nil
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepository{db: db}
}
