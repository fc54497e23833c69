package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vetanhq/payroll-backend-go/internal/domain/employee"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

const employeeColumns = `
	id, tenant_id, employee_code, first_name, last_name,
	device_user_id, source_employee_id, is_active,
	basic_salary, hra, total_allowances,
	is_pf_enabled, is_esi_enabled, is_pt_enabled, is_ot_enabled,
	ot_rate_multiplier, location_id, branch_id,
	hire_date, created_at, updated_at
`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.TenantID, &e.EmployeeCode, &e.FirstName, &e.LastName,
		&e.DeviceUserID, &e.SourceEmployeeID, &e.IsActive,
		&e.BasicSalary, &e.HRA, &e.TotalAllowances,
		&e.IsPFEnabled, &e.IsESIEnabled, &e.IsPTEnabled, &e.IsOTEnabled,
		&e.OTRateMultiplier, &e.LocationID, &e.BranchID,
		&e.HireDate, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements employee.Repository.
func (r *employeeRepository) GetByID(ctx context.Context, tenantID, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE tenant_id = $1 AND id = $2
		LIMIT 1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

// FindByIdentifier implements employee.Repository.
func (r *employeeRepository) FindByIdentifier(ctx context.Context, tenantID string, candidates []string) (employee.Employee, error) {
	if len(candidates) == 0 {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE tenant_id = $1
		  AND is_active = TRUE
		  AND (device_user_id = ANY($2) OR employee_code = ANY($2) OR source_employee_id = ANY($2))
		LIMIT 1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, tenantID, candidates))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to find employee by identifier: %w", err)
	}

	return e, nil
}

// ListActive implements employee.Repository.
func (r *employeeRepository) ListActive(ctx context.Context, tenantID string, ids []string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE tenant_id = $1
		  AND is_active = TRUE
	`
	args := []any{tenantID}

	if len(ids) > 0 {
		query += ` AND id = ANY($2)`
		args = append(args, ids)
	}
	query += ` ORDER BY employee_code ASC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetLocation implements employee.Repository.
func (r *employeeRepository) GetLocation(ctx context.Context, tenantID, id string) (employee.Location, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, state, city
		FROM locations
		WHERE tenant_id = $1 AND id = $2
		LIMIT 1
	`

	var loc employee.Location
	err := q.QueryRow(ctx, query, tenantID, id).Scan(&loc.ID, &loc.Name, &loc.State, &loc.City)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Location{}, employee.ErrLocationNotFound
		}
		return employee.Location{}, fmt.Errorf("failed to get location: %w", err)
	}

	return loc, nil
}

// GetBranch implements employee.Repository.
func (r *employeeRepository) GetBranch(ctx context.Context, tenantID, id string) (employee.Branch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, location_id
		FROM branches
		WHERE tenant_id = $1 AND id = $2
		LIMIT 1
	`

	var b employee.Branch
	err := q.QueryRow(ctx, query, tenantID, id).Scan(&b.ID, &b.Name, &b.LocationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Branch{}, employee.ErrBranchNotFound
		}
		return employee.Branch{}, fmt.Errorf("failed to get branch: %w", err)
	}

	return b, nil
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}
