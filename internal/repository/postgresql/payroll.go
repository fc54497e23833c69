package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vetanhq/payroll-backend-go/internal/domain/payroll"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/database"
)

type payrollRepository struct {
	db *database.DB
}

const payrollColumns = `
	id, tenant_id, employee_id, month, year, payroll_run_id,
	total_working_days, actual_present_days, lop_days, paid_days,
	basic_paid, hra_paid, allowances_paid, ot_hours, ot_pay, gross_salary,
	pf_deduction, esi_deduction, pt_deduction, loan_deduction, tds_deduction,
	total_deductions, net_salary, employer_pf, employer_esi,
	status, assumed_full_month, created_at, updated_at
`

func scanPayroll(row pgx.Row) (payroll.Payroll, error) {
	var p payroll.Payroll
	err := row.Scan(
		&p.ID, &p.TenantID, &p.EmployeeID, &p.Month, &p.Year, &p.PayrollRunID,
		&p.TotalWorkingDays, &p.ActualPresentDays, &p.LOPDays, &p.PaidDays,
		&p.BasicPaid, &p.HRAPaid, &p.AllowancesPaid, &p.OTHours, &p.OTPay, &p.GrossSalary,
		&p.PFDeduction, &p.ESIDeduction, &p.PTDeduction, &p.LoanDeduction, &p.TDSDeduction,
		&p.TotalDeductions, &p.NetSalary, &p.EmployerPF, &p.EmployerESI,
		&p.Status, &p.AssumedFullMonth, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Upsert implements payroll.Repository.
func (r *payrollRepository) Upsert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payrolls (
			tenant_id, employee_id, month, year, payroll_run_id,
			total_working_days, actual_present_days, lop_days, paid_days,
			basic_paid, hra_paid, allowances_paid, ot_hours, ot_pay, gross_salary,
			pf_deduction, esi_deduction, pt_deduction, loan_deduction, tds_deduction,
			total_deductions, net_salary, employer_pf, employer_esi,
			status, assumed_full_month
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
		ON CONFLICT (employee_id, month, year, tenant_id) DO UPDATE SET
			payroll_run_id = EXCLUDED.payroll_run_id,
			total_working_days = EXCLUDED.total_working_days,
			actual_present_days = EXCLUDED.actual_present_days,
			lop_days = EXCLUDED.lop_days,
			paid_days = EXCLUDED.paid_days,
			basic_paid = EXCLUDED.basic_paid,
			hra_paid = EXCLUDED.hra_paid,
			allowances_paid = EXCLUDED.allowances_paid,
			ot_hours = EXCLUDED.ot_hours,
			ot_pay = EXCLUDED.ot_pay,
			gross_salary = EXCLUDED.gross_salary,
			pf_deduction = EXCLUDED.pf_deduction,
			esi_deduction = EXCLUDED.esi_deduction,
			pt_deduction = EXCLUDED.pt_deduction,
			loan_deduction = EXCLUDED.loan_deduction,
			tds_deduction = EXCLUDED.tds_deduction,
			total_deductions = EXCLUDED.total_deductions,
			net_salary = EXCLUDED.net_salary,
			employer_pf = EXCLUDED.employer_pf,
			employer_esi = EXCLUDED.employer_esi,
			status = EXCLUDED.status,
			assumed_full_month = EXCLUDED.assumed_full_month,
			updated_at = NOW()
		RETURNING ` + payrollColumns

	stored, err := scanPayroll(q.QueryRow(ctx, query,
		p.TenantID, p.EmployeeID, p.Month, p.Year, p.PayrollRunID,
		p.TotalWorkingDays, p.ActualPresentDays, p.LOPDays, p.PaidDays,
		p.BasicPaid, p.HRAPaid, p.AllowancesPaid, p.OTHours, p.OTPay, p.GrossSalary,
		p.PFDeduction, p.ESIDeduction, p.PTDeduction, p.LoanDeduction, p.TDSDeduction,
		p.TotalDeductions, p.NetSalary, p.EmployerPF, p.EmployerESI,
		p.Status, p.AssumedFullMonth,
	))
	if err != nil {
		return payroll.Payroll{}, fmt.Errorf("failed to upsert payroll: %w", err)
	}

	return stored, nil
}

// GetByEmployeePeriod implements payroll.Repository.
func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, tenantID, employeeID string, month, year int) (payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE tenant_id = $1
		  AND employee_id = $2
		  AND month = $3
		  AND year = $4
		LIMIT 1
	`

	p, err := scanPayroll(q.QueryRow(ctx, query, tenantID, employeeID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payroll{}, payroll.ErrPayrollNotFound
		}
		return payroll.Payroll{}, fmt.Errorf("failed to get payroll: %w", err)
	}

	return p, nil
}

// ListByPeriod implements payroll.Repository.
func (r *payrollRepository) ListByPeriod(ctx context.Context, tenantID string, month, year int) ([]payroll.Payroll, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payrollColumns + `
		FROM payrolls
		WHERE tenant_id = $1
		  AND month = $2
		  AND year = $3
		ORDER BY employee_id ASC
	`

	rows, err := q.Query(ctx, query, tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payrolls: %w", err)
	}
	defer rows.Close()

	var payrolls []payroll.Payroll
	for rows.Next() {
		p, err := scanPayroll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll: %w", err)
		}
		payrolls = append(payrolls, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payrolls: %w", err)
	}

	return payrolls, nil
}

// ReplaceLoanDeductions implements payroll.Repository.
func (r *payrollRepository) ReplaceLoanDeductions(ctx context.Context, payrollID string, rows []payroll.LoanDeductionRow) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM loan_deductions WHERE payroll_id = $1`, payrollID); err != nil {
		return fmt.Errorf("failed to delete loan deductions: %w", err)
	}

	query := `
		INSERT INTO loan_deductions (payroll_id, loan_id, amount)
		VALUES ($1, $2, $3)
	`
	for _, row := range rows {
		if _, err := q.Exec(ctx, query, payrollID, row.LoanID, row.Amount); err != nil {
			return fmt.Errorf("failed to insert loan deduction: %w", err)
		}
	}

	return nil
}

// GetEmployeeComponents implements payroll.Repository.
func (r *payrollRepository) GetEmployeeComponents(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]payroll.EmployeeSalaryComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT esc.id, esc.employee_id, esc.component_id, esc.monthly_amount, esc.is_active,
			   sc.code, sc.type
		FROM employee_salary_components esc
		JOIN salary_components sc ON sc.id = esc.component_id
		WHERE esc.tenant_id = $1
		  AND esc.employee_id = $2
	`
	if activeOnly {
		query += ` AND esc.is_active = TRUE`
	}
	query += ` ORDER BY sc.code ASC`

	rows, err := q.Query(ctx, query, tenantID, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee salary components: %w", err)
	}
	defer rows.Close()

	var components []payroll.EmployeeSalaryComponent
	for rows.Next() {
		var c payroll.EmployeeSalaryComponent
		err := rows.Scan(&c.ID, &c.EmployeeID, &c.ComponentID, &c.MonthlyAmount, &c.IsActive, &c.Code, &c.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee salary component: %w", err)
		}
		components = append(components, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee salary components: %w", err)
	}

	return components, nil
}

// GetTDSDeclaration implements payroll.Repository.
func (r *payrollRepository) GetTDSDeclaration(ctx context.Context, tenantID, employeeID string) (payroll.TDSDeclaration, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, tenant_id, employee_id,
			   ppf, elss, life_insurance, home_loan_principal, tuition_fees, nsc,
			   section_80d, section_80e, section_80g, section_24,
			   rent_paid, tax_regime
		FROM tds_declarations
		WHERE tenant_id = $1
		  AND employee_id = $2
		LIMIT 1
	`

	var d payroll.TDSDeclaration
	err := q.QueryRow(ctx, query, tenantID, employeeID).Scan(
		&d.ID, &d.TenantID, &d.EmployeeID,
		&d.PPF, &d.ELSS, &d.LifeInsurance, &d.HomeLoanPrincipal, &d.TuitionFees, &d.NSC,
		&d.Section80D, &d.Section80E, &d.Section80G, &d.Section24,
		&d.RentPaid, &d.TaxRegime,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.TDSDeclaration{}, payroll.ErrTDSDeclarationNotFound
		}
		return payroll.TDSDeclaration{}, fmt.Errorf("failed to get tds declaration: %w", err)
	}

	return d, nil
}

func NewPayrollRepository(db *database.DB) payroll.Repository {
	return &payrollRepository{db: db}
}
