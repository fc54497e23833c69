package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/vetanhq/payroll-backend-go/internal/pkg/validator"
)

type GenerateRequest struct {
	Month       int      `json:"month"`
	Year        int      `json:"year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty = all active employees
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidMonth(r.Month) {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if !validator.IsValidYear(r.Year) {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a plausible calendar year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Metrics is the headline arithmetic of one calculation.
type Metrics struct {
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`
}

// Result is the structured outcome of one employee's calculation. Internal
// failures surface here as Error with Success false; the run loop never stops
// on a single employee.
type Result struct {
	EmployeeID       string   `json:"employee_id"`
	Success          bool     `json:"success"`
	Payroll          *Payroll `json:"payroll,omitempty"`
	Error            string   `json:"error,omitempty"`
	Metrics          *Metrics `json:"metrics,omitempty"`
	AssumedFullMonth bool     `json:"assumed_full_month,omitempty"`
}

// RunSummary aggregates a whole payroll run.
type RunSummary struct {
	RunID     string   `json:"run_id"`
	Month     int      `json:"month"`
	Year      int      `json:"year"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Results   []Result `json:"results"`
}

type RecordResponse struct {
	EmployeeID        string  `json:"employee_id"`
	Month             int     `json:"month"`
	Year              int     `json:"year"`
	TotalWorkingDays  int     `json:"total_working_days"`
	ActualPresentDays float64 `json:"actual_present_days"`
	LOPDays           float64 `json:"lop_days"`
	PaidDays          float64 `json:"paid_days"`

	BasicPaid      decimal.Decimal `json:"basic_paid"`
	HRAPaid        decimal.Decimal `json:"hra_paid"`
	AllowancesPaid decimal.Decimal `json:"allowances_paid"`
	OTHours        float64         `json:"ot_hours"`
	OTPay          decimal.Decimal `json:"ot_pay"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`

	PFDeduction     decimal.Decimal `json:"pf_deduction"`
	ESIDeduction    decimal.Decimal `json:"esi_deduction"`
	PTDeduction     decimal.Decimal `json:"pt_deduction"`
	LoanDeduction   decimal.Decimal `json:"loan_deduction"`
	TDSDeduction    decimal.Decimal `json:"tds_deduction"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetSalary       decimal.Decimal `json:"net_salary"`

	EmployerPF  decimal.Decimal `json:"employer_pf"`
	EmployerESI decimal.Decimal `json:"employer_esi"`

	Status           string `json:"status"`
	AssumedFullMonth bool   `json:"assumed_full_month"`

	Lines []PayslipLine `json:"lines"`
}

// PayslipLine is one itemized payslip row.
type PayslipLine struct {
	Code   ComponentCode   `json:"code"`
	Name   string          `json:"name"`
	Type   ComponentType   `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}
