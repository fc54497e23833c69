package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentCode is the canonical identity of a salary line item. Components
// are resolved to one of these codes at ingestion; downstream consumers never
// match on display names or alternate spellings.
type ComponentCode string

const (
	CodeBasic      ComponentCode = "BASIC"
	CodeHRA        ComponentCode = "HRA"
	CodeAllowance  ComponentCode = "ALLOWANCE"
	CodeOvertime   ComponentCode = "OVERTIME"
	CodePFEmployee ComponentCode = "PF_EMP"
	CodePFEmployer ComponentCode = "PF_ER"
	CodeESIEmployee ComponentCode = "ESI_EMP"
	CodeESIEmployer ComponentCode = "ESI_ER"
	CodePT         ComponentCode = "PT"
	CodeLoan       ComponentCode = "LOAN"
	CodeTDS        ComponentCode = "TDS"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "EARNING"
	ComponentTypeDeduction ComponentType = "DEDUCTION"
	// Employer-side statutory shares; reported on the payslip but never
	// subtracted from net.
	ComponentTypeContribution ComponentType = "CONTRIBUTION"
)

// SalaryComponent is a master-data line item definition.
type SalaryComponent struct {
	ID   string
	Code ComponentCode
	Name string
	Type ComponentType
}

// StandardComponents is the built-in component catalog. Tenant master data may
// add earning components on top, but every statutory line resolves here.
var StandardComponents = []SalaryComponent{
	{Code: CodeBasic, Name: "Basic Salary", Type: ComponentTypeEarning},
	{Code: CodeHRA, Name: "House Rent Allowance", Type: ComponentTypeEarning},
	{Code: CodeAllowance, Name: "Other Allowances", Type: ComponentTypeEarning},
	{Code: CodeOvertime, Name: "Overtime", Type: ComponentTypeEarning},
	{Code: CodePFEmployee, Name: "Provident Fund", Type: ComponentTypeDeduction},
	{Code: CodeESIEmployee, Name: "Employee State Insurance", Type: ComponentTypeDeduction},
	{Code: CodePT, Name: "Professional Tax", Type: ComponentTypeDeduction},
	{Code: CodeLoan, Name: "Loan Recovery", Type: ComponentTypeDeduction},
	{Code: CodeTDS, Name: "Income Tax (TDS)", Type: ComponentTypeDeduction},
	{Code: CodePFEmployer, Name: "Provident Fund (Employer)", Type: ComponentTypeContribution},
	{Code: CodeESIEmployer, Name: "Employee State Insurance (Employer)", Type: ComponentTypeContribution},
}

// EmployeeSalaryComponent assigns a component amount to one employee.
type EmployeeSalaryComponent struct {
	ID            string
	EmployeeID    string
	ComponentID   string
	MonthlyAmount decimal.Decimal
	IsActive      bool

	// Joined fields
	Code ComponentCode
	Type ComponentType
}

type Status string

const (
	StatusGenerated Status = "generated"
	StatusFinalized Status = "finalized"
)

// Payroll is one employee's computed salary for one period. One record per
// (employee, month, year, tenant); a reprocess replaces it wholesale. Net is
// always recomputed as gross minus total deductions, never hand-edited.
type Payroll struct {
	ID           string
	TenantID     string
	EmployeeID   string
	Month        int
	Year         int
	PayrollRunID *string

	TotalWorkingDays  int
	ActualPresentDays float64
	LOPDays           float64
	PaidDays          float64

	BasicPaid      decimal.Decimal
	HRAPaid        decimal.Decimal
	AllowancesPaid decimal.Decimal
	OTHours        float64
	OTPay          decimal.Decimal
	GrossSalary    decimal.Decimal

	PFDeduction     decimal.Decimal
	ESIDeduction    decimal.Decimal
	PTDeduction     decimal.Decimal
	LoanDeduction   decimal.Decimal
	TDSDeduction    decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal

	// Employer shares, reported but not subtracted from net
	EmployerPF  decimal.Decimal
	EmployerESI decimal.Decimal

	Status Status

	// Set when the engine assumed a full present month because no attendance
	// rows existed for the period; callers should treat the record as suspect
	// until attendance data is repaired.
	AssumedFullMonth bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Lines itemizes the record against the standard catalog, one line per
// non-zero amount, in catalog order. Earnings sum to gross, deductions to
// total deductions; contributions sit outside both.
func (p Payroll) Lines() []PayslipLine {
	amounts := map[ComponentCode]decimal.Decimal{
		CodeBasic:       p.BasicPaid,
		CodeHRA:         p.HRAPaid,
		CodeAllowance:   p.AllowancesPaid,
		CodeOvertime:    p.OTPay,
		CodePFEmployee:  p.PFDeduction,
		CodeESIEmployee: p.ESIDeduction,
		CodePT:          p.PTDeduction,
		CodeLoan:        p.LoanDeduction,
		CodeTDS:         p.TDSDeduction,
		CodePFEmployer:  p.EmployerPF,
		CodeESIEmployer: p.EmployerESI,
	}

	var lines []PayslipLine
	for _, c := range StandardComponents {
		amount := amounts[c.Code]
		if amount.IsZero() {
			continue
		}
		lines = append(lines, PayslipLine{Code: c.Code, Name: c.Name, Type: c.Type, Amount: amount})
	}
	return lines
}

// LoanDeductionRow is a child row linking a payroll record to the loan it
// deducted from. Rows are deleted and recreated on every recalculation.
type LoanDeductionRow struct {
	ID        string
	PayrollID string
	LoanID    string
	Amount    decimal.Decimal
}

type TaxRegime string

const (
	RegimeOld TaxRegime = "OLD"
	RegimeNew TaxRegime = "NEW"
)

// TDSDeclaration holds an employee's annual tax-saving declarations.
type TDSDeclaration struct {
	ID         string
	TenantID   string
	EmployeeID string

	// Section 80C
	PPF               decimal.Decimal
	ELSS              decimal.Decimal
	LifeInsurance     decimal.Decimal
	HomeLoanPrincipal decimal.Decimal
	TuitionFees       decimal.Decimal
	NSC               decimal.Decimal

	// Other sections
	Section80D decimal.Decimal // health insurance
	Section80E decimal.Decimal // education loan interest
	Section80G decimal.Decimal // donations
	Section24  decimal.Decimal // home loan interest

	RentPaid decimal.Decimal

	TaxRegime TaxRegime
}
