package compliance

import (
	"github.com/shopspring/decimal"
)

// Income-tax withholding is projected annually and withheld in twelve equal
// monthly parts. Both regimes are pure functions of the salary breakup and the
// employee's declaration; no state is carried between calls.

type Regime string

const (
	RegimeOld Regime = "OLD"
	RegimeNew Regime = "NEW"
)

// SalaryBreakup is the annualized earning structure the projection runs on.
type SalaryBreakup struct {
	BasicAnnual      decimal.Decimal
	HRAAnnual        decimal.Decimal
	AllowancesAnnual decimal.Decimal
	OtherEarnings    decimal.Decimal
}

// Declaration carries the annual tax-saving amounts an employee declared.
type Declaration struct {
	// Section 80C
	PPF               decimal.Decimal
	ELSS              decimal.Decimal
	LifeInsurance     decimal.Decimal
	HomeLoanPrincipal decimal.Decimal
	TuitionFees       decimal.Decimal
	NSC               decimal.Decimal

	Section80D decimal.Decimal // health insurance
	Section80E decimal.Decimal // education loan interest
	Section80G decimal.Decimal // donations
	Section24  decimal.Decimal // home loan interest

	RentPaid decimal.Decimal

	Regime Regime
}

const (
	newRegimeStandardDeduction = 75000
	oldRegimeStandardDeduction = 50000

	section80CCap = 150000
	section80DCap = 25000
	section24Cap  = 200000

	rebateIncomeThreshold = 500000
	rebateCap             = 12500
)

// cessRate is the 4% health and education cess applied to the bracket result.
var cessRate = decimal.NewFromFloat(1.04)

type taxBracket struct {
	upTo int64 // noCap when unbounded
	rate decimal.Decimal
}

var newRegimeBrackets = []taxBracket{
	{upTo: 300000, rate: decimal.Zero},
	{upTo: 700000, rate: decimal.NewFromFloat(0.05)},
	{upTo: 1000000, rate: decimal.NewFromFloat(0.10)},
	{upTo: 1200000, rate: decimal.NewFromFloat(0.15)},
	{upTo: 1500000, rate: decimal.NewFromFloat(0.20)},
	{upTo: noCap, rate: decimal.NewFromFloat(0.30)},
}

var oldRegimeBrackets = []taxBracket{
	{upTo: 250000, rate: decimal.Zero},
	{upTo: 500000, rate: decimal.NewFromFloat(0.05)},
	{upTo: 1000000, rate: decimal.NewFromFloat(0.20)},
	{upTo: noCap, rate: decimal.NewFromFloat(0.30)},
}

// MonthlyWithholding is the rounded monthly TDS derived from the annual
// projection.
func MonthlyWithholding(breakup SalaryBreakup, decl Declaration) decimal.Decimal {
	return AnnualTax(breakup, decl).Div(decimal.NewFromInt(12)).Round(0)
}

// AnnualTax projects the annual income-tax liability under the declared
// regime.
func AnnualTax(breakup SalaryBreakup, decl Declaration) decimal.Decimal {
	gross := breakup.BasicAnnual.
		Add(breakup.HRAAnnual).
		Add(breakup.AllowancesAnnual).
		Add(breakup.OtherEarnings)

	if decl.Regime == RegimeNew {
		return newRegimeTax(gross)
	}
	return oldRegimeTax(gross, breakup, decl)
}

// newRegimeTax allows no deductions beyond the standard deduction.
func newRegimeTax(gross decimal.Decimal) decimal.Decimal {
	taxable := decimal.Max(decimal.Zero, gross.Sub(decimal.NewFromInt(newRegimeStandardDeduction)))
	tax := progressiveTax(taxable, newRegimeBrackets)
	return tax.Mul(cessRate).Round(0)
}

func oldRegimeTax(gross decimal.Decimal, breakup SalaryBreakup, decl Declaration) decimal.Decimal {
	taxable := gross.Sub(decimal.NewFromInt(oldRegimeStandardDeduction))
	taxable = taxable.Sub(hraExemption(breakup.BasicAnnual, breakup.HRAAnnual, decl.RentPaid))

	// Section 80C, capped combined
	section80C := decl.PPF.
		Add(decl.ELSS).
		Add(decl.LifeInsurance).
		Add(decl.HomeLoanPrincipal).
		Add(decl.TuitionFees).
		Add(decl.NSC)
	taxable = taxable.Sub(decimal.Min(decimal.NewFromInt(section80CCap), section80C))

	// Section 80D capped, 80E uncapped, 80G at half, section 24 capped
	taxable = taxable.Sub(decimal.Min(decimal.NewFromInt(section80DCap), decl.Section80D))
	taxable = taxable.Sub(decl.Section80E)
	taxable = taxable.Sub(decl.Section80G.Div(decimal.NewFromInt(2)))
	taxable = taxable.Sub(decimal.Min(decimal.NewFromInt(section24Cap), decl.Section24))

	taxable = decimal.Max(decimal.Zero, taxable)

	tax := progressiveTax(taxable, oldRegimeBrackets)

	// Section 87A rebate when taxable income stays under the threshold
	if taxable.Cmp(decimal.NewFromInt(rebateIncomeThreshold)) <= 0 {
		tax = decimal.Max(decimal.Zero, tax.Sub(decimal.NewFromInt(rebateCap)))
	}

	return tax.Mul(cessRate).Round(0)
}

// hraExemption is the minimum of actual HRA received, rent paid less 10% of
// basic (floored at zero) and 50% of basic. The metro limit is assumed for
// every employee.
func hraExemption(basicAnnual, hraAnnual, rentPaid decimal.Decimal) decimal.Decimal {
	if rentPaid.IsZero() {
		return decimal.Zero
	}

	rentMinusBasic := decimal.Max(decimal.Zero, rentPaid.Sub(basicAnnual.Mul(decimal.NewFromFloat(0.10))))
	metroLimit := basicAnnual.Mul(decimal.NewFromFloat(0.50))

	return decimal.Min(hraAnnual, decimal.Min(rentMinusBasic, metroLimit))
}

func progressiveTax(taxable decimal.Decimal, brackets []taxBracket) decimal.Decimal {
	tax := decimal.Zero
	prev := decimal.Zero

	for _, b := range brackets {
		var upper decimal.Decimal
		if b.upTo == noCap {
			upper = taxable
		} else {
			upper = decimal.Min(taxable, decimal.NewFromInt(b.upTo))
		}
		if upper.Cmp(prev) <= 0 {
			break
		}
		tax = tax.Add(upper.Sub(prev).Mul(b.rate))
		prev = upper
	}

	return tax
}
