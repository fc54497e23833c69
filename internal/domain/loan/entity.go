package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Loan is an employee advance repaid through payroll. The payroll engine only
// reads balances; amortization (decrementing BalanceAmount) happens in an
// external finalize step so the same period can be recalculated safely.
type Loan struct {
	ID               string
	TenantID         string
	EmployeeID       string
	Principal        decimal.Decimal
	MonthlyDeduction decimal.Decimal
	BalanceAmount    decimal.Decimal
	StartDate        time.Time
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
