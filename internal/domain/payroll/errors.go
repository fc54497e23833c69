package payroll

import "errors"

var (
	ErrPayrollNotFound        = errors.New("payroll record not found")
	ErrTDSDeclarationNotFound = errors.New("tds declaration not found")
	ErrInvalidPeriod          = errors.New("invalid payroll period")
)
