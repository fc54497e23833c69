package response

import (
	"errors"
	"net/http"

	"github.com/vetanhq/payroll-backend-go/internal/domain/attendance"
	"github.com/vetanhq/payroll-backend-go/internal/domain/employee"
	"github.com/vetanhq/payroll-backend-go/internal/domain/payroll"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance day not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrLocationNotFound):
		NotFound(w, "Location not found")
	case errors.Is(err, employee.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrTDSDeclarationNotFound):
		NotFound(w, "TDS declaration not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
