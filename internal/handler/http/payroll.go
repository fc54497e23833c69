package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/vetanhq/payroll-backend-go/internal/domain/payroll"
	"github.com/vetanhq/payroll-backend-go/internal/handler/http/middleware"
	"github.com/vetanhq/payroll-backend-go/internal/handler/http/response"
	"github.com/vetanhq/payroll-backend-go/internal/pkg/compliance"
	payrollService "github.com/vetanhq/payroll-backend-go/internal/service/payroll"
)

type PayrollHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ProfessionalTax(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	service payrollService.Service
}

func NewPayrollHandler(service payrollService.Service) PayrollHandler {
	return &payrollHandlerImpl{service: service}
}

// Generate implements PayrollHandler.
func (h *payrollHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req payroll.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	summary, err := h.service.RunPayroll(r.Context(), middleware.TenantID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll run completed", summary)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'month' must be a number", nil)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'year' must be a number", nil)
		return
	}

	tenantID := middleware.TenantID(r.Context())

	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		record, err := h.service.GetPayroll(r.Context(), tenantID, employeeID, month, year)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, record)
		return
	}

	records, err := h.service.ListPayrolls(r.Context(), tenantID, month, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// ProfessionalTax implements PayrollHandler. It exposes the slab lookup
// directly so payroll admins can sanity check a state's deduction.
func (h *payrollHandlerImpl) ProfessionalTax(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		response.BadRequest(w, "Query parameter 'state' is required", nil)
		return
	}

	gross, err := decimal.NewFromString(r.URL.Query().Get("gross"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'gross' must be a number", nil)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		response.BadRequest(w, "Query parameter 'month' must be between 1 and 12", nil)
		return
	}

	amount := compliance.AmountFor(state, gross, month)
	response.Success(w, map[string]interface{}{
		"state":  compliance.NormalizeState(state),
		"gross":  gross,
		"month":  month,
		"amount": amount,
	})
}
