package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vetanhq/payroll-backend-go/internal/domain/attendance"
	"github.com/vetanhq/payroll-backend-go/internal/handler/http/middleware"
	"github.com/vetanhq/payroll-backend-go/internal/handler/http/response"
	attendanceService "github.com/vetanhq/payroll-backend-go/internal/service/attendance"
)

type AttendanceHandler interface {
	Reprocess(w http.ResponseWriter, r *http.Request)
	Sync(w http.ResponseWriter, r *http.Request)
	InvalidateCache(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	service attendanceService.Service
}

func NewAttendanceHandler(service attendanceService.Service) AttendanceHandler {
	return &attendanceHandlerImpl{service: service}
}

// Reprocess implements AttendanceHandler.
func (h *attendanceHandlerImpl) Reprocess(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReprocessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	stats, err := h.service.ReprocessRange(r.Context(), middleware.TenantID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance reprocessed", stats)
}

// Sync implements AttendanceHandler.
func (h *attendanceHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	var req attendance.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	day, err := h.service.SyncRealtime(r.Context(), middleware.TenantID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, day)
}

// InvalidateCache implements AttendanceHandler.
func (h *attendanceHandlerImpl) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.service.InvalidateCache(middleware.TenantID(r.Context()))
	response.SuccessWithMessage(w, "Identity cache invalidated", nil)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "Query parameter 'employee_id' is required", nil)
		return
	}

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'from' must be a date in YYYY-MM-DD form", nil)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		response.BadRequest(w, "Query parameter 'to' must be a date in YYYY-MM-DD form", nil)
		return
	}

	days, err := h.service.ListDays(r.Context(), middleware.TenantID(r.Context()), employeeID, from, to)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, days)
}
