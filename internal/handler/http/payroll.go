package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Reports
	MonthlyReport(w http.ResponseWriter, r *http.Request)
	RangeReport(w http.ResponseWriter, r *http.Request)

	// Sheets
	ListSheetEntries(w http.ResponseWriter, r *http.Request)
	UpsertSheetEntries(w http.ResponseWriter, r *http.Request)
	DeleteSheetEntry(w http.ResponseWriter, r *http.Request)

	// Advances
	ListAdvances(w http.ResponseWriter, r *http.Request)
	UpsertAdvance(w http.ResponseWriter, r *http.Request)

	// Payment status
	UpsertPaymentStatus(w http.ResponseWriter, r *http.Request)
	ClearanceReport(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== REPORTS ==========

func (h *payrollHandlerImpl) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "BAD_PERIOD", "month query parameter is required")
		return
	}

	result, err := h.payrollService.MonthlyReport(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RangeReport(w http.ResponseWriter, r *http.Request) {
	fromDate := r.URL.Query().Get("from_date")
	toDate := r.URL.Query().Get("to_date")
	month := r.URL.Query().Get("month")
	if fromDate == "" || toDate == "" {
		response.BadRequest(w, "BAD_PERIOD", "from_date and to_date query parameters are required")
		return
	}

	result, err := h.payrollService.RangeReport(r.Context(), fromDate, toDate, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SHEETS ==========

func (h *payrollHandlerImpl) ListSheetEntries(w http.ResponseWriter, r *http.Request) {
	fromDate := r.URL.Query().Get("from_date")
	toDate := r.URL.Query().Get("to_date")
	if fromDate == "" || toDate == "" {
		response.BadRequest(w, "BAD_PERIOD", "from_date and to_date query parameters are required")
		return
	}

	result, err := h.payrollService.ListSheetEntries(r.Context(), fromDate, toDate)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpsertSheetEntries(w http.ResponseWriter, r *http.Request) {
	var req payroll.SheetBulkUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "BAD_REQUEST", "Invalid request body")
		return
	}

	result, err := h.payrollService.UpsertSheetEntries(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll sheet entries saved", result)
}

func (h *payrollHandlerImpl) DeleteSheetEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "BAD_REQUEST", "Sheet entry ID is required")
		return
	}

	if err := h.payrollService.DeleteSheetEntry(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll sheet entry deleted", nil)
}

// ========== ADVANCES ==========

func (h *payrollHandlerImpl) ListAdvances(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "BAD_PERIOD", "month query parameter is required")
		return
	}

	result, err := h.payrollService.ListAdvances(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpsertAdvance(w http.ResponseWriter, r *http.Request) {
	var req payroll.AdvanceUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "BAD_REQUEST", "Invalid request body")
		return
	}

	result, err := h.payrollService.UpsertAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYMENT STATUS ==========

func (h *payrollHandlerImpl) UpsertPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req payroll.PaymentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "BAD_REQUEST", "Invalid request body")
		return
	}

	result, err := h.payrollService.SetPaymentStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ClearanceReport(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		response.BadRequest(w, "BAD_PERIOD", "month query parameter is required")
		return
	}

	result, err := h.payrollService.ClearanceReport(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
