package response

import (
	"errors"
	"net/http"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/validator"
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
	// Period errors
	case errors.Is(err, payroll.ErrBadPeriod):
		BadRequest(w, "BAD_PERIOD", err.Error())
	case errors.Is(err, payroll.ErrPeriodMismatch):
		BadRequest(w, "PERIOD_MISMATCH", err.Error())
	case errors.Is(err, payroll.ErrInvalidPaymentState):
		BadRequest(w, "BAD_REQUEST", err.Error())

	// Not-found errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrSheetEntryNotFound):
		NotFound(w, "Payroll sheet entry not found")
	case errors.Is(err, payroll.ErrAdvanceNotFound):
		NotFound(w, "Advance deduction not found")

	// Conflicts
	case errors.Is(err, payroll.ErrSheetPeriodFinalized):
		Conflict(w, "Sheet period has paid payouts and cannot be modified")

	// Default: transient store failures and anything unexpected
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
