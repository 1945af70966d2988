package payroll

import (
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== REPORT DTOs ==========

// PayrollRow is the per-employee report row. Money fields are rounded to two
// decimals when the row is shaped; intermediate math keeps full precision.
type PayrollRow struct {
	EmployeeID    string `json:"employee_id"`
	EmployeeCode  string `json:"employee_code"`
	Name          string `json:"name"`
	SerialNo      string `json:"serial_no"`
	FSSNo         string `json:"fss_no"`
	EOBINo        string `json:"eobi_no"`
	CNIC          string `json:"cnic"`
	Mobile        string `json:"mobile"`
	BankName      string `json:"bank_name"`
	BankAccountNo string `json:"bank_account_no"`

	WorkingDays int             `json:"working_days"`
	DayRate     decimal.Decimal `json:"day_rate"`

	PresentDays     int `json:"present_days"`
	LateDays        int `json:"late_days"`
	AbsentDays      int `json:"absent_days"`
	PaidLeaveDays   int `json:"paid_leave_days"`
	UnpaidLeaveDays int `json:"unpaid_leave_days"`
	PresentsTotal   int `json:"presents_total"`
	OTDays          int `json:"ot_days"`
	OvertimeMinutes int `json:"overtime_minutes"`
	LateMinutes     int `json:"late_minutes"`

	PreDays             *int            `json:"pre_days"`
	CurDays             int             `json:"cur_days"`
	LeaveEncashmentDays int             `json:"leave_encashment_days"`
	AllowOther          decimal.Decimal `json:"allow_other"`
	EOBI                decimal.Decimal `json:"eobi"`
	Tax                 decimal.Decimal `json:"tax"`
	FineAdvExtra        decimal.Decimal `json:"fine_adv_extra"`
	Remarks             string          `json:"remarks"`
	BankCash            string          `json:"bank_cash"`

	TotalDays        int             `json:"total_days"`
	TotalSalary      decimal.Decimal `json:"total_salary"`
	OvertimeRate     decimal.Decimal `json:"overtime_rate"`
	OvertimePay      decimal.Decimal `json:"overtime_pay"`
	LateDeduction    decimal.Decimal `json:"late_deduction"`
	FineDeduction    decimal.Decimal `json:"fine_deduction"`
	FineAdv          decimal.Decimal `json:"fine_adv"`
	AdvanceDeduction decimal.Decimal `json:"advance_deduction"`
	GrossPay         decimal.Decimal `json:"gross_pay"`
	NetPay           decimal.Decimal `json:"net_pay"`

	PaidStatus string `json:"paid_status"`
}

type ReportSummary struct {
	Month         string          `json:"month"`
	WorkingDays   int             `json:"working_days"`
	Employees     int             `json:"employees"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	TotalNet      decimal.Decimal `json:"total_net"`
	TotalPresents int             `json:"total_presents"`
}

type ReportResponse struct {
	Month   string        `json:"month"`
	Summary ReportSummary `json:"summary"`
	Rows    []PayrollRow  `json:"rows"`
}

// ========== SHEET DTOs ==========

type SheetEntryInput struct {
	EmployeeID          string           `json:"employee_id"`
	FromDate            string           `json:"from_date"`
	ToDate              string           `json:"to_date"`
	PreDays             *int             `json:"pre_days,omitempty"`
	CurDays             *int             `json:"cur_days,omitempty"`
	LeaveEncashmentDays int              `json:"leave_encashment_days"`
	AllowOther          decimal.Decimal  `json:"allow_other"`
	EOBI                decimal.Decimal  `json:"eobi"`
	Tax                 decimal.Decimal  `json:"tax"`
	FineAdvExtra        decimal.Decimal  `json:"fine_adv_extra"`
	OTRateOverride      decimal.Decimal  `json:"ot_rate"`
	OTBonusAmount       decimal.Decimal  `json:"ot_bonus_amount"`
	Remarks             *string          `json:"remarks,omitempty"`
	BankCash            *string          `json:"bank_cash,omitempty"`

	// Optional editor fields synced back onto the employee record.
	Mobile        *string `json:"mobile,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
	BankAccountNo *string `json:"bank_account_no,omitempty"`
}

type SheetBulkUpsertRequest struct {
	FromDate string            `json:"from_date"`
	ToDate   string            `json:"to_date"`
	Entries  []SheetEntryInput `json:"entries"`
}

func (r *SheetBulkUpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	from, okFrom := validator.IsValidDate(r.FromDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be YYYY-MM-DD"})
	}
	to, okTo := validator.IsValidDate(r.ToDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be YYYY-MM-DD"})
	}
	if okFrom && okTo && from.After(to) {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must not be after to_date"})
	}
	if len(r.Entries) == 0 {
		errs = append(errs, validator.ValidationError{Field: "entries", Message: "must not be empty"})
	}
	for _, e := range r.Entries {
		if validator.IsEmpty(e.EmployeeID) {
			errs = append(errs, validator.ValidationError{Field: "entries.employee_id", Message: "is required"})
			break
		}
	}
	for _, e := range r.Entries {
		if e.Mobile != nil && !validator.IsValidMobile(*e.Mobile) {
			errs = append(errs, validator.ValidationError{Field: "entries.mobile", Message: "must be a valid mobile number"})
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SheetEntryResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	FromDate            string          `json:"from_date"`
	ToDate              string          `json:"to_date"`
	PreDays             *int            `json:"pre_days"`
	CurDays             *int            `json:"cur_days"`
	LeaveEncashmentDays int             `json:"leave_encashment_days"`
	AllowOther          decimal.Decimal `json:"allow_other"`
	EOBI                decimal.Decimal `json:"eobi"`
	Tax                 decimal.Decimal `json:"tax"`
	FineAdvExtra        decimal.Decimal `json:"fine_adv_extra"`
	OTRateOverride      decimal.Decimal `json:"ot_rate"`
	OTBonusAmount       decimal.Decimal `json:"ot_bonus_amount"`
	Remarks             *string         `json:"remarks"`
	BankCash            *string         `json:"bank_cash"`
}

// ========== ADVANCE DTOs ==========

type AdvanceUpsertRequest struct {
	EmployeeID string          `json:"employee_id"`
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note,omitempty"`
}

func (r *AdvanceUpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be YYYY-MM"})
	}
	if r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AdvanceResponse struct {
	ID         string          `json:"id"`
	EmployeeID string          `json:"employee_id"`
	Month      string          `json:"month"`
	Amount     decimal.Decimal `json:"amount"`
	Note       *string         `json:"note"`
}

// ========== PAYMENT STATUS DTOs ==========

type PaymentStatusRequest struct {
	Month      string `json:"month"`
	EmployeeID string `json:"employee_id"`
	Status     string `json:"status"`
}

func (r *PaymentStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonth(r.Month); !ok {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be YYYY-MM"})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if !validator.IsInSlice(r.Status, []string{string(PaymentStatePaid), string(PaymentStateUnpaid)}) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be 'paid' or 'unpaid'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PaymentStatusResponse struct {
	EmployeeCode   string           `json:"employee_code"`
	Month          string           `json:"month"`
	Status         string           `json:"status"`
	NetPaySnapshot *decimal.Decimal `json:"net_pay_snapshot"`
}

// ========== CLEARANCE DTOs ==========

type ClearanceRow struct {
	EmployeeID     string           `json:"employee_id"`
	EmployeeCode   string           `json:"employee_code"`
	Name           string           `json:"name"`
	SerialNo       string           `json:"serial_no"`
	Status         string           `json:"status"`
	NetPaySnapshot *decimal.Decimal `json:"net_pay_snapshot"`
}

type ClearanceResponse struct {
	Month        string          `json:"month"`
	Employees    int             `json:"employees"`
	PaidCount    int             `json:"paid_count"`
	PendingCount int             `json:"pending_count"`
	TotalCleared decimal.Decimal `json:"total_cleared"`
	Rows         []ClearanceRow  `json:"rows"`
}
