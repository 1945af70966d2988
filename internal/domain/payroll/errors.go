package payroll

import "errors"

var (
	ErrBadPeriod            = errors.New("bad payroll period")
	ErrPeriodMismatch       = errors.New("sheet entry period differs from request period")
	ErrSheetEntryNotFound   = errors.New("payroll sheet entry not found")
	ErrSheetPeriodFinalized = errors.New("sheet period has paid payouts, entry cannot be removed")
	ErrAdvanceNotFound      = errors.New("advance deduction not found")
	ErrInvalidPaymentState  = errors.New("payment status must be paid or unpaid")
)
