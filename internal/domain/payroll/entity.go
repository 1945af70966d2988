package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// SheetEntry is the per-employee per-period override record maintained by the
// payroll editor. At most one row exists per (employee, from_date, to_date);
// a missing row means "no overrides" and is projected to zeroes only inside
// the computer, never in storage.
type SheetEntry struct {
	ID                  string
	EmployeeID          string
	FromDate            time.Time
	ToDate              time.Time
	PreDays             *int
	CurDays             *int
	LeaveEncashmentDays int
	AllowOther          decimal.Decimal
	EOBI                decimal.Decimal
	Tax                 decimal.Decimal
	FineAdvExtra        decimal.Decimal
	OTRateOverride      decimal.Decimal
	OTBonusAmount       decimal.Decimal
	Remarks             *string
	BankCash            *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// AdvanceDeduction is the monthly repayment against an employee's running
// advance, keyed uniquely per (employee, month label).
type AdvanceDeduction struct {
	ID         string
	EmployeeID string
	Month      string
	Amount     decimal.Decimal
	Note       *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaymentState string

const (
	PaymentStatePaid   PaymentState = "paid"
	PaymentStateUnpaid PaymentState = "unpaid"
)

// PaymentStatus marks an employee's month as cleared or pending. While paid,
// NetPaySnapshot holds the net pay frozen at marking time and is the
// authoritative figure downstream; while unpaid it is nil. "Paid without
// snapshot" is not a representable state (enforced by MarkPaid/MarkUnpaid).
type PaymentStatus struct {
	ID             string
	EmployeeCode   string
	Month          string
	Status         PaymentState
	NetPaySnapshot *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// MarkPaid returns a paid status carrying the frozen net pay.
func MarkPaid(employeeCode, month string, netPay decimal.Decimal) PaymentStatus {
	return PaymentStatus{
		EmployeeCode:   employeeCode,
		Month:          month,
		Status:         PaymentStatePaid,
		NetPaySnapshot: &netPay,
	}
}

// MarkUnpaid returns an unpaid status with the snapshot cleared.
func MarkUnpaid(employeeCode, month string) PaymentStatus {
	return PaymentStatus{
		EmployeeCode: employeeCode,
		Month:        month,
		Status:       PaymentStateUnpaid,
	}
}

// Counters are the per-employee attendance tallies for one period. Present
// and late stay disjoint here so the counters remain auditable; the computer
// derives presents-total itself.
type Counters struct {
	PresentDays     int
	LateDays        int
	AbsentDays      int
	PaidLeaveDays   int
	UnpaidLeaveDays int
	OTDays          int
	OvertimeMinutes int
	LateMinutes     int

	// Minutes logged on worked days only. OvertimeMinutes above keeps the raw
	// sum across every row for display; pay repricing must use this one so
	// minutes recorded against absent days never become money.
	PayableOvertimeMinutes int

	// Accumulated money amounts from the day rows.
	OvertimePay   decimal.Decimal // sum of (minutes/60)*rate per day
	LastOTRate    decimal.Decimal // last non-zero per-day rate seen
	LateDeduction decimal.Decimal
	FineDeduction decimal.Decimal
}
