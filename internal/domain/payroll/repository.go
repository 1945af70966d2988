package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SheetRepository stores the per-period override rows. GetByPeriod keys the
// result by employee id; a missing key means no row exists (the computer
// projects that to zeroes, editors see the absence).
type SheetRepository interface {
	GetByPeriod(ctx context.Context, from, to time.Time) (map[string]SheetEntry, error)
	ListByPeriod(ctx context.Context, from, to time.Time) ([]SheetEntry, error)
	GetByID(ctx context.Context, id string) (SheetEntry, error)
	Upsert(ctx context.Context, entry SheetEntry) (SheetEntry, error)
	Delete(ctx context.Context, id string) error
}

// AdvanceRepository reads and writes monthly deduction amounts keyed by
// (employee, month label).
type AdvanceRepository interface {
	GetMonthDeductions(ctx context.Context, month string) (map[string]decimal.Decimal, error)
	ListByMonth(ctx context.Context, month string) ([]AdvanceDeduction, error)
	Upsert(ctx context.Context, adv AdvanceDeduction) (AdvanceDeduction, error)
}

// PaymentStatusRepository keys statuses by employee external code per month.
// Upsert must write status and snapshot atomically; the uniqueness constraint
// on (employee_code, month) serializes concurrent markers.
type PaymentStatusRepository interface {
	GetByMonth(ctx context.Context, month string) (map[string]PaymentStatus, error)
	Upsert(ctx context.Context, status PaymentStatus) (PaymentStatus, error)
}

// PayrollService is the engine surface the HTTP layer talks to.
type PayrollService interface {
	MonthlyReport(ctx context.Context, month string) (ReportResponse, error)
	RangeReport(ctx context.Context, fromDate, toDate, month string) (ReportResponse, error)

	ListSheetEntries(ctx context.Context, fromDate, toDate string) ([]SheetEntryResponse, error)
	UpsertSheetEntries(ctx context.Context, req SheetBulkUpsertRequest) ([]SheetEntryResponse, error)
	DeleteSheetEntry(ctx context.Context, id string) error

	ListAdvances(ctx context.Context, month string) ([]AdvanceResponse, error)
	UpsertAdvance(ctx context.Context, req AdvanceUpsertRequest) (AdvanceResponse, error)

	SetPaymentStatus(ctx context.Context, req PaymentStatusRequest) (PaymentStatusResponse, error)
	ClearanceReport(ctx context.Context, month string) (ClearanceResponse, error)
}
