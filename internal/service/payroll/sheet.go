package payroll

import (
	"context"
	"fmt"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/validator"
)

// TxRunner executes fn inside a storage transaction. Production wiring passes
// postgresql.WithTransaction; tests pass a plain passthrough.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// SheetEditor handles the write side of payroll sheets. Bulk upserts run in
// one transaction so a failed row never leaves the period half-updated, and
// the editor's mobile/bank fields propagate onto the employee record as part
// of the same commit.
type SheetEditor struct {
	tx           TxRunner
	sheetRepo    payroll.SheetRepository
	employeeRepo employee.EmployeeRepository
	paymentRepo  payroll.PaymentStatusRepository
}

func NewSheetEditor(
	tx TxRunner,
	sheetRepo payroll.SheetRepository,
	employeeRepo employee.EmployeeRepository,
	paymentRepo payroll.PaymentStatusRepository,
) *SheetEditor {
	return &SheetEditor{
		tx:           tx,
		sheetRepo:    sheetRepo,
		employeeRepo: employeeRepo,
		paymentRepo:  paymentRepo,
	}
}

func (e *SheetEditor) List(ctx context.Context, fromDate, toDate string) ([]payroll.SheetEntryResponse, error) {
	from, ok := validator.IsValidDate(fromDate)
	if !ok {
		return nil, fmt.Errorf("%w: from_date %q is not YYYY-MM-DD", payroll.ErrBadPeriod, fromDate)
	}
	to, ok := validator.IsValidDate(toDate)
	if !ok {
		return nil, fmt.Errorf("%w: to_date %q is not YYYY-MM-DD", payroll.ErrBadPeriod, toDate)
	}
	if from.After(to) {
		return nil, fmt.Errorf("%w: from_date %s is after to_date %s", payroll.ErrBadPeriod, fromDate, toDate)
	}

	entries, err := e.sheetRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.SheetEntryResponse, 0, len(entries))
	for _, entry := range entries {
		result = append(result, mapSheetResponse(entry))
	}
	return result, nil
}

func (e *SheetEditor) BulkUpsert(ctx context.Context, req payroll.SheetBulkUpsertRequest) ([]payroll.SheetEntryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, _ := validator.IsValidDate(req.FromDate)
	to, _ := validator.IsValidDate(req.ToDate)

	// Every entry must carry the envelope's exact period; anything else would
	// scatter rows across periods in a single call.
	for _, input := range req.Entries {
		if input.FromDate != req.FromDate || input.ToDate != req.ToDate {
			return nil, fmt.Errorf("%w: entry for employee %s has period %s..%s, request has %s..%s",
				payroll.ErrPeriodMismatch, input.EmployeeID, input.FromDate, input.ToDate, req.FromDate, req.ToDate)
		}
	}

	var saved []payroll.SheetEntryResponse
	err := e.tx(ctx, func(txCtx context.Context) error {
		for _, input := range req.Entries {
			entry, err := e.sheetRepo.Upsert(txCtx, payroll.SheetEntry{
				EmployeeID:          input.EmployeeID,
				FromDate:            from,
				ToDate:              to,
				PreDays:             input.PreDays,
				CurDays:             input.CurDays,
				LeaveEncashmentDays: input.LeaveEncashmentDays,
				AllowOther:          input.AllowOther,
				EOBI:                input.EOBI,
				Tax:                 input.Tax,
				FineAdvExtra:        input.FineAdvExtra,
				OTRateOverride:      input.OTRateOverride,
				OTBonusAmount:       input.OTBonusAmount,
				Remarks:             input.Remarks,
				BankCash:            input.BankCash,
			})
			if err != nil {
				return err
			}

			update := employee.ContactUpdate{
				Mobile:        input.Mobile,
				BankName:      input.BankName,
				BankAccountNo: input.BankAccountNo,
			}
			if update.Mobile != nil || update.BankName != nil || update.BankAccountNo != nil {
				if err := e.employeeRepo.UpdateContact(txCtx, input.EmployeeID, update); err != nil {
					return err
				}
			}

			saved = append(saved, mapSheetResponse(entry))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return saved, nil
}

// Delete refuses to remove entries for a period that already has cleared
// payouts: the sheet fed those frozen snapshots.
func (e *SheetEditor) Delete(ctx context.Context, id string) error {
	entry, err := e.sheetRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	month := entry.ToDate.Format("2006-01")
	statuses, err := e.paymentRepo.GetByMonth(ctx, month)
	if err != nil {
		return err
	}
	for _, status := range statuses {
		if status.Status == payroll.PaymentStatePaid {
			return payroll.ErrSheetPeriodFinalized
		}
	}

	return e.sheetRepo.Delete(ctx, id)
}

func mapSheetResponse(entry payroll.SheetEntry) payroll.SheetEntryResponse {
	return payroll.SheetEntryResponse{
		ID:                  entry.ID,
		EmployeeID:          entry.EmployeeID,
		FromDate:            entry.FromDate.Format("2006-01-02"),
		ToDate:              entry.ToDate.Format("2006-01-02"),
		PreDays:             entry.PreDays,
		CurDays:             entry.CurDays,
		LeaveEncashmentDays: entry.LeaveEncashmentDays,
		AllowOther:          entry.AllowOther,
		EOBI:                entry.EOBI,
		Tax:                 entry.Tax,
		FineAdvExtra:        entry.FineAdvExtra,
		OTRateOverride:      entry.OTRateOverride,
		OTBonusAmount:       entry.OTBonusAmount,
		Remarks:             entry.Remarks,
		BankCash:            entry.BankCash,
	}
}
