package payroll

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/attendance"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// serial numbers are usually numeric but old records carry free-form ones;
// those sort after every numeric serial.
const nonNumericSerialRank = 1 << 30

type PayrollServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	sheetRepo      payroll.SheetRepository
	advanceRepo    payroll.AdvanceRepository
	paymentRepo    payroll.PaymentStatusRepository
	sheets         *SheetEditor
}

func NewPayrollService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	sheetRepo payroll.SheetRepository,
	advanceRepo payroll.AdvanceRepository,
	paymentRepo payroll.PaymentStatusRepository,
	sheets *SheetEditor,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		sheetRepo:      sheetRepo,
		advanceRepo:    advanceRepo,
		paymentRepo:    paymentRepo,
		sheets:         sheets,
	}
}

// ========== REPORTS ==========

func (s *PayrollServiceImpl) MonthlyReport(ctx context.Context, month string) (payroll.ReportResponse, error) {
	period, err := payroll.ResolveMonth(month)
	if err != nil {
		return payroll.ReportResponse{}, err
	}
	return s.buildReport(ctx, period)
}

func (s *PayrollServiceImpl) RangeReport(ctx context.Context, fromDate, toDate, month string) (payroll.ReportResponse, error) {
	period, err := payroll.ResolveRange(fromDate, toDate, month)
	if err != nil {
		return payroll.ReportResponse{}, err
	}
	return s.buildReport(ctx, period)
}

// buildReport is the whole pipeline for one request: load the five stores,
// aggregate attendance, compute every employee, order and summarize. It is a
// pure recomputation; nothing is cached or persisted.
func (s *PayrollServiceImpl) buildReport(ctx context.Context, period payroll.Period) (payroll.ReportResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return payroll.ReportResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}
	records, err := s.attendanceRepo.ListBetween(ctx, period.From, period.UpperBound())
	if err != nil {
		return payroll.ReportResponse{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	sheets, err := s.sheetRepo.GetByPeriod(ctx, period.From, period.To)
	if err != nil {
		return payroll.ReportResponse{}, fmt.Errorf("failed to load sheet entries: %w", err)
	}
	advances, err := s.advanceRepo.GetMonthDeductions(ctx, period.Label)
	if err != nil {
		return payroll.ReportResponse{}, fmt.Errorf("failed to load advance deductions: %w", err)
	}
	statuses, err := s.paymentRepo.GetByMonth(ctx, period.Label)
	if err != nil {
		return payroll.ReportResponse{}, fmt.Errorf("failed to load payment statuses: %w", err)
	}

	counters := aggregateAttendance(records, buildEmployeeIndex(employees))

	rows := make([]payroll.PayrollRow, 0, len(employees))
	for _, emp := range employees {
		rows = append(rows, shapeRow(emp, period, counters[emp.ID], sheets[emp.ID], advances[emp.ID], statuses[emp.ExternalID()]))
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ri, rj := serialRank(rows[i].SerialNo), serialRank(rows[j].SerialNo)
		if ri != rj {
			return ri < rj
		}
		return rows[i].EmployeeCode < rows[j].EmployeeCode
	})

	summary := payroll.ReportSummary{
		Month:       period.Label,
		WorkingDays: period.WorkingDays,
		Employees:   len(rows),
	}
	for _, row := range rows {
		summary.TotalGross = summary.TotalGross.Add(row.GrossPay)
		summary.TotalNet = summary.TotalNet.Add(row.NetPay)
		summary.TotalPresents += row.PresentsTotal
	}

	return payroll.ReportResponse{
		Month:   period.Label,
		Summary: summary,
		Rows:    rows,
	}, nil
}

// shapeRow runs the computer for one employee and rounds every money field to
// two decimals at this output boundary.
func shapeRow(
	emp employee.Employee,
	period payroll.Period,
	counters payroll.Counters,
	sheet payroll.SheetEntry,
	advance decimal.Decimal,
	status payroll.PaymentStatus,
) payroll.PayrollRow {
	figures := payroll.Compute(payroll.ComputeInput{
		Mode:             period.Mode,
		BaseSalary:       emp.BaseSalary,
		WorkingDays:      period.WorkingDays,
		Counters:         counters,
		Sheet:            sheet,
		AdvanceDeduction: advance,
	})

	paidStatus := string(payroll.PaymentStateUnpaid)
	if status.Status == payroll.PaymentStatePaid {
		paidStatus = string(payroll.PaymentStatePaid)
	}

	bank := emp.FirstBankAccount()

	row := payroll.PayrollRow{
		EmployeeID:    emp.ID,
		EmployeeCode:  emp.ExternalID(),
		Name:          emp.FullName,
		SerialNo:      emp.SerialNo,
		FSSNo:         deref(emp.FSSNo),
		EOBINo:        deref(emp.EOBINo),
		CNIC:          emp.CNIC,
		Mobile:        deref(emp.Mobile),
		BankName:      bank.BankName,
		BankAccountNo: bank.AccountNumber,

		WorkingDays: period.WorkingDays,
		DayRate:     figures.DayRate.Round(2),

		PresentDays:     counters.PresentDays,
		LateDays:        counters.LateDays,
		AbsentDays:      counters.AbsentDays,
		PaidLeaveDays:   counters.PaidLeaveDays,
		UnpaidLeaveDays: counters.UnpaidLeaveDays,
		PresentsTotal:   figures.PresentsTotal,
		OTDays:          counters.OTDays,
		OvertimeMinutes: counters.OvertimeMinutes,
		LateMinutes:     counters.LateMinutes,

		PreDays:             sheet.PreDays,
		CurDays:             figures.CurDays,
		LeaveEncashmentDays: sheet.LeaveEncashmentDays,
		AllowOther:          sheet.AllowOther.Round(2),
		EOBI:                sheet.EOBI.Round(2),
		Tax:                 sheet.Tax.Round(2),
		FineAdvExtra:        sheet.FineAdvExtra.Round(2),
		Remarks:             deref(sheet.Remarks),
		BankCash:            deref(sheet.BankCash),

		TotalDays:        figures.TotalDays,
		TotalSalary:      figures.TotalSalary.Round(2),
		OvertimeRate:     figures.OvertimeRate.Round(2),
		OvertimePay:      figures.OvertimePay.Round(2),
		LateDeduction:    counters.LateDeduction.Round(2),
		FineDeduction:    counters.FineDeduction.Round(2),
		FineAdv:          figures.FineAdv.Round(2),
		AdvanceDeduction: advance.Round(2),
		GrossPay:         figures.GrossPay.Round(2),
		NetPay:           figures.NetPay.Round(2),

		PaidStatus: paidStatus,
	}

	return row
}

func serialRank(serial string) int {
	n, err := strconv.Atoi(serial)
	if err != nil {
		return nonNumericSerialRank
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ========== PAYMENT STATUS ==========

func (s *PayrollServiceImpl) SetPaymentStatus(ctx context.Context, req payroll.PaymentStatusRequest) (payroll.PaymentStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PaymentStatusResponse{}, err
	}

	period, err := payroll.ResolveMonth(req.Month)
	if err != nil {
		return payroll.PaymentStatusResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PaymentStatusResponse{}, err
	}

	var status payroll.PaymentStatus
	if req.Status == string(payroll.PaymentStatePaid) {
		// Freeze the net pay as computed right now; downstream clearance
		// reads use the snapshot, never a recomputation.
		row, err := s.computeEmployeeRow(ctx, period, emp)
		if err != nil {
			return payroll.PaymentStatusResponse{}, err
		}
		status = payroll.MarkPaid(emp.ExternalID(), period.Label, row.NetPay)
	} else {
		status = payroll.MarkUnpaid(emp.ExternalID(), period.Label)
	}

	saved, err := s.paymentRepo.Upsert(ctx, status)
	if err != nil {
		return payroll.PaymentStatusResponse{}, err
	}

	return payroll.PaymentStatusResponse{
		EmployeeCode:   saved.EmployeeCode,
		Month:          saved.Month,
		Status:         string(saved.Status),
		NetPaySnapshot: saved.NetPaySnapshot,
	}, nil
}

// computeEmployeeRow runs the monthly pipeline for a single employee.
func (s *PayrollServiceImpl) computeEmployeeRow(ctx context.Context, period payroll.Period, emp employee.Employee) (payroll.PayrollRow, error) {
	records, err := s.attendanceRepo.ListBetween(ctx, period.From, period.UpperBound())
	if err != nil {
		return payroll.PayrollRow{}, fmt.Errorf("failed to load attendance: %w", err)
	}
	sheets, err := s.sheetRepo.GetByPeriod(ctx, period.From, period.To)
	if err != nil {
		return payroll.PayrollRow{}, fmt.Errorf("failed to load sheet entries: %w", err)
	}
	advances, err := s.advanceRepo.GetMonthDeductions(ctx, period.Label)
	if err != nil {
		return payroll.PayrollRow{}, fmt.Errorf("failed to load advance deductions: %w", err)
	}

	counters := aggregateAttendance(records, buildEmployeeIndex([]employee.Employee{emp}))
	return shapeRow(emp, period, counters[emp.ID], sheets[emp.ID], advances[emp.ID], payroll.PaymentStatus{}), nil
}

// ========== CLEARANCE ==========

func (s *PayrollServiceImpl) ClearanceReport(ctx context.Context, month string) (payroll.ClearanceResponse, error) {
	if _, ok := validator.IsValidMonth(month); !ok {
		return payroll.ClearanceResponse{}, fmt.Errorf("%w: month %q is not YYYY-MM", payroll.ErrBadPeriod, month)
	}

	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return payroll.ClearanceResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}
	statuses, err := s.paymentRepo.GetByMonth(ctx, month)
	if err != nil {
		return payroll.ClearanceResponse{}, fmt.Errorf("failed to load payment statuses: %w", err)
	}

	resp := payroll.ClearanceResponse{
		Month:     month,
		Employees: len(employees),
	}
	for _, emp := range employees {
		status, ok := statuses[emp.ExternalID()]
		row := payroll.ClearanceRow{
			EmployeeID:   emp.ID,
			EmployeeCode: emp.ExternalID(),
			Name:         emp.FullName,
			SerialNo:     emp.SerialNo,
			Status:       string(payroll.PaymentStateUnpaid),
		}
		if ok && status.Status == payroll.PaymentStatePaid && status.NetPaySnapshot != nil {
			row.Status = string(payroll.PaymentStatePaid)
			row.NetPaySnapshot = status.NetPaySnapshot
			resp.PaidCount++
			resp.TotalCleared = resp.TotalCleared.Add(*status.NetPaySnapshot)
		}
		resp.Rows = append(resp.Rows, row)
	}
	resp.PendingCount = resp.Employees - resp.PaidCount

	sort.SliceStable(resp.Rows, func(i, j int) bool {
		ri, rj := serialRank(resp.Rows[i].SerialNo), serialRank(resp.Rows[j].SerialNo)
		if ri != rj {
			return ri < rj
		}
		return resp.Rows[i].EmployeeCode < resp.Rows[j].EmployeeCode
	})

	return resp, nil
}

// ========== SHEETS ==========

func (s *PayrollServiceImpl) ListSheetEntries(ctx context.Context, fromDate, toDate string) ([]payroll.SheetEntryResponse, error) {
	return s.sheets.List(ctx, fromDate, toDate)
}

func (s *PayrollServiceImpl) UpsertSheetEntries(ctx context.Context, req payroll.SheetBulkUpsertRequest) ([]payroll.SheetEntryResponse, error) {
	return s.sheets.BulkUpsert(ctx, req)
}

func (s *PayrollServiceImpl) DeleteSheetEntry(ctx context.Context, id string) error {
	return s.sheets.Delete(ctx, id)
}

// ========== ADVANCES ==========

func (s *PayrollServiceImpl) ListAdvances(ctx context.Context, month string) ([]payroll.AdvanceResponse, error) {
	if _, ok := validator.IsValidMonth(month); !ok {
		return nil, fmt.Errorf("%w: month %q is not YYYY-MM", payroll.ErrBadPeriod, month)
	}

	advances, err := s.advanceRepo.ListByMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		result = append(result, payroll.AdvanceResponse{
			ID:         a.ID,
			EmployeeID: a.EmployeeID,
			Month:      a.Month,
			Amount:     a.Amount.Round(2),
			Note:       a.Note,
		})
	}
	return result, nil
}

func (s *PayrollServiceImpl) UpsertAdvance(ctx context.Context, req payroll.AdvanceUpsertRequest) (payroll.AdvanceResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.AdvanceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.AdvanceResponse{}, err
	}

	saved, err := s.advanceRepo.Upsert(ctx, payroll.AdvanceDeduction{
		EmployeeID: req.EmployeeID,
		Month:      req.Month,
		Amount:     req.Amount,
		Note:       req.Note,
	})
	if err != nil {
		return payroll.AdvanceResponse{}, err
	}

	return payroll.AdvanceResponse{
		ID:         saved.ID,
		EmployeeID: saved.EmployeeID,
		Month:      saved.Month,
		Amount:     saved.Amount.Round(2),
		Note:       saved.Note,
	}, nil
}
