package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/attendance"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ========== FAKES ==========

type fakeEmployeeRepo struct {
	employees      []employee.Employee
	contactUpdates map[string][]employee.ContactUpdate
}

func newFakeEmployeeRepo(employees ...employee.Employee) *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		employees:      employees,
		contactUpdates: make(map[string][]employee.ContactUpdate),
	}
}

func (r *fakeEmployeeRepo) List(_ context.Context) ([]employee.Employee, error) {
	return r.employees, nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, emp := range r.employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *fakeEmployeeRepo) UpdateContact(_ context.Context, id string, update employee.ContactUpdate) error {
	if _, err := r.GetByID(context.Background(), id); err != nil {
		return err
	}
	r.contactUpdates[id] = append(r.contactUpdates[id], update)
	return nil
}

type fakeAttendanceRepo struct {
	records []attendance.Record
}

func (r *fakeAttendanceRepo) ListBetween(_ context.Context, from, toExclusive time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if !rec.Date.Before(from) && rec.Date.Before(toExclusive) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSheetRepo struct {
	entries []payroll.SheetEntry
}

func (r *fakeSheetRepo) GetByPeriod(ctx context.Context, from, to time.Time) (map[string]payroll.SheetEntry, error) {
	entries, _ := r.ListByPeriod(ctx, from, to)
	result := make(map[string]payroll.SheetEntry, len(entries))
	for _, e := range entries {
		result[e.EmployeeID] = e
	}
	return result, nil
}

func (r *fakeSheetRepo) ListByPeriod(_ context.Context, from, to time.Time) ([]payroll.SheetEntry, error) {
	var out []payroll.SheetEntry
	for _, e := range r.entries {
		if e.FromDate.Equal(from) && e.ToDate.Equal(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeSheetRepo) GetByID(_ context.Context, id string) (payroll.SheetEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return payroll.SheetEntry{}, payroll.ErrSheetEntryNotFound
}

func (r *fakeSheetRepo) Upsert(_ context.Context, entry payroll.SheetEntry) (payroll.SheetEntry, error) {
	for i, existing := range r.entries {
		if existing.EmployeeID == entry.EmployeeID &&
			existing.FromDate.Equal(entry.FromDate) &&
			existing.ToDate.Equal(entry.ToDate) {
			entry.ID = existing.ID
			r.entries[i] = entry
			return entry, nil
		}
	}
	entry.ID = uuid.NewString()
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *fakeSheetRepo) Delete(_ context.Context, id string) error {
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return payroll.ErrSheetEntryNotFound
}

type fakeAdvanceRepo struct {
	advances []payroll.AdvanceDeduction
}

func (r *fakeAdvanceRepo) GetMonthDeductions(_ context.Context, month string) (map[string]decimal.Decimal, error) {
	result := make(map[string]decimal.Decimal)
	for _, a := range r.advances {
		if a.Month == month {
			result[a.EmployeeID] = a.Amount
		}
	}
	return result, nil
}

func (r *fakeAdvanceRepo) ListByMonth(_ context.Context, month string) ([]payroll.AdvanceDeduction, error) {
	var out []payroll.AdvanceDeduction
	for _, a := range r.advances {
		if a.Month == month {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAdvanceRepo) Upsert(_ context.Context, adv payroll.AdvanceDeduction) (payroll.AdvanceDeduction, error) {
	for i, existing := range r.advances {
		if existing.EmployeeID == adv.EmployeeID && existing.Month == adv.Month {
			adv.ID = existing.ID
			r.advances[i] = adv
			return adv, nil
		}
	}
	adv.ID = uuid.NewString()
	r.advances = append(r.advances, adv)
	return adv, nil
}

type fakePaymentRepo struct {
	statuses []payroll.PaymentStatus
}

func (r *fakePaymentRepo) GetByMonth(_ context.Context, month string) (map[string]payroll.PaymentStatus, error) {
	result := make(map[string]payroll.PaymentStatus)
	for _, s := range r.statuses {
		if s.Month == month {
			result[s.EmployeeCode] = s
		}
	}
	return result, nil
}

func (r *fakePaymentRepo) Upsert(_ context.Context, status payroll.PaymentStatus) (payroll.PaymentStatus, error) {
	for i, existing := range r.statuses {
		if existing.EmployeeCode == status.EmployeeCode && existing.Month == status.Month {
			status.ID = existing.ID
			r.statuses[i] = status
			return status, nil
		}
	}
	status.ID = uuid.NewString()
	r.statuses = append(r.statuses, status)
	return status, nil
}

func passthroughTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type testEnv struct {
	service      payroll.PayrollService
	employeeRepo *fakeEmployeeRepo
	attendance   *fakeAttendanceRepo
	sheetRepo    *fakeSheetRepo
	advanceRepo  *fakeAdvanceRepo
	paymentRepo  *fakePaymentRepo
}

func newTestEnv(employees ...employee.Employee) *testEnv {
	env := &testEnv{
		employeeRepo: newFakeEmployeeRepo(employees...),
		attendance:   &fakeAttendanceRepo{},
		sheetRepo:    &fakeSheetRepo{},
		advanceRepo:  &fakeAdvanceRepo{},
		paymentRepo:  &fakePaymentRepo{},
	}
	editor := NewSheetEditor(passthroughTx, env.sheetRepo, env.employeeRepo, env.paymentRepo)
	env.service = NewPayrollService(env.employeeRepo, env.attendance, env.sheetRepo, env.advanceRepo, env.paymentRepo, editor)
	return env
}

func guard(id, code, serial string, baseSalary int64) employee.Employee {
	return employee.Employee{
		ID:         id,
		Code:       code,
		SerialNo:   serial,
		FullName:   "Guard " + code,
		CNIC:       "35202-1234567-1",
		BaseSalary: decimal.NewFromInt(baseSalary),
	}
}

// markDays appends one record per day for [start, start+n).
func (r *fakeAttendanceRepo) markDays(key string, start time.Time, n int, status attendance.Status) {
	for i := 0; i < n; i++ {
		r.records = append(r.records, attendance.Record{
			EmployeeKey: key,
			Date:        start.AddDate(0, 0, i),
			Status:      status,
		})
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ========== REPORTS ==========

func TestMonthlyReport_PlainMonth(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))
	env.attendance.markDays("G-100", day(1), 28, attendance.StatusPresent)
	env.attendance.markDays("G-100", day(29), 2, attendance.StatusAbsent)

	report, err := env.service.MonthlyReport(context.Background(), "2024-04")
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]

	assert.Equal(t, "G-100", row.EmployeeCode)
	assert.Equal(t, 30, row.WorkingDays)
	assert.Equal(t, 28, row.PresentDays)
	assert.Equal(t, 2, row.AbsentDays)
	assert.Equal(t, 28, row.PresentsTotal)
	assert.True(t, dec("1000").Equal(row.DayRate), "day rate %s", row.DayRate)
	assert.True(t, dec("28000").Equal(row.TotalSalary))
	assert.True(t, dec("28000").Equal(row.NetPay))
	assert.Equal(t, "unpaid", row.PaidStatus)

	assert.Equal(t, "2024-04", report.Summary.Month)
	assert.Equal(t, 30, report.Summary.WorkingDays)
	assert.Equal(t, 1, report.Summary.Employees)
	assert.Equal(t, 28, report.Summary.TotalPresents)
	assert.True(t, dec("28000").Equal(report.Summary.TotalNet))
}

func TestMonthlyReport_BadMonth(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, err := env.service.MonthlyReport(context.Background(), "april")
	assert.ErrorIs(t, err, payroll.ErrBadPeriod)
}

func TestMonthlyReport_EveryEmployeeGetsARow(t *testing.T) {
	t.Parallel()

	// No attendance at all: the report still carries one zero row per employee.
	env := newTestEnv(
		guard("emp-1", "G-100", "1", 30000),
		guard("emp-2", "G-200", "2", 25000),
	)

	report, err := env.service.MonthlyReport(context.Background(), "2024-04")
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	for _, row := range report.Rows {
		assert.Equal(t, 0, row.PresentsTotal)
		assert.True(t, row.NetPay.IsZero())
	}
}

func TestMonthlyReport_OrdersByNumericSerial(t *testing.T) {
	t.Parallel()

	env := newTestEnv(
		guard("emp-1", "G-100", "10", 30000),
		guard("emp-2", "G-200", "2", 30000),
		guard("emp-3", "G-300", "A-1", 30000),
		guard("emp-4", "G-050", "A-1", 30000),
	)

	report, err := env.service.MonthlyReport(context.Background(), "2024-04")
	require.NoError(t, err)

	require.Len(t, report.Rows, 4)
	// numeric serials first in numeric order, then non-numeric by code
	assert.Equal(t, "2", report.Rows[0].SerialNo)
	assert.Equal(t, "10", report.Rows[1].SerialNo)
	assert.Equal(t, "G-050", report.Rows[2].EmployeeCode)
	assert.Equal(t, "G-300", report.Rows[3].EmployeeCode)
}

func TestMonthlyReport_LegacyKeysResolve(t *testing.T) {
	t.Parallel()

	old := "OLD-7"
	emp := guard("emp-1", "G-100", "15", 30000)
	emp.OldCode = &old

	env := newTestEnv(emp)
	env.attendance.markDays("G-100", day(1), 10, attendance.StatusPresent)
	env.attendance.markDays("OLD-7", day(11), 10, attendance.StatusPresent)
	env.attendance.markDays("15", day(21), 8, attendance.StatusPresent)

	report, err := env.service.MonthlyReport(context.Background(), "2024-04")
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, 28, report.Rows[0].PresentDays)
}

func TestMonthlyReport_AppliesSheetAndAdvance(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 20000))
	env.attendance.markDays("G-100", day(1), 20, attendance.StatusPresent)

	from := day(1)
	to := day(30)
	env.sheetRepo.entries = append(env.sheetRepo.entries, payroll.SheetEntry{
		ID:           uuid.NewString(),
		EmployeeID:   "emp-1",
		FromDate:     from,
		ToDate:       to,
		EOBI:         dec("370"),
		Tax:          dec("500"),
		FineAdvExtra: dec("1000"),
	})
	env.advanceRepo.advances = append(env.advanceRepo.advances, payroll.AdvanceDeduction{
		ID:         uuid.NewString(),
		EmployeeID: "emp-1",
		Month:      "2024-04",
		Amount:     dec("2000"),
	})

	report, err := env.service.MonthlyReport(context.Background(), "2024-04")
	require.NoError(t, err)

	row := report.Rows[0]
	assert.True(t, dec("13333.33").Equal(row.TotalSalary), "total salary %s", row.TotalSalary)
	assert.True(t, dec("3000").Equal(row.FineAdv), "fine_adv %s", row.FineAdv)
	assert.True(t, dec("2000").Equal(row.AdvanceDeduction))
	assert.True(t, dec("9463.33").Equal(row.NetPay), "net %s", row.NetPay)
}

func TestRangeReport_ExclusiveUpperBoundAndManualOTRate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))
	rate := dec("150")
	for i := 0; i < 30; i++ {
		rec := attendance.Record{
			EmployeeKey: "G-100",
			Date:        day(1).AddDate(0, 0, i),
			Status:      attendance.StatusPresent,
		}
		if i < 4 {
			rec.OvertimeMinutes = 60
			rec.OvertimeRate = rate
		}
		env.attendance.records = append(env.attendance.records, rec)
	}
	// A row dated on the exclusive bound never counts.
	env.attendance.records = append(env.attendance.records, attendance.Record{
		EmployeeKey: "G-100",
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:      attendance.StatusPresent,
	})

	env.sheetRepo.entries = append(env.sheetRepo.entries, payroll.SheetEntry{
		ID:             uuid.NewString(),
		EmployeeID:     "emp-1",
		FromDate:       day(1),
		ToDate:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		OTRateOverride: dec("200"),
	})

	report, err := env.service.RangeReport(context.Background(), "2024-04-01", "2024-05-01", "")
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]

	assert.Equal(t, 30, row.WorkingDays)
	assert.Equal(t, 30, row.PresentDays)
	assert.Equal(t, 4, row.OTDays)
	// range mode pays per OT day at the sheet rate, not per minute
	assert.True(t, dec("200").Equal(row.OvertimeRate))
	assert.True(t, dec("800").Equal(row.OvertimePay), "ot pay %s", row.OvertimePay)
	assert.True(t, dec("30800").Equal(row.GrossPay))
}

func TestRangeReport_BadPeriod(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, err := env.service.RangeReport(context.Background(), "2024-05-01", "2024-04-01", "")
	assert.ErrorIs(t, err, payroll.ErrBadPeriod)
}

// ========== PAYMENT STATUS ==========

func TestSetPaymentStatus_PaidFreezesSnapshot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))
	env.attendance.markDays("G-100", day(1), 28, attendance.StatusPresent)

	resp, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month:      "2024-04",
		EmployeeID: "emp-1",
		Status:     "paid",
	})
	require.NoError(t, err)

	assert.Equal(t, "G-100", resp.EmployeeCode)
	assert.Equal(t, "paid", resp.Status)
	require.NotNil(t, resp.NetPaySnapshot)
	assert.True(t, dec("28000").Equal(*resp.NetPaySnapshot), "snapshot %s", *resp.NetPaySnapshot)

	report, err := env.service.MonthlyReport(context.Background(), "2024-04")
	require.NoError(t, err)
	assert.Equal(t, "paid", report.Rows[0].PaidStatus)
}

func TestSetPaymentStatus_UnpaidClearsSnapshot(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))
	env.attendance.markDays("G-100", day(1), 28, attendance.StatusPresent)

	_, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "emp-1", Status: "paid",
	})
	require.NoError(t, err)

	resp, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "emp-1", Status: "unpaid",
	})
	require.NoError(t, err)
	assert.Equal(t, "unpaid", resp.Status)
	assert.Nil(t, resp.NetPaySnapshot)

	// unmarking twice is a no-op, not an error
	resp, err = env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "emp-1", Status: "unpaid",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.NetPaySnapshot)
}

func TestSetPaymentStatus_SnapshotSurvivesLaterEdits(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))
	env.attendance.markDays("G-100", day(1), 28, attendance.StatusPresent)

	_, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "emp-1", Status: "paid",
	})
	require.NoError(t, err)

	// attendance keeps changing after the payout was cleared
	env.attendance.markDays("G-100", day(29), 2, attendance.StatusPresent)

	clearance, err := env.service.ClearanceReport(context.Background(), "2024-04")
	require.NoError(t, err)
	require.Len(t, clearance.Rows, 1)
	require.NotNil(t, clearance.Rows[0].NetPaySnapshot)
	assert.True(t, dec("28000").Equal(*clearance.Rows[0].NetPaySnapshot))
}

func TestSetPaymentStatus_UnknownEmployee(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "ghost", Status: "paid",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestSetPaymentStatus_RejectsBadInput(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))

	_, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "emp-1", Status: "cleared",
	})
	require.Error(t, err)

	_, err = env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "not-a-month", EmployeeID: "emp-1", Status: "paid",
	})
	require.Error(t, err)
}

// ========== CLEARANCE ==========

func TestClearanceReport_Totals(t *testing.T) {
	t.Parallel()

	env := newTestEnv(
		guard("emp-1", "G-100", "1", 30000),
		guard("emp-2", "G-200", "2", 20000),
	)
	env.attendance.markDays("G-100", day(1), 30, attendance.StatusPresent)
	env.attendance.markDays("G-200", day(1), 30, attendance.StatusPresent)

	_, err := env.service.SetPaymentStatus(context.Background(), payroll.PaymentStatusRequest{
		Month: "2024-04", EmployeeID: "emp-1", Status: "paid",
	})
	require.NoError(t, err)

	clearance, err := env.service.ClearanceReport(context.Background(), "2024-04")
	require.NoError(t, err)

	assert.Equal(t, 2, clearance.Employees)
	assert.Equal(t, 1, clearance.PaidCount)
	assert.Equal(t, 1, clearance.PendingCount)
	assert.True(t, dec("30000").Equal(clearance.TotalCleared), "cleared %s", clearance.TotalCleared)

	require.Len(t, clearance.Rows, 2)
	assert.Equal(t, "paid", clearance.Rows[0].Status)
	assert.Equal(t, "unpaid", clearance.Rows[1].Status)
	assert.Nil(t, clearance.Rows[1].NetPaySnapshot)
}

func TestClearanceReport_BadMonth(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, err := env.service.ClearanceReport(context.Background(), "nope")
	assert.ErrorIs(t, err, payroll.ErrBadPeriod)
}

// ========== ADVANCES ==========

func TestUpsertAdvance_RoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))

	saved, err := env.service.UpsertAdvance(context.Background(), payroll.AdvanceUpsertRequest{
		EmployeeID: "emp-1",
		Month:      "2024-04",
		Amount:     dec("2000"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	// upsert for the same (employee, month) replaces, never duplicates
	updated, err := env.service.UpsertAdvance(context.Background(), payroll.AdvanceUpsertRequest{
		EmployeeID: "emp-1",
		Month:      "2024-04",
		Amount:     dec("2500"),
	})
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)

	listed, err := env.service.ListAdvances(context.Background(), "2024-04")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, dec("2500").Equal(listed[0].Amount))
}

func TestUpsertAdvance_UnknownEmployee(t *testing.T) {
	t.Parallel()

	env := newTestEnv()
	_, err := env.service.UpsertAdvance(context.Background(), payroll.AdvanceUpsertRequest{
		EmployeeID: "ghost",
		Month:      "2024-04",
		Amount:     dec("100"),
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestUpsertAdvance_RejectsNegativeAmount(t *testing.T) {
	t.Parallel()

	env := newTestEnv(guard("emp-1", "G-100", "1", 30000))
	_, err := env.service.UpsertAdvance(context.Background(), payroll.AdvanceUpsertRequest{
		EmployeeID: "emp-1",
		Month:      "2024-04",
		Amount:     dec("-5"),
	})
	require.Error(t, err)
}
