package payroll

import (
	"testing"
	"time"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/attendance"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func leavePtr(lt attendance.LeaveType) *attendance.LeaveType { return &lt }

func day(n int) time.Time {
	return time.Date(2024, 4, n, 0, 0, 0, 0, time.UTC)
}

func TestBuildEmployeeIndex_MultiKeyLookup(t *testing.T) {
	t.Parallel()

	employees := []employee.Employee{
		{ID: "emp-1", Code: "G-100", OldCode: strPtr("OLD-7"), SerialNo: "15"},
		{ID: "emp-2", Code: "G-200", SerialNo: "16"},
	}

	index := buildEmployeeIndex(employees)

	assert.Equal(t, "emp-1", index["G-100"])
	assert.Equal(t, "emp-1", index["OLD-7"])
	assert.Equal(t, "emp-1", index["15"])
	assert.Equal(t, "emp-2", index["G-200"])
	assert.Equal(t, "emp-2", index["16"])
	_, found := index["unknown"]
	assert.False(t, found)
}

func TestBuildEmployeeIndex_EarlierEmployeeWinsCollision(t *testing.T) {
	t.Parallel()

	employees := []employee.Employee{
		{ID: "emp-1", Code: "G-100", SerialNo: "15"},
		{ID: "emp-2", Code: "G-200", OldCode: strPtr("G-100"), SerialNo: "16"},
	}

	index := buildEmployeeIndex(employees)
	assert.Equal(t, "emp-1", index["G-100"])
}

func TestAggregateAttendance_CountersDisjoint(t *testing.T) {
	t.Parallel()

	index := map[string]string{"G-100": "emp-1"}
	records := []attendance.Record{
		{EmployeeKey: "G-100", Date: day(1), Status: attendance.StatusPresent},
		{EmployeeKey: "G-100", Date: day(2), Status: attendance.StatusPresent},
		{EmployeeKey: "G-100", Date: day(3), Status: attendance.StatusLate, LateMinutes: 20},
		{EmployeeKey: "G-100", Date: day(4), Status: attendance.StatusAbsent},
		{EmployeeKey: "G-100", Date: day(5), Status: attendance.StatusLeave, LeaveType: leavePtr(attendance.LeavePaid)},
		{EmployeeKey: "G-100", Date: day(6), Status: attendance.StatusLeave, LeaveType: leavePtr(attendance.LeaveUnpaid)},
		{EmployeeKey: "G-100", Date: day(7), Status: attendance.StatusUnmarked},
	}

	counters := aggregateAttendance(records, index)
	require.Contains(t, counters, "emp-1")
	c := counters["emp-1"]

	assert.Equal(t, 2, c.PresentDays)
	assert.Equal(t, 1, c.LateDays)
	assert.Equal(t, 1, c.AbsentDays)
	assert.Equal(t, 1, c.PaidLeaveDays)
	assert.Equal(t, 1, c.UnpaidLeaveDays)
	assert.Equal(t, 20, c.LateMinutes)
}

func TestAggregateAttendance_LeaveWithoutTypeIsUnpaid(t *testing.T) {
	t.Parallel()

	index := map[string]string{"G-100": "emp-1"}
	records := []attendance.Record{
		{EmployeeKey: "G-100", Date: day(1), Status: attendance.StatusLeave},
	}

	c := aggregateAttendance(records, index)["emp-1"]
	assert.Equal(t, 0, c.PaidLeaveDays)
	assert.Equal(t, 1, c.UnpaidLeaveDays)
}

func TestAggregateAttendance_OvertimeOnlyOnWorkedDays(t *testing.T) {
	t.Parallel()

	index := map[string]string{"G-100": "emp-1"}
	rate := decimal.NewFromInt(150)
	records := []attendance.Record{
		{EmployeeKey: "G-100", Date: day(1), Status: attendance.StatusPresent, OvertimeMinutes: 60, OvertimeRate: rate},
		{EmployeeKey: "G-100", Date: day(2), Status: attendance.StatusLate, OvertimeMinutes: 30, OvertimeRate: rate},
		// OT logged against an absent day never counts.
		{EmployeeKey: "G-100", Date: day(3), Status: attendance.StatusAbsent, OvertimeMinutes: 120, OvertimeRate: rate},
		// Present day with nothing logged is not an OT day.
		{EmployeeKey: "G-100", Date: day(4), Status: attendance.StatusPresent},
	}

	c := aggregateAttendance(records, index)["emp-1"]

	assert.Equal(t, 2, c.OTDays)
	// 60m and 30m at 150/h
	assert.True(t, decimal.NewFromInt(225).Equal(c.OvertimePay), "got %s", c.OvertimePay)
	assert.True(t, rate.Equal(c.LastOTRate))
	// Raw minute totals still accumulate across every row; only worked-day
	// minutes are payable.
	assert.Equal(t, 210, c.OvertimeMinutes)
	assert.Equal(t, 90, c.PayableOvertimeMinutes)
}

func TestAggregateAttendance_PerDayRatesAccumulate(t *testing.T) {
	t.Parallel()

	index := map[string]string{"G-100": "emp-1"}
	records := []attendance.Record{
		{EmployeeKey: "G-100", Date: day(1), Status: attendance.StatusPresent, OvertimeMinutes: 60, OvertimeRate: decimal.NewFromInt(100)},
		{EmployeeKey: "G-100", Date: day(2), Status: attendance.StatusPresent, OvertimeMinutes: 60, OvertimeRate: decimal.NewFromInt(200)},
	}

	c := aggregateAttendance(records, index)["emp-1"]
	assert.True(t, decimal.NewFromInt(300).Equal(c.OvertimePay), "got %s", c.OvertimePay)
	assert.True(t, decimal.NewFromInt(200).Equal(c.LastOTRate))
}

func TestAggregateAttendance_UnknownKeysDropped(t *testing.T) {
	t.Parallel()

	index := map[string]string{"G-100": "emp-1"}
	records := []attendance.Record{
		{EmployeeKey: "ghost", Date: day(1), Status: attendance.StatusPresent},
	}

	counters := aggregateAttendance(records, index)
	assert.Empty(t, counters)
}

func TestAggregateAttendance_FinesAndLateDeductionsSum(t *testing.T) {
	t.Parallel()

	index := map[string]string{"G-100": "emp-1"}
	records := []attendance.Record{
		{EmployeeKey: "G-100", Date: day(1), Status: attendance.StatusPresent, FineAmount: decimal.NewFromInt(100)},
		{EmployeeKey: "G-100", Date: day(2), Status: attendance.StatusLate, LateDeduction: decimal.NewFromInt(50), FineAmount: decimal.NewFromInt(200)},
	}

	c := aggregateAttendance(records, index)["emp-1"]
	assert.True(t, decimal.NewFromInt(300).Equal(c.FineDeduction))
	assert.True(t, decimal.NewFromInt(50).Equal(c.LateDeduction))
}
