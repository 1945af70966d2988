package payroll

import (
	"github.com/sentra-erp/payroll-backend-go/internal/domain/attendance"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// buildEmployeeIndex maps every identifier an employee may appear under in
// historical attendance data back to the internal id. Earlier keys win when
// two employees collide on a legacy code.
func buildEmployeeIndex(employees []employee.Employee) map[string]string {
	index := make(map[string]string, len(employees))
	for _, emp := range employees {
		for _, key := range emp.LookupKeys() {
			if _, taken := index[key]; !taken {
				index[key] = emp.ID
			}
		}
	}
	return index
}

// aggregateAttendance folds normalized day rows into per-employee counters,
// keyed by internal employee id. Rows whose key resolves to no known employee
// are dropped. Present and late stay disjoint; the computer combines them.
func aggregateAttendance(records []attendance.Record, index map[string]string) map[string]payroll.Counters {
	counters := make(map[string]payroll.Counters)

	for _, rec := range records {
		employeeID, ok := index[rec.EmployeeKey]
		if !ok {
			continue
		}
		c := counters[employeeID]

		switch rec.Status {
		case attendance.StatusPresent:
			c.PresentDays++
		case attendance.StatusLate:
			c.LateDays++
		case attendance.StatusAbsent:
			c.AbsentDays++
		case attendance.StatusLeave:
			if rec.LeaveType != nil && *rec.LeaveType == attendance.LeavePaid {
				c.PaidLeaveDays++
			} else {
				c.UnpaidLeaveDays++
			}
		}

		if isOvertimeDay(rec) {
			c.OTDays++
			c.PayableOvertimeMinutes += rec.OvertimeMinutes
			hours := decimal.NewFromInt(int64(rec.OvertimeMinutes)).Div(minutesPerHour)
			c.OvertimePay = c.OvertimePay.Add(hours.Mul(rec.OvertimeRate))
			if !rec.OvertimeRate.IsZero() {
				c.LastOTRate = rec.OvertimeRate
			}
		}

		c.OvertimeMinutes += rec.OvertimeMinutes
		c.LateMinutes += rec.LateMinutes
		c.LateDeduction = c.LateDeduction.Add(rec.LateDeduction)
		c.FineDeduction = c.FineDeduction.Add(rec.FineAmount)

		counters[employeeID] = c
	}

	return counters
}

// isOvertimeDay: overtime only counts on days the employee actually showed
// up, and only when minutes or a rate were logged.
func isOvertimeDay(rec attendance.Record) bool {
	if rec.Status != attendance.StatusPresent && rec.Status != attendance.StatusLate {
		return false
	}
	return rec.OvertimeMinutes > 0 || !rec.OvertimeRate.IsZero()
}
