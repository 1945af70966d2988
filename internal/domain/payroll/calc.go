package payroll

import "github.com/shopspring/decimal"

var minutesPerHour = decimal.NewFromInt(60)

// ComputeInput is everything the computer needs for one employee. Sheet is
// the zero value when no override row exists for the period.
type ComputeInput struct {
	Mode             PeriodMode
	BaseSalary       decimal.Decimal
	WorkingDays      int
	Counters         Counters
	Sheet            SheetEntry
	AdvanceDeduction decimal.Decimal
}

// Figures is the computed money side of a payroll row. Values keep full
// precision; rounding to two decimals happens only when rows are shaped for
// output.
type Figures struct {
	DayRate       decimal.Decimal
	PresentsTotal int
	TotalDays     int
	CurDays       int
	TotalSalary   decimal.Decimal
	OvertimeRate  decimal.Decimal
	OvertimePay   decimal.Decimal
	GrossPay      decimal.Decimal
	FineAdv       decimal.Decimal
	NetPay        decimal.Decimal
}

// Compute produces the payroll figures for one employee. It never fails:
// missing inputs arrive as zero values and yield a zero-heavy but valid row.
// Negative outcomes (an advance larger than the gross) are surfaced verbatim.
func Compute(in ComputeInput) Figures {
	var f Figures

	if in.WorkingDays > 0 {
		f.DayRate = in.BaseSalary.Div(decimal.NewFromInt(int64(in.WorkingDays)))
	}

	f.PresentsTotal = in.Counters.PresentDays + in.Counters.LateDays + in.Counters.PaidLeaveDays

	encashment := in.Sheet.LeaveEncashmentDays
	if encashment < 0 {
		encashment = 0
	}
	f.TotalDays = f.PresentsTotal + encashment
	if f.TotalDays < 0 {
		f.TotalDays = 0
	}

	f.TotalSalary = f.DayRate.Mul(decimal.NewFromInt(int64(f.TotalDays)))

	f.OvertimeRate, f.OvertimePay = overtime(in)

	f.GrossPay = f.TotalSalary.
		Add(f.OvertimePay).
		Add(in.Sheet.OTBonusAmount).
		Add(in.Sheet.AllowOther)

	f.FineAdv = in.Counters.FineDeduction.
		Add(in.AdvanceDeduction).
		Add(in.Sheet.FineAdvExtra)

	f.NetPay = f.GrossPay.
		Sub(in.Sheet.EOBI).
		Sub(in.Sheet.Tax).
		Sub(f.FineAdv).
		Sub(in.Counters.LateDeduction)

	// cur_days is display-only: the override wins, otherwise the attendance
	// tally when there is one. It never feeds back into the salary math.
	switch {
	case in.Sheet.CurDays != nil:
		f.CurDays = *in.Sheet.CurDays
	case f.PresentsTotal > 0:
		f.CurDays = f.PresentsTotal
	}

	return f
}

// overtime applies the mode-specific rule. Range reports pay flat per OT day
// at the sheet's manual rate; monthly reports pay the amounts accumulated per
// day, except that a positive sheet rate reprices the worked-day minutes.
func overtime(in ComputeInput) (rate, pay decimal.Decimal) {
	if in.Mode == PeriodModeRange {
		rate = in.Sheet.OTRateOverride
		pay = rate.Mul(decimal.NewFromInt(int64(in.Counters.OTDays)))
		return rate, pay
	}

	if in.Sheet.OTRateOverride.IsPositive() {
		rate = in.Sheet.OTRateOverride
		hours := decimal.NewFromInt(int64(in.Counters.PayableOvertimeMinutes)).Div(minutesPerHour)
		return rate, hours.Mul(rate)
	}

	return in.Counters.LastOTRate, in.Counters.OvertimePay
}
