package payroll

import (
	"fmt"
	"time"

	"github.com/sentra-erp/payroll-backend-go/internal/pkg/validator"
)

type PeriodMode string

const (
	// PeriodModeMonth covers a whole calendar month; To is the last day,
	// inclusive, and working days equal the month length.
	PeriodModeMonth PeriodMode = "month"
	// PeriodModeRange covers an arbitrary window; To is exclusive and working
	// days are the width of the window. The two modes deliberately disagree
	// about the upper bound because the day rate divides by working days.
	PeriodModeRange PeriodMode = "range"
)

// Period is the resolved payroll window. Label is the canonical YYYY-MM month
// used to key advance deductions and payment statuses.
type Period struct {
	Mode        PeriodMode
	From        time.Time
	To          time.Time
	WorkingDays int
	Label       string
}

// UpperBound returns the exclusive end of the attendance scan regardless of
// mode.
func (p Period) UpperBound() time.Time {
	if p.Mode == PeriodModeMonth {
		return p.To.AddDate(0, 0, 1)
	}
	return p.To
}

// ResolveMonth builds a Period for a whole calendar month ("YYYY-MM").
func ResolveMonth(month string) (Period, error) {
	first, ok := validator.IsValidMonth(month)
	if !ok {
		return Period{}, fmt.Errorf("%w: month %q is not YYYY-MM", ErrBadPeriod, month)
	}

	last := first.AddDate(0, 1, -1)
	return Period{
		Mode:        PeriodModeMonth,
		From:        first,
		To:          last,
		WorkingDays: last.Day(),
		Label:       first.Format("2006-01"),
	}, nil
}

// ResolveRange builds a Period for an explicit [fromDate, toDate) window.
// The month label defaults to toDate's month when not supplied.
func ResolveRange(fromDate, toDate, month string) (Period, error) {
	from, ok := validator.IsValidDate(fromDate)
	if !ok {
		return Period{}, fmt.Errorf("%w: from_date %q is not YYYY-MM-DD", ErrBadPeriod, fromDate)
	}
	to, ok := validator.IsValidDate(toDate)
	if !ok {
		return Period{}, fmt.Errorf("%w: to_date %q is not YYYY-MM-DD", ErrBadPeriod, toDate)
	}
	if from.After(to) {
		return Period{}, fmt.Errorf("%w: from_date %s is after to_date %s", ErrBadPeriod, fromDate, toDate)
	}

	label := to.Format("2006-01")
	if month != "" {
		m, ok := validator.IsValidMonth(month)
		if !ok {
			return Period{}, fmt.Errorf("%w: month %q is not YYYY-MM", ErrBadPeriod, month)
		}
		label = m.Format("2006-01")
	}

	return Period{
		Mode:        PeriodModeRange,
		From:        from,
		To:          to,
		WorkingDays: int(to.Sub(from).Hours() / 24),
		Label:       label,
	}, nil
}
