package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the normalized attendance marker. Raw rows captured over the
// years carry free-form strings; Normalize folds them into this closed set
// before anything downstream reads them.
type Status string

const (
	StatusPresent  Status = "present"
	StatusLate     Status = "late"
	StatusAbsent   Status = "absent"
	StatusLeave    Status = "leave"
	StatusUnmarked Status = "unmarked"
)

type LeaveType string

const (
	LeavePaid   LeaveType = "paid"
	LeaveUnpaid LeaveType = "unpaid"
)

// Record is a single per-employee per-day attendance row. EmployeeKey holds
// whatever identifier the row was captured under; resolution against the
// employee master happens in the aggregator.
type Record struct {
	ID              string
	EmployeeKey     string
	Date            time.Time
	Status          Status
	LeaveType       *LeaveType
	OvertimeMinutes int
	OvertimeRate    decimal.Decimal
	LateMinutes     int
	LateDeduction   decimal.Decimal
	FineAmount      decimal.Decimal
	Note            *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Normalize maps a raw status / leave-type pair onto the closed Status set.
// It is idempotent: feeding its own output back in returns the same pair.
func Normalize(rawStatus, rawLeaveType string) (Status, *LeaveType) {
	status := strings.ToLower(strings.TrimSpace(rawStatus))
	leave := normalizeLeaveType(rawLeaveType)

	switch {
	case status == "" || status == "-":
		return StatusUnmarked, nil
	case strings.HasPrefix(status, "leave"):
		if leave == nil {
			leave = inferLeaveType(status)
		}
		return StatusLeave, leave
	case status == string(StatusPresent), status == string(StatusLate), status == string(StatusAbsent):
		return Status(status), nil
	default:
		return Status(status), leave
	}
}

func normalizeLeaveType(raw string) *LeaveType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(LeavePaid):
		lt := LeavePaid
		return &lt
	case string(LeaveUnpaid):
		lt := LeaveUnpaid
		return &lt
	default:
		return nil
	}
}

// inferLeaveType recovers the leave type from status strings like
// "leave (unpaid)" written before leave_type became its own column.
func inferLeaveType(status string) *LeaveType {
	if strings.Contains(status, "unpaid") {
		lt := LeaveUnpaid
		return &lt
	}
	if strings.Contains(status, "paid") {
		lt := LeavePaid
		return &lt
	}
	return nil
}
