package attendance

import (
	"context"
	"time"
)

// AttendanceRepository reads raw per-day rows. The upper bound is always
// exclusive; period resolution decides what that bound is.
type AttendanceRepository interface {
	ListBetween(ctx context.Context, from, toExclusive time.Time) ([]Record, error)
}
