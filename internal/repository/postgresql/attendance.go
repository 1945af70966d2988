package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/attendance"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListBetween(ctx context.Context, from, toExclusive time.Time) ([]attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_key, date, status, leave_type,
			   COALESCE(overtime_minutes, 0), COALESCE(overtime_rate, 0),
			   COALESCE(late_minutes, 0), COALESCE(late_deduction, 0),
			   COALESCE(fine_amount, 0), note, created_at, updated_at
		FROM attendances
		WHERE date >= $1 AND date < $2
		ORDER BY date, employee_key
	`

	rows, err := q.Query(ctx, query, from, toExclusive)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var rec attendance.Record
		var rawStatus string
		var rawLeaveType *string
		if err := rows.Scan(
			&rec.ID, &rec.EmployeeKey, &rec.Date, &rawStatus, &rawLeaveType,
			&rec.OvertimeMinutes, &rec.OvertimeRate,
			&rec.LateMinutes, &rec.LateDeduction,
			&rec.FineAmount, &rec.Note, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}

		// Stored statuses are free-form legacy strings; the engine only ever
		// sees the normalized form.
		lt := ""
		if rawLeaveType != nil {
			lt = *rawLeaveType
		}
		rec.Status, rec.LeaveType = attendance.Normalize(rawStatus, lt)

		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attendance records: %w", err)
	}

	return records, nil
}
