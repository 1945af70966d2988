package postgresql

import (
	"context"
	"fmt"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
)

type paymentStatusRepository struct {
	db *database.DB
}

func NewPaymentStatusRepository(db *database.DB) payroll.PaymentStatusRepository {
	return &paymentStatusRepository{db: db}
}

func (r *paymentStatusRepository) GetByMonth(ctx context.Context, month string) (map[string]payroll.PaymentStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_code, month, status, net_pay_snapshot, created_at, updated_at
		FROM payment_statuses
		WHERE month = $1
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment statuses: %w", err)
	}
	defer rows.Close()

	result := make(map[string]payroll.PaymentStatus)
	for rows.Next() {
		var s payroll.PaymentStatus
		if err := rows.Scan(&s.ID, &s.EmployeeCode, &s.Month, &s.Status, &s.NetPaySnapshot, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment status: %w", err)
		}
		result[s.EmployeeCode] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read payment statuses: %w", err)
	}

	return result, nil
}

// Upsert writes status and snapshot in one statement so readers never observe
// one without the other; the (employee_code, month) constraint collapses
// concurrent markers onto a single row.
func (r *paymentStatusRepository) Upsert(ctx context.Context, status payroll.PaymentStatus) (payroll.PaymentStatus, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payment_statuses (employee_code, month, status, net_pay_snapshot)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_code, month) DO UPDATE SET
			status = EXCLUDED.status,
			net_pay_snapshot = EXCLUDED.net_pay_snapshot,
			updated_at = NOW()
		RETURNING id, employee_code, month, status, net_pay_snapshot, created_at, updated_at
	`

	var s payroll.PaymentStatus
	err := q.QueryRow(ctx, query, status.EmployeeCode, status.Month, status.Status, status.NetPaySnapshot).Scan(
		&s.ID, &s.EmployeeCode, &s.Month, &s.Status, &s.NetPaySnapshot, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return payroll.PaymentStatus{}, fmt.Errorf("failed to upsert payment status: %w", err)
	}

	return s, nil
}
