package postgresql

import (
	"context"
	"fmt"

	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type advanceRepository struct {
	db *database.DB
}

func NewAdvanceRepository(db *database.DB) payroll.AdvanceRepository {
	return &advanceRepository{db: db}
}

func (r *advanceRepository) GetMonthDeductions(ctx context.Context, month string) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, amount
		FROM advance_deductions
		WHERE month = $1
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to get advance deductions: %w", err)
	}
	defer rows.Close()

	result := make(map[string]decimal.Decimal)
	for rows.Next() {
		var employeeID string
		var amount decimal.Decimal
		if err := rows.Scan(&employeeID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan advance deduction: %w", err)
		}
		result[employeeID] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read advance deductions: %w", err)
	}

	return result, nil
}

func (r *advanceRepository) ListByMonth(ctx context.Context, month string) ([]payroll.AdvanceDeduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, month, amount, note, created_at, updated_at
		FROM advance_deductions
		WHERE month = $1
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list advance deductions: %w", err)
	}
	defer rows.Close()

	var advances []payroll.AdvanceDeduction
	for rows.Next() {
		var a payroll.AdvanceDeduction
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Month, &a.Amount, &a.Note, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan advance deduction: %w", err)
		}
		advances = append(advances, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read advance deductions: %w", err)
	}

	return advances, nil
}

func (r *advanceRepository) Upsert(ctx context.Context, adv payroll.AdvanceDeduction) (payroll.AdvanceDeduction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO advance_deductions (employee_id, month, amount, note)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (employee_id, month) DO UPDATE SET
			amount = EXCLUDED.amount,
			note = EXCLUDED.note,
			updated_at = NOW()
		RETURNING id, employee_id, month, amount, note, created_at, updated_at
	`

	var a payroll.AdvanceDeduction
	err := q.QueryRow(ctx, query, adv.EmployeeID, adv.Month, adv.Amount, adv.Note).Scan(
		&a.ID, &a.EmployeeID, &a.Month, &a.Amount, &a.Note, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return payroll.AdvanceDeduction{}, fmt.Errorf("failed to upsert advance deduction: %w", err)
	}

	return a, nil
}
