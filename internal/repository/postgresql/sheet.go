package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/payroll"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
)

type sheetRepository struct {
	db *database.DB
}

func NewSheetRepository(db *database.DB) payroll.SheetRepository {
	return &sheetRepository{db: db}
}

const sheetColumns = `
	id, employee_id, from_date, to_date, pre_days, cur_days,
	leave_encashment_days, allow_other, eobi, tax, fine_adv_extra,
	ot_rate, ot_bonus_amount, remarks, bank_cash, created_at, updated_at
`

func (r *sheetRepository) GetByPeriod(ctx context.Context, from, to time.Time) (map[string]payroll.SheetEntry, error) {
	entries, err := r.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	result := make(map[string]payroll.SheetEntry, len(entries))
	for _, e := range entries {
		result[e.EmployeeID] = e
	}
	return result, nil
}

func (r *sheetRepository) ListByPeriod(ctx context.Context, from, to time.Time) ([]payroll.SheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sheetColumns + `
		FROM payroll_sheets
		WHERE from_date = $1 AND to_date = $2
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sheet entries: %w", err)
	}
	defer rows.Close()

	var entries []payroll.SheetEntry
	for rows.Next() {
		e, err := scanSheetEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sheet entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sheet entries: %w", err)
	}

	return entries, nil
}

func (r *sheetRepository) GetByID(ctx context.Context, id string) (payroll.SheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + sheetColumns + `
		FROM payroll_sheets
		WHERE id = $1
	`

	e, err := scanSheetEntry(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.SheetEntry{}, payroll.ErrSheetEntryNotFound
		}
		return payroll.SheetEntry{}, fmt.Errorf("failed to get sheet entry: %w", err)
	}

	return e, nil
}

// Upsert writes one override row. The (employee_id, from_date, to_date)
// uniqueness constraint makes a concurrent duplicate converge on one row, so
// a losing writer's retry is idempotent.
func (r *sheetRepository) Upsert(ctx context.Context, entry payroll.SheetEntry) (payroll.SheetEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_sheets (
			employee_id, from_date, to_date, pre_days, cur_days,
			leave_encashment_days, allow_other, eobi, tax, fine_adv_extra,
			ot_rate, ot_bonus_amount, remarks, bank_cash
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (employee_id, from_date, to_date) DO UPDATE SET
			pre_days = EXCLUDED.pre_days,
			cur_days = EXCLUDED.cur_days,
			leave_encashment_days = EXCLUDED.leave_encashment_days,
			allow_other = EXCLUDED.allow_other,
			eobi = EXCLUDED.eobi,
			tax = EXCLUDED.tax,
			fine_adv_extra = EXCLUDED.fine_adv_extra,
			ot_rate = EXCLUDED.ot_rate,
			ot_bonus_amount = EXCLUDED.ot_bonus_amount,
			remarks = EXCLUDED.remarks,
			bank_cash = EXCLUDED.bank_cash,
			updated_at = NOW()
		RETURNING ` + sheetColumns + `
	`

	e, err := scanSheetEntry(q.QueryRow(ctx, query,
		entry.EmployeeID, entry.FromDate, entry.ToDate, entry.PreDays, entry.CurDays,
		entry.LeaveEncashmentDays, entry.AllowOther, entry.EOBI, entry.Tax, entry.FineAdvExtra,
		entry.OTRateOverride, entry.OTBonusAmount, entry.Remarks, entry.BankCash,
	))
	if err != nil {
		return payroll.SheetEntry{}, fmt.Errorf("failed to upsert sheet entry: %w", err)
	}

	return e, nil
}

func (r *sheetRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_sheets WHERE id = $1 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrSheetEntryNotFound
		}
		return fmt.Errorf("failed to delete sheet entry: %w", err)
	}

	return nil
}

func scanSheetEntry(row pgx.Row) (payroll.SheetEntry, error) {
	var e payroll.SheetEntry
	err := row.Scan(
		&e.ID, &e.EmployeeID, &e.FromDate, &e.ToDate, &e.PreDays, &e.CurDays,
		&e.LeaveEncashmentDays, &e.AllowOther, &e.EOBI, &e.Tax, &e.FineAdvExtra,
		&e.OTRateOverride, &e.OTBonusAmount, &e.Remarks, &e.BankCash, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return payroll.SheetEntry{}, err
	}
	return e, nil
}
