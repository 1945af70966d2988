package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenRows simulates a connection severed mid-scan: Next reports no more
// rows and the failure only surfaces through Err.
type brokenRows struct {
	pgx.Rows
	err error
}

func (r brokenRows) Next() bool { return false }
func (r brokenRows) Err() error { return r.err }
func (r brokenRows) Close() {}

// stubTx satisfies the ambient-transaction lookup so repository calls hit the
// stub instead of a real pool.
type stubTx struct {
	pgx.Tx
	rows pgx.Rows
}

func (s stubTx) Query(_ context.Context, _ string, _ ...interface{}) (pgx.Rows, error) {
	return s.rows, nil
}

func brokenCtx(err error) context.Context {
	return context.WithValue(context.Background(), txKey{}, stubTx{rows: brokenRows{err: err}})
}

func TestListQueries_SurfaceMidScanErrors(t *testing.T) {
	t.Parallel()

	scanErr := errors.New("connection reset")
	ctx := brokenCtx(scanErr)
	db := &database.DB{}
	from := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	// A truncated result set must never come back as a short slice with a nil
	// error; every list query reports the iteration failure.

	t.Run("attendance", func(t *testing.T) {
		_, err := NewAttendanceRepository(db).ListBetween(ctx, from, to)
		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("employees", func(t *testing.T) {
		_, err := NewEmployeeRepository(db).List(ctx)
		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("sheet entries", func(t *testing.T) {
		_, err := NewSheetRepository(db).ListByPeriod(ctx, from, to)
		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("sheet entries by period map", func(t *testing.T) {
		_, err := NewSheetRepository(db).GetByPeriod(ctx, from, to)
		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("advance deduction map", func(t *testing.T) {
		_, err := NewAdvanceRepository(db).GetMonthDeductions(ctx, "2024-04")
		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("advance deduction list", func(t *testing.T) {
		_, err := NewAdvanceRepository(db).ListByMonth(ctx, "2024-04")
		assert.ErrorIs(t, err, scanErr)
	})

	t.Run("payment statuses", func(t *testing.T) {
		_, err := NewPaymentStatusRepository(db).GetByMonth(ctx, "2024-04")
		assert.ErrorIs(t, err, scanErr)
	})
}

// employeeRow hands scanEmployee a fixed row with the given bank_accounts
// payload.
type employeeRow struct {
	bankAccounts []byte
}

func (r employeeRow) Scan(dest ...interface{}) error {
	*(dest[0].(*string)) = "emp-1"
	*(dest[1].(*string)) = "G-100"
	*(dest[3].(*string)) = "1"
	*(dest[4].(*string)) = "Guard G-100"
	*(dest[6].(*string)) = "35202-1234567-1"
	*(dest[10].(*[]byte)) = r.bankAccounts
	return nil
}

func TestScanEmployee_BankAccounts(t *testing.T) {
	t.Parallel()

	e, err := scanEmployee(employeeRow{bankAccounts: []byte(`[{"bank_name":"HBL","account_number":"PK36-0001"}]`)})
	require.NoError(t, err)
	require.Len(t, e.BankAccounts, 1)
	assert.Equal(t, "HBL", e.BankAccounts[0].BankName)

	// corrupt stored JSON is an error, not an employee without accounts
	_, err = scanEmployee(employeeRow{bankAccounts: []byte(`{"bank_name":`)})
	require.Error(t, err)

	e, err = scanEmployee(employeeRow{})
	require.NoError(t, err)
	assert.Empty(t, e.BankAccounts)
}
