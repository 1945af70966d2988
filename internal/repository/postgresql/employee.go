package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sentra-erp/payroll-backend-go/internal/domain/employee"
	"github.com/sentra-erp/payroll-backend-go/internal/pkg/database"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `
	id, code, old_code, serial_no, full_name, father_name, cnic, mobile,
	fss_no, eobi_no, bank_accounts, base_salary, created_at, updated_at
`

func (r *employeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		ORDER BY serial_no
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}

	return employees, nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return e, nil
}

func (r *employeeRepository) UpdateContact(ctx context.Context, id string, update employee.ContactUpdate) error {
	q := GetQuerier(ctx, r.db)

	if update.Mobile == nil && update.BankName == nil && update.BankAccountNo == nil {
		return nil
	}

	if update.Mobile != nil {
		query := `UPDATE employees SET mobile = $2, updated_at = NOW() WHERE id = $1 RETURNING id`
		var updatedID string
		if err := q.QueryRow(ctx, query, id, *update.Mobile).Scan(&updatedID); err != nil {
			if err == pgx.ErrNoRows {
				return employee.ErrEmployeeNotFound
			}
			return fmt.Errorf("failed to update employee mobile: %w", err)
		}
	}

	if update.BankName != nil || update.BankAccountNo != nil {
		if err := r.updateFirstBankAccount(ctx, id, update); err != nil {
			return err
		}
	}

	return nil
}

// updateFirstBankAccount rewrites position zero of the bank_accounts JSON
// array, preserving the rest of the list.
func (r *employeeRepository) updateFirstBankAccount(ctx context.Context, id string, update employee.ContactUpdate) error {
	q := GetQuerier(ctx, r.db)

	var raw []byte
	err := q.QueryRow(ctx, `SELECT bank_accounts FROM employees WHERE id = $1`, id).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to read employee bank accounts: %w", err)
	}

	var accounts []employee.BankAccount
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &accounts); err != nil {
			return fmt.Errorf("failed to decode employee bank accounts: %w", err)
		}
	}
	if len(accounts) == 0 {
		accounts = append(accounts, employee.BankAccount{})
	}
	if update.BankName != nil {
		accounts[0].BankName = *update.BankName
	}
	if update.BankAccountNo != nil {
		accounts[0].AccountNumber = *update.BankAccountNo
	}

	encoded, err := json.Marshal(accounts)
	if err != nil {
		return fmt.Errorf("failed to encode employee bank accounts: %w", err)
	}

	_, err = q.Exec(ctx, `UPDATE employees SET bank_accounts = $2, updated_at = NOW() WHERE id = $1`, id, encoded)
	if err != nil {
		return fmt.Errorf("failed to update employee bank accounts: %w", err)
	}

	return nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	var bankAccounts []byte
	err := row.Scan(
		&e.ID, &e.Code, &e.OldCode, &e.SerialNo, &e.FullName, &e.FatherName, &e.CNIC, &e.Mobile,
		&e.FSSNo, &e.EOBINo, &bankAccounts, &e.BaseSalary, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if len(bankAccounts) > 0 {
		if err := json.Unmarshal(bankAccounts, &e.BankAccounts); err != nil {
			return employee.Employee{}, fmt.Errorf("failed to decode employee bank accounts: %w", err)
		}
	}
	return e, nil
}
