package employee

import "context"

// ContactUpdate carries the optional fields the payroll sheet editor syncs
// back onto the employee record. Nil fields are left untouched.
type ContactUpdate struct {
	Mobile        *string
	BankName      *string
	BankAccountNo *string
}

type EmployeeRepository interface {
	List(ctx context.Context) ([]Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	UpdateContact(ctx context.Context, id string, update ContactUpdate) error
}
