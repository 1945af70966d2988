package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the master record the payroll engine reads. Guards are
// identified externally by their registration code; older attendance data may
// still be keyed by the legacy code or the serial number, so lookups must
// consult every key (see LookupKeys).
type Employee struct {
	ID           string
	Code         string  // preferred external identifier
	OldCode      *string // legacy identifier kept for historical rows
	SerialNo     string
	FullName     string
	FatherName   *string
	CNIC         string
	Mobile       *string
	FSSNo        *string
	EOBINo       *string
	BankAccounts []BankAccount
	BaseSalary   decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BankAccount entries are stored on the employee row as a JSON array; payroll
// exports use the first one.
type BankAccount struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
}

// ExternalID picks the identifier used for new payroll-facing rows:
// registration code when present, the legacy code otherwise, and the internal
// id as a last resort.
func (e Employee) ExternalID() string {
	if e.Code != "" {
		return e.Code
	}
	if e.OldCode != nil && *e.OldCode != "" {
		return *e.OldCode
	}
	return e.ID
}

// LookupKeys returns every identifier historical attendance rows may have been
// written under, de-duplicated and without empties.
func (e Employee) LookupKeys() []string {
	seen := make(map[string]struct{}, 3)
	var keys []string
	add := func(k string) {
		if k == "" {
			return
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	add(e.Code)
	if e.OldCode != nil {
		add(*e.OldCode)
	}
	add(e.SerialNo)
	return keys
}

// FirstBankAccount returns the export-facing bank details, empty when the
// employee has no accounts on file.
func (e Employee) FirstBankAccount() BankAccount {
	if len(e.BankAccounts) == 0 {
		return BankAccount{}
	}
	return e.BankAccounts[0]
}
