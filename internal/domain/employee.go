package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryComponent is a named allowance or deduction.
type SalaryComponent struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Employee is the salary configuration payroll reads for one person.
// The roster is owned elsewhere; the engines never write it.
type Employee struct {
	ID                  string            `json:"id"`
	CompanyID           string            `json:"company_id"`
	EmployeeNo          string            `json:"employee_no"`
	Name                string            `json:"name"`
	Active              bool              `json:"active"`
	BasicSalary         decimal.Decimal   `json:"basic_salary"`
	Allowances          []SalaryComponent `json:"allowances"`
	Deductions          []SalaryComponent `json:"deductions"`
	BPJSKesehatan       bool              `json:"bpjs_kesehatan"`
	BPJSKetenagakerjaan bool              `json:"bpjs_ketenagakerjaan"`
	PTKPStatus          PTKPStatus        `json:"ptkp_status"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
	DeletedAt           *time.Time        `json:"deleted_at,omitempty"`
}

// SumComponents totals a list of allowances or deductions.
func SumComponents(items []SalaryComponent) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
