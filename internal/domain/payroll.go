package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus is the lifecycle state of a payroll batch.
type PayrollStatus string

const (
	PayrollStatusDraft     PayrollStatus = "DRAFT"
	PayrollStatusProcessed PayrollStatus = "PROCESSED"
	PayrollStatusPaid      PayrollStatus = "PAID"
)

// BPJSRates are the employee-side social security contribution rates,
// applied to basic salary.
type BPJSRates struct {
	Kesehatan       decimal.Decimal
	Ketenagakerjaan decimal.Decimal
}

// DefaultBPJSRates returns 1% health and 2% employment.
func DefaultBPJSRates() BPJSRates {
	return BPJSRates{
		Kesehatan:       decimal.RequireFromString("0.01"),
		Ketenagakerjaan: decimal.RequireFromString("0.02"),
	}
}

// Payroll is the company-wide header for one month.
type Payroll struct {
	ID              string          `json:"id"`
	CompanyID       string          `json:"company_id"`
	Month           int             `json:"month"`
	Year            int             `json:"year"`
	Status          PayrollStatus   `json:"status"`
	EmployeeCount   int             `json:"employee_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalBPJS       decimal.Decimal `json:"total_bpjs"`
	TotalTax        decimal.Decimal `json:"total_tax"`
	TotalNet        decimal.Decimal `json:"total_net"`
	JournalID       *string         `json:"journal_id,omitempty"`
	ProcessedBy     string          `json:"processed_by"`
	ProcessedAt     time.Time       `json:"processed_at"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PayrollSlip is the per-employee breakdown inside a payroll.
type PayrollSlip struct {
	ID                  string            `json:"id"`
	PayrollID           string            `json:"payroll_id"`
	EmployeeID          string            `json:"employee_id"`
	EmployeeName        string            `json:"employee_name"`
	PTKPStatus          PTKPStatus        `json:"ptkp_status"`
	BasicSalary         decimal.Decimal   `json:"basic_salary"`
	Allowances          []SalaryComponent `json:"allowances"`
	TotalAllowances     decimal.Decimal   `json:"total_allowances"`
	Gross               decimal.Decimal   `json:"gross"`
	Deductions          []SalaryComponent `json:"deductions"`
	TotalDeductions     decimal.Decimal   `json:"total_deductions"`
	BPJSKesehatan       decimal.Decimal   `json:"bpjs_kesehatan"`
	BPJSKetenagakerjaan decimal.Decimal   `json:"bpjs_ketenagakerjaan"`
	Tax                 decimal.Decimal   `json:"tax"`
	Net                 decimal.Decimal   `json:"net"`
	CreatedAt           time.Time         `json:"created_at"`
}

// BPJSTotal is the sum of both BPJS contributions on the slip.
func (s *PayrollSlip) BPJSTotal() decimal.Decimal {
	return s.BPJSKesehatan.Add(s.BPJSKetenagakerjaan)
}

// ComputeSlip derives one employee's slip for a payroll month. IDs and
// timestamps are left for the caller to fill in.
func ComputeSlip(emp *Employee, rates BPJSRates, month int) PayrollSlip {
	allowances := SumComponents(emp.Allowances)
	deductions := SumComponents(emp.Deductions)
	gross := emp.BasicSalary.Add(allowances)

	kesehatan := decimal.Zero
	if emp.BPJSKesehatan {
		kesehatan = emp.BasicSalary.Mul(rates.Kesehatan).Round(0)
	}
	ketenagakerjaan := decimal.Zero
	if emp.BPJSKetenagakerjaan {
		ketenagakerjaan = emp.BasicSalary.Mul(rates.Ketenagakerjaan).Round(0)
	}

	tax := ComputeWithholdingForMonth(emp.PTKPStatus, gross, month).MonthlyTax

	return PayrollSlip{
		EmployeeID:          emp.ID,
		EmployeeName:        emp.Name,
		PTKPStatus:          emp.PTKPStatus,
		BasicSalary:         emp.BasicSalary,
		Allowances:          emp.Allowances,
		TotalAllowances:     allowances,
		Gross:               gross,
		Deductions:          emp.Deductions,
		TotalDeductions:     deductions,
		BPJSKesehatan:       kesehatan,
		BPJSKetenagakerjaan: ketenagakerjaan,
		Tax:                 tax,
		Net:                 gross.Sub(deductions).Sub(kesehatan).Sub(ketenagakerjaan).Sub(tax),
	}
}

// PayrollTotals accumulates company-wide amounts across slips.
type PayrollTotals struct {
	Employees  int             `json:"employees"`
	Gross      decimal.Decimal `json:"gross"`
	Deductions decimal.Decimal `json:"deductions"`
	BPJS       decimal.Decimal `json:"bpjs"`
	Tax        decimal.Decimal `json:"tax"`
	Net        decimal.Decimal `json:"net"`
}

// Add folds a slip into the totals.
func (t *PayrollTotals) Add(s PayrollSlip) {
	t.Employees++
	t.Gross = t.Gross.Add(s.Gross)
	t.Deductions = t.Deductions.Add(s.TotalDeductions)
	t.BPJS = t.BPJS.Add(s.BPJSTotal())
	t.Tax = t.Tax.Add(s.Tax)
	t.Net = t.Net.Add(s.Net)
}

// ValidatePeriod checks a payroll month and year.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: month %d", ErrInvalidPeriod, month)
	}
	if year < 2000 || year > 2100 {
		return fmt.Errorf("%w: year %d", ErrInvalidPeriod, year)
	}
	return nil
}

// PeriodEnd returns the last calendar day of the period in UTC, the date
// payroll journals are booked on.
func PeriodEnd(month, year int) time.Time {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}
