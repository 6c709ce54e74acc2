package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const payrollColumns = `id, company_id, month, year, status, employee_count, total_gross, total_deductions, total_bpjs, total_tax, total_net, journal_id, processed_by, processed_at, paid_at, created_at, updated_at`

const getPayrollByPeriodForUpdate = `-- name: GetPayrollByPeriodForUpdate :one
SELECT ` + payrollColumns + ` FROM payrolls
WHERE company_id = $1 AND month = $2 AND year = $3
FOR UPDATE
`

type GetPayrollByPeriodForUpdateParams struct {
	CompanyID string `json:"company_id"`
	Month     int32  `json:"month"`
	Year      int32  `json:"year"`
}

func (q *Queries) GetPayrollByPeriodForUpdate(ctx context.Context, arg GetPayrollByPeriodForUpdateParams) (Payroll, error) {
	row := q.db.QueryRow(ctx, getPayrollByPeriodForUpdate, arg.CompanyID, arg.Month, arg.Year)
	return scanPayroll(row)
}

const createPayroll = `-- name: CreatePayroll :exec
INSERT INTO payrolls (` + payrollColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
`

type CreatePayrollParams struct {
	ID              string             `json:"id"`
	CompanyID       string             `json:"company_id"`
	Month           int32              `json:"month"`
	Year            int32              `json:"year"`
	Status          string             `json:"status"`
	EmployeeCount   int32              `json:"employee_count"`
	TotalGross      pgtype.Numeric     `json:"total_gross"`
	TotalDeductions pgtype.Numeric     `json:"total_deductions"`
	TotalBpjs       pgtype.Numeric     `json:"total_bpjs"`
	TotalTax        pgtype.Numeric     `json:"total_tax"`
	TotalNet        pgtype.Numeric     `json:"total_net"`
	JournalID       pgtype.Text        `json:"journal_id"`
	ProcessedBy     string             `json:"processed_by"`
	ProcessedAt     pgtype.Timestamptz `json:"processed_at"`
	PaidAt          pgtype.Timestamptz `json:"paid_at"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreatePayroll(ctx context.Context, arg CreatePayrollParams) error {
	_, err := q.db.Exec(ctx, createPayroll,
		arg.ID,
		arg.CompanyID,
		arg.Month,
		arg.Year,
		arg.Status,
		arg.EmployeeCount,
		arg.TotalGross,
		arg.TotalDeductions,
		arg.TotalBpjs,
		arg.TotalTax,
		arg.TotalNet,
		arg.JournalID,
		arg.ProcessedBy,
		arg.ProcessedAt,
		arg.PaidAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

type InsertPayrollSlipsParams struct {
	ID                  string             `json:"id"`
	PayrollID           string             `json:"payroll_id"`
	EmployeeID          string             `json:"employee_id"`
	EmployeeName        string             `json:"employee_name"`
	PtkpStatus          string             `json:"ptkp_status"`
	BasicSalary         pgtype.Numeric     `json:"basic_salary"`
	Allowances          []byte             `json:"allowances"`
	TotalAllowances     pgtype.Numeric     `json:"total_allowances"`
	Gross               pgtype.Numeric     `json:"gross"`
	Deductions          []byte             `json:"deductions"`
	TotalDeductions     pgtype.Numeric     `json:"total_deductions"`
	BpjsKesehatan       pgtype.Numeric     `json:"bpjs_kesehatan"`
	BpjsKetenagakerjaan pgtype.Numeric     `json:"bpjs_ketenagakerjaan"`
	Tax                 pgtype.Numeric     `json:"tax"`
	Net                 pgtype.Numeric     `json:"net"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

const markPayrollPaid = `-- name: MarkPayrollPaid :execrows
UPDATE payrolls SET status = 'PAID', journal_id = $2, paid_at = $3, updated_at = $3
WHERE id = $1 AND status = 'PROCESSED'
`

type MarkPayrollPaidParams struct {
	ID        string             `json:"id"`
	JournalID pgtype.Text        `json:"journal_id"`
	PaidAt    pgtype.Timestamptz `json:"paid_at"`
}

func (q *Queries) MarkPayrollPaid(ctx context.Context, arg MarkPayrollPaidParams) (int64, error) {
	result, err := q.db.Exec(ctx, markPayrollPaid, arg.ID, arg.JournalID, arg.PaidAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getPayrollByID = `-- name: GetPayrollByID :one
SELECT ` + payrollColumns + ` FROM payrolls
WHERE company_id = $1 AND id = $2
`

type GetPayrollByIDParams struct {
	CompanyID string `json:"company_id"`
	ID        string `json:"id"`
}

func (q *Queries) GetPayrollByID(ctx context.Context, arg GetPayrollByIDParams) (Payroll, error) {
	row := q.db.QueryRow(ctx, getPayrollByID, arg.CompanyID, arg.ID)
	return scanPayroll(row)
}

const listPayrolls = `-- name: ListPayrolls :many
SELECT ` + payrollColumns + ` FROM payrolls
WHERE company_id = $1 AND ($2::integer = 0 OR year = $2::integer)
ORDER BY year DESC, month DESC
`

type ListPayrollsParams struct {
	CompanyID string `json:"company_id"`
	Year      int32  `json:"year"`
}

func (q *Queries) ListPayrolls(ctx context.Context, arg ListPayrollsParams) ([]Payroll, error) {
	rows, err := q.db.Query(ctx, listPayrolls, arg.CompanyID, arg.Year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Payroll
	for rows.Next() {
		i, err := scanPayroll(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanPayroll(row rowScanner) (Payroll, error) {
	var i Payroll
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.Month,
		&i.Year,
		&i.Status,
		&i.EmployeeCount,
		&i.TotalGross,
		&i.TotalDeductions,
		&i.TotalBpjs,
		&i.TotalTax,
		&i.TotalNet,
		&i.JournalID,
		&i.ProcessedBy,
		&i.ProcessedAt,
		&i.PaidAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPayrollSlips = `-- name: ListPayrollSlips :many
SELECT id, payroll_id, employee_id, employee_name, ptkp_status, basic_salary, allowances, total_allowances, gross, deductions, total_deductions, bpjs_kesehatan, bpjs_ketenagakerjaan, tax, net, created_at FROM payroll_slips
WHERE payroll_id = $1
ORDER BY employee_name, employee_id
`

func (q *Queries) ListPayrollSlips(ctx context.Context, payrollID string) ([]PayrollSlip, error) {
	rows, err := q.db.Query(ctx, listPayrollSlips, payrollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PayrollSlip
	for rows.Next() {
		var i PayrollSlip
		if err := rows.Scan(
			&i.ID,
			&i.PayrollID,
			&i.EmployeeID,
			&i.EmployeeName,
			&i.PtkpStatus,
			&i.BasicSalary,
			&i.Allowances,
			&i.TotalAllowances,
			&i.Gross,
			&i.Deductions,
			&i.TotalDeductions,
			&i.BpjsKesehatan,
			&i.BpjsKetenagakerjaan,
			&i.Tax,
			&i.Net,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
