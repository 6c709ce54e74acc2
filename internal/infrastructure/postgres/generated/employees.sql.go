package generated

import (
	"context"
)

const listActiveEmployees = `-- name: ListActiveEmployees :many
SELECT id, company_id, employee_no, name, active, basic_salary, allowances, deductions, bpjs_kesehatan, bpjs_ketenagakerjaan, ptkp_status, created_at, updated_at, deleted_at FROM employees
WHERE company_id = $1 AND active AND deleted_at IS NULL
ORDER BY employee_no
FOR SHARE
`

func (q *Queries) ListActiveEmployees(ctx context.Context, companyID string) ([]Employee, error) {
	rows, err := q.db.Query(ctx, listActiveEmployees, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Employee
	for rows.Next() {
		var i Employee
		if err := rows.Scan(
			&i.ID,
			&i.CompanyID,
			&i.EmployeeNo,
			&i.Name,
			&i.Active,
			&i.BasicSalary,
			&i.Allowances,
			&i.Deductions,
			&i.BpjsKesehatan,
			&i.BpjsKetenagakerjaan,
			&i.PtkpStatus,
			&i.CreatedAt,
			&i.UpdatedAt,
			&i.DeletedAt,
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

const getEmployeeByID = `-- name: GetEmployeeByID :one
SELECT id, company_id, employee_no, name, active, basic_salary, allowances, deductions, bpjs_kesehatan, bpjs_ketenagakerjaan, ptkp_status, created_at, updated_at, deleted_at FROM employees
WHERE company_id = $1 AND id = $2 AND ($3::boolean OR deleted_at IS NULL)
`

type GetEmployeeByIDParams struct {
	CompanyID      string `json:"company_id"`
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted"`
}

func (q *Queries) GetEmployeeByID(ctx context.Context, arg GetEmployeeByIDParams) (Employee, error) {
	row := q.db.QueryRow(ctx, getEmployeeByID, arg.CompanyID, arg.ID, arg.IncludeDeleted)
	var i Employee
	err := row.Scan(
		&i.ID,
		&i.CompanyID,
		&i.EmployeeNo,
		&i.Name,
		&i.Active,
		&i.BasicSalary,
		&i.Allowances,
		&i.Deductions,
		&i.BpjsKesehatan,
		&i.BpjsKetenagakerjaan,
		&i.PtkpStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.DeletedAt,
	)
	return i, err
}
