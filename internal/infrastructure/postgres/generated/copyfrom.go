package generated

import (
	"context"
)

// iteratorForInsertJournalLines implements pgx.CopyFromSource.
type iteratorForInsertJournalLines struct {
	rows                 []InsertJournalLinesParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertJournalLines) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertJournalLines) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].JournalID,
		r.rows[0].LineNo,
		r.rows[0].AccountID,
		r.rows[0].Debit,
		r.rows[0].Credit,
		r.rows[0].Description,
	}, nil
}

func (r iteratorForInsertJournalLines) Err() error {
	return nil
}

func (q *Queries) InsertJournalLines(ctx context.Context, arg []InsertJournalLinesParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"journal_lines"}, []string{"id", "journal_id", "line_no", "account_id", "debit", "credit", "description"}, &iteratorForInsertJournalLines{rows: arg})
}

// iteratorForInsertPayrollSlips implements pgx.CopyFromSource.
type iteratorForInsertPayrollSlips struct {
	rows                 []InsertPayrollSlipsParams
	skippedFirstNextCall bool
}

func (r *iteratorForInsertPayrollSlips) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForInsertPayrollSlips) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].PayrollID,
		r.rows[0].EmployeeID,
		r.rows[0].EmployeeName,
		r.rows[0].PtkpStatus,
		r.rows[0].BasicSalary,
		r.rows[0].Allowances,
		r.rows[0].TotalAllowances,
		r.rows[0].Gross,
		r.rows[0].Deductions,
		r.rows[0].TotalDeductions,
		r.rows[0].BpjsKesehatan,
		r.rows[0].BpjsKetenagakerjaan,
		r.rows[0].Tax,
		r.rows[0].Net,
		r.rows[0].CreatedAt,
	}, nil
}

func (r iteratorForInsertPayrollSlips) Err() error {
	return nil
}

func (q *Queries) InsertPayrollSlips(ctx context.Context, arg []InsertPayrollSlipsParams) (int64, error) {
	return q.db.CopyFrom(ctx, []string{"payroll_slips"}, []string{"id", "payroll_id", "employee_id", "employee_name", "ptkp_status", "basic_salary", "allowances", "total_allowances", "gross", "deductions", "total_deductions", "bpjs_kesehatan", "bpjs_ketenagakerjaan", "tax", "net", "created_at"}, &iteratorForInsertPayrollSlips{rows: arg})
}
