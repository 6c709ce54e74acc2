package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
	"github.com/iho/gobooks/internal/usecase"
)

// PayrollRepository implements usecase.PayrollRepository.
type PayrollRepository struct {
	queries *generated.Queries
}

// NewPayrollRepository creates a new PayrollRepository.
func NewPayrollRepository(db generated.DBTX) *PayrollRepository {
	return &PayrollRepository{queries: generated.New(db)}
}

// GetByPeriod locks the payroll of a month if one exists.
func (r *PayrollRepository) GetByPeriod(ctx context.Context, tx usecase.Transaction, companyID string, month, year int) (*domain.Payroll, error) {
	row, err := queriesFor(tx).GetPayrollByPeriodForUpdate(ctx, generated.GetPayrollByPeriodForUpdateParams{
		CompanyID: companyID,
		Month:     int32(month),
		Year:      int32(year),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayrollNotFound
		}
		return nil, err
	}

	return rowToPayroll(row), nil
}

// Create inserts the payroll header. A second run for the same period loses
// on the unique constraint and surfaces as domain.ErrAlreadyProcessed.
func (r *PayrollRepository) Create(ctx context.Context, tx usecase.Transaction, p *domain.Payroll) error {
	err := queriesFor(tx).CreatePayroll(ctx, generated.CreatePayrollParams{
		ID:              p.ID,
		CompanyID:       p.CompanyID,
		Month:           int32(p.Month),
		Year:            int32(p.Year),
		Status:          string(p.Status),
		EmployeeCount:   int32(p.EmployeeCount),
		TotalGross:      decimalToNumeric(p.TotalGross),
		TotalDeductions: decimalToNumeric(p.TotalDeductions),
		TotalBpjs:       decimalToNumeric(p.TotalBPJS),
		TotalTax:        decimalToNumeric(p.TotalTax),
		TotalNet:        decimalToNumeric(p.TotalNet),
		JournalID:       stringPtrToPgText(p.JournalID),
		ProcessedBy:     p.ProcessedBy,
		ProcessedAt:     timeToPgTimestamptz(p.ProcessedAt),
		PaidAt:          timePtrToPgTimestamptz(p.PaidAt),
		CreatedAt:       timeToPgTimestamptz(p.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(p.UpdatedAt),
	})

	return mapPgError(err)
}

// CreateSlips copies all slips in one round trip.
func (r *PayrollRepository) CreateSlips(ctx context.Context, tx usecase.Transaction, slips []*domain.PayrollSlip) error {
	params := make([]generated.InsertPayrollSlipsParams, len(slips))
	for i, s := range slips {
		allowances, err := marshalJSON(s.Allowances)
		if err != nil {
			return err
		}
		deductions, err := marshalJSON(s.Deductions)
		if err != nil {
			return err
		}

		params[i] = generated.InsertPayrollSlipsParams{
			ID:                  s.ID,
			PayrollID:           s.PayrollID,
			EmployeeID:          s.EmployeeID,
			EmployeeName:        s.EmployeeName,
			PtkpStatus:          string(s.PTKPStatus),
			BasicSalary:         decimalToNumeric(s.BasicSalary),
			Allowances:          allowances,
			TotalAllowances:     decimalToNumeric(s.TotalAllowances),
			Gross:               decimalToNumeric(s.Gross),
			Deductions:          deductions,
			TotalDeductions:     decimalToNumeric(s.TotalDeductions),
			BpjsKesehatan:       decimalToNumeric(s.BPJSKesehatan),
			BpjsKetenagakerjaan: decimalToNumeric(s.BPJSKetenagakerjaan),
			Tax:                 decimalToNumeric(s.Tax),
			Net:                 decimalToNumeric(s.Net),
			CreatedAt:           timeToPgTimestamptz(s.CreatedAt),
		}
	}

	copied, err := queriesFor(tx).InsertPayrollSlips(ctx, params)
	if err != nil {
		return err
	}
	if copied != int64(len(slips)) {
		return fmt.Errorf("inserted %d of %d payroll slips", copied, len(slips))
	}

	return nil
}

// MarkPaid records the salary journal on a PROCESSED payroll.
func (r *PayrollRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, p *domain.Payroll) error {
	affected, err := queriesFor(tx).MarkPayrollPaid(ctx, generated.MarkPayrollPaidParams{
		ID:        p.ID,
		JournalID: stringPtrToPgText(p.JournalID),
		PaidAt:    timePtrToPgTimestamptz(p.PaidAt),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: payroll %s is not awaiting payment", domain.ErrConflict, p.ID)
	}

	return nil
}

// GetByID retrieves a payroll header.
func (r *PayrollRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Payroll, error) {
	row, err := r.queries.GetPayrollByID(ctx, generated.GetPayrollByIDParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPayrollNotFound
		}
		return nil, err
	}

	return rowToPayroll(row), nil
}

// List returns payrolls of a year, or all years when year is zero.
func (r *PayrollRepository) List(ctx context.Context, companyID string, year int) ([]*domain.Payroll, error) {
	rows, err := r.queries.ListPayrolls(ctx, generated.ListPayrollsParams{CompanyID: companyID, Year: int32(year)})
	if err != nil {
		return nil, err
	}

	payrolls := make([]*domain.Payroll, len(rows))
	for i, row := range rows {
		payrolls[i] = rowToPayroll(row)
	}

	return payrolls, nil
}

// ListSlips returns the slips of one payroll.
func (r *PayrollRepository) ListSlips(ctx context.Context, payrollID string) ([]*domain.PayrollSlip, error) {
	rows, err := r.queries.ListPayrollSlips(ctx, payrollID)
	if err != nil {
		return nil, err
	}

	slips := make([]*domain.PayrollSlip, 0, len(rows))
	for _, row := range rows {
		s := &domain.PayrollSlip{
			ID:                  row.ID,
			PayrollID:           row.PayrollID,
			EmployeeID:          row.EmployeeID,
			EmployeeName:        row.EmployeeName,
			PTKPStatus:          domain.PTKPStatus(row.PtkpStatus),
			BasicSalary:         numericToDecimal(row.BasicSalary),
			Allowances:          []domain.SalaryComponent{},
			TotalAllowances:     numericToDecimal(row.TotalAllowances),
			Gross:               numericToDecimal(row.Gross),
			Deductions:          []domain.SalaryComponent{},
			TotalDeductions:     numericToDecimal(row.TotalDeductions),
			BPJSKesehatan:       numericToDecimal(row.BpjsKesehatan),
			BPJSKetenagakerjaan: numericToDecimal(row.BpjsKetenagakerjaan),
			Tax:                 numericToDecimal(row.Tax),
			Net:                 numericToDecimal(row.Net),
			CreatedAt:           row.CreatedAt.Time,
		}
		if err := unmarshalJSON(row.Allowances, &s.Allowances); err != nil {
			return nil, fmt.Errorf("slip %s allowances: %w", row.ID, err)
		}
		if err := unmarshalJSON(row.Deductions, &s.Deductions); err != nil {
			return nil, fmt.Errorf("slip %s deductions: %w", row.ID, err)
		}
		slips = append(slips, s)
	}

	return slips, nil
}

func rowToPayroll(row generated.Payroll) *domain.Payroll {
	return &domain.Payroll{
		ID:              row.ID,
		CompanyID:       row.CompanyID,
		Month:           int(row.Month),
		Year:            int(row.Year),
		Status:          domain.PayrollStatus(row.Status),
		EmployeeCount:   int(row.EmployeeCount),
		TotalGross:      numericToDecimal(row.TotalGross),
		TotalDeductions: numericToDecimal(row.TotalDeductions),
		TotalBPJS:       numericToDecimal(row.TotalBpjs),
		TotalTax:        numericToDecimal(row.TotalTax),
		TotalNet:        numericToDecimal(row.TotalNet),
		JournalID:       pgTextToPtr(row.JournalID),
		ProcessedBy:     row.ProcessedBy,
		ProcessedAt:     row.ProcessedAt.Time,
		PaidAt:          pgTimestamptzToPtr(row.PaidAt),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

