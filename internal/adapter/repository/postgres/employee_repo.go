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

// EmployeeRepository implements usecase.EmployeeRepository. The roster is
// maintained by another service; this side only reads it.
type EmployeeRepository struct {
	queries *generated.Queries
}

// NewEmployeeRepository creates a new EmployeeRepository.
func NewEmployeeRepository(db generated.DBTX) *EmployeeRepository {
	return &EmployeeRepository{queries: generated.New(db)}
}

// ListActive reads active employees with FOR SHARE so salary edits wait
// until the payroll run that read them commits.
func (r *EmployeeRepository) ListActive(ctx context.Context, tx usecase.Transaction, companyID string) ([]*domain.Employee, error) {
	rows, err := queriesFor(tx).ListActiveEmployees(ctx, companyID)
	if err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(rows))
	for _, row := range rows {
		e, err := rowToEmployee(row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, nil
}

// GetByID retrieves one employee.
func (r *EmployeeRepository) GetByID(ctx context.Context, companyID, id string, includeDeleted bool) (*domain.Employee, error) {
	row, err := r.queries.GetEmployeeByID(ctx, generated.GetEmployeeByIDParams{
		CompanyID:      companyID,
		ID:             id,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmployeeNotFound
		}
		return nil, err
	}

	return rowToEmployee(row)
}

func rowToEmployee(row generated.Employee) (*domain.Employee, error) {
	e := &domain.Employee{
		ID:                  row.ID,
		CompanyID:           row.CompanyID,
		EmployeeNo:          row.EmployeeNo,
		Name:                row.Name,
		Active:              row.Active,
		BasicSalary:         numericToDecimal(row.BasicSalary),
		Allowances:          []domain.SalaryComponent{},
		Deductions:          []domain.SalaryComponent{},
		BPJSKesehatan:       row.BpjsKesehatan,
		BPJSKetenagakerjaan: row.BpjsKetenagakerjaan,
		PTKPStatus:          domain.PTKPStatus(row.PtkpStatus),
		CreatedAt:           row.CreatedAt.Time,
		UpdatedAt:           row.UpdatedAt.Time,
		DeletedAt:           pgTimestamptzToPtr(row.DeletedAt),
	}

	if err := unmarshalJSON(row.Allowances, &e.Allowances); err != nil {
		return nil, fmt.Errorf("employee %s allowances: %w", row.ID, err)
	}
	if err := unmarshalJSON(row.Deductions, &e.Deductions); err != nil {
		return nil, fmt.Errorf("employee %s deductions: %w", row.ID, err)
	}

	return e, nil
}
