package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
)

// ReportRepository implements usecase.ReportRepository on top of the
// posted journal lines.
type ReportRepository struct {
	queries *generated.Queries
}

// NewReportRepository creates a new ReportRepository. Pointing db at a read
// replica is fine; reports tolerate replication lag.
func NewReportRepository(db generated.DBTX) *ReportRepository {
	return &ReportRepository{queries: generated.New(db)}
}

// AccountBalances returns one row per account, including accounts with no
// activity. Soft-deleted accounts only appear while they still carry lines.
func (r *ReportRepository) AccountBalances(ctx context.Context, companyID string, asOf time.Time, types []domain.AccountType) ([]domain.AccountBalance, error) {
	var typeFilter []string
	if len(types) > 0 {
		typeFilter = make([]string, len(types))
		for i, t := range types {
			typeFilter[i] = string(t)
		}
	}

	rows, err := r.queries.AccountBalances(ctx, generated.AccountBalancesParams{
		CompanyID: companyID,
		AsOf:      timeToPgDate(asOf),
		Types:     typeFilter,
	})
	if err != nil {
		return nil, err
	}

	balances := make([]domain.AccountBalance, len(rows))
	for i, row := range rows {
		t := domain.AccountType(row.Type)
		debit := numericToDecimal(row.TotalDebit)
		credit := numericToDecimal(row.TotalCredit)
		balances[i] = domain.AccountBalance{
			AccountID: row.ID,
			Code:      row.Code,
			Name:      row.Name,
			Type:      t,
			Debit:     debit,
			Credit:    credit,
			Balance:   t.SignedBalance(debit, credit),
		}
	}

	return balances, nil
}

// CashBalance sums cash accounts strictly before the given date.
func (r *ReportRepository) CashBalance(ctx context.Context, companyID string, before time.Time) (decimal.Decimal, error) {
	n, err := r.queries.CashBalanceBefore(ctx, generated.CashBalanceBeforeParams{
		CompanyID: companyID,
		Before:    timeToPgDate(before),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(n), nil
}

// CashMovements groups the net cash change of a period by journal source.
func (r *ReportRepository) CashMovements(ctx context.Context, companyID string, start, end time.Time) ([]domain.CashMovement, error) {
	rows, err := r.queries.CashMovements(ctx, generated.CashMovementsParams{
		CompanyID: companyID,
		StartDate: timeToPgDate(start),
		EndDate:   timeToPgDate(end),
	})
	if err != nil {
		return nil, err
	}

	movements := make([]domain.CashMovement, len(rows))
	for i, row := range rows {
		movements[i] = domain.CashMovement{
			Source: domain.JournalSource(row.Source),
			Amount: numericToDecimal(row.Amount),
		}
	}

	return movements, nil
}
