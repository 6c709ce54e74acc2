package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
	"github.com/iho/gobooks/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository. db is usually a *pgxpool.Pool.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(db),
	}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		CompanyID: account.CompanyID,
		Code:      account.Code,
		Name:      account.Name,
		Type:      string(account.Type),
		ParentID:  stringPtrToPgText(account.ParentID),
		IsCash:    account.IsCash,
		Active:    account.Active,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})

	return mapPgError(err)
}

// GetByID retrieves an account by ID within a company.
func (r *AccountRepository) GetByID(ctx context.Context, companyID, id string, includeDeleted bool) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, generated.GetAccountByIDParams{
		CompanyID:      companyID,
		ID:             id,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByCode retrieves an account by its company-scoped code.
func (r *AccountRepository) GetByCode(ctx context.Context, companyID, code string, includeDeleted bool) (*domain.Account, error) {
	return getAccountByCode(ctx, r.queries, companyID, code, includeDeleted)
}

// GetByCodeTx is GetByCode inside tx, skipping deleted accounts.
func (r *AccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, companyID, code string) (*domain.Account, error) {
	return getAccountByCode(ctx, queriesFor(tx), companyID, code, false)
}

func getAccountByCode(ctx context.Context, q *generated.Queries, companyID, code string, includeDeleted bool) (*domain.Account, error) {
	row, err := q.GetAccountByCode(ctx, generated.GetAccountByCodeParams{
		CompanyID:      companyID,
		Code:           code,
		IncludeDeleted: includeDeleted,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDsTx loads accounts with FOR SHARE locks so a concurrent delete
// cannot slip in before the referencing lines commit. Missing IDs are
// simply absent from the result.
func (r *AccountRepository) GetByIDsTx(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Account, error) {
	rows, err := queriesFor(tx).GetAccountsByIDsForShare(ctx, generated.GetAccountsByIDsForShareParams{
		CompanyID: companyID,
		Ids:       ids,
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = rowToAccount(row)
	}

	return accounts, nil
}

// List retrieves accounts ordered by code.
func (r *AccountRepository) List(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		CompanyID:      companyID,
		Type:           optionalText(string(filter.Type)),
		IncludeDeleted: filter.IncludeDeleted,
		Limit:          pageLimit(filter.Limit),
		Offset:         int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = rowToAccount(row)
	}

	return accounts, nil
}

// SoftDelete marks an account deleted. Deleting twice reports not found.
func (r *AccountRepository) SoftDelete(ctx context.Context, companyID, id string, at time.Time) error {
	affected, err := r.queries.SoftDeleteAccount(ctx, generated.SoftDeleteAccountParams{
		CompanyID: companyID,
		ID:        id,
		DeletedAt: timeToPgTimestamptz(at),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		CompanyID: row.CompanyID,
		Code:      row.Code,
		Name:      row.Name,
		Type:      domain.AccountType(row.Type),
		ParentID:  pgTextToPtr(row.ParentID),
		IsCash:    row.IsCash,
		Active:    row.Active,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
		DeletedAt: pgTimestamptzToPtr(row.DeletedAt),
	}
}
