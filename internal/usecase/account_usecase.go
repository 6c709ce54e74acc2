package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gobooks/internal/domain"
)

// AccountUseCase manages a company's chart of accounts.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
	audit       *auditor
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, auditRepo AuditRepository, idGen IDGenerator, logger zerolog.Logger) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
		audit:       newAuditor(auditRepo, idGen, logger, nil),
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	Actor    domain.Actor
	Code     string
	Name     string
	Type     domain.AccountType
	ParentID *string
	IsCash   bool
}

// CreateAccount adds an account to the actor's company.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		CompanyID: input.Actor.CompanyID,
		Code:      strings.TrimSpace(input.Code),
		Name:      strings.TrimSpace(input.Name),
		Type:      domain.AccountType(strings.ToUpper(string(input.Type))),
		ParentID:  input.ParentID,
		IsCash:    input.IsCash,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}
	if account.IsCash && account.Type != domain.AccountTypeAsset {
		return nil, fmt.Errorf("%w: only asset accounts can be cash accounts", domain.ErrValidation)
	}

	if account.ParentID != nil {
		parent, err := uc.accountRepo.GetByID(ctx, account.CompanyID, *account.ParentID, false)
		if err != nil {
			return nil, fmt.Errorf("parent: %w", err)
		}
		if parent.Type != account.Type {
			return nil, fmt.Errorf("%w: parent account %s is %s", domain.ErrInvalidAccountType, parent.Code, parent.Type)
		}
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.audit.record(ctx, input.Actor, domain.AuditActionAccountCreate, "account", account.ID, nil, account)

	return account, nil
}

// GetAccount retrieves a live account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, companyID, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, companyID, id, false)
}

// GetAccountByCode retrieves a live account by its chart code.
func (uc *AccountUseCase) GetAccountByCode(ctx context.Context, companyID, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, companyID, strings.TrimSpace(code), false)
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.ErrInvalidAccountType
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.accountRepo.List(ctx, companyID, filter)
}

// DeleteAccount soft-deletes an account. Posted history keeps referencing it.
func (uc *AccountUseCase) DeleteAccount(ctx context.Context, actor domain.Actor, id string) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	account, err := uc.accountRepo.GetByID(ctx, actor.CompanyID, id, false)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.SoftDelete(ctx, actor.CompanyID, id, time.Now().UTC()); err != nil {
		return err
	}

	uc.audit.record(ctx, actor, domain.AuditActionAccountDelete, "account", id, account, nil)

	return nil
}
