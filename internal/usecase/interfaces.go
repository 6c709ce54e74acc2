package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
// Reads that could return soft-deleted rows take an explicit includeDeleted flag.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, companyID, id string, includeDeleted bool) (*domain.Account, error)
	GetByCode(ctx context.Context, companyID, code string, includeDeleted bool) (*domain.Account, error)
	GetByCodeTx(ctx context.Context, tx Transaction, companyID, code string) (*domain.Account, error)
	GetByIDsTx(ctx context.Context, tx Transaction, companyID string, ids []string) ([]*domain.Account, error)
	List(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error)
	SoftDelete(ctx context.Context, companyID, id string, at time.Time) error
}

// JournalRepository defines data access for journal entries and their lines.
type JournalRepository interface {
	// NextSequence atomically reserves the next number under prefix for the company.
	NextSequence(ctx context.Context, tx Transaction, companyID, prefix string) (int, error)
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, companyID, id string) (*domain.JournalEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.JournalEntry, error)
	// UpdateDraft replaces header fields and lines; it fails with
	// domain.ErrImmutableEntry unless the stored entry is still DRAFT.
	UpdateDraft(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	UpdateStatus(ctx context.Context, tx Transaction, entry *domain.JournalEntry, from domain.JournalStatus) error
	// LinkReversal fails with domain.ErrAlreadyReversed when originalID already has one.
	LinkReversal(ctx context.Context, tx Transaction, companyID, originalID, reversalID string, at time.Time) error
	List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error)
	Totals(ctx context.Context, companyID string) (debit, credit decimal.Decimal, err error)
}

// EmployeeRepository reads the employee roster.
type EmployeeRepository interface {
	ListActive(ctx context.Context, tx Transaction, companyID string) ([]*domain.Employee, error)
	GetByID(ctx context.Context, companyID, id string, includeDeleted bool) (*domain.Employee, error)
}

// PayrollRepository defines data access for payroll headers and slips.
type PayrollRepository interface {
	GetByPeriod(ctx context.Context, tx Transaction, companyID string, month, year int) (*domain.Payroll, error)
	// Create maps a period uniqueness violation to domain.ErrAlreadyProcessed.
	Create(ctx context.Context, tx Transaction, payroll *domain.Payroll) error
	CreateSlips(ctx context.Context, tx Transaction, slips []*domain.PayrollSlip) error
	MarkPaid(ctx context.Context, tx Transaction, payroll *domain.Payroll) error
	GetByID(ctx context.Context, companyID, id string) (*domain.Payroll, error)
	List(ctx context.Context, companyID string, year int) ([]*domain.Payroll, error)
	ListSlips(ctx context.Context, payrollID string) ([]*domain.PayrollSlip, error)
}

// ApprovalRepository defines data access for approval configs and requests.
type ApprovalRepository interface {
	CreateConfig(ctx context.Context, cfg *domain.ApprovalConfig) error
	GetConfig(ctx context.Context, companyID, id string) (*domain.ApprovalConfig, error)
	ListConfigs(ctx context.Context, companyID string, resourceType domain.ResourceType, includeInactive bool) ([]*domain.ApprovalConfig, error)
	DeactivateConfig(ctx context.Context, companyID, id string, at time.Time) error

	CreateRequest(ctx context.Context, tx Transaction, req *domain.ApprovalRequest) error
	GetRequest(ctx context.Context, companyID, id string) (*domain.ApprovalRequest, error)
	GetRequestForUpdate(ctx context.Context, tx Transaction, companyID, id string) (*domain.ApprovalRequest, error)
	UpdateRequest(ctx context.Context, tx Transaction, req *domain.ApprovalRequest) error
	AppendHistory(ctx context.Context, tx Transaction, entry domain.ApprovalHistory) error
	ListPending(ctx context.Context, companyID string, role domain.Role, limit, offset int) ([]*domain.ApprovalRequest, error)
}

// ReportRepository runs the ledger aggregations behind financial statements.
type ReportRepository interface {
	// AccountBalances sums POSTED lines dated on or before asOf. An empty
	// types slice means every account type.
	AccountBalances(ctx context.Context, companyID string, asOf time.Time, types []domain.AccountType) ([]domain.AccountBalance, error)
	// CashBalance is debit minus credit on cash accounts for POSTED lines dated before before.
	CashBalance(ctx context.Context, companyID string, before time.Time) (decimal.Decimal, error)
	// CashMovements groups net cash change by journal source between start and end inclusive.
	CashMovements(ctx context.Context, companyID string, start, end time.Time) ([]domain.CashMovement, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
}

// ErrCacheMiss is returned by ReportCache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ReportCache stores rendered reports. Keys embed a per-company generation
// that writers bump after every ledger change.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Generation(ctx context.Context, companyID string) (int64, error)
	Invalidate(ctx context.Context, companyID string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release removes the key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// Retrier re-runs an operation on transient database failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}
