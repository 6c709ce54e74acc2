package usecase_test

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
	"github.com/iho/gobooks/internal/usecase/mocks"
)

const testCompany = "co-1"

var (
	accountant   = domain.Actor{UserID: "user-acct", CompanyID: testCompany, Role: domain.RoleAccountant}
	financeAdmin = domain.Actor{UserID: "user-fin", CompanyID: testCompany, Role: domain.RoleFinanceAdmin}
	superAdmin   = domain.Actor{UserID: "user-super", CompanyID: testCompany, Role: domain.RoleSuperAdmin}
	hrAdmin      = domain.Actor{UserID: "user-hr", CompanyID: testCompany, Role: domain.RoleHRAdmin}
	viewer       = domain.Actor{UserID: "user-view", CompanyID: testCompany, Role: domain.RoleViewer}
)

func money(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newAccount(id, code string, t domain.AccountType) *domain.Account {
	return &domain.Account{
		ID:        id,
		CompanyID: testCompany,
		Code:      code,
		Name:      code,
		Type:      t,
		Active:    true,
	}
}

func debit(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: money(amount), Credit: decimal.Zero}
}

func credit(accountID string, amount int64) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: money(amount)}
}

type ledgerFixture struct {
	txManager *mocks.MockTransactionManager
	accounts  *mocks.MockAccountRepository
	journals  *mocks.MockJournalRepository
	idGen     *mocks.MockIDGenerator
	ledger    *usecase.LedgerUseCase
}

// newLedgerFixture seeds a bank (cash), revenue, expense and two payroll
// liability accounts. auditRepo and cache may be nil.
func newLedgerFixture(auditRepo usecase.AuditRepository, cache usecase.ReportCache) *ledgerFixture {
	f := &ledgerFixture{
		txManager: mocks.NewMockTransactionManager(),
		accounts:  mocks.NewMockAccountRepository(),
		journals:  mocks.NewMockJournalRepository(),
		idGen:     mocks.NewMockIDGenerator(),
	}

	bank := newAccount("acc-bank", "1100", domain.AccountTypeAsset)
	bank.IsCash = true
	f.accounts.Add(
		bank,
		newAccount("acc-revenue", "4100", domain.AccountTypeRevenue),
		newAccount("acc-salary", "6100", domain.AccountTypeExpense),
		newAccount("acc-tax", "2110", domain.AccountTypeLiability),
		newAccount("acc-bpjs", "2120", domain.AccountTypeLiability),
		newAccount("acc-net", "2130", domain.AccountTypeLiability),
		newAccount("acc-other", "2140", domain.AccountTypeLiability),
	)

	f.ledger = usecase.NewLedgerUseCase(f.txManager, f.accounts, f.journals, auditRepo, cache, f.idGen, zerolog.Nop(), nil)
	return f
}

func jan(day int) time.Time {
	return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
}
