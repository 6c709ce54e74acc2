package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/usecase"
)

// MockTransaction records whether it was committed or rolled back.
type MockTransaction struct {
	mu         sync.Mutex
	Committed  bool
	RolledBack bool
	CommitFunc func(ctx context.Context) error
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		if err := t.CommitFunc(ctx); err != nil {
			return err
		}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions and keeps them for inspection.
type MockTransactionManager struct {
	mu        sync.Mutex
	Txs       []*MockTransaction
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.Txs = append(m.Txs, tx)
	m.mu.Unlock()
	return tx, nil
}

// Last returns the most recently started transaction.
func (m *MockTransactionManager) Last() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Txs) == 0 {
		return nil
	}
	return m.Txs[len(m.Txs)-1]
}

// MockIDGenerator returns id-1, id-2, ... unless GenerateFunc is set.
type MockIDGenerator struct {
	mu           sync.Mutex
	counter      int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockAccountRepository is an in-memory chart of accounts.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc     func(ctx context.Context, account *domain.Account) error
	GetByIDsTxFunc func(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Account, error)
	SoftDeleteFunc func(ctx context.Context, companyID, id string, at time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Add seeds an account without going through Create.
func (m *MockAccountRepository) Add(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.accounts {
		if a.CompanyID == account.CompanyID && a.Code == account.Code {
			return domain.ErrDuplicateAccountCode
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, companyID, id string, includeDeleted bool) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok || a.CompanyID != companyID || (a.IsDeleted() && !includeDeleted) {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, companyID, code string, includeDeleted bool) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.CompanyID == companyID && a.Code == code && (includeDeleted || !a.IsDeleted()) {
			return a, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCodeTx(ctx context.Context, tx usecase.Transaction, companyID, code string) (*domain.Account, error) {
	return m.GetByCode(ctx, companyID, code, false)
}

func (m *MockAccountRepository) GetByIDsTx(ctx context.Context, tx usecase.Transaction, companyID string, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsTxFunc != nil {
		return m.GetByIDsTxFunc(ctx, tx, companyID, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, id := range ids {
		if a, ok := m.accounts[id]; ok && a.CompanyID == companyID && !a.IsDeleted() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAccountRepository) List(ctx context.Context, companyID string, filter domain.AccountFilter) ([]*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Account
	for _, a := range m.accounts {
		if a.CompanyID != companyID || (a.IsDeleted() && !filter.IncludeDeleted) {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, filter.Limit, filter.Offset), nil
}

func (m *MockAccountRepository) SoftDelete(ctx context.Context, companyID, id string, at time.Time) error {
	if m.SoftDeleteFunc != nil {
		return m.SoftDeleteFunc(ctx, companyID, id, at)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.CompanyID != companyID || a.IsDeleted() {
		return domain.ErrAccountNotFound
	}
	a.DeletedAt = &at
	return nil
}

// MockJournalRepository is an in-memory journal store with per-prefix counters.
type MockJournalRepository struct {
	mu        sync.RWMutex
	entries   map[string]*domain.JournalEntry
	sequences map[string]int
	reversals map[string]string

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error
	NextSequenceFunc func(ctx context.Context, tx usecase.Transaction, companyID, prefix string) (int, error)
	TotalsFunc       func(ctx context.Context, companyID string) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockJournalRepository() *MockJournalRepository {
	return &MockJournalRepository{
		entries:   make(map[string]*domain.JournalEntry),
		sequences: make(map[string]int),
		reversals: make(map[string]string),
	}
}

// Entries returns stored entries ordered by journal number.
func (m *MockJournalRepository) Entries() []*domain.JournalEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.JournalEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JournalNo < out[j].JournalNo })
	return out
}

func (m *MockJournalRepository) NextSequence(ctx context.Context, tx usecase.Transaction, companyID, prefix string) (int, error) {
	if m.NextSequenceFunc != nil {
		return m.NextSequenceFunc(ctx, tx, companyID, prefix)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := companyID + "/" + prefix
	m.sequences[key]++
	return m.sequences[key], nil
}

func (m *MockJournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.CompanyID == entry.CompanyID && e.JournalNo == entry.JournalNo {
			return domain.ErrDuplicateJournalNo
		}
	}
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *MockJournalRepository) GetByID(ctx context.Context, companyID, id string) (*domain.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok || e.CompanyID != companyID {
		return nil, domain.ErrJournalNotFound
	}
	out := *e
	return &out, nil
}

func (m *MockJournalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.JournalEntry, error) {
	return m.GetByID(ctx, companyID, id)
}

func (m *MockJournalRepository) UpdateDraft(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entry.ID]
	if !ok {
		return domain.ErrJournalNotFound
	}
	if e.Status != domain.JournalStatusDraft {
		return domain.ErrImmutableEntry
	}
	stored := *entry
	m.entries[entry.ID] = &stored
	return nil
}

func (m *MockJournalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry, from domain.JournalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[entry.ID]
	if !ok {
		return domain.ErrJournalNotFound
	}
	if e.Status != from {
		return domain.ErrImmutableEntry
	}
	e.Status = entry.Status
	e.PostedAt = entry.PostedAt
	e.VoidedAt = entry.VoidedAt
	e.VoidedBy = entry.VoidedBy
	e.VoidReason = entry.VoidReason
	e.UpdatedAt = entry.UpdatedAt
	return nil
}

func (m *MockJournalRepository) LinkReversal(ctx context.Context, tx usecase.Transaction, companyID, originalID, reversalID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reversals[originalID]; ok {
		return domain.ErrAlreadyReversed
	}
	m.reversals[originalID] = reversalID
	return nil
}

// ReversalOf returns the reversal linked to originalID, if any.
func (m *MockJournalRepository) ReversalOf(originalID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.reversals[originalID]
	return id, ok
}

func (m *MockJournalRepository) List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	var out []*domain.JournalEntry
	for _, e := range m.Entries() {
		if e.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}
	return page(out, filter.Limit, filter.Offset), nil
}

func (m *MockJournalRepository) Totals(ctx context.Context, companyID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, companyID)
	}
	debit, credit := decimal.Zero, decimal.Zero
	for _, e := range m.Entries() {
		if e.CompanyID != companyID || e.Status != domain.JournalStatusPosted {
			continue
		}
		for _, l := range e.Lines {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
	}
	return debit, credit, nil
}

// MockEmployeeRepository serves a fixed roster.
type MockEmployeeRepository struct {
	Employees      []*domain.Employee
	ListActiveFunc func(ctx context.Context, tx usecase.Transaction, companyID string) ([]*domain.Employee, error)
}

func (m *MockEmployeeRepository) ListActive(ctx context.Context, tx usecase.Transaction, companyID string) ([]*domain.Employee, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, tx, companyID)
	}
	var out []*domain.Employee
	for _, e := range m.Employees {
		if e.CompanyID == companyID && e.Active && e.DeletedAt == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockEmployeeRepository) GetByID(ctx context.Context, companyID, id string, includeDeleted bool) (*domain.Employee, error) {
	for _, e := range m.Employees {
		if e.ID == id && e.CompanyID == companyID && (includeDeleted || e.DeletedAt == nil) {
			return e, nil
		}
	}
	return nil, domain.ErrEmployeeNotFound
}

// MockPayrollRepository is an in-memory payroll store.
type MockPayrollRepository struct {
	mu       sync.RWMutex
	payrolls map[string]*domain.Payroll
	slips    map[string][]*domain.PayrollSlip

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, payroll *domain.Payroll) error
	CreateSlipsFunc func(ctx context.Context, tx usecase.Transaction, slips []*domain.PayrollSlip) error
}

func NewMockPayrollRepository() *MockPayrollRepository {
	return &MockPayrollRepository{
		payrolls: make(map[string]*domain.Payroll),
		slips:    make(map[string][]*domain.PayrollSlip),
	}
}

func (m *MockPayrollRepository) GetByPeriod(ctx context.Context, tx usecase.Transaction, companyID string, month, year int) (*domain.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.payrolls {
		if p.CompanyID == companyID && p.Month == month && p.Year == year {
			return p, nil
		}
	}
	return nil, domain.ErrPayrollNotFound
}

func (m *MockPayrollRepository) Create(ctx context.Context, tx usecase.Transaction, payroll *domain.Payroll) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payroll)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payrolls {
		if p.CompanyID == payroll.CompanyID && p.Month == payroll.Month && p.Year == payroll.Year {
			return domain.ErrAlreadyProcessed
		}
	}
	stored := *payroll
	m.payrolls[payroll.ID] = &stored
	return nil
}

func (m *MockPayrollRepository) CreateSlips(ctx context.Context, tx usecase.Transaction, slips []*domain.PayrollSlip) error {
	if m.CreateSlipsFunc != nil {
		return m.CreateSlipsFunc(ctx, tx, slips)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slips {
		m.slips[s.PayrollID] = append(m.slips[s.PayrollID], s)
	}
	return nil
}

func (m *MockPayrollRepository) MarkPaid(ctx context.Context, tx usecase.Transaction, payroll *domain.Payroll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payrolls[payroll.ID]
	if !ok {
		return domain.ErrPayrollNotFound
	}
	p.Status = payroll.Status
	p.JournalID = payroll.JournalID
	p.PaidAt = payroll.PaidAt
	p.UpdatedAt = payroll.UpdatedAt
	return nil
}

func (m *MockPayrollRepository) GetByID(ctx context.Context, companyID, id string) (*domain.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payrolls[id]
	if !ok || p.CompanyID != companyID {
		return nil, domain.ErrPayrollNotFound
	}
	return p, nil
}

func (m *MockPayrollRepository) List(ctx context.Context, companyID string, year int) ([]*domain.Payroll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Payroll
	for _, p := range m.payrolls {
		if p.CompanyID == companyID && (year == 0 || p.Year == year) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockPayrollRepository) ListSlips(ctx context.Context, payrollID string) ([]*domain.PayrollSlip, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slips[payrollID], nil
}

// MockApprovalRepository is an in-memory approval store.
type MockApprovalRepository struct {
	mu       sync.RWMutex
	configs  map[string]*domain.ApprovalConfig
	requests map[string]*domain.ApprovalRequest
	History  []domain.ApprovalHistory

	ListConfigsFunc func(ctx context.Context, companyID string, resourceType domain.ResourceType, includeInactive bool) ([]*domain.ApprovalConfig, error)
}

func NewMockApprovalRepository() *MockApprovalRepository {
	return &MockApprovalRepository{
		configs:  make(map[string]*domain.ApprovalConfig),
		requests: make(map[string]*domain.ApprovalRequest),
	}
}

func (m *MockApprovalRepository) CreateConfig(ctx context.Context, cfg *domain.ApprovalConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.ID] = cfg
	return nil
}

func (m *MockApprovalRepository) GetConfig(ctx context.Context, companyID, id string) (*domain.ApprovalConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.configs[id]
	if !ok || c.CompanyID != companyID {
		return nil, domain.ErrApprovalConfigNotFound
	}
	return c, nil
}

func (m *MockApprovalRepository) ListConfigs(ctx context.Context, companyID string, resourceType domain.ResourceType, includeInactive bool) ([]*domain.ApprovalConfig, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx, companyID, resourceType, includeInactive)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ApprovalConfig
	for _, c := range m.configs {
		if c.CompanyID != companyID || (!c.Active && !includeInactive) {
			continue
		}
		if resourceType != "" && c.ResourceType != resourceType {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *MockApprovalRepository) DeactivateConfig(ctx context.Context, companyID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.configs[id]
	if !ok || c.CompanyID != companyID {
		return domain.ErrApprovalConfigNotFound
	}
	c.Active = false
	c.UpdatedAt = at
	return nil
}

func (m *MockApprovalRepository) CreateRequest(ctx context.Context, tx usecase.Transaction, req *domain.ApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = cloneRequest(req)
	return nil
}

func (m *MockApprovalRepository) GetRequest(ctx context.Context, companyID, id string) (*domain.ApprovalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok || r.CompanyID != companyID {
		return nil, domain.ErrApprovalNotFound
	}
	return cloneRequest(r), nil
}

func (m *MockApprovalRepository) GetRequestForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.ApprovalRequest, error) {
	return m.GetRequest(ctx, companyID, id)
}

func (m *MockApprovalRepository) UpdateRequest(ctx context.Context, tx usecase.Transaction, req *domain.ApprovalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return domain.ErrApprovalNotFound
	}
	m.requests[req.ID] = cloneRequest(req)
	return nil
}

func (m *MockApprovalRepository) AppendHistory(ctx context.Context, tx usecase.Transaction, entry domain.ApprovalHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History = append(m.History, entry)
	return nil
}

func (m *MockApprovalRepository) ListPending(ctx context.Context, companyID string, role domain.Role, limit, offset int) ([]*domain.ApprovalRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.ApprovalRequest
	for _, r := range m.requests {
		if r.CompanyID != companyID || r.Status.IsFinal() {
			continue
		}
		if step, err := r.CurrentStepDef(); err == nil && (role == "" || step.Role == role) {
			out = append(out, cloneRequest(r))
		}
	}
	return page(out, limit, offset), nil
}

func cloneRequest(r *domain.ApprovalRequest) *domain.ApprovalRequest {
	out := *r
	out.Steps = append([]domain.ApprovalStep(nil), r.Steps...)
	out.History = append([]domain.ApprovalHistory(nil), r.History...)
	return &out
}

// MockReportRepository delegates to its func fields; unset funcs return empty results.
type MockReportRepository struct {
	AccountBalancesFunc func(ctx context.Context, companyID string, asOf time.Time, types []domain.AccountType) ([]domain.AccountBalance, error)
	CashBalanceFunc     func(ctx context.Context, companyID string, before time.Time) (decimal.Decimal, error)
	CashMovementsFunc   func(ctx context.Context, companyID string, start, end time.Time) ([]domain.CashMovement, error)
}

func (m *MockReportRepository) AccountBalances(ctx context.Context, companyID string, asOf time.Time, types []domain.AccountType) ([]domain.AccountBalance, error) {
	if m.AccountBalancesFunc != nil {
		return m.AccountBalancesFunc(ctx, companyID, asOf, types)
	}
	return nil, nil
}

func (m *MockReportRepository) CashBalance(ctx context.Context, companyID string, before time.Time) (decimal.Decimal, error) {
	if m.CashBalanceFunc != nil {
		return m.CashBalanceFunc(ctx, companyID, before)
	}
	return decimal.Zero, nil
}

func (m *MockReportRepository) CashMovements(ctx context.Context, companyID string, start, end time.Time) ([]domain.CashMovement, error) {
	if m.CashMovementsFunc != nil {
		return m.CashMovementsFunc(ctx, companyID, start, end)
	}
	return nil, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
