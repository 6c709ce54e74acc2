package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// JournalPoster posts journal entries inside a caller's transaction.
// LedgerUseCase implements it.
type JournalPoster interface {
	RecordTransactionTx(ctx context.Context, tx Transaction, input RecordTransactionInput) (*domain.JournalEntry, error)
	InvalidateReports(ctx context.Context, companyID string)
}

// PayrollAccounts holds the chart codes the payroll journal posts to.
type PayrollAccounts struct {
	SalaryExpense     string
	TaxPayable        string
	BPJSPayable       string
	NetSalaryPayable  string
	DeductionsPayable string
}

// PayrollConfig configures the payroll engine.
type PayrollConfig struct {
	Accounts  PayrollAccounts
	BPJSRates domain.BPJSRates
}

// PayrollUseCase runs monthly payroll and posts its journal.
type PayrollUseCase struct {
	txManager    TransactionManager
	employeeRepo EmployeeRepository
	payrollRepo  PayrollRepository
	accountRepo  AccountRepository
	ledger       JournalPoster
	idGen        IDGenerator
	cfg          PayrollConfig
	audit        *auditor
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewPayrollUseCase creates a new PayrollUseCase.
func NewPayrollUseCase(
	txManager TransactionManager,
	employeeRepo EmployeeRepository,
	payrollRepo PayrollRepository,
	accountRepo AccountRepository,
	ledger JournalPoster,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cfg PayrollConfig,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *PayrollUseCase {
	return &PayrollUseCase{
		txManager:    txManager,
		employeeRepo: employeeRepo,
		payrollRepo:  payrollRepo,
		accountRepo:  accountRepo,
		ledger:       ledger,
		idGen:        idGen,
		cfg:          cfg,
		audit:        newAuditor(auditRepo, idGen, logger, metrics),
		logger:       logger,
		metrics:      metrics,
	}
}

// ProcessPayrollInput represents input for a monthly payroll run.
type ProcessPayrollInput struct {
	Actor domain.Actor
	Month int
	Year  int
}

// PayrollResult summarizes a completed payroll run.
type PayrollResult struct {
	BatchID   string               `json:"batch_id"`
	JournalID string               `json:"journal_id"`
	JournalNo string               `json:"journal_no"`
	Totals    domain.PayrollTotals `json:"totals"`
}

// PayrollPreview is a payroll computed without persisting anything.
type PayrollPreview struct {
	CompanyID string               `json:"company_id"`
	Month     int                  `json:"month"`
	Year      int                  `json:"year"`
	Slips     []domain.PayrollSlip `json:"slips"`
	Totals    domain.PayrollTotals `json:"totals"`
}

// ProcessMonthlyPayroll computes slips for every active employee, stores the
// batch and posts one consolidated journal, all in a single transaction.
// A period can be processed once per company.
func (uc *PayrollUseCase) ProcessMonthlyPayroll(ctx context.Context, input ProcessPayrollInput) (*PayrollResult, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidatePeriod(input.Month, input.Year); err != nil {
		return nil, err
	}

	start := time.Now()
	companyID := input.Actor.CompanyID

	result, err := uc.process(ctx, input)
	if err != nil {
		uc.observeRun(runStatus(err), start)
		uc.logger.Warn().Err(err).
			Str("company_id", companyID).
			Int("month", input.Month).
			Int("year", input.Year).
			Msg("payroll run failed")
		return nil, err
	}

	uc.observeRun("success", start)
	if uc.metrics != nil {
		uc.metrics.PayrollEmployees.Add(float64(result.Totals.Employees))
		uc.metrics.PayrollGross.Add(result.Totals.Gross.InexactFloat64())
	}

	uc.ledger.InvalidateReports(ctx, companyID)
	uc.audit.record(ctx, input.Actor, domain.AuditActionPayrollProcess, "payroll", result.BatchID, nil, result)

	uc.logger.Info().
		Str("company_id", companyID).
		Str("payroll_id", result.BatchID).
		Str("journal_no", result.JournalNo).
		Int("employees", result.Totals.Employees).
		Msg("payroll processed")

	return result, nil
}

func (uc *PayrollUseCase) process(ctx context.Context, input ProcessPayrollInput) (*PayrollResult, error) {
	companyID := input.Actor.CompanyID

	txCtx, cancel := context.WithTimeout(ctx, PayrollTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	existing, err := uc.payrollRepo.GetByPeriod(txCtx, tx, companyID, input.Month, input.Year)
	switch {
	case err == nil && existing != nil:
		return nil, fmt.Errorf("%w: %02d/%d", domain.ErrAlreadyProcessed, input.Month, input.Year)
	case err != nil && !errors.Is(err, domain.ErrPayrollNotFound):
		return nil, err
	}

	employees, err := uc.employeeRepo.ListActive(txCtx, tx, companyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	payrollID := uc.idGen.Generate()

	slips, totals, err := uc.computeSlips(employees, input.Month)
	if err != nil {
		return nil, err
	}

	lines, err := uc.journalLines(txCtx, tx, companyID, totals)
	if err != nil {
		return nil, err
	}

	payroll := &domain.Payroll{
		ID:              payrollID,
		CompanyID:       companyID,
		Month:           input.Month,
		Year:            input.Year,
		Status:          domain.PayrollStatusProcessed,
		EmployeeCount:   totals.Employees,
		TotalGross:      totals.Gross,
		TotalDeductions: totals.Deductions,
		TotalBPJS:       totals.BPJS,
		TotalTax:        totals.Tax,
		TotalNet:        totals.Net,
		ProcessedBy:     input.Actor.UserID,
		ProcessedAt:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.payrollRepo.Create(txCtx, tx, payroll); err != nil {
		return nil, err
	}

	slipPtrs := make([]*domain.PayrollSlip, len(slips))
	for i := range slips {
		slips[i].ID = uc.idGen.Generate()
		slips[i].PayrollID = payrollID
		slips[i].CreatedAt = now
		slipPtrs[i] = &slips[i]
	}
	if err := uc.payrollRepo.CreateSlips(txCtx, tx, slipPtrs); err != nil {
		return nil, err
	}

	entry, err := uc.ledger.RecordTransactionTx(txCtx, tx, RecordTransactionInput{
		Actor:       input.Actor,
		Date:        domain.PeriodEnd(input.Month, input.Year),
		Description: fmt.Sprintf("Payroll %02d/%d", input.Month, input.Year),
		Source:      domain.JournalSourcePayroll,
		Lines:       lines,
	})
	if err != nil {
		return nil, fmt.Errorf("post payroll journal: %w", err)
	}

	payroll.Status = domain.PayrollStatusPaid
	payroll.JournalID = &entry.ID
	payroll.PaidAt = &now
	payroll.UpdatedAt = now
	if err := uc.payrollRepo.MarkPaid(txCtx, tx, payroll); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return &PayrollResult{
		BatchID:   payrollID,
		JournalID: entry.ID,
		JournalNo: entry.JournalNo,
		Totals:    totals,
	}, nil
}

// PreviewPayroll computes the period's slips and totals without writing.
func (uc *PayrollUseCase) PreviewPayroll(ctx context.Context, actor domain.Actor, month, year int) (*PayrollPreview, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidatePeriod(month, year); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	employees, err := uc.employeeRepo.ListActive(txCtx, tx, actor.CompanyID)
	if err != nil {
		return nil, err
	}

	slips, totals, err := uc.computeSlips(employees, month)
	if err != nil {
		return nil, err
	}

	return &PayrollPreview{
		CompanyID: actor.CompanyID,
		Month:     month,
		Year:      year,
		Slips:     slips,
		Totals:    totals,
	}, nil
}

// GetPayroll returns one payroll header.
func (uc *PayrollUseCase) GetPayroll(ctx context.Context, companyID, id string) (*domain.Payroll, error) {
	return uc.payrollRepo.GetByID(ctx, companyID, id)
}

// ListPayrolls lists a company's payrolls, optionally for one year (0 = all).
func (uc *PayrollUseCase) ListPayrolls(ctx context.Context, companyID string, year int) ([]*domain.Payroll, error) {
	return uc.payrollRepo.List(ctx, companyID, year)
}

// ListSlips returns the slips of a payroll owned by companyID.
func (uc *PayrollUseCase) ListSlips(ctx context.Context, companyID, payrollID string) ([]*domain.PayrollSlip, error) {
	if _, err := uc.payrollRepo.GetByID(ctx, companyID, payrollID); err != nil {
		return nil, err
	}
	return uc.payrollRepo.ListSlips(ctx, payrollID)
}

func (uc *PayrollUseCase) computeSlips(employees []*domain.Employee, month int) ([]domain.PayrollSlip, domain.PayrollTotals, error) {
	var totals domain.PayrollTotals

	if len(employees) == 0 {
		return nil, totals, domain.ErrNoActiveEmployees
	}

	slips := make([]domain.PayrollSlip, 0, len(employees))
	for _, emp := range employees {
		if !emp.PTKPStatus.Valid() {
			return nil, totals, fmt.Errorf("employee %s: %w: %q", emp.EmployeeNo, domain.ErrInvalidPTKPStatus, emp.PTKPStatus)
		}
		slip := domain.ComputeSlip(emp, uc.cfg.BPJSRates, month)
		totals.Add(slip)
		slips = append(slips, slip)
	}

	return slips, totals, nil
}

// journalLines builds the consolidated payroll entry: salary expense on the
// debit side, and tax, BPJS, net salary and other deductions owed on the
// credit side. Zero amounts produce no line.
func (uc *PayrollUseCase) journalLines(ctx context.Context, tx Transaction, companyID string, totals domain.PayrollTotals) ([]domain.JournalLine, error) {
	type posting struct {
		code   string
		amount decimal.Decimal
		debit  bool
		desc   string
	}

	postings := []posting{
		{uc.cfg.Accounts.SalaryExpense, totals.Gross, true, "Gross salary"},
		{uc.cfg.Accounts.TaxPayable, totals.Tax, false, "PPh 21 withheld"},
		{uc.cfg.Accounts.BPJSPayable, totals.BPJS, false, "BPJS employee contributions"},
		{uc.cfg.Accounts.NetSalaryPayable, totals.Net, false, "Net salary payable"},
		{uc.cfg.Accounts.DeductionsPayable, totals.Deductions, false, "Other salary deductions"},
	}

	lines := make([]domain.JournalLine, 0, len(postings))
	for _, p := range postings {
		if p.amount.IsZero() {
			continue
		}

		account, err := uc.resolveAccount(ctx, tx, companyID, p.code)
		if err != nil {
			return nil, err
		}

		line := domain.JournalLine{AccountID: account.ID, Description: p.desc, Debit: decimal.Zero, Credit: decimal.Zero}
		if p.debit {
			line.Debit = p.amount
		} else {
			line.Credit = p.amount
		}
		lines = append(lines, line)
	}

	return lines, nil
}

func (uc *PayrollUseCase) resolveAccount(ctx context.Context, tx Transaction, companyID, code string) (*domain.Account, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: payroll account code is not configured", domain.ErrConfiguration)
	}

	account, err := uc.accountRepo.GetByCodeTx(ctx, tx, companyID, code)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: account %s is not in the chart of accounts", domain.ErrConfiguration, code)
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (uc *PayrollUseCase) observeRun(status string, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PayrollRuns.WithLabelValues(status).Inc()
	uc.metrics.PayrollDuration.Observe(time.Since(start).Seconds())
}

func runStatus(err error) string {
	if errors.Is(err, domain.ErrAlreadyProcessed) {
		return "already_processed"
	}
	return "failed"
}
