package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

// LedgerUseCase is the double-entry journal engine.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	journalRepo JournalRepository
	reportCache ReportCache
	idGen       IDGenerator
	audit       *auditor
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. reportCache and metrics may be nil.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	journalRepo JournalRepository,
	auditRepo AuditRepository,
	reportCache ReportCache,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		reportCache: reportCache,
		idGen:       idGen,
		audit:       newAuditor(auditRepo, idGen, logger, metrics),
		logger:      logger,
		metrics:     metrics,
	}
}

// RecordTransactionInput represents input for posting a journal entry.
// CompanyID may be left empty, in which case the actor's company is used.
type RecordTransactionInput struct {
	Actor       domain.Actor
	CompanyID   string
	Date        time.Time
	Description string
	Source      domain.JournalSource
	Lines       []domain.JournalLine
}

// UpdateDraftInput replaces the editable fields of a draft entry.
type UpdateDraftInput struct {
	Actor       domain.Actor
	JournalID   string
	Date        time.Time
	Description string
	Lines       []domain.JournalLine
}

// ConsistencyReport is the result of a ledger-wide balance check.
type ConsistencyReport struct {
	CompanyID   string          `json:"company_id"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Balanced    bool            `json:"balanced"`
}

// RecordTransaction validates and posts a balanced journal entry in its own transaction.
func (uc *LedgerUseCase) RecordTransaction(ctx context.Context, input RecordTransactionInput) (*domain.JournalEntry, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.RecordTransactionTx(txCtx, tx, input)
	if err != nil {
		return nil, uc.fail(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.fail(err)
	}

	if uc.metrics != nil {
		uc.metrics.JournalsPosted.WithLabelValues(string(entry.Source)).Inc()
		uc.metrics.JournalDuration.Observe(time.Since(start).Seconds())
	}

	uc.InvalidateReports(ctx, entry.CompanyID)
	uc.audit.record(ctx, input.Actor, domain.AuditActionJournalRecord, "journal", entry.ID, nil, entry)

	return entry, nil
}

// RecordTransactionTx posts a journal entry inside a caller-owned transaction.
// The caller commits and is responsible for invalidating cached reports.
func (uc *LedgerUseCase) RecordTransactionTx(ctx context.Context, tx Transaction, input RecordTransactionInput) (*domain.JournalEntry, error) {
	return uc.createEntry(ctx, tx, input, domain.JournalStatusPosted)
}

// CreateDraft stores a validated entry as DRAFT. Its number is reserved now.
func (uc *LedgerUseCase) CreateDraft(ctx context.Context, input RecordTransactionInput) (*domain.JournalEntry, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.createEntry(txCtx, tx, input, domain.JournalStatusDraft)
	if err != nil {
		return nil, uc.fail(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.fail(err)
	}

	uc.audit.record(ctx, input.Actor, domain.AuditActionJournalDraft, "journal", entry.ID, nil, entry)

	return entry, nil
}

// UpdateDraft replaces date, description and lines of a DRAFT entry.
func (uc *LedgerUseCase) UpdateDraft(ctx context.Context, input UpdateDraftInput) (*domain.JournalEntry, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.journalRepo.GetByIDForUpdate(txCtx, tx, input.Actor.CompanyID, input.JournalID)
	if err != nil {
		return nil, err
	}
	if err := entry.CanEdit(); err != nil {
		return nil, uc.fail(err)
	}
	before := *entry

	date, err := entryDate(input.Date)
	if err != nil {
		return nil, uc.fail(err)
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, uc.fail(err)
	}

	debit, credit, err := domain.ValidateLines(input.Lines)
	if err != nil {
		return nil, uc.fail(err)
	}
	if err := uc.checkAccounts(txCtx, tx, entry.CompanyID, input.Lines); err != nil {
		return nil, uc.fail(err)
	}

	// A draft moved into another month takes a number from that month.
	if domain.JournalPrefix(date) != domain.JournalPrefix(entry.Date) {
		journalNo, err := uc.nextJournalNo(txCtx, tx, entry.CompanyID, date)
		if err != nil {
			return nil, err
		}
		entry.JournalNo = journalNo
	}

	entry.Date = date
	entry.Description = strings.TrimSpace(input.Description)
	entry.Lines = uc.numberLines(entry.ID, input.Lines)
	entry.TotalDebit = debit
	entry.TotalCredit = credit
	entry.UpdatedAt = time.Now().UTC()

	if err := uc.journalRepo.UpdateDraft(txCtx, tx, entry); err != nil {
		return nil, uc.fail(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.fail(err)
	}

	uc.audit.record(ctx, input.Actor, domain.AuditActionJournalUpdate, "journal", entry.ID, &before, entry)

	return entry, nil
}

// PostDraft moves a DRAFT entry to POSTED after re-checking its accounts.
func (uc *LedgerUseCase) PostDraft(ctx context.Context, actor domain.Actor, journalID string) (*domain.JournalEntry, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.journalRepo.GetByIDForUpdate(txCtx, tx, actor.CompanyID, journalID)
	if err != nil {
		return nil, err
	}
	if err := entry.CanTransitionTo(domain.JournalStatusPosted); err != nil {
		return nil, uc.fail(err)
	}
	if _, _, err := domain.ValidateLines(entry.Lines); err != nil {
		return nil, uc.fail(err)
	}
	if err := uc.checkAccounts(txCtx, tx, entry.CompanyID, entry.Lines); err != nil {
		return nil, uc.fail(err)
	}

	now := time.Now().UTC()
	entry.Status = domain.JournalStatusPosted
	entry.PostedAt = &now
	entry.UpdatedAt = now

	if err := uc.journalRepo.UpdateStatus(txCtx, tx, entry, domain.JournalStatusDraft); err != nil {
		return nil, uc.fail(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.fail(err)
	}

	if uc.metrics != nil {
		uc.metrics.JournalsPosted.WithLabelValues(string(entry.Source)).Inc()
		uc.metrics.JournalDuration.Observe(time.Since(start).Seconds())
	}

	uc.InvalidateReports(ctx, entry.CompanyID)
	uc.audit.record(ctx, actor, domain.AuditActionJournalPost, "journal", entry.ID, nil, entry)

	return entry, nil
}

// VoidJournal marks a DRAFT or POSTED entry VOID. No reversing entry is
// created; use ReverseJournal for that.
func (uc *LedgerUseCase) VoidJournal(ctx context.Context, actor domain.Actor, journalID, reason string) (*domain.JournalEntry, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(reason); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	entry, err := uc.journalRepo.GetByIDForUpdate(txCtx, tx, actor.CompanyID, journalID)
	if err != nil {
		return nil, err
	}
	if err := entry.CanTransitionTo(domain.JournalStatusVoid); err != nil {
		return nil, uc.fail(err)
	}

	from := entry.Status
	now := time.Now().UTC()
	voidedBy := actor.UserID
	entry.Status = domain.JournalStatusVoid
	entry.VoidedAt = &now
	entry.VoidedBy = &voidedBy
	entry.VoidReason = strings.TrimSpace(reason)
	entry.UpdatedAt = now

	if err := uc.journalRepo.UpdateStatus(txCtx, tx, entry, from); err != nil {
		return nil, uc.fail(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.fail(err)
	}

	if uc.metrics != nil {
		uc.metrics.JournalsVoided.Inc()
	}

	if from == domain.JournalStatusPosted {
		uc.InvalidateReports(ctx, entry.CompanyID)
	}
	uc.audit.record(ctx, actor, domain.AuditActionJournalVoid, "journal", entry.ID, map[string]any{"status": from}, entry)

	return entry, nil
}

// ReverseJournal posts a new entry with debit and credit swapped. The
// original entry is left untouched and can be reversed only once. A zero
// date means today.
func (uc *LedgerUseCase) ReverseJournal(ctx context.Context, actor domain.Actor, journalID string, date time.Time) (*domain.JournalEntry, error) {
	if err := actor.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	if date.IsZero() {
		date = start.UTC()
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	original, err := uc.journalRepo.GetByIDForUpdate(txCtx, tx, actor.CompanyID, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.JournalStatusPosted {
		return nil, fmt.Errorf("%w: only posted entries can be reversed, %s is %s", domain.ErrInvalidTransition, original.JournalNo, original.Status)
	}

	reversal, err := uc.createEntry(txCtx, tx, RecordTransactionInput{
		Actor:       actor,
		Date:        date,
		Description: "Reversal of " + original.JournalNo,
		Source:      original.Source,
		Lines:       domain.ReversedLines(original.Lines),
	}, domain.JournalStatusPosted)
	if err != nil {
		return nil, uc.fail(err)
	}

	if err := uc.journalRepo.LinkReversal(txCtx, tx, actor.CompanyID, original.ID, reversal.ID, reversal.CreatedAt); err != nil {
		if errors.Is(err, domain.ErrAlreadyReversed) {
			return nil, fmt.Errorf("%w: %s", err, original.JournalNo)
		}
		return nil, uc.fail(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, uc.fail(err)
	}

	if uc.metrics != nil {
		uc.metrics.JournalsPosted.WithLabelValues(string(reversal.Source)).Inc()
		uc.metrics.JournalDuration.Observe(time.Since(start).Seconds())
	}

	uc.InvalidateReports(ctx, reversal.CompanyID)
	uc.audit.record(ctx, actor, domain.AuditActionJournalReverse, "journal", original.ID, nil, map[string]any{
		"reversal_id": reversal.ID,
		"journal_no":  reversal.JournalNo,
	})

	return reversal, nil
}

// GetJournal returns one entry with its lines.
func (uc *LedgerUseCase) GetJournal(ctx context.Context, companyID, id string) (*domain.JournalEntry, error) {
	return uc.journalRepo.GetByID(ctx, companyID, id)
}

// ListJournals lists entries newest first.
func (uc *LedgerUseCase) ListJournals(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	if filter.From != nil && filter.To != nil {
		if err := domain.ValidateDateRange(*filter.From, *filter.To); err != nil {
			return nil, err
		}
	}
	if filter.Source != "" && !filter.Source.Valid() {
		return nil, domain.ErrInvalidSource
	}
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)
	return uc.journalRepo.List(ctx, filter)
}

// CheckConsistency verifies that posted debits equal posted credits for a
// company. The report is returned alongside ErrInconsistentLedger when they differ.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, companyID string) (*ConsistencyReport, error) {
	debit, credit, err := uc.journalRepo.Totals(ctx, companyID)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		CompanyID:   companyID,
		TotalDebit:  debit,
		TotalCredit: credit,
		Balanced:    debit.Equal(credit),
	}

	if !report.Balanced {
		uc.logger.Error().
			Str("company_id", companyID).
			Str("debit", debit.StringFixed(2)).
			Str("credit", credit.StringFixed(2)).
			Msg("ledger is inconsistent")
		return report, domain.ErrInconsistentLedger
	}

	return report, nil
}

// InvalidateReports rotates the company's report cache generation. Failures
// only cost a stale read until the cache TTL expires, so they are logged.
func (uc *LedgerUseCase) InvalidateReports(ctx context.Context, companyID string) {
	if uc.reportCache == nil {
		return
	}
	if err := uc.reportCache.Invalidate(ctx, companyID); err != nil {
		uc.logger.Warn().Err(err).Str("company_id", companyID).Msg("report cache invalidation failed")
	}
}

func (uc *LedgerUseCase) createEntry(ctx context.Context, tx Transaction, input RecordTransactionInput, status domain.JournalStatus) (*domain.JournalEntry, error) {
	if err := input.Actor.Validate(); err != nil {
		return nil, err
	}

	companyID := input.CompanyID
	if companyID == "" {
		companyID = input.Actor.CompanyID
	}
	if companyID != input.Actor.CompanyID {
		return nil, domain.ErrCompanyMismatch
	}

	if !input.Source.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSource, input.Source)
	}
	date, err := entryDate(input.Date)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	// Balance is checked before anything touches the database.
	debit, credit, err := domain.ValidateLines(input.Lines)
	if err != nil {
		return nil, err
	}

	if err := uc.checkAccounts(ctx, tx, companyID, input.Lines); err != nil {
		return nil, err
	}

	journalNo, err := uc.nextJournalNo(ctx, tx, companyID, date)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	id := uc.idGen.Generate()
	entry := &domain.JournalEntry{
		ID:          id,
		CompanyID:   companyID,
		JournalNo:   journalNo,
		Date:        date,
		Description: strings.TrimSpace(input.Description),
		Source:      input.Source,
		Status:      status,
		Lines:       uc.numberLines(id, input.Lines),
		TotalDebit:  debit,
		TotalCredit: credit,
		CreatedBy:   input.Actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if status == domain.JournalStatusPosted {
		entry.PostedAt = &now
	}

	if err := uc.journalRepo.Create(ctx, tx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// checkAccounts requires every referenced account to exist in the company
// and accept postings.
func (uc *LedgerUseCase) checkAccounts(ctx context.Context, tx Transaction, companyID string, lines []domain.JournalLine) error {
	ids := domain.AccountIDs(lines)

	accounts, err := uc.accountRepo.GetByIDsTx(ctx, tx, companyID, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for _, id := range ids {
		account, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		}
		if err := account.CanPost(); err != nil {
			return fmt.Errorf("account %s: %w", account.Code, err)
		}
	}

	return nil
}

func (uc *LedgerUseCase) nextJournalNo(ctx context.Context, tx Transaction, companyID string, date time.Time) (string, error) {
	seq, err := uc.journalRepo.NextSequence(ctx, tx, companyID, domain.JournalPrefix(date))
	if err != nil {
		return "", err
	}
	return domain.FormatJournalNo(date, seq), nil
}

func (uc *LedgerUseCase) numberLines(journalID string, lines []domain.JournalLine) []domain.JournalLine {
	out := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		out[i] = domain.JournalLine{
			ID:          uc.idGen.Generate(),
			JournalID:   journalID,
			LineNo:      i + 1,
			AccountID:   line.AccountID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: strings.TrimSpace(line.Description),
		}
	}
	return out
}

func (uc *LedgerUseCase) fail(err error) error {
	if uc.metrics != nil {
		uc.metrics.JournalErrors.WithLabelValues(errorType(err)).Inc()
	}
	return err
}

// entryDate truncates t to a UTC calendar date.
func entryDate(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	return dateOf(t), nil
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrConfiguration):
		return "configuration"
	default:
		return "internal"
	}
}
