package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gobooks/internal/domain"
	"github.com/iho/gobooks/internal/infrastructure/postgres/generated"
	"github.com/iho/gobooks/internal/usecase"
)

// JournalRepository implements usecase.JournalRepository.
type JournalRepository struct {
	queries *generated.Queries
}

// NewJournalRepository creates a new JournalRepository.
func NewJournalRepository(db generated.DBTX) *JournalRepository {
	return &JournalRepository{
		queries: generated.New(db),
	}
}

// NextSequence reserves the next number under prefix. The counter row is
// seeded from the highest number already stored, and the upsert holds its
// row lock until tx ends, so concurrent writers serialize here.
func (r *JournalRepository) NextSequence(ctx context.Context, tx usecase.Transaction, companyID, prefix string) (int, error) {
	seq, err := queriesFor(tx).NextJournalSequence(ctx, generated.NextJournalSequenceParams{
		CompanyID: companyID,
		Prefix:    prefix,
	})
	if err != nil {
		return 0, fmt.Errorf("next journal sequence: %w", err)
	}

	return int(seq), nil
}

// Create inserts the header and copies its lines.
func (r *JournalRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries := queriesFor(tx)

	err := queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:          entry.ID,
		CompanyID:   entry.CompanyID,
		JournalNo:   entry.JournalNo,
		Date:        timeToPgDate(entry.Date),
		Description: entry.Description,
		Source:      string(entry.Source),
		Status:      string(entry.Status),
		TotalDebit:  decimalToNumeric(entry.TotalDebit),
		TotalCredit: decimalToNumeric(entry.TotalCredit),
		CreatedBy:   entry.CreatedBy,
		PostedAt:    timePtrToPgTimestamptz(entry.PostedAt),
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return mapPgError(err)
	}

	return insertLines(ctx, queries, entry.Lines)
}

func insertLines(ctx context.Context, queries *generated.Queries, lines []domain.JournalLine) error {
	params := make([]generated.InsertJournalLinesParams, len(lines))
	for i, line := range lines {
		params[i] = generated.InsertJournalLinesParams{
			ID:          line.ID,
			JournalID:   line.JournalID,
			LineNo:      int32(line.LineNo),
			AccountID:   line.AccountID,
			Debit:       decimalToNumeric(line.Debit),
			Credit:      decimalToNumeric(line.Credit),
			Description: line.Description,
		}
	}

	copied, err := queries.InsertJournalLines(ctx, params)
	if err != nil {
		return mapPgError(err)
	}
	if copied != int64(len(lines)) {
		return fmt.Errorf("inserted %d of %d journal lines", copied, len(lines))
	}

	return nil
}

// GetByID retrieves an entry with its lines.
func (r *JournalRepository) GetByID(ctx context.Context, companyID, id string) (*domain.JournalEntry, error) {
	row, err := r.queries.GetJournalEntry(ctx, generated.GetJournalEntryParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJournalNotFound
		}

		return nil, err
	}

	return r.withLines(ctx, r.queries, row)
}

// GetByIDForUpdate locks the header row for the rest of tx.
func (r *JournalRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, companyID, id string) (*domain.JournalEntry, error) {
	queries := queriesFor(tx)

	row, err := queries.GetJournalEntryForUpdate(ctx, generated.GetJournalEntryForUpdateParams{CompanyID: companyID, ID: id})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJournalNotFound
		}

		return nil, err
	}

	return r.withLines(ctx, queries, row)
}

func (r *JournalRepository) withLines(ctx context.Context, queries *generated.Queries, row generated.JournalEntry) (*domain.JournalEntry, error) {
	lines, err := queries.ListJournalLines(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}

	entry := rowToJournalEntry(row)
	entry.Lines = make([]domain.JournalLine, len(lines))
	for i, l := range lines {
		entry.Lines[i] = rowToJournalLine(l)
	}

	return entry, nil
}

// UpdateDraft rewrites the header and replaces every line. The status guard
// lives in the UPDATE itself so a concurrent post cannot be overwritten.
func (r *JournalRepository) UpdateDraft(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries := queriesFor(tx)

	affected, err := queries.UpdateDraftJournal(ctx, generated.UpdateDraftJournalParams{
		CompanyID:   entry.CompanyID,
		ID:          entry.ID,
		JournalNo:   entry.JournalNo,
		Date:        timeToPgDate(entry.Date),
		Description: entry.Description,
		TotalDebit:  decimalToNumeric(entry.TotalDebit),
		TotalCredit: decimalToNumeric(entry.TotalCredit),
		UpdatedAt:   timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return mapPgError(err)
	}
	if affected == 0 {
		return domain.ErrImmutableEntry
	}

	if err := queries.DeleteJournalLines(ctx, entry.ID); err != nil {
		return mapPgError(err)
	}

	return insertLines(ctx, queries, entry.Lines)
}

// UpdateStatus moves entry to entry.Status provided the stored status is still from.
func (r *JournalRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry, from domain.JournalStatus) error {
	affected, err := queriesFor(tx).UpdateJournalStatus(ctx, generated.UpdateJournalStatusParams{
		CompanyID:  entry.CompanyID,
		ID:         entry.ID,
		Status:     string(entry.Status),
		PostedAt:   timePtrToPgTimestamptz(entry.PostedAt),
		VoidedAt:   timePtrToPgTimestamptz(entry.VoidedAt),
		VoidedBy:   stringPtrToPgText(entry.VoidedBy),
		VoidReason: entry.VoidReason,
		UpdatedAt:  timeToPgTimestamptz(entry.UpdatedAt),
		FromStatus: string(from),
	})
	if err != nil {
		return mapPgError(err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: entry is no longer %s", domain.ErrImmutableEntry, from)
	}

	return nil
}

// LinkReversal records reversalID as the one reversal of originalID.
// A second link for the same original fails with ErrAlreadyReversed.
func (r *JournalRepository) LinkReversal(ctx context.Context, tx usecase.Transaction, companyID, originalID, reversalID string, at time.Time) error {
	err := queriesFor(tx).CreateJournalReversal(ctx, generated.CreateJournalReversalParams{
		OriginalID: originalID,
		ReversalID: reversalID,
		CompanyID:  companyID,
		CreatedAt:  timeToPgTimestamptz(at),
	})
	if err != nil {
		return mapPgError(err)
	}

	return nil
}

// List returns entries, newest first, with their lines.
func (r *JournalRepository) List(ctx context.Context, filter domain.JournalFilter) ([]*domain.JournalEntry, error) {
	rows, err := r.queries.ListJournalEntries(ctx, generated.ListJournalEntriesParams{
		CompanyID: filter.CompanyID,
		Status:    optionalText(string(filter.Status)),
		Source:    optionalText(string(filter.Source)),
		FromDate:  timePtrToPgDate(filter.From),
		ToDate:    timePtrToPgDate(filter.To),
		Limit:     pageLimit(filter.Limit),
		Offset:    int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.JournalEntry, len(rows))
	if len(rows) == 0 {
		return entries, nil
	}

	ids := make([]string, len(rows))
	byID := make(map[string]*domain.JournalEntry, len(rows))
	for i, row := range rows {
		entries[i] = rowToJournalEntry(row)
		entries[i].Lines = []domain.JournalLine{}
		ids[i] = row.ID
		byID[row.ID] = entries[i]
	}

	lines, err := r.queries.ListJournalLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		if e, ok := byID[l.JournalID]; ok {
			e.Lines = append(e.Lines, rowToJournalLine(l))
		}
	}

	return entries, nil
}

// Totals sums every POSTED line of the company.
func (r *JournalRepository) Totals(ctx context.Context, companyID string) (decimal.Decimal, decimal.Decimal, error) {
	row, err := r.queries.SumPostedLines(ctx, companyID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(row.TotalDebit), numericToDecimal(row.TotalCredit), nil
}

func rowToJournalEntry(row generated.JournalEntry) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:          row.ID,
		CompanyID:   row.CompanyID,
		JournalNo:   row.JournalNo,
		Date:        row.Date.Time,
		Description: row.Description,
		Source:      domain.JournalSource(row.Source),
		Status:      domain.JournalStatus(row.Status),
		TotalDebit:  numericToDecimal(row.TotalDebit),
		TotalCredit: numericToDecimal(row.TotalCredit),
		CreatedBy:   row.CreatedBy,
		PostedAt:    pgTimestamptzToPtr(row.PostedAt),
		VoidedAt:    pgTimestamptzToPtr(row.VoidedAt),
		VoidedBy:    pgTextToPtr(row.VoidedBy),
		VoidReason:  row.VoidReason,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func rowToJournalLine(row generated.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		ID:          row.ID,
		JournalID:   row.JournalID,
		LineNo:      int(row.LineNo),
		AccountID:   row.AccountID,
		Debit:       numericToDecimal(row.Debit),
		Credit:      numericToDecimal(row.Credit),
		Description: row.Description,
	}
}
